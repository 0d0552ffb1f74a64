// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"cradle-host/internal/config"
	"cradle-host/internal/launch"
	"cradle-host/internal/resolver"
	"cradle-host/pkg/bundle"
	"cradle-host/pkg/depsfile"
	"cradle-host/pkg/fspath"
	"cradle-host/pkg/types"

	"github.com/spf13/cobra"
)

// launchFlags collects the flag values shared by every resolution-driving
// subcommand. Flags override configuration; configuration fills in whatever
// the command line left unset.
type launchFlags struct {
	appRoot             string
	app                 string
	depsPath            string
	hostMode            string
	frameworks          []string
	additionalDeps      string
	sharedStores        []string
	globalFallbackCache string
	bundleDir           string
	ridFallback         []string
	probeOrder          []string
}

// register wires the shared resolution flags onto a subcommand.
func (f *launchFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&f.appRoot, "app-root", "", "application root directory")
	c.Flags().StringVar(&f.app, "app", "", "managed application path (relative to --app-root or absolute)")
	c.Flags().StringVar(&f.depsPath, "deps", "", "application dependencies manifest path (default <app-root>/<app>.deps.cue)")
	c.Flags().StringVar(&f.hostMode, "host-mode", string(launch.HostModeApp), "host startup mode: apphost, libhost or muxer")
	c.Flags().StringArrayVar(&f.frameworks, "framework", nil, "shared framework layer as name=dir (repeatable, most specific first)")
	c.Flags().StringVar(&f.additionalDeps, "additional-deps", "", "extra manifest paths joined with the platform list separator")
	c.Flags().StringArrayVar(&f.sharedStores, "shared-store", nil, "shared store directory (repeatable)")
	c.Flags().StringVar(&f.globalFallbackCache, "global-fallback-cache", "", "global fallback package cache directory")
	c.Flags().StringVar(&f.bundleDir, "bundle-dir", "", "single-file bundle extraction directory")
	c.Flags().StringArrayVar(&f.ridFallback, "rid-fallback", nil, "runtime identifier fallback override (repeatable, most specific first)")
	c.Flags().StringArrayVar(&f.probeOrder, "probe-order", nil, "probe source consultation order override (repeatable)")
}

// build merges flags with configuration into resolver inputs. The returned
// rid fallback is nil unless overridden, letting the root framework's
// manifest supply it.
func (f *launchFlags) build(cfg *config.Config) (*launch.Args, []string, []resolver.ProbeSource, error) {
	args := &launch.Args{
		AppRoot:  types.FilesystemPath(f.appRoot),
		HostMode: launch.HostMode(f.hostMode),
	}

	if f.app != "" {
		app := types.FilesystemPath(f.app)
		if !fspath.IsAbs(app) {
			app = fspath.JoinStr(args.AppRoot, f.app)
		}
		args.ManagedApp = app
	}

	frameworks := f.frameworks
	if len(frameworks) == 0 && cfg != nil {
		for _, fx := range cfg.Frameworks {
			frameworks = append(frameworks, fx.Name+"="+fx.Dir)
		}
	}
	for _, spec := range frameworks {
		name, dir, found := strings.Cut(spec, "=")
		if !found || name == "" || dir == "" {
			return nil, nil, nil, fmt.Errorf("invalid framework reference %q: expected name=dir", spec)
		}
		args.Frameworks = append(args.Frameworks, launch.FrameworkReference{
			Name: name,
			Dir:  types.FilesystemPath(dir),
		})
	}

	args.DepsPath = types.FilesystemPath(f.depsPath)
	if args.DepsPath == "" && f.app != "" {
		args.DepsPath = depsfile.ManifestPathFor(args.AppRoot, appSimpleName(f.app))
	}

	args.AdditionalDepsList = f.additionalDeps
	if args.AdditionalDepsList == "" && cfg != nil {
		args.AdditionalDepsList = cfg.AdditionalDeps
	}

	stores := f.sharedStores
	if len(stores) == 0 && cfg != nil {
		stores = cfg.SharedStores
	}
	for _, s := range stores {
		args.SharedStores = append(args.SharedStores, types.FilesystemPath(s))
	}

	args.GlobalFallbackCache = types.FilesystemPath(f.globalFallbackCache)
	if args.GlobalFallbackCache == "" && cfg != nil {
		args.GlobalFallbackCache = types.FilesystemPath(cfg.GlobalFallbackCache)
	}

	if f.bundleDir != "" {
		info, err := bundle.Load(types.FilesystemPath(f.bundleDir))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load bundle membership record: %w", err)
		}
		args.Bundle = info
	}

	if err := args.Validate(); err != nil {
		return nil, nil, nil, err
	}

	orderNames := f.probeOrder
	if len(orderNames) == 0 && cfg != nil {
		orderNames = cfg.ProbeOrder
	}
	order, err := resolver.ParseProbeOrder(orderNames)
	if err != nil {
		return nil, nil, nil, err
	}

	var ridFallback []string
	if len(f.ridFallback) > 0 {
		ridFallback = f.ridFallback
	}

	return args, ridFallback, order, nil
}

// newResolver builds a validated Resolver from the flag set. Callers get
// either a resolver whose manifest stack checked out, or the first stack
// error.
func (f *launchFlags) newResolver() (*resolver.Resolver, error) {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	args, ridFallback, order, err := f.build(cfg)
	if err != nil {
		return nil, err
	}

	r := resolver.New(args, ridFallback, order)
	if err := r.Valid(); err != nil {
		return nil, err
	}
	return r, nil
}

// appSimpleName strips the directory and extension from the managed
// application path, yielding the manifest base name.
func appSimpleName(app string) string {
	base := fspath.Base(types.FilesystemPath(app))
	if i := strings.LastIndex(base, "."); i > 0 {
		return base[:i]
	}
	return base
}
