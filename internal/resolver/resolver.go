// SPDX-License-Identifier: MPL-2.0

// Package resolver turns a stack of layered dependency manifests and a set
// of probe locations into the ordered search paths the execution engine
// needs: the managed-library list, the native-library search directories,
// the resource-library search directories and the engine library path.
//
// A Resolver is constructed, validated and queried once per host launch,
// then discarded. Resolution is single-threaded; the only mutable state a
// pass touches is its BreadcrumbSet, which the pass owns exclusively.
package resolver

import (
	"log/slog"
	"strings"

	"cradle-host/internal/launch"
	"cradle-host/pkg/depsfile"
	"cradle-host/pkg/fspath"
	"cradle-host/pkg/platform"
	"cradle-host/pkg/types"
)

type (
	// ProbePaths is the resolution output handed to the runtime bootstrap:
	// three ordered, platform-list-separator-joined path lists plus the
	// single resolved path of the core execution engine library.
	ProbePaths struct {
		// TPA is the managed-library list (trusted platform assemblies).
		TPA string
		// NativeSearchPaths are the native-library search directories.
		NativeSearchPaths string
		// ResourceSearchPaths are the resource-library search directories.
		ResourceSearchPaths string
		// Engine is the resolved core execution engine library path; empty
		// when no layer declared it.
		Engine types.FilesystemPath
	}

	// layer is one framework stack entry: the application at index 0,
	// progressively more generic shared frameworks after it, the root
	// framework last. Each layer exclusively owns its manifest.
	layer struct {
		name     string
		dir      types.FilesystemPath
		manifest *depsfile.Manifest
	}

	// Resolver is the dependency resolution engine.
	Resolver struct {
		args   *launch.Args
		layers []*layer

		// Out-of-band manifests, independently loaded and always tolerant
		// of unresolvable assets. additionalDirs are their base
		// directories, in load order.
		additional     []*depsfile.Manifest
		additionalDirs []types.FilesystemPath

		probes []probeConfig

		frameworkDependent bool

		// needsFileExistenceChecks forces on-disk verification even for
		// bundle-member hits. Set once at construction: only an extracted
		// bundle in backward-compatibility mode requires it.
		needsFileExistenceChecks bool
	}
)

// New constructs a Resolver from launch arguments.
//
// Layers are processed from the root framework (lowest priority, most
// generic) to the application (highest priority). The first layer processed
// determines the RID fallback list used by every subsequently loaded
// manifest — unless ridFallback is non-nil, in which case every layer,
// including the root, uses the supplied list. RID fallback is a platform
// property, not a per-framework property, so it must be settled before any
// other manifest's native-asset groups can be interpreted.
//
// probeOrder controls the consultation order of the configurable probe
// sources; nil selects DefaultProbeOrder.
func New(args *launch.Args, ridFallback []string, probeOrder []ProbeSource) *Resolver {
	r := &Resolver{
		args:                     args,
		frameworkDependent:       args.IsFrameworkDependent(),
		needsFileExistenceChecks: args.Bundle != nil && args.Bundle.CompatMode,
	}

	appName := ""
	if args.ManagedApp != "" {
		appName = fspath.Base(args.ManagedApp)
	}
	r.layers = append(r.layers, &layer{name: appName, dir: args.AppRoot})
	for _, fx := range args.Frameworks {
		r.layers = append(r.layers, &layer{name: fx.Name, dir: fx.Dir})
	}

	fallback := ridFallback
	root := len(r.layers) - 1
	for i := root; i >= 0; i-- {
		manifestPath := args.DepsPath
		if i != 0 {
			manifestPath = depsfile.ManifestPathFor(r.layers[i].dir, r.layers[i].name)
		}
		slog.Debug("loading dependencies manifest", "path", manifestPath, "layer", r.layers[i].name)

		if fallback == nil && i == root {
			// The root framework supplies the fallback list for every
			// higher layer. A root that declares no list still decides:
			// the empty list binds the higher layers, so their own
			// declared lists never apply.
			r.layers[i].manifest = depsfile.Load(manifestPath, nil)
			fallback = r.layers[i].manifest.RIDFallback()
			if fallback == nil {
				fallback = []string{}
			}
		} else {
			r.layers[i].manifest = depsfile.Load(manifestPath, fallback)
		}
	}

	r.loadAdditionalManifests(fallback)
	r.probes = buildProbeConfigs(args, normalizeOrder(probeOrder), r.additionalDirs, r.frameworkDependent)

	return r
}

// normalizeOrder substitutes the default order for a nil override.
func normalizeOrder(order []ProbeSource) []ProbeSource {
	if order == nil {
		return DefaultProbeOrder
	}
	return order
}

// loadAdditionalManifests parses the serialized out-of-band manifest list.
// Paths that do not exist are skipped silently: additional manifests are
// optional by contract.
func (r *Resolver) loadAdditionalManifests(fallback []string) {
	if r.args.AdditionalDepsList == "" {
		return
	}

	for _, raw := range strings.Split(r.args.AdditionalDepsList, platform.ListSeparator()) {
		if raw == "" {
			continue
		}
		path := types.FilesystemPath(raw)
		m := depsfile.Load(path, fallback)
		if !m.Exists() {
			slog.Debug("skipping absent additional manifest", "path", path)
			continue
		}
		r.additional = append(r.additional, m)
		r.additionalDirs = append(r.additionalDirs, fspath.Dir(path))
	}
}

// Valid checks the manifest stack. Every non-application manifest must
// exist on disk (the application's own manifest is exempt: a self-contained
// app may ship without one), and every manifest, additional ones included,
// must have parsed successfully. The first failure wins; Valid does not
// aggregate.
func (r *Resolver) Valid() error {
	for i, l := range r.layers {
		if i != 0 && !l.manifest.Exists() {
			return &MissingManifestError{Path: l.manifest.FilePath()}
		}
		if !l.manifest.IsValid() {
			return &ManifestParseError{Path: l.manifest.FilePath(), Cause: l.manifest.ParseErr()}
		}
	}

	for _, m := range r.additional {
		if !m.IsValid() {
			return &ManifestParseError{Path: m.FilePath(), Cause: m.ParseErr()}
		}
	}

	return nil
}

// ResolveProbePaths runs the full resolution pass, recording every resolved
// logical asset identity in breadcrumbs. A nil breadcrumbs allocates a
// private set.
func (r *Resolver) ResolveProbePaths(breadcrumbs BreadcrumbSet) (*ProbePaths, error) {
	if breadcrumbs == nil {
		breadcrumbs = NewBreadcrumbSet()
	}

	tpa, err := r.resolveTPAList(breadcrumbs)
	if err != nil {
		return nil, err
	}

	nativeDirs, engine, err := r.resolveProbeDirs(depsfile.KindNative, breadcrumbs)
	if err != nil {
		return nil, err
	}

	resourceDirs, _, err := r.resolveProbeDirs(depsfile.KindResources, breadcrumbs)
	if err != nil {
		return nil, err
	}

	sep := platform.ListSeparator()
	return &ProbePaths{
		TPA:                 strings.Join(tpa, sep),
		NativeSearchPaths:   strings.Join(nativeDirs, sep),
		ResourceSearchPaths: strings.Join(resourceDirs, sep),
		Engine:              engine,
	}, nil
}

// resolveTPAList walks the stack from the application layer to the root,
// collecting managed-library paths. Higher layers shadow same-named assets
// in lower layers; within a layer, declaration order is preserved. Entries
// from additional manifests are appended last and tolerate resolution
// misses.
func (r *Resolver) resolveTPAList(breadcrumbs BreadcrumbSet) ([]string, error) {
	var output []string
	seen := make(map[string]bool)

	appendEntry := func(entry depsfile.Entry, dir types.FilesystemPath, layerName string, tolerant bool) error {
		if seen[entry.Name] {
			// A higher-precedence layer already resolved this name.
			return nil
		}

		candidate, ok := r.probeDepsEntry(entry, dir)
		if !ok {
			if tolerant {
				slog.Debug("skipping unresolvable asset from tolerant manifest", "asset", entry.Name)
				return nil
			}
			return &UnresolvableAssetError{Name: entry.Name, Layer: layerName}
		}

		output = append(output, string(candidate))
		seen[entry.Name] = true
		breadcrumbs.Add(entry)
		return nil
	}

	for _, l := range r.layers {
		for _, entry := range l.manifest.Entries(depsfile.KindManaged) {
			if err := appendEntry(entry, l.dir, l.name, false); err != nil {
				return nil, err
			}
		}
	}

	for i, m := range r.additional {
		for _, entry := range m.Entries(depsfile.KindManaged) {
			if err := appendEntry(entry, r.additionalDirs[i], string(m.FilePath()), true); err != nil {
				return nil, err
			}
		}
	}

	return output, nil
}

// resolveProbeDirs walks the stack for native or resource entries. The
// dedup unit is the containing directory — native and resource loading is
// directory-search-based, not single-file-based — plus the culture
// subdirectory for resource assets. For native entries, the engine library
// path is captured when an entry's file name matches the platform engine
// library name.
func (r *Resolver) resolveProbeDirs(kind depsfile.AssetKind, breadcrumbs BreadcrumbSet) ([]string, types.FilesystemPath, error) {
	var output []string
	var engine types.FilesystemPath
	seenKeys := make(map[string]bool)
	appended := make(map[string]bool)

	engineLib := platform.EngineLibraryName()

	appendEntry := func(entry depsfile.Entry, dir types.FilesystemPath, layerName string, tolerant bool) error {
		candidate, ok := r.probeDepsEntry(entry, dir)
		if !ok {
			if tolerant {
				slog.Debug("skipping unresolvable asset from tolerant manifest", "asset", entry.Name)
				return nil
			}
			return &UnresolvableAssetError{Name: entry.Name, Layer: layerName}
		}

		outDir := fspath.Dir(candidate)
		key := string(outDir)
		if kind == depsfile.KindResources {
			// Resource assets live at <base>/<culture>/<file>; the search
			// directory is the base, the dedup key keeps the culture.
			outDir = fspath.Dir(outDir)
			key = string(outDir) + "|" + entry.Culture
		}

		if kind == depsfile.KindNative && engine == "" && fspath.Base(candidate) == engineLib {
			engine = candidate
		}

		if seenKeys[key] {
			return nil
		}
		seenKeys[key] = true
		breadcrumbs.Add(entry)

		if !appended[string(outDir)] {
			appended[string(outDir)] = true
			output = append(output, string(outDir))
		}
		return nil
	}

	for _, l := range r.layers {
		for _, entry := range l.manifest.Entries(kind) {
			if err := appendEntry(entry, l.dir, l.name, false); err != nil {
				return nil, "", err
			}
		}
	}

	for i, m := range r.additional {
		for _, entry := range m.Entries(kind) {
			if err := appendEntry(entry, r.additionalDirs[i], string(m.FilePath()), true); err != nil {
				return nil, "", err
			}
		}
	}

	return output, engine, nil
}

// probeDepsEntry resolves one entry to a candidate path. Candidates are
// tried in order: the entry's own declared relative path under its layer's
// directory, then every probe configuration applicable to the entry's kind,
// in consultation order. First success wins.
func (r *Resolver) probeDepsEntry(entry depsfile.Entry, layerDir types.FilesystemPath) (candidate types.FilesystemPath, ok bool) {
	local := fspath.JoinStr(layerDir, string(fspath.FromSlash(types.FilesystemPath(entry.RelPath))))
	if fspath.FileExists(local) {
		return local, true
	}

	for i := range r.probes {
		cfg := &r.probes[i]
		if !cfg.appliesTo(entry.Kind) {
			continue
		}

		if cfg.source == ProbeBundleVirtual {
			virtual, present := r.args.Bundle.Probe(entry.RelPath)
			if !present {
				continue
			}
			if r.needsFileExistenceChecks && !fspath.FileExists(virtual) {
				// Compat mode requires the extracted file to be visible on
				// disk; a record hit alone is not enough.
				continue
			}
			return virtual, true
		}

		probed := fspath.JoinStr(cfg.dir, string(fspath.FromSlash(types.FilesystemPath(entry.RelPath))))
		if cfg.checkExistence && !fspath.FileExists(probed) {
			continue
		}
		return probed, true
	}

	return "", false
}

// RootManifest returns the lowest-precedence manifest: the root framework's
// for framework-dependent apps, the application's own otherwise. Callers
// that only need framework identity use this instead of a full resolution.
func (r *Resolver) RootManifest() *depsfile.Manifest {
	return r.layers[len(r.layers)-1].manifest
}

// IsFrameworkDependent reports whether the app layers on shared frameworks.
func (r *Resolver) IsFrameworkDependent() bool {
	return r.frameworkDependent
}

// EnumManifestFiles visits every manifest file path contributing to the
// current application context: the application's own (when it has one),
// each framework layer's, and every loaded additional manifest's.
func (r *Resolver) EnumManifestFiles(visit func(types.FilesystemPath)) {
	for i, l := range r.layers {
		if i == 0 && l.manifest.FilePath() == "" {
			continue
		}
		visit(l.manifest.FilePath())
	}
	for _, m := range r.additional {
		visit(m.FilePath())
	}
}

// LookupProbeDirectories returns the configured probe locations in
// consultation order, for diagnostics. The bundle-virtual configuration is
// reported as the extraction directory.
func (r *Resolver) LookupProbeDirectories() []string {
	dirs := make([]string, 0, len(r.probes))
	for i := range r.probes {
		if r.probes[i].source == ProbeBundleVirtual {
			dirs = append(dirs, string(r.args.Bundle.ExtractionDir))
			continue
		}
		dirs = append(dirs, string(r.probes[i].dir))
	}
	return dirs
}
