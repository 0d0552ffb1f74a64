// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"errors"
	"fmt"

	"cradle-host/internal/launch"
	"cradle-host/pkg/depsfile"
	"cradle-host/pkg/types"
)

const (
	// ProbeOwnDirectory resolves against the declaring layer's own base
	// directory. It is always consulted first and is not part of the
	// configurable probe order.
	ProbeOwnDirectory ProbeSource = "own_directory"
	// ProbeBundleVirtual resolves purely from the single-file bundle's
	// membership record, with no live existence check.
	ProbeBundleVirtual ProbeSource = "bundle_virtual"
	// ProbeSharedStore resolves against a configured shared store
	// directory. Managed and native assets only; always existence-checked.
	ProbeSharedStore ProbeSource = "shared_store"
	// ProbeAdditionalManifestDir resolves against the base directory of an
	// out-of-band additional manifest.
	ProbeAdditionalManifestDir ProbeSource = "additional_manifest_dir"
	// ProbeGlobalFallbackCache resolves against the global fallback
	// package cache. Lowest-precedence last resort, framework-dependent
	// apps only.
	ProbeGlobalFallbackCache ProbeSource = "global_fallback_cache"
)

// DefaultProbeOrder is the order probe configurations are consulted in when
// the host configuration does not override it. The relative position of the
// shared store, additional manifest directories and the global fallback
// cache is deliberately an explicit parameter rather than a hardcoded rule.
var DefaultProbeOrder = []ProbeSource{
	ProbeBundleVirtual,
	ProbeSharedStore,
	ProbeAdditionalManifestDir,
	ProbeGlobalFallbackCache,
}

// ErrInvalidProbeSource is the sentinel error wrapped by InvalidProbeSourceError.
var ErrInvalidProbeSource = errors.New("invalid probe source")

type (
	// ProbeSource tags one kind of candidate resolution location.
	ProbeSource string

	// InvalidProbeSourceError is returned when a ProbeSource value is not
	// recognized. It wraps ErrInvalidProbeSource for errors.Is().
	InvalidProbeSourceError struct {
		Value ProbeSource
	}

	// probeConfig is one candidate resolution location: a tagged variant
	// carrying only the data its source kind needs. Resolution through a
	// config with checkExistence set performs a live filesystem check,
	// resolving symlinks; the bundle-virtual config answers from the
	// membership record instead.
	probeConfig struct {
		source         ProbeSource
		dir            types.FilesystemPath // empty for bundle-virtual
		kinds          map[depsfile.AssetKind]bool
		checkExistence bool
	}
)

// String returns the string representation of the ProbeSource.
func (s ProbeSource) String() string { return string(s) }

// IsValid returns whether the ProbeSource names a known orderable source.
// ProbeOwnDirectory is valid as a tag but not orderable.
func (s ProbeSource) IsValid() (bool, []error) {
	switch s {
	case ProbeBundleVirtual, ProbeSharedStore, ProbeAdditionalManifestDir, ProbeGlobalFallbackCache:
		return true, nil
	}
	return false, []error{&InvalidProbeSourceError{Value: s}}
}

// Error implements the error interface for InvalidProbeSourceError.
func (e *InvalidProbeSourceError) Error() string {
	return fmt.Sprintf("invalid probe source %q: must be one of %q, %q, %q, %q",
		e.Value, ProbeBundleVirtual, ProbeSharedStore, ProbeAdditionalManifestDir, ProbeGlobalFallbackCache)
}

// Unwrap returns ErrInvalidProbeSource for errors.Is() compatibility.
func (e *InvalidProbeSourceError) Unwrap() error { return ErrInvalidProbeSource }

// ParseProbeOrder validates a configured probe order. Every name must be a
// known orderable source and no source may repeat. An empty input selects
// DefaultProbeOrder.
func ParseProbeOrder(names []string) ([]ProbeSource, error) {
	if len(names) == 0 {
		return DefaultProbeOrder, nil
	}

	seen := make(map[ProbeSource]bool, len(names))
	order := make([]ProbeSource, 0, len(names))
	for i, name := range names {
		src := ProbeSource(name)
		if ok, errs := src.IsValid(); !ok {
			return nil, fmt.Errorf("probe order entry %d: %w", i, errs[0])
		}
		if seen[src] {
			return nil, fmt.Errorf("probe order entry %d: duplicate source %q", i, src)
		}
		seen[src] = true
		order = append(order, src)
	}
	return order, nil
}

// allKinds returns a mask covering every asset kind.
func allKinds() map[depsfile.AssetKind]bool {
	m := make(map[depsfile.AssetKind]bool, len(depsfile.Kinds))
	for _, k := range depsfile.Kinds {
		m[k] = true
	}
	return m
}

// appliesTo reports whether the config may resolve assets of the given kind.
func (c *probeConfig) appliesTo(kind depsfile.AssetKind) bool {
	return c.kinds[kind]
}

// buildProbeConfigs constructs the probe configuration set in consultation
// order. frameworkDependent gates the global fallback cache: self-contained
// apps never fall back to it.
func buildProbeConfigs(
	args *launch.Args,
	order []ProbeSource,
	additionalDirs []types.FilesystemPath,
	frameworkDependent bool,
) []probeConfig {
	var configs []probeConfig

	for _, src := range order {
		switch src {
		case ProbeBundleVirtual:
			if args.Bundle != nil {
				configs = append(configs, probeConfig{
					source: ProbeBundleVirtual,
					kinds:  allKinds(),
					// Membership is authoritative: successful extraction
					// already proved the files exist.
					checkExistence: false,
				})
			}
		case ProbeSharedStore:
			for _, store := range args.SharedStores {
				configs = append(configs, probeConfig{
					source: ProbeSharedStore,
					dir:    store,
					kinds: map[depsfile.AssetKind]bool{
						depsfile.KindManaged: true,
						depsfile.KindNative:  true,
					},
					checkExistence: true,
				})
			}
		case ProbeAdditionalManifestDir:
			for _, dir := range additionalDirs {
				configs = append(configs, probeConfig{
					source:         ProbeAdditionalManifestDir,
					dir:            dir,
					kinds:          allKinds(),
					checkExistence: true,
				})
			}
		case ProbeGlobalFallbackCache:
			if frameworkDependent && args.GlobalFallbackCache != "" {
				configs = append(configs, probeConfig{
					source:         ProbeGlobalFallbackCache,
					dir:            args.GlobalFallbackCache,
					kinds:          allKinds(),
					checkExistence: true,
				})
			}
		}
	}

	return configs
}
