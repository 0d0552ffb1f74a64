// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Probe source names accepted in probe_order. Defined locally to avoid
// coupling config to the resolver; the resolver re-validates at
// construction time.
const (
	probeBundleVirtual         = "bundle_virtual"
	probeSharedStore           = "shared_store"
	probeAdditionalManifestDir = "additional_manifest_dir"
	probeGlobalFallbackCache   = "global_fallback_cache"
)

var (
	// ErrInvalidProbeOrder is the sentinel error wrapped by InvalidProbeOrderError.
	ErrInvalidProbeOrder = errors.New("invalid probe order")
	// ErrInvalidFrameworkEntry is the sentinel error wrapped by InvalidFrameworkEntryError.
	ErrInvalidFrameworkEntry = errors.New("invalid framework entry")
)

type (
	// Config is the host configuration. Values come from defaults, the
	// config.cue file and CRADLE_* environment variables, in that order.
	Config struct {
		// SharedStores are shared store directories probed for managed and
		// native assets.
		SharedStores []string `mapstructure:"shared_stores"`

		// GlobalFallbackCache is the global fallback package cache
		// directory; empty disables it.
		GlobalFallbackCache string `mapstructure:"global_fallback_cache"`

		// AdditionalDeps is the serialized out-of-band manifest list,
		// joined with the platform path-list separator.
		AdditionalDeps string `mapstructure:"additional_deps"`

		// ProbeOrder overrides the probe source consultation order; empty
		// selects the built-in default.
		ProbeOrder []string `mapstructure:"probe_order"`

		// Frameworks are the shared framework layers, most
		// application-specific first, root last.
		Frameworks []FrameworkEntry `mapstructure:"frameworks"`

		// UI holds presentation settings.
		UI UIConfig `mapstructure:"ui"`
	}

	// FrameworkEntry names one shared framework layer in configuration.
	FrameworkEntry struct {
		Name string `mapstructure:"name"`
		Dir  string `mapstructure:"dir"`
	}

	// UIConfig holds presentation settings.
	UIConfig struct {
		Verbose bool `mapstructure:"verbose"`
	}

	// InvalidProbeOrderError is returned when probe_order contains an
	// unknown or duplicate source name.
	InvalidProbeOrderError struct {
		Index int
		Value string
		Why   string
	}

	// InvalidFrameworkEntryError is returned when a framework entry is
	// missing its name or directory.
	InvalidFrameworkEntryError struct {
		Index int
		Why   string
	}
)

// Error implements the error interface for InvalidProbeOrderError.
func (e *InvalidProbeOrderError) Error() string {
	return fmt.Sprintf("probe_order[%d]: %q: %s", e.Index, e.Value, e.Why)
}

// Unwrap returns ErrInvalidProbeOrder for errors.Is() compatibility.
func (e *InvalidProbeOrderError) Unwrap() error { return ErrInvalidProbeOrder }

// Error implements the error interface for InvalidFrameworkEntryError.
func (e *InvalidFrameworkEntryError) Error() string {
	return fmt.Sprintf("frameworks[%d]: %s", e.Index, e.Why)
}

// Unwrap returns ErrInvalidFrameworkEntry for errors.Is() compatibility.
func (e *InvalidFrameworkEntryError) Unwrap() error { return ErrInvalidFrameworkEntry }

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// Validate checks constraints the CUE schema cannot express: probe order
// names must be known and unique, and framework entries must be complete.
func (c *Config) Validate() error {
	known := map[string]bool{
		probeBundleVirtual:         true,
		probeSharedStore:           true,
		probeAdditionalManifestDir: true,
		probeGlobalFallbackCache:   true,
	}
	seen := make(map[string]bool, len(c.ProbeOrder))
	for i, name := range c.ProbeOrder {
		if !known[name] {
			return &InvalidProbeOrderError{Index: i, Value: name, Why: "unknown probe source"}
		}
		if seen[name] {
			return &InvalidProbeOrderError{Index: i, Value: name, Why: "duplicate probe source"}
		}
		seen[name] = true
	}

	for i, fx := range c.Frameworks {
		if strings.TrimSpace(fx.Name) == "" {
			return &InvalidFrameworkEntryError{Index: i, Why: "name must be non-empty"}
		}
		if strings.TrimSpace(fx.Dir) == "" {
			return &InvalidFrameworkEntryError{Index: i, Why: "dir must be non-empty"}
		}
	}

	return nil
}
