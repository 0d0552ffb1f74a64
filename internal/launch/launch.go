// SPDX-License-Identifier: MPL-2.0

// Package launch defines the launch arguments handed to the dependency
// resolver: where the application lives, which shared frameworks it layers
// on, and which extra probe locations the environment configured. The
// package is a passive data contract — discovery of these values happens in
// the CLI and config layers.
package launch

import (
	"errors"
	"fmt"
	"strings"

	"cradle-host/pkg/bundle"
	"cradle-host/pkg/fspath"
	"cradle-host/pkg/types"
)

const (
	// HostModeApp is the normal application host: a launcher executable
	// bootstrapping one managed application.
	HostModeApp HostMode = "apphost"
	// HostModeLib is the embedding-library host: the runtime is hosted
	// inside another process and no application directory applies.
	HostModeLib HostMode = "libhost"
	// HostModeMuxer is the shared muxer-launched host (`cradle run app`).
	HostModeMuxer HostMode = "muxer"
)

// ErrInvalidHostMode is the sentinel error wrapped by InvalidHostModeError.
var ErrInvalidHostMode = errors.New("invalid host mode")

// ErrInvalidAppRoot is the sentinel error wrapped by InvalidAppRootError.
var ErrInvalidAppRoot = errors.New("invalid application root")

type (
	// HostMode says how the host process was started. It dictates how the
	// application directory is derived.
	HostMode string

	// InvalidHostModeError is returned when a HostMode value is not
	// recognized. It wraps ErrInvalidHostMode for errors.Is() compatibility.
	InvalidHostModeError struct {
		Value HostMode
	}

	// InvalidAppRootError is returned when the application root directory
	// is missing or not a directory. It wraps ErrInvalidAppRoot for
	// errors.Is() compatibility.
	InvalidAppRootError struct {
		Path types.FilesystemPath
	}

	// FrameworkReference names one shared framework layer: its logical
	// name and the directory its manifest and assets live in.
	FrameworkReference struct {
		Name string
		Dir  types.FilesystemPath
	}

	// Args carries everything the resolver needs from the process launch.
	Args struct {
		// AppRoot is the application's root directory.
		AppRoot types.FilesystemPath

		// DepsPath is the application's own manifest path. May be empty:
		// a framework-independent, self-contained app can ship without one.
		DepsPath types.FilesystemPath

		// ManagedApp is the path of the managed application being launched.
		ManagedApp types.FilesystemPath

		// HostMode says how the host process was started.
		HostMode HostMode

		// Frameworks are the shared framework layers the app depends on,
		// most application-specific first, root framework last. Empty for
		// self-contained apps.
		Frameworks []FrameworkReference

		// AdditionalDepsList is the serialized list of out-of-band
		// manifest paths, joined with the platform path-list separator.
		AdditionalDepsList string

		// SharedStores are the configured shared store directories.
		SharedStores []types.FilesystemPath

		// GlobalFallbackCache is the global fallback package cache
		// directory; empty disables it.
		GlobalFallbackCache types.FilesystemPath

		// Bundle is the single-file bundle membership record; nil when the
		// process is not running from a bundle.
		Bundle *bundle.Info
	}
)

// String returns the string representation of the HostMode.
func (m HostMode) String() string { return string(m) }

// IsValid returns whether the HostMode is one of the known modes.
func (m HostMode) IsValid() (bool, []error) {
	switch m {
	case HostModeApp, HostModeLib, HostModeMuxer:
		return true, nil
	}
	return false, []error{&InvalidHostModeError{Value: m}}
}

// Error implements the error interface for InvalidHostModeError.
func (e *InvalidHostModeError) Error() string {
	return fmt.Sprintf("invalid host mode %q: must be one of %q, %q, %q",
		e.Value, HostModeApp, HostModeLib, HostModeMuxer)
}

// Unwrap returns ErrInvalidHostMode for errors.Is() compatibility.
func (e *InvalidHostModeError) Unwrap() error { return ErrInvalidHostMode }

// Error implements the error interface for InvalidAppRootError.
func (e *InvalidAppRootError) Error() string {
	return fmt.Sprintf("application root %q does not exist or is not a directory", e.Path)
}

// Unwrap returns ErrInvalidAppRoot for errors.Is() compatibility.
func (e *InvalidAppRootError) Unwrap() error { return ErrInvalidAppRoot }

// Validate checks the argument set for contract violations that would make
// resolution meaningless. It reports the first problem found.
func (a *Args) Validate() error {
	if ok, errs := a.HostMode.IsValid(); !ok {
		return errs[0]
	}
	if a.HostMode != HostModeLib {
		if ok, errs := a.AppRoot.IsValid(); !ok {
			return fmt.Errorf("application root: %w", errs[0])
		}
		if !fspath.DirExists(a.AppRoot) {
			return &InvalidAppRootError{Path: a.AppRoot}
		}
	}
	for i, fx := range a.Frameworks {
		if strings.TrimSpace(fx.Name) == "" {
			return fmt.Errorf("framework reference %d: name must be non-empty", i)
		}
		if ok, errs := fx.Dir.IsValid(); !ok {
			return fmt.Errorf("framework %q: %w", fx.Name, errs[0])
		}
	}
	return nil
}

// IsFrameworkDependent reports whether the app layers on at least one
// shared framework.
func (a *Args) IsFrameworkDependent() bool {
	return len(a.Frameworks) > 0
}
