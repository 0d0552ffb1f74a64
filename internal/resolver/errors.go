// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"errors"
	"fmt"

	"cradle-host/pkg/types"
)

var (
	// ErrMissingManifest is the sentinel error wrapped by MissingManifestError.
	ErrMissingManifest = errors.New("missing dependencies manifest")
	// ErrManifestParse is the sentinel error wrapped by ManifestParseError.
	ErrManifestParse = errors.New("dependencies manifest parse failure")
	// ErrUnresolvableAsset is the sentinel error wrapped by UnresolvableAssetError.
	ErrUnresolvableAsset = errors.New("unresolvable asset")
)

type (
	// MissingManifestError reports a required non-application manifest file
	// that is absent from disk. Always fatal.
	MissingManifestError struct {
		Path types.FilesystemPath
	}

	// ManifestParseError reports a manifest file that exists but failed to
	// parse. Always fatal.
	ManifestParseError struct {
		Path  types.FilesystemPath
		Cause error
	}

	// UnresolvableAssetError reports a declared asset with no satisfying
	// candidate in any probe location. Fatal for application and framework
	// layers; additional manifests tolerate it.
	UnresolvableAssetError struct {
		Name  string
		Layer string
	}
)

// Error implements the error interface for MissingManifestError.
func (e *MissingManifestError) Error() string {
	return fmt.Sprintf("a fatal error was encountered, missing dependencies manifest at: %s", e.Path)
}

// Unwrap returns ErrMissingManifest for errors.Is() compatibility.
func (e *MissingManifestError) Unwrap() error { return ErrMissingManifest }

// Error implements the error interface for ManifestParseError.
func (e *ManifestParseError) Error() string {
	return fmt.Sprintf("an error occurred while parsing: %s: %v", e.Path, e.Cause)
}

// Unwrap returns the parse cause chained through ErrManifestParse.
func (e *ManifestParseError) Unwrap() error { return ErrManifestParse }

// Error implements the error interface for UnresolvableAssetError.
func (e *UnresolvableAssetError) Error() string {
	return fmt.Sprintf("error resolving dependency %q declared by layer %q: no satisfying candidate in any probe location", e.Name, e.Layer)
}

// Unwrap returns ErrUnresolvableAsset for errors.Is() compatibility.
func (e *UnresolvableAssetError) Unwrap() error { return ErrUnresolvableAsset }
