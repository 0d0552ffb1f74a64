// SPDX-License-Identifier: MPL-2.0

// Package platform centralizes the OS-dependent facts the host needs:
// GOOS name constants, the path-list separator used to join resolved
// search paths, and platform shared-library file naming.
package platform

import "runtime"

// OS name constants for runtime.GOOS comparisons.
// Centralizes the string literals to avoid scattered magic strings.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// engineLibraryBase is the base name of the core execution engine library
// the resolver must locate before the runtime can start.
const engineLibraryBase = "cradle-engine"

// ListSeparator returns the platform path-list separator used when joining
// resolved path lists (";" on Windows, ":" elsewhere).
func ListSeparator() string {
	if runtime.GOOS == Windows {
		return ";"
	}
	return ":"
}

// SharedLibName returns the platform file name for a shared library with
// the given base name: base.dll on Windows, libbase.dylib on macOS and
// libbase.so elsewhere.
func SharedLibName(base string) string {
	switch runtime.GOOS {
	case Windows:
		return base + ".dll"
	case Darwin:
		return "lib" + base + ".dylib"
	default:
		return "lib" + base + ".so"
	}
}

// EngineLibraryName returns the platform file name of the core execution
// engine library.
func EngineLibraryName() string {
	return SharedLibName(engineLibraryBase)
}
