// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath functions that
// accept and return types.FilesystemPath, plus the filesystem existence
// oracle used by the dependency resolver. Centralizing the stat/symlink
// handling here keeps every probe site consulting the same oracle.
package fspath

import (
	"fmt"
	"os"
	"path/filepath"

	"cradle-host/pkg/types"
)

// Join wraps filepath.Join, accepting and returning types.FilesystemPath.
func Join(elem ...types.FilesystemPath) types.FilesystemPath {
	strs := make([]string, len(elem))
	for i, e := range elem {
		strs[i] = string(e)
	}
	return types.FilesystemPath(filepath.Join(strs...))
}

// JoinStr wraps filepath.Join, accepting a typed base path and raw string
// segments. Use this when joining a validated path with literal constants
// (e.g., "app.deps.cue") or OS-provided file names (e.g., from os.ReadDir).
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir wraps filepath.Dir for FilesystemPath.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Base wraps filepath.Base for FilesystemPath, returning the raw file name.
func Base(p types.FilesystemPath) string {
	return filepath.Base(string(p))
}

// Abs wraps filepath.Abs for FilesystemPath. Returns an error if the
// underlying OS call fails.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}

// Clean wraps filepath.Clean for FilesystemPath.
func Clean(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Clean(string(p)))
}

// FromSlash wraps filepath.FromSlash for FilesystemPath. Converts forward
// slashes to the OS-specific path separator. Manifest-relative paths are
// declared in slash form and must pass through here before any probe.
func FromSlash(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.FromSlash(string(p)))
}

// IsAbs wraps filepath.IsAbs for FilesystemPath.
func IsAbs(p types.FilesystemPath) bool {
	return filepath.IsAbs(string(p))
}

// FileExists reports whether p refers to an existing regular file.
// Symlinks are resolved to their final target first; the resolved target
// is what gets stat'ed. Symlink resolution is a required side effect here,
// not an accident: the loader needs the true final path.
func FileExists(p types.FilesystemPath) bool {
	resolved, err := filepath.EvalSymlinks(string(p))
	if err != nil {
		return false
	}
	info, err := os.Stat(resolved)
	return err == nil && !info.IsDir()
}

// DirExists reports whether p refers to an existing directory.
func DirExists(p types.FilesystemPath) bool {
	info, err := os.Stat(string(p))
	return err == nil && info.IsDir()
}

// EnsureTrailingSeparator returns p terminated by exactly one OS path
// separator. The empty path is returned unchanged — there is nothing to
// terminate.
func EnsureTrailingSeparator(p types.FilesystemPath) types.FilesystemPath {
	if p == "" {
		return p
	}
	s := string(p)
	if s[len(s)-1] == os.PathSeparator {
		return p
	}
	return types.FilesystemPath(s + string(os.PathSeparator))
}
