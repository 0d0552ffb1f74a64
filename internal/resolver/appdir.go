// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"cradle-host/internal/launch"
	"cradle-host/pkg/fspath"
	"cradle-host/pkg/types"
)

// AppDir returns the application directory for path concatenation by
// downstream components.
//
// In libhost mode the host is an embedded library and no application
// directory concept applies; the result is empty. An application-
// bootstrapped single-file bundle running in backward-compatibility mode
// substitutes the bundle's extraction directory, since that mode requires
// files to be visible on disk.
//
// Any non-empty result ends in exactly one directory separator. Downstream
// concatenation relies on this and it must hold for every host mode.
func (r *Resolver) AppDir() types.FilesystemPath {
	if r.args.HostMode == launch.HostModeLib {
		return ""
	}

	dir := r.args.AppRoot
	if r.args.HostMode == launch.HostModeApp && r.args.Bundle != nil && r.args.Bundle.CompatMode {
		dir = r.args.Bundle.ExtractionDir
	}

	return fspath.EnsureTrailingSeparator(dir)
}
