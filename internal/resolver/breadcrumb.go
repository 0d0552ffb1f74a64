// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"sort"

	"cradle-host/pkg/depsfile"
)

// BreadcrumbSet records the logical identities of every asset resolved in
// one pass, both as the bare library name and as name/version. It doubles
// as the dedup record during resolution and as telemetry of what the
// running app actually used. The set is owned by a single resolution pass
// and must not be read until that pass completes.
type BreadcrumbSet map[string]struct{}

// NewBreadcrumbSet returns an empty breadcrumb set.
func NewBreadcrumbSet() BreadcrumbSet {
	return make(BreadcrumbSet)
}

// Add records the entry's owning library identity.
func (b BreadcrumbSet) Add(entry depsfile.Entry) {
	b[entry.Library] = struct{}{}
	if entry.Version != "" {
		b[entry.Library+"/"+entry.Version] = struct{}{}
	}
}

// Has reports whether the identity was recorded.
func (b BreadcrumbSet) Has(identity string) bool {
	_, ok := b[identity]
	return ok
}

// Sorted returns the recorded identities in lexical order, for
// deterministic reporting.
func (b BreadcrumbSet) Sorted() []string {
	out := make([]string, 0, len(b))
	for id := range b {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
