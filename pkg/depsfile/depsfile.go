// SPDX-License-Identifier: MPL-2.0

// Package depsfile reads and models cradle dependency manifests.
//
// A dependency manifest (<name>.deps.cue) declares, for one layer of the
// framework stack, the libraries that layer ships and the assets each
// library contributes, together with a runtime-identifier (RID) fallback
// list. Manifests are parsed once, validated against an embedded CUE
// schema, and are immutable afterwards.
package depsfile

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"cradle-host/pkg/cueutil"
	"cradle-host/pkg/types"
)

// Extension is the dependency manifest file extension, including the
// leading dot of the compound suffix (<name>.deps.cue).
const Extension = ".deps.cue"

//go:embed depsfile_schema.cue
var depsFileSchema string

const (
	// KindManaged marks a library loaded directly by name.
	KindManaged AssetKind = "managed"
	// KindNative marks a platform-native library located by directory search.
	KindNative AssetKind = "native"
	// KindResources marks a locale-specific resource library.
	KindResources AssetKind = "resources"
)

// Kinds lists all asset kinds in resolution order.
var Kinds = []AssetKind{KindManaged, KindNative, KindResources}

type (
	// AssetKind classifies a declared asset.
	AssetKind string

	// Entry is one declared asset inside a manifest layer. Immutable once
	// parsed.
	Entry struct {
		// Name is the logical simple name (file base without extension).
		Name string
		// Kind is the asset kind.
		Kind AssetKind
		// RelPath is the slash-form path relative to the layer's base
		// directory, exactly as declared.
		RelPath string
		// Library is the owning library's name.
		Library string
		// Version is the owning library's version.
		Version string
		// Culture is set for resource assets only.
		Culture string
		// RID is the runtime identifier the asset is specific to;
		// empty means portable.
		RID string
	}

	// Manifest is one layer's parsed dependency manifest: the ordered
	// entries as declared, the declared RID fallback list, and the
	// effective fallback list actually applied during entry selection.
	Manifest struct {
		filePath types.FilesystemPath
		exists   bool
		parseErr error

		entries     []Entry
		ridFallback []string // as declared in the file
		effective   []string // fallback list applied to Entries()
	}

	// decoded mirrors the #DepsFile schema for CUE decoding.
	decoded struct {
		RIDFallback []string `json:"rid_fallback"`
		Libraries   []struct {
			Name    string `json:"name"`
			Version string `json:"version"`
			Assets  []struct {
				Kind    string `json:"kind"`
				Path    string `json:"path"`
				Culture string `json:"culture"`
				RID     string `json:"rid"`
			} `json:"assets"`
		} `json:"libraries"`
	}
)

// Load reads and parses the manifest at path.
//
// A missing file is not an error here: it yields a Manifest with
// Exists() == false and no entries. Whether a missing manifest is fatal is
// a per-layer decision that belongs to the stack validation, not to the
// parser. A present but malformed file yields a Manifest whose ParseErr()
// is set.
//
// fallback, when non-nil, overrides the manifest's own declared RID
// fallback list for entry selection. Passing nil applies the declared list.
func Load(path types.FilesystemPath, fallback []string) *Manifest {
	m := &Manifest{filePath: path}

	data, err := os.ReadFile(string(path))
	if err != nil {
		if os.IsNotExist(err) {
			return m
		}
		m.exists = true
		m.parseErr = err
		return m
	}
	m.exists = true

	result, err := cueutil.ParseAndDecodeString[decoded](
		depsFileSchema,
		data,
		"#DepsFile",
		cueutil.WithFilename(string(path)),
	)
	if err != nil {
		m.parseErr = err
		return m
	}

	doc := result.Value
	m.ridFallback = doc.RIDFallback
	m.effective = fallback
	if m.effective == nil {
		m.effective = doc.RIDFallback
	}

	for _, lib := range doc.Libraries {
		for _, a := range lib.Assets {
			m.entries = append(m.entries, Entry{
				Name:    simpleName(a.Path),
				Kind:    AssetKind(a.Kind),
				RelPath: a.Path,
				Library: lib.Name,
				Version: lib.Version,
				Culture: a.Culture,
				RID:     a.RID,
			})
		}
	}

	return m
}

// FilePath returns the manifest's backing file path.
func (m *Manifest) FilePath() types.FilesystemPath { return m.filePath }

// Exists reports whether the backing file was present on disk.
func (m *Manifest) Exists() bool { return m.exists }

// IsValid reports whether the manifest parsed successfully. A manifest
// whose backing file is absent is valid (and empty).
func (m *Manifest) IsValid() bool { return m.parseErr == nil }

// ParseErr returns the parse failure, or nil.
func (m *Manifest) ParseErr() error { return m.parseErr }

// RIDFallback returns the effective RID fallback list applied to entry
// selection: the externally propagated list when one was supplied, the
// manifest's own declared list otherwise.
func (m *Manifest) RIDFallback() []string { return m.effective }

// DeclaredRIDFallback returns the fallback list as written in the file.
func (m *Manifest) DeclaredRIDFallback() []string { return m.ridFallback }

// Entries returns the manifest's entries of the given kind in declared
// order, after RID group selection.
//
// Selection is per owning library: among that library's entries of this
// kind, the group tagged with the earliest RID in the effective fallback
// list wins; portable (untagged) entries apply only when no tagged group
// matched. Declaration order is preserved within the selected group.
func (m *Manifest) Entries(kind AssetKind) []Entry {
	chosen := m.chooseRIDPerLibrary(kind)

	var out []Entry
	for _, e := range m.entries {
		if e.Kind != kind {
			continue
		}
		if e.RID != chosen[e.Library] {
			continue
		}
		out = append(out, e)
	}
	return out
}

// chooseRIDPerLibrary determines, for each library, which RID group of the
// given kind is selected ("" for the portable group).
func (m *Manifest) chooseRIDPerLibrary(kind AssetKind) map[string]string {
	// rids[library] = set of RID tags present for this kind.
	rids := make(map[string]map[string]bool)
	for _, e := range m.entries {
		if e.Kind != kind {
			continue
		}
		set := rids[e.Library]
		if set == nil {
			set = make(map[string]bool)
			rids[e.Library] = set
		}
		set[e.RID] = true
	}

	chosen := make(map[string]string, len(rids))
	for lib, set := range rids {
		chosen[lib] = "" // portable group unless a tagged group matches
		for _, rid := range m.effective {
			if set[rid] {
				chosen[lib] = rid
				break
			}
		}
	}
	return chosen
}

// simpleName derives the logical asset name from a declared relative path:
// the file base with its extension stripped.
func simpleName(relPath string) string {
	base := filepath.Base(filepath.FromSlash(relPath))
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// ManifestPathFor returns the conventional manifest path for a named layer
// rooted at dir: <dir>/<name>.deps.cue.
func ManifestPathFor(dir types.FilesystemPath, name string) types.FilesystemPath {
	return types.FilesystemPath(filepath.Join(string(dir), name+Extension))
}
