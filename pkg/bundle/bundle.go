// SPDX-License-Identifier: MPL-2.0

// Package bundle models the single-file bundle collaborator consumed by the
// dependency resolver.
//
// When an application ships as a self-contained single-file bundle, the
// bundle is extracted before resolution starts and a membership record is
// written alongside the extracted tree. The resolver never re-examines the
// bundle itself: membership questions are answered purely from the record,
// with no filesystem existence checks — successful extraction already
// guarantees the files are there.
package bundle

import (
	_ "embed"
	"os"
	"path/filepath"

	"cradle-host/pkg/cueutil"
	"cradle-host/pkg/types"
)

// ManifestName is the membership record file name inside the extraction
// directory.
const ManifestName = "bundle.manifest.cue"

//go:embed bundle_schema.cue
var bundleSchema string

type (
	// Info describes a running single-file bundle: where it was extracted,
	// whether it runs in the on-disk backward-compatibility mode, and
	// which relative paths it packages. A nil *Info means the process is
	// not running from a bundle.
	Info struct {
		// BundlePath is the single-file bundle the record was extracted from.
		BundlePath types.FilesystemPath
		// ExtractionDir is the directory the bundle was extracted into.
		ExtractionDir types.FilesystemPath
		// CompatMode reports the legacy mode that requires all files to be
		// visible on disk.
		CompatMode bool

		members map[string]bool
	}

	// decoded mirrors the #BundleManifest schema for CUE decoding.
	decoded struct {
		BundlePath string   `json:"bundle_path"`
		CompatMode bool     `json:"compat_mode"`
		Files      []string `json:"files"`
	}
)

// Load reads the membership record from extractionDir.
func Load(extractionDir types.FilesystemPath) (*Info, error) {
	recordPath := filepath.Join(string(extractionDir), ManifestName)
	data, err := os.ReadFile(recordPath)
	if err != nil {
		return nil, err
	}

	result, err := cueutil.ParseAndDecodeString[decoded](
		bundleSchema,
		data,
		"#BundleManifest",
		cueutil.WithFilename(recordPath),
	)
	if err != nil {
		return nil, err
	}

	doc := result.Value
	info := &Info{
		BundlePath:    types.FilesystemPath(doc.BundlePath),
		ExtractionDir: extractionDir,
		CompatMode:    doc.CompatMode,
		members:       make(map[string]bool, len(doc.Files)),
	}
	for _, f := range doc.Files {
		info.members[f] = true
	}
	return info, nil
}

// New builds an Info from already-known membership data. Used by tests and
// by hosts that carry the record in memory instead of on disk.
func New(bundlePath, extractionDir types.FilesystemPath, compatMode bool, files []string) *Info {
	members := make(map[string]bool, len(files))
	for _, f := range files {
		members[f] = true
	}
	return &Info{
		BundlePath:    bundlePath,
		ExtractionDir: extractionDir,
		CompatMode:    compatMode,
		members:       members,
	}
}

// Probe answers whether the slash-form relative path rel is packaged in the
// bundle and, if so, returns its virtual path under the extraction
// directory. No filesystem access happens here.
func (i *Info) Probe(rel string) (types.FilesystemPath, bool) {
	if i == nil || !i.members[rel] {
		return "", false
	}
	return types.FilesystemPath(filepath.Join(string(i.ExtractionDir), filepath.FromSlash(rel))), true
}

// Len returns the number of packaged paths. Diagnostic use only.
func (i *Info) Len() int {
	if i == nil {
		return 0
	}
	return len(i.members)
}
