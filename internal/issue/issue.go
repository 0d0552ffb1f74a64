// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	MissingManifestId Id = iota + 1
	ManifestParseErrorId
	UnresolvableAssetId
	ConfigLoadFailedId
	InvalidAppDirectoryId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation links rendered under "See also"
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	missingManifestIssue = &Issue{
		id: MissingManifestId,
		mdMsg: `
# Missing dependencies manifest!

A required dependencies manifest file could not be found. Framework and
application layers beyond the app itself must always carry a manifest.

## Things you can try:
- Check the path reported in the error message above
- Verify the framework directory contains a ` + "`<name>.deps.cue`" + ` file
  named after the framework
- If you passed an explicit manifest path with ` + "`--deps`" + `, make sure
  the file exists and is readable
- List every manifest the resolver will consider:
~~~
$ cradle manifests
~~~`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to parse a dependencies manifest!

One of the dependencies manifests contains syntax errors or invalid
configuration.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- Unknown field names
- An asset with a kind other than "managed", "native" or "resources"
- A "resources" asset without a culture segment in its path

## Things you can try:
- Check the error message above for the specific line/column
- Validate the manifest without resolving:
~~~
$ cradle validate
~~~

## Example of a valid manifest:
~~~cue
libraries: [
  {
    name:    "Widgets"
    version: "1.2.0"
    assets: [
      {kind: "managed", path: "lib/Widgets.dll"},
      {kind: "native", path: "runtimes/linux-x64/native/libwidgets.so", rid: "linux-x64"},
    ]
  },
]
~~~`,
	}

	unresolvableAssetIssue = &Issue{
		id: UnresolvableAssetId,
		mdMsg: `
# Could not resolve a required asset!

An asset declared by a framework-level manifest was not found in any
probe location.

## Probe locations (in order of precedence):
1. The declaring layer's own directory
2. The application bundle (when running from a bundle)
3. Shared stores
4. Additional manifest directories
5. The global fallback cache (framework-dependent apps only)

## Things you can try:
- Run with verbose mode to see every probe attempt:
~~~
$ cradle --verbose resolve
~~~

- Check that the asset file exists under the layer directory at the
  relative path declared in the manifest
- Add a shared store that carries the missing asset:
~~~
$ cradle resolve --shared-store /path/to/store
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the cradle configuration file.

## Configuration file locations:
- Linux: ~/.config/cradle/config.cue
- macOS: ~/Library/Application Support/cradle/config.cue
- Windows: %APPDATA%\cradle\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ cradle config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/cradle/config.cue
~~~

## Example configuration:
~~~cue
shared_stores: ["/usr/local/share/cradle/store"]
probe_order: ["bundle_virtual", "shared_store", "additional_manifest_dir", "global_fallback_cache"]

ui: {
  verbose: false
}
~~~`,
	}

	invalidAppDirectoryIssue = &Issue{
		id: InvalidAppDirectoryId,
		mdMsg: `
# Invalid application directory!

The application root directory does not exist or is not a directory.

## Things you can try:
- Check the path you passed with ` + "`--app-root`" + `
- Verify the directory contains the managed application and its
  ` + "`<name>.deps.cue`" + ` manifest
- When running from a bundle, verify the extraction directory was
  created successfully`,
	}

	issues = map[Id]*Issue{
		missingManifestIssue.Id():     missingManifestIssue,
		manifestParseErrorIssue.Id():  manifestParseErrorIssue,
		unresolvableAssetIssue.Id():   unresolvableAssetIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		invalidAppDirectoryIssue.Id(): invalidAppDirectoryIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
