// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cradle-host/internal/issue"
	"cradle-host/internal/launch"
	"cradle-host/internal/resolver"
	"cradle-host/pkg/platform"

	"github.com/spf13/cobra"
)

var (
	resolveFlags       launchFlags
	resolveBreadcrumbs bool
	resolveJSON        bool

	resolveCmd = &cobra.Command{
		Use:   "resolve",
		Short: "Resolve all runtime search paths",
		Long: `Resolve the full set of search paths for a managed application.

The manifest stack is loaded root framework first, application last, so
that the root framework's RID fallback list governs native-asset group
selection in every layer. The output covers:

  - the ordered managed-library list (TPA)
  - the native-library search directories
  - the resource-library search directories
  - the core execution engine library path

Examples:
  cradle resolve --app-root ./out --app myapp.dll
  cradle resolve --app-root ./out --app myapp.dll --framework Base.App=/usr/share/base
  cradle resolve --app-root ./out --app myapp.dll --shared-store /opt/store`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd)
		},
	}
)

func init() {
	resolveFlags.register(resolveCmd)
	resolveCmd.Flags().BoolVar(&resolveBreadcrumbs, "breadcrumbs", false, "print the resolved logical asset identities")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "emit machine-readable JSON instead of styled output")
}

func runResolve(cmd *cobra.Command) error {
	stdout := cmd.OutOrStdout()

	r, err := resolveFlags.newResolver()
	if err != nil {
		renderResolutionIssue(err)
		cmd.SilenceUsage = true
		return err
	}

	crumbs := resolver.NewBreadcrumbSet()
	paths, err := r.ResolveProbePaths(crumbs)
	if err != nil {
		renderResolutionIssue(err)
		cmd.SilenceUsage = true
		return err
	}

	if resolveJSON {
		return printResolutionJSON(stdout, r, paths, crumbs)
	}

	printPathList(stdout, "Managed libraries (TPA)", paths.TPA)
	printPathList(stdout, "Native search directories", paths.NativeSearchPaths)
	printPathList(stdout, "Resource search directories", paths.ResourceSearchPaths)

	fmt.Fprintln(stdout, TitleStyle.Render("Engine library"))
	if paths.Engine != "" {
		fmt.Fprintf(stdout, "  %s\n", PathStyle.Render(string(paths.Engine)))
	} else {
		fmt.Fprintf(stdout, "  %s\n", SubtitleStyle.Render("(not declared by any layer)"))
	}

	if appDir := r.AppDir(); appDir != "" {
		fmt.Fprintln(stdout)
		fmt.Fprintf(stdout, "%s %s\n", TitleStyle.Render("Application directory:"), PathStyle.Render(string(appDir)))
	}

	if resolveBreadcrumbs {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, TitleStyle.Render("Breadcrumbs"))
		for _, identity := range crumbs.Sorted() {
			fmt.Fprintf(stdout, "  %s\n", VerboseStyle.Render(identity))
		}
	}

	return nil
}

// resolutionOutput is the machine-readable form of a resolution pass.
type resolutionOutput struct {
	TPA                 []string `json:"tpa"`
	NativeSearchPaths   []string `json:"native_search_paths"`
	ResourceSearchPaths []string `json:"resource_search_paths"`
	Engine              string   `json:"engine,omitempty"`
	AppDir              string   `json:"app_dir,omitempty"`
	Breadcrumbs         []string `json:"breadcrumbs,omitempty"`
}

func printResolutionJSON(w io.Writer, r *resolver.Resolver, paths *resolver.ProbePaths, crumbs resolver.BreadcrumbSet) error {
	out := resolutionOutput{
		TPA:                 splitPathList(paths.TPA),
		NativeSearchPaths:   splitPathList(paths.NativeSearchPaths),
		ResourceSearchPaths: splitPathList(paths.ResourceSearchPaths),
		Engine:              string(paths.Engine),
		AppDir:              string(r.AppDir()),
	}
	if resolveBreadcrumbs {
		out.Breadcrumbs = crumbs.Sorted()
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// splitPathList splits a separator-joined list, mapping "" to an empty slice
// so JSON output stays an array.
func splitPathList(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, platform.ListSeparator())
}

// printPathList prints one separator-joined path list as a titled block.
func printPathList(w io.Writer, title, joined string) {
	fmt.Fprintln(w, TitleStyle.Render(title))
	if joined == "" {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(empty)"))
		fmt.Fprintln(w)
		return
	}
	for _, p := range strings.Split(joined, platform.ListSeparator()) {
		fmt.Fprintf(w, "  %s\n", PathStyle.Render(p))
	}
	fmt.Fprintln(w)
}

// issueIDForError maps a resolution failure to its issue card, when one
// covers it.
func issueIDForError(err error) (issue.Id, bool) {
	switch {
	case errors.Is(err, resolver.ErrMissingManifest):
		return issue.MissingManifestId, true
	case errors.Is(err, resolver.ErrManifestParse):
		return issue.ManifestParseErrorId, true
	case errors.Is(err, resolver.ErrUnresolvableAsset):
		return issue.UnresolvableAssetId, true
	case errors.Is(err, launch.ErrInvalidAppRoot):
		return issue.InvalidAppDirectoryId, true
	}
	return 0, false
}

// renderResolutionIssue renders the matching issue card to stderr. Unknown
// errors render nothing; cobra prints the error itself.
func renderResolutionIssue(err error) {
	id, ok := issueIDForError(err)
	if !ok {
		return
	}

	rendered, renderErr := issue.Get(id).Render("dark")
	if renderErr != nil {
		return
	}
	fmt.Fprint(os.Stderr, rendered)
}
