// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"cradle-host/pkg/types"

	"github.com/spf13/cobra"
)

var (
	manifestsFlags launchFlags

	manifestsCmd = &cobra.Command{
		Use:   "manifests",
		Short: "List every manifest and probe location in play",
		Long: `List every dependencies manifest contributing to the application
context, plus the probe locations in consultation order.

Manifests are listed application first, root framework last, followed by
any additional manifests. Probe locations are listed the way the resolver
consults them.

Examples:
  cradle manifests --app-root ./out --app myapp.dll`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runManifests(cmd)
		},
	}
)

func init() {
	manifestsFlags.register(manifestsCmd)
}

func runManifests(cmd *cobra.Command) error {
	stdout := cmd.OutOrStdout()

	r, err := manifestsFlags.newResolver()
	if err != nil {
		renderResolutionIssue(err)
		cmd.SilenceUsage = true
		return err
	}

	fmt.Fprintln(stdout, TitleStyle.Render("Dependencies manifests"))
	r.EnumManifestFiles(func(p types.FilesystemPath) {
		fmt.Fprintf(stdout, "  %s\n", PathStyle.Render(string(p)))
	})

	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, TitleStyle.Render("Probe locations"))
	dirs := r.LookupProbeDirectories()
	if len(dirs) == 0 {
		fmt.Fprintf(stdout, "  %s\n", SubtitleStyle.Render("(layer directories only)"))
		return nil
	}
	for _, d := range dirs {
		fmt.Fprintf(stdout, "  %s\n", PathStyle.Render(d))
	}

	return nil
}
