// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"cradle-host/pkg/types"

	"github.com/spf13/cobra"
)

var (
	validateFlags launchFlags

	validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Validate the dependencies manifest stack",
		Long: `Validate the dependencies manifest stack without resolving assets.

Every framework layer's manifest must exist on disk, and every manifest
in the stack, additional manifests included, must parse. The application's
own manifest is allowed to be absent: a self-contained application may
ship without one.

Validation stops at the first failure and reports the offending manifest
path.

Examples:
  cradle validate --app-root ./out --app myapp.dll
  cradle validate --app-root ./out --app myapp.dll --framework Base.App=/usr/share/base`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd)
		},
	}
)

func init() {
	validateFlags.register(validateCmd)
}

func runValidate(cmd *cobra.Command) error {
	stdout := cmd.OutOrStdout()

	r, err := validateFlags.newResolver()
	if err != nil {
		renderResolutionIssue(err)
		cmd.SilenceUsage = true
		return err
	}

	count := 0
	r.EnumManifestFiles(func(types.FilesystemPath) { count++ })

	fmt.Fprintf(stdout, "%s Manifest stack is valid (%d manifest(s))\n", SuccessStyle.Render("✓"), count)
	if r.IsFrameworkDependent() {
		fmt.Fprintf(stdout, "%s\n", SubtitleStyle.Render("  framework-dependent application"))
	} else {
		fmt.Fprintf(stdout, "%s\n", SubtitleStyle.Render("  self-contained application"))
	}

	return nil
}
