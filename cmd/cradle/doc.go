// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for cradle.
//
// This package implements the Cobra command hierarchy for the cradle CLI,
// including the root command and subcommands for dependency resolution,
// manifest validation, manifest enumeration and configuration management.
package cmd
