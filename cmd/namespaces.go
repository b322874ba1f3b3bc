package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ehartline/armature/internal/app"
	"github.com/ehartline/armature/internal/presentation"
)

var namespacesJSON bool

var namespacesCmd = &cobra.Command{
	Use:   "namespaces",
	Short: "Print the namespaces the shell registers at startup",
	Long: `Print the namespace tree and the index of registered paths, built the
same way the shell builds them from the current config.

Containers marked with a bullet are registered; the rest are
auto-created intermediates. Member values live in-process, so only
their keys are shown.

Examples:
  # Human-readable tree plus the flat index
  armature namespaces

  # One JSON object per container
  armature namespaces --json

  # Parse specific fields with jq
  armature namespaces --json | jq '.[].path'
  armature namespaces --json | jq '.[] | select(.registered) | .path'`,
	RunE: runNamespaces,
}

func init() {
	namespacesCmd.Flags().BoolVar(&namespacesJSON, "json", false,
		"emit one JSON object per container")
	rootCmd.AddCommand(namespacesCmd)
}

func runNamespaces(cmd *cobra.Command, args []string) error {
	if cfgErr != nil {
		return cfgErr
	}

	// Listing must not emit analytics events, so the tracker is forced
	// off before bootstrapping.
	listCfg := cfg
	listCfg.Analytics.Enabled = false

	reg, _, err := app.Bootstrap(&listCfg)
	if err != nil {
		return fmt.Errorf("bootstrapping registry: %w", err)
	}

	formatter := presentation.NewFormatter(cmd.OutOrStdout())
	if namespacesJSON {
		return formatter.FormatNamespaces(presentation.FromRegistry(reg))
	}
	return formatter.FormatTree(reg)
}
