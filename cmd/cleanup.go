package cmd

import (
	"github.com/spf13/cobra"
	"github.com/udithaR/Alitheia-Core/core"
)

// cleanupCmd purges a project's actions from the ledger.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup [repo-path]",
	Short: "Remove a project's actions, all weights and its evaluation mark",
	Long: `Delete every action the project recorded for the commits of a repository
and, with --input, for the messages and bugs of its mail archive. Other
projects keep their actions on shared commits.

Weights are global, so they are all removed and recomputed by the next run.
The project loses its evaluation mark and scores show as "N/A" until it is
processed again.

Examples:
  # Purge the project of the current repository
  contrib cleanup

  # Purge commits and mail of a project
  contrib cleanup ~/src/kafka --input archive.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.ExecuteCleanup, "Cannot clean up project"),
}
