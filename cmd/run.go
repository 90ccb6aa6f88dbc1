package cmd

import (
	"github.com/spf13/cobra"
	"github.com/udithaR/Alitheia-Core/core"
)

// runCmd classifies the commits of a repository into the ledger.
var runCmd = &cobra.Command{
	Use:   "run [repo-path]",
	Short: "Classify the commits of a repository into contribution actions",
	Long: `Walk the history of a Git repository and record contribution actions for
every commit that is not in the ledger yet.

Each commit is checked against the action taxonomy: added, removed and
modified files by type, oversized commits, empty messages, and lines of code
attributed to its author. Commits processed by an earlier run are skipped, so
running the command again only picks up new history.

Weights are recalibrated every --calibration-interval processed resources and
once more at the end of the run.

Examples:
  # Classify the repository in the current directory
  contrib run

  # Classify a repository under an explicit project name
  contrib run ~/src/kafka --project kafka

  # Only commits of the last year, with Prometheus metrics
  contrib run --start "1 year ago" --metrics-file run.prom`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.ExecuteRun, "Cannot run contribution scoring"),
}

// mailCmd classifies the threads and bugs of a mail archive into the ledger.
var mailCmd = &cobra.Command{
	Use:   "mail --input archive.json",
	Short: "Classify mailing-list threads and bug reports into contribution actions",
	Long: `Read a mail archive and record contribution actions for its threads.

The archive is a JSON document with the project's threads (messages with
their depth and parent) and bug reports. Thread starters, first responders,
closers and every sender get their actions; a thread that grew since the last
run has its closing action moved to the new last message.

Examples:
  # Classify an archive for the project of the current repository
  contrib mail --input archive.json

  # Classify an archive for an explicit project
  contrib mail --input archive.json --project kafka`,
	Args:    cobra.NoArgs,
	PreRunE: projectSetupWrapper,
	Run:     runExecutor(core.ExecuteMail, "Cannot classify mail archive"),
}
