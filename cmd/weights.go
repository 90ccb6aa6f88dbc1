package cmd

import (
	"github.com/spf13/cobra"
	"github.com/udithaR/Alitheia-Core/core"
)

// weightsCmd prints the calibrated weights.
var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Show the calibrated category and action type weights",
	Long: `Display the weights currently stored in the ledger.

Category weights are the share of each category (commit, bug, mail) in all
recorded actions. Type weights are computed within each category so that
rare actions weigh more than common ones. Weights are global and shared by
every project in the ledger.

Examples:
  # Current weights
  contrib weights

  # Weights as CSV
  contrib weights --output csv --output-file weights.csv`,
	Args:    cobra.NoArgs,
	PreRunE: ledgerSetupWrapper,
	Run:     runExecutor(core.ExecuteWeights, "Cannot read weights"),
}

// weightsRecalibrateCmd forces a calibration pass.
var weightsRecalibrateCmd = &cobra.Command{
	Use:   "recalibrate",
	Short: "Recompute every weight from the current ledger totals",
	Long: `Run a calibration pass immediately instead of waiting for the next
--calibration-interval during a run, then print the new weights.

Examples:
  contrib weights recalibrate`,
	Args:    cobra.NoArgs,
	PreRunE: ledgerSetupWrapper,
	Run:     runExecutor(core.ExecuteRecalibrate, "Cannot recalibrate weights"),
}

// actionsCmd prints the action taxonomy.
var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List every action type with its polarity and current weights",
	Long: `Print the closed taxonomy of contribution actions.

Each action type belongs to one category and is either positive or negative.
The current type and category weights are shown next to it when the ledger
has been calibrated.

Examples:
  contrib actions
  contrib actions --output json`,
	Args:    cobra.NoArgs,
	PreRunE: ledgerSetupWrapper,
	Run:     runExecutor(core.ExecuteActions, "Cannot list actions"),
}
