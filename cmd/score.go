package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/udithaR/Alitheia-Core/core"
	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/schema"
)

// scoreCmd prints contribution scores.
var scoreCmd = &cobra.Command{
	Use:   "score [developer...]",
	Short: "Show contribution scores of developers",
	Long: `Compute the contribution score of developers of a project from the ledger.

Only actions recorded under the project count. Without arguments every
developer of the project is scored and the top
--limit results are shown. With arguments only the named developers are
scored, in the given order. Developers are shown as "N/A" until a project
has been evaluated.

Scoring modes:
  flat     - signed action totals per category, scaled by the category weight (default)
  weighted - each action total is also scaled by its type weight

Examples:
  # Top 25 developers
  contrib score

  # Scores of two developers as JSON
  contrib score ada@example.com bob@example.com --output json

  # Per-type weighting
  contrib score --score-mode weighted`,
	PreRunE: projectSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteScore(rootCtx, cfg, ledgerManager, args); err != nil {
			contract.LogFatal("Cannot compute scores", err)
		}
	},
}

// touchedCmd answers whether resources already have recorded actions.
var touchedCmd = &cobra.Command{
	Use:   "touched <resource-id>...",
	Short: "Check whether resources already have recorded actions",
	Long: `Report whether the ledger holds any action of the project for each resource.

The category is inferred from the resource id prefix ("commit:", "msg:",
"thread:" or "bug:") unless --category is given.

Examples:
  # Has this commit been processed?
  contrib touched commit:3f2c1a9

  # Check a mail message explicitly
  contrib touched msg:1234 --category M`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: projectSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		category, _ := cmd.Flags().GetString("category")
		cat := schema.ActionCategory(strings.ToUpper(strings.TrimSpace(category)))
		if err := core.ExecuteTouched(rootCtx, cfg, ledgerManager, args, cat); err != nil {
			contract.LogFatal("Cannot check resources", err)
		}
	},
}
