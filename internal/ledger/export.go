package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/internal/parquet"
)

// ExecuteLedgerExport writes the ledger actions, weights and runs to
// Parquet files next to outputFile.
func ExecuteLedgerExport(ctx context.Context, store contract.Ledger, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to get ledger status: %w", err)
	}
	if status.TableSizes[actionsTable] == 0 && status.TotalRuns == 0 {
		return errors.New("no ledger data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total action rows: %d\n", status.TableSizes[actionsTable])
	fmt.Printf("Total runs: %d\n", status.TotalRuns)

	actions, err := store.AllActions(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve actions: %w", err)
	}
	weights, err := store.Weights(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve weights: %w", err)
	}
	runs, err := store.AllRuns(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}

	parquetRuns, err := parquet.ConvertRuns(runs)
	if err != nil {
		return fmt.Errorf("failed to convert runs: %w", err)
	}
	parquetActions := parquet.ConvertActions(actions)
	parquetWeights := parquet.ConvertWeights(weights)

	actionsFile := outputFile + ".actions.parquet"
	if err := parquet.WriteActionsParquet(parquetActions, actionsFile); err != nil {
		return fmt.Errorf("failed to write actions: %w", err)
	}
	fmt.Printf("Exported %d actions to: %s\n", len(parquetActions), actionsFile)

	weightsFile := outputFile + ".weights.parquet"
	if err := parquet.WriteWeightsParquet(parquetWeights, weightsFile); err != nil {
		return fmt.Errorf("failed to write weights: %w", err)
	}
	fmt.Printf("Exported %d weights to: %s\n", len(parquetWeights), weightsFile)

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")

	return nil
}
