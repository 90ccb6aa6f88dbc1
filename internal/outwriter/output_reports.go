package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/schema"
)

// WriteRunReport outputs the summary of one processing run.
func WriteRunReport(report schema.RunReport, cfg *contract.Config) error {
	header := []string{"run_id", "project", "processed", "skipped", "failed", "file_warnings", "calibrations", "duration_ms"}
	rows := func(w *csv.Writer) error {
		return w.Write([]string{
			report.RunID,
			report.Project,
			strconv.Itoa(report.Processed),
			strconv.Itoa(report.Skipped),
			strconv.Itoa(report.Failed),
			strconv.Itoa(report.FileWarnings),
			strconv.Itoa(report.Calibrations),
			strconv.FormatInt(report.Duration.Milliseconds(), 10),
		})
	}
	table := func(w io.Writer) error {
		return writeRunText(w, report, cfg)
	}
	return dispatch(cfg, report, header, rows, table)
}

func writeRunText(w io.Writer, report schema.RunReport, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "Run %s for project %s\n", report.RunID, report.Project); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  Processed:     %d\n  Skipped:       %d\n  Failed:        %d\n", report.Processed, report.Skipped, report.Failed); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  File warnings: %d\n  Calibrations:  %d\n", report.FileWarnings, report.Calibrations); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Completed in %v with %d workers. Ledger backend: %s, cache backend: %s\n",
		report.Duration, cfg.Workers, cfg.LedgerBackend, cfg.CacheBackend); err != nil {
		return err
	}
	if len(report.Failures) == 0 {
		return nil
	}

	t := tablewriter.NewWriter(w)
	t.Header([]string{"Resource", "Kind", "Error"})
	var data [][]string
	for _, f := range report.Failures {
		data = append(data, []string{f.ResourceID, f.Kind, contract.TruncateText(f.Error, 80)})
	}
	if err := t.Bulk(data); err != nil {
		return err
	}
	return t.Render()
}

// WriteCleanupReport outputs the summary of a project purge.
func WriteCleanupReport(report schema.CleanupReport, cfg *contract.Config) error {
	header := []string{"project", "resources", "actions_removed", "weights_removed"}
	rows := func(w *csv.Writer) error {
		return w.Write([]string{
			report.Project,
			strconv.Itoa(report.Resources),
			strconv.FormatInt(report.ActionsRemoved, 10),
			strconv.FormatInt(report.WeightsRemoved, 10),
		})
	}
	table := func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Cleaned up project %s: %d resources, %d actions and %d weights removed\n",
			report.Project, report.Resources, report.ActionsRemoved, report.WeightsRemoved)
		return err
	}
	return dispatch(cfg, report, header, rows, table)
}

// WriteTouchedResults outputs whether each resource carries actions.
func WriteTouchedResults(results []schema.TouchedResult, cfg *contract.Config) error {
	header := []string{"resource", "category", "touched"}
	rows := func(w *csv.Writer) error {
		for _, r := range results {
			if err := w.Write([]string{r.Resource.ID, string(r.Resource.Category), strconv.FormatBool(r.Touched)}); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	}
	table := func(w io.Writer) error {
		t := tablewriter.NewWriter(w)
		t.Header([]string{"Resource", "Category", "Touched"})
		var data [][]string
		for _, r := range results {
			touched := "no"
			if r.Touched {
				touched = "yes"
			}
			data = append(data, []string{r.Resource.ID, r.Resource.Category.Name(), touched})
		}
		if err := t.Bulk(data); err != nil {
			return err
		}
		return t.Render()
	}
	return dispatch(cfg, results, header, rows, table)
}
