package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/schema"
)

// jsonScore adds rank and label to a score for JSON output.
type jsonScore struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	schema.DeveloperScore
}

// WriteScoreResults outputs developer scores, dispatching on the configured format.
func WriteScoreResults(scores []schema.DeveloperScore, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	output := make([]jsonScore, len(scores))
	for i, s := range scores {
		output[i] = jsonScore{Rank: i + 1, Label: contract.GetPlainLabel(s.Score, s.Computed), DeveloperScore: s}
	}

	header := []string{"rank", "developer", "score", "label", "computed", "commit", "bug", "mail"}
	rows := func(w *csv.Writer) error {
		for i, s := range scores {
			rec := []string{
				strconv.Itoa(i + 1),
				s.Developer,
				fmtFloat(s.Score),
				contract.GetPlainLabel(s.Score, s.Computed),
				strconv.FormatBool(s.Computed),
			}
			for _, cat := range schema.AllCategories {
				rec = append(rec, fmtFloat(s.Breakdown[cat]))
			}
			if err := w.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	}
	table := func(w io.Writer) error {
		return writeScoreTable(w, scores, cfg, fmtFloat, duration)
	}
	return dispatch(cfg, output, header, rows, table)
}

// writeScoreTable generates and writes the human-readable table.
func writeScoreTable(w io.Writer, scores []schema.DeveloperScore, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Developer", "Score", "Label", "Commit", "Bug", "Mail"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := getMaxTableDeveloperWidth(cfg)
	var data [][]string
	for i, s := range scores {
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncateText(s.Developer, maxWidth),
			notComputed(s, fmtFloat(s.Score)),
			scoreLabel(s, cfg),
		}
		for _, cat := range schema.AllCategories {
			row = append(row, notComputed(s, fmtFloat(s.Breakdown[cat])))
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d developers (score mode: %s). Computed in %v. Ledger backend: %s\n",
		len(scores), cfg.ScoreMode, duration, cfg.LedgerBackend)
	return err
}

// notComputed blanks out values of scores that were never computed.
func notComputed(s schema.DeveloperScore, v string) string {
	if !s.Computed {
		return "-"
	}
	return v
}
