package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/schema"
)

// WriteWeightResults outputs the calibrated weights.
func WriteWeightResults(weights []schema.Weight, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	header := []string{"kind", "key", "value", "updated_at"}
	rows := func(w *csv.Writer) error {
		for _, wt := range weights {
			if err := w.Write([]string{string(wt.Kind), wt.Key, fmtFloat(wt.Value), wt.UpdatedAt.Format(contract.DateTimeFormat)}); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	}
	table := func(w io.Writer) error {
		if len(weights) == 0 {
			_, err := fmt.Fprintln(w, "No weights calibrated yet.")
			return err
		}
		t := tablewriter.NewWriter(w)
		t.Header([]string{"Kind", "Key", "Name", "Value", "Updated"})
		var data [][]string
		for _, wt := range weights {
			data = append(data, []string{string(wt.Kind), wt.Key, weightName(wt), fmtFloat(wt.Value), wt.UpdatedAt.Format(contract.DateTimeFormat)})
		}
		if err := t.Bulk(data); err != nil {
			return err
		}
		return t.Render()
	}
	return dispatch(cfg, weights, header, rows, table)
}

// weightName resolves the human readable name of a weight key.
func weightName(w schema.Weight) string {
	if w.Kind == schema.CategoryWeight {
		return schema.ActionCategory(w.Key).Name()
	}
	if info, ok := schema.LookupActionType(schema.ActionType(w.Key)); ok {
		return info.Description
	}
	return "unknown"
}

// WriteActionTaxonomy outputs every action type with its current weights.
func WriteActionTaxonomy(rows []schema.ActionRow, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	optional := func(v *float64) string {
		if v == nil {
			return ""
		}
		return fmtFloat(*v)
	}

	header := []string{"type", "category", "polarity", "description", "weight", "category_weight"}
	csvRows := func(w *csv.Writer) error {
		for _, r := range rows {
			rec := []string{string(r.Type), string(r.Category), r.Polarity.String(), r.Description, optional(r.Weight), optional(r.CategoryWeight)}
			if err := w.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	}
	table := func(w io.Writer) error {
		t := tablewriter.NewWriter(w)
		t.Header([]string{"Type", "Category", "Sign", "Description", "Weight", "Category Weight"})
		var data [][]string
		for _, r := range rows {
			data = append(data, []string{
				string(r.Type),
				r.Category.Name(),
				r.Polarity.String(),
				r.Description,
				optional(r.Weight),
				optional(r.CategoryWeight),
			})
		}
		if err := t.Bulk(data); err != nil {
			return err
		}
		return t.Render()
	}
	return dispatch(cfg, rows, header, csvRows, table)
}
