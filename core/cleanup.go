package core

import (
	"context"
	"fmt"

	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/schema"
)

// Cleanup purges a project: its actions on every listed resource, every
// weight and the evaluation mark of the project. Other projects keep their
// actions on shared resources.
func Cleanup(ctx context.Context, l contract.Ledger, project string, resources []schema.ResourceRef) (schema.CleanupReport, error) {
	report := schema.CleanupReport{Project: project, Resources: len(resources)}

	ids := make([]string, 0, len(resources))
	for _, r := range resources {
		ids = append(ids, r.ID)
	}
	removed, err := l.DeleteActions(ctx, project, ids)
	report.ActionsRemoved = removed
	if err != nil {
		return report, fmt.Errorf("failed to remove actions of %s: %w", project, err)
	}

	if report.WeightsRemoved, err = l.DeleteWeights(ctx); err != nil {
		return report, fmt.Errorf("failed to remove weights: %w", err)
	}
	if err := l.ClearEvaluation(ctx, project); err != nil {
		return report, err
	}
	return report, nil
}
