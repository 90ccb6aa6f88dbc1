package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/udithaR/Alitheia-Core/schema"
)

// Table names of the ledger.
const (
	actionsTable     = "contrib_actions"
	weightsTable     = "contrib_weights"
	evaluationsTable = "contrib_evaluations"
	runsTable        = "contrib_runs"
)

// reader runs the read side of the ledger against either the pool or an
// open transaction. Reads made while a transaction is open must go through
// it: SQLite holds a single connection.
type reader struct {
	q       sqlx.ExtContext
	backend schema.DatabaseBackend
}

func (r reader) table(name string) string {
	return quoteTableName(name, r.backend)
}

// Exists implements contract.LedgerReader.
func (r reader) Exists(ctx context.Context, project, resourceID string, category schema.ActionCategory) (bool, error) {
	query := r.q.Rebind(fmt.Sprintf(`SELECT 1 FROM %s WHERE project = ? AND resource_id = ? AND category = ? LIMIT 1`, r.table(actionsTable)))
	var one int
	err := sqlx.GetContext(ctx, r.q, &one, query, project, resourceID, string(category))
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check resource %s: %w", resourceID, err)
	}
	return true, nil
}

// ResourceTotal implements contract.LedgerReader.
func (r reader) ResourceTotal(ctx context.Context, project, resourceID string, t schema.ActionType) (int64, error) {
	query := r.q.Rebind(fmt.Sprintf(`SELECT COALESCE(SUM(total), 0) FROM %s WHERE project = ? AND resource_id = ? AND action_type = ?`, r.table(actionsTable)))
	var total int64
	if err := sqlx.GetContext(ctx, r.q, &total, query, project, resourceID, string(t)); err != nil {
		return 0, fmt.Errorf("failed to sum %s on %s: %w", t, resourceID, err)
	}
	return total, nil
}

type typeTotalRow struct {
	Category string `db:"category"`
	Type     string `db:"action_type"`
	Total    int64  `db:"total"`
}

// Totals implements contract.LedgerReader.
// One GROUP BY query yields all three aggregates from the same snapshot.
// Weights are shared, so the sums span every project.
func (r reader) Totals(ctx context.Context) (schema.ActionTotals, error) {
	query := fmt.Sprintf(`SELECT category, action_type, COALESCE(SUM(total), 0) AS total FROM %s GROUP BY category, action_type`, r.table(actionsTable))
	var rows []typeTotalRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query); err != nil {
		return schema.ActionTotals{}, fmt.Errorf("failed to aggregate actions: %w", err)
	}

	totals := schema.NewActionTotals()
	for _, row := range rows {
		totals.Global += row.Total
		totals.ByCategory[schema.ActionCategory(row.Category)] += row.Total
		totals.ByType[schema.ActionType(row.Type)] += row.Total
	}
	return totals, nil
}

// DeveloperTotals implements contract.LedgerReader.
func (r reader) DeveloperTotals(ctx context.Context, project, developer string) (map[schema.ActionType]int64, error) {
	query := r.q.Rebind(fmt.Sprintf(`SELECT category, action_type, COALESCE(SUM(total), 0) AS total FROM %s WHERE project = ? AND developer_id = ? GROUP BY category, action_type`, r.table(actionsTable)))
	var rows []typeTotalRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, project, developer); err != nil {
		return nil, fmt.Errorf("failed to aggregate actions of %s: %w", developer, err)
	}
	result := make(map[schema.ActionType]int64, len(rows))
	for _, row := range rows {
		result[schema.ActionType(row.Type)] += row.Total
	}
	return result, nil
}

// Developers implements contract.LedgerReader.
func (r reader) Developers(ctx context.Context, project string) ([]string, error) {
	query := r.q.Rebind(fmt.Sprintf(`SELECT DISTINCT developer_id FROM %s WHERE project = ? ORDER BY developer_id`, r.table(actionsTable)))
	var devs []string
	if err := sqlx.SelectContext(ctx, r.q, &devs, query, project); err != nil {
		return nil, fmt.Errorf("failed to list developers of %s: %w", project, err)
	}
	return devs, nil
}

type weightRow struct {
	Kind      string  `db:"kind"`
	Key       string  `db:"weight_key"`
	Value     float64 `db:"value"`
	UpdatedAt int64   `db:"updated_at"`
}

// Weights implements contract.LedgerReader.
func (r reader) Weights(ctx context.Context) ([]schema.Weight, error) {
	query := fmt.Sprintf(`SELECT kind, weight_key, value, updated_at FROM %s ORDER BY kind, weight_key`, r.table(weightsTable))
	var rows []weightRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to read weights: %w", err)
	}
	weights := make([]schema.Weight, 0, len(rows))
	for _, row := range rows {
		weights = append(weights, schema.Weight{
			Kind:      schema.WeightKind(row.Kind),
			Key:       row.Key,
			Value:     row.Value,
			UpdatedAt: time.Unix(row.UpdatedAt, 0),
		})
	}
	return weights, nil
}

// IsEvaluated implements contract.LedgerReader.
func (r reader) IsEvaluated(ctx context.Context, project string) (bool, error) {
	query := r.q.Rebind(fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE project = ?`, r.table(evaluationsTable)))
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, query, project); err != nil {
		return false, fmt.Errorf("failed to read evaluation of %s: %w", project, err)
	}
	return n > 0, nil
}
