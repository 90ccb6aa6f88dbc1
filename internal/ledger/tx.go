package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/schema"
)

// ledgerTx scopes ledger writes to one resource or one calibration pass.
type ledgerTx struct {
	reader
	tx *sqlx.Tx
}

var _ contract.LedgerTx = &ledgerTx{} // Compile-time check

// Upsert implements contract.LedgerTx.
// The increment happens inside the database so concurrent writers to the
// same key never lose an update.
func (t *ledgerTx) Upsert(ctx context.Context, action schema.Action) error {
	info, ok := schema.LookupActionType(action.Type)
	if !ok {
		return contract.NewInvariantViolation("upsert", action.ResourceID, fmt.Errorf("unknown action type %q", action.Type))
	}
	if action.Project == "" {
		return fmt.Errorf("failed to upsert %s on %s: action has no project", action.Type, action.ResourceID)
	}

	query := t.tx.Rebind(upsertActionQuery(t.backend))
	_, err := t.tx.ExecContext(ctx, query,
		action.Project, action.DeveloperID, action.ResourceID, string(info.Type), string(info.Category), action.Total, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert %s for %s on %s: %w", action.Type, action.DeveloperID, action.ResourceID, err)
	}
	return nil
}

// SaveWeight implements contract.LedgerTx.
func (t *ledgerTx) SaveWeight(ctx context.Context, weight schema.Weight) error {
	updated := weight.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	query := t.tx.Rebind(upsertWeightQuery(t.backend))
	if _, err := t.tx.ExecContext(ctx, query, string(weight.Kind), weight.Key, weight.Value, updated.Unix()); err != nil {
		return fmt.Errorf("failed to save %s weight %s: %w", weight.Kind, weight.Key, err)
	}
	return nil
}

// MarkEvaluated implements contract.LedgerTx.
func (t *ledgerTx) MarkEvaluated(ctx context.Context, project string, at time.Time) error {
	query := t.tx.Rebind(upsertEvaluationQuery(t.backend))
	if _, err := t.tx.ExecContext(ctx, query, project, at.Unix()); err != nil {
		return fmt.Errorf("failed to mark %s evaluated: %w", project, err)
	}
	return nil
}

// Commit implements contract.LedgerTx.
func (t *ledgerTx) Commit() error {
	return t.tx.Commit()
}

// Rollback implements contract.LedgerTx.
func (t *ledgerTx) Rollback() error {
	return t.tx.Rollback()
}

// upsertActionQuery adds the incoming total to an existing row.
func upsertActionQuery(backend schema.DatabaseBackend) string {
	table := quoteTableName(actionsTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (project, developer_id, resource_id, action_type, category, total, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE total = %s.total + new.total, updated_at = new.updated_at`, table, table)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (project, developer_id, resource_id, action_type, category, total, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (project, developer_id, resource_id, action_type) DO UPDATE SET total = %s.total + EXCLUDED.total, updated_at = EXCLUDED.updated_at`, table, table)
	default: // SQLite
		return fmt.Sprintf(`INSERT INTO %s (project, developer_id, resource_id, action_type, category, total, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (project, developer_id, resource_id, action_type) DO UPDATE SET total = %s.total + excluded.total, updated_at = excluded.updated_at`, table, table)
	}
}

// upsertWeightQuery overwrites a weight row.
func upsertWeightQuery(backend schema.DatabaseBackend) string {
	table := quoteTableName(weightsTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (kind, weight_key, value, updated_at) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE value = new.value, updated_at = new.updated_at`, table)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf(`INSERT INTO %s (kind, weight_key, value, updated_at) VALUES (?, ?, ?, ?)
			ON CONFLICT (kind, weight_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, table)
	}
}

// upsertEvaluationQuery overwrites the evaluation mark of a project.
func upsertEvaluationQuery(backend schema.DatabaseBackend) string {
	table := quoteTableName(evaluationsTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (project, evaluated_at) VALUES (?, ?) AS new
			ON DUPLICATE KEY UPDATE evaluated_at = new.evaluated_at`, table)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf(`INSERT INTO %s (project, evaluated_at) VALUES (?, ?)
			ON CONFLICT (project) DO UPDATE SET evaluated_at = excluded.evaluated_at`, table)
	}
}
