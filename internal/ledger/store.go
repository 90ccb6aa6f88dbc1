package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/schema"
)

// deleteChunkSize bounds the number of ids bound into one IN clause.
const deleteChunkSize = 500

// Store implements contract.Ledger on top of a SQL database.
type Store struct {
	reader
	db *sqlx.DB
}

var _ contract.Ledger = &Store{} // Compile-time check

// NewStore opens the ledger for the given backend and creates its tables.
func NewStore(backend schema.DatabaseBackend, connStr string) (*Store, error) {
	if backend == schema.NoneBackend {
		return nil, fmt.Errorf("the ledger requires a database backend")
	}
	db, err := openDB(backend, connStr, contract.GetLedgerDBFilePath())
	if err != nil {
		return nil, err
	}
	if err := createTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create ledger tables: %w", err)
	}
	return &Store{reader: reader{q: db, backend: backend}, db: db}, nil
}

// createTables applies the baseline schema; every statement is idempotent.
func createTables(db *sqlx.DB, backend schema.DatabaseBackend) error {
	stmts, err := schemaStatements(backend)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Backend returns the backend of the store.
func (s *Store) Backend() schema.DatabaseBackend {
	return s.backend
}

// Begin implements contract.Ledger.
func (s *Store) Begin(ctx context.Context) (contract.LedgerTx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin ledger transaction: %w", err)
	}
	return &ledgerTx{reader: reader{q: tx, backend: s.backend}, tx: tx}, nil
}

// DeleteActions implements contract.Ledger.
func (s *Store) DeleteActions(ctx context.Context, project string, resourceIDs []string) (int64, error) {
	var removed int64
	for start := 0; start < len(resourceIDs); start += deleteChunkSize {
		end := min(start+deleteChunkSize, len(resourceIDs))
		query, args, err := sqlx.In(fmt.Sprintf(`DELETE FROM %s WHERE project = ? AND resource_id IN (?)`, s.table(actionsTable)), project, resourceIDs[start:end])
		if err != nil {
			return removed, fmt.Errorf("failed to build delete query: %w", err)
		}
		res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
		if err != nil {
			return removed, fmt.Errorf("failed to delete actions: %w", err)
		}
		n, _ := res.RowsAffected()
		removed += n
	}
	return removed, nil
}

// DeleteWeights implements contract.Ledger.
func (s *Store) DeleteWeights(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, s.table(weightsTable)))
	if err != nil {
		return 0, fmt.Errorf("failed to delete weights: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// ClearEvaluation implements contract.Ledger.
func (s *Store) ClearEvaluation(ctx context.Context, project string) error {
	query := s.db.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE project = ?`, s.table(evaluationsTable)))
	if _, err := s.db.ExecContext(ctx, query, project); err != nil {
		return fmt.Errorf("failed to clear evaluation of %s: %w", project, err)
	}
	return nil
}

// BeginRun implements contract.Ledger.
func (s *Store) BeginRun(ctx context.Context, runID, project string, startTime time.Time, configParams map[string]any) error {
	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return fmt.Errorf("failed to marshal config params: %w", err)
	}
	query := s.db.Rebind(fmt.Sprintf(`INSERT INTO %s (run_id, project, start_time, config_params) VALUES (?, ?, ?, ?)`, s.table(runsTable)))
	if _, err := s.db.ExecContext(ctx, query, runID, project, formatTime(startTime, s.backend), string(configJSON)); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// EndRun implements contract.Ledger.
func (s *Store) EndRun(ctx context.Context, runID string, endTime time.Time, processed, skipped, failed int) error {
	startTime, err := s.runStart(ctx, runID)
	if err != nil {
		return err
	}
	durationMs := endTime.Sub(startTime).Milliseconds()

	query := s.db.Rebind(fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, processed = ?, skipped = ?, failed = ? WHERE run_id = ?`, s.table(runsTable)))
	if _, err := s.db.ExecContext(ctx, query, formatTime(endTime, s.backend), durationMs, processed, skipped, failed, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// runStart reads the start time of a run.
func (s *Store) runStart(ctx context.Context, runID string) (time.Time, error) {
	query := s.db.Rebind(fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = ?`, s.table(runsTable)))
	row := s.db.QueryRowxContext(ctx, query, runID)

	// Handle different time storage formats per backend
	if s.backend == schema.SQLiteBackend {
		var raw string
		if err := row.Scan(&raw); err != nil {
			return time.Time{}, fmt.Errorf("failed to get start_time for run %s: %w", runID, err)
		}
		t, err := parseSQLiteTime(raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse start_time: %w", err)
		}
		return t, nil
	}
	var t time.Time
	if err := row.Scan(&t); err != nil {
		return time.Time{}, fmt.Errorf("failed to get start_time for run %s: %w", runID, err)
	}
	return t, nil
}

// AllActions implements contract.Ledger.
func (s *Store) AllActions(ctx context.Context) ([]schema.Action, error) {
	query := fmt.Sprintf(`SELECT project, developer_id, resource_id, action_type, total FROM %s ORDER BY project, developer_id, resource_id, action_type`, s.table(actionsTable))
	var actions []schema.Action
	if err := s.db.SelectContext(ctx, &actions, query); err != nil {
		return nil, fmt.Errorf("failed to query actions: %w", err)
	}
	return actions, nil
}

// AllRuns implements contract.Ledger.
func (s *Store) AllRuns(ctx context.Context) ([]schema.RunRecord, error) {
	query := fmt.Sprintf(`SELECT run_id, project, start_time, end_time, run_duration_ms, processed, skipped, failed, config_params FROM %s ORDER BY start_time`, s.table(runsTable))
	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		if s.backend == schema.SQLiteBackend {
			var startRaw string
			var endRaw *string
			if err := rows.Scan(&record.RunID, &record.Project, &startRaw, &endRaw, &record.RunDurationMs,
				&record.Processed, &record.Skipped, &record.Failed, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			if record.StartTime, err = parseSQLiteTime(startRaw); err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endRaw != nil {
				endTime, err := parseSQLiteTime(*endRaw)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		} else if err := rows.Scan(&record.RunID, &record.Project, &record.StartTime, &record.EndTime, &record.RunDurationMs,
			&record.Processed, &record.Skipped, &record.Failed, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetStatus implements contract.Ledger.
func (s *Store) GetStatus(ctx context.Context) (schema.LedgerStatus, error) {
	status := schema.LedgerStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}

	for _, table := range []string{actionsTable, weightsTable, evaluationsTable, runsTable} {
		var count int64
		if err := s.db.GetContext(ctx, &count, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.table(table))); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.Weights = int(status.TableSizes[weightsTable])
	status.TotalRuns = int(status.TableSizes[runsTable])

	actions := s.table(actionsTable)
	if err := s.db.GetContext(ctx, &status.TotalActions, fmt.Sprintf(`SELECT COALESCE(SUM(total), 0) FROM %s`, actions)); err != nil {
		return status, fmt.Errorf("failed to sum actions: %w", err)
	}
	if err := s.db.GetContext(ctx, &status.Developers, fmt.Sprintf(`SELECT COUNT(DISTINCT developer_id) FROM %s`, actions)); err != nil {
		return status, fmt.Errorf("failed to count developers: %w", err)
	}
	if err := s.db.GetContext(ctx, &status.Resources, fmt.Sprintf(`SELECT COUNT(DISTINCT resource_id) FROM %s`, actions)); err != nil {
		return status, fmt.Errorf("failed to count resources: %w", err)
	}

	if status.TotalRuns == 0 {
		return status, nil
	}

	runs, err := s.AllRuns(ctx)
	if err != nil {
		return status, err
	}
	oldest, last := runs[0], runs[len(runs)-1]
	status.LastRunID = last.RunID
	status.LastRunTime = last.StartTime
	status.OldestRunTime = oldest.StartTime
	return status, nil
}

// Close implements contract.Ledger.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
