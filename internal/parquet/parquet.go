// Package parquet provides data structures and functions for exporting the
// contribution ledger to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"fortio.org/safecast"
	"github.com/parquet-go/parquet-go"
	"github.com/udithaR/Alitheia-Core/schema"
)

// ActionRecord is one ledger row.
// This struct maps to the contrib_actions database table.
type ActionRecord struct {
	Project     string `parquet:"project,snappy"`
	DeveloperID string `parquet:"developer_id,snappy"`
	ResourceID  string `parquet:"resource_id,snappy"`
	ActionType  string `parquet:"action_type,snappy"`
	Category    string `parquet:"category,snappy"`
	Total       int64  `parquet:"total,snappy"`
}

// WeightRecord is one calibrated weight.
// This struct maps to the contrib_weights database table.
type WeightRecord struct {
	Kind      string    `parquet:"kind,snappy"`
	Key       string    `parquet:"weight_key,snappy"`
	Value     float64   `parquet:"value,snappy"`
	UpdatedAt time.Time `parquet:"updated_at,snappy"`
}

// RunRecord represents a single processing run with metadata.
// This struct maps to the contrib_runs database table.
type RunRecord struct {
	RunID string `parquet:"run_id,snappy"`

	Project string `parquet:"project,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	Processed int32 `parquet:"processed,snappy"`
	Skipped   int32 `parquet:"skipped,snappy"`
	Failed    int32 `parquet:"failed,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// writeParquet writes rows to outputPath with a schema inferred from T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to flush parquet file: %w", err)
	}
	return nil
}

// WriteActionsParquet writes ledger actions to a Parquet file.
func WriteActionsParquet(data []ActionRecord, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteWeightsParquet writes weights to a Parquet file.
func WriteWeightsParquet(data []WeightRecord, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRunsParquet writes processing runs to a Parquet file.
func WriteRunsParquet(data []RunRecord, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertActions converts ledger actions for Parquet export.
func ConvertActions(actions []schema.Action) []ActionRecord {
	result := make([]ActionRecord, len(actions))
	for i, a := range actions {
		result[i] = ActionRecord{
			Project:     a.Project,
			DeveloperID: a.DeveloperID,
			ResourceID:  a.ResourceID,
			ActionType:  string(a.Type),
			Category:    string(a.Type.Category()),
			Total:       a.Total,
		}
	}
	return result
}

// ConvertWeights converts weights for Parquet export.
func ConvertWeights(weights []schema.Weight) []WeightRecord {
	result := make([]WeightRecord, len(weights))
	for i, w := range weights {
		result[i] = WeightRecord{
			Kind:      string(w.Kind),
			Key:       w.Key,
			Value:     w.Value,
			UpdatedAt: w.UpdatedAt,
		}
	}
	return result
}

// ConvertRuns converts run records for Parquet export. Counters that do
// not fit the 32-bit columns are reported as errors.
func ConvertRuns(records []schema.RunRecord) ([]RunRecord, error) {
	result := make([]RunRecord, len(records))
	for i, record := range records {
		processed, err := safecast.Conv[int32](record.Processed)
		if err != nil {
			return nil, fmt.Errorf("run %s: processed: %w", record.RunID, err)
		}
		skipped, err := safecast.Conv[int32](record.Skipped)
		if err != nil {
			return nil, fmt.Errorf("run %s: skipped: %w", record.RunID, err)
		}
		failed, err := safecast.Conv[int32](record.Failed)
		if err != nil {
			return nil, fmt.Errorf("run %s: failed: %w", record.RunID, err)
		}

		var duration *int32
		if record.RunDurationMs != nil {
			ms, err := safecast.Conv[int32](*record.RunDurationMs)
			if err != nil {
				return nil, fmt.Errorf("run %s: duration: %w", record.RunID, err)
			}
			duration = &ms
		}

		result[i] = RunRecord{
			RunID:         record.RunID,
			Project:       record.Project,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: duration,
			Processed:     processed,
			Skipped:       skipped,
			Failed:        failed,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result, nil
}
