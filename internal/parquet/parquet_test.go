package parquet

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/udithaR/Alitheia-Core/schema"
)

// readBack reads every row of a Parquet file written with schema T.
func readBack[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		columns []string
	}{
		{"actions", new(ActionRecord), []string{"project", "developer_id", "resource_id", "action_type", "category", "total"}},
		{"weights", new(WeightRecord), []string{"kind", "weight_key", "value", "updated_at"}},
		{"runs", new(RunRecord), []string{"run_id", "project", "start_time", "end_time", "run_duration_ms", "processed", "skipped", "failed", "config_params"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parquet.SchemaOf(tt.model)
			for _, col := range tt.columns {
				_, ok := s.Lookup(col)
				assert.True(t, ok, "column %s should exist", col)
			}
		})
	}
}

func TestWriteActionsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "actions.parquet")
	data := ConvertActions([]schema.Action{
		schema.NewAction("ada@example.com", schema.CommitResourceID("abc"), schema.LinesAdded, 12),
		schema.NewAction("bob@example.com", schema.MessageResourceID("m1"), schema.MessageSent, 1),
	})
	assert.Equal(t, "C", data[0].Category)
	assert.Equal(t, "M", data[1].Category)

	require.NoError(t, WriteActionsParquet(data, outputPath))

	rows := readBack[ActionRecord](t, outputPath)
	assert.Equal(t, data, rows)
}

func TestWriteWeightsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "weights.parquet")
	updated := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	data := ConvertWeights([]schema.Weight{
		{Kind: schema.CategoryWeight, Key: "C", Value: 62.5, UpdatedAt: updated},
		{Kind: schema.TypeWeight, Key: "TLA", Value: 40, UpdatedAt: updated},
	})

	require.NoError(t, WriteWeightsParquet(data, outputPath))

	rows := readBack[WeightRecord](t, outputPath)
	require.Len(t, rows, 2)
	assert.Equal(t, "category", rows[0].Kind)
	assert.InDelta(t, 62.5, rows[0].Value, 1e-9)
	assert.WithinDuration(t, updated, rows[1].UpdatedAt, time.Nanosecond)
}

func TestWriteRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")
	start := time.Now().Add(-time.Hour)
	end := start.Add(90 * time.Second)
	duration := end.Sub(start).Milliseconds()
	params := `{"workers":4}`

	data, err := ConvertRuns([]schema.RunRecord{
		{RunID: "r1", Project: "ant", StartTime: start, EndTime: &end, RunDurationMs: &duration, Processed: 10, Skipped: 2, Failed: 1, ConfigParams: &params},
		{RunID: "r2", Project: "ant", StartTime: end},
	})
	require.NoError(t, err)

	require.NoError(t, WriteRunsParquet(data, outputPath))

	rows := readBack[RunRecord](t, outputPath)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].EndTime)
	assert.WithinDuration(t, end, *rows[0].EndTime, time.Nanosecond)
	require.NotNil(t, rows[0].RunDurationMs)
	assert.Equal(t, int32(90000), *rows[0].RunDurationMs)
	assert.Equal(t, int32(10), rows[0].Processed)
	assert.Equal(t, params, *rows[0].ConfigParams)

	assert.Nil(t, rows[1].EndTime)
	assert.Nil(t, rows[1].RunDurationMs)
	assert.Nil(t, rows[1].ConfigParams)
}

func TestConvertRuns_Overflow(t *testing.T) {
	tooLong := int64(math.MaxInt32) + 1
	_, err := ConvertRuns([]schema.RunRecord{{RunID: "r1", RunDurationMs: &tooLong}})
	assert.Error(t, err)

	_, err = ConvertRuns([]schema.RunRecord{{RunID: "r2", Processed: math.MaxInt32 + 1}})
	assert.Error(t, err)
}

func TestWriteParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteActionsParquet([]ActionRecord{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteParquet_InvalidPath(t *testing.T) {
	err := WriteWeightsParquet(nil, "/nonexistent/directory/output.parquet")
	assert.Error(t, err)
}
