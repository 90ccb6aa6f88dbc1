package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/internal/ledger"
	"github.com/udithaR/Alitheia-Core/schema"
)

// countingMetrics records engine events.
type countingMetrics struct {
	mu                                         sync.Mutex
	processed, skipped, failed, actions, warns int
	calibrations                               int
	kinds                                      []string
}

func (m *countingMetrics) ResourceProcessed(schema.ActionCategory, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processed++
}

func (m *countingMetrics) ResourceSkipped(schema.ActionCategory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skipped++
}

func (m *countingMetrics) ResourceFailed(_ schema.ActionCategory, kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed++
	m.kinds = append(m.kinds, kind)
}

func (m *countingMetrics) ActionsRecorded(_ schema.ActionCategory, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions += n
}

func (m *countingMetrics) FileWarning() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns++
}

func (m *countingMetrics) Calibrated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calibrations++
}

func sampleCommits(n int) ([]schema.Commit, *stubLines) {
	lines := &stubLines{counts: map[string]int{}}
	commits := make([]schema.Commit, n)
	for i := range commits {
		hash := fmt.Sprintf("h%02d", i)
		path := fmt.Sprintf("pkg/f%02d.go", i)
		lines.counts[hash+":"+path] = 10 + i
		commits[i] = schema.Commit{
			Hash:      hash,
			Committer: []string{ada, bob, eve}[i%3],
			Message:   "bug: " + hash,
			Files:     []schema.FileChange{{Path: path, Status: schema.StatusAdded}},
		}
	}
	return commits, lines
}

func newTestEngine(t *testing.T, l contract.Ledger, lines contract.LineCounter, interval, workers int, metrics contract.MetricsRecorder) *Engine {
	t.Helper()
	e, err := NewEngine(l, newTestClassifier(t, 5, lines, &stubDiffs{}), NewCalibrator(l, interval),
		EngineOptions{Project: "p", Workers: workers, Metrics: metrics})
	require.NoError(t, err)
	e.now = func() time.Time { return fixedNow }
	return e
}

func TestNewEngine_Configuration(t *testing.T) {
	store := newTestLedger(t)
	_, err := NewEngine(nil, nil, nil, EngineOptions{Project: "p"})
	assert.ErrorIs(t, err, contract.ErrConfiguration)

	_, err = NewEngine(store, nil, nil, EngineOptions{})
	assert.ErrorIs(t, err, contract.ErrConfiguration)

	e, err := NewEngine(store, nil, nil, EngineOptions{Project: "p"})
	require.NoError(t, err)
	assert.Equal(t, 1, e.workers)
	assert.Equal(t, contract.DefaultCalibrationInterval, e.calibrator.Interval())

	_, err = e.Run(context.Background(), []schema.Commit{{Hash: "x"}}, nil, nil)
	assert.ErrorIs(t, err, contract.ErrConfiguration, "commits need a classifier")
}

// Running the same resources twice leaves the ledger unchanged.
func TestEngine_Idempotence(t *testing.T) {
	ctx := context.Background()
	store := newTestLedger(t)
	commits, lines := sampleCommits(12)
	threads := []schema.Thread{{ID: "t1", Messages: []schema.Message{
		msg("m1", ada, "", 0, 0),
		msg("m2", bob, "m1", 1, 1),
	}}}
	e := newTestEngine(t, store, lines, 1000, 4, nil)

	report, err := e.Run(ctx, commits, threads, map[string]any{"workers": 4})
	require.NoError(t, err)
	assert.Equal(t, 13, report.Processed)
	assert.Zero(t, report.Failed)
	assert.Zero(t, report.Skipped)
	assert.NotEmpty(t, report.RunID)

	before, err := store.AllActions(ctx)
	require.NoError(t, err)

	report, err = e.Run(ctx, commits, threads, nil)
	require.NoError(t, err)
	assert.Zero(t, report.Processed)
	assert.Equal(t, 13, report.Skipped)

	after, err := store.AllActions(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, before, after)

	evaluated, err := store.IsEvaluated(ctx, "p")
	require.NoError(t, err)
	assert.True(t, evaluated)

	runs, err := store.AllRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestEngine_Totals(t *testing.T) {
	ctx := context.Background()
	store := newTestLedger(t)
	commits, lines := sampleCommits(3)
	e := newTestEngine(t, store, lines, 1000, 2, nil)

	_, err := e.Run(ctx, commits, nil, nil)
	require.NoError(t, err)

	totals, err := store.DeveloperTotals(ctx, "p", bob)
	require.NoError(t, err)
	assert.Equal(t, map[schema.ActionType]int64{
		schema.BugLinkedCommit: 1,
		schema.NewSourceFile:   1,
		schema.LinesAdded:      11,
	}, totals)
}

func TestEngine_FailuresAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := newTestLedger(t)
	commits, lines := sampleCommits(4)
	lines.errs = map[string]error{
		"h01:pkg/f01.go": contract.NewMissingDependencyError("line count", "pkg/f01.go", errors.New("metric not run")),
	}
	delete(lines.counts, "h02:pkg/f02.go") // repository read failure: a warning only
	metrics := &countingMetrics{}
	e := newTestEngine(t, store, lines, 1000, 2, metrics)

	report, err := e.Run(ctx, commits, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.FileWarnings)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "commit:h01", report.Failures[0].ResourceID)
	assert.Equal(t, "missing_dependency", report.Failures[0].Kind)

	touched, err := store.Exists(ctx, "p", "commit:h01", schema.CommitCategory)
	require.NoError(t, err)
	assert.False(t, touched, "a failed commit records nothing")

	total, err := store.ResourceTotal(ctx, "p", "commit:h02", schema.LinesAdded)
	require.NoError(t, err)
	assert.Zero(t, total)
	total, err = store.ResourceTotal(ctx, "p", "commit:h02", schema.NewSourceFile)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	assert.Equal(t, 3, metrics.processed)
	assert.Equal(t, 1, metrics.failed)
	assert.Equal(t, []string{"missing_dependency"}, metrics.kinds)
	assert.Equal(t, 1, metrics.warns)

	// The failed commit is retried on the next run.
	delete(lines.errs, "h01:pkg/f01.go")
	report, err = e.Run(ctx, commits, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 3, report.Skipped)
}

func TestEngine_Calibration(t *testing.T) {
	ctx := context.Background()
	store := newTestLedger(t)
	commits, lines := sampleCommits(10)
	metrics := &countingMetrics{}
	e := newTestEngine(t, store, lines, 4, 3, metrics)

	report, err := e.Run(ctx, commits, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Calibrations, "two interval passes and the final pass")
	assert.Equal(t, 3, metrics.calibrations)

	weights, err := store.Weights(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, weights)

	// Skipped resources neither advance the counter nor trigger the final pass.
	report, err = e.Run(ctx, commits, nil, nil)
	require.NoError(t, err)
	assert.Zero(t, report.Calibrations)
}

// A run shorter than the interval still leaves weights behind.
func TestEngine_ShortRunCalibratesAtEnd(t *testing.T) {
	ctx := context.Background()
	store := newTestLedger(t)
	commits, lines := sampleCommits(10)
	e := newTestEngine(t, store, lines, contract.DefaultCalibrationInterval, 2, nil)

	report, err := e.Run(ctx, commits, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, report.Processed)
	assert.Equal(t, 1, report.Calibrations)

	weights, err := store.Weights(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, weights)

	score, err := NewScoreAggregator(store, schema.FlatMode).ComputeScore(ctx, "p", ada)
	require.NoError(t, err)
	assert.True(t, score.Computed)
	assert.Positive(t, score.Score)
}

// The same commit belongs to each project that runs it.
func TestEngine_ProjectsShareCommits(t *testing.T) {
	ctx := context.Background()
	store := newTestLedger(t)
	commits, lines := sampleCommits(3)
	run := func(project string) schema.RunReport {
		e, err := NewEngine(store, newTestClassifier(t, 5, lines, &stubDiffs{}), NewCalibrator(store, 100),
			EngineOptions{Project: project, Workers: 2})
		require.NoError(t, err)
		report, err := e.Run(ctx, commits, nil, nil)
		require.NoError(t, err)
		return report
	}

	assert.Equal(t, 3, run("upstream").Processed)
	fork := run("fork")
	assert.Equal(t, 3, fork.Processed)
	assert.Zero(t, fork.Skipped)

	upstream, err := store.DeveloperTotals(ctx, "upstream", ada)
	require.NoError(t, err)
	forked, err := store.DeveloperTotals(ctx, "fork", ada)
	require.NoError(t, err)
	assert.Equal(t, upstream, forked)
	assert.Equal(t, int64(10), upstream[schema.LinesAdded])

	report, err := Cleanup(ctx, store, "fork", []schema.ResourceRef{commits[0].Ref(), commits[1].Ref(), commits[2].Ref()})
	require.NoError(t, err)
	assert.Positive(t, report.ActionsRemoved)

	upstream, err = store.DeveloperTotals(ctx, "upstream", ada)
	require.NoError(t, err)
	assert.Equal(t, int64(10), upstream[schema.LinesAdded], "cleaning the fork keeps upstream actions")
}

func TestEngine_ThreadGrowth(t *testing.T) {
	ctx := context.Background()
	store := newTestLedger(t)
	e, err := NewEngine(store, nil, NewCalibrator(store, 100), EngineOptions{Project: "lists", Workers: 2})
	require.NoError(t, err)

	th := schema.Thread{ID: "t1", Messages: []schema.Message{msg("m1", ada, "", 0, 0), msg("m2", bob, "m1", 1, 3)}}
	report, err := e.Run(ctx, nil, []schema.Thread{th}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)

	th.Messages = append(th.Messages, msg("m3", eve, "m1", 1, 8))
	report, err = e.Run(ctx, nil, []schema.Thread{th}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)

	closes, err := store.DeveloperTotals(ctx, "lists", bob)
	require.NoError(t, err)
	assert.Zero(t, closes[schema.ThreadClosed])
	assert.Equal(t, int64(1), closes[schema.FirstReply])

	report, err = e.Run(ctx, nil, []schema.Thread{th}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
}

func TestEngine_InvariantViolationSkipsOnlyThatUpdate(t *testing.T) {
	ctx := context.Background()
	store := newTestLedger(t)
	e, err := NewEngine(store, nil, nil, EngineOptions{Project: "p"})
	require.NoError(t, err)

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	n, err := e.commitActions(ctx, tx, "commit:x", []schema.Action{
		schema.NewAction(ada, "commit:x", "ZZZ", 1),
		schema.NewAction(ada, "commit:x", schema.LinesAdded, 4),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	total, err := store.ResourceTotal(ctx, "p", "commit:x", schema.LinesAdded)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
}

func TestEngine_LedgerFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	m := new(ledger.MockLedger)
	tx := new(ledger.MockLedgerTx)
	boom := errors.New("disk I/O error")

	m.On("BeginRun", mock.Anything, mock.Anything, "p", mock.Anything, mock.Anything).Return(nil)
	m.On("EndRun", mock.Anything, mock.Anything, mock.Anything, 0, 0, 1).Return(nil)
	m.On("Exists", mock.Anything, "p", "commit:h00", schema.CommitCategory).Return(false, nil)
	m.On("Begin", mock.Anything).Return(tx, nil)
	tx.On("Exists", mock.Anything, "p", "commit:h00", schema.CommitCategory).Return(false, nil)
	tx.On("Upsert", mock.Anything, mock.Anything).Return(boom)
	tx.On("Rollback").Return(nil)

	commits, lines := sampleCommits(1)
	e, err := NewEngine(m, newTestClassifier(t, 5, lines, &stubDiffs{}), NewCalibrator(m, 10), EngineOptions{Project: "p"})
	require.NoError(t, err)

	report, err := e.Run(ctx, commits, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, "unknown", report.Failures[0].Kind)
	tx.AssertCalled(t, "Rollback")
	tx.AssertNotCalled(t, "Commit")
	m.AssertExpectations(t)
}

func TestEngine_CancelledContext(t *testing.T) {
	store := newTestLedger(t)
	commits, lines := sampleCommits(3)
	e := newTestEngine(t, store, lines, 1000, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := e.Run(ctx, commits, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, report.Processed)
}
