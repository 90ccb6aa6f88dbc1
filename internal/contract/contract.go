// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/udithaR/Alitheia-Core/schema"
)

// GitClient defines the Git operations the engine needs to feed itself.
// This allows the history loading to be tested without a real git executable.
type GitClient interface {
	// Run executes a git command and returns its standard output.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetRepoHash returns the current HEAD commit hash of the repository.
	GetRepoHash(ctx context.Context, repoPath string) (string, error)

	// GetCommitLog returns the raw name-status log with copy detection.
	GetCommitLog(ctx context.Context, repoPath string, startTime, endTime time.Time) ([]byte, error)

	// ListCommitHashes returns every commit hash reachable from HEAD.
	ListCommitHashes(ctx context.Context, repoPath string) ([]string, error)

	// ListDirectoriesAtRef returns the subset of dirs that exist as trees at ref.
	ListDirectoriesAtRef(ctx context.Context, repoPath string, ref string, dirs []string) ([]string, error)

	// GetDiff returns the unified diff of one path between two revisions.
	GetDiff(ctx context.Context, repoPath string, path string, fromRev, toRev string) ([]byte, error)

	// GetFileContent returns the content of path at rev.
	GetFileContent(ctx context.Context, repoPath string, path string, rev string) ([]byte, error)
}

// DiffProvider returns the hunks of a file diff between two revisions.
type DiffProvider interface {
	Diff(ctx context.Context, path string, fromRev, toRev string) ([]schema.DiffChunk, error)
}

// LineCounter is the upstream line-count metric for a file at a revision.
type LineCounter interface {
	LineCount(ctx context.Context, path string, rev string) (int, error)
}

// FileClassifier maps file names onto coarse file types.
type FileClassifier interface {
	Classify(name string) schema.FileType
	IsText(name string) bool
}

// LedgerReader holds the read side of the contribution ledger. Actions
// belong to a project; weights and the aggregates behind them do not.
type LedgerReader interface {
	// Exists reports whether any action of project references resourceID within category.
	Exists(ctx context.Context, project, resourceID string, category schema.ActionCategory) (bool, error)

	// ResourceTotal returns the summed total of one action type on one resource of project.
	ResourceTotal(ctx context.Context, project, resourceID string, t schema.ActionType) (int64, error)

	// Totals returns global, per-category and per-type sums in one snapshot,
	// across every project.
	Totals(ctx context.Context) (schema.ActionTotals, error)

	// DeveloperTotals returns per-type sums for one developer within project.
	DeveloperTotals(ctx context.Context, project, developer string) (map[schema.ActionType]int64, error)

	// Developers lists every developer with at least one action in project.
	Developers(ctx context.Context, project string) ([]string, error)

	// Weights returns every calibrated weight.
	Weights(ctx context.Context) ([]schema.Weight, error)

	// IsEvaluated reports whether any resource of the project was processed.
	IsEvaluated(ctx context.Context, project string) (bool, error)
}

// LedgerTx is a ledger transaction scoped to one resource or one calibration pass.
type LedgerTx interface {
	LedgerReader

	// Upsert adds action.Total to the row keyed by the action, creating it
	// when missing. The action must name its project.
	Upsert(ctx context.Context, action schema.Action) error

	// SaveWeight overwrites a weight row.
	SaveWeight(ctx context.Context, weight schema.Weight) error

	// MarkEvaluated records that the project has been evaluated.
	MarkEvaluated(ctx context.Context, project string, at time.Time) error

	Commit() error
	Rollback() error
}

// Ledger is the durable, idempotent store of accumulated actions and weights.
type Ledger interface {
	LedgerReader

	// Begin opens a transaction.
	Begin(ctx context.Context) (LedgerTx, error)

	// DeleteActions removes every action of project keyed to one of resourceIDs.
	DeleteActions(ctx context.Context, project string, resourceIDs []string) (int64, error)

	// DeleteWeights removes every weight row.
	DeleteWeights(ctx context.Context) (int64, error)

	// ClearEvaluation forgets that the project has been evaluated.
	ClearEvaluation(ctx context.Context, project string) error

	// BeginRun records the start of a processing run.
	BeginRun(ctx context.Context, runID, project string, startTime time.Time, configParams map[string]any) error

	// EndRun records the completion of a processing run.
	EndRun(ctx context.Context, runID string, endTime time.Time, processed, skipped, failed int) error

	// GetStatus returns status information about the ledger.
	GetStatus(ctx context.Context) (schema.LedgerStatus, error)

	// AllActions returns every action row, for export.
	AllActions(ctx context.Context) ([]schema.Action, error)

	// AllRuns returns every run row, for export.
	AllRuns(ctx context.Context) ([]schema.RunRecord, error)

	// Close closes the underlying connection.
	Close() error
}

// DiffCache defines the interface for diff cache storage.
type DiffCache interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// LedgerManager hands out the ledger and the diff cache.
// This allows the storage layer to be mocked for testing.
type LedgerManager interface {
	GetLedger() Ledger
	GetDiffCache() DiffCache
}

// MetricsRecorder receives engine events for telemetry.
type MetricsRecorder interface {
	ResourceProcessed(category schema.ActionCategory, duration time.Duration)
	ResourceSkipped(category schema.ActionCategory)
	ResourceFailed(category schema.ActionCategory, kind string)
	ActionsRecorded(category schema.ActionCategory, n int)
	FileWarning()
	Calibrated()
}
