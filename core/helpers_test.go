package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/internal/filetype"
	"github.com/udithaR/Alitheia-Core/internal/ledger"
	"github.com/udithaR/Alitheia-Core/schema"
)

const (
	ada = "ada@example.com"
	bob = "bob@example.com"
	eve = "eve@example.com"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// newTestLedger returns an empty in-memory ledger.
func newTestLedger(t *testing.T) *ledger.Store {
	t.Helper()
	store, err := ledger.NewStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// record commits actions of project in one transaction and marks the
// project evaluated.
func record(t *testing.T, l contract.Ledger, project string, actions ...schema.Action) {
	t.Helper()
	ctx := context.Background()
	tx, err := l.Begin(ctx)
	require.NoError(t, err)
	for _, a := range actions {
		a.Project = project
		require.NoError(t, tx.Upsert(ctx, a))
	}
	require.NoError(t, tx.MarkEvaluated(ctx, project, fixedNow))
	require.NoError(t, tx.Commit())
}

// stubLines serves line counts keyed by "rev:path".
type stubLines struct {
	counts map[string]int
	errs   map[string]error
	calls  int
}

func (s *stubLines) LineCount(_ context.Context, path string, rev string) (int, error) {
	s.calls++
	key := rev + ":" + path
	if err, ok := s.errs[key]; ok {
		return 0, err
	}
	n, ok := s.counts[key]
	if !ok {
		return 0, errors.New("no such blob: " + key)
	}
	return n, nil
}

// stubDiffs serves diff chunks keyed by path.
type stubDiffs struct {
	chunks map[string][]schema.DiffChunk
	errs   map[string]error
}

func (s *stubDiffs) Diff(_ context.Context, path string, _, _ string) ([]schema.DiffChunk, error) {
	if err, ok := s.errs[path]; ok {
		return nil, err
	}
	return s.chunks[path], nil
}

func newTestClassifier(t *testing.T, threshold int, lines contract.LineCounter, diffs contract.DiffProvider) *CommitClassifier {
	t.Helper()
	cc, err := NewCommitClassifier(threshold, filetype.New(), diffs, lines)
	require.NoError(t, err)
	return cc
}

// actionKey drops the developer and resource of an action for comparisons.
type actionKey struct {
	Type  schema.ActionType
	Total int64
}

func keys(actions []schema.Action) []actionKey {
	out := make([]actionKey, len(actions))
	for i, a := range actions {
		out[i] = actionKey{a.Type, a.Total}
	}
	return out
}
