//go:build basic

package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runOutput struct {
	Project   string `json:"project"`
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
}

type scoreOutput struct {
	Rank      int     `json:"rank"`
	Developer string  `json:"developer"`
	Score     float64 `json:"score"`
	Computed  bool    `json:"computed"`
	Label     string  `json:"label"`
}

type touchedOutput struct {
	Resource struct {
		ID string `json:"id"`
	} `json:"resource"`
	Touched bool `json:"touched"`
}

// isolatedEnv points every storage path at dir.
func isolatedEnv(dir string) []string {
	return []string{
		"HOME=" + dir,
		"CONTRIB_LEDGER_BACKEND=sqlite",
		"CONTRIB_LEDGER_DB_CONNECT=" + filepath.Join(dir, "ledger.db"),
		"CONTRIB_CACHE_BACKEND=sqlite",
		"CONTRIB_CACHE_DB_CONNECT=" + filepath.Join(dir, "cache.db"),
	}
}

// TestRunVerification checks that a run processes exactly the commits git reports.
func TestRunVerification(t *testing.T) {
	repo := newFixtureRepo(t, "sample", sampleCommits())
	env := isolatedEnv(t.TempDir())

	out, err := runContrib(t, repo, env, "run", "--output", "json")
	require.NoError(t, err)

	var report runOutput
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	count, err := strconv.Atoi(strings.TrimSpace(git(t, repo, nil, "rev-list", "--count", "HEAD")))
	require.NoError(t, err)
	assert.Equal(t, "sample", report.Project)
	assert.Equal(t, count, report.Processed)
	assert.Zero(t, report.Failed)

	// A second run finds nothing new
	out, err = runContrib(t, repo, env, "run", "--output", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Zero(t, report.Processed)
	assert.Equal(t, count, report.Skipped)
}

// TestScoreAndTouched runs the read side of the CLI after a run.
func TestScoreAndTouched(t *testing.T) {
	repo := newFixtureRepo(t, "sample", sampleCommits())
	env := isolatedEnv(t.TempDir())

	_, err := runContrib(t, repo, env, "run")
	require.NoError(t, err)

	out, err := runContrib(t, repo, env, "score", "--output", "json")
	require.NoError(t, err)
	var scores []scoreOutput
	require.NoError(t, json.Unmarshal([]byte(out), &scores))
	require.Len(t, scores, 2)
	for _, s := range scores {
		assert.True(t, s.Computed, s.Developer)
		assert.NotEqual(t, "N/A", s.Label)
	}

	out, err = runContrib(t, repo, env, "score", "bob@example.com", "--output", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &scores))
	require.Len(t, scores, 1)
	assert.Equal(t, "bob@example.com", scores[0].Developer)

	head := strings.TrimSpace(git(t, repo, nil, "rev-parse", "HEAD"))
	out, err = runContrib(t, repo, env, "touched", "commit:"+head, "commit:0000000", "--output", "json")
	require.NoError(t, err)
	var touched []touchedOutput
	require.NoError(t, json.Unmarshal([]byte(out), &touched))
	require.Len(t, touched, 2)
	assert.True(t, touched[0].Touched)
	assert.False(t, touched[1].Touched)
}

// TestWeightsAndActions checks calibration output after a run.
func TestWeightsAndActions(t *testing.T) {
	repo := newFixtureRepo(t, "sample", sampleCommits())
	env := isolatedEnv(t.TempDir())

	_, err := runContrib(t, repo, env, "run")
	require.NoError(t, err)

	out, err := runContrib(t, repo, env, "weights", "--output", "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "kind,key,value,updated_at"))
	assert.Contains(t, out, "category,C,")

	out, err = runContrib(t, repo, env, "weights", "recalibrate", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "category,C,")

	out, err = runContrib(t, repo, env, "actions", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "CNS,C,+")
}

// TestMailAndCleanup runs a mail archive and purges the project again.
func TestMailAndCleanup(t *testing.T) {
	repo := newFixtureRepo(t, "sample", sampleCommits())
	home := t.TempDir()
	env := isolatedEnv(home)

	archive := filepath.Join(home, "archive.json")
	require.NoError(t, os.WriteFile(archive, []byte(`{
  "threads": [{"id": "t1", "messages": [
    {"id": "m1", "sender": "ada@example.com", "depth": 0, "arrival": "2024-01-01T10:00:00Z"},
    {"id": "m2", "sender": "bob@example.com", "parent": "m1", "depth": 1, "arrival": "2024-01-01T11:00:00Z"}
  ]}],
  "bugs": []
}`), 0o644))

	_, err := runContrib(t, repo, env, "run")
	require.NoError(t, err)

	out, err := runContrib(t, repo, env, "mail", "--input", archive, "--output", "json")
	require.NoError(t, err)
	var report runOutput
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 1, report.Processed)

	out, err = runContrib(t, repo, env, "cleanup", "--input", archive, "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"actions_removed"`)

	out, err = runContrib(t, repo, env, "score", "--output", "json")
	require.NoError(t, err)
	var scores []scoreOutput
	require.NoError(t, json.Unmarshal([]byte(out), &scores))
	assert.Empty(t, scores)
}

// TestLedgerAndCacheCommands exercises the maintenance commands.
func TestLedgerAndCacheCommands(t *testing.T) {
	repo := newFixtureRepo(t, "sample", sampleCommits())
	home := t.TempDir()
	env := isolatedEnv(home)

	_, err := runContrib(t, repo, env, "run")
	require.NoError(t, err)

	out, err := runContrib(t, repo, env, "ledger", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite")

	out, err = runContrib(t, repo, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite")

	_, err = runContrib(t, repo, env, "ledger", "export", "--output-file", filepath.Join(home, "contrib.parquet"))
	require.NoError(t, err)
	exported, err := filepath.Glob(filepath.Join(home, "contrib*.parquet"))
	require.NoError(t, err)
	assert.NotEmpty(t, exported)

	out, err = runContrib(t, repo, env, "ledger", "migrate")
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	_, err = runContrib(t, repo, env, "cache", "clear")
	require.NoError(t, err)
	_, err = runContrib(t, repo, env, "ledger", "clear")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(home, "ledger.db"))
	assert.True(t, os.IsNotExist(err))
}

// TestConfigurationErrors checks that invalid options stop a run.
func TestConfigurationErrors(t *testing.T) {
	repo := newFixtureRepo(t, "sample", sampleCommits())
	env := isolatedEnv(t.TempDir())

	_, err := runContrib(t, repo, env, "run", "--oversized-commit-threshold", "0")
	assert.Error(t, err)

	_, err = runContrib(t, repo, env, "run", "--score-mode", "median")
	assert.Error(t, err)

	_, err = runContrib(t, repo, env, "run", "--ledger-backend", "none")
	assert.Error(t, err)

	_, err = runContrib(t, t.TempDir(), env, "score")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := runContrib(t, t.TempDir(), nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "contrib CLI")
}
