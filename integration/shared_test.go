//go:build basic || database

// Package integration contains CLI tests for contrib.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// or, with Docker available: go test -tags database ./integration
package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedContribPath holds the path to a shared contrib binary built once for all tests.
	sharedContribPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getContribBinary returns the path to the contrib binary, building it once if needed.
func getContribBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "contrib-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		contribPath := filepath.Join(tempDir, "contrib")
		buildCmd := exec.Command("go", "build", "-o", contribPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build contrib: %v\n%s", err, out))
		}

		sharedContribPath = contribPath
	})

	return sharedContribPath
}

// runContrib runs the binary in dir with env appended to the process
// environment and returns its stdout.
func runContrib(t *testing.T, dir string, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getContribBinary(), args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
		return stdout.String(), err
	}
	return stdout.String(), nil
}

// fixtureCommit is one commit of a generated repository.
type fixtureCommit struct {
	email   string
	message string
	files   map[string]string
}

// newFixtureRepo creates a Git repository under a temp dir from commits.
func newFixtureRepo(t *testing.T, name string, commits []fixtureCommit) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	git(t, dir, nil, "init", "-q")

	for i, c := range commits {
		for path, content := range c.files {
			full := filepath.Join(dir, path)
			require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
			require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
		}
		git(t, dir, nil, "add", "-A")
		date := fmt.Sprintf("2024-01-%02dT10:00:00Z", i+1)
		env := []string{
			"GIT_AUTHOR_NAME=" + c.email, "GIT_AUTHOR_EMAIL=" + c.email, "GIT_AUTHOR_DATE=" + date,
			"GIT_COMMITTER_NAME=" + c.email, "GIT_COMMITTER_EMAIL=" + c.email, "GIT_COMMITTER_DATE=" + date,
		}
		git(t, dir, env, "commit", "-q", "--allow-empty-message", "-m", c.message)
	}
	return dir
}

func git(t *testing.T, dir string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return string(out)
}

// sampleCommits is a small history by two developers.
func sampleCommits() []fixtureCommit {
	return []fixtureCommit{
		{email: "ada@example.com", message: "initial import", files: map[string]string{
			"src/main.go": "package main\n\nfunc main() {}\n",
			"README.md":   "# sample\n",
		}},
		{email: "bob@example.com", message: "add helper", files: map[string]string{
			"src/util.go": "package main\n\nfunc helper() int {\n\treturn 1\n}\n",
		}},
		{email: "ada@example.com", message: "", files: map[string]string{
			"src/main.go": "package main\n\nfunc main() {\n\thelper()\n}\n",
		}},
	}
}
