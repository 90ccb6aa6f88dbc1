package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Separators used in the commit log pretty format.
const (
	LogRecordSep = "\x1e"
	LogFieldSep  = "\x1f"
)

// commitLogFormat yields hash, parents, committer e-mail, committer name,
// strict ISO date and raw body, each terminated by LogFieldSep.
const commitLogFormat = "--pretty=format:%x1e%H%x1f%P%x1f%ce%x1f%cn%x1f%cI%x1f%B%x1f"

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
// A missing git binary is reported as a missing dependency.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if errors.Is(err, exec.ErrNotFound) {
		return nil, NewMissingDependencyError("git", "", fmt.Errorf("%w. Ensure Git is installed and available on your PATH", err))
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w", err)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetRepoHash implements the GitClient interface.
func (c *LocalGitClient) GetRepoHash(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetCommitLog implements the GitClient interface.
// Commits come oldest first so that directories are credited to the
// commit that introduced them.
func (c *LocalGitClient) GetCommitLog(ctx context.Context, repoPath string, startTime, endTime time.Time) ([]byte, error) {
	args := []string{
		"log",
		"--reverse",
		"--name-status",
		"-C",
		commitLogFormat,
	}
	if !startTime.IsZero() {
		args = append(args, "--since="+startTime.Format(DateTimeFormat))
	}
	if !endTime.IsZero() {
		args = append(args, "--until="+endTime.Format(DateTimeFormat))
	}
	return c.Run(ctx, repoPath, args...)
}

// ListCommitHashes implements the GitClient interface.
func (c *LocalGitClient) ListCommitHashes(ctx context.Context, repoPath string) ([]string, error) {
	out, err := c.Run(ctx, repoPath, "rev-list", "HEAD")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// ListDirectoriesAtRef implements the GitClient interface.
func (c *LocalGitClient) ListDirectoriesAtRef(ctx context.Context, repoPath string, ref string, dirs []string) ([]string, error) {
	if len(dirs) == 0 {
		return []string{}, nil
	}
	args := append([]string{"ls-tree", "-d", "--name-only", ref, "--"}, dirs...)
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// GetDiff implements the GitClient interface.
func (c *LocalGitClient) GetDiff(ctx context.Context, repoPath string, path string, fromRev, toRev string) ([]byte, error) {
	return c.Run(ctx, repoPath, "diff", "--no-color", "--no-ext-diff", fromRev, toRev, "--", path)
}

// GetFileContent implements the GitClient interface.
func (c *LocalGitClient) GetFileContent(ctx context.Context, repoPath string, path string, rev string) ([]byte, error) {
	return c.Run(ctx, repoPath, "show", rev+":"+path)
}

// splitLines splits trimmed command output into non-empty lines.
func splitLines(out []byte) []string {
	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "\n")
}
