// Package history turns repository and archive data into the resources the
// scoring engine classifies.
package history

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/schema"
	"golang.org/x/sync/errgroup"
)

// LoadCommits reads the commits of a repository within the time window,
// oldest first, with their newly added directories attached.
func LoadCommits(ctx context.Context, client contract.GitClient, repoPath string, start, end time.Time, workers int) ([]schema.Commit, error) {
	out, err := client.GetCommitLog(ctx, repoPath, start, end)
	if err != nil {
		return nil, err
	}
	commits, err := ParseCommitLog(out)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i := range commits {
		g.Go(func() error {
			dirs, err := NewDirectories(gctx, client, repoPath, commits[i])
			if err != nil {
				return fmt.Errorf("failed to list directories of %s: %w", commits[i].Hash, err)
			}
			for _, dir := range dirs {
				commits[i].Files = append(commits[i].Files, schema.FileChange{Path: dir, Status: schema.StatusAdded, IsDir: true})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return commits, nil
}

// ParseCommitLog parses the output of GitClient.GetCommitLog.
func ParseCommitLog(out []byte) ([]schema.Commit, error) {
	var commits []schema.Commit
	for record := range strings.SplitSeq(string(out), contract.LogRecordSep) {
		if strings.TrimSpace(record) == "" {
			continue
		}
		c, err := parseCommitRecord(record)
		if err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}
	return commits, nil
}

// parseCommitRecord parses hash, parents, e-mail, name, date, body and
// the trailing name-status lines of one commit.
func parseCommitRecord(record string) (schema.Commit, error) {
	fields := strings.SplitN(record, contract.LogFieldSep, 7)
	if len(fields) < 7 {
		return schema.Commit{}, fmt.Errorf("malformed commit record: %q", truncate(record))
	}
	date, err := time.Parse(time.RFC3339, strings.TrimSpace(fields[4]))
	if err != nil {
		return schema.Commit{}, fmt.Errorf("invalid date in commit %s: %w", fields[0], err)
	}

	c := schema.Commit{
		Hash:          strings.TrimSpace(fields[0]),
		Committer:     strings.TrimSpace(fields[2]),
		CommitterName: strings.TrimSpace(fields[3]),
		Date:          date,
		Message:       strings.TrimRight(fields[5], "\n"),
	}
	if parents := strings.Fields(fields[1]); len(parents) > 0 {
		c.Parent = parents[0]
	}
	for line := range strings.SplitSeq(fields[6], "\n") {
		if f, ok := parseNameStatus(line); ok {
			c.Files = append(c.Files, f)
		}
	}
	return c, nil
}

// parseNameStatus parses one name-status line such as "M\tpath" or
// "R087\told\tnew". Renames are recorded as copies of their source.
func parseNameStatus(line string) (schema.FileChange, bool) {
	parts := strings.Split(strings.TrimRight(line, "\r"), "\t")
	if len(parts) < 2 || parts[0] == "" {
		return schema.FileChange{}, false
	}
	switch parts[0][0] {
	case 'A':
		return schema.FileChange{Path: parts[1], Status: schema.StatusAdded}, true
	case 'D':
		return schema.FileChange{Path: parts[1], Status: schema.StatusDeleted}, true
	case 'M', 'T':
		return schema.FileChange{Path: parts[1], Status: schema.StatusModified}, true
	case 'C', 'R':
		if len(parts) < 3 {
			return schema.FileChange{}, false
		}
		return schema.FileChange{Path: parts[2], Status: schema.StatusCopied, CopyFrom: parts[1]}, true
	default:
		return schema.FileChange{}, false
	}
}

// NewDirectories returns the directories that the commit's added files
// create, i.e. those absent from the parent revision.
func NewDirectories(ctx context.Context, client contract.GitClient, repoPath string, c schema.Commit) ([]string, error) {
	candidates := make(map[string]struct{})
	for _, f := range c.Files {
		if f.Status != schema.StatusAdded && f.Status != schema.StatusCopied {
			continue
		}
		for dir := path.Dir(f.Path); dir != "." && dir != "/"; dir = path.Dir(dir) {
			candidates[dir] = struct{}{}
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	dirs := make([]string, 0, len(candidates))
	for dir := range candidates {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	if c.Parent == "" {
		return dirs, nil
	}

	existing, err := client.ListDirectoriesAtRef(ctx, repoPath, c.Parent, dirs)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, dir := range existing {
		seen[dir] = struct{}{}
	}
	created := dirs[:0]
	for _, dir := range dirs {
		if _, ok := seen[dir]; !ok {
			created = append(created, dir)
		}
	}
	return created, nil
}

func truncate(s string) string {
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}
