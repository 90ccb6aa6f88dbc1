package history

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/schema"
	"github.com/vmihailenco/msgpack/v5"
)

// currentDiffCacheVersion is bumped whenever the cached chunk layout changes.
const currentDiffCacheVersion = 1

// GitDiffProvider implements contract.DiffProvider on top of git, with
// an optional cache in front of it. Diffs between two fixed revisions
// never change, so cached entries do not expire.
type GitDiffProvider struct {
	client   contract.GitClient
	repoPath string
	cache    contract.DiffCache
}

var _ contract.DiffProvider = &GitDiffProvider{} // Compile-time check

// NewGitDiffProvider returns a diff provider. cache may be nil.
func NewGitDiffProvider(client contract.GitClient, repoPath string, cache contract.DiffCache) *GitDiffProvider {
	return &GitDiffProvider{client: client, repoPath: repoPath, cache: cache}
}

// Diff returns the hunks of path between fromRev and toRev.
func (p *GitDiffProvider) Diff(ctx context.Context, path string, fromRev, toRev string) ([]schema.DiffChunk, error) {
	key := diffCacheKey(path, fromRev, toRev)
	if chunks, ok := p.checkCacheHit(key); ok {
		return chunks, nil
	}

	out, err := p.client.GetDiff(ctx, p.repoPath, path, fromRev, toRev)
	if err != nil {
		return nil, err
	}
	chunks := SplitHunks(out)
	p.store(key, chunks)
	return chunks, nil
}

func diffCacheKey(path, fromRev, toRev string) string {
	return fmt.Sprintf("diff:%s:%s:%s", fromRev, toRev, path)
}

// checkCacheHit returns cached chunks when a current-version entry exists.
func (p *GitDiffProvider) checkCacheHit(key string) ([]schema.DiffChunk, bool) {
	if p.cache == nil {
		return nil, false
	}
	data, version, _, err := p.cache.Get(key)
	if err != nil || version != currentDiffCacheVersion {
		return nil, false
	}
	var chunks []schema.DiffChunk
	if err := msgpack.Unmarshal(data, &chunks); err != nil {
		log.WithError(err).WithField("key", key).Debug("Discarding unreadable diff cache entry")
		return nil, false
	}
	return chunks, true
}

// store writes chunks to the cache. Failures only cost a recomputation.
func (p *GitDiffProvider) store(key string, chunks []schema.DiffChunk) {
	if p.cache == nil {
		return
	}
	data, err := msgpack.Marshal(chunks)
	if err != nil {
		log.WithError(err).WithField("key", key).Debug("Cannot encode diff for cache")
		return
	}
	if err := p.cache.Set(key, data, currentDiffCacheVersion, time.Now().Unix()); err != nil {
		log.WithError(err).WithField("key", key).Debug("Cannot store diff in cache")
	}
}

// SplitHunks splits unified diff output into hunks. Everything before
// the first @@ header, including the ---/+++ file lines, is dropped.
func SplitHunks(out []byte) []schema.DiffChunk {
	var chunks []schema.DiffChunk
	var current strings.Builder
	inHunk := false
	flush := func() {
		if inHunk {
			chunks = append(chunks, schema.DiffChunk{Text: current.String()})
			current.Reset()
		}
	}
	for line := range strings.SplitSeq(string(out), "\n") {
		if strings.HasPrefix(line, "@@") {
			flush()
			inHunk = true
		}
		if !inHunk {
			continue
		}
		current.WriteString(line)
		current.WriteByte('\n')
	}
	flush()
	return chunks
}

// GitLineCounter implements contract.LineCounter by reading blobs.
type GitLineCounter struct {
	client   contract.GitClient
	repoPath string
}

var _ contract.LineCounter = &GitLineCounter{} // Compile-time check

// NewGitLineCounter returns a line counter for the repository.
func NewGitLineCounter(client contract.GitClient, repoPath string) *GitLineCounter {
	return &GitLineCounter{client: client, repoPath: repoPath}
}

// LineCount returns the number of lines of path at rev. A last line
// without a trailing newline still counts.
func (lc *GitLineCounter) LineCount(ctx context.Context, path string, rev string) (int, error) {
	content, err := lc.client.GetFileContent(ctx, lc.repoPath, path, rev)
	if err != nil {
		return 0, err
	}
	return CountLines(content), nil
}

// CountLines counts the lines of content.
func CountLines(content []byte) int {
	n := bytes.Count(content, []byte{'\n'})
	if len(content) > 0 && content[len(content)-1] != '\n' {
		n++
	}
	return n
}
