package history

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/internal/ledger"
	"github.com/udithaR/Alitheia-Core/schema"
	"github.com/vmihailenco/msgpack/v5"
)

const sampleDiff = `diff --git a/a.go b/a.go
index 1111111..2222222 100644
--- a/a.go
+++ b/a.go
@@ -1,3 +1,3 @@
 package a
-func A() {}
+func A() int { return 1 }
@@ -10,2 +10,4 @@ func B() {
 	x := 1
+	y := 2
+	z := 3
-	w := 4
`

func TestSplitHunks(t *testing.T) {
	chunks := SplitHunks([]byte(sampleDiff))
	require.Len(t, chunks, 2)
	assert.Contains(t, chunks[0].Text, "@@ -1,3 +1,3 @@")
	assert.NotContains(t, chunks[0].Text, "+++ b/a.go")
	assert.NotContains(t, chunks[0].Text, "--- a/a.go")
	assert.Contains(t, chunks[1].Text, "+\tz := 3")

	assert.Empty(t, SplitHunks(nil))
	assert.Empty(t, SplitHunks([]byte("Binary files a/x.png and b/x.png differ\n")))
}

func TestGitDiffProvider_NoCache(t *testing.T) {
	ctx := context.Background()
	client := new(contract.MockGitClient)
	client.On("GetDiff", ctx, "/repo", "a.go", "p", "h").Return([]byte(sampleDiff), nil).Twice()

	p := NewGitDiffProvider(client, "/repo", nil)
	for range 2 {
		chunks, err := p.Diff(ctx, "a.go", "p", "h")
		require.NoError(t, err)
		assert.Len(t, chunks, 2)
	}
	client.AssertExpectations(t)
}

func TestGitDiffProvider_CacheMissThenStore(t *testing.T) {
	ctx := context.Background()
	client := new(contract.MockGitClient)
	cache := new(ledger.MockDiffCache)
	key := "diff:p:h:a.go"

	client.On("GetDiff", ctx, "/repo", "a.go", "p", "h").Return([]byte(sampleDiff), nil).Once()
	cache.On("Get", key).Return(nil, 0, int64(0), sql.ErrNoRows).Once()
	cache.On("Set", key, mock.AnythingOfType("[]uint8"), currentDiffCacheVersion, mock.AnythingOfType("int64")).
		Run(func(args mock.Arguments) {
			var stored []schema.DiffChunk
			require.NoError(t, msgpack.Unmarshal(args.Get(1).([]byte), &stored))
			assert.Len(t, stored, 2)
		}).
		Return(nil).Once()

	chunks, err := NewGitDiffProvider(client, "/repo", cache).Diff(ctx, "a.go", "p", "h")
	require.NoError(t, err)
	assert.Len(t, chunks, 2)
	client.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestGitDiffProvider_CacheHit(t *testing.T) {
	ctx := context.Background()
	client := new(contract.MockGitClient)
	cache := new(ledger.MockDiffCache)
	want := []schema.DiffChunk{{Text: "@@ -1 +1 @@\n-a\n+b\n"}}
	data, err := msgpack.Marshal(want)
	require.NoError(t, err)
	cache.On("Get", "diff:p:h:a.go").Return(data, currentDiffCacheVersion, int64(1700000000), nil)

	got, err := NewGitDiffProvider(client, "/repo", cache).Diff(ctx, "a.go", "p", "h")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	client.AssertNotCalled(t, "GetDiff", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGitDiffProvider_StaleVersionRecomputes(t *testing.T) {
	ctx := context.Background()
	client := new(contract.MockGitClient)
	cache := new(ledger.MockDiffCache)
	key := "diff:p:h:a.go"

	cache.On("Get", key).Return([]byte("garbage"), currentDiffCacheVersion+1, int64(1), nil)
	cache.On("Set", key, mock.Anything, currentDiffCacheVersion, mock.Anything).Return(errors.New("disk full"))
	client.On("GetDiff", ctx, "/repo", "a.go", "p", "h").Return([]byte(sampleDiff), nil)

	chunks, err := NewGitDiffProvider(client, "/repo", cache).Diff(ctx, "a.go", "p", "h")
	require.NoError(t, err, "cache write failures are not fatal")
	assert.Len(t, chunks, 2)
}

func TestGitDiffProvider_GitError(t *testing.T) {
	ctx := context.Background()
	client := new(contract.MockGitClient)
	client.On("GetDiff", ctx, "/repo", "a.go", "p", "h").Return(nil, errors.New("unknown revision"))
	_, err := NewGitDiffProvider(client, "/repo", nil).Diff(ctx, "a.go", "p", "h")
	assert.Error(t, err)
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		content string
		want    int
	}{
		{"", 0},
		{"one", 1},
		{"one\n", 1},
		{"one\ntwo", 2},
		{"one\ntwo\n", 2},
		{"\n\n", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CountLines([]byte(tt.content)), "%q", tt.content)
	}
}

func TestGitLineCounter(t *testing.T) {
	ctx := context.Background()
	client := new(contract.MockGitClient)
	client.On("GetFileContent", ctx, "/repo", "a.go", "h").Return([]byte("package a\n\nfunc A() {}\n"), nil)
	client.On("GetFileContent", ctx, "/repo", "gone.go", "h").Return(nil, errors.New("path does not exist"))

	lc := NewGitLineCounter(client, "/repo")
	n, err := lc.LineCount(ctx, "a.go", "h")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = lc.LineCount(ctx, "gone.go", "h")
	assert.Error(t, err)
}
