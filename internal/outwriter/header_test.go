package outwriter

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/schema"
)

func captureHeader(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := headerOut
	headerOut = &buf
	t.Cleanup(func() { headerOut = prev })
	return &buf
}

func TestLogRunHeader(t *testing.T) {
	buf := captureHeader(t)
	LogRunHeader(&contract.Config{
		RepoPath:      "/src/ant",
		Project:       "ant",
		LedgerBackend: schema.SQLiteBackend,
		StartTime:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.Equal(t, "🔎 Repo: ant (Project: ant, Ledger: sqlite)\n📅 Range: 2024-01-01T00:00:00Z → HEAD\n", buf.String())
}

func TestLogMailHeader(t *testing.T) {
	buf := captureHeader(t)
	LogMailHeader(&contract.Config{MailInput: "/tmp/archive.json", Project: "ant", LedgerBackend: schema.SQLiteBackend}, 3, 2)
	assert.Contains(t, buf.String(), "📬 Archive: archive.json")
	assert.Contains(t, buf.String(), "🧵 Threads: 3, Bugs: 2")
}
