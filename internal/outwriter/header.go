package outwriter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/udithaR/Alitheia-Core/internal/contract"
)

// headerOut is where progress headers go, kept off stdout so that
// JSON and CSV output stay parseable.
var headerOut io.Writer = os.Stderr

// LogRunHeader prints a concise, 2-line header for a commit run.
func LogRunHeader(cfg *contract.Config) {
	repoName := filepath.Base(cfg.RepoPath)
	if repoName == "" || repoName == "." {
		repoName = "current"
	}

	// Line 1: what is processed and where it goes
	_, _ = fmt.Fprintf(headerOut, "🔎 Repo: %s (Project: %s, Ledger: %s)\n", repoName, cfg.Project, cfg.LedgerBackend)

	// Line 2: the commit window, open ends shown as such
	_, _ = fmt.Fprintf(headerOut, "📅 Range: %s → %s\n", formatBound(cfg.StartTime.IsZero(), cfg.StartTime.Format(contract.DateTimeFormat), "beginning"),
		formatBound(cfg.EndTime.IsZero(), cfg.EndTime.Format(contract.DateTimeFormat), "HEAD"))
}

// LogMailHeader prints a header for a mail archive run.
func LogMailHeader(cfg *contract.Config, threads, bugs int) {
	_, _ = fmt.Fprintf(headerOut, "📬 Archive: %s (Project: %s, Ledger: %s)\n", filepath.Base(cfg.MailInput), cfg.Project, cfg.LedgerBackend)
	_, _ = fmt.Fprintf(headerOut, "🧵 Threads: %d, Bugs: %d\n", threads, bugs)
}

func formatBound(open bool, value, fallback string) string {
	if open {
		return fallback
	}
	return value
}
