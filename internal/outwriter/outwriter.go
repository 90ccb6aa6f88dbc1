// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteScores prints developer scores using the configured output format.
func (ow *OutWriter) WriteScores(scores []schema.DeveloperScore, cfg *contract.Config, duration time.Duration) error {
	return WriteScoreResults(scores, cfg, duration)
}

// WriteWeights prints the calibrated weights using the configured output format.
func (ow *OutWriter) WriteWeights(weights []schema.Weight, cfg *contract.Config) error {
	return WriteWeightResults(weights, cfg)
}

// WriteActions prints the action taxonomy using the configured output format.
func (ow *OutWriter) WriteActions(rows []schema.ActionRow, cfg *contract.Config) error {
	return WriteActionTaxonomy(rows, cfg)
}

// WriteRunReport prints the summary of a processing run.
func (ow *OutWriter) WriteRunReport(report schema.RunReport, cfg *contract.Config) error {
	return WriteRunReport(report, cfg)
}

// WriteCleanup prints the summary of a project purge.
func (ow *OutWriter) WriteCleanup(report schema.CleanupReport, cfg *contract.Config) error {
	return WriteCleanupReport(report, cfg)
}

// WriteTouched prints the touched status of resources.
func (ow *OutWriter) WriteTouched(results []schema.TouchedResult, cfg *contract.Config) error {
	return WriteTouchedResults(results, cfg)
}

// getMaxTableDeveloperWidth calculates the maximum width for developer ids
// in table output based on terminal width.
func getMaxTableDeveloperWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Score + Label + three category columns, with borders and padding
	baseWidth := 25 + 3*12 + 20

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 60 {
		return 60
	}
	return available
}

// scoreLabel returns the colored or plain label of a score.
func scoreLabel(s schema.DeveloperScore, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(s.Score, s.Computed)
	}
	return contract.GetPlainLabel(s.Score, s.Computed)
}
