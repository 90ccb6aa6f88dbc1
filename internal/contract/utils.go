package contract

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
)

// Score label constants.
const (
	PositiveValue    = "Positive"
	NeutralValue     = "Neutral"
	NegativeValue    = "Negative"
	NotComputedValue = "N/A"
)

// Color variables for console output.
var (
	PositiveColor    = color.New(color.FgGreen, color.Bold)
	NeutralColor     = color.New(color.FgYellow)
	NegativeColor    = color.New(color.FgRed, color.Bold)
	NotComputedColor = color.New(color.FgCyan)
)

// GetPlainLabel returns a plain text label for a developer score.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(score float64, computed bool) string {
	switch {
	case !computed:
		return NotComputedValue
	case score > 0:
		return PositiveValue
	case score < 0:
		return NegativeValue
	default:
		return NeutralValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(score float64, computed bool) string {
	text := GetPlainLabel(score, computed)

	switch text {
	case PositiveValue:
		return PositiveColor.Sprint(text)
	case NegativeValue:
		return NegativeColor.Sprint(text)
	case NeutralValue:
		return NeutralColor.Sprint(text)
	default:
		return NotComputedColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output.
// An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// InitLogger configures the standard logrus logger used across the engine.
func InitLogger(level string) error {
	if level == "" {
		level = DefaultLogLevel
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetOutput(os.Stderr)
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	return nil
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	log.WithError(err).Fatal(msg)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	log.WithError(err).Warn(msg)
}

// homeFile returns name under the home directory, or name itself when there is none.
func homeFile(name string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(homeDir, name)
}

// GetLedgerDBFilePath returns the path to the SQLite DB file for the ledger.
func GetLedgerDBFilePath() string {
	return homeFile(".contrib_ledger.db")
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the diff cache.
func GetCacheDBFilePath() string {
	return homeFile(".contrib_cache.db")
}

// TruncateText truncates a string to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to leave room for the "..." prefix.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return s
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// RoundTo rounds v to the given number of decimals.
func RoundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
