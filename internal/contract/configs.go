package contract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/udithaR/Alitheia-Core/schema"
)

// Default values for configuration.
const (
	DefaultOversizedCommitThreshold = 5
	DefaultCalibrationInterval      = 150
	DefaultResultLimit              = 25
	MaxResultLimit                  = 1000
	DefaultPrecision                = 2
	DefaultLogLevel                 = "warn"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath  string
	Project   string
	MailInput string
	StartTime time.Time
	EndTime   time.Time

	Workers                  int
	OversizedCommitThreshold int
	CalibrationInterval      int
	ScoreMode                schema.ScoringMode

	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	LedgerBackend   schema.DatabaseBackend
	LedgerDBConnect string // Please use env var as this is plaintext

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	MetricsFile string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Project                  string `mapstructure:"project"`
	Workers                  int    `mapstructure:"workers"`
	OversizedCommitThreshold int    `mapstructure:"oversized-commit-threshold"`
	CalibrationInterval      int    `mapstructure:"calibration-interval"`
	ScoreMode                string `mapstructure:"score-mode"`
	Limit                    int    `mapstructure:"limit"`
	Precision                int    `mapstructure:"precision"`
	Output                   string `mapstructure:"output"`
	OutputFile               string `mapstructure:"output-file"`
	Width                    int    `mapstructure:"width"`
	Color                    string `mapstructure:"color"`
	LedgerBackend            string `mapstructure:"ledger-backend"`
	LedgerDBConnect          string `mapstructure:"ledger-db-connect"`
	CacheBackend             string `mapstructure:"cache-backend"`
	CacheDBConnect           string `mapstructure:"cache-db-connect"`

	// --- Fields from runCmd.Flags() ---
	Start       string `mapstructure:"start"`
	End         string `mapstructure:"end"`
	MetricsFile string `mapstructure:"metrics-file"`

	// --- Fields from mailCmd.Flags() ---
	Input string `mapstructure:"input"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct. A nil client skips repository
// resolution; the project must then come from the input or from the
// current directory being a repository.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateEngineInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input); err != nil {
		return err
	}
	return resolveRepoAndProject(ctx, cfg, client, input)
}

// validateSimpleInputs processes and validates all non-engine fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.MetricsFile = input.MetricsFile
	cfg.MailInput = strings.TrimSpace(input.Input)

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 0 || input.Precision > 6 {
		return fmt.Errorf("precision must be between 0 and 6 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	return nil
}

// validateEngineInputs checks the options the scoring engine depends on.
// The oversized-commit threshold must be explicit and positive; the
// calibration interval falls back to its default with a warning.
func validateEngineInputs(cfg *Config, input *ConfigRawInput) error {
	if input.OversizedCommitThreshold <= 0 {
		return NewConfigurationError("oversized-commit-threshold",
			fmt.Errorf("must be greater than 0 (received %d)", input.OversizedCommitThreshold))
	}
	cfg.OversizedCommitThreshold = input.OversizedCommitThreshold

	cfg.CalibrationInterval = input.CalibrationInterval
	if cfg.CalibrationInterval <= 0 {
		LogWarn("Using default calibration interval",
			fmt.Errorf("calibration-interval must be greater than 0 (received %d), falling back to %d", input.CalibrationInterval, DefaultCalibrationInterval))
		cfg.CalibrationInterval = DefaultCalibrationInterval
	}

	mode := strings.ToLower(strings.TrimSpace(input.ScoreMode))
	if mode == "" {
		mode = string(schema.FlatMode)
	}
	cfg.ScoreMode = schema.ScoringMode(mode)
	if _, ok := schema.ValidScoringModes[cfg.ScoreMode]; !ok {
		return NewConfigurationError("score-mode", fmt.Errorf("invalid mode '%s'. must be flat, weighted", input.ScoreMode))
	}

	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	default:
		return fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	return nil
}

// validateBackendConfigs validates ledger and cache backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Ledger Backend Validation ---
	ledgerBackend := strings.ToLower(input.LedgerBackend)
	if ledgerBackend == "" {
		ledgerBackend = string(schema.SQLiteBackend)
	}
	cfg.LedgerBackend = schema.DatabaseBackend(ledgerBackend)
	if cfg.LedgerBackend == schema.NoneBackend {
		return fmt.Errorf("the ledger cannot use the %s backend", schema.NoneBackend)
	}
	cfg.LedgerDBConnect = input.LedgerDBConnect
	if err := ValidateDatabaseConnectionString(cfg.LedgerBackend, cfg.LedgerDBConnect); err != nil {
		return fmt.Errorf("invalid ledger backend: %w", err)
	}

	// --- Cache Backend Validation ---
	cacheBackend := strings.ToLower(input.CacheBackend)
	if cacheBackend == "" {
		cacheBackend = string(schema.NoneBackend)
	}
	cfg.CacheBackend = schema.DatabaseBackend(cacheBackend)
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("invalid cache backend: %w", err)
	}

	// The ledger and the diff cache must not share one SQLite file
	if cfg.LedgerBackend == schema.SQLiteBackend && cfg.CacheBackend == schema.SQLiteBackend {
		ledgerPath := cfg.LedgerDBConnect
		if ledgerPath == "" {
			ledgerPath = GetLedgerDBFilePath()
		}
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		if ledgerPath == cachePath {
			return fmt.Errorf("ledger and cache storage must use different SQLite database files. Both resolve to %q", ledgerPath)
		}
	}

	return nil
}

// processTimeRange handles the optional history window of the run command.
func processTimeRange(cfg *Config, input *ConfigRawInput) error {
	now := time.Now()
	cfg.StartTime = time.Time{}
	cfg.EndTime = time.Time{}

	if input.Start != "" {
		t, err := ParseTimeInput(input.Start, now)
		if err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
		cfg.StartTime = t
	}
	if input.End != "" {
		t, err := ParseTimeInput(input.End, now)
		if err != nil {
			return fmt.Errorf("invalid end date: %w", err)
		}
		cfg.EndTime = t
	}

	if !cfg.StartTime.IsZero() && !cfg.EndTime.IsZero() && cfg.StartTime.After(cfg.EndTime) {
		return fmt.Errorf("start time (%s) cannot be after end time (%s)", cfg.StartTime.Format(DateTimeFormat), cfg.EndTime.Format(DateTimeFormat))
	}
	return nil
}

// resolveRepoAndProject resolves the repository root and the project name.
// Projects default to the base name of the repository root.
func resolveRepoAndProject(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	cfg.Project = strings.TrimSpace(input.Project)
	cfg.RepoPath = ""

	if client != nil && input.RepoPathStr != "" {
		absPath, err := filepath.Abs(input.RepoPathStr)
		if err != nil {
			return fmt.Errorf("cannot resolve repository path %q: %w", input.RepoPathStr, err)
		}
		root, err := client.GetRepoRoot(ctx, absPath)
		if err != nil {
			return fmt.Errorf("not a Git repository: %w", err)
		}
		cfg.RepoPath = root
		if cfg.Project == "" {
			cfg.Project = filepath.Base(root)
		}
	}

	if cfg.Project == "" {
		return NewConfigurationError("project", errors.New("--project is required outside a Git repository"))
	}
	return nil
}

// ProcessLedgerOnly validates the subset of inputs used by commands that
// only read or maintain the ledger, without resolving a repository or project.
func ProcessLedgerOnly(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
