package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/udithaR/Alitheia-Core/core"
	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/internal/ledger"
	"github.com/udithaR/Alitheia-Core/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// envFile is loaded into the process environment before Viper reads it.
const envFile = ".env"

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// profile holds profiling configuration.
var profile = &contract.ProfileConfig{}

// ledgerManager is the global persistence manager instance.
var ledgerManager contract.LedgerManager

// startProfiling starts CPU and memory profiling if enabled.
func startProfiling() error {
	if !profile.Enabled {
		return nil
	}

	cpuFile, err := os.Create(profile.Prefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}

	// Memory profiling will be captured at the end
	_, err = fmt.Fprintf(os.Stderr, "Profiling enabled. CPU profile: %s.cpu.prof, Memory profile: %s.mem.prof\n", profile.Prefix, profile.Prefix)
	return err
}

// stopProfiling stops profiling and writes memory profile.
func stopProfiling() error {
	if !profile.Enabled {
		return nil
	}

	pprof.StopCPUProfile()

	memFile, err := os.Create(profile.Prefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}

	_, err = fmt.Fprintf(os.Stderr, "Profiling complete. Use 'go tool pprof %s.cpu.prof' to analyze.\n", profile.Prefix)
	return err
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "contrib",
	Short: "Score developer contributions from Git history, mail and bug activity.",
	Long: `Contrib classifies every commit, mailing-list message and bug report of a
project into contribution actions, keeps per-developer totals in a ledger and
turns them into a single contribution score per developer.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return contract.InitLogger(viper.GetString("log-level"))
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Connection strings usually live in a local .env file
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			contract.LogWarn("Failed to load "+envFile, err)
		}
	}

	setConfigFile()

	// Set environment variable prefix
	viper.SetEnvPrefix("CONTRIB")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("oversized-commit-threshold", contract.DefaultOversizedCommitThreshold)
	viper.SetDefault("calibration-interval", contract.DefaultCalibrationInterval)
	viper.SetDefault("score-mode", schema.FlatMode)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("ledger-backend", schema.SQLiteBackend)
	viper.SetDefault("ledger-db-connect", "")
	viper.SetDefault("cache-backend", schema.NoneBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("color", "yes")
	viper.SetDefault("log-level", contract.DefaultLogLevel)
}

// setConfigFile points Viper at the explicit config file or the default search paths.
func setConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".contrib") // Name of config file (without extension)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	setConfigFile()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// bindLocalFlags binds the flags of the executing command to Viper. Flags
// such as --input and --metrics-file exist on several commands, and Viper
// only keeps the last binding of a key.
func bindLocalFlags(cmd *cobra.Command) error {
	var bindErr error
	cmd.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		if bindErr == nil {
			bindErr = viper.BindPFlag(f.Name, f)
		}
	})
	return bindErr
}

// readInput merges defaults, config file, env and flags into the raw input struct.
func readInput(cmd *cobra.Command) error {
	profilePrefix := viper.GetString("profile")
	if err := contract.ProcessProfilingConfig(profile, profilePrefix); err != nil {
		return fmt.Errorf("failed to process profiling config: %w", err)
	}
	if profile.Enabled {
		if err := startProfiling(); err != nil {
			return fmt.Errorf("failed to start profiling: %w", err)
		}
	}

	if err := loadConfigFile(); err != nil {
		return err
	}
	if err := bindLocalFlags(cmd); err != nil {
		return fmt.Errorf("failed to bind %s flags: %w", cmd.Name(), err)
	}
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	return nil
}

// initStorage opens the ledger and the diff cache with validated config.
func initStorage() error {
	if err := ledger.InitStorage(cfg.LedgerBackend, cfg.LedgerDBConnect, cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// sharedSetup unmarshals config and runs validation for commands that
// take an optional repository path as their only argument.
func sharedSetup(ctx context.Context, cmd *cobra.Command, args []string) error {
	if err := readInput(cmd); err != nil {
		return err
	}

	if len(args) == 1 {
		input.RepoPathStr = args[0]
	} else {
		input.RepoPathStr = "."
	}

	client := contract.NewLocalGitClient()
	if err := contract.ProcessAndValidate(ctx, cfg, client, input); err != nil {
		return err
	}
	return initStorage()
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// projectSetup validates commands whose arguments are not a repository.
// The project comes from --project or from the current directory.
func projectSetup(ctx context.Context, cmd *cobra.Command) error {
	if err := readInput(cmd); err != nil {
		return err
	}

	input.RepoPathStr = ""
	if strings.TrimSpace(input.Project) == "" {
		input.RepoPathStr = "."
	}

	client := contract.NewLocalGitClient()
	if err := contract.ProcessAndValidate(ctx, cfg, client, input); err != nil {
		return err
	}
	return initStorage()
}

// projectSetupWrapper wraps projectSetup to provide PreRunE.
func projectSetupWrapper(cmd *cobra.Command, _ []string) error {
	return projectSetup(rootCtx, cmd)
}

// ledgerSetup validates output and storage options only. It serves the
// commands that read or maintain the ledger across projects.
func ledgerSetup(cmd *cobra.Command) error {
	if err := readInput(cmd); err != nil {
		return err
	}
	if err := contract.ProcessLedgerOnly(cfg, input); err != nil {
		return err
	}
	return initStorage()
}

// ledgerSetupWrapper wraps ledgerSetup to provide PreRunE.
func ledgerSetupWrapper(cmd *cobra.Command, _ []string) error {
	return ledgerSetup(cmd)
}

// sqlitePath resolves the database file of a SQLite backend.
func sqlitePath(connStr, defaultPath string) string {
	if connStr != "" {
		return connStr
	}
	return defaultPath
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetLedgerManager sets the global ledger manager.
func SetLedgerManager(mgr contract.LedgerManager) {
	ledgerManager = mgr
}

// StopProfiling stops profiling if enabled.
func StopProfiling() error {
	return stopProfiling()
}

// runExecutor adapts a core executor to a Cobra Run function.
func runExecutor(fn core.ExecutorFunc, failMsg string) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		if err := fn(rootCtx, cfg, ledgerManager); err != nil {
			contract.LogFatal(failMsg, err)
		}
	}
}
