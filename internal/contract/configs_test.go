package contract

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/udithaR/Alitheia-Core/schema"
)

// validInput returns raw input that passes validation.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		RepoPathStr:              ".",
		Workers:                  4,
		OversizedCommitThreshold: 5,
		CalibrationInterval:      150,
		Limit:                    10,
		Precision:                2,
		Output:                   "text",
		Color:                    "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
		configErr   bool
		mockRoot    bool
		check       func(*testing.T, *Config)
	}{
		{
			name:     "valid minimal config",
			mutate:   func(*ConfigRawInput) {},
			mockRoot: true,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/mock/repo/root", cfg.RepoPath)
				assert.Equal(t, "root", cfg.Project)
				assert.Equal(t, schema.FlatMode, cfg.ScoreMode)
				assert.Equal(t, schema.SQLiteBackend, cfg.LedgerBackend)
				assert.Equal(t, schema.NoneBackend, cfg.CacheBackend)
				assert.True(t, cfg.UseColors)
			},
		},
		{
			name:     "explicit project wins over repo name",
			mutate:   func(in *ConfigRawInput) { in.Project = "apache-ant" },
			mockRoot: true,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "apache-ant", cfg.Project)
			},
		},
		{
			name:   "project without repository",
			mutate: func(in *ConfigRawInput) { in.RepoPathStr = ""; in.Project = "mail-only" },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "mail-only", cfg.Project)
				assert.Empty(t, cfg.RepoPath)
			},
		},
		{
			name:        "no project and no repository",
			mutate:      func(in *ConfigRawInput) { in.RepoPathStr = "" },
			expectError: true,
			configErr:   true,
		},
		{
			name:        "zero oversized commit threshold",
			mutate:      func(in *ConfigRawInput) { in.OversizedCommitThreshold = 0 },
			expectError: true,
			configErr:   true,
		},
		{
			name:        "negative oversized commit threshold",
			mutate:      func(in *ConfigRawInput) { in.OversizedCommitThreshold = -3 },
			expectError: true,
			configErr:   true,
		},
		{
			name:     "non-positive calibration interval falls back",
			mutate:   func(in *ConfigRawInput) { in.CalibrationInterval = 0 },
			mockRoot: true,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultCalibrationInterval, cfg.CalibrationInterval)
			},
		},
		{
			name:     "weighted score mode",
			mutate:   func(in *ConfigRawInput) { in.ScoreMode = "Weighted" },
			mockRoot: true,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.WeightedMode, cfg.ScoreMode)
			},
		},
		{
			name:        "invalid score mode",
			mutate:      func(in *ConfigRawInput) { in.ScoreMode = "fancy" },
			expectError: true,
			configErr:   true,
		},
		{
			name:        "invalid output",
			mutate:      func(in *ConfigRawInput) { in.Output = "xml" },
			expectError: true,
		},
		{
			name:        "limit too large",
			mutate:      func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 },
			expectError: true,
		},
		{
			name:        "zero workers",
			mutate:      func(in *ConfigRawInput) { in.Workers = 0 },
			expectError: true,
		},
		{
			name:        "invalid color",
			mutate:      func(in *ConfigRawInput) { in.Color = "maybe" },
			expectError: true,
		},
		{
			name:        "ledger cannot be none",
			mutate:      func(in *ConfigRawInput) { in.LedgerBackend = "none" },
			expectError: true,
		},
		{
			name:        "mysql ledger without connection",
			mutate:      func(in *ConfigRawInput) { in.LedgerBackend = "mysql" },
			expectError: true,
		},
		{
			name: "shared sqlite file",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = "sqlite"
				in.LedgerDBConnect = "/tmp/same.db"
				in.CacheDBConnect = "/tmp/same.db"
			},
			expectError: true,
		},
		{
			name:     "relative start date",
			mutate:   func(in *ConfigRawInput) { in.Start = "3 months ago" },
			mockRoot: true,
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.StartTime.IsZero())
				assert.True(t, cfg.EndTime.IsZero())
			},
		},
		{
			name: "start after end",
			mutate: func(in *ConfigRawInput) {
				in.Start = "2024-06-01"
				in.End = "2024-01-01"
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := new(MockGitClient)
			ctx := context.Background()
			workDir, err := filepath.Abs(".")
			require.NoError(t, err)
			if tt.mockRoot {
				mockClient.On("GetRepoRoot", ctx, workDir).Return("/mock/repo/root", nil)
			}

			input := validInput()
			tt.mutate(input)

			cfg := &Config{}
			err = ProcessAndValidate(ctx, cfg, mockClient, input)

			if tt.expectError {
				require.Error(t, err)
				if tt.configErr {
					assert.True(t, errors.Is(err, ErrConfiguration), "expected configuration error, got %v", err)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, input.Limit, cfg.ResultLimit)
			if tt.check != nil {
				tt.check(t, cfg)
			}
			mockClient.AssertExpectations(t)
		})
	}
}

func TestProcessAndValidate_NotARepository(t *testing.T) {
	mockClient := new(MockGitClient)
	ctx := context.Background()
	workDir, err := filepath.Abs(".")
	require.NoError(t, err)
	mockClient.On("GetRepoRoot", ctx, workDir).Return("", errors.New("not a git repository"))

	err = ProcessAndValidate(ctx, &Config{}, mockClient, validInput())
	assert.ErrorContains(t, err, "not a Git repository")
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none", schema.NoneBackend, "", false},
		{"mysql ok", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/contrib", false},
		{"mysql no tcp", schema.MySQLBackend, "user:pass@localhost/contrib", true},
		{"postgres ok", schema.PostgreSQLBackend, "host=localhost port=5432 user=u password=p dbname=contrib", false},
		{"postgres no dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"unknown backend", "oracle", "x", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		err    error
		target error
		kind   ErrorKind
	}{
		{NewMissingDependencyError("line count", "commit:abc", cause), ErrMissingDependency, KindMissingDependency},
		{NewRepositoryAccessError("diff", "commit:abc", cause), ErrRepositoryAccess, KindRepositoryAccess},
		{NewConfigurationError("threshold", cause), ErrConfiguration, KindConfiguration},
		{NewInvariantViolation("upsert", "commit:abc", cause), ErrInvariantViolation, KindInvariantViolation},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			wrapped := errors.Join(errors.New("context"), tt.err)
			assert.ErrorIs(t, wrapped, tt.target)
			assert.ErrorIs(t, tt.err, cause)
			assert.Equal(t, tt.kind, KindOf(wrapped))
		})
	}
	assert.Equal(t, ErrorKind(0), KindOf(cause))
	assert.NotErrorIs(t, NewConfigurationError("x", cause), ErrMissingDependency)
	assert.Equal(t, "diff: repository_access [commit:abc]: boom", NewRepositoryAccessError("diff", "commit:abc", cause).Error())
}

func TestProcessLedgerOnly(t *testing.T) {
	input := validInput()
	input.RepoPathStr = ""
	cfg := &Config{}
	require.NoError(t, ProcessLedgerOnly(cfg, input))
	assert.Empty(t, cfg.Project)
	assert.Equal(t, schema.SQLiteBackend, cfg.LedgerBackend)
	assert.Equal(t, schema.TextOut, cfg.Output)

	input.LedgerBackend = "none"
	assert.Error(t, ProcessLedgerOnly(&Config{}, input))
}

func TestProcessProfilingConfig(t *testing.T) {
	profile := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(profile, ""))
	assert.False(t, profile.Enabled)

	require.NoError(t, ProcessProfilingConfig(profile, "contrib"))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "contrib", profile.Prefix)
}
