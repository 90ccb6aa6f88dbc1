// Package core has core logic for classification, calibration and scoring.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/udithaR/Alitheia-Core/core/history"
	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/internal/filetype"
	"github.com/udithaR/Alitheia-Core/internal/outwriter"
	"github.com/udithaR/Alitheia-Core/internal/telemetry"
	"github.com/udithaR/Alitheia-Core/schema"
)

// ExecutorFunc defines the function signature of commands that need
// nothing beyond the validated config and the storage manager.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.LedgerManager) error

// writer renders every command result.
var writer = outwriter.NewOutWriter()

// ExecuteRun classifies the commits of the configured repository and prints
// the run report. It serves as the main entry point for the 'run' command.
func ExecuteRun(ctx context.Context, cfg *contract.Config, mgr contract.LedgerManager) error {
	report, err := GetRunResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteRunReport(report, cfg)
}

// GetRunResults classifies the commits of the configured repository and
// returns the run report without printing it.
func GetRunResults(ctx context.Context, cfg *contract.Config, mgr contract.LedgerManager) (schema.RunReport, error) {
	return runCommits(ctx, cfg, mgr, contract.NewLocalGitClient())
}

// ExecuteMail classifies the threads of a mail archive and prints the run report.
func ExecuteMail(ctx context.Context, cfg *contract.Config, mgr contract.LedgerManager) error {
	report, err := runArchive(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteRunReport(report, cfg)
}

// runCommits loads the commit window and feeds it through the engine.
func runCommits(ctx context.Context, cfg *contract.Config, mgr contract.LedgerManager, client contract.GitClient) (schema.RunReport, error) {
	if cfg.RepoPath == "" {
		return schema.RunReport{}, contract.NewConfigurationError("repository", errors.New("a repository path is required"))
	}
	if !shouldSuppressHeader(ctx) {
		outwriter.LogRunHeader(cfg)
	}

	diffs := history.NewGitDiffProvider(client, cfg.RepoPath, mgr.GetDiffCache())
	lines := history.NewGitLineCounter(client, cfg.RepoPath)
	classifier, err := NewCommitClassifier(cfg.OversizedCommitThreshold, filetype.New(), diffs, lines)
	if err != nil {
		return schema.RunReport{}, err
	}

	commits, err := history.LoadCommits(ctx, client, cfg.RepoPath, cfg.StartTime, cfg.EndTime, cfg.Workers)
	if err != nil {
		return schema.RunReport{}, err
	}
	log.WithFields(log.Fields{"project": cfg.Project, "commits": len(commits)}).Debug("Loaded commit history")

	return runEngine(ctx, cfg, mgr, classifier, commits, nil)
}

// runArchive loads the mail archive and feeds its threads through the engine.
func runArchive(ctx context.Context, cfg *contract.Config, mgr contract.LedgerManager) (schema.RunReport, error) {
	if cfg.MailInput == "" {
		return schema.RunReport{}, contract.NewConfigurationError("input", errors.New("a mail archive is required"))
	}
	archive, err := history.LoadArchive(cfg.MailInput)
	if err != nil {
		return schema.RunReport{}, err
	}
	if !shouldSuppressHeader(ctx) {
		outwriter.LogMailHeader(cfg, len(archive.Threads), len(archive.Bugs))
	}
	if len(archive.Bugs) > 0 {
		log.WithField("bugs", len(archive.Bugs)).Info("Bug reports carry no actions yet and are only used for cleanup")
	}
	return runEngine(ctx, cfg, mgr, nil, nil, archive.Threads)
}

// runEngine wires an engine for the config and runs it once.
func runEngine(ctx context.Context, cfg *contract.Config, mgr contract.LedgerManager, classifier *CommitClassifier, commits []schema.Commit, threads []schema.Thread) (schema.RunReport, error) {
	l := mgr.GetLedger()
	var metrics *telemetry.Manager
	opts := EngineOptions{Project: cfg.Project, Workers: cfg.Workers}
	if cfg.MetricsFile != "" {
		metrics = telemetry.NewManager(telemetry.WithProject(cfg.Project))
		opts.Metrics = metrics
	}

	engine, err := NewEngine(l, classifier, NewCalibrator(l, cfg.CalibrationInterval), opts)
	if err != nil {
		return schema.RunReport{}, err
	}
	report, err := engine.Run(ctx, commits, threads, runParams(cfg))
	if metrics != nil {
		if werr := metrics.WriteTextfile(cfg.MetricsFile); werr != nil {
			contract.LogWarn("Failed to export metrics", werr)
		}
	}
	if err != nil {
		return report, fmt.Errorf("run %s interrupted: %w", report.RunID, err)
	}
	return report, nil
}

// runParams is the config snapshot stored with each run.
func runParams(cfg *contract.Config) map[string]any {
	params := map[string]any{
		"project":                    cfg.Project,
		"workers":                    cfg.Workers,
		"oversized_commit_threshold": cfg.OversizedCommitThreshold,
		"calibration_interval":       cfg.CalibrationInterval,
	}
	if cfg.RepoPath != "" {
		params["repo_path"] = cfg.RepoPath
	}
	if cfg.MailInput != "" {
		params["mail_input"] = cfg.MailInput
	}
	if !cfg.StartTime.IsZero() {
		params["start"] = cfg.StartTime.Format(contract.DateTimeFormat)
	}
	if !cfg.EndTime.IsZero() {
		params["end"] = cfg.EndTime.Format(contract.DateTimeFormat)
	}
	return params
}

// ExecuteScore prints the scores of the given developers, or of every
// developer in the ledger when none are given.
func ExecuteScore(ctx context.Context, cfg *contract.Config, mgr contract.LedgerManager, developers []string) error {
	scores, duration, err := GetScoreResults(ctx, cfg, mgr, developers)
	if err != nil {
		return err
	}
	return writer.WriteScores(scores, cfg, duration)
}

// GetScoreResults computes scores without printing them.
func GetScoreResults(ctx context.Context, cfg *contract.Config, mgr contract.LedgerManager, developers []string) ([]schema.DeveloperScore, time.Duration, error) {
	start := time.Now()
	scores, err := collectScores(ctx, cfg, mgr.GetLedger(), developers)
	return scores, time.Since(start), err
}

// collectScores computes scores and applies the result limit to full listings.
func collectScores(ctx context.Context, cfg *contract.Config, r contract.LedgerReader, developers []string) ([]schema.DeveloperScore, error) {
	agg := NewScoreAggregator(r, cfg.ScoreMode)
	if len(developers) == 0 {
		scores, err := agg.ComputeAll(ctx, cfg.Project)
		if err != nil {
			return nil, err
		}
		if cfg.ResultLimit > 0 && len(scores) > cfg.ResultLimit {
			scores = scores[:cfg.ResultLimit]
		}
		return scores, nil
	}

	scores := make([]schema.DeveloperScore, 0, len(developers))
	for _, dev := range developers {
		score, err := agg.ComputeScore(ctx, cfg.Project, dev)
		if err != nil {
			return nil, fmt.Errorf("failed to score %s: %w", dev, err)
		}
		scores = append(scores, score)
	}
	return scores, nil
}

// ExecuteTouched prints whether each resource carries at least one action.
// An empty category is derived from the resource id prefix.
func ExecuteTouched(ctx context.Context, cfg *contract.Config, mgr contract.LedgerManager, resourceIDs []string, category schema.ActionCategory) error {
	results, err := GetTouchedResults(ctx, mgr, cfg.Project, resourceIDs, category)
	if err != nil {
		return err
	}
	return writer.WriteTouched(results, cfg)
}

// GetTouchedResults answers the touched predicate without printing.
func GetTouchedResults(ctx context.Context, mgr contract.LedgerManager, project string, resourceIDs []string, category schema.ActionCategory) ([]schema.TouchedResult, error) {
	return collectTouched(ctx, mgr.GetLedger(), project, resourceIDs, category)
}

func collectTouched(ctx context.Context, r contract.LedgerReader, project string, resourceIDs []string, category schema.ActionCategory) ([]schema.TouchedResult, error) {
	agg := NewScoreAggregator(r, schema.FlatMode)
	results := make([]schema.TouchedResult, 0, len(resourceIDs))
	for _, id := range resourceIDs {
		ref, err := resolveRef(id, category)
		if err != nil {
			return nil, err
		}
		res, err := agg.IsTouched(ctx, project, ref)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// resolveRef builds a resource reference, inferring the category when needed.
func resolveRef(id string, category schema.ActionCategory) (schema.ResourceRef, error) {
	if category != "" {
		if category.Name() == "unknown" {
			return schema.ResourceRef{}, contract.NewConfigurationError("category", fmt.Errorf("unknown category %q", category))
		}
		return schema.ResourceRef{ID: id, Category: category}, nil
	}
	inferred, ok := schema.CategoryOfResourceID(id)
	if !ok {
		return schema.ResourceRef{}, contract.NewConfigurationError("category", fmt.Errorf("cannot infer category of %q", id))
	}
	return schema.ResourceRef{ID: id, Category: inferred}, nil
}

// ExecuteWeights prints the calibrated weights.
func ExecuteWeights(ctx context.Context, cfg *contract.Config, mgr contract.LedgerManager) error {
	weights, err := mgr.GetLedger().Weights(ctx)
	if err != nil {
		return fmt.Errorf("failed to read weights: %w", err)
	}
	return writer.WriteWeights(weights, cfg)
}

// ExecuteRecalibrate forces a calibration pass and prints the new weights.
func ExecuteRecalibrate(ctx context.Context, cfg *contract.Config, mgr contract.LedgerManager) error {
	l := mgr.GetLedger()
	if err := NewCalibrator(l, cfg.CalibrationInterval).Force(ctx); err != nil {
		return fmt.Errorf("recalibration failed: %w", err)
	}
	return ExecuteWeights(ctx, cfg, mgr)
}

// ExecuteActions prints the action taxonomy with the current weights.
func ExecuteActions(ctx context.Context, cfg *contract.Config, mgr contract.LedgerManager) error {
	weights, err := mgr.GetLedger().Weights(ctx)
	if err != nil {
		return fmt.Errorf("failed to read weights: %w", err)
	}
	return writer.WriteActions(actionRows(schema.NewWeightSet(weights)), cfg)
}

// actionRows pairs every action type with its weights, when calibrated.
func actionRows(set schema.WeightSet) []schema.ActionRow {
	rows := make([]schema.ActionRow, 0, len(schema.AllActionTypes))
	for _, info := range schema.AllActionTypes {
		row := schema.ActionRow{ActionTypeInfo: info}
		if w, ok := set.Types[info.Type]; ok {
			row.Weight = &w
		}
		if w, ok := set.Categories[info.Category]; ok {
			row.CategoryWeight = &w
		}
		rows = append(rows, row)
	}
	return rows
}

// ExecuteCleanup purges the configured project: the actions of its commits
// and, when an archive is given, of its messages and bugs.
func ExecuteCleanup(ctx context.Context, cfg *contract.Config, mgr contract.LedgerManager) error {
	report, err := cleanupProject(ctx, cfg, mgr, contract.NewLocalGitClient())
	if err != nil {
		return err
	}
	return writer.WriteCleanup(report, cfg)
}

func cleanupProject(ctx context.Context, cfg *contract.Config, mgr contract.LedgerManager, client contract.GitClient) (schema.CleanupReport, error) {
	var resources []schema.ResourceRef
	if cfg.RepoPath != "" {
		hashes, err := client.ListCommitHashes(ctx, cfg.RepoPath)
		if err != nil {
			return schema.CleanupReport{}, contract.NewRepositoryAccessError("list commits", cfg.RepoPath, err)
		}
		for _, h := range hashes {
			resources = append(resources, schema.ResourceRef{ID: schema.CommitResourceID(h), Category: schema.CommitCategory})
		}
	}
	if cfg.MailInput != "" {
		archive, err := history.LoadArchive(cfg.MailInput)
		if err != nil {
			return schema.CleanupReport{}, err
		}
		resources = append(resources, archive.Resources()...)
	}
	return Cleanup(ctx, mgr.GetLedger(), cfg.Project, resources)
}
