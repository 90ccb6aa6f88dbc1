package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/schema"
	"golang.org/x/sync/errgroup"
)

// outcome is how the engine disposed of one resource.
type outcome int

const (
	processed outcome = iota
	skipped
	failed
)

// EngineOptions configures an Engine.
type EngineOptions struct {
	Project string
	Workers int
	Metrics contract.MetricsRecorder // optional
}

// Engine classifies resources concurrently and writes each one to the
// ledger in its own transaction.
type Engine struct {
	ledger     contract.Ledger
	classifier *CommitClassifier
	calibrator *Calibrator
	project    string
	workers    int
	metrics    contract.MetricsRecorder
	now        func() time.Time
}

// NewEngine wires an engine. The classifier may be nil when only threads
// are processed.
func NewEngine(l contract.Ledger, classifier *CommitClassifier, calibrator *Calibrator, opts EngineOptions) (*Engine, error) {
	if l == nil {
		return nil, contract.NewConfigurationError("ledger", errors.New("not configured"))
	}
	if opts.Project == "" {
		return nil, contract.NewConfigurationError("project", errors.New("must not be empty"))
	}
	if calibrator == nil {
		calibrator = NewCalibrator(l, contract.DefaultCalibrationInterval)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Engine{
		ledger:     l,
		classifier: classifier,
		calibrator: calibrator,
		project:    opts.Project,
		workers:    workers,
		metrics:    metrics,
		now:        time.Now,
	}, nil
}

// runState accumulates the report of one run across workers.
type runState struct {
	mu     sync.Mutex
	report schema.RunReport
}

func (s *runState) record(resourceID string, o outcome, warnings int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report.FileWarnings += warnings
	switch o {
	case processed:
		s.report.Processed++
	case skipped:
		s.report.Skipped++
	case failed:
		s.report.Failed++
		s.report.Failures = append(s.report.Failures, schema.ResourceFailure{
			ResourceID: resourceID,
			Kind:       contract.KindOf(err).String(),
			Error:      err.Error(),
		})
	}
}

func (s *runState) calibrated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report.Calibrations++
}

// Run processes commits and threads on one bounded worker pool, in no
// particular order, and records the run in the ledger. A final calibration
// pass follows any run that processed a resource. Failed resources end up
// in the report; the returned error is only set when the run itself was
// interrupted.
func (e *Engine) Run(ctx context.Context, commits []schema.Commit, threads []schema.Thread, params map[string]any) (schema.RunReport, error) {
	start := e.now()
	runID := uuid.NewString()
	ctx = withRunID(ctx, runID)
	if len(commits) > 0 && e.classifier == nil {
		return schema.RunReport{}, contract.NewConfigurationError("commit classifier", errors.New("not configured"))
	}

	if err := e.ledger.BeginRun(ctx, runID, e.project, start, params); err != nil {
		contract.LogWarn("Failed to record run start", err)
	}

	state := &runState{report: schema.RunReport{RunID: runID, Project: e.project}}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for _, c := range commits {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e.handle(gctx, state, schema.CommitCategory, schema.CommitResourceID(c.Hash), func() (outcome, int, error) {
				return e.processCommit(gctx, c)
			})
			return nil
		})
	}
	for _, t := range threads {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e.handle(gctx, state, schema.MailCategory, t.Ref().ID, func() (outcome, int, error) {
				return e.processThread(gctx, t)
			})
			return nil
		})
	}
	runErr := g.Wait()

	if runErr == nil && state.report.Processed > 0 {
		if err := e.calibrator.Force(ctx); err != nil {
			contract.LogWarn("Final weight calibration failed", err)
		} else {
			state.calibrated()
			e.metrics.Calibrated()
		}
	}

	report := state.report
	report.Duration = e.now().Sub(start)
	if err := e.ledger.EndRun(ctx, runID, e.now(), report.Processed, report.Skipped, report.Failed); err != nil {
		contract.LogWarn("Failed to record run end", err)
	}
	return report, runErr
}

// handle runs one resource, records its outcome and ticks the calibrator.
func (e *Engine) handle(ctx context.Context, state *runState, category schema.ActionCategory, resourceID string, fn func() (outcome, int, error)) {
	began := time.Now()
	o, warnings, err := fn()
	for range warnings {
		e.metrics.FileWarning()
	}
	state.record(resourceID, o, warnings, err)

	switch o {
	case skipped:
		e.metrics.ResourceSkipped(category)
		return
	case failed:
		kind := contract.KindOf(err).String()
		e.metrics.ResourceFailed(category, kind)
		log.WithFields(log.Fields{"run": runIDFrom(ctx), "resource": resourceID, "kind": kind}).WithError(err).Error("Failed to process resource")
		return
	}
	e.metrics.ResourceProcessed(category, time.Since(began))

	ran, err := e.calibrator.Tick(ctx)
	if err != nil {
		contract.LogWarn("Weight calibration failed", err)
		return
	}
	if ran {
		state.calibrated()
		e.metrics.Calibrated()
	}
}

// processCommit classifies an unseen commit and records it.
func (e *Engine) processCommit(ctx context.Context, c schema.Commit) (outcome, int, error) {
	resourceID := schema.CommitResourceID(c.Hash)
	seen, err := e.ledger.Exists(ctx, e.project, resourceID, schema.CommitCategory)
	if err != nil {
		return failed, 0, err
	}
	if seen {
		return skipped, 0, nil
	}

	result, err := e.classifier.Classify(ctx, c)
	if err != nil {
		return failed, 0, err
	}
	for _, w := range result.Warnings {
		log.WithFields(log.Fields{"run": runIDFrom(ctx), "resource": resourceID}).WithError(w).Warn("Skipped line attribution")
	}
	warnings := len(result.Warnings)

	tx, err := e.ledger.Begin(ctx)
	if err != nil {
		return failed, warnings, err
	}
	defer func() { _ = tx.Rollback() }()

	// Another worker may have recorded the same commit meanwhile.
	if seen, err = tx.Exists(ctx, e.project, resourceID, schema.CommitCategory); err != nil {
		return failed, warnings, err
	} else if seen {
		return skipped, warnings, nil
	}

	n, err := e.commitActions(ctx, tx, resourceID, result.Actions)
	if err != nil {
		return failed, warnings, err
	}
	e.metrics.ActionsRecorded(schema.CommitCategory, n)
	return processed, warnings, nil
}

// processThread classifies the new messages of a thread and records them.
func (e *Engine) processThread(ctx context.Context, t schema.Thread) (outcome, int, error) {
	tx, err := e.ledger.Begin(ctx)
	if err != nil {
		return failed, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	actions, err := AnalyzeThread(ctx, tx, e.project, t)
	if err != nil {
		return failed, 0, err
	}
	if len(actions) == 0 {
		return skipped, 0, nil
	}

	n, err := e.commitActions(ctx, tx, t.Ref().ID, actions)
	if err != nil {
		return failed, 0, err
	}
	e.metrics.ActionsRecorded(schema.MailCategory, n)
	return processed, 0, nil
}

// commitActions upserts every action under the engine's project, marks the
// project evaluated and commits. Updates that violate the taxonomy are skipped.
func (e *Engine) commitActions(ctx context.Context, tx contract.LedgerTx, resourceID string, actions []schema.Action) (int, error) {
	written := 0
	for _, a := range actions {
		a.Project = e.project
		if err := tx.Upsert(ctx, a); err != nil {
			if errors.Is(err, contract.ErrInvariantViolation) {
				log.WithFields(log.Fields{"resource": resourceID, "kind": contract.KindInvariantViolation.String()}).WithError(err).Warn("Skipped action update")
				continue
			}
			return written, err
		}
		written++
	}
	if err := tx.MarkEvaluated(ctx, e.project, e.now()); err != nil {
		return written, err
	}
	if err := tx.Commit(); err != nil {
		return written, fmt.Errorf("failed to commit %s: %w", resourceID, err)
	}
	return written, nil
}

// noopMetrics discards engine events.
type noopMetrics struct{}

func (noopMetrics) ResourceProcessed(schema.ActionCategory, time.Duration) {}
func (noopMetrics) ResourceSkipped(schema.ActionCategory) {}
func (noopMetrics) ResourceFailed(schema.ActionCategory, string) {}
func (noopMetrics) ActionsRecorded(schema.ActionCategory, int) {}
func (noopMetrics) FileWarning() {}
func (noopMetrics) Calibrated() {}
