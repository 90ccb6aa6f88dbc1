package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/schema"
)

// ScoreAggregator combines a developer's ledger totals with the current weights.
type ScoreAggregator struct {
	reader contract.LedgerReader
	mode   schema.ScoringMode
}

// NewScoreAggregator returns an aggregator reading from r. An empty mode is flat.
func NewScoreAggregator(r contract.LedgerReader, mode schema.ScoringMode) *ScoreAggregator {
	if mode == "" {
		mode = schema.FlatMode
	}
	return &ScoreAggregator{reader: r, mode: mode}
}

// ComputeScore returns the score of developer within project. The score is
// marked as not computed when the project has never been evaluated.
func (s *ScoreAggregator) ComputeScore(ctx context.Context, project, developer string) (schema.DeveloperScore, error) {
	result := schema.DeveloperScore{Developer: developer}
	evaluated, err := s.reader.IsEvaluated(ctx, project)
	if err != nil {
		return result, err
	}
	if !evaluated {
		return result, nil
	}

	weights, err := s.reader.Weights(ctx)
	if err != nil {
		return result, err
	}
	totals, err := s.reader.DeveloperTotals(ctx, project, developer)
	if err != nil {
		return result, err
	}
	result.Computed = true
	result.Score, result.Breakdown = Score(totals, schema.NewWeightSet(weights), s.mode)
	return result, nil
}

// ComputeAll scores every developer of project, highest first.
func (s *ScoreAggregator) ComputeAll(ctx context.Context, project string) ([]schema.DeveloperScore, error) {
	devs, err := s.reader.Developers(ctx, project)
	if err != nil {
		return nil, err
	}
	scores := make([]schema.DeveloperScore, 0, len(devs))
	for _, dev := range devs {
		score, err := s.ComputeScore(ctx, project, dev)
		if err != nil {
			return nil, fmt.Errorf("failed to score %s: %w", dev, err)
		}
		scores = append(scores, score)
	}
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Developer < scores[j].Developer
	})
	return scores, nil
}

// IsTouched reports whether any action of project references the resource.
func (s *ScoreAggregator) IsTouched(ctx context.Context, project string, ref schema.ResourceRef) (schema.TouchedResult, error) {
	touched, err := s.reader.Exists(ctx, project, ref.ID, ref.Category)
	if err != nil {
		return schema.TouchedResult{Resource: ref}, err
	}
	return schema.TouchedResult{Resource: ref, Touched: touched}, nil
}

// Score applies weights to per-type totals. Types without a weight add
// nothing. In flat mode each category weight multiplies the signed sum of
// its weighted types; weighted mode also multiplies each term by the type weight.
func Score(totals map[schema.ActionType]int64, weights schema.WeightSet, mode schema.ScoringMode) (float64, map[schema.ActionCategory]float64) {
	var score float64
	breakdown := make(map[schema.ActionCategory]float64)
	for _, cat := range schema.AllCategories {
		catWeight, ok := weights.Categories[cat]
		if !ok {
			continue
		}
		var sum float64
		for _, t := range schema.TypesOf(cat) {
			typeWeight, ok := weights.Types[t]
			if !ok {
				continue
			}
			term := t.Sign() * float64(totals[t])
			if mode == schema.WeightedMode {
				term *= typeWeight
			}
			sum += term
		}
		breakdown[cat] = catWeight * sum
		score += breakdown[cat]
	}
	return score, breakdown
}
