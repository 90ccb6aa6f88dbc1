package core

import (
	"math"
	"testing"

	"github.com/udithaR/Alitheia-Core/schema"
)

// FuzzScore fuzzes Score with random totals and weights.
func FuzzScore(f *testing.F) {
	seeds := []struct {
		cns, tla, cec, mfr int64
		cw, mw, tw         float64
		weighted           bool
	}{
		{1, 120, 0, 2, 75, 25, 50, false},
		{0, 0, 3, 0, 100, 0, 100, true},
		{0, 0, 0, 0, 0, 0, 0, false}, // edge case
	}
	for _, s := range seeds {
		f.Add(s.cns, s.tla, s.cec, s.mfr, s.cw, s.mw, s.tw, s.weighted)
	}

	f.Fuzz(func(t *testing.T, cns, tla, cec, mfr int64, cw, mw, tw float64, weighted bool) {
		for _, v := range []float64{cw, mw, tw} {
			if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > 1e6 {
				t.Skip()
			}
		}
		for _, v := range []int64{cns, tla, cec, mfr} {
			if v < 0 || v > 1<<40 {
				t.Skip()
			}
		}

		totals := map[schema.ActionType]int64{
			schema.NewSourceFile: cns,
			schema.LinesAdded:    tla,
			schema.EmptyCommit:   cec,
			schema.FirstReply:    mfr,
		}
		weights := schema.NewWeightSet([]schema.Weight{
			{Kind: schema.CategoryWeight, Key: string(schema.CommitCategory), Value: cw},
			{Kind: schema.CategoryWeight, Key: string(schema.MailCategory), Value: mw},
			{Kind: schema.TypeWeight, Key: string(schema.NewSourceFile), Value: tw},
			{Kind: schema.TypeWeight, Key: string(schema.LinesAdded), Value: tw},
			{Kind: schema.TypeWeight, Key: string(schema.EmptyCommit), Value: tw},
			{Kind: schema.TypeWeight, Key: string(schema.FirstReply), Value: tw},
		})
		mode := schema.FlatMode
		if weighted {
			mode = schema.WeightedMode
		}

		score, breakdown := Score(totals, weights, mode)
		if math.IsNaN(score) {
			t.Fatalf("score is NaN for totals %v", totals)
		}
		var sum float64
		for _, v := range breakdown {
			sum += v
		}
		if math.Abs(sum-score) > 1e-6*math.Max(1, math.Abs(score)) {
			t.Fatalf("breakdown sum %v differs from score %v", sum, score)
		}
		if _, ok := breakdown[schema.BugCategory]; ok {
			t.Fatalf("bug category has no weight but appears in breakdown")
		}
	})
}

// FuzzAttributeLines checks that attribution never loses or invents lines.
func FuzzAttributeLines(f *testing.F) {
	f.Add(10, 4)
	f.Add(0, 0)
	f.Add(3, 7)

	f.Fuzz(func(t *testing.T, added, removed int) {
		if added < 0 || removed < 0 || added > 1<<30 || removed > 1<<30 {
			t.Skip()
		}
		attr := AttributeLines(added, removed)
		if attr.Added > 0 && attr.Removed > 0 {
			t.Fatalf("both added and removed credited: %+v", attr)
		}
		if attr.Modified+attr.Added != added && attr.Modified+attr.Removed != removed {
			t.Fatalf("attribution %+v does not match %d/%d", attr, added, removed)
		}
		if attr.Modified+attr.Added+attr.Removed != max(added, removed) {
			t.Fatalf("attribution %+v does not cover max(%d, %d)", attr, added, removed)
		}
	})
}
