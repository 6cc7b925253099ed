/*
NAME
  rank.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package engine

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/ausocean/loopcut/engine/config"
)

// DesiredLength is the user's length preference: either a target duration
// in seconds, or "auto" (no preference).
type DesiredLength struct {
	Seconds float64
	Auto    bool
}

// Auto is the "no length preference" value.
func Auto() DesiredLength { return DesiredLength{Auto: true} }

// Length wraps a numeric desired length in seconds.
func Length(s float64) DesiredLength { return DesiredLength{Seconds: s} }

// LoopRanker applies the length preference and produces the final ordering.
// The length filter is applied exactly once, here — see SPEC_FULL.md's
// Ambiguity note: the original analyzer filtered twice (once while building
// candidates, once while ranking); this implementation keeps a single
// canonical filter point.
type LoopRanker struct {
	cfg config.Config
}

// NewLoopRanker returns a LoopRanker configured with cfg.
func NewLoopRanker(cfg config.Config) *LoopRanker {
	return &LoopRanker{cfg: cfg}
}

// Rank drops candidates that don't meet the minimum duration or (if L is
// numeric) the length-preference window, computes final_score for the
// survivors, and returns them sorted by final_score descending.
func (r *LoopRanker) Rank(candidates []LoopCandidate, l DesiredLength) []LoopCandidate {
	kept := make([]LoopCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.DurationS < config.MinLoopSeconds {
			continue
		}
		if !l.Auto && math.Abs(c.DurationS-l.Seconds) > 0.2*l.Seconds {
			continue
		}
		kept = append(kept, c)
	}

	for i := range kept {
		score := kept[i].QualityScore
		if !l.Auto {
			lengthPenalty := math.Abs(kept[i].DurationS-l.Seconds) / l.Seconds
			score *= 1 - math.Min(0.5, lengthPenalty)
		}
		durationBonus := math.Min(0.1, kept[i].DurationS/10)
		score += durationBonus
		kept[i].FinalScore = score
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].FinalScore > kept[j].FinalScore
	})

	if r.cfg.Logger != nil && len(kept) > 0 {
		scores := make([]float64, len(kept))
		for i, c := range kept {
			scores[i] = c.FinalScore
		}
		r.cfg.Logger.Debug("ranked loop candidates", "count", len(kept), "top_score", floats.Max(scores))
	}

	return kept
}
