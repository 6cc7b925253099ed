/*
NAME
  score.go

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
	"fmt"
	"math"

	"github.com/ausocean/loopcut/engine/config"
	"github.com/ausocean/loopcut/internal/imgutil"
)

// LoopScorer computes the quality of a candidate loop by combining boundary
// similarity with intra-loop motion consistency.
type LoopScorer struct {
	cfg config.Config
}

// NewLoopScorer returns a LoopScorer configured with cfg.
func NewLoopScorer(cfg config.Config) *LoopScorer {
	return &LoopScorer{cfg: cfg}
}

// Quality returns the quality score for the pair (i, j, s) given the full
// sampled-frame sequence. When the loop body has fewer than
// config.MinMotionFrames sampled frames, quality is just the boundary
// similarity s.
func (sc *LoopScorer) Quality(frames []SampledFrame, i, j uint32, s float64) (float64, error) {
	if j <= i || int(j) >= len(frames) {
		return 0, internalConsistencyf("loop scorer: invalid bounds i=%d j=%d len=%d", i, j, len(frames))
	}

	span := int(j-i) + 1
	if span < config.MinMotionFrames || span < 2 {
		return s, nil
	}

	c, err := sc.motionConsistency(frames[i : j+1])
	if err != nil {
		return 0, err
	}

	quality := 0.7*s + 0.3*c
	return clamp01(quality), nil
}

// motionConsistency samples config.MotionSampleCount frames evenly across
// the loop body (endpoints included), computes the grayscale absolute-
// difference mean between each consecutive pair, and returns
// 1 - stddev/mean of those differences (1 if mean is 0).
func (sc *LoopScorer) motionConsistency(loop []SampledFrame) (float64, error) {
	n := config.MotionSampleCount
	if n > len(loop) {
		n = len(loop)
	}
	if n < 2 {
		return 1, nil
	}

	idx := evenlySpaced(len(loop), n)

	diffs := make([]float64, 0, n-1)
	for k := 1; k < len(idx); k++ {
		a, err := imgutil.ToGray(loop[idx[k-1]].Pixels)
		if err != nil {
			return 0, fmt.Errorf("motion consistency: %w", err)
		}
		b, err := imgutil.ToGray(loop[idx[k]].Pixels)
		if err != nil {
			return 0, fmt.Errorf("motion consistency: %w", err)
		}
		d, err := imgutil.AbsDiffMean(a, b)
		if err != nil {
			return 0, fmt.Errorf("motion consistency: %w", err)
		}
		diffs = append(diffs, d)
	}

	mean, std := popMeanStdDev(diffs)
	if mean == 0 {
		return 1, nil
	}
	c := 1 - std/mean
	if c < 0 {
		c = 0
	}
	return c, nil
}

// popMeanStdDev returns the mean and population standard deviation (divisor
// n, not gonum/stat's Bessel-corrected n-1) of xs, matching numpy's default
// ddof=0 behaviour that the original motion-consistency formula relies on.
func popMeanStdDev(xs []float64) (mean, std float64) {
	n := len(xs)
	if n == 0 {
		return 0, 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean = sum / float64(n)

	var acc float64
	for _, x := range xs {
		d := x - mean
		acc += d * d
	}
	return mean, math.Sqrt(acc / float64(n))
}

// evenlySpaced returns n indices evenly spaced across [0, length), including
// both endpoints, each position rounded to the nearest index.
func evenlySpaced(length, n int) []int {
	if n <= 1 {
		return []int{0}
	}
	out := make([]int, n)
	step := float64(length-1) / float64(n-1)
	for i := 0; i < n; i++ {
		out[i] = int(float64(i)*step + 0.5)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
