/*
NAME
  config.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config holds the tunable parameters for the loop-detection engine.
package config

import (
	"github.com/ausocean/utils/logging"
)

// Strategy selects the frame-pair comparison method used by the PairSearcher.
type Strategy int

// The pair-search strategies supported by the engine.
const (
	// StrategyFastHash compares perceptual hashes only; cheapest, coarsest.
	StrategyFastHash Strategy = iota

	// StrategyBatchSSIM compares grayscale tiles with the SSIM formula for
	// every pair; most expensive, most precise.
	StrategyBatchSSIM

	// StrategyHybrid pre-filters with a relaxed hash threshold, then verifies
	// survivors with SSIM. The default.
	StrategyHybrid

	// StrategyCombined is the legacy scorer: 60% SSIM, 40% histogram
	// correlation, with no hash pre-filter.
	StrategyCombined
)

// String implements fmt.Stringer for Strategy, mainly for logging.
func (s Strategy) String() string {
	switch s {
	case StrategyFastHash:
		return "fast_hash"
	case StrategyBatchSSIM:
		return "batch_ssim"
	case StrategyHybrid:
		return "hybrid"
	case StrategyCombined:
		return "combined"
	default:
		return "unknown"
	}
}

// Default tunables, used whenever a Config field is left at its zero value.
const (
	DefaultMaxAnalysisDim = 480
	DefaultStride         = 1
	DefaultThreshold      = 0.98
	DefaultStrategy       = StrategyHybrid

	// MinLoopSeconds is the hard minimum duration of any returned loop
	// candidate, enforced identically by the candidate filter in
	// Engine.DetectLoops and by the ranker. See the
	// Open Question discussion in SPEC_FULL.md for why this is kept separate
	// from MinMotionFrames.
	MinLoopSeconds = 0.5

	// MinMotionFrames is the smallest loop (in sampled frames, inclusive of
	// both endpoints) for which motion-consistency scoring applies. Below
	// this, quality falls back to the boundary similarity alone.
	MinMotionFrames = 11

	// MotionSampleCount is the number of evenly spaced frames sampled across
	// a loop body to estimate intra-loop motion consistency.
	MotionSampleCount = 5
)

// Config bundles every knob the engine accepts. A zero-value Config is not
// usable directly; callers should start from New and override fields, the
// same way revid/config.Config is built up field by field before use.
type Config struct {
	// MaxAnalysisDim bounds the largest dimension of any frame handed to the
	// Fingerprinter and PairSearcher; frames are downscaled to fit, never
	// upscaled.
	MaxAnalysisDim uint32

	// Stride keeps every Nth original frame during sampling.
	Stride uint32

	// Threshold is the minimum similarity score, in [0,1], a pair must reach
	// to be emitted by the PairSearcher.
	Threshold float32

	// Strategy selects which PairSearcher comparison method runs.
	Strategy Strategy

	// Logger receives diagnostic messages from every stage of the pipeline.
	Logger logging.Logger
}

// New returns a Config with every field set to its documented default.
func New(l logging.Logger) Config {
	return Config{
		MaxAnalysisDim: DefaultMaxAnalysisDim,
		Stride:         DefaultStride,
		Threshold:      DefaultThreshold,
		Strategy:       DefaultStrategy,
		Logger:         l,
	}
}

// Validate clamps or defaults non-critical fields, logging each correction
// through c.Logger the way revid/config.Config.LogInvalidField does; it
// never silently accepts a threshold outside [0,1] or a stride below 1,
// since those are the caller's explicit intent and belong to the engine's
// InvalidRange error path rather than quiet defaulting.
func (c *Config) Validate() {
	if c.MaxAnalysisDim == 0 {
		c.LogInvalidField("MaxAnalysisDim", DefaultMaxAnalysisDim)
		c.MaxAnalysisDim = DefaultMaxAnalysisDim
	}
}

// LogInvalidField logs that a field was bad or unset, and that def is being
// used in its place.
func (c *Config) LogInvalidField(name string, def interface{}) {
	if c.Logger == nil {
		return
	}
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}
