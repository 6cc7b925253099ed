/*
NAME
  engine.go

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
	"context"

	"github.com/ausocean/loopcut/engine/config"
)

// Window bounds the analysis range. Frame indices, when present, override
// the corresponding time value. All values are in terms of the source's
// original (undecimated) frames/seconds.
type Window struct {
	StartFrame *uint64
	EndFrame   *uint64
	StartTimeS *float64
	EndTimeS   *float64
}

// Options bundles everything DetectLoops needs beyond the source itself.
type Options struct {
	Window         Window
	Stride         uint32
	MaxAnalysisDim uint32
	Threshold      float32
	DesiredLength  DesiredLength
}

// Engine is the single entry point into the loop-detection pipeline:
// sample -> fingerprint -> search -> score -> rank.
type Engine struct {
	cfg      config.Config
	sampler  *FrameSampler
	printer  *Fingerprinter
	searcher *PairSearcher
	scorer   *LoopScorer
	ranker   *LoopRanker
}

// New returns an Engine configured with cfg. cfg.Strategy selects the
// PairSearcher's comparison method for every call to DetectLoops.
func New(cfg config.Config) *Engine {
	return &Engine{
		cfg:      cfg,
		sampler:  NewFrameSampler(cfg),
		printer:  NewFingerprinter(cfg),
		searcher: NewPairSearcher(cfg),
		scorer:   NewLoopScorer(cfg),
		ranker:   NewLoopRanker(cfg),
	}
}

// DetectLoops runs the full pipeline against source and returns every
// detected loop, sorted by FinalScore descending. An empty, nil-error
// result means "no loop meets the criteria" — it is not a failure.
func (e *Engine) DetectLoops(ctx context.Context, source FrameSource, opts Options) ([]LoopCandidate, error) {
	info, err := source.Info()
	if err != nil {
		return nil, decoderErr(err)
	}

	start, end, err := resolveWindow(opts.Window, info)
	if err != nil {
		return nil, err
	}

	stride := opts.Stride
	if stride == 0 {
		stride = e.cfg.Stride
	}
	if stride == 0 {
		stride = config.DefaultStride
	}
	maxDim := opts.MaxAnalysisDim
	if maxDim == 0 {
		maxDim = e.cfg.MaxAnalysisDim
	}
	if maxDim == 0 {
		maxDim = config.DefaultMaxAnalysisDim
	}
	threshold := float64(opts.Threshold)
	if opts.Threshold == 0 {
		threshold = float64(e.cfg.Threshold)
	}
	if threshold == 0 {
		threshold = config.DefaultThreshold
	}
	if threshold < 0 || threshold > 1 {
		return nil, invalidRangef("threshold %v outside [0, 1]", threshold)
	}

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	frames, err := e.sampler.Sample(source, start, end, stride, maxDim)
	if err != nil {
		return nil, err
	}

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	fps, err := e.printer.Fingerprint(frames)
	if err != nil {
		return nil, err
	}

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	pairs, err := e.searcher.Search(ctx, fps, threshold)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, nil
	}

	candidates := make([]LoopCandidate, 0, len(pairs))
	for _, pair := range pairs {
		if err := checkCancelled(ctx); err != nil {
			return nil, err
		}

		start := frames[pair.I].OriginalIndex
		end := frames[pair.J].OriginalIndex
		if end <= start {
			return nil, internalConsistencyf("pair resolved to non-increasing original indices: %d -> %d", start, end)
		}

		durationS := float64(end-start) / info.FPS
		if durationS < config.MinLoopSeconds {
			continue
		}

		quality, err := e.scorer.Quality(frames, pair.I, pair.J, pair.Similarity)
		if err != nil {
			return nil, err
		}

		candidates = append(candidates, LoopCandidate{
			StartFrameOrig:     start,
			EndFrameOrig:       end,
			StartTimeS:         float64(start) / info.FPS,
			EndTimeS:           float64(end) / info.FPS,
			DurationS:          durationS,
			FrameCount:         end - start + 1,
			BoundarySimilarity: pair.Similarity,
			QualityScore:       clamp01(quality),
			FPS:                info.FPS,
		})
	}

	ranked := e.ranker.Rank(candidates, opts.DesiredLength)
	return ranked, nil
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return cancelled(ctx.Err())
	default:
		return nil
	}
}

// resolveWindow converts seconds to frames using info.FPS, lets explicit
// frame indices override time values when both are present, clamps to
// [0, total_frames), and fails InvalidRange if the result collapses.
func resolveWindow(w Window, info VideoInfo) (start, end uint64, err error) {
	start = 0
	end = info.TotalFrames

	if w.StartTimeS != nil {
		f := uint64(*w.StartTimeS * info.FPS)
		start = f
	}
	if w.StartFrame != nil {
		start = *w.StartFrame
	}

	if w.EndTimeS != nil {
		f := uint64(*w.EndTimeS * info.FPS)
		end = f
	}
	if w.EndFrame != nil {
		end = *w.EndFrame
	}

	if start >= info.TotalFrames {
		return 0, 0, invalidRangef("start_frame %d >= total_frames %d", start, info.TotalFrames)
	}
	if end > info.TotalFrames {
		end = info.TotalFrames
	}
	if start >= end {
		return 0, 0, invalidRangef("window collapsed: start_frame %d >= end_frame %d", start, end)
	}

	return start, end, nil
}
