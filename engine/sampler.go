/*
NAME
  sampler.go

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

	"github.com/ausocean/loopcut/engine/config"
	"github.com/ausocean/loopcut/internal/imgutil"
)

// FrameSampler extracts a strided sequence of frames from a FrameSource,
// keeping the original_index -> extracted_index mapping that lets the rest
// of the pipeline convert back to wall-clock time.
type FrameSampler struct {
	cfg config.Config
}

// NewFrameSampler returns a FrameSampler configured with cfg.
func NewFrameSampler(cfg config.Config) *FrameSampler {
	return &FrameSampler{cfg: cfg}
}

// Sample reads frames from source in the half-open range [start, end),
// keeping every stride-th original frame, and resizes each to fit within
// maxDim (area-averaging, aspect-preserving, never upscaling). If the
// source yields fewer frames than the range implies, Sample stops and
// returns what it has rather than fabricating frames.
func (s *FrameSampler) Sample(source FrameSource, start, end uint64, stride, maxDim uint32) ([]SampledFrame, error) {
	if stride < 1 {
		return nil, invalidRangef("stride must be >= 1, got %d", stride)
	}
	if end <= start {
		return nil, invalidRangef("start_frame (%d) must be < end_frame (%d)", start, end)
	}

	var (
		out        []SampledFrame
		wantNext   = start
		extracted  uint32
		lastOrigin int64 = -1
	)

	err := source.ReadFrames(start, end, func(f Frame) error {
		if f.OriginalIndex < start || f.OriginalIndex >= end {
			return nil
		}
		if f.OriginalIndex != wantNext {
			// Not a frame on our stride grid; skip it.
			return nil
		}

		if int64(f.OriginalIndex) <= lastOrigin {
			return internalConsistencyf("original_index not strictly increasing: %d after %d", f.OriginalIndex, lastOrigin)
		}
		lastOrigin = int64(f.OriginalIndex)

		resized, err := imgutil.ResizeToFit(f.Pixels, int(maxDim))
		if err != nil {
			return fmt.Errorf("resize frame %d: %w", f.OriginalIndex, err)
		}

		out = append(out, SampledFrame{
			ExtractedIndex: extracted,
			OriginalIndex:  f.OriginalIndex,
			Pixels:         resized,
		})
		extracted++
		wantNext += uint64(stride)
		return nil
	})
	if err != nil {
		if e, ok := err.(*Error); ok {
			return nil, e
		}
		return nil, decoderErr(err)
	}

	if len(out) == 0 {
		return nil, noFramesf("no frames sampled from non-empty window [%d, %d)", start, end)
	}

	if s.cfg.Logger != nil {
		s.cfg.Logger.Debug("sampled frames", "count", len(out), "stride", stride, "start", start, "end", end)
	}
	return out, nil
}
