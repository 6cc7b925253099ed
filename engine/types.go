/*
NAME
  types.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package engine implements the loop-detection pipeline: sampling, frame
// fingerprinting, candidate pair search, quality scoring and ranking.
package engine

import "image"

// VideoInfo describes the source video. It is immutable and obtained once
// per detection run from the FrameSource.
type VideoInfo struct {
	TotalFrames uint64
	FPS         float64
	Width       uint32
	Height      uint32
	DurationS   float64
}

// Frame is a single decoded frame as handed to the engine by a FrameSource:
// 8-bit RGB, row-major, contiguous, as required by the FrameSource contract.
type Frame struct {
	OriginalIndex uint64
	Pixels        image.Image
}

// SampledFrame is one element of the sequence produced by the FrameSampler.
// ExtractedIndex is the 0-based position within the sampled sequence;
// OriginalIndex is the frame number in the undecimated source video. The
// mapping from one to the other is the only source of truth for converting
// sampled indices back to wall-clock time.
type SampledFrame struct {
	ExtractedIndex uint32
	OriginalIndex  uint64
	Pixels         image.Image
}

// Fingerprint is the fixed-size derived data computed from one SampledFrame.
// Hash64 is a 64-bit perceptual average-hash over an 8x8 downscale; bit
// (y*8+x) is 1 iff the pixel at (x,y) exceeds the 8x8 mean. Tile is the
// grayscale image at sampled resolution, normalised so every tile in a run
// shares the same dimensions.
type Fingerprint struct {
	Hash64 uint64
	Tile   *image.Gray
}

// Pair is a candidate loop endpoint pair: frame I and frame J (extracted
// indices, I < J) are visually similar with score Similarity in [0,1]. The
// loop body is the inclusive range [I, J].
type Pair struct {
	I, J       uint32
	Similarity float64
}

// LoopCandidate describes one detected loop, fully resolved back to
// original-video frame indices and wall-clock times.
type LoopCandidate struct {
	StartFrameOrig     uint64
	EndFrameOrig       uint64
	StartTimeS         float64
	EndTimeS           float64
	DurationS          float64
	FrameCount         uint64
	BoundarySimilarity float64
	QualityScore       float64
	FinalScore         float64
	FPS                float64
}
