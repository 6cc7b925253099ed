/*
NAME
  sampler_test.go

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
	"errors"
	"math/rand"
	"testing"

	"github.com/ausocean/loopcut/engine/config"
)

func testConfig() config.Config {
	c := config.New(dumbLogger{})
	return c
}

func buildFrames(n, w, h int) []Frame {
	rng := rand.New(rand.NewSource(1))
	frames := make([]Frame, n)
	for i := 0; i < n; i++ {
		frames[i] = randomFrame(uint64(i), w, h, rng)
	}
	return frames
}

// TestSamplerIndexMapping verifies property 1: original_index(k) =
// window_start + k*stride, strictly increasing.
func TestSamplerIndexMapping(t *testing.T) {
	frames := buildFrames(40, 64, 64)
	src := newMemSource(30, 64, 64, frames)

	for _, stride := range []uint32{1, 2, 5, 10} {
		s := NewFrameSampler(testConfig())
		out, err := s.Sample(src, 0, 40, stride, 480)
		if err != nil {
			t.Fatalf("stride %d: Sample returned error: %v", stride, err)
		}
		var last int64 = -1
		for k, sf := range out {
			want := uint64(k) * uint64(stride)
			if sf.OriginalIndex != want {
				t.Errorf("stride %d: sample %d: got original_index %d, want %d", stride, k, sf.OriginalIndex, want)
			}
			if int64(sf.OriginalIndex) <= last {
				t.Errorf("stride %d: original_index not strictly increasing at %d", stride, k)
			}
			last = int64(sf.OriginalIndex)
		}
	}
}

func TestSamplerInvalidRange(t *testing.T) {
	frames := buildFrames(10, 16, 16)
	src := newMemSource(30, 16, 16, frames)
	s := NewFrameSampler(testConfig())

	if _, err := s.Sample(src, 5, 5, 1, 480); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("start==end: got %v, want ErrInvalidRange", err)
	}
	if _, err := s.Sample(src, 0, 10, 0, 480); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("stride 0: got %v, want ErrInvalidRange", err)
	}
}

func TestSamplerTruncatedStream(t *testing.T) {
	// Source only has 5 frames but we ask for a window of 20.
	frames := buildFrames(5, 16, 16)
	src := newMemSource(30, 16, 16, frames)
	s := NewFrameSampler(testConfig())

	out, err := s.Sample(src, 0, 20, 1, 480)
	if err != nil {
		t.Fatalf("Sample returned error: %v", err)
	}
	if len(out) != 5 {
		t.Errorf("got %d sampled frames, want 5 (truncated stream)", len(out))
	}
}

func TestSamplerNoFrames(t *testing.T) {
	frames := buildFrames(10, 16, 16)
	src := newMemSource(30, 16, 16, frames)
	s := NewFrameSampler(testConfig())

	// A source with no frames at all, asked for the non-empty window
	// [0, 10).
	empty := newMemSource(30, 16, 16, nil)
	if _, err := s.Sample(empty, 0, 10, 1, 480); !errors.Is(err, ErrNoFrames) {
		t.Errorf("got %v, want ErrNoFrames", err)
	}
	_ = src
}

func TestSamplerNeverUpscales(t *testing.T) {
	frames := buildFrames(2, 100, 50)
	src := newMemSource(30, 100, 50, frames)
	s := NewFrameSampler(testConfig())

	out, err := s.Sample(src, 0, 2, 1, 480)
	if err != nil {
		t.Fatalf("Sample returned error: %v", err)
	}
	for _, sf := range out {
		b := sf.Pixels.Bounds()
		if b.Dx() != 100 || b.Dy() != 50 {
			t.Errorf("got resized dims %dx%d, want unchanged 100x50 (already under max dim)", b.Dx(), b.Dy())
		}
	}
}
