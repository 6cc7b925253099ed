/*
NAME
  helpers_test.go

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
	"image"
	"image/color"
	"math/rand"
)

// dumbLogger discards everything; used wherever a test only needs a
// non-nil logging.Logger, the same role config_test.go's dumbLogger plays
// in revid/config.
type dumbLogger struct{}

func (dumbLogger) Log(int8, string, ...interface{}) {}
func (dumbLogger) SetLevel(int8)                    {}
func (dumbLogger) Debug(string, ...interface{})     {}
func (dumbLogger) Info(string, ...interface{})      {}
func (dumbLogger) Warning(string, ...interface{})   {}
func (dumbLogger) Error(string, ...interface{})     {}
func (dumbLogger) Fatal(string, ...interface{})     {}

// memSource is an in-memory FrameSource test double: it serves the frames
// given to it at construction and never touches a decoder, the way the
// original Python test_suite.py builds synthetic numpy frame arrays.
type memSource struct {
	info   VideoInfo
	frames []Frame
}

func newMemSource(fps float64, width, height int, frames []Frame) *memSource {
	return &memSource{
		info: VideoInfo{
			TotalFrames: uint64(len(frames)),
			FPS:         fps,
			Width:       uint32(width),
			Height:      uint32(height),
			DurationS:   float64(len(frames)) / fps,
		},
		frames: frames,
	}
}

func (m *memSource) Info() (VideoInfo, error) { return m.info, nil }

func (m *memSource) ReadFrames(start, end uint64, yield func(Frame) error) error {
	for _, f := range m.frames {
		if f.OriginalIndex < start {
			continue
		}
		if f.OriginalIndex >= end {
			break
		}
		if err := yield(f); err != nil {
			return err
		}
	}
	return nil
}

// solidFrame returns a uniform-color frame of the given size.
func solidFrame(idx uint64, w, h int, c color.RGBA) Frame {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return Frame{OriginalIndex: idx, Pixels: img}
}

// solidFrameRGBA is solidFrame with a fixed mid-gray color, handy when a
// test only cares about frame dimensions.
func solidFrameRGBA(idx uint64, w, h int) Frame {
	return solidFrame(idx, w, h, color.RGBA{R: 128, G: 128, B: 128, A: 255})
}

// randomFrame returns a frame of independent random pixels, seeded so tests
// are reproducible.
func randomFrame(idx uint64, w, h int, rng *rand.Rand) Frame {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	return Frame{OriginalIndex: idx, Pixels: img}
}

// checkerFrame returns a frame whose content is a function of idx, so
// consecutive frames differ in a controlled, repeatable way — useful for
// motion-consistency tests.
func checkerFrame(idx uint64, w, h int) Frame {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	shift := int(idx) % 16
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(0)
			if (x+shift)%16 < 8 {
				v = 200
			}
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return Frame{OriginalIndex: idx, Pixels: img}
}
