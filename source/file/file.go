/*
NAME
  file.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package file provides an engine.FrameSource backed by a video file,
// decoded with gocv's VideoCapture.
package file

import (
	"fmt"
	"image"
	"sync"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/ausocean/loopcut/engine"
	"github.com/ausocean/utils/logging"
)

// Source is an engine.FrameSource that reads frames from a video file on
// disk. A Source must be opened with Open before use and closed with
// Close when done.
type Source struct {
	path string
	log  logging.Logger

	mu   sync.Mutex
	vc   *gocv.VideoCapture
	info engine.VideoInfo
}

// New returns a Source for the video file at path. The file is not opened
// until Open is called.
func New(path string, l logging.Logger) *Source {
	return &Source{path: path, log: l}
}

// Open opens the underlying video file and reads its metadata. It must be
// called before Info or ReadFrames.
func (s *Source) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	vc, err := gocv.VideoCaptureFile(s.path)
	if err != nil {
		return errors.Wrapf(err, "could not open video file %q", s.path)
	}
	s.vc = vc

	s.info = engine.VideoInfo{
		TotalFrames: uint64(vc.Get(gocv.VideoCaptureFrameCount)),
		FPS:         vc.Get(gocv.VideoCaptureFPS),
		Width:       uint32(vc.Get(gocv.VideoCaptureFrameWidth)),
		Height:      uint32(vc.Get(gocv.VideoCaptureFrameHeight)),
	}
	if s.info.FPS > 0 {
		s.info.DurationS = float64(s.info.TotalFrames) / s.info.FPS
	}

	if s.log != nil {
		s.log.Info("opened video file", "path", s.path, "frames", s.info.TotalFrames, "fps", s.info.FPS)
	}
	return nil
}

// Close releases the underlying VideoCapture.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vc == nil {
		return nil
	}
	return s.vc.Close()
}

// Info implements engine.FrameSource.
func (s *Source) Info() (engine.VideoInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vc == nil {
		return engine.VideoInfo{}, fmt.Errorf("file: source not opened")
	}
	return s.info, nil
}

// ReadFrames implements engine.FrameSource. It seeks to start and decodes
// sequentially through end, calling yield once per decoded frame. If the
// file ends before reaching end, ReadFrames stops and returns nil.
func (s *Source) ReadFrames(start, end uint64, yield func(engine.Frame) error) error {
	s.mu.Lock()
	vc := s.vc
	s.mu.Unlock()
	if vc == nil {
		return fmt.Errorf("file: source not opened")
	}

	if !vc.Set(gocv.VideoCapturePosFrames, float64(start)) {
		return fmt.Errorf("file: could not seek to frame %d", start)
	}

	mat := gocv.NewMat()
	defer mat.Close()

	for idx := start; idx < end; idx++ {
		if ok := vc.Read(&mat); !ok || mat.Empty() {
			return nil
		}

		var rgb gocv.Mat = gocv.NewMat()
		gocv.CvtColor(mat, &rgb, gocv.ColorBGRToRGB)
		img, err := rgb.ToImage()
		rgb.Close()
		if err != nil {
			return fmt.Errorf("file: mat to image at frame %d: %w", idx, err)
		}

		if err := yield(engine.Frame{OriginalIndex: idx, Pixels: toRGBA(img)}); err != nil {
			return err
		}
	}
	return nil
}

// toRGBA normalises whatever concrete image type gocv hands back into
// *image.RGBA, matching the FrameSource contract's "8-bit RGB, row-major,
// contiguous" requirement.
func toRGBA(img image.Image) image.Image {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x, y, img.At(x, y))
		}
	}
	return dst
}
