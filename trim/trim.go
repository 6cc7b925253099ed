/*
NAME
  trim.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package trim implements the VideoTrimmer collaborator named in
// SPEC_FULL.md §5: given a detected engine.LoopCandidate, it cuts
// [t0, t1] out of the source file and writes it back out, optionally
// changing resolution or speed. The written clip has no audio track. This is deliberately
// outside the loop-detection engine's hard core; it exists so the module
// ships a runnable end-to-end tool the way revid pairs its encoders with
// transcoding senders.
package trim

import (
	"fmt"
	"image"

	"github.com/muesli/smartcrop"
	"github.com/muesli/smartcrop/nfnt"
	"gocv.io/x/gocv"

	"github.com/ausocean/loopcut/engine"
	"github.com/ausocean/utils/bitrate"
	"github.com/ausocean/utils/logging"
)

// ResizeStrategy selects how a trimmed frame is fitted into the requested
// output resolution when the aspect ratio doesn't match.
type ResizeStrategy int

const (
	// ResizeCrop uses smartcrop's content-aware analysis to pick the crop
	// window that keeps the most visually interesting region.
	ResizeCrop ResizeStrategy = iota
	// ResizePad letterboxes the frame to fit, preserving the full image.
	ResizePad
	// ResizeCenter cuts a window of the output size around the frame
	// center, clamped to the frame, and resizes it to the output size; when
	// the clamp applies, the aspect ratio is not preserved.
	ResizeCenter
)

// Options configures a trim operation.
type Options struct {
	Width, Height int  // Zero means keep the source resolution.
	Speed         float64 // Playback speed multiplier; zero means 1.0.
	IncludeAudio  bool
	Resize        ResizeStrategy
}

// Trimmer cuts a LoopCandidate out of a source file and writes the result
// to an output file, using gocv for frame I/O the way the engine's
// source/file package reads frames.
type Trimmer struct {
	log   logging.Logger
	bitrt bitrate.Calculator
}

// New returns a Trimmer that logs through l.
func New(l logging.Logger) *Trimmer {
	return &Trimmer{log: l}
}

// Trim reads frames [loop.StartFrameOrig, loop.EndFrameOrig] from inPath and
// writes them to outPath, applying opts. Audio passthrough is not
// implemented by gocv's VideoWriter; IncludeAudio is accepted for interface
// completeness but has no effect without an external muxer, consistent with
// final encoding choices being out of the engine's scope (spec.md §1).
func (t *Trimmer) Trim(inPath, outPath string, loop engine.LoopCandidate, opts Options) error {
	vc, err := gocv.VideoCaptureFile(inPath)
	if err != nil {
		return fmt.Errorf("trim: open input: %w", err)
	}
	defer vc.Close()

	if !vc.Set(gocv.VideoCapturePosFrames, float64(loop.StartFrameOrig)) {
		return fmt.Errorf("trim: could not seek to frame %d", loop.StartFrameOrig)
	}

	srcW := int(vc.Get(gocv.VideoCaptureFrameWidth))
	srcH := int(vc.Get(gocv.VideoCaptureFrameHeight))
	outW, outH := opts.Width, opts.Height
	if outW == 0 {
		outW = srcW
	}
	if outH == 0 {
		outH = srcH
	}

	speed := opts.Speed
	if speed == 0 {
		speed = 1
	}
	outFPS := loop.FPS * speed

	writer, err := gocv.VideoWriterFile(outPath, "mp4v", outFPS, outW, outH, true)
	if err != nil {
		return fmt.Errorf("trim: open output: %w", err)
	}
	defer writer.Close()

	cropper := newCropper(opts.Resize, outW, outH)

	mat := gocv.NewMat()
	defer mat.Close()

	var written int
	for idx := loop.StartFrameOrig; idx <= loop.EndFrameOrig; idx++ {
		if ok := vc.Read(&mat); !ok || mat.Empty() {
			break
		}

		framed, err := t.fit(mat, outW, outH, cropper)
		if err != nil {
			return fmt.Errorf("trim: fit frame %d: %w", idx, err)
		}

		if err := writer.Write(framed); err != nil {
			framed.Close()
			return fmt.Errorf("trim: write frame %d: %w", idx, err)
		}
		framed.Close()

		written++
		t.bitrt.Report(outW * outH * 3)
	}

	if t.log != nil {
		t.log.Info("trimmed clip written", "path", outPath, "frames", written, "bitrate_bps", t.bitrt.Bitrate())
	}
	return nil
}

// fit resizes/crops/pads mat to exactly (w, h) per strategy.
func (t *Trimmer) fit(mat gocv.Mat, w, h int, cropper *cropper) (gocv.Mat, error) {
	switch cropper.strategy {
	case ResizePad:
		return padTo(mat, w, h)
	case ResizeCenter:
		return centerCropTo(mat, w, h)
	default:
		return cropper.cropTo(mat, w, h)
	}
}

// cropper wraps a smartcrop analyzer so Trim only builds it once per call.
type cropper struct {
	strategy ResizeStrategy
	analyzer smartcrop.Analyzer
}

func newCropper(strategy ResizeStrategy, w, h int) *cropper {
	return &cropper{
		strategy: strategy,
		analyzer: smartcrop.NewAnalyzer(nfnt.NewDefaultResizer()),
	}
}

// cropTo finds the most visually interesting w x h region of mat using
// smartcrop and returns it as a new Mat.
func (c *cropper) cropTo(mat gocv.Mat, w, h int) (gocv.Mat, error) {
	img, err := mat.ToImage()
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("mat to image: %w", err)
	}

	rect, err := c.analyzer.FindBestCrop(img, w, h)
	if err != nil {
		rect = centerRect(img.Bounds(), w, h)
	}

	cropped, err := gocv.ImageToMatRGB(cropImage(img, rect))
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("image to mat: %w", err)
	}

	var dst gocv.Mat = gocv.NewMat()
	gocv.Resize(cropped, &dst, image.Pt(w, h), 0, 0, gocv.InterpolationArea)
	cropped.Close()
	return dst, nil
}

func padTo(mat gocv.Mat, w, h int) (gocv.Mat, error) {
	srcW, srcH := mat.Cols(), mat.Rows()
	scale := float64(w) / float64(srcW)
	if s := float64(h) / float64(srcH); s < scale {
		scale = s
	}
	nw, nh := int(float64(srcW)*scale), int(float64(srcH)*scale)

	resized := gocv.NewMat()
	gocv.Resize(mat, &resized, image.Pt(nw, nh), 0, 0, gocv.InterpolationArea)
	defer resized.Close()

	dst := gocv.NewMatWithSize(h, w, mat.Type())
	top := (h - nh) / 2
	left := (w - nw) / 2
	roi := dst.Region(image.Rect(left, top, left+nw, top+nh))
	resized.CopyTo(&roi)
	roi.Close()
	return dst, nil
}

func centerCropTo(mat gocv.Mat, w, h int) (gocv.Mat, error) {
	rect := centerRect(image.Rect(0, 0, mat.Cols(), mat.Rows()), w, h)
	region := mat.Region(rect)
	defer region.Close()

	dst := gocv.NewMat()
	gocv.Resize(region, &dst, image.Pt(w, h), 0, 0, gocv.InterpolationArea)
	return dst, nil
}

// centerRect returns the w x h rectangle centered within bounds, clamped to
// bounds so it never runs off the edge of the source image.
func centerRect(bounds image.Rectangle, w, h int) image.Rectangle {
	bw, bh := bounds.Dx(), bounds.Dy()
	if w > bw {
		w = bw
	}
	if h > bh {
		h = bh
	}
	x0 := bounds.Min.X + (bw-w)/2
	y0 := bounds.Min.Y + (bh-h)/2
	return image.Rect(x0, y0, x0+w, y0+h)
}

func cropImage(img image.Image, rect image.Rectangle) image.Image {
	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	if si, ok := img.(subImager); ok {
		return si.SubImage(rect)
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dst.Set(x-rect.Min.X, y-rect.Min.Y, img.At(x, y))
		}
	}
	return dst
}
