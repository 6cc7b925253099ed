/*
NAME
  imgutil.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package imgutil holds the frame-level image operations shared by the
// engine's sampling, fingerprinting and scoring stages: area-average
// resize, grayscale conversion, perceptual hashing, SSIM and histogram
// correlation.
package imgutil

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
	"golang.org/x/image/draw"
)

// ResizeToFit scales img down so that max(width, height) <= maxDim, using an
// area-averaging filter and preserving aspect ratio. It never upscales: if
// img already fits, it is returned unchanged.
func ResizeToFit(img image.Image, maxDim int) (image.Image, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("imgutil: degenerate image bounds %v", b)
	}
	m := w
	if h > m {
		m = h
	}
	if m <= maxDim {
		return img, nil
	}

	scale := float64(maxDim) / float64(m)
	nw := int(float64(w)*scale + 0.5)
	nh := int(float64(h)*scale + 0.5)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return resizeMat(img, nw, nh)
}

// ResizeExact scales img to exactly (w, h) using an area-averaging filter,
// regardless of aspect ratio. Used for the 8x8 hash downscale.
func ResizeExact(img image.Image, w, h int) (image.Image, error) {
	return resizeMat(img, w, h)
}

// resizeMat performs the gocv area-average resize, going through a Mat and
// back so the engine shares one resize implementation across the sampler
// (frame downscale) and the fingerprinter (8x8 hash downscale).
func resizeMat(img image.Image, w, h int) (image.Image, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("imgutil: image to mat: %w", err)
	}
	defer mat.Close()

	var dst gocv.Mat = gocv.NewMat()
	defer dst.Close()

	gocv.Resize(mat, &dst, image.Pt(w, h), 0, 0, gocv.InterpolationArea)

	out, err := dst.ToImage()
	if err != nil {
		return nil, fmt.Errorf("imgutil: mat to image: %w", err)
	}
	return out, nil
}

// ToGray converts img to an *image.Gray, sized to img's own bounds. It uses
// gocv's BGR/RGB-aware conversion so results match the rest of the pipeline
// regardless of the decoder's native color order.
func ToGray(img image.Image) (*image.Gray, error) {
	if g, ok := img.(*image.Gray); ok {
		return g, nil
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("imgutil: image to mat: %w", err)
	}
	defer mat.Close()

	var gray gocv.Mat = gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorRGBToGray)

	out, err := gray.ToImage()
	if err != nil {
		return nil, fmt.Errorf("imgutil: mat to image: %w", err)
	}

	dst, ok := out.(*image.Gray)
	if ok {
		return dst, nil
	}
	// Fall back to a software conversion if gocv handed back something else
	// (it shouldn't for a single-channel Mat, but guard anyway).
	return toGraySoftware(out), nil
}

// toGraySoftware is a pure-Go grayscale conversion used only as a fallback
// when the gocv round trip does not yield an *image.Gray directly.
func toGraySoftware(img image.Image) *image.Gray {
	b := img.Bounds()
	dst := image.NewGray(b)
	draw.Draw(dst, b, img, b.Min, draw.Src)
	return dst
}

// ResampleTile resizes a grayscale tile to exactly (w, h) using golang.org/x/
// image's bilinear scaler. This backs the Fingerprinter's "normalise every
// tile in a run to the first tile's dimensions" rule without re-entering
// gocv for what is a rare, already-small correction pass.
func ResampleTile(src *image.Gray, w, h int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.ApproxBiLinearScale.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Mean returns the arithmetic mean of a grayscale tile's pixel values.
func Mean(g *image.Gray) float64 {
	n := len(g.Pix)
	if n == 0 {
		return 0
	}
	var sum float64
	for _, p := range g.Pix {
		sum += float64(p)
	}
	return sum / float64(n)
}

// MeanVar returns the mean and (population) variance of a grayscale tile's
// pixel values.
func MeanVar(g *image.Gray) (mean, variance float64) {
	mean = Mean(g)
	n := len(g.Pix)
	if n == 0 {
		return mean, 0
	}
	var acc float64
	for _, p := range g.Pix {
		d := float64(p) - mean
		acc += d * d
	}
	return mean, acc / float64(n)
}

// Covariance returns the population covariance between two same-size
// grayscale tiles.
func Covariance(a, b *image.Gray, meanA, meanB float64) float64 {
	n := len(a.Pix)
	if n == 0 || n != len(b.Pix) {
		return 0
	}
	var acc float64
	for i := range a.Pix {
		acc += (float64(a.Pix[i]) - meanA) * (float64(b.Pix[i]) - meanB)
	}
	return acc / float64(n)
}

// AbsDiffMean computes the mean absolute pixel difference between two
// same-size grayscale tiles using gocv.AbsDiff.
func AbsDiffMean(a, b *image.Gray) (float64, error) {
	matA, err := gocv.ImageToMatRGB(a)
	if err != nil {
		return 0, fmt.Errorf("imgutil: image to mat: %w", err)
	}
	defer matA.Close()
	matB, err := gocv.ImageToMatRGB(b)
	if err != nil {
		return 0, fmt.Errorf("imgutil: image to mat: %w", err)
	}
	defer matB.Close()

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(matA, matB, &diff)

	return diff.Mean().Val1, nil
}

// Histogram256 returns a 256-bin intensity histogram of a grayscale tile,
// computed with gocv.CalcHist the way the rest of this package reaches for
// gocv rather than a hand-rolled pixel loop. Callers must Close the
// returned Mat.
func Histogram256(g *image.Gray) (gocv.Mat, error) {
	mat, err := gocv.ImageGrayToMatGray(g)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("imgutil: image to mat: %w", err)
	}
	defer mat.Close()

	mask := gocv.NewMat()
	defer mask.Close()

	hist := gocv.NewMat()
	gocv.CalcHist([]gocv.Mat{mat}, []int{0}, mask, &hist, []int{256}, []float64{0, 256}, false)
	return hist, nil
}

// HistCorrel is OpenCV's HISTCMP_CORREL: the Pearson correlation coefficient
// between two histograms, via gocv.CompareHist.
func HistCorrel(a, b gocv.Mat) float64 {
	return gocv.CompareHist(a, b, gocv.HistCmpCorrel)
}
