/*
NAME
  imgutil_test.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package imgutil

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
)

func solidGray(w, h int, v uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = v
	}
	return g
}

func randomRGBA(w, h int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
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
	return img
}

func TestResizeToFitNeverUpscales(t *testing.T) {
	img := randomRGBA(16, 16, 1)
	out, err := ResizeToFit(img, 480)
	if err != nil {
		t.Fatalf("ResizeToFit returned error: %v", err)
	}
	b := out.Bounds()
	if b.Dx() != 16 || b.Dy() != 16 {
		t.Errorf("got %dx%d, want unchanged 16x16", b.Dx(), b.Dy())
	}
}

func TestResizeToFitPreservesAspect(t *testing.T) {
	img := randomRGBA(200, 100, 2)
	out, err := ResizeToFit(img, 50)
	if err != nil {
		t.Fatalf("ResizeToFit returned error: %v", err)
	}
	b := out.Bounds()
	if b.Dx() != 50 {
		t.Errorf("got width %d, want 50 (max dim clamp)", b.Dx())
	}
	if b.Dy() != 25 {
		t.Errorf("got height %d, want 25 (aspect ratio preserved)", b.Dy())
	}
}

func TestMeanVarUniformTileHasZeroVariance(t *testing.T) {
	g := solidGray(10, 10, 200)
	mean, variance := MeanVar(g)
	if mean != 200 {
		t.Errorf("got mean %v, want 200", mean)
	}
	if variance != 0 {
		t.Errorf("got variance %v, want 0", variance)
	}
}

func TestHistCorrelIdenticalIsOne(t *testing.T) {
	g := randomGray(32, 32, 3)
	h, err := Histogram256(g)
	if err != nil {
		t.Fatalf("Histogram256 returned error: %v", err)
	}
	defer h.Close()
	if c := HistCorrel(h, h); c < 0.999 {
		t.Errorf("self correlation = %v, want ~1", c)
	}
}

func randomGray(w, h int, seed int64) *image.Gray {
	rng := rand.New(rand.NewSource(seed))
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = uint8(rng.Intn(256))
	}
	return g
}

func TestAverageHash64Deterministic(t *testing.T) {
	img := randomRGBA(64, 64, 9)
	h1, err := AverageHash64(img)
	if err != nil {
		t.Fatalf("AverageHash64 returned error: %v", err)
	}
	h2, err := AverageHash64(img)
	if err != nil {
		t.Fatalf("AverageHash64 returned error: %v", err)
	}
	if h1 != h2 {
		t.Errorf("hash not deterministic: %x vs %x", h1, h2)
	}
}

func TestHammingDistanceSelfIsZero(t *testing.T) {
	if d := HammingDistance64(0xABCD, 0xABCD); d != 0 {
		t.Errorf("got %d, want 0", d)
	}
	if d := HammingDistance64(0, ^uint64(0)); d != 64 {
		t.Errorf("got %d, want 64 for fully inverted hash", d)
	}
}

func TestSSIMSelfSimilarityIsOne(t *testing.T) {
	g := randomGray(32, 32, 5)
	s := SSIM(g, g)
	if s < 0.999 {
		t.Errorf("self-SSIM = %v, want ~1", s)
	}
}

func TestSSIMSymmetric(t *testing.T) {
	a := randomGray(32, 32, 11)
	b := randomGray(32, 32, 12)
	if ab, ba := SSIM(a, b), SSIM(b, a); ab != ba {
		t.Errorf("SSIM not symmetric: %v vs %v", ab, ba)
	}
}

func TestSSIMWithinUnitInterval(t *testing.T) {
	a := randomGray(32, 32, 21)
	b := randomGray(32, 32, 22)
	s := SSIM(a, b)
	if s < 0 || s > 1 {
		t.Errorf("SSIM %v out of [0,1]", s)
	}
}

func TestSSIMResamplesMismatchedSizes(t *testing.T) {
	a := solidGray(32, 32, 100)
	b := solidGray(16, 16, 100)
	s := SSIM(a, b)
	if s < 0.999 {
		t.Errorf("got %v, want ~1 for two uniform tiles of the same value", s)
	}
}

func TestAbsDiffMeanIdenticalIsZero(t *testing.T) {
	a := solidGray(16, 16, 50)
	b := solidGray(16, 16, 50)
	d, err := AbsDiffMean(a, b)
	if err != nil {
		t.Fatalf("AbsDiffMean returned error: %v", err)
	}
	if d != 0 {
		t.Errorf("got %v, want 0 for identical tiles", d)
	}
}
