/*
NAME
  ssim.go

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

import "image"

// SSIM constants from the classical single-window formula.
const (
	ssimC1 = 0.01 * 0.01
	ssimC2 = 0.03 * 0.03
)

// SSIM computes the classical single-window structural similarity index
// between two same-size grayscale tiles, clamped to [0, 1]. If the tiles
// differ in size, b is resampled to a's dimensions first.
func SSIM(a, b *image.Gray) float64 {
	if a.Bounds().Dx() != b.Bounds().Dx() || a.Bounds().Dy() != b.Bounds().Dy() {
		b = ResampleTile(b, a.Bounds().Dx(), a.Bounds().Dy())
	}

	mu1, var1 := MeanVar(a)
	mu2, var2 := MeanVar(b)
	cov := Covariance(a, b, mu1, mu2)

	num := (2*mu1*mu2 + ssimC1) * (2*cov + ssimC2)
	den := (mu1*mu1 + mu2*mu2 + ssimC1) * (var1 + var2 + ssimC2)
	if den == 0 {
		return 0
	}

	s := num / den
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
