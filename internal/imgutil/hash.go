/*
NAME
  hash.go

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
	"fmt"
	"image"
	"math/bits"
)

const hashDim = 8

// AverageHash64 computes the 64-bit perceptual average-hash of img: an 8x8
// grayscale downscale, thresholded against its own mean. Bit (y*8+x) is 1
// iff the pixel at (x,y) exceeds the mean. The computation is pure integer
// comparison once the downscale is done, so identical inputs always produce
// identical hashes.
func AverageHash64(img image.Image) (uint64, error) {
	gray, err := ToGray(img)
	if err != nil {
		return 0, fmt.Errorf("imgutil: hash: %w", err)
	}
	small, err := ResizeExact(gray, hashDim, hashDim)
	if err != nil {
		return 0, fmt.Errorf("imgutil: hash: %w", err)
	}
	smallGray, err := ToGray(small)
	if err != nil {
		return 0, fmt.Errorf("imgutil: hash: %w", err)
	}

	b := smallGray.Bounds()
	var sum int
	for y := 0; y < hashDim; y++ {
		for x := 0; x < hashDim; x++ {
			sum += int(smallGray.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
		}
	}

	// v > sum/64 is tested as v*64 > sum to stay in integers.
	var hash uint64
	for y := 0; y < hashDim; y++ {
		for x := 0; x < hashDim; x++ {
			v := int(smallGray.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			if v*hashDim*hashDim > sum {
				hash |= 1 << uint(y*hashDim+x)
			}
		}
	}
	return hash, nil
}

// HammingDistance64 returns the number of differing bits between a and b.
func HammingDistance64(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}
