/*
NAME
  fingerprint.go

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
	"runtime"
	"sync"

	"github.com/ausocean/loopcut/engine/config"
	"github.com/ausocean/loopcut/internal/imgutil"
)

// Fingerprinter computes a Fingerprint for every SampledFrame: a 64-bit
// perceptual hash plus a grayscale tile, normalised so every tile in a run
// shares the first tile's dimensions.
type Fingerprinter struct {
	cfg config.Config
}

// NewFingerprinter returns a Fingerprinter configured with cfg.
func NewFingerprinter(cfg config.Config) *Fingerprinter {
	return &Fingerprinter{cfg: cfg}
}

// Fingerprint computes one Fingerprint per frame, in frame order, splitting
// the frames into contiguous chunks across GOMAXPROCS workers: per-worker
// results land in their own output slots, so ordering never depends on
// scheduling.
func (f *Fingerprinter) Fingerprint(frames []SampledFrame) ([]Fingerprint, error) {
	n := len(frames)
	out := make([]Fingerprint, n)
	errs := make([]error, n)

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				hash, err := imgutil.AverageHash64(frames[i].Pixels)
				if err != nil {
					errs[i] = fmt.Errorf("fingerprint frame %d: %w", frames[i].OriginalIndex, err)
					continue
				}
				tile, err := imgutil.ToGray(frames[i].Pixels)
				if err != nil {
					errs[i] = fmt.Errorf("fingerprint frame %d: %w", frames[i].OriginalIndex, err)
					continue
				}
				out[i] = Fingerprint{Hash64: hash, Tile: tile}
			}
		}(lo, hi)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	if err := normaliseTileSizes(out); err != nil {
		return nil, err
	}

	if f.cfg.Logger != nil {
		f.cfg.Logger.Debug("computed fingerprints", "count", n)
	}
	return out, nil
}

// normaliseTileSizes resizes every tile to the first tile's dimensions, in
// place, matching the Fingerprinter contract that all tiles in a run share
// one size even if the sampler produced varying dimensions.
func normaliseTileSizes(fps []Fingerprint) error {
	if len(fps) == 0 {
		return nil
	}
	w := fps[0].Tile.Bounds().Dx()
	h := fps[0].Tile.Bounds().Dy()
	for i := range fps {
		b := fps[i].Tile.Bounds()
		if b.Dx() == w && b.Dy() == h {
			continue
		}
		fps[i].Tile = imgutil.ResampleTile(fps[i].Tile, w, h)
	}
	return nil
}
