/*
NAME
  pairsearch.go

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
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/ausocean/loopcut/engine/config"
	"github.com/ausocean/loopcut/internal/imgutil"
)

// PairSearcher enumerates the upper-triangular frame-pair matrix, emitting
// pairs whose similarity clears a threshold, using one of the four
// strategies config.Strategy names.
type PairSearcher struct {
	cfg config.Config
}

// NewPairSearcher returns a PairSearcher configured with cfg.
func NewPairSearcher(cfg config.Config) *PairSearcher {
	return &PairSearcher{cfg: cfg}
}

// Search returns every Pair (i, j, s) with i < j and s >= threshold,
// computed with the strategy named by cfg.Strategy; for the hybrid strategy
// the threshold applies to the pair's SSIM and s is the re-weighted score
// (see searchHybrid), which may be below threshold. Pairs are sorted by (similarity
// descending, i ascending, j ascending) so that the result is deterministic
// regardless of how work was scheduled across workers.
func (p *PairSearcher) Search(ctx context.Context, fps []Fingerprint, threshold float64) ([]Pair, error) {
	switch p.cfg.Strategy {
	case config.StrategyFastHash:
		return p.searchWith(ctx, fps, threshold, hashSimilarity)
	case config.StrategyBatchSSIM:
		return p.searchWith(ctx, fps, threshold, ssimSimilarity)
	case config.StrategyCombined:
		return p.searchWith(ctx, fps, threshold, combinedSimilarity)
	case config.StrategyHybrid:
		return p.searchHybrid(ctx, fps, threshold)
	default:
		return p.searchWith(ctx, fps, threshold, hashSimilarity)
	}
}

// simFunc scores one candidate pair of fingerprints.
type simFunc func(a, b Fingerprint) float64

func hashSimilarity(a, b Fingerprint) float64 {
	d := imgutil.HammingDistance64(a.Hash64, b.Hash64)
	return 1 - float64(d)/64
}

func ssimSimilarity(a, b Fingerprint) float64 {
	return imgutil.SSIM(a.Tile, b.Tile)
}

// combinedSimilarity is the legacy strategy: 60% SSIM, 40% histogram
// correlation of the 256-bin intensity histograms of the two grayscale
// tiles. A Fingerprint holds no colour data, so per-channel RGB histograms
// are not compared.
func combinedSimilarity(a, b Fingerprint) float64 {
	ssim := imgutil.SSIM(a.Tile, b.Tile)

	ha, err := imgutil.Histogram256(a.Tile)
	if err != nil {
		return ssim
	}
	defer ha.Close()
	hb, err := imgutil.Histogram256(b.Tile)
	if err != nil {
		return ssim
	}
	defer hb.Close()

	hist := imgutil.HistCorrel(ha, hb)
	return 0.6*ssim + 0.4*hist
}

// searchWith runs a single simFunc over every pair in the upper triangle,
// splitting work by row across GOMAXPROCS workers. Each worker accumulates
// into its own slice; results are concatenated and sorted once at the end,
// so the final order never depends on which worker finished first.
func (p *PairSearcher) searchWith(ctx context.Context, fps []Fingerprint, threshold float64, sim simFunc) ([]Pair, error) {
	n := len(fps)
	if n < 2 {
		return nil, nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	rows := make(chan int, n)
	for i := 0; i < n-1; i++ {
		rows <- i
	}
	close(rows)

	results := make([][]Pair, workers)
	var wg sync.WaitGroup
	var cancelErr error
	var once sync.Once

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			var local []Pair
			for i := range rows {
				select {
				case <-ctx.Done():
					once.Do(func() { cancelErr = ctx.Err() })
					return
				default:
				}
				for j := i + 1; j < n; j++ {
					s := sim(fps[i], fps[j])
					if s >= threshold {
						local = append(local, Pair{I: uint32(i), J: uint32(j), Similarity: s})
					}
				}
			}
			results[w] = local
		}(w)
	}
	wg.Wait()

	if cancelErr != nil {
		return nil, cancelled(cancelErr)
	}

	var out []Pair
	for _, r := range results {
		out = append(out, r...)
	}
	sortPairs(out)
	return out, nil
}

// searchHybrid runs fast_hash at a relaxed threshold to find candidates,
// then re-scores survivors with SSIM, keeping those at or above threshold
// and re-weighting as 0.3*hash_sim + 0.7*SSIM.
func (p *PairSearcher) searchHybrid(ctx context.Context, fps []Fingerprint, threshold float64) ([]Pair, error) {
	relaxed := threshold - 0.1
	if relaxed < 0.8 {
		relaxed = 0.8
	}

	candidates, err := p.searchWith(ctx, fps, relaxed, hashSimilarity)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	out := make([]Pair, 0, len(candidates))
	for _, c := range candidates {
		select {
		case <-ctx.Done():
			return nil, cancelled(ctx.Err())
		default:
		}
		hashSim := c.Similarity
		ssim := imgutil.SSIM(fps[c.I].Tile, fps[c.J].Tile)
		if ssim < threshold {
			continue
		}
		out = append(out, Pair{I: c.I, J: c.J, Similarity: 0.3*hashSim + 0.7*ssim})
	}
	sortPairs(out)
	return out, nil
}

func sortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Similarity != pairs[j].Similarity {
			return pairs[i].Similarity > pairs[j].Similarity
		}
		if pairs[i].I != pairs[j].I {
			return pairs[i].I < pairs[j].I
		}
		return pairs[i].J < pairs[j].J
	})
}
