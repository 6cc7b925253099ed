/*
NAME
  pairsearch_test.go

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
	"testing"

	"github.com/ausocean/loopcut/engine/config"
)

func fingerprintAll(t *testing.T, frames []Frame) []Fingerprint {
	t.Helper()
	fp := NewFingerprinter(testConfig())
	out, err := fp.Fingerprint(toSampled(frames))
	if err != nil {
		t.Fatalf("Fingerprint returned error: %v", err)
	}
	return out
}

func searcherWith(strategy config.Strategy) *PairSearcher {
	c := testConfig()
	c.Strategy = strategy
	return NewPairSearcher(c)
}

// TestPairSearchSymmetry verifies property 4: sim(a,b) == sim(b,a) for all
// strategies, by checking that the strategies' underlying score functions
// are symmetric.
func TestPairSearchSymmetry(t *testing.T) {
	frames := buildFrames(2, 32, 32)
	fps := fingerprintAll(t, frames)

	for name, sim := range map[string]simFunc{
		"fast_hash": hashSimilarity,
		"batch_ssim": ssimSimilarity,
		"combined":   combinedSimilarity,
	} {
		ab := sim(fps[0], fps[1])
		ba := sim(fps[1], fps[0])
		if ab != ba {
			t.Errorf("%s: sim(a,b)=%v != sim(b,a)=%v", name, ab, ba)
		}
	}
}

// TestPairSearchThresholdMonotonic verifies property 5: raising threshold
// monotonically shrinks the pair set.
func TestPairSearchThresholdMonotonic(t *testing.T) {
	frames := buildFrames(12, 24, 24)
	fps := fingerprintAll(t, frames)
	s := searcherWith(config.StrategyFastHash)

	prev := -1
	for _, thresh := range []float64{0.5, 0.7, 0.9, 0.99} {
		pairs, err := s.Search(context.Background(), fps, thresh)
		if err != nil {
			t.Fatalf("Search returned error: %v", err)
		}
		if prev != -1 && len(pairs) > prev {
			t.Errorf("threshold %v: pair count %d > previous %d", thresh, len(pairs), prev)
		}
		prev = len(pairs)
	}
}

// TestPairSearchHybridSubset verifies property 6: every pair emitted by
// hybrid at threshold tau appears in fast_hash at threshold
// max(0.8, tau-0.1).
func TestPairSearchHybridSubset(t *testing.T) {
	frames := buildFrames(16, 24, 24)
	fps := fingerprintAll(t, frames)

	tau := 0.9
	hybrid := searcherWith(config.StrategyHybrid)
	hybridPairs, err := hybrid.Search(context.Background(), fps, tau)
	if err != nil {
		t.Fatalf("hybrid search: %v", err)
	}

	relaxed := tau - 0.1
	if relaxed < 0.8 {
		relaxed = 0.8
	}
	fastHash := searcherWith(config.StrategyFastHash)
	fastHashPairs, err := fastHash.Search(context.Background(), fps, relaxed)
	if err != nil {
		t.Fatalf("fast_hash search: %v", err)
	}

	set := make(map[[2]uint32]bool, len(fastHashPairs))
	for _, p := range fastHashPairs {
		set[[2]uint32{p.I, p.J}] = true
	}
	for _, p := range hybridPairs {
		if !set[[2]uint32{p.I, p.J}] {
			t.Errorf("hybrid pair (%d,%d) not found in fast_hash candidate set", p.I, p.J)
		}
	}
}

// TestPairSearchDeterministicOrder verifies property 7: repeated runs over
// identical input produce identical, byte-for-byte ordered output.
func TestPairSearchDeterministicOrder(t *testing.T) {
	frames := buildFrames(30, 24, 24)
	fps := fingerprintAll(t, frames)

	s1 := searcherWith(config.StrategyHybrid)
	s2 := searcherWith(config.StrategyHybrid)

	p1, err := s1.Search(context.Background(), fps, 0.85)
	if err != nil {
		t.Fatalf("run 1: %v", err)
	}
	p2, err := s2.Search(context.Background(), fps, 0.85)
	if err != nil {
		t.Fatalf("run 2: %v", err)
	}

	if len(p1) != len(p2) {
		t.Fatalf("pair count differs across runs: %d vs %d", len(p1), len(p2))
	}
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Errorf("pair %d differs: %+v vs %+v", i, p1[i], p2[i])
		}
	}
}

func TestPairSearchSortedDescending(t *testing.T) {
	frames := buildFrames(20, 24, 24)
	fps := fingerprintAll(t, frames)
	s := searcherWith(config.StrategyFastHash)

	pairs, err := s.Search(context.Background(), fps, 0.0)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	for i := 1; i < len(pairs); i++ {
		if pairs[i-1].Similarity < pairs[i].Similarity {
			t.Errorf("pairs not sorted descending at %d: %v then %v", i, pairs[i-1].Similarity, pairs[i].Similarity)
		}
	}
}

func TestPairSearchCancellation(t *testing.T) {
	frames := buildFrames(50, 24, 24)
	fps := fingerprintAll(t, frames)
	s := searcherWith(config.StrategyBatchSSIM)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Search(ctx, fps, 0.5)
	if err == nil {
		t.Fatalf("expected Cancelled error, got nil")
	}
}
