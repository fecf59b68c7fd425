package search

import (
	"context"
	"math/rand/v2"

	"github.com/simdex/simdex/prom"
)

// StreamingSample draws a uniform sample of up to k candidates from the
// stream in a single pass. The first k candidates fill the reservoir, the
// i-th candidate after that replaces a uniformly chosen slot with probability
// k/i, so every candidate considered ends up in the result with the same
// probability regardless of stream order.
//
// k <= 0 materialises the whole stream instead of sampling. scanLimit > 0
// caps the number of candidates considered, 0 means unbounded. An upstream
// error aborts the call without partial results.
func StreamingSample(ctx context.Context, src CandidateSource, k, scanLimit int, rng *rand.Rand) ([]Candidate, error) {
	res := []Candidate{}
	considered := 0
	for {
		if scanLimit > 0 && considered >= scanLimit {
			prom.SampleTruncatedScans.Inc()
			break
		}
		c, ok, err := src.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		considered++
		prom.SampleConsidered.Inc()
		if k <= 0 || len(res) < k {
			res = append(res, c)
			continue
		}
		if j := rng.IntN(considered); j < k {
			res[j] = c
		}
	}
	return res, nil
}

// newRNG seeds a generator for one search.
func newRNG() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
