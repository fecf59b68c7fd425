package search

import (
	"github.com/simdex/simdex/prom"
	st "github.com/simdex/simdex/settings"
	"github.com/simdex/simdex/similarity"
	"github.com/simdex/simdex/store"
)

const nearDuplicatesName = "near_duplicates"

// Missing signal policies. "pass" keeps candidates that cannot be compared,
// "reject" drops them.
const (
	PassOnMissing   = "pass"
	RejectOnMissing = "reject"
)

// NearDuplicatesOptions tunes the near duplicate filter for one search.
type NearDuplicatesOptions struct {
	// digest feature compared, counter keys hold the hex digests
	DigestFeature string
	// normalised score in [0, 1] at which a candidate counts as a duplicate
	Threshold float64
	// PassOnMissing or RejectOnMissing
	OnMissingSignal string
}

// NearDuplicatesDefaults returns the configured filter options.
func NearDuplicatesDefaults() NearDuplicatesOptions {
	return NearDuplicatesOptions{
		DigestFeature:   st.Search.DigestFeature,
		Threshold:       st.Search.Threshold,
		OnMissingSignal: st.Search.OnMissingSignal,
	}
}

// nearDuplicates rejects candidates too similar to the query or to any
// candidate accepted earlier in the same stream. The accumulator maps every
// digest of every accepted collection to the id that introduced it, so each
// new candidate is compared pairwise against all of them. First member of a
// similarity cluster in stream order is the one that survives.
type nearDuplicates struct {
	feature       string
	threshold     int
	passOnMissing bool
	acc           map[similarity.Digest]string
}

// NewNearDuplicates builds the filter for one search, seeded with the digests
// of the query collection so the query itself (and anything near it) is
// rejected. A query without digests degrades to the missing signal policy for
// the whole stream.
func NewNearDuplicates(queryID string, queryFC store.FeatureCollection, opts NearDuplicatesOptions) Predicate {
	passOnMissing := opts.OnMissingSignal != RejectOnMissing
	seed := digestsOf(queryFC, opts.DigestFeature)
	if len(seed) == 0 {
		return constantPred{name: nearDuplicatesName, accept: passOnMissing}
	}
	f := &nearDuplicates{
		feature:       opts.DigestFeature,
		threshold:     scaleThreshold(opts.Threshold),
		passOnMissing: passOnMissing,
		acc:           map[similarity.Digest]string{},
	}
	for _, d := range seed {
		f.acc[d] = queryID
	}
	return f
}

func (f *nearDuplicates) GetName() string {
	return nearDuplicatesName
}

func (f *nearDuplicates) Accept(c *Candidate) bool {
	digests := digestsOf(c.FC, f.feature)
	if len(digests) == 0 {
		return f.passOnMissing
	}
	// exact duplicates never need a pairwise pass
	for _, d := range digests {
		if _, ok := f.acc[d]; ok {
			return false
		}
	}
	for _, d := range digests {
		for seen := range f.acc {
			prom.DigestComparisons.Inc()
			// a score equal to the threshold is still kept, only
			// exceeding it makes a duplicate
			if similarity.CompareThreshold(d, seen, f.threshold) > f.threshold {
				return false
			}
		}
	}
	for _, d := range digests {
		f.acc[d] = c.ID
	}
	return true
}

// scaleThreshold maps the normalised threshold onto the digest score range.
func scaleThreshold(t float64) int {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return int(t * similarity.MaxScore)
}

// digestsOf parses the digest values of the named feature. Values that are
// not valid digests are skipped, a collection without usable digests simply
// has no signal.
func digestsOf(fc store.FeatureCollection, feature string) []similarity.Digest {
	sc := fc.Feature(feature)
	if len(sc) == 0 {
		return nil
	}
	digests := make([]similarity.Digest, 0, len(sc))
	for _, val := range sc.Keys() {
		d, err := similarity.ParseDigest(val)
		if err != nil {
			continue
		}
		digests = append(digests, d)
	}
	return digests
}
