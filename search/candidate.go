/*
Package search drives candidate streams through filter pipelines and sampling.

A search runs in one forward pass: an engine produces a lazy stream of
candidates, an ordered pipeline of predicates drops the ones that should not
be shown, and a reservoir sampler bounds what survives. All state is scoped to
the one invocation and discarded with it.
*/
package search

import (
	"context"

	"github.com/simdex/simdex/store"
)

// Candidate is one result flowing through the pipeline.
type Candidate struct {
	ID string                  `json:"id"`
	FC store.FeatureCollection `json:"fc"`
}

// A CandidateSource is a pull based stream of candidates. It is forward only
// and not restartable; Next returns ok=false once the stream is exhausted and
// must not be called again afterwards.
type CandidateSource interface {
	Next(ctx context.Context) (Candidate, bool, error)
}

type sliceSource struct {
	items []Candidate
	pos   int
}

// SourceFromSlice adapts an in memory batch to the stream contract.
func SourceFromSlice(items []Candidate) CandidateSource {
	return &sliceSource{items: items}
}

func (s *sliceSource) Next(ctx context.Context) (Candidate, bool, error) {
	if err := ctx.Err(); err != nil {
		return Candidate{}, false, err
	}
	if s.pos >= len(s.items) {
		return Candidate{}, false, nil
	}
	c := s.items[s.pos]
	s.pos++
	return c, true, nil
}
