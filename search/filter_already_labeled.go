package search

import (
	"context"

	"github.com/simdex/simdex/label"
)

const alreadyLabeledName = "already_labeled"

// alreadyLabeled drops candidates an annotator has already judged against the
// query, whatever the judgement was. The rejection set is built once from the
// query's direct neighbourhood and is read only afterwards.
type alreadyLabeled struct {
	rejected map[string]bool
}

// NewAlreadyLabeled loads the labels touching the query id and builds the
// static rejection set.
func NewAlreadyLabeled(ctx context.Context, labels label.LabelStore, queryID string) (Predicate, error) {
	direct, err := labels.DirectlyConnected(ctx, queryID)
	if err != nil {
		return nil, err
	}
	rejected := map[string]bool{}
	for _, l := range direct {
		rejected[l.Other(queryID)] = true
	}
	return &alreadyLabeled{rejected: rejected}, nil
}

func (f *alreadyLabeled) GetName() string {
	return alreadyLabeledName
}

func (f *alreadyLabeled) Accept(c *Candidate) bool {
	return !f.rejected[c.ID]
}
