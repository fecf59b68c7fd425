/*
Package label stores coreference judgements between pairs of content ids.

Labels form an undirected graph over content ids; the store exposes the direct
neighbourhood of an id and the transitive component connected by positive
judgements.
*/
package label

import (
	"context"
	"errors"
	"time"

	st "github.com/simdex/simdex/settings"
)

// CorefValue is an annotator's judgement about a pair of ids.
type CorefValue int

const (
	// Negative marks the pair as definitely not the same.
	Negative CorefValue = -1
	// Unknown records that an annotator looked but could not decide.
	Unknown CorefValue = 0
	// Positive marks the pair as the same.
	Positive CorefValue = 1
)

// Label is one judgement. The id pair is kept in canonical (sorted) order so
// the same pair always serialises identically. Subtopics optionally narrow
// the judgement to a part of each side's content.
type Label struct {
	CID1      string     `json:"cid1"`
	CID2      string     `json:"cid2"`
	Subtopic1 string     `json:"subtopic1,omitempty"`
	Subtopic2 string     `json:"subtopic2,omitempty"`
	Annotator string     `json:"annotator"`
	Value     CorefValue `json:"value"`
	Epoch     int64      `json:"epoch"`
}

func New(cid1, cid2, annotator string, value CorefValue) Label {
	return NewWithSubtopics(cid1, cid2, "", "", annotator, value)
}

// NewWithSubtopics builds a label carrying a subtopic per side. Subtopics
// travel with their id when the pair is put into canonical order.
func NewWithSubtopics(cid1, cid2, subtopic1, subtopic2, annotator string, value CorefValue) Label {
	if cid2 < cid1 {
		cid1, cid2 = cid2, cid1
		subtopic1, subtopic2 = subtopic2, subtopic1
	}
	return Label{
		CID1: cid1, CID2: cid2,
		Subtopic1: subtopic1, Subtopic2: subtopic2,
		Annotator: annotator, Value: value,
		Epoch: time.Now().Unix(),
	}
}

// Other returns the id on the far end of the relation from the given id.
func (l Label) Other(id string) string {
	if l.CID1 == id {
		return l.CID2
	}
	return l.CID1
}

// SubtopicFor returns the subtopic attached to the given id's side.
func (l Label) SubtopicFor(id string) string {
	if l.CID1 == id {
		return l.Subtopic1
	}
	return l.Subtopic2
}

// A LabelStore persists labels and answers connectivity queries.
type LabelStore interface {
	Put(ctx context.Context, l Label) error
	// DirectlyConnected returns every label touching the given id.
	DirectlyConnected(ctx context.Context, id string) ([]Label, error)
	// ConnectedComponent returns every label reachable from the given id
	// over positive judgements.
	ConnectedComponent(ctx context.Context, id string) ([]Label, error)
}

func NewFromSettings() (LabelStore, error) {
	switch st.Labels.Backend {
	case "redis":
		return NewRedisLabelStore()
	case "memory":
		return NewMemoryLabelStore()
	default:
		return nil, errors.New("unknown label backend: " + st.Labels.Backend)
	}
}

// connectedComponent walks positive labels breadth first using only the
// store's direct neighbourhood call.
func connectedComponent(ctx context.Context, store LabelStore, id string) ([]Label, error) {
	visited := map[string]bool{id: true}
	collected := map[Label]bool{}
	component := []Label{}
	frontier := []string{id}
	for len(frontier) > 0 {
		cid := frontier[0]
		frontier = frontier[1:]
		direct, err := store.DirectlyConnected(ctx, cid)
		if err != nil {
			return nil, err
		}
		for _, l := range direct {
			if l.Value != Positive || collected[l] {
				continue
			}
			collected[l] = true
			component = append(component, l)
			other := l.Other(cid)
			if !visited[other] {
				visited[other] = true
				frontier = append(frontier, other)
			}
		}
	}
	return component, nil
}
