package label

import (
	"context"
	"sync"

	"github.com/simdex/simdex/prom"
)

// MemoryLabelStore keeps labels in process memory, for unit tests and single
// node deployments.
type MemoryLabelStore struct {
	mu   sync.Mutex
	byID map[string][]Label
}

func NewMemoryLabelStore() (*MemoryLabelStore, error) {
	return &MemoryLabelStore{byID: map[string][]Label{}}, nil
}

func (s *MemoryLabelStore) Put(ctx context.Context, l Label) error {
	prom.LabelPuts.Inc()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(l.CID1, l)
	if l.CID2 != l.CID1 {
		s.replace(l.CID2, l)
	}
	return nil
}

// replace overwrites an existing judgement for the same pair, subtopics and
// annotator, the newest judgement wins.
func (s *MemoryLabelStore) replace(key string, l Label) {
	for i, existing := range s.byID[key] {
		if existing.CID1 == l.CID1 && existing.CID2 == l.CID2 &&
			existing.Subtopic1 == l.Subtopic1 && existing.Subtopic2 == l.Subtopic2 &&
			existing.Annotator == l.Annotator {
			s.byID[key][i] = l
			return
		}
	}
	s.byID[key] = append(s.byID[key], l)
}

func (s *MemoryLabelStore) DirectlyConnected(ctx context.Context, id string) ([]Label, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Label{}, s.byID[id]...), nil
}

func (s *MemoryLabelStore) ConnectedComponent(ctx context.Context, id string) ([]Label, error) {
	return connectedComponent(ctx, s, id)
}
