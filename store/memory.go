package store

import (
	"context"
	"strings"
	"sync"

	"github.com/simdex/simdex/prom"
)

// MemoryStore keeps collections in process memory. This is intended so we can
// write unit tests and run single node deployments without connecting to redis.
type MemoryStore struct {
	mu      sync.Mutex
	fcs     map[string][]byte
	indexes map[string]map[string]map[string]bool
	names   []string
}

func NewMemoryStore() (*MemoryStore, error) {
	names := configuredIndexes()
	indexes := make(map[string]map[string]map[string]bool, len(names))
	for _, name := range names {
		indexes[name] = map[string]map[string]bool{}
	}
	return &MemoryStore{
		fcs:     map[string][]byte{},
		indexes: indexes,
		names:   names,
	}, nil
}

func (s *MemoryStore) IndexNames() []string {
	return s.names
}

func (s *MemoryStore) Get(ctx context.Context, id string) (FeatureCollection, error) {
	prom.StoreGets.Inc()
	s.mu.Lock()
	raw, ok := s.fcs[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	return UnmarshalFC(raw)
}

func (s *MemoryStore) Put(ctx context.Context, id string, fc FeatureCollection) error {
	prom.StorePuts.Inc()
	raw, err := MarshalFC(fc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.fcs[id]; ok {
		s.dropIndexEntries(id, old)
	}
	s.fcs[id] = raw
	for _, name := range s.names {
		for _, value := range indexValues(raw, name) {
			ids := s.indexes[name][value]
			if ids == nil {
				ids = map[string]bool{}
				s.indexes[name][value] = ids
			}
			ids[id] = true
		}
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	prom.StoreDeletes.Inc()
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.fcs[id]
	if !ok {
		return ErrNotFound
	}
	s.dropIndexEntries(id, raw)
	delete(s.fcs, id)
	return nil
}

func (s *MemoryStore) dropIndexEntries(id string, raw []byte) {
	for _, name := range s.names {
		for _, value := range indexValues(raw, name) {
			delete(s.indexes[name][value], id)
		}
	}
}

func (s *MemoryStore) ScanPrefixIDs(ctx context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := []string{}
	for id := range s.fcs {
		if strings.HasPrefix(id, prefix) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *MemoryStore) IndexScan(ctx context.Context, index, value string) ([]string, error) {
	prom.IndexScans.WithLabelValues(index).Inc()
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := []string{}
	for id := range s.indexes[index][value] {
		ids = append(ids, id)
	}
	return ids, nil
}
