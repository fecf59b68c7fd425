package search

import (
	"context"
	"errors"

	"github.com/simdex/simdex/dedupe"
	st "github.com/simdex/simdex/settings"
	"github.com/simdex/simdex/store"
)

type indexPair struct {
	index string
	value string
}

// IndexScanSource streams candidates sharing indexed feature values with the
// query. Every (index, query value) pair is scanned lazily in turn and each
// yielded id has its collection fetched on demand. The query id and ids
// already yielded are skipped, as are ids whose collection has vanished since
// it was indexed.
type IndexScanSource struct {
	store   store.Store
	queryID string
	seen    *dedupe.Lookup
	pairs   []indexPair
	ids     []string
}

// NewIndexScanSource builds a source over every index the store maintains.
func NewIndexScanSource(s store.Store, queryID string, queryFC store.FeatureCollection) *IndexScanSource {
	return newScanSource(s, queryID, queryFC, s.IndexNames())
}

func newScanSource(s store.Store, queryID string, queryFC store.FeatureCollection, indexes []string) *IndexScanSource {
	src := &IndexScanSource{
		store:   s,
		queryID: queryID,
		seen:    dedupe.New(uint64(st.Search.DedupeCacheBytes)),
	}
	for _, index := range indexes {
		for _, value := range queryFC.Feature(index).Keys() {
			src.pairs = append(src.pairs, indexPair{index: index, value: value})
		}
	}
	return src
}

func (s *IndexScanSource) Next(ctx context.Context) (Candidate, bool, error) {
	for {
		for len(s.ids) == 0 {
			if len(s.pairs) == 0 {
				return Candidate{}, false, nil
			}
			pair := s.pairs[0]
			s.pairs = s.pairs[1:]
			ids, err := s.store.IndexScan(ctx, pair.index, pair.value)
			if err != nil {
				return Candidate{}, false, err
			}
			s.ids = ids
		}
		id := s.ids[0]
		s.ids = s.ids[1:]
		if id == s.queryID {
			continue
		}
		if s.seen.CheckAndSet([]byte(id)) {
			continue
		}
		fc, err := s.store.Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			// indexed but deleted since, nothing to yield
			continue
		}
		if err != nil {
			return Candidate{}, false, err
		}
		return Candidate{ID: id, FC: fc}, true, nil
	}
}
