package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/simdex/simdex/label"
	"github.com/simdex/simdex/prom"
	st "github.com/simdex/simdex/settings"
	"github.com/simdex/simdex/store"
)

var (
	// ErrQueryNotFound means the query id has no stored feature collection.
	ErrQueryNotFound = errors.New("no feature collection for query id")
	// ErrUnknownEngine means the requested engine name is not registered.
	ErrUnknownEngine = errors.New("unknown search engine")
	// ErrUnknownFilter means a requested filter name is not registered.
	ErrUnknownFilter = errors.New("unknown filter")
)

// Engine names accepted in a Request.
const (
	EngineIndexScan = "index_scan"
	EngineRandom    = "random"
)

const nameFeature = "NAME"

// defaultFilters run when the caller does not name any. Near duplicate
// suppression is opt-in, by default only already judged pairs are hidden.
var defaultFilters = []string{alreadyLabeledName}

// Request describes one search invocation.
type Request struct {
	QueryID string
	Engine  string
	// max results, <= 0 uses the configured default
	Limit int
	// max candidates considered; <= 0 derives it from the limit for
	// index_scan and leaves the random engine unbounded
	ScanLimit int
	// filter names in evaluation order, nil applies the default pipeline
	Filters []string
	// near duplicate threshold override, <= 0 uses the configured default
	Threshold float64
}

// Searcher runs search requests against the configured stores.
type Searcher struct {
	Store  store.Store
	Labels label.LabelStore
}

// Search resolves the query collection, assembles the filter pipeline and
// runs the requested engine over the candidate stream.
func (s *Searcher) Search(ctx context.Context, req Request) ([]Candidate, error) {
	prom.SearchRequests.WithLabelValues(req.Engine).Inc()
	res, err := s.search(ctx, req)
	if err != nil {
		prom.SearchErrors.WithLabelValues(req.Engine).Inc()
	}
	return res, err
}

func (s *Searcher) search(ctx context.Context, req Request) ([]Candidate, error) {
	if req.Engine != EngineIndexScan && req.Engine != EngineRandom {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEngine, req.Engine)
	}
	queryFC, err := s.Store.Get(ctx, req.QueryID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrQueryNotFound, req.QueryID)
	}
	if err != nil {
		return nil, err
	}
	pipeline, err := s.buildPipeline(ctx, req, queryFC)
	if err != nil {
		return nil, err
	}
	limit := req.Limit
	if limit <= 0 {
		limit = st.Search.APIDefaultResultLimit
	}
	rng := newRNG()
	switch req.Engine {
	case EngineIndexScan:
		scanLimit := req.ScanLimit
		if scanLimit <= 0 {
			scanLimit = limit * st.Search.ScanLimitFactor
		}
		src := NewIndexScanSource(s.Store, req.QueryID, queryFC)
		return StreamingSample(ctx, pipeline.Filter(src), limit, scanLimit, rng)
	default: // EngineRandom
		// only candidates sharing a name with the query, order randomised.
		// the whole matching set is drawn from, an explicit scan limit is
		// the only cap
		src := newScanSource(s.Store, req.QueryID, queryFC, []string{nameFeature})
		all, err := StreamingSample(ctx, pipeline.Filter(src), 0, req.ScanLimit, rng)
		if err != nil {
			return nil, err
		}
		rng.Shuffle(len(all), func(i, j int) {
			all[i], all[j] = all[j], all[i]
		})
		if len(all) > limit {
			all = all[:limit]
		}
		return all, nil
	}
}

func (s *Searcher) buildPipeline(ctx context.Context, req Request, queryFC store.FeatureCollection) (*Pipeline, error) {
	names := req.Filters
	if names == nil {
		names = defaultFilters
	}
	opts := NearDuplicatesDefaults()
	if req.Threshold > 0 {
		opts.Threshold = req.Threshold
	}
	stages := []Predicate{}
	for _, name := range names {
		switch name {
		case "":
		case nearDuplicatesName:
			stages = append(stages, NewNearDuplicates(req.QueryID, queryFC, opts))
		case alreadyLabeledName:
			pred, err := NewAlreadyLabeled(ctx, s.Labels, req.QueryID)
			if err != nil {
				return nil, err
			}
			stages = append(stages, pred)
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownFilter, name)
		}
	}
	return NewPipeline(stages...), nil
}
