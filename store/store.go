package store

import (
	"context"
	"errors"
	"strings"

	st "github.com/simdex/simdex/settings"
)

// ErrNotFound is returned when no collection exists for the requested id.
var ErrNotFound = errors.New("feature collection not found")

// A Store persists feature collections keyed by content id. Implementations
// maintain a scan index per configured feature so collections can be found by
// the values they contain.
type Store interface {
	Get(ctx context.Context, id string) (FeatureCollection, error)
	Put(ctx context.Context, id string, fc FeatureCollection) error
	Delete(ctx context.Context, id string) error
	// ScanPrefixIDs lists content ids starting with the given prefix.
	ScanPrefixIDs(ctx context.Context, prefix string) ([]string, error)
	// IndexScan lists content ids whose indexed feature contains the value.
	IndexScan(ctx context.Context, index, value string) ([]string, error)
	IndexNames() []string
}

// configuredIndexes parses the comma separated index list from settings.
func configuredIndexes() []string {
	names := []string{}
	for _, name := range strings.Split(st.Store.Indexes, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// NewFromSettings builds the configured backend, wrapped in the read cache
// when one is configured.
func NewFromSettings() (Store, error) {
	var backend Store
	var err error
	switch st.Store.Backend {
	case "redis":
		backend, err = NewRedisStore()
	case "memory":
		backend, err = NewMemoryStore()
	default:
		return nil, errors.New("unknown store backend: " + st.Store.Backend)
	}
	if err != nil {
		return nil, err
	}
	if st.Store.Cache.SizeBytes > 0 {
		return NewCachedStore(backend)
	}
	return backend, nil
}
