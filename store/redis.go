package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/simdex/simdex/prom"
	st "github.com/simdex/simdex/settings"
)

const (
	fcKeyPrefix    = "fc|"
	indexKeyPrefix = "idx|"
)

// try to impose some sanity into redis usage
// Must not use one redis deployment with multiple simdex instances

// RedisStore persists collections in redis, documents as plain values and
// index entries as sets.
type RedisStore struct {
	redis *redis.Client
	names []string
}

func NewRedisStore() (*RedisStore, error) {
	client, err := newRedisClient(0) // be very careful about changing the db number
	if err != nil {
		return nil, err
	}
	return &RedisStore{redis: client, names: configuredIndexes()}, nil
}

func newRedisClient(dbnum int) (*redis.Client, error) {
	if len(st.Settings.Redis.Endpoint) == 0 {
		return nil, errors.New("no endpoint for redis")
	}
	timeout := time.Second * time.Duration(st.Settings.Redis.ConnectionTimeoutSeconds)
	return redis.NewClient(&redis.Options{
		Addr:         st.Settings.Redis.Endpoint,
		Username:     st.Settings.Redis.Username,
		Password:     st.Settings.Redis.Password,
		MaxRetries:   st.Settings.Redis.MaxRetries,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		DB:           dbnum,
	}), nil
}

func retry[T any](genericCall func() (T, error)) (T, error) {
	var val T
	var err error
	for i := 0; i < st.Settings.Redis.MaxRetries; i++ {
		val, err = genericCall()
		if err == nil || errors.Is(err, redis.Nil) {
			return val, err
		}
		time.Sleep(time.Second * time.Duration(st.Settings.Redis.ConnectionTimeoutSeconds))
	}
	return val, err
}

func (s *RedisStore) IndexNames() []string {
	return s.names
}

func (s *RedisStore) Get(ctx context.Context, id string) (FeatureCollection, error) {
	prom.StoreGets.Inc()
	raw, err := retry(func() ([]byte, error) { return s.redis.Get(ctx, fcKeyPrefix+id).Bytes() })
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return UnmarshalFC(raw)
}

func (s *RedisStore) Put(ctx context.Context, id string, fc FeatureCollection) error {
	prom.StorePuts.Inc()
	raw, err := MarshalFC(fc)
	if err != nil {
		return err
	}
	old, err := retry(func() ([]byte, error) { return s.redis.Get(ctx, fcKeyPrefix+id).Bytes() })
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if len(old) > 0 {
		if err := s.dropIndexEntries(ctx, id, old); err != nil {
			return err
		}
	}
	_, err = retry(func() (int64, error) { return -1, s.redis.Set(ctx, fcKeyPrefix+id, raw, 0).Err() })
	if err != nil {
		return err
	}
	for _, name := range s.names {
		for _, value := range indexValues(raw, name) {
			key := indexKeyPrefix + name + "|" + value
			_, err = retry(func() (int64, error) { return s.redis.SAdd(ctx, key, id).Result() })
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	prom.StoreDeletes.Inc()
	raw, err := retry(func() ([]byte, error) { return s.redis.Get(ctx, fcKeyPrefix+id).Bytes() })
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := s.dropIndexEntries(ctx, id, raw); err != nil {
		return err
	}
	_, err = retry(func() (int64, error) { return s.redis.Del(ctx, fcKeyPrefix+id).Result() })
	return err
}

func (s *RedisStore) dropIndexEntries(ctx context.Context, id string, raw []byte) error {
	for _, name := range s.names {
		for _, value := range indexValues(raw, name) {
			key := indexKeyPrefix + name + "|" + value
			_, err := retry(func() (int64, error) { return s.redis.SRem(ctx, key, id).Result() })
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *RedisStore) ScanPrefixIDs(ctx context.Context, prefix string) ([]string, error) {
	ids := []string{}
	pattern := escapeMatch(fcKeyPrefix+prefix) + "*"
	var cursor uint64
	for {
		keys, next, err := retry2(func() ([]string, uint64, error) {
			return s.redis.Scan(ctx, cursor, pattern, 100).Result()
		})
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			ids = append(ids, strings.TrimPrefix(key, fcKeyPrefix))
		}
		cursor = next
		if cursor == 0 {
			return ids, nil
		}
	}
}

// escapeMatch quotes the glob metacharacters redis MATCH would otherwise
// expand, so a prefix matches only itself.
func escapeMatch(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '^', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func (s *RedisStore) IndexScan(ctx context.Context, index, value string) ([]string, error) {
	prom.IndexScans.WithLabelValues(index).Inc()
	key := indexKeyPrefix + index + "|" + value
	return retry(func() ([]string, error) { return s.redis.SMembers(ctx, key).Result() })
}

func retry2[T any, Z any](genericCall func() (T, Z, error)) (T, Z, error) {
	var val T
	var val2 Z
	var err error
	for i := 0; i < st.Settings.Redis.MaxRetries; i++ {
		val, val2, err = genericCall()
		if err == nil {
			return val, val2, err
		}
		time.Sleep(time.Second * time.Duration(st.Settings.Redis.ConnectionTimeoutSeconds))
	}
	return val, val2, err
}
