package label

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/simdex/simdex/prom"
	st "github.com/simdex/simdex/settings"
)

const labelKeyPrefix = "lbl|"

// RedisLabelStore persists labels in redis, one hash per content id keyed by
// pair and annotator so a newer judgement overwrites the older one.
type RedisLabelStore struct {
	redis *redis.Client
}

func NewRedisLabelStore() (*RedisLabelStore, error) {
	if len(st.Settings.Redis.Endpoint) == 0 {
		return nil, errors.New("no endpoint for redis")
	}
	timeout := time.Second * time.Duration(st.Settings.Redis.ConnectionTimeoutSeconds)
	client := redis.NewClient(&redis.Options{
		Addr:         st.Settings.Redis.Endpoint,
		Username:     st.Settings.Redis.Username,
		Password:     st.Settings.Redis.Password,
		MaxRetries:   st.Settings.Redis.MaxRetries,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		DB:           1, // be very careful about changing the db number
	})
	return &RedisLabelStore{redis: client}, nil
}

func labelField(l Label) string {
	return l.CID1 + "|" + l.CID2 + "|" + l.Subtopic1 + "|" + l.Subtopic2 + "|" + l.Annotator
}

func (s *RedisLabelStore) Put(ctx context.Context, l Label) error {
	prom.LabelPuts.Inc()
	raw, err := json.Marshal(l)
	if err != nil {
		return err
	}
	err = s.withRetry(func() error {
		return s.redis.HSet(ctx, labelKeyPrefix+l.CID1, labelField(l), raw).Err()
	})
	if err != nil {
		return err
	}
	if l.CID2 == l.CID1 {
		return nil
	}
	return s.withRetry(func() error {
		return s.redis.HSet(ctx, labelKeyPrefix+l.CID2, labelField(l), raw).Err()
	})
}

func (s *RedisLabelStore) DirectlyConnected(ctx context.Context, id string) ([]Label, error) {
	var fields map[string]string
	err := s.withRetry(func() error {
		var err error
		fields, err = s.redis.HGetAll(ctx, labelKeyPrefix+id).Result()
		return err
	})
	if err != nil {
		return nil, err
	}
	labels := []Label{}
	for _, raw := range fields {
		l := Label{}
		if err := json.Unmarshal([]byte(raw), &l); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, nil
}

func (s *RedisLabelStore) ConnectedComponent(ctx context.Context, id string) ([]Label, error) {
	return connectedComponent(ctx, s, id)
}

func (s *RedisLabelStore) withRetry(call func() error) error {
	var err error
	for i := 0; i < st.Settings.Redis.MaxRetries; i++ {
		err = call()
		if err == nil {
			return nil
		}
		time.Sleep(time.Second * time.Duration(st.Settings.Redis.ConnectionTimeoutSeconds))
	}
	return err
}
