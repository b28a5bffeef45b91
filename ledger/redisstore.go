package ledger

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps state, accounts and custody cells in one hash and the event
// log in a list. Apply runs inside MULTI/EXEC.
type RedisStore struct {
	client    *redis.Client
	stateKey  string
	eventsKey string
}

// NewRedisStore dials url (redis://...) and checks the connection.
func NewRedisStore(ctx context.Context, url, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "ping redis")
	}
	return NewRedisStoreWithClient(client, prefix), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "labshare"
	}
	return &RedisStore{
		client:    client,
		stateKey:  prefix + ":state",
		eventsKey: prefix + ":events",
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.stateKey, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "redis hget")
	}
	return v, true, nil
}

func (s *RedisStore) Apply(ctx context.Context, b *Batch) error {
	events := make([]interface{}, 0, len(b.Events))
	for i := range b.Events {
		raw, err := b.Events[i].MarshalJSON()
		if err != nil {
			return errors.Wrapf(err, "encode event %d", b.Events[i].Seq)
		}
		events = append(events, string(raw))
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(b.Sets) > 0 {
			pairs := make([]interface{}, 0, 2*len(b.Sets))
			for k, v := range b.Sets {
				pairs = append(pairs, k, v)
			}
			pipe.HSet(ctx, s.stateKey, pairs...)
		}
		if len(b.Deletes) > 0 {
			pipe.HDel(ctx, s.stateKey, b.Deletes...)
		}
		if len(events) > 0 {
			pipe.RPush(ctx, s.eventsKey, events...)
		}
		return nil
	})
	return errors.Wrap(err, "redis commit")
}

func (s *RedisStore) LoadEvents(ctx context.Context, from uint64, limit int) ([]Event, error) {
	if limit <= 0 {
		return nil, nil
	}
	if from == 0 {
		from = 1
	}
	start := int64(from - 1)
	raw, err := s.client.LRange(ctx, s.eventsKey, start, start+int64(limit)-1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "redis lrange")
	}
	out := make([]Event, 0, len(raw))
	for i, r := range raw {
		var ev Event
		if err := ev.UnmarshalJSON([]byte(r)); err != nil {
			return nil, errors.Wrapf(err, "decode event at %d", start+int64(i))
		}
		out = append(out, ev)
	}
	return out, nil
}

func (s *RedisStore) EventCount(ctx context.Context) (uint64, error) {
	n, err := s.client.LLen(ctx, s.eventsKey).Result()
	if err != nil {
		return 0, errors.Wrap(err, "redis llen")
	}
	return uint64(n), nil
}

func (s *RedisStore) Scan(ctx context.Context, prefix string, fn func(key, value string) error) error {
	var cursor uint64
	for {
		kvs, next, err := s.client.HScan(ctx, s.stateKey, cursor, "", 512).Result()
		if err != nil {
			return errors.Wrap(err, "redis hscan")
		}
		for i := 0; i+1 < len(kvs); i += 2 {
			if !strings.HasPrefix(kvs[i], prefix) {
				continue
			}
			if err := fn(kvs[i], kvs[i+1]); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
