package docstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

const updateRetries = 5

// RedisStore keeps each document as a JSON string under its path and
// publishes every committed write to a pub/sub channel named after the
// path. Merge updates run inside a WATCH transaction and retry on
// conflicting writers.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisStore(client *redis.Client, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisStore) key(path string) string {
	if s.keyPrefix == "" {
		return path
	}
	return s.keyPrefix + ":" + path
}

func (s *RedisStore) Get(ctx context.Context, path string, out interface{}) (bool, error) {
	raw, err := s.client.Get(ctx, s.key(path)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if out == nil {
		return true, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) Set(ctx context.Context, path string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.commit(ctx, s.key(path), raw)
}

func (s *RedisStore) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	key := s.key(path)

	txn := func(tx *redis.Tx) error {
		existing, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		merged, err := mergeRaw(existing, fields)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, merged, 0)
			pipe.Publish(ctx, key, merged)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < updateRetries; i++ {
		err = s.client.Watch(ctx, txn, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return err
}

func (s *RedisStore) Push(_ context.Context, _ string) (string, error) {
	return newPushKey(), nil
}

func (s *RedisStore) Children(ctx context.Context, path string) (map[string]json.RawMessage, error) {
	parent := s.key(path)
	children := map[string]json.RawMessage{}

	iter := s.client.Scan(ctx, 0, parent+"/*", 0).Iterator()
	for iter.Next(ctx) {
		fullKey := iter.Val()
		key := childKey(parent, fullKey)
		if key == "" {
			continue
		}
		raw, err := s.client.Get(ctx, fullKey).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}
		children[key] = raw
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return children, nil
}

func (s *RedisStore) Subscribe(path string, fn func(raw json.RawMessage)) (func(), error) {
	ps := s.client.Subscribe(context.Background(), s.key(path))
	if _, err := ps.Receive(context.Background()); err != nil {
		_ = ps.Close()
		return nil, err
	}

	go func() {
		for msg := range ps.Channel() {
			fn(json.RawMessage(msg.Payload))
		}
	}()

	return func() { _ = ps.Close() }, nil
}

func (s *RedisStore) commit(ctx context.Context, key string, raw []byte) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, raw, 0)
		pipe.Publish(ctx, key, raw)
		return nil
	})
	return err
}

// Ping verifies connectivity at startup so misconfiguration fails fast.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
