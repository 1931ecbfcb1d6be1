package docstore

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is the in-process Store used by tests and as the serve
// fallback when no Redis address is configured. Writes are serialized
// by a single lock; subscription callbacks run synchronously inside
// the write, so they see writes in commit order and must not call back
// into the store.
type MemoryStore struct {
	mu        sync.RWMutex
	docs      map[string]json.RawMessage
	subs      map[string]map[int64]func(raw json.RawMessage)
	nextSubID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: map[string]json.RawMessage{},
		subs: map[string]map[int64]func(raw json.RawMessage){},
	}
}

func (s *MemoryStore) Get(_ context.Context, path string, out interface{}) (bool, error) {
	s.mu.RLock()
	raw, ok := s.docs[path]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if out == nil {
		return true, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MemoryStore) Set(_ context.Context, path string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = raw
	s.notifyLocked(path, raw)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, path string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged, err := mergeRaw(s.docs[path], fields)
	if err != nil {
		return err
	}
	s.docs[path] = merged
	s.notifyLocked(path, merged)
	return nil
}

func (s *MemoryStore) Push(_ context.Context, _ string) (string, error) {
	return newPushKey(), nil
}

func (s *MemoryStore) Children(_ context.Context, path string) (map[string]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	children := map[string]json.RawMessage{}
	for docPath, raw := range s.docs {
		if key := childKey(path, docPath); key != "" {
			children[key] = raw
		}
	}
	return children, nil
}

func (s *MemoryStore) Subscribe(path string, fn func(raw json.RawMessage)) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	if s.subs[path] == nil {
		s.subs[path] = map[int64]func(raw json.RawMessage){}
	}
	s.subs[path][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[path], id)
	}, nil
}

func (s *MemoryStore) notifyLocked(path string, raw json.RawMessage) {
	for _, fn := range s.subs[path] {
		fn(raw)
	}
}
