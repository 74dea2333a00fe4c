package selahsdk

import (
	"sync"
)

// StateStore is the pluggable storage backend for per-user app state.
//
// All data is organized by user ID and key (e.g. "checkin_state",
// "recent_verses"). Implementations must be safe for concurrent use.
type StateStore interface {
	// KV operations
	Get(userID, key string) (string, error)
	Set(userID, key, value string) error
	Delete(userID, key string) error
	ListKeys(userID string) ([]string, error)

	// List operations (ordered sequences for history, recent-verse windows)
	Append(userID, key, value string) error
	GetList(userID, key string, limit, offset int) ([]string, error)
	TrimList(userID, key string, maxSize int) error
	ClearList(userID, key string) error
	ListLength(userID, key string) (int, error)
}

// InMemoryStateStore is a thread-safe in-memory StateStore for development
// and tests. Data is lost on restart.
type InMemoryStateStore struct {
	mu    sync.RWMutex
	kv    map[string]map[string]string
	lists map[string]map[string][]string
}

// NewInMemoryStateStore creates a new in-memory store.
func NewInMemoryStateStore() *InMemoryStateStore {
	return &InMemoryStateStore{
		kv:    make(map[string]map[string]string),
		lists: make(map[string]map[string][]string),
	}
}

func (s *InMemoryStateStore) Get(userID, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ns, ok := s.kv[userID]; ok {
		if v, ok := ns[key]; ok {
			return v, nil
		}
	}
	return "", nil
}

func (s *InMemoryStateStore) Set(userID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kv[userID] == nil {
		s.kv[userID] = make(map[string]string)
	}
	s.kv[userID][key] = value
	return nil
}

func (s *InMemoryStateStore) Delete(userID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ns, ok := s.kv[userID]; ok {
		delete(ns, key)
	}
	return nil
}

func (s *InMemoryStateStore) ListKeys(userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	if ns, ok := s.kv[userID]; ok {
		for k := range ns {
			seen[k] = true
		}
	}
	if ns, ok := s.lists[userID]; ok {
		for k := range ns {
			seen[k] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	return keys, nil
}

func (s *InMemoryStateStore) Append(userID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lists[userID] == nil {
		s.lists[userID] = make(map[string][]string)
	}
	s.lists[userID][key] = append(s.lists[userID][key], value)
	return nil
}

func (s *InMemoryStateStore) GetList(userID, key string, limit, offset int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []string
	if ns, ok := s.lists[userID]; ok {
		items = ns[key]
	}
	if items == nil {
		return []string{}, nil
	}
	if offset > 0 && offset < len(items) {
		items = items[offset:]
	} else if offset >= len(items) {
		return []string{}, nil
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	result := make([]string, len(items))
	copy(result, items)
	return result, nil
}

func (s *InMemoryStateStore) TrimList(userID, key string, maxSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ns, ok := s.lists[userID]; ok {
		if lst, ok := ns[key]; ok && len(lst) > maxSize {
			ns[key] = lst[len(lst)-maxSize:]
		}
	}
	return nil
}

func (s *InMemoryStateStore) ClearList(userID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ns, ok := s.lists[userID]; ok {
		ns[key] = nil
	}
	return nil
}

func (s *InMemoryStateStore) ListLength(userID, key string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ns, ok := s.lists[userID]; ok {
		return len(ns[key]), nil
	}
	return 0, nil
}
