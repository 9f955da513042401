package ratelimit

import (
	"sync"
	"time"
)

// Store tracks request counts per key inside a fixed window.
type Store interface {
	Get(key string) (count int, resetTime time.Time, exists bool)
	Increment(key string, resetTime time.Time) (count int)
	Reset(key string)
	Close()
}

type MemoryStore struct {
	mu   sync.Mutex
	data map[string]*entry
	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

type entry struct {
	count     int
	resetTime time.Time
}

func NewMemoryStore() *MemoryStore {
	return newMemoryStore(time.Now, time.Minute)
}

func newMemoryStore(now func() time.Time, sweepEvery time.Duration) *MemoryStore {
	store := &MemoryStore{
		data: make(map[string]*entry),
		now:  now,
		stop: make(chan struct{}),
	}

	go store.sweep(sweepEvery)

	return store
}

func (s *MemoryStore) Get(key string) (int, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.data[key]; ok && s.now().Before(e.resetTime) {
		return e.count, e.resetTime, true
	}
	return 0, time.Time{}, false
}

// Increment bumps the count for key, starting a new window ending at
// resetTime when none is active.
func (s *MemoryStore) Increment(key string, resetTime time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.data[key]; ok && s.now().Before(e.resetTime) {
		e.count++
		return e.count
	}

	s.data[key] = &entry{count: 1, resetTime: resetTime}
	return 1
}

func (s *MemoryStore) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
}

// Close stops the expiry sweeper. It is safe to call more than once.
func (s *MemoryStore) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *MemoryStore) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.removeExpired()
		}
	}
}

func (s *MemoryStore) removeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, e := range s.data {
		if !now.Before(e.resetTime) {
			delete(s.data, key)
		}
	}
}

func (s *MemoryStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}
