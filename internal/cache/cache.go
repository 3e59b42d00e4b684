// Package cache provides TTL-bounded memoisation for the retrieval
// pipeline: query embeddings, raw search results, and assembled contexts.
//
// The Service replaces what would otherwise be module-level singleton maps
// with an explicit object constructed once at startup and injected into the
// orchestrator. The expiry sweep is a background task owned by the
// Service's lifecycle: started on Start, joined on Stop.
package cache

import (
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/earlyed-hq/asked/internal/core/domain"
)

// entry is a cached value with its expiry deadline.
type entry[T any] struct {
	data    T
	expires time.Time
}

// Store is a concurrency-safe TTL map. Entries are immutable once written;
// a losing writer simply overwrites with an equivalent value, so atomic
// per-key get/set is all that is needed.
type Store[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
}

// NewStore creates an empty store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{entries: make(map[string]entry[T])}
}

// Get returns the value for key if present and unexpired.
// Expired entries are evicted lazily on read.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		var zero T
		return zero, false
	}
	if time.Now().After(e.expires) {
		s.mu.Lock()
		// Re-check under the write lock; another writer may have refreshed it.
		if cur, still := s.entries[key]; still && time.Now().After(cur.expires) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		var zero T
		return zero, false
	}
	return e.data, true
}

// Set stores a value under key for the given TTL.
func (s *Store[T]) Set(key string, data T, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry[T]{data: data, expires: time.Now().Add(ttl)}
}

// Len returns the number of entries, expired or not.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear removes all entries.
func (s *Store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry[T])
}

// sweep removes expired entries and reports how many were evicted.
func (s *Store[T]) sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for key, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, key)
			evicted++
		}
	}
	return evicted
}

// DefaultSweepInterval is how often the background sweep runs.
const DefaultSweepInterval = 5 * time.Minute

// Service bundles the pipeline's three caches and owns their sweep loop.
type Service struct {
	// Embeddings memoises text -> embedding vector.
	Embeddings *Store[[]float32]

	// Results memoises processed query -> ranked raw results.
	Results *Store[domain.RankedResults]

	// Contexts memoises normalised question -> assembled context result.
	Contexts *Store[domain.ContextResult]

	sweepInterval time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewService creates a cache service. A non-positive sweepInterval falls
// back to DefaultSweepInterval.
func NewService(sweepInterval time.Duration) *Service {
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	return &Service{
		Embeddings:    NewStore[[]float32](),
		Results:       NewStore[domain.RankedResults](),
		Contexts:      NewStore[domain.ContextResult](),
		sweepInterval: sweepInterval,
	}
}

// Start launches the background sweep loop. Calling Start twice is a no-op.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})

	s.wg.Add(1)
	go s.run(s.stopCh)
}

// Stop shuts down the sweep loop and waits for it to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Service) run(stopCh <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case now := <-ticker.C:
			s.Sweep(now)
		}
	}
}

// Sweep evicts expired entries from all stores.
func (s *Service) Sweep(now time.Time) {
	s.Embeddings.sweep(now)
	s.Results.sweep(now)
	s.Contexts.sweep(now)
}

// EmbeddingKey derives a cache key from embedding input text. Short text
// keys on itself; long text keys on an FNV-64 hash so near-identical
// repeated queries stay cheap without unbounded key growth.
func EmbeddingKey(text string) string {
	const maxLiteralKey = 256
	if len(text) <= maxLiteralKey {
		return text
	}
	h := fnv.New64a()
	h.Write([]byte(text))
	return fmt.Sprintf("fnv:%x", h.Sum64())
}
