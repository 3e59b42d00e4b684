package cache

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earlyed-hq/asked/internal/core/domain"
)

func TestStore_SetGet(t *testing.T) {
	s := NewStore[string]()

	s.Set("k", "v", time.Minute)

	got, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestStore_Miss(t *testing.T) {
	s := NewStore[string]()

	_, ok := s.Get("absent")

	assert.False(t, ok)
}

func TestStore_Expiry(t *testing.T) {
	s := NewStore[int]()

	s.Set("k", 42, -time.Second) // already expired

	_, ok := s.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len(), "expired entry should be lazily evicted on read")
}

func TestStore_OverwriteRefreshesTTL(t *testing.T) {
	s := NewStore[int]()

	s.Set("k", 1, -time.Second)
	s.Set("k", 2, time.Minute)

	got, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestStore_Sweep(t *testing.T) {
	s := NewStore[int]()
	s.Set("fresh", 1, time.Hour)
	s.Set("stale-1", 2, -time.Second)
	s.Set("stale-2", 3, -time.Second)

	evicted := s.sweep(time.Now())

	assert.Equal(t, 2, evicted)
	assert.Equal(t, 1, s.Len())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore[int]()
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Set("shared", n, time.Minute)
				s.Get("shared")
			}
		}(i)
	}
	wg.Wait()

	_, ok := s.Get("shared")
	assert.True(t, ok)
}

func TestService_StartStop(t *testing.T) {
	svc := NewService(10 * time.Millisecond)

	svc.Start()
	svc.Start() // second Start is a no-op

	svc.Contexts.Set("k", domain.ContextResult{Context: "c"}, -time.Second)

	// Give the sweeper at least one tick.
	time.Sleep(50 * time.Millisecond)

	svc.Stop()
	svc.Stop() // second Stop is a no-op

	assert.Equal(t, 0, svc.Contexts.Len())
}

func TestService_SweepAllStores(t *testing.T) {
	svc := NewService(time.Hour)
	svc.Embeddings.Set("e", []float32{1}, -time.Second)
	svc.Results.Set("r", domain.RankedResults{}, -time.Second)
	svc.Contexts.Set("c", domain.ContextResult{}, -time.Second)

	svc.Sweep(time.Now())

	assert.Equal(t, 0, svc.Embeddings.Len())
	assert.Equal(t, 0, svc.Results.Len())
	assert.Equal(t, 0, svc.Contexts.Len())
}

func TestEmbeddingKey(t *testing.T) {
	short := "what are the staff ratios"
	assert.Equal(t, short, EmbeddingKey(short))

	long := strings.Repeat("safeguarding ", 40)
	key := EmbeddingKey(long)
	assert.True(t, strings.HasPrefix(key, "fnv:"))
	assert.Less(t, len(key), 32)
	assert.Equal(t, key, EmbeddingKey(long), "same text must produce the same key")
}
