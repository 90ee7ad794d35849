package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("vector.collection", "usc_curriculum"))

	val, ok := store.Get("vector.collection")
	assert.True(t, ok)
	assert.Equal(t, "usc_curriculum", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("chunking.workers", int64(8))
	_ = store.Set("chunking.llm_rate", 1.5)
	_ = store.Set("vector.compress", true)
	_ = store.Set("search.default_k", "7")
	_ = store.Set("flag", "true")
	_ = store.Set("bad", "x")

	assert.Equal(t, 8, store.GetInt("chunking.workers"))
	assert.InDelta(t, 1.5, store.GetFloat("chunking.llm_rate"), 1e-9)
	assert.True(t, store.GetBool("vector.compress"))
	assert.Equal(t, 7, store.GetInt("search.default_k"))
	assert.InDelta(t, 7.0, store.GetFloat("search.default_k"), 1e-9)
	assert.True(t, store.GetBool("flag"))

	assert.Equal(t, 0, store.GetInt("bad"))
	assert.Zero(t, store.GetFloat("bad"))
	assert.False(t, store.GetBool("bad"))
	assert.Empty(t, store.GetString("chunking.workers"))
	assert.Empty(t, store.GetString("missing"))
}

func TestConfigStore_NoOps(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("chunking.workers", n)
			_ = store.GetInt("chunking.workers")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("chunking.workers")
	assert.True(t, ok)
}
