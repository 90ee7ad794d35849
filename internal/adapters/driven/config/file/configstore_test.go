package file

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".curricula", "config.toml"), store.Path())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "deep")

	store, err := NewConfigStore(nestedPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(nestedPath, "config.toml"), store.Path())

	info, err := os.Stat(nestedPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not toml {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store := newTestStore(t)

	val, ok := store.Get("nonexistent")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_GetString(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("llm.provider", "ollama"))
	require.NoError(t, store.Set("chunking.workers", 4))

	assert.Equal(t, "ollama", store.GetString("llm.provider"))
	assert.Equal(t, "", store.GetString("chunking.workers"))
	assert.Equal(t, "", store.GetString("missing"))
}

func TestConfigStore_NumbersFromHandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	raw := `
[chunking]
workers = 12
llm_rate = 0.5
batch = " 7 "
overlap = 1.5

[search]
default_k = "many"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(raw), 0o600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, 12, store.GetInt("chunking.workers"))
	assert.InDelta(t, 12.0, store.GetFloat("chunking.workers"), 1e-9)
	assert.InDelta(t, 0.5, store.GetFloat("chunking.llm_rate"), 1e-9)
	assert.Equal(t, 7, store.GetInt("chunking.batch"))
	assert.Zero(t, store.GetInt("chunking.overlap"), "fractional values are not ints")
	assert.Zero(t, store.GetInt("search.default_k"))
}

func TestConfigStore_GetBool(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("on", true))
	require.NoError(t, store.Set("off", false))
	require.NoError(t, store.Set("text", "true"))
	require.NoError(t, store.Set("junk", "yes please"))

	assert.True(t, store.GetBool("on"))
	assert.False(t, store.GetBool("off"))
	assert.True(t, store.GetBool("text"))
	assert.False(t, store.GetBool("junk"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_OverwriteValue(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("llm.model", "llama3"))
	require.NoError(t, store.Set("llm.model", "mistral"))

	assert.Equal(t, "mistral", store.GetString("llm.model"))
}

func TestConfigStore_SaveReload_PreservesData(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("chunking.mode", "hybrid"))
	require.NoError(t, store.Set("chunking.workers", 8))
	require.NoError(t, store.Set("llm.rate_limit", 0.5))
	require.NoError(t, store.Set("extraction.require_semesters", true))
	require.NoError(t, store.Set("top_level", "x"))

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "hybrid", reloaded.GetString("chunking.mode"))
	assert.Equal(t, 8, reloaded.GetInt("chunking.workers"))
	assert.InDelta(t, 0.5, reloaded.GetFloat("llm.rate_limit"), 1e-9)
	assert.True(t, reloaded.GetBool("extraction.require_semesters"))
	assert.Equal(t, "x", reloaded.GetString("top_level"))
}

func TestConfigStore_WritesTables(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("chunking.workers", 4))
	require.NoError(t, store.Set("chunking.mode", "structural"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "[chunking]")
	assert.False(t, strings.Contains(text, "'chunking.workers'"), "dotted keys are nested, not quoted")
}

func TestConfigStore_KeyConflict(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("llm.model", "llama3"))

	err := store.Set("llm", "ollama")
	assert.ErrorContains(t, err, "conflicts")

	_, ok := store.Get("llm")
	assert.False(t, ok, "rejected value is rolled back")
	assert.NoError(t, store.Set("llm.provider", "ollama"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("test", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("# comment only\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, ok := store.Get("any")
	assert.False(t, ok)
}

func TestConfigStore_Save_Explicit(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	// bypasses Set, so nothing is on disk until Save
	store.Map.Set("search.default_k", int64(9))
	_, err = os.Stat(store.Path())
	require.True(t, os.IsNotExist(err))
	require.NoError(t, store.Save())

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 9, reloaded.GetInt("search.default_k"))
}

func TestConfigStore_FailedWriteKeepsMemory(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("test", "value"))

	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0o700))

	assert.Error(t, store.Set("another", "value"))
	_, ok := store.Get("another")
	assert.False(t, ok)
	assert.Equal(t, "value", store.GetString("test"))
	assert.Error(t, store.Save())
}

func TestConfigStore_Load_InvalidTOML(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("valid", "data"))
	require.NoError(t, os.WriteFile(store.Path(), []byte("invalid ][}{"), 0600))

	assert.Error(t, store.Load())
}

func TestConfigStore_Load_FileRemoved(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("k", "v"))
	require.NoError(t, os.Remove(store.Path()))

	require.NoError(t, store.Load())
	_, ok := store.Get("k")
	assert.False(t, ok)
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store := newTestStore(t)

	assert.Error(t, store.Set("channel", make(chan int)))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := newTestStore(t)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := "workers.w" + string(rune('0'+i))
			_ = store.Set(key, i)
			_ = store.GetInt(key)
			_ = store.GetFloat(key)
			_ = store.GetString(key)
			_, _ = store.Get(key)
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, store.GetInt("workers.w3"))
}
