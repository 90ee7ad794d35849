package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curricula/internal/chunkers/semantic"
	"github.com/custodia-labs/curricula/internal/core/ports/driven"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// promptDir returns a temp directory holding files, keyed by file name.
func promptDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	return dir
}

func openPrompts(t *testing.T, dir string) *PromptStore {
	t.Helper()
	s, err := NewPromptStore(dir)
	require.NoError(t, err)
	return s
}

func mustLoad(t *testing.T, s *PromptStore, name string) string {
	t.Helper()
	p, err := s.Load(name)
	require.NoError(t, err)
	return p
}

func TestNewPromptStore_Dir(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, dir, openPrompts(t, dir).Dir())

	home := t.TempDir()
	t.Setenv("HOME", home)
	assert.Equal(t, filepath.Join(home, ".curricula", "prompts"), openPrompts(t, "").Dir())
}

func TestPromptStore_Load(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		load  string
		want  string
	}{
		{
			name: "built-in full prompt",
			load: driven.PromptSemanticChunk,
			want: semantic.DefaultPrompt,
		},
		{
			name: "built-in short prompt",
			load: driven.PromptSemanticChunkShort,
			want: semantic.DefaultShortPrompt,
		},
		{
			name:  "edited prompt",
			files: map[string]string{"semantic_chunk.txt": "Divide {program_name}:\n{content}"},
			load:  driven.PromptSemanticChunk,
			want:  "Divide {program_name}:\n{content}",
		},
		{
			name:  "surrounding blank lines are trimmed",
			files: map[string]string{"semantic_chunk.txt": "\n\n  split {content}  \n\n"},
			load:  driven.PromptSemanticChunk,
			want:  "split {content}",
		},
		{
			name:  "built-in prompt without content placeholder is ignored",
			files: map[string]string{"semantic_chunk.txt": "only {program_name}"},
			load:  driven.PromptSemanticChunk,
			want:  semantic.DefaultPrompt,
		},
		{
			name:  "extra prompts need no placeholder",
			files: map[string]string{"summary.txt": "resume el programa"},
			load:  "summary",
			want:  "resume el programa",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openPrompts(t, promptDir(t, tt.files))
			assert.Equal(t, tt.want, mustLoad(t, s, tt.load))
		})
	}
}

func TestPromptStore_UnknownPrompt(t *testing.T) {
	_, err := openPrompts(t, t.TempDir()).Load("nonexistent_prompt")
	assert.ErrorContains(t, err, "nonexistent_prompt")
}

func TestPromptStore_SeedsDirectoryLazily(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")
	s := openPrompts(t, dir)

	_, err := os.Stat(dir)
	require.True(t, os.IsNotExist(err), "constructor must not touch the filesystem")

	mustLoad(t, s, driven.PromptSemanticChunk)

	for _, f := range []string{"semantic_chunk.txt", "semantic_chunk_short.txt", "README.md"} {
		assert.FileExists(t, filepath.Join(dir, f))
	}

	readme, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "`semantic_chunk.txt`")
	assert.Contains(t, string(readme), "`semantic_chunk_short.txt`")
	assert.Contains(t, string(readme), semantic.PlaceholderContent)
}

func TestPromptStore_SeedingKeepsEdits(t *testing.T) {
	dir := promptDir(t, map[string]string{"semantic_chunk.txt": "pre-existing {content}"})

	mustLoad(t, openPrompts(t, dir), driven.PromptSemanticChunkShort)

	data, err := os.ReadFile(filepath.Join(dir, "semantic_chunk.txt"))
	require.NoError(t, err)
	assert.Equal(t, "pre-existing {content}", string(data))
}

func TestPromptStore_CacheAndReload(t *testing.T) {
	dir := t.TempDir()
	s := openPrompts(t, dir)
	file := filepath.Join(dir, "semantic_chunk.txt")

	first := mustLoad(t, s, driven.PromptSemanticChunk)
	require.NoError(t, os.WriteFile(file, []byte("modified {program_name} {content}"), 0o600))
	assert.Equal(t, first, mustLoad(t, s, driven.PromptSemanticChunk), "cached until Reload")

	s.Reload()
	assert.Equal(t, "modified {program_name} {content}", mustLoad(t, s, driven.PromptSemanticChunk))

	require.NoError(t, os.Remove(file))
	s.Reload()
	assert.Equal(t, semantic.DefaultPrompt, mustLoad(t, s, driven.PromptSemanticChunk), "deleted file falls back")
}

func TestPromptStore_ConcurrentLoads(t *testing.T) {
	s := openPrompts(t, t.TempDir())

	got := make([]string, 32)
	var wg sync.WaitGroup
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i], _ = s.Load(driven.PromptSemanticChunk)
		}()
	}
	wg.Wait()

	for _, p := range got {
		assert.Equal(t, semantic.DefaultPrompt, p)
	}
}

func TestPromptStore_UnwritableDirUsesDefaults(t *testing.T) {
	blocker := filepath.Join(promptDir(t, map[string]string{"file": "x"}), "file")
	s := openPrompts(t, filepath.Join(blocker, "prompts"))

	assert.Equal(t, semantic.DefaultPrompt, mustLoad(t, s, driven.PromptSemanticChunk))

	_, err := s.Load("unknown")
	assert.ErrorContains(t, err, "prompt store init failed")
}

func TestUnknownPlaceholders(t *testing.T) {
	tests := []struct {
		prompt string
		want   []string
	}{
		{"{program_name}: {content}", nil},
		{"{content} {faculty} {faculty} {campus}", []string{"{faculty}", "{campus}"}},
		{"json {\"chunks\": []} {content}", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, unknownPlaceholders(tt.prompt), tt.prompt)
	}
}
