package chromem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *Store) {
	t.Helper()
	err := s.Add(context.Background(),
		[]string{"doc_a", "doc_b", "doc_c"},
		[]string{"fee text", "profile text", "semester text"},
		[]map[string]any{
			{"type": "fee", "program_name": "Bioingenieria", "fee_amount": int64(6100000), "llm_generated": false},
			{"type": "occupational_profile", "program_name": "Bioingenieria", "confidence": 0.9},
			{"type": "curriculum_semester", "program_name": "Derecho", "total_credits": 7},
		},
		[][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	)
	require.NoError(t, err)
}

func TestStore_EmptyQuery(t *testing.T) {
	s, err := NewMemory("test")
	require.NoError(t, err)

	res, err := s.Query(context.Background(), []float32{1, 0, 0}, 5, nil)
	require.NoError(t, err)
	assert.Zero(t, res.Len())
}

func TestStore_QueryClampsK(t *testing.T) {
	s, err := NewMemory("test")
	require.NoError(t, err)
	seed(t, s)

	res, err := s.Query(context.Background(), []float32{1, 0.1, 0}, 50, nil)
	require.NoError(t, err)
	require.Equal(t, 3, res.Len())
	assert.Equal(t, "doc_a", res.IDs[0])
	assert.Equal(t, "fee text", res.Documents[0])
	assert.Less(t, res.Distances[0], res.Distances[1])
}

func TestStore_MetadataRoundTrip(t *testing.T) {
	s, err := NewMemory("test")
	require.NoError(t, err)
	seed(t, s)

	res, err := s.Query(context.Background(), []float32{1, 0, 0}, 1, nil)
	require.NoError(t, err)
	require.Equal(t, 1, res.Len())

	meta := res.Metadatas[0]
	assert.Equal(t, "fee", meta["type"])
	assert.Equal(t, "6100000", meta["fee_amount"])
	assert.Equal(t, "false", meta["llm_generated"])
	assert.InDelta(t, 0, res.Distances[0], 1e-6)
}

func TestStore_WhereFilter(t *testing.T) {
	s, err := NewMemory("test")
	require.NoError(t, err)
	seed(t, s)

	res, err := s.Query(context.Background(), []float32{1, 0, 0}, 3, map[string]string{"type": "curriculum_semester"})
	require.NoError(t, err)
	require.Equal(t, 1, res.Len())
	assert.Equal(t, "doc_c", res.IDs[0])
	assert.Equal(t, "7", res.Metadatas[0]["total_credits"])
}

func TestStore_ClearAndCount(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemory("test")
	require.NoError(t, err)
	seed(t, s)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, s.Clear(ctx))
	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	seed(t, s)
	n, _ = s.Count(ctx)
	assert.Equal(t, 3, n)
	assert.Equal(t, "test", s.Name())
	assert.NoError(t, s.Close())
}

func TestStore_AddLengthMismatch(t *testing.T) {
	s, err := NewMemory("test")
	require.NoError(t, err)

	err = s.Add(context.Background(), []string{"a"}, []string{"x", "y"}, nil, nil)
	assert.Error(t, err)
}

func TestStore_Persistent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := New(dir, "usc_curriculum", false)
	require.NoError(t, err)
	seed(t, s)

	reopened, err := New(dir, "usc_curriculum", false)
	require.NoError(t, err)
	n, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestNew_RequiresName(t *testing.T) {
	_, err := New("", "", false)
	assert.Error(t, err)
}

func TestFlatten(t *testing.T) {
	got := Flatten(map[string]any{
		"s": "x", "b": true, "i": 3, "i64": int64(4), "f": 0.9, "f32": float32(1.5), "nil": nil, "other": []int{1},
	})
	assert.Equal(t, map[string]string{
		"s": "x", "b": "true", "i": "3", "i64": "4", "f": "0.9", "f32": "1.5", "other": "[1]",
	}, got)
}
