package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longkey1/chenai/internal/vectorstore"
)

func chunk(id, text string) vectorstore.Chunk {
	return vectorstore.Chunk{DocumentID: "doc", ChunkID: id, Text: text}
}

func TestSearchOrdersByCosine(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	require.NoError(t, s.Init(ctx, "Agent_Post", 2))

	require.NoError(t, s.Upsert(ctx, "Agent_Post",
		[]vectorstore.Chunk{chunk("a", "east"), chunk("b", "north"), chunk("c", "north-east")},
		[][]float32{{1, 0}, {0, 10}, {3, 3}},
	))

	results, err := s.Search(ctx, "Agent_Post", []float32{0, 1}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "north", results[0].Chunk.Text)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.Equal(t, "north-east", results[1].Chunk.Text)

	results, err = s.Search(ctx, "Agent_Post", []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestUpsertReplacesChunk(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	require.NoError(t, s.Init(ctx, "c", 2))

	require.NoError(t, s.Upsert(ctx, "c", []vectorstore.Chunk{chunk("a", "old")}, [][]float32{{1, 0}}))
	require.NoError(t, s.Upsert(ctx, "c", []vectorstore.Chunk{chunk("a", "new")}, [][]float32{{0, 1}}))

	assert.Equal(t, 1, s.Len("c"))
	results, err := s.Search(ctx, "c", []float32{0, 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, "new", results[0].Chunk.Text)
}

func TestStorageErrors(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()

	assert.Error(t, s.Init(ctx, "c", 0))

	_, err := s.Search(ctx, "missing", []float32{1}, 1)
	assert.ErrorIs(t, err, vectorstore.ErrCollectionNotFound)

	assert.ErrorIs(t, s.Upsert(ctx, "missing", nil, nil), vectorstore.ErrCollectionNotFound)

	require.NoError(t, s.Init(ctx, "c", 2))
	assert.Error(t, s.Init(ctx, "c", 3))
	assert.Error(t, s.Upsert(ctx, "c", []vectorstore.Chunk{chunk("a", "x")}, nil))
	assert.Error(t, s.Upsert(ctx, "c", []vectorstore.Chunk{chunk("a", "x")}, [][]float32{{1, 2, 3}}))

	require.NoError(t, s.Clear(ctx, "c"))
	_, err = s.Search(ctx, "c", []float32{1, 0}, 1)
	assert.ErrorIs(t, err, vectorstore.ErrCollectionNotFound)
}
