package store

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	apperrors "github.com/alacena/v2/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testDoc struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

func newTestStore(t *testing.T, specs ...CollectionSpec) *Store {
	t.Helper()

	s, err := Open("", zap.NewNop(), NewMetrics(prometheus.NewRegistry()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.EnsureSchema(specs...))
	return s
}

func TestPutGetRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, AppSchema()...)

	coll, err := s.Collection(CollectionIngredients)
	require.NoError(t, err)

	stored, err := coll.Put(ctx, "ing-1", testDoc{ID: "ing-1", Name: "Tomate", Category: "vegetable"})
	require.NoError(t, err)
	require.NotNil(t, stored)

	raw, err := coll.Get(ctx, "ing-1")
	require.NoError(t, err)
	require.NotNil(t, raw)

	var got testDoc
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "Tomate", got.Name)
}

func TestGetMissReturnsNil(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, AppSchema()...)

	coll, err := s.Collection(CollectionIngredients)
	require.NoError(t, err)

	raw, err := coll.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestPutReplacesByID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, AppSchema()...)

	coll, err := s.Collection(CollectionIngredients)
	require.NoError(t, err)

	_, err = coll.Put(ctx, "ing-1", testDoc{ID: "ing-1", Name: "Tomate"})
	require.NoError(t, err)
	_, err = coll.Put(ctx, "ing-1", testDoc{ID: "ing-1", Name: "Jitomate"})
	require.NoError(t, err)

	n, err := coll.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	raw, err := coll.Get(ctx, "ing-1")
	require.NoError(t, err)

	var got testDoc
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "Jitomate", got.Name)
}

func TestPutRequiresID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, AppSchema()...)

	coll, err := s.Collection(CollectionIngredients)
	require.NoError(t, err)

	_, err = coll.Put(ctx, "", testDoc{Name: "Tomate"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
}

func TestGetAllInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, AppSchema()...)

	coll, err := s.Collection(CollectionIngredients)
	require.NoError(t, err)

	for i, name := range []string{"Cebolla", "Ajo", "Tomate"} {
		id := fmt.Sprintf("ing-%d", i)
		_, err := coll.Put(ctx, id, testDoc{ID: id, Name: name})
		require.NoError(t, err)
	}

	docs, err := coll.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	var names []string
	for _, raw := range docs {
		var d testDoc
		require.NoError(t, json.Unmarshal(raw, &d))
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"Cebolla", "Ajo", "Tomate"}, names)
}

func TestGetByIndex(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, AppSchema()...)

	coll, err := s.Collection(CollectionIngredients)
	require.NoError(t, err)

	_, err = coll.Put(ctx, "ing-1", testDoc{ID: "ing-1", Name: "Tomate", Category: "vegetable"})
	require.NoError(t, err)
	_, err = coll.Put(ctx, "ing-2", testDoc{ID: "ing-2", Name: "Manzana", Category: "fruit"})
	require.NoError(t, err)
	_, err = coll.Put(ctx, "ing-3", testDoc{ID: "ing-3", Name: "Cebolla", Category: "vegetable"})
	require.NoError(t, err)

	docs, err := coll.GetByIndex(ctx, "category", "vegetable")
	require.NoError(t, err)
	require.Len(t, docs, 2)

	var first testDoc
	require.NoError(t, json.Unmarshal(docs[0], &first))
	assert.Equal(t, "Tomate", first.Name)
}

func TestGetByIndexUndeclared(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, AppSchema()...)

	coll, err := s.Collection(CollectionIngredients)
	require.NoError(t, err)

	_, err = coll.GetByIndex(ctx, "flavor", "umami")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
}

func TestGetByIndexTracksUpdates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, AppSchema()...)

	coll, err := s.Collection(CollectionIngredients)
	require.NoError(t, err)

	_, err = coll.Put(ctx, "ing-1", testDoc{ID: "ing-1", Name: "Tomate", Category: "vegetable"})
	require.NoError(t, err)
	_, err = coll.Put(ctx, "ing-1", testDoc{ID: "ing-1", Name: "Tomate", Category: "fruit"})
	require.NoError(t, err)

	docs, err := coll.GetByIndex(ctx, "category", "vegetable")
	require.NoError(t, err)
	assert.Empty(t, docs)

	docs, err = coll.GetByIndex(ctx, "category", "fruit")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestUniqueIndexViolation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, AppSchema()...)

	coll, err := s.Collection(CollectionLocations)
	require.NoError(t, err)

	_, err = coll.Put(ctx, "loc-1", testDoc{ID: "loc-1", Name: "Despensa"})
	require.NoError(t, err)

	_, err = coll.Put(ctx, "loc-2", testDoc{ID: "loc-2", Name: "Despensa"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConstraintViolation(err))

	// The losing write must not be half-applied.
	raw, err := coll.Get(ctx, "loc-2")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestDeleteAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, AppSchema()...)

	coll, err := s.Collection(CollectionIngredients)
	require.NoError(t, err)

	assert.NoError(t, coll.Delete(ctx, "nope"))
}

func TestClearAndCount(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, AppSchema()...)

	coll, err := s.Collection(CollectionIngredients)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("ing-%d", i)
		_, err := coll.Put(ctx, id, testDoc{ID: id, Name: "x"})
		require.NoError(t, err)
	}

	n, err := coll.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	require.NoError(t, coll.Clear(ctx))

	n, err = coll.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	docs, err := coll.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestBulkPutBestEffort(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, AppSchema()...)

	coll, err := s.Collection(CollectionLocations)
	require.NoError(t, err)

	written, failures := coll.BulkPut(ctx, []BulkItem{
		{ID: "loc-1", Doc: testDoc{ID: "loc-1", Name: "Despensa"}},
		{ID: "", Doc: testDoc{Name: "sin id"}},
		{ID: "loc-2", Doc: testDoc{ID: "loc-2", Name: "Despensa"}},
		{ID: "loc-3", Doc: testDoc{ID: "loc-3", Name: "Nevera"}},
	})

	assert.Equal(t, 2, written)
	require.Len(t, failures, 2)

	assert.Equal(t, 1, failures[0].Position)
	assert.True(t, apperrors.IsCode(failures[0].Err, apperrors.CodeValidationFailed))

	assert.Equal(t, 2, failures[1].Position)
	assert.Equal(t, "loc-2", failures[1].ID)
	assert.True(t, apperrors.IsConstraintViolation(failures[1].Err))

	// Items before and after the failures still landed.
	n, err := coll.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestBulkPutRecordsErrorStatus(t *testing.T) {
	ctx := context.Background()

	metrics := NewMetrics(prometheus.NewRegistry())
	s, err := Open("", zap.NewNop(), metrics)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.EnsureSchema(AppSchema()...))

	coll, err := s.Collection(CollectionIngredients)
	require.NoError(t, err)

	_, failures := coll.BulkPut(ctx, []BulkItem{
		{ID: "ing-1", Doc: testDoc{ID: "ing-1", Name: "Tomate"}},
	})
	assert.Empty(t, failures)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.operations.WithLabelValues(CollectionIngredients, "bulkPut", "ok")))

	_, failures = coll.BulkPut(ctx, []BulkItem{
		{ID: "", Doc: testDoc{Name: "sin id"}},
	})
	require.Len(t, failures, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.operations.WithLabelValues(CollectionIngredients, "bulkPut", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.operations.WithLabelValues(CollectionIngredients, "bulkPut", "ok")))
}

func TestBulkPutReplacesDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, AppSchema()...)

	coll, err := s.Collection(CollectionIngredients)
	require.NoError(t, err)

	written, failures := coll.BulkPut(ctx, []BulkItem{
		{ID: "ing-1", Doc: testDoc{ID: "ing-1", Name: "Tomate"}},
		{ID: "ing-1", Doc: testDoc{ID: "ing-1", Name: "Jitomate"}},
	})
	assert.Equal(t, 2, written)
	assert.Empty(t, failures)

	docs, err := coll.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	var got testDoc
	require.NoError(t, json.Unmarshal(docs[0], &got))
	assert.Equal(t, "Jitomate", got.Name)
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, AppSchema()...)

	coll, err := s.Collection(CollectionIngredients)
	require.NoError(t, err)
	_, err = coll.Put(ctx, "ing-1", testDoc{ID: "ing-1", Name: "Tomate"})
	require.NoError(t, err)

	// Re-running the full schema must not disturb existing data.
	require.NoError(t, s.EnsureSchema(AppSchema()...))

	n, err := coll.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestEnsureSchemaBackfillsNewIndex(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, CollectionSpec{Name: "things"})

	coll, err := s.Collection("things")
	require.NoError(t, err)

	_, err = coll.Put(ctx, "t-1", testDoc{ID: "t-1", Name: "a", Category: "tools"})
	require.NoError(t, err)
	_, err = coll.Put(ctx, "t-2", testDoc{ID: "t-2", Name: "b", Category: "toys"})
	require.NoError(t, err)

	// Declaring a new index over a populated collection backfills the
	// column from the stored documents.
	require.NoError(t, s.EnsureSchema(CollectionSpec{
		Name:    "things",
		Indexes: []IndexSpec{{Name: "category"}},
	}))

	coll, err = s.Collection("things")
	require.NoError(t, err)

	docs, err := coll.GetByIndex(ctx, "category", "tools")
	require.NoError(t, err)
	require.Len(t, docs, 1)

	var got testDoc
	require.NoError(t, json.Unmarshal(docs[0], &got))
	assert.Equal(t, "t-1", got.ID)
}

func TestEnsureSchemaRejectsBadNames(t *testing.T) {
	s := newTestStore(t)

	err := s.EnsureSchema(CollectionSpec{Name: "bad name; DROP TABLE"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))

	err = s.EnsureSchema(CollectionSpec{
		Name:    "things",
		Indexes: []IndexSpec{{Name: "bad-index"}},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
}

func TestCollectionRequiresDeclaration(t *testing.T) {
	s := newTestStore(t, AppSchema()...)

	_, err := s.Collection("unknown")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
}
