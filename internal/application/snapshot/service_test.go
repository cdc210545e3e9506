package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alacena/v2/internal/domain/catalog"
	"github.com/alacena/v2/internal/infrastructure/persistence/store"
	"github.com/alacena/v2/internal/ports/inbound"
	"github.com/alacena/v2/internal/ports/outbound"
	apperrors "github.com/alacena/v2/pkg/errors"
)

// memCatalogRepo is an in-memory catalog repository for snapshot tests
type memCatalogRepo struct {
	outbound.CatalogRepository
	order     []string
	items     map[string]catalog.Ingredient
	rejectIDs map[string]bool
	cleared   bool
}

func newMemCatalogRepo() *memCatalogRepo {
	return &memCatalogRepo{items: map[string]catalog.Ingredient{}}
}

func (m *memCatalogRepo) FindAll(_ context.Context) ([]catalog.Ingredient, error) {
	out := make([]catalog.Ingredient, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.items[id])
	}
	return out, nil
}

func (m *memCatalogRepo) Clear(_ context.Context) error {
	m.cleared = true
	m.order = nil
	m.items = map[string]catalog.Ingredient{}
	return nil
}

func (m *memCatalogRepo) BulkPut(_ context.Context, ings []catalog.Ingredient) (int, []error) {
	written := 0
	var errs []error
	for i, ing := range ings {
		if ing.ID == "" || m.rejectIDs[ing.ID] {
			errs = append(errs, store.BulkError{Position: i, ID: ing.ID, Err: fmt.Errorf("write rejected")})
			continue
		}
		if _, exists := m.items[ing.ID]; !exists {
			m.order = append(m.order, ing.ID)
		}
		m.items[ing.ID] = ing
		written++
	}
	return written, errs
}

func newTestService(repo outbound.CatalogRepository) inbound.SnapshotService {
	return NewService(repo, nil, nil, nil, nil, nil, "", zap.NewNop())
}

func TestExportEnvelope(t *testing.T) {
	ctx := context.Background()
	repo := newMemCatalogRepo()
	repo.BulkPut(ctx, []catalog.Ingredient{
		{ID: "ing-1", Name: "Tomate", NormalizedName: "tomate"},
		{ID: "ing-2", Name: "Cebolla", NormalizedName: "cebolla"},
	})
	svc := newTestService(repo)

	data, err := svc.Export(ctx, DomainIngredients)
	require.NoError(t, err)

	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &envelope))

	var version string
	require.NoError(t, json.Unmarshal(envelope["version"], &version))
	assert.Equal(t, SchemaVersion, version)

	var exportDate string
	require.NoError(t, json.Unmarshal(envelope["exportDate"], &exportDate))
	_, err = time.Parse("2006-01-02", exportDate)
	assert.NoError(t, err, "exportDate must be YYYY-MM-DD")

	var count int
	require.NoError(t, json.Unmarshal(envelope["count"], &count))
	assert.Equal(t, 2, count)

	var records []catalog.Ingredient
	require.NoError(t, json.Unmarshal(envelope[DomainIngredients], &records))
	require.Len(t, records, 2)
	assert.Equal(t, "ing-1", records[0].ID)
}

func TestExportEmptyCollection(t *testing.T) {
	svc := newTestService(newMemCatalogRepo())

	data, err := svc.Export(context.Background(), DomainIngredients)
	require.NoError(t, err)

	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &envelope))
	assert.JSONEq(t, "[]", string(envelope[DomainIngredients]))
}

func TestImportShapes(t *testing.T) {
	record := `{"id":"ing-1","name":"Tomate"}`
	shapes := map[string]string{
		"bare array":    `[` + record + `]`,
		"domain keyed":  `{"ingredients":[` + record + `]}`,
		"data envelope": `{"data":[` + record + `]}`,
		"full envelope": `{"version":"1","exportDate":"2024-03-01","count":1,"ingredients":[` + record + `]}`,
	}

	for name, payload := range shapes {
		t.Run(name, func(t *testing.T) {
			repo := newMemCatalogRepo()
			svc := newTestService(repo)

			result, err := svc.Import(context.Background(), DomainIngredients, []byte(payload), inbound.ImportModeMerge)
			require.NoError(t, err)
			assert.Equal(t, 1, result.Success)
			assert.Empty(t, result.Errors)
			assert.Contains(t, repo.items, "ing-1")
		})
	}
}

func TestImportMalformedJSON(t *testing.T) {
	svc := newTestService(newMemCatalogRepo())

	_, err := svc.Import(context.Background(), DomainIngredients, []byte(`{not json`), inbound.ImportModeMerge)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeParseError))
}

func TestImportUnrecognizedEnvelope(t *testing.T) {
	svc := newTestService(newMemCatalogRepo())

	_, err := svc.Import(context.Background(), DomainIngredients, []byte(`{"recipes":[]}`), inbound.ImportModeMerge)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeParseError))
}

func TestImportSkipsInvalidRecords(t *testing.T) {
	payload := `[
		{"id":"ing-1","name":"Tomate"},
		{"name":"sin id"},
		{"id":"ing-3"},
		{"id":"ing-4","name":"Arroz"}
	]`
	repo := newMemCatalogRepo()
	svc := newTestService(repo)

	result, err := svc.Import(context.Background(), DomainIngredients, []byte(payload), inbound.ImportModeMerge)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Success)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "record 1")
	assert.Contains(t, result.Errors[1], "record 2")
}

func TestImportWriteFailuresIndexInput(t *testing.T) {
	// Record 1 is dropped by validation, so the store sees a shorter slice.
	// The write failure on record 3 must still be reported against the
	// original payload position, same as the validation errors are.
	payload := `[
		{"id":"ing-1","name":"Tomate"},
		{"name":"sin id"},
		{"id":"ing-3","name":"Cebolla"},
		{"id":"ing-4","name":"Arroz"}
	]`
	repo := newMemCatalogRepo()
	repo.rejectIDs = map[string]bool{"ing-4": true}
	svc := newTestService(repo)

	result, err := svc.Import(context.Background(), DomainIngredients, []byte(payload), inbound.ImportModeMerge)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Success)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "record 1")
	assert.Contains(t, result.Errors[1], "item 3 (ing-4)")
}

func TestImportEmptyArray(t *testing.T) {
	svc := newTestService(newMemCatalogRepo())

	result, err := svc.Import(context.Background(), DomainIngredients, []byte(`[]`), inbound.ImportModeMerge)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Success)
	assert.Empty(t, result.Errors)
}

func TestImportReplaceClearsFirst(t *testing.T) {
	ctx := context.Background()
	repo := newMemCatalogRepo()
	repo.BulkPut(ctx, []catalog.Ingredient{{ID: "ing-old", Name: "Viejo"}})
	svc := newTestService(repo)

	result, err := svc.Import(ctx, DomainIngredients,
		[]byte(`[{"id":"ing-1","name":"Tomate"}]`), inbound.ImportModeReplace)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Success)
	assert.True(t, repo.cleared)
	assert.NotContains(t, repo.items, "ing-old")
	assert.Contains(t, repo.items, "ing-1")
}

func TestImportMergeKeepsExisting(t *testing.T) {
	ctx := context.Background()
	repo := newMemCatalogRepo()
	repo.BulkPut(ctx, []catalog.Ingredient{{ID: "ing-old", Name: "Viejo"}})
	svc := newTestService(repo)

	_, err := svc.Import(ctx, DomainIngredients,
		[]byte(`[{"id":"ing-1","name":"Tomate"}]`), inbound.ImportModeMerge)
	require.NoError(t, err)
	assert.False(t, repo.cleared)
	assert.Contains(t, repo.items, "ing-old")
	assert.Contains(t, repo.items, "ing-1")
}

func TestImportBackfillsNormalizedName(t *testing.T) {
	repo := newMemCatalogRepo()
	svc := newTestService(repo)

	_, err := svc.Import(context.Background(), DomainIngredients,
		[]byte(`[{"id":"ing-1","name":"Limón"}]`), inbound.ImportModeMerge)
	require.NoError(t, err)
	assert.Equal(t, "limon", repo.items["ing-1"].NormalizedName)
	assert.False(t, repo.items["ing-1"].CreatedAt.IsZero())
}

func TestImportUnknownDomain(t *testing.T) {
	svc := newTestService(newMemCatalogRepo())

	_, err := svc.Import(context.Background(), "sorcery", []byte(`[]`), inbound.ImportModeMerge)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
}
