package cooking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alacena/v2/internal/domain/history"
	"github.com/alacena/v2/internal/domain/recipe"
	"github.com/alacena/v2/internal/ports/inbound"
	"github.com/alacena/v2/internal/ports/outbound"
	apperrors "github.com/alacena/v2/pkg/errors"
)

type memHistoryRepo struct {
	outbound.HistoryRepository
	order   []string
	entries map[string]history.Entry
}

func newMemHistoryRepo() *memHistoryRepo {
	return &memHistoryRepo{entries: map[string]history.Entry{}}
}

func (m *memHistoryRepo) Put(_ context.Context, e history.Entry) (history.Entry, error) {
	if _, exists := m.entries[e.ID]; !exists {
		m.order = append(m.order, e.ID)
	}
	m.entries[e.ID] = e
	return e, nil
}

func (m *memHistoryRepo) FindByID(_ context.Context, id string) (*history.Entry, error) {
	if e, ok := m.entries[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (m *memHistoryRepo) FindAll(_ context.Context) ([]history.Entry, error) {
	out := make([]history.Entry, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.entries[id])
	}
	return out, nil
}

type stubRecipeRepo struct {
	outbound.RecipeRepository
	recipes map[string]recipe.Recipe
}

func (s *stubRecipeRepo) FindByID(_ context.Context, id string) (*recipe.Recipe, error) {
	if r, ok := s.recipes[id]; ok {
		return &r, nil
	}
	return nil, nil
}

type spyRecommender struct {
	inbound.RecommendationService
	invalidated int
}

func (s *spyRecommender) Invalidate(_ context.Context) error {
	s.invalidated++
	return nil
}

func newTestCooking() (inbound.CookingService, *memHistoryRepo, *spyRecommender) {
	hist := newMemHistoryRepo()
	recipes := &stubRecipeRepo{recipes: map[string]recipe.Recipe{
		"rec-1": {ID: "rec-1", Name: "Sopa"},
	}}
	spy := &spyRecommender{}
	return NewService(hist, recipes, spy, zap.NewNop()), hist, spy
}

func TestStartSession(t *testing.T) {
	ctx := context.Background()

	t.Run("opens an in-progress entry", func(t *testing.T) {
		svc, hist, _ := newTestCooking()

		entry, err := svc.StartSession(ctx, "rec-1")
		require.NoError(t, err)
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, "rec-1", entry.RecipeID)
		assert.False(t, entry.Completed)
		assert.Contains(t, hist.entries, entry.ID)
	})

	t.Run("missing recipe fails the precondition", func(t *testing.T) {
		svc, _, _ := newTestCooking()

		_, err := svc.StartSession(ctx, "rec-ghost")
		assert.True(t, apperrors.IsCode(err, apperrors.CodePreconditionFailed))
	})
}

func TestCompleteSession(t *testing.T) {
	ctx := context.Background()

	t.Run("finalizes once with rating and notes", func(t *testing.T) {
		svc, _, spy := newTestCooking()
		entry, err := svc.StartSession(ctx, "rec-1")
		require.NoError(t, err)

		rating := 4
		repeat := true
		done, err := svc.CompleteSession(ctx, inbound.CompleteSessionCommand{
			EntryID:     entry.ID,
			Rating:      &rating,
			WouldRepeat: &repeat,
			Notes:       "le falta sal",
		})
		require.NoError(t, err)
		assert.True(t, done.Completed)
		require.NotNil(t, done.CompletedAt)
		assert.Equal(t, 4, *done.Rating)
		assert.Equal(t, "le falta sal", done.Notes)
		assert.Equal(t, 1, spy.invalidated, "completion refreshes the daily pick")
	})

	t.Run("double completion fails the precondition", func(t *testing.T) {
		svc, _, _ := newTestCooking()
		entry, err := svc.StartSession(ctx, "rec-1")
		require.NoError(t, err)

		_, err = svc.CompleteSession(ctx, inbound.CompleteSessionCommand{EntryID: entry.ID})
		require.NoError(t, err)
		_, err = svc.CompleteSession(ctx, inbound.CompleteSessionCommand{EntryID: entry.ID})
		assert.True(t, apperrors.IsCode(err, apperrors.CodePreconditionFailed))
	})

	t.Run("missing entry fails the precondition", func(t *testing.T) {
		svc, _, _ := newTestCooking()

		_, err := svc.CompleteSession(ctx, inbound.CompleteSessionCommand{EntryID: "hist-ghost"})
		assert.True(t, apperrors.IsCode(err, apperrors.CodePreconditionFailed))
	})

	t.Run("out of range rating is a validation failure", func(t *testing.T) {
		svc, _, _ := newTestCooking()
		entry, err := svc.StartSession(ctx, "rec-1")
		require.NoError(t, err)

		rating := 9
		_, err = svc.CompleteSession(ctx, inbound.CompleteSessionCommand{EntryID: entry.ID, Rating: &rating})
		assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
	})
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestCooking()

	first, err := svc.StartSession(ctx, "rec-1")
	require.NoError(t, err)
	_, err = svc.StartSession(ctx, "rec-1")
	require.NoError(t, err)

	entries, err := svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first.ID, entries[0].ID, "history keeps insertion order")
}
