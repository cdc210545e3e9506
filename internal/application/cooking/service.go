// Package cooking manages cooking session history: starting a session when
// the user begins a recipe and finalizing it exactly once on completion.
package cooking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alacena/v2/internal/domain/history"
	"github.com/alacena/v2/internal/ports/inbound"
	"github.com/alacena/v2/internal/ports/outbound"
	apperrors "github.com/alacena/v2/pkg/errors"
)

// Service implements the inbound cooking port
type Service struct {
	historyRepo outbound.HistoryRepository
	recipeRepo  outbound.RecipeRepository
	recommender inbound.RecommendationService
	logger      *zap.Logger
}

// NewService creates a new cooking service. Completing a session invalidates
// the daily recommendation so the next pick reflects the new history.
func NewService(
	historyRepo outbound.HistoryRepository,
	recipeRepo outbound.RecipeRepository,
	recommender inbound.RecommendationService,
	logger *zap.Logger,
) inbound.CookingService {
	return &Service{
		historyRepo: historyRepo,
		recipeRepo:  recipeRepo,
		recommender: recommender,
		logger:      logger,
	}
}

// StartSession opens a history entry for the recipe. The recipe must exist.
func (s *Service) StartSession(ctx context.Context, recipeID string) (*history.Entry, error) {
	r, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperrors.NewPreconditionError(
			fmt.Sprintf("recipe %s does not exist", recipeID))
	}

	entry, err := history.Start(uuid.New().String(), recipeID, time.Now())
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error()).WithCause(err)
	}
	stored, err := s.historyRepo.Put(ctx, *entry)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cooking session started",
		zap.String("entry_id", stored.ID),
		zap.String("recipe_id", recipeID))
	return &stored, nil
}

// CompleteSession finalizes a session exactly once. Completing a missing or
// already-completed entry fails the precondition; an out-of-range rating is
// a validation failure.
func (s *Service) CompleteSession(ctx context.Context, cmd inbound.CompleteSessionCommand) (*history.Entry, error) {
	entry, err := s.historyRepo.FindByID(ctx, cmd.EntryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, apperrors.NewPreconditionError(
			fmt.Sprintf("history entry %s does not exist", cmd.EntryID))
	}

	if err := entry.Complete(cmd.Rating, cmd.WouldRepeat, cmd.Notes, time.Now()); err != nil {
		switch err {
		case history.ErrAlreadyCompleted:
			return nil, apperrors.NewPreconditionError(
				fmt.Sprintf("history entry %s is already completed", entry.ID))
		case history.ErrInvalidRating:
			return nil, apperrors.NewValidationError("rating must be between 1 and 5").WithCause(err)
		default:
			return nil, err
		}
	}

	stored, err := s.historyRepo.Put(ctx, *entry)
	if err != nil {
		return nil, err
	}

	if s.recommender != nil {
		if err := s.recommender.Invalidate(ctx); err != nil {
			s.logger.Warn("Failed to invalidate daily recommendation", zap.Error(err))
		}
	}

	s.logger.Info("Cooking session completed",
		zap.String("entry_id", stored.ID),
		zap.String("recipe_id", stored.RecipeID))
	return &stored, nil
}

// History returns every session, in-progress and completed
func (s *Service) History(ctx context.Context) ([]history.Entry, error) {
	return s.historyRepo.FindAll(ctx)
}
