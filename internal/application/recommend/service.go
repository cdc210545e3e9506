// Package recommend ranks recipes by predicted user interest. Mode A picks a
// general daily recommendation behind a time-bounded cache; Mode B ranks
// recipes against free-text ingredient terms. Both modes are pure functions
// of the store's state at call time plus the cache record itself.
package recommend

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/alacena/v2/internal/domain/history"
	"github.com/alacena/v2/internal/domain/inventory"
	"github.com/alacena/v2/internal/domain/recipe"
	"github.com/alacena/v2/internal/domain/recommendation"
	"github.com/alacena/v2/internal/infrastructure/config"
	"github.com/alacena/v2/internal/ports/inbound"
	"github.com/alacena/v2/internal/ports/outbound"
)

// Fallback tuning used when the configuration leaves a knob unset
const (
	defaultCacheTTL        = 24 * time.Hour
	defaultRecencyWindow   = 7 * 24 * time.Hour
	defaultMinHistory      = 3
	neutralRating          = 0.5
	matchPercentageCutoff  = 0.5
	recentHistoryPenalty   = 0.3
	exactMatchBonusPerTerm = 0.1
	specificMatchCap       = 1.5
)

// Service implements the inbound recommendation port
type Service struct {
	recipeRepo    outbound.RecipeRepository
	catalogRepo   outbound.CatalogRepository
	inventoryRepo outbound.InventoryRepository
	historyRepo   outbound.HistoryRepository
	cacheRepo     outbound.RecommendationCacheRepository
	cfg           config.RecommendationConfig
	rng           *rand.Rand
	logger        *zap.Logger
}

// NewService creates a new recommendation service
func NewService(
	recipeRepo outbound.RecipeRepository,
	catalogRepo outbound.CatalogRepository,
	inventoryRepo outbound.InventoryRepository,
	historyRepo outbound.HistoryRepository,
	cacheRepo outbound.RecommendationCacheRepository,
	cfg config.RecommendationConfig,
	logger *zap.Logger,
) inbound.RecommendationService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.RecencyWindow <= 0 {
		cfg.RecencyWindow = defaultRecencyWindow
	}
	if cfg.MinHistoryEntries <= 0 {
		cfg.MinHistoryEntries = defaultMinHistory
	}
	return &Service{
		recipeRepo:    recipeRepo,
		catalogRepo:   catalogRepo,
		inventoryRepo: inventoryRepo,
		historyRepo:   historyRepo,
		cacheRepo:     cacheRepo,
		cfg:           cfg,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:        logger,
	}
}

// Daily returns the general daily recommendation. A cached pick younger than
// the TTL is served as-is unless its recipe was deleted since caching, in
// which case the pick is regenerated. With thin history or an empty pantry
// the pick is uniform random among recipes not cooked recently, with all
// factors zeroed; otherwise recipes are ranked by the weighted factor model.
// An empty recipe set yields a nil result, not an error.
func (s *Service) Daily(ctx context.Context) (*inbound.DailyRecommendation, error) {
	now := time.Now()

	cached, err := s.cacheRepo.Find(ctx, recommendation.DailyKey)
	if err != nil {
		return nil, err
	}
	if cached != nil && !cached.Expired(s.cfg.CacheTTL, now) {
		r, err := s.recipeRepo.FindByID(ctx, cached.RecipeID)
		if err != nil {
			return nil, err
		}
		if r != nil {
			s.logger.Debug("Serving cached daily recommendation",
				zap.String("recipe_id", r.ID),
				zap.Time("generated_at", cached.GeneratedAt))
			return &inbound.DailyRecommendation{Recipe: *r, Factors: cached.Factors, Cached: true}, nil
		}
		// Recipe deleted since caching; regenerate
	}

	recipes, err := s.recipeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		s.logger.Debug("No recipes available for daily recommendation")
		return nil, nil
	}

	entries, err := s.historyRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.inventoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := buildHistoryStats(entries)
	var pick recipe.Recipe
	var factors recommendation.Factors

	if stats.completed < s.cfg.MinHistoryEntries || len(items) == 0 {
		pool := s.notRecentlyCooked(recipes, stats, now)
		if len(pool) == 0 {
			pool = recipes
		}
		pick = pool[s.rng.Intn(len(pool))]
		s.logger.Debug("Daily recommendation via random fallback",
			zap.Int("completed_history", stats.completed),
			zap.Int("inventory_items", len(items)),
			zap.String("recipe_id", pick.ID))
	} else {
		have := inventorySet(items)
		ranked := make([]recipe.Recipe, len(recipes))
		copy(ranked, recipes)
		byID := make(map[string]recommendation.Factors, len(recipes))
		for _, r := range recipes {
			byID[r.ID] = s.dailyFactors(r, have, stats)
		}
		sort.SliceStable(ranked, func(i, j int) bool {
			return byID[ranked[i].ID].FinalScore > byID[ranked[j].ID].FinalScore
		})

		pool := s.notRecentlyCooked(ranked, stats, now)
		if len(pool) == 0 {
			pool = ranked
		}
		pick = pool[0]
		factors = byID[pick.ID]
	}

	if err := s.cacheRepo.Put(ctx, recommendation.Cached{
		Key:         recommendation.DailyKey,
		RecipeID:    pick.ID,
		Factors:     factors,
		GeneratedAt: now,
	}); err != nil {
		return nil, err
	}

	return &inbound.DailyRecommendation{Recipe: pick, Factors: factors, Cached: false}, nil
}

// Invalidate discards the cached daily recommendation
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cacheRepo.Invalidate(ctx, recommendation.DailyKey)
}

// historyStats aggregates completed cooking sessions per recipe
type historyStats struct {
	completed     int
	timesCooked   map[string]int
	maxCooked     int
	ratingSum     map[string]float64
	ratingCount   map[string]int
	lastCompleted map[string]time.Time
}

func buildHistoryStats(entries []history.Entry) historyStats {
	stats := historyStats{
		timesCooked:   map[string]int{},
		ratingSum:     map[string]float64{},
		ratingCount:   map[string]int{},
		lastCompleted: map[string]time.Time{},
	}
	for _, e := range entries {
		if !e.Completed {
			continue
		}
		stats.completed++
		stats.timesCooked[e.RecipeID]++
		if stats.timesCooked[e.RecipeID] > stats.maxCooked {
			stats.maxCooked = stats.timesCooked[e.RecipeID]
		}
		if e.Rating != nil {
			stats.ratingSum[e.RecipeID] += float64(*e.Rating)
			stats.ratingCount[e.RecipeID]++
		}
		if e.CompletedAt != nil && e.CompletedAt.After(stats.lastCompleted[e.RecipeID]) {
			stats.lastCompleted[e.RecipeID] = *e.CompletedAt
		}
	}
	return stats
}

// ratingScore is the recipe's average historical rating on a 0..1 scale,
// neutral when never rated
func (st historyStats) ratingScore(recipeID string) float64 {
	if st.ratingCount[recipeID] == 0 {
		return neutralRating
	}
	return st.ratingSum[recipeID] / float64(st.ratingCount[recipeID]) / 5
}

func (st historyStats) cookedWithin(recipeID string, window time.Duration, now time.Time) bool {
	last, ok := st.lastCompleted[recipeID]
	return ok && last.After(now.Add(-window))
}

// notRecentlyCooked filters out recipes completed inside the recency window,
// preserving input order
func (s *Service) notRecentlyCooked(recipes []recipe.Recipe, stats historyStats, now time.Time) []recipe.Recipe {
	out := make([]recipe.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if !stats.cookedWithin(r.ID, s.cfg.RecencyWindow, now) {
			out = append(out, r)
		}
	}
	return out
}

// dailyFactors computes the weighted Mode A factor breakdown for one recipe
func (s *Service) dailyFactors(r recipe.Recipe, have map[string]bool, stats historyStats) recommendation.Factors {
	f := recommendation.Factors{
		InventoryMatch: inventoryMatch(r, have),
		RatingScore:    stats.ratingScore(r.ID),
		FrequencyScore: 1,
	}
	if stats.maxCooked > 0 {
		f.FrequencyScore = 1 - float64(stats.timesCooked[r.ID])/float64(stats.maxCooked)
	}
	f.FinalScore = 0.5*f.InventoryMatch + 0.3*f.RatingScore + 0.2*f.FrequencyScore
	return f
}

// inventorySet collects the ingredient ids present in the pantry
func inventorySet(items []inventory.Item) map[string]bool {
	have := make(map[string]bool, len(items))
	for _, item := range items {
		if !item.IsDepleted() {
			have[item.IngredientID] = true
		}
	}
	return have
}

// inventoryMatch is the fraction of the recipe's ingredient references
// present in the pantry. Optional ingredients count the same as required
// ones here; dangling references simply score as absent.
func inventoryMatch(r recipe.Recipe, have map[string]bool) float64 {
	if len(r.Ingredients) == 0 {
		return 0
	}
	present := 0
	for _, ing := range r.Ingredients {
		if have[ing.IngredientID] {
			present++
		}
	}
	return float64(present) / float64(len(r.Ingredients))
}
