package matching

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/alacena/v2/internal/domain/catalog"
	"github.com/alacena/v2/internal/ports/inbound"
	"github.com/alacena/v2/internal/ports/outbound"
)

// DefaultThreshold is the fuzzy search cutoff applied when a caller passes
// a non-positive threshold.
const DefaultThreshold = 0.6

// defaultResolutionTTL bounds how long a resolved name stays memoized.
// Catalog edits become visible once the entry expires.
const defaultResolutionTTL = 10 * time.Minute

// MatcherService implements the inbound matcher port against the ingredient
// catalog repository. Resolved names are memoized through the cache port so
// repeated lookups of the same free text skip the catalog scan.
type MatcherService struct {
	catalogRepo outbound.CatalogRepository
	cache       outbound.CacheRepository
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewMatcherService creates a new matcher service. A nil cache disables
// memoization; a non-positive TTL uses the package default.
func NewMatcherService(catalogRepo outbound.CatalogRepository, cache outbound.CacheRepository, cacheTTL time.Duration, logger *zap.Logger) inbound.MatcherService {
	if cacheTTL <= 0 {
		cacheTTL = defaultResolutionTTL
	}
	return &MatcherService{
		catalogRepo: catalogRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// Normalize canonicalizes an ingredient name for comparison
func (s *MatcherService) Normalize(text string) string {
	return Normalize(text)
}

// Similarity scores two ingredient names in [0, 1]
func (s *MatcherService) Similarity(a, b string) float64 {
	return Similarity(a, b)
}

// FindExisting resolves a free-text name to a catalog entry, checking in
// priority order: exact normalized-name match, synonym-group equivalence,
// then synonym overlap against each entry's synonym list. A miss returns
// nil without error so callers can distinguish "new ingredient" from
// storage failure.
func (s *MatcherService) FindExisting(ctx context.Context, name string) (*catalog.Ingredient, error) {
	normalized := Normalize(name)
	if normalized == "" {
		return nil, nil
	}

	if hit := s.cachedResolution(ctx, normalized); hit != nil {
		return hit, nil
	}

	entries, err := s.catalogRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	// Exact normalized-name match wins over any synonym equivalence.
	for i := range entries {
		if entries[i].NormalizedName == normalized {
			s.memoizeResolution(ctx, normalized, entries[i])
			return &entries[i], nil
		}
	}

	key := canonicalKey(normalized)
	for i := range entries {
		if canonicalKey(entries[i].NormalizedName) == key {
			s.logger.Debug("Resolved ingredient through synonym group",
				zap.String("input", name),
				zap.String("canonical", key),
				zap.String("matched", entries[i].Name))
			s.memoizeResolution(ctx, normalized, entries[i])
			return &entries[i], nil
		}
	}

	for i := range entries {
		for _, syn := range entries[i].Synonyms {
			if sameSynonymGroup(Normalize(syn), normalized) {
				s.logger.Debug("Resolved ingredient through synonym overlap",
					zap.String("input", name),
					zap.String("synonym", syn),
					zap.String("matched", entries[i].Name))
				s.memoizeResolution(ctx, normalized, entries[i])
				return &entries[i], nil
			}
		}
	}

	return nil, nil
}

// cachedResolution returns a memoized resolution for the normalized name.
// Cache failures are treated as misses.
func (s *MatcherService) cachedResolution(ctx context.Context, normalized string) *catalog.Ingredient {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, resolutionKey(normalized))
	if err != nil || data == nil {
		return nil
	}
	var entry catalog.Ingredient
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}
	return &entry
}

func (s *MatcherService) memoizeResolution(ctx context.Context, normalized string, entry catalog.Ingredient) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, resolutionKey(normalized), data, s.cacheTTL); err != nil {
		s.logger.Debug("Failed to memoize ingredient resolution", zap.Error(err))
	}
}

func resolutionKey(normalized string) string {
	return "match:" + normalized
}

// FuzzySearch scores every catalog entry against the term, taking the best
// of the display-name score and each synonym's score, and returns entries at
// or above the threshold in descending score order. Equal scores keep the
// catalog's insertion order.
func (s *MatcherService) FuzzySearch(ctx context.Context, term string, threshold float64) ([]inbound.FuzzyMatch, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	entries, err := s.catalogRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]inbound.FuzzyMatch, 0, len(entries))
	for _, entry := range entries {
		score := Similarity(term, entry.Name)
		for _, syn := range entry.Synonyms {
			if synScore := Similarity(term, syn); synScore > score {
				score = synScore
			}
		}
		if score >= threshold {
			matches = append(matches, inbound.FuzzyMatch{Ingredient: entry, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	s.logger.Debug("Fuzzy search completed",
		zap.String("term", term),
		zap.Float64("threshold", threshold),
		zap.Int("catalog_size", len(entries)),
		zap.Int("matches", len(matches)))

	return matches, nil
}
