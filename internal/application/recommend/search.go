package recommend

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alacena/v2/internal/application/matching"
	"github.com/alacena/v2/internal/domain/catalog"
	"github.com/alacena/v2/internal/domain/inventory"
	"github.com/alacena/v2/internal/domain/recipe"
	"github.com/alacena/v2/internal/ports/inbound"
)

// Graded specific-match scores per (recipe ingredient, search term) pairing.
// Exact hits outrank partial containment hits.
const (
	gradeExactID         = 1.5
	gradeExactName       = 1.2
	gradeExactSynonym    = 1.0
	gradePartialName     = 0.6
	gradePartialNormName = 0.5
	gradePartialSynonym  = 0.4
)

// searchTerm is one input term in raw and normalized form
type searchTerm struct {
	raw        string
	normalized string
}

// Search ranks recipes against free-text ingredient terms. Hard filters
// apply first, then per-ingredient graded matching; recipes covering less
// than half of their ingredient list are dropped. Results sort by match
// percentage, then by score; ties keep recipe insertion order.
func (s *Service) Search(ctx context.Context, query inbound.SearchQuery) ([]inbound.SearchResult, error) {
	terms := cleanTerms(query.Terms)
	if len(terms) == 0 {
		return []inbound.SearchResult{}, nil
	}

	recipes, err := s.recipeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.catalogRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.inventoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := s.historyRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	pool := hardFilter(recipes, query)
	resolved := resolveTerms(terms)
	catalogByID := make(map[string]catalog.Ingredient, len(entries))
	for _, e := range entries {
		catalogByID[e.ID] = e
	}
	have := inventorySet(items)
	stats := buildHistoryStats(sessions)
	now := time.Now()

	results := make([]inbound.SearchResult, 0, len(pool))
	for _, r := range pool {
		specific, matched, exactTerms := specificMatch(r, resolved, catalogByID)
		if len(r.Ingredients) == 0 {
			continue
		}
		matchPercentage := float64(matched) / float64(len(r.Ingredients))
		if matchPercentage < matchPercentageCutoff {
			continue
		}

		historyScore := stats.ratingScore(r.ID)
		if stats.cookedWithin(r.ID, s.cfg.RecencyWindow, now) {
			historyScore *= recentHistoryPenalty
		}

		score := 0.7*specific +
			0.15*inventoryMatch(r, have) +
			0.1*historyScore +
			0.05*freshness(r, items, now)
		score += exactMatchBonusPerTerm * float64(exactTerms) / float64(len(resolved))

		results = append(results, inbound.SearchResult{
			Recipe:          r,
			Score:           score,
			MatchPercentage: matchPercentage,
			ExactMatches:    exactTerms,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].MatchPercentage != results[j].MatchPercentage {
			return results[i].MatchPercentage > results[j].MatchPercentage
		}
		return results[i].Score > results[j].Score
	})

	s.logger.Debug("Ingredient search completed",
		zap.Strings("terms", terms),
		zap.Int("pool", len(pool)),
		zap.Int("results", len(results)))
	return results, nil
}

func cleanTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if strings.TrimSpace(t) != "" {
			out = append(out, t)
		}
	}
	return out
}

// hardFilter drops recipes over the time limit or off the requested
// difficulty before any scoring happens
func hardFilter(recipes []recipe.Recipe, query inbound.SearchQuery) []recipe.Recipe {
	out := make([]recipe.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if query.MaxTime > 0 && r.TimeMinutes > query.MaxTime {
			continue
		}
		if query.Difficulty != "" && r.Difficulty != query.Difficulty {
			continue
		}
		out = append(out, r)
	}
	return out
}

// resolveTerms normalizes every input term once up front so the grading
// loop never re-normalizes per pairing
func resolveTerms(terms []string) []searchTerm {
	resolved := make([]searchTerm, len(terms))
	for i, t := range terms {
		resolved[i] = searchTerm{
			raw:        strings.TrimSpace(t),
			normalized: matching.Normalize(t),
		}
	}
	return resolved
}

// specificMatch grades every (recipe ingredient, term) pairing, keeps the
// best pairing per recipe ingredient, sums and normalizes by the term count.
// It reports the capped score, how many recipe ingredients matched at all,
// and how many terms landed an exact (non-partial) hit.
func specificMatch(r recipe.Recipe, terms []searchTerm, catalogByID map[string]catalog.Ingredient) (float64, int, int) {
	sum := 0.0
	matched := 0
	exactByTerm := make([]bool, len(terms))

	for _, ing := range r.Ingredients {
		best := 0.0
		bestTerm := -1
		bestExact := false
		for ti, term := range terms {
			grade, exact := gradePairing(term, ing, catalogByID)
			if grade > best {
				best = grade
				bestTerm = ti
				bestExact = exact
			}
		}
		if best > 0 {
			sum += best
			matched++
			if bestExact {
				exactByTerm[bestTerm] = true
			}
		}
	}

	score := sum / float64(len(terms))
	if score > specificMatchCap {
		score = specificMatchCap
	}
	exactTerms := 0
	for _, hit := range exactByTerm {
		if hit {
			exactTerms++
		}
	}
	return score, matched, exactTerms
}

// gradePairing scores one recipe ingredient against one search term. The
// containment grades are intentionally permissive so partial voice or
// camera-derived terms still land a match, just a weaker one.
func gradePairing(term searchTerm, ing recipe.Ingredient, catalogByID map[string]catalog.Ingredient) (float64, bool) {
	if ing.IngredientID != "" && term.raw == ing.IngredientID {
		return gradeExactID, true
	}
	if term.normalized == "" {
		return 0, false
	}

	ingName := strings.ToLower(ing.Name)
	ingNormalized := matching.Normalize(ing.Name)
	entry, hasEntry := catalogByID[ing.IngredientID]

	if term.normalized == ingNormalized ||
		(hasEntry && term.normalized == entry.NormalizedName) {
		return gradeExactName, true
	}
	if hasEntry {
		for _, syn := range entry.Synonyms {
			if term.normalized == matching.Normalize(syn) {
				return gradeExactSynonym, true
			}
		}
	}
	if strings.Contains(ingName, term.normalized) ||
		(hasEntry && strings.Contains(strings.ToLower(entry.Name), term.normalized)) {
		return gradePartialName, false
	}
	if strings.Contains(ingNormalized, term.normalized) ||
		(hasEntry && strings.Contains(entry.NormalizedName, term.normalized)) {
		return gradePartialNormName, false
	}
	if hasEntry {
		for _, syn := range entry.Synonyms {
			if strings.Contains(matching.Normalize(syn), term.normalized) {
				return gradePartialSynonym, false
			}
		}
	}
	return 0, false
}

// freshness scores how much of the recipe's pantry coverage is unexpired:
// the fraction of its ingredients holding at least one non-expired inventory
// item. A recipe with no pantry coverage scores neutral.
func freshness(r recipe.Recipe, items []inventory.Item, now time.Time) float64 {
	if len(r.Ingredients) == 0 {
		return 0
	}
	byIngredient := make(map[string][]inventory.Item)
	for _, item := range items {
		byIngredient[item.IngredientID] = append(byIngredient[item.IngredientID], item)
	}

	covered := 0
	fresh := 0
	for _, ing := range r.Ingredients {
		batches := byIngredient[ing.IngredientID]
		if len(batches) == 0 {
			continue
		}
		covered++
		for _, b := range batches {
			if b.ExpiresAt == nil || b.ExpiresAt.After(now) {
				fresh++
				break
			}
		}
	}
	if covered == 0 {
		return neutralRating
	}
	return float64(fresh) / float64(covered)
}
