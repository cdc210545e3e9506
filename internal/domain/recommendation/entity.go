// Package recommendation holds the persisted recommendation cache record.
package recommendation

import "time"

// DailyKey is the cache key for the general daily recommendation
const DailyKey = "daily"

// Cached is a singleton-per-key record holding the chosen recipe, the
// factor breakdown it was scored with, and the generation timestamp.
type Cached struct {
	Key         string    `json:"key"`
	RecipeID    string    `json:"recipeId"`
	Factors     Factors   `json:"factors"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Factors is the score breakdown for a recommended recipe. The random
// fallback path stores all zeros.
type Factors struct {
	InventoryMatch float64 `json:"inventoryMatch"`
	RatingScore    float64 `json:"ratingScore"`
	FrequencyScore float64 `json:"frequencyScore"`
	FinalScore     float64 `json:"finalScore"`
}

// Expired reports whether the record's age exceeds the given time-to-live
func (c Cached) Expired(ttl time.Duration, now time.Time) bool {
	return now.Sub(c.GeneratedAt) > ttl
}
