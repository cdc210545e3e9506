// Package recipe contains the read-mostly recipe records. Recipes are
// mutated only by import; the cooking flow reads them.
package recipe

import (
	"strings"
)

// Recipe represents a recipe record
type Recipe struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []Step       `json:"steps"`
	Servings    int          `json:"servings"`
	TimeMinutes int          `json:"timeMinutes"`
	Difficulty  Difficulty   `json:"difficulty"`
	Tags        []string     `json:"tags,omitempty"`
}

// Ingredient references a catalog entry required by a recipe. Name carries
// the display text used when the reference does not resolve.
type Ingredient struct {
	IngredientID string  `json:"ingredientId"`
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	Unit         string  `json:"unit"`
	Optional     bool    `json:"optional,omitempty"`
}

// Step is one ordered cooking instruction
type Step struct {
	Instruction     string   `json:"instruction"`
	DurationMinutes int      `json:"durationMinutes,omitempty"`
	Tip             string   `json:"tip,omitempty"`
	Warning         string   `json:"warning,omitempty"`
	Capabilities    []string `json:"capabilities,omitempty"`
}

// Difficulty represents recipe difficulty
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Validate validates the recipe record
func (r Recipe) Validate() error {
	if r.ID == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrMissingName
	}
	if len(r.Ingredients) == 0 {
		return ErrNoIngredients
	}
	for _, step := range r.Steps {
		if strings.TrimSpace(step.Instruction) == "" {
			return ErrEmptyStep
		}
	}
	return nil
}

// RequiredIngredients returns the non-optional ingredient references
func (r Recipe) RequiredIngredients() []Ingredient {
	required := make([]Ingredient, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if !ing.Optional {
			required = append(required, ing)
		}
	}
	return required
}
