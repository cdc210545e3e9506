// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"time"

	"github.com/alacena/v2/internal/application/matching"
	"github.com/alacena/v2/internal/domain/catalog"
	"github.com/alacena/v2/internal/domain/history"
	"github.com/alacena/v2/internal/domain/inventory"
	"github.com/alacena/v2/internal/domain/location"
	"github.com/alacena/v2/internal/domain/recipe"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

// IngredientBuilder provides a fluent interface for building catalog entries
type IngredientBuilder struct {
	entry catalog.Ingredient
}

// NewIngredientBuilder creates a builder with faked default values
func NewIngredientBuilder() *IngredientBuilder {
	faker := gofakeit.New(time.Now().UnixNano())
	name := faker.Fruit()
	now := time.Now().UTC()

	return &IngredientBuilder{
		entry: catalog.Ingredient{
			ID:             uuid.New().String(),
			Name:           name,
			NormalizedName: matching.Normalize(name),
			Category:       catalog.CategoryFruit,
			DefaultUnit:    "pieza",
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}
}

// WithID sets the entry id
func (b *IngredientBuilder) WithID(id string) *IngredientBuilder {
	b.entry.ID = id
	return b
}

// WithName sets the display name and recomputes the normalized form
func (b *IngredientBuilder) WithName(name string) *IngredientBuilder {
	b.entry.Name = name
	b.entry.NormalizedName = matching.Normalize(name)
	return b
}

// WithSynonyms sets the synonym list
func (b *IngredientBuilder) WithSynonyms(synonyms ...string) *IngredientBuilder {
	b.entry.Synonyms = synonyms
	return b
}

// WithCategory sets the category
func (b *IngredientBuilder) WithCategory(category catalog.Category) *IngredientBuilder {
	b.entry.Category = category
	return b
}

// WithDefaultUnit sets the default measurement unit
func (b *IngredientBuilder) WithDefaultUnit(unit string) *IngredientBuilder {
	b.entry.DefaultUnit = unit
	return b
}

// Build returns the assembled catalog entry
func (b *IngredientBuilder) Build() catalog.Ingredient {
	return b.entry
}

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	rec recipe.Recipe
}

// NewRecipeBuilder creates a builder with faked default values
func NewRecipeBuilder() *RecipeBuilder {
	faker := gofakeit.New(time.Now().UnixNano())

	return &RecipeBuilder{
		rec: recipe.Recipe{
			ID:          uuid.New().String(),
			Name:        faker.Dinner(),
			Description: faker.Sentence(8),
			Steps: []recipe.Step{
				{Instruction: faker.Sentence(6), DurationMinutes: 5},
				{Instruction: faker.Sentence(6), DurationMinutes: 10},
			},
			Servings:    4,
			TimeMinutes: 30,
			Difficulty:  recipe.DifficultyMedium,
		},
	}
}

// WithID sets the recipe id
func (b *RecipeBuilder) WithID(id string) *RecipeBuilder {
	b.rec.ID = id
	return b
}

// WithName sets the recipe name
func (b *RecipeBuilder) WithName(name string) *RecipeBuilder {
	b.rec.Name = name
	return b
}

// WithIngredient appends an ingredient reference
func (b *RecipeBuilder) WithIngredient(ingredientID, name string, amount float64, unit string) *RecipeBuilder {
	b.rec.Ingredients = append(b.rec.Ingredients, recipe.Ingredient{
		IngredientID: ingredientID,
		Name:         name,
		Amount:       amount,
		Unit:         unit,
	})
	return b
}

// WithDifficulty sets the difficulty level
func (b *RecipeBuilder) WithDifficulty(d recipe.Difficulty) *RecipeBuilder {
	b.rec.Difficulty = d
	return b
}

// WithTime sets the total preparation time in minutes
func (b *RecipeBuilder) WithTime(minutes int) *RecipeBuilder {
	b.rec.TimeMinutes = minutes
	return b
}

// WithTags sets the tag list
func (b *RecipeBuilder) WithTags(tags ...string) *RecipeBuilder {
	b.rec.Tags = tags
	return b
}

// Build returns the assembled recipe
func (b *RecipeBuilder) Build() recipe.Recipe {
	return b.rec
}

// ItemBuilder provides a fluent interface for building inventory batches
type ItemBuilder struct {
	item inventory.Item
}

// NewItemBuilder creates a builder with default values for the given ingredient
func NewItemBuilder(ingredientID string) *ItemBuilder {
	now := time.Now().UTC()

	return &ItemBuilder{
		item: inventory.Item{
			ID:           uuid.New().String(),
			IngredientID: ingredientID,
			Quantity:     1,
			Unit:         "pieza",
			LocationID:   location.DefaultPantryID,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
}

// WithQuantity sets the batch quantity
func (b *ItemBuilder) WithQuantity(quantity float64) *ItemBuilder {
	b.item.Quantity = quantity
	return b
}

// WithUnit sets the measurement unit
func (b *ItemBuilder) WithUnit(unit string) *ItemBuilder {
	b.item.Unit = unit
	return b
}

// WithLocation sets the storage location
func (b *ItemBuilder) WithLocation(locationID string) *ItemBuilder {
	b.item.LocationID = locationID
	return b
}

// WithExpiration sets the expiration date
func (b *ItemBuilder) WithExpiration(at time.Time) *ItemBuilder {
	b.item.ExpiresAt = &at
	return b
}

// WithLowStockThreshold sets the low stock alert level
func (b *ItemBuilder) WithLowStockThreshold(threshold float64) *ItemBuilder {
	b.item.LowStockThreshold = &threshold
	return b
}

// Build returns the assembled inventory item
func (b *ItemBuilder) Build() inventory.Item {
	return b.item
}

// CompletedEntry creates a finished cooking session for the given recipe
func CompletedEntry(recipeID string, rating int, completedAt time.Time) history.Entry {
	started := completedAt.Add(-45 * time.Minute)
	done := completedAt

	return history.Entry{
		ID:          uuid.New().String(),
		RecipeID:    recipeID,
		StartedAt:   started,
		CompletedAt: &done,
		Completed:   true,
		Rating:      &rating,
	}
}
