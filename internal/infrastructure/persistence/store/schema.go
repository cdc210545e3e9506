package store

// Collection names used by the application
const (
	CollectionIngredients         = "ingredients"
	CollectionInventory           = "inventory"
	CollectionRecipes             = "recipes"
	CollectionAppliances          = "appliances"
	CollectionUserAppliances      = "userAppliances"
	CollectionLocations           = "locations"
	CollectionRecipeHistory       = "recipeHistory"
	CollectionRecommendationCache = "recommendationCache"
)

// AppSchema declares every collection the application uses. EnsureSchema is
// idempotent, so this runs unconditionally on startup; only missing
// collections and indexes are created.
func AppSchema() []CollectionSpec {
	return []CollectionSpec{
		{
			Name: CollectionIngredients,
			Indexes: []IndexSpec{
				{Name: "normalizedName"},
				{Name: "category"},
			},
		},
		{
			Name: CollectionInventory,
			Indexes: []IndexSpec{
				{Name: "ingredientId"},
				{Name: "locationId"},
			},
		},
		{
			Name: CollectionRecipes,
			Indexes: []IndexSpec{
				{Name: "difficulty"},
			},
		},
		{
			Name: CollectionAppliances,
			Indexes: []IndexSpec{
				{Name: "type"},
			},
		},
		{
			Name: CollectionUserAppliances,
			Indexes: []IndexSpec{
				{Name: "applianceId"},
			},
		},
		{
			Name: CollectionLocations,
			Indexes: []IndexSpec{
				// The only unique secondary index in the schema
				{Name: "name", Unique: true},
			},
		},
		{
			Name: CollectionRecipeHistory,
			Indexes: []IndexSpec{
				{Name: "recipeId"},
			},
		},
		{
			Name: CollectionRecommendationCache,
		},
	}
}
