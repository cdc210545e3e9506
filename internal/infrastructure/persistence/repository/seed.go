package repository

import (
	"context"
	"time"

	"github.com/alacena/v2/internal/application/matching"
	"github.com/alacena/v2/internal/domain/catalog"
	"github.com/alacena/v2/internal/domain/location"
	"github.com/alacena/v2/internal/ports/outbound"
	"go.uber.org/zap"
)

// SeedLocations writes the default storage areas if the collection is empty.
// Safe to run on every startup.
func SeedLocations(ctx context.Context, repo outbound.LocationRepository, logger *zap.Logger) error {
	existing, err := repo.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, loc := range location.Defaults() {
		if _, err := repo.Put(ctx, loc); err != nil {
			return err
		}
	}
	logger.Info("Seeded default storage locations", zap.Int("count", len(location.Defaults())))
	return nil
}

// SeedCatalog writes a starter ingredient catalog if the collection is empty
func SeedCatalog(ctx context.Context, repo outbound.CatalogRepository, logger *zap.Logger) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	starters := []struct {
		id       string
		name     string
		synonyms []string
		category catalog.Category
		unit     string
	}{
		{"ing-tomate", "Tomate", []string{"jitomate"}, catalog.CategoryVegetable, "pieza"},
		{"ing-cebolla", "Cebolla", nil, catalog.CategoryVegetable, "pieza"},
		{"ing-ajo", "Ajo", nil, catalog.CategoryVegetable, "diente"},
		{"ing-patata", "Patata", []string{"papa"}, catalog.CategoryVegetable, "pieza"},
		{"ing-zanahoria", "Zanahoria", nil, catalog.CategoryVegetable, "pieza"},
		{"ing-pimiento", "Pimiento", []string{"chile morrón"}, catalog.CategoryVegetable, "pieza"},
		{"ing-aguacate", "Aguacate", []string{"palta"}, catalog.CategoryFruit, "pieza"},
		{"ing-limon", "Limón", nil, catalog.CategoryFruit, "pieza"},
		{"ing-manzana", "Manzana", nil, catalog.CategoryFruit, "pieza"},
		{"ing-arroz", "Arroz", nil, catalog.CategoryGrain, "g"},
		{"ing-pasta", "Pasta", nil, catalog.CategoryGrain, "g"},
		{"ing-pan", "Pan", nil, catalog.CategoryGrain, "pieza"},
		{"ing-huevo", "Huevo", nil, catalog.CategoryDairy, "pieza"},
		{"ing-leche", "Leche", nil, catalog.CategoryDairy, "ml"},
		{"ing-queso", "Queso", nil, catalog.CategoryDairy, "g"},
		{"ing-pollo", "Pollo", nil, catalog.CategoryMeat, "g"},
		{"ing-res", "Res", []string{"carne de res"}, catalog.CategoryMeat, "g"},
		{"ing-frijol", "Frijol", []string{"judía", "alubia"}, catalog.CategoryLegume, "g"},
		{"ing-lenteja", "Lenteja", nil, catalog.CategoryLegume, "g"},
		{"ing-aceite", "Aceite de oliva", nil, catalog.CategoryCondiment, "ml"},
		{"ing-sal", "Sal", nil, catalog.CategoryCondiment, "g"},
	}

	entries := make([]catalog.Ingredient, len(starters))
	for i, s := range starters {
		entries[i] = catalog.Ingredient{
			ID:             s.id,
			Name:           s.name,
			NormalizedName: matching.Normalize(s.name),
			Synonyms:       s.synonyms,
			Category:       s.category,
			DefaultUnit:    s.unit,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
	}

	written, errs := repo.BulkPut(ctx, entries)
	for _, err := range errs {
		logger.Warn("Starter catalog entry rejected", zap.Error(err))
	}
	logger.Info("Seeded starter catalog", zap.Int("count", written))
	return nil
}
