// Package snapshot produces and consumes serialized per-domain snapshots of
// the store, tolerant of the historical envelope shapes backups were written
// in. Invalid records are skipped and reported, never aborting an import.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/alacena/v2/internal/application/matching"
	"github.com/alacena/v2/internal/domain/appliance"
	"github.com/alacena/v2/internal/domain/catalog"
	"github.com/alacena/v2/internal/domain/history"
	"github.com/alacena/v2/internal/domain/inventory"
	"github.com/alacena/v2/internal/domain/recipe"
	"github.com/alacena/v2/internal/infrastructure/persistence/store"
	"github.com/alacena/v2/internal/ports/inbound"
	"github.com/alacena/v2/internal/ports/outbound"
	apperrors "github.com/alacena/v2/pkg/errors"
)

// SchemaVersion is the default version stamped into export envelopes when
// the configuration does not override it
const SchemaVersion = "2.0"

// Snapshot domain keys. Each names both the import/export domain and the
// record-collection property in the envelope.
const (
	DomainIngredients    = "ingredients"
	DomainRecipes        = "recipes"
	DomainAppliances     = "appliances"
	DomainInventory      = "inventory"
	DomainUserAppliances = "userAppliances"
	DomainRecipeHistory  = "recipeHistory"
)

// Service implements the inbound snapshot port
type Service struct {
	catalogRepo       outbound.CatalogRepository
	recipeRepo        outbound.RecipeRepository
	applianceRepo     outbound.ApplianceRepository
	userApplianceRepo outbound.UserApplianceRepository
	inventoryRepo     outbound.InventoryRepository
	historyRepo       outbound.HistoryRepository
	validate          *validator.Validate
	version           string
	logger            *zap.Logger
}

// NewService creates a new snapshot service. An empty version falls back to
// the package default.
func NewService(
	catalogRepo outbound.CatalogRepository,
	recipeRepo outbound.RecipeRepository,
	applianceRepo outbound.ApplianceRepository,
	userApplianceRepo outbound.UserApplianceRepository,
	inventoryRepo outbound.InventoryRepository,
	historyRepo outbound.HistoryRepository,
	version string,
	logger *zap.Logger,
) inbound.SnapshotService {
	if version == "" {
		version = SchemaVersion
	}
	return &Service{
		catalogRepo:       catalogRepo,
		recipeRepo:        recipeRepo,
		applianceRepo:     applianceRepo,
		userApplianceRepo: userApplianceRepo,
		inventoryRepo:     inventoryRepo,
		historyRepo:       historyRepo,
		validate:          validator.New(),
		version:           version,
		logger:            logger,
	}
}

// Export wraps the full collection for a domain in the metadata envelope:
// version, export date, record count and the records keyed by the domain name.
func (s *Service) Export(ctx context.Context, domain string) ([]byte, error) {
	records, count, err := s.fetchAll(ctx, domain)
	if err != nil {
		return nil, err
	}

	envelope := map[string]interface{}{
		"version":    s.version,
		"exportDate": time.Now().Format("2006-01-02"),
		"count":      count,
		domain:       records,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to serialize snapshot").WithCause(err)
	}

	s.logger.Info("Exported snapshot",
		zap.String("domain", domain),
		zap.Int("count", count))
	return data, nil
}

// Import parses a snapshot in any accepted shape and writes its records.
// Malformed top-level JSON is a hard failure; invalid records are skipped and
// reported by input position. Replace mode clears the collection first.
func (s *Service) Import(ctx context.Context, domain string, data []byte, mode inbound.ImportMode) (*inbound.ImportResult, error) {
	raws, err := extractRecords(data, domain)
	if err != nil {
		return nil, err
	}

	var result *inbound.ImportResult
	switch domain {
	case DomainIngredients:
		result, err = runImport(ctx, raws, mode, s.checkIngredient,
			s.catalogRepo.Clear, s.catalogRepo.BulkPut)
	case DomainRecipes:
		result, err = runImport(ctx, raws, mode, s.checkRecipe,
			s.recipeRepo.Clear, s.recipeRepo.BulkPut)
	case DomainAppliances:
		result, err = runImport(ctx, raws, mode, s.checkAppliance,
			s.applianceRepo.Clear, s.applianceRepo.BulkPut)
	case DomainUserAppliances:
		result, err = runImport(ctx, raws, mode, s.checkUserAppliance,
			s.userApplianceRepo.Clear, s.userApplianceRepo.BulkPut)
	case DomainInventory:
		result, err = runImport(ctx, raws, mode, s.checkInventoryItem,
			s.inventoryRepo.Clear, s.inventoryRepo.BulkPut)
	case DomainRecipeHistory:
		result, err = runImport(ctx, raws, mode, s.checkHistoryEntry,
			s.historyRepo.Clear, s.historyRepo.BulkPut)
	default:
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("unknown snapshot domain %q", domain))
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Imported snapshot",
		zap.String("domain", domain),
		zap.String("mode", string(mode)),
		zap.Int("success", result.Success),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

// fetchAll loads the full collection for a domain as a plain slice
func (s *Service) fetchAll(ctx context.Context, domain string) (interface{}, int, error) {
	switch domain {
	case DomainIngredients:
		return wrapFetch(s.catalogRepo.FindAll(ctx))
	case DomainRecipes:
		return wrapFetch(s.recipeRepo.FindAll(ctx))
	case DomainAppliances:
		return wrapFetch(s.applianceRepo.FindAll(ctx))
	case DomainUserAppliances:
		return wrapFetch(s.userApplianceRepo.FindAll(ctx))
	case DomainInventory:
		return wrapFetch(s.inventoryRepo.FindAll(ctx))
	case DomainRecipeHistory:
		return wrapFetch(s.historyRepo.FindAll(ctx))
	default:
		return nil, 0, apperrors.NewValidationError(
			fmt.Sprintf("unknown snapshot domain %q", domain))
	}
}

func wrapFetch[T any](records []T, err error) (interface{}, int, error) {
	if err != nil {
		return nil, 0, err
	}
	if records == nil {
		// An empty collection exports as [], not null
		records = []T{}
	}
	return records, len(records), nil
}

// extractRecords accepts a bare record array, an object keyed by the domain
// name, a generic {data: [...]} envelope, or the full metadata-wrapped form,
// and returns the raw records. Anything else is a parse failure.
func extractRecords(data []byte, domainKey string) ([]json.RawMessage, error) {
	var bare []json.RawMessage
	if err := json.Unmarshal(data, &bare); err == nil {
		return bare, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, apperrors.NewParseError("malformed snapshot JSON", err)
	}

	payload, ok := envelope[domainKey]
	if !ok {
		payload, ok = envelope["data"]
	}
	if !ok {
		return nil, apperrors.NewParseError(
			fmt.Sprintf("snapshot contains neither %q nor \"data\" records", domainKey), nil)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, apperrors.NewParseError("snapshot record collection is not an array", err)
	}
	return records, nil
}

// runImport decodes, checks and writes one domain's records. Decode and shape
// failures become positional error strings; writes go through the best-effort
// bulk path so one bad record never rolls back the rest.
func runImport[T any](
	ctx context.Context,
	raws []json.RawMessage,
	mode inbound.ImportMode,
	check func(pos int, rec *T) error,
	clear func(context.Context) error,
	bulkPut func(context.Context, []T) (int, []error),
) (*inbound.ImportResult, error) {
	result := &inbound.ImportResult{Errors: []string{}}

	valid := make([]T, 0, len(raws))
	inputPos := make([]int, 0, len(raws))
	for i, raw := range raws {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("record %d: %v", i, err))
			continue
		}
		if err := check(i, &rec); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("record %d: %v", i, err))
			continue
		}
		valid = append(valid, rec)
		inputPos = append(inputPos, i)
	}

	if mode == inbound.ImportModeReplace {
		if err := clear(ctx); err != nil {
			return nil, err
		}
	}

	written, writeErrs := bulkPut(ctx, valid)
	result.Success = written
	for _, err := range writeErrs {
		// Write failures come back positioned against the filtered slice.
		// Re-point them at the original record so all errors index the input.
		var bulkErr store.BulkError
		if errors.As(err, &bulkErr) && bulkErr.Position >= 0 && bulkErr.Position < len(inputPos) {
			bulkErr.Position = inputPos[bulkErr.Position]
			err = bulkErr
		}
		result.Errors = append(result.Errors, err.Error())
	}
	return result, nil
}

// Per-domain shape checks. Each checks the minimal required shape through the
// validator and applies import-time fixups (normalized names, timestamps).

type identified struct {
	ID   string `validate:"required"`
	Name string `validate:"required"`
}

func (s *Service) checkIngredient(_ int, ing *catalog.Ingredient) error {
	if err := s.validate.Struct(identified{ID: ing.ID, Name: ing.Name}); err != nil {
		return err
	}
	if ing.NormalizedName == "" {
		ing.NormalizedName = matching.Normalize(ing.Name)
	}
	now := time.Now()
	if ing.CreatedAt.IsZero() {
		ing.CreatedAt = now
	}
	if ing.UpdatedAt.IsZero() {
		ing.UpdatedAt = now
	}
	return nil
}

func (s *Service) checkRecipe(_ int, r *recipe.Recipe) error {
	return s.validate.Struct(identified{ID: r.ID, Name: r.Name})
}

func (s *Service) checkAppliance(_ int, a *appliance.Appliance) error {
	return s.validate.Struct(identified{ID: a.ID, Name: a.Name})
}

type ownedShape struct {
	ID          string `validate:"required"`
	ApplianceID string `validate:"required"`
}

func (s *Service) checkUserAppliance(_ int, ua *appliance.UserAppliance) error {
	return s.validate.Struct(ownedShape{ID: ua.ID, ApplianceID: ua.ApplianceID})
}

type stockShape struct {
	ID           string  `validate:"required"`
	IngredientID string  `validate:"required"`
	Quantity     float64 `validate:"gte=0"`
}

func (s *Service) checkInventoryItem(_ int, item *inventory.Item) error {
	if err := s.validate.Struct(stockShape{
		ID:           item.ID,
		IngredientID: item.IngredientID,
		Quantity:     item.Quantity,
	}); err != nil {
		return err
	}
	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = now
	}
	return nil
}

type sessionShape struct {
	ID       string `validate:"required"`
	RecipeID string `validate:"required"`
	Rating   *int   `validate:"omitempty,gte=1,lte=5"`
}

func (s *Service) checkHistoryEntry(_ int, e *history.Entry) error {
	return s.validate.Struct(sessionShape{ID: e.ID, RecipeID: e.RecipeID, Rating: e.Rating})
}
