// Package container provides dependency injection using Uber FX
package container

import (
	"context"

	"github.com/alacena/v2/internal/application/cooking"
	"github.com/alacena/v2/internal/application/matching"
	"github.com/alacena/v2/internal/application/pantry"
	"github.com/alacena/v2/internal/application/recommend"
	"github.com/alacena/v2/internal/application/snapshot"
	"github.com/alacena/v2/internal/infrastructure/cache"
	"github.com/alacena/v2/internal/infrastructure/config"
	"github.com/alacena/v2/internal/infrastructure/persistence/repository"
	"github.com/alacena/v2/internal/infrastructure/persistence/store"
	"github.com/alacena/v2/internal/ports/inbound"
	"github.com/alacena/v2/internal/ports/outbound"
	"github.com/alacena/v2/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	// Infrastructure modules
	ConfigModule,
	LoggerModule,
	StoreModule,
	CacheModule,

	// Repository modules
	RepositoryModule,

	// Service modules
	ServiceModule,

	// Lifecycle hooks
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// StoreModule provides the embedded document store with its schema applied
var StoreModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*store.Store, error) {
		var metrics *store.Metrics
		if cfg.Monitoring.EnableMetrics {
			metrics = store.NewMetrics(prometheus.DefaultRegisterer)
		}

		s, err := store.Open(cfg.Database.Path, log, metrics)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureSchema(store.AppSchema()...); err != nil {
			return nil, err
		}
		return s, nil
	},
)

// CacheModule provides the transient cache selected by configuration
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (outbound.CacheRepository, error) {
		switch cfg.Cache.Driver {
		case "redis":
			return cache.NewRedisCache(cfg.RedisAddr(), "", cfg.Cache.RedisDB, cfg.Cache.RedisTimeout, log)
		default:
			log.Info("Using in-memory cache", zap.Int("max_entries", cfg.Cache.MaxEntries))
			return cache.NewMemoryCache(cfg.Cache.MaxEntries), nil
		}
	},
)

// RepositoryModule provides repository implementations over the store
var RepositoryModule = fx.Provide(
	repository.NewCatalogRepository,
	repository.NewRecipeRepository,
	repository.NewInventoryRepository,
	repository.NewLocationRepository,
	repository.NewHistoryRepository,
	repository.NewApplianceRepository,
	repository.NewUserApplianceRepository,
	repository.NewRecommendationCacheRepository,
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	// Ingredient matcher
	func(
		catalogRepo outbound.CatalogRepository,
		cacheRepo outbound.CacheRepository,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.MatcherService {
		return matching.NewMatcherService(catalogRepo, cacheRepo, cfg.Cache.DefaultTTL, log)
	},

	// Recommendation engine
	func(
		recipeRepo outbound.RecipeRepository,
		catalogRepo outbound.CatalogRepository,
		inventoryRepo outbound.InventoryRepository,
		historyRepo outbound.HistoryRepository,
		cacheRepo outbound.RecommendationCacheRepository,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.RecommendationService {
		return recommend.NewService(
			recipeRepo, catalogRepo, inventoryRepo, historyRepo, cacheRepo,
			cfg.Recommendation, log,
		)
	},

	// Pantry service
	pantry.NewService,

	// Cooking sessions
	cooking.NewService,

	// Snapshot import/export
	func(
		catalogRepo outbound.CatalogRepository,
		recipeRepo outbound.RecipeRepository,
		applianceRepo outbound.ApplianceRepository,
		userApplianceRepo outbound.UserApplianceRepository,
		inventoryRepo outbound.InventoryRepository,
		historyRepo outbound.HistoryRepository,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.SnapshotService {
		return snapshot.NewService(
			catalogRepo, recipeRepo, applianceRepo, userApplianceRepo,
			inventoryRepo, historyRepo, cfg.Snapshot.SchemaVersion, log,
		)
	},
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks seeds the store on startup and closes it on shutdown
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	s *store.Store,
	locationRepo outbound.LocationRepository,
	catalogRepo outbound.CatalogRepository,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting Alacena application",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			if err := repository.SeedLocations(ctx, locationRepo, log); err != nil {
				return err
			}
			if cfg.Database.SeedDefault {
				if err := repository.SeedCatalog(ctx, catalogRepo, log); err != nil {
					return err
				}
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Alacena application")

			if err := s.Close(); err != nil {
				log.Error("Failed to close store", zap.Error(err))
			}
			_ = log.Sync()
			return nil
		},
	})
}
