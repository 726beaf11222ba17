// Package api boots the HTTP API process.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	cataloghttp "github.com/orderdesk/inventory-api/internal/domains/catalog/adapters/http"
	catalogmemory "github.com/orderdesk/inventory-api/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/orderdesk/inventory-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/orderdesk/inventory-api/internal/domains/catalog/application"
	catalogports "github.com/orderdesk/inventory-api/internal/domains/catalog/ports"
	orderscatalog "github.com/orderdesk/inventory-api/internal/domains/orders/adapters/catalog"
	ordershttp "github.com/orderdesk/inventory-api/internal/domains/orders/adapters/http"
	ordersmemory "github.com/orderdesk/inventory-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/orderdesk/inventory-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/orderdesk/inventory-api/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/orderdesk/inventory-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/orderdesk/inventory-api/internal/domains/orders/application"
	orderports "github.com/orderdesk/inventory-api/internal/domains/orders/ports"
	reportshttp "github.com/orderdesk/inventory-api/internal/domains/reports/adapters/http"
	reportsapp "github.com/orderdesk/inventory-api/internal/domains/reports/application"
	settingshttp "github.com/orderdesk/inventory-api/internal/domains/settings/adapters/http"
	settingsmemory "github.com/orderdesk/inventory-api/internal/domains/settings/adapters/memory"
	settingspostgres "github.com/orderdesk/inventory-api/internal/domains/settings/adapters/persistence/postgres"
	settingsapp "github.com/orderdesk/inventory-api/internal/domains/settings/application"
	settingsports "github.com/orderdesk/inventory-api/internal/domains/settings/ports"
	usershttp "github.com/orderdesk/inventory-api/internal/domains/users/adapters/http"
	usersmemory "github.com/orderdesk/inventory-api/internal/domains/users/adapters/memory"
	userspostgres "github.com/orderdesk/inventory-api/internal/domains/users/adapters/persistence/postgres"
	usersredis "github.com/orderdesk/inventory-api/internal/domains/users/adapters/redis"
	usersapp "github.com/orderdesk/inventory-api/internal/domains/users/application"
	userports "github.com/orderdesk/inventory-api/internal/domains/users/ports"
	"github.com/orderdesk/inventory-api/internal/platform/migrations"
	platformobservability "github.com/orderdesk/inventory-api/internal/platform/observability"
	platformpostgres "github.com/orderdesk/inventory-api/internal/platform/postgres"
	"github.com/orderdesk/inventory-api/internal/shared/auth"
)

// Run boots the inventory HTTP API with observability, repositories, and
// workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "inventory-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	db, cleanupDB := platformpostgres.Establish(ctx, cfg.PostgresDSN, logger)
	defer cleanupDB()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	userRepo := buildUserRepository(db, logger)
	tokenStore, cleanupTokens := buildTokenStore(ctx, cfg, db, logger)
	defer cleanupTokens()
	productRepo := buildProductRepository(db, logger)
	orderRepo := buildOrderRepository(db, logger)
	settingsRepo := buildSettingsRepository(db, logger)

	issuer := auth.NewIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL)
	gate := auth.NewGate(issuer, userRepo, tokenStore)

	userService := usersapp.NewService(userRepo, tokenStore, issuer)
	catalogService := catalogapp.NewService(productRepo)
	settingsService := settingsapp.NewService(settingsRepo)
	reportsService := reportsapp.NewService(orderRepo, productRepo, settingsService)

	coreOrderService := ordersapp.NewService(
		orderRepo,
		orderscatalog.NewAdapter(catalogService),
		ordersapp.WithDefaultCancelNote(cfg.DefaultCancelNote),
	)
	orderService := ordersobs.New(
		coreOrderService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	var orchestrator orderports.WorkflowOrchestrator = ordersworkflows.NewInlineCheckout(orderService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running inline checkout", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orchestrator = ordersworkflows.NewTemporalCheckout(temporalClient, orderRepo)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	if cfg.UploadDir != "" {
		if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
			return fmt.Errorf("failed to create upload directory: %w", err)
		}
	}

	router := newRouter(serviceName, routerDeps{
		gate:      gate,
		users:     usershttp.NewHandler(userService, issuer, cfg.CookieSecure),
		products:  cataloghttp.NewHandler(catalogService, cfg.UploadDir),
		orders:    ordershttp.NewHandler(orderService, orchestrator, orderRepo),
		reports:   reportshttp.NewHandler(reportsService),
		settings:  settingshttp.NewHandler(settingsService),
		uploadDir: cfg.UploadDir,
	})

	addr := ":" + cfg.Port
	logger.Info("inventory API listening", slog.String("addr", addr), slog.String("environment", cfg.Environment))
	if err := router.Run(addr); err != nil {
		logger.Error("inventory API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildUserRepository(db *gorm.DB, logger *slog.Logger) userports.Repository {
	if db == nil {
		return usersmemory.NewRepository()
	}
	logger.Info("user repository configured with postgres")
	return userspostgres.NewRepository(db)
}

func buildTokenStore(ctx context.Context, cfg Config, db *gorm.DB, logger *slog.Logger) (userports.TokenStore, func()) {
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("failed to connect to redis, falling back to another token store", slog.String("error", err.Error()))
			_ = rdb.Close()
		} else {
			logger.Info("token store configured with redis", slog.String("addr", cfg.RedisAddr))
			return usersredis.NewTokenStore(rdb), func() { _ = rdb.Close() }
		}
	}
	if db != nil {
		logger.Info("token store configured with postgres")
		return userspostgres.NewTokenStore(db), func() {}
	}
	return usersmemory.NewTokenStore(), func() {}
}

func buildProductRepository(db *gorm.DB, logger *slog.Logger) catalogports.Repository {
	if db == nil {
		return catalogmemory.NewRepository()
	}
	logger.Info("product repository configured with postgres")
	return catalogpostgres.NewRepository(db)
}

func buildOrderRepository(db *gorm.DB, logger *slog.Logger) orderports.Repository {
	if db == nil {
		return ordersmemory.NewRepository()
	}
	logger.Info("order repository configured with postgres")
	return orderspostgres.NewRepository(db)
}

func buildSettingsRepository(db *gorm.DB, logger *slog.Logger) settingsports.Repository {
	if db == nil {
		return settingsmemory.NewRepository()
	}
	logger.Info("settings repository configured with postgres")
	return settingspostgres.NewRepository(db)
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
