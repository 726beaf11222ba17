package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
	"gorm.io/gorm"

	catalogmemory "github.com/orderdesk/inventory-api/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/orderdesk/inventory-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/orderdesk/inventory-api/internal/domains/catalog/application"
	catalogports "github.com/orderdesk/inventory-api/internal/domains/catalog/ports"
	orderscatalog "github.com/orderdesk/inventory-api/internal/domains/orders/adapters/catalog"
	ordersmemory "github.com/orderdesk/inventory-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/orderdesk/inventory-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/orderdesk/inventory-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/orderdesk/inventory-api/internal/domains/orders/application"
	orderports "github.com/orderdesk/inventory-api/internal/domains/orders/ports"
	orderworkflows "github.com/orderdesk/inventory-api/internal/durable/temporal/workflows/orders"
	platformobservability "github.com/orderdesk/inventory-api/internal/platform/observability"
	platformpostgres "github.com/orderdesk/inventory-api/internal/platform/postgres"
	orderactivities "github.com/orderdesk/inventory-api/internal/platform/temporal/activities/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "inventory-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()

	orderRepo := buildOrderRepository(db, logger)
	productRepo := buildProductRepository(db, logger)
	catalogService := catalogapp.NewService(productRepo)

	coreOrderService := ordersapp.NewService(
		orderRepo,
		orderscatalog.NewAdapter(catalogService),
		ordersapp.WithDefaultCancelNote(strings.TrimSpace(os.Getenv("DEFAULT_CANCEL_NOTE"))),
	)
	orderService := ordersobs.New(
		coreOrderService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	activities := orderactivities.NewActivities(orderService)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.CheckoutTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.CheckoutWorkflow, workflow.RegisterOptions{Name: orderworkflows.CheckoutWorkflowName})
	w.RegisterActivityWithOptions(activities.Checkout, activity.RegisterOptions{Name: orderworkflows.CheckoutActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.CheckoutTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildOrderRepository(db *gorm.DB, logger *slog.Logger) orderports.Repository {
	if db == nil {
		return ordersmemory.NewRepository()
	}
	logger.Info("worker order repository configured with postgres")
	return orderspostgres.NewRepository(db)
}

func buildProductRepository(db *gorm.DB, logger *slog.Logger) catalogports.Repository {
	if db == nil {
		return catalogmemory.NewRepository()
	}
	logger.Info("worker product repository configured with postgres")
	return catalogpostgres.NewRepository(db)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
