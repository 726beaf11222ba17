package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	userspostgres "github.com/orderdesk/inventory-api/internal/domains/users/adapters/persistence/postgres"
	platformpostgres "github.com/orderdesk/inventory-api/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge tokens")
	}

	store := userspostgres.NewTokenStore(db)
	if err := store.PurgeExpired(ctx); err != nil {
		log.Fatalf("failed to purge tokens: %v", err)
	}
	log.Printf("token purge completed")
}
