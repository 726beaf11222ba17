package main

import (
	"context"
	"log"

	"github.com/orderdesk/inventory-api/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("api exited: %v", err)
	}
}
