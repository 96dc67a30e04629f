// Command server runs the catalog HTTP API.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/ndmitriev/catalog-service/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
