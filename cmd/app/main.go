// Package main runs the Alacena core as a standalone process. It wires the
// full dependency graph, seeds the store and prints the daily recommendation.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alacena/v2/internal/infrastructure/container"
	"github.com/alacena/v2/internal/ports/inbound"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		fx.NopLogger, // Use our own logger instead of Fx's

		container.Module,

		fx.Invoke(func(recommender inbound.RecommendationService) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			pick, err := recommender.Daily(ctx)
			if err != nil {
				fmt.Printf("No daily recommendation: %v\n", err)
				return
			}
			if pick == nil {
				fmt.Println("No recipes yet; import some to get a daily pick.")
				return
			}
			fmt.Printf("Today's pick: %s (score %.2f)\n", pick.Recipe.Name, pick.Factors.FinalScore)
		}),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := app.Stop(shutdownCtx); err != nil {
		log.Fatalf("Failed to stop gracefully: %v", err)
	}
}
