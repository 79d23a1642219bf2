package main

import (
	"context"
	"fmt"
	"log"

	"github.com/elhossary/offerwall-api/internal/bootstrap"
	"github.com/elhossary/offerwall-api/internal/config"
	"github.com/elhossary/offerwall-api/internal/domain/earning"
	"github.com/elhossary/offerwall-api/internal/pkg/database"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	redisClient, err := database.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer database.CloseRedis(redisClient)

	store, err := bootstrap.OpenStore(ctx, cfg, redisClient)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}

	ledger, err := bootstrap.OpenLedger(ctx, cfg, store)
	if err != nil {
		log.Fatalf("Failed to open ledger: %v", err)
	}
	defer ledger.Close()

	balances, err := earning.NewService(ledger.Repo).RecomputeAll(ctx)
	if err != nil {
		log.Fatalf("Failed to recompute balances: %v", err)
	}

	fmt.Println("--- Balances ---")
	for _, b := range balances {
		fmt.Printf("%s total=%s available=%s pending=%s\n",
			b.UserID,
			b.TotalEarnings.StringFixed(2),
			b.AvailableBalance.StringFixed(2),
			b.PendingBalance.StringFixed(2),
		)
	}
	fmt.Printf("----------------\n%d users recomputed\n", len(balances))
}
