package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	auction "auction-house/internal/auctionService"
	auth "auction-house/internal/authService"
	bidding "auction-house/internal/biddingService"
	"auction-house/internal/repository"
	"auction-house/internal/server"
	"auction-house/internal/setup"
	"auction-house/utils"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		utils.Warn("no .env file found, using environment as-is", map[string]any{})
	}

	db, err := setup.OpenDB()
	if err != nil {
		utils.Fatal("failed to connect to database", map[string]any{"error": err.Error()})
	}
	if err := setup.Migrate(db); err != nil {
		utils.Fatal("failed to migrate database", map[string]any{"error": err.Error()})
	}

	store := repository.NewGormStore(db)

	authSvc := auth.NewAuthService(store, store, sessionLifetime())
	auctionSvc := auction.NewAuctionService(store)
	biddingSvc := bidding.NewBiddingService(store)

	router := server.SetupRouter(authSvc, auctionSvc, biddingSvc, "web/templates/*.html")

	port := getPort()
	fmt.Printf("Starting auction server on %s...\n", port)
	if err := router.Run(port); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// sessionLifetime reads SESSION_LIFETIME_HOURS from env or defaults to 24h
func sessionLifetime() time.Duration {
	if v := os.Getenv("SESSION_LIFETIME_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			return time.Duration(hours) * time.Hour
		}
		utils.Warn("invalid SESSION_LIFETIME_HOURS, using default", map[string]any{"value": v})
	}
	return 24 * time.Hour
}

// getPort returns the server port from env or defaults to ":8080"
func getPort() string {
	if p := os.Getenv("PORT"); p != "" {
		return fmt.Sprintf(":%s", p)
	}
	return ":8080"
}
