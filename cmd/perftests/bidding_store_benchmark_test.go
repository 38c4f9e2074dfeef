package perftests

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	bidding "auction-house/internal/biddingService"
	model "auction-house/internal/models"
	repository "auction-house/internal/repository"
	"auction-house/internal/setup"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSequence atomic.Int64

// setupStore creates a store and bidding service over an in-memory database,
// seeded with one owner and numAuctions open listings priced at 100.
func setupStore(tb testing.TB, numAuctions int) (*repository.GormStore, *bidding.BiddingService, model.User) {
	tb.Helper()

	// Benchmarks rerun with growing b.N while old pooled connections keep the
	// shared in-memory database alive, so every call gets a fresh name.
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(tb.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", name, dbSequence.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		tb.Fatalf("failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("failed to access database pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := setup.Migrate(db); err != nil {
		tb.Fatalf("failed to migrate: %v", err)
	}

	store := repository.NewGormStore(db)
	ctx := context.Background()

	owner := model.User{Username: "owner", PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	if err := store.CreateUser(ctx, &owner); err != nil {
		tb.Fatalf("failed to create owner: %v", err)
	}
	bidder := model.User{Username: "bidder", PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	if err := store.CreateUser(ctx, &bidder); err != nil {
		tb.Fatalf("failed to create bidder: %v", err)
	}

	for i := 0; i < numAuctions; i++ {
		auction := model.Auction{
			Title:        fmt.Sprintf("Listing %d", i),
			CreationDate: time.Now().UTC(),
			ImageURL:     model.DefaultImageURL,
			OwnerID:      owner.ID,
			Duration:     7,
			Category:     model.CategoryIT,
			Price:        decimal.NewFromInt(100),
			Status:       true,
		}
		if err := store.CreateAuction(ctx, &auction); err != nil {
			tb.Fatalf("failed to create auction: %v", err)
		}
	}

	return store, bidding.NewBiddingService(store), bidder
}

// Benchmark 1: PlaceBid - Isolated Listings (Low Contention)
func Benchmark_PlaceBid_Isolated(b *testing.B) {
	_, svc, bidder := setupStore(b, b.N)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		amount := decimal.NewFromInt(101)
		if _, err := svc.PlaceBid(ctx, uint(i+1), bidder.ID, amount); err != nil {
			b.Fatalf("failed to place bid: %v", err)
		}
	}
}

// Benchmark 2: PlaceBid - Shared Listing (escalating price, every bid accepted)
func Benchmark_PlaceBid_SharedAuction(b *testing.B) {
	_, svc, bidder := setupStore(b, 1)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		amount := decimal.NewFromInt(int64(101 + i))
		if _, err := svc.PlaceBid(ctx, 1, bidder.ID, amount); err != nil {
			b.Fatalf("failed to place bid: %v", err)
		}
	}
}
