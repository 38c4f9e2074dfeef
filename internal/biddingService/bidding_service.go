package bidding

import (
	"context"
	"fmt"
	"time"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"
	"auction-house/internal/repository"

	"github.com/shopspring/decimal"
)

// BiddingService defines the business logic for placing and reading bids
type BiddingService struct {
	store repository.AuctionStore
	clock func() time.Time
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(store repository.AuctionStore) *BiddingService {
	return &BiddingService{
		store: store,
		clock: func() time.Time { return time.Now().UTC() },
	}
}

// PlaceBid validates and records a bid on an auction. Acceptance is
// delegated to the store's compare-and-set, so a bid is accepted iff it is
// strictly greater than the auction's price at the instant of the write.
func (s *BiddingService) PlaceBid(ctx context.Context, auctionID, bidderID uint, amount decimal.Decimal) (models.Bid, error) {
	if auctionID == 0 || bidderID == 0 {
		return models.Bid{}, fmt.Errorf("service: %w - missing auction or bidder", auctionerrors.ErrInvalidBid)
	}
	if !amount.IsPositive() {
		return models.Bid{}, fmt.Errorf("service: %w - non-positive bid amount", auctionerrors.ErrInvalidBid)
	}

	bid := models.Bid{
		AuctionID: auctionID,
		BidderID:  bidderID,
		Price:     amount,
		CreatedAt: s.clock(),
	}

	if err := s.store.AcceptBid(ctx, auctionID, &bid); err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to place bid on auction %d by user %d: %w", auctionID, bidderID, err)
	}

	return bid, nil
}

// BidsForAuction returns all bids for a specific auction
func (s *BiddingService) BidsForAuction(ctx context.Context, auctionID uint) ([]models.Bid, error) {
	if auctionID == 0 {
		return nil, fmt.Errorf("service: %w - missing auction", auctionerrors.ErrInvalidBid)
	}

	bids, err := s.store.GetBidsForAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for auction %d: %w", auctionID, err)
	}
	return bids, nil
}

// WinningBid returns the highest bid for a specific auction
func (s *BiddingService) WinningBid(ctx context.Context, auctionID uint) (models.Bid, error) {
	if auctionID == 0 {
		return models.Bid{}, fmt.Errorf("service: %w - missing auction", auctionerrors.ErrInvalidBid)
	}

	bid, err := s.store.GetWinningBid(ctx, auctionID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get winning bid for auction %d: %w", auctionID, err)
	}
	return bid, nil
}
