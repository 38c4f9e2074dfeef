package auction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"
	"auction-house/internal/repository"

	"github.com/shopspring/decimal"
)

// Watchlist button labels. The label always names the next available action.
const (
	WatchLabelAdd    = "Add to Watchlist"
	WatchLabelRemove = "Remove from Watchlist"
)

// AuctionService owns the listing lifecycle: creation, lazy expiry
// recomputation, manual close, comments and watchlists.
type AuctionService struct {
	store repository.AuctionStore
	clock func() time.Time
}

// NewAuctionService creates a new AuctionService instance
func NewAuctionService(store repository.AuctionStore) *AuctionService {
	return &AuctionService{
		store: store,
		clock: func() time.Time { return time.Now().UTC() },
	}
}

// ListingInput carries the seller-supplied fields of a new listing
type ListingInput struct {
	Title       string
	Description string
	ImageURL    string
	Category    string
	Duration    int
	StartPrice  decimal.Decimal
}

// ValidationError carries field-level messages for form redisplay
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return auctionerrors.ErrInvalidListing.Error()
}

// Is lets errors.Is match a ValidationError against ErrInvalidListing
func (e *ValidationError) Is(target error) bool {
	return target == auctionerrors.ErrInvalidListing
}

// ValidateListing checks the seller-supplied fields and returns one message
// per invalid field. An empty map means the input is acceptable.
func ValidateListing(input ListingInput) map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(input.Title) == "" {
		fields["title"] = "Title is required."
	} else if len(input.Title) > 64 {
		fields["title"] = "Title must be at most 64 characters."
	}
	if len(input.Description) > 500 {
		fields["description"] = "Description must be at most 500 characters."
	}
	if _, ok := models.CategoryLabel(input.Category); !ok {
		fields["category"] = "Choose one of the listed categories."
	}
	if !models.ValidDuration(input.Duration) {
		fields["duration"] = "Duration must be 1, 3, 7 or 14 days."
	}
	if input.StartPrice.IsNegative() {
		fields["price"] = "Start price cannot be negative."
	}
	return fields
}

// CreateAuction validates the input, stamps the server-owned fields and
// persists the new listing. The owner and creation date are never taken
// from the client.
func (s *AuctionService) CreateAuction(ctx context.Context, ownerID uint, input ListingInput) (models.Auction, error) {
	if fields := ValidateListing(input); len(fields) > 0 {
		return models.Auction{}, &ValidationError{Fields: fields}
	}

	imageURL := strings.TrimSpace(input.ImageURL)
	if imageURL == "" {
		imageURL = models.DefaultImageURL
	}

	auction := models.Auction{
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		CreationDate: s.clock(),
		ImageURL:     imageURL,
		OwnerID:      ownerID,
		Duration:     input.Duration,
		Category:     input.Category,
		Price:        input.StartPrice,
		Status:       true,
	}
	RefreshRemaining(&auction, s.clock())

	if err := s.store.CreateAuction(ctx, &auction); err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to create auction for user %d: %w", ownerID, err)
	}
	return auction, nil
}

// GetAuction loads one listing, refreshes its lifecycle state and persists
// any transition before returning it.
func (s *AuctionService) GetAuction(ctx context.Context, id uint) (models.Auction, error) {
	auction, err := s.store.GetAuction(ctx, id)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to get auction %d: %w", id, err)
	}
	if err := s.refresh(ctx, &auction); err != nil {
		return models.Auction{}, err
	}
	return auction, nil
}

// ListAuctions returns all listings with refreshed lifecycle state
func (s *AuctionService) ListAuctions(ctx context.Context) ([]models.Auction, error) {
	auctions, err := s.store.ListAuctions(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions: %w", err)
	}
	for i := range auctions {
		if err := s.refresh(ctx, &auctions[i]); err != nil {
			return nil, err
		}
	}
	return auctions, nil
}

// ListByCategory returns the listings matching a category code together
// with the code's display label. An unknown code yields an empty result
// rather than an error.
func (s *AuctionService) ListByCategory(ctx context.Context, code string) ([]models.Auction, string, error) {
	label, ok := models.CategoryLabel(code)
	if !ok {
		return []models.Auction{}, "", nil
	}
	auctions, err := s.store.ListAuctionsByCategory(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("service: failed to list category %q: %w", code, err)
	}
	for i := range auctions {
		if err := s.refresh(ctx, &auctions[i]); err != nil {
			return nil, "", err
		}
	}
	return auctions, label, nil
}

// CloseAuction force-closes a listing before its end date. Only the owner
// may close; the winner is resolved exactly as on natural expiry.
func (s *AuctionService) CloseAuction(ctx context.Context, auctionID, requesterID uint) error {
	auction, err := s.store.GetAuction(ctx, auctionID)
	if err != nil {
		return fmt.Errorf("service: failed to close auction %d: %w", auctionID, err)
	}
	if auction.OwnerID != requesterID {
		return fmt.Errorf("service: close auction %d by user %d: %w", auctionID, requesterID, auctionerrors.ErrNotOwner)
	}

	auction.Status = false
	auction.Remaining = "Ended"
	if err := s.resolveWinner(ctx, &auction); err != nil {
		return err
	}
	if err := s.store.SaveAuctionState(ctx, &auction); err != nil {
		return fmt.Errorf("service: failed to persist close of auction %d: %w", auctionID, err)
	}
	return nil
}

// AddComment attaches a comment to a listing. Comments are allowed on open
// and closed auctions alike.
func (s *AuctionService) AddComment(ctx context.Context, auctionID, authorID uint, title, content string) (models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" || len(content) > 500 || len(title) > 64 {
		return models.Comment{}, fmt.Errorf("service: comment on auction %d: %w", auctionID, auctionerrors.ErrInvalidListing)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "New comment"
	}

	comment := models.Comment{
		AuctionID: auctionID,
		AuthorID:  authorID,
		Title:     title,
		Content:   content,
		CreatedAt: s.clock(),
	}
	if err := s.store.AddComment(ctx, &comment); err != nil {
		return models.Comment{}, fmt.Errorf("service: failed to add comment to auction %d: %w", auctionID, err)
	}
	return comment, nil
}

// ToggleWatchlist flips the auction's membership in the user's watchlist
// and returns the label for the next available action.
func (s *AuctionService) ToggleWatchlist(ctx context.Context, userID, auctionID uint) (string, error) {
	watching, err := s.store.IsWatching(ctx, userID, auctionID)
	if err != nil {
		return "", fmt.Errorf("service: failed to toggle watchlist for user %d: %w", userID, err)
	}
	if watching {
		if err := s.store.RemoveFromWatchlist(ctx, userID, auctionID); err != nil {
			return "", fmt.Errorf("service: failed to toggle watchlist for user %d: %w", userID, err)
		}
		return WatchLabelAdd, nil
	}
	if err := s.store.AddToWatchlist(ctx, userID, auctionID); err != nil {
		return "", fmt.Errorf("service: failed to toggle watchlist for user %d: %w", userID, err)
	}
	return WatchLabelRemove, nil
}

// WatchLabel returns the button label for the next available watchlist action
func (s *AuctionService) WatchLabel(ctx context.Context, userID, auctionID uint) (string, error) {
	watching, err := s.store.IsWatching(ctx, userID, auctionID)
	if err != nil {
		return "", fmt.Errorf("service: failed to check watchlist for user %d: %w", userID, err)
	}
	if watching {
		return WatchLabelRemove, nil
	}
	return WatchLabelAdd, nil
}

// Watchlist returns the user's watched auctions with refreshed lifecycle state
func (s *AuctionService) Watchlist(ctx context.Context, userID uint) ([]models.Auction, error) {
	auctions, err := s.store.ListWatchedAuctions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load watchlist of user %d: %w", userID, err)
	}
	for i := range auctions {
		if err := s.refresh(ctx, &auctions[i]); err != nil {
			return nil, err
		}
	}
	return auctions, nil
}

// WatchlistCount returns the size of the user's watchlist for the nav badge
func (s *AuctionService) WatchlistCount(ctx context.Context, userID uint) (int64, error) {
	count, err := s.store.CountWatchedAuctions(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("service: failed to count watchlist of user %d: %w", userID, err)
	}
	return count, nil
}

// refresh recomputes the lifecycle state and persists it, resolving the
// winner on the transition to expired.
func (s *AuctionService) refresh(ctx context.Context, auction *models.Auction) error {
	if !auction.Status {
		return nil
	}
	if RefreshRemaining(auction, s.clock()) {
		return s.persistState(ctx, auction)
	}
	if err := s.resolveWinner(ctx, auction); err != nil {
		return err
	}
	return s.persistState(ctx, auction)
}

func (s *AuctionService) persistState(ctx context.Context, auction *models.Auction) error {
	if err := s.store.SaveAuctionState(ctx, auction); err != nil {
		return fmt.Errorf("service: failed to persist state of auction %d: %w", auction.ID, err)
	}
	return nil
}

// resolveWinner fills in the winner from the highest accepted bid. An
// auction that never received a bid keeps an empty winner.
func (s *AuctionService) resolveWinner(ctx context.Context, auction *models.Auction) error {
	if auction.Winner != "" || auction.WinningBidID == nil {
		return nil
	}
	bid, err := s.store.GetWinningBid(ctx, auction.ID)
	if errors.Is(err, auctionerrors.ErrNoBids) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("service: failed to resolve winner of auction %d: %w", auction.ID, err)
	}
	auction.Winner = bid.Bidder.Username
	return nil
}

// EndDate returns the moment the auction expires
func EndDate(auction models.Auction) time.Time {
	return auction.CreationDate.Add(time.Duration(auction.Duration) * 24 * time.Hour)
}

// RefreshRemaining recomputes the cached display state from the clock.
// While the auction is open the remaining time is formatted with whole
// seconds; past the end date the auction is marked closed. Returns true
// while the auction is still open.
func RefreshRemaining(auction *models.Auction, now time.Time) bool {
	delta := EndDate(*auction).Sub(now)
	if delta > 0 {
		auction.Remaining = delta.Truncate(time.Second).String()
		return true
	}
	auction.Status = false
	auction.Remaining = "Ended"
	return false
}
