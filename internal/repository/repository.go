package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"

	"gorm.io/gorm"
)

// UserStore defines account storage for the auction site
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	GetUserByID(ctx context.Context, id uint) (model.User, error)
}

// SessionStore defines login session storage
type SessionStore interface {
	CreateSession(ctx context.Context, session model.Session) error
	GetSession(ctx context.Context, token string) (model.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteSessionsForUser(ctx context.Context, userID uint) error
}

// AuctionStore defines listing, bid, comment and watchlist storage
type AuctionStore interface {
	CreateAuction(ctx context.Context, auction *model.Auction) error
	GetAuction(ctx context.Context, id uint) (model.Auction, error)
	ListAuctions(ctx context.Context) ([]model.Auction, error)
	ListAuctionsByCategory(ctx context.Context, code string) ([]model.Auction, error)
	SaveAuctionState(ctx context.Context, auction *model.Auction) error

	AcceptBid(ctx context.Context, auctionID uint, bid *model.Bid) error
	GetBidsForAuction(ctx context.Context, auctionID uint) ([]model.Bid, error)
	GetWinningBid(ctx context.Context, auctionID uint) (model.Bid, error)

	AddComment(ctx context.Context, comment *model.Comment) error
	GetCommentsForAuction(ctx context.Context, auctionID uint) ([]model.Comment, error)

	IsWatching(ctx context.Context, userID, auctionID uint) (bool, error)
	AddToWatchlist(ctx context.Context, userID, auctionID uint) error
	RemoveFromWatchlist(ctx context.Context, userID, auctionID uint) error
	ListWatchedAuctions(ctx context.Context, userID uint) ([]model.Auction, error)
	CountWatchedAuctions(ctx context.Context, userID uint) (int64, error)
}

// GormStore is the relational implementation of the store interfaces
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store backed by the given GORM connection
func NewGormStore(db *gorm.DB) *GormStore {
	if db == nil {
		panic("database connection cannot be nil for GormStore")
	}
	return &GormStore{db: db}
}

// CreateUser inserts a new account, mapping unique-constraint violations
// to ErrUsernameTaken
func (s *GormStore) CreateUser(ctx context.Context, user *model.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateEntryError(err) {
			return fmt.Errorf("create user %q: %w", user.Username, auctionerrors.ErrUsernameTaken)
		}
		return fmt.Errorf("create user %q: %w", user.Username, err)
	}
	return nil
}

// GetUserByUsername returns the account with the given username
func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, fmt.Errorf("get user %q: %w", username, auctionerrors.ErrUserNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user %q: %w", username, err)
	}
	return user, nil
}

// GetUserByID returns the account with the given id
func (s *GormStore) GetUserByID(ctx context.Context, id uint) (model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, fmt.Errorf("get user %d: %w", id, auctionerrors.ErrUserNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

// CreateSession inserts a login session row
func (s *GormStore) CreateSession(ctx context.Context, session model.Session) error {
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return fmt.Errorf("create session for user %d: %w", session.UserID, err)
	}
	return nil
}

// GetSession returns the session with the given token
func (s *GormStore) GetSession(ctx context.Context, token string) (model.Session, error) {
	var session model.Session
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Session{}, auctionerrors.ErrNoSession
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// DeleteSession removes the session with the given token
func (s *GormStore) DeleteSession(ctx context.Context, token string) error {
	if err := s.db.WithContext(ctx).Delete(&model.Session{}, "token = ?", token).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteSessionsForUser removes every session belonging to a user
func (s *GormStore) DeleteSessionsForUser(ctx context.Context, userID uint) error {
	if err := s.db.WithContext(ctx).Delete(&model.Session{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("delete sessions for user %d: %w", userID, err)
	}
	return nil
}

// CreateAuction inserts a new listing
func (s *GormStore) CreateAuction(ctx context.Context, auction *model.Auction) error {
	if err := s.db.WithContext(ctx).Create(auction).Error; err != nil {
		return fmt.Errorf("create auction %q: %w", auction.Title, err)
	}
	return nil
}

// GetAuction returns one listing with its owner, bids and comments loaded
func (s *GormStore) GetAuction(ctx context.Context, id uint) (model.Auction, error) {
	var auction model.Auction
	err := s.db.WithContext(ctx).
		Preload("Owner").
		Preload("Bids", func(db *gorm.DB) *gorm.DB { return db.Order("bids.created_at DESC") }).
		Preload("Bids.Bidder").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("comments.created_at ASC") }).
		Preload("Comments.Author").
		First(&auction, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Auction{}, fmt.Errorf("get auction %d: %w", id, auctionerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return model.Auction{}, fmt.Errorf("get auction %d: %w", id, err)
	}
	return auction, nil
}

// ListAuctions returns every listing, newest first
func (s *GormStore) ListAuctions(ctx context.Context) ([]model.Auction, error) {
	var auctions []model.Auction
	err := s.db.WithContext(ctx).Preload("Owner").Order("creation_date DESC").Find(&auctions).Error
	if err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}
	return auctions, nil
}

// ListAuctionsByCategory returns listings with the given category code
func (s *GormStore) ListAuctionsByCategory(ctx context.Context, code string) ([]model.Auction, error) {
	var auctions []model.Auction
	err := s.db.WithContext(ctx).Preload("Owner").
		Where("category = ?", code).
		Order("creation_date DESC").
		Find(&auctions).Error
	if err != nil {
		return nil, fmt.Errorf("list auctions for category %q: %w", code, err)
	}
	return auctions, nil
}

// SaveAuctionState persists the lifecycle fields recomputed on read
func (s *GormStore) SaveAuctionState(ctx context.Context, auction *model.Auction) error {
	err := s.db.WithContext(ctx).Model(&model.Auction{}).
		Where("id = ?", auction.ID).
		Updates(map[string]any{
			"status":    auction.Status,
			"remaining": auction.Remaining,
			"winner":    auction.Winner,
		}).Error
	if err != nil {
		return fmt.Errorf("save state for auction %d: %w", auction.ID, err)
	}
	return nil
}

// AcceptBid atomically accepts a bid: the price update is guarded by a
// compare-and-set on the current price, and the bid row plus the winning-bid
// reference are written in the same transaction. Two racing bids for the
// same amount can therefore never both be accepted.
func (s *GormStore) AcceptBid(ctx context.Context, auctionID uint, bid *model.Bid) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Auction{}).
			Where("id = ? AND status = ? AND price < ?", auctionID, true, bid.Price).
			Update("price", bid.Price)
		if res.Error != nil {
			return fmt.Errorf("accept bid for auction %d: %w", auctionID, res.Error)
		}
		if res.RowsAffected == 0 {
			return s.rejectBid(tx, auctionID)
		}

		bid.AuctionID = auctionID
		if err := tx.Create(bid).Error; err != nil {
			return fmt.Errorf("record bid for auction %d: %w", auctionID, err)
		}
		err := tx.Model(&model.Auction{}).
			Where("id = ?", auctionID).
			Update("winning_bid_id", bid.ID).Error
		if err != nil {
			return fmt.Errorf("set winning bid for auction %d: %w", auctionID, err)
		}
		return nil
	})
}

// rejectBid explains why the guarded update matched no row
func (s *GormStore) rejectBid(tx *gorm.DB, auctionID uint) error {
	var auction model.Auction
	err := tx.Select("id", "status").First(&auction, auctionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("accept bid for auction %d: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return fmt.Errorf("accept bid for auction %d: %w", auctionID, err)
	}
	if !auction.Status {
		return fmt.Errorf("accept bid for auction %d: %w", auctionID, auctionerrors.ErrAuctionClosed)
	}
	return fmt.Errorf("accept bid for auction %d: %w", auctionID, auctionerrors.ErrBidTooLow)
}

// GetBidsForAuction returns all bids for a listing, newest first
func (s *GormStore) GetBidsForAuction(ctx context.Context, auctionID uint) ([]model.Bid, error) {
	var bids []model.Bid
	err := s.db.WithContext(ctx).Preload("Bidder").
		Where("auction_id = ?", auctionID).
		Order("created_at DESC").
		Find(&bids).Error
	if err != nil {
		return nil, fmt.Errorf("get bids for auction %d: %w", auctionID, err)
	}
	return bids, nil
}

// GetWinningBid returns the highest bid for a listing; earliest wins a tie
func (s *GormStore) GetWinningBid(ctx context.Context, auctionID uint) (model.Bid, error) {
	var bid model.Bid
	err := s.db.WithContext(ctx).Preload("Bidder").
		Where("auction_id = ?", auctionID).
		Order("price DESC, created_at ASC").
		First(&bid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Bid{}, fmt.Errorf("get winning bid for auction %d: %w", auctionID, auctionerrors.ErrNoBids)
	}
	if err != nil {
		return model.Bid{}, fmt.Errorf("get winning bid for auction %d: %w", auctionID, err)
	}
	return bid, nil
}

// AddComment inserts a comment row
func (s *GormStore) AddComment(ctx context.Context, comment *model.Comment) error {
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("add comment to auction %d: %w", comment.AuctionID, err)
	}
	return nil
}

// GetCommentsForAuction returns all comments for a listing, oldest first
func (s *GormStore) GetCommentsForAuction(ctx context.Context, auctionID uint) ([]model.Comment, error) {
	var comments []model.Comment
	err := s.db.WithContext(ctx).Preload("Author").
		Where("auction_id = ?", auctionID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("get comments for auction %d: %w", auctionID, err)
	}
	return comments, nil
}

// IsWatching reports whether the auction is in the user's watchlist
func (s *GormStore) IsWatching(ctx context.Context, userID, auctionID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Table("watchlist").
		Where("user_id = ? AND auction_id = ?", userID, auctionID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check watchlist for user %d: %w", userID, err)
	}
	return count > 0, nil
}

// AddToWatchlist links an auction into the user's watchlist
func (s *GormStore) AddToWatchlist(ctx context.Context, userID, auctionID uint) error {
	user := model.User{ID: userID}
	err := s.db.WithContext(ctx).Model(&user).
		Association("Watchlist").
		Append(&model.Auction{ID: auctionID})
	if err != nil {
		return fmt.Errorf("add auction %d to watchlist of user %d: %w", auctionID, userID, err)
	}
	return nil
}

// RemoveFromWatchlist unlinks an auction from the user's watchlist
func (s *GormStore) RemoveFromWatchlist(ctx context.Context, userID, auctionID uint) error {
	user := model.User{ID: userID}
	err := s.db.WithContext(ctx).Model(&user).
		Association("Watchlist").
		Delete(&model.Auction{ID: auctionID})
	if err != nil {
		return fmt.Errorf("remove auction %d from watchlist of user %d: %w", auctionID, userID, err)
	}
	return nil
}

// ListWatchedAuctions returns the auctions in the user's watchlist
func (s *GormStore) ListWatchedAuctions(ctx context.Context, userID uint) ([]model.Auction, error) {
	user := model.User{ID: userID}
	var auctions []model.Auction
	err := s.db.WithContext(ctx).Model(&user).Association("Watchlist").Find(&auctions)
	if err != nil {
		return nil, fmt.Errorf("list watchlist of user %d: %w", userID, err)
	}
	return auctions, nil
}

// CountWatchedAuctions returns the size of the user's watchlist
func (s *GormStore) CountWatchedAuctions(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Table("watchlist").
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count watchlist of user %d: %w", userID, err)
	}
	return count, nil
}

// isDuplicateEntryError matches unique-constraint failures across the
// MySQL and SQLite drivers used in production and tests
func isDuplicateEntryError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
