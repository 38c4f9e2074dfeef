package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultImageURL is used when a listing is created without an image.
const DefaultImageURL = "https://cdn.onlinewebfonts.com/svg/img_391144.png"

// User represents a registered participant in the auction site
type User struct {
	ID           uint      `gorm:"primaryKey" json:"user_id"`
	Username     string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(191)" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	Watchlist    []Auction `gorm:"many2many:watchlist" json:"-"`
}

// Session is an opaque server-side login session referenced by cookie
type Session struct {
	Token     string    `gorm:"type:varchar(36);primaryKey" json:"token"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Auction represents a listing with its current bidding state
type Auction struct {
	ID           uint            `gorm:"primaryKey" json:"auction_id"`
	Title        string          `gorm:"type:varchar(64);not null" json:"title"`
	Description  string          `gorm:"type:varchar(500)" json:"description"`
	CreationDate time.Time       `json:"creation_date"`
	ImageURL     string          `gorm:"type:varchar(255)" json:"image"`
	OwnerID      uint            `gorm:"index;not null" json:"owner_id"`
	Owner        User            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Duration     int             `gorm:"not null" json:"duration"`
	Category     string          `gorm:"type:varchar(3);default:IT" json:"category"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	Status       bool            `gorm:"default:true" json:"status"`
	Remaining    string          `gorm:"type:varchar(32)" json:"remaining"`
	Winner       string          `gorm:"type:varchar(64)" json:"winner"`
	WinningBidID *uint           `json:"winning_bid_id,omitempty"`
	Bids         []Bid           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Comments     []Comment       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Watchers     []User          `gorm:"many2many:watchlist" json:"-"`
}

// Bid represents an accepted offer on an auction. Immutable once created.
type Bid struct {
	ID        uint            `gorm:"primaryKey" json:"bid_id"`
	AuctionID uint            `gorm:"index;not null" json:"auction_id"`
	BidderID  uint            `gorm:"index;not null" json:"bidder_id"`
	Bidder    User            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

// Comment is attached to an auction by any authenticated viewer. Immutable.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"comment_id"`
	AuctionID uint      `gorm:"index;not null" json:"auction_id"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	Author    User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title     string    `gorm:"type:varchar(64);default:New comment" json:"title"`
	Content   string    `gorm:"type:varchar(500)" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Auction categories. Codes are stored, labels are for display.
const (
	CategoryHouse    = "HOU"
	CategoryMotors   = "MOT"
	CategoryProperty = "PPT"
	CategoryHobbies  = "HOB"
	CategoryIT       = "IT"
	CategoryMusic    = "MUS"
	CategoryBooks    = "BOK"
)

// CategoryChoice pairs a stored category code with its display label
type CategoryChoice struct {
	Code  string
	Label string
}

// CategoryChoices lists the fixed set of auction categories
var CategoryChoices = []CategoryChoice{
	{CategoryHouse, "All for your House"},
	{CategoryMotors, "Car, Moto, Boat"},
	{CategoryProperty, "Houses, flats, manors"},
	{CategoryHobbies, "Hobbies"},
	{CategoryIT, "Laptop, Desktop, Mobile Phone"},
	{CategoryMusic, "CD, Musical Intrusments"},
	{CategoryBooks, "Books, Comics,..."},
}

// CategoryLabel returns the display label for a category code
func CategoryLabel(code string) (string, bool) {
	for _, c := range CategoryChoices {
		if c.Code == code {
			return c.Label, true
		}
	}
	return "", false
}

// DurationChoices lists the allowed auction durations in days
var DurationChoices = []int{1, 3, 7, 14}

// ValidDuration reports whether d is one of the allowed durations
func ValidDuration(d int) bool {
	for _, v := range DurationChoices {
		if v == d {
			return true
		}
	}
	return false
}
