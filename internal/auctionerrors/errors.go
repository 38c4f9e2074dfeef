package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrNoBids          = errors.New("no bids found for auction")
	ErrNoSession       = errors.New("session not found")
	ErrDuplicateEntry  = errors.New("duplicate entry")
)

// business logic errors
var (
	ErrInvalidBid       = errors.New("invalid bid")
	ErrBidTooLow        = errors.New("bid amount too low")
	ErrAuctionClosed    = errors.New("auction is closed")
	ErrInvalidListing   = errors.New("invalid listing")
	ErrNotOwner         = errors.New("only the owner may close an auction")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrInvalidAccount   = errors.New("username and password are required")
	ErrPasswordMismatch = errors.New("passwords must match")
	ErrInvalidLogin     = errors.New("invalid username and/or password")
)
