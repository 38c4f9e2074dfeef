package helpers

import (
	"errors"
	"net/http"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "session_id"

// ContextUserKey is where the session middleware stores the resolved user
const ContextUserKey = "currentUser"

// CurrentUser returns the logged-in user stored by the session middleware
func CurrentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}

// MapErrorToHTTP translates service errors into an HTTP status and a message
// suitable for rendering on the page. Form-flow rejections shown inline on
// the page (too-low bids, taken usernames, bad logins) keep a 200 so the
// page re-renders in place.
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "Listing not found."
	case errors.Is(err, auctionerrors.ErrUserNotFound):
		return http.StatusNotFound, "User not found."
	case errors.Is(err, auctionerrors.ErrInvalidBid):
		return http.StatusBadRequest, "Invalid bid amount."
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusOK, "Bid must be higher than the current price."
	case errors.Is(err, auctionerrors.ErrAuctionClosed):
		return http.StatusOK, "This auction has ended."
	case errors.Is(err, auctionerrors.ErrInvalidListing):
		return http.StatusBadRequest, "Invalid listing."
	case errors.Is(err, auctionerrors.ErrNotOwner):
		return http.StatusForbidden, "Only the owner may close this listing."
	case errors.Is(err, auctionerrors.ErrUsernameTaken):
		return http.StatusOK, "Username already taken."
	case errors.Is(err, auctionerrors.ErrInvalidAccount):
		return http.StatusOK, "Username and password are required."
	case errors.Is(err, auctionerrors.ErrPasswordMismatch):
		return http.StatusOK, "Passwords must match."
	case errors.Is(err, auctionerrors.ErrInvalidLogin):
		return http.StatusOK, "Invalid username and/or password."
	case errors.Is(err, auctionerrors.ErrNoSession):
		return http.StatusUnauthorized, "Please log in."
	default:
		return http.StatusInternalServerError, "Internal server error."
	}
}

// PageData assembles the view state every page shares: the logged-in user
// and the watchlist badge count. count is fetched by the caller because not
// every handler holds the auction service.
func PageData(c *gin.Context, title string, count int64) gin.H {
	user, loggedIn := CurrentUser(c)
	return gin.H{
		"Title":          title,
		"User":           user,
		"LoggedIn":       loggedIn,
		"WatchlistCount": count,
	}
}

// LogSuccess emits the shared success log line of the handlers
func LogSuccess(handler, message string, context map[string]any) {
	if context == nil {
		context = map[string]any{}
	}
	context["handler"] = handler
	utils.Info(message, context)
}
