package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	auction "auction-house/internal/auctionService"
	"auction-house/internal/models"
	"auction-house/services/web/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AuctionServiceInterface defines the listing operations the handlers need
type AuctionServiceInterface interface {
	CreateAuction(ctx context.Context, ownerID uint, input auction.ListingInput) (models.Auction, error)
	GetAuction(ctx context.Context, id uint) (models.Auction, error)
	ListAuctions(ctx context.Context) ([]models.Auction, error)
	ListByCategory(ctx context.Context, code string) ([]models.Auction, string, error)
	CloseAuction(ctx context.Context, auctionID, requesterID uint) error
	AddComment(ctx context.Context, auctionID, authorID uint, title, content string) (models.Comment, error)
	ToggleWatchlist(ctx context.Context, userID, auctionID uint) (string, error)
	WatchLabel(ctx context.Context, userID, auctionID uint) (string, error)
	Watchlist(ctx context.Context, userID uint) ([]models.Auction, error)
	WatchlistCount(ctx context.Context, userID uint) (int64, error)
}

// BiddingServiceInterface defines the bid operations the handlers need
type BiddingServiceInterface interface {
	PlaceBid(ctx context.Context, auctionID, bidderID uint, amount decimal.Decimal) (models.Bid, error)
}

// ListingHandler serves the listing pages: index, detail, creation, close,
// watchlist and category filter.
type ListingHandler struct {
	auctions AuctionServiceInterface
	bidding  BiddingServiceInterface
}

// NewListingHandler creates a new ListingHandler instance
func NewListingHandler(auctions AuctionServiceInterface, bidding BiddingServiceInterface) *ListingHandler {
	return &ListingHandler{auctions: auctions, bidding: bidding}
}

// IndexHandler renders the front page with every listing
func (h *ListingHandler) IndexHandler(c *gin.Context) {
	auctions, err := h.auctions.ListAuctions(c.Request.Context())
	if err != nil {
		utils.Error("failed to list auctions", map[string]any{"error": err.Error()})
		utils.HTMLError(c, http.StatusInternalServerError, "Internal server error.")
		return
	}

	data := h.pageData(c, "Active Listings")
	data["Auctions"] = auctions
	data["Categories"] = models.CategoryChoices
	c.HTML(http.StatusOK, "index.html", data)
}

// NewListingHandler renders the empty creation form
func (h *ListingHandler) NewListingHandler(c *gin.Context) {
	data := h.pageData(c, "Create Listing")
	data["Categories"] = models.CategoryChoices
	data["Durations"] = models.DurationChoices
	data["Form"] = helpers.ListingForm{Category: models.CategoryIT, Duration: 7}
	data["Errors"] = map[string]string{}
	c.HTML(http.StatusOK, "create_listing.html", data)
}

// CreateListingHandler validates the form and creates the listing. On
// validation failure the form is redisplayed with one message per field.
func (h *ListingHandler) CreateListingHandler(c *gin.Context) {
	user, _ := helpers.CurrentUser(c)

	var form helpers.ListingForm
	if err := c.ShouldBind(&form); err != nil {
		utils.Warn("unreadable listing form", map[string]any{"error": err.Error()})
		utils.HTMLError(c, http.StatusBadRequest, "Invalid listing.")
		return
	}

	fieldErrors := map[string]string{}
	price := decimal.Zero
	if form.Price != "" {
		parsed, err := decimal.NewFromString(form.Price)
		if err != nil {
			fieldErrors["price"] = "Start price must be a number."
		} else {
			price = parsed
		}
	}

	input := auction.ListingInput{
		Title:       form.Title,
		Description: form.Description,
		ImageURL:    form.Image,
		Category:    form.Category,
		Duration:    form.Duration,
		StartPrice:  price,
	}

	if len(fieldErrors) == 0 {
		created, err := h.auctions.CreateAuction(c.Request.Context(), user.ID, input)
		if err == nil {
			helpers.LogSuccess("CreateListingHandler", "listing created", map[string]any{
				"auction_id": created.ID,
				"owner_id":   user.ID,
			})
			utils.Redirect(c, "/listings/"+strconv.FormatUint(uint64(created.ID), 10))
			return
		}

		var validation *auction.ValidationError
		if !errors.As(err, &validation) {
			utils.Error("failed to create listing", map[string]any{"owner_id": user.ID, "error": err.Error()})
			utils.HTMLError(c, http.StatusInternalServerError, "Internal server error.")
			return
		}
		fieldErrors = validation.Fields
	}

	data := h.pageData(c, "Create Listing")
	data["Categories"] = models.CategoryChoices
	data["Durations"] = models.DurationChoices
	data["Form"] = form
	data["Errors"] = fieldErrors
	c.HTML(http.StatusBadRequest, "create_listing.html", data)
}

// ShowListingHandler renders the detail page of one listing
func (h *ListingHandler) ShowListingHandler(c *gin.Context) {
	auctionID, ok := parseListingID(c)
	if !ok {
		return
	}
	h.renderListing(c, auctionID, http.StatusOK, "")
}

// ListingActionHandler handles the three forms of the detail page. The
// submitted button name picks the action: "bid" places a bid, "comment"
// posts a comment and anything else toggles the watchlist.
func (h *ListingHandler) ListingActionHandler(c *gin.Context) {
	auctionID, ok := parseListingID(c)
	if !ok {
		return
	}
	user, _ := helpers.CurrentUser(c)

	if _, isBid := c.GetPostForm("bid"); isBid {
		h.placeBid(c, auctionID, user)
		return
	}
	if _, isComment := c.GetPostForm("comment"); isComment {
		h.postComment(c, auctionID, user)
		return
	}
	h.toggleWatch(c, auctionID, user)
}

// CloseListingHandler closes a listing on behalf of its owner
func (h *ListingHandler) CloseListingHandler(c *gin.Context) {
	auctionID, ok := parseListingID(c)
	if !ok {
		return
	}
	user, _ := helpers.CurrentUser(c)

	if err := h.auctions.CloseAuction(c.Request.Context(), auctionID, user.ID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.Warn("close rejected", map[string]any{"auction_id": auctionID, "user_id": user.ID, "error": err.Error()})
		utils.HTMLError(c, status, message)
		return
	}

	helpers.LogSuccess("CloseListingHandler", "listing closed", map[string]any{"auction_id": auctionID})
	utils.Redirect(c, "/listings/"+strconv.FormatUint(uint64(auctionID), 10))
}

func (h *ListingHandler) placeBid(c *gin.Context, auctionID uint, user models.User) {
	var form helpers.BidForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderListing(c, auctionID, http.StatusBadRequest, "Invalid bid amount.")
		return
	}
	amount, err := decimal.NewFromString(form.Price)
	if err != nil {
		h.renderListing(c, auctionID, http.StatusBadRequest, "Invalid bid amount.")
		return
	}

	bid, err := h.bidding.PlaceBid(c.Request.Context(), auctionID, user.ID, amount)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.Warn("bid rejected", map[string]any{"auction_id": auctionID, "user_id": user.ID, "error": err.Error()})
		h.renderListing(c, auctionID, status, message)
		return
	}

	helpers.LogSuccess("ListingActionHandler", "bid placed", map[string]any{
		"auction_id": auctionID,
		"bid_id":     bid.ID,
		"price":      bid.Price.String(),
	})
	h.renderListing(c, auctionID, http.StatusOK, "Your bid is the current highest.")
}

func (h *ListingHandler) postComment(c *gin.Context, auctionID uint, user models.User) {
	var form helpers.CommentForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderListing(c, auctionID, http.StatusBadRequest, "Comment text is required.")
		return
	}

	comment, err := h.auctions.AddComment(c.Request.Context(), auctionID, user.ID, form.Title, form.Content)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.Warn("comment rejected", map[string]any{"auction_id": auctionID, "user_id": user.ID, "error": err.Error()})
		h.renderListing(c, auctionID, status, message)
		return
	}

	helpers.LogSuccess("ListingActionHandler", "comment posted", map[string]any{
		"auction_id": auctionID,
		"comment_id": comment.ID,
	})
	h.renderListing(c, auctionID, http.StatusOK, "")
}

func (h *ListingHandler) toggleWatch(c *gin.Context, auctionID uint, user models.User) {
	if _, err := h.auctions.ToggleWatchlist(c.Request.Context(), user.ID, auctionID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.Warn("watchlist toggle failed", map[string]any{"auction_id": auctionID, "user_id": user.ID, "error": err.Error()})
		utils.HTMLError(c, status, message)
		return
	}
	h.renderListing(c, auctionID, http.StatusOK, "")
}

// renderListing loads the listing with fresh lifecycle state and renders the
// detail page with an optional inline message.
func (h *ListingHandler) renderListing(c *gin.Context, auctionID uint, status int, message string) {
	listing, err := h.auctions.GetAuction(c.Request.Context(), auctionID)
	if err != nil {
		errStatus, errMessage := helpers.MapErrorToHTTP(err)
		utils.Warn("failed to load listing", map[string]any{"auction_id": auctionID, "error": err.Error()})
		utils.HTMLError(c, errStatus, errMessage)
		return
	}

	data := h.pageData(c, listing.Title)
	data["Auction"] = listing
	data["Message"] = message
	data["WatchLabel"] = ""

	user, loggedIn := helpers.CurrentUser(c)
	if loggedIn {
		data["IsOwner"] = listing.OwnerID == user.ID
		label, err := h.auctions.WatchLabel(c.Request.Context(), user.ID, auctionID)
		if err != nil {
			utils.Error("failed to load watch label", map[string]any{"auction_id": auctionID, "error": err.Error()})
		} else {
			data["WatchLabel"] = label
		}
		data["IsWinner"] = !listing.Status && listing.Winner != "" && listing.Winner == user.Username
	}

	c.HTML(status, "listing.html", data)
}

// pageData builds the shared view state, including the watchlist badge
func (h *ListingHandler) pageData(c *gin.Context, title string) gin.H {
	count := int64(0)
	if user, loggedIn := helpers.CurrentUser(c); loggedIn {
		n, err := h.auctions.WatchlistCount(c.Request.Context(), user.ID)
		if err != nil {
			utils.Error("failed to count watchlist", map[string]any{"user_id": user.ID, "error": err.Error()})
		} else {
			count = n
		}
	}
	return helpers.PageData(c, title, count)
}

func parseListingID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.HTMLError(c, http.StatusNotFound, "Listing not found.")
		return 0, false
	}
	return uint(id), true
}
