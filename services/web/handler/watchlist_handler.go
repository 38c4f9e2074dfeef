package handler

import (
	"net/http"

	"auction-house/services/web/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

// WatchlistHandler renders the logged-in user's watched listings
func (h *ListingHandler) WatchlistHandler(c *gin.Context) {
	user, _ := helpers.CurrentUser(c)

	auctions, err := h.auctions.Watchlist(c.Request.Context(), user.ID)
	if err != nil {
		utils.Error("failed to load watchlist", map[string]any{"user_id": user.ID, "error": err.Error()})
		utils.HTMLError(c, http.StatusInternalServerError, "Internal server error.")
		return
	}

	data := h.pageData(c, "Watchlist")
	data["Auctions"] = auctions
	c.HTML(http.StatusOK, "watchlist.html", data)
}

// CategorizeHandler renders the listings of the category in the "select"
// query parameter. An unknown code shows an empty page rather than an error.
func (h *ListingHandler) CategorizeHandler(c *gin.Context) {
	code := c.Query("select")

	auctions, label, err := h.auctions.ListByCategory(c.Request.Context(), code)
	if err != nil {
		utils.Error("failed to list category", map[string]any{"category": code, "error": err.Error()})
		utils.HTMLError(c, http.StatusInternalServerError, "Internal server error.")
		return
	}

	data := h.pageData(c, "Category")
	data["Auctions"] = auctions
	data["CategoryLabel"] = label
	c.HTML(http.StatusOK, "category.html", data)
}
