package server

import (
	auction "auction-house/internal/auctionService"
	auth "auction-house/internal/authService"
	bidding "auction-house/internal/biddingService"
	handler "auction-house/services/web/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application. templatesGlob
// points at the HTML templates, e.g. "web/templates/*.html".
func SetupRouter(authService *auth.AuthService, auctionService *auction.AuctionService, biddingService *bidding.BiddingService, templatesGlob string) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging
	router.Use(SessionMiddleware(authService))

	router.LoadHTMLGlob(templatesGlob)

	authHandler := handler.NewAuthHandler(authService)
	listingHandler := handler.NewListingHandler(auctionService, biddingService)

	router.GET("/", listingHandler.IndexHandler)
	router.GET("/categorize", listingHandler.CategorizeHandler)

	router.GET("/login", authHandler.LoginFormHandler)
	router.POST("/login", authHandler.LoginHandler)
	router.POST("/logout", authHandler.LogoutHandler)
	router.GET("/register", authHandler.RegisterFormHandler)
	router.POST("/register", authHandler.RegisterHandler)

	listings := router.Group("/listings")
	{
		listings.GET("/create", RequireAuth, listingHandler.NewListingHandler)
		listings.POST("/create", RequireAuth, listingHandler.CreateListingHandler)
		listings.GET("/:id", listingHandler.ShowListingHandler)
		listings.POST("/:id", RequireAuth, listingHandler.ListingActionHandler)
		listings.POST("/:id/close", RequireAuth, listingHandler.CloseListingHandler)
	}

	router.GET("/watchlist", RequireAuth, listingHandler.WatchlistHandler)

	return router
}
