package router

import (
	"github.com/labstack/echo/v4"

	"tukarlapak/internal/adapter/api/handler"
	"tukarlapak/internal/adapter/api/middleware"
)

func SetupListingRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	listingHandler := handler.GetListingHandler()

	// Browsing is public; an optional token lets the view counter dedup
	// per signed-in viewer.
	e.GET("/v1/listings", listingHandler.ListListings)
	e.GET("/v1/listings/:id", listingHandler.GetListing, authMiddleware.OptionalAuthenticate)

	listings := e.Group("/v1/listings")
	listings.Use(authMiddleware.Authenticate)

	listings.POST("", listingHandler.CreateListing)
	listings.PATCH("/:id", listingHandler.UpdateListing)
	listings.DELETE("/:id", listingHandler.DeleteListing)

	listings.POST("/:id/favorite", listingHandler.AddFavorite)
	listings.DELETE("/:id/favorite", listingHandler.RemoveFavorite)

	me := e.Group("/v1/me")
	me.Use(authMiddleware.Authenticate)

	me.GET("/listings", listingHandler.MyListings)
	me.GET("/favorites", listingHandler.ListFavorites)
}
