package router

import (
	"github.com/labstack/echo/v4"

	"tukarlapak/internal/adapter/api/handler"
	"tukarlapak/internal/adapter/api/middleware"
)

func SetupReviewRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	reviewHandler := handler.GetReviewHandler()

	// Review listings on a profile are public
	e.GET("/v1/users/:id/reviews", reviewHandler.ListUserReviews)

	reviews := e.Group("/v1/reviews")
	reviews.Use(authMiddleware.Authenticate)

	reviews.POST("", reviewHandler.CreateReview)
}
