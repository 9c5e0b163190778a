package router

import (
	"github.com/labstack/echo/v4"

	"tukarlapak/internal/adapter/api/handler"
	"tukarlapak/internal/adapter/api/middleware"
)

func SetupBarterRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	barterHandler := handler.GetBarterHandler()

	barters := e.Group("/v1/barters")
	barters.Use(authMiddleware.Authenticate)

	barters.POST("", barterHandler.CreateBarter)
	barters.GET("", barterHandler.ListBarters)
	barters.GET("/:id", barterHandler.GetBarter)
	barters.POST("/:id/status", barterHandler.TransitionBarter)
	barters.POST("/:id/confirm-meetup", barterHandler.ConfirmMeetup)
}
