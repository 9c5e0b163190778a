package router

import (
	"github.com/labstack/echo/v4"

	"tukarlapak/internal/adapter/api/handler"
	"tukarlapak/internal/adapter/api/middleware"
)

func SetupCallRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	callHandler := handler.GetCallHandler()

	calls := e.Group("/v1/calls")
	calls.Use(authMiddleware.Authenticate)

	calls.POST("", callHandler.StartCall)
	calls.POST("/:id/respond", callHandler.RespondToCall)
	calls.POST("/:id/end", callHandler.EndCall)
}
