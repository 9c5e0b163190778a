package router

import (
	"github.com/labstack/echo/v4"

	"tukarlapak/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	SetupAuthRouter(e, authMiddleware)
	SetupUserRouter(e, authMiddleware)
	SetupListingRouter(e, authMiddleware)
	SetupChatRouter(e, authMiddleware)
	SetupOrderRouter(e, authMiddleware)
	SetupBarterRouter(e, authMiddleware)
	SetupNotificationRouter(e, authMiddleware)
	SetupReviewRouter(e, authMiddleware)
	SetupCallRouter(e, authMiddleware)
	SetupHealthRouter(e)
}
