package router

import (
	"github.com/labstack/echo/v4"

	"tukarlapak/internal/adapter/api/handler"
	"tukarlapak/internal/adapter/api/middleware"
)

func SetupFileRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	fileHandler := handler.GetFileHandler()

	files := e.Group("/v1/files")
	files.Use(authMiddleware.Authenticate)

	files.POST("/upload", fileHandler.UploadFile)
	files.GET("/upload-url", fileHandler.SignedUploadURL)
	files.DELETE("", fileHandler.DeleteFile)
}
