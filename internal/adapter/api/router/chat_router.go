package router

import (
	"github.com/labstack/echo/v4"

	"tukarlapak/internal/adapter/api/handler"
	"tukarlapak/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chats := e.Group("/v1/conversations")
	chats.Use(authMiddleware.Authenticate)

	chats.POST("", chatHandler.CreateConversation)
	chats.GET("", chatHandler.ListConversations)
	chats.GET("/:id", chatHandler.GetConversation)

	chats.GET("/:id/messages", chatHandler.ListMessages)
	chats.POST("/:id/messages", chatHandler.SendMessage)
	chats.PUT("/:id/messages/read", chatHandler.MarkMessagesRead)
	chats.DELETE("/:id/messages/:messageId", chatHandler.DeleteMessage)
	chats.POST("/:id/messages/:messageId/respond", chatHandler.RespondToAction)

	replies := e.Group("/v1/saved-replies")
	replies.Use(authMiddleware.Authenticate)

	replies.POST("", chatHandler.CreateSavedReply)
	replies.GET("", chatHandler.ListSavedReplies)
	replies.DELETE("/:replyId", chatHandler.DeleteSavedReply)
}
