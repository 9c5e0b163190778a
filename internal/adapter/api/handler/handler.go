package handler

import (
	"tukarlapak/internal/usecase"
)

var (
	authHandler         *AuthHandler
	userHandler         *UserHandler
	listingHandler      *ListingHandler
	chatHandler         *ChatHandler
	orderHandler        *OrderHandler
	barterHandler       *BarterHandler
	notificationHandler *NotificationHandler
	reviewHandler       *ReviewHandler
	callHandler         *CallHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	listingUseCase *usecase.ListingUseCase,
	chatUseCase *usecase.ChatUseCase,
	orderUseCase *usecase.OrderUseCase,
	barterUseCase *usecase.BarterUseCase,
	notificationUseCase *usecase.NotificationUseCase,
	reviewUseCase *usecase.ReviewUseCase,
	callUseCase *usecase.CallUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	listingHandler = NewListingHandler(listingUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	orderHandler = NewOrderHandler(orderUseCase)
	barterHandler = NewBarterHandler(barterUseCase)
	notificationHandler = NewNotificationHandler(notificationUseCase)
	reviewHandler = NewReviewHandler(reviewUseCase)
	callHandler = NewCallHandler(callUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetListingHandler() *ListingHandler {
	return listingHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetOrderHandler() *OrderHandler {
	return orderHandler
}

func GetBarterHandler() *BarterHandler {
	return barterHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}

func GetReviewHandler() *ReviewHandler {
	return reviewHandler
}

func GetCallHandler() *CallHandler {
	return callHandler
}
