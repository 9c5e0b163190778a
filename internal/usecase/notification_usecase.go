package usecase

import (
	"context"
	"log"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/internal/domain/repository"
	"tukarlapak/internal/infrastructure/realtime"
)

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	hub              *realtime.Hub
}

func NewNotificationUseCase(notificationRepo repository.NotificationRepository, hub *realtime.Hub) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		hub:              hub,
	}
}

// Notify persists a notification for its recipient and fans the created
// event out. Failures are logged, never propagated: notifications are a
// side effect of some primary operation that has already succeeded.
func (uc *NotificationUseCase) Notify(ctx context.Context, notification *entity.Notification) {
	if notification.RecipientID == "" || notification.RecipientID == notification.ActorID {
		return
	}

	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		log.Printf("Failed to create notification for %s: %v", notification.RecipientID, err)
		return
	}

	uc.hub.Publish(realtime.ChangeEvent{
		Collection: "notifications",
		Kind:       realtime.ChangeCreated,
		EntityID:   notification.ID,
		Entity:     notification,
	}, notification.RecipientID)
}

func (uc *NotificationUseCase) ListNotifications(ctx context.Context, userID string, limit, offset int) ([]*entity.Notification, int64, error) {
	return uc.notificationRepo.ListByRecipient(ctx, userID, limit, offset)
}

func (uc *NotificationUseCase) CountUnread(ctx context.Context, userID string) (int64, error) {
	return uc.notificationRepo.CountUnread(ctx, userID)
}

func (uc *NotificationUseCase) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	return uc.notificationRepo.MarkRead(ctx, userID, notificationID)
}

func (uc *NotificationUseCase) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	return uc.notificationRepo.MarkAllRead(ctx, userID)
}

func (uc *NotificationUseCase) DeleteNotification(ctx context.Context, userID, notificationID string) error {
	if err := uc.notificationRepo.Delete(ctx, userID, notificationID); err != nil {
		return err
	}

	uc.hub.Publish(realtime.ChangeEvent{
		Collection: "notifications",
		Kind:       realtime.ChangeDeleted,
		EntityID:   notificationID,
	}, userID)
	return nil
}
