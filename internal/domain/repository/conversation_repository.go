package repository

import (
	"context"

	"tukarlapak/internal/domain/entity"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	// FindByParticipants returns the existing conversation between exactly
	// these two users, or a NotFound error.
	FindByParticipants(ctx context.Context, userA, userB string) (*entity.Conversation, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Conversation, int64, error)
	Update(ctx context.Context, conversation *entity.Conversation) error

	// Message methods
	CreateMessage(ctx context.Context, message *entity.Message) error
	GetMessageByID(ctx context.Context, conversationID, messageID string) (*entity.Message, error)
	GetMessagesByConversation(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, int64, error)
	UpdateMessage(ctx context.Context, message *entity.Message) error
	// UpdateMessagesStatus bulk-updates the status of the given messages.
	UpdateMessagesStatus(ctx context.Context, conversationID string, messageIDs []string, status string) error
}

type SavedReplyRepository interface {
	Create(ctx context.Context, reply *entity.SavedReply) error
	ListByUserID(ctx context.Context, userID string) ([]*entity.SavedReply, error)
	Delete(ctx context.Context, userID, replyID string) error
}
