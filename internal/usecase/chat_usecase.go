package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/internal/domain/repository"
	"tukarlapak/internal/infrastructure/ratelimit"
	"tukarlapak/internal/infrastructure/realtime"
	"tukarlapak/pkg/errors"
)

type ChatUseCase struct {
	conversationRepo repository.ConversationRepository
	savedReplyRepo   repository.SavedReplyRepository
	userRepo         repository.UserRepository
	listingRepo      repository.ListingRepository
	notifier         *NotificationUseCase
	hub              *realtime.Hub
	rateLimiter      *ratelimit.RateLimiter
}

func NewChatUseCase(
	conversationRepo repository.ConversationRepository,
	savedReplyRepo repository.SavedReplyRepository,
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
	notifier *NotificationUseCase,
	hub *realtime.Hub,
	rateLimiter *ratelimit.RateLimiter,
) *ChatUseCase {
	return &ChatUseCase{
		conversationRepo: conversationRepo,
		savedReplyRepo:   savedReplyRepo,
		userRepo:         userRepo,
		listingRepo:      listingRepo,
		notifier:         notifier,
		hub:              hub,
		rateLimiter:      rateLimiter,
	}
}

type ConversationResponse struct {
	*entity.Conversation
	OtherUser *entity.User `json:"other_user,omitempty"`
}

// FindOrCreateConversation returns the existing conversation between the
// two users or creates an empty one. Exactly one conversation exists per
// user pair.
func (uc *ChatUseCase) FindOrCreateConversation(ctx context.Context, userID, otherUserID string) (*entity.Conversation, error) {
	if userID == otherUserID {
		return nil, errors.BadRequest("Cannot start a conversation with yourself", nil)
	}
	if _, err := uc.userRepo.GetByID(ctx, otherUserID); err != nil {
		return nil, err
	}

	conversation, err := uc.conversationRepo.FindByParticipants(ctx, userID, otherUserID)
	if err == nil {
		return conversation, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	allowed, waitTime := uc.rateLimiter.Allow(userID, "create_conversation")
	if !allowed {
		log.Printf("FindOrCreateConversation rate limited: user %s must wait %v", userID, waitTime)
		return nil, errors.TooManyRequests("Too many new conversations. Please wait", waitTime)
	}

	conversation = &entity.Conversation{
		Participants: []string{userID, otherUserID},
		UnreadCount:  map[string]int{userID: 0, otherUserID: 0},
	}
	if err := uc.conversationRepo.Create(ctx, conversation); err != nil {
		// Lost a create race; the winner's document is the conversation.
		if existing, findErr := uc.conversationRepo.FindByParticipants(ctx, userID, otherUserID); findErr == nil {
			return existing, nil
		}
		return nil, err
	}

	return conversation, nil
}

func (uc *ChatUseCase) ListConversations(ctx context.Context, userID string, limit, offset int) ([]*ConversationResponse, int64, error) {
	conversations, total, err := uc.conversationRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*ConversationResponse, 0, len(conversations))
	for _, conversation := range conversations {
		response := &ConversationResponse{Conversation: conversation}
		if other, err := uc.userRepo.GetByID(ctx, conversation.Counterpart(userID)); err == nil {
			response.OtherUser = other
		}
		responses = append(responses, response)
	}

	return responses, total, nil
}

func (uc *ChatUseCase) GetConversation(ctx context.Context, userID, conversationID string) (*entity.Conversation, error) {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant of this conversation", nil)
	}
	return conversation, nil
}

// ListMessages returns a page of the conversation's messages, newest-first.
func (uc *ChatUseCase) ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, int64, error) {
	return uc.conversationRepo.GetMessagesByConversation(ctx, conversationID, limit, offset)
}

// SendMessage persists a message, updates the conversation preview and the
// recipient's unread counter, and fans the created event out. The caller's
// correlation token survives into the stored entity so optimistic views can
// match the acknowledgment.
func (uc *ChatUseCase) SendMessage(ctx context.Context, msg *entity.Message) (*entity.Message, error) {
	allowed, waitTime := uc.rateLimiter.Allow(msg.SenderID, "send_message")
	if !allowed {
		log.Printf("SendMessage rate limited: user %s must wait %v", msg.SenderID, waitTime)
		return nil, errors.TooManyRequests("Too many messages. Please slow down", waitTime)
	}

	conversation, err := uc.GetConversation(ctx, msg.SenderID, msg.ConversationID)
	if err != nil {
		return nil, err
	}

	stored := msg.Clone()
	stored.ID = "" // repository assigns the authoritative id
	if stored.Kind == "" {
		stored.Kind = entity.MessageKindText
	}
	stored.Status = entity.MessageStatusSent
	stored.CreatedAt = time.Now()

	if err := uc.conversationRepo.CreateMessage(ctx, stored); err != nil {
		return nil, err
	}

	recipient := conversation.Counterpart(msg.SenderID)
	uc.touchConversation(ctx, conversation, stored, recipient)

	uc.hub.Publish(realtime.ChangeEvent{
		Collection: "messages",
		Kind:       realtime.ChangeCreated,
		EntityID:   stored.ID,
		Entity:     stored,
	}, conversation.Participants...)

	// Best effort: a notification failure never fails the send.
	if uc.notifier != nil {
		uc.notifier.Notify(ctx, &entity.Notification{
			RecipientID: recipient,
			ActorID:     stored.SenderID,
			Type:        entity.NotificationNewMessage,
			Message:     previewText(stored),
			Ref: entity.NotificationRef{
				ConversationID: stored.ConversationID,
				MessageID:      stored.ID,
			},
		})
	}

	return stored, nil
}

// MarkMessagesRead flips the given messages to read and zeroes the reader's
// unread counter on the conversation.
func (uc *ChatUseCase) MarkMessagesRead(ctx context.Context, conversationID, readerID string, messageIDs []string) error {
	conversation, err := uc.GetConversation(ctx, readerID, conversationID)
	if err != nil {
		return err
	}

	if err := uc.conversationRepo.UpdateMessagesStatus(ctx, conversationID, messageIDs, entity.MessageStatusRead); err != nil {
		return err
	}

	if conversation.UnreadCount[readerID] != 0 {
		conversation.UnreadCount[readerID] = 0
		if err := uc.conversationRepo.Update(ctx, conversation); err != nil {
			log.Printf("Failed to reset unread counter for %s in %s: %v", readerID, conversationID, err)
		}
	}

	// Read receipts for the sender's view.
	for _, id := range messageIDs {
		if msg, err := uc.conversationRepo.GetMessageByID(ctx, conversationID, id); err == nil {
			uc.hub.Publish(realtime.ChangeEvent{
				Collection: "messages",
				Kind:       realtime.ChangeUpdated,
				EntityID:   msg.ID,
				Entity:     msg,
			}, conversation.Counterpart(readerID))
		}
	}

	return nil
}

// DeleteMessage tombstones a message in place. The entry stays in the list
// with its content cleared.
func (uc *ChatUseCase) DeleteMessage(ctx context.Context, conversationID, userID, messageID string) error {
	conversation, err := uc.GetConversation(ctx, userID, conversationID)
	if err != nil {
		return err
	}

	msg, err := uc.conversationRepo.GetMessageByID(ctx, conversationID, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != userID {
		return errors.Forbidden("Only the sender can delete a message", nil)
	}
	if !msg.Deletable() {
		return errors.BadRequest("This message cannot be deleted", nil)
	}

	msg.Tombstone()
	if err := uc.conversationRepo.UpdateMessage(ctx, msg); err != nil {
		return err
	}

	// If the deleted message was the latest, fix the preview.
	if conversation.LastMessageAt.Equal(msg.CreatedAt) {
		conversation.LastMessage = entity.DeletedMessageLabel
		conversation.LastMessageKind = entity.MessageKindText
		if err := uc.conversationRepo.Update(ctx, conversation); err != nil {
			log.Printf("Failed to update conversation preview after delete: %v", err)
		}
	}

	uc.hub.Publish(realtime.ChangeEvent{
		Collection: "messages",
		Kind:       realtime.ChangeUpdated,
		EntityID:   msg.ID,
		Entity:     msg,
	}, conversation.Participants...)

	return nil
}

// RespondToAction resolves a pending action card exactly once. A second
// response from either device loses with ALREADY_HANDLED.
func (uc *ChatUseCase) RespondToAction(ctx context.Context, conversationID, userID, messageID, response string, withSystemMessage bool) error {
	conversation, err := uc.GetConversation(ctx, userID, conversationID)
	if err != nil {
		return err
	}

	msg, err := uc.conversationRepo.GetMessageByID(ctx, conversationID, messageID)
	if err != nil {
		return err
	}
	if msg.Kind != entity.MessageKindAction || msg.Action == nil {
		return errors.BadRequest("Message is not an action card", nil)
	}
	if msg.SenderID == userID {
		return errors.Forbidden("Only the recipient can respond to this action", nil)
	}
	if msg.Action.Status != entity.ActionStatusPending {
		return errors.AlreadyHandled("This action has already been responded to")
	}
	if response != entity.ActionStatusAccepted && response != entity.ActionStatusDeclined {
		return errors.BadRequest("Response must be accepted or declined", nil)
	}

	now := time.Now()
	msg.Action.Status = response
	msg.Action.RespondedBy = userID
	msg.Action.RespondedAt = &now

	if err := uc.conversationRepo.UpdateMessage(ctx, msg); err != nil {
		return err
	}

	uc.hub.Publish(realtime.ChangeEvent{
		Collection: "messages",
		Kind:       realtime.ChangeUpdated,
		EntityID:   msg.ID,
		Entity:     msg,
	}, conversation.Participants...)

	if withSystemMessage {
		system := &entity.Message{
			ConversationID: conversationID,
			SenderID:       userID,
			Kind:           entity.MessageKindSystem,
			Status:         entity.MessageStatusSent,
			Text:           systemTextForAction(msg.Action, response),
			CreatedAt:      time.Now(),
		}
		if err := uc.conversationRepo.CreateMessage(ctx, system); err != nil {
			log.Printf("Failed to create system message for action %s: %v", messageID, err)
			return nil
		}
		uc.touchConversation(ctx, conversation, system, conversation.Counterpart(userID))
		uc.hub.Publish(realtime.ChangeEvent{
			Collection: "messages",
			Kind:       realtime.ChangeCreated,
			EntityID:   system.ID,
			Entity:     system,
		}, conversation.Participants...)
	}

	return nil
}

// RelayTyping forwards an ephemeral typing signal to the counterpart.
func (uc *ChatUseCase) RelayTyping(ctx context.Context, signal realtime.TypingSignal) {
	allowed, _ := uc.rateLimiter.Allow(signal.UserID, "typing")
	if !allowed {
		return
	}

	conversation, err := uc.GetConversation(ctx, signal.UserID, signal.ConversationID)
	if err != nil {
		return
	}

	uc.hub.Ephemeral(realtime.FrameTyping, signal, conversation.Counterpart(signal.UserID))
}

func (uc *ChatUseCase) CreateSavedReply(ctx context.Context, userID, text string) (*entity.SavedReply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.BadRequest("Saved reply text cannot be empty", nil)
	}

	reply := &entity.SavedReply{UserID: userID, Text: text}
	if err := uc.savedReplyRepo.Create(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (uc *ChatUseCase) ListSavedReplies(ctx context.Context, userID string) ([]*entity.SavedReply, error) {
	return uc.savedReplyRepo.ListByUserID(ctx, userID)
}

func (uc *ChatUseCase) DeleteSavedReply(ctx context.Context, userID, replyID string) error {
	return uc.savedReplyRepo.Delete(ctx, userID, replyID)
}

// touchConversation refreshes the preview fields and bumps the recipient's
// unread counter after a new message.
func (uc *ChatUseCase) touchConversation(ctx context.Context, conversation *entity.Conversation, msg *entity.Message, recipient string) {
	conversation.LastMessage = previewText(msg)
	conversation.LastMessageKind = msg.Kind
	conversation.LastMessageAt = msg.CreatedAt
	if conversation.UnreadCount == nil {
		conversation.UnreadCount = make(map[string]int)
	}
	if msg.Kind != entity.MessageKindSystem {
		conversation.UnreadCount[recipient]++
	}

	if err := uc.conversationRepo.Update(ctx, conversation); err != nil {
		log.Printf("Failed to update conversation %s after message: %v", conversation.ID, err)
	}
}

func previewText(msg *entity.Message) string {
	switch msg.Kind {
	case entity.MessageKindImage:
		return "Sent a photo"
	case entity.MessageKindAction:
		if msg.Action != nil {
			switch msg.Action.Type {
			case entity.ActionTypeOffer:
				return "Sent an offer"
			case entity.ActionTypeTradeProposal:
				return "Proposed a trade"
			case entity.ActionTypeItemRequest:
				return "Requested an item"
			}
		}
		return "Sent an action"
	default:
		return msg.Text
	}
}

func systemTextForAction(action *entity.ActionCard, response string) string {
	verb := "declined"
	if response == entity.ActionStatusAccepted {
		verb = "accepted"
	}
	switch action.Type {
	case entity.ActionTypeOffer:
		return fmt.Sprintf("The offer was %s", verb)
	case entity.ActionTypeTradeProposal:
		return fmt.Sprintf("The trade proposal was %s", verb)
	case entity.ActionTypeItemRequest:
		return fmt.Sprintf("The item request was %s", verb)
	}
	return fmt.Sprintf("The action was %s", verb)
}
