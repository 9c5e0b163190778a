package stream

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/pkg/errors"
	"tukarlapak/pkg/logger"
)

// ChatBackend is the mutation surface a chat stream needs from the store.
// Implemented by usecase.ChatUseCase.
type ChatBackend interface {
	ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, int64, error)
	SendMessage(ctx context.Context, msg *entity.Message) (*entity.Message, error)
	MarkMessagesRead(ctx context.Context, conversationID, readerID string, messageIDs []string) error
	DeleteMessage(ctx context.Context, conversationID, userID, messageID string) error
	RespondToAction(ctx context.Context, conversationID, userID, messageID, response string, withSystemMessage bool) error
}

// Uploader pushes image bytes to object storage and returns a public URL.
type Uploader interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// ImageStatus is the per-image upload sub-status, tracked outside the
// message entity in an auxiliary map keyed by correlation token.
type ImageStatus string

const (
	ImageUploading ImageStatus = "uploading"
	ImageUploaded  ImageStatus = "uploaded"
	ImageError     ImageStatus = "error"
)

// ChatStream materializes one conversation's message list: bulk loads,
// optimistic sends with rollback, tombstone deletes, action-card responses
// and realtime merge of counterpart activity.
type ChatStream struct {
	conversationID string
	userID         string
	counterpartID  string

	backend  ChatBackend
	uploader Uploader
	rec      *Reconciler[*entity.Message]
	typing   *TypingTracker

	mu      sync.Mutex
	uploads map[string]ImageStatus
	loading bool
	focused bool
	alert   func(error)
}

func NewChatStream(conversationID, userID, counterpartID string, backend ChatBackend, uploader Uploader) *ChatStream {
	return &ChatStream{
		conversationID: conversationID,
		userID:         userID,
		counterpartID:  counterpartID,
		backend:        backend,
		uploader:       uploader,
		rec:            NewReconciler[*entity.Message](),
		typing:         NewTypingTracker(DefaultTypingQuiet, nil),
		uploads:        make(map[string]ImageStatus),
		alert: func(err error) {
			logger.Warn("chat stream alert: %v", err)
		},
	}
}

// SetAlert installs the user-facing alert sink for non-fatal failures.
func (s *ChatStream) SetAlert(f func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f != nil {
		s.alert = f
	}
}

// Focus bulk-loads the conversation and marks counterpart messages read.
func (s *ChatStream) Focus(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	msgs, _, err := s.backend.ListMessages(ctx, s.conversationID, 50, 0)
	if err != nil {
		return err
	}
	s.rec.Load(msgs)

	s.mu.Lock()
	s.focused = true
	s.mu.Unlock()

	return s.MarkRead(ctx)
}

// Blur stops read-receipt side effects; subscription teardown belongs to
// the owning session.
func (s *ChatStream) Blur() {
	s.mu.Lock()
	s.focused = false
	s.mu.Unlock()
	s.typing.Stop()
}

func (s *ChatStream) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *ChatStream) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// Messages returns the current newest-first view.
func (s *ChatStream) Messages() []*entity.Message {
	return s.rec.Items()
}

// Items returns the view with date separators and minute-grouping flags.
func (s *ChatStream) Items() []ChatItem {
	return BuildChatItems(s.rec.Items())
}

// UploadStatus reports the image sub-status for an optimistic image send.
func (s *ChatStream) UploadStatus(token string) (ImageStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.uploads[token]
	return st, ok
}

// Send validates, optimistically inserts and persists a text message. On
// failure the optimistic entry is rolled back and the error returned.
func (s *ChatStream) Send(ctx context.Context, text string) (*entity.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.BadRequest("Message text cannot be empty", nil)
	}

	token := NewToken()
	msg := &entity.Message{
		ID:             token, // synthetic local id until acknowledged
		ConversationID: s.conversationID,
		SenderID:       s.userID,
		Text:           text,
		Kind:           entity.MessageKindText,
		Status:         entity.MessageStatusSent,
		ClientToken:    token,
		CreatedAt:      time.Now(),
	}
	s.rec.InsertOptimistic(msg)

	ack, err := s.backend.SendMessage(ctx, msg.Clone())
	if err != nil {
		s.rec.Rollback(token)
		return nil, err
	}

	// The acknowledgment may also arrive via the realtime channel; Apply is
	// idempotent against the duplicate.
	s.rec.Apply(Event[*entity.Message]{Kind: EventCreated, Entity: ack})
	return ack, nil
}

// SendImages uploads each image and sends one message per image. Units fail
// independently: an upload error leaves its optimistic entry in place with
// sub-status "error" and never touches its siblings.
func (s *ChatStream) SendImages(ctx context.Context, images [][]byte, contentType string) ([]string, error) {
	if len(images) == 0 {
		return nil, errors.BadRequest("No images to send", nil)
	}

	tokens := make([]string, len(images))
	for i := range images {
		token := NewToken()
		tokens[i] = token
		msg := &entity.Message{
			ID:             token,
			ConversationID: s.conversationID,
			SenderID:       s.userID,
			Kind:           entity.MessageKindImage,
			Status:         entity.MessageStatusSent,
			ClientToken:    token,
			CreatedAt:      time.Now(),
		}
		s.setUpload(token, ImageUploading)
		s.rec.InsertOptimistic(msg)
	}

	for i, data := range images {
		token := tokens[i]
		path := fmt.Sprintf("conversations/%s/%s", s.conversationID, token)

		url, err := s.uploader.Upload(ctx, path, data, contentType)
		if err != nil {
			s.setUpload(token, ImageError)
			s.alert(errors.Internal("Failed to upload image", err))
			continue
		}

		var draft *entity.Message
		s.rec.Mutate(token, func(m *entity.Message) {
			m.ImageURLs = []string{url}
			draft = m.Clone()
		})
		s.setUpload(token, ImageUploaded)

		ack, err := s.backend.SendMessage(ctx, draft)
		if err != nil {
			s.rec.Rollback(token)
			s.setUpload(token, ImageError)
			s.alert(err)
			continue
		}
		s.rec.Apply(Event[*entity.Message]{Kind: EventCreated, Entity: ack})
	}

	return tokens, nil
}

func (s *ChatStream) setUpload(token string, st ImageStatus) {
	s.mu.Lock()
	s.uploads[token] = st
	s.mu.Unlock()
}

// MarkRead flips every unread counterpart-authored message to read and
// resets the reader's unread counter. Only acts while the screen is focused.
func (s *ChatStream) MarkRead(ctx context.Context) error {
	s.mu.Lock()
	focused := s.focused
	s.mu.Unlock()
	if !focused || s.counterpartID == s.userID {
		return nil
	}

	var ids []string
	for _, m := range s.rec.Items() {
		if m.SenderID == s.counterpartID && m.Status == entity.MessageStatusSent {
			ids = append(ids, m.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	for _, id := range ids {
		s.rec.Mutate(id, func(m *entity.Message) { m.Status = entity.MessageStatusRead })
	}

	if err := s.backend.MarkMessagesRead(ctx, s.conversationID, s.userID, ids); err != nil {
		for _, id := range ids {
			s.rec.Mutate(id, func(m *entity.Message) { m.Status = entity.MessageStatusSent })
		}
		return err
	}
	return nil
}

// Delete tombstones one of the user's own text/image messages.
func (s *ChatStream) Delete(ctx context.Context, messageID string) error {
	msg, ok := s.rec.ByID(messageID)
	if !ok {
		return errors.NotFound("Message", nil)
	}
	if msg.SenderID != s.userID {
		return errors.Forbidden("Only the sender can delete a message", nil)
	}
	if !msg.Deletable() {
		return errors.BadRequest("This message cannot be deleted", nil)
	}

	snapshot := msg.Clone()
	s.rec.Mutate(messageID, func(m *entity.Message) { m.Tombstone() })

	if err := s.backend.DeleteMessage(ctx, s.conversationID, s.userID, messageID); err != nil {
		s.rec.Mutate(messageID, func(m *entity.Message) { *m = *snapshot })
		return err
	}
	return nil
}

// RespondToAction accepts or declines a pending action card. A card that has
// already been responded to is rejected locally with no side effects.
func (s *ChatStream) RespondToAction(ctx context.Context, messageID, response string, withSystemMessage bool) error {
	if response != entity.ActionStatusAccepted && response != entity.ActionStatusDeclined {
		return errors.BadRequest("Response must be accepted or declined", nil)
	}

	msg, ok := s.rec.ByID(messageID)
	if !ok {
		return errors.NotFound("Message", nil)
	}
	if msg.Kind != entity.MessageKindAction || msg.Action == nil {
		return errors.BadRequest("Message is not an action card", nil)
	}
	if msg.Action.Status != entity.ActionStatusPending {
		return errors.AlreadyHandled("This action has already been responded to")
	}
	if msg.SenderID == s.userID {
		return errors.Forbidden("Only the recipient can respond to this action", nil)
	}

	snapshot := msg.Clone()
	now := time.Now()
	s.rec.Mutate(messageID, func(m *entity.Message) {
		m.Action.Status = response
		m.Action.RespondedBy = s.userID
		m.Action.RespondedAt = &now
	})

	if err := s.backend.RespondToAction(ctx, s.conversationID, s.userID, messageID, response, withSystemMessage); err != nil {
		s.rec.Mutate(messageID, func(m *entity.Message) { *m = *snapshot })
		return err
	}
	return nil
}

// OnEvent merges one realtime change event into the view. Safe to call for
// events arriving after Blur; the merge is idempotent.
func (s *ChatStream) OnEvent(ev Event[*entity.Message]) bool {
	return s.rec.Apply(ev)
}

// Typing exposes the ephemeral typing tracker for the broadcast channel.
func (s *ChatStream) Typing() *TypingTracker {
	return s.typing
}
