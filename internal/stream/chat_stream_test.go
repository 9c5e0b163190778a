package stream

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/pkg/errors"
)

type fakeChatBackend struct {
	messages []*entity.Message
	sent     []*entity.Message
	readIDs  []string

	sendErr    error
	markErr    error
	deleteErr  error
	respondErr error

	nextID int
}

func (f *fakeChatBackend) ListMessages(_ context.Context, _ string, _, _ int) ([]*entity.Message, int64, error) {
	return f.messages, int64(len(f.messages)), nil
}

func (f *fakeChatBackend) SendMessage(_ context.Context, msg *entity.Message) (*entity.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.nextID++
	ack := msg.Clone()
	ack.ID = fmt.Sprintf("srv-%d", f.nextID)
	f.sent = append(f.sent, ack)
	return ack, nil
}

func (f *fakeChatBackend) MarkMessagesRead(_ context.Context, _, _ string, ids []string) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.readIDs = append(f.readIDs, ids...)
	return nil
}

func (f *fakeChatBackend) DeleteMessage(_ context.Context, _, _, _ string) error {
	return f.deleteErr
}

func (f *fakeChatBackend) RespondToAction(_ context.Context, _, _, _, _ string, _ bool) error {
	return f.respondErr
}

type fakeUploader struct {
	failOn map[int]bool
	calls  int
}

func (f *fakeUploader) Upload(_ context.Context, path string, _ []byte, _ string) (string, error) {
	f.calls++
	if f.failOn[f.calls] {
		return "", errors.Internal("upload failed", nil)
	}
	return "https://storage.example.com/" + path, nil
}

func newTestStream(backend *fakeChatBackend, uploader Uploader) *ChatStream {
	s := NewChatStream("conv-1", "buyer-1", "seller-1", backend, uploader)
	s.SetAlert(func(error) {})
	return s
}

func TestSendAppearsOnceAfterAcknowledgment(t *testing.T) {
	backend := &fakeChatBackend{}
	s := newTestStream(backend, nil)

	ack, err := s.Send(context.Background(), "Hello")
	assert.NoError(t, err)
	assert.Equal(t, "srv-1", ack.ID)

	msgs := s.Messages()
	assert.Len(t, msgs, 1)
	assert.Equal(t, "srv-1", msgs[0].ID)
	assert.Equal(t, "Hello", msgs[0].Text)

	// Realtime channel replays the same created event.
	s.OnEvent(Event[*entity.Message]{Kind: EventCreated, Entity: ack.Clone()})
	assert.Len(t, s.Messages(), 1)
}

func TestSendRollsBackOnBackendFailure(t *testing.T) {
	backend := &fakeChatBackend{sendErr: errors.Internal("store down", nil)}
	s := newTestStream(backend, nil)

	_, err := s.Send(context.Background(), "Hello")
	assert.Error(t, err)
	assert.Empty(t, s.Messages())
}

func TestSendRejectsBlankText(t *testing.T) {
	s := newTestStream(&fakeChatBackend{}, nil)

	_, err := s.Send(context.Background(), "   ")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
	assert.Empty(t, s.Messages())
}

func TestSendImagesFailuresAreIndependent(t *testing.T) {
	backend := &fakeChatBackend{}
	uploader := &fakeUploader{failOn: map[int]bool{2: true}}
	s := newTestStream(backend, uploader)

	tokens, err := s.SendImages(context.Background(), [][]byte{
		[]byte("one"), []byte("two"), []byte("three"),
	}, "image/jpeg")
	assert.NoError(t, err)
	assert.Len(t, tokens, 3)

	// All three entries remain; the failed one keeps its optimistic entry
	// with error sub-status, the siblings are acknowledged.
	assert.Len(t, s.Messages(), 3)
	assert.Len(t, backend.sent, 2)

	st, ok := s.UploadStatus(tokens[0])
	assert.True(t, ok)
	assert.Equal(t, ImageUploaded, st)

	st, _ = s.UploadStatus(tokens[1])
	assert.Equal(t, ImageError, st)

	st, _ = s.UploadStatus(tokens[2])
	assert.Equal(t, ImageUploaded, st)
}

func TestFocusMarksCounterpartMessagesRead(t *testing.T) {
	base := time.Now()
	theirs := msgAt("m-1", "", "for you", base)
	theirs.SenderID = "seller-1"
	mine := msgAt("m-2", "", "from me", base.Add(time.Minute))
	mine.SenderID = "buyer-1"

	backend := &fakeChatBackend{messages: []*entity.Message{mine, theirs}}
	s := newTestStream(backend, nil)

	assert.NoError(t, s.Focus(context.Background()))
	assert.Equal(t, []string{"m-1"}, backend.readIDs)

	byID, _ := s.rec.ByID("m-1")
	assert.Equal(t, entity.MessageStatusRead, byID.Status)
	byID, _ = s.rec.ByID("m-2")
	assert.Equal(t, entity.MessageStatusSent, byID.Status)
}

func TestMarkReadRevertsWhenBackendFails(t *testing.T) {
	theirs := msgAt("m-1", "", "for you", time.Now())
	theirs.SenderID = "seller-1"

	backend := &fakeChatBackend{messages: []*entity.Message{theirs}, markErr: errors.Internal("down", nil)}
	s := newTestStream(backend, nil)

	err := s.Focus(context.Background())
	assert.Error(t, err)

	byID, _ := s.rec.ByID("m-1")
	assert.Equal(t, entity.MessageStatusSent, byID.Status)
}

func TestDeleteTombstonesOwnMessage(t *testing.T) {
	mine := msgAt("m-1", "", "regret this", time.Now())
	mine.SenderID = "buyer-1"

	backend := &fakeChatBackend{messages: []*entity.Message{mine}}
	s := newTestStream(backend, nil)
	s.rec.Load(backend.messages)

	assert.NoError(t, s.Delete(context.Background(), "m-1"))

	byID, _ := s.rec.ByID("m-1")
	assert.Equal(t, entity.MessageStatusDeleted, byID.Status)
	assert.Equal(t, "", byID.Text)
}

func TestDeleteRefusesCounterpartMessage(t *testing.T) {
	theirs := msgAt("m-1", "", "not yours", time.Now())
	theirs.SenderID = "seller-1"

	s := newTestStream(&fakeChatBackend{}, nil)
	s.rec.Load([]*entity.Message{theirs})

	err := s.Delete(context.Background(), "m-1")
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestDeleteRestoresOnBackendFailure(t *testing.T) {
	mine := msgAt("m-1", "", "keep me", time.Now())
	mine.SenderID = "buyer-1"

	backend := &fakeChatBackend{deleteErr: errors.Internal("down", nil)}
	s := newTestStream(backend, nil)
	s.rec.Load([]*entity.Message{mine})

	assert.Error(t, s.Delete(context.Background(), "m-1"))

	byID, _ := s.rec.ByID("m-1")
	assert.Equal(t, entity.MessageStatusSent, byID.Status)
	assert.Equal(t, "keep me", byID.Text)
}

func actionCard(id, senderID string, status string) *entity.Message {
	return &entity.Message{
		ID:        id,
		SenderID:  senderID,
		Kind:      entity.MessageKindAction,
		Status:    entity.MessageStatusSent,
		CreatedAt: time.Now(),
		Action: &entity.ActionCard{
			Type:   entity.ActionTypeOffer,
			Status: status,
			Offer:  &entity.OfferAction{ListingID: "lst-1", Amount: 150000},
		},
	}
}

func TestRespondToActionAcceptsPendingCard(t *testing.T) {
	s := newTestStream(&fakeChatBackend{}, nil)
	s.rec.Load([]*entity.Message{actionCard("a-1", "seller-1", entity.ActionStatusPending)})

	assert.NoError(t, s.RespondToAction(context.Background(), "a-1", entity.ActionStatusAccepted, true))

	byID, _ := s.rec.ByID("a-1")
	assert.Equal(t, entity.ActionStatusAccepted, byID.Action.Status)
	assert.Equal(t, "buyer-1", byID.Action.RespondedBy)
	assert.NotNil(t, byID.Action.RespondedAt)
}

func TestRespondToActionRejectsAlreadyHandledCard(t *testing.T) {
	backend := &fakeChatBackend{}
	s := newTestStream(backend, nil)
	s.rec.Load([]*entity.Message{actionCard("a-1", "seller-1", entity.ActionStatusDeclined)})

	err := s.RespondToAction(context.Background(), "a-1", entity.ActionStatusAccepted, false)
	assert.True(t, errors.Is(err, "ALREADY_HANDLED"))

	byID, _ := s.rec.ByID("a-1")
	assert.Equal(t, entity.ActionStatusDeclined, byID.Action.Status)
}

func TestRespondToActionRevertsOnBackendFailure(t *testing.T) {
	backend := &fakeChatBackend{respondErr: errors.Internal("down", nil)}
	s := newTestStream(backend, nil)
	s.rec.Load([]*entity.Message{actionCard("a-1", "seller-1", entity.ActionStatusPending)})

	assert.Error(t, s.RespondToAction(context.Background(), "a-1", entity.ActionStatusAccepted, false))

	byID, _ := s.rec.ByID("a-1")
	assert.Equal(t, entity.ActionStatusPending, byID.Action.Status)
	assert.Nil(t, byID.Action.RespondedAt)
}
