package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeletable(t *testing.T) {
	assert.True(t, (&Message{Kind: MessageKindText, Status: MessageStatusSent}).Deletable())
	assert.True(t, (&Message{Kind: MessageKindImage, Status: MessageStatusRead}).Deletable())
	assert.False(t, (&Message{Kind: MessageKindSystem}).Deletable())
	assert.False(t, (&Message{Kind: MessageKindAction}).Deletable())
	assert.False(t, (&Message{Kind: MessageKindText, Status: MessageStatusDeleted}).Deletable())
}

func TestTombstoneClearsContent(t *testing.T) {
	m := &Message{
		Kind:      MessageKindImage,
		Status:    MessageStatusSent,
		Text:      "caption",
		ImageURLs: []string{"https://storage.example.com/a.jpg"},
	}
	m.Tombstone()

	assert.Equal(t, MessageStatusDeleted, m.Status)
	assert.Empty(t, m.Text)
	assert.Nil(t, m.ImageURLs)
	assert.Nil(t, m.Action)
}

func TestMessageCloneIsDeep(t *testing.T) {
	m := &Message{
		ImageURLs: []string{"a"},
		Action: &ActionCard{
			Type:   ActionTypeOffer,
			Status: ActionStatusPending,
			Offer:  &OfferAction{ListingID: "lst-1", Amount: 100},
		},
	}
	c := m.Clone()
	c.ImageURLs[0] = "b"
	c.Action.Status = ActionStatusAccepted
	c.Action.Offer.Amount = 999

	assert.Equal(t, "a", m.ImageURLs[0])
	assert.Equal(t, ActionStatusPending, m.Action.Status)
	assert.Equal(t, float64(100), m.Action.Offer.Amount)
}

func TestConversationCounterpart(t *testing.T) {
	c := &Conversation{Participants: []string{"a", "b"}}
	assert.Equal(t, "b", c.Counterpart("a"))
	assert.Equal(t, "a", c.Counterpart("b"))
	assert.True(t, c.HasParticipant("a"))
	assert.False(t, c.HasParticipant("z"))
}
