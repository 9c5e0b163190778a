package entity

import "time"

type Conversation struct {
	ID           string   `json:"id" firestore:"id"`
	Participants []string `json:"participants" firestore:"participants"`
	// ParticipantsKey is the sorted, joined participant pair; it gives the
	// find-or-create path a single indexed equality to race on.
	ParticipantsKey string `json:"-" firestore:"participantsKey"`

	LastMessage     string         `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageKind string         `json:"last_message_kind,omitempty" firestore:"lastMessageKind,omitempty"`
	LastMessageAt   time.Time      `json:"last_message_at" firestore:"lastMessageAt"`
	UnreadCount     map[string]int `json:"unread_count" firestore:"unreadCount"` // userID -> unread messages
	CreatedAt       time.Time      `json:"created_at" firestore:"createdAt"`
	UpdatedAt       time.Time      `json:"updated_at" firestore:"updatedAt"`
}

// Counterpart returns the other participant of a two-party conversation.
func (c *Conversation) Counterpart(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
