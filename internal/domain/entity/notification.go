package entity

import "time"

const (
	NotificationOrderStatus  = "order_status"
	NotificationBarterStatus = "barter_status"
	NotificationNewMessage   = "new_message"
	NotificationNewReview    = "new_review"
	NotificationIncomingCall = "incoming_call"
)

type Notification struct {
	ID          string `json:"id" firestore:"id"`
	RecipientID string `json:"recipient_id" firestore:"recipientId"`
	ActorID     string `json:"actor_id,omitempty" firestore:"actorId,omitempty"`
	Type        string `json:"type" firestore:"type"`
	Message     string `json:"message" firestore:"message"`
	Read        bool   `json:"read" firestore:"read"`

	Ref NotificationRef `json:"ref" firestore:"ref"`
	// ClientToken reconciles optimistic local copies, same scheme as Message.
	ClientToken string    `json:"client_token,omitempty" firestore:"clientToken,omitempty"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
}

// NotificationRef carries the reference variant matching Notification.Type;
// only the fields relevant to that type are set.
type NotificationRef struct {
	OrderID        string `json:"order_id,omitempty" firestore:"orderId,omitempty"`
	BarterID       string `json:"barter_id,omitempty" firestore:"barterId,omitempty"`
	ConversationID string `json:"conversation_id,omitempty" firestore:"conversationId,omitempty"`
	MessageID      string `json:"message_id,omitempty" firestore:"messageId,omitempty"`
	ListingID      string `json:"listing_id,omitempty" firestore:"listingId,omitempty"`
	CallID         string `json:"call_id,omitempty" firestore:"callId,omitempty"`
}
