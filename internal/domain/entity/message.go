package entity

import "time"

const (
	MessageKindText   = "text"
	MessageKindImage  = "image"
	MessageKindSystem = "system"
	MessageKindAction = "action"
)

const (
	MessageStatusSent    = "sent"
	MessageStatusRead    = "read"
	MessageStatusDeleted = "deleted" // tombstone, message stays in place
)

// DeletedMessageLabel is shown in place of the content of a tombstoned message
// and as the conversation preview when the latest message was deleted.
const DeletedMessageLabel = "Message deleted"

type Message struct {
	ID             string      `json:"id" firestore:"id"`
	ConversationID string      `json:"conversation_id" firestore:"conversationId"`
	SenderID       string      `json:"sender_id" firestore:"senderId"`
	Text           string      `json:"text,omitempty" firestore:"text,omitempty"`
	Kind           string      `json:"kind" firestore:"kind"`
	Status         string      `json:"status" firestore:"status"`
	ImageURLs      []string    `json:"image_urls,omitempty" firestore:"imageUrls,omitempty"`
	Action         *ActionCard `json:"action,omitempty" firestore:"action,omitempty"`
	// ClientToken is the client-generated correlation token attached to an
	// optimistic send; the server echoes it back so the in-flight local copy
	// can be reconciled with the acknowledged message.
	ClientToken string    `json:"client_token,omitempty" firestore:"clientToken,omitempty"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
}

// Deletable reports whether the sender may tombstone this message.
// System and action messages are kept for the negotiation record.
func (m *Message) Deletable() bool {
	return m.Kind == MessageKindText || m.Kind == MessageKindImage
}

// Tombstone clears the message content in place instead of removing it.
func (m *Message) Tombstone() {
	m.Status = MessageStatusDeleted
	m.Text = ""
	m.ImageURLs = nil
	m.Action = nil
}

const (
	ActionTypeOffer         = "offer"
	ActionTypeTradeProposal = "trade_proposal"
	ActionTypeItemRequest   = "item_request"
)

const (
	ActionStatusPending  = "pending"
	ActionStatusAccepted = "accepted"
	ActionStatusDeclined = "declined"
)

// ActionCard is the negotiable payload of an action message. Exactly one of
// the variant fields is set, matching Type.
type ActionCard struct {
	Type   string `json:"type" firestore:"type"`
	Status string `json:"status" firestore:"status"`

	Offer   *OfferAction   `json:"offer,omitempty" firestore:"offer,omitempty"`
	Trade   *TradeAction   `json:"trade,omitempty" firestore:"trade,omitempty"`
	Request *RequestAction `json:"request,omitempty" firestore:"request,omitempty"`

	RespondedBy string     `json:"responded_by,omitempty" firestore:"respondedBy,omitempty"`
	RespondedAt *time.Time `json:"responded_at,omitempty" firestore:"respondedAt,omitempty"`
}

type OfferAction struct {
	ListingID string  `json:"listing_id" firestore:"listingId"`
	Amount    float64 `json:"amount" firestore:"amount"`
}

type TradeAction struct {
	ListingID         string   `json:"listing_id" firestore:"listingId"`
	OfferedListingIDs []string `json:"offered_listing_ids" firestore:"offeredListingIds"`
}

type RequestAction struct {
	ListingID string `json:"listing_id" firestore:"listingId"`
	Note      string `json:"note,omitempty" firestore:"note,omitempty"`
}
