package entity

import "time"

type BarterStatus string

const (
	BarterPending   BarterStatus = "pending"
	BarterAccepted  BarterStatus = "accepted"
	BarterPreparing BarterStatus = "preparing"
	BarterDeclined  BarterStatus = "declined"
	BarterOnTheWay  BarterStatus = "on_the_way"
	BarterCompleted BarterStatus = "completed"
)

const (
	DeliveryMeetUp = "meet_up"
	DeliveryOnline = "online_delivery"
)

const (
	RoleRequester Role = "requester"
	RoleOwner     Role = "owner"
)

type BarterRequest struct {
	ID                string       `json:"id" firestore:"id"`
	ListingID         string       `json:"listing_id" firestore:"listingId"`
	OfferedListingIDs []string     `json:"offered_listing_ids" firestore:"offeredListingIds"`
	RequesterID       string       `json:"requester_id" firestore:"requesterId"`
	OwnerID           string       `json:"owner_id" firestore:"ownerId"`
	DeliveryMethod    string       `json:"delivery_method" firestore:"deliveryMethod"`
	Status            BarterStatus `json:"status" firestore:"status"`

	DeclineReason string `json:"decline_reason,omitempty" firestore:"declineReason,omitempty"`

	// Meet-up completion flags. The trade completes only at the moment the
	// second flag flips to true; one flag alone never changes status.
	RequesterConfirmed bool `json:"requester_confirmed" firestore:"requesterConfirmed"`
	OwnerConfirmed     bool `json:"owner_confirmed" firestore:"ownerConfirmed"`

	DeliveryProvider string `json:"delivery_provider,omitempty" firestore:"deliveryProvider,omitempty"`
	TrackingLink     string `json:"tracking_link,omitempty" firestore:"trackingLink,omitempty"`

	CompletedAt *time.Time `json:"completed_at,omitempty" firestore:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time  `json:"updated_at" firestore:"updatedAt"`
}

// RoleOf returns the barter role of userID, or "" for non-parties.
func (b *BarterRequest) RoleOf(userID string) Role {
	switch userID {
	case b.RequesterID:
		return RoleRequester
	case b.OwnerID:
		return RoleOwner
	}
	return ""
}

// BothConfirmed reports whether the meet-up has been confirmed by both
// parties.
func (b *BarterRequest) BothConfirmed() bool {
	return b.RequesterConfirmed && b.OwnerConfirmed
}

// CanTransition reports whether role may move the request from its current
// status to target. Meet-up completion is not listed here: it is driven by
// the confirmation flags, not a direct status write.
func (b *BarterRequest) CanTransition(target BarterStatus, role Role) bool {
	switch b.Status {
	case BarterPending:
		if role != RoleOwner {
			return false
		}
		switch target {
		case BarterAccepted:
			return b.DeliveryMethod == DeliveryMeetUp
		case BarterPreparing:
			return b.DeliveryMethod == DeliveryOnline
		case BarterDeclined:
			return true
		}
	case BarterPreparing:
		return target == BarterOnTheWay && role == RoleRequester
	case BarterOnTheWay:
		return target == BarterCompleted && role == RoleOwner
	}
	return false
}
