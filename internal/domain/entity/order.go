package entity

import "time"

type OrderStatus string

const (
	OrderPendingCOD          OrderStatus = "pending_cod"
	OrderPendingConfirmation OrderStatus = "pending_confirmation"
	OrderPaid                OrderStatus = "paid"
	OrderRejected            OrderStatus = "rejected"
	OrderPreparing           OrderStatus = "preparing"
	OrderOnTheWay            OrderStatus = "on_the_way"
	OrderDelivered           OrderStatus = "delivered"
)

const (
	PaymentMethodCOD      = "cod"
	PaymentMethodTransfer = "transfer"
)

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// OrderRejectionReasons is the fixed reason list shown to the seller;
// "Other" permits free text.
var OrderRejectionReasons = []string{
	"Payment proof unreadable",
	"Incorrect payment amount",
	"Incorrect payment reference",
	"Payment not received",
	"Other",
}

// orderTransitions maps each legal forward transition to the role allowed to
// initiate it. The only re-entry is rejected -> pending_confirmation (buyer
// resubmitting proof).
var orderTransitions = map[OrderStatus]map[OrderStatus]Role{
	OrderPendingCOD: {
		OrderPreparing: RoleSeller,
	},
	OrderPendingConfirmation: {
		OrderPaid:     RoleSeller,
		OrderRejected: RoleSeller,
	},
	OrderPaid: {
		OrderPreparing: RoleSeller,
	},
	OrderPreparing: {
		OrderOnTheWay: RoleSeller,
	},
	OrderOnTheWay: {
		OrderDelivered: RoleSeller,
	},
	OrderRejected: {
		OrderPendingConfirmation: RoleBuyer,
	},
}

// CanTransition reports whether role may move an order from s to target.
func (s OrderStatus) CanTransition(target OrderStatus, role Role) bool {
	next, ok := orderTransitions[s]
	if !ok {
		return false
	}
	return next[target] == role
}

// RejectionRecord is an append-only history entry; reasons are never erased
// even after the buyer resubmits proof.
type RejectionRecord struct {
	Reason     string    `json:"reason" firestore:"reason"`
	RejectedBy string    `json:"rejected_by" firestore:"rejectedBy"`
	RejectedAt time.Time `json:"rejected_at" firestore:"rejectedAt"`
}

type Order struct {
	ID            string      `json:"id" firestore:"id"`
	ListingID     string      `json:"listing_id" firestore:"listingId"`
	BuyerID       string      `json:"buyer_id" firestore:"buyerId"`
	SellerID      string      `json:"seller_id" firestore:"sellerId"`
	PaymentMethod string      `json:"payment_method" firestore:"paymentMethod"`
	Amount        float64     `json:"amount" firestore:"amount"`
	Status        OrderStatus `json:"status" firestore:"status"`

	PaymentProofURL  string            `json:"payment_proof_url,omitempty" firestore:"paymentProofUrl,omitempty"`
	RejectionReason  string            `json:"rejection_reason,omitempty" firestore:"rejectionReason,omitempty"`
	RejectionHistory []RejectionRecord `json:"rejection_history,omitempty" firestore:"rejectionHistory,omitempty"`
	// ResubmittedAt tracks the single allowed resubmission for the current
	// rejection cycle; cleared whenever the seller rejects again.
	ResubmittedAt *time.Time `json:"resubmitted_at,omitempty" firestore:"resubmittedAt,omitempty"`

	DeliveryProvider string     `json:"delivery_provider,omitempty" firestore:"deliveryProvider,omitempty"`
	TrackingLink     string     `json:"tracking_link,omitempty" firestore:"trackingLink,omitempty"`
	DeliveredAt      *time.Time `json:"delivered_at,omitempty" firestore:"deliveredAt,omitempty"`

	BuyerReviewed  bool `json:"buyer_reviewed" firestore:"buyerReviewed"`
	SellerReviewed bool `json:"seller_reviewed" firestore:"sellerReviewed"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// RoleOf returns the order role of userID, or "" for non-parties.
func (o *Order) RoleOf(userID string) Role {
	switch userID {
	case o.BuyerID:
		return RoleBuyer
	case o.SellerID:
		return RoleSeller
	}
	return ""
}
