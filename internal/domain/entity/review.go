package entity

import "time"

type Review struct {
	ID         string    `json:"id" firestore:"id"`
	OrderID    string    `json:"order_id,omitempty" firestore:"orderId,omitempty"`
	BarterID   string    `json:"barter_id,omitempty" firestore:"barterId,omitempty"`
	ReviewerID string    `json:"reviewer_id" firestore:"reviewerId"`
	RevieweeID string    `json:"reviewee_id" firestore:"revieweeId"`
	Rating     int       `json:"rating" firestore:"rating"`
	Comment    string    `json:"comment,omitempty" firestore:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}

type Favorite struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"user_id" firestore:"userId"`
	ListingID string    `json:"listing_id" firestore:"listingId"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

type SavedReply struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"user_id" firestore:"userId"`
	Text      string    `json:"text" firestore:"text"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
