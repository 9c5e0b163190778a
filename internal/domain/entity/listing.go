package entity

import "time"

const (
	ListingActive   = "active"
	ListingSold     = "sold"
	ListingTraded   = "traded"
	ListingInactive = "inactive"
)

type Listing struct {
	ID          string   `json:"id" firestore:"id"`
	SellerID    string   `json:"seller_id" firestore:"sellerId"`
	Title       string   `json:"title" firestore:"title"`
	Description string   `json:"description,omitempty" firestore:"description,omitempty"`
	Price       float64  `json:"price" firestore:"price"`
	Category    string   `json:"category,omitempty" firestore:"category,omitempty"`
	ImageURLs   []string `json:"image_urls,omitempty" firestore:"imageUrls,omitempty"`
	Status      string   `json:"status" firestore:"status"`
	// AllowBarter marks the listing as open to trade proposals.
	AllowBarter bool      `json:"allow_barter" firestore:"allowBarter"`
	ViewCount   int64     `json:"view_count" firestore:"viewCount"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}
