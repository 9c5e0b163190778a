package entity

import "time"

type User struct {
	ID          string    `json:"id" firestore:"id"`
	Username    string    `json:"username" firestore:"username"`
	Email       string    `json:"email" firestore:"email"`
	Phone       string    `json:"phone,omitempty" firestore:"phone,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty" firestore:"avatarUrl,omitempty"`
	Bio         string    `json:"bio,omitempty" firestore:"bio,omitempty"`
	Rating      float64   `json:"rating" firestore:"rating"`
	ReviewCount int64     `json:"review_count" firestore:"reviewCount"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}
