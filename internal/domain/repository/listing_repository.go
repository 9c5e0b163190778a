package repository

import (
	"context"

	"tukarlapak/internal/domain/entity"
)

// ListingFilter narrows List; zero values mean "any".
type ListingFilter struct {
	SellerID    string
	Category    string
	Status      string
	AllowBarter *bool
	Query       string
}

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	List(ctx context.Context, filter ListingFilter, limit, offset int) ([]*entity.Listing, int64, error)
	Update(ctx context.Context, listing *entity.Listing) error
	Delete(ctx context.Context, id string) error
	// IncrementViewCount atomically bumps the view counter, at most once
	// per viewer per day.
	IncrementViewCount(ctx context.Context, listingID, viewerID string) error
}

type FavoriteRepository interface {
	Add(ctx context.Context, favorite *entity.Favorite) error
	Remove(ctx context.Context, userID, listingID string) error
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Favorite, int64, error)
	Exists(ctx context.Context, userID, listingID string) (bool, error)
}
