package usecase

import (
	"context"
	"log"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/internal/domain/repository"
	"tukarlapak/internal/infrastructure/ratelimit"
	"tukarlapak/pkg/errors"
)

type ListingUseCase struct {
	listingRepo  repository.ListingRepository
	favoriteRepo repository.FavoriteRepository
	rateLimiter  *ratelimit.RateLimiter
}

func NewListingUseCase(
	listingRepo repository.ListingRepository,
	favoriteRepo repository.FavoriteRepository,
	rateLimiter *ratelimit.RateLimiter,
) *ListingUseCase {
	return &ListingUseCase{
		listingRepo:  listingRepo,
		favoriteRepo: favoriteRepo,
		rateLimiter:  rateLimiter,
	}
}

type CreateListingInput struct {
	Title       string   `json:"title" validate:"required,min=3,max=120"`
	Description string   `json:"description,omitempty" validate:"max=2000"`
	Price       float64  `json:"price" validate:"gte=0"`
	Category    string   `json:"category,omitempty"`
	ImageURLs   []string `json:"image_urls,omitempty" validate:"max=10"`
	AllowBarter bool     `json:"allow_barter"`
}

type UpdateListingInput struct {
	Title       string   `json:"title,omitempty" validate:"omitempty,min=3,max=120"`
	Description string   `json:"description,omitempty" validate:"max=2000"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Category    string   `json:"category,omitempty"`
	ImageURLs   []string `json:"image_urls,omitempty" validate:"max=10"`
	AllowBarter *bool    `json:"allow_barter,omitempty"`
	Status      string   `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

func (uc *ListingUseCase) CreateListing(ctx context.Context, sellerID string, input CreateListingInput) (*entity.Listing, error) {
	allowed, waitTime := uc.rateLimiter.Allow(sellerID, "create_listing")
	if !allowed {
		return nil, errors.TooManyRequests("Too many new listings. Please wait", waitTime)
	}

	listing := &entity.Listing{
		SellerID:    sellerID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		ImageURLs:   input.ImageURLs,
		AllowBarter: input.AllowBarter,
		Status:      entity.ListingActive,
	}
	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

func (uc *ListingUseCase) GetListing(ctx context.Context, id string) (*entity.Listing, error) {
	return uc.listingRepo.GetByID(ctx, id)
}

func (uc *ListingUseCase) ListListings(ctx context.Context, filter repository.ListingFilter, limit, offset int) ([]*entity.Listing, int64, error) {
	return uc.listingRepo.List(ctx, filter, limit, offset)
}

func (uc *ListingUseCase) UpdateListing(ctx context.Context, sellerID, listingID string, input UpdateListingInput) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != sellerID {
		return nil, errors.Forbidden("You can only edit your own listings", nil)
	}
	if listing.Status == entity.ListingSold || listing.Status == entity.ListingTraded {
		return nil, errors.BadRequest("Sold or traded listings cannot be edited", nil)
	}

	if input.Title != "" {
		listing.Title = input.Title
	}
	if input.Description != "" {
		listing.Description = input.Description
	}
	if input.Price != nil {
		listing.Price = *input.Price
	}
	if input.Category != "" {
		listing.Category = input.Category
	}
	if input.ImageURLs != nil {
		listing.ImageURLs = input.ImageURLs
	}
	if input.AllowBarter != nil {
		listing.AllowBarter = *input.AllowBarter
	}
	if input.Status != "" {
		listing.Status = input.Status
	}

	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (uc *ListingUseCase) DeleteListing(ctx context.Context, sellerID, listingID string) error {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.SellerID != sellerID {
		return errors.Forbidden("You can only delete your own listings", nil)
	}
	return uc.listingRepo.Delete(ctx, listingID)
}

// RecordView counts a detail-screen view, deduplicated per viewer per day.
// A failure here is invisible to the viewer.
func (uc *ListingUseCase) RecordView(ctx context.Context, listingID, viewerID string) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return
	}
	// Own views don't count.
	if listing.SellerID == viewerID {
		return
	}

	if err := uc.listingRepo.IncrementViewCount(ctx, listingID, viewerID); err != nil {
		log.Printf("Failed to record view of %s by %s: %v", listingID, viewerID, err)
	}
}

func (uc *ListingUseCase) AddFavorite(ctx context.Context, userID, listingID string) error {
	if _, err := uc.listingRepo.GetByID(ctx, listingID); err != nil {
		return err
	}
	return uc.favoriteRepo.Add(ctx, &entity.Favorite{UserID: userID, ListingID: listingID})
}

func (uc *ListingUseCase) RemoveFavorite(ctx context.Context, userID, listingID string) error {
	return uc.favoriteRepo.Remove(ctx, userID, listingID)
}

// ListFavorites resolves the user's favorites into listings, skipping
// entries whose listing has since been deleted.
func (uc *ListingUseCase) ListFavorites(ctx context.Context, userID string, limit, offset int) ([]*entity.Listing, int64, error) {
	favorites, total, err := uc.favoriteRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	listings := make([]*entity.Listing, 0, len(favorites))
	for _, favorite := range favorites {
		listing, err := uc.listingRepo.GetByID(ctx, favorite.ListingID)
		if err != nil {
			continue
		}
		listings = append(listings, listing)
	}

	return listings, total, nil
}

func (uc *ListingUseCase) IsFavorited(ctx context.Context, userID, listingID string) (bool, error) {
	return uc.favoriteRepo.Exists(ctx, userID, listingID)
}
