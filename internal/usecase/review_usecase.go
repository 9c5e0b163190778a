package usecase

import (
	"context"
	"fmt"
	"log"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/internal/domain/repository"
	"tukarlapak/pkg/errors"
)

type ReviewUseCase struct {
	reviewRepo repository.ReviewRepository
	orderRepo  repository.OrderRepository
	barterRepo repository.BarterRepository
	userRepo   repository.UserRepository
	notifier   *NotificationUseCase
}

func NewReviewUseCase(
	reviewRepo repository.ReviewRepository,
	orderRepo repository.OrderRepository,
	barterRepo repository.BarterRepository,
	userRepo repository.UserRepository,
	notifier *NotificationUseCase,
) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo: reviewRepo,
		orderRepo:  orderRepo,
		barterRepo: barterRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

type CreateReviewInput struct {
	OrderID  string `json:"order_id,omitempty"`
	BarterID string `json:"barter_id,omitempty"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comment  string `json:"comment,omitempty" validate:"max=1000"`
}

// CreateReview reviews the counterpart of a delivered order or completed
// trade, once per party per deal.
func (uc *ReviewUseCase) CreateReview(ctx context.Context, reviewerID string, input CreateReviewInput) (*entity.Review, error) {
	if (input.OrderID == "") == (input.BarterID == "") {
		return nil, errors.BadRequest("Exactly one of order_id or barter_id is required", nil)
	}

	review := &entity.Review{
		ReviewerID: reviewerID,
		Rating:     input.Rating,
		Comment:    input.Comment,
	}

	if input.OrderID != "" {
		order, err := uc.orderRepo.GetByID(ctx, input.OrderID)
		if err != nil {
			return nil, err
		}
		role := order.RoleOf(reviewerID)
		if role == "" {
			return nil, errors.Forbidden("You are not a party to this order", nil)
		}
		if order.Status != entity.OrderDelivered {
			return nil, errors.BadRequest("Only delivered orders can be reviewed", nil)
		}
		switch role {
		case entity.RoleBuyer:
			if order.BuyerReviewed {
				return nil, errors.Conflict("You have already reviewed this order")
			}
			order.BuyerReviewed = true
			review.RevieweeID = order.SellerID
		case entity.RoleSeller:
			if order.SellerReviewed {
				return nil, errors.Conflict("You have already reviewed this order")
			}
			order.SellerReviewed = true
			review.RevieweeID = order.BuyerID
		}
		review.OrderID = order.ID

		if err := uc.reviewRepo.Create(ctx, review); err != nil {
			return nil, err
		}
		if err := uc.orderRepo.Update(ctx, order); err != nil {
			log.Printf("Failed to flag order %s as reviewed: %v", order.ID, err)
		}
	} else {
		barter, err := uc.barterRepo.GetByID(ctx, input.BarterID)
		if err != nil {
			return nil, err
		}
		if barter.RoleOf(reviewerID) == "" {
			return nil, errors.Forbidden("You are not a party to this trade", nil)
		}
		if barter.Status != entity.BarterCompleted {
			return nil, errors.BadRequest("Only completed trades can be reviewed", nil)
		}
		review.BarterID = barter.ID
		review.RevieweeID = barter.OwnerID
		if reviewerID == barter.OwnerID {
			review.RevieweeID = barter.RequesterID
		}

		if err := uc.reviewRepo.Create(ctx, review); err != nil {
			return nil, err
		}
	}

	uc.refreshRating(ctx, review.RevieweeID)

	uc.notifier.Notify(ctx, &entity.Notification{
		RecipientID: review.RevieweeID,
		ActorID:     reviewerID,
		Type:        entity.NotificationNewReview,
		Message:     fmt.Sprintf("You received a %d-star review", review.Rating),
		Ref:         entity.NotificationRef{OrderID: review.OrderID, BarterID: review.BarterID},
	})

	return review, nil
}

func (uc *ReviewUseCase) ListReviews(ctx context.Context, revieweeID string, limit, offset int) ([]*entity.Review, int64, error) {
	return uc.reviewRepo.ListByReviewee(ctx, revieweeID, limit, offset)
}

// refreshRating recomputes the reviewee's aggregate from all reviews.
func (uc *ReviewUseCase) refreshRating(ctx context.Context, revieweeID string) {
	reviews, total, err := uc.reviewRepo.ListByReviewee(ctx, revieweeID, 0, 0)
	if err != nil || total == 0 {
		return
	}

	var sum int
	for _, review := range reviews {
		sum += review.Rating
	}

	user, err := uc.userRepo.GetByID(ctx, revieweeID)
	if err != nil {
		return
	}
	user.Rating = float64(sum) / float64(total)
	user.ReviewCount = total
	if err := uc.userRepo.Update(ctx, user); err != nil {
		log.Printf("Failed to refresh rating for %s: %v", revieweeID, err)
	}
}
