package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/internal/domain/repository"
	"tukarlapak/internal/infrastructure/realtime"
	"tukarlapak/internal/stream"
	"tukarlapak/pkg/errors"
)

type BarterUseCase struct {
	barterRepo  repository.BarterRepository
	listingRepo repository.ListingRepository
	notifier    *NotificationUseCase
	hub         *realtime.Hub
}

func NewBarterUseCase(
	barterRepo repository.BarterRepository,
	listingRepo repository.ListingRepository,
	notifier *NotificationUseCase,
	hub *realtime.Hub,
) *BarterUseCase {
	return &BarterUseCase{
		barterRepo:  barterRepo,
		listingRepo: listingRepo,
		notifier:    notifier,
		hub:         hub,
	}
}

type CreateBarterInput struct {
	ListingID         string   `json:"listing_id" validate:"required"`
	OfferedListingIDs []string `json:"offered_listing_ids" validate:"required,min=1"`
	DeliveryMethod    string   `json:"delivery_method" validate:"required,oneof=meet_up online_delivery"`
}

// CreateBarterRequest proposes a trade against a barter-enabled listing.
// Every offered listing must be an active listing of the requester.
func (uc *BarterUseCase) CreateBarterRequest(ctx context.Context, requesterID string, input CreateBarterInput) (*entity.BarterRequest, error) {
	listing, err := uc.listingRepo.GetByID(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID == requesterID {
		return nil, errors.BadRequest("You cannot trade for your own listing", nil)
	}
	if listing.Status != entity.ListingActive {
		return nil, errors.BadRequest("Listing is not available", nil)
	}
	if !listing.AllowBarter {
		return nil, errors.BadRequest("This listing does not accept trades", nil)
	}

	for _, offeredID := range input.OfferedListingIDs {
		offered, err := uc.listingRepo.GetByID(ctx, offeredID)
		if err != nil {
			return nil, err
		}
		if offered.SellerID != requesterID {
			return nil, errors.Forbidden("You can only offer your own listings", nil)
		}
		if offered.Status != entity.ListingActive {
			return nil, errors.BadRequest(fmt.Sprintf("Offered listing %q is not available", offered.Title), nil)
		}
	}

	barter := &entity.BarterRequest{
		ListingID:         listing.ID,
		OfferedListingIDs: input.OfferedListingIDs,
		RequesterID:       requesterID,
		OwnerID:           listing.SellerID,
		DeliveryMethod:    input.DeliveryMethod,
		Status:            entity.BarterPending,
	}
	if err := uc.barterRepo.Create(ctx, barter); err != nil {
		return nil, err
	}

	uc.hub.Publish(realtime.ChangeEvent{
		Collection: "barter_requests",
		Kind:       realtime.ChangeCreated,
		EntityID:   barter.ID,
		Entity:     barter,
	}, barter.RequesterID, barter.OwnerID)

	uc.notifier.Notify(ctx, &entity.Notification{
		RecipientID: barter.OwnerID,
		ActorID:     requesterID,
		Type:        entity.NotificationBarterStatus,
		Message:     fmt.Sprintf("New trade proposal for %q", listing.Title),
		Ref:         entity.NotificationRef{BarterID: barter.ID, ListingID: listing.ID},
	})

	return barter, nil
}

func (uc *BarterUseCase) GetBarter(ctx context.Context, userID, barterID string) (*entity.BarterRequest, error) {
	barter, err := uc.barterRepo.GetByID(ctx, barterID)
	if err != nil {
		return nil, err
	}
	if barter.RoleOf(userID) == "" {
		return nil, errors.Forbidden("You are not a party to this trade", nil)
	}
	return barter, nil
}

func (uc *BarterUseCase) ListBarters(ctx context.Context, userID string, limit, offset int) ([]*entity.BarterRequest, int64, error) {
	return uc.barterRepo.ListByUserID(ctx, userID, limit, offset)
}

// TransitionBarter is the authoritative status change for the direct-write
// transitions; meet-up completion goes through ConfirmMeetup instead.
func (uc *BarterUseCase) TransitionBarter(ctx context.Context, userID, barterID string, target entity.BarterStatus, detail stream.TradeTransitionDetail) (*entity.BarterRequest, error) {
	barter, err := uc.GetBarter(ctx, userID, barterID)
	if err != nil {
		return nil, err
	}

	role := barter.RoleOf(userID)
	if !barter.CanTransition(target, role) {
		return nil, errors.BadRequest(
			fmt.Sprintf("Cannot move trade from %s to %s", barter.Status, target), nil)
	}

	now := time.Now()
	switch target {
	case entity.BarterDeclined:
		if detail.Reason == "" {
			return nil, errors.BadRequest("A decline reason is required", nil)
		}
		barter.DeclineReason = detail.Reason
	case entity.BarterOnTheWay:
		if detail.DeliveryProvider == "" {
			return nil, errors.BadRequest("A delivery provider is required", nil)
		}
		barter.DeliveryProvider = detail.DeliveryProvider
		barter.TrackingLink = detail.TrackingLink
	case entity.BarterCompleted:
		barter.CompletedAt = &now
		uc.markListingsTraded(ctx, barter)
	}
	barter.Status = target

	if err := uc.barterRepo.Update(ctx, barter); err != nil {
		return nil, err
	}

	uc.publishAndNotify(ctx, barter, userID, barterStatusMessage(target, detail.Reason))
	return barter, nil
}

// ConfirmMeetup records one party's completion confirmation. The trade
// completes at the moment the second flag flips.
func (uc *BarterUseCase) ConfirmMeetup(ctx context.Context, userID, barterID string) (*entity.BarterRequest, error) {
	barter, err := uc.GetBarter(ctx, userID, barterID)
	if err != nil {
		return nil, err
	}
	if barter.Status != entity.BarterAccepted {
		return nil, errors.BadRequest("Only an accepted meet-up trade can be confirmed", nil)
	}
	if barter.DeliveryMethod != entity.DeliveryMeetUp {
		return nil, errors.BadRequest("Confirmation applies to meet-up trades only", nil)
	}

	switch barter.RoleOf(userID) {
	case entity.RoleRequester:
		barter.RequesterConfirmed = true
	case entity.RoleOwner:
		barter.OwnerConfirmed = true
	}

	message := "The other party confirmed the meet-up"
	if barter.BothConfirmed() {
		now := time.Now()
		barter.Status = entity.BarterCompleted
		barter.CompletedAt = &now
		uc.markListingsTraded(ctx, barter)
		message = "Trade completed"
	}

	if err := uc.barterRepo.Update(ctx, barter); err != nil {
		return nil, err
	}

	uc.publishAndNotify(ctx, barter, userID, message)
	return barter, nil
}

func (uc *BarterUseCase) publishAndNotify(ctx context.Context, barter *entity.BarterRequest, actorID, message string) {
	uc.hub.Publish(realtime.ChangeEvent{
		Collection: "barter_requests",
		Kind:       realtime.ChangeUpdated,
		EntityID:   barter.ID,
		Entity:     barter,
	}, barter.RequesterID, barter.OwnerID)

	counterpart := barter.OwnerID
	if actorID == barter.OwnerID {
		counterpart = barter.RequesterID
	}
	uc.notifier.Notify(ctx, &entity.Notification{
		RecipientID: counterpart,
		ActorID:     actorID,
		Type:        entity.NotificationBarterStatus,
		Message:     message,
		Ref:         entity.NotificationRef{BarterID: barter.ID},
	})
}

func (uc *BarterUseCase) markListingsTraded(ctx context.Context, barter *entity.BarterRequest) {
	ids := append([]string{barter.ListingID}, barter.OfferedListingIDs...)
	for _, id := range ids {
		listing, err := uc.listingRepo.GetByID(ctx, id)
		if err != nil {
			log.Printf("Failed to load listing %s after trade completion: %v", id, err)
			continue
		}
		listing.Status = entity.ListingTraded
		if err := uc.listingRepo.Update(ctx, listing); err != nil {
			log.Printf("Failed to mark listing %s traded: %v", id, err)
		}
	}
}

func barterStatusMessage(target entity.BarterStatus, reason string) string {
	switch target {
	case entity.BarterAccepted:
		return "Your trade proposal was accepted"
	case entity.BarterPreparing:
		return "Your trade proposal was accepted; items are being prepared"
	case entity.BarterDeclined:
		if reason != "" {
			return fmt.Sprintf("Your trade proposal was declined: %s", reason)
		}
		return "Your trade proposal was declined"
	case entity.BarterOnTheWay:
		return "The traded item is on the way"
	case entity.BarterCompleted:
		return "Trade completed"
	}
	return fmt.Sprintf("Trade status changed to %s", target)
}
