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

type OrderUseCase struct {
	orderRepo   repository.OrderRepository
	listingRepo repository.ListingRepository
	notifier    *NotificationUseCase
	hub         *realtime.Hub
}

func NewOrderUseCase(
	orderRepo repository.OrderRepository,
	listingRepo repository.ListingRepository,
	notifier *NotificationUseCase,
	hub *realtime.Hub,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:   orderRepo,
		listingRepo: listingRepo,
		notifier:    notifier,
		hub:         hub,
	}
}

type CreateOrderInput struct {
	ListingID       string `json:"listing_id" validate:"required"`
	PaymentMethod   string `json:"payment_method" validate:"required,oneof=cod transfer"`
	PaymentProofURL string `json:"payment_proof_url,omitempty"`
}

// CreateOrder opens an order on an active listing. Transfer orders start at
// pending_confirmation, COD orders at pending_cod.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, buyerID string, input CreateOrderInput) (*entity.Order, error) {
	listing, err := uc.listingRepo.GetByID(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID == buyerID {
		return nil, errors.BadRequest("You cannot buy your own listing", nil)
	}
	if listing.Status != entity.ListingActive {
		return nil, errors.BadRequest("Listing is not available", nil)
	}

	order := &entity.Order{
		ListingID:     listing.ID,
		BuyerID:       buyerID,
		SellerID:      listing.SellerID,
		PaymentMethod: input.PaymentMethod,
		Amount:        listing.Price,
	}
	switch input.PaymentMethod {
	case entity.PaymentMethodTransfer:
		if input.PaymentProofURL == "" {
			return nil, errors.BadRequest("Transfer orders require a payment proof", nil)
		}
		order.Status = entity.OrderPendingConfirmation
		order.PaymentProofURL = input.PaymentProofURL
	case entity.PaymentMethodCOD:
		order.Status = entity.OrderPendingCOD
	default:
		return nil, errors.BadRequest("Unknown payment method", nil)
	}

	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	uc.hub.Publish(realtime.ChangeEvent{
		Collection: "orders",
		Kind:       realtime.ChangeCreated,
		EntityID:   order.ID,
		Entity:     order,
	}, order.BuyerID, order.SellerID)

	uc.notifier.Notify(ctx, &entity.Notification{
		RecipientID: order.SellerID,
		ActorID:     buyerID,
		Type:        entity.NotificationOrderStatus,
		Message:     fmt.Sprintf("New order for %q", listing.Title),
		Ref:         entity.NotificationRef{OrderID: order.ID, ListingID: listing.ID},
	})

	return order, nil
}

func (uc *OrderUseCase) GetOrder(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.RoleOf(userID) == "" {
		return nil, errors.Forbidden("You are not a party to this order", nil)
	}
	return order, nil
}

func (uc *OrderUseCase) ListOrders(ctx context.Context, userID string, limit, offset int) ([]*entity.Order, int64, error) {
	return uc.orderRepo.ListByUserID(ctx, userID, limit, offset)
}

// TransitionOrder is the authoritative status change: role-gated against
// the transition table, with the per-status side effects applied.
func (uc *OrderUseCase) TransitionOrder(ctx context.Context, userID, orderID string, target entity.OrderStatus, detail stream.OrderTransitionDetail) (*entity.Order, error) {
	order, err := uc.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	role := order.RoleOf(userID)
	if !order.Status.CanTransition(target, role) {
		return nil, errors.BadRequest(
			fmt.Sprintf("Cannot move order from %s to %s", order.Status, target), nil)
	}

	now := time.Now()
	switch target {
	case entity.OrderRejected:
		if detail.Reason == "" {
			return nil, errors.BadRequest("A rejection reason is required", nil)
		}
		order.RejectionReason = detail.Reason
		order.RejectionHistory = append(order.RejectionHistory, entity.RejectionRecord{
			Reason:     detail.Reason,
			RejectedBy: userID,
			RejectedAt: now,
		})
		order.ResubmittedAt = nil

	case entity.OrderPendingConfirmation:
		// Re-entry from rejected: one resubmission per rejection cycle.
		if order.ResubmittedAt != nil {
			return nil, errors.Conflict("Payment proof has already been resubmitted for this rejection")
		}
		if detail.PaymentProofURL == "" {
			return nil, errors.BadRequest("A new payment proof is required", nil)
		}
		order.PaymentProofURL = detail.PaymentProofURL
		order.ResubmittedAt = &now

	case entity.OrderOnTheWay:
		if detail.DeliveryProvider == "" {
			return nil, errors.BadRequest("A delivery provider is required", nil)
		}
		order.DeliveryProvider = detail.DeliveryProvider
		order.TrackingLink = detail.TrackingLink

	case entity.OrderDelivered:
		order.DeliveredAt = &now
		uc.markListingSold(ctx, order.ListingID)
	}

	order.Status = target
	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	uc.hub.Publish(realtime.ChangeEvent{
		Collection: "orders",
		Kind:       realtime.ChangeUpdated,
		EntityID:   order.ID,
		Entity:     order,
	}, order.BuyerID, order.SellerID)

	counterpart := order.SellerID
	if role == entity.RoleSeller {
		counterpart = order.BuyerID
	}
	uc.notifier.Notify(ctx, &entity.Notification{
		RecipientID: counterpart,
		ActorID:     userID,
		Type:        entity.NotificationOrderStatus,
		Message:     orderStatusMessage(target, detail.Reason),
		Ref:         entity.NotificationRef{OrderID: order.ID},
	})

	return order, nil
}

func (uc *OrderUseCase) markListingSold(ctx context.Context, listingID string) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		log.Printf("Failed to load listing %s after delivery: %v", listingID, err)
		return
	}
	listing.Status = entity.ListingSold
	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		log.Printf("Failed to mark listing %s sold: %v", listingID, err)
	}
}

func orderStatusMessage(target entity.OrderStatus, reason string) string {
	switch target {
	case entity.OrderPaid:
		return "Your payment was confirmed"
	case entity.OrderRejected:
		return fmt.Sprintf("Your payment was rejected: %s", reason)
	case entity.OrderPendingConfirmation:
		return "The buyer resubmitted payment proof"
	case entity.OrderPreparing:
		return "The seller is preparing your order"
	case entity.OrderOnTheWay:
		return "Your order is on the way"
	case entity.OrderDelivered:
		return "Your order was delivered"
	}
	return fmt.Sprintf("Order status changed to %s", target)
}
