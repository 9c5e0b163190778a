package stream

import (
	"context"
	"sync"
	"time"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/pkg/errors"
)

// OrderTransitionDetail carries the extra fields some transitions require.
type OrderTransitionDetail struct {
	Reason           string
	DeliveryProvider string
	TrackingLink     string
	PaymentProofURL  string
}

// OrderBackend is the order mutation surface, implemented by
// usecase.OrderUseCase.
type OrderBackend interface {
	ListOrders(ctx context.Context, userID string, limit, offset int) ([]*entity.Order, int64, error)
	TransitionOrder(ctx context.Context, userID, orderID string, target entity.OrderStatus, detail OrderTransitionDetail) (*entity.Order, error)
}

// OrderStream materializes a user's order list with optimistic status
// transitions: the new status is applied locally, confirmed by the store,
// and rolled back to the pre-attempt form on failure.
type OrderStream struct {
	userID  string
	backend OrderBackend
	rec     *Reconciler[*entity.Order]

	mu      sync.Mutex
	loading bool
}

func NewOrderStream(userID string, backend OrderBackend) *OrderStream {
	return &OrderStream{
		userID:  userID,
		backend: backend,
		rec:     NewReconciler[*entity.Order](),
	}
}

func (s *OrderStream) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	orders, _, err := s.backend.ListOrders(ctx, s.userID, 50, 0)
	if err != nil {
		return err
	}
	s.rec.Load(orders)
	return nil
}

func (s *OrderStream) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *OrderStream) Orders() []*entity.Order {
	return s.rec.Items()
}

// Transition applies a role-checked status transition optimistically and
// confirms it with the store.
func (s *OrderStream) Transition(ctx context.Context, orderID string, target entity.OrderStatus, detail OrderTransitionDetail) error {
	order, ok := s.rec.ByID(orderID)
	if !ok {
		return errors.NotFound("Order", nil)
	}

	role := order.RoleOf(s.userID)
	if role == "" {
		return errors.Forbidden("You are not a party to this order", nil)
	}
	if !order.Status.CanTransition(target, role) {
		return errors.BadRequest("This status change is not allowed", nil)
	}
	if target == entity.OrderRejected && detail.Reason == "" {
		return errors.BadRequest("A rejection reason is required", nil)
	}

	snapshot := order.Clone()
	now := time.Now()
	s.rec.Mutate(orderID, func(o *entity.Order) {
		applyOrderTransition(o, target, detail, s.userID, now)
	})

	ack, err := s.backend.TransitionOrder(ctx, s.userID, orderID, target, detail)
	if err != nil {
		s.rec.Mutate(orderID, func(o *entity.Order) { *o = *snapshot })
		return err
	}
	s.rec.Apply(Event[*entity.Order]{Kind: EventUpdated, Entity: ack})
	return nil
}

func (s *OrderStream) OnEvent(ev Event[*entity.Order]) bool {
	return s.rec.Apply(ev)
}

// applyOrderTransition mirrors the authoritative transition so the local
// view matches what the store will confirm. History fields only accrete.
func applyOrderTransition(o *entity.Order, target entity.OrderStatus, detail OrderTransitionDetail, actorID string, now time.Time) {
	switch target {
	case entity.OrderRejected:
		o.RejectionReason = detail.Reason
		o.RejectionHistory = append(o.RejectionHistory, entity.RejectionRecord{
			Reason:     detail.Reason,
			RejectedBy: actorID,
			RejectedAt: now,
		})
		o.ResubmittedAt = nil
	case entity.OrderPendingConfirmation:
		if o.Status == entity.OrderRejected {
			o.ResubmittedAt = &now
			if detail.PaymentProofURL != "" {
				o.PaymentProofURL = detail.PaymentProofURL
			}
		}
	case entity.OrderOnTheWay:
		o.DeliveryProvider = detail.DeliveryProvider
		o.TrackingLink = detail.TrackingLink
	case entity.OrderDelivered:
		o.DeliveredAt = &now
	}
	o.Status = target
	o.UpdatedAt = now
}
