package stream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/pkg/errors"
)

type fakeOrderBackend struct {
	orders        []*entity.Order
	transitionErr error
	transitions   int
}

func (f *fakeOrderBackend) ListOrders(_ context.Context, _ string, _, _ int) ([]*entity.Order, int64, error) {
	return f.orders, int64(len(f.orders)), nil
}

func (f *fakeOrderBackend) TransitionOrder(_ context.Context, userID, orderID string, target entity.OrderStatus, detail OrderTransitionDetail) (*entity.Order, error) {
	if f.transitionErr != nil {
		return nil, f.transitionErr
	}
	f.transitions++
	for _, o := range f.orders {
		if o.ID == orderID {
			ack := o.Clone()
			applyOrderTransition(ack, target, detail, userID, time.Now())
			return ack, nil
		}
	}
	return nil, errors.NotFound("Order", nil)
}

func transferOrder(status entity.OrderStatus) *entity.Order {
	return &entity.Order{
		ID:            "ord-1",
		ListingID:     "lst-1",
		BuyerID:       "buyer-1",
		SellerID:      "seller-1",
		PaymentMethod: entity.PaymentMethodTransfer,
		Amount:        250000,
		Status:        status,
		CreatedAt:     time.Now().Add(-time.Hour),
		UpdatedAt:     time.Now().Add(-time.Hour),
	}
}

func loadedOrderStream(t *testing.T, userID string, backend *fakeOrderBackend) *OrderStream {
	t.Helper()
	s := NewOrderStream(userID, backend)
	assert.NoError(t, s.Load(context.Background()))
	return s
}

func TestOrderTransitionAppliesOptimistically(t *testing.T) {
	backend := &fakeOrderBackend{orders: []*entity.Order{transferOrder(entity.OrderPaid)}}
	s := loadedOrderStream(t, "seller-1", backend)

	assert.NoError(t, s.Transition(context.Background(), "ord-1", entity.OrderPreparing, OrderTransitionDetail{}))

	order, _ := s.rec.ByID("ord-1")
	assert.Equal(t, entity.OrderPreparing, order.Status)
	assert.Equal(t, 1, backend.transitions)
}

func TestOrderTransitionRejectsWrongRole(t *testing.T) {
	backend := &fakeOrderBackend{orders: []*entity.Order{transferOrder(entity.OrderPaid)}}
	s := loadedOrderStream(t, "buyer-1", backend)

	// Preparing is a seller move.
	err := s.Transition(context.Background(), "ord-1", entity.OrderPreparing, OrderTransitionDetail{})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
	assert.Equal(t, 0, backend.transitions)

	order, _ := s.rec.ByID("ord-1")
	assert.Equal(t, entity.OrderPaid, order.Status)
}

func TestOrderTransitionRejectsBackwardMove(t *testing.T) {
	backend := &fakeOrderBackend{orders: []*entity.Order{transferOrder(entity.OrderOnTheWay)}}
	s := loadedOrderStream(t, "seller-1", backend)

	err := s.Transition(context.Background(), "ord-1", entity.OrderPreparing, OrderTransitionDetail{})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestOrderTransitionRollsBackOnStoreFailure(t *testing.T) {
	backend := &fakeOrderBackend{
		orders:        []*entity.Order{transferOrder(entity.OrderPaid)},
		transitionErr: errors.Internal("store down", nil),
	}
	s := loadedOrderStream(t, "seller-1", backend)

	assert.Error(t, s.Transition(context.Background(), "ord-1", entity.OrderPreparing, OrderTransitionDetail{}))

	order, _ := s.rec.ByID("ord-1")
	assert.Equal(t, entity.OrderPaid, order.Status)
}

func TestOrderRejectionWithoutReasonIsRejectedLocally(t *testing.T) {
	backend := &fakeOrderBackend{orders: []*entity.Order{transferOrder(entity.OrderPendingConfirmation)}}
	seller := loadedOrderStream(t, "seller-1", backend)

	err := seller.Transition(context.Background(), "ord-1", entity.OrderRejected, OrderTransitionDetail{})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	// Caught before the store is touched; the order is untouched.
	assert.Equal(t, 0, backend.transitions)
	order, _ := seller.rec.ByID("ord-1")
	assert.Equal(t, entity.OrderPendingConfirmation, order.Status)
	assert.Empty(t, order.RejectionHistory)
}

func TestOrderRejectionAndResubmissionCycle(t *testing.T) {
	backend := &fakeOrderBackend{orders: []*entity.Order{transferOrder(entity.OrderPendingConfirmation)}}
	seller := loadedOrderStream(t, "seller-1", backend)

	reason := "Payment proof is unreadable"
	assert.NoError(t, seller.Transition(context.Background(), "ord-1", entity.OrderRejected,
		OrderTransitionDetail{Reason: reason}))

	order, _ := seller.rec.ByID("ord-1")
	assert.Equal(t, entity.OrderRejected, order.Status)
	assert.Equal(t, reason, order.RejectionReason)
	assert.Len(t, order.RejectionHistory, 1)
	assert.Nil(t, order.ResubmittedAt)

	// The buyer's view picks up the rejected order and resubmits proof.
	backend.orders = []*entity.Order{order.Clone()}
	buyer := loadedOrderStream(t, "buyer-1", backend)

	assert.NoError(t, buyer.Transition(context.Background(), "ord-1", entity.OrderPendingConfirmation,
		OrderTransitionDetail{PaymentProofURL: "https://storage.example.com/proof-2.jpg"}))

	order, _ = buyer.rec.ByID("ord-1")
	assert.Equal(t, entity.OrderPendingConfirmation, order.Status)
	assert.Equal(t, "https://storage.example.com/proof-2.jpg", order.PaymentProofURL)
	assert.NotNil(t, order.ResubmittedAt)
	// History from the first rejection survives the resubmission.
	assert.Len(t, order.RejectionHistory, 1)
	assert.Equal(t, reason, order.RejectionHistory[0].Reason)
}

func TestSecondRejectionAccretesHistory(t *testing.T) {
	resubmitted := time.Now()
	order := transferOrder(entity.OrderPendingConfirmation)
	order.ResubmittedAt = &resubmitted
	order.RejectionHistory = []entity.RejectionRecord{{Reason: "first", RejectedAt: time.Now().Add(-time.Hour)}}

	backend := &fakeOrderBackend{orders: []*entity.Order{order}}
	seller := loadedOrderStream(t, "seller-1", backend)

	assert.NoError(t, seller.Transition(context.Background(), "ord-1", entity.OrderRejected,
		OrderTransitionDetail{Reason: "second"}))

	got, _ := seller.rec.ByID("ord-1")
	assert.Len(t, got.RejectionHistory, 2)
	// A new rejection opens a fresh resubmission window.
	assert.Nil(t, got.ResubmittedAt)
}

func TestDeliveredSetsTimestamp(t *testing.T) {
	backend := &fakeOrderBackend{orders: []*entity.Order{transferOrder(entity.OrderOnTheWay)}}
	seller := loadedOrderStream(t, "seller-1", backend)

	assert.NoError(t, seller.Transition(context.Background(), "ord-1", entity.OrderDelivered, OrderTransitionDetail{}))

	order, _ := seller.rec.ByID("ord-1")
	assert.Equal(t, entity.OrderDelivered, order.Status)
	assert.NotNil(t, order.DeliveredAt)
}

func TestOrderRemoteUpdateMergesIntoView(t *testing.T) {
	backend := &fakeOrderBackend{orders: []*entity.Order{transferOrder(entity.OrderPendingConfirmation)}}
	buyer := loadedOrderStream(t, "buyer-1", backend)

	remote := transferOrder(entity.OrderPaid)
	assert.True(t, buyer.OnEvent(Event[*entity.Order]{Kind: EventUpdated, Entity: remote}))

	order, _ := buyer.rec.ByID("ord-1")
	assert.Equal(t, entity.OrderPaid, order.Status)
}
