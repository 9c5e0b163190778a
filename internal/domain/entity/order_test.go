package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderTransitionTable(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		role    Role
		allowed bool
	}{
		{"seller confirms transfer payment", OrderPendingConfirmation, OrderPaid, RoleSeller, true},
		{"seller rejects payment proof", OrderPendingConfirmation, OrderRejected, RoleSeller, true},
		{"buyer cannot self-confirm payment", OrderPendingConfirmation, OrderPaid, RoleBuyer, false},
		{"seller prepares paid order", OrderPaid, OrderPreparing, RoleSeller, true},
		{"seller prepares cod order", OrderPendingCOD, OrderPreparing, RoleSeller, true},
		{"seller ships", OrderPreparing, OrderOnTheWay, RoleSeller, true},
		{"seller confirms delivery", OrderOnTheWay, OrderDelivered, RoleSeller, true},
		{"buyer resubmits after rejection", OrderRejected, OrderPendingConfirmation, RoleBuyer, true},
		{"seller cannot resubmit for buyer", OrderRejected, OrderPendingConfirmation, RoleSeller, false},
		{"no backward move", OrderOnTheWay, OrderPreparing, RoleSeller, false},
		{"delivered is terminal", OrderDelivered, OrderPreparing, RoleSeller, false},
		{"no skipping preparation", OrderPaid, OrderOnTheWay, RoleSeller, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to, tt.role))
		})
	}
}

func TestOrderRoleOf(t *testing.T) {
	o := &Order{BuyerID: "b", SellerID: "s"}
	assert.Equal(t, RoleBuyer, o.RoleOf("b"))
	assert.Equal(t, RoleSeller, o.RoleOf("s"))
	assert.Equal(t, Role(""), o.RoleOf("stranger"))
}
