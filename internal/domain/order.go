package domain

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusAwaitingPayment OrderStatus = "AWAITING_PAYMENT"
	OrderStatusReceived        OrderStatus = "RECEIVED"
	OrderStatusInPreparation   OrderStatus = "IN_PREPARATION"
	OrderStatusReady           OrderStatus = "READY"
	OrderStatusFinished        OrderStatus = "FINISHED"
	OrderStatusCanceled        OrderStatus = "CANCELED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusAwaitingPayment, OrderStatusReceived, OrderStatusInPreparation,
		OrderStatusReady, OrderStatusFinished, OrderStatusCanceled:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusFinished || s == OrderStatusCanceled
}

// CanTransitionTo reports whether the kitchen pipeline allows moving from s
// to next. The pipeline only moves forward one step at a time; CANCELED is
// reachable from every non-terminal status.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if next == OrderStatusCanceled {
		return !s.IsTerminal()
	}
	switch s {
	case OrderStatusAwaitingPayment:
		return next == OrderStatusReceived
	case OrderStatusReceived:
		return next == OrderStatusInPreparation
	case OrderStatusInPreparation:
		return next == OrderStatusReady
	case OrderStatusReady:
		return next == OrderStatusFinished
	case OrderStatusFinished, OrderStatusCanceled:
		return false
	}
	return false
}

// InProgressStatuses are the statuses shown on the kitchen monitor, in the
// order they sort (READY first when listed status desc).
func InProgressStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusReceived, OrderStatusInPreparation, OrderStatusReady}
}

type OrderItem struct {
	ProductID int64
	Quantity  int
}

type Order struct {
	ID         int64
	ClientID   *int64
	Items      []OrderItem
	Status     OrderStatus
	CreatedAt  time.Time
	ModifiedAt time.Time
	DeletedAt  *time.Time
}

// NewOrder builds an order awaiting payment. ClientID may be nil; counter
// orders do not require an identified client.
func NewOrder(clientID *int64, items []OrderItem) (*Order, error) {
	if len(items) == 0 {
		return nil, &InvalidAttributeError{Attribute: "items", Message: "order must contain at least one item"}
	}
	for _, item := range items {
		if item.ProductID <= 0 {
			return nil, &InvalidAttributeError{Attribute: "items", Message: "order item must reference a product"}
		}
		if item.Quantity <= 0 {
			return nil, &InvalidAttributeError{Attribute: "items", Message: "order item quantity must be positive"}
		}
	}
	now := time.Now()
	return &Order{
		ClientID:   clientID,
		Items:      items,
		Status:     OrderStatusAwaitingPayment,
		CreatedAt:  now,
		ModifiedAt: now,
	}, nil
}
