package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusOpen     PaymentStatus = "OPEN"
	PaymentStatusApproved PaymentStatus = "APPROVED"
	PaymentStatusRejected PaymentStatus = "REJECTED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusOpen, PaymentStatusApproved, PaymentStatusRejected:
		return true
	}
	return false
}

// CanBeUpdatedFrom reports whether a payment currently in s may still be
// resolved. A payment is resolved exactly once, out of OPEN.
func (s PaymentStatus) CanBeUpdatedFrom() bool {
	return s == PaymentStatusOpen
}

// CanUpdateTo reports whether s is a legal resolution for a payment.
func (s PaymentStatus) CanUpdateTo() bool {
	return s == PaymentStatusApproved || s == PaymentStatusRejected
}

type Payment struct {
	ID         int64
	OrderID    int64
	Status     PaymentStatus
	QRCode     string
	ExternalID string
	CreatedAt  time.Time
	ModifiedAt time.Time
	DeletedAt  *time.Time
}

// NewOpenPayment binds a fresh OPEN payment to the given order. QRCode and
// ExternalID stay empty until the payment provider fills them in.
func NewOpenPayment(order *Order) *Payment {
	now := time.Now()
	return &Payment{
		OrderID:    order.ID,
		Status:     PaymentStatusOpen,
		CreatedAt:  now,
		ModifiedAt: now,
	}
}
