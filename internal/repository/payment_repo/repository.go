package payment_repo

import (
	"context"
	"time"

	"burgerhouse/internal/domain"
)

// PaymentRepository is the persistence port for payments. FindByID returns
// (nil, nil) when no live payment matches, leaving the not-found decision to
// the caller.
type PaymentRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Payment, error)
	FindByOrderID(ctx context.Context, orderID int64) ([]*domain.Payment, error)
	Save(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus, modifiedAt time.Time) error
}
