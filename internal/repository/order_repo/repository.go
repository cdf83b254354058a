package order_repo

import (
	"context"
	"time"

	"burgerhouse/internal/domain"
)

// OrderRepository is the persistence port for orders. Implementations filter
// soft-deleted rows on every read and serialize concurrent status updates on
// the same id.
type OrderRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, modifiedAt time.Time) error
	FindAllInProgress(ctx context.Context, statuses []domain.OrderStatus) ([]*domain.Order, error)
}
