package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"burgerhouse/internal/domain"
	"burgerhouse/internal/repository/order_repo"
)

type pgOrderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewOrderRepository(db *sql.DB, l *zap.Logger) order_repo.OrderRepository {
	return &pgOrderRepository{db: db, logger: l}
}

func (r *pgOrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	order := &domain.Order{}
	var clientID sql.NullInt64
	query := `SELECT id, client_id, status, created_at, modified_at FROM orders WHERE id = $1 AND deleted_at IS NULL`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&order.ID, &clientID, &order.Status, &order.CreatedAt, &order.ModifiedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		r.logger.Error("Failed to get order by ID", zap.Int64("order_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get order by ID %d: %w", id, err)
	}
	if clientID.Valid {
		order.ClientID = &clientID.Int64
	}

	items, err := r.findItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *pgOrderRepository) findItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	query := `SELECT product_id, quantity FROM order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		r.logger.Error("Failed to query order items", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, fmt.Errorf("failed to get items for order %d: %w", orderID, err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Quantity); err != nil {
			r.logger.Error("Failed to scan order item row", zap.Int64("order_id", orderID), zap.Error(err))
			return nil, fmt.Errorf("failed to scan order item row: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		r.logger.Error("Rows error for order items", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return items, nil
}

func (r *pgOrderRepository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction for order creation", zap.Error(err))
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("Panic during order creation transaction, rolling back")
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			r.logger.Warn("Rolling back order creation transaction due to error", zap.Error(err))
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
			if err != nil {
				r.logger.Error("Failed to commit order creation transaction", zap.Error(err))
			}
		}
	}()

	var clientID sql.NullInt64
	if order.ClientID != nil {
		clientID = sql.NullInt64{Int64: *order.ClientID, Valid: true}
	}

	orderQuery := `INSERT INTO orders (client_id, status, created_at, modified_at) VALUES ($1, $2, $3, $4) RETURNING id`
	err = tx.QueryRowContext(ctx, orderQuery, clientID, order.Status, order.CreatedAt, order.ModifiedAt).Scan(&order.ID)
	if err != nil {
		err = fmt.Errorf("tx failed to create order: %w", err)
		return nil, err
	}

	itemQuery := `INSERT INTO order_items (order_id, product_id, quantity) VALUES ($1, $2, $3)`
	for _, item := range order.Items {
		if _, err = tx.ExecContext(ctx, itemQuery, order.ID, item.ProductID, item.Quantity); err != nil {
			err = fmt.Errorf("tx failed to create order item: %w", err)
			return nil, err
		}
	}
	r.logger.Debug("Order inserted in transaction", zap.Int64("order_id", order.ID))

	return order, err
}

func (r *pgOrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, modifiedAt time.Time) error {
	query := `UPDATE orders SET status = $2, modified_at = $3 WHERE id = $1 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, id, status, modifiedAt)
	if err != nil {
		r.logger.Error("Failed to update order status", zap.Int64("order_id", id), zap.Error(err))
		return fmt.Errorf("failed to update status of order %d: %w", id, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		r.logger.Error("Failed to get rows affected for order status update", zap.Int64("order_id", id), zap.Error(err))
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rowsAffected == 0 {
		r.logger.Warn("No rows affected when updating order status, order might not exist", zap.Int64("order_id", id))
		return sql.ErrNoRows
	}
	r.logger.Debug("Order status updated", zap.Int64("order_id", id), zap.String("new_status", string(status)))
	return nil
}

func (r *pgOrderRepository) FindAllInProgress(ctx context.Context, statuses []domain.OrderStatus) ([]*domain.Order, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	// READY orders list first, oldest modification first within a status.
	query := `SELECT id, client_id, status, created_at, modified_at FROM orders
		WHERE deleted_at IS NULL AND status = ANY($1)
		ORDER BY status DESC, modified_at ASC`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(names))
	if err != nil {
		r.logger.Error("Failed to query in-progress orders", zap.Error(err))
		return nil, fmt.Errorf("failed to get in-progress orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order := &domain.Order{}
		var clientID sql.NullInt64
		if err := rows.Scan(&order.ID, &clientID, &order.Status, &order.CreatedAt, &order.ModifiedAt); err != nil {
			r.logger.Error("Failed to scan row for in-progress orders", zap.Error(err))
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		if clientID.Valid {
			order.ClientID = &clientID.Int64
		}
		orders = append(orders, order)
	}
	if err = rows.Err(); err != nil {
		r.logger.Error("Rows error for in-progress orders", zap.Error(err))
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for _, order := range orders {
		items, err := r.findItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}
	return orders, nil
}
