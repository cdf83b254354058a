package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"burgerhouse/internal/domain"
	"burgerhouse/internal/repository/payment_repo"
)

type pgPaymentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPaymentRepository(db *sql.DB, l *zap.Logger) payment_repo.PaymentRepository {
	return &pgPaymentRepository{db: db, logger: l}
}

func (r *pgPaymentRepository) FindByID(ctx context.Context, id int64) (*domain.Payment, error) {
	payment := &domain.Payment{}
	query := `SELECT id, order_id, status, qr_code, external_id, created_at, modified_at FROM payments WHERE id = $1 AND deleted_at IS NULL`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&payment.ID, &payment.OrderID, &payment.Status, &payment.QRCode, &payment.ExternalID, &payment.CreatedAt, &payment.ModifiedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get payment by ID", zap.Int64("payment_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get payment by ID %d: %w", id, err)
	}
	return payment, nil
}

func (r *pgPaymentRepository) FindByOrderID(ctx context.Context, orderID int64) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	query := `SELECT id, order_id, status, qr_code, external_id, created_at, modified_at FROM payments WHERE order_id = $1 AND deleted_at IS NULL ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		r.logger.Error("Failed to query payments for order", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, fmt.Errorf("failed to get payments by order ID %d: %w", orderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		payment := &domain.Payment{}
		if err := rows.Scan(&payment.ID, &payment.OrderID, &payment.Status, &payment.QRCode, &payment.ExternalID, &payment.CreatedAt, &payment.ModifiedAt); err != nil {
			r.logger.Error("Failed to scan payment row", zap.Int64("order_id", orderID), zap.Error(err))
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, payment)
	}
	if err = rows.Err(); err != nil {
		r.logger.Error("Rows error for order payments", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return payments, nil
}

func (r *pgPaymentRepository) Save(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	query := `INSERT INTO payments (order_id, status, qr_code, external_id, created_at, modified_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		payment.OrderID, payment.Status, payment.QRCode, payment.ExternalID, payment.CreatedAt, payment.ModifiedAt).Scan(&payment.ID)
	if err != nil {
		r.logger.Error("Failed to create payment", zap.Int64("order_id", payment.OrderID), zap.Error(err))
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	r.logger.Debug("Payment created", zap.Int64("payment_id", payment.ID), zap.Int64("order_id", payment.OrderID))
	return payment, nil
}

func (r *pgPaymentRepository) UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus, modifiedAt time.Time) error {
	query := `UPDATE payments SET status = $2, modified_at = $3 WHERE id = $1 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, id, status, modifiedAt)
	if err != nil {
		r.logger.Error("Failed to update payment status", zap.Int64("payment_id", id), zap.Error(err))
		return fmt.Errorf("failed to update status of payment %d: %w", id, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		r.logger.Error("Failed to get rows affected for payment status update", zap.Int64("payment_id", id), zap.Error(err))
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rowsAffected == 0 {
		r.logger.Warn("No rows affected when updating payment status, payment might not exist", zap.Int64("payment_id", id))
		return sql.ErrNoRows
	}
	r.logger.Debug("Payment status updated", zap.Int64("payment_id", id), zap.String("new_status", string(status)))
	return nil
}
