package payments

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"burgerhouse/internal/domain"
	"burgerhouse/internal/repository/payment_repo"
)

// OrderTransitions is the slice of the order service the payment service
// orchestrates against. Approving a payment checks the order into the
// kitchen queue; rejecting it cancels the order.
type OrderTransitions interface {
	FindByID(ctx context.Context, orderID int64) (*domain.Order, error)
	CanBePaid(status domain.OrderStatus) bool
	Checkout(ctx context.Context, orderID int64) error
	UpdateStatus(ctx context.Context, orderID int64, newStatus domain.OrderStatus) error
}

type PaymentService interface {
	GetPayment(ctx context.Context, id int64) (*PaymentResponse, error)
	GetPaymentsByOrderID(ctx context.Context, orderID int64) ([]*PaymentResponse, error)
	Insert(ctx context.Context, orderID int64) (*PaymentResponse, error)
	UpdateStatus(ctx context.Context, id int64, newStatus domain.PaymentStatus) error
}

type paymentService struct {
	paymentRepo payment_repo.PaymentRepository
	orders      OrderTransitions
	logger      *zap.Logger
}

func NewPaymentService(
	paymentRepo payment_repo.PaymentRepository,
	orders OrderTransitions,
	logger *zap.Logger,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		orders:      orders,
		logger:      logger,
	}
}

func (s *paymentService) GetPayment(ctx context.Context, id int64) (*PaymentResponse, error) {
	payment, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, &domain.PaymentNotFoundError{ID: id}
	}
	return mapPaymentToResponse(payment), nil
}

func (s *paymentService) GetPaymentsByOrderID(ctx context.Context, orderID int64) ([]*PaymentResponse, error) {
	payments, err := s.paymentRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		s.logger.Error("Failed to get payments for order", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, fmt.Errorf("failed to list payments of order %d: %w", orderID, err)
	}
	return mapPaymentsToResponse(payments), nil
}

// Insert opens a payment for an order that is still awaiting payment.
func (s *paymentService) Insert(ctx context.Context, orderID int64) (*PaymentResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !s.orders.CanBePaid(order.Status) {
		s.logger.Warn("Rejected payment for order that cannot be paid",
			zap.Int64("order_id", orderID),
			zap.String("order_status", string(order.Status)))
		return nil, &domain.OrderCannotBePaidError{OrderID: orderID}
	}

	payment, err := s.paymentRepo.Save(ctx, domain.NewOpenPayment(order))
	if err != nil {
		s.logger.Error("Failed to save payment", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, fmt.Errorf("failed to create payment for order %d: %w", orderID, err)
	}

	s.logger.Info("Payment opened", zap.Int64("payment_id", payment.ID), zap.Int64("order_id", orderID))
	return mapPaymentToResponse(payment), nil
}

// UpdateStatus resolves an OPEN payment and drives the coupled order
// transition: APPROVED checks the order out, REJECTED cancels it.
func (s *paymentService) UpdateStatus(ctx context.Context, id int64, newStatus domain.PaymentStatus) error {
	payment, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}
	if payment == nil {
		s.logger.Warn("Payment not found for status update", zap.Int64("payment_id", id))
		return &domain.PaymentNotFoundError{ID: id}
	}

	if err := validateUpdateStatus(newStatus, payment.Status); err != nil {
		s.logger.Warn("Rejected illegal payment transition",
			zap.Int64("payment_id", id),
			zap.String("old_status", string(payment.Status)),
			zap.String("new_status", string(newStatus)))
		return err
	}

	if err := s.paymentRepo.UpdateStatus(ctx, id, newStatus, time.Now()); err != nil {
		s.logger.Error("Failed to persist payment status",
			zap.Int64("payment_id", id),
			zap.String("new_status", string(newStatus)),
			zap.Error(err))
		return fmt.Errorf("failed to update status of payment %d: %w", id, err)
	}

	s.logger.Info("Payment resolved",
		zap.Int64("payment_id", id),
		zap.Int64("order_id", payment.OrderID),
		zap.String("status", string(newStatus)))

	switch newStatus {
	case domain.PaymentStatusApproved:
		return s.orders.Checkout(ctx, payment.OrderID)
	case domain.PaymentStatusRejected:
		return s.orders.UpdateStatus(ctx, payment.OrderID, domain.OrderStatusCanceled)
	}
	return nil
}

func (s *paymentService) findByID(ctx context.Context, id int64) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get payment from repository", zap.Int64("payment_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to find payment %d: %w", id, err)
	}
	return payment, nil
}

// validateUpdateStatus checks the current status before the requested one,
// so when both are illegal the oldStatus violation is the one reported.
func validateUpdateStatus(newStatus, oldStatus domain.PaymentStatus) error {
	if !oldStatus.CanBeUpdatedFrom() {
		return &domain.InvalidAttributeError{
			Attribute: "oldStatus",
			Message:   fmt.Sprintf("You can not change status from payments with status %s.", oldStatus),
		}
	}
	if !newStatus.CanUpdateTo() {
		return &domain.InvalidAttributeError{
			Attribute: "new Status",
			Message:   fmt.Sprintf("You can not change payments status to %s.", newStatus),
		}
	}
	return nil
}

func mapPaymentToResponse(payment *domain.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:         payment.ID,
		OrderID:    payment.OrderID,
		Status:     string(payment.Status),
		QRCode:     payment.QRCode,
		ExternalID: payment.ExternalID,
		CreatedAt:  payment.CreatedAt,
		ModifiedAt: payment.ModifiedAt,
	}
}

func mapPaymentsToResponse(payments []*domain.Payment) []*PaymentResponse {
	responses := make([]*PaymentResponse, len(payments))
	for i, payment := range payments {
		responses[i] = mapPaymentToResponse(payment)
	}
	return responses
}
