package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"burgerhouse/internal/domain"
	"burgerhouse/internal/repository/order_repo"
	"burgerhouse/internal/repository/outbox_repo"
	"burgerhouse/internal/util"
)

// OrderStatusTopic carries OrderStatusEvent messages drained from the outbox.
const OrderStatusTopic = "order_status_updates"

type OrderService interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderResponse, error)
	GetOrder(ctx context.Context, orderID int64) (*OrderResponse, error)
	GetInProgressOrders(ctx context.Context) ([]*OrderResponse, error)

	// FindByID, CanBePaid, Checkout and UpdateStatus form the order
	// transition capability the payment service orchestrates against.
	FindByID(ctx context.Context, orderID int64) (*domain.Order, error)
	CanBePaid(status domain.OrderStatus) bool
	Checkout(ctx context.Context, orderID int64) error
	UpdateStatus(ctx context.Context, orderID int64, newStatus domain.OrderStatus) error
}

type orderService struct {
	orderRepo  order_repo.OrderRepository
	outboxRepo outbox_repo.OutboxRepository
	logger     *zap.Logger
}

func NewOrderService(
	orderRepo order_repo.OrderRepository,
	outboxRepo outbox_repo.OutboxRepository,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo:  orderRepo,
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderResponse, error) {
	items := make([]domain.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = domain.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	order, err := domain.NewOrder(req.ClientID, items)
	if err != nil {
		s.logger.Warn("Rejected invalid order", zap.Error(err))
		return nil, err
	}

	saved, err := s.orderRepo.Save(ctx, order)
	if err != nil {
		s.logger.Error("Failed to save new order", zap.Error(err))
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info("Order created", zap.Int64("order_id", saved.ID))
	return mapOrderToResponse(saved), nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID int64) (*OrderResponse, error) {
	order, err := s.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return mapOrderToResponse(order), nil
}

func (s *orderService) GetInProgressOrders(ctx context.Context) ([]*OrderResponse, error) {
	orders, err := s.orderRepo.FindAllInProgress(ctx, domain.InProgressStatuses())
	if err != nil {
		s.logger.Error("Failed to get in-progress orders", zap.Error(err))
		return nil, fmt.Errorf("failed to list in-progress orders: %w", err)
	}
	return mapOrdersToResponse(orders), nil
}

func (s *orderService) FindByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Debug("Order not found", zap.Int64("order_id", orderID))
			return nil, &domain.NotFoundError{Entity: "order", ID: orderID}
		}
		s.logger.Error("Failed to get order from repository", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, fmt.Errorf("failed to find order %d: %w", orderID, err)
	}
	return order, nil
}

// CanBePaid reports whether an order in the given status may receive a
// payment. Only orders still awaiting payment qualify.
func (s *orderService) CanBePaid(status domain.OrderStatus) bool {
	return status == domain.OrderStatusAwaitingPayment
}

// Checkout accepts a paid order into the kitchen queue.
func (s *orderService) Checkout(ctx context.Context, orderID int64) error {
	return s.UpdateStatus(ctx, orderID, domain.OrderStatusReceived)
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID int64, newStatus domain.OrderStatus) error {
	if !newStatus.Valid() {
		return &domain.InvalidAttributeError{
			Attribute: "status",
			Message:   fmt.Sprintf("unknown order status %s", newStatus),
		}
	}

	order, err := s.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !order.Status.CanTransitionTo(newStatus) {
		s.logger.Warn("Rejected illegal order transition",
			zap.Int64("order_id", orderID),
			zap.String("old_status", string(order.Status)),
			zap.String("new_status", string(newStatus)))
		return &domain.InvalidAttributeError{
			Attribute: "status",
			Message:   fmt.Sprintf("order status cannot change from %s to %s", order.Status, newStatus),
		}
	}

	now := time.Now()
	if err := s.orderRepo.UpdateStatus(ctx, orderID, newStatus, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.NotFoundError{Entity: "order", ID: orderID}
		}
		s.logger.Error("Failed to persist order status",
			zap.Int64("order_id", orderID),
			zap.String("new_status", string(newStatus)),
			zap.Error(err))
		return fmt.Errorf("failed to update status of order %d: %w", orderID, err)
	}

	s.logger.Info("Order status updated",
		zap.Int64("order_id", orderID),
		zap.String("old_status", string(order.Status)),
		zap.String("new_status", string(newStatus)))

	s.enqueueStatusEvent(ctx, orderID, order.Status, newStatus, now)
	return nil
}

// enqueueStatusEvent records the transition in the outbox. The transition is
// already committed at this point, so a write failure only loses the
// notification, never the transition.
func (s *orderService) enqueueStatusEvent(ctx context.Context, orderID int64, oldStatus, newStatus domain.OrderStatus, at time.Time) {
	event := OrderStatusEvent{
		OrderID:   orderID,
		OldStatus: string(oldStatus),
		NewStatus: string(newStatus),
		Timestamp: at,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal order status event", zap.Int64("order_id", orderID), zap.Error(err))
		return
	}

	msg := &outbox_repo.OutboxMessage{
		ID:        util.GenerateUUID(),
		Topic:     OrderStatusTopic,
		Payload:   payload,
		Status:    outbox_repo.StatusPending,
		CreatedAt: at,
	}
	if err := s.outboxRepo.CreateMessage(ctx, msg); err != nil {
		s.logger.Error("Failed to enqueue order status event",
			zap.Int64("order_id", orderID),
			zap.String("message_id", msg.ID),
			zap.Error(err))
	}
}

func mapOrderToResponse(order *domain.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return &OrderResponse{
		ID:         order.ID,
		ClientID:   order.ClientID,
		Items:      items,
		Status:     string(order.Status),
		CreatedAt:  order.CreatedAt,
		ModifiedAt: order.ModifiedAt,
	}
}

func mapOrdersToResponse(orders []*domain.Order) []*OrderResponse {
	responses := make([]*OrderResponse, len(orders))
	for i, order := range orders {
		responses[i] = mapOrderToResponse(order)
	}
	return responses
}
