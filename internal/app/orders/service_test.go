package orders

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"burgerhouse/internal/domain"
	"burgerhouse/internal/repository/outbox_repo"
)

type statusUpdate struct {
	id     int64
	status domain.OrderStatus
}

type fakeOrderRepo struct {
	orders    map[int64]*domain.Order
	updates   []statusUpdate
	inQuery   []domain.OrderStatus
	inResult  []*domain.Order
	nextID    int64
	saveErr   error
	updateErr error
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok || order.DeletedAt != nil {
		return nil, sql.ErrNoRows
	}
	cp := *order
	return &cp, nil
}

func (r *fakeOrderRepo) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	if r.orders == nil {
		r.orders = map[int64]*domain.Order{}
	}
	r.nextID++
	order.ID = r.nextID
	cp := *order
	r.orders[order.ID] = &cp
	return order, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, modifiedAt time.Time) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates = append(r.updates, statusUpdate{id: id, status: status})
	if order, ok := r.orders[id]; ok {
		order.Status = status
		order.ModifiedAt = modifiedAt
	}
	return nil
}

func (r *fakeOrderRepo) FindAllInProgress(ctx context.Context, statuses []domain.OrderStatus) ([]*domain.Order, error) {
	r.inQuery = statuses
	return r.inResult, nil
}

type fakeOutboxRepo struct {
	messages []*outbox_repo.OutboxMessage
}

func (r *fakeOutboxRepo) CreateMessage(ctx context.Context, msg *outbox_repo.OutboxMessage) error {
	r.messages = append(r.messages, msg)
	return nil
}

func (r *fakeOutboxRepo) GetUnsentMessages(ctx context.Context) ([]*outbox_repo.OutboxMessage, error) {
	return r.messages, nil
}

func (r *fakeOutboxRepo) MarkMessageSent(ctx context.Context, id string) error {
	return nil
}

func newTestService(repo *fakeOrderRepo) (OrderService, *fakeOutboxRepo) {
	outbox := &fakeOutboxRepo{}
	return NewOrderService(repo, outbox, zap.NewNop()), outbox
}

func orderWithStatus(id int64, status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:         id,
		Items:      []domain.OrderItem{{ProductID: 1, Quantity: 1}},
		Status:     status,
		CreatedAt:  time.Now(),
		ModifiedAt: time.Now(),
	}
}

func TestCanBePaid(t *testing.T) {
	service, _ := newTestService(&fakeOrderRepo{})

	tests := []struct {
		status domain.OrderStatus
		want   bool
	}{
		{domain.OrderStatusAwaitingPayment, true},
		{domain.OrderStatusReceived, false},
		{domain.OrderStatusInPreparation, false},
		{domain.OrderStatusReady, false},
		{domain.OrderStatusFinished, false},
		{domain.OrderStatusCanceled, false},
	}
	for _, tt := range tests {
		if got := service.CanBePaid(tt.status); got != tt.want {
			t.Errorf("CanBePaid(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestFindByID(t *testing.T) {
	deleted := time.Now()
	repo := &fakeOrderRepo{orders: map[int64]*domain.Order{
		1: orderWithStatus(1, domain.OrderStatusReceived),
		2: {ID: 2, Status: domain.OrderStatusReceived, DeletedAt: &deleted},
	}}
	service, _ := newTestService(repo)

	order, err := service.FindByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("FindByID(1) error = %v", err)
	}
	if order.ID != 1 {
		t.Errorf("FindByID(1) id = %d, want 1", order.ID)
	}

	var notFound *domain.NotFoundError
	if _, err := service.FindByID(context.Background(), 2); !errors.As(err, &notFound) {
		t.Errorf("FindByID on soft-deleted order error = %v, want NotFoundError", err)
	}
	if _, err := service.FindByID(context.Background(), 99); !errors.As(err, &notFound) {
		t.Errorf("FindByID on missing order error = %v, want NotFoundError", err)
	}
}

func TestCheckout(t *testing.T) {
	repo := &fakeOrderRepo{orders: map[int64]*domain.Order{
		1: orderWithStatus(1, domain.OrderStatusAwaitingPayment),
	}}
	service, outbox := newTestService(repo)

	if err := service.Checkout(context.Background(), 1); err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}
	if len(repo.updates) != 1 {
		t.Fatalf("got %d status updates, want 1", len(repo.updates))
	}
	if repo.updates[0].status != domain.OrderStatusReceived {
		t.Errorf("persisted status = %s, want %s", repo.updates[0].status, domain.OrderStatusReceived)
	}
	if len(outbox.messages) != 1 {
		t.Errorf("got %d outbox messages, want 1", len(outbox.messages))
	}
}

func TestCheckoutRejectsNonAwaitingOrder(t *testing.T) {
	repo := &fakeOrderRepo{orders: map[int64]*domain.Order{
		1: orderWithStatus(1, domain.OrderStatusReceived),
	}}
	service, _ := newTestService(repo)

	var invalid *domain.InvalidAttributeError
	if err := service.Checkout(context.Background(), 1); !errors.As(err, &invalid) {
		t.Fatalf("Checkout on RECEIVED order error = %v, want InvalidAttributeError", err)
	}
	if len(repo.updates) != 0 {
		t.Errorf("got %d status updates, want 0 on rejected checkout", len(repo.updates))
	}
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.OrderStatus
		to      domain.OrderStatus
		wantErr bool
	}{
		{"received_to_in_preparation", domain.OrderStatusReceived, domain.OrderStatusInPreparation, false},
		{"in_preparation_to_ready", domain.OrderStatusInPreparation, domain.OrderStatusReady, false},
		{"ready_to_finished", domain.OrderStatusReady, domain.OrderStatusFinished, false},
		{"received_to_canceled", domain.OrderStatusReceived, domain.OrderStatusCanceled, false},
		{"ready_to_canceled", domain.OrderStatusReady, domain.OrderStatusCanceled, false},
		{"finished_to_canceled", domain.OrderStatusFinished, domain.OrderStatusCanceled, true},
		{"finished_to_received", domain.OrderStatusFinished, domain.OrderStatusReceived, true},
		{"canceled_to_received", domain.OrderStatusCanceled, domain.OrderStatusReceived, true},
		{"skip_received_to_ready", domain.OrderStatusReceived, domain.OrderStatusReady, true},
		{"unknown_status", domain.OrderStatusReceived, domain.OrderStatus("DELIVERED"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeOrderRepo{orders: map[int64]*domain.Order{
				1: orderWithStatus(1, tt.from),
			}}
			service, outbox := newTestService(repo)

			err := service.UpdateStatus(context.Background(), 1, tt.to)
			if tt.wantErr {
				var invalid *domain.InvalidAttributeError
				if !errors.As(err, &invalid) {
					t.Fatalf("UpdateStatus(%s -> %s) error = %v, want InvalidAttributeError", tt.from, tt.to, err)
				}
				if len(repo.updates) != 0 {
					t.Errorf("got %d status updates, want 0 on rejected transition", len(repo.updates))
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateStatus(%s -> %s) error = %v", tt.from, tt.to, err)
			}
			if len(repo.updates) != 1 || repo.updates[0].status != tt.to {
				t.Errorf("persisted updates = %v, want one update to %s", repo.updates, tt.to)
			}
			if len(outbox.messages) != 1 {
				t.Errorf("got %d outbox messages, want 1", len(outbox.messages))
			}
			if outbox.messages[0].Topic != OrderStatusTopic {
				t.Errorf("outbox topic = %s, want %s", outbox.messages[0].Topic, OrderStatusTopic)
			}
		})
	}
}

func TestUpdateStatusOrderNotFound(t *testing.T) {
	repo := &fakeOrderRepo{}
	service, _ := newTestService(repo)

	var notFound *domain.NotFoundError
	err := service.UpdateStatus(context.Background(), 5, domain.OrderStatusCanceled)
	if !errors.As(err, &notFound) {
		t.Fatalf("UpdateStatus on missing order error = %v, want NotFoundError", err)
	}
	if len(repo.updates) != 0 {
		t.Errorf("got %d status updates, want 0", len(repo.updates))
	}
}

func TestCreateOrder(t *testing.T) {
	repo := &fakeOrderRepo{}
	service, _ := newTestService(repo)

	res, err := service.CreateOrder(context.Background(), &CreateOrderRequest{
		Items: []OrderItemRequest{{ProductID: 3, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if res.Status != string(domain.OrderStatusAwaitingPayment) {
		t.Errorf("created order status = %s, want %s", res.Status, domain.OrderStatusAwaitingPayment)
	}
	if res.ID == 0 {
		t.Error("created order id = 0, want assigned id")
	}
}

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	repo := &fakeOrderRepo{}
	service, _ := newTestService(repo)

	var invalid *domain.InvalidAttributeError
	if _, err := service.CreateOrder(context.Background(), &CreateOrderRequest{}); !errors.As(err, &invalid) {
		t.Fatalf("CreateOrder with no items error = %v, want InvalidAttributeError", err)
	}
	if len(repo.orders) != 0 {
		t.Errorf("got %d saved orders, want 0", len(repo.orders))
	}
}

func TestGetInProgressOrders(t *testing.T) {
	repo := &fakeOrderRepo{inResult: []*domain.Order{
		orderWithStatus(3, domain.OrderStatusReady),
		orderWithStatus(1, domain.OrderStatusReceived),
	}}
	service, _ := newTestService(repo)

	res, err := service.GetInProgressOrders(context.Background())
	if err != nil {
		t.Fatalf("GetInProgressOrders() error = %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("got %d orders, want 2", len(res))
	}

	want := domain.InProgressStatuses()
	if len(repo.inQuery) != len(want) {
		t.Fatalf("queried statuses = %v, want %v", repo.inQuery, want)
	}
	for i, status := range want {
		if repo.inQuery[i] != status {
			t.Errorf("queried status[%d] = %s, want %s", i, repo.inQuery[i], status)
		}
	}
}
