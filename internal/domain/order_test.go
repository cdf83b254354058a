package domain

import "testing"

func TestOrderStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"awaiting_payment_to_received", OrderStatusAwaitingPayment, OrderStatusReceived, true},
		{"received_to_in_preparation", OrderStatusReceived, OrderStatusInPreparation, true},
		{"in_preparation_to_ready", OrderStatusInPreparation, OrderStatusReady, true},
		{"ready_to_finished", OrderStatusReady, OrderStatusFinished, true},
		{"awaiting_payment_to_canceled", OrderStatusAwaitingPayment, OrderStatusCanceled, true},
		{"received_to_canceled", OrderStatusReceived, OrderStatusCanceled, true},
		{"in_preparation_to_canceled", OrderStatusInPreparation, OrderStatusCanceled, true},
		{"ready_to_canceled", OrderStatusReady, OrderStatusCanceled, true},
		{"no_skip_awaiting_to_in_preparation", OrderStatusAwaitingPayment, OrderStatusInPreparation, false},
		{"no_skip_received_to_ready", OrderStatusReceived, OrderStatusReady, false},
		{"no_skip_received_to_finished", OrderStatusReceived, OrderStatusFinished, false},
		{"no_backwards_ready_to_received", OrderStatusReady, OrderStatusReceived, false},
		{"no_backwards_in_preparation_to_received", OrderStatusInPreparation, OrderStatusReceived, false},
		{"no_self_loop_received", OrderStatusReceived, OrderStatusReceived, false},
		{"finished_is_terminal", OrderStatusFinished, OrderStatusCanceled, false},
		{"finished_no_forward", OrderStatusFinished, OrderStatusReceived, false},
		{"canceled_is_terminal", OrderStatusCanceled, OrderStatusReceived, false},
		{"canceled_no_self_cancel", OrderStatusCanceled, OrderStatusCanceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestOrderStatusIsTerminal(t *testing.T) {
	terminal := map[OrderStatus]bool{
		OrderStatusAwaitingPayment: false,
		OrderStatusReceived:        false,
		OrderStatusInPreparation:   false,
		OrderStatusReady:           false,
		OrderStatusFinished:        true,
		OrderStatusCanceled:        true,
	}
	for status, want := range terminal {
		if got := status.IsTerminal(); got != want {
			t.Errorf("IsTerminal(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestOrderStatusValid(t *testing.T) {
	for _, status := range []OrderStatus{
		OrderStatusAwaitingPayment, OrderStatusReceived, OrderStatusInPreparation,
		OrderStatusReady, OrderStatusFinished, OrderStatusCanceled,
	} {
		if !status.Valid() {
			t.Errorf("Valid(%s) = false, want true", status)
		}
	}
	if OrderStatus("DELIVERED").Valid() {
		t.Error("Valid(DELIVERED) = true, want false")
	}
}

func TestNewOrder(t *testing.T) {
	clientID := int64(42)

	tests := []struct {
		name     string
		clientID *int64
		items    []OrderItem
		wantErr  bool
	}{
		{"valid", &clientID, []OrderItem{{ProductID: 1, Quantity: 2}}, false},
		{"anonymous_client", nil, []OrderItem{{ProductID: 1, Quantity: 1}}, false},
		{"empty_items", &clientID, nil, true},
		{"zero_quantity", &clientID, []OrderItem{{ProductID: 1, Quantity: 0}}, true},
		{"negative_quantity", &clientID, []OrderItem{{ProductID: 1, Quantity: -1}}, true},
		{"missing_product", &clientID, []OrderItem{{ProductID: 0, Quantity: 1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := NewOrder(tt.clientID, tt.items)
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewOrder() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewOrder() error = %v", err)
			}
			if order.Status != OrderStatusAwaitingPayment {
				t.Errorf("new order status = %s, want %s", order.Status, OrderStatusAwaitingPayment)
			}
			if order.ID != 0 {
				t.Errorf("new order id = %d, want 0 before persistence", order.ID)
			}
		})
	}
}
