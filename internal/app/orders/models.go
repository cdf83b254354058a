package orders

import "time"

type OrderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type CreateOrderRequest struct {
	ClientID *int64             `json:"client_id,omitempty"`
	Items    []OrderItemRequest `json:"items"`
}

type OrderItemResponse struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type OrderResponse struct {
	ID         int64               `json:"id"`
	ClientID   *int64              `json:"client_id,omitempty"`
	Items      []OrderItemResponse `json:"items"`
	Status     string              `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
	ModifiedAt time.Time           `json:"modified_at"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderStatusEvent is published (through the outbox) whenever an order moves
// to a new status. The kitchen monitor and notification consumers read it.
type OrderStatusEvent struct {
	OrderID   int64     `json:"order_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Timestamp time.Time `json:"timestamp"`
}
