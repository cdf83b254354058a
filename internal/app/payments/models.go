package payments

import "time"

type CreatePaymentRequest struct {
	OrderID int64 `json:"order_id"`
}

type PaymentResponse struct {
	ID         int64     `json:"id"`
	OrderID    int64     `json:"order_id"`
	Status     string    `json:"status"`
	QRCode     string    `json:"qr_code,omitempty"`
	ExternalID string    `json:"external_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

type UpdatePaymentStatusRequest struct {
	Status string `json:"status"`
}

// PaymentStatusEvent is the provider-side resolution notification consumed
// from Kafka. ExternalID echoes the provider's own payment reference.
type PaymentStatusEvent struct {
	PaymentID  int64  `json:"payment_id"`
	Status     string `json:"status"`
	ExternalID string `json:"external_id,omitempty"`
}
