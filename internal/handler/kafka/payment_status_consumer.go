package kafka

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"burgerhouse/internal/app/payments"
	"burgerhouse/internal/domain"
)

// PaymentStatusConsumer applies payment provider resolutions arriving on the
// provider's status topic.
type PaymentStatusConsumer struct {
	paymentService payments.PaymentService
	logger         *zap.Logger
}

func NewPaymentStatusConsumer(s payments.PaymentService, l *zap.Logger) *PaymentStatusConsumer {
	return &PaymentStatusConsumer{paymentService: s, logger: l}
}

func (c *PaymentStatusConsumer) HandleMessage(ctx context.Context, message []byte) error {
	var event payments.PaymentStatusEvent
	if err := json.Unmarshal(message, &event); err != nil {
		c.logger.Error("Error unmarshalling Kafka message", zap.Error(err), zap.String("raw_message", string(message)))
		return nil
	}

	c.logger.Info("Received payment status update",
		zap.Int64("payment_id", event.PaymentID),
		zap.String("status", event.Status))

	err := c.paymentService.UpdateStatus(ctx, event.PaymentID, domain.PaymentStatus(event.Status))
	if err != nil {
		var notFoundErr *domain.PaymentNotFoundError
		var invalidErr *domain.InvalidAttributeError
		if errors.As(err, &notFoundErr) || errors.As(err, &invalidErr) {
			// Business rejections are final; retrying the message cannot
			// make them valid.
			c.logger.Warn("Dropping unprocessable payment status update",
				zap.Int64("payment_id", event.PaymentID),
				zap.String("status", event.Status),
				zap.Error(err))
			return nil
		}
		c.logger.Error("Error processing payment status update",
			zap.Int64("payment_id", event.PaymentID),
			zap.Error(err))
		return err
	}
	return nil
}
