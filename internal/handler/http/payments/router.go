package payments

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"burgerhouse/internal/app/payments"
)

func RegisterRoutes(r chi.Router, s payments.PaymentService, l *zap.Logger) {
	handler := NewPaymentHandler(s, l.With(zap.String("component", "PaymentHTTPHandler")))

	r.Route("/payments", func(r chi.Router) {
		r.Post("/", handler.CreatePayment)
		r.Get("/{paymentID}", handler.GetPayment)
		r.Get("/order/{orderID}", handler.GetPaymentsByOrder)
		r.Patch("/{paymentID}/status", handler.UpdatePaymentStatus)
	})
}
