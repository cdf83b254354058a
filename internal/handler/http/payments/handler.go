package payments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"burgerhouse/internal/app/payments"
	"burgerhouse/internal/domain"
)

type PaymentHandler struct {
	service payments.PaymentService
	logger  *zap.Logger
}

func NewPaymentHandler(s payments.PaymentService, l *zap.Logger) *PaymentHandler {
	return &PaymentHandler{service: s, logger: l}
}

func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req payments.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body for CreatePayment", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.service.Insert(r.Context(), req.OrderID)
	if err != nil {
		var notFoundErr *domain.NotFoundError
		var cannotBePaidErr *domain.OrderCannotBePaidError
		switch {
		case errors.As(err, &notFoundErr):
			h.logger.Info("Order not found for payment", zap.Int64("order_id", req.OrderID))
			http.Error(w, "Order not found", http.StatusNotFound)
		case errors.As(err, &cannotBePaidErr):
			h.logger.Warn("Order cannot be paid", zap.Int64("order_id", req.OrderID))
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			h.logger.Error("Error creating payment", zap.Int64("order_id", req.OrderID), zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(res)
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	paymentID, ok := parseID(w, r, "paymentID", h.logger)
	if !ok {
		return
	}

	res, err := h.service.GetPayment(r.Context(), paymentID)
	if err != nil {
		var notFoundErr *domain.PaymentNotFoundError
		if errors.As(err, &notFoundErr) {
			h.logger.Info("Payment not found", zap.Int64("payment_id", paymentID))
			http.Error(w, "Payment not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Error getting payment", zap.Int64("payment_id", paymentID), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (h *PaymentHandler) GetPaymentsByOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseID(w, r, "orderID", h.logger)
	if !ok {
		return
	}

	res, err := h.service.GetPaymentsByOrderID(r.Context(), orderID)
	if err != nil {
		h.logger.Error("Error getting payments for order", zap.Int64("order_id", orderID), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// UpdatePaymentStatus is the webhook path the payment provider calls to
// resolve a payment.
func (h *PaymentHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	paymentID, ok := parseID(w, r, "paymentID", h.logger)
	if !ok {
		return
	}

	var req payments.UpdatePaymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body for UpdatePaymentStatus", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := h.service.UpdateStatus(r.Context(), paymentID, domain.PaymentStatus(req.Status))
	if err != nil {
		var notFoundErr *domain.PaymentNotFoundError
		var invalidErr *domain.InvalidAttributeError
		switch {
		case errors.As(err, &notFoundErr):
			h.logger.Info("Payment not found for status update", zap.Int64("payment_id", paymentID))
			http.Error(w, "Payment not found", http.StatusNotFound)
		case errors.As(err, &invalidErr):
			h.logger.Warn("Illegal payment status transition requested",
				zap.Int64("payment_id", paymentID),
				zap.String("new_status", req.Status))
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			h.logger.Error("Error updating payment status", zap.Int64("payment_id", paymentID), zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseID(w http.ResponseWriter, r *http.Request, param string, l *zap.Logger) (int64, bool) {
	idStr := chi.URLParam(r, param)
	if idStr == "" {
		l.Warn("ID is missing in request", zap.String("param", param))
		http.Error(w, "ID is required", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		l.Warn("Invalid ID in request", zap.String("param", param), zap.String("value", idStr))
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
