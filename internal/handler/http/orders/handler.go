package orders

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"burgerhouse/internal/app/orders"
	"burgerhouse/internal/domain"
)

type OrderHandler struct {
	service orders.OrderService
	logger  *zap.Logger
}

func NewOrderHandler(s orders.OrderService, l *zap.Logger) *OrderHandler {
	return &OrderHandler{service: s, logger: l}
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orders.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body for CreateOrder", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.service.CreateOrder(r.Context(), &req)
	if err != nil {
		var invalidErr *domain.InvalidAttributeError
		if errors.As(err, &invalidErr) {
			h.logger.Warn("Bad request for CreateOrder", zap.Error(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("Error creating order", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(res)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r, h.logger)
	if !ok {
		return
	}

	res, err := h.service.GetOrder(r.Context(), orderID)
	if err != nil {
		var notFoundErr *domain.NotFoundError
		if errors.As(err, &notFoundErr) {
			h.logger.Info("Order not found", zap.Int64("order_id", orderID))
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Error getting order", zap.Int64("order_id", orderID), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (h *OrderHandler) GetInProgressOrders(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.GetInProgressOrders(r.Context())
	if err != nil {
		h.logger.Error("Error getting in-progress orders", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r, h.logger)
	if !ok {
		return
	}

	var req orders.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body for UpdateOrderStatus", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := h.service.UpdateStatus(r.Context(), orderID, domain.OrderStatus(req.Status))
	if err != nil {
		var notFoundErr *domain.NotFoundError
		var invalidErr *domain.InvalidAttributeError
		switch {
		case errors.As(err, &notFoundErr):
			h.logger.Info("Order not found for status update", zap.Int64("order_id", orderID))
			http.Error(w, "Order not found", http.StatusNotFound)
		case errors.As(err, &invalidErr):
			h.logger.Warn("Illegal order status transition requested",
				zap.Int64("order_id", orderID),
				zap.String("new_status", req.Status))
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			h.logger.Error("Error updating order status", zap.Int64("order_id", orderID), zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseOrderID(w http.ResponseWriter, r *http.Request, l *zap.Logger) (int64, bool) {
	idStr := chi.URLParam(r, "orderID")
	if idStr == "" {
		l.Warn("Order ID is missing in request")
		http.Error(w, "Order ID is required", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		l.Warn("Invalid order ID in request", zap.String("order_id", idStr))
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
