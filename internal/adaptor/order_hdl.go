package adaptor

import (
	"encoding/json"
	"net/http"

	"course-booking/internal/dto/request"
	"course-booking/internal/usecase"
	"course-booking/pkg/utils"

	"go.uber.org/zap"
)

type OrderHandler struct {
	service usecase.OrderService
	log     *zap.Logger
}

func NewOrderHandler(service usecase.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		log:     log.With(zap.String("handler", "order")),
	}
}

// PlaceOrder handles POST /api/orders
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req request.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("Invalid order payload", zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid order payload", nil)
		return
	}

	orderID, err := h.service.PlaceOrder(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "place order")
		return
	}

	utils.ResponseOK(w, utils.OKResponse{OrderID: orderID.String()})
}

// GetOrders handles GET /api/orders
func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list orders")
		return
	}

	utils.ResponseSuccess(w, orders)
}
