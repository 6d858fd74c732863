package wire

import (
	"course-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireOrder(r chi.Router, orderHandler *adaptor.OrderHandler) {
	r.Post("/api/orders", orderHandler.PlaceOrder)
	r.Get("/api/orders", orderHandler.GetOrders)
}

func wireSystem(r chi.Router, systemHandler *adaptor.SystemHandler) {
	r.Get("/health", systemHandler.Health)
	r.Get("/images/{name}", systemHandler.ServeImage)
}
