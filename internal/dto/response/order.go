package response

import (
	"time"

	"course-booking/internal/data/entity"
)

type OrderItemResponse struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

type OrderResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Phone     string              `json:"phone"`
	Items     []OrderItemResponse `json:"items"`
	CreatedAt time.Time           `json:"createdAt"`
}

func OrderToResponse(order *entity.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{ID: item.LessonID, Quantity: item.Quantity}
	}
	return OrderResponse{
		ID:        order.ID.String(),
		Name:      order.CustomerName,
		Phone:     order.CustomerPhone,
		Items:     items,
		CreatedAt: order.CreatedAt,
	}
}
