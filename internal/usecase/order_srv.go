package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"course-booking/internal/data/entity"
	"course-booking/internal/data/repository"
	"course-booking/internal/dto/request"
	"course-booking/internal/dto/response"
	"course-booking/pkg/cache"
	"course-booking/pkg/messaging"
	"course-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, req *request.CreateOrderRequest) (uuid.UUID, error)
	ListOrders(ctx context.Context) ([]response.OrderResponse, error)
}

type orderService struct {
	engine ReservationEngine
	orders repository.OrderRepository
	cache  cache.LessonCache
	events EventPublisher
	log    *zap.Logger
	now    func() time.Time
}

func NewOrderService(engine ReservationEngine, orders repository.OrderRepository, lessonCache cache.LessonCache, events EventPublisher, log *zap.Logger) OrderService {
	return &orderService{
		engine: engine,
		orders: orders,
		cache:  lessonCache,
		events: events,
		log:    log.With(zap.String("service", "order")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *orderService) PlaceOrder(ctx context.Context, req *request.CreateOrderRequest) (uuid.UUID, error) {
	if req == nil {
		return uuid.Nil, &ValidationError{Kind: ErrInvalidItems}
	}

	// trim dulu, baru validasi
	normalized := *req
	normalized.Name = strings.TrimSpace(req.Name)
	normalized.Phone = strings.TrimSpace(req.Phone)

	if errs := utils.ValidateStruct(&normalized); len(errs) > 0 {
		s.log.Warn("Place order validation failed", zap.Any("errors", errs))
		return uuid.Nil, &ValidationError{Kind: orderValidationKind(errs), Fields: errs}
	}

	items := make([]entity.OrderItem, len(normalized.Items))
	for i, item := range normalized.Items {
		items[i] = entity.OrderItem{
			LessonID: int64(item.ID),
			Quantity: int(item.Quantity),
		}
	}

	ledger, err := s.engine.Reserve(ctx, items)
	if err != nil {
		s.log.Warn("Reservation rejected", zap.Error(err))
		// reader bisa saja cache angka sebelum kompensasi
		if !errors.Is(err, ErrValidation) {
			s.invalidateCache(ctx)
		}
		return uuid.Nil, err
	}

	// spaces sudah berubah, apapun hasil insert di bawah
	s.invalidateCache(ctx)

	order := &entity.Order{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: s.now(),
		},
		CustomerName:  normalized.Name,
		CustomerPhone: normalized.Phone,
		Items:         items,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		// No rollback here: the spaces stay reserved without an order row.
		s.log.Error("Failed to persist order after reservation",
			zap.Error(err),
			zap.String("order_id", order.ID.String()),
			zap.Any("ledger", ledger),
		)
		return uuid.Nil, storeError("create order", err)
	}

	s.publishOrderPlaced(ctx, order)

	s.log.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.Int("items", len(order.Items)),
	)
	return order.ID, nil
}

func (s *orderService) ListOrders(ctx context.Context) ([]response.OrderResponse, error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, storeError("list orders", err)
	}

	resp := make([]response.OrderResponse, len(orders))
	for i, order := range orders {
		resp[i] = response.OrderToResponse(order)
	}
	return resp, nil
}

func (s *orderService) invalidateCache(ctx context.Context) {
	if err := s.cache.Invalidate(context.WithoutCancel(ctx)); err != nil {
		s.log.Warn("Failed to invalidate lesson cache", zap.Error(err))
	}
}

func (s *orderService) publishOrderPlaced(ctx context.Context, order *entity.Order) {
	items := make([]messaging.EventItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = messaging.EventItem{LessonID: item.LessonID, Quantity: item.Quantity}
	}

	ev := messaging.OrderPlaced{
		OrderID:    order.ID.String(),
		Items:      items,
		OccurredAt: order.CreatedAt,
	}
	if err := s.events.PublishOrderPlaced(context.WithoutCancel(ctx), ev); err != nil {
		s.log.Warn("Failed to publish order placed event",
			zap.Error(err),
			zap.String("order_id", order.ID.String()),
		)
	}
}

// orderValidationKind picks the error kind reported to the client; name is
// checked before phone, phone before items.
func orderValidationKind(errs map[string]string) error {
	if _, ok := errs["Name"]; ok {
		return ErrInvalidName
	}
	if _, ok := errs["Phone"]; ok {
		return ErrInvalidPhone
	}
	return ErrInvalidItems
}
