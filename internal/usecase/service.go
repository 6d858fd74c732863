package usecase

import (
	"context"

	"course-booking/internal/data/repository"
	"course-booking/pkg/cache"
	"course-booking/pkg/messaging"

	"go.uber.org/zap"
)

// EventPublisher is satisfied by *messaging.Publisher and messaging.NopPublisher.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, ev messaging.OrderPlaced) error
	PublishInventoryDrift(ctx context.Context, ev messaging.InventoryDrift) error
}

type Service struct {
	Lesson LessonService
	Order  OrderService
	Seed   SeedService
}

func NewService(repo *repository.Repository, lessonCache cache.LessonCache, events EventPublisher, log *zap.Logger) *Service {
	engine := NewReservationEngine(repo.Lesson, events, log)

	return &Service{
		Lesson: NewLessonService(repo.Lesson, lessonCache, log),
		Order:  NewOrderService(engine, repo.Order, lessonCache, events, log),
		Seed:   NewSeedService(repo.Lesson, lessonCache, log),
	}
}
