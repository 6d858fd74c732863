package usecase

import (
	"context"
	"fmt"

	"course-booking/internal/data/entity"
	"course-booking/pkg/messaging"

	"go.uber.org/zap"
)

// InventoryStore is the only view of the courses collection the engine gets:
// a guarded atomic decrement and an unconditional increment. ReserveSpaces
// returns nil when the lesson is missing or has fewer than quantity spaces.
type InventoryStore interface {
	ReserveSpaces(ctx context.Context, lessonID int64, quantity int) (*entity.Lesson, error)
	ReleaseSpaces(ctx context.Context, lessonID int64, quantity int) error
}

// Reservation is one applied decrement.
type Reservation struct {
	LessonID int64
	Quantity int
}

// ReservationLedger lists the reservations applied during one order attempt,
// in the order they were applied.
type ReservationLedger []Reservation

// ReservationEngine reserves order items one by one. Either every item is
// reserved, or every item reserved so far has been released again (best
// effort) and an error is returned.
type ReservationEngine interface {
	Reserve(ctx context.Context, items []entity.OrderItem) (ReservationLedger, error)
}

type reservationEngine struct {
	store  InventoryStore
	events EventPublisher
	log    *zap.Logger
}

func NewReservationEngine(store InventoryStore, events EventPublisher, log *zap.Logger) ReservationEngine {
	return &reservationEngine{
		store:  store,
		events: events,
		log:    log.With(zap.String("service", "reservation")),
	}
}

func (e *reservationEngine) Reserve(ctx context.Context, items []entity.OrderItem) (ReservationLedger, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order has no items", ErrInvalidItems)
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity %d for lesson %d", ErrInvalidItems, item.Quantity, item.LessonID)
		}
	}

	ledger := make(ReservationLedger, 0, len(items))
	for _, item := range items {
		lesson, err := e.store.ReserveSpaces(ctx, item.LessonID, item.Quantity)
		if err != nil {
			e.log.Error("Reservation failed, compensating",
				zap.Error(err),
				zap.Int64("lesson_id", item.LessonID),
				zap.Int("reserved_items", len(ledger)),
			)
			e.compensate(ctx, ledger)
			return nil, storeError(fmt.Sprintf("reserve lesson %d", item.LessonID), err)
		}

		if lesson == nil {
			e.log.Info("Not enough spaces, compensating",
				zap.Int64("lesson_id", item.LessonID),
				zap.Int("quantity", item.Quantity),
				zap.Int("reserved_items", len(ledger)),
			)
			e.compensate(ctx, ledger)
			return nil, &InsufficientSpacesError{LessonID: item.LessonID}
		}

		ledger = append(ledger, Reservation{LessonID: item.LessonID, Quantity: item.Quantity})
		e.log.Debug("Spaces reserved",
			zap.Int64("lesson_id", item.LessonID),
			zap.Int("quantity", item.Quantity),
			zap.Int("spaces_left", lesson.Spaces),
		)
	}

	return ledger, nil
}

// compensate releases every reservation in ledger order. A failed release is
// logged and reported as drift, and the loop carries on with the next one.
// It ignores cancellation of ctx: the decrements are already durable.
func (e *reservationEngine) compensate(ctx context.Context, ledger ReservationLedger) {
	ctx = context.WithoutCancel(ctx)

	failed := 0
	for _, r := range ledger {
		err := e.store.ReleaseSpaces(ctx, r.LessonID, r.Quantity)
		if err == nil {
			continue
		}

		failed++
		e.log.Error("Compensation failed, inventory drift",
			zap.Error(err),
			zap.Int64("lesson_id", r.LessonID),
			zap.Int("quantity", r.Quantity),
		)

		drift := messaging.InventoryDrift{
			LessonID: r.LessonID,
			Quantity: r.Quantity,
			Reason:   err.Error(),
		}
		if pubErr := e.events.PublishInventoryDrift(ctx, drift); pubErr != nil {
			e.log.Warn("Failed to publish inventory drift",
				zap.Error(pubErr),
				zap.Int64("lesson_id", r.LessonID),
			)
		}
	}

	if len(ledger) > 0 {
		e.log.Info("Compensation finished",
			zap.Int("released", len(ledger)-failed),
			zap.Int("failed", failed),
		)
	}
}
