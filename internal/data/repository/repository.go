package repository

import (
	"course-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Lesson LessonRepository
	Order  OrderRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Lesson: NewLessonRepository(db, log),
		Order:  NewOrderRepository(db, log),
	}
}
