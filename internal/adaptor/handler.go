package adaptor

import (
	"course-booking/internal/usecase"
	"course-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Lesson *LessonHandler
	Order  *OrderHandler
	System *SystemHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Lesson: NewLessonHandler(service.Lesson, service.Seed, log),
		Order:  NewOrderHandler(service.Order, log),
		System: NewSystemHandler(config.App.Env, config.App.ImagesDir, log),
	}
}
