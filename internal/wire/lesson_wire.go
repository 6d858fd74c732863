package wire

import (
	"course-booking/internal/adaptor"
	"course-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
)

func wireLesson(r chi.Router, lessonHandler *adaptor.LessonHandler, config *utils.Config) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/lessons", lessonHandler.GetLessons)
	r.Get("/api/search", lessonHandler.SearchLessons)
	r.Put("/api/lessons/{id}", lessonHandler.UpdateLesson)

	// ==================== DEV ROUTES ====================
	// replaces the whole catalog, never exposed outside DEBUG
	if config.App.Debug {
		r.Post("/api/courses/seed", lessonHandler.SeedLessons)
	}
}
