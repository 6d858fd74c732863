package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"course-booking/internal/dto/request"
	"course-booking/internal/usecase"
	"course-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type LessonHandler struct {
	service usecase.LessonService
	seed    usecase.SeedService
	log     *zap.Logger
}

func NewLessonHandler(service usecase.LessonService, seed usecase.SeedService, log *zap.Logger) *LessonHandler {
	return &LessonHandler{
		service: service,
		seed:    seed,
		log:     log.With(zap.String("handler", "lesson")),
	}
}

// GetLessons handles GET /api/lessons
func (h *LessonHandler) GetLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.service.GetLessons(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get lessons")
		return
	}

	utils.ResponseSuccess(w, lessons)
}

// SearchLessons handles GET /api/search?q=
func (h *LessonHandler) SearchLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.service.SearchLessons(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleServiceError(w, h.log, err, "search lessons")
		return
	}

	utils.ResponseSuccess(w, lessons)
}

// UpdateLesson handles PUT /api/lessons/{id}
func (h *LessonHandler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	lessonID := chi.URLParam(r, "id")

	var req request.LessonUpdateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		// body kosong = tidak ada update
		if errors.Is(err, io.EOF) {
			handleServiceError(w, h.log, &usecase.ValidationError{Kind: usecase.ErrNoUpdates}, "update lesson")
			return
		}
		handleServiceError(w, h.log, &usecase.ValidationError{
			Kind:   usecase.ErrInvalidField,
			Fields: map[string]string{"body": err.Error()},
		}, "update lesson")
		return
	}

	lesson, err := h.service.UpdateLesson(r.Context(), lessonID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update lesson")
		return
	}

	utils.ResponseOK(w, utils.OKResponse{Lesson: lesson})
}

// SeedLessons handles POST /api/courses/seed (debug only)
func (h *LessonHandler) SeedLessons(w http.ResponseWriter, r *http.Request) {
	var lessons []request.LessonSeed
	if err := json.NewDecoder(r.Body).Decode(&lessons); err != nil {
		h.log.Warn("Seed body is not a lesson array", zap.Error(err))
		lessons = nil
	}

	count, err := h.seed.SeedLessons(r.Context(), lessons)
	if err != nil {
		handleServiceError(w, h.log, err, "seed lessons")
		return
	}

	n := int(count)
	utils.ResponseOK(w, utils.OKResponse{Count: &n})
}
