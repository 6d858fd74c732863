package usecase

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"course-booking/internal/data/entity"
	"course-booking/internal/data/repository"
	"course-booking/internal/dto/request"
	"course-booking/internal/dto/response"
	"course-booking/pkg/cache"
	"course-booking/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type LessonService interface {
	GetLessons(ctx context.Context) ([]response.LessonResponse, error)
	SearchLessons(ctx context.Context, q string) ([]response.LessonResponse, error)
	UpdateLesson(ctx context.Context, lessonID string, req *request.LessonUpdateRequest) (*response.LessonResponse, error)
}

type lessonService struct {
	repo  repository.LessonRepository
	cache cache.LessonCache
	group singleflight.Group
	log   *zap.Logger
}

func NewLessonService(repo repository.LessonRepository, lessonCache cache.LessonCache, log *zap.Logger) LessonService {
	return &lessonService{
		repo:  repo,
		cache: lessonCache,
		log:   log.With(zap.String("service", "lesson")),
	}
}

func (s *lessonService) GetLessons(ctx context.Context) ([]response.LessonResponse, error) {
	lessons, hit, err := s.cache.GetLessons(ctx)
	if err != nil {
		// cache rusak bukan alasan untuk gagal
		s.log.Warn("Lesson cache read failed", zap.Error(err))
	}
	if hit {
		return response.LessonsToResponse(lessons), nil
	}

	// flight dipakai bersama, jangan ikut batal kalau pemanggil pertama putus
	loadCtx := context.WithoutCancel(ctx)
	v, err, shared := s.group.Do(cache.LessonsKey, func() (interface{}, error) {
		lessons, err := s.repo.FindAll(loadCtx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetLessons(loadCtx, lessons); err != nil {
			s.log.Warn("Lesson cache write failed", zap.Error(err))
		}
		return lessons, nil
	})
	if err != nil {
		return nil, storeError("get lessons", err)
	}

	s.log.Debug("Lessons loaded from store", zap.Bool("shared", shared))
	return response.LessonsToResponse(v.([]*entity.Lesson)), nil
}

func (s *lessonService) SearchLessons(ctx context.Context, q string) ([]response.LessonResponse, error) {
	term := strings.TrimSpace(q)
	if term == "" || !utf8.ValidString(term) {
		return []response.LessonResponse{}, nil
	}

	var number *float64
	if f, err := strconv.ParseFloat(term, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		number = &f
	}

	lessons, err := s.repo.Search(ctx, term, number)
	if err != nil {
		return nil, storeError("search lessons", err)
	}
	return response.LessonsToResponse(lessons), nil
}

func (s *lessonService) UpdateLesson(ctx context.Context, lessonID string, req *request.LessonUpdateRequest) (*response.LessonResponse, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(lessonID), 10, 64)
	if err != nil || id <= 0 {
		return nil, &ValidationError{Kind: ErrInvalidLessonID}
	}

	if req == nil {
		return nil, &ValidationError{Kind: ErrNoUpdates}
	}
	if req.ID != nil && *req.ID != id {
		return nil, &ValidationError{
			Kind:   ErrInvalidField,
			Fields: map[string]string{"ID": fmt.Sprintf("Must match lesson id %d", id)},
		}
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update lesson validation failed",
			zap.Int64("lesson_id", id),
			zap.Any("errors", errs),
		)
		return nil, &ValidationError{Kind: ErrInvalidField, Fields: errs}
	}

	patch := entity.LessonPatch{
		Subject:  req.Subject,
		Location: req.Location,
		Price:    req.Price,
		Spaces:   req.Spaces,
		Image:    req.Image,
	}
	if patch.IsEmpty() {
		return nil, &ValidationError{Kind: ErrNoUpdates}
	}

	lesson, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, storeError("update lesson", err)
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	if err := s.cache.Invalidate(context.WithoutCancel(ctx)); err != nil {
		s.log.Warn("Failed to invalidate lesson cache", zap.Error(err))
	}

	s.log.Info("Lesson updated", zap.Int64("lesson_id", id))
	resp := response.LessonToResponse(lesson)
	return &resp, nil
}
