package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"course-booking/internal/data/entity"
	"course-booking/internal/data/repository"
	"course-booking/internal/dto/request"
	"course-booking/pkg/cache"
	"course-booking/pkg/utils"

	"go.uber.org/zap"
)

// SeedService replaces the whole lesson catalog.
type SeedService interface {
	SeedFromFile(ctx context.Context, path string) (int64, error)
	SeedLessons(ctx context.Context, lessons []request.LessonSeed) (int64, error)
}

type seedService struct {
	repo  repository.LessonRepository
	cache cache.LessonCache
	log   *zap.Logger
}

func NewSeedService(repo repository.LessonRepository, lessonCache cache.LessonCache, log *zap.Logger) SeedService {
	return &seedService{
		repo:  repo,
		cache: lessonCache,
		log:   log.With(zap.String("service", "seed")),
	}
}

// SeedFromFile reads a document shaped like {"Courses": [...]}.
func (s *seedService) SeedFromFile(ctx context.Context, path string) (int64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file %s: %w", path, err)
	}

	var doc request.SeedDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return 0, &ValidationError{
			Kind:   ErrInvalidField,
			Fields: map[string]string{"Courses": fmt.Sprintf("Malformed JSON: %v", err)},
		}
	}

	s.log.Info("Seeding lessons from file",
		zap.String("path", path),
		zap.Int("count", len(doc.Courses)),
	)
	return s.SeedLessons(ctx, doc.Courses)
}

func (s *seedService) SeedLessons(ctx context.Context, lessons []request.LessonSeed) (int64, error) {
	if len(lessons) == 0 {
		return 0, &ValidationError{Kind: ErrNoSeedData}
	}

	doc := request.SeedDocument{Courses: lessons}
	if errs := utils.ValidateStruct(&doc); len(errs) > 0 {
		s.log.Warn("Seed validation failed", zap.Any("errors", errs))
		return 0, &ValidationError{Kind: ErrInvalidField, Fields: errs}
	}

	seen := make(map[int64]int, len(lessons))
	entities := make([]*entity.Lesson, len(lessons))
	for i, l := range lessons {
		if first, dup := seen[l.ID]; dup {
			return 0, &ValidationError{
				Kind: ErrInvalidField,
				Fields: map[string]string{
					fmt.Sprintf("Courses[%d].ID", i): fmt.Sprintf("Duplicate of Courses[%d].ID", first),
				},
			}
		}
		seen[l.ID] = i

		entities[i] = &entity.Lesson{
			ID:       l.ID,
			Subject:  l.Subject,
			Location: l.Location,
			Price:    l.Price,
			Spaces:   l.Spaces,
			Image:    l.Image,
		}
	}

	count, err := s.repo.ReplaceAll(ctx, entities)
	if err != nil {
		return 0, storeError("seed lessons", err)
	}

	if err := s.cache.Invalidate(context.WithoutCancel(ctx)); err != nil {
		s.log.Warn("Failed to invalidate lesson cache", zap.Error(err))
	}

	s.log.Info("Lessons seeded", zap.Int64("count", count))
	return count, nil
}
