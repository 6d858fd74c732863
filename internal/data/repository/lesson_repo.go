package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"course-booking/internal/data/entity"
	"course-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const lessonColumns = `id, subject, location, price, spaces, image, updated_at`

type LessonRepository interface {
	FindAll(ctx context.Context) ([]*entity.Lesson, error)
	FindByID(ctx context.Context, id int64) (*entity.Lesson, error)
	Search(ctx context.Context, term string, number *float64) ([]*entity.Lesson, error)
	Update(ctx context.Context, id int64, patch entity.LessonPatch) (*entity.Lesson, error)
	ReplaceAll(ctx context.Context, lessons []*entity.Lesson) (int64, error)

	// Inventory primitives used by the reservation engine
	ReserveSpaces(ctx context.Context, id int64, quantity int) (*entity.Lesson, error)
	ReleaseSpaces(ctx context.Context, id int64, quantity int) error
}

type lessonRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewLessonRepository(db database.PgxIface, log *zap.Logger) LessonRepository {
	return &lessonRepository{
		db:  db,
		log: log.With(zap.String("repository", "lesson")),
	}
}

func (r *lessonRepository) FindAll(ctx context.Context) ([]*entity.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM courses ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find all lessons", zap.Error(err))
		return nil, fmt.Errorf("find lessons: %w", err)
	}

	return r.scanLessons(rows)
}

func (r *lessonRepository) FindByID(ctx context.Context, id int64) (*entity.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM courses WHERE id = $1`

	lesson, err := scanLesson(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find lesson by ID",
			zap.Error(err),
			zap.Int64("lesson_id", id),
		)
		return nil, fmt.Errorf("find lesson %d: %w", id, err)
	}

	return lesson, nil
}

// Search matches term case-insensitively inside subject or location. When
// number is set, rows whose price or spaces equal it exactly also match.
func (r *lessonRepository) Search(ctx context.Context, term string, number *float64) ([]*entity.Lesson, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + lessonColumns + ` FROM courses WHERE (subject ILIKE $1 OR location ILIKE $1`)

	args := []interface{}{"%" + escapeLike(term) + "%"}
	if number != nil {
		queryBuilder.WriteString(` OR price = $2::double precision OR spaces = $2::double precision`)
		args = append(args, *number)
	}
	queryBuilder.WriteString(`) ORDER BY id`)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to search lessons",
			zap.Error(err),
			zap.String("term", term),
		)
		return nil, fmt.Errorf("search lessons: %w", err)
	}

	return r.scanLessons(rows)
}

// Update applies patch and returns the row after the update, or nil if no
// lesson has this id.
func (r *lessonRepository) Update(ctx context.Context, id int64, patch entity.LessonPatch) (*entity.Lesson, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("update lesson %d: empty patch", id)
	}

	sets := []string{}
	args := []interface{}{id}
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Subject != nil {
		add("subject", *patch.Subject)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.Spaces != nil {
		add("spaces", *patch.Spaces)
	}
	if patch.Image != nil {
		add("image", *patch.Image)
	}

	query := fmt.Sprintf(`UPDATE courses SET %s, updated_at = NOW() WHERE id = $1 RETURNING %s`,
		strings.Join(sets, ", "), lessonColumns)

	lesson, err := scanLesson(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to update lesson",
			zap.Error(err),
			zap.Int64("lesson_id", id),
		)
		return nil, fmt.Errorf("update lesson %d: %w", id, err)
	}

	return lesson, nil
}

// ReserveSpaces decrements spaces by quantity in one statement, guarded by
// spaces >= quantity. It returns nil when the lesson does not exist or the
// guard fails; the two cases are not distinguished.
func (r *lessonRepository) ReserveSpaces(ctx context.Context, id int64, quantity int) (*entity.Lesson, error) {
	query := `
		UPDATE courses
		SET spaces = spaces - $2, updated_at = NOW()
		WHERE id = $1 AND spaces >= $2
		RETURNING ` + lessonColumns

	lesson, err := scanLesson(r.db.QueryRow(ctx, query, id, quantity))
	if errors.Is(err, pgx.ErrNoRows) {
		r.log.Debug("Reserve guard rejected",
			zap.Int64("lesson_id", id),
			zap.Int("quantity", quantity),
		)
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to reserve spaces",
			zap.Error(err),
			zap.Int64("lesson_id", id),
			zap.Int("quantity", quantity),
		)
		return nil, fmt.Errorf("reserve %d spaces on lesson %d: %w", quantity, id, err)
	}

	return lesson, nil
}

// ReleaseSpaces increments spaces unconditionally.
func (r *lessonRepository) ReleaseSpaces(ctx context.Context, id int64, quantity int) error {
	query := `UPDATE courses SET spaces = spaces + $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, quantity)
	if err != nil {
		r.log.Error("Failed to release spaces",
			zap.Error(err),
			zap.Int64("lesson_id", id),
			zap.Int("quantity", quantity),
		)
		return fmt.Errorf("release %d spaces on lesson %d: %w", quantity, id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("release spaces: lesson %d not found", id)
	}

	return nil
}

// ReplaceAll deletes every lesson and inserts lessons in one transaction,
// returning the resulting row count.
func (r *lessonRepository) ReplaceAll(ctx context.Context, lessons []*entity.Lesson) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin replace lessons: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM courses`); err != nil {
		r.log.Error("Failed to clear lessons", zap.Error(err))
		return 0, fmt.Errorf("clear lessons: %w", err)
	}

	if len(lessons) > 0 {
		// Build batch insert
		query := `INSERT INTO courses (id, subject, location, price, spaces, image) VALUES `
		args := []interface{}{}

		for i, lesson := range lessons {
			if i > 0 {
				query += ", "
			}
			query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
				i*6+1, i*6+2, i*6+3, i*6+4, i*6+5, i*6+6)

			args = append(args,
				lesson.ID,
				lesson.Subject,
				lesson.Location,
				lesson.Price,
				lesson.Spaces,
				lesson.Image,
			)
		}

		if _, err := tx.Exec(ctx, query, args...); err != nil {
			r.log.Error("Failed to insert lessons",
				zap.Error(err),
				zap.Int("count", len(lessons)),
			)
			return 0, fmt.Errorf("insert lessons: %w", err)
		}
	}

	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count lessons: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit replace lessons: %w", err)
	}

	r.log.Info("Lessons replaced", zap.Int64("count", count))
	return count, nil
}

// ==================== HELPERS ====================

func (r *lessonRepository) scanLessons(rows pgx.Rows) ([]*entity.Lesson, error) {
	defer rows.Close()

	lessons := []*entity.Lesson{}
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			r.log.Error("Failed to scan lesson row", zap.Error(err))
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate lessons: %w", err)
	}

	return lessons, nil
}

func scanLesson(row pgx.Row) (*entity.Lesson, error) {
	var lesson entity.Lesson
	err := row.Scan(
		&lesson.ID,
		&lesson.Subject,
		&lesson.Location,
		&lesson.Price,
		&lesson.Spaces,
		&lesson.Image,
		&lesson.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// escapeLike makes term literal inside an ILIKE pattern.
func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}
