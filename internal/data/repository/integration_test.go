//go:build integration

package repository_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"course-booking/internal/data/entity"
	"course-booking/internal/data/repository"
	"course-booking/internal/usecase"
	"course-booking/pkg/database"
	"course-booking/pkg/messaging"
	"course-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func startPostgres(ctx context.Context, t *testing.T) utils.DatabaseConfig {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16",
		Env:          map[string]string{"POSTGRES_PASSWORD": "postgres", "POSTGRES_USER": "postgres", "POSTGRES_DB": "course_app"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return utils.DatabaseConfig{
		Host:     host,
		Port:     mappedPort.Port(),
		Name:     "course_app",
		User:     "postgres",
		Password: "postgres",
		SSLMode:  "disable",
		MaxConns: 20,
	}
}

func TestInventoryAgainstPostgres(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log := zap.NewNop()
	config := startPostgres(ctx, t)
	require.NoError(t, database.RunMigrations(database.DSN(config), log))

	db, err := database.InitDB(ctx, config)
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewRepository(db, log)
	count, err := repo.Lesson.ReplaceAll(ctx, []*entity.Lesson{
		{ID: 5, Subject: "Math", Location: "Hendon", Price: 100, Spaces: 3},
		{ID: 6, Subject: "Art", Location: "Barnet", Price: 90, Spaces: 1},
		{ID: 7, Subject: "Music", Location: "Colindale", Price: 80, Spaces: 10},
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	engine := usecase.NewReservationEngine(repo.Lesson, messaging.NopPublisher{}, log)

	t.Run("example run", func(t *testing.T) {
		items := []entity.OrderItem{{LessonID: 5, Quantity: 2}}

		_, err := engine.Reserve(ctx, items)
		require.NoError(t, err)

		_, err = engine.Reserve(ctx, items)
		require.Error(t, err)
		assert.Equal(t, "Not enough spaces for lesson id 5", err.Error())

		lesson, err := repo.Lesson.FindByID(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, 1, lesson.Spaces)
	})

	t.Run("failed order restores earlier items", func(t *testing.T) {
		_, err := engine.Reserve(ctx, []entity.OrderItem{
			{LessonID: 7, Quantity: 4},
			{LessonID: 6, Quantity: 2},
		})
		require.True(t, errors.Is(err, usecase.ErrInsufficientSpaces))

		lesson, err := repo.Lesson.FindByID(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, 10, lesson.Spaces)
	})

	t.Run("last space is sold once", func(t *testing.T) {
		var (
			wg        sync.WaitGroup
			succeeded atomic.Int32
		)
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := engine.Reserve(ctx, []entity.OrderItem{{LessonID: 6, Quantity: 1}}); err == nil {
					succeeded.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), succeeded.Load())
		lesson, err := repo.Lesson.FindByID(ctx, 6)
		require.NoError(t, err)
		assert.Equal(t, 0, lesson.Spaces)
	})

	t.Run("search", func(t *testing.T) {
		n := 90.0
		lessons, err := repo.Lesson.Search(ctx, "90", &n)
		require.NoError(t, err)
		require.Len(t, lessons, 1)
		assert.Equal(t, int64(6), lessons[0].ID)

		lessons, err = repo.Lesson.Search(ctx, "HEN", nil)
		require.NoError(t, err)
		require.Len(t, lessons, 1)
		assert.Equal(t, "Hendon", lessons[0].Location)
	})
}
