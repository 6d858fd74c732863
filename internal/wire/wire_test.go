package wire

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"course-booking/internal/data/repository"
	"course-booking/pkg/cache"
	"course-booking/pkg/messaging"
	"course-booking/pkg/utils"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var lessonCols = []string{"id", "subject", "location", "price", "spaces", "image", "updated_at"}

func newTestApp(t *testing.T, debug bool) (*App, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	config := &utils.Config{App: utils.AppConfig{
		Env:         "test",
		Debug:       debug,
		ImagesDir:   t.TempDir(),
		CORSOrigins: []string{"*"},
	}}
	repo := repository.NewRepository(mock, zap.NewNop())
	app := Wiring(repo, cache.NewNopLessonCache(), messaging.NopPublisher{}, config, zap.NewNop())
	return app, mock
}

func TestRouter_GetLessons(t *testing.T) {
	app, mock := newTestApp(t, false)
	now := time.Now()

	mock.ExpectQuery(`FROM courses ORDER BY id`).
		WillReturnRows(pgxmock.NewRows(lessonCols).AddRow(int64(1), "Math", "Hendon", 100.0, 5, "math.png", now))

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/lessons", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"subject":"Math","location":"Hendon","price":100,"spaces":5,"image":"math.png"}]`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_PlaceOrder(t *testing.T) {
	app, mock := newTestApp(t, false)
	now := time.Now()

	mock.ExpectQuery(`UPDATE courses\s+SET spaces = spaces - \$2`).
		WithArgs(int64(5), 2).
		WillReturnRows(pgxmock.NewRows(lessonCols).AddRow(int64(5), "Math", "Hendon", 100.0, 1, "", now))
	mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(pgxmock.AnyArg(), "Ada Lovelace", "07123456", []byte(`[{"id":5,"quantity":2}]`), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	body := `{"name":"Ada Lovelace","phone":"07123456","items":[{"id":5,"quantity":2}]}`
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["ok"])
	assert.NotEmpty(t, resp["orderId"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_PlaceOrderNotEnoughSpaces(t *testing.T) {
	app, mock := newTestApp(t, false)

	mock.ExpectQuery(`UPDATE courses\s+SET spaces = spaces - \$2`).
		WithArgs(int64(5), 2).
		WillReturnRows(pgxmock.NewRows(lessonCols))

	body := `{"name":"Ada Lovelace","phone":"07123456","items":[{"id":5,"quantity":2}]}`
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Not enough spaces for lesson id 5"}`, rec.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_SeedRouteOnlyInDebug(t *testing.T) {
	body := `[{"id":1,"subject":"Math","location":"Hendon","price":100,"spaces":5}]`

	app, _ := newTestApp(t, false)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/courses/seed", strings.NewReader(body)))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	app, mock := newTestApp(t, true)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM courses`).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`INSERT INTO courses`).
		WithArgs(int64(1), "Math", "Hendon", 100.0, 5, "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM courses`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectCommit()

	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/courses/seed", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"count":1}`, rec.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_Health(t *testing.T) {
	app, _ := newTestApp(t, false)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"env":"test"}`, rec.Body.String())
}
