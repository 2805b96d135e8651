package routes

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"playfolio/internal/clients/api"
	"playfolio/internal/clients/catalog"
	"playfolio/internal/config"
	"playfolio/internal/session"
	"playfolio/internal/storage/database"
	"playfolio/internal/storage/searchcache"
	"playfolio/internal/web"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupTestRouter(t *testing.T) (*chi.Mux, sqlmock.Sqlmock, *session.Manager) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := session.NewManager(config.Session{Secret: "secret", TTL: time.Hour, CookieName: "sid"})

	cache, err := searchcache.New(t.TempDir())
	require.NoError(t, err)

	pages, err := web.NewPages(
		log,
		api.New("http://127.0.0.1:1", time.Second),
		catalog.New(api.New("http://127.0.0.1:1", time.Second), log),
		sessions,
		cache,
		"/auth/signIn",
	)
	require.NoError(t, err)

	return SetupRouter(log, &database.Storage{DB: gormDB}, sessions, pages, []string{"http://localhost:3000"}), mock, sessions
}

func TestRouter_APIMethodGuard(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/backlog/add", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"message":"Method not allowed"}`, w.Body.String())
}

func TestRouter_BacklogGet(t *testing.T) {
	r, mock, _ := setupTestRouter(t)

	rows := sqlmock.NewRows([]string{"id", "api_id", "title", "backlog", "library", "player_id"}).
		AddRow("g1", 123, "Chrono Trigger", true, false, "u1")
	mock.ExpectQuery("SELECT \\* FROM `games` WHERE player_id = \\? AND backlog = \\?").
		WithArgs("u1", true).
		WillReturnRows(rows)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/backlog/get?playerId=u1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"apiId":123`)
	assert.Contains(t, w.Body.String(), `"backlog":true`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_SessionEndpoint(t *testing.T) {
	r, _, sessions := setupTestRouter(t)

	token, err := sessions.Issue(session.User{ID: "u1", Name: "Ada Lovelace"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"u1"`)
}

func TestRouter_GuardedPage(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/library/u1", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestRouter_HomePage(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome to Playfolio")
}
