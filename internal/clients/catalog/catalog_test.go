package catalog

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"playfolio/internal/clients/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(
		api.New(srv.URL, time.Second, api.WithQueryParam("key", "k1")),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestClient_SearchGames(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games", r.URL.Path)
		assert.Equal(t, "chrono trigger", r.URL.Query().Get("search"))
		assert.Equal(t, "k1", r.URL.Query().Get("key"))
		w.Write([]byte(`{"count":1,"results":[{"id":123,"name":"Chrono Trigger","metacritic":92,
			"short_screenshots":[{"id":1,"image":"https://img/1.jpg"}]}]}`))
	})

	games, err := client.SearchGames(context.Background(), "chrono trigger")
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, int64(123), games[0].ID)
	assert.Equal(t, "https://img/1.jpg", games[0].CoverImage())
}

func TestClient_GetGame(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games/123", r.URL.Path)
		w.Write([]byte(`{"id":123,"name":"Chrono Trigger","description":"<p>Time travel.</p>",
			"platforms":[{"platform":{"name":"PC"}},{"platform":{"name":"PlayStation"}},{"platform":{"name":"Nintendo DS"}},{"platform":{"name":"PlayStation 4"}}]}`))
	})

	game, err := client.GetGame(context.Background(), 123)
	require.NoError(t, err)
	assert.Equal(t, "Chrono Trigger", game.Name)
	assert.Equal(t, []string{FamilyPC, FamilyPlayStation, FamilyOther}, game.PlatformFamilies())
	assert.Equal(t, "Time travel.", game.PlainDescription())
}

func TestClient_GetGameFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Not found."}`))
	})

	_, err := client.GetGame(context.Background(), 1)
	assert.Error(t, err)
}

func TestGameDetail_PlainDescription(t *testing.T) {
	d := &GameDetail{Description: "<p>First &amp; best.</p><ul><li>One</li></ul>"}
	assert.Equal(t, "First & best.\n\nOne", d.PlainDescription())

	d = &GameDetail{Description: "<p>ignored</p>", DescriptionRaw: "raw text"}
	assert.Equal(t, "raw text", d.PlainDescription())

	d = &GameDetail{Description: "just text"}
	assert.Equal(t, "just text", d.PlainDescription())
}

func TestMetacriticClass(t *testing.T) {
	assert.Equal(t, "", MetacriticClass(0))
	assert.Equal(t, "high", MetacriticClass(80))
	assert.Equal(t, "mid", MetacriticClass(60))
	assert.Equal(t, "mid", MetacriticClass(79))
	assert.Equal(t, "low", MetacriticClass(59))
}
