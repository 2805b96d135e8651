package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"playfolio/internal/clients/api"
	"playfolio/internal/clients/catalog"
	"playfolio/internal/models"
	"playfolio/internal/session"
	"playfolio/internal/storage/searchcache"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	visitorCookieName = "playfolio_visitor"

	actionAddBacklog    = "backlog-add"
	actionAddLibrary    = "library-add"
	actionRemoveBacklog = "backlog-remove"
	actionRemoveLibrary = "library-remove"
	actionEditReview    = "review-edit"
)

const msgActionPending = "This action is already in progress"

type searchResultsPage struct {
	basePage
	SearchTerm string
	Results    []catalog.Game
}

type gamePage struct {
	basePage
	Game        *catalog.GameDetail
	Description string
	Platforms   []string
	PlayerGame  *models.Game
	Form        LibraryForm
	FormError   string
	ShowForm    bool
}

// visitorID returns the id that scopes the visitor's cached search results,
// issuing one on first use.
func visitorID(w http.ResponseWriter, r *http.Request) string {
	if id, ok := knownVisitorID(r); ok {
		return id
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func knownVisitorID(r *http.Request) (string, bool) {
	c, err := r.Cookie(visitorCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}

// Search runs the navbar search, keeps the results for the visitor and
// sends them to the results page.
func (p *Pages) Search(w http.ResponseWriter, r *http.Request) {
	const op = "web.Pages.Search"

	term := strings.TrimSpace(r.URL.Query().Get("searchTerm"))
	if term == "" {
		http.Redirect(w, r, "/games", http.StatusSeeOther)
		return
	}

	key := searchcache.VisitorKey(visitorID(w, r))

	results, err := p.catalog.SearchGames(r.Context(), term)
	if err != nil {
		p.log.Error("search failed", slog.String("operation", op), slog.String("error", err.Error()))
		p.toast(w, api.Message(err), ToastDanger)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := p.cache.Save(key, results); err != nil {
		p.log.Error("caching search results", slog.String("operation", op), slog.String("error", err.Error()))
	}

	http.Redirect(w, r, "/games?searchTerm="+url.QueryEscape(term), http.StatusSeeOther)
}

// SearchResults shows the cached results of the visitor's last search.
func (p *Pages) SearchResults(w http.ResponseWriter, r *http.Request) {
	const op = "web.Pages.SearchResults"

	page := searchResultsPage{
		basePage:   p.base(w, r, "Search Results"),
		SearchTerm: r.URL.Query().Get("searchTerm"),
	}

	if page.SearchTerm != "" {
		key := searchcache.VisitorKey(visitorID(w, r))
		if err := p.cache.Load(key, &page.Results); err != nil && !errors.Is(err, searchcache.ErrNotExists) {
			p.log.Error("reading search results", slog.String("operation", op), slog.String("error", err.Error()))
		}
	}

	p.render(w, http.StatusOK, "games.html", page)
}

func (p *Pages) GameDetails(w http.ResponseWriter, r *http.Request) {
	p.renderGame(w, r, http.StatusOK, nil, "")
}

// renderGame shows the game page. form and formErr carry a rejected library
// form back to the visitor.
func (p *Pages) renderGame(w http.ResponseWriter, r *http.Request, status int, form *LibraryForm, formErr string) {
	const op = "web.Pages.renderGame"

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	game, err := p.catalog.GetGame(r.Context(), id)
	if err != nil {
		p.log.Error("loading game", slog.String("operation", op), slog.Int64("id", id), slog.String("error", err.Error()))
		page := gamePage{basePage: p.base(w, r, "Game Details")}
		page.Toast = &Toast{Message: api.Message(err), Type: ToastDanger, Timer: DefaultToastTimer, NoTimeout: true}
		p.render(w, http.StatusBadGateway, "game.html", page)
		return
	}

	page := gamePage{
		basePage:    p.base(w, r, game.Name),
		Game:        game,
		Description: game.PlainDescription(),
		Platforms:   game.PlatformFamilies(),
	}
	if page.Title == "" {
		page.Title = "Game Details"
	}

	if page.User != nil {
		page.PlayerGame = p.playerGame(r, page.User, id)
		page.Form = LibraryForm{ID: game.ID, UserID: page.User.ID, Title: game.Name, ImageURL: game.BackgroundImage}
	}

	if form != nil {
		page.Form = *form
		page.FormError = formErr
		page.ShowForm = true
	}

	p.render(w, status, "game.html", page)
}

// playerGame looks up the player's own record of a catalog game. The
// endpoint answers with an empty array when there is none.
func (p *Pages) playerGame(r *http.Request, user *session.User, apiID int64) *models.Game {
	const op = "web.Pages.playerGame"

	var raw json.RawMessage
	path := "/api/player/getGameByPlayerId?playerId=" + url.QueryEscape(user.ID) + "&apiId=" + strconv.FormatInt(apiID, 10)
	if err := p.api.Get(r.Context(), path, &raw); err != nil {
		p.log.Error("loading player game", slog.String("operation", op), slog.String("error", err.Error()))
		return nil
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}

	var game models.Game
	if err := json.Unmarshal(raw, &game); err != nil {
		p.log.Error("decoding player game", slog.String("operation", op), slog.String("error", err.Error()))
		return nil
	}

	return &game
}

func (p *Pages) AddToBacklog(w http.ResponseWriter, r *http.Request) {
	const op = "web.Pages.AddToBacklog"

	back := "/games/" + chi.URLParam(r, "id")
	user, ok := p.requireSignIn(w, r, back)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	apiID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	rowKey := user.ID + "/" + chi.URLParam(r, "id")
	if !p.inflight.TryStart(actionAddBacklog, rowKey) {
		p.toast(w, msgActionPending, ToastWarning)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	defer p.inflight.Done(actionAddBacklog, rowKey)

	err = p.api.Post(r.Context(), "/api/backlog/add", map[string]any{
		"id":       apiID,
		"userId":   user.ID,
		"title":    r.PostFormValue("title"),
		"imageUrl": r.PostFormValue("imageUrl"),
	}, nil)
	if err != nil {
		p.log.Error("adding to backlog", slog.String("operation", op), slog.String("error", err.Error()))
		p.toast(w, api.Message(err), ToastDanger)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	p.toast(w, "Game added to backlog", ToastSuccess)
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// AddToLibrary validates the library form before anything is sent. A
// rejected form is shown again with the problem inline.
func (p *Pages) AddToLibrary(w http.ResponseWriter, r *http.Request) {
	const op = "web.Pages.AddToLibrary"

	back := "/games/" + chi.URLParam(r, "id")
	user, ok := p.requireSignIn(w, r, back)
	if !ok {
		return
	}

	form, err := parseLibraryForm(r)
	if err == nil {
		form.UserID = user.ID
		err = p.forms.Check(form)
	}
	if err != nil {
		p.renderGame(w, r, http.StatusUnprocessableEntity, &form, err.Error())
		return
	}

	rowKey := user.ID + "/" + strconv.FormatInt(form.ID, 10)
	if !p.inflight.TryStart(actionAddLibrary, rowKey) {
		p.toast(w, msgActionPending, ToastWarning)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	defer p.inflight.Done(actionAddLibrary, rowKey)

	err = p.api.Post(r.Context(), "/api/library/add", map[string]any{
		"id":        form.ID,
		"userId":    form.UserID,
		"title":     form.Title,
		"imageUrl":  form.ImageURL,
		"startDate": dateValue(form.StartDate),
		"endDate":   dateValue(form.EndDate),
		"rating":    form.Rating,
		"comment":   form.Comment,
	}, nil)
	if err != nil {
		p.log.Error("adding to library", slog.String("operation", op), slog.String("error", err.Error()))
		p.renderGame(w, r, http.StatusBadGateway, &form, api.Message(err))
		return
	}

	p.toast(w, "Game added to library", ToastSuccess)
	http.Redirect(w, r, back, http.StatusSeeOther)
}
