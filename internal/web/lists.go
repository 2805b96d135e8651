package web

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"playfolio/internal/clients/api"
	"playfolio/internal/models"
)

type backlogPage struct {
	basePage
	Games []models.Game
}

type libraryPage struct {
	basePage
	Games     []models.Game
	Edit      *EditForm
	EditError string
}

func (p *Pages) Backlog(w http.ResponseWriter, r *http.Request) {
	const op = "web.Pages.Backlog"

	user, ok := p.requireOwner(w, r)
	if !ok {
		return
	}

	page := backlogPage{basePage: p.base(w, r, "Backlog")}

	if err := p.api.Get(r.Context(), "/api/backlog/get?playerId="+url.QueryEscape(user.ID), &page.Games); err != nil {
		p.log.Error("loading backlog", slog.String("operation", op), slog.String("error", err.Error()))
		t := NewToast(api.Message(err), ToastDanger, p.now())
		page.Toast = &t
		page.ToastRemaining = int64(t.Timer)
	}

	p.render(w, http.StatusOK, "backlog.html", page)
}

func (p *Pages) RemoveFromBacklog(w http.ResponseWriter, r *http.Request) {
	const op = "web.Pages.RemoveFromBacklog"

	user, ok := p.requireOwner(w, r)
	if !ok {
		return
	}
	back := "/backlog/" + user.ID

	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	gameID := r.PostFormValue("gameId")
	title := strings.TrimSpace(r.PostFormValue("title"))

	if !p.inflight.TryStart(actionRemoveBacklog, gameID) {
		p.toast(w, msgActionPending, ToastWarning)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	defer p.inflight.Done(actionRemoveBacklog, gameID)

	if err := p.api.Delete(r.Context(), "/api/backlog/remove", map[string]string{"gameId": gameID}, nil); err != nil {
		p.log.Error("removing from backlog", slog.String("operation", op), slog.String("error", err.Error()))
		p.toast(w, api.Message(err), ToastDanger)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	if title == "" {
		title = "Game"
	}
	p.toast(w, title+" removed from backlog", ToastSuccess)
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (p *Pages) Library(w http.ResponseWriter, r *http.Request) {
	user, ok := p.requireOwner(w, r)
	if !ok {
		return
	}

	p.renderLibrary(w, r, user.ID, http.StatusOK, nil, "")
}

func (p *Pages) renderLibrary(w http.ResponseWriter, r *http.Request, playerID string, status int, edit *EditForm, editErr string) {
	const op = "web.Pages.renderLibrary"

	page := libraryPage{
		basePage:  p.base(w, r, "Library"),
		Edit:      edit,
		EditError: editErr,
	}

	if err := p.api.Get(r.Context(), "/api/library/get?playerId="+url.QueryEscape(playerID), &page.Games); err != nil {
		p.log.Error("loading library", slog.String("operation", op), slog.String("error", err.Error()))
		t := NewToast(api.Message(err), ToastDanger, p.now())
		page.Toast = &t
		page.ToastRemaining = int64(t.Timer)
	}

	p.render(w, status, "library.html", page)
}

func (p *Pages) RemoveFromLibrary(w http.ResponseWriter, r *http.Request) {
	const op = "web.Pages.RemoveFromLibrary"

	user, ok := p.requireOwner(w, r)
	if !ok {
		return
	}
	back := "/library/" + user.ID

	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	gameID := r.PostFormValue("gameId")

	if !p.inflight.TryStart(actionRemoveLibrary, gameID) {
		p.toast(w, msgActionPending, ToastWarning)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	defer p.inflight.Done(actionRemoveLibrary, gameID)

	if err := p.api.Delete(r.Context(), "/api/library/remove", map[string]string{"gameId": gameID}, nil); err != nil {
		p.log.Error("removing from library", slog.String("operation", op), slog.String("error", err.Error()))
		p.toast(w, api.Message(err), ToastDanger)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	p.toast(w, "Game removed from library", ToastSuccess)
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// EditReview validates the edit form before anything is sent. A rejected
// form is shown again on the library page with the problem inline.
func (p *Pages) EditReview(w http.ResponseWriter, r *http.Request) {
	const op = "web.Pages.EditReview"

	user, ok := p.requireOwner(w, r)
	if !ok {
		return
	}
	back := "/library/" + user.ID

	form, err := parseEditForm(r)
	if err == nil {
		form.UserID = user.ID
		err = p.forms.Check(form)
	}
	if err != nil {
		p.renderLibrary(w, r, user.ID, http.StatusUnprocessableEntity, &form, err.Error())
		return
	}

	if !p.inflight.TryStart(actionEditReview, form.GameID) {
		p.toast(w, msgActionPending, ToastWarning)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	defer p.inflight.Done(actionEditReview, form.GameID)

	err = p.api.Post(r.Context(), "/api/library/edit", map[string]any{
		"reviewId":  form.ReviewID,
		"gameId":    form.GameID,
		"userId":    form.UserID,
		"title":     form.Title,
		"startDate": dateValue(form.StartDate),
		"endDate":   dateValue(form.EndDate),
		"rating":    form.Rating,
		"comment":   form.Comment,
	}, nil)
	if err != nil {
		p.log.Error("editing review", slog.String("operation", op), slog.String("error", err.Error()))
		p.renderLibrary(w, r, user.ID, http.StatusBadGateway, &form, api.Message(err))
		return
	}

	p.toast(w, "Review updated", ToastSuccess)
	http.Redirect(w, r, back, http.StatusSeeOther)
}
