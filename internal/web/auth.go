package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"playfolio/internal/clients/api"
	"playfolio/internal/models"
	"playfolio/internal/session"
	"playfolio/internal/storage/searchcache"
)

type signInPage struct {
	basePage
	Email       string
	CallbackURL string
	Invalid     bool
}

type registerPage struct {
	basePage
	FirstName string
	LastName  string
	Email     string
	Error     string
}

func (p *Pages) Home(w http.ResponseWriter, r *http.Request) {
	p.render(w, http.StatusOK, "home.html", p.base(w, r, "Playfolio"))
}

func (p *Pages) SignInForm(w http.ResponseWriter, r *http.Request) {
	p.render(w, http.StatusOK, "signin.html", signInPage{
		basePage:    p.base(w, r, "Sign In"),
		CallbackURL: r.URL.Query().Get("callbackUrl"),
	})
}

// SignIn checks the credentials against the login endpoint and starts a
// session. Any failure is reported without detail.
func (p *Pages) SignIn(w http.ResponseWriter, r *http.Request) {
	const op = "web.Pages.SignIn"

	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	callbackURL := r.PostFormValue("callbackUrl")

	failed := func() {
		p.render(w, http.StatusUnauthorized, "signin.html", signInPage{
			basePage:    p.base(w, r, "Sign In"),
			Email:       email,
			CallbackURL: callbackURL,
			Invalid:     true,
		})
	}

	var user models.User
	if err := p.api.Post(r.Context(), "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &user); err != nil {
		p.log.Info("sign in failed", slog.String("operation", op), slog.String("error", err.Error()))
		failed()
		return
	}
	if user.ID == "" {
		failed()
		return
	}

	token, err := p.sessions.Issue(session.FromModel(&user))
	if err != nil {
		p.log.Error("issuing session", slog.String("operation", op), slog.String("error", err.Error()))
		failed()
		return
	}
	p.sessions.SetCookie(w, token)

	http.Redirect(w, r, afterSignIn(callbackURL), http.StatusSeeOther)
}

// afterSignIn picks the post sign-in destination. Only local paths are
// followed and the registration page is never returned to.
func afterSignIn(callbackURL string) string {
	if callbackURL == "" || strings.Contains(callbackURL, "/register") {
		return "/"
	}
	// Browsers read "/\" the same as "//".
	if !strings.HasPrefix(callbackURL, "/") || strings.HasPrefix(callbackURL, "//") || strings.HasPrefix(callbackURL, `/\`) {
		return "/"
	}
	u, err := url.Parse(callbackURL)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return callbackURL
}

func (p *Pages) RegisterForm(w http.ResponseWriter, r *http.Request) {
	p.render(w, http.StatusOK, "register.html", registerPage{basePage: p.base(w, r, "Register")})
}

func (p *Pages) Register(w http.ResponseWriter, r *http.Request) {
	const op = "web.Pages.Register"

	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	page := registerPage{
		FirstName: strings.TrimSpace(r.PostFormValue("firstName")),
		LastName:  strings.TrimSpace(r.PostFormValue("lastName")),
		Email:     strings.TrimSpace(r.PostFormValue("email")),
	}

	err := p.api.Post(r.Context(), "/api/auth/register", map[string]string{
		"firstName": page.FirstName,
		"lastName":  page.LastName,
		"email":     page.Email,
		"password":  r.PostFormValue("password"),
	}, nil)
	if err != nil {
		p.log.Info("registration failed", slog.String("operation", op), slog.String("error", err.Error()))
		page.basePage = p.base(w, r, "Register")
		page.Error = api.Message(err)
		p.render(w, http.StatusUnprocessableEntity, "register.html", page)
		return
	}

	p.toast(w, "Account created, please sign in", ToastSuccess)
	http.Redirect(w, r, p.signInPath, http.StatusSeeOther)
}

// SignOut ends the session and drops the visitor's cached search results.
func (p *Pages) SignOut(w http.ResponseWriter, r *http.Request) {
	const op = "web.Pages.SignOut"

	if id, ok := knownVisitorID(r); ok {
		err := p.cache.Delete(searchcache.VisitorKey(id))
		if err != nil && !errors.Is(err, searchcache.ErrNotExists) {
			p.log.Error("dropping search results", slog.String("operation", op), slog.String("error", err.Error()))
		}
	}

	p.sessions.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
