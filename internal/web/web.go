package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"playfolio/internal/clients/catalog"
	"playfolio/internal/middleware"
	"playfolio/internal/session"
	"playfolio/internal/storage/searchcache"

	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var templateFS embed.FS

type APIClient interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, body, out any) error
}

type CatalogClient interface {
	SearchGames(ctx context.Context, term string) ([]catalog.Game, error)
	GetGame(ctx context.Context, id int64) (*catalog.GameDetail, error)
}

type SessionIssuer interface {
	Issue(u session.User) (string, error)
	SetCookie(w http.ResponseWriter, token string)
	ClearCookie(w http.ResponseWriter)
}

type Pages struct {
	log        *slog.Logger
	api        APIClient
	catalog    CatalogClient
	sessions   SessionIssuer
	cache      searchcache.Store
	inflight   *InFlight
	forms      *formValidator
	templates  map[string]*template.Template
	signInPath string
	now        func() time.Time
}

func NewPages(
	log *slog.Logger,
	api APIClient,
	catalogClient CatalogClient,
	sessions SessionIssuer,
	cache searchcache.Store,
	signInPath string,
) (*Pages, error) {
	const op = "web.NewPages"

	templates, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Pages{
		log:        log,
		api:        api,
		catalog:    catalogClient,
		sessions:   sessions,
		cache:      cache,
		inflight:   NewInFlight(),
		forms:      newFormValidator(),
		templates:  templates,
		signInPath: signInPath,
		now:        time.Now,
	}, nil
}

func (p *Pages) Routes(r chi.Router) {
	r.Get("/", p.Home)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/signIn", p.SignInForm)
		r.Post("/signIn", p.SignIn)
		r.Get("/register", p.RegisterForm)
		r.Post("/register", p.Register)
		r.Get("/signOut", p.SignOut)
		r.Post("/signOut", p.SignOut)
	})

	r.Get("/search", p.Search)
	r.Get("/games", p.SearchResults)
	r.Route("/games/{id}", func(r chi.Router) {
		r.Get("/", p.GameDetails)
		r.Post("/backlog", p.AddToBacklog)
		r.Post("/library", p.AddToLibrary)
	})

	r.Route("/backlog/{id}", func(r chi.Router) {
		r.Get("/", p.Backlog)
		r.Post("/remove", p.RemoveFromBacklog)
	})

	r.Route("/library/{id}", func(r chi.Router) {
		r.Get("/", p.Library)
		r.Post("/remove", p.RemoveFromLibrary)
		r.Post("/edit", p.EditReview)
	})
}

var templateFuncs = template.FuncMap{
	"shortDate": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("01/02/2006")
	},
	"fullDate": func(s string) string {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return s
		}
		return t.Format("January 2, 2006")
	},
	"dateInput": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format(time.DateOnly)
	},
	"metacritic": catalog.MetacriticClass,
}

func parseTemplates() (map[string]*template.Template, error) {
	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		if page == "templates/layout.html" {
			continue
		}
		t, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", page)
		if err != nil {
			return nil, err
		}
		templates[page[len("templates/"):]] = t
	}

	return templates, nil
}

// basePage carries what every page renders besides its own content.
type basePage struct {
	Title          string
	User           *session.User
	Toast          *Toast
	ToastRemaining int64
}

func (p *Pages) base(w http.ResponseWriter, r *http.Request, title string) basePage {
	b := basePage{Title: title}
	b.User, _ = middleware.SessionUserFromContext(r.Context())

	if t := takeToast(w, r); t != nil && t.VisibleAt(p.now()) {
		b.Toast = t
		b.ToastRemaining = t.Remaining(p.now())
	}

	return b
}

func (p *Pages) render(w http.ResponseWriter, status int, name string, data any) {
	const op = "web.Pages.render"

	t, ok := p.templates[name]
	if !ok {
		p.log.Error("unknown template", slog.String("operation", op), slog.String("template", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout.html", data); err != nil {
		p.log.Error("render failed", slog.String("operation", op), slog.String("template", name), slog.String("error", err.Error()))
	}
}

func (p *Pages) toast(w http.ResponseWriter, message, kind string) {
	setToast(w, NewToast(message, kind, p.now()))
}

// requireSignIn sends anonymous visitors to the sign-in page with a way back.
func (p *Pages) requireSignIn(w http.ResponseWriter, r *http.Request, back string) (*session.User, bool) {
	user, ok := middleware.SessionUserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, p.signInPath+"?callbackUrl="+url.QueryEscape(back), http.StatusSeeOther)
		return nil, false
	}
	return user, true
}

// requireOwner lets through only the signed-in player whose id is the {id}
// route parameter. Everyone else goes home.
func (p *Pages) requireOwner(w http.ResponseWriter, r *http.Request) (*session.User, bool) {
	user, ok := middleware.SessionUserFromContext(r.Context())
	if !ok || user.ID != chi.URLParam(r, "id") {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, false
	}
	return user, true
}
