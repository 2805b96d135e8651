package routes

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"playfolio/internal/controllers"
	authmw "playfolio/internal/middleware"
	"playfolio/internal/services"
	"playfolio/internal/session"
	"playfolio/internal/storage/database"
	"playfolio/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRouter(
	log *slog.Logger,
	storage *database.Storage,
	sessions *session.Manager,
	pages *web.Pages,
	corsOrigins []string,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authMiddleware := authmw.NewAuthMiddleware(sessions, log)
	r.Use(authMiddleware.LoadSession)

	r.MethodNotAllowed(methodNotAllowed)

	userService := services.NewUserService(storage, log)
	gameService := services.NewGameService(storage, log)

	authController := controllers.NewAuthController(userService, log)
	gameController := controllers.NewGameController(gameService, log)

	r.Route("/api", func(r chi.Router) {
		r.HandleFunc("/auth/register", authController.Register)
		r.HandleFunc("/auth/login", authController.Login)
		r.HandleFunc("/auth/session", authController.Session)

		r.HandleFunc("/backlog/add", gameController.AddToBacklog)
		r.HandleFunc("/backlog/get", gameController.GetBacklog)
		r.HandleFunc("/backlog/remove", gameController.RemoveFromBacklog)

		r.HandleFunc("/library/add", gameController.AddToLibrary)
		r.HandleFunc("/library/get", gameController.GetLibrary)
		r.HandleFunc("/library/edit", gameController.EditLibraryEntry)
		r.HandleFunc("/library/remove", gameController.RemoveFromLibrary)

		r.HandleFunc("/player/getGameByPlayerId", gameController.GetGameByPlayerID)
		r.HandleFunc("/player/removeFromLibrary", gameController.PlayerRemoveFromLibrary)

		r.HandleFunc("/review/editReview", gameController.EditReview)
	})

	pages.Routes(r)

	return r
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	json.NewEncoder(w).Encode(map[string]string{"message": "Method not allowed"})
}
