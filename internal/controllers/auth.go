package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"playfolio/internal/middleware"
	"playfolio/internal/models"
	"playfolio/internal/services"
)

type UserServicer interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

type AuthController struct {
	service UserServicer
	log     *slog.Logger
}

func NewAuthController(s UserServicer, log *slog.Logger) *AuthController {
	return &AuthController{service: s, log: log}
}

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.auth.Register"

	if !allowMethod(w, r, c.log, op, http.MethodPost) {
		return
	}

	var req RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		c.log.Error(ErrParsingJSON.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		writeMessage(w, c.log, op, http.StatusUnprocessableEntity, ErrInvalidData.Error())
		return
	}

	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, c.log, op, http.StatusUnprocessableEntity, ErrInvalidData.Error())
		return
	}

	if _, err := c.service.Register(r.Context(), services.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	}); err != nil {
		c.log.Error(ErrRegister.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		writeMessage(w, c.log, op, http.StatusInternalServerError, ErrRegister.Error())
		return
	}

	writeJSON(w, c.log, op, http.StatusCreated, statusResponse{Status: statusRegistered})
}

// Login verifies credentials and answers with the user record. The session
// cookie itself is issued by the sign-in page.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.auth.Login"

	if !allowMethod(w, r, c.log, op, http.MethodPost) {
		return
	}

	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		c.log.Error(ErrParsingJSON.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		writeMessage(w, c.log, op, http.StatusUnprocessableEntity, ErrInvalidData.Error())
		return
	}

	if req.Email == "" || req.Password == "" {
		writeMessage(w, c.log, op, http.StatusUnprocessableEntity, ErrInvalidData.Error())
		return
	}

	user, err := c.service.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.log.Info("rejected sign in", slog.String("operation", op))
		writeMessage(w, c.log, op, http.StatusUnauthorized, ErrInvalidCredentials.Error())
		return
	}
	if err != nil {
		c.log.Error(ErrLogin.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		writeMessage(w, c.log, op, http.StatusInternalServerError, ErrLogin.Error())
		return
	}

	writeJSON(w, c.log, op, http.StatusOK, user)
}

// Session reports the signed-in user, or an empty object.
func (c *AuthController) Session(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.auth.Session"

	if !allowMethod(w, r, c.log, op, http.MethodGet) {
		return
	}

	user, ok := middleware.SessionUserFromContext(r.Context())
	if !ok {
		writeJSON(w, c.log, op, http.StatusOK, struct{}{})
		return
	}

	writeJSON(w, c.log, op, http.StatusOK, user)
}
