package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"playfolio/internal/middleware"
	"playfolio/internal/models"
	"playfolio/internal/services"
	"playfolio/internal/storage"
)

type GameServicer interface {
	AddToBacklog(ctx context.Context, in services.AddGameInput) (*models.Game, error)
	AddToLibrary(ctx context.Context, in services.AddGameInput) (*models.Game, error)
	GetBacklog(ctx context.Context, playerID string) ([]models.Game, error)
	GetLibrary(ctx context.Context, playerID string) ([]models.Game, error)
	GetPlayerGame(ctx context.Context, playerID string, apiID int64) (*models.Game, error)
	EditLibraryEntry(ctx context.Context, in services.EditGameInput) (*models.Game, error)
	RemoveGame(ctx context.Context, gameID string) error
	GameOwner(ctx context.Context, gameID string) (string, error)
}

// AddGameRequest is the body of the backlog and library "add" endpoints.
// ID is the catalog id of the game.
type AddGameRequest struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	UserID    string  `json:"userId"`
	ImageURL  string  `json:"imageUrl"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Rating    *int    `json:"rating"`
	Comment   *string `json:"comment"`
}

type EditGameRequest struct {
	ReviewID  string  `json:"reviewId"`
	GameID    string  `json:"gameId"`
	UserID    string  `json:"userId"`
	Title     string  `json:"title"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Rating    *int    `json:"rating"`
	Comment   *string `json:"comment"`
}

type RemoveGameRequest struct {
	GameID string `json:"gameId"`
}

type GameController struct {
	service GameServicer
	log     *slog.Logger
}

func NewGameController(s GameServicer, log *slog.Logger) *GameController {
	return &GameController{
		service: s,
		log:     log,
	}
}

func (c *GameController) AddToBacklog(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.AddToBacklog"

	if !allowMethod(w, r, c.log, op, http.MethodPost) {
		return
	}

	var req AddGameRequest
	if err := decodeBody(r, &req); err != nil || !req.valid() {
		writeError(w, c.log, op, http.StatusMethodNotAllowed, ErrMissingValues)
		return
	}

	if !actsFor(r, req.UserID) {
		writeError(w, c.log, op, http.StatusForbidden, ErrForbidden)
		return
	}

	_, err := c.service.AddToBacklog(r.Context(), services.AddGameInput{
		APIID:    req.ID,
		PlayerID: req.UserID,
		Title:    req.Title,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		c.log.Error(ErrAddBacklog.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		writeMessage(w, c.log, op, http.StatusInternalServerError, ErrAddBacklog.Error())
		return
	}

	writeJSON(w, c.log, op, http.StatusCreated, statusResponse{Status: statusSuccess})
}

func (c *GameController) GetBacklog(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.GetBacklog"

	if !allowMethod(w, r, c.log, op, http.MethodGet) {
		return
	}

	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		writeError(w, c.log, op, http.StatusMethodNotAllowed, ErrMissingQuery)
		return
	}

	games, err := c.service.GetBacklog(r.Context(), playerID)
	if err != nil {
		c.log.Error(ErrGetBacklog.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		writeMessage(w, c.log, op, http.StatusInternalServerError, ErrGetBacklog.Error())
		return
	}

	writeJSON(w, c.log, op, http.StatusOK, nonNil(games))
}

func (c *GameController) RemoveFromBacklog(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.RemoveFromBacklog"

	if !allowMethod(w, r, c.log, op, http.MethodDelete) {
		return
	}

	var req RemoveGameRequest
	if err := decodeBody(r, &req); err != nil || req.GameID == "" {
		writeError(w, c.log, op, http.StatusMethodNotAllowed, ErrMissingValues)
		return
	}

	if err := c.checkGameOwner(r, req.GameID); err != nil {
		c.denied(w, op, err, ErrRemoveBacklog)
		return
	}

	if err := c.service.RemoveGame(r.Context(), req.GameID); err != nil {
		c.log.Error(ErrRemoveBacklog.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		writeMessage(w, c.log, op, http.StatusInternalServerError, ErrRemoveBacklog.Error())
		return
	}

	writeMessage(w, c.log, op, http.StatusOK, msgRemovedFromBacklog)
}

func (c *GameController) AddToLibrary(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.AddToLibrary"

	if !allowMethod(w, r, c.log, op, http.MethodPost) {
		return
	}

	var req AddGameRequest
	if err := decodeBody(r, &req); err != nil || !req.valid() {
		writeError(w, c.log, op, http.StatusMethodNotAllowed, ErrMissingValues)
		return
	}

	if !actsFor(r, req.UserID) {
		writeError(w, c.log, op, http.StatusForbidden, ErrForbidden)
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		c.log.Error(ErrAddLibrary.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		writeMessage(w, c.log, op, http.StatusInternalServerError, ErrAddLibrary.Error())
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		c.log.Error(ErrAddLibrary.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		writeMessage(w, c.log, op, http.StatusInternalServerError, ErrAddLibrary.Error())
		return
	}

	_, err = c.service.AddToLibrary(r.Context(), services.AddGameInput{
		APIID:     req.ID,
		PlayerID:  req.UserID,
		Title:     req.Title,
		ImageURL:  req.ImageURL,
		StartDate: startDate,
		EndDate:   endDate,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		c.log.Error(ErrAddLibrary.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		writeMessage(w, c.log, op, http.StatusInternalServerError, ErrAddLibrary.Error())
		return
	}

	writeJSON(w, c.log, op, http.StatusCreated, statusResponse{Status: statusSuccess})
}

func (c *GameController) GetLibrary(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.GetLibrary"

	if !allowMethod(w, r, c.log, op, http.MethodGet) {
		return
	}

	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		writeError(w, c.log, op, http.StatusMethodNotAllowed, ErrMissingQuery)
		return
	}

	games, err := c.service.GetLibrary(r.Context(), playerID)
	if err != nil {
		c.log.Error(ErrGetLibrary.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		writeMessage(w, c.log, op, http.StatusInternalServerError, ErrGetLibrary.Error())
		return
	}

	writeJSON(w, c.log, op, http.StatusOK, nonNil(games))
}

// EditLibraryEntry updates a library game and its review. Dates are optional
// here; a missing date clears the stored one.
func (c *GameController) EditLibraryEntry(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.EditLibraryEntry"

	if !allowMethod(w, r, c.log, op, http.MethodPost) {
		return
	}

	var req EditGameRequest
	if err := decodeBody(r, &req); err != nil || req.ReviewID == "" || req.GameID == "" || req.Title == "" {
		writeError(w, c.log, op, http.StatusMethodNotAllowed, ErrMissingValues)
		return
	}

	c.edit(w, r, op, req, false)
}

// EditReview is the older edit endpoint. It performs no field validation and
// requires both dates to be valid.
func (c *GameController) EditReview(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.EditReview"

	if !allowMethod(w, r, c.log, op, http.MethodPost) {
		return
	}

	var req EditGameRequest
	if err := decodeBody(r, &req); err != nil {
		c.log.Error(ErrParsingJSON.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		writeMessage(w, c.log, op, http.StatusInternalServerError, ErrUpdateReview.Error())
		return
	}

	c.edit(w, r, op, req, true)
}

func (c *GameController) edit(w http.ResponseWriter, r *http.Request, op string, req EditGameRequest, strictDates bool) {
	if err := c.checkGameOwner(r, req.GameID); err != nil {
		c.denied(w, op, err, ErrUpdateReview)
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		c.log.Error(ErrUpdateReview.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		writeMessage(w, c.log, op, http.StatusInternalServerError, ErrUpdateReview.Error())
		return
	}

	endDate, err := parseDate(req.EndDate)
	if err != nil {
		c.log.Error(ErrUpdateReview.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		writeMessage(w, c.log, op, http.StatusInternalServerError, ErrUpdateReview.Error())
		return
	}

	if strictDates && (startDate == nil || endDate == nil) {
		c.log.Error(ErrUpdateReview.Error(), slog.String("operation", op), slog.String("error", ErrInvalidDate.Error()))
		writeMessage(w, c.log, op, http.StatusInternalServerError, ErrUpdateReview.Error())
		return
	}

	game, err := c.service.EditLibraryEntry(r.Context(), services.EditGameInput{
		GameID:    req.GameID,
		ReviewID:  req.ReviewID,
		Title:     req.Title,
		StartDate: startDate,
		EndDate:   endDate,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		c.log.Error(ErrUpdateReview.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		writeMessage(w, c.log, op, http.StatusInternalServerError, ErrUpdateReview.Error())
		return
	}

	writeJSON(w, c.log, op, http.StatusOK, game)
}

// RemoveFromLibrary serves DELETE /api/library/remove.
func (c *GameController) RemoveFromLibrary(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.RemoveFromLibrary"

	if !allowMethod(w, r, c.log, op, http.MethodDelete) {
		return
	}

	var req RemoveGameRequest
	if err := decodeBody(r, &req); err != nil || req.GameID == "" {
		writeError(w, c.log, op, http.StatusMethodNotAllowed, ErrMissingValues)
		return
	}

	c.removeFromLibrary(w, r, op, req.GameID)
}

// PlayerRemoveFromLibrary serves POST /api/player/removeFromLibrary. A
// missing game id is reported as a failed removal.
func (c *GameController) PlayerRemoveFromLibrary(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.PlayerRemoveFromLibrary"

	if !allowMethod(w, r, c.log, op, http.MethodPost) {
		return
	}

	var req RemoveGameRequest
	if err := decodeBody(r, &req); err != nil || req.GameID == "" {
		c.log.Error(ErrRemoveLibrary.Error(), slog.String("operation", op), slog.String("error", ErrMissingValues.Error()))
		writeMessage(w, c.log, op, http.StatusInternalServerError, ErrRemoveLibrary.Error())
		return
	}

	c.removeFromLibrary(w, r, op, req.GameID)
}

func (c *GameController) removeFromLibrary(w http.ResponseWriter, r *http.Request, op, gameID string) {
	if err := c.checkGameOwner(r, gameID); err != nil {
		c.denied(w, op, err, ErrRemoveLibrary)
		return
	}

	if err := c.service.RemoveGame(r.Context(), gameID); err != nil {
		c.log.Error(ErrRemoveLibrary.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		writeMessage(w, c.log, op, http.StatusInternalServerError, ErrRemoveLibrary.Error())
		return
	}

	writeMessage(w, c.log, op, http.StatusOK, msgRemovedFromLibrary)
}

// GetGameByPlayerID returns the player's record for a catalog game, or an
// empty array when the player has none.
func (c *GameController) GetGameByPlayerID(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.GetGameByPlayerID"

	if !allowMethod(w, r, c.log, op, http.MethodGet) {
		return
	}

	query := r.URL.Query()
	playerID := query.Get("playerId")
	apiID, err := strconv.ParseInt(query.Get("apiId"), 10, 64)
	if playerID == "" || err != nil {
		writeError(w, c.log, op, http.StatusMethodNotAllowed, ErrMissingQuery)
		return
	}

	game, err := c.service.GetPlayerGame(r.Context(), playerID, apiID)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, c.log, op, http.StatusOK, []models.Game{})
		return
	}
	if err != nil {
		c.log.Error(ErrGetGameDetails.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		writeMessage(w, c.log, op, http.StatusInternalServerError, ErrGetGameDetails.Error())
		return
	}

	writeJSON(w, c.log, op, http.StatusOK, game)
}

// actsFor reports whether the request may act for playerID. Requests that
// carry no session are not restricted.
func actsFor(r *http.Request, playerID string) bool {
	user, ok := middleware.SessionUserFromContext(r.Context())
	return !ok || user.ID == playerID
}

// checkGameOwner returns ErrForbidden when the request's session user does
// not own the game. Unknown games are left to the operation itself.
func (c *GameController) checkGameOwner(r *http.Request, gameID string) error {
	user, ok := middleware.SessionUserFromContext(r.Context())
	if !ok {
		return nil
	}

	owner, err := c.service.GameOwner(r.Context(), gameID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if owner != user.ID {
		return ErrForbidden
	}

	return nil
}

func (c *GameController) denied(w http.ResponseWriter, op string, err, failure error) {
	if errors.Is(err, ErrForbidden) {
		writeError(w, c.log, op, http.StatusForbidden, ErrForbidden)
		return
	}

	c.log.Error(failure.Error(), slog.String("operation", op), slog.String("error", err.Error()))
	writeMessage(w, c.log, op, http.StatusInternalServerError, failure.Error())
}

func (req AddGameRequest) valid() bool {
	return req.ID != 0 && req.Title != "" && req.UserID != ""
}

func nonNil(games []models.Game) []models.Game {
	if games == nil {
		return []models.Game{}
	}
	return games
}
