package controllers

import _ "playfolio/internal/models"

// RegisterUser godoc
// @Summary      Register a player
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterRequest  true  "New player"
// @Success      201   {object}  statusResponse
// @Failure      422   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /auth/register [post]
func RegisterUser() {}

// LoginUser godoc
// @Summary      Check credentials
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  models.User
// @Failure      401   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /auth/login [post]
func LoginUser() {}

// CurrentSession godoc
// @Summary      Signed-in user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  session.User
// @Router       /auth/session [get]
func CurrentSession() {}

// AddToBacklog godoc
// @Summary      Add a catalog game to the backlog
// @Description  Creates the player's record or moves an existing one to the backlog
// @Tags         backlog
// @Accept       json
// @Produce      json
// @Param        body  body      AddGameRequest  true  "Catalog id, title, player"
// @Success      201   {object}  statusResponse
// @Failure      405   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  messageResponse
// @Router       /backlog/add [post]
func AddToBacklog() {}

// GetBacklog godoc
// @Summary      List the backlog
// @Tags         backlog
// @Produce      json
// @Param        playerId  query     string  true  "Player id"
// @Success      200       {array}   models.Game
// @Failure      405       {object}  errorResponse
// @Failure      500       {object}  messageResponse
// @Router       /backlog/get [get]
func GetBacklog() {}

// RemoveFromBacklog godoc
// @Summary      Remove a game from the backlog
// @Tags         backlog
// @Accept       json
// @Produce      json
// @Param        body  body      RemoveGameRequest  true  "Game id"
// @Success      200   {object}  messageResponse
// @Failure      405   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  messageResponse
// @Router       /backlog/remove [delete]
func RemoveFromBacklog() {}

// AddToLibrary godoc
// @Summary      Add a catalog game to the library
// @Description  A review is written only when rating or comment is present
// @Tags         library
// @Accept       json
// @Produce      json
// @Param        body  body      AddGameRequest  true  "Game, dates and optional review"
// @Success      201   {object}  statusResponse
// @Failure      405   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  messageResponse
// @Router       /library/add [post]
func AddToLibrary() {}

// GetLibrary godoc
// @Summary      List the library with reviews
// @Tags         library
// @Produce      json
// @Param        playerId  query     string  true  "Player id"
// @Success      200       {array}   models.Game
// @Failure      405       {object}  errorResponse
// @Failure      500       {object}  messageResponse
// @Router       /library/get [get]
func GetLibrary() {}

// EditLibraryEntry godoc
// @Summary      Edit a library game and its review
// @Tags         library
// @Accept       json
// @Produce      json
// @Param        body  body      EditGameRequest  true  "Game and review changes"
// @Success      200   {object}  models.Game
// @Failure      405   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  messageResponse
// @Router       /library/edit [post]
func EditLibraryEntry() {}

// RemoveFromLibrary godoc
// @Summary      Remove a game and its reviews from the library
// @Tags         library
// @Accept       json
// @Produce      json
// @Param        body  body      RemoveGameRequest  true  "Game id"
// @Success      200   {object}  messageResponse
// @Failure      405   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  messageResponse
// @Router       /library/remove [delete]
func RemoveFromLibrary() {}

// GetGameByPlayerID godoc
// @Summary      Player's record for a catalog game
// @Description  Returns the record with reviews, or an empty array
// @Tags         player
// @Produce      json
// @Param        playerId  query     string  true  "Player id"
// @Param        apiId     query     int     true  "Catalog id"
// @Success      200       {object}  models.Game
// @Failure      405       {object}  errorResponse
// @Failure      500       {object}  messageResponse
// @Router       /player/getGameByPlayerId [get]
func GetGameByPlayerID() {}

// PlayerRemoveFromLibrary godoc
// @Summary      Remove a game and its reviews
// @Tags         player
// @Accept       json
// @Produce      json
// @Param        body  body      RemoveGameRequest  true  "Game id"
// @Success      200   {object}  messageResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  messageResponse
// @Router       /player/removeFromLibrary [post]
func PlayerRemoveFromLibrary() {}

// EditReview godoc
// @Summary      Edit a game and its review
// @Description  Both dates are required
// @Tags         review
// @Accept       json
// @Produce      json
// @Param        body  body      EditGameRequest  true  "Game and review changes"
// @Success      200   {object}  models.Game
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  messageResponse
// @Router       /review/editReview [post]
func EditReview() {}
