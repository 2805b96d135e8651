package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"playfolio/internal/models"
	"playfolio/internal/storage"
	"playfolio/internal/storage/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddGameInput carries one "add to backlog/library" request.
type AddGameInput struct {
	APIID     int64
	PlayerID  string
	Title     string
	ImageURL  string
	StartDate *time.Time
	EndDate   *time.Time
	Rating    *int
	Comment   *string
}

// HasReview reports whether a review should be written alongside the game.
func (in AddGameInput) HasReview() bool {
	return in.Rating != nil || in.Comment != nil
}

type EditGameInput struct {
	GameID    string
	ReviewID  string
	Title     string
	StartDate *time.Time
	EndDate   *time.Time
	Rating    *int
	Comment   *string
}

type GameService struct {
	storage *database.Storage
	log     *slog.Logger
}

func NewGameService(s *database.Storage, log *slog.Logger) *GameService {
	return &GameService{
		storage: s,
		log:     log,
	}
}

// AddToBacklog inserts the (player, apiId) record with backlog set, or flips
// an existing one to the backlog in the same statement.
func (s *GameService) AddToBacklog(ctx context.Context, in AddGameInput) (*models.Game, error) {
	const op = "services.games.AddToBacklog"

	var stored *models.Game

	err := s.storage.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game := &models.Game{
			APIID:    in.APIID,
			PlayerID: in.PlayerID,
			Title:    in.Title,
			ImageURL: in.ImageURL,
			Backlog:  true,
			Library:  false,
		}

		columns := []string{"title", "backlog", "library", "updated_at"}
		if in.ImageURL != "" {
			columns = append(columns, "image_url")
		}

		var err error
		stored, err = upsertGame(tx, game, columns)
		return err
	})
	if err != nil {
		s.log.Error("failed to add game to backlog", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return stored, nil
}

// AddToLibrary upserts the record with library set and, when a rating or
// comment is given, writes the game's review.
func (s *GameService) AddToLibrary(ctx context.Context, in AddGameInput) (*models.Game, error) {
	const op = "services.games.AddToLibrary"

	var stored *models.Game

	err := s.storage.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game := &models.Game{
			APIID:     in.APIID,
			PlayerID:  in.PlayerID,
			Title:     in.Title,
			ImageURL:  in.ImageURL,
			StartDate: in.StartDate,
			EndDate:   in.EndDate,
			Library:   true,
			Backlog:   false,
		}

		columns := []string{"title", "start_date", "end_date", "library", "backlog", "updated_at"}
		if in.ImageURL != "" {
			columns = append(columns, "image_url")
		}

		var err error
		stored, err = upsertGame(tx, game, columns)
		if err != nil {
			return err
		}

		if !in.HasReview() {
			return nil
		}

		var review models.Review
		err = tx.Where("game_id = ?", stored.ID).Order("created_at").First(&review).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			review = models.Review{
				Rating:   in.Rating,
				Comment:  in.Comment,
				GameID:   stored.ID,
				PlayerID: in.PlayerID,
			}
			if err := tx.Create(&review).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			updates := map[string]any{}
			if in.Rating != nil {
				updates["rating"] = *in.Rating
				review.Rating = in.Rating
			}
			if in.Comment != nil {
				updates["comment"] = *in.Comment
				review.Comment = in.Comment
			}
			if err := tx.Model(&review).Updates(updates).Error; err != nil {
				return err
			}
		}

		stored.Reviews = []models.Review{review}
		return nil
	})
	if err != nil {
		s.log.Error("failed to add game to library", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return stored, nil
}

// upsertGame writes game as a single conditional insert keyed by the unique
// (player_id, api_id) index and reads back the stored row.
func upsertGame(tx *gorm.DB, game *models.Game, columns []string) (*models.Game, error) {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_id"}, {Name: "api_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(game).Error
	if err != nil {
		return nil, err
	}

	var stored models.Game
	if err := tx.Where("player_id = ? AND api_id = ?", game.PlayerID, game.APIID).First(&stored).Error; err != nil {
		return nil, err
	}

	return &stored, nil
}

func (s *GameService) GetBacklog(ctx context.Context, playerID string) ([]models.Game, error) {
	const op = "services.games.GetBacklog"

	var games []models.Game
	if err := s.storage.DB.WithContext(ctx).
		Where("player_id = ? AND backlog = ?", playerID, true).
		Find(&games).Error; err != nil {
		s.log.Error("failed to get backlog", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return games, nil
}

func (s *GameService) GetLibrary(ctx context.Context, playerID string) ([]models.Game, error) {
	const op = "services.games.GetLibrary"

	var games []models.Game
	if err := s.storage.DB.WithContext(ctx).
		Preload("Reviews").
		Where("player_id = ? AND library = ?", playerID, true).
		Find(&games).Error; err != nil {
		s.log.Error("failed to get library", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return games, nil
}

// GetPlayerGame returns the player's record for a catalog game with its
// reviews, or storage.ErrNotFound.
func (s *GameService) GetPlayerGame(ctx context.Context, playerID string, apiID int64) (*models.Game, error) {
	const op = "services.games.GetPlayerGame"

	var game models.Game
	err := s.storage.DB.WithContext(ctx).
		Preload("Reviews").
		Where("player_id = ? AND api_id = ?", playerID, apiID).
		First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		s.log.Error("failed to get player game", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &game, nil
}

// EditLibraryEntry updates the game's title and dates and its review's
// rating and comment together.
func (s *GameService) EditLibraryEntry(ctx context.Context, in EditGameInput) (*models.Game, error) {
	const op = "services.games.EditLibraryEntry"

	var game models.Game

	err := s.storage.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", in.GameID).First(&game).Error; err != nil {
			return notFound(err)
		}

		var review models.Review
		if err := tx.Where("id = ? AND game_id = ?", in.ReviewID, in.GameID).First(&review).Error; err != nil {
			return notFound(err)
		}

		if err := tx.Model(&game).Updates(map[string]any{
			"title":      in.Title,
			"start_date": in.StartDate,
			"end_date":   in.EndDate,
		}).Error; err != nil {
			return fmt.Errorf("%w: %w", storage.ErrUpdateFailed, err)
		}

		reviewUpdates := map[string]any{}
		if in.Rating != nil {
			reviewUpdates["rating"] = *in.Rating
		}
		if in.Comment != nil {
			reviewUpdates["comment"] = *in.Comment
		}
		if len(reviewUpdates) > 0 {
			if err := tx.Model(&review).Updates(reviewUpdates).Error; err != nil {
				return fmt.Errorf("%w: %w", storage.ErrUpdateFailed, err)
			}
		}

		return tx.Preload("Reviews").Where("id = ?", in.GameID).First(&game).Error
	})
	if err != nil {
		s.log.Error("failed to edit library entry", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &game, nil
}

// RemoveGame deletes the game's reviews and then the game.
func (s *GameService) RemoveGame(ctx context.Context, gameID string) error {
	const op = "services.games.RemoveGame"

	err := s.storage.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", gameID).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("%w: %w", storage.ErrDeleteFailed, err)
		}

		res := tx.Where("id = ?", gameID).Delete(&models.Game{})
		if res.Error != nil {
			return fmt.Errorf("%w: %w", storage.ErrDeleteFailed, res.Error)
		}
		if res.RowsAffected == 0 {
			return storage.ErrNotFound
		}

		return nil
	})
	if err != nil {
		s.log.Error("failed to remove game", slog.String("operation", op), slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// GameOwner returns the id of the player a stored game belongs to.
func (s *GameService) GameOwner(ctx context.Context, gameID string) (string, error) {
	const op = "services.games.GameOwner"

	var game models.Game
	err := s.storage.DB.WithContext(ctx).Select("player_id").Where("id = ?", gameID).First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		s.log.Error("failed to get game owner", slog.String("operation", op), slog.String("error", err.Error()))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return game.PlayerID, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.ErrNotFound
	}
	return err
}
