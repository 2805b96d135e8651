package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Game is one player's relationship to one catalog title. A row may sit in
// the library, the backlog, both or neither.
type Game struct {
	ID        string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	APIID     int64      `json:"apiId" gorm:"column:api_id;not null;uniqueIndex:idx_games_player_api"`
	Title     string     `json:"title" gorm:"type:varchar(255);not null"`
	ImageURL  string     `json:"imageUrl" gorm:"type:varchar(500)"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	Library   bool       `json:"library" gorm:"not null"`
	Backlog   bool       `json:"backlog" gorm:"not null"`
	PlayerID  string     `json:"playerId" gorm:"type:varchar(36);not null;uniqueIndex:idx_games_player_api"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Reviews   []Review   `json:"reviews,omitempty" gorm:"foreignKey:GameID"`
}

func (g *Game) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// FirstReview returns the review the pages display, or nil.
func (g *Game) FirstReview() *Review {
	if len(g.Reviews) == 0 {
		return nil
	}
	return &g.Reviews[0]
}
