package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Rating    *int      `json:"rating"`
	Comment   *string   `json:"comment" gorm:"type:text"`
	GameID    string    `json:"gameId" gorm:"type:varchar(36);not null;index"`
	PlayerID  string    `json:"playerId" gorm:"type:varchar(36);not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
