package model

import "time"

// Game is a persisted batch of cards. Content holds the .bingoCards encoding.
type Game struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Tag       string    `gorm:"size:256;not null"`
	Content   string    `gorm:"type:text;not null"`
	CardCount int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`

	// Associations
	Draws []Draw `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"`
}
