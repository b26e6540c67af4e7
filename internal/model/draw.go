package model

import "time"

// Draw is one called number in a game's live draw.
type Draw struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	GameID    string    `gorm:"size:36;not null;uniqueIndex:idx_draw_game_number;index:idx_draw_game_seq"`
	Number    int       `gorm:"not null;uniqueIndex:idx_draw_game_number"`
	Seq       int       `gorm:"not null;index:idx_draw_game_seq"`
	CreatedAt time.Time `gorm:"not null"`
}
