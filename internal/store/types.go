package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a game id does not exist.
var ErrNotFound = errors.New("game not found")

// GameSummary describes a stored game without its cards.
type GameSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CardCount int       `json:"cardCount"`
	CreatedAt time.Time `json:"createdAt"`
}
