package bingo

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	Rows        = 3
	Columns     = 9
	Size        = Rows * Columns
	PerRow      = 5
	MaxAttempts = 100
)

// CardID is the display title of a card.
type CardID string

// GameID tags a batch of cards, typically the event header or upload filename.
type GameID string

// NewCardID composes a card title from its game tag and sequence number.
// Cards without a game tag are titled by number alone.
func NewCardID(game GameID, number int) CardID {
	if game == "" {
		return CardID(strconv.Itoa(number))
	}
	return CardID(fmt.Sprintf("%s-%d", game, number))
}

// Cells holds the 27 slots of a card in row-major order. Zero marks an empty slot.
type Cells [Size]int

// At returns the value at row r, column c.
func (cs Cells) At(r, c int) int {
	return cs[r*Columns+c]
}

// Row returns the values of row r.
func (cs Cells) Row(r int) [Columns]int {
	var row [Columns]int
	copy(row[:], cs[r*Columns:(r+1)*Columns])
	return row
}

// Filled returns the non-empty values in slot order.
func (cs Cells) Filled() []int {
	out := make([]int, 0, Rows*PerRow)
	for _, v := range cs {
		if v != 0 {
			out = append(out, v)
		}
	}
	return out
}

// Hash is the content key used to detect duplicate cards within a batch.
func (cs Cells) Hash() string {
	parts := make([]string, Size)
	for i, v := range cs {
		if v != 0 {
			parts[i] = strconv.Itoa(v)
		}
	}
	return strings.Join(parts, ",")
}

// MarshalJSON encodes empty slots as null.
func (cs Cells) MarshalJSON() ([]byte, error) {
	out := make([]*int, Size)
	for i := range cs {
		if cs[i] != 0 {
			v := cs[i]
			out[i] = &v
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a 27-element array where null marks an empty slot.
func (cs *Cells) UnmarshalJSON(data []byte) error {
	var in []*int
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if len(in) != Size {
		return fmt.Errorf("cells: expected %d slots, got %d", Size, len(in))
	}
	for i, v := range in {
		if v == nil {
			cs[i] = 0
		} else {
			cs[i] = *v
		}
	}
	return nil
}

// Card is one physical 90-ball ticket.
type Card struct {
	Title  CardID `json:"title"`
	Number int    `json:"number"`
	Cells  Cells  `json:"cells"`
}

// Game is a named batch of cards.
type Game struct {
	ID    GameID `json:"filename"`
	Cards []Card `json:"cards"`
}

// CardByNumber finds the card with the given sequence number.
func (g Game) CardByNumber(n int) (Card, bool) {
	for _, c := range g.Cards {
		if c.Number == n {
			return c, true
		}
	}
	return Card{}, false
}

// ColumnRange returns the inclusive value range of column c.
// Column 8 stops at 89, so 90 is never generated.
func ColumnRange(c int) (min, max int) {
	switch c {
	case 0:
		return 1, 9
	case Columns - 1:
		return 80, 89
	default:
		return c * 10, c*10 + 9
	}
}
