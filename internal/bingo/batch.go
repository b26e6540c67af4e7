package bingo

import "bingo-cards-backend/internal/rng"

// GenerateBatch produces count cards numbered 1..count with distinct contents.
// Each card is checked against the cards accepted before it. A card gets
// MaxAttempts attempts in total to differ; the last one is accepted even if it
// still collides.
func GenerateBatch(count int, src rng.Source) []Card {
	return generateBatch(count, func(n int) Card { return Generate(n, src) })
}

func generateBatch(count int, gen func(n int) Card) []Card {
	if count <= 0 {
		return []Card{}
	}

	cards := make([]Card, 0, count)
	hashes := make(map[string]struct{}, count)
	for i := 1; i <= count; i++ {
		card := gen(i)
		for attempt := 1; attempt < MaxAttempts; attempt++ {
			if _, dup := hashes[card.Cells.Hash()]; !dup {
				break
			}
			card = gen(i)
		}
		hashes[card.Cells.Hash()] = struct{}{}
		cards = append(cards, card)
	}
	return cards
}

// NewGame generates a batch tagged with id; card titles are derived from id and number.
func NewGame(id GameID, count int, src rng.Source) Game {
	cards := GenerateBatch(count, src)
	for i := range cards {
		cards[i].Title = NewCardID(id, cards[i].Number)
	}
	return Game{ID: id, Cards: cards}
}
