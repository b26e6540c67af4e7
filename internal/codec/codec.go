// Package codec reads and writes the .bingoCards text format.
//
// A file is a single line of card segments, each introduced by '|':
//
//	|CardNo.1;5;;21;...;88|CardNo.2;...
//
// A segment holds the CardNo.<n> token followed by 27 ';'-separated cells,
// where an empty field is an empty cell.
package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bingo-cards-backend/internal/bingo"
)

const (
	Extension     = ".bingoCards"
	CardSeparator = "|"
	FieldSep      = ";"
	CardPrefix    = "CardNo."
	// TokensPerCard counts the CardNo token plus one field per cell.
	TokensPerCard = bingo.Size + 1
)

// ErrMalformedSegment is returned by Parse for a card segment it cannot decode.
var ErrMalformedSegment = errors.New("malformed segment")

// Serialize encodes the cards of g.
func Serialize(g bingo.Game) string {
	var b strings.Builder
	for _, c := range g.Cards {
		b.WriteString(CardSeparator)
		b.WriteString(CardPrefix)
		b.WriteString(strconv.Itoa(c.Number))
		for _, v := range c.Cells {
			b.WriteString(FieldSep)
			if v != 0 {
				b.WriteString(strconv.Itoa(v))
			}
		}
	}
	return b.String()
}

// Parse decodes content into a game tagged filename. Card titles are derived
// from filename and each card's number. Parse checks only what it needs to
// decode; untrusted input should go through upload.Validate first.
func Parse(filename bingo.GameID, content string) (bingo.Game, error) {
	game := bingo.Game{ID: filename, Cards: []bingo.Card{}}

	segments := strings.Split(content, CardSeparator)
	if len(segments) > 0 && segments[0] == "" {
		segments = segments[1:]
	}

	for i, seg := range segments {
		card, err := parseSegment(filename, seg)
		if err != nil {
			return bingo.Game{}, fmt.Errorf("card %d: %w", i+1, err)
		}
		game.Cards = append(game.Cards, card)
	}
	return game, nil
}

func parseSegment(filename bingo.GameID, seg string) (bingo.Card, error) {
	tokens := strings.Split(seg, FieldSep)
	if len(tokens) != TokensPerCard {
		return bingo.Card{}, fmt.Errorf("%w: %d tokens, want %d", ErrMalformedSegment, len(tokens), TokensPerCard)
	}

	numStr, ok := strings.CutPrefix(tokens[0], CardPrefix)
	if !ok {
		return bingo.Card{}, fmt.Errorf("%w: missing %q prefix in %q", ErrMalformedSegment, CardPrefix, tokens[0])
	}
	number, err := strconv.Atoi(numStr)
	if err != nil {
		return bingo.Card{}, fmt.Errorf("%w: bad card number %q", ErrMalformedSegment, numStr)
	}

	card := bingo.Card{Title: bingo.NewCardID(filename, number), Number: number}
	for i, tok := range tokens[1:] {
		if tok == "" {
			continue
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return bingo.Card{}, fmt.Errorf("%w: cell %d is not a number: %q", ErrMalformedSegment, i, tok)
		}
		card.Cells[i] = v
	}
	return card, nil
}

// ExportFilename names a download as <header>-<YYYYMMDD-HHMM>.bingoCards.
func ExportFilename(header string, t time.Time) string {
	return fmt.Sprintf("%s-%s%s", header, t.Format("20060102-1504"), Extension)
}

// GameIDFromFilename strips the .bingoCards extension from an upload name.
func GameIDFromFilename(name string) bingo.GameID {
	if len(name) >= len(Extension) && strings.EqualFold(name[len(name)-len(Extension):], Extension) {
		name = name[:len(name)-len(Extension)]
	}
	return bingo.GameID(name)
}
