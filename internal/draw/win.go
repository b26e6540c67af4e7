package draw

import "bingo-cards-backend/internal/bingo"

// lineSlots are the flat indices inspected per row by HasLine: columns 0..4 of
// each row, not the full nine columns.
var lineSlots = [bingo.Rows][bingo.PerRow]int{
	{0, 1, 2, 3, 4},
	{9, 10, 11, 12, 13},
	{18, 19, 20, 21, 22},
}

// Drawn is anything that can answer whether a number was called.
type Drawn interface {
	Contains(n int) bool
}

// Set is a Drawn built from a plain list of numbers.
type Set map[int]struct{}

// NewSet builds a Set from numbers.
func NewSet(numbers []int) Set {
	s := make(Set, len(numbers))
	for _, n := range numbers {
		s[n] = struct{}{}
	}
	return s
}

// Contains reports whether n is in the set.
func (s Set) Contains(n int) bool {
	_, ok := s[n]
	return ok
}

// HasLine reports whether any group in lineSlots has all its filled cells drawn.
// Empty cells always count as covered.
func HasLine(cells bingo.Cells, drawn Drawn) bool {
	for _, slots := range lineSlots {
		if covered(cells, slots[:], drawn) {
			return true
		}
	}
	return false
}

// HasBingo reports whether every filled cell on the card has been drawn.
func HasBingo(cells bingo.Cells, drawn Drawn) bool {
	for _, v := range cells {
		if v != 0 && !drawn.Contains(v) {
			return false
		}
	}
	return true
}

func covered(cells bingo.Cells, slots []int, drawn Drawn) bool {
	for _, i := range slots {
		if v := cells[i]; v != 0 && !drawn.Contains(v) {
			return false
		}
	}
	return true
}
