package bingo

import (
	"sort"
	"strconv"
	"strings"

	"bingo-cards-backend/internal/rng"
)

// Generate builds one card numbered n from src.
//
// A construction is retried up to MaxAttempts times when it leaves two rows
// identical or misses the five-per-row target. If every attempt fails, a single
// unchecked construction drawn from the system source is returned instead.
func Generate(n int, src rng.Source) Card {
	card := Card{Title: NewCardID("", n), Number: n}
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		cells := seedColumns(src)
		adjustRows(&cells, src)
		if rowsBalanced(cells) && !hasDuplicateRow(cells) {
			card.Cells = cells
			return card
		}
	}

	sys := rng.System()
	cells := seedColumns(sys)
	adjustRows(&cells, sys)
	card.Cells = cells
	return card
}

// seedColumns places two ascending values in every column, leaving one random row empty.
func seedColumns(src rng.Source) Cells {
	var cells Cells
	for c := 0; c < Columns; c++ {
		min, max := ColumnRange(c)
		a := rng.Between(src, min, max)
		b := a
		for try := 0; b == a && try < MaxAttempts; try++ {
			b = rng.Between(src, min, max)
		}
		if b == a {
			// Degenerate source; take the neighbour so the column stays distinct.
			b = a + 1
			if b > max {
				b = a - 1
			}
		}
		if b < a {
			a, b = b, a
		}

		skip := rng.Intn(src, Rows)
		vals := []int{a, b}
		for r := 0; r < Rows; r++ {
			if r == skip {
				continue
			}
			cells[r*Columns+c] = vals[0]
			vals = vals[1:]
		}
	}
	return cells
}

// adjustRows trims or pads every row to exactly PerRow filled slots.
func adjustRows(cells *Cells, src rng.Source) {
	for r := 0; r < Rows; r++ {
		filled := rowCount(cells, r)

		for filled > PerRow {
			var candidates []int
			for c := 0; c < Columns; c++ {
				idx := r*Columns + c
				if cells[idx] != 0 && columnCount(cells, c) > 1 {
					candidates = append(candidates, idx)
				}
			}
			if len(candidates) == 0 {
				break
			}
			cells[candidates[rng.Intn(src, len(candidates))]] = 0
			filled--
		}

		if filled < PerRow {
			var empty []int
			for c := 0; c < Columns; c++ {
				if cells[r*Columns+c] == 0 {
					empty = append(empty, c)
				}
			}
			for filled < PerRow && len(empty) > 0 {
				i := rng.Intn(src, len(empty))
				c := empty[i]
				empty = append(empty[:i], empty[i+1:]...)

				v, ok := freshValue(cells, c, src)
				if !ok {
					continue
				}
				cells[r*Columns+c] = v
				sortColumn(cells, c)
				filled++
			}
		}
	}
}

// freshValue picks a value in column c's range that is not yet on the card.
func freshValue(cells *Cells, c int, src rng.Source) (int, bool) {
	min, max := ColumnRange(c)
	for try := 0; try < MaxAttempts; try++ {
		v := rng.Between(src, min, max)
		if !contains(cells, v) {
			return v, true
		}
	}
	return 0, false
}

// sortColumn reorders the filled values of column c ascending from top to bottom.
func sortColumn(cells *Cells, c int) {
	var rows, vals []int
	for r := 0; r < Rows; r++ {
		if v := cells[r*Columns+c]; v != 0 {
			rows = append(rows, r)
			vals = append(vals, v)
		}
	}
	sort.Ints(vals)
	for i, r := range rows {
		cells[r*Columns+c] = vals[i]
	}
}

func contains(cells *Cells, v int) bool {
	for _, x := range cells {
		if x == v {
			return true
		}
	}
	return false
}

func rowCount(cells *Cells, r int) int {
	n := 0
	for c := 0; c < Columns; c++ {
		if cells[r*Columns+c] != 0 {
			n++
		}
	}
	return n
}

func columnCount(cells *Cells, c int) int {
	n := 0
	for r := 0; r < Rows; r++ {
		if cells[r*Columns+c] != 0 {
			n++
		}
	}
	return n
}

func rowsBalanced(cells Cells) bool {
	for r := 0; r < Rows; r++ {
		if rowCount(&cells, r) != PerRow {
			return false
		}
	}
	return true
}

func rowSignature(cells Cells, r int) string {
	parts := make([]string, Columns)
	for c := 0; c < Columns; c++ {
		if v := cells.At(r, c); v != 0 {
			parts[c] = strconv.Itoa(v)
		}
	}
	return strings.Join(parts, ",")
}

func hasDuplicateRow(cells Cells) bool {
	seen := make(map[string]struct{}, Rows)
	for r := 0; r < Rows; r++ {
		sig := rowSignature(cells, r)
		if _, ok := seen[sig]; ok {
			return true
		}
		seen[sig] = struct{}{}
	}
	return false
}
