package bingo

import (
	"errors"
	"fmt"
)

// ErrInvalidCard is wrapped by every structural violation reported by Check.
var ErrInvalidCard = errors.New("invalid card")

// Check reports the first structural rule the card breaks, or nil.
func Check(cells Cells) error {
	seen := make(map[int]struct{}, Rows*PerRow)

	for r := 0; r < Rows; r++ {
		if n := rowCount(&cells, r); n != PerRow {
			return fmt.Errorf("%w: row %d has %d numbers, want %d", ErrInvalidCard, r, n, PerRow)
		}
	}

	for c := 0; c < Columns; c++ {
		min, max := ColumnRange(c)
		prev := 0
		count := 0
		for r := 0; r < Rows; r++ {
			v := cells.At(r, c)
			if v == 0 {
				continue
			}
			count++
			if v < min || v > max {
				return fmt.Errorf("%w: value %d outside column %d range [%d,%d]", ErrInvalidCard, v, c, min, max)
			}
			if v <= prev {
				return fmt.Errorf("%w: column %d is not ascending at row %d", ErrInvalidCard, c, r)
			}
			if _, dup := seen[v]; dup {
				return fmt.Errorf("%w: value %d appears twice", ErrInvalidCard, v)
			}
			seen[v] = struct{}{}
			prev = v
		}
		if count == 0 {
			return fmt.Errorf("%w: column %d is empty", ErrInvalidCard, c)
		}
	}

	if hasDuplicateRow(cells) {
		return fmt.Errorf("%w: duplicate rows", ErrInvalidCard)
	}
	return nil
}
