package draw

import (
	"errors"
	"fmt"
)

const (
	MinNumber = 1
	MaxNumber = 89
)

var (
	ErrOutOfRange   = errors.New("number out of range")
	ErrAlreadyDrawn = errors.New("number already drawn")
)

// State is the append-only sequence of numbers called in a live game.
type State struct {
	numbers []int
	seen    map[int]struct{}
}

// NewState creates an empty draw.
func NewState() *State {
	return &State{seen: make(map[int]struct{})}
}

// FromNumbers rebuilds a state from a previously recorded sequence.
func FromNumbers(numbers []int) (*State, error) {
	s := NewState()
	for _, n := range numbers {
		if err := s.Add(n); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends n to the draw.
func (s *State) Add(n int) error {
	if n < MinNumber || n > MaxNumber {
		return fmt.Errorf("%w: %d not in [%d,%d]", ErrOutOfRange, n, MinNumber, MaxNumber)
	}
	if _, ok := s.seen[n]; ok {
		return fmt.Errorf("%w: %d", ErrAlreadyDrawn, n)
	}
	s.seen[n] = struct{}{}
	s.numbers = append(s.numbers, n)
	return nil
}

// Contains reports whether n has been drawn.
func (s *State) Contains(n int) bool {
	_, ok := s.seen[n]
	return ok
}

// Numbers returns a copy of the drawn sequence in call order.
func (s *State) Numbers() []int {
	out := make([]int, len(s.numbers))
	copy(out, s.numbers)
	return out
}

// Len returns how many numbers have been drawn.
func (s *State) Len() int { return len(s.numbers) }

// Reset clears the draw for a restart.
func (s *State) Reset() {
	s.numbers = nil
	s.seen = make(map[int]struct{})
}
