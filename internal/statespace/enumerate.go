package statespace

import (
	"fmt"

	"github.com/yungbote/puzzlegraph/internal/domain/puzzle"
)

// MaxSide is the largest board whose full permutation set fits in memory.
const MaxSide = 3

// Space is the enumerated state space. It owns the canonical state list and
// the configuration index; callers only read from it.
type Space struct {
	Board  puzzle.Board
	States []puzzle.State
	index  map[puzzle.Configuration]puzzle.StateID
}

// DefaultTiles returns the base tile list for a side x side board:
// 1..K-1 followed by the blank, so that s1 is the solved configuration.
func DefaultTiles(side int) []int {
	k := side * side
	tiles := make([]int, 0, k)
	for v := 1; v < k; v++ {
		tiles = append(tiles, v)
	}
	if k > 0 {
		tiles = append(tiles, puzzle.Blank)
	}
	return tiles
}

// Enumerate produces every permutation of tiles exactly once, assigning ids
// s1, s2, ... in generation order.
//
// Generation order is lexicographic over the positions of the input list:
// the first permutation is tiles itself, and the last is tiles reversed.
// Identifier order (and therefore edge deduplication) depends on this order,
// so it must not change.
func Enumerate(tiles []int) (*Space, error) {
	side, err := boardSide(len(tiles))
	if err != nil {
		return nil, err
	}
	if err := validateTiles(tiles); err != nil {
		return nil, err
	}

	total := factorial(len(tiles))
	space := &Space{
		Board:  puzzle.Board{Side: side},
		States: make([]puzzle.State, 0, total),
		index:  make(map[puzzle.Configuration]puzzle.StateID, total),
	}

	perm := make([]int, len(tiles))
	for i := range perm {
		perm[i] = i
	}
	cells := make([]int, len(tiles))
	var counter puzzle.StateID
	for {
		for i, p := range perm {
			cells[i] = tiles[p]
		}
		counter++
		cfg := puzzle.NewConfiguration(cells)
		space.States = append(space.States, puzzle.State{ID: counter, Config: cfg})
		space.index[cfg] = counter
		if !nextPermutation(perm) {
			break
		}
	}
	return space, nil
}

func (s *Space) Len() int { return len(s.States) }

// Lookup returns the identifier of cfg.
func (s *Space) Lookup(cfg puzzle.Configuration) (puzzle.StateID, bool) {
	id, ok := s.index[cfg]
	return id, ok
}

// State returns the state with the given id.
func (s *Space) State(id puzzle.StateID) (puzzle.State, bool) {
	if id == 0 || int(id) > len(s.States) {
		return puzzle.State{}, false
	}
	return s.States[id-1], true
}

func boardSide(k int) (int, error) {
	if k <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidTileCount, k)
	}
	side := 0
	for side*side < k {
		side++
	}
	if side*side != k {
		return 0, fmt.Errorf("%w: %d", ErrInvalidTileCount, k)
	}
	if side > MaxSide {
		return 0, fmt.Errorf("%w: side %d exceeds %d", ErrBoardTooLarge, side, MaxSide)
	}
	return side, nil
}

func validateTiles(tiles []int) error {
	seen := make([]bool, len(tiles))
	for _, v := range tiles {
		if v < 0 || v >= len(tiles) || seen[v] {
			return fmt.Errorf("%w: %v", ErrInvalidTiles, tiles)
		}
		seen[v] = true
	}
	return nil
}

// nextPermutation advances p to its lexicographic successor in place and
// reports false once p is the last permutation.
func nextPermutation(p []int) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	for l, r := i+1, len(p)-1; l < r; l, r = l+1, r-1 {
		p[l], p[r] = p[r], p[l]
	}
	return true
}

func factorial(n int) int {
	f := 1
	for i := 2; i <= n; i++ {
		f *= i
	}
	return f
}
