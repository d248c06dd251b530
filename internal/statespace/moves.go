package statespace

import (
	"github.com/yungbote/puzzlegraph/internal/domain/puzzle"
)

// Neighbors returns the configurations reachable from cfg by sliding one tile
// into the blank, in puzzle.Moves order. Corners yield 2, edges 3, interior 4.
func Neighbors(board puzzle.Board, cfg puzzle.Configuration) []puzzle.Configuration {
	blank := cfg.BlankIndex()
	if blank < 0 {
		return nil
	}
	row, col := board.Pos(blank)
	out := make([]puzzle.Configuration, 0, len(puzzle.Moves))
	for _, m := range puzzle.Moves {
		r, c := row+m.DRow, col+m.DCol
		if !board.Contains(r, c) {
			continue
		}
		out = append(out, cfg.Swap(blank, board.Index(r, c)))
	}
	return out
}

// BuildMoves derives every undirected move edge of the space exactly once.
// An edge is emitted only while visiting its smaller endpoint.
func BuildMoves(space *Space) ([]puzzle.MoveEdge, error) {
	edges := make([]puzzle.MoveEdge, 0, expectedEdges(space))
	for _, st := range space.States {
		for _, next := range Neighbors(space.Board, st.Config) {
			nextID, ok := space.Lookup(next)
			if !ok {
				return nil, &ConsistencyError{From: st, Neighbor: next}
			}
			if st.ID.Less(nextID) {
				edges = append(edges, puzzle.MoveEdge{From: st.ID, To: nextID})
			}
		}
	}
	return edges, nil
}

// expectedEdges is half the summed degree over all blank positions, scaled by
// the number of states sharing each blank position.
func expectedEdges(space *Space) int {
	cells := space.Board.Cells()
	if cells == 0 || space.Len() == 0 {
		return 0
	}
	degree := 0
	for i := 0; i < cells; i++ {
		row, col := space.Board.Pos(i)
		for _, m := range puzzle.Moves {
			if space.Board.Contains(row+m.DRow, col+m.DCol) {
				degree++
			}
		}
	}
	return space.Len() / cells * degree / 2
}
