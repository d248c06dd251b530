package puzzle

// Board is a square grid of Side x Side cells.
type Board struct {
	Side int
}

func (b Board) Cells() int { return b.Side * b.Side }

func (b Board) Pos(index int) (row, col int) {
	return index / b.Side, index % b.Side
}

func (b Board) Index(row, col int) int { return row*b.Side + col }

func (b Board) Contains(row, col int) bool {
	return row >= 0 && row < b.Side && col >= 0 && col < b.Side
}

// Offset is a unit step of the blank.
type Offset struct {
	DRow int
	DCol int
}

// Moves lists the blank's steps in the order they are tried: up, down, left, right.
var Moves = [4]Offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
