package statespace

import (
	"errors"
	"fmt"

	"github.com/yungbote/puzzlegraph/internal/domain/puzzle"
)

var (
	ErrInvalidTileCount = errors.New("tile count is not a positive perfect square")
	ErrInvalidTiles     = errors.New("tiles are not a permutation of 0..K-1")
	ErrBoardTooLarge    = errors.New("board too large to enumerate")
)

// ConsistencyError reports a derived neighbor that is missing from the state
// space. It means enumeration or move derivation is broken and is never
// recoverable.
type ConsistencyError struct {
	From     puzzle.State
	Neighbor puzzle.Configuration
}

func (e *ConsistencyError) Error() string {
	if e == nil {
		return "state space consistency fault"
	}
	return fmt.Sprintf(
		"state space consistency fault: neighbor %s of %s (%s) not enumerated",
		e.Neighbor,
		e.From.ID,
		e.From.Config,
	)
}
