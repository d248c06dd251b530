package statespace

import (
	"errors"
	"testing"

	"github.com/yungbote/puzzlegraph/internal/domain/puzzle"
)

func TestNeighborsDegreeByBlankPosition(t *testing.T) {
	space, err := Enumerate(DefaultTiles(3))
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	directed := 0
	for _, st := range space.States {
		row, col := space.Board.Pos(st.Config.BlankIndex())
		want := 4
		onRowEdge := row == 0 || row == 2
		onColEdge := col == 0 || col == 2
		switch {
		case onRowEdge && onColEdge:
			want = 2
		case onRowEdge || onColEdge:
			want = 3
		}
		got := len(Neighbors(space.Board, st.Config))
		if got != want {
			t.Fatalf("%s blank at (%d,%d): want=%d neighbors got=%d", st.ID, row, col, want, got)
		}
		directed += got
	}
	if directed != 967680 {
		t.Fatalf("directed adjacencies: want=967680 got=%d", directed)
	}
}

func TestBuildMovesEightPuzzle(t *testing.T) {
	space, err := Enumerate(DefaultTiles(3))
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	edges, err := BuildMoves(space)
	if err != nil {
		t.Fatalf("BuildMoves: %v", err)
	}
	if len(edges) != 483840 {
		t.Fatalf("edge count: want=483840 got=%d", len(edges))
	}
	if len(edges) != expectedEdges(space) {
		t.Fatalf("expectedEdges: want=%d got=%d", len(edges), expectedEdges(space))
	}

	seen := make(map[puzzle.MoveEdge]struct{}, len(edges))
	for _, e := range edges {
		if !e.From.Less(e.To) {
			t.Fatalf("edge %s not ordered smaller to larger", e)
		}
		if _, dup := seen[e]; dup {
			t.Fatalf("duplicate edge %s", e)
		}
		seen[e] = struct{}{}
	}
}

func TestBuildMovesTwoByTwo(t *testing.T) {
	space, err := Enumerate(DefaultTiles(2))
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	if space.Len() != 24 {
		t.Fatalf("state count: want=24 got=%d", space.Len())
	}
	for _, st := range space.States {
		if n := len(Neighbors(space.Board, st.Config)); n != 2 {
			t.Fatalf("%s: want=2 neighbors got=%d", st.ID, n)
		}
	}
	edges, err := BuildMoves(space)
	if err != nil {
		t.Fatalf("BuildMoves: %v", err)
	}
	if len(edges) != 24 {
		t.Fatalf("edge count: want=24 got=%d", len(edges))
	}

	// s1 = [1 2 / 3 0]: blank moves up to [1 0 / 3 2] and left to [1 2 / 0 3].
	up, _ := space.Lookup(puzzle.NewConfiguration([]int{1, 0, 3, 2}))
	left, _ := space.Lookup(puzzle.NewConfiguration([]int{1, 2, 0, 3}))
	if edges[0] != (puzzle.MoveEdge{From: 1, To: up}) {
		t.Fatalf("edge[0]: want=s1-%s got=%s", up, edges[0])
	}
	if edges[1] != (puzzle.MoveEdge{From: 1, To: left}) {
		t.Fatalf("edge[1]: want=s1-%s got=%s", left, edges[1])
	}
}

func TestBuildMovesMissingNeighborIsFatal(t *testing.T) {
	space, err := Enumerate(DefaultTiles(2))
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	victim := space.States[5].Config
	delete(space.index, victim)

	_, err = BuildMoves(space)
	var ce *ConsistencyError
	if !errors.As(err, &ce) {
		t.Fatalf("want *ConsistencyError, got=%v", err)
	}
	if ce.Neighbor != victim {
		t.Fatalf("neighbor: want=%s got=%s", victim, ce.Neighbor)
	}
}
