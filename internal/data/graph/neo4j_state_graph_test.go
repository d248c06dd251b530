package graph

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/puzzlegraph/internal/domain/puzzle"
	"github.com/yungbote/puzzlegraph/internal/loader"
	"github.com/yungbote/puzzlegraph/internal/platform/logger"
	"github.com/yungbote/puzzlegraph/internal/platform/neo4jdb"
	"github.com/yungbote/puzzlegraph/internal/statespace"
)

func TestStateRowsRejectsInvalidConfigurations(t *testing.T) {
	states := []puzzle.State{
		{ID: 1, Config: puzzle.NewConfiguration([]int{1, 2, 3, 0})},
		{ID: 2, Config: puzzle.NewConfiguration([]int{1, 2, 2, 0})},
	}
	results := make([]error, len(states))
	rows := stateRows("puzzle3", uuid.Nil, time.Unix(0, 0), states, results)

	if len(rows) != 1 {
		t.Fatalf("rows: want=1 got=%d", len(rows))
	}
	if rows[0]["id"] != "s1" || rows[0]["idx"] != int64(0) {
		t.Fatalf("row: got=%v", rows[0])
	}
	pos, ok := rows[0]["posList"].([]int64)
	if !ok || len(pos) != 4 || pos[3] != 0 {
		t.Fatalf("posList: got=%v", rows[0]["posList"])
	}
	if !errors.Is(results[1], loader.ErrInvalidConfiguration) {
		t.Fatalf("results[1]: want=%v got=%v", loader.ErrInvalidConfiguration, results[1])
	}
}

func TestMoveRowsRejectsUnorderedEdges(t *testing.T) {
	moves := []puzzle.MoveEdge{{From: 1, To: 2}, {From: 3, To: 3}, {From: 0, To: 1}}
	results := make([]error, len(moves))
	rows := moveRows("puzzle3", uuid.Nil, time.Unix(0, 0), moves, results)
	if len(rows) != 1 || rows[0]["from_id"] != "s1" || rows[0]["to_id"] != "s2" {
		t.Fatalf("rows: got=%v", rows)
	}
	for _, i := range []int{1, 2} {
		if !errors.Is(results[i], loader.ErrInvalidEdge) {
			t.Fatalf("results[%d]: want=%v got=%v", i, loader.ErrInvalidEdge, results[i])
		}
	}
}

func TestApplyAcks(t *testing.T) {
	invalid := errors.New("invalid")
	results := []error{nil, invalid, nil, nil}
	acks := []ack{{idx: 0, ok: true}, {idx: 2, ok: false}, {idx: 9, ok: true}}
	applyAcks(results, acks, func(i int) error { return loader.ErrMissingEndpoint })

	if results[0] != nil {
		t.Fatalf("results[0]: want=nil got=%v", results[0])
	}
	if results[1] != invalid {
		t.Fatalf("results[1] must keep local rejection, got=%v", results[1])
	}
	if !errors.Is(results[2], loader.ErrMissingEndpoint) {
		t.Fatalf("results[2]: want=%v got=%v", loader.ErrMissingEndpoint, results[2])
	}
	if !errors.Is(results[3], errNotAcknowledged) {
		t.Fatalf("results[3]: want=%v got=%v", errNotAcknowledged, results[3])
	}
}

func TestStateGraphSinkIntegration(t *testing.T) {
	uri := os.Getenv("NEO4J_TEST_URI")
	if uri == "" {
		t.Skip("set NEO4J_TEST_URI to run neo4j integration tests")
	}
	ctx := context.Background()
	log := logger.Nop()
	client, err := neo4jdb.New(ctx, neo4jdb.Config{
		URI:      uri,
		User:     os.Getenv("NEO4J_TEST_USER"),
		Password: os.Getenv("NEO4J_TEST_PASSWORD"),
	}, log)
	if err != nil {
		t.Fatalf("neo4jdb.New: %v", err)
	}
	defer client.Close(ctx)

	graph := "test_" + uuid.NewString()
	sink, err := NewStateGraphSink(client, log, graph, uuid.New())
	if err != nil {
		t.Fatalf("NewStateGraphSink: %v", err)
	}
	sink.EnsureSchema(ctx)
	t.Cleanup(func() {
		session := sink.session(ctx)
		defer session.Close(ctx)
		if res, err := session.Run(ctx, `MATCH (s:State {graph: $graph}) DETACH DELETE s`, map[string]any{"graph": graph}); err == nil {
			_, _ = res.Consume(ctx)
		}
	})

	space, err := statespace.Enumerate(statespace.DefaultTiles(2))
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	edges, err := statespace.BuildMoves(space)
	if err != nil {
		t.Fatalf("BuildMoves: %v", err)
	}

	res, err := sink.InsertMoves(ctx, edges[:1])
	if err != nil {
		t.Fatalf("InsertMoves before states: %v", err)
	}
	if !errors.Is(res[0], loader.ErrMissingEndpoint) {
		t.Fatalf("move before states: want=%v got=%v", loader.ErrMissingEndpoint, res[0])
	}

	l, err := loader.New(sink, log, loader.Options{StateBatchSize: 10, MoveBatchSize: 10})
	if err != nil {
		t.Fatalf("loader.New: %v", err)
	}
	rep, err := l.Run(ctx, space.States, edges)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.States.Succeeded != 24 || rep.Moves.Succeeded != 24 {
		t.Fatalf("report: %+v", rep)
	}

	conflict, err := sink.InsertStates(ctx, []puzzle.State{{ID: 1, Config: space.States[1].Config}})
	if err != nil {
		t.Fatalf("InsertStates: %v", err)
	}
	if !errors.Is(conflict[0], loader.ErrStateConflict) {
		t.Fatalf("conflict: want=%v got=%v", loader.ErrStateConflict, conflict[0])
	}
}
