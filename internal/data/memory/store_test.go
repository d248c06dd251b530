package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/puzzlegraph/internal/domain/puzzle"
	"github.com/yungbote/puzzlegraph/internal/loader"
	"github.com/yungbote/puzzlegraph/internal/platform/logger"
	"github.com/yungbote/puzzlegraph/internal/statespace"
)

func TestStoreEightPuzzleLoad(t *testing.T) {
	space, err := statespace.Enumerate(statespace.DefaultTiles(3))
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	edges, err := statespace.BuildMoves(space)
	if err != nil {
		t.Fatalf("BuildMoves: %v", err)
	}

	store := NewStore()
	l, err := loader.New(store, logger.Nop(), loader.Options{StateBatchSize: 50000, MoveBatchSize: 50000})
	if err != nil {
		t.Fatalf("loader.New: %v", err)
	}
	rep, err := l.Run(context.Background(), space.States, edges)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.States.Batches != 8 || rep.Moves.Batches != 10 {
		t.Fatalf("batches: want states=8 moves=10 got states=%d moves=%d", rep.States.Batches, rep.Moves.Batches)
	}
	if rep.States.Failed() != 0 || rep.Moves.Failed() != 0 {
		t.Fatalf("unexpected failures: %+v", rep)
	}
	if store.CountStates() != 362880 || store.CountMoves() != 483840 {
		t.Fatalf("stored: states=%d moves=%d", store.CountStates(), store.CountMoves())
	}

	// Every stored move really is one blank slide.
	for _, e := range edges[:1000] {
		from, _ := store.Config(e.From)
		to, _ := store.Config(e.To)
		diff := 0
		for i := 0; i < from.Len(); i++ {
			if from.At(i) != to.At(i) {
				diff++
			}
		}
		if diff != 2 {
			t.Fatalf("%s: configurations differ in %d cells", e, diff)
		}
	}
}

func TestStoreRejections(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	cfg := puzzle.NewConfiguration([]int{1, 2, 3, 0})

	res, _ := store.InsertStates(ctx, []puzzle.State{
		{ID: 1, Config: cfg},
		{ID: 1, Config: cfg.Swap(0, 1)},
		{ID: 2, Config: puzzle.NewConfiguration([]int{1, 2, 3})},
	})
	if res[0] != nil {
		t.Fatalf("res[0]: %v", res[0])
	}
	if !errors.Is(res[1], loader.ErrStateConflict) {
		t.Fatalf("res[1]: want=%v got=%v", loader.ErrStateConflict, res[1])
	}
	if !errors.Is(res[2], loader.ErrInvalidConfiguration) {
		t.Fatalf("res[2]: want=%v got=%v", loader.ErrInvalidConfiguration, res[2])
	}

	res, _ = store.InsertMoves(ctx, []puzzle.MoveEdge{{From: 1, To: 2}, {From: 2, To: 1}})
	if !errors.Is(res[0], loader.ErrMissingEndpoint) {
		t.Fatalf("res[0]: want=%v got=%v", loader.ErrMissingEndpoint, res[0])
	}
	if !errors.Is(res[1], loader.ErrInvalidEdge) {
		t.Fatalf("res[1]: want=%v got=%v", loader.ErrInvalidEdge, res[1])
	}
	if store.HasMove(2, 1) {
		t.Fatalf("rejected move was stored")
	}
}

func TestStoreCancelledContextFailsWholesale(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewStore().InsertStates(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got=%v", err)
	}
}
