package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/puzzlegraph/internal/loader"
	"github.com/yungbote/puzzlegraph/internal/statespace"
)

// Result summarizes one run. Report is empty for dry runs.
type Result struct {
	States int
	Moves  int
	Report loader.Report
}

// Run enumerates the state space, derives the move graph, and loads both
// into the sink, states first.
func (a *App) Run(ctx context.Context) (Result, error) {
	var res Result
	tracer := otel.Tracer("github.com/yungbote/puzzlegraph/internal/app")
	ctx, span := tracer.Start(ctx, "puzzlegraph.run")
	defer span.End()

	_, enumSpan := tracer.Start(ctx, "statespace.enumerate")
	space, err := statespace.Enumerate(statespace.DefaultTiles(a.Cfg.BoardSide))
	enumSpan.End()
	if err != nil {
		return res, fmt.Errorf("enumerate states: %w", err)
	}
	res.States = space.Len()
	a.Log.Info("Generated puzzle states", "states", res.States, "board_side", a.Cfg.BoardSide)

	_, movesSpan := tracer.Start(ctx, "statespace.build_moves")
	moves, err := statespace.BuildMoves(space)
	movesSpan.End()
	if err != nil {
		return res, fmt.Errorf("build moves: %w", err)
	}
	res.Moves = len(moves)
	a.Log.Info("Generated legal movements", "moves", res.Moves)
	span.SetAttributes(attribute.Int("states", res.States), attribute.Int("moves", res.Moves))

	if a.Cfg.DryRun {
		a.Log.Info("Dry run, skipping load")
		return res, nil
	}

	l, err := loader.New(a.Sink, a.Log, loader.Options{
		StateBatchSize: a.Cfg.StateBatchSize,
		MoveBatchSize:  a.Cfg.MoveBatchSize,
		Progress:       a.progress,
	})
	if err != nil {
		return res, err
	}
	res.Report, err = l.Run(ctx, space.States, moves)
	if err != nil {
		return res, fmt.Errorf("load: %w", err)
	}
	return res, nil
}
