package loader

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/puzzlegraph/internal/batch"
	"github.com/yungbote/puzzlegraph/internal/domain/puzzle"
	"github.com/yungbote/puzzlegraph/internal/platform/logger"
)

type Options struct {
	StateBatchSize int
	MoveBatchSize  int
	Progress       []ProgressReporter
}

type Loader struct {
	sink     Sink
	log      *logger.Logger
	tracer   trace.Tracer
	opts     Options
	progress []ProgressReporter
}

func New(sink Sink, log *logger.Logger, opts Options) (*Loader, error) {
	if sink == nil {
		return nil, fmt.Errorf("loader: sink required")
	}
	if log == nil {
		return nil, fmt.Errorf("loader: logger required")
	}
	if opts.StateBatchSize <= 0 {
		return nil, fmt.Errorf("loader: state batches: %w: %d", batch.ErrInvalidBatchSize, opts.StateBatchSize)
	}
	if opts.MoveBatchSize <= 0 {
		return nil, fmt.Errorf("loader: move batches: %w: %d", batch.ErrInvalidBatchSize, opts.MoveBatchSize)
	}
	return &Loader{
		sink:     sink,
		log:      log.With("service", "BulkLoader"),
		tracer:   otel.Tracer("github.com/yungbote/puzzlegraph/internal/loader"),
		opts:     opts,
		progress: opts.Progress,
	}, nil
}

// Run loads every state, then every move. Moves reference state ids, so the
// move phase only starts once all state batches have been submitted. The
// returned report is filled in as far as the load got, even on error.
func (l *Loader) Run(ctx context.Context, states []puzzle.State, moves []puzzle.MoveEdge) (Report, error) {
	var rep Report
	var err error
	rep.States, err = l.LoadStates(ctx, states)
	if err != nil {
		return rep, err
	}
	rep.Moves, err = l.LoadMoves(ctx, moves)
	return rep, err
}

func (l *Loader) LoadStates(ctx context.Context, states []puzzle.State) (Outcome, error) {
	return runPhase(ctx, l, KindStates, states, l.opts.StateBatchSize, l.sink.InsertStates, func(s puzzle.State) string {
		return s.ID.String()
	})
}

func (l *Loader) LoadMoves(ctx context.Context, moves []puzzle.MoveEdge) (Outcome, error) {
	return runPhase(ctx, l, KindMoves, moves, l.opts.MoveBatchSize, l.sink.InsertMoves, func(e puzzle.MoveEdge) string {
		return e.String()
	})
}

func runPhase[T any](
	ctx context.Context,
	l *Loader,
	kind Kind,
	items []T,
	size int,
	submit func(context.Context, []T) ([]error, error),
	recordID func(T) string,
) (Outcome, error) {
	out := Outcome{Kind: kind, Total: len(items), Batches: batch.Count(len(items), size)}
	chunks, err := batch.Chunks(items, size)
	if err != nil {
		return out, err
	}
	log := l.log.With("kind", kind)
	log.Info("Inserting records in batches", "total", out.Total, "batches", out.Batches, "batch_size", size)

	ctx, phaseSpan := l.tracer.Start(ctx, "loader.phase", trace.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.Int("total", out.Total),
		attribute.Int("batches", out.Batches),
	))
	defer phaseSpan.End()

	for n, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			phaseSpan.SetStatus(codes.Error, err.Error())
			return out, &SinkError{Kind: kind, Batch: n, Cause: err}
		}

		results, err := submitBatch(ctx, l.tracer, kind, n, chunk, submit)
		if err != nil {
			phaseSpan.RecordError(err)
			phaseSpan.SetStatus(codes.Error, err.Error())
			log.Error("Batch submission failed, aborting", "batch", n, "attempted", out.Attempted, "error", err)
			return out, err
		}

		out.Attempted += len(chunk)
		for i, itemErr := range results {
			if itemErr == nil {
				out.Succeeded++
				continue
			}
			out.Failures = append(out.Failures, Failure{RecordID: recordID(chunk[i]), Reason: itemErr.Error()})
		}
		if failed := len(chunk) - countNil(results); failed > 0 {
			log.Warn("Batch had rejected records", "batch", n, "failed", failed)
		}

		l.reportProgress(ctx, log, Progress{
			Kind:      kind,
			Batch:     n + 1,
			Batches:   out.Batches,
			Attempted: out.Attempted,
			Succeeded: out.Succeeded,
			Total:     out.Total,
		})
	}

	phaseSpan.SetAttributes(
		attribute.Int("succeeded", out.Succeeded),
		attribute.Int("failed", out.Failed()),
	)
	l.summarize(log, out)
	return out, nil
}

func submitBatch[T any](
	ctx context.Context,
	tracer trace.Tracer,
	kind Kind,
	n int,
	chunk []T,
	submit func(context.Context, []T) ([]error, error),
) ([]error, error) {
	ctx, span := tracer.Start(ctx, "loader.batch", trace.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.Int("batch", n),
		attribute.Int("size", len(chunk)),
	))
	defer span.End()

	results, err := submit(ctx, chunk)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, &SinkError{Kind: kind, Batch: n, Cause: err}
	}
	if len(results) != len(chunk) {
		err := &SinkError{
			Kind:  kind,
			Batch: n,
			Cause: fmt.Errorf("sink returned %d outcomes for %d records", len(results), len(chunk)),
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("failed", len(chunk)-countNil(results)))
	return results, nil
}

func (l *Loader) reportProgress(ctx context.Context, log *logger.Logger, p Progress) {
	log.Info(
		fmt.Sprintf("Insertion progress: %d/%d (%.1f%%)", p.Attempted, p.Total, p.Percent()),
		"batch", p.Batch,
		"batches", p.Batches,
	)
	for _, r := range l.progress {
		if err := r.ReportProgress(ctx, p); err != nil {
			log.Warn("Progress reporter failed (continuing)", "error", err)
		}
	}
}

func (l *Loader) summarize(log *logger.Logger, out Outcome) {
	if out.Failed() == 0 {
		log.Info("Finished", "attempted", out.Attempted, "succeeded", out.Succeeded)
		return
	}
	log.Warn("Finished with rejected records", "attempted", out.Attempted, "succeeded", out.Succeeded, "failed", out.Failed())
	for _, f := range out.Failures {
		log.Warn("Rejected record", "record_id", f.RecordID, "reason", f.Reason)
	}
}

func countNil(errs []error) int {
	n := 0
	for _, err := range errs {
		if err == nil {
			n++
		}
	}
	return n
}
