package loader

import (
	"context"
	"fmt"

	"github.com/yungbote/puzzlegraph/internal/domain/puzzle"
)

type Kind string

const (
	KindStates Kind = "state"
	KindMoves  Kind = "moves"
)

// Sink is the store-insertion capability the loader drives.
//
// Each call returns one entry per record of the batch, aligned by index: nil
// means the record was stored, non-nil is the store's reason for rejecting it.
// A non-nil second return value means the call itself failed (connectivity,
// transaction abort) and nothing about the batch is known; the load stops.
type Sink interface {
	InsertStates(ctx context.Context, batch []puzzle.State) ([]error, error)
	InsertMoves(ctx context.Context, batch []puzzle.MoveEdge) ([]error, error)
}

// Failure is one record the sink rejected.
type Failure struct {
	RecordID string `json:"record_id"`
	Reason   string `json:"reason"`
}

// Outcome accumulates what happened to one kind of record.
type Outcome struct {
	Kind      Kind      `json:"kind"`
	Total     int       `json:"total"`
	Batches   int       `json:"batches"`
	Attempted int       `json:"attempted"`
	Succeeded int       `json:"succeeded"`
	Failures  []Failure `json:"failures,omitempty"`
}

func (o Outcome) Failed() int { return len(o.Failures) }

// Report holds both phases of a load.
type Report struct {
	States Outcome `json:"states"`
	Moves  Outcome `json:"moves"`
}

// Progress is emitted after every batch.
type Progress struct {
	Kind      Kind `json:"kind"`
	Batch     int  `json:"batch"`
	Batches   int  `json:"batches"`
	Attempted int  `json:"attempted"`
	Succeeded int  `json:"succeeded"`
	Total     int  `json:"total"`
}

func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 100
	}
	return float64(p.Attempted) * 100 / float64(p.Total)
}

// ProgressReporter receives progress after each batch. Errors are logged and
// never stop the load.
type ProgressReporter interface {
	ReportProgress(ctx context.Context, p Progress) error
}

// SinkError is a wholesale sink failure. It aborts the load.
type SinkError struct {
	Kind  Kind
	Batch int
	Cause error
}

func (e *SinkError) Error() string {
	if e == nil {
		return "sink failed"
	}
	return fmt.Sprintf("sink failed (kind=%s batch=%d): %v", e.Kind, e.Batch, e.Cause)
}

func (e *SinkError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
