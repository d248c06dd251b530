package stategraph

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/puzzlegraph/internal/batch"
	"github.com/yungbote/puzzlegraph/internal/domain/puzzle"
	"github.com/yungbote/puzzlegraph/internal/loader"
	"github.com/yungbote/puzzlegraph/internal/platform/logger"
)

// lookupChunk bounds the IN list of existence queries; sqlite caps bound
// parameters per statement.
const lookupChunk = 500

// Repo stores states and moves in the state/moves tables. Every batch runs
// in one transaction; records already stored with identical content are
// accepted again, so resubmitting a batch is safe.
type Repo struct {
	db    *gorm.DB
	log   *logger.Logger
	graph string
	runID uuid.UUID
}

var _ loader.Sink = (*Repo)(nil)

func NewRepo(db *gorm.DB, baseLog *logger.Logger, graph string, runID uuid.UUID) *Repo {
	return &Repo{
		db:    db,
		log:   baseLog.With("repo", "StateGraphRepo", "graph", graph),
		graph: graph,
		runID: runID,
	}
}

func (r *Repo) InsertStates(ctx context.Context, states []puzzle.State) ([]error, error) {
	results := make([]error, len(states))
	ids := make([]string, 0, len(states))
	for i, st := range states {
		if !st.Config.Valid() {
			results[i] = fmt.Errorf("%w: %s", loader.ErrInvalidConfiguration, st.Config)
			continue
		}
		ids = append(ids, st.ID.String())
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stored, err := r.storedPositions(tx, ids)
		if err != nil {
			return err
		}
		rows := make([]puzzle.StateRow, 0, len(ids))
		for i, st := range states {
			if results[i] != nil {
				continue
			}
			id := st.ID.String()
			pos := puzzle.PosList(st.Config)
			if prev, ok := stored[id]; ok {
				if !bytes.Equal(prev, pos) {
					results[i] = fmt.Errorf("%w: %s has %s", loader.ErrStateConflict, id, string(prev))
				}
				continue
			}
			stored[id] = pos
			rows = append(rows, puzzle.StateRow{
				Graph:   r.graph,
				ID:      id,
				Seq:     uint32(st.ID),
				PosList: pos,
				RunID:   r.runID,
			})
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&rows, lookupChunk).Error
	})
	if err != nil {
		return nil, fmt.Errorf("insert states: %w", err)
	}
	return results, nil
}

func (r *Repo) InsertMoves(ctx context.Context, moves []puzzle.MoveEdge) ([]error, error) {
	results := make([]error, len(moves))
	endpoints := make([]string, 0, 2*len(moves))
	seen := make(map[puzzle.StateID]struct{}, 2*len(moves))
	for i, mv := range moves {
		if mv.From == 0 || !mv.From.Less(mv.To) {
			results[i] = fmt.Errorf("%w: %s", loader.ErrInvalidEdge, mv)
			continue
		}
		for _, id := range [2]puzzle.StateID{mv.From, mv.To} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				endpoints = append(endpoints, id.String())
			}
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stored, err := r.storedPositions(tx, endpoints)
		if err != nil {
			return err
		}
		rows := make([]puzzle.MoveRow, 0, len(moves))
		for i, mv := range moves {
			if results[i] != nil {
				continue
			}
			from, to := mv.From.String(), mv.To.String()
			if _, ok := stored[from]; !ok {
				results[i] = fmt.Errorf("%w: %s", loader.ErrMissingEndpoint, from)
				continue
			}
			if _, ok := stored[to]; !ok {
				results[i] = fmt.Errorf("%w: %s", loader.ErrMissingEndpoint, to)
				continue
			}
			rows = append(rows, puzzle.MoveRow{
				Graph:  r.graph,
				FromID: from,
				ToID:   to,
				RunID:  r.runID,
			})
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&rows, lookupChunk).Error
	})
	if err != nil {
		return nil, fmt.Errorf("insert moves: %w", err)
	}
	return results, nil
}

// CountStates and CountMoves report what is stored for the repo's graph.
func (r *Repo) CountStates(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&puzzle.StateRow{}).Where("graph = ?", r.graph).Count(&n).Error
	return n, err
}

func (r *Repo) CountMoves(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&puzzle.MoveRow{}).Where("graph = ?", r.graph).Count(&n).Error
	return n, err
}

func (r *Repo) storedPositions(tx *gorm.DB, ids []string) (map[string]datatypes.JSON, error) {
	out := make(map[string]datatypes.JSON, len(ids))
	chunks, err := batch.Chunks(ids, lookupChunk)
	if err != nil {
		return nil, err
	}
	for _, chunk := range chunks {
		var found []puzzle.StateRow
		if err := tx.Select("id", "pos_list").
			Where("graph = ? AND id IN ?", r.graph, chunk).
			Find(&found).Error; err != nil {
			return nil, err
		}
		for _, row := range found {
			out[row.ID] = row.PosList
		}
	}
	return out, nil
}
