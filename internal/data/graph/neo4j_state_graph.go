package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/puzzlegraph/internal/domain/puzzle"
	"github.com/yungbote/puzzlegraph/internal/loader"
	"github.com/yungbote/puzzlegraph/internal/platform/logger"
	"github.com/yungbote/puzzlegraph/internal/platform/neo4jdb"
)

var errNotAcknowledged = errors.New("record not acknowledged by neo4j")

// StateGraphSink writes (:State) nodes and [:MOVES] relationships. Nodes are
// keyed by (graph, id) and merged, so resubmitting a batch is safe.
type StateGraphSink struct {
	client *neo4jdb.Client
	log    *logger.Logger
	graph  string
	runID  uuid.UUID
}

var _ loader.Sink = (*StateGraphSink)(nil)

func NewStateGraphSink(client *neo4jdb.Client, log *logger.Logger, graph string, runID uuid.UUID) (*StateGraphSink, error) {
	if client == nil || client.Driver == nil {
		return nil, fmt.Errorf("neo4j state graph: client required")
	}
	if graph == "" {
		return nil, fmt.Errorf("neo4j state graph: graph name required")
	}
	return &StateGraphSink{
		client: client,
		log:    log.With("sink", "Neo4jStateGraph", "graph", graph),
		graph:  graph,
		runID:  runID,
	}, nil
}

// EnsureSchema creates the uniqueness constraint and lookup index. Failures
// are logged and ignored; restricted users may not be allowed to run DDL.
func (s *StateGraphSink) EnsureSchema(ctx context.Context) {
	session := s.session(ctx)
	defer session.Close(ctx)

	for _, stmt := range []string{
		`CREATE CONSTRAINT state_graph_id_unique IF NOT EXISTS FOR (s:State) REQUIRE (s.graph, s.id) IS UNIQUE`,
		`CREATE INDEX state_seq_idx IF NOT EXISTS FOR (s:State) ON (s.graph, s.seq)`,
	} {
		res, err := session.Run(ctx, stmt, nil)
		if err != nil {
			s.log.Warn("neo4j schema init failed (continuing)", "error", err)
			continue
		}
		if _, err := res.Consume(ctx); err != nil {
			s.log.Warn("neo4j schema init failed (continuing)", "error", err)
		}
	}
}

func (s *StateGraphSink) InsertStates(ctx context.Context, states []puzzle.State) ([]error, error) {
	results := make([]error, len(states))
	rows := stateRows(s.graph, s.runID, time.Now().UTC(), states, results)
	if len(rows) == 0 {
		return results, nil
	}

	acks, err := s.write(ctx, `
UNWIND $rows AS r
MERGE (s:State {graph: r.graph, id: r.id})
ON CREATE SET s.posList = r.posList,
              s.seq = r.seq,
              s.run_id = r.run_id,
              s.synced_at = r.synced_at
RETURN r.idx AS idx, s.posList = r.posList AS ok
`, rows)
	if err != nil {
		return nil, fmt.Errorf("neo4j insert states: %w", err)
	}
	applyAcks(results, acks, func(i int) error {
		return fmt.Errorf("%w: %s", loader.ErrStateConflict, states[i].ID)
	})
	return results, nil
}

func (s *StateGraphSink) InsertMoves(ctx context.Context, moves []puzzle.MoveEdge) ([]error, error) {
	results := make([]error, len(moves))
	rows := moveRows(s.graph, s.runID, time.Now().UTC(), moves, results)
	if len(rows) == 0 {
		return results, nil
	}

	acks, err := s.write(ctx, `
UNWIND $rows AS r
OPTIONAL MATCH (a:State {graph: r.graph, id: r.from_id})
OPTIONAL MATCH (b:State {graph: r.graph, id: r.to_id})
FOREACH (_ IN CASE WHEN a IS NULL OR b IS NULL THEN [] ELSE [1] END |
  MERGE (a)-[m:MOVES]->(b)
  ON CREATE SET m.graph = r.graph,
                m.run_id = r.run_id,
                m.synced_at = r.synced_at
)
RETURN r.idx AS idx, a IS NOT NULL AND b IS NOT NULL AS ok
`, rows)
	if err != nil {
		return nil, fmt.Errorf("neo4j insert moves: %w", err)
	}
	applyAcks(results, acks, func(i int) error {
		return fmt.Errorf("%w: %s", loader.ErrMissingEndpoint, moves[i])
	})
	return results, nil
}

type ack struct {
	idx int
	ok  bool
}

func (s *StateGraphSink) write(ctx context.Context, cypher string, rows []map[string]any) ([]ack, error) {
	session := s.session(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, map[string]any{"rows": rows})
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		acks := make([]ack, 0, len(records))
		for _, rec := range records {
			idx, _, err := neo4j.GetRecordValue[int64](rec, "idx")
			if err != nil {
				return nil, err
			}
			ok, _, err := neo4j.GetRecordValue[bool](rec, "ok")
			if err != nil {
				return nil, err
			}
			acks = append(acks, ack{idx: int(idx), ok: ok})
		}
		return acks, nil
	})
	if err != nil {
		return nil, err
	}
	return out.([]ack), nil
}

func (s *StateGraphSink) session(ctx context.Context) neo4j.SessionWithContext {
	return s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.client.Database,
	})
}

// stateRows builds UNWIND parameters for the valid states of a batch and
// records a rejection in results for the rest. idx is the batch position.
func stateRows(graph string, runID uuid.UUID, now time.Time, states []puzzle.State, results []error) []map[string]any {
	syncedAt := now.Format(time.RFC3339Nano)
	rows := make([]map[string]any, 0, len(states))
	for i, st := range states {
		if !st.Config.Valid() {
			results[i] = fmt.Errorf("%w: %s", loader.ErrInvalidConfiguration, st.Config)
			continue
		}
		pos := make([]int64, st.Config.Len())
		for j := range pos {
			pos[j] = int64(st.Config.At(j))
		}
		rows = append(rows, map[string]any{
			"idx":       int64(i),
			"graph":     graph,
			"id":        st.ID.String(),
			"seq":       int64(st.ID),
			"posList":   pos,
			"run_id":    runID.String(),
			"synced_at": syncedAt,
		})
	}
	return rows
}

func moveRows(graph string, runID uuid.UUID, now time.Time, moves []puzzle.MoveEdge, results []error) []map[string]any {
	syncedAt := now.Format(time.RFC3339Nano)
	rows := make([]map[string]any, 0, len(moves))
	for i, mv := range moves {
		if mv.From == 0 || !mv.From.Less(mv.To) {
			results[i] = fmt.Errorf("%w: %s", loader.ErrInvalidEdge, mv)
			continue
		}
		rows = append(rows, map[string]any{
			"idx":       int64(i),
			"graph":     graph,
			"from_id":   mv.From.String(),
			"to_id":     mv.To.String(),
			"run_id":    runID.String(),
			"synced_at": syncedAt,
		})
	}
	return rows
}

// applyAcks fills results from the rows neo4j returned. Rows that were sent
// but never acknowledged are rejected too.
func applyAcks(results []error, acks []ack, reject func(i int) error) {
	acked := make([]bool, len(results))
	for _, a := range acks {
		if a.idx < 0 || a.idx >= len(results) || results[a.idx] != nil {
			continue
		}
		acked[a.idx] = true
		if !a.ok {
			results[a.idx] = reject(a.idx)
		}
	}
	for i := range results {
		if results[i] == nil && !acked[i] {
			results[i] = errNotAcknowledged
		}
	}
}
