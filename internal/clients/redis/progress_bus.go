package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/puzzlegraph/internal/loader"
	"github.com/yungbote/puzzlegraph/internal/platform/logger"
)

// ProgressMessage is what the bus publishes after every batch.
type ProgressMessage struct {
	RunID     uuid.UUID   `json:"run_id"`
	Graph     string      `json:"graph"`
	Kind      loader.Kind `json:"kind"`
	Batch     int         `json:"batch"`
	Batches   int         `json:"batches"`
	Attempted int         `json:"attempted"`
	Succeeded int         `json:"succeeded"`
	Total     int         `json:"total"`
	Percent   float64     `json:"percent"`
}

type ProgressBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
	runID   uuid.UUID
	graph   string
}

var _ loader.ProgressReporter = (*ProgressBus)(nil)

type Config struct {
	Addr    string `yaml:"addr"`
	Channel string `yaml:"channel"`
}

func NewProgressBus(ctx context.Context, cfg Config, log *logger.Logger, runID uuid.UUID, graph string) (*ProgressBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	ch := strings.TrimSpace(cfg.Channel)
	if ch == "" {
		ch = "puzzlegraph.progress"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &ProgressBus{
		log:     log.With("service", "RedisProgressBus"),
		rdb:     rdb,
		channel: ch,
		runID:   runID,
		graph:   graph,
	}, nil
}

func (b *ProgressBus) ReportProgress(ctx context.Context, p loader.Progress) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis progress bus not initialized")
	}
	raw, err := json.Marshal(newProgressMessage(b.runID, b.graph, p))
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// Watch subscribes to the channel and calls onMsg for each message until ctx
// is done. It returns once the subscription is confirmed.
func (b *ProgressBus) Watch(ctx context.Context, onMsg func(m ProgressMessage)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis progress bus not initialized")
	}
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var msg ProgressMessage
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					b.log.Warn("bad redis progress payload", "error", err)
					continue
				}
				onMsg(msg)
			}
		}
	}()
	return nil
}

func (b *ProgressBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}

func newProgressMessage(runID uuid.UUID, graph string, p loader.Progress) ProgressMessage {
	return ProgressMessage{
		RunID:     runID,
		Graph:     graph,
		Kind:      p.Kind,
		Batch:     p.Batch,
		Batches:   p.Batches,
		Attempted: p.Attempted,
		Succeeded: p.Succeeded,
		Total:     p.Total,
		Percent:   p.Percent(),
	}
}
