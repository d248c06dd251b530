package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/puzzlegraph/internal/loader"
	"github.com/yungbote/puzzlegraph/internal/observability"
	"github.com/yungbote/puzzlegraph/internal/platform/logger"
)

type App struct {
	Log   *logger.Logger
	Cfg   Config
	RunID uuid.UUID
	Sink  loader.Sink

	progress []loader.ProgressReporter
	closers  []func(context.Context) error
}

// New validates cfg and connects the configured sink and optional progress
// bus. A dry run connects nothing.
func New(ctx context.Context, cfg Config) (*App, error) {
	log, err := logger.New(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a, err := NewWithLogger(ctx, cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

func NewWithLogger(ctx context.Context, cfg Config, log *logger.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	a := &App{
		Log:   log,
		Cfg:   cfg,
		RunID: uuid.New(),
	}
	a.Log = log.With("run_id", a.RunID.String(), "graph", cfg.Graph)
	a.closers = append(a.closers, observability.InitOTel(ctx, a.Log, cfg.Otel))

	if cfg.DryRun {
		return a, nil
	}
	if err := a.wireSink(ctx); err != nil {
		a.Close(ctx)
		return nil, err
	}
	if err := a.wireProgress(ctx); err != nil {
		a.Close(ctx)
		return nil, err
	}
	return a, nil
}

// Close releases everything New opened, newest first.
func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.Log.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
	a.Log.Sync()
}
