package app

import (
	"context"
	"fmt"

	redisbus "github.com/yungbote/puzzlegraph/internal/clients/redis"
	"github.com/yungbote/puzzlegraph/internal/data/db"
	"github.com/yungbote/puzzlegraph/internal/data/graph"
	"github.com/yungbote/puzzlegraph/internal/data/memory"
	"github.com/yungbote/puzzlegraph/internal/data/repos/stategraph"
	"github.com/yungbote/puzzlegraph/internal/platform/neo4jdb"
)

func (a *App) wireSink(ctx context.Context) error {
	switch a.Cfg.Sink {
	case SinkMemory:
		a.Sink = memory.NewStore()
		return nil

	case SinkSQLite, SinkPostgres:
		dbCfg := db.Config{Driver: db.DriverSQLite, DSN: a.Cfg.SQLitePath}
		if a.Cfg.Sink == SinkPostgres {
			dbCfg = db.Config{Driver: db.DriverPostgres, DSN: a.Cfg.PostgresDSN}
		}
		svc, err := db.NewService(dbCfg, a.Log)
		if err != nil {
			return fmt.Errorf("init %s: %w", a.Cfg.Sink, err)
		}
		a.closers = append(a.closers, func(context.Context) error { return svc.Close() })
		if a.Cfg.EnsureSchema {
			if err := db.AutoMigrateAll(svc.DB().WithContext(ctx)); err != nil {
				return fmt.Errorf("%s automigrate: %w", a.Cfg.Sink, err)
			}
		}
		a.Sink = stategraph.NewRepo(svc.DB(), a.Log, a.Cfg.Graph, a.RunID)
		return nil

	case SinkNeo4j:
		client, err := neo4jdb.New(ctx, a.Cfg.Neo4j, a.Log)
		if err != nil {
			return fmt.Errorf("init neo4j: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		sink, err := graph.NewStateGraphSink(client, a.Log, a.Cfg.Graph, a.RunID)
		if err != nil {
			return err
		}
		if a.Cfg.EnsureSchema {
			sink.EnsureSchema(ctx)
		}
		a.Sink = sink
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnknownSink, a.Cfg.Sink)
}

func (a *App) wireProgress(ctx context.Context) error {
	if a.Cfg.Redis.Addr == "" {
		return nil
	}
	bus, err := redisbus.NewProgressBus(ctx, a.Cfg.Redis, a.Log, a.RunID, a.Cfg.Graph)
	if err != nil {
		return fmt.Errorf("init redis progress bus: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return bus.Close() })
	a.progress = append(a.progress, bus)
	return nil
}
