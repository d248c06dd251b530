package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/yungbote/puzzlegraph/internal/app"
	redisbus "github.com/yungbote/puzzlegraph/internal/clients/redis"
	"github.com/yungbote/puzzlegraph/internal/platform/logger"
)

func main() {
	var (
		configPath string
		boardSide  int
		stateBatch int
		moveBatch  int
		sink       string
		graphName  string
		dryRun     bool
		watch      bool
	)
	flag.StringVar(&configPath, "config", "", "YAML config file (default $PUZZLEGRAPH_CONFIG)")
	flag.IntVar(&boardSide, "board-side", 0, "board side length, 1..3")
	flag.IntVar(&stateBatch, "state-batch", 0, "states per batch")
	flag.IntVar(&moveBatch, "move-batch", 0, "moves per batch")
	flag.StringVar(&sink, "sink", "", "memory | sqlite | postgres | neo4j")
	flag.StringVar(&graphName, "graph", "", "graph name tagged on every record")
	flag.BoolVar(&dryRun, "dry-run", false, "enumerate and build moves without loading")
	flag.BoolVar(&watch, "watch", false, "print progress published on redis by other runs")
	flag.Parse()

	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if boardSide != 0 {
		cfg.BoardSide = boardSide
	}
	if stateBatch != 0 {
		cfg.StateBatchSize = stateBatch
	}
	if moveBatch != 0 {
		cfg.MoveBatchSize = moveBatch
	}
	if sink != "" {
		cfg.Sink = sink
	}
	if graphName != "" {
		cfg.Graph = graphName
	}
	cfg.DryRun = cfg.DryRun || dryRun

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watch {
		os.Exit(runWatch(ctx, cfg))
	}
	os.Exit(runLoad(ctx, cfg))
}

func runLoad(ctx context.Context, cfg app.Config) int {
	application, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init app: %v\n", err)
		return 1
	}
	defer application.Close(context.Background())

	res, err := application.Run(ctx)
	if err != nil {
		application.Log.Error("Load aborted", "error", err)
		return 1
	}
	if cfg.DryRun {
		fmt.Printf("done; states=%d moves=%d (dry run)\n", res.States, res.Moves)
		return 0
	}
	for _, out := range []struct {
		name string
		att  int
		ok   int
		bad  int
	}{
		{"states", res.Report.States.Attempted, res.Report.States.Succeeded, res.Report.States.Failed()},
		{"moves", res.Report.Moves.Attempted, res.Report.Moves.Succeeded, res.Report.Moves.Failed()},
	} {
		fmt.Printf("Finished! %s attempted=%d succeeded=%d failed=%d\n", out.name, out.att, out.ok, out.bad)
	}
	return 0
}

func runWatch(ctx context.Context, cfg app.Config) int {
	log, err := logger.New(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	bus, err := redisbus.NewProgressBus(ctx, cfg.Redis, log, uuid.Nil, cfg.Graph)
	if err != nil {
		log.Error("Cannot watch progress", "error", err)
		return 1
	}
	defer bus.Close()

	err = bus.Watch(ctx, func(m redisbus.ProgressMessage) {
		fmt.Printf("%s %s %s progress: %d/%d (%.1f%%)\n", m.RunID, m.Graph, m.Kind, m.Attempted, m.Total, m.Percent)
	})
	if err != nil {
		log.Error("Cannot watch progress", "error", err)
		return 1
	}
	<-ctx.Done()
	return 0
}
