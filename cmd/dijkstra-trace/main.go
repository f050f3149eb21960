package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/ritzau/dijkstra-trace/pkg/config"
	"github.com/ritzau/dijkstra-trace/pkg/dijkstra"
	"github.com/ritzau/dijkstra-trace/pkg/graphsrc"
	"github.com/ritzau/dijkstra-trace/pkg/logging"
	"github.com/ritzau/dijkstra-trace/pkg/model"
	"github.com/ritzau/dijkstra-trace/pkg/output"
	"github.com/ritzau/dijkstra-trace/pkg/store"
	"github.com/ritzau/dijkstra-trace/pkg/store/postgres"
	"github.com/ritzau/dijkstra-trace/pkg/watcher"
	"github.com/ritzau/dijkstra-trace/pkg/web"
)

func main() {
	flags := config.Flags("dijkstra-trace")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	level := logging.LevelFromVerbosity(cfg.Verbosity, cfg.VerboseCnt)
	if cfg.LogJSON {
		logging.SetJSONOutput(level)
	} else {
		logging.SetLevel(level)
	}

	solver := dijkstra.NewSolver(
		dijkstra.WithMaxNodes(cfg.MaxNodes),
		dijkstra.WithLogger(logging.New("dijkstra")),
	)

	if cfg.OneShot() {
		if err := printRoute(cfg, solver); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, solver); err != nil {
		logging.Fatal("Server stopped", "error", err)
	}
}

// printRoute solves a single route over the source graph and prints it.
func printRoute(cfg *config.Config, solver *dijkstra.Solver) error {
	g, err := graphsrc.LoadFile(cfg.Source, cfg.Coords)
	if err != nil {
		return err
	}

	from := resolveNode(&g, cfg.From)
	to := resolveNode(&g, cfg.To)
	res := solver.Solve(dijkstra.RequestFromGraph(&g, from, to))
	output.PrintRouteReport(os.Stdout, &g, from, to, res, cfg.Trace)
	if !res.Found() {
		return fmt.Errorf("no route from %q to %q", cfg.From, cfg.To)
	}
	return nil
}

// resolveNode accepts both node ids and the long "Titik N" spelling.
func resolveNode(g *model.Graph, name string) string {
	ids := g.NodeIDs()
	if slices.Contains(ids, name) {
		return name
	}
	if short := graphsrc.NormalizeID(name); slices.Contains(ids, short) {
		return short
	}
	return name
}

func serve(ctx context.Context, cfg *config.Config, solver *dijkstra.Solver) error {
	var catalog store.Store
	if cfg.DatabaseURL != "" {
		pg, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pg.Close()
		catalog = pg
		logging.Info("Using PostgreSQL graph store")
	} else {
		catalog = store.NewMemory()
		logging.Info("Using in-memory graph store")
	}

	server := web.NewServer(web.Options{
		Solver:     solver,
		Store:      catalog,
		Strict:     cfg.Strict,
		SourcePath: cfg.Source,
		CoordsPath: cfg.Coords,
	})

	if _, err := server.ReloadSource(ctx); err != nil {
		logging.Warn("Source graph not loaded", "path", cfg.Source, "error", err)
		if _, err := store.Seed(ctx, catalog, nil); err != nil {
			return fmt.Errorf("seed sample graph: %w", err)
		}
	}

	if cfg.Watch {
		if err := watchSource(ctx, cfg, server); err != nil {
			return err
		}
	}

	return server.Run(ctx, cfg.Addr())
}

// watchSource reloads the source graph whenever its files settle after a change.
func watchSource(ctx context.Context, cfg *config.Config, server *web.Server) error {
	coords := cfg.Coords
	if coords == "" {
		coords = graphsrc.CoordinatesPathFor(cfg.Source)
	}

	fw, err := watcher.NewFileWatcher(cfg.Source, coords)
	if err != nil {
		return err
	}
	if err := fw.Start(ctx); err != nil {
		_ = fw.Close()
		return err
	}

	debouncer := watcher.NewDebouncer(fw.Events(), 300*time.Millisecond, 2*time.Second)
	debouncer.Start(ctx)

	go func() {
		for event := range debouncer.Output() {
			logging.Info("Source files changed", "change", event.Type, "paths", event.Paths)
			if _, err := server.ReloadSource(ctx); err != nil {
				logging.Error("Failed to reload source graph", "error", err)
			}
		}
	}()
	return nil
}
