package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/ritzau/dijkstra-trace/pkg/dijkstra"
	"github.com/ritzau/dijkstra-trace/pkg/graphsrc"
	"github.com/ritzau/dijkstra-trace/pkg/logging"
	"github.com/ritzau/dijkstra-trace/pkg/model"
	"github.com/ritzau/dijkstra-trace/pkg/pubsub"
	"github.com/ritzau/dijkstra-trace/pkg/store"
)

//go:embed static/*
var staticFiles embed.FS

// ErrNoSource is returned when no adjacency source is configured.
var ErrNoSource = errors.New("web: no graph source configured")

// Options configures a Server.
type Options struct {
	Solver     *dijkstra.Solver
	Store      store.Store
	Publisher  *pubsub.SSEPublisher
	Strict     bool   // Reject malformed pathfinding requests with 422
	SourcePath string // Adjacency document served by /api/graphs/source
	CoordsPath string
}

// Server represents the web server
type Server struct {
	router    *mux.Router
	solver    *dijkstra.Solver
	store     store.Store
	publisher *pubsub.SSEPublisher
	strict    bool

	sourcePath string
	coordsPath string

	mu       sync.RWMutex
	source   *model.Graph
	sourceID int64
}

// NewServer creates a new web server. Nil Solver, Store and Publisher are
// replaced by defaults.
func NewServer(opts Options) *Server {
	s := &Server{
		router:     mux.NewRouter(),
		solver:     opts.Solver,
		store:      opts.Store,
		publisher:  opts.Publisher,
		strict:     opts.Strict,
		sourcePath: opts.SourcePath,
		coordsPath: opts.CoordsPath,
	}
	if s.solver == nil {
		s.solver = dijkstra.NewSolver()
	}
	if s.store == nil {
		s.store = store.NewMemory()
	}
	if s.publisher == nil {
		s.publisher = pubsub.NewCatalogPublisher()
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(logging.RequestIDMiddleware, logging.CORSMiddleware)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/dijkstra", s.handleDijkstra).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/graphs", s.handleListGraphs).Methods(http.MethodGet)
	api.HandleFunc("/graphs", s.handleSaveGraph).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/graphs/source", s.handleSourceGraph).Methods(http.MethodGet)
	api.HandleFunc("/graphs/{id:[0-9]+}", s.handleGetGraph).Methods(http.MethodGet)
	api.HandleFunc("/subscribe/catalog", s.handleSubscribeCatalog).Methods(http.MethodGet)

	// Paths used by the first version of the page.
	api.HandleFunc("/graf/daftar", s.handleListGraphs).Methods(http.MethodGet)
	api.HandleFunc("/graf/muat", s.handleGetGraph).Methods(http.MethodGet)
	api.HandleFunc("/graf/json", s.handleSourceGraph).Methods(http.MethodGet)
	api.HandleFunc("/graf/simpan", s.handleSaveGraph).Methods(http.MethodPost, http.MethodOptions)

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		logging.Fatal("Failed to open embedded static files", "error", err)
	}
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(staticFS)))
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ReloadSource rebuilds the graph from the source files, seeds it into the store
// and announces it on the catalog topic. A changed source replaces the contents of
// its stored graph, so the announced id always loads what was just read.
func (s *Server) ReloadSource(ctx context.Context) (*model.Graph, error) {
	if s.sourcePath == "" {
		return nil, ErrNoSource
	}

	g, err := graphsrc.LoadFile(s.sourcePath, s.coordsPath)
	if err != nil {
		return nil, err
	}

	id, err := store.Seed(ctx, s.store, &g)
	if err != nil {
		return nil, fmt.Errorf("seed source graph: %w", err)
	}

	s.mu.Lock()
	s.source = &g
	s.sourceID = id
	s.mu.Unlock()

	change := pubsub.CatalogChange{GraphID: id, Name: g.Name, Nodes: len(g.Nodes), Edges: len(g.Edges)}
	if err := s.publisher.Publish(pubsub.CatalogTopic, pubsub.EventSourceReloaded, change); err != nil {
		logging.Warn("Failed to publish source reload", "error", err)
	}
	logging.Info("Loaded source graph", "path", s.sourcePath, "id", id, "nodes", len(g.Nodes), "edges", len(g.Edges))
	return &g, nil
}

// SourceGraph returns the last loaded source graph, loading it on first use.
func (s *Server) SourceGraph(ctx context.Context) (*model.Graph, error) {
	s.mu.RLock()
	g := s.source
	s.mu.RUnlock()
	if g != nil {
		return g, nil
	}
	return s.ReloadSource(ctx)
}

// SourceID returns the store id of the source graph, or 0 before it is loaded.
func (s *Server) SourceID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sourceID
}

// Run serves HTTP on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Starting web server", "url", "http://"+addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info("Shutting down web server")
	// SSE streams end when their request contexts are cancelled.
	_ = s.publisher.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
