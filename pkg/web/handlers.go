package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ritzau/dijkstra-trace/pkg/dijkstra"
	"github.com/ritzau/dijkstra-trace/pkg/logging"
	"github.com/ritzau/dijkstra-trace/pkg/model"
	"github.com/ritzau/dijkstra-trace/pkg/pubsub"
	"github.com/ritzau/dijkstra-trace/pkg/store"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 4 << 20

// CustomGraphName is used for graphs saved without a name.
const CustomGraphName = "Graf Kustom"

type errorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

type savedResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

func (s *Server) handleDijkstra(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}

	var req dijkstra.Request
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
			return
		}
	}

	if s.strict {
		if err := s.solver.Validate(req); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:    "invalid request",
				Problems: problems(err),
			})
			return
		}
	}

	res := s.solver.Solve(req)
	logging.DebugContext(r.Context(), "Solved route",
		"start", req.StartID,
		"goal", req.GoalID,
		"nodes", len(req.NodeIDs),
		"found", res.Found(),
		"iterations", len(res.Iterations))
	writeJSON(w, http.StatusOK, res)
}

// problems flattens a joined validation error into one message per problem.
func problems(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		out := make([]string, 0, len(joined.Unwrap()))
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		logging.ErrorContext(r.Context(), "Failed to list graphs", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list graphs")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["id"]
	if raw == "" {
		raw = r.URL.Query().Get("id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "graph id must be an integer")
		return
	}

	g, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrGraphNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("graph %d not found", id))
		return
	}
	if err != nil {
		logging.ErrorContext(r.Context(), "Failed to load graph", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load graph")
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleSaveGraph(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}

	g := model.NewGraph("")
	if len(body) > 0 {
		if err := json.Unmarshal(body, g); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
			return
		}
	}
	if g.Name == "" {
		g.Name = CustomGraphName
	}

	id, err := s.store.Insert(r.Context(), g)
	if err != nil {
		logging.ErrorContext(r.Context(), "Failed to save graph", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save graph")
		return
	}

	change := pubsub.CatalogChange{GraphID: id, Name: g.Name, Nodes: len(g.Nodes), Edges: len(g.Edges)}
	if err := s.publisher.Publish(pubsub.CatalogTopic, pubsub.EventGraphSaved, change); err != nil {
		logging.WarnContext(r.Context(), "Failed to publish catalog change", "error", err)
	}
	writeJSON(w, http.StatusOK, savedResponse{ID: id, Name: g.Name})
}

func (s *Server) handleSourceGraph(w http.ResponseWriter, r *http.Request) {
	g, err := s.SourceGraph(r.Context())
	if err != nil {
		logging.WarnContext(r.Context(), "Source graph unavailable", "error", err)
		writeError(w, http.StatusNotFound, "source graph unavailable")
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleSubscribeCatalog(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	sub, err := s.publisher.Subscribe(r.Context(), pubsub.CatalogTopic)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Initial comment so that proxies and Safari open the stream immediately.
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := pubsub.WriteSSE(w, event); err != nil {
				logging.DebugContext(r.Context(), "SSE client went away", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}
