package web

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritzau/dijkstra-trace/pkg/model"
	"github.com/ritzau/dijkstra-trace/pkg/pubsub"
	"github.com/ritzau/dijkstra-trace/pkg/store"
)

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

const chainRequest = `{
	"nodeIds": ["A", "B", "C"],
	"edges": [{"a": "A", "b": "B", "w": 10}, {"a": "B", "b": "C", "w": 5}],
	"startId": "A",
	"goalId": "C"
}`

func TestDijkstraEndpoint(t *testing.T) {
	s := NewServer(Options{})

	rec := do(t, s, http.MethodPost, "/api/dijkstra", chainRequest)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var res model.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, []string{"A", "B", "C"}, res.Path)
	require.NotNil(t, res.Total)
	assert.Equal(t, 15.0, *res.Total)
	assert.Equal(t, []model.EdgeRef{{A: "A", B: "B"}, {A: "B", B: "C"}}, res.EdgePath)
	assert.Len(t, res.Iterations, 3)
}

func TestDijkstraEndpointLegacyKeys(t *testing.T) {
	s := NewServer(Options{})

	rec := do(t, s, http.MethodPost, "/api/dijkstra", `{
		"titik": [1, 2, 3],
		"garis": [{"a": 1, "b": 2, "w": 40}, {"a": 2, "b": 3, "w": 60}],
		"awalId": 1,
		"tujuanId": 3
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["1","2","3"]`, extract(t, rec, "path"))
	assert.JSONEq(t, `100`, extract(t, rec, "total"))
}

func TestDijkstraEndpointEmptyAnswers(t *testing.T) {
	s := NewServer(Options{})

	for _, body := range []string{"", "{}", `{"nodeIds": ["A"], "edges": [], "startId": "A", "goalId": "Z"}`} {
		rec := do(t, s, http.MethodPost, "/api/dijkstra", body)
		require.Equal(t, http.StatusOK, rec.Code, "body %q", body)
		assert.JSONEq(t, `{"path":[],"total":null,"edgePath":[],"iterations":[]}`, rec.Body.String())
	}
}

func TestDijkstraEndpointRejectsBadJSON(t *testing.T) {
	rec := do(t, NewServer(Options{}), http.MethodPost, "/api/dijkstra", `{"nodeIds": [`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, extract(t, rec, "error"), "invalid JSON")
}

func TestDijkstraEndpointStrictMode(t *testing.T) {
	body := `{
		"nodeIds": ["A", "B", "A"],
		"edges": [{"a": "A", "b": "B", "w": -1}],
		"startId": "A",
		"goalId": "B"
	}`

	lenient := do(t, NewServer(Options{}), http.MethodPost, "/api/dijkstra", body)
	assert.Equal(t, http.StatusOK, lenient.Code)

	strict := do(t, NewServer(Options{Strict: true}), http.MethodPost, "/api/dijkstra", body)
	require.Equal(t, http.StatusUnprocessableEntity, strict.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(strict.Body.Bytes(), &resp))
	assert.Len(t, resp.Problems, 2)
	assert.Contains(t, strings.Join(resp.Problems, "\n"), "duplicate")
	assert.Contains(t, strings.Join(resp.Problems, "\n"), "negative")
}

func TestGraphCatalog(t *testing.T) {
	s := NewServer(Options{Store: store.NewMemory()})

	rec := do(t, s, http.MethodPost, "/api/graphs", `{
		"nodes": [{"id": "T1", "x": 10, "y": 20}, {"id": "T2", "x": 30, "y": 40}],
		"edges": [{"a": "T1", "b": "T2", "w": 5}]
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var saved savedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, CustomGraphName, saved.Name)

	rec = do(t, s, http.MethodPost, "/api/graf/simpan", `{"nama": "Kampus", "titik": [], "garis": []}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/graphs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.GraphSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Kampus", list[0].Name)

	rec = do(t, s, http.MethodGet, "/api/graphs/"+itoa(saved.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var g model.Graph
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	assert.Equal(t, []string{"T1", "T2"}, g.NodeIDs())
	assert.Equal(t, "T1", g.Nodes[0].Name)

	rec = do(t, s, http.MethodGet, "/api/graf/muat?id="+itoa(saved.ID), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/graphs/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/graf/muat?id=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/graphs", `[1, 2`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSourceGraph(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "graf.json")
	require.NoError(t, os.WriteFile(source, []byte(`{"X": [["Y", 7]], "Y": [["X", 7]]}`), 0o644))

	mem := store.NewMemory()
	s := NewServer(Options{Store: mem, SourcePath: source})

	rec := do(t, s, http.MethodGet, "/api/graphs/source", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var g model.Graph
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	assert.Equal(t, model.DefaultGraphName, g.Name)
	assert.Len(t, g.Nodes, 2)
	assert.Equal(t, []model.Edge{{A: "X", B: "Y", W: 7}}, g.Edges)

	_, found, err := mem.FindByName(context.Background(), model.DefaultGraphName)
	require.NoError(t, err)
	assert.True(t, found, "source graph is seeded into the store")

	rec = do(t, s, http.MethodGet, "/api/graf/json", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReloadSourceRefreshesStoredGraph(t *testing.T) {
	ctx := context.Background()
	source := filepath.Join(t.TempDir(), "graf.json")
	require.NoError(t, os.WriteFile(source, []byte(`{"A": [["B", 1]]}`), 0o644))

	mem := store.NewMemory()
	s := NewServer(Options{Store: mem, SourcePath: source})

	sub, err := s.publisher.Subscribe(ctx, pubsub.CatalogTopic)
	require.NoError(t, err)
	defer sub.Close()

	first, err := s.ReloadSource(ctx)
	require.NoError(t, err)
	id := s.SourceID()
	require.NotZero(t, id)
	assert.Len(t, first.Nodes, 2)
	<-sub.Events()

	require.NoError(t, os.WriteFile(source, []byte(`{"A": [["B", 1]], "B": [["C", 2]]}`), 0o644))
	second, err := s.ReloadSource(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, s.SourceID())
	require.Len(t, second.Nodes, 3)
	require.Len(t, second.Edges, 2)

	stored, err := mem.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, second.Nodes, stored.Nodes)
	assert.Equal(t, second.Edges, stored.Edges)

	event := <-sub.Events()
	assert.Equal(t, pubsub.EventSourceReloaded, event.Type)
	var change pubsub.CatalogChange
	require.NoError(t, json.Unmarshal(event.Data, &change))
	assert.Equal(t, pubsub.CatalogChange{GraphID: id, Name: model.DefaultGraphName, Nodes: 3, Edges: 2}, change)

	rec := do(t, s, http.MethodGet, "/api/graphs/"+itoa(id), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var loaded model.Graph
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loaded))
	assert.Len(t, loaded.Edges, 2)
}

func TestSourceGraphMissing(t *testing.T) {
	rec := do(t, NewServer(Options{}), http.MethodGet, "/api/graphs/source", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	s := NewServer(Options{SourcePath: filepath.Join(t.TempDir(), "missing.json")})
	rec = do(t, s, http.MethodGet, "/api/graphs/source", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogStream(t *testing.T) {
	s := NewServer(Options{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/subscribe/catalog", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": connected\n", line)

	// Wait until the subscription is registered before publishing.
	require.Eventually(t, func() bool {
		return s.publisher.Subscribers(pubsub.CatalogTopic) == 1
	}, time.Second, 5*time.Millisecond)

	rec := do(t, s, http.MethodPost, "/api/graphs", `{"name": "Streamed"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var data string
	for data == "" {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if payload, ok := strings.CutPrefix(line, "data: "); ok {
			data = payload
		}
	}

	var event pubsub.Event
	require.NoError(t, json.Unmarshal([]byte(data), &event))
	assert.Equal(t, pubsub.EventGraphSaved, event.Type)
	var change pubsub.CatalogChange
	require.NoError(t, json.Unmarshal(event.Data, &change))
	assert.Equal(t, "Streamed", change.Name)
}

func TestStaticAndCORS(t *testing.T) {
	s := NewServer(Options{})

	rec := do(t, s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dijkstra-trace")

	rec = do(t, s, http.MethodOptions, "/api/dijkstra", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRunStopsOnCancel(t *testing.T) {
	s := NewServer(Options{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func extract(t *testing.T, rec *httptest.ResponseRecorder, field string) string {
	t.Helper()
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	raw := body[field]
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
