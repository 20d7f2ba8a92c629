package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/mindmap/pkg/config"
	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/observability"
	"github.com/matzehuels/mindmap/pkg/observability/prom"
	"github.com/matzehuels/mindmap/pkg/pipeline"
)

const threeNodes = `{
  "version": 1,
  "name": "test",
  "nodes": [
    {"index": 0, "x": 0, "y": 0, "width": 80, "height": 30, "text": "root"},
    {"index": 1, "x": 0, "y": 0, "width": 60, "height": 20, "text": "a"},
    {"index": 2, "x": 0, "y": 0, "width": 60, "height": 20, "text": "b"}
  ],
  "edges": [{"from": 0, "to": 1}, {"from": 0, "to": 2}]
}`

func testConfig() config.Server {
	return config.Server{
		Addr:           "127.0.0.1:0",
		RequestTimeout: 10 * time.Second,
		MaxBodyBytes:   1 << 16,
		MaxNodes:       10,
	}
}

func newTestServer(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	defaults := pipeline.DefaultOptions()
	defaults.Layout.MaxIterations = 500
	opts = append([]Option{WithDefaults(defaults)}, opts...)
	return New(runner, testConfig(), opts...).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestLayout(t *testing.T) {
	body := `{"document": ` + threeNodes + `, "options": {"min_edge_length": 80}}`
	w := do(t, newTestServer(t), http.MethodPost, "/v1/layout", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if _, err := uuid.Parse(w.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("missing request id: %q", w.Header().Get(RequestIDHeader))
	}

	var resp LayoutResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Document.Nodes) != 3 || len(resp.Document.Edges) != 2 {
		t.Fatalf("document has %d nodes, %d edges", len(resp.Document.Nodes), len(resp.Document.Edges))
	}
	if resp.Info.FinalCost > resp.Info.InitialCost {
		t.Errorf("cost grew: %+v", resp.Info)
	}
	if resp.Info.Iterations == 0 || resp.Info.Iterations > 500 {
		t.Errorf("iterations = %d, want default limit of 500 applied", resp.Info.Iterations)
	}
	if resp.SnapshotHash == "" {
		t.Error("missing snapshot hash")
	}
}

func TestRequestIDIsKept(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	w := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}
}

func TestLayoutErrors(t *testing.T) {
	manyNodes := func(n int) string {
		var nodes []string
		for i := 0; i < n; i++ {
			nodes = append(nodes, `{"index": `+strconv.Itoa(i)+`}`)
		}
		return `{"document": {"nodes": [` + strings.Join(nodes, ",") + `], "edges": []}}`
	}

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   errors.Code
	}{
		{
			name:       "MalformedJSON",
			body:       `{"document": `,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidInput,
		},
		{
			name:       "UnknownField",
			body:       `{"doc": {}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidInput,
		},
		{
			name:       "DanglingEdge",
			body:       `{"document": {"nodes": [{"index": 0}], "edges": [{"from": 0, "to": 3}]}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidGraph,
		},
		{
			name:       "TooManyNodes",
			body:       manyNodes(11),
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidInput,
		},
		{
			name:       "BadAspectRatio",
			body:       `{"document": ` + threeNodes + `, "options": {"aspect_ratio": -2}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidOptions,
		},
		{
			name:       "BodyTooLarge",
			body:       `{"document": {"name": "` + strings.Repeat("x", 1<<17) + `"}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidInput,
		},
	}

	h := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/v1/layout", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			resp := decodeError(t, w)
			if resp.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Error.Code, tt.wantCode)
			}
			if resp.Error.Message == "" || resp.RequestID == "" {
				t.Errorf("incomplete error response: %+v", resp)
			}
		})
	}
}

func TestExport(t *testing.T) {
	h := newTestServer(t)
	body := `{"document": ` + threeNodes + `, "show_index": true}`

	w := do(t, h, http.MethodPost, "/v1/export?format=dot", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("n0 -> n1")) {
		t.Errorf("dot output lacks edge:\n%s", w.Body.String())
	}

	w = do(t, h, http.MethodPost, "/v1/export?format=png", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("png status = %d, want 400", w.Code)
	}
	if resp := decodeError(t, w); resp.Error.Code != errors.ErrCodeInvalidFormat {
		t.Errorf("code = %q, want %q", resp.Error.Code, errors.ErrCodeInvalidFormat)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	hooks := prom.New(reg)
	observability.SetServerHooks(hooks)
	observability.SetLayoutHooks(hooks)
	t.Cleanup(observability.Reset)

	h := newTestServer(t, WithMetrics(reg))
	if w := do(t, h, http.MethodPost, "/v1/layout", `{"document": `+threeNodes+`}`); w.Code != http.StatusOK {
		t.Fatalf("layout status = %d", w.Code)
	}

	w := do(t, h, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", w.Code)
	}
	for _, name := range []string{"mindmap_http_requests_total", "mindmap_optimizations_total", `route="/v1/layout"`} {
		if !strings.Contains(w.Body.String(), name) {
			t.Errorf("metrics output lacks %s", name)
		}
	}
}

func TestMetricsDisabled(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/metrics", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 without a gatherer", w.Code)
	}
}
