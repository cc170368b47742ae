package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/content-quality/internal/metrics"
	"github.com/jonathan/content-quality/internal/server/ratelimit"
	"github.com/jonathan/content-quality/internal/types"
)

type fakeReports struct {
	latest *types.MonitorReport
	list   []types.MonitorReport
	err    error
	limit  int
}

func (f *fakeReports) LatestReport(context.Context) (*types.MonitorReport, error) {
	return f.latest, f.err
}

func (f *fakeReports) ListReports(_ context.Context, limit int) ([]types.MonitorReport, error) {
	f.limit = limit
	return f.list, f.err
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	if cfg.RateLimit == nil {
		cfg.RateLimit = &ratelimit.Config{Enabled: false}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}
	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestNew_InvalidPort(t *testing.T) {
	_, err := New(Config{Port: 70000})
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, Config{})

	w := do(t, s, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, map[string]string{"status": "ok"}, decodeBody[map[string]string](t, w))
}

func TestAssessEndpoint(t *testing.T) {
	m := metrics.NewWithRegistry()
	s := newTestServer(t, Config{Metrics: m})

	w := do(t, s, http.MethodPost, "/assess", `{"content":"<p>A bright flat close to the metro.</p>","title":"Bright Flat"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "local", w.Header().Get("X-Quality-Source"))
	score := decodeBody[types.QualityScore](t, w)
	assert.GreaterOrEqual(t, score.Overall, 0)
	assert.LessOrEqual(t, score.Overall, 100)
	assert.NotNil(t, score.Issues)

	metricsBody := do(t, s, http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, metricsBody, `content_quality_assessments_total{source="local"} 1`)
}

func TestRequestErrors(t *testing.T) {
	s := newTestServer(t, Config{})

	tests := []struct {
		name    string
		path    string
		body    string
		status  int
		message string
	}{
		{"missing content", "/assess", `{"title":"x"}`, http.StatusBadRequest, "validation error: content - is required"},
		{"malformed json", "/assess", `{"content":`, http.StatusBadRequest, "invalid request body"},
		{"min score range", "/improve", `{"content":"x","options":{"min_score":101}}`, http.StatusBadRequest, "validation error: options.min_score - must be at most 100"},
		{"duplicates content", "/duplicates", `{"corpus":[]}`, http.StatusBadRequest, "validation error: content - is required"},
		{"unknown format", "/render", `{"raw":"x","options":{"format":"rtf"}}`, http.StatusBadRequest, `validation error: options.format - unknown format "rtf"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, decodeBody[map[string]string](t, w)["error"], tt.message)
		})
	}
}

func TestBodyTooLarge(t *testing.T) {
	s := newTestServer(t, Config{})
	body := `{"content":"` + strings.Repeat("a", MaxBodyBytes+10) + `"}`

	w := do(t, s, http.MethodPost, "/assess", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestImproveEndpoint(t *testing.T) {
	s := newTestServer(t, Config{})
	body := `{"content":"<p>Sea View Flat</p><p>Bright rooms with a view of the bay. [image: terrace]","title":"Sea View Flat","options":{"min_score":100,"fix_seo":true,"fix_readability":true,"remove_ai_patterns":true}}`

	w := do(t, s, http.MethodPost, "/improve", body)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decodeBody[types.ImprovedContent](t, w)
	assert.False(t, got.UsedRemoteEnhancer)
	assert.Equal(t, "<h2>Sea View Flat</h2><p>Bright rooms with a view of the bay.</p>", got.Content)
	assert.Contains(t, got.Improvements, "Removed 1 placeholder token(s)")
}

func TestSanitizeEndpoint(t *testing.T) {
	s := newTestServer(t, Config{})

	w := do(t, s, http.MethodPost, "/sanitize", `{"html":"<p onclick=\"x()\">Hi</p><script>alert(1)</script>"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, SanitizeResponse{HTML: "<p>Hi</p>"}, decodeBody[SanitizeResponse](t, w))
}

func TestRenderEndpoint(t *testing.T) {
	s := newTestServer(t, Config{})

	w := do(t, s, http.MethodPost, "/render", `{"raw":"&lt;h2&gt;Title&lt;/h2&gt;"}`)

	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[map[string]any](t, w)
	assert.Equal(t, "<h2>Title</h2>", got["html"])
	assert.Equal(t, string(types.FormatHTMLEscaped), got["format"])
}

func TestRenderStreamEndpoint(t *testing.T) {
	s := newTestServer(t, Config{})

	w := do(t, s, http.MethodPost, "/render/stream", `{"raw":"<h3>Storage Tips"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "event: progress\n")
	assert.Contains(t, body, `"step":"repair"`)
	assert.Less(t, strings.Index(body, "event: progress"), strings.Index(body, "event: complete"))

	_, tail, found := strings.Cut(body, "event: complete\ndata: ")
	require.True(t, found, body)
	var result struct {
		HTML   string              `json:"html"`
		Format types.ContentFormat `json:"format"`
	}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(tail)), &result))
	assert.Equal(t, "<h3>Storage Tips</h3>", result.HTML)
	assert.Equal(t, types.FormatHTML, result.Format)
}

func TestDetectEndpoint(t *testing.T) {
	s := newTestServer(t, Config{})

	tests := []struct {
		name     string
		text     string
		format   types.ContentFormat
		patterns int
	}{
		{"markdown", "## Kitchen\nNew cabinets.", types.FormatMarkdown, 0},
		{"plain opener", "In today's fast-paced world, homes sell quickly.", types.FormatPlain, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(DetectRequest{Text: tt.text})
			require.NoError(t, err)

			w := do(t, s, http.MethodPost, "/detect", string(body))

			require.Equal(t, http.StatusOK, w.Code)
			got := decodeBody[DetectResponse](t, w)
			assert.Equal(t, tt.format, got.Format)
			assert.Len(t, got.AIPatterns, tt.patterns)
			assert.NotNil(t, got.AIPatterns)
		})
	}
}

func TestDuplicatesEndpoint(t *testing.T) {
	s := newTestServer(t, Config{})
	req := DuplicatesRequest{
		Content: "alpha bravo charlie delta echo foxtrot golf hotel india juliet",
		Corpus: []types.CorpusItem{
			{ID: "b", Title: "B", Slug: "b", Content: "<p>alpha bravo charlie delta echo foxtrot golf hotel india kilo</p>"},
		},
	}
	body, err := json.Marshal(req)
	require.NoError(t, err)

	w := do(t, s, http.MethodPost, "/duplicates", string(body))

	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[types.DuplicateReport](t, w)
	assert.True(t, got.IsDuplicate)
	require.Len(t, got.SimilarArticles, 1)
	assert.Equal(t, "b", got.SimilarArticles[0].ID)
}

func TestReportEndpoints(t *testing.T) {
	runID := uuid.MustParse("5b3c1c9e-7f0a-4d8e-9a51-2f6c0d7e8a11")
	report := types.MonitorReport{RunID: runID, Total: 2, Average: 61.5}

	t.Run("not configured", func(t *testing.T) {
		s := newTestServer(t, Config{})
		assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/reports/latest", "").Code)
		assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/reports", "").Code)
	})

	t.Run("no report yet", func(t *testing.T) {
		s := newTestServer(t, Config{Reports: &fakeReports{}})
		w := do(t, s, http.MethodGet, "/reports/latest", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "report not found", decodeBody[map[string]string](t, w)["error"])
	})

	t.Run("latest", func(t *testing.T) {
		s := newTestServer(t, Config{Reports: &fakeReports{latest: &report}})
		w := do(t, s, http.MethodGet, "/reports/latest", "")
		require.Equal(t, http.StatusOK, w.Code)
		got := decodeBody[types.MonitorReport](t, w)
		assert.Equal(t, runID, got.RunID)
		assert.InDelta(t, 61.5, got.Average, 1e-9)
	})

	t.Run("list", func(t *testing.T) {
		src := &fakeReports{list: []types.MonitorReport{report}}
		s := newTestServer(t, Config{Reports: src})
		w := do(t, s, http.MethodGet, "/reports?limit=5", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 5, src.limit)
		assert.InDelta(t, 1, decodeBody[map[string]any](t, w)["count"], 1e-9)
	})

	t.Run("bad limit", func(t *testing.T) {
		s := newTestServer(t, Config{Reports: &fakeReports{}})
		assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/reports?limit=0", "").Code)
	})

	t.Run("store failure", func(t *testing.T) {
		s := newTestServer(t, Config{Reports: &fakeReports{err: errors.New("connection refused")}})
		w := do(t, s, http.MethodGet, "/reports/latest", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal error", decodeBody[map[string]string](t, w)["error"])
	})
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, Config{})

	w := do(t, s, http.MethodOptions, "/assess", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, Config{RateLimit: &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
	}})

	first := do(t, s, http.MethodPost, "/detect", `{"text":"hi"}`)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := do(t, s, http.MethodPost, "/detect", `{"text":"hi"}`)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decodeBody[map[string]any](t, second)["error"])

	// probes are never limited
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", "").Code)
	}
}

func TestExtractClientID(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	req.RemoteAddr = "203.0.113.7:5123"
	assert.Equal(t, "203.0.113.7", s.extractClientID(req))

	req.RemoteAddr = "not-an-address"
	assert.Equal(t, "not-an-address", s.extractClientID(req))
}

func TestSSEWriter(t *testing.T) {
	w := httptest.NewRecorder()
	sse, err := NewSSEWriter(w)
	require.NoError(t, err)

	require.NoError(t, sse.WriteEvent("progress", map[string]string{"step": "convert"}))
	sse.WriteComplete(map[string]int{"n": 1})

	assert.Equal(t, "event: progress\ndata: {\"step\":\"convert\"}\n\nevent: complete\ndata: {\"n\":1}\n\n", w.Body.String())
	assert.True(t, w.Flushed)
}
