package server

import (
	"net/http"
	"strconv"

	"github.com/jonathan/content-quality/internal/detection"
	"github.com/jonathan/content-quality/internal/format"
	"github.com/jonathan/content-quality/internal/improve"
	"github.com/jonathan/content-quality/internal/pipeline"
	"github.com/jonathan/content-quality/internal/sanitize"
	"github.com/jonathan/content-quality/internal/scoring"
	"github.com/jonathan/content-quality/internal/types"
)

const (
	defaultReportLimit = 20
	maxReportLimit     = 100
)

// handleAssess scores content, remotely when the checker has an enhancer
func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	var req AssessRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.failWith(w, err)
		return
	}

	score, remote := s.checker.Check(r.Context(), req.Content, req.Title, req.Meta, req.Corpus)
	w.Header().Set("X-Quality-Source", sourceName(remote))
	s.jsonResponse(w, http.StatusOK, score)
}

// handleImprove runs the improvement state machine on one piece of content
func (s *Server) handleImprove(w http.ResponseWriter, r *http.Request) {
	var req ImproveRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.failWith(w, err)
		return
	}

	opts := improve.DefaultOptions()
	if req.Options != nil {
		opts = *req.Options
	}
	result := s.improver.Improve(r.Context(), req.Content, req.Title, opts)
	s.jsonResponse(w, http.StatusOK, result)
}

// handleDuplicates compares content against the supplied corpus
func (s *Server) handleDuplicates(w http.ResponseWriter, r *http.Request) {
	var req DuplicatesRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.failWith(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, scoring.Duplicates(req.Content, req.Corpus))
}

// handleDetect classifies the text format and lists AI-style patterns
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req DetectRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.failWith(w, err)
		return
	}

	patterns := detection.Detect(req.Text)
	if patterns == nil {
		patterns = []types.AIPatternMatch{}
	}
	s.jsonResponse(w, http.StatusOK, DetectResponse{
		Format:     format.Detect(req.Text),
		AIPatterns: patterns,
	})
}

// handleSanitize strips unsafe markup
func (s *Server) handleSanitize(w http.ResponseWriter, r *http.Request) {
	var req SanitizeRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.failWith(w, err)
		return
	}

	opts := sanitize.DefaultOptions()
	if req.Options != nil {
		opts = *req.Options
	}
	s.jsonResponse(w, http.StatusOK, SanitizeResponse{HTML: sanitize.Sanitize(req.HTML, opts)})
}

// handleRender runs the full rendering pipeline
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeRender(w, r)
	if err != nil {
		s.failWith(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, pipeline.RenderContent(req.Raw, req.Options))
}

// handleRenderStream runs the rendering pipeline and streams one progress
// event per step before the result
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeRender(w, r)
	if err != nil {
		s.failWith(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	opts := req.Options
	opts.OnProgress = func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("progress", event); err != nil {
			s.logger.Printf("[server] failed to write progress event: %v", err)
		}
	}
	result := pipeline.RenderContent(req.Raw, opts)
	sse.WriteComplete(result)
}

func (s *Server) decodeRender(w http.ResponseWriter, r *http.Request) (*RenderRequest, error) {
	var req RenderRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		return nil, err
	}
	if f := req.Options.Format; f != "" && !f.Valid() {
		return nil, &ErrValidation{Field: "options.format", Message: "unknown format " + strconv.Quote(string(f))}
	}
	return &req, nil
}

// handleLatestReport returns the newest monitor report
func (s *Server) handleLatestReport(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		s.failWith(w, &ErrUnavailable{Feature: "reports"})
		return
	}

	report, err := s.reports.LatestReport(r.Context())
	if err != nil {
		s.failWith(w, err)
		return
	}
	if report == nil {
		s.failWith(w, &ErrNotFound{Resource: "report"})
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleListReports returns recent monitor reports, newest first
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		s.failWith(w, &ErrUnavailable{Feature: "reports"})
		return
	}

	limit := defaultReportLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxReportLimit {
			s.failWith(w, &ErrValidation{Field: "limit", Message: "must be between 1 and " + strconv.Itoa(maxReportLimit)})
			return
		}
		limit = n
	}

	reports, err := s.reports.ListReports(r.Context(), limit)
	if err != nil {
		s.failWith(w, err)
		return
	}
	if reports == nil {
		reports = []types.MonitorReport{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"reports": reports, "count": len(reports)})
}

func sourceName(remote bool) string {
	if remote {
		return "remote"
	}
	return "local"
}
