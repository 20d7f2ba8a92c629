package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/matzehuels/mindmap/pkg/buildinfo"
	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/pipeline"
	"github.com/matzehuels/mindmap/pkg/snapshot"
)

// LayoutRequest is the body of POST /v1/layout. Option fields left out of
// the request keep the server defaults.
type LayoutRequest struct {
	Document snapshot.Document `json:"document"`
	Options  pipeline.Options  `json:"options"`
}

// LayoutResponse is the body of a successful POST /v1/layout.
type LayoutResponse struct {
	Document     snapshot.Document       `json:"document"`
	Info         layout.OptimizationInfo `json:"info"`
	SnapshotHash string                  `json:"snapshot_hash"`
	Cached       bool                    `json:"cached"`
	DurationMS   int64                   `json:"duration_ms"`
}

// ExportRequest is the body of POST /v1/export. The format comes from the
// format query parameter.
type ExportRequest struct {
	Document    snapshot.Document `json:"document"`
	Engine      string            `json:"engine,omitempty"`
	Transparent bool              `json:"transparent,omitempty"`
	ShowIndex   bool              `json:"show_index,omitempty"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error     ErrorBody `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatSVG:  "image/svg+xml",
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	req := LayoutRequest{Options: s.defaults}
	if err := decode(r.Body, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := s.document(req.Document)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()
	result, err := s.runner.Optimize(ctx, data, req.Options, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LayoutResponse{
		Document:     snapshot.FromData(result.Data),
		Info:         result.Info,
		SnapshotHash: result.SnapshotHash,
		Cached:       result.Cached,
		DurationMS:   result.Duration.Milliseconds(),
	})
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	var req ExportRequest
	if err := decode(r.Body, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := s.document(req.Document)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()
	out, _, err := s.runner.Export(ctx, data, pipeline.ExportOptions{
		Format:      format,
		Engine:      req.Engine,
		Transparent: req.Transparent,
		ShowIndex:   req.ShowIndex,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// document converts and bounds a request document.
func (s *Server) document(doc snapshot.Document) (*mindmap.Data, error) {
	if s.cfg.MaxNodes > 0 && len(doc.Nodes) > s.cfg.MaxNodes {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document has %d nodes, limit is %d", len(doc.Nodes), s.cfg.MaxNodes)
	}
	data, err := doc.ToData()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "invalid document")
	}
	return data, nil
}

func decode(body io.Reader, v any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := errors.HTTPStatus(code)
	msg := message(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err, "request_id", RequestID(r.Context()))
		if code == errors.ErrCodeInternal {
			msg = "internal error"
		}
	}
	writeJSON(w, status, ErrorResponse{
		Error:     ErrorBody{Code: code, Message: msg},
		RequestID: RequestID(r.Context()),
	})
}

// message includes the cause, which for client errors says what to fix.
func message(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Cause != nil {
		return e.Message + ": " + errors.UserMessage(e.Cause)
	}
	return errors.UserMessage(err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
