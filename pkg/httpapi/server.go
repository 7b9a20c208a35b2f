// Package httpapi exposes the inspection pipeline over HTTP.
//
// The API is versioned under /v1 and exchanges the same JSON document
// format the CLI reads and writes:
//
//	POST /v1/shape            infer the shape of a JSON payload
//	POST /v1/network/analyze  derive roles, build order, and properties
//	POST /v1/network/path     find the shortest path between two nodes
//	POST /v1/network/render   render a network (dot, svg, or json)
//	GET  /healthz             liveness probe with build information
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/netform/netform/pkg/buildinfo"
	"github.com/netform/netform/pkg/errors"
	"github.com/netform/netform/pkg/pipeline"
)

// Server handles API requests. It is safe for concurrent use.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// NewServer creates a server around a pipeline runner.
// If runner is nil, a cacheless runner is used.
func NewServer(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, logger)
	}
	return &Server{runner: runner, logger: logger}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/shape", s.handleShape)
		r.Route("/network", func(r chi.Router) {
			r.Post("/analyze", s.handleAnalyze)
			r.Post("/path", s.handlePath)
			r.Post("/render", s.handleRender)
		})
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

// errorBody is the wire format for all error responses.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorBody{Code: string(code), Message: errors.UserMessage(err)})
}
