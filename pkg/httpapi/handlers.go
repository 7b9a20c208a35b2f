package httpapi

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/netform/netform/pkg/cache"
	"github.com/netform/netform/pkg/errors"
	"github.com/netform/netform/pkg/graph"
	"github.com/netform/netform/pkg/netio"
	"github.com/netform/netform/pkg/observability"
	"github.com/netform/netform/pkg/pipeline"
	"github.com/netform/netform/pkg/shape"
)

// shapeRequest carries an arbitrary JSON payload to inspect.
type shapeRequest struct {
	Data json.RawMessage `json:"data"`
}

// shapeResponse describes the inferred structure of the payload.
type shapeResponse struct {
	Form   string  `json:"form"`
	Shape  string  `json:"shape"`
	Ragged bool    `json:"ragged"`
	Dims   []int   `json:"dims,omitempty"`
	Rows   [][]int `json:"rows,omitempty"`
}

func (s *Server) handleShape(w http.ResponseWriter, r *http.Request) {
	var req shapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed request body"))
		return
	}
	if len(req.Data) == 0 {
		writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "data is required"))
		return
	}

	var value any
	if err := json.Unmarshal(req.Data, &value); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed data payload"))
		return
	}

	// Inference results are cached by the content hash of the raw payload.
	ctx := r.Context()
	key := cache.ShapeKey(cache.Hash(req.Data))
	if data, hit, err := s.runner.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "shape")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}
	observability.Cache().OnCacheMiss(ctx, "shape")

	form, err := shape.FormOf(value)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidShape, err, "shape inference failed"))
		return
	}
	sh := shape.ShapeOf(form)

	resp := shapeResponse{
		Form:   form.String(),
		Shape:  sh.String(),
		Ragged: sh.Ragged(),
	}
	if sh.Ragged() {
		for _, b := range sh.Branches {
			if b.Ragged() {
				resp.Rows = append(resp.Rows, nil)
			} else {
				resp.Rows = append(resp.Rows, b.Dims)
			}
		}
	} else {
		resp.Dims = sh.Dims
	}

	if data, err := json.Marshal(resp); err == nil {
		if err := s.runner.Cache.Set(ctx, key, data, cache.TTLAnalysis); err == nil {
			observability.Cache().OnCacheSet(ctx, "shape", len(data))
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// analyzeResponse wraps the analysis with cache information.
type analyzeResponse struct {
	NetworkHash string            `json:"network_hash"`
	Cached      bool              `json:"cached"`
	Analysis    pipeline.Analysis `json:"analysis"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	net, ok := s.decodeNetwork(w, r.Body)
	if !ok {
		return
	}

	hash := pipeline.NetworkHash(net)
	analysis, cached, err := s.runner.AnalyzeWithCacheInfo(r.Context(), net, hash, pipeline.Options{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.Wrap(errors.ErrCodeInternal, err, "analyze failed"))
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{
		NetworkHash: hash,
		Cached:      cached,
		Analysis:    analysis,
	})
}

// pathRequest names two endpoints in a network document.
type pathRequest struct {
	Network netio.Document `json:"network"`
	From    string         `json:"from"`
	To      string         `json:"to"`
}

// pathResponse reports the shortest path. Path excludes the start node and
// includes the end node; it is empty when from == to.
type pathResponse struct {
	Found bool     `json:"found"`
	Path  []string `json:"path"`
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed request body"))
		return
	}
	net, err := netio.ToNetwork(req.Network)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidNetwork, err, "invalid network"))
		return
	}

	path, found, err := net.FindPath(req.From, req.To)
	if err != nil {
		if stderrors.Is(err, graph.ErrUnknownNode) {
			writeError(w, http.StatusNotFound, errors.Wrap(errors.ErrCodeNodeNotFound, err, "unknown node"))
			return
		}
		writeError(w, http.StatusInternalServerError, errors.Wrap(errors.ErrCodeInternal, err, "path search failed"))
		return
	}

	resp := pathResponse{Found: found, Path: []string{}}
	for _, n := range path {
		resp.Path = append(resp.Path, n.Name)
	}
	writeJSON(w, http.StatusOK, resp)
}

// renderRequest asks for one rendered artifact of a network document.
type renderRequest struct {
	Network    netio.Document `json:"network"`
	Format     string         `json:"format"`
	Detailed   bool           `json:"detailed,omitempty"`
	Horizontal bool           `json:"horizontal,omitempty"`
}

var renderContentTypes = map[string]string{
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed request body"))
		return
	}
	if req.Format == "" {
		req.Format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(req.Format); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid format"))
		return
	}
	net, err := netio.ToNetwork(req.Network)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidNetwork, err, "invalid network"))
		return
	}

	artifacts, err := s.runner.Render(r.Context(), net, pipeline.Options{
		Formats:    []string{req.Format},
		Detailed:   req.Detailed,
		Horizontal: req.Horizontal,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.Wrap(errors.ErrCodeInternal, err, "render failed"))
		return
	}

	w.Header().Set("Content-Type", renderContentTypes[req.Format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[req.Format])
}

// decodeNetwork reads a network document from a request body, writing the
// error response itself on failure.
func (s *Server) decodeNetwork(w http.ResponseWriter, body io.Reader) (*graph.Network, bool) {
	var doc netio.Document
	if err := json.NewDecoder(body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed request body"))
		return nil, false
	}
	net, err := netio.ToNetwork(doc)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidNetwork, err, "invalid network"))
		return nil, false
	}
	return net, true
}
