// Package server exposes a live layout over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/TFMV/forcegraph/graph"
	"github.com/TFMV/forcegraph/ingest"
	"github.com/TFMV/forcegraph/layout"
	"github.com/TFMV/forcegraph/metrics"
	"github.com/TFMV/forcegraph/models"
	"github.com/TFMV/forcegraph/render"
)

// maxUploadBytes bounds topology uploads.
const maxUploadBytes = 8 << 20

var validate = validator.New()

// Config for the server
type Config struct {
	Port   int
	Width  float64
	Height float64
}

// Server serves frames from a layout runner and forwards topology changes to
// it.
type Server struct {
	config  Config
	runner  *layout.Runner
	metrics *metrics.Registry
	logger  *log.Logger
	mux     *http.ServeMux
}

// New creates a server for runner. reg may be nil.
func New(config Config, runner *layout.Runner, reg *metrics.Registry, logger *log.Logger) *Server {
	if config.Width <= 0 {
		config.Width = 800
	}
	if config.Height <= 0 {
		config.Height = 600
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	s := &Server{
		config:  config,
		runner:  runner,
		metrics: reg,
		logger:  logger,
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", s.metrics.Handler())

	s.mux.HandleFunc("GET /frame.svg", s.handleFrameAs("svg", "image/svg+xml"))
	s.mux.HandleFunc("GET /frame.txt", s.handleFrameAs("ascii", "text/plain; charset=utf-8"))
	s.mux.HandleFunc("GET /frame.dot", s.handleFrameAs("dot", "text/vnd.graphviz"))
	s.mux.HandleFunc("GET /api/frame", s.handleFrame)

	s.mux.HandleFunc("POST /api/graph", s.handleUpload)
	s.mux.HandleFunc("POST /api/nodes", s.handleAddNode)
	s.mux.HandleFunc("DELETE /api/nodes/{id}", s.handleRemoveNode)
	s.mux.HandleFunc("POST /api/nodes/{id}/pin", s.handlePin)
	s.mux.HandleFunc("POST /api/edges", s.handleAddEdge)
	s.mux.HandleFunc("DELETE /api/edges/{source}/{target}", s.handleRemoveEdge)
}

// Handler returns the instrumented request handler.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		s.mux.ServeHTTP(rec, r)

		pattern := r.Pattern
		if pattern == "" {
			pattern = "unmatched"
		}
		s.metrics.RecordHTTPRequest(r.Method, pattern, strconv.Itoa(rec.status), time.Since(start))
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "elapsed", time.Since(start))
	})
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "port", s.config.Port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"nodes":  len(s.runner.Frame().Nodes),
	})
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.Frame())
}

func (s *Server) handleFrameAs(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		options := render.NewDefaultOptions(format)
		options.Width = s.config.Width
		options.Height = s.config.Height
		options.ColorScheme = r.URL.Query().Get("scheme")

		output, err := render.Render(s.runner.Frame(), options)
		if err != nil {
			http.Error(w, "Error generating visualization: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Write(output)
	}
}

// handleUpload replaces the topology with the posted document. The format
// query parameter selects json (default), yaml or toml.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	processor, err := ingest.ProcessorFor("upload." + format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("error reading body: %w", err))
		return
	}
	g, err := processor.ProcessData(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	id, name, nodes, edges := g.ID, g.Name, len(g.Nodes), len(g.Edges)
	err = s.runner.Submit(r.Context(), func(sess *layout.Session) error {
		return sess.Sync(g)
	})
	if err != nil && !errors.Is(err, graph.ErrCapacity) {
		s.writeMutationError(w, err)
		return
	}

	s.logger.Info("topology replaced", "graph", name, "nodes", nodes, "edges", edges)
	resp := map[string]any{"id": id, "nodes": nodes, "edges": edges}
	if err != nil {
		resp["warning"] = err.Error()
	}
	writeJSON(w, http.StatusCreated, resp)
}

type nodeRequest struct {
	ID     string   `json:"id" validate:"required"`
	Label  string   `json:"label"`
	X      *float64 `json:"x" validate:"required_with=Y"`
	Y      *float64 `json:"y" validate:"required_with=X"`
	Mass   float64  `json:"mass" validate:"gte=0"`
	Anchor bool     `json:"anchor"`
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var req nodeRequest
	if !decode(w, r, &req) {
		return
	}

	node := models.NewNode(req.ID, req.Label)
	if req.X != nil {
		node.SetPosition(*req.X, *req.Y)
	}
	node.Mass = req.Mass
	node.Anchor = req.Anchor

	err := s.runner.Submit(r.Context(), func(sess *layout.Session) error {
		return sess.AddNode(node)
	})
	if err != nil {
		s.writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, node)
}

func (s *Server) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := s.runner.Submit(r.Context(), func(sess *layout.Session) error {
		return sess.RemoveNode(id)
	})
	if err != nil {
		s.writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type pinRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *Server) handlePin(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req pinRequest
	if !decode(w, r, &req) {
		return
	}
	err := s.runner.Submit(r.Context(), func(sess *layout.Session) error {
		return sess.Pin(id, req.X, req.Y)
	})
	if err != nil {
		s.writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type edgeRequest struct {
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
	Label  string `json:"label"`
}

func (s *Server) handleAddEdge(w http.ResponseWriter, r *http.Request) {
	var req edgeRequest
	if !decode(w, r, &req) {
		return
	}

	edge := models.NewEdge(req.Source, req.Target, req.Label)
	err := s.runner.Submit(r.Context(), func(sess *layout.Session) error {
		return sess.AddEdge(edge)
	})
	if err != nil {
		s.writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, edge)
}

func (s *Server) handleRemoveEdge(w http.ResponseWriter, r *http.Request) {
	source, target := r.PathValue("source"), r.PathValue("target")
	err := s.runner.Submit(r.Context(), func(sess *layout.Session) error {
		return sess.RemoveEdge(source, target)
	})
	if err != nil {
		s.writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeMutationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, graph.ErrNodeNotFound), errors.Is(err, graph.ErrEdgeNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, graph.ErrCapacity):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, layout.ErrStopped), errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		s.logger.Error("mutation failed", "err", err)
		writeError(w, http.StatusBadRequest, err)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	if err := validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
