// Package server exposes the clipboard service over HTTP and pushes
// clipboard-changed notifications to WebSocket subscribers.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lajidonggua/ClipBox/internal/clipboard"
	"github.com/lajidonggua/ClipBox/internal/datauri"
	"github.com/lajidonggua/ClipBox/internal/history"
	"github.com/lajidonggua/ClipBox/internal/service"
)

// Server wires the REST API and the notification hub around a Service.
type Server struct {
	svc  *service.Service
	hub  *hub
	srv  *http.Server
	addr string
}

// New builds a server listening on addr once started. It registers the hub as
// a change handler so every recorded entry is broadcast to subscribers.
func New(svc *service.Service, addr string) *Server {
	s := &Server{
		svc:  svc,
		hub:  newHub(),
		addr: addr,
	}
	svc.OnChange(func(e history.Entry) { s.hub.notifyChange(e.Content) })
	return s
}

// Router returns the HTTP handler, exposed separately for tests.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/status", s.handleStatus)
	r.Get("/ws", s.hub.serveWs)
	r.Route("/api", func(r chi.Router) {
		r.Get("/history", s.handleGetHistory)
		r.Put("/history", s.handleReplaceHistory)
		r.Delete("/history/{id}", s.handleRemoveEntry)
		r.Post("/clipboard/text", s.handleWriteText)
		r.Post("/clipboard/image", s.handleWriteImage)
		r.Get("/image", s.handleEncodeImage)
	})
	return r
}

// Start begins serving. The listen happens synchronously so an occupied port
// fails here rather than in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.srv = &http.Server{Addr: s.addr, Handler: s.Router()}

	go s.hub.run()
	go func() {
		if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "addr", s.addr, "err", err)
		}
	}()
	slog.Info("http server started", "addr", ln.Addr().String())
	return nil
}

// Stop shuts the server down, waiting up to five seconds for in-flight
// requests.
func (s *Server) Stop() error {
	s.hub.stop()
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// requestLogger emits one structured line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, clipboard.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, datauri.ErrMalformed), errors.Is(err, datauri.ErrInvalidEncoding):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"time":    time.Now().Format(time.RFC3339),
		"entries": len(s.svc.History()),
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.History())
}

func (s *Server) handleReplaceHistory(w http.ResponseWriter, r *http.Request) {
	var entries []history.Entry
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid history payload"})
		return
	}
	s.svc.ReplaceHistory(entries)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.RemoveEntry(chi.URLParam(r, "id")); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWriteText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := s.svc.WriteText(req.Content); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWriteImage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path    string `json:"path,omitempty"`
		DataURI string `json:"data_uri,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	var err error
	switch {
	case req.DataURI != "":
		err = s.svc.WriteImageDataURI(req.DataURI)
	case req.Path != "":
		err = s.svc.WriteImageFile(req.Path)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "either path or data_uri is required"})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEncodeImage(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "path query parameter is required"})
		return
	}
	uri, err := s.svc.ImageDataURI(path)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"data_uri": uri})
}
