// Package server exposes the communication workflow over a JSON REST API.
// Every review gate decision is a separate request, so a run can be started
// by one client and approved later by another.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Backland-Labs/courier/internal/logger"
)

// Common errors returned by the server
var (
	// ErrServerRunning is returned when attempting to start an already running server
	ErrServerRunning = errors.New("server is already running")
)

// Server is the HTTP front end of a workflow engine
type Server struct {
	port    int
	engine  RunEngine
	metrics *Metrics

	mu         sync.Mutex
	running    bool
	httpServer *http.Server
	listener   net.Listener
}

// NewServer creates a server for engine on port. Port 0 picks a free port
// on localhost when started.
func NewServer(port int, engine RunEngine) *Server {
	logger.WithField("port", port).Debug("Creating new server")
	return &Server{
		port:    port,
		engine:  engine,
		metrics: NewMetrics(),
	}
}

type route struct {
	pattern string
	handler http.HandlerFunc
}

func (s *Server) routes() []route {
	return []route{
		{"/health", s.healthHandler},
		{"/runs", s.runsHandler},
		{"/runs/{id}", s.runHandler},
		{"/runs/{id}/email/approve", s.approveEmailHandler},
		{"/runs/{id}/email/reject", s.rejectEmailHandler},
		{"/runs/{id}/chat/approve", s.approveChatHandler},
		{"/runs/{id}/chat/reject", s.rejectChatHandler},
	}
}

// Handler returns the routed, logged handler of the API
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	withLogging := logger.HTTPMiddleware(logger.GetLogger())
	for _, r := range s.routes() {
		mux.Handle(r.pattern, withLogging(r.handler))
	}
	return mux
}

// Start listens on the configured port and serves until ctx is canceled.
// It returns http.ErrServerClosed after a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	if err := s.claim(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		s.release()
		return err
	}

	listener, err := net.Listen("tcp", s.listenAddr())
	if err != nil {
		s.release()
		logger.WithError(err).Error("Failed to create listener")
		return fmt.Errorf("failed to listen: %w", err)
	}

	// A shut down http.Server cannot be reused, so each start gets its own.
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.listener = listener
	s.httpServer = httpServer
	s.mu.Unlock()
	defer s.release()

	logger.WithField("address", listener.Addr().String()).Info("Server listening")

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
		case <-stopped:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}()

	err = httpServer.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		logger.Info("Server shut down gracefully")
	} else if err != nil {
		logger.WithError(err).Error("Server error")
	}
	return err
}

func (s *Server) listenAddr() string {
	if s.port == 0 {
		return "localhost:0"
	}
	return fmt.Sprintf("0.0.0.0:%d", s.port)
}

func (s *Server) claim() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		logger.Warn("Attempted to start already running server")
		return ErrServerRunning
	}
	s.running = true
	return nil
}

func (s *Server) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.listener = nil
}

// Address returns the address the server is listening on, or "" when it
// is not running
func (s *Server) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// respondWithJSON writes v with the given status code
func (s *Server) respondWithJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithFields(map[string]interface{}{
			"error":       err.Error(),
			"status_code": statusCode,
		}).Error("Failed to encode response")
	}
}

// respondWithError sends a JSON error response with the specified status code
func (s *Server) respondWithError(w http.ResponseWriter, statusCode int, message string) {
	logger.WithFields(map[string]interface{}{
		"status_code":   statusCode,
		"error_message": message,
	}).Debug("Sending error response")

	s.respondWithJSON(w, statusCode, map[string]string{errorFieldName: message})
}
