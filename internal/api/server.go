// Package api exposes the check-in pipeline over HTTP. The engine never
// depends on this package; transport is a thin shell around it.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/marlowe-fi/centsible/internal/common"
	"github.com/marlowe-fi/centsible/internal/model"
	"github.com/marlowe-fi/centsible/internal/service"
)

// CheckInProcessor is the slice of the engine the API needs.
type CheckInProcessor interface {
	ProcessCheckIn(ctx context.Context, userID string, req model.CheckInRequest) (*model.CheckInResult, error)
	EraseUserData(ctx context.Context, userID string) error
}

// Server routes inbound HTTP requests to the check-in engine.
type Server struct {
	engine  CheckInProcessor
	storage service.Storage
	logger  *slog.Logger
	router  *mux.Router
}

// NewServer creates the HTTP server shell.
func NewServer(engine CheckInProcessor, storage service.Storage, logger *slog.Logger) *Server {
	s := &Server{
		engine:  engine,
		storage: storage,
		logger:  logger,
		router:  mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/users/{userID}/checkins", s.handleCheckIn).Methods(http.MethodPost)
	api.HandleFunc("/users/{userID}/state", s.handleGetState).Methods(http.MethodGet)
	api.HandleFunc("/users/{userID}/plan", s.handleGetPlan).Methods(http.MethodGet)
	api.HandleFunc("/users/{userID}/data", s.handleErase).Methods(http.MethodDelete)
	api.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe runs the server until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("http server listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	var req model.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.engine.ProcessCheckIn(r.Context(), userID, req)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	state, err := s.storage.GetOrCreateFinancialState(r.Context(), userID)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	plan, err := s.storage.GetLatestPlan(r.Context(), userID)
	if errors.Is(err, common.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "no plan generated yet")
		return
	}
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleErase(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	if err := s.engine.EraseUserData(r.Context(), userID); err != nil {
		s.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case common.IsValidationError(err):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case common.IsPersistenceError(err):
		s.logger.Error("persistence failure", "error", err)
		s.writeError(w, http.StatusInternalServerError, "storage failure")
	default:
		s.logger.Error("request failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
