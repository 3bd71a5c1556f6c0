// Package api exposes the advisor over HTTP. Every user-scoped route lives
// under /api/v1/users/{userID}; context assembly and advice generation go
// through the advice engine, everything else is store CRUD.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/finsight/advisor-cli/internal/advice"
	"github.com/finsight/advisor-cli/internal/budgetio"
	"github.com/finsight/advisor-cli/internal/model"
	"github.com/finsight/advisor-cli/internal/monitoring"
	"github.com/finsight/advisor-cli/internal/store"
)

// Server is the HTTP front end for the advisor.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	store      store.Store
	engine     *advice.Engine
	collector  *monitoring.Collector
}

// Config holds server configuration.
type Config struct {
	Port   int
	Store  store.Store
	Engine *advice.Engine
}

// New creates a new API server.
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		store:     cfg.Store,
		engine:    cfg.Engine,
		collector: monitoring.NewCollector(cfg.Store),
	}

	s.setupRouter()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupRouter() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Timeout(30 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/stats", s.handleStats)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/context", s.handleGetContext)

			r.Get("/profile", s.handleGetProfile)
			r.Put("/profile", s.handlePutProfile)
			r.Patch("/profile/fields", s.handlePatchProfileFields)

			r.Get("/session", s.handleGetSession)
			r.Put("/session", s.handlePutSession)
			r.Delete("/session", s.handleDeleteSession)

			r.Get("/budget", s.handleGetBudget)
			r.Put("/budget", s.handlePutBudget)

			r.Post("/advice", s.handleAdvise)
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	zap.L().Info("http server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "api: serve")
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	hours := 24
	if raw := r.URL.Query().Get("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "Invalid hours parameter")
			return
		}
		hours = parsed
	}

	snap, err := s.collector.Collect(r.Context(), hours)
	if err != nil {
		zap.L().Error("failed to collect stats", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to collect stats")
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleGetContext(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	query := r.URL.Query().Get("query")

	assembled, err := s.engine.AssembleContext(r.Context(), userID, query)
	if err != nil {
		zap.L().Error("failed to assemble context",
			zap.String("user_id", userID),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to assemble context")
		return
	}
	respondJSON(w, http.StatusOK, assembled)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	profile, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}
	if profile == nil {
		respondError(w, http.StatusNotFound, "Profile not found")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var profile model.AccountProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	profile.UserID = userID

	if err := s.store.SaveProfile(r.Context(), &profile); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save profile")
		return
	}
	respondJSON(w, http.StatusOK, &profile)
}

func (s *Server) handlePatchProfileFields(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(fields) == 0 {
		respondError(w, http.StatusBadRequest, "No fields provided")
		return
	}
	for field := range fields {
		if !model.IsProfileField(field) {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Unknown profile field %q", field))
			return
		}
	}

	var profile *model.AccountProfile
	for field, value := range fields {
		updated, err := s.store.SetProfileField(r.Context(), userID, field, value)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}
		profile = updated
	}
	respondJSON(w, http.StatusOK, profile)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	session, err := s.store.GetSession(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}
	if session == nil {
		respondError(w, http.StatusNotFound, "Session not found")
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handlePutSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var session model.SessionContext
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	session.UserID = userID

	if err := s.store.PutSession(r.Context(), &session); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}
	respondJSON(w, http.StatusOK, &session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if err := s.store.ClearSession(r.Context(), userID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to clear session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	record, err := s.store.GetBudget(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to get budget")
		return
	}
	if record == nil {
		respondError(w, http.StatusNotFound, "Budget not found")
		return
	}
	respondJSON(w, http.StatusOK, record)
}

func (s *Server) handlePutBudget(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var budget model.UnifiedBudgetModel
	if err := json.NewDecoder(r.Body).Decode(&budget); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := budgetio.Validate(&budget); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if budget.Summary == (model.BudgetSummary{}) {
		budget.Summary = budget.ComputeSummary()
	}

	record := &model.BudgetRecord{UserID: userID, Budget: budget}
	if err := s.store.PutBudget(r.Context(), record); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save budget")
		return
	}
	respondJSON(w, http.StatusOK, record)
}

func (s *Server) handleAdvise(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Query == "" {
		respondError(w, http.StatusBadRequest, "Query is required")
		return
	}

	result, err := s.engine.Advise(r.Context(), userID, req.Query)
	if err != nil {
		zap.L().Error("failed to generate advice",
			zap.String("user_id", userID),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to generate advice")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			zap.L().Error("failed to encode response", zap.Error(err))
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
