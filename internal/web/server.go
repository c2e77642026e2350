package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/musicjoeyoung/MealSnap/internal/analyze"
	"github.com/musicjoeyoung/MealSnap/internal/domain"
	"github.com/musicjoeyoung/MealSnap/internal/service"
)

// mealAnalyzer is the subset of analyze.Analyzer that Server requires.
type mealAnalyzer interface {
	Analyze(ctx context.Context, req analyze.Request) (*domain.AnalysisResult, error)
}

type Server struct {
	analyzer mealAnalyzer
	meals    *service.MealService
	mux      *http.ServeMux
	logger   *slog.Logger
}

func NewServer(analyzer mealAnalyzer, meals *service.MealService, logger *slog.Logger) *Server {
	s := &Server{
		analyzer: analyzer,
		meals:    meals,
		mux:      http.NewServeMux(),
		logger:   logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	// /analyze handles its own method dispatch: the endpoint's contract
	// includes CORS preflight and exact 405 wording.
	s.mux.HandleFunc("/analyze", s.handleAnalyze)

	s.mux.HandleFunc("POST /meals", s.handleSaveMeal)
	s.mux.HandleFunc("GET /meals", s.handleListMeals)
	s.mux.HandleFunc("GET /meals/{id}", s.handleGetMeal)
	s.mux.HandleFunc("DELETE /meals/{id}", s.handleDeleteMeal)
	s.mux.HandleFunc("GET /summary", s.handleDailySummary)

	s.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not found", http.StatusNotFound)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, s.mux).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write json response", "error", err)
	}
}
