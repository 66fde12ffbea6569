package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/abhisek/devpath/internal/progress"
	"github.com/abhisek/devpath/internal/roadmap"
)

// Progress is the part of progress.Service the HTTP API drives.
type Progress interface {
	State(ctx context.Context) (progress.State, error)
	Snapshot(ctx context.Context, hoursPerWeek int) (progress.Snapshot, error)
	CheckIn(ctx context.Context) ([]progress.Notification, error)
	Toggle(ctx context.Context, stage, item int) ([]progress.Notification, error)
	GenerateRoadmap(ctx context.Context, goal string) (*roadmap.Roadmap, []progress.Notification, error)
	Challenges(ctx context.Context, tech string) (*roadmap.ChallengeSet, bool, error)
	Estimate(ctx context.Context, hoursPerWeek int) (roadmap.Estimate, error)
	Reset(ctx context.Context, all bool) error
}

// Config configures the HTTP server.
type Config struct {
	Addr string

	// StaticDir, when set, is served at "/".
	StaticDir string

	// HoursPerWeek is used for estimates when the request gives none.
	HoursPerWeek int

	// GenerateRate and GenerateBurst throttle the generation routes.
	// A zero rate disables throttling.
	GenerateRate  rate.Limit
	GenerateBurst int
}

// DefaultConfig returns the server defaults.
func DefaultConfig() Config {
	return Config{
		Addr:          ":3001",
		HoursPerWeek:  roadmap.DefaultHoursPerWeek,
		GenerateRate:  rate.Every(2 * time.Second),
		GenerateBurst: 5,
	}
}

// Server serves the DevPath HTTP API.
type Server struct {
	svc     Progress
	cfg     Config
	logger  *zap.Logger
	limiter *rate.Limiter
	handler http.Handler
}

// New creates a Server.
func New(svc Progress, cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.HoursPerWeek <= 0 {
		cfg.HoursPerWeek = roadmap.DefaultHoursPerWeek
	}
	s := &Server{svc: svc, cfg: cfg, logger: logger}
	if cfg.GenerateRate > 0 {
		s.limiter = rate.NewLimiter(cfg.GenerateRate, max(cfg.GenerateBurst, 1))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/gerar-roadmap", s.throttle(s.handleGenerateRoadmap))
	mux.HandleFunc("POST /api/gerar-desafios", s.throttle(s.handleGenerateChallenges))
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/toggle", s.handleToggle)
	mux.HandleFunc("POST /api/checkin", s.handleCheckIn)
	mux.HandleFunc("GET /api/estimate", s.handleEstimate)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("GET /api/achievements", s.handleAchievements)

	if cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	s.handler = s.logRequests(cors(mux))
	return s
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.cfg.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) throttle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, errorBody{
				Error:   "Muitas requisições",
				Details: "generation rate limit exceeded, try again shortly",
			})
			return
		}
		next(w, r)
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
