package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain/ports/repository"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/infra/metrics"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/usecase"
)

// runTimeout bounds a manually triggered run. It has to cover a full
// page of dispatches with retries, so it is far looser than the
// per-request timeouts on the read endpoints.
const runTimeout = 2 * time.Minute

// Pinger reports whether the marker store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server exposes the operational endpoints: liveness, metrics, the
// manual run trigger and the current marker.
type Server struct {
	pollUC  usecase.PollUseCase
	markers repository.MarkerRepository
	store   Pinger
	apiKey  string
	log     *zerolog.Logger
}

func NewServer(
	pollUC usecase.PollUseCase,
	markers repository.MarkerRepository,
	store Pinger,
	apiKey string,
	logger *zerolog.Logger,
) *Server {
	compLog := logger.With().Str("component", "APIServer").Logger()
	return &Server{
		pollUC:  pollUC,
		markers: markers,
		store:   store,
		apiKey:  apiKey,
		log:     &compLog,
	}
}

// Register attaches all routes to the provided router.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Trigger and inspection routes are behind the admin API key.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.With(Timeout(runTimeout)).Post("/run", s.handleRun)
		r.With(Timeout(10*time.Second)).Get("/marker", s.handleMarker)
	})
}

// authMiddleware provides simple Bearer token authentication for the admin routes.
// An unset key disables the routes entirely.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("Admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}

		if tokenParts[1] != s.apiKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.log.Error().Err(err).Msg("marker store unreachable")
		http.Error(w, "marker store unreachable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	report, err := s.pollUC.RunOnce(r.Context())
	switch {
	case errors.Is(err, domain.ErrRunInProgress):
		metrics.IncPollRun("skipped")
		http.Error(w, "a run is already in progress", http.StatusConflict)
		return
	case err != nil:
		metrics.IncPollRun("failed")
		if report != nil {
			metrics.AddNewRecords(report.New)
		}
		s.log.Error().Err(err).Msg("manual run failed")
		http.Error(w, "run failed", http.StatusInternalServerError)
		return
	case report.Baselined:
		metrics.IncPollRun("baselined")
	default:
		metrics.IncPollRun("completed")
	}
	metrics.AddNewRecords(report.New)
	if report.Marker != nil {
		metrics.SetMarkerAgeSeconds(time.Since(report.Marker.AdvancedAt).Seconds())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(report)
}

func (s *Server) handleMarker(w http.ResponseWriter, r *http.Request) {
	marker, err := s.markers.Load(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("marker load failed")
		http.Error(w, "Failed to load marker", http.StatusInternalServerError)
		return
	}
	if marker == nil {
		http.Error(w, "no marker recorded", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(marker)
}
