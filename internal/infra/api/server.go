package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"roast-panel-service/internal/domain/model"
	"roast-panel-service/internal/domain/ports/repository"
	"roast-panel-service/internal/infra/logging"
	"roast-panel-service/internal/usecase"
)

// Server wires the public roast endpoint and the JWT-guarded admin surface.
type Server struct {
	roastUC  usecase.RoastUseCase
	runs     repository.RoastRunRepository
	auth     *AuthManager
	adminKey string
	log      *zerolog.Logger
}

func NewServer(roastUC usecase.RoastUseCase, runs repository.RoastRunRepository, auth *AuthManager, adminKey string, logger *zerolog.Logger) *Server {
	return &Server{
		roastUC:  roastUC,
		runs:     runs,
		auth:     auth,
		adminKey: adminKey,
		log:      logger,
	}
}

// Router builds the chi routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(cors)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/roast", s.handleRoast)

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/runs", s.handleRuns)
		})
	})
	return r
}

// handleRoast always answers 200 with a JSON array. Which personas failed
// (or that the whole run failed on transcription) is never surfaced.
func (s *Server) handleRoast(w http.ResponseWriter, r *http.Request) {
	var req model.RoastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	results, err := s.roastUC.ProduceRoasts(r.Context(), req)
	if err != nil {
		logging.With(r.Context(), s.log).Error().Err(err).Msg("roast request failed")
		results = []model.RoastResult{}
	}
	if results == nil {
		results = []model.RoastResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

type loginRequest struct {
	Key string `json:"key"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.adminKey == "" {
		s.log.Error().Msg("admin key is not configured")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Key), []byte(s.adminKey)) != 1 {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	token, err := s.auth.Mint(w)
	if err != nil {
		http.Error(w, "could not mint session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type runDTO struct {
	ID        string              `json:"id"`
	Source    string              `json:"source"`
	PanelSize int                 `json:"panelSize"`
	Succeeded int                 `json:"succeeded"`
	CreatedAt time.Time           `json:"createdAt"`
	Results   []model.RoastResult `json:"results"`
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.runs.ListRecent(r.Context(), 50)
	if err != nil {
		logging.With(r.Context(), s.log).Error().Err(err).Msg("list runs failed")
		http.Error(w, "could not list runs", http.StatusInternalServerError)
		return
	}
	out := make([]runDTO, 0, len(runs))
	for _, run := range runs {
		results := run.Results
		if results == nil {
			results = []model.RoastResult{}
		}
		out = append(out, runDTO{
			ID:        run.ID,
			Source:    string(run.Source),
			PanelSize: run.PanelSize,
			Succeeded: run.Succeeded,
			CreatedAt: run.CreatedAt,
			Results:   results,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
