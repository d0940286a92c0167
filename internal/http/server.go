package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/denisok6893-rgb/city-matching/internal/domain"
	"github.com/denisok6893-rgb/city-matching/internal/logging"
	"github.com/denisok6893-rgb/city-matching/internal/matching"
)

// Aggregator produces the aggregate record of a city.
type Aggregator interface {
	City(ctx context.Context, id string) (*domain.AggregateRecord, error)
}

type Server struct {
	Engine     *matching.Engine
	Aggregates Aggregator
	Limits     RateLimit
	logger     *logging.Logger
}

func NewServer(engine *matching.Engine, aggregates Aggregator, logger *logging.Logger) *Server {
	return &Server{Engine: engine, Aggregates: aggregates, logger: logger}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/cities", s.handleCities)
	mux.HandleFunc("GET /api/cities/{city}/aggregate", s.handleAggregate)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/match", s.handleMatchQuery)
	mux.HandleFunc("POST /api/match", s.handleMatchJSON)

	var h http.Handler = mux
	h = rateLimit(s.Limits, h)
	h = accessLog(s.logger, h)
	h = requestID(h)
	return h
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.Catalog)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Engine.Table())
}

func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	rec, err := s.Aggregates.City(r.Context(), r.PathValue("city"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type MatchResponse struct {
	Results []domain.MatchResult `json:"results"`
}

func (s *Server) handleMatchQuery(w http.ResponseWriter, r *http.Request) {
	in, err := ParsePreferenceQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.match(w, r, in)
}

func (s *Server) handleMatchJSON(w http.ResponseWriter, r *http.Request) {
	in := DefaultPreferenceInput()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_json", Message: err.Error()})
		return
	}
	s.match(w, r, in)
}

func (s *Server) match(w http.ResponseWriter, r *http.Request, in domain.PreferenceInput) {
	if err := in.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	results, err := s.Engine.Match(in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MatchResponse{Results: results})
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var perr *domain.ProcessingError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_input", Message: err.Error()})
	case errors.Is(err, domain.ErrConfiguration):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "configuration_error", Message: err.Error()})
	case errors.As(err, &perr):
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "processing_error", Message: perr.Err.Error()})
	default:
		s.logger.Error("[http] %s %s: %v", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal_error", Message: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
