package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/suggester/internal/engine"
	"github.com/knowledge-engine/suggester/internal/metrics"
	"github.com/knowledge-engine/suggester/internal/search"
)

type Server struct {
	Engine *engine.Engine
	Logger *logrus.Entry
	Router *http.ServeMux
}

// NewServer wires the API routes. When gatherer is non-nil its metrics are
// served on /metrics.
func NewServer(eng *engine.Engine, logger *logrus.Entry, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		Engine: eng,
		Logger: logger.WithField("component", "api"),
		Router: http.NewServeMux(),
	}
	s.routes(gatherer)
	return s
}

func (s *Server) routes(gatherer prometheus.Gatherer) {
	s.Router.HandleFunc("/api/v1/suggest", s.handleSuggest)
	s.Router.HandleFunc("/api/v1/reload", s.handleReload)
	s.Router.HandleFunc("/api/v1/status", s.handleStatus)
	if gatherer != nil {
		s.Router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
}

func (s *Server) Start(addr string) error {
	s.Logger.Infof("Starting API Server on %s", addr)
	return http.ListenAndServe(addr, s.Router)
}

// Responses
type ErrorResponse struct {
	Error string `json:"error"`
}

type SuggestResponse struct {
	Query   string              `json:"query"`
	Results []search.Suggestion `json:"results"`
}

type SuggestRequest struct {
	Query any  `json:"query"`
	Limit *int `json:"limit,omitempty"`
}

type StatusResponse struct {
	Ready     bool   `json:"ready"`
	Entries   int    `json:"entries"`
	LoadCount int64  `json:"load_count"`
	LastLoad  string `json:"last_load,omitempty"`
	LastError string `json:"last_error,omitempty"`
	Uptime    string `json:"uptime"`
}

type ReloadResponse struct {
	Status  string `json:"status"`
	Entries int    `json:"entries"`
}

// Handlers

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var (
		query string
		limit = s.Engine.Config.Ranker.DefaultLimit
	)

	switch r.Method {
	case http.MethodGet:
		params := r.URL.Query()
		if !params.Has("q") {
			s.badRequest(w, "Query 'q' is required")
			return
		}
		q, err := search.ParseQuery(params.Get("q"))
		if err != nil {
			s.badRequest(w, err.Error())
			return
		}
		query = q
		if raw := params.Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				s.badRequest(w, "Parameter 'limit' must be an integer")
				return
			}
			limit = n
		}

	case http.MethodPost:
		var req SuggestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.badRequest(w, "Invalid JSON")
			return
		}
		q, err := search.ParseQuery(req.Query)
		if err != nil {
			s.badRequest(w, err.Error())
			return
		}
		query = q
		if req.Limit != nil {
			limit = *req.Limit
		}

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	results, err := s.Engine.Suggest(query, limit)
	if err != nil {
		s.Engine.Metrics.ObserveSuggest(metrics.StatusError, 0, 0)
		status := http.StatusInternalServerError
		if errors.Is(err, engine.ErrNotReady) {
			status = http.StatusServiceUnavailable
		}
		jsonResponse(w, status, ErrorResponse{Error: err.Error()})
		return
	}
	s.Engine.Metrics.ObserveSuggest(metrics.StatusOK, time.Since(start), len(results))

	s.Logger.WithFields(logrus.Fields{
		"query":   query,
		"limit":   limit,
		"results": len(results),
	}).Debug("Suggest")

	jsonResponse(w, http.StatusOK, SuggestResponse{
		Query:   query,
		Results: results,
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.Engine.Load(r.Context()); err != nil {
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	jsonResponse(w, http.StatusOK, ReloadResponse{
		Status:  "reloaded",
		Entries: s.Engine.Stats().Entries,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.Engine.Stats()

	resp := StatusResponse{
		Ready:     s.Engine.IsReady(),
		Entries:   stats.Entries,
		LoadCount: stats.LoadCount,
		LastError: stats.LastError,
		Uptime:    time.Since(stats.StartTime).Round(time.Second).String(),
	}
	if !stats.LastLoad.IsZero() {
		resp.LastLoad = stats.LastLoad.Format(time.RFC3339)
	}

	jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) badRequest(w http.ResponseWriter, msg string) {
	s.Engine.Metrics.ObserveSuggest(metrics.StatusBadRequest, 0, 0)
	jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: msg})
}

func jsonResponse(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
