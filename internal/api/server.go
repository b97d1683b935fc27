package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xeipuuv/gojsonschema"

	"shipping-optimizer/internal/common/logger"
	"shipping-optimizer/internal/rates"
	"shipping-optimizer/internal/store"
)

// RateFetcher runs the grid search. Satisfied by *rates.Orchestrator.
type RateFetcher interface {
	FetchShippingRates(ctx context.Context, in rates.QuoteInput, costs rates.CostTable, onProgress rates.ProgressFunc) ([]rates.Rate, error)
}

// RouteComparer runs baldeação comparisons. Satisfied by
// *rates.RouteComparisonEngine.
type RouteComparer interface {
	CompareRoutes(ctx context.Context, origin, destination string, dims rates.DimensionSet, weight, insurance float64, candidateCeps []string, protectionCm float64) (rates.RouteComparisonResult, error)
}

// CostSource supplies the operational-cost table and records history.
// Satisfied by *store.Store combined with a prober; nil-able for tests.
type CostSource interface {
	Ensure(ctx context.Context, prober store.Prober, origin, destination string) (rates.CostTable, error)
	AppendQuery(ctx context.Context, record store.QueryRecord) error
}

// HealthChecker reports readiness of the persistence collaborator.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	fetcher  RateFetcher
	comparer RouteComparer
	costs    CostSource
	prober   store.Prober
	health   HealthChecker
	logger   logger.Logger

	ratesSchema     *gojsonschema.Schema
	baldeacaoSchema *gojsonschema.Schema
}

func NewServer(fetcher RateFetcher, comparer RouteComparer, costs CostSource, prober store.Prober, health HealthChecker, log logger.Logger) (*Server, error) {
	ratesSchema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(ratesRequestSchema))
	if err != nil {
		return nil, err
	}
	baldeacaoSchema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(baldeacaoRequestSchema))
	if err != nil {
		return nil, err
	}

	return &Server{
		fetcher:         fetcher,
		comparer:        comparer,
		costs:           costs,
		prober:          prober,
		health:          health,
		logger:          log.WithFields(map[string]interface{}{"component": "api"}),
		ratesSchema:     ratesSchema,
		baldeacaoSchema: baldeacaoSchema,
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/rates", s.handleRates)
	mux.HandleFunc("POST /api/v1/baldeacoes", s.handleBaldeacoes)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readValidated(w, r, s.ratesSchema)
	if !ok {
		return
	}

	var req RatesRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body", nil)
		return
	}

	in := rates.QuoteInput{
		OriginCEP:             req.OriginCEP,
		DestinationCEP:        req.DestinationCEP,
		Dimensions:            req.Dimensions,
		Weight:                req.Weight,
		InsuranceValue:        req.InsuranceValue,
		DeviationRange:        req.DeviationRange,
		CostTolerance:         req.CostTolerance,
		PackagingProtectionCm: req.PackagingProtectionCm,
	}

	var costs rates.CostTable
	if s.costs != nil {
		table, err := s.costs.Ensure(r.Context(), s.prober, req.OriginCEP, req.DestinationCEP)
		if err != nil {
			// A missing cost table degrades to zero surcharges, not a failure.
			s.logger.Warn("cost table unavailable", map[string]interface{}{"error": err.Error()})
		} else {
			costs = table
		}
	}

	progress := func(fraction float64, completed, total int) {
		s.logger.Debug("search progress", map[string]interface{}{
			"fraction":  fraction,
			"completed": completed,
			"total":     total,
		})
	}

	results, err := s.fetcher.FetchShippingRates(r.Context(), in, costs, progress)
	if err != nil {
		s.logger.Error("rate search aborted", map[string]interface{}{"error": err.Error()})
		s.writeError(w, http.StatusServiceUnavailable, "rate search aborted", nil)
		return
	}

	if s.costs != nil {
		record := store.QueryRecord{
			OriginCEP:      req.OriginCEP,
			DestinationCEP: req.DestinationCEP,
			Dimensions:     req.Dimensions,
			Weight:         req.Weight,
			InsuranceValue: req.InsuranceValue,
			DeviationRange: req.DeviationRange,
			CostTolerance:  req.CostTolerance,
			Timestamp:      time.Now().UTC(),
		}
		if err := s.costs.AppendQuery(r.Context(), record); err != nil {
			s.logger.Warn("failed to append query history", map[string]interface{}{"error": err.Error()})
		}
	}

	s.writeJSON(w, http.StatusOK, RatesResponse{Results: results, Total: len(results)})
}

func (s *Server) handleBaldeacoes(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readValidated(w, r, s.baldeacaoSchema)
	if !ok {
		return
	}

	var req BaldeacaoRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body", nil)
		return
	}

	result, err := s.comparer.CompareRoutes(
		r.Context(),
		req.OriginCEP, req.DestinationCEP,
		req.Dimensions, req.Weight, req.InsuranceValue,
		req.CandidateCeps, req.PackagingProtectionCm,
	)
	if err != nil {
		s.logger.Error("route comparison aborted", map[string]interface{}{"error": err.Error()})
		s.writeError(w, http.StatusServiceUnavailable, "route comparison aborted", nil)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health.Ping(ctx); err != nil {
			s.writeError(w, http.StatusServiceUnavailable, "store unreachable", nil)
			return
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readValidated reads the body and applies the JSON Schema; on failure it
// answers 400 with per-field details and reports false.
func (s *Server) readValidated(w http.ResponseWriter, r *http.Request, schema *gojsonschema.Schema) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "unreadable request body", nil)
		return nil, false
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body", nil)
		return nil, false
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		s.writeError(w, http.StatusBadRequest, "validation failed", details)
		return nil, false
	}
	return body, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string, details []string) {
	s.writeJSON(w, status, errorResponse{Error: msg, Details: details})
}
