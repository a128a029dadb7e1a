// Package api - HTTP handlers
// Handlers decode, delegate to core packages, and encode. They contain no
// estimation logic.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"rag-cost/core/bill"
	"rag-cost/core/output"
	"rag-cost/core/ranking"
	"rag-cost/core/types"
	"rag-cost/core/usage"
	"rag-cost/internal/errors"
)

// Default vector entry priced by POST /corpus
const (
	DefaultVectorGroup = "DSU"
	DefaultVectorID    = "dsu-768"
)

// DefaultBillRegion is the starter bill region of POST /bill
const DefaultBillRegion = "eu-west-1"

// handleEstimate handles POST /estimate
func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req EstimateRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Group == "" || req.ID == "" {
		s.writeError(w, r, errors.Input("group and id are required"))
		return
	}

	entry, err := s.store.Catalog().Lookup(req.Group, req.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	profile := s.profile(req.Profile)
	breakdown, err := s.estimator.Estimate(profile, entry)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result := ranking.Result{Entry: entry, Breakdown: breakdown}
	s.writeJSON(w, &EstimateResponse{
		RequestID: RequestID(r.Context()),
		Profile:   profile,
		Entry:     entry,
		Breakdown: breakdown,
		Display:   output.Rows([]ranking.Result{result})[0],
		Metadata:  s.metadata(&req, start),
	}, http.StatusOK)
}

// handleRank handles POST /rank
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RankRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Top < 0 {
		s.writeError(w, r, errors.Input("top must be >= 0"))
		return
	}

	q, err := ranking.Compile(req.Filter, s.logger)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	profile := s.profile(req.Profile)
	results, err := q.Rank(s.store.Catalog(), profile)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	count := len(results)
	results = ranking.Top(results, req.Top)
	s.writeJSON(w, &RankResponse{
		RequestID: RequestID(r.Context()),
		Profile:   profile,
		Count:     count,
		Results:   results,
		Display:   output.Rows(results),
		Metadata:  s.metadata(&req, start),
	}, http.StatusOK)
}

// handleCorpus handles POST /corpus
func (s *Server) handleCorpus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req CorpusRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Group == "" && req.ID == "" {
		req.Group, req.ID = DefaultVectorGroup, DefaultVectorID
	}

	entry, err := s.store.Catalog().Lookup(req.Group, req.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if entry.Kind != types.KindVector {
		s.writeError(w, r, errors.Newf(errors.TypeInput, "%s is a %s entry, not a vector entry", entry.Key(), entry.Kind))
		return
	}

	tracker := usage.NewAssumptionTracker()
	corpus := req.Corpus.WithDefaults(tracker)
	sizing, err := corpus.Size()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	profile, err := corpus.Profile()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	breakdown, err := s.estimator.Estimate(profile, entry)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, &CorpusResponse{
		RequestID:   RequestID(r.Context()),
		Sizing:      sizing,
		Assumptions: tracker.All(),
		Entry:       entry,
		Breakdown:   breakdown,
		AnnualCost:  output.Money(breakdown.Annual()),
		Metadata:    s.metadata(&req, start),
	}, http.StatusOK)
}

// handleBill handles POST /bill
func (s *Server) handleBill(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req BillRequest
	if !s.decode(w, r, &req) {
		return
	}

	c := s.store.Catalog()
	lines, starter := req.Lines, len(req.Lines) == 0
	if starter {
		region := req.Region
		if region == "" {
			region = DefaultBillRegion
		}
		var err error
		if lines, err = bill.Starter(c, region); err != nil {
			s.writeError(w, r, err)
			return
		}
	} else if req.Region != "" {
		s.writeError(w, r, errors.Input("region only applies to the starter bill, drop it or the lines"))
		return
	}

	b, err := bill.Price(c, lines, s.logger)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, &BillResponse{
		RequestID: RequestID(r.Context()),
		Starter:   starter,
		Bill:      b,
		Metadata:  s.metadata(&req, start),
	}, http.StatusOK)
}

// handleCatalog handles GET /catalog
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	c := s.store.Catalog()
	s.writeJSON(w, &CatalogResponse{
		Providers: c.Providers(),
		Regions:   c.Regions(),
		Stats:     c.Stats(),
		Groups:    c.Groups(),
	}, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"entries": s.store.Catalog().Len(),
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "rag-cost",
		"api_version": "v1",
	}, http.StatusOK)
}

func (s *Server) profile(p *types.UsageProfile) types.UsageProfile {
	if p == nil {
		return s.defaults
	}
	return *p
}

func (s *Server) metadata(req interface{}, start time.Time) ResponseMetadata {
	return ResponseMetadata{
		InputHash:     computeInputHash(req),
		EngineVersion: s.version,
		DurationMs:    time.Since(start).Milliseconds(),
	}
}

// decode reads a JSON body, writing a 400 on failure
func (s *Server) decode(w http.ResponseWriter, r *http.Request, into interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(into); err != nil {
		s.writeError(w, r, errors.Wrap(errors.TypeInput, "invalid JSON body", err))
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.TypeOf(err)
	if code == "" {
		code = errors.TypeInternal
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("request_id", RequestID(r.Context())), zap.Error(err))
	}

	s.writeJSON(w, &ErrorResponse{
		RequestID: RequestID(r.Context()),
		Error:     ErrorDetail{Code: string(code), Message: err.Error()},
	}, status)
}

func statusFor(err error) int {
	switch errors.TypeOf(err) {
	case errors.TypeInvalidProfile, errors.TypeInvalidPriceEntry, errors.TypeInvalidFilter,
		errors.TypeInput, errors.TypeParsing:
		return http.StatusBadRequest
	case errors.TypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
