// Package api - API types for cost estimation
// These types define the contract for the HTTP endpoints.
// The API is stateless, idempotent, and deterministic.
package api

import (
	"rag-cost/core/bill"
	"rag-cost/core/catalog"
	"rag-cost/core/output"
	"rag-cost/core/ranking"
	"rag-cost/core/types"
	"rag-cost/core/usage"
)

// EstimateRequest is the input to POST /estimate
type EstimateRequest struct {
	// Profile is the usage to price; omitted means the server defaults
	Profile *types.UsageProfile `json:"profile,omitempty"`

	// Group is the catalog group, e.g. "OpenAI"
	Group string `json:"group"`

	// ID is the entry within the group
	ID string `json:"id"`
}

// EstimateResponse is the output of POST /estimate
type EstimateResponse struct {
	RequestID string              `json:"request_id"`
	Profile   types.UsageProfile  `json:"profile"`
	Entry     types.PriceEntry    `json:"entry"`
	Breakdown types.CostBreakdown `json:"breakdown"`
	Display   output.Row          `json:"display"`
	Metadata  ResponseMetadata    `json:"metadata"`
}

// RankRequest is the input to POST /rank
type RankRequest struct {
	// Profile is the usage to price; omitted means the server defaults
	Profile *types.UsageProfile `json:"profile,omitempty"`

	// Filter selects entries
	Filter ranking.Filter `json:"filter"`

	// Top limits the results; 0 returns all
	Top int `json:"top,omitempty"`
}

// RankResponse is the output of POST /rank
type RankResponse struct {
	RequestID string             `json:"request_id"`
	Profile   types.UsageProfile `json:"profile"`
	Count     int                `json:"count"`
	Results   []ranking.Result   `json:"results"`
	Display   []output.Row       `json:"display"`
	Metadata  ResponseMetadata   `json:"metadata"`
}

// CorpusRequest is the input to POST /corpus
type CorpusRequest struct {
	// Corpus describes the documents to embed
	Corpus usage.Corpus `json:"corpus"`

	// Group and ID choose the vector entry; empty means DSU/dsu-768
	Group string `json:"group,omitempty"`
	ID    string `json:"id,omitempty"`
}

// CorpusResponse is the output of POST /corpus
type CorpusResponse struct {
	RequestID   string              `json:"request_id"`
	Sizing      usage.Sizing        `json:"sizing"`
	Assumptions []usage.Assumption  `json:"assumptions,omitempty"`
	Entry       types.PriceEntry    `json:"entry"`
	Breakdown   types.CostBreakdown `json:"breakdown"`
	AnnualCost  string              `json:"annual_cost"`
	Metadata    ResponseMetadata    `json:"metadata"`
}

// BillRequest is the input to POST /bill
type BillRequest struct {
	// Lines are the billed resources; empty means the starter bill for Region
	Lines []bill.Line `json:"lines,omitempty"`

	// Region of the starter bill; empty means eu-west-1
	Region string `json:"region,omitempty"`
}

// BillResponse is the output of POST /bill
type BillResponse struct {
	RequestID string           `json:"request_id"`
	Starter   bool             `json:"starter"`
	Bill      *bill.Bill       `json:"bill"`
	Metadata  ResponseMetadata `json:"metadata"`
}

// CatalogResponse is the output of GET /catalog
type CatalogResponse struct {
	Providers []string        `json:"providers"`
	Regions   []string        `json:"regions"`
	Stats     catalog.Stats   `json:"stats"`
	Groups    []catalog.Group `json:"groups"`
}

// ResponseMetadata contains execution context
type ResponseMetadata struct {
	InputHash     string `json:"input_hash"`
	EngineVersion string `json:"engine_version"`
	DurationMs    int64  `json:"duration_ms"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	RequestID string      `json:"request_id,omitempty"`
	Error     ErrorDetail `json:"error"`
}

// ErrorDetail describes an error
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
