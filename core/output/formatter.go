// Package output provides report rendering.
// This package produces human and machine-readable outputs.
package output

import (
	"io"
	"sort"
	"sync"

	"rag-cost/core/ranking"
	"rag-cost/core/types"
	"rag-cost/core/usage"
	"rag-cost/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatTable is a human-readable CLI table
	FormatTable Format = "table"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown report
	FormatMarkdown Format = "markdown"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given report
	Render(w io.Writer, report *Report) error
}

// Report is everything a renderer needs
type Report struct {
	// Title heads the report
	Title string `json:"title"`

	// Profile is the usage profile every result was priced with
	Profile types.UsageProfile `json:"profile"`

	// Results are ranked cheapest first
	Results []ranking.Result `json:"results"`

	// Corpus is set when the profile came from corpus sizing
	Corpus *usage.Sizing `json:"corpus,omitempty"`

	// Assumptions lists defaults applied while building the profile
	Assumptions []usage.Assumption `json:"assumptions,omitempty"`

	// Metadata contains execution context
	Metadata Metadata `json:"metadata"`
}

// Metadata contains execution context
type Metadata struct {
	// Timestamp is when the report was produced
	Timestamp string `json:"timestamp"`

	// Version is the tool version
	Version string `json:"version"`

	// Catalog names the price catalog source
	Catalog string `json:"catalog"`

	// Filter is the filter the results passed
	Filter ranking.Filter `json:"filter"`
}

// Registry maps formats to formatters
type Registry struct {
	mu         sync.RWMutex
	formatters map[Format]Formatter
}

// NewRegistry creates a registry holding the built-in formatters
func NewRegistry() *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	for _, f := range []Formatter{NewTableFormatter(true), &JSONFormatter{Indent: true}, &MarkdownFormatter{}} {
		_ = r.Register(f)
	}
	return r
}

// Register adds a formatter to the registry
func (r *Registry) Register(f Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[f.Format()]; exists {
		return errors.Newf(errors.TypeInternal, "formatter already registered: %s", f.Format())
	}
	r.formatters[f.Format()] = f
	return nil
}

// Get returns the formatter for format
func (r *Registry) Get(format Format) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formatters[format]
	if !ok {
		return nil, errors.Newf(errors.TypeInput, "unknown output format %q (want one of %v)", format, r.formatsLocked())
	}
	return f, nil
}

// Formats lists the registered formats
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.formatsLocked()
}

func (r *Registry) formatsLocked() []Format {
	out := make([]Format, 0, len(r.formatters))
	for f := range r.formatters {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
