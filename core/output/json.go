// Package output - JSON formatter
package output

import (
	"encoding/json"
	"io"

	"rag-cost/core/types"
	"rag-cost/core/usage"
)

// JSONFormatter renders a report as JSON
type JSONFormatter struct {
	// Indent pretty-prints the document
	Indent bool
}

// Document is the JSON shape of a report
type Document struct {
	Title       string             `json:"title,omitempty"`
	Profile     types.UsageProfile `json:"profile"`
	Corpus      *usage.Sizing      `json:"corpus,omitempty"`
	Results     []Row              `json:"results"`
	Assumptions []usage.Assumption `json:"assumptions,omitempty"`
	Metadata    Metadata           `json:"metadata"`
}

// NewDocument converts a report to its JSON shape
func NewDocument(report *Report) Document {
	return Document{
		Title:       report.Title,
		Profile:     report.Profile,
		Corpus:      report.Corpus,
		Results:     Rows(report.Results),
		Assumptions: report.Assumptions,
		Metadata:    report.Metadata,
	}
}

// Format returns the format type
func (f *JSONFormatter) Format() Format {
	return FormatJSON
}

// Render produces output for the given report
func (f *JSONFormatter) Render(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	if f.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(NewDocument(report))
}
