// Package diff provides cost breakdown comparison.
// Compares two estimates component by component.
package diff

import (
	"github.com/shopspring/decimal"

	"rag-cost/core/types"
)

// ChangeType indicates the direction of a change
type ChangeType int

const (
	ChangeUnchanged ChangeType = iota // Same cost
	ChangeIncrease                    // After costs more
	ChangeDecrease                    // After costs less
)

// String returns the change type name
func (c ChangeType) String() string {
	switch c {
	case ChangeUnchanged:
		return "unchanged"
	case ChangeIncrease:
		return "increase"
	case ChangeDecrease:
		return "decrease"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (c ChangeType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Component names
const (
	ComponentInput       = "input"
	ComponentCachedInput = "cached_input"
	ComponentOutput      = "output"
)

// ComponentDiff describes the change of one cost component
type ComponentDiff struct {
	Name       string          `json:"name"`
	Before     decimal.Decimal `json:"before"`
	After      decimal.Decimal `json:"after"`
	Delta      decimal.Decimal `json:"delta"`
	ChangeType ChangeType      `json:"change"`
}

// Result is the comparison of two breakdowns
type Result struct {
	// Before and After name the compared entries
	Before string `json:"before"`
	After  string `json:"after"`

	TotalBefore decimal.Decimal `json:"total_before"`
	TotalAfter  decimal.Decimal `json:"total_after"`
	TotalDelta  decimal.Decimal `json:"total_delta"`

	// DeltaPercent is TotalDelta relative to TotalBefore; not Valid when
	// TotalBefore is zero
	DeltaPercent decimal.NullDecimal `json:"delta_percent"`

	ChangeType ChangeType      `json:"change"`
	Components []ComponentDiff `json:"components"`
}

// Compare diffs after against before. The result is exact; round at display.
func Compare(before, after types.CostBreakdown) Result {
	r := Result{
		Before:      before.EntryID,
		After:       after.EntryID,
		TotalBefore: before.TotalCost,
		TotalAfter:  after.TotalCost,
		TotalDelta:  after.TotalCost.Sub(before.TotalCost),
		Components: []ComponentDiff{
			component(ComponentInput, before.PrimaryCost, after.PrimaryCost),
			component(ComponentCachedInput, before.SecondaryCost, after.SecondaryCost),
			component(ComponentOutput, before.OutputCost, after.OutputCost),
		},
	}
	r.ChangeType = changeOf(r.TotalDelta)

	if !before.TotalCost.IsZero() {
		r.DeltaPercent = decimal.NewNullDecimal(r.TotalDelta.Div(before.TotalCost).Mul(decimal.NewFromInt(100)))
	}
	return r
}

// Changed returns the components whose cost moved
func (r Result) Changed() []ComponentDiff {
	var out []ComponentDiff
	for _, c := range r.Components {
		if c.ChangeType != ChangeUnchanged {
			out = append(out, c)
		}
	}
	return out
}

func component(name string, before, after decimal.Decimal) ComponentDiff {
	delta := after.Sub(before)
	return ComponentDiff{
		Name:       name,
		Before:     before,
		After:      after,
		Delta:      delta,
		ChangeType: changeOf(delta),
	}
}

func changeOf(delta decimal.Decimal) ChangeType {
	switch delta.Sign() {
	case 1:
		return ChangeIncrease
	case -1:
		return ChangeDecrease
	default:
		return ChangeUnchanged
	}
}
