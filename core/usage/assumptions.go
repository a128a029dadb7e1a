// Package usage - Tracked assumptions
// Every default applied to a usage input is recorded so reports can show it.
package usage

import (
	"fmt"
)

// Assumption represents a usage default applied during sizing
type Assumption struct {
	// Component is the input being sized, e.g. "corpus"
	Component string `json:"component"`

	// Attribute is the defaulted field
	Attribute string `json:"attribute"`

	// Value is the value used
	Value interface{} `json:"value"`

	// Unit describes Value
	Unit string `json:"unit,omitempty"`

	// Reason explains where the value came from
	Reason string `json:"reason"`

	// OverrideKey names the flag or field that replaces the default
	OverrideKey string `json:"override_key"`
}

// String returns a one-line description
func (a Assumption) String() string {
	if a.Unit == "" {
		return fmt.Sprintf("%s: %v (%s)", a.OverrideKey, a.Value, a.Reason)
	}
	return fmt.Sprintf("%s: %v %s (%s)", a.OverrideKey, a.Value, a.Unit, a.Reason)
}

// AssumptionTracker collects assumptions in the order they were made
type AssumptionTracker struct {
	assumptions []Assumption
	byComponent map[string][]Assumption
}

// NewAssumptionTracker creates a new tracker
func NewAssumptionTracker() *AssumptionTracker {
	return &AssumptionTracker{
		byComponent: make(map[string][]Assumption),
	}
}

// RecordDefault records that a default value was used.
// A nil tracker discards the record.
func (t *AssumptionTracker) RecordDefault(component, attribute string, value interface{}, unit string) {
	if t == nil {
		return
	}
	a := Assumption{
		Component:   component,
		Attribute:   attribute,
		Value:       value,
		Unit:        unit,
		Reason:      "using default value",
		OverrideKey: fmt.Sprintf("%s.%s", component, attribute),
	}
	t.assumptions = append(t.assumptions, a)
	t.byComponent[component] = append(t.byComponent[component], a)
}

// All returns all assumptions
func (t *AssumptionTracker) All() []Assumption {
	if t == nil {
		return nil
	}
	out := make([]Assumption, len(t.assumptions))
	copy(out, t.assumptions)
	return out
}

// ForComponent returns assumptions for a component
func (t *AssumptionTracker) ForComponent(component string) []Assumption {
	if t == nil {
		return nil
	}
	return t.byComponent[component]
}

// Count returns the number of assumptions
func (t *AssumptionTracker) Count() int {
	if t == nil {
		return 0
	}
	return len(t.assumptions)
}
