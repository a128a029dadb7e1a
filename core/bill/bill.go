// Package bill prices a set of provisioned resources as one monthly bill.
// Each line names a catalog entry and a quantity: instances for compute,
// GB for storage and DSU for vector units.
package bill

import (
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rag-cost/core/catalog"
	"rag-cost/core/estimator"
	"rag-cost/core/types"
	"rag-cost/core/usage"
	"rag-cost/internal/errors"
	"rag-cost/internal/logging"
)

// Line is one billed resource
type Line struct {
	Group    string  `json:"group" yaml:"group"`
	ID       string  `json:"id" yaml:"id"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
}

// Key returns "group/id"
func (l Line) Key() string {
	return l.Group + "/" + l.ID
}

// Item is a priced line
type Item struct {
	Line      Line                `json:"line"`
	Entry     types.PriceEntry    `json:"entry"`
	Profile   types.UsageProfile  `json:"profile"`
	Breakdown types.CostBreakdown `json:"breakdown"`
}

// Subtotal sums the items of one group or kind
type Subtotal struct {
	Name   string          `json:"name"`
	Kind   types.Kind      `json:"kind"`
	Items  int             `json:"items"`
	Total  decimal.Decimal `json:"total"`
	Annual decimal.Decimal `json:"annual"`
}

// Bill is the priced set of lines
type Bill struct {
	Items  []Item          `json:"items"`
	Groups []Subtotal      `json:"groups"`
	Kinds  []Subtotal      `json:"kinds"`
	Total  decimal.Decimal `json:"total"`
	Annual decimal.Decimal `json:"annual"`
}

// Price looks up every line in c and estimates it with the builder for the
// entry's kind. Items keep line order; subtotals follow catalog group order.
// A nil logger uses the global one.
func Price(c *catalog.Catalog, lines []Line, logger *zap.Logger) (*Bill, error) {
	logger = logging.OrGlobal(logger).Named("bill")
	est := estimator.New(logger)

	b := &Bill{
		Items:  make([]Item, 0, len(lines)),
		Total:  decimal.Zero,
		Annual: decimal.Zero,
	}
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		entry, err := c.Lookup(line.Group, line.ID)
		if err != nil {
			return nil, err
		}
		if seen[entry.Key()] {
			return nil, errors.Newf(errors.TypeInput, "%s is billed twice", entry.Key())
		}
		seen[entry.Key()] = true

		profile, err := usage.ForKind(entry.Kind, line.Quantity)
		if err != nil {
			return nil, errors.Wrapf(errors.TypeOf(err), err, "line %s", line.Key())
		}
		breakdown, err := est.Estimate(profile, entry)
		if err != nil {
			return nil, err
		}

		b.Items = append(b.Items, Item{Line: line, Entry: entry, Profile: profile, Breakdown: breakdown})
		b.Total = b.Total.Add(breakdown.TotalCost)
		b.Annual = b.Annual.Add(breakdown.Annual())
	}

	b.Groups, b.Kinds = subtotals(c, b.Items)

	logger.Debug("bill priced",
		zap.Int("items", len(b.Items)),
		zap.String("total", b.Total.String()),
	)
	return b, nil
}

// Group returns the subtotal for a catalog group
func (b *Bill) Group(name string) (Subtotal, bool) {
	for _, s := range b.Groups {
		if s.Name == name {
			return s, true
		}
	}
	return Subtotal{}, false
}

// Kind returns the subtotal for an entry kind
func (b *Bill) Kind(kind types.Kind) (Subtotal, bool) {
	for _, s := range b.Kinds {
		if s.Kind == kind {
			return s, true
		}
	}
	return Subtotal{}, false
}

func subtotals(c *catalog.Catalog, items []Item) (groups, kinds []Subtotal) {
	groups, kinds = []Subtotal{}, []Subtotal{}
	groupIdx := make(map[string]int)
	kindIdx := make(map[types.Kind]int)

	for _, g := range c.Groups() {
		for _, it := range items {
			if it.Entry.Provider != g.Name {
				continue
			}
			if _, ok := groupIdx[g.Name]; !ok {
				groupIdx[g.Name] = len(groups)
				groups = append(groups, Subtotal{Name: g.Name, Kind: g.Kind})
			}
			add(&groups[groupIdx[g.Name]], it)

			if _, ok := kindIdx[it.Entry.Kind]; !ok {
				kindIdx[it.Entry.Kind] = len(kinds)
				kinds = append(kinds, Subtotal{Name: string(it.Entry.Kind), Kind: it.Entry.Kind})
			}
			add(&kinds[kindIdx[it.Entry.Kind]], it)
		}
	}
	return groups, kinds
}

func add(s *Subtotal, it Item) {
	s.Items++
	s.Total = s.Total.Add(it.Breakdown.TotalCost)
	s.Annual = s.Annual.Add(it.Breakdown.Annual())
}

// Starter quantities for a regional infrastructure bill: one of every GPU
// instance, two of every CPU instance, one of every search instance and a
// tiered S3 footprint.
var starterQuantities = map[string]float64{
	"EC2-GPU":    1,
	"EC2-CPU":    2,
	"OpenSearch": 1,
}

var starterStorageGB = map[string]float64{
	"standard":    1000,
	"standard-ia": 5000,
	"onezone-ia":  10000,
	"glacier-ir":  20000,
}

// Starter builds the default infrastructure bill for region from c.
// It fails with NOT_FOUND when the catalog has nothing in region.
func Starter(c *catalog.Catalog, region string) ([]Line, error) {
	var lines []Line
	for _, e := range c.Entries() {
		if !strings.EqualFold(e.Region, region) {
			continue
		}
		if qty, ok := starterQuantities[e.Provider]; ok {
			lines = append(lines, Line{Group: e.Provider, ID: e.ID, Quantity: qty})
			continue
		}
		if e.Kind == types.KindStorage {
			if gb, ok := starterStorageGB[tierOf(e)]; ok {
				lines = append(lines, Line{Group: e.Provider, ID: e.ID, Quantity: gb})
			}
		}
	}
	if len(lines) == 0 {
		return nil, errors.NotFound("region", region)
	}
	return lines, nil
}

// tierOf strips the region suffix from a storage entry id
func tierOf(e types.PriceEntry) string {
	return strings.TrimSuffix(e.ID, "."+e.Region)
}
