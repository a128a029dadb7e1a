// Package cmd - usage profile flags
package cmd

import (
	"github.com/spf13/cobra"

	"rag-cost/core/types"
	"rag-cost/core/usage"
	"rag-cost/internal/errors"
)

// profileFlags are the usage flags shared by estimate, rank and compare
type profileFlags struct {
	queries float64
	input   float64
	output  float64
	cache   float64

	instances int
	gb        float64
}

var tokenFlags = []string{"queries", "input", "output", "cache"}

func (p *profileFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&p.queries, "queries", "q", 0, "queries per day (default from config: 100)")
	cmd.Flags().Float64Var(&p.input, "input", 0, "input units per query (default from config: 15000)")
	cmd.Flags().Float64Var(&p.output, "output", 0, "output units per query (default from config: 700)")
	cmd.Flags().Float64Var(&p.cache, "cache", 0, "cache hit ratio between 0 and 1")
	cmd.Flags().IntVar(&p.instances, "instances", 0, "always-on instances, billed 730 hours a month (compute entries)")
	cmd.Flags().Float64Var(&p.gb, "gb", 0, "GB stored for the month (storage entries)")
}

// profile overlays the flags that were set on the configured defaults.
// --instances and --gb replace the profile with the matching builder.
func (p *profileFlags) profile(cmd *cobra.Command, defaults types.UsageProfile) (types.UsageProfile, error) {
	flags := cmd.Flags()

	builders := 0
	for _, name := range []string{"instances", "gb"} {
		if flags.Changed(name) {
			builders++
		}
	}
	if builders > 0 {
		if builders > 1 {
			return types.UsageProfile{}, errors.Input("--instances and --gb cannot be combined")
		}
		for _, name := range tokenFlags {
			if flags.Changed(name) {
				return types.UsageProfile{}, errors.Input("--" + name + " cannot be combined with --instances or --gb")
			}
		}
		if flags.Changed("instances") {
			return usage.AlwaysOn(p.instances)
		}
		return usage.StorageGB(p.gb)
	}

	profile := defaults
	if flags.Changed("queries") {
		profile.QueriesPerDay = p.queries
	}
	if flags.Changed("input") {
		profile.InputUnitsPerQuery = p.input
	}
	if flags.Changed("output") {
		profile.OutputUnitsPerQuery = p.output
	}
	if flags.Changed("cache") {
		profile.CacheHitRatio = p.cache
	}
	return profile, profile.Validate()
}
