// Package ranking - CEL filter expressions
package ranking

import (
	"github.com/google/cel-go/cel"
	"github.com/shopspring/decimal"

	"rag-cost/core/types"
	"rag-cost/internal/errors"
)

// whereEnv declares the variables a Where expression may use.
// Rates are dynamic because a missing rate is null, not zero. Numeric
// comparisons mix int and double so "cost.total < 50" compiles.
var whereEnv, whereEnvErr = cel.NewEnv(
	cel.CrossTypeNumericComparisons(true),

	// entry.*
	cel.Variable("entry.id", cel.StringType),
	cel.Variable("entry.name", cel.StringType),
	cel.Variable("entry.provider", cel.StringType),
	cel.Variable("entry.region", cel.StringType),
	cel.Variable("entry.kind", cel.StringType),
	cel.Variable("entry.has_cache", cel.BoolType),
	cel.Variable("entry.input_price", cel.DynType),
	cel.Variable("entry.cached_input_price", cel.DynType),
	cel.Variable("entry.output_price", cel.DynType),

	// cost.*
	cel.Variable("cost.total", cel.DoubleType),
	cel.Variable("cost.input", cel.DoubleType),
	cel.Variable("cost.output", cel.DoubleType),
)

// whereRule is a compiled Where expression. cel.Program is safe for
// concurrent evaluation.
type whereRule struct {
	expression string
	program    cel.Program
}

func compileWhere(expr string) (*whereRule, error) {
	if whereEnvErr != nil {
		return nil, errors.Internal("create CEL environment", whereEnvErr)
	}

	ast, issues := whereEnv.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, errors.Wrapf(errors.TypeInvalidFilter, issues.Err(), "compile filter %q", expr)
	}
	if ast.OutputType() != cel.BoolType {
		return nil, errors.Newf(errors.TypeInvalidFilter, "filter %q must evaluate to bool, got %s", expr, ast.OutputType())
	}

	prg, err := whereEnv.Program(ast)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeInvalidFilter, err, "build filter %q", expr)
	}
	return &whereRule{expression: expr, program: prg}, nil
}

func (r *whereRule) eval(e types.PriceEntry, b types.CostBreakdown) (bool, error) {
	vars := map[string]interface{}{
		"entry.id":                 e.ID,
		"entry.name":               e.DisplayName,
		"entry.provider":           e.Provider,
		"entry.region":             e.Region,
		"entry.kind":               string(e.Kind),
		"entry.has_cache":          e.Rates.HasCache(),
		"entry.input_price":        rateValue(e.Rates.Input),
		"entry.cached_input_price": rateValue(e.Rates.CachedInput),
		"entry.output_price":       rateValue(e.Rates.Output),

		"cost.total":  b.TotalCost.InexactFloat64(),
		"cost.input":  b.InputCost().InexactFloat64(),
		"cost.output": b.OutputCost.InexactFloat64(),
	}

	out, _, err := r.program.Eval(vars)
	if err != nil {
		return false, errors.Wrapf(errors.TypeInvalidFilter, err, "evaluate filter %q on %s", r.expression, e.Key())
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, errors.Newf(errors.TypeInvalidFilter, "filter %q returned non-bool: %T", r.expression, out.Value())
	}
	return result, nil
}

// rateValue is nil for a missing rate so CEL sees null
func rateValue(r decimal.NullDecimal) interface{} {
	if !r.Valid {
		return nil
	}
	return r.Decimal.InexactFloat64()
}
