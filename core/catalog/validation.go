// Package catalog - Catalog validation
// Every catalog is validated once, when it is built. All failures are reported
// together.
package catalog

import (
	stderrors "errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"rag-cost/core/types"
	"rag-cost/internal/errors"
)

// ValidationRule checks one entry in the context of its group
type ValidationRule func(Group, types.PriceEntry) error

// DefaultValidationRules returns the standard validation rules
func DefaultValidationRules() []ValidationRule {
	return []ValidationRule{
		validateIdentity,
		validateKind,
		validateProvider,
		validatePriceable,
	}
}

// Validate checks groups against rules plus the structural invariants:
// non-empty unique group names and unique entry ids within each group.
func Validate(groups []Group, rules []ValidationRule) error {
	var errs error
	seenGroups := make(map[string]bool)

	for _, g := range groups {
		if strings.TrimSpace(g.Name) == "" {
			errs = multierr.Append(errs, fmt.Errorf("group with %d entries has no name", len(g.Entries)))
			continue
		}
		key := strings.ToLower(g.Name)
		if seenGroups[key] {
			errs = multierr.Append(errs, fmt.Errorf("%s: duplicate group name", g.Name))
		}
		seenGroups[key] = true

		seenIDs := make(map[string]bool)
		for _, e := range g.Entries {
			if seenIDs[e.ID] {
				errs = multierr.Append(errs, fmt.Errorf("%s/%s: duplicate entry id", g.Name, e.ID))
			}
			seenIDs[e.ID] = true

			for _, rule := range rules {
				if err := rule(g, e); err != nil {
					errs = multierr.Append(errs, fmt.Errorf("%s/%s: %w", g.Name, e.ID, err))
				}
			}
		}
	}

	if errs != nil {
		return errors.Wrap(errors.TypeInvalidCatalog,
			fmt.Sprintf("catalog has %d validation errors", len(multierr.Errors(errs))), errs)
	}
	return nil
}

// Problems lists the individual failures inside a validation error
func Problems(err error) []error {
	if err == nil {
		return nil
	}
	var e *errors.Error
	if stderrors.As(err, &e) && e.Type == errors.TypeInvalidCatalog {
		return multierr.Errors(e.Cause)
	}
	return []error{err}
}

func validateIdentity(_ Group, e types.PriceEntry) error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("entry id is empty")
	}
	if strings.TrimSpace(e.DisplayName) == "" {
		return fmt.Errorf("display name is empty")
	}
	return nil
}

func validateKind(_ Group, e types.PriceEntry) error {
	if !e.Kind.Valid() {
		return fmt.Errorf("unknown kind %q", e.Kind)
	}
	return nil
}

func validateProvider(g Group, e types.PriceEntry) error {
	if e.Provider != g.Name {
		return fmt.Errorf("provider %q does not match group %q", e.Provider, g.Name)
	}
	return nil
}

// validatePriceable enforces rates >= 0, at least one rate and unit scale > 0
func validatePriceable(_ Group, e types.PriceEntry) error {
	return e.Validate()
}
