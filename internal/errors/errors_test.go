package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageIncludesTypeAndCause(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := Wrap(TypeConfig, "load config", cause)

	assert.Equal(t, "[CONFIG_ERROR] load config: disk on fire", err.Error())
	assert.Equal(t, cause, err.Unwrap())
}

func TestIsTypeThroughWrapping(t *testing.T) {
	inner := InvalidProfile("queries_per_day must be >= 0, got %v", -1)
	outer := fmt.Errorf("estimate: %w", inner)

	assert.True(t, IsType(outer, TypeInvalidProfile))
	assert.False(t, IsType(outer, TypeInvalidPriceEntry))
	assert.Equal(t, TypeInvalidProfile, TypeOf(outer))
}

func TestIsTypeFollowsDomainCauses(t *testing.T) {
	entryErr := InvalidPriceEntry("gpt-4.1", "unit scale must be > 0")
	catalogErr := Wrap(TypeInvalidCatalog, "catalog rejected", entryErr)

	assert.True(t, IsType(catalogErr, TypeInvalidCatalog))
	assert.True(t, IsType(catalogErr, TypeInvalidPriceEntry))
	assert.Equal(t, "gpt-4.1", entryErr.Context["entry"])
}

func TestIsTypeOnPlainError(t *testing.T) {
	assert.False(t, IsType(fmt.Errorf("plain"), TypeInternal))
	assert.False(t, IsType(nil, TypeInternal))
	assert.Equal(t, Type(""), TypeOf(fmt.Errorf("plain")))
}

func TestErrorIsMatchesOwnTypeOnly(t *testing.T) {
	err := NotFound("entry", "OpenAI/gpt-9")

	assert.True(t, err.Is(TypeNotFound))
	assert.False(t, err.Is(TypeInput))
	assert.Equal(t, "[NOT_FOUND] entry not found: OpenAI/gpt-9", err.Error())
}
