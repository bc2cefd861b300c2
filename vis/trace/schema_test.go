package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidSchema(t *testing.T) {
	tests := []struct {
		schema string
		valid  bool
	}{
		{"current", true},
		{"legacy", true},
		{"", true}, // empty defaults to current
		{"v1", false},
		{"LEGACY", false}, // case-sensitive
	}
	for _, tt := range tests {
		t.Run(tt.schema, func(t *testing.T) {
			if got := IsValidSchema(tt.schema); got != tt.valid {
				t.Errorf("IsValidSchema(%q) = %v, want %v", tt.schema, got, tt.valid)
			}
		})
	}
}

func TestIsValidConstraintPolicy(t *testing.T) {
	assert.True(t, IsValidConstraintPolicy("first-channel"))
	assert.True(t, IsValidConstraintPolicy("per-channel"))
	assert.True(t, IsValidConstraintPolicy(""))
	assert.False(t, IsValidConstraintPolicy("strict"))
}

func TestUpgradeLegacyRecord_MapsMVOutputToInput(t *testing.T) {
	// GIVEN a legacy record whose MV name sits under "Output"
	raw := map[string]any{
		"CV": []any{map[string]any{"Output": "p", "Unit": "bar", "y_hat": []any{1.0}}},
		"MV": []any{map[string]any{"Output": "q", "Unit": "rpm"}},
	}

	// WHEN upgraded
	upgradeLegacyRecord(raw)

	// THEN CV keys are canonical and the MV name moved to input
	cv := raw["CV"].([]any)[0].(map[string]any)
	assert.Equal(t, "p", cv["output"])
	assert.Equal(t, "bar", cv["unit"])
	assert.Equal(t, []any{1.0}, cv["y_pred"])
	assert.NotContains(t, cv, "Output")

	mv := raw["MV"].([]any)[0].(map[string]any)
	assert.Equal(t, "q", mv["input"])
	assert.NotContains(t, mv, "output")
}

func TestUpgradeLegacyRecord_CanonicalKeyWins(t *testing.T) {
	raw := map[string]any{
		"CV": []any{map[string]any{"output": "new", "Output": "old"}},
	}

	upgradeLegacyRecord(raw)

	cv := raw["CV"].([]any)[0].(map[string]any)
	assert.Equal(t, "new", cv["output"])
}
