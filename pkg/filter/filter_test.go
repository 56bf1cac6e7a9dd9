package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/FormKey/pkg/core"
)

func TestPositiveAdductLegal(t *testing.T) {
	tests := []struct {
		name      string
		h, n      int
		na, k     int
		wantLegal bool
	}{
		{"even N even H sodium", 12, 0, 1, 0, true},
		{"even N even H potassium", 12, 0, 0, 1, true},
		{"even N even H no adduct", 12, 0, 0, 0, false},
		{"even N even H both adducts", 12, 0, 1, 1, false},
		{"even N odd H protonated", 13, 2, 0, 0, true},
		{"even N odd H sodium", 13, 2, 1, 0, false},
		{"odd N odd H sodium", 9, 1, 1, 0, true},
		{"odd N odd H potassium", 9, 1, 0, 1, true},
		{"odd N odd H no adduct", 9, 1, 0, 0, false},
		{"odd N even H protonated", 10, 1, 0, 0, true},
		{"odd N even H potassium", 10, 1, 0, 1, false},
		{"two sodium", 12, 0, 2, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantLegal, PositiveAdductLegal(tt.h, tt.n, tt.na, tt.k))
		})
	}
}

func TestNegativeParityLegal(t *testing.T) {
	tests := []struct {
		h, n int
		want bool
	}{
		{11, 0, true},
		{12, 1, true},
		{12, 0, false},
		{11, 1, false},
		{1, 2, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NegativeParityLegal(tt.h, tt.n), "H%d N%d", tt.h, tt.n)
	}

	assert.False(t, Legal(core.Composition{C: 2, H: 3, O: 2, Na: 1}, core.Negative), "anions carry no adducts")
	assert.False(t, Legal(core.Composition{C: 2, H: 3, O: 2}, 0))
}

func TestRulesApply(t *testing.T) {
	rules := DefaultRules()
	tests := []struct {
		name     string
		comp     core.Composition
		mode     core.Mode
		wantRule string
	}{
		{"deprotonated glucose", core.Composition{C: 6, H: 11, O: 6}, core.Negative, ""},
		{"sodiated", core.Composition{C: 6, H: 12, O: 3, Na: 1}, core.Positive, ""},
		{"no hydrogen", core.Composition{C: 6, O: 2}, core.Negative, RuleCarbon},
		{"H/C at lower bound", core.Composition{C: 10, H: 2, O: 1}, core.Negative, RuleHC},
		{"H/C at upper bound", core.Composition{C: 10, H: 31, O: 1}, core.Negative, RuleHC},
		{"O/C at bound", core.Composition{C: 5, H: 9, O: 6}, core.Negative, RuleOC},
		{"N/C at bound", core.Composition{C: 10, H: 10, N: 13, O: 1}, core.Negative, RuleNC},
		{"S/C at bound", core.Composition{C: 5, H: 9, O: 1, S: 4}, core.Negative, RuleSC},
		{"wrong parity", core.Composition{C: 6, H: 12, O: 6}, core.Negative, RuleParity},
		{"pure hydrocarbon", core.Composition{C: 7, H: 7}, core.Negative, RuleHetero},
		{"too many heteroatoms", core.Composition{C: 10, H: 11, O: 11, N: 2, S: 0}, core.Negative, RuleHetero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rules.Apply(tt.comp, tt.mode)
			if tt.wantRule == "" {
				require.NoError(t, err)
				assert.True(t, rules.Plausible(tt.comp, tt.mode))
				return
			}
			var ruleErr *RuleError
			require.True(t, errors.As(err, &ruleErr), "got %v", err)
			assert.Equal(t, tt.wantRule, ruleErr.Rule)
			assert.False(t, rules.Plausible(tt.comp, tt.mode))
		})
	}
}

func TestRulesHeteroBounds(t *testing.T) {
	rules := DefaultRules()
	assert.False(t, rules.Hetero(0, 5))
	assert.True(t, rules.Hetero(1, 5))
	assert.True(t, rules.Hetero(12, 10))
	assert.False(t, rules.Hetero(13, 10))
}

func TestRulesValidate(t *testing.T) {
	require.NoError(t, DefaultRules().Validate())

	inverted := DefaultRules()
	inverted.HCMin, inverted.HCMax = 3, 1
	assert.Error(t, inverted.Validate())

	zero := DefaultRules()
	zero.SCMax = 0
	assert.Error(t, zero.Validate())
}
