package core

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const electron = 0.0005485799

func TestTableLookup(t *testing.T) {
	tests := []struct {
		symbol  string
		want    float64
		wantErr error
	}{
		{"C", 12.0, nil},
		{"H", 1.007825, nil},
		{"Na", 22.989769, nil},
		{"Br", 78.918338, nil},
		{"e", electron, nil},
		{"Xx", 0, ErrUnknownElement},
		{"c", 0, ErrUnknownElement},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			got, err := DefaultTable().Lookup(tt.symbol)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Mass)
			assert.Greater(t, got.Abundance, 0.0)
			assert.LessOrEqual(t, got.Abundance, 1.0)
		})
	}

	assert.Equal(t, 11, DefaultTable().Len())
}

func TestNewCalculatorMissingElement(t *testing.T) {
	table := NewTable(
		Element{SymC, 12, 0.98892},
		Element{SymH, 1.007825, 0.99984},
	)
	_, err := NewCalculator(table)
	require.ErrorIs(t, err, ErrUnknownElement)
}

// Cations have lost an electron, anions gained one.
func TestElectronSignConvention(t *testing.T) {
	comp := Composition{C: 10, H: 22}
	neutral := NeutralMass(comp)

	assert.InDelta(t, 142.172150, neutral, 1e-6)
	assert.Equal(t, neutral-electron, ExactMass(comp, Positive))
	assert.Equal(t, neutral+electron, ExactMass(comp, Negative))
	assert.Less(t, ExactMass(comp, Positive), ExactMass(comp, Negative))
}

func TestExactMass(t *testing.T) {
	tests := []struct {
		name      string
		comp      Composition
		mode      Mode
		wantMass  float64
		tolerance float64
	}{
		{
			name:      "glucose composition negative",
			comp:      Composition{C: 6, H: 12, O: 6},
			mode:      Negative,
			wantMass:  6*12.0 + 12*1.007825 + 6*15.994915 + electron,
			tolerance: 1e-9,
		},
		{
			name:      "deprotonated glucose",
			comp:      Composition{C: 6, H: 11, O: 6},
			mode:      Negative,
			wantMass:  179.056114,
			tolerance: 1e-5,
		},
		{
			name:      "sodium adduct",
			comp:      Composition{C: 6, H: 12, O: 3, Na: 1},
			mode:      Positive,
			wantMass:  155.067865,
			tolerance: 1e-5,
		},
		{
			name:      "potassium and phosphorus",
			comp:      Composition{C: 3, H: 7, O: 6, P: 1, K: 1},
			mode:      Positive,
			wantMass:  3*12.0 + 7*1.007825 + 6*15.994915 + 30.973763 + 38.963706 - electron,
			tolerance: 1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExactMass(tt.comp, tt.mode)
			if math.Abs(got-tt.wantMass) > tt.tolerance {
				t.Errorf("ExactMass() = %.6f, want %.6f (within %g)", got, tt.wantMass, tt.tolerance)
			}
		})
	}
}

func TestAbundance(t *testing.T) {
	tests := []struct {
		name string
		comp Composition
		want float64
	}{
		{"empty composition", Composition{}, 1.0},
		{"single carbon", Composition{C: 1}, 0.98892},
		{"phosphorus and adducts are monoisotopic", Composition{P: 2, Na: 1, K: 1}, 1.0},
		{"CHOS", Composition{C: 2, H: 1, O: 1, S: 1}, 0.98892 * 0.98892 * 0.99984 * 0.99762 * 0.95041},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Abundance(tt.comp), 1e-12)
		})
	}

	big := Abundance(Composition{C: 66, H: 126, O: 27, S: 2})
	assert.Greater(t, big, 0.0)
	assert.Less(t, big, 1.0)
}

func TestElementMass(t *testing.T) {
	calc := DefaultCalculator()

	m, err := calc.ElementMass("O")
	require.NoError(t, err)
	assert.Equal(t, 15.994915, m)

	_, err = calc.ElementMass("Cl")
	assert.ErrorIs(t, err, ErrUnsupportedElement)

	_, err = calc.ElementMass("Zz")
	assert.ErrorIs(t, err, ErrUnknownElement)
}

func TestCandidateDerived(t *testing.T) {
	neg := DefaultCalculator().NewCandidate(Composition{C: 6, H: 11, O: 6}, Negative)
	assert.Equal(t, "C6H12O6", neg.NeutralFormula())
	assert.Equal(t, "O6", neg.HeteroClass())
	assert.Equal(t, "O", neg.ElementClass())
	assert.Equal(t, 6, neg.HeteroCount())
	assert.Equal(t, 1.0, neg.DBE())
	assert.Equal(t, 0.0, neg.AI())

	pos := DefaultCalculator().NewCandidate(Composition{C: 7, H: 6, O: 2, Na: 1}, Positive)
	assert.Equal(t, "C7H6O2", pos.NeutralFormula())
	assert.Equal(t, 5.0, pos.DBE())
	assert.InDelta(t, 0.6, pos.AI(), 1e-12)

	protonated := Candidate{Composition: Composition{C: 2, H: 5, O: 2}, Mode: Positive}
	assert.Equal(t, "C2H4O2", protonated.NeutralFormula())
}

func TestRoundFloat(t *testing.T) {
	tests := []struct {
		name      string
		val       float64
		precision int
		want      float64
	}{
		{"round to 2 decimals", 3.14159, 2, 3.14},
		{"round to 4 decimals", 3.14159, 4, 3.1416},
		{"round to 0 decimals", 3.6, 0, 4.0},
		{"round negative", -3.14159, 2, -3.14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundFloat(tt.val, tt.precision)
			if got != tt.want {
				t.Errorf("RoundFloat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrUnknownElement, ErrUnsupportedElement))
}
