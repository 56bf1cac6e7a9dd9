package core

import (
	"math"
)

// Calculator computes ion masses and natural abundance scores against an
// atomic mass table. All lookups happen once in NewCalculator.
type Calculator struct {
	c, h, o, n, s, p, na, k Element
	electron                Element
}

// NewCalculator resolves every element a Composition can hold.
func NewCalculator(t *Table) (*Calculator, error) {
	calc := &Calculator{}
	for _, e := range []struct {
		sym string
		dst *Element
	}{
		{SymC, &calc.c},
		{SymH, &calc.h},
		{SymO, &calc.o},
		{SymN, &calc.n},
		{SymS, &calc.s},
		{SymP, &calc.p},
		{SymNa, &calc.na},
		{SymK, &calc.k},
		{SymElectron, &calc.electron},
	} {
		el, err := t.Lookup(e.sym)
		if err != nil {
			return nil, err
		}
		*e.dst = el
	}
	return calc, nil
}

var defaultCalculator = mustCalculator(DefaultTable())

func mustCalculator(t *Table) *Calculator {
	calc, err := NewCalculator(t)
	if err != nil {
		panic(err)
	}
	return calc
}

// DefaultCalculator returns a calculator over DefaultTable.
func DefaultCalculator() *Calculator {
	return defaultCalculator
}

// NeutralMass is the monoisotopic mass of the composition with no
// electron adjustment.
func (calc *Calculator) NeutralMass(comp Composition) float64 {
	return calc.c.Mass*float64(comp.C) +
		calc.h.Mass*float64(comp.H) +
		calc.o.Mass*float64(comp.O) +
		calc.n.Mass*float64(comp.N) +
		calc.s.Mass*float64(comp.S) +
		calc.p.Mass*float64(comp.P) +
		calc.na.Mass*float64(comp.Na) +
		calc.k.Mass*float64(comp.K)
}

// Mass returns the exact mass of a singly charged ion. Cations have lost an
// electron, anions carry an extra one.
func (calc *Calculator) Mass(comp Composition, mode Mode) float64 {
	return calc.NeutralMass(comp) + calc.ElectronShift(mode)
}

// ElectronShift is the mass added to a neutral composition to form the ion.
func (calc *Calculator) ElectronShift(mode Mode) float64 {
	if mode == Negative {
		return calc.electron.Mass
	}
	return -calc.electron.Mass
}

// ElectronMass returns the electron mass.
func (calc *Calculator) ElectronMass() float64 {
	return calc.electron.Mass
}

// Abundance returns the probability of the all-lightest-isotope species.
// P, Na and K are treated as monoisotopic.
func (calc *Calculator) Abundance(comp Composition) float64 {
	return pow(calc.c.Abundance, comp.C) *
		pow(calc.h.Abundance, comp.H) *
		pow(calc.o.Abundance, comp.O) *
		pow(calc.n.Abundance, comp.N) *
		pow(calc.s.Abundance, comp.S)
}

// ElementMass returns the monoisotopic mass of one of the composition elements.
func (calc *Calculator) ElementMass(symbol string) (float64, error) {
	switch symbol {
	case SymC:
		return calc.c.Mass, nil
	case SymH:
		return calc.h.Mass, nil
	case SymO:
		return calc.o.Mass, nil
	case SymN:
		return calc.n.Mass, nil
	case SymS:
		return calc.s.Mass, nil
	case SymP:
		return calc.p.Mass, nil
	case SymNa:
		return calc.na.Mass, nil
	case SymK:
		return calc.k.Mass, nil
	case SymElectron:
		return calc.electron.Mass, nil
	}
	return 0, symbolError(symbol)
}

// pow returns 1 for a zero count.
func pow(x float64, n int) float64 {
	if n <= 0 {
		return 1
	}
	return math.Pow(x, float64(n))
}

// ExactMass computes the ion mass with the default table.
func ExactMass(comp Composition, mode Mode) float64 {
	return defaultCalculator.Mass(comp, mode)
}

// Abundance computes the natural abundance score with the default table.
func Abundance(comp Composition) float64 {
	return defaultCalculator.Abundance(comp)
}

// NeutralMass computes the neutral mass with the default table.
func NeutralMass(comp Composition) float64 {
	return defaultCalculator.NeutralMass(comp)
}

// Candidate is a scored ionic formula.
type Candidate struct {
	Composition
	Mode      Mode
	Mass      float64
	Abundance float64
}

// NewCandidate scores a composition.
func (calc *Calculator) NewCandidate(comp Composition, mode Mode) Candidate {
	return Candidate{
		Composition: comp,
		Mode:        mode,
		Mass:        calc.Mass(comp, mode),
		Abundance:   calc.Abundance(comp),
	}
}

// HeteroCount returns O+N+S+P.
func (c Candidate) HeteroCount() int {
	return c.Signature().Count()
}

// HeteroClass returns the heteroatom class tag.
func (c Candidate) HeteroClass() string {
	return c.Signature().Class()
}

// ElementClass returns the heteroatom letters without counts.
func (c Candidate) ElementClass() string {
	return c.Signature().ElementClass()
}

// NeutralFormula returns the formula of the molecule the ion came from.
func (c Candidate) NeutralFormula() string {
	return c.Neutral(c.Mode).Formula()
}

// HC returns the H/C ratio.
func (c Candidate) HC() float64 {
	return float64(c.H) / float64(c.C)
}

// OC returns the O/C ratio.
func (c Candidate) OC() float64 {
	return float64(c.O) / float64(c.C)
}

// DBE returns the double bond equivalents of the neutral molecule.
func (c Candidate) DBE() float64 {
	n := c.Neutral(c.Mode)
	return float64(n.C) + 1 - float64(n.H)/2 + float64(n.N)/2
}

// AI returns the aromaticity index of the neutral molecule (doi:10.1002/rcm.2386).
func (c Candidate) AI() float64 {
	n := c.Neutral(c.Mode)
	return aromaticity(n, float64(n.O))
}

// AIMod is AI counting half of the oxygens, as for carboxylic acids.
func (c Candidate) AIMod() float64 {
	n := c.Neutral(c.Mode)
	return aromaticity(n, float64(n.O)/2)
}

func aromaticity(n Composition, o float64) float64 {
	top := 1 + float64(n.C) - o - float64(n.S) - 0.5*float64(n.H)
	btm := float64(n.C) - o - float64(n.S) - float64(n.N) - float64(n.P)
	if btm == 0 {
		return 0
	}
	ai := top / btm
	if ai < 0 {
		return 0
	}
	return ai
}

// RoundFloat rounds a float to n decimal places
func RoundFloat(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
