// Package enumerate generates every plausible ionic formula inside a mass
// window by a pruned search over elemental counts.
package enumerate

import (
	"context"
	"sort"

	"github.com/ChrisMcGann/FormKey/pkg/core"
	"github.com/ChrisMcGann/FormKey/pkg/filter"
	"github.com/ChrisMcGann/FormKey/pkg/limits"
)

// massSlack absorbs summation-order differences between the running
// partial mass and Calculator.Mass.
const massSlack = 1e-6

// Enumerator searches composition space for one window at a time. It holds
// no mutable state and is safe for concurrent use.
type Enumerator struct {
	calc  *core.Calculator
	rules filter.Rules
}

// New creates an enumerator.
func New(calc *core.Calculator, rules filter.Rules) *Enumerator {
	return &Enumerator{calc: calc, rules: rules}
}

// Default creates an enumerator over the default table and rules.
func Default() *Enumerator {
	return New(core.DefaultCalculator(), filter.DefaultRules())
}

// Rules returns the plausibility rules in use.
func (e *Enumerator) Rules() filter.Rules {
	return e.rules
}

type elementMasses struct {
	c, h, o, n, s, p float64
}

func (e *Enumerator) masses() (elementMasses, error) {
	var m elementMasses
	for _, f := range []struct {
		sym string
		dst *float64
	}{
		{core.SymC, &m.c}, {core.SymH, &m.h}, {core.SymO, &m.o},
		{core.SymN, &m.n}, {core.SymS, &m.s}, {core.SymP, &m.p},
	} {
		v, err := e.calc.ElementMass(f.sym)
		if err != nil {
			return m, err
		}
		*f.dst = v
	}
	return m, nil
}

// Enumerate returns every candidate inside w that satisfies the bounds,
// the ratio rules and the mode's parity rule, sorted by ascending mass.
//
// Dimensions are searched in the order C, H, P, O, N, S, Na, K. Ratio
// rules are checked as soon as their element is fixed; since ratios only
// grow with the inner count, an upper-bound violation ends that level.
func (e *Enumerator) Enumerate(ctx context.Context, mode core.Mode, w core.Window, b limits.Bounds) ([]core.Candidate, error) {
	strat, err := StrategyFor(mode)
	if err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	m, err := e.masses()
	if err != nil {
		return nil, err
	}

	b = strat.Effective(b)
	r := e.rules
	ceiling := w.High + e.calc.ElectronMass() + massSlack

	var out []core.Candidate
	for c := 1; c <= b.MaxC; c++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		massC := float64(c) * m.c
		if massC > ceiling {
			break
		}
		heteroCap := float64(c) * r.HeteroMax

		for h := 1; h <= b.MaxH; h++ {
			if float64(h)/float64(c) >= r.HCMax {
				break
			}
			if !r.HC(h, c) {
				continue
			}
			massH := massC + float64(h)*m.h
			if massH > ceiling {
				break
			}

			for p := 0; p <= b.MaxP; p++ {
				massP := massH + float64(p)*m.p
				if massP > ceiling || float64(p) >= heteroCap {
					break
				}

				for o := strat.MinO; o <= b.MaxO; o++ {
					if !r.OC(o, c) {
						break
					}
					massO := massP + float64(o)*m.o
					if massO > ceiling || float64(p+o) >= heteroCap {
						break
					}

					for n := 0; n <= b.MaxN; n++ {
						if !r.NC(n, c) {
							break
						}
						massN := massO + float64(n)*m.n
						if massN > ceiling || float64(p+o+n) >= heteroCap {
							break
						}

						for s := 0; s <= b.MaxS; s++ {
							if !r.SC(s, c) {
								break
							}
							massS := massN + float64(s)*m.s
							if massS > ceiling {
								break
							}
							hetero := p + o + n + s
							if !r.Hetero(hetero, c) {
								if float64(hetero) >= heteroCap {
									break
								}
								continue
							}

							for na := 0; na <= b.MaxNa; na++ {
								for k := 0; k <= b.MaxK; k++ {
									if !strat.Legal(h, n, na, k) {
										continue
									}
									comp := core.Composition{C: c, H: h, O: o, N: n, S: s, P: p, Na: na, K: k}
									mass := e.calc.Mass(comp, mode)
									if !w.Contains(mass) {
										continue
									}
									out = append(out, core.Candidate{
										Composition: comp,
										Mode:        mode,
										Mass:        mass,
										Abundance:   e.calc.Abundance(comp),
									})
								}
							}
						}
					}
				}
			}
		}
	}

	SortByMass(out)
	return out, nil
}

// SortByMass sorts candidates by ascending mass. Equal masses keep their
// enumeration order.
func SortByMass(cands []core.Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Mass < cands[j].Mass
	})
}
