package filter

import "github.com/ChrisMcGann/FormKey/pkg/core"

// PositiveAdductLegal checks the nitrogen rule for a singly charged cation.
// Protonated ions need H and N of opposite parity; a Na or K adduct replaces
// the proton, so exactly one adduct is required when H and N share parity.
func PositiveAdductLegal(h, n, na, k int) bool {
	oneAdduct := (na == 1 && k == 0) || (na == 0 && k == 1)
	noAdduct := na == 0 && k == 0
	if h%2 == n%2 {
		return oneAdduct
	}
	return noAdduct
}

// NegativeParityLegal checks that an anion came from losing one proton
// from an even-electron neutral: H odd with N even, or H even with N odd.
func NegativeParityLegal(h, n int) bool {
	return h%2 != n%2
}

// Legal dispatches to the mode's parity rule. Negative ions never carry adducts.
func Legal(comp core.Composition, mode core.Mode) bool {
	switch mode {
	case core.Positive:
		return PositiveAdductLegal(comp.H, comp.N, comp.Na, comp.K)
	case core.Negative:
		return comp.Na == 0 && comp.K == 0 && NegativeParityLegal(comp.H, comp.N)
	}
	return false
}
