// Package filter provides the chemical plausibility rules applied to
// candidate compositions (rules 4-6 of the Seven Golden Rules,
// doi:10.1186/1471-2105-8-105, plus ionisation parity rules).
package filter

import (
	"fmt"

	"github.com/ChrisMcGann/FormKey/pkg/core"
)

// Default ratio thresholds. The H/C lower bound is loosened from the
// published 0.125 to admit adduct hydrogens.
const (
	DefaultHCMin     = 0.2
	DefaultHCMax     = 3.1
	DefaultOCMax     = 1.2
	DefaultNCMax     = 1.3
	DefaultSCMax     = 0.8
	DefaultHeteroMax = 1.3
)

// Rule names reported by RuleError
const (
	RuleHC     = "H/C"
	RuleOC     = "O/C"
	RuleNC     = "N/C"
	RuleSC     = "S/C"
	RuleHetero = "heteroatoms"
	RuleParity = "parity"
	RuleCarbon = "carbon"
)

// Rules holds the ratio thresholds. All bounds are exclusive.
type Rules struct {
	HCMin     float64 // H/C must be above this
	HCMax     float64 // H/C must be below this
	OCMax     float64 // O/C must be below this
	NCMax     float64 // N/C must be below this
	SCMax     float64 // S/C must be below this
	HeteroMax float64 // O+N+S+P must be below HeteroMax*C
}

// DefaultRules returns the default thresholds.
func DefaultRules() Rules {
	return Rules{
		HCMin:     DefaultHCMin,
		HCMax:     DefaultHCMax,
		OCMax:     DefaultOCMax,
		NCMax:     DefaultNCMax,
		SCMax:     DefaultSCMax,
		HeteroMax: DefaultHeteroMax,
	}
}

// RuleError names the first rule a composition failed.
type RuleError struct {
	Rule    string
	Message string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s failed: %s", e.Rule, e.Message)
}

// Validate checks that the thresholds describe a non-empty region.
func (r Rules) Validate() error {
	if r.HCMin < 0 || r.HCMax <= r.HCMin {
		return fmt.Errorf("invalid H/C range %g-%g", r.HCMin, r.HCMax)
	}
	for _, v := range []struct {
		name string
		max  float64
	}{
		{RuleOC, r.OCMax},
		{RuleNC, r.NCMax},
		{RuleSC, r.SCMax},
		{RuleHetero, r.HeteroMax},
	} {
		if v.max <= 0 {
			return fmt.Errorf("invalid %s maximum %g, must be positive", v.name, v.max)
		}
	}
	return nil
}

// HC reports whether HCMin < h/c < HCMax.
func (r Rules) HC(h, c int) bool {
	ratio := float64(h) / float64(c)
	return r.HCMin < ratio && ratio < r.HCMax
}

// OC reports whether o/c < OCMax.
func (r Rules) OC(o, c int) bool {
	return float64(o)/float64(c) < r.OCMax
}

// NC reports whether n/c < NCMax.
func (r Rules) NC(n, c int) bool {
	return float64(n)/float64(c) < r.NCMax
}

// SC reports whether s/c < SCMax.
func (r Rules) SC(s, c int) bool {
	return float64(s)/float64(c) < r.SCMax
}

// Hetero reports whether 0 < hetero < HeteroMax*c. Pure hydrocarbons fail.
func (r Rules) Hetero(hetero, c int) bool {
	return 0 < hetero && float64(hetero) < float64(c)*r.HeteroMax
}

// Apply runs every rule in order and returns the first failure.
func (r Rules) Apply(comp core.Composition, mode core.Mode) error {
	if comp.C < 1 || comp.H < 1 {
		return &RuleError{Rule: RuleCarbon, Message: "at least one C and one H are required"}
	}
	if !r.HC(comp.H, comp.C) {
		return &RuleError{Rule: RuleHC, Message: fmt.Sprintf("%.3f outside %g-%g", ratio(comp.H, comp.C), r.HCMin, r.HCMax)}
	}
	if !r.OC(comp.O, comp.C) {
		return &RuleError{Rule: RuleOC, Message: fmt.Sprintf("%.3f not below %g", ratio(comp.O, comp.C), r.OCMax)}
	}
	if !r.NC(comp.N, comp.C) {
		return &RuleError{Rule: RuleNC, Message: fmt.Sprintf("%.3f not below %g", ratio(comp.N, comp.C), r.NCMax)}
	}
	if !r.SC(comp.S, comp.C) {
		return &RuleError{Rule: RuleSC, Message: fmt.Sprintf("%.3f not below %g", ratio(comp.S, comp.C), r.SCMax)}
	}
	if !Legal(comp, mode) {
		return &RuleError{Rule: RuleParity, Message: fmt.Sprintf("H%d N%d Na%d K%d is not a legal %s ion", comp.H, comp.N, comp.Na, comp.K, mode)}
	}
	if hetero := comp.Signature().Count(); !r.Hetero(hetero, comp.C) {
		return &RuleError{Rule: RuleHetero, Message: fmt.Sprintf("%d heteroatoms, need 1 to below %g", hetero, float64(comp.C)*r.HeteroMax)}
	}
	return nil
}

// Plausible reports whether comp passes every rule.
func (r Rules) Plausible(comp core.Composition, mode core.Mode) bool {
	return r.Apply(comp, mode) == nil
}

func ratio(a, b int) float64 {
	return float64(a) / float64(b)
}
