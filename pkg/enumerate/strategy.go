package enumerate

import (
	"fmt"

	"github.com/ChrisMcGann/FormKey/pkg/core"
	"github.com/ChrisMcGann/FormKey/pkg/filter"
	"github.com/ChrisMcGann/FormKey/pkg/limits"
)

// Strategy describes what differs between ionisation modes: which optional
// elements are searched, the minimum oxygen count and the parity rule.
type Strategy struct {
	Mode       core.Mode
	MinO       int  // negative ESI needs at least one acidic oxygen
	UseP       bool // search the phosphorus dimension
	UseAdducts bool // search the Na and K dimensions
	Legal      func(h, n, na, k int) bool
}

// StrategyFor returns the search strategy for a mode.
func StrategyFor(mode core.Mode) (Strategy, error) {
	switch mode {
	case core.Positive:
		return Strategy{
			Mode:       mode,
			MinO:       0,
			UseAdducts: true,
			Legal:      filter.PositiveAdductLegal,
		}, nil
	case core.Negative:
		return Strategy{
			Mode: mode,
			MinO: 1,
			UseP: true,
			Legal: func(h, n, na, k int) bool {
				return na == 0 && k == 0 && filter.NegativeParityLegal(h, n)
			},
		}, nil
	}
	return Strategy{}, fmt.Errorf("%w: %s", core.ErrInvalidMode, mode)
}

// Effective returns the bounds actually searched: elements outside the
// mode's element set are pinned to zero.
func (s Strategy) Effective(b limits.Bounds) limits.Bounds {
	if !s.UseP {
		b.MaxP = 0
	}
	if !s.UseAdducts {
		b.MaxNa, b.MaxK = 0, 0
	}
	return b
}
