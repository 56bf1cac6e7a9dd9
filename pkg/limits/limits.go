// Package limits resolves per-window elemental upper bounds from a
// configurable table of mass bands.
package limits

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ChrisMcGann/FormKey/pkg/core"
)

// ErrInvalidBounds is returned when a window resolves to an empty search range.
var ErrInvalidBounds = errors.New("invalid bounds")

// Bounds holds inclusive upper bounds for each element.
type Bounds struct {
	MaxC, MaxH, MaxO, MaxN, MaxS, MaxP, MaxNa, MaxK int
}

func (b Bounds) String() string {
	return fmt.Sprintf("C%d H%d N%d O%d S%d P%d Na%d K%d",
		b.MaxC, b.MaxH, b.MaxN, b.MaxO, b.MaxS, b.MaxP, b.MaxNa, b.MaxK)
}

// Validate checks that the bounds describe a non-empty search space.
func (b Bounds) Validate() error {
	for _, f := range []struct {
		name string
		v    int
	}{
		{"C", b.MaxC}, {"H", b.MaxH}, {"O", b.MaxO}, {"N", b.MaxN},
		{"S", b.MaxS}, {"P", b.MaxP}, {"Na", b.MaxNa}, {"K", b.MaxK},
	} {
		if f.v < 0 {
			return fmt.Errorf("%w: max %s is %d", ErrInvalidBounds, f.name, f.v)
		}
	}
	if b.MaxC < 1 {
		return fmt.Errorf("%w: max C must be at least 1, got %d", ErrInvalidBounds, b.MaxC)
	}
	if b.MaxH < 1 {
		return fmt.Errorf("%w: max H must be at least 1, got %d", ErrInvalidBounds, b.MaxH)
	}
	return nil
}

// Band applies to windows whose high mass is below Below.
type Band struct {
	Below  float64
	Bounds Bounds
}

// Table maps each ionisation mode to its bands.
type Table struct {
	Positive []Band
	Negative []Band
}

// DefaultTable returns the bounds calibrated for fulvic acid and whisky
// extracts (Kew et al., J. Am. Soc. Mass Spectrom. 2016,
// doi:10.1007/s13361-016-1513-y). Negative ESI shows CHO and CHOS only;
// positive mode allows a single sodium adduct.
func DefaultTable() Table {
	return Table{
		Positive: []Band{
			{Below: 500, Bounds: Bounds{MaxC: 29, MaxH: 72, MaxO: 18, MaxNa: 1}},
			{Below: 1000, Bounds: Bounds{MaxC: 66, MaxH: 126, MaxO: 27, MaxNa: 1}},
		},
		Negative: []Band{
			{Below: 500, Bounds: Bounds{MaxC: 29, MaxH: 72, MaxO: 18, MaxS: 2}},
			{Below: 1000, Bounds: Bounds{MaxC: 66, MaxH: 126, MaxO: 27, MaxS: 2}},
		},
	}
}

// Bands returns the bands for a mode, sorted by threshold.
func (t Table) Bands(mode core.Mode) []Band {
	var bands []Band
	switch mode {
	case core.Positive:
		bands = append(bands, t.Positive...)
	case core.Negative:
		bands = append(bands, t.Negative...)
	}
	sort.SliceStable(bands, func(i, j int) bool {
		return bands[i].Below < bands[j].Below
	})
	return bands
}

// Lookup returns the configured bounds for a high mass. Masses beyond the
// last band use the last band.
func (t Table) Lookup(mode core.Mode, high float64) (Bounds, error) {
	bands := t.Bands(mode)
	if len(bands) == 0 {
		return Bounds{}, fmt.Errorf("%w: no bands configured for %s mode", ErrInvalidBounds, mode)
	}
	for _, b := range bands {
		if high < b.Below {
			return b.Bounds, nil
		}
	}
	return bands[len(bands)-1].Bounds, nil
}

// Overrides replace configured bounds; nil fields keep the table value.
type Overrides struct {
	MaxC  *int
	MaxH  *int
	MaxO  *int
	MaxN  *int
	MaxS  *int
	MaxP  *int
	MaxNa *int
	MaxK  *int
}

// Apply returns b with every set override applied.
func (o Overrides) Apply(b Bounds) Bounds {
	set := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	set(&b.MaxC, o.MaxC)
	set(&b.MaxH, o.MaxH)
	set(&b.MaxO, o.MaxO)
	set(&b.MaxN, o.MaxN)
	set(&b.MaxS, o.MaxS)
	set(&b.MaxP, o.MaxP)
	set(&b.MaxNa, o.MaxNa)
	set(&b.MaxK, o.MaxK)
	return b
}

// Resolver derives the bounds for a search window.
type Resolver struct {
	table     Table
	overrides Overrides
}

// NewResolver creates a resolver over a band table and user overrides.
func NewResolver(table Table, overrides Overrides) *Resolver {
	return &Resolver{table: table, overrides: overrides}
}

// Resolve returns the bounds for a window: the configured band, then
// overrides, then the caps that fit inside the window's high mass
// (C at 12 u, O at 16 u, at most four H per C).
func (r *Resolver) Resolve(w core.Window, mode core.Mode) (Bounds, error) {
	if !(w.Low < w.High) || w.High <= 0 || math.IsNaN(w.Low) || math.IsInf(w.High, 0) {
		return Bounds{}, fmt.Errorf("%w: empty window %s", ErrInvalidBounds, w)
	}

	b, err := r.table.Lookup(mode, w.High)
	if err != nil {
		return Bounds{}, err
	}
	b = r.overrides.Apply(b)

	b.MaxC = min(b.MaxC, int(math.Floor(w.High/12)))
	b.MaxH = min(b.MaxH, 4*b.MaxC)
	b.MaxO = min(b.MaxO, int(math.Floor(w.High/16)))

	if err := b.Validate(); err != nil {
		return b, fmt.Errorf("window %s: %w", w, err)
	}
	return b, nil
}
