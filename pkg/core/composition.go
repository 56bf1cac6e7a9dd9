// Package core provides the chemistry model for ionic formula generation:
// the atomic mass table, elemental compositions and their exact masses.
package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidMode is returned when an ionisation mode string is not recognised.
var ErrInvalidMode = errors.New("invalid ionisation mode")

// Mode is the ionisation mode of a generation run.
type Mode int

const (
	Positive Mode = iota + 1
	Negative
)

// ParseMode parses "positive" or "negative" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive", "pos", "+":
		return Positive, nil
	case "negative", "neg", "-":
		return Negative, nil
	}
	return 0, fmt.Errorf("%w: %q, must be positive or negative", ErrInvalidMode, s)
}

func (m Mode) String() string {
	switch m {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Short returns the three letter form used for output directories.
func (m Mode) Short() string {
	return m.String()[:3]
}

// Polarity returns "+" or "-".
func (m Mode) Polarity() string {
	if m == Negative {
		return "-"
	}
	return "+"
}

// Composition stores the elemental composition of an ion
type Composition struct {
	C, H, O, N, S, P, Na, K int
}

// Symbols in formula output order
var compositionSymbols = []string{SymC, SymH, SymN, SymO, SymS, SymP, SymNa, SymK}

// Count returns the count for an element symbol.
func (c Composition) Count(symbol string) (int, error) {
	p, err := c.field(symbol)
	if err != nil {
		return 0, err
	}
	return *p, nil
}

func (c *Composition) field(symbol string) (*int, error) {
	switch symbol {
	case SymC:
		return &c.C, nil
	case SymH:
		return &c.H, nil
	case SymO:
		return &c.O, nil
	case SymN:
		return &c.N, nil
	case SymS:
		return &c.S, nil
	case SymP:
		return &c.P, nil
	case SymNa:
		return &c.Na, nil
	case SymK:
		return &c.K, nil
	}
	return nil, symbolError(symbol)
}

// symbolError classifies a symbol a Composition cannot hold.
func symbolError(symbol string) error {
	if _, err := DefaultTable().Lookup(symbol); err != nil {
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedElement, symbol)
}

// Signature returns the heteroatom signature of the composition.
func (c Composition) Signature() Signature {
	return Signature{O: c.O, N: c.N, S: c.S, P: c.P}
}

// Formula renders the composition, omitting zero counts and counts of one.
func (c Composition) Formula() string {
	var b strings.Builder
	for _, sym := range compositionSymbols {
		n, _ := c.Count(sym)
		writeCount(&b, sym, n, false)
	}
	return b.String()
}

// Neutral returns the neutral molecule the ion was formed from:
// deprotonated anions get the proton back, adduct cations lose the
// Na/K and protonated cations lose a proton.
func (c Composition) Neutral(mode Mode) Composition {
	n := c
	switch {
	case mode == Negative:
		n.H++
	case c.Na > 0 || c.K > 0:
		n.Na, n.K = 0, 0
	default:
		n.H--
	}
	return n
}

// ParseFormula parses strings like "C6H11O6" or "C6H12O3Na".
func ParseFormula(s string) (Composition, error) {
	var comp Composition
	s = strings.TrimSpace(s)
	if s == "" {
		return comp, fmt.Errorf("empty formula")
	}

	for i := 0; i < len(s); {
		if !unicode.IsUpper(rune(s[i])) {
			return comp, fmt.Errorf("invalid formula %q at offset %d", s, i)
		}
		j := i + 1
		for j < len(s) && unicode.IsLower(rune(s[j])) {
			j++
		}
		symbol := s[i:j]

		k := j
		for k < len(s) && unicode.IsDigit(rune(s[k])) {
			k++
		}
		count := 1
		if k > j {
			n, err := strconv.Atoi(s[j:k])
			if err != nil {
				return comp, fmt.Errorf("invalid count for %s in %q: %w", symbol, s, err)
			}
			count = n
		}

		p, err := comp.field(symbol)
		if err != nil {
			return comp, err
		}
		*p += count
		i = k
	}

	return comp, nil
}

// Signature is the heteroatom signature used to group candidates into
// homologous series.
type Signature struct {
	O, N, S, P int
}

// Count returns the total number of heteroatoms.
func (s Signature) Count() int {
	return s.O + s.N + s.S + s.P
}

// Class renders the heteroatom class, e.g. "N1O2S1"; "CH" when empty.
func (s Signature) Class() string {
	var b strings.Builder
	writeCount(&b, SymN, s.N, true)
	writeCount(&b, SymO, s.O, true)
	writeCount(&b, SymS, s.S, true)
	writeCount(&b, SymP, s.P, true)
	if b.Len() == 0 {
		return "CH"
	}
	return b.String()
}

// ElementClass renders only the heteroatom letters, e.g. "NOS".
func (s Signature) ElementClass() string {
	var b strings.Builder
	for _, e := range []struct {
		sym string
		n   int
	}{{SymN, s.N}, {SymO, s.O}, {SymS, s.S}, {SymP, s.P}} {
		if e.n > 0 {
			b.WriteString(e.sym)
		}
	}
	if b.Len() == 0 {
		return "CH"
	}
	return b.String()
}

func writeCount(b *strings.Builder, sym string, n int, explicitOne bool) {
	if n <= 0 {
		return
	}
	b.WriteString(sym)
	if n > 1 || explicitOne {
		b.WriteString(strconv.Itoa(n))
	}
}

// Window is a mass band; a mass lies inside when Low < mass < High.
type Window struct {
	Low, High float64
}

// WindowAround returns the window center ± halfWidth.
func WindowAround(center, halfWidth float64) Window {
	return Window{Low: center - halfWidth, High: center + halfWidth}
}

// Contains reports whether mass lies strictly inside the window.
func (w Window) Contains(mass float64) bool {
	return w.Low < mass && mass < w.High
}

func (w Window) String() string {
	return fmt.Sprintf("%g-%g", w.Low, w.High)
}
