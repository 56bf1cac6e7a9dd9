package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownElement is returned when a symbol is not in the atomic mass table.
	ErrUnknownElement = errors.New("unknown element")
	// ErrUnsupportedElement is returned for table entries a Composition cannot hold (Cl, Br, e).
	ErrUnsupportedElement = errors.New("unsupported element")
)

// Element symbols
const (
	SymH        = "H"
	SymC        = "C"
	SymN        = "N"
	SymO        = "O"
	SymNa       = "Na"
	SymP        = "P"
	SymS        = "S"
	SymCl       = "Cl"
	SymK        = "K"
	SymBr       = "Br"
	SymElectron = "e"
)

// Element is an atomic mass table entry.
type Element struct {
	Symbol    string
	Mass      float64 // monoisotopic mass (u)
	Abundance float64 // natural abundance of the most common isotope, (0,1]
}

// Table is a read-only lookup of elements by symbol.
type Table struct {
	entries map[string]Element
}

// NewTable builds a table from the given entries. Later duplicates win.
func NewTable(entries ...Element) *Table {
	t := &Table{entries: make(map[string]Element, len(entries))}
	for _, e := range entries {
		t.entries[e.Symbol] = e
	}
	return t
}

// Atomic masses from AME2012 (doi:10.1088/1674-1137/36/12/003), isotopic
// compositions from IUPAC 2013 (doi:10.1515/pac-2015-0503), electron from NIST.
var defaultTable = NewTable(
	Element{SymH, 1.007825, 0.99984},
	Element{SymC, 12.000000, 0.98892},
	Element{SymN, 14.003074, 0.99634},
	Element{SymO, 15.994915, 0.99762},
	Element{SymNa, 22.989769, 1.0},
	Element{SymP, 30.973763, 1.0},
	Element{SymS, 31.972071, 0.95041},
	Element{SymCl, 34.968853, 0.75765},
	Element{SymK, 38.963706, 0.93258},
	Element{SymBr, 78.918338, 0.50686},
	Element{SymElectron, 0.0005485799, 1.0},
)

// DefaultTable returns the process-wide atomic mass table.
func DefaultTable() *Table {
	return defaultTable
}

// Lookup returns the element for a symbol.
func (t *Table) Lookup(symbol string) (Element, error) {
	e, ok := t.entries[symbol]
	if !ok {
		return Element{}, fmt.Errorf("%w: %q", ErrUnknownElement, symbol)
	}
	return e, nil
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}
