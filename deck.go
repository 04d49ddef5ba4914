package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Deck is the mutable editing layer the TUI works on: a growable grid of
// moments it derives both the circuit view and the QCIS text from. The
// translators themselves stay pure; all mutation happens here.
type Deck struct {
	NumQubits int
	Moments   []Moment
}

// NewDeck creates an empty deck over numQubits qubits.
func NewDeck(numQubits int) *Deck {
	return &Deck{NumQubits: numQubits}
}

// QubitAt returns the qubit in the given grid column.
func (d *Deck) QubitAt(col int) Qubit {
	return Qubit{Row: 0, Col: col}
}

// NameOf maps a deck qubit to its hardware name.
func (d *Deck) NameOf(q Qubit) string {
	return fmt.Sprintf("Q%02d", q.Col)
}

// QubitOf maps a hardware name back to a deck qubit.
func (d *Deck) QubitOf(name string) Qubit {
	col, _ := strconv.Atoi(strings.TrimPrefix(name, "Q"))
	return Qubit{Row: 0, Col: col}
}

// Blockable lists every resource a barrier blocks, in name order.
func (d *Deck) Blockable() []string {
	names := make([]string, d.NumQubits)
	for col := 0; col < d.NumQubits; col++ {
		names[col] = d.NameOf(d.QubitAt(col))
	}
	sort.Strings(names)
	return names
}

// couplersForQubits generates a coupler name for every qubit pair, the
// higher-numbered qubit first, e.g. G0201 for (Q01, Q02).
func couplersForQubits(numQubits int) map[string][2]string {
	couplers := make(map[string][2]string)
	for a := 0; a < numQubits; a++ {
		for b := a + 1; b < numQubits; b++ {
			name := fmt.Sprintf("G%02d%02d", b, a)
			couplers[name] = [2]string{fmt.Sprintf("Q%02d", a), fmt.Sprintf("Q%02d", b)}
		}
	}
	return couplers
}

// Couplers returns the deck's generated coupler map.
func (d *Deck) Couplers() map[string][2]string {
	return couplersForQubits(d.NumQubits)
}

// Circuit returns the deck's content as an immutable circuit value.
func (d *Deck) Circuit() Circuit {
	return Circuit(d.Moments)
}

// ToQCIS renders the deck as QCIS text.
func (d *Deck) ToQCIS() (string, error) {
	return ToQCIS(d.Circuit(), d.NameOf, d.Blockable(), d.Couplers(), nil)
}

// parseQubitBound scans QCIS text for the highest qubit index it addresses,
// either directly as Qnn or through a Gaabb coupler name, and returns the
// qubit count needed to cover it.
func parseQubitBound(text string) int {
	bound := 0
	grow := func(n int) {
		if n+1 > bound {
			bound = n + 1
		}
	}
	for _, name := range qubitNameRegex.FindAllString(text, -1) {
		if n, err := strconv.Atoi(name[1:]); err == nil {
			grow(n)
		}
	}
	for _, name := range couplerNameRegex.FindAllString(text, -1) {
		if a, err := strconv.Atoi(name[1:3]); err == nil {
			grow(a)
		}
		if b, err := strconv.Atoi(name[3:5]); err == nil {
			grow(b)
		}
	}
	return bound
}

// SetFromQCIS replaces the deck content with the parsed text and grows the
// qubit count to cover every qubit the text uses.
func (d *Deck) SetFromQCIS(text string) error {
	circuit, err := ParseQCIS(text, d.QubitOf, couplersForQubits(parseQubitBound(text)), nil)
	if err != nil {
		return err
	}
	d.Moments = circuit
	for _, q := range circuit.allQubits() {
		if q.Col+1 > d.NumQubits {
			d.NumQubits = q.Col + 1
		}
	}
	return nil
}

func (d *Deck) ensure(step int) {
	for len(d.Moments) <= step {
		d.Moments = append(d.Moments, nil)
	}
}

// MaxSteps returns the number of editable steps, always at least one past
// the last occupied moment.
func (d *Deck) MaxSteps() int {
	return len(d.Moments)
}

// OpAt returns the operation touching the given column at the given step,
// or nil.
func (d *Deck) OpAt(step, col int) *Operation {
	if step >= len(d.Moments) {
		return nil
	}
	m := d.Moments[step]
	for i := range m {
		if m[i].references(d.QubitAt(col)) {
			return &m[i]
		}
	}
	return nil
}

// CanPlaceAt reports whether the given columns are all free at the step.
func (d *Deck) CanPlaceAt(step int, cols []int) bool {
	for _, col := range cols {
		if d.OpAt(step, col) != nil {
			return false
		}
	}
	return true
}

// Place appends the operation to the moment at step. It refuses placements
// that would break the moment disjointness invariant.
func (d *Deck) Place(step int, op Operation) bool {
	cols := make([]int, len(op.Qubits))
	for i, q := range op.Qubits {
		cols[i] = q.Col
	}
	if !d.CanPlaceAt(step, cols) {
		return false
	}
	d.ensure(step)
	d.Moments[step] = append(d.Moments[step], op)
	return true
}

// RemoveAt removes any operation touching the column at the given step.
func (d *Deck) RemoveAt(step, col int) {
	if step >= len(d.Moments) {
		return
	}
	q := d.QubitAt(col)
	m := d.Moments[step]
	kept := m[:0]
	for _, op := range m {
		if !op.references(q) {
			kept = append(kept, op)
		}
	}
	d.Moments[step] = kept
}

// RemoveQubit drops every operation touching the column, used when the deck
// shrinks.
func (d *Deck) RemoveQubit(col int) {
	q := d.QubitAt(col)
	for step := range d.Moments {
		m := d.Moments[step]
		kept := m[:0]
		for _, op := range m {
			if !op.references(q) {
				kept = append(kept, op)
			}
		}
		d.Moments[step] = kept
	}
}

// Reset clears the deck content, keeping the qubit count.
func (d *Deck) Reset() {
	d.Moments = nil
}
