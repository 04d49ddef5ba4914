package main

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errMissingCoupler = errors.New("coupler for qubit pair not provided")
	errUnconvertible  = errors.New("cannot convert operation to QCIS")
)

// IgnoreSet selects operations the forward translator drops silently.
// Matching is by gate kind or by the noise flag. Gates with their own QCIS
// routine are emitted before the ignore check runs, so they cannot be
// suppressed here. The translator always merges the caller's set with the
// default one, which drops every noise operation.
type IgnoreSet struct {
	Kinds []GateKind
	Noise bool
}

func (s *IgnoreSet) matches(op Operation) bool {
	if s == nil {
		return false
	}
	if s.Noise && op.IsNoise {
		return true
	}
	if op.Gate != GateNone {
		for _, k := range s.Kinds {
			if k == op.Gate {
				return true
			}
		}
	}
	return false
}

// ToQCIS renders a circuit as QCIS text.
//
// nameOf maps qubits to their hardware names and must be total over the
// qubits the circuit uses. blockable names every resource a barrier blocks.
// couplers maps coupler names to qubit-name pairs; it is required whenever
// the circuit contains a two-qubit gate. ignore may be nil.
func ToQCIS(c Circuit, nameOf func(Qubit) string, blockable []string,
	couplers map[string][2]string, ignore *IgnoreSet) (string, error) {

	merged := IgnoreSet{Noise: true}
	if ignore != nil {
		merged.Kinds = append(merged.Kinds, ignore.Kinds...)
	}

	w := &qcisWriter{
		nameOf:        nameOf,
		blockable:     blockable,
		pairToCoupler: invertCouplers(couplers),
		ignore:        &merged,
	}
	if err := w.processMoments(c); err != nil {
		return "", err
	}
	return w.output(), nil
}

// qcisWriter accumulates QCIS lines for one translation. Sub-circuit
// recursion gets an independent child writer so repetition can replicate
// already-materialized text.
type qcisWriter struct {
	nameOf        func(Qubit) string
	blockable     []string
	pairToCoupler map[[2]string]string
	ignore        *IgnoreSet

	buffer    []string
	numBlocks int
}

func invertCouplers(couplers map[string][2]string) map[[2]string]string {
	inverted := make(map[[2]string]string, len(couplers))
	for coupler, pair := range couplers {
		inverted[pairKey(pair[0], pair[1])] = coupler
	}
	return inverted
}

// pairKey normalizes an unordered qubit-name pair.
func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

func (w *qcisWriter) output() string {
	return strings.Join(w.buffer, "\n") + "\n"
}

func (w *qcisWriter) append(line string) {
	if strings.HasPrefix(line, "B") {
		w.numBlocks++
	}
	w.buffer = append(w.buffer, line)
}

// appendText appends multi-line text, keeping the barrier count exact even
// when a custom gate emits internal barriers.
func (w *qcisWriter) appendText(text string) {
	for _, line := range strings.Split(text, "\n") {
		w.append(line)
	}
}

func (w *qcisWriter) block(qagents []string) {
	w.append("B " + strings.Join(qagents, " "))
}

func (w *qcisWriter) processMoments(c Circuit) error {
	for _, m := range c {
		if err := w.processMoment(m); err != nil {
			return err
		}
	}
	return nil
}

// processMoment emits the moment's operations and then a barrier over the
// full blockable set, unless the moment produced nothing or one of its
// operations already ended the step with a barrier of its own. The latter is
// detected by barrier count, not buffer length, so composite gates ending in
// several barriers still synchronize correctly.
func (w *qcisWriter) processMoment(m Moment) error {
	lenBefore := len(w.buffer)
	blocksBefore := w.numBlocks
	if err := w.processOperations(m); err != nil {
		return err
	}
	if w.numBlocks == blocksBefore && len(w.buffer) != lenBefore {
		w.block(w.blockable)
	}
	return nil
}

func (w *qcisWriter) processOperations(m Moment) error {
	for _, op := range m {
		targets, err := w.resolveTargets(op)
		if err != nil {
			return err
		}

		if op.Custom != nil {
			body, err := op.Custom.QCIS(targets)
			if err != nil {
				return err
			}
			w.appendText(wrapContext(op.Custom, targets, body))
			continue
		}

		if op.Sub != nil {
			if err := w.processSubCircuit(op.Sub); err != nil {
				return err
			}
			continue
		}

		if opcode, err := toOpcode(op.Gate); err == nil {
			w.append(opcode + " " + strings.Join(targets, " "))
			continue
		}

		if w.ignore.matches(op) {
			continue
		}

		return fmt.Errorf("%w: %s on %v; add it to the opcode table, give the"+
			" gate a custom QCIS method, or add it to the ignore set",
			errUnconvertible, opDisplay(op), targets)
	}
	return nil
}

// resolveTargets maps the operation's qubits to hardware names. A two-qubit
// CZ collapses to its coupler name; the pair must be registered.
func (w *qcisWriter) resolveTargets(op Operation) ([]string, error) {
	names := make([]string, len(op.Qubits))
	for i, q := range op.Qubits {
		names[i] = w.nameOf(q)
	}
	if op.Gate == GateCZ && len(names) == 2 {
		coupler, ok := w.pairToCoupler[pairKey(names[0], names[1])]
		if !ok {
			return nil, fmt.Errorf("%w: (%s, %s)", errMissingCoupler, names[0], names[1])
		}
		return []string{coupler}, nil
	}
	return names, nil
}

// processSubCircuit translates the inner circuit once into a child buffer
// and replicates the materialized text, so nested barriers repeat verbatim.
func (w *qcisWriter) processSubCircuit(sub *SubCircuit) error {
	child := &qcisWriter{
		nameOf:        w.nameOf,
		blockable:     w.blockable,
		pairToCoupler: w.pairToCoupler,
		ignore:        w.ignore,
	}
	if err := child.processMoments(sub.Circuit); err != nil {
		return err
	}
	for i := 0; i < sub.Repetitions; i++ {
		w.buffer = append(w.buffer, child.buffer...)
		w.numBlocks += child.numBlocks
	}
	return nil
}

func opDisplay(op Operation) string {
	if op.IsNoise {
		return "noise " + op.NoiseKind
	}
	return op.Gate.String()
}
