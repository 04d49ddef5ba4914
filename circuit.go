package main

import "fmt"

// Qubit identifies a physical qubit by its position on the chip grid.
type Qubit struct {
	Row, Col int
}

// CustomGate is a gate that renders its own QCIS text instead of going
// through the opcode table. Descriptor returns a constructor expression the
// extension registry can rebuild an equal gate from.
type CustomGate interface {
	QCIS(targets []string) (string, error)
	Descriptor() string
}

// Operation is one gate application on an ordered list of target qubits.
// At most one of Gate, Custom and Sub is set and discriminates the variant.
// Noise operations carry no gate; they exist so circuits annotated with
// noise channels convert cleanly (the default ignore set drops them).
type Operation struct {
	Gate   GateKind
	Custom CustomGate
	Sub    *SubCircuit
	Qubits []Qubit

	IsNoise   bool
	NoiseKind string
}

// SubCircuit is an inner circuit replayed Repetitions times in place.
// It is flattened on conversion, never referenced by identity.
type SubCircuit struct {
	Circuit     Circuit
	Repetitions int
}

// Moment is the set of operations scheduled in one time-step. Operations in
// a moment must touch pairwise disjoint qubits.
type Moment []Operation

// Circuit is an ordered sequence of moments.
type Circuit []Moment

// GateOp builds a table-gate operation.
func GateOp(kind GateKind, qubits ...Qubit) Operation {
	return Operation{Gate: kind, Qubits: qubits}
}

// CustomOp builds an operation whose gate emits its own QCIS.
func CustomOp(gate CustomGate, qubits ...Qubit) Operation {
	return Operation{Custom: gate, Qubits: qubits}
}

// RepeatOp builds a sub-circuit operation replayed reps times.
func RepeatOp(inner Circuit, reps int) Operation {
	return Operation{
		Sub:    &SubCircuit{Circuit: inner, Repetitions: reps},
		Qubits: inner.allQubits(),
	}
}

// NoiseOp builds a noise annotation on a single qubit.
func NoiseOp(noiseKind string, qubit Qubit) Operation {
	return Operation{IsNoise: true, NoiseKind: noiseKind, Qubits: []Qubit{qubit}}
}

// references reports whether the operation touches the given qubit.
func (op Operation) references(q Qubit) bool {
	for _, oq := range op.Qubits {
		if oq == q {
			return true
		}
	}
	return false
}

// disjoint reports whether all operations in the moment touch pairwise
// disjoint qubits.
func (m Moment) disjoint() bool {
	seen := make(map[Qubit]bool)
	for _, op := range m {
		for _, q := range op.Qubits {
			if seen[q] {
				return false
			}
			seen[q] = true
		}
	}
	return true
}

// Check verifies the moment disjointness invariant over the whole circuit,
// descending into sub-circuits.
func (c Circuit) Check() error {
	for i, m := range c {
		if !m.disjoint() {
			return fmt.Errorf("moment %d applies two operations to the same qubit", i)
		}
		for _, op := range m {
			if op.Sub != nil {
				if err := op.Sub.Circuit.Check(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// allQubits returns every qubit the circuit touches, in first-use order.
func (c Circuit) allQubits() []Qubit {
	var qubits []Qubit
	seen := make(map[Qubit]bool)
	for _, m := range c {
		for _, op := range m {
			for _, q := range op.Qubits {
				if !seen[q] {
					seen[q] = true
					qubits = append(qubits, q)
				}
			}
		}
	}
	return qubits
}
