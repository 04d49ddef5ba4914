package main

import (
	"errors"
	"fmt"
)

// GateKind identifies a gate by its semantic identity. The QCIS opcode table
// covers only the hardware-native subset; every other kind exists so circuits
// built elsewhere can be ignored or rejected with a useful error.
type GateKind int

const (
	GateNone GateKind = iota
	GateX             // pi rotation about X
	GateY             // pi rotation about Y
	GateX2P           // +90 degree X
	GateX2M           // -90 degree X
	GateY2P           // +90 degree Y
	GateY2M           // -90 degree Y
	GateCZ
	GateMeasure

	// Kinds with no QCIS opcode. Convertible only via the ignore set.
	GateH
	GateZ
	GateS
	GateT
	GateCNOT
	GateSWAP
)

var (
	errUnknownGate   = errors.New("gate cannot be converted to a QCIS opcode")
	errUnknownOpcode = errors.New("opcode cannot be converted to a gate")
)

// opcodeTable is the bijection between QCIS opcodes and gate kinds.
// Measurement is keyed by kind alone: which qubits an instance measures
// never changes the opcode.
var opcodeTable = map[string]GateKind{
	"X":   GateX,
	"Y":   GateY,
	"X2P": GateX2P,
	"X2M": GateX2M,
	"Y2P": GateY2P,
	"Y2M": GateY2M,
	"CZ":  GateCZ,
	"M":   GateMeasure,
}

var gateTable = func() map[GateKind]string {
	m := make(map[GateKind]string, len(opcodeTable))
	for opcode, kind := range opcodeTable {
		m[kind] = opcode
	}
	return m
}()

// toOpcode returns the QCIS opcode for a gate kind.
func toOpcode(kind GateKind) (string, error) {
	opcode, ok := gateTable[kind]
	if !ok {
		return "", fmt.Errorf("%w: %v", errUnknownGate, kind)
	}
	return opcode, nil
}

// toGateKind returns the gate kind for a QCIS opcode.
func toGateKind(opcode string) (GateKind, error) {
	kind, ok := opcodeTable[opcode]
	if !ok {
		return GateNone, fmt.Errorf("%w: %q", errUnknownOpcode, opcode)
	}
	return kind, nil
}

// String returns the display name of a gate kind.
func (k GateKind) String() string {
	if opcode, ok := gateTable[k]; ok {
		return opcode
	}
	switch k {
	case GateNone:
		return "NONE"
	case GateH:
		return "H"
	case GateZ:
		return "Z"
	case GateS:
		return "S"
	case GateT:
		return "T"
	case GateCNOT:
		return "CNOT"
	case GateSWAP:
		return "SWAP"
	}
	return fmt.Sprintf("GateKind(%d)", int(k))
}
