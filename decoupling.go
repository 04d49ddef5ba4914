package main

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	errInvalidPulseAxis  = errors.New("pulse axis must be X or Y")
	errInvalidPulseCount = errors.New("pulse count must be positive")
	errDurationExceeded  = errors.New("pulses do not fit in the total duration")
)

// DefaultPiPulseNs is the pi-pulse width assumed when a descriptor omits it.
const DefaultPiPulseNs = 50.0

func validatePulses(axis string, count int, totalNs, pulseNs float64) error {
	if axis != "X" && axis != "Y" {
		return fmt.Errorf("%w: %q", errInvalidPulseAxis, axis)
	}
	if count < 1 {
		return fmt.Errorf("%w: %d", errInvalidPulseCount, count)
	}
	if float64(count)*pulseNs >= totalNs {
		return fmt.Errorf("%w: %d pulses of %gns exceed %gns",
			errDurationExceeded, count, pulseNs, totalNs)
	}
	return nil
}

// idleBeforeAfter computes the idle gap before the first and after the last
// pulse. The floor and the halving must stay in this order; fusing them
// changes the rounding for odd remainders.
func idleBeforeAfter(count int, totalNs, pulseNs float64) float64 {
	perGateNs := math.Floor(totalNs / float64(count))
	return math.Floor(perGateNs-pulseNs) / 2
}

// ddQCIS renders the pulse train: an edge idle, then pulses separated by
// doubled idles, then the closing edge idle. Durations are truncated to
// whole nanoseconds.
func ddQCIS(pulses []GateKind, idleNs float64, qubit string) (string, error) {
	edge := int(idleNs)
	inner := int(2 * idleNs)
	var sb strings.Builder
	fmt.Fprintf(&sb, "I %s %d\n", qubit, edge)
	for i, pulse := range pulses {
		opcode, err := toOpcode(pulse)
		if err != nil {
			return "", err
		}
		if i > 0 {
			fmt.Fprintf(&sb, "I %s %d\n", qubit, inner)
		}
		fmt.Fprintf(&sb, "%s %s\n", opcode, qubit)
	}
	fmt.Fprintf(&sb, "I %s %d", qubit, edge)
	return sb.String(), nil
}

func oneTarget(name string, targets []string) (string, error) {
	if len(targets) != 1 {
		return "", fmt.Errorf("%s applies to exactly one qubit, got %d targets", name, len(targets))
	}
	return targets[0], nil
}

func axisKind(axis string) GateKind {
	if axis == "Y" {
		return GateY
	}
	return GateX
}

// CPMG is the Carr-Purcell dynamical decoupling sequence: a train of
// identical pi pulses on one axis.
//
//	q0: --X--X--X--X--
type CPMG struct {
	NumPiPair int
	TotalNs   float64
	PulseNs   float64
	Axis      string

	idleNs float64
}

// NewCPMG validates the parameters of a CPMG sequence with 2*numPiPair
// pulses over totalNs nanoseconds.
func NewCPMG(numPiPair int, totalNs, pulseNs float64, axis string) (CPMG, error) {
	if err := validatePulses(axis, 2*numPiPair, totalNs, pulseNs); err != nil {
		return CPMG{}, err
	}
	return CPMG{
		NumPiPair: numPiPair,
		TotalNs:   totalNs,
		PulseNs:   pulseNs,
		Axis:      axis,
		idleNs:    idleBeforeAfter(2*numPiPair, totalNs, pulseNs),
	}, nil
}

// IdleNs returns the idle gap before the first and after the last pulse.
func (g CPMG) IdleNs() float64 { return g.idleNs }

func (g CPMG) pulses() []GateKind {
	seq := make([]GateKind, 2*g.NumPiPair)
	for i := range seq {
		seq[i] = axisKind(g.Axis)
	}
	return seq
}

func (g CPMG) QCIS(targets []string) (string, error) {
	qubit, err := oneTarget("CPMG", targets)
	if err != nil {
		return "", err
	}
	return ddQCIS(g.pulses(), g.idleNs, qubit)
}

func (g CPMG) Descriptor() string {
	return fmt.Sprintf("qcisdeck.CPMG(num_pi_pair=%d, total_duration_ns=%g,"+
		" single_pi_gate_duration_ns=%g, pi_gate='%s')",
		g.NumPiPair, g.TotalNs, g.PulseNs, g.Axis)
}

// XY alternates X and Y pi pulses.
//
//	q0: --X--Y--X--Y--
type XY struct {
	NumXYPair int
	TotalNs   float64
	PulseNs   float64

	idleNs float64
}

// NewXY validates the parameters of an XY sequence with 2*numXYPair pulses.
func NewXY(numXYPair int, totalNs, pulseNs float64) (XY, error) {
	if err := validatePulses("X", 2*numXYPair, totalNs, pulseNs); err != nil {
		return XY{}, err
	}
	return XY{
		NumXYPair: numXYPair,
		TotalNs:   totalNs,
		PulseNs:   pulseNs,
		idleNs:    idleBeforeAfter(2*numXYPair, totalNs, pulseNs),
	}, nil
}

// IdleNs returns the idle gap before the first and after the last pulse.
func (g XY) IdleNs() float64 { return g.idleNs }

func (g XY) pulses() []GateKind {
	seq := make([]GateKind, 0, 2*g.NumXYPair)
	for i := 0; i < g.NumXYPair; i++ {
		seq = append(seq, GateX, GateY)
	}
	return seq
}

func (g XY) QCIS(targets []string) (string, error) {
	qubit, err := oneTarget("XY", targets)
	if err != nil {
		return "", err
	}
	return ddQCIS(g.pulses(), g.idleNs, qubit)
}

func (g XY) Descriptor() string {
	return fmt.Sprintf("qcisdeck.XY(num_xy_pair=%d, total_duration_ns=%g,"+
		" single_pi_gate_duration_ns=%g)",
		g.NumXYPair, g.TotalNs, g.PulseNs)
}

// XYYX runs an XY train followed by its mirror image.
//
//	q0: --X--Y--X--Y--Y--X--Y--X--
type XYYX struct {
	NumXYYXPair int
	TotalNs     float64
	PulseNs     float64

	idleNs float64
}

// NewXYYX validates the parameters of an XYYX sequence with 4*numXYYXPair
// pulses.
func NewXYYX(numXYYXPair int, totalNs, pulseNs float64) (XYYX, error) {
	if err := validatePulses("X", 4*numXYYXPair, totalNs, pulseNs); err != nil {
		return XYYX{}, err
	}
	return XYYX{
		NumXYYXPair: numXYYXPair,
		TotalNs:     totalNs,
		PulseNs:     pulseNs,
		idleNs:      idleBeforeAfter(4*numXYYXPair, totalNs, pulseNs),
	}, nil
}

// IdleNs returns the idle gap before the first and after the last pulse.
func (g XYYX) IdleNs() float64 { return g.idleNs }

func (g XYYX) pulses() []GateKind {
	seq := make([]GateKind, 0, 4*g.NumXYYXPair)
	for i := 0; i < g.NumXYYXPair; i++ {
		seq = append(seq, GateX, GateY)
	}
	for i := 0; i < g.NumXYYXPair; i++ {
		seq = append(seq, GateY, GateX)
	}
	return seq
}

func (g XYYX) QCIS(targets []string) (string, error) {
	qubit, err := oneTarget("XYYX", targets)
	if err != nil {
		return "", err
	}
	return ddQCIS(g.pulses(), g.idleNs, qubit)
}

func (g XYYX) Descriptor() string {
	return fmt.Sprintf("qcisdeck.XYYX(num_xyyx_pair=%d, total_duration_ns=%g,"+
		" single_pi_gate_duration_ns=%g)",
		g.NumXYYXPair, g.TotalNs, g.PulseNs)
}
