package main

import (
	"errors"
	"fmt"
	"testing"
)

var parseCouplers = map[string][2]string{"G0201": {"Q01", "Q02"}}

func parseQubitOf(name string) Qubit {
	if name == "Q01" {
		return Qubit{Row: 0, Col: 0}
	}
	return Qubit{Row: 0, Col: 1}
}

func TestParseBellState(t *testing.T) {
	qcis := `Y2P Q01
Y2M Q02
B Q01 Q02 R01
CZ G0201
B Q01 Q02 R01
Y2P Q02
B Q01 Q02 R01
M Q01 Q02
B Q01 Q02 R01
`
	c, err := ParseQCIS(qcis, parseQubitOf, parseCouplers, nil)
	if err != nil {
		t.Fatalf("ParseQCIS error: %v", err)
	}

	fmt.Printf("Parsed %d moments:\n", len(c))
	for i, m := range c {
		for _, op := range m {
			fmt.Printf("  Moment %d: %s on %v\n", i, opDisplay(op), op.Qubits)
		}
	}

	if len(c) != 4 {
		t.Fatalf("expected 4 moments, got %d", len(c))
	}
	if len(c[0]) != 2 || c[0][0].Gate != GateY2P || c[0][1].Gate != GateY2M {
		t.Errorf("moment 0: got %#v", c[0])
	}
	cz := c[1][0]
	if cz.Gate != GateCZ || len(cz.Qubits) != 2 {
		t.Errorf("moment 1: expected CZ on both qubits, got %#v", cz)
	}
	meas := c[3][0]
	if meas.Gate != GateMeasure || len(meas.Qubits) != 2 {
		t.Errorf("moment 3: expected M on both qubits, got %#v", meas)
	}
}

func TestParseTrailingInstructionCommits(t *testing.T) {
	// Text without a final barrier still commits the open moment, and a
	// final barrier does not add an empty one.
	c, err := ParseQCIS("X2P Q01\n", parseQubitOf, parseCouplers, nil)
	if err != nil {
		t.Fatalf("ParseQCIS error: %v", err)
	}
	if len(c) != 1 || len(c[0]) != 1 || c[0][0].Gate != GateX2P {
		t.Errorf("no-barrier text: got %#v", c)
	}

	c, err = ParseQCIS("X2P Q01\nB Q01\n", parseQubitOf, parseCouplers, nil)
	if err != nil {
		t.Fatalf("ParseQCIS error: %v", err)
	}
	if len(c) != 1 {
		t.Errorf("barrier-terminated text: expected 1 moment, got %d", len(c))
	}
}

func TestParseConsecutiveBarriers(t *testing.T) {
	// Each barrier commits a moment, even an empty one.
	c, err := ParseQCIS("B Q01\nB Q01\n", parseQubitOf, parseCouplers, nil)
	if err != nil {
		t.Fatalf("ParseQCIS error: %v", err)
	}
	if len(c) != 2 {
		t.Fatalf("expected 2 empty moments, got %d", len(c))
	}
	if len(c[0]) != 0 || len(c[1]) != 0 {
		t.Errorf("expected empty moments, got %#v", c)
	}
}

func TestParseContextBlock(t *testing.T) {
	qcis := `# CIRQ_CONTEXT_START
# Gate: qcisdeck.CPMG(num_pi_pair=2, total_duration_ns=1000, single_pi_gate_duration_ns=50, pi_gate='X')
# Targets: ['Q01']
I Q01 100
X Q01
I Q01 200
X Q01
I Q01 200
X Q01
I Q01 200
X Q01
I Q01 100
# CIRQ_CONTEXT_END
B Q01 Q02 R01
`
	c, err := ParseQCIS(qcis, parseQubitOf, parseCouplers, nil)
	if err != nil {
		t.Fatalf("ParseQCIS error: %v", err)
	}
	if len(c) != 1 || len(c[0]) != 1 {
		t.Fatalf("expected a single-op moment, got %#v", c)
	}

	op := c[0][0]
	if op.Custom == nil {
		t.Fatalf("expected a custom gate, got %#v", op)
	}
	fmt.Printf("Rebuilt gate: %s\n", op.Custom.Descriptor())

	want, err := NewCPMG(2, 1000, 50, "X")
	if err != nil {
		t.Fatalf("NewCPMG error: %v", err)
	}
	got, ok := op.Custom.(CPMG)
	if !ok {
		t.Fatalf("expected CPMG, got %T", op.Custom)
	}
	if got != want {
		t.Errorf("rebuilt gate: got %+v, want %+v", got, want)
	}
	if len(op.Qubits) != 1 || op.Qubits[0] != parseQubitOf("Q01") {
		t.Errorf("rebuilt targets: got %v", op.Qubits)
	}
}

func TestParseUnknownInstructions(t *testing.T) {
	cases := []struct {
		line string
		want error
	}{
		{"Z Q01\n", errUnrecognized},
		{"CNOT G0201\n", errUnrecognized},
		{"FROBNICATE\n", errUnrecognized},
		{"I Q01 500\n", errNotSupported},
	}
	for _, tt := range cases {
		_, err := ParseQCIS(tt.line, parseQubitOf, parseCouplers, nil)
		if !errors.Is(err, tt.want) {
			t.Errorf("ParseQCIS(%q): got %v, want %v", tt.line, err, tt.want)
		}
		fmt.Printf("%q -> %v\n", tt.line, err)
	}
}

func TestParseUnknownCoupler(t *testing.T) {
	_, err := ParseQCIS("CZ G9999\n", parseQubitOf, parseCouplers, nil)
	if !errors.Is(err, errMissingCoupler) {
		t.Fatalf("expected missing-coupler error, got %v", err)
	}
}

func TestParseIgnoredPrefixes(t *testing.T) {
	qcis := `PULSE Q01 0.5 120
X2P Q01
PULSE Q02 0.5 120
B Q01 Q02
`
	c, err := ParseQCIS(qcis, parseQubitOf, parseCouplers, []string{"PULSE"})
	if err != nil {
		t.Fatalf("ParseQCIS error: %v", err)
	}
	if len(c) != 1 || len(c[0]) != 1 || c[0][0].Gate != GateX2P {
		t.Errorf("ignored-prefix parse: got %#v", c)
	}
}

func TestParseUnterminatedContext(t *testing.T) {
	qcis := "# CIRQ_CONTEXT_START\n# Gate: qcisdeck.XY(num_xy_pair=1, total_duration_ns=500)\n"
	_, err := ParseQCIS(qcis, parseQubitOf, parseCouplers, nil)
	if !errors.Is(err, errUnrecognized) {
		t.Fatalf("expected unterminated-block error, got %v", err)
	}
}

func TestDeckRoundTrip(t *testing.T) {
	d := NewDeck(3)
	d.Place(0, GateOp(GateY2P, d.QubitAt(0)))
	d.Place(1, GateOp(GateCZ, d.QubitAt(0), d.QubitAt(1)))
	d.Place(2, GateOp(GateMeasure, d.QubitAt(0)))

	qcis, err := d.ToQCIS()
	if err != nil {
		t.Fatalf("Deck.ToQCIS error: %v", err)
	}
	fmt.Printf("Deck QCIS:\n%s", qcis)

	d2 := NewDeck(3)
	if err := d2.SetFromQCIS(qcis); err != nil {
		t.Fatalf("Deck.SetFromQCIS error: %v", err)
	}
	qcis2, err := d2.ToQCIS()
	if err != nil {
		t.Fatalf("Deck.ToQCIS error: %v", err)
	}
	if qcis2 != qcis {
		t.Errorf("deck round trip mismatch:\ngot:\n%s\nwant:\n%s", qcis2, qcis)
	}
}

func TestDeckParsesHighQubitIndices(t *testing.T) {
	// The generated coupler map covers every qubit the text addresses,
	// including ones reached only through a coupler name.
	qcis := "CZ G3433\nB Q33 Q34\nM Q34\n"
	d := NewDeck(2)
	if err := d.SetFromQCIS(qcis); err != nil {
		t.Fatalf("Deck.SetFromQCIS error: %v", err)
	}
	if d.NumQubits != 35 {
		t.Errorf("NumQubits: got %d, want 35", d.NumQubits)
	}
	cz := d.OpAt(0, 33)
	if cz == nil || cz.Gate != GateCZ || !cz.references(d.QubitAt(34)) {
		t.Errorf("expected CZ on Q33/Q34, got %#v", cz)
	}
}

func TestDeckPlacementConflicts(t *testing.T) {
	d := NewDeck(2)
	if !d.Place(0, GateOp(GateX, d.QubitAt(0))) {
		t.Fatal("first placement refused")
	}
	if d.Place(0, GateOp(GateY, d.QubitAt(0))) {
		t.Error("conflicting placement accepted")
	}
	if !d.Place(0, GateOp(GateY, d.QubitAt(1))) {
		t.Error("disjoint placement refused")
	}
	if err := d.Circuit().Check(); err != nil {
		t.Errorf("deck produced an invalid circuit: %v", err)
	}

	d.RemoveAt(0, 0)
	if d.OpAt(0, 0) != nil {
		t.Error("RemoveAt left the operation in place")
	}
	if d.OpAt(0, 1) == nil {
		t.Error("RemoveAt removed the wrong operation")
	}
}
