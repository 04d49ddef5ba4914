package main

import (
	"errors"
	"fmt"
	"testing"
)

func TestDecouplingValidation(t *testing.T) {
	if _, err := NewCPMG(2, 1000, 50, "Z"); !errors.Is(err, errInvalidPulseAxis) {
		t.Errorf("axis Z: got %v, want invalid-axis error", err)
	}
	if _, err := NewCPMG(0, 1000, 50, "X"); !errors.Is(err, errInvalidPulseCount) {
		t.Errorf("zero pairs: got %v, want invalid-count error", err)
	}
	if _, err := NewCPMG(10, 100, 50, "X"); !errors.Is(err, errDurationExceeded) {
		t.Errorf("overfull train: got %v, want duration error", err)
	}
	if _, err := NewXY(0, 1000, 50); !errors.Is(err, errInvalidPulseCount) {
		t.Errorf("XY zero pairs: got %v, want invalid-count error", err)
	}
	if _, err := NewXYYX(6, 1000, 50); !errors.Is(err, errDurationExceeded) {
		t.Errorf("XYYX overfull train: got %v, want duration error", err)
	}
}

func TestCPMGIdleArithmetic(t *testing.T) {
	g, err := NewCPMG(2, 1000, 50, "X")
	if err != nil {
		t.Fatalf("NewCPMG error: %v", err)
	}
	// 4 pulses: floor(1000/4)=250 per gate, (250-50)/2 = 100 on each edge.
	if g.IdleNs() != 100 {
		t.Errorf("CPMG idle: got %g, want 100", g.IdleNs())
	}

	body, err := g.QCIS([]string{"Q07"})
	if err != nil {
		t.Fatalf("QCIS error: %v", err)
	}
	fmt.Printf("CPMG body:\n%s\n", body)

	want := `I Q07 100
X Q07
I Q07 200
X Q07
I Q07 200
X Q07
I Q07 200
X Q07
I Q07 100`
	if body != want {
		t.Errorf("CPMG body mismatch:\ngot:\n%s\nwant:\n%s", body, want)
	}
}

func TestXYYXIdleTruncation(t *testing.T) {
	g, err := NewXYYX(2, 1000, 50)
	if err != nil {
		t.Fatalf("NewXYYX error: %v", err)
	}
	// 8 pulses: floor(1000/8)=125 per gate, (125-50)/2 = 37.5. Emission
	// truncates: 37 on the edges, 75 between pulses.
	if g.IdleNs() != 37.5 {
		t.Errorf("XYYX idle: got %g, want 37.5", g.IdleNs())
	}

	body, err := g.QCIS([]string{"Q01"})
	if err != nil {
		t.Fatalf("QCIS error: %v", err)
	}
	fmt.Printf("XYYX body:\n%s\n", body)

	want := `I Q01 37
X Q01
I Q01 75
Y Q01
I Q01 75
X Q01
I Q01 75
Y Q01
I Q01 75
Y Q01
I Q01 75
X Q01
I Q01 75
Y Q01
I Q01 75
X Q01
I Q01 37`
	if body != want {
		t.Errorf("XYYX body mismatch:\ngot:\n%s\nwant:\n%s", body, want)
	}
}

func TestXYPulseOrder(t *testing.T) {
	g, err := NewXY(2, 1000, 50)
	if err != nil {
		t.Fatalf("NewXY error: %v", err)
	}
	want := []GateKind{GateX, GateY, GateX, GateY}
	got := g.pulses()
	if len(got) != len(want) {
		t.Fatalf("XY pulses: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("XY pulses: got %v, want %v", got, want)
		}
	}
}

func TestDescriptorRoundTrip(t *testing.T) {
	cpmg, err := NewCPMG(2, 1000, 50, "Y")
	if err != nil {
		t.Fatalf("NewCPMG error: %v", err)
	}
	xy, err := NewXY(3, 2000, 40)
	if err != nil {
		t.Fatalf("NewXY error: %v", err)
	}
	xyyx, err := NewXYYX(1, 800, 30)
	if err != nil {
		t.Fatalf("NewXYYX error: %v", err)
	}

	for _, g := range []CustomGate{cpmg, xy, xyyx} {
		desc := g.Descriptor()
		fmt.Printf("Descriptor: %s\n", desc)
		back, err := parseDescriptor(desc)
		if err != nil {
			t.Errorf("parseDescriptor(%q) error: %v", desc, err)
			continue
		}
		if back != g {
			t.Errorf("descriptor round trip: got %+v, want %+v", back, g)
		}
	}
}

func TestDescriptorDefaults(t *testing.T) {
	// Omitted pulse width and axis fall back to 50ns X pulses, and the
	// package prefix is optional.
	g, err := parseDescriptor("CPMG(num_pi_pair=1, total_duration_ns=500)")
	if err != nil {
		t.Fatalf("parseDescriptor error: %v", err)
	}
	cpmg, ok := g.(CPMG)
	if !ok {
		t.Fatalf("expected CPMG, got %T", g)
	}
	if cpmg.PulseNs != DefaultPiPulseNs || cpmg.Axis != "X" {
		t.Errorf("defaults: got pulse=%g axis=%q", cpmg.PulseNs, cpmg.Axis)
	}
}

func TestDescriptorErrors(t *testing.T) {
	cases := []string{
		"qcisdeck.FROB(num_pi_pair=1)",
		"CPMG",
		"CPMG(total_duration_ns=500)",
		"CPMG(num_pi_pair=1, total_duration_ns=500, pi_gate=X)",
	}
	for _, desc := range cases {
		if _, err := parseDescriptor(desc); err == nil {
			t.Errorf("parseDescriptor(%q): expected error", desc)
		} else {
			fmt.Printf("%q -> %v\n", desc, err)
		}
	}
}

func TestKwargsQuotedComma(t *testing.T) {
	// Commas inside quoted values must not split the argument list.
	args, err := parseKwargs("label='a,b', num_pi_pair=1")
	if err != nil {
		t.Fatalf("parseKwargs error: %v", err)
	}
	label, err := args.stringArg("label", "")
	if err != nil {
		t.Fatalf("stringArg error: %v", err)
	}
	if label != "a,b" {
		t.Errorf("quoted value: got %q, want %q", label, "a,b")
	}
	pairs, err := args.intArg("num_pi_pair")
	if err != nil {
		t.Fatalf("intArg error: %v", err)
	}
	if pairs != 1 {
		t.Errorf("num_pi_pair: got %d, want 1", pairs)
	}
}

func TestRegisterExtension(t *testing.T) {
	called := false
	RegisterExtension("TESTGATE", func(args kwargs) (CustomGate, error) {
		called = true
		g, err := NewXY(1, 500, 50)
		return g, err
	})
	defer delete(extensions, "TESTGATE")

	if _, err := parseDescriptor("TESTGATE()"); err != nil {
		t.Fatalf("parseDescriptor error: %v", err)
	}
	if !called {
		t.Error("registered extension was not consulted")
	}
}
