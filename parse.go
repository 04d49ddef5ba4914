package main

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Pre-compiled regexps for QCIS parsing.
var (
	measureRegex      = regexp.MustCompile(`^M( Q\d+)+$`)
	singleQubitRegex  = regexp.MustCompile(`^([A-Z][0-9A-Z]*) (Q\d+)$`)
	couplerRegex      = regexp.MustCompile(`^([A-Za-z][0-9A-Za-z]*) (G\d+)$`)
	idleRegex         = regexp.MustCompile(`^I (Q\d+) (\d+)$`)
	qubitNameRegex    = regexp.MustCompile(`Q\d+`)
	couplerNameRegex  = regexp.MustCompile(`G\d{4}`)
	targetQuotedRegex = regexp.MustCompile(`'([^']+)'`)
)

const (
	gateCommentMark   = "# Gate: "
	targetCommentMark = "# Targets: "
)

var (
	errUnrecognized = errors.New("unrecognized QCIS instruction")
	errNotSupported = errors.New("instruction not supported outside a context block")
)

// ParseQCIS rebuilds a circuit from QCIS text.
//
// Parsing is name-agnostic: operations accumulate against the textual qubit
// names and are rewritten through qubitOf in one pass at the end. couplers
// maps coupler names to qubit-name pairs and is required whenever the text
// addresses a coupler. Lines starting with any of ignoredPrefixes are
// dropped.
func ParseQCIS(text string, qubitOf func(string) Qubit,
	couplers map[string][2]string, ignoredPrefixes []string) (Circuit, error) {

	p := &qcisParser{couplers: couplers, ignored: ignoredPrefixes}
	for _, line := range strings.Split(text, "\n") {
		if line != "" {
			p.lines = append(p.lines, line)
		}
	}
	for len(p.lines) > 0 {
		if err := p.processLine(); err != nil {
			return nil, err
		}
	}
	if !p.endBlock {
		p.processBlock()
	}
	return p.bind(qubitOf), nil
}

// pendingOp is an operation parsed against textual qubit names, before the
// late-binding pass maps names to qubits.
type pendingOp struct {
	gate   GateKind
	custom CustomGate
	names  []string
}

// qcisParser consumes a line buffer front to back, committing the open
// time-step whenever a barrier line arrives.
type qcisParser struct {
	lines    []string
	couplers map[string][2]string
	ignored  []string

	moments  [][]pendingOp
	tick     []pendingOp
	endBlock bool
}

func (p *qcisParser) getLine() string {
	line := strings.TrimSpace(p.lines[0])
	p.lines = p.lines[1:]
	return line
}

// processBlock commits the open time-step, empty or not, and opens a new one.
func (p *qcisParser) processBlock() {
	p.moments = append(p.moments, p.tick)
	p.tick = nil
}

func (p *qcisParser) processLine() error {
	line := p.getLine()
	switch {
	case line == contextStart:
		if err := p.processContext(); err != nil {
			return err
		}
		p.endBlock = false
	case strings.HasPrefix(line, "#"):
		// plain comment
	case strings.HasPrefix(line, "B"):
		p.processBlock()
		p.endBlock = true
	default:
		if err := p.processOperation(line); err != nil {
			return err
		}
		p.endBlock = false
	}
	return nil
}

func (p *qcisParser) processOperation(line string) error {
	for _, prefix := range p.ignored {
		if strings.HasPrefix(line, prefix) {
			return nil
		}
	}

	// "M Q01" or "M Q01 Q02 ..."
	if measureRegex.MatchString(line) {
		qubits := qubitNameRegex.FindAllString(line, -1)
		p.tick = append(p.tick, pendingOp{gate: GateMeasure, names: qubits})
		return nil
	}

	// "X2P Q01"
	if m := singleQubitRegex.FindStringSubmatch(line); m != nil {
		kind, err := toGateKind(m[1])
		if err != nil {
			return fmt.Errorf("%w: %q", errUnrecognized, line)
		}
		p.tick = append(p.tick, pendingOp{gate: kind, names: []string{m[2]}})
		return nil
	}

	// "CZ G0201"
	if m := couplerRegex.FindStringSubmatch(line); m != nil {
		kind, err := toGateKind(m[1])
		if err != nil {
			return fmt.Errorf("%w: %q", errUnrecognized, line)
		}
		pair, ok := p.couplers[m[2]]
		if !ok {
			return fmt.Errorf("%w: %s", errMissingCoupler, m[2])
		}
		p.tick = append(p.tick, pendingOp{gate: kind, names: []string{pair[0], pair[1]}})
		return nil
	}

	// "I Q01 5000" round-trips only inside a context block.
	if idleRegex.MatchString(line) {
		return fmt.Errorf("%w: %q", errNotSupported, line)
	}

	return fmt.Errorf("%w: %q", errUnrecognized, line)
}

// processContext consumes a custom-gate block, rebuilding the gate from its
// descriptor and target comments. The pulse and idle lines between them are
// the gate's own rendering and need no parsing.
func (p *qcisParser) processContext() error {
	var gate CustomGate
	var targets []string
	for {
		if len(p.lines) == 0 {
			return fmt.Errorf("%w: context block not terminated", errUnrecognized)
		}
		line := p.getLine()
		if line == contextEnd {
			break
		}
		if strings.HasPrefix(line, gateCommentMark) {
			g, err := parseDescriptor(strings.TrimPrefix(line, gateCommentMark))
			if err != nil {
				return err
			}
			gate = g
		}
		if strings.HasPrefix(line, targetCommentMark) {
			for _, q := range targetQuotedRegex.FindAllStringSubmatch(line, -1) {
				targets = append(targets, q[1])
			}
		}
	}
	if gate == nil {
		return fmt.Errorf("%w: context block has no gate line", errUnrecognized)
	}
	p.tick = append(p.tick, pendingOp{custom: gate, names: targets})
	return nil
}

// bind rewrites every parsed qubit name through the caller's mapping and
// assembles the final circuit.
func (p *qcisParser) bind(qubitOf func(string) Qubit) Circuit {
	circuit := make(Circuit, len(p.moments))
	for i, tick := range p.moments {
		moment := make(Moment, len(tick))
		for j, op := range tick {
			qubits := make([]Qubit, len(op.names))
			for k, name := range op.names {
				qubits[k] = qubitOf(name)
			}
			if op.custom != nil {
				moment[j] = CustomOp(op.custom, qubits...)
			} else {
				moment[j] = GateOp(op.gate, qubits...)
			}
		}
		circuit[i] = moment
	}
	return circuit
}
