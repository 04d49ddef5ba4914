package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errUnknownExtension = errors.New("extension gate is not registered")

// ExtensionFunc rebuilds a custom gate from the keyword arguments of its
// descriptor.
type ExtensionFunc func(args kwargs) (CustomGate, error)

// extensions maps descriptor constructor names to their parsers. Used only
// while reverse-translating context blocks; forward translation relies on
// the gate's own QCIS method.
var extensions = map[string]ExtensionFunc{
	"CPMG": newCPMGFromArgs,
	"XY":   newXYFromArgs,
	"XYYX": newXYYXFromArgs,
}

// RegisterExtension adds a constructor to the registry consulted when
// parsing context blocks.
func RegisterExtension(name string, fn ExtensionFunc) {
	extensions[name] = fn
}

// parseDescriptor rebuilds a custom gate from its descriptor expression,
// e.g. "qcisdeck.CPMG(num_pi_pair=2, total_duration_ns=1000)". Only the
// single registered constructor name is consulted; the arguments are parsed
// as plain keyword pairs, never evaluated.
func parseDescriptor(desc string) (CustomGate, error) {
	desc = strings.TrimSpace(strings.TrimPrefix(desc, "qcisdeck."))
	open := strings.IndexByte(desc, '(')
	if open < 0 || !strings.HasSuffix(desc, ")") {
		return nil, fmt.Errorf("%w: malformed descriptor %q", errUnknownExtension, desc)
	}
	name := desc[:open]
	fn, ok := extensions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errUnknownExtension, name)
	}
	args, err := parseKwargs(desc[open+1 : len(desc)-1])
	if err != nil {
		return nil, fmt.Errorf("descriptor %s: %w", name, err)
	}
	return fn(args)
}

// kwargs holds the raw keyword arguments of a descriptor.
type kwargs map[string]string

func parseKwargs(s string) (kwargs, error) {
	args := make(kwargs)
	for _, part := range splitArgs(s) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("malformed keyword argument %q", part)
		}
		args[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return args, nil
}

// splitArgs splits an argument list on commas outside quoted values.
func splitArgs(s string) []string {
	var parts []string
	start := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func (a kwargs) intArg(key string) (int, error) {
	raw, ok := a[key]
	if !ok {
		return 0, fmt.Errorf("missing argument %q", key)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("argument %q: %v", key, err)
	}
	return v, nil
}

func (a kwargs) floatArg(key string, fallback float64) (float64, error) {
	raw, ok := a[key]
	if !ok {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("argument %q: %v", key, err)
	}
	return v, nil
}

func (a kwargs) stringArg(key, fallback string) (string, error) {
	raw, ok := a[key]
	if !ok {
		return fallback, nil
	}
	if len(raw) < 2 || raw[0] != '\'' || raw[len(raw)-1] != '\'' {
		return "", fmt.Errorf("argument %q: expected a quoted string, got %q", key, raw)
	}
	return raw[1 : len(raw)-1], nil
}

func newCPMGFromArgs(args kwargs) (CustomGate, error) {
	pairs, err := args.intArg("num_pi_pair")
	if err != nil {
		return nil, err
	}
	total, err := args.floatArg("total_duration_ns", 0)
	if err != nil {
		return nil, err
	}
	pulse, err := args.floatArg("single_pi_gate_duration_ns", DefaultPiPulseNs)
	if err != nil {
		return nil, err
	}
	axis, err := args.stringArg("pi_gate", "X")
	if err != nil {
		return nil, err
	}
	g, err := NewCPMG(pairs, total, pulse, axis)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func newXYFromArgs(args kwargs) (CustomGate, error) {
	pairs, err := args.intArg("num_xy_pair")
	if err != nil {
		return nil, err
	}
	total, err := args.floatArg("total_duration_ns", 0)
	if err != nil {
		return nil, err
	}
	pulse, err := args.floatArg("single_pi_gate_duration_ns", DefaultPiPulseNs)
	if err != nil {
		return nil, err
	}
	g, err := NewXY(pairs, total, pulse)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func newXYYXFromArgs(args kwargs) (CustomGate, error) {
	pairs, err := args.intArg("num_xyyx_pair")
	if err != nil {
		return nil, err
	}
	total, err := args.floatArg("total_duration_ns", 0)
	if err != nil {
		return nil, err
	}
	pulse, err := args.floatArg("single_pi_gate_duration_ns", DefaultPiPulseNs)
	if err != nil {
		return nil, err
	}
	g, err := NewXYYX(pairs, total, pulse)
	if err != nil {
		return nil, err
	}
	return g, nil
}
