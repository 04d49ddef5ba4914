package main

import "strings"

// Markers delimiting a custom-gate block in QCIS text. The comments between
// them carry enough information to rebuild the gate on the way back.
const (
	contextStart = "# CIRQ_CONTEXT_START"
	contextEnd   = "# CIRQ_CONTEXT_END"
)

// wrapContext frames custom-gate output with the context markers and the
// descriptor/target metadata the reverse translator reads.
func wrapContext(gate CustomGate, targets []string, body string) string {
	quoted := make([]string, len(targets))
	for i, t := range targets {
		quoted[i] = "'" + t + "'"
	}
	return strings.Join([]string{
		contextStart,
		"# Gate: " + gate.Descriptor(),
		"# Targets: [" + strings.Join(quoted, ", ") + "]",
		body,
		contextEnd,
	}, "\n")
}
