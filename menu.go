package main

import (
	"fmt"
	"strings"
)

// ddVariant selects a decoupling sequence family for menu items that place
// custom gates.
type ddVariant int

const (
	ddNone ddVariant = iota
	ddCPMGX
	ddCPMGY
	ddXY
	ddXYYX
)

// menuItem represents a single gate choice in the menu.
type menuItem struct {
	name        string
	kind        GateKind
	dd          ddVariant
	noise       string
	symbol      string
	needsTarget bool
	needsParams bool
	paramHint   string
}

// menuCategory groups related menu items under a tab.
type menuCategory struct {
	name  string
	items []menuItem
}

// gateMenu defines the gate picker categories and items. The "No Opcode"
// tab places gates outside the QCIS table on purpose, to show how the
// converter reports them.
var gateMenu = []menuCategory{
	{
		name: "Half Pi",
		items: []menuItem{
			{name: "+90° X", kind: GateX2P, symbol: "X2P"},
			{name: "-90° X", kind: GateX2M, symbol: "X2M"},
			{name: "+90° Y", kind: GateY2P, symbol: "Y2P"},
			{name: "-90° Y", kind: GateY2M, symbol: "Y2M"},
		},
	},
	{
		name: "Pi",
		items: []menuItem{
			{name: "Pauli-X", kind: GateX, symbol: "X"},
			{name: "Pauli-Y", kind: GateY, symbol: "Y"},
		},
	},
	{
		name: "Two Qubit",
		items: []menuItem{
			{name: "Controlled-Z", kind: GateCZ, symbol: "●─●", needsTarget: true},
		},
	},
	{
		name: "Measure",
		items: []menuItem{
			{name: "Measure", kind: GateMeasure, symbol: "M"},
		},
	},
	{
		name: "Decoupling",
		items: []menuItem{
			{name: "CPMG (X)", dd: ddCPMGX, symbol: "DD", needsParams: true, paramHint: "pairs,total_ns"},
			{name: "CPMG (Y)", dd: ddCPMGY, symbol: "DD", needsParams: true, paramHint: "pairs,total_ns"},
			{name: "XY", dd: ddXY, symbol: "DD", needsParams: true, paramHint: "pairs,total_ns"},
			{name: "XYYX", dd: ddXYYX, symbol: "DD", needsParams: true, paramHint: "pairs,total_ns"},
		},
	},
	{
		name: "No Opcode",
		items: []menuItem{
			{name: "Hadamard", kind: GateH, symbol: "H"},
			{name: "Pauli-Z", kind: GateZ, symbol: "Z"},
			{name: "Phase (S)", kind: GateS, symbol: "S"},
			{name: "T Gate", kind: GateT, symbol: "T"},
			{name: "CNOT", kind: GateCNOT, symbol: "●─⊕", needsTarget: true},
			{name: "SWAP", kind: GateSWAP, symbol: "×─×", needsTarget: true},
		},
	},
	{
		name: "Noise",
		items: []menuItem{
			{name: "Depolarizing", noise: "depolarizing", symbol: "N"},
			{name: "Amplitude Damping", noise: "amplitude_damping", symbol: "N"},
			{name: "Phase Damping", noise: "phase_damping", symbol: "N"},
		},
	},
}

// renderMenu renders the floating gate-picker popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Add Gate"))
	sb.WriteString("\n")

	// Category tabs
	for i, cat := range gateMenu {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(activeGateStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(gateMenu)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 52)))
	sb.WriteString("\n")

	// Items in the selected category
	cat := gateMenu[m.menuCat]
	for i, item := range cat.items {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-18s", item.name)))
			sb.WriteString(gateStyle.Render(item.symbol))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-18s", item.name)))
			sb.WriteString(dimStyle.Render(item.symbol))
		}
		if item.needsTarget {
			sb.WriteString(dimStyle.Render(" →target"))
		}
		if item.needsParams {
			sb.WriteString(dimStyle.Render(fmt.Sprintf(" (%s)", item.paramHint)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Cat  ⏎ Ok  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
