package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusQCIS
	focusMenu
	focusSelectTarget
	focusInputParam
)

// Model represents the TUI application state.
type Model struct {
	deck          *Deck // single source of truth for both panels
	cursorQubit   int
	cursorStep    int
	viewStartStep int
	width         int
	height        int
	qcisEditor    textarea.Model
	focus         focus
	lastQCIS      string
	statusMsg     string // transient status message (errors, save confirmation)

	// Menu state
	menuCat  int
	menuItem int

	// Pending placement state
	pending     menuItem
	targetQubit int
	paramInput  string
}

func initialModel() Model {
	ta := textarea.New()
	ta.Placeholder = "Edit QCIS here..."
	ta.SetWidth(40)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true
	ta.KeyMap.InsertNewline.SetEnabled(true)

	m := Model{
		deck:  NewDeck(4),
		focus: focusCircuit,
	}
	m.qcisEditor = ta
	m.syncFromDeck()
	return m
}

// syncFromDeck refreshes the QCIS panel from the deck. Conversion failures
// (e.g. a placed gate with no opcode) stay visible in the status line while
// the panel keeps the last good text.
func (m *Model) syncFromDeck() {
	qcis, err := m.deck.ToQCIS()
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.qcisEditor.SetValue(qcis)
	m.lastQCIS = qcis
}

func (m *Model) parseQCISInput() {
	qcis := m.qcisEditor.Value()
	if qcis == m.lastQCIS {
		return
	}
	deck := NewDeck(m.deck.NumQubits)
	if err := deck.SetFromQCIS(qcis); err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.deck = deck
	m.lastQCIS = qcis
}

// parseDDParams parses the "pairs,total_ns" parameter input.
func parseDDParams(input string) (int, float64, error) {
	parts := strings.Split(input, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected pairs,total_ns, got %q", input)
	}
	pairs, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	total, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, err
	}
	return pairs, total, nil
}

func buildDDGate(variant ddVariant, pairs int, totalNs float64) (CustomGate, error) {
	switch variant {
	case ddCPMGX:
		g, err := NewCPMG(pairs, totalNs, DefaultPiPulseNs, "X")
		return g, err
	case ddCPMGY:
		g, err := NewCPMG(pairs, totalNs, DefaultPiPulseNs, "Y")
		return g, err
	case ddXY:
		g, err := NewXY(pairs, totalNs, DefaultPiPulseNs)
		return g, err
	case ddXYYX:
		g, err := NewXYYX(pairs, totalNs, DefaultPiPulseNs)
		return g, err
	}
	return nil, fmt.Errorf("unknown decoupling variant %d", variant)
}

// placeGate places the pending gate at the cursor position. targetQ is the
// second qubit for two-qubit gates (-1 otherwise). Returns false when the
// placement is blocked or the parameters are invalid.
func (m *Model) placeGate(item menuItem, targetQ int) bool {
	cursor := m.deck.QubitAt(m.cursorQubit)

	var op Operation
	switch {
	case item.dd != ddNone:
		pairs, total, err := parseDDParams(m.paramInput)
		if err != nil {
			m.statusMsg = err.Error()
			return false
		}
		gate, err := buildDDGate(item.dd, pairs, total)
		if err != nil {
			m.statusMsg = err.Error()
			return false
		}
		op = CustomOp(gate, cursor)
	case item.noise != "":
		op = NoiseOp(item.noise, cursor)
	case item.needsTarget:
		op = GateOp(item.kind, cursor, m.deck.QubitAt(targetQ))
	default:
		op = GateOp(item.kind, cursor)
	}

	if !m.deck.Place(m.cursorStep, op) {
		m.statusMsg = "Cannot place: qubit already used by another gate at this step"
		m.paramInput = ""
		return false
	}

	m.paramInput = ""
	m.cursorStep++
	m.syncFromDeck()
	return true
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		qcisW := max(msg.Width/3-6, 20)
		m.qcisEditor.SetWidth(qcisW)
		ctrlH := 6
		circH := msg.Height - ctrlH - 4
		editorH := max(circH-8, 4)
		m.qcisEditor.SetHeight(editorH)

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusQCIS
				m.qcisEditor.Focus()
			case "ctrl+r":
				m.deck.Reset()
				m.cursorStep = 0
				m.viewStartStep = 0
				m.syncFromDeck()
			case "ctrl+s":
				qcis, err := m.deck.ToQCIS()
				if err != nil {
					m.statusMsg = fmt.Sprintf("Save error: %v", err)
					break
				}
				if err := os.WriteFile("circuit.qcis", []byte(qcis), 0644); err != nil {
					m.statusMsg = fmt.Sprintf("Save error: %v", err)
				} else {
					m.statusMsg = "Saved circuit.qcis"
				}
			case "up", "k":
				if m.cursorQubit > 0 {
					m.cursorQubit--
				}
			case "down", "j":
				if m.cursorQubit < m.deck.NumQubits-1 {
					m.cursorQubit++
				}
			case "left", "h":
				if m.cursorStep > 0 {
					m.cursorStep--
					if m.cursorStep < m.viewStartStep {
						m.viewStartStep = m.cursorStep
					}
				}
			case "right", "l":
				// One step past the last occupied moment stays reachable so
				// new steps can be appended.
				if m.cursorStep < m.deck.MaxSteps() {
					m.cursorStep++
				}
			case "+", "=":
				m.deck.NumQubits++
				m.syncFromDeck()
			case "-":
				if m.deck.NumQubits > 1 {
					m.deck.NumQubits--
					m.cursorQubit = min(m.cursorQubit, m.deck.NumQubits-1)
					m.deck.RemoveQubit(m.deck.NumQubits)
					m.syncFromDeck()
				}
			case "a":
				m.focus = focusMenu
				m.menuCat = 0
				m.menuItem = 0
			case "backspace", "delete":
				m.deck.RemoveAt(m.cursorStep, m.cursorQubit)
				m.syncFromDeck()
			}

		case focusMenu:
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				cat := gateMenu[m.menuCat]
				if m.menuItem < len(cat.items)-1 {
					m.menuItem++
				}
			case "left", "h":
				if m.menuCat > 0 {
					m.menuCat--
					m.menuItem = 0
				}
			case "right", "l":
				if m.menuCat < len(gateMenu)-1 {
					m.menuCat++
					m.menuItem = 0
				}
			case "enter":
				item := gateMenu[m.menuCat].items[m.menuItem]
				m.pending = item

				if item.needsParams {
					m.paramInput = ""
					m.focus = focusInputParam
					break
				}

				if item.needsTarget {
					if m.deck.NumQubits < 2 {
						break
					}
					m.focus = focusSelectTarget
					m.targetQubit = m.cursorQubit + 1
					if m.targetQubit >= m.deck.NumQubits {
						m.targetQubit = m.cursorQubit - 1
					}
				} else {
					if m.placeGate(item, -1) {
						m.focus = focusCircuit
					}
				}
			}

		case focusSelectTarget:
			switch key {
			case "esc":
				m.focus = focusCircuit
				m.paramInput = ""
			case "up", "k":
				if m.targetQubit-1 >= 0 {
					m.targetQubit--
					if m.targetQubit == m.cursorQubit && m.targetQubit > 0 {
						m.targetQubit--
					}
				}
			case "down", "j":
				if m.targetQubit+1 < m.deck.NumQubits {
					m.targetQubit++
					if m.targetQubit == m.cursorQubit && m.targetQubit+1 < m.deck.NumQubits {
						m.targetQubit++
					}
				}
			case "enter":
				if m.targetQubit != m.cursorQubit && m.placeGate(m.pending, m.targetQubit) {
					m.focus = focusCircuit
				}
			}

		case focusInputParam:
			switch key {
			case "esc":
				m.focus = focusCircuit
				m.paramInput = ""
			case "backspace":
				if len(m.paramInput) > 0 {
					m.paramInput = m.paramInput[:len(m.paramInput)-1]
				}
			case "enter":
				if m.placeGate(m.pending, -1) {
					m.focus = focusCircuit
				}
			default:
				if len(key) == 1 {
					ch := key[0]
					if (ch >= '0' && ch <= '9') || ch == '.' || ch == ',' || ch == '-' {
						m.paramInput += key
					}
				}
			}

		case focusQCIS:
			switch key {
			case "tab":
				m.focus = focusCircuit
				m.qcisEditor.Blur()
			default:
				var cmd tea.Cmd
				m.qcisEditor, cmd = m.qcisEditor.Update(msg)
				cmds = append(cmds, cmd)
				m.parseQCISInput()
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	qcisWidth := m.width / 3
	circuitWidth := m.width - qcisWidth - 4
	controlsHeight := 6
	circuitHeight := max(m.height-controlsHeight-2, 6)

	circuitPanel := m.renderCircuitPanel(circuitWidth, circuitHeight)
	qcisPanel := m.renderQCISPanel(qcisWidth, circuitHeight)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, qcisPanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	if m.focus == focusMenu {
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	}
	if m.focus == focusInputParam {
		frame = overlayAt(frame, m.renderParamInput(), 2, 2)
	}

	return frame
}

// renderParamInput renders the decoupling parameter input overlay.
func (m Model) renderParamInput() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Decoupling Parameters"))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("pairs,total_ns: %s_", m.paramInput))
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("Example: 2,1000 → 100ns edge idles at 50ns pulses"))
	return menuBorderStyle.Render(sb.String())
}
