package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/resource-pool/engine"
	"github.com/wippyai/resource-pool/handle"
	"github.com/wippyai/resource-pool/namehash"
	"github.com/wippyai/resource-pool/resource"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	statStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateKinds modelState = iota
	stateHandles
	stateInputName
)

type inspectorModel struct {
	err     error
	dev     *engine.Device
	pools   []resource.Pooler
	names   map[uint32]string
	status  string
	handles []handle.Handle
	input   textinput.Model
	kind    int
	cursor  int
	state   modelState
}

func newInspectorModel(dev *engine.Device) *inspectorModel {
	ti := textinput.New()
	ti.Placeholder = "name"
	ti.Prompt = "name: "
	ti.CharLimit = 128

	m := &inspectorModel{
		dev:   dev,
		pools: dev.Registry().Pools(),
		names: make(map[uint32]string),
		input: ti,
	}
	m.refresh()
	return m
}

func (m *inspectorModel) Init() tea.Cmd {
	return nil
}

func (m *inspectorModel) pool() resource.Pooler {
	if m.kind < 0 || m.kind >= len(m.pools) {
		return nil
	}
	return m.pools[m.kind]
}

func (m *inspectorModel) refresh() {
	p := m.pool()
	if p == nil {
		m.handles = nil
		return
	}
	m.handles = p.LiveHandles()
	if m.cursor >= len(m.handles) {
		m.cursor = len(m.handles) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *inspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.state == stateInputName {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.input.Blur()
			m.state = stateKinds
			return m, nil
		case "enter":
			m.allocateNamed(strings.TrimSpace(m.input.Value()))
			m.input.Blur()
			m.state = stateHandles
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.state == stateKinds && m.kind > 0 {
			m.kind--
			m.cursor = 0
		} else if m.state == stateHandles && m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.state == stateKinds && m.kind < len(m.pools)-1 {
			m.kind++
			m.cursor = 0
		} else if m.state == stateHandles && m.cursor < len(m.handles)-1 {
			m.cursor++
		}

	case "tab", "enter":
		if m.state == stateKinds {
			m.state = stateHandles
		} else {
			m.state = stateKinds
		}

	case "esc":
		m.state = stateKinds

	case "n":
		m.input.SetValue("")
		m.input.Focus()
		m.state = stateInputName
		m.status, m.err = "", nil
		return m, textinput.Blink

	case "d":
		m.destroySelected()

	case "p":
		if p := m.pool(); p != nil {
			n := p.Purge()
			m.status, m.err = fmt.Sprintf("purged %d %s handles", n, p.Kind()), nil
		}
	}

	m.refresh()
	return m, nil
}

func (m *inspectorModel) allocateNamed(name string) {
	p := m.pool()
	if p == nil || name == "" {
		return
	}
	key := namehash.String(name)
	h, err := p.AllocateNamed(key)
	if err != nil {
		m.status, m.err = "", err
		return
	}
	m.names[key] = name
	m.status, m.err = fmt.Sprintf("%s %q -> %v", p.Kind(), name, h), nil
	m.refresh()
	for i, live := range m.handles {
		if live == h {
			m.cursor = i
		}
	}
}

func (m *inspectorModel) destroySelected() {
	p := m.pool()
	if p == nil || m.state != stateHandles || len(m.handles) == 0 {
		return
	}
	h := m.handles[m.cursor]
	if err := p.DestroyHandle(h); err != nil {
		m.status, m.err = "", err
		return
	}
	m.status, m.err = fmt.Sprintf("destroyed %s %v", p.Kind(), h), nil
}

func (m *inspectorModel) label(p resource.Pooler, h handle.Handle) string {
	key, ok := p.NameOf(h)
	if !ok {
		return h.String()
	}
	if name, ok := m.names[key]; ok {
		return fmt.Sprintf("%v %q", h, name)
	}
	return fmt.Sprintf("%v #%08x", h, key)
}

func (m *inspectorModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Pool Inspector"))
	b.WriteString(" ")
	b.WriteString(m.dev.ID().String())
	b.WriteString("\n\n")

	stats := engine.Stats(m.dev.Registry())
	for i, s := range stats {
		line := fmt.Sprintf("%-16s %s", kindStyle.Render(s.Kind),
			statStyle.Render(fmt.Sprintf("%d/%d  %s", s.Count, s.Cap, s.FootprintString())))
		if i == m.kind {
			if m.state == stateKinds {
				b.WriteString(selectedStyle.Render("> " + s.Kind))
				b.WriteString(" " + statStyle.Render(fmt.Sprintf("%d/%d  %s", s.Count, s.Cap, s.FootprintString())))
			} else {
				b.WriteString("> " + line)
			}
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if p := m.pool(); p != nil {
		b.WriteString(fmt.Sprintf("Live %s handles:\n\n", kindStyle.Render(p.Kind())))
		if len(m.handles) == 0 {
			b.WriteString(helpStyle.Render("  (none)"))
			b.WriteString("\n")
		}
		for i, h := range m.handles {
			text := m.label(p, h)
			if m.state == stateHandles && i == m.cursor {
				b.WriteString(selectedStyle.Render("> " + text))
			} else {
				b.WriteString("  " + text)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.state == stateInputName {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	} else if m.status != "" {
		b.WriteString(resultStyle.Render(m.status))
		b.WriteString("\n\n")
	}

	switch m.state {
	case stateInputName:
		b.WriteString(helpStyle.Render("enter allocate • esc cancel"))
	default:
		b.WriteString(helpStyle.Render("↑/↓ select • tab switch list • n name • d destroy • p purge • q quit"))
	}

	return b.String()
}

func runInteractive(dev *engine.Device) error {
	p := tea.NewProgram(newInspectorModel(dev), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
