// Package tui renders the instrument and classifies raw key presses
// into the engine's input events. It is the only place that knows
// which key means what; the engine only ever sees classified events.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"sargam/instrument"
	"sargam/notes"
)

// Model is the bubbletea model wrapping the instrument.
type Model struct {
	inst     *instrument.Instrument
	width    int
	height   int
	quitting bool
}

// UpdateMsg tells the TUI the session context changed.
type UpdateMsg struct{}

// NewModel creates the TUI model around an instrument.
func NewModel(inst *instrument.Instrument) Model {
	return Model{inst: inst}
}

// ListenForUpdates relays engine-side changes (playback progress,
// status updates) into the bubbletea loop.
func ListenForUpdates(inst *instrument.Instrument) tea.Cmd {
	return func() tea.Msg {
		<-inst.UpdateChan
		return UpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.inst)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		ev, ok := classify(msg)
		if !ok {
			return m, nil
		}
		if quit := m.inst.Handle(ev); quit {
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case UpdateMsg:
		return m, ListenForUpdates(m.inst)
	}

	return m, nil
}

// classify maps a raw key press to an engine event. Note keys, digits,
// escape and space are disjoint classes; everything else is dropped
// here and never reaches the state machine.
func classify(msg tea.KeyMsg) (instrument.Event, bool) {
	key := msg.String()
	switch key {
	case "esc":
		return instrument.Event{Kind: instrument.EventEscape}, true
	case " ":
		return instrument.Event{Kind: instrument.EventStop}, true
	}
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		return instrument.Event{Kind: instrument.EventDigit, Digit: int(key[0] - '0')}, true
	}
	if n, ok := notes.ByKey(key); ok {
		return instrument.Event{Kind: instrument.EventNote, Note: n.ID}, true
	}
	return instrument.Event{}, false
}

func (m Model) View() string {
	if m.quitting {
		return "Thank you for playing!\n"
	}
	return render(m.inst.Session(), m.width)
}
