package instrument

import (
	"fmt"
	"sync"
)

// Mode is the exclusive interaction state. Exactly one mode is active
// at any time; it decides how input events are interpreted.
type Mode int

const (
	ModeMenu Mode = iota
	ModeLivePlay
	ModeRecording
	ModePlayback
	ModeSelectRecording
)

func (m Mode) String() string {
	switch m {
	case ModeMenu:
		return "menu"
	case ModeLivePlay:
		return "live"
	case ModeRecording:
		return "recording"
	case ModePlayback:
		return "playback"
	case ModeSelectRecording:
		return "select"
	}
	return "unknown"
}

// EventKind classifies input events. The input adapter owns raw
// key-code mapping; the machine only ever sees these classes.
type EventKind int

const (
	EventNote   EventKind = iota // a note key, carries Note
	EventDigit                   // a numeric key 1..9, carries Digit
	EventEscape                  // return to menu
	EventStop                    // stop recording
)

// Event is one classified input event.
type Event struct {
	Kind  EventKind
	Note  string
	Digit int
}

// EffectKind enumerates the side effects a transition requests. The
// machine never performs I/O itself; it returns effects for the
// controller to execute, which keeps the transition table testable
// without audio or timers.
type EffectKind int

const (
	EffectTrigger EffectKind = iota // play Note now
	EffectRecord                    // append Note to the active take
	EffectStartRecording
	EffectStopRecording // Discard tells cancel from stop apart
	EffectPlayTake      // play the current take
	EffectSaveTake      // persist the current take
	EffectLoadAndPlay   // load stored recording Name, then play it
	EffectStopPlayback
	EffectExit
)

// Effect is one requested side effect.
type Effect struct {
	Kind    EffectKind
	Note    string
	Name    string
	Discard bool
}

// SessionContext is the machine's full state as seen by the renderer.
// Single writer (the machine); readers get copies via Snapshot.
type SessionContext struct {
	Mode       Mode
	LastNote   string
	Status     string
	Recordings []string // populated while selecting a stored recording
}

// Machine is the interaction state machine. Guards that depend on
// engine state are injected as query hooks so transitions stay
// decoupled from the components they steer.
type Machine struct {
	mu  sync.RWMutex
	ctx SessionContext

	hasTake     func() bool     // current take non-empty?
	storedNames func() []string // stored recording names
}

// NewMachine creates a machine in Menu mode. hasTake and storedNames
// back the menu guards and may not be nil.
func NewMachine(hasTake func() bool, storedNames func() []string) *Machine {
	return &Machine{
		ctx: SessionContext{
			Mode:   ModeMenu,
			Status: "Welcome to the sargam instrument",
		},
		hasTake:     hasTake,
		storedNames: storedNames,
	}
}

// Snapshot returns a copy of the session context for the renderer.
func (m *Machine) Snapshot() SessionContext {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := m.ctx
	if len(m.ctx.Recordings) > 0 {
		out.Recordings = make([]string, len(m.ctx.Recordings))
		copy(out.Recordings, m.ctx.Recordings)
	}
	return out
}

// SetStatus updates the status line, e.g. with the outcome of an
// executed effect.
func (m *Machine) SetStatus(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctx.Status = status
}

// SetLastNote records the most recently sounded note for display.
func (m *Machine) SetLastNote(note string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctx.LastNote = note
}

// LoadFailed reverts an optimistic SelectRecording→Playback transition
// after the load could not deliver a recording.
func (m *Machine) LoadFailed(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctx.Mode == ModePlayback {
		m.ctx.Mode = ModeSelectRecording
	}
	m.ctx.Status = status
}

// Dispatch applies one classified input event, updates the session
// context, and returns the side effects the transition requests.
func (m *Machine) Dispatch(ev Event) []Effect {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch ev.Kind {
	case EventNote:
		return m.onNote(ev.Note)
	case EventDigit:
		return m.onDigit(ev.Digit)
	case EventEscape:
		return m.onEscape()
	case EventStop:
		return m.onStop()
	}
	return nil
}

// onNote: in every non-menu mode a note key sounds the note; while
// recording it is captured too. In the menu, note keys are ignored.
func (m *Machine) onNote(note string) []Effect {
	if m.ctx.Mode == ModeMenu {
		return nil
	}
	m.ctx.LastNote = note
	effects := []Effect{{Kind: EffectTrigger, Note: note}}
	if m.ctx.Mode == ModeRecording {
		effects = append(effects, Effect{Kind: EffectRecord, Note: note})
	}
	return effects
}

func (m *Machine) onDigit(d int) []Effect {
	switch m.ctx.Mode {
	case ModeMenu:
		return m.onMenuSelect(d)
	case ModeSelectRecording:
		return m.onRecordingSelect(d)
	}
	return nil
}

func (m *Machine) onMenuSelect(d int) []Effect {
	switch d {
	case 1:
		m.ctx.Mode = ModeLivePlay
		m.ctx.Status = "Live play mode activated"
		return nil
	case 2:
		m.ctx.Mode = ModeRecording
		m.ctx.Status = "Recording started"
		return []Effect{{Kind: EffectStartRecording}}
	case 3:
		if !m.hasTake() {
			m.ctx.Status = "No recording available to play"
			return nil
		}
		m.ctx.Mode = ModePlayback
		m.ctx.Status = "Playing back last recording..."
		return []Effect{{Kind: EffectPlayTake}}
	case 4:
		if !m.hasTake() {
			m.ctx.Status = "No recording to save"
			return nil
		}
		return []Effect{{Kind: EffectSaveTake}}
	case 5:
		names := m.storedNames()
		if len(names) == 0 {
			m.ctx.Status = "No recordings found"
			return nil
		}
		m.ctx.Recordings = names
		m.ctx.Mode = ModeSelectRecording
		m.ctx.Status = "Select a recording to load and play"
		return nil
	case 6:
		return []Effect{{Kind: EffectExit}}
	}
	return nil
}

func (m *Machine) onRecordingSelect(d int) []Effect {
	if d < 1 || d > len(m.ctx.Recordings) {
		m.ctx.Status = "Invalid selection"
		return nil
	}
	name := m.ctx.Recordings[d-1]
	m.ctx.Mode = ModePlayback
	m.ctx.Status = fmt.Sprintf("Loaded and playing: %s", name)
	return []Effect{{Kind: EffectLoadAndPlay, Name: name}}
}

func (m *Machine) onEscape() []Effect {
	if m.ctx.Mode == ModeMenu {
		return nil
	}
	var effects []Effect
	switch m.ctx.Mode {
	case ModeRecording:
		m.ctx.Status = "Recording cancelled"
		effects = append(effects, Effect{Kind: EffectStopRecording, Discard: true})
	case ModePlayback:
		m.ctx.Status = "Returned to main menu"
		effects = append(effects, Effect{Kind: EffectStopPlayback})
	default:
		m.ctx.Status = "Returned to main menu"
	}
	m.ctx.Mode = ModeMenu
	m.ctx.Recordings = nil
	return effects
}

func (m *Machine) onStop() []Effect {
	if m.ctx.Mode != ModeRecording {
		return nil
	}
	m.ctx.Mode = ModeMenu
	return []Effect{{Kind: EffectStopRecording}}
}
