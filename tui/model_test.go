package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"sargam/instrument"
)

func runes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestClassifyNoteKeys(t *testing.T) {
	ev, ok := classify(runes('a'))
	if !ok || ev.Kind != instrument.EventNote || ev.Note != "sa" {
		t.Fatalf("classify(a) = %+v, %v; want NoteKey(sa)", ev, ok)
	}
	ev, ok = classify(runes('k'))
	if !ok || ev.Note != "sa_high" {
		t.Fatalf("classify(k) = %+v, %v; want NoteKey(sa_high)", ev, ok)
	}
}

func TestClassifyDigits(t *testing.T) {
	for d := '1'; d <= '9'; d++ {
		ev, ok := classify(runes(d))
		if !ok || ev.Kind != instrument.EventDigit || ev.Digit != int(d-'0') {
			t.Fatalf("classify(%c) = %+v, %v", d, ev, ok)
		}
	}
	// 0 is not a selection key.
	if _, ok := classify(runes('0')); ok {
		t.Fatal("classify(0) should not produce an event")
	}
}

func TestClassifyControlKeys(t *testing.T) {
	ev, ok := classify(tea.KeyMsg{Type: tea.KeyEscape})
	if !ok || ev.Kind != instrument.EventEscape {
		t.Fatalf("classify(esc) = %+v, %v", ev, ok)
	}
	ev, ok = classify(tea.KeyMsg{Type: tea.KeySpace})
	if !ok || ev.Kind != instrument.EventStop {
		t.Fatalf("classify(space) = %+v, %v", ev, ok)
	}
}

func TestClassifyDropsUnboundKeys(t *testing.T) {
	for _, r := range []rune{'z', 'q', 'x'} {
		if ev, ok := classify(runes(r)); ok {
			t.Fatalf("classify(%c) = %+v, want dropped", r, ev)
		}
	}
}
