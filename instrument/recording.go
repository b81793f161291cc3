// Package instrument holds the core engine: the recording engine, the
// playback scheduler, the recording store, and the interaction state
// machine that routes input events between them.
package instrument

import "time"

// NoteEvent is one captured note: which note, and how long after the
// recording started it was played. Offsets are non-negative and
// non-decreasing across a recording (ties allowed for simultaneous
// notes). Immutable once appended.
type NoteEvent struct {
	Note   string
	Offset time.Duration
}

// Recording is an ordered sequence of note events plus the time the
// take was captured. Events are sorted by offset by construction and
// are never re-sorted.
type Recording struct {
	CreatedAt time.Time
	Events    []NoteEvent
}

// Empty reports whether the recording has no events.
func (r Recording) Empty() bool { return len(r.Events) == 0 }

// Clone returns a deep copy. Playback and persistence work on clones
// so the recorder's buffer stays the single-writer's property.
func (r Recording) Clone() Recording {
	out := Recording{CreatedAt: r.CreatedAt}
	if len(r.Events) > 0 {
		out.Events = make([]NoteEvent, len(r.Events))
		copy(out.Events, r.Events)
	}
	return out
}
