package instrument

import (
	"sync"
	"time"
)

// Recorder captures note events with their offset from the start of the
// take. Key events may arrive on a different goroutine than the one
// driving Start/Stop, so every touch of the buffer and the active flag
// is serialized behind one mutex.
type Recorder struct {
	mu     sync.Mutex
	active bool
	start  time.Time
	take   Recording

	now func() time.Time // injectable for tests
}

// NewRecorder returns an inactive recorder with an empty take.
func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// Start begins a fresh take. Contract: starting while a take is already
// in progress silently discards the previous buffer — "start" always
// means "start over", never "resume".
func (r *Recorder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.now()
	r.take = Recording{CreatedAt: t}
	r.start = t
	r.active = true
}

// Record appends a note event stamped with the elapsed time since
// Start. A no-op while inactive: late key events after Stop (or before
// any Start) are dropped, never an error.
func (r *Recorder) Record(note string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return
	}
	// Microsecond resolution keeps the stored seconds representation
	// lossless while staying far below perceptible timing.
	r.take.Events = append(r.take.Events, NoteEvent{
		Note:   note,
		Offset: r.now().Sub(r.start).Round(time.Microsecond),
	})
}

// Stop ends the take and returns how many events it captured. The
// buffer is kept as the current take for playback or saving.
func (r *Recorder) Stop() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = false
	return len(r.take.Events)
}

// Active reports whether a take is in progress.
func (r *Recorder) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Take returns a read-only snapshot of the current take.
func (r *Recorder) Take() Recording {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.take.Clone()
}

// SetTake replaces the current take, e.g. after loading a stored
// recording for playback.
func (r *Recorder) SetTake(rec Recording) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = false
	r.take = rec.Clone()
}

// HasTake reports whether the current take contains any events.
func (r *Recorder) HasTake() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.take.Events) > 0
}
