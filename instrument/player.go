package instrument

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// TriggerPort is the boundary to the audio side: fire the sample for a
// note and return. Implementations must not block on audio rendering.
// A missing sample is a silent success at the port level; a returned
// error means the trigger itself failed and is worth logging.
type TriggerPort interface {
	Trigger(note string) error
}

// Player schedules recordings against wall-clock time.
type Player struct {
	log *zap.Logger
}

// NewPlayer creates a player. A nil logger disables logging.
func NewPlayer(log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	return &Player{log: log}
}

// Playback is the handle for one running playback.
type Playback struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Done is closed when playback finishes or is cancelled.
func (p *Playback) Done() <-chan struct{} { return p.done }

// Wait blocks until playback finishes or is cancelled.
func (p *Playback) Wait() { <-p.done }

// Cancel stops playback best-effort: no further notes are triggered,
// but a note already handed to the trigger port is not retracted.
// Safe to call more than once.
func (p *Playback) Cancel() { p.cancel() }

// Play replays the recording on its own goroutine, triggering each
// event at recording-start-relative wall-clock time. onNote, if not
// nil, is invoked after each successful trigger. The caller is never
// blocked; the returned handle reports completion and supports
// cancellation. An empty recording yields an already-completed handle.
//
// Events fire strictly in order. If one event's timer overruns, the
// wait before the next event shrinks or disappears — there is no
// catch-up beyond that. A trigger failure is logged and skips that
// event's callback, but never aborts the rest of the schedule.
func (p *Player) Play(rec Recording, port TriggerPort, onNote func(note string)) *Playback {
	ctx, cancel := context.WithCancel(context.Background())
	pb := &Playback{cancel: cancel, done: make(chan struct{})}

	if rec.Empty() {
		cancel()
		close(pb.done)
		return pb
	}

	go func() {
		defer close(pb.done)
		start := time.Now()
		for _, ev := range rec.Events {
			target := start.Add(ev.Offset)
			if wait := time.Until(target); wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-ctx.Done():
					timer.Stop()
					return
				case <-timer.C:
				}
			}
			// Cancellation is checked immediately before each trigger
			// so a late cancel never half-plays the next note.
			select {
			case <-ctx.Done():
				return
			default:
			}
			if err := port.Trigger(ev.Note); err != nil {
				p.log.Warn("trigger failed during playback",
					zap.String("note", ev.Note),
					zap.Duration("offset", ev.Offset),
					zap.Error(err))
				continue
			}
			if onNote != nil {
				onNote(ev.Note)
			}
		}
	}()

	return pb
}

// fanout lets several trigger ports back one instrument, e.g. samples
// plus a MIDI echo.
type fanout struct {
	ports []TriggerPort
}

// Fanout combines trigger ports into one. Each port is attempted even
// when an earlier one fails; the first error is returned.
func Fanout(ports ...TriggerPort) TriggerPort {
	return &fanout{ports: ports}
}

func (f *fanout) Trigger(note string) error {
	var first error
	for _, p := range f.ports {
		if err := p.Trigger(note); err != nil && first == nil {
			first = err
		}
	}
	return first
}

var _ TriggerPort = (*fanout)(nil)
