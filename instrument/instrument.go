package instrument

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Instrument wires the machine, recorder, player, store and trigger
// port together. It executes the effects the machine's dispatch
// returns, converts every component failure into a status message, and
// notifies the renderer through UpdateChan. Nothing in here blocks the
// caller: playback and triggers run on their own goroutines.
type Instrument struct {
	machine  *Machine
	recorder *Recorder
	player   *Player
	store    *Store
	port     TriggerPort
	log      *zap.Logger

	mu       sync.Mutex
	playback *Playback

	// UpdateChan receives a token whenever the session context may have
	// changed. Buffered; drops when the renderer is already pending.
	UpdateChan chan struct{}
}

// New assembles an instrument around a trigger port and a recording
// store. A nil logger disables logging.
func New(port TriggerPort, store *Store, log *zap.Logger) *Instrument {
	if log == nil {
		log = zap.NewNop()
	}
	inst := &Instrument{
		recorder:   NewRecorder(),
		player:     NewPlayer(log),
		store:      store,
		port:       port,
		log:        log,
		UpdateChan: make(chan struct{}, 1),
	}
	inst.machine = NewMachine(inst.recorder.HasTake, store.ListNames)
	return inst
}

// Session returns a snapshot of the session context for rendering.
func (in *Instrument) Session() SessionContext {
	return in.machine.Snapshot()
}

// Handle dispatches one classified input event and executes the
// resulting effects. It reports whether the user asked to exit.
func (in *Instrument) Handle(ev Event) (quit bool) {
	effects := in.machine.Dispatch(ev)
	for _, ef := range effects {
		if in.apply(ef) {
			quit = true
		}
	}
	in.notifyUpdate()
	return quit
}

func (in *Instrument) apply(ef Effect) (quit bool) {
	switch ef.Kind {
	case EffectTrigger:
		in.trigger(ef.Note)

	case EffectRecord:
		in.recorder.Record(ef.Note)

	case EffectStartRecording:
		// A fresh take invalidates whatever is currently playing.
		in.cancelPlayback()
		in.recorder.Start()
		in.log.Info("recording started")

	case EffectStopRecording:
		n := in.recorder.Stop()
		if ef.Discard {
			in.log.Info("recording cancelled", zap.Int("events", n))
		} else {
			in.machine.SetStatus(fmt.Sprintf("Recording stopped. Captured %d notes.", n))
			in.log.Info("recording stopped", zap.Int("events", n))
		}

	case EffectPlayTake:
		in.startPlayback(in.recorder.Take())

	case EffectSaveTake:
		in.saveTake()

	case EffectLoadAndPlay:
		in.loadAndPlay(ef.Name)

	case EffectStopPlayback:
		in.cancelPlayback()

	case EffectExit:
		in.cancelPlayback()
		if in.recorder.Active() {
			in.recorder.Stop()
		}
		return true
	}
	return false
}

// trigger sounds a note. Trigger failures never reach the user as
// anything but a log line; live play continues.
func (in *Instrument) trigger(note string) {
	if err := in.port.Trigger(note); err != nil {
		in.log.Warn("trigger failed", zap.String("note", note), zap.Error(err))
	}
}

func (in *Instrument) startPlayback(rec Recording) {
	in.cancelPlayback()

	pb := in.player.Play(rec, in.port, func(note string) {
		in.machine.SetLastNote(note)
		in.notifyUpdate()
	})

	in.mu.Lock()
	in.playback = pb
	in.mu.Unlock()

	go func() {
		<-pb.Done()
		// Only a natural finish reports; a cancelled playback has
		// already been detached and its successor owns the status line.
		in.mu.Lock()
		finished := in.playback == pb
		if finished {
			in.playback = nil
		}
		in.mu.Unlock()
		if finished {
			in.machine.SetStatus("Playback finished")
			in.notifyUpdate()
		}
	}()
}

func (in *Instrument) cancelPlayback() {
	in.mu.Lock()
	pb := in.playback
	in.playback = nil
	in.mu.Unlock()
	if pb != nil {
		pb.Cancel()
	}
}

func (in *Instrument) saveTake() {
	name := fmt.Sprintf("recording_%s", time.Now().Format("20060102_150405"))
	if err := in.store.Save(in.recorder.Take(), name); err != nil {
		in.machine.SetStatus("Failed to save recording")
		in.log.Error("save failed", zap.String("name", name), zap.Error(err))
		return
	}
	in.machine.SetStatus(fmt.Sprintf("Recording saved as %s.json", name))
	in.log.Info("recording saved", zap.String("name", name))
}

func (in *Instrument) loadAndPlay(name string) {
	rec, err := in.store.Load(name)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			in.machine.LoadFailed(fmt.Sprintf("Recording %q not found", name))
		case errors.Is(err, ErrMalformed):
			in.machine.LoadFailed(fmt.Sprintf("Recording %q is malformed", name))
		default:
			in.machine.LoadFailed("Failed to load recording")
		}
		in.log.Error("load failed", zap.String("name", name), zap.Error(err))
		return
	}
	// The loaded recording becomes the current take, so "play last
	// recording" and "save" now refer to it.
	in.recorder.SetTake(rec)
	in.startPlayback(rec)
}

func (in *Instrument) notifyUpdate() {
	select {
	case in.UpdateChan <- struct{}{}:
	default:
	}
}
