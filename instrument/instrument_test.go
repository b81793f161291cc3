package instrument

import (
	"os"
	"testing"
	"time"
)

func newTestInstrument(t *testing.T) (*Instrument, *recordingPort) {
	t.Helper()
	port := &recordingPort{}
	return New(port, NewStore(t.TempDir()), nil), port
}

func drainUpdates(in *Instrument) {
	for {
		select {
		case <-in.UpdateChan:
		default:
			return
		}
	}
}

func TestLivePlayFlow(t *testing.T) {
	in, port := newTestInstrument(t)

	in.Handle(digitEv(1))
	in.Handle(noteEv("sa"))
	in.Handle(noteEv("pa"))

	got := port.triggered()
	if len(got) != 2 || got[0] != "sa" || got[1] != "pa" {
		t.Fatalf("triggered %v, want [sa pa]", got)
	}
	snap := in.Session()
	if snap.Mode != ModeLivePlay || snap.LastNote != "pa" {
		t.Fatalf("session = %+v", snap)
	}
}

func TestRecordSaveLoadPlayFlow(t *testing.T) {
	in, port := newTestInstrument(t)

	in.Handle(digitEv(2)) // start recording
	in.Handle(noteEv("sa"))
	time.Sleep(20 * time.Millisecond)
	in.Handle(noteEv("re"))
	in.Handle(Event{Kind: EventStop})

	snap := in.Session()
	if snap.Mode != ModeMenu {
		t.Fatalf("mode after stop = %v, want menu", snap.Mode)
	}
	if snap.Status != "Recording stopped. Captured 2 notes." {
		t.Fatalf("status = %q", snap.Status)
	}

	in.Handle(digitEv(4)) // save
	names := in.store.ListNames()
	if len(names) != 1 {
		t.Fatalf("stored names = %v, want one generated name", names)
	}

	in.Handle(digitEv(5)) // select stored recording
	if got := in.Session().Mode; got != ModeSelectRecording {
		t.Fatalf("mode = %v, want select", got)
	}
	drainUpdates(in)
	in.Handle(digitEv(1)) // load and play "recording_..."

	// Both recorded notes replay through the same port.
	deadline := time.After(2 * time.Second)
	for {
		if len(port.triggered()) >= 4 { // 2 live + 2 replayed
			break
		}
		select {
		case <-deadline:
			t.Fatalf("playback incomplete, triggered %v", port.triggered())
		case <-in.UpdateChan:
		case <-time.After(10 * time.Millisecond):
		}
	}
	got := port.triggered()
	if got[2] != "sa" || got[3] != "re" {
		t.Fatalf("replayed %v, want [... sa re]", got[2:])
	}
}

func TestRestartRecordingDropsPreviousTake(t *testing.T) {
	in, _ := newTestInstrument(t)

	in.Handle(digitEv(2))
	in.Handle(noteEv("sa"))
	in.Handle(Event{Kind: EventStop})

	in.Handle(digitEv(2)) // fresh take replaces the old buffer
	in.Handle(noteEv("ga"))
	in.Handle(Event{Kind: EventStop})
	in.Handle(digitEv(4))

	names := in.store.ListNames()
	if len(names) != 1 {
		t.Fatalf("stored names = %v", names)
	}
	rec, err := in.store.Load(names[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Events) != 1 || rec.Events[0].Note != "ga" {
		t.Fatalf("second take leaked earlier events: %+v", rec.Events)
	}
}

func TestEscapeCancelsPlayback(t *testing.T) {
	in, port := newTestInstrument(t)

	in.recorder.SetTake(Recording{
		CreatedAt: time.Now(),
		Events: []NoteEvent{
			{Note: "sa", Offset: 0},
			{Note: "re", Offset: 500 * time.Millisecond},
		},
	})

	in.Handle(digitEv(3)) // play current take
	time.Sleep(50 * time.Millisecond)
	in.Handle(Event{Kind: EventEscape})

	in.mu.Lock()
	pending := in.playback
	in.mu.Unlock()
	if pending != nil {
		t.Fatal("escape left a playback handle behind")
	}

	time.Sleep(600 * time.Millisecond)
	got := port.triggered()
	if len(got) != 1 || got[0] != "sa" {
		t.Fatalf("triggered %v after escape, want exactly [sa]", got)
	}
	if in.Session().Mode != ModeMenu {
		t.Fatalf("mode = %v, want menu", in.Session().Mode)
	}
}

func TestStartRecordingCancelsPlayback(t *testing.T) {
	in, port := newTestInstrument(t)

	in.recorder.SetTake(Recording{
		CreatedAt: time.Now(),
		Events: []NoteEvent{
			{Note: "sa", Offset: 0},
			{Note: "re", Offset: 500 * time.Millisecond},
		},
	})

	in.Handle(digitEv(3))
	time.Sleep(50 * time.Millisecond)
	in.Handle(Event{Kind: EventEscape}) // back to menu, cancels playback
	in.Handle(digitEv(2))               // new take

	time.Sleep(600 * time.Millisecond)
	got := port.triggered()
	if len(got) != 1 {
		t.Fatalf("triggered %v, old playback kept running", got)
	}
	if !in.recorder.Active() {
		t.Fatal("recorder not active after starting a new take")
	}
}

func TestExitEffect(t *testing.T) {
	in, _ := newTestInstrument(t)
	if quit := in.Handle(digitEv(6)); !quit {
		t.Fatal("menu option 6 did not request exit")
	}
	if quit := in.Handle(digitEv(1)); quit {
		t.Fatal("live play selection requested exit")
	}
}

func TestSelectionOfMissingFileRevertsMode(t *testing.T) {
	in, _ := newTestInstrument(t)

	// Build a take, save it, then remove it behind the store's back.
	in.Handle(digitEv(2))
	in.Handle(noteEv("sa"))
	in.Handle(Event{Kind: EventStop})
	in.Handle(digitEv(4))

	in.Handle(digitEv(5))
	// Session holds the stale listing; delete the file before selecting.
	names := in.Session().Recordings
	if len(names) != 1 {
		t.Fatalf("recordings = %v", names)
	}
	if err := os.Remove(in.store.path(names[0])); err != nil {
		t.Fatal(err)
	}

	in.Handle(digitEv(1))
	snap := in.Session()
	if snap.Mode != ModeSelectRecording {
		t.Fatalf("mode = %v, want select after failed load", snap.Mode)
	}
}
