// Package audio plays the note samples through the speaker.
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"go.uber.org/zap"

	"sargam/notes"
)

const sampleRate = beep.SampleRate(44100)

// Sampler loads one WAV sample per catalog note and plays them on
// demand. Triggering is fire-and-forget: the speaker mixes each play on
// its own, the caller never waits. Notes without a loaded sample are
// silent no-ops.
type Sampler struct {
	mu          sync.Mutex
	buffers     map[string]*beep.Buffer
	initialized bool
	log         *zap.Logger
}

// NewSampler creates an uninitialized sampler. A nil logger disables
// logging.
func NewSampler(log *zap.Logger) *Sampler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sampler{
		buffers: make(map[string]*beep.Buffer),
		log:     log,
	}
}

// Initialize opens the speaker and loads the catalog samples from dir.
// Missing sample files are logged per note and left silent; a speaker
// that cannot be opened is an error the caller decides about. Safe to
// call twice.
func (s *Sampler) Initialize(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("open speaker: %w", err)
	}
	s.initialized = true

	for _, n := range notes.Catalog {
		buf, err := loadSample(filepath.Join(dir, n.File))
		if err != nil {
			if os.IsNotExist(err) {
				s.log.Warn("sample missing, note will be silent",
					zap.String("note", n.ID), zap.String("file", n.File))
			} else {
				s.log.Warn("sample failed to load",
					zap.String("note", n.ID), zap.String("file", n.File), zap.Error(err))
			}
			continue
		}
		s.buffers[n.ID] = buf
	}

	s.log.Info("sampler ready",
		zap.Int("loaded", len(s.buffers)),
		zap.Int("catalog", len(notes.Catalog)),
		zap.String("dir", dir))
	return nil
}

// loadSample decodes a WAV file into memory, resampled to the speaker
// rate so every buffer plays at pitch.
func loadSample(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(beep.Format{
		SampleRate:  sampleRate,
		NumChannels: format.NumChannels,
		Precision:   format.Precision,
	})
	if format.SampleRate == sampleRate {
		buf.Append(streamer)
	} else {
		buf.Append(beep.Resample(4, format.SampleRate, sampleRate, streamer))
	}
	return buf, nil
}

// Trigger plays the sample for note. A note without a loaded sample is
// a silent no-op; before initialization every trigger is one.
func (s *Sampler) Trigger(note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return nil
	}
	buf, ok := s.buffers[note]
	if !ok {
		s.log.Debug("no sample for note", zap.String("note", note))
		return nil
	}
	speaker.Play(buf.Streamer(0, buf.Len()))
	return nil
}

// Loaded reports how many catalog notes have a playable sample.
func (s *Sampler) Loaded() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buffers)
}

// Cleanup silences the sampler. The speaker itself has no close; once
// the buffers are dropped nothing is left playing.
func (s *Sampler) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	speaker.Clear()
	s.buffers = make(map[string]*beep.Buffer)
	s.initialized = false
}
