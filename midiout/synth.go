// Package midiout echoes triggered notes to a MIDI output port, so the
// instrument can drive an external synth alongside (or instead of) the
// sample player.
package midiout

import (
	"fmt"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register MIDI driver
	"go.uber.org/zap"

	"sargam/notes"
)

// noteLength is how long an echoed note is held before NoteOff.
const noteLength = 150 * time.Millisecond

// Synth sends a NoteOn/NoteOff pair per triggered note to a named MIDI
// output port. The port is opened lazily on the first trigger and the
// sender is cached, so a synth that is plugged in late just works.
type Synth struct {
	portName string
	channel  uint8
	log      *zap.Logger

	mu   sync.Mutex
	send func(gomidi.Message) error
}

// NewSynth creates a synth targeting the named output port on the given
// MIDI channel (1-16). A nil logger disables logging.
func NewSynth(portName string, channel uint8, log *zap.Logger) *Synth {
	if log == nil {
		log = zap.NewNop()
	}
	if channel < 1 {
		channel = 1
	}
	if channel > 16 {
		channel = 16
	}
	return &Synth{portName: portName, channel: channel, log: log}
}

// sender returns the cached send function, opening the port on demand.
func (s *Synth) sender() (func(gomidi.Message) error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.send != nil {
		return s.send, nil
	}
	for _, port := range gomidi.GetOutPorts() {
		if port.String() == s.portName {
			send, err := gomidi.SendTo(port)
			if err != nil {
				return nil, fmt.Errorf("open MIDI port %q: %w", s.portName, err)
			}
			s.send = send
			s.log.Info("MIDI output connected", zap.String("port", s.portName))
			return send, nil
		}
	}
	return nil, fmt.Errorf("MIDI port %q not found", s.portName)
}

// Trigger sends NoteOn immediately and NoteOff after noteLength on a
// separate goroutine; the caller never waits on the MIDI driver.
func (s *Synth) Trigger(note string) error {
	n, ok := notes.ByID(note)
	if !ok {
		return nil
	}
	send, err := s.sender()
	if err != nil {
		return err
	}

	ch := s.channel - 1
	if err := send(gomidi.NoteOn(ch, n.Pitch, 100)); err != nil {
		s.reset()
		return fmt.Errorf("send NoteOn: %w", err)
	}
	go func() {
		time.Sleep(noteLength)
		if err := send(gomidi.NoteOff(ch, n.Pitch)); err != nil {
			s.log.Warn("NoteOff failed", zap.String("note", note), zap.Error(err))
		}
	}()
	return nil
}

// reset drops the cached sender so the next trigger reopens the port.
func (s *Synth) reset() {
	s.mu.Lock()
	s.send = nil
	s.mu.Unlock()
}

// Close shuts down the MIDI driver.
func (s *Synth) Close() {
	s.mu.Lock()
	s.send = nil
	s.mu.Unlock()
	gomidi.CloseDriver()
}
