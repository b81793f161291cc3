package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sargam/audio"
	"sargam/config"
	"sargam/instrument"
	"sargam/logging"
	"sargam/midiout"
	"sargam/tui"
)

var (
	flagSounds     string
	flagRecordings string
	flagMIDIPort   string
	flagDebug      bool
)

var rootCmd = &cobra.Command{
	Use:   "sargam",
	Short: "A keyboard instrument for the eight sargam notes",
	Long: `sargam turns the keyboard into an instrument: keys a-k play the
sargam scale, sessions can be recorded with their timing, saved, and
replayed. Samples are WAV files in the sounds directory, one per note.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagSounds, "sounds", "", "directory with note samples (default from config)")
	rootCmd.Flags().StringVar(&flagRecordings, "recordings", "", "directory for saved recordings (default from config)")
	rootCmd.Flags().StringVar(&flagMIDIPort, "midi-port", "", "echo notes to this MIDI output port")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "debug logging")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagSounds != "" {
		cfg.SoundsDir = flagSounds
	}
	if flagRecordings != "" {
		cfg.RecordingsDir = flagRecordings
	}
	if flagMIDIPort != "" {
		cfg.MIDI.Enabled = true
		cfg.MIDI.PortName = flagMIDIPort
	}
	if flagDebug {
		cfg.Debug = true
	}

	logDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	log, err := logging.New(logDir, cfg.Debug)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer log.Sync()

	// The sampler is the instrument's voice: a speaker that cannot be
	// opened is an unrecoverable startup failure.
	sampler := audio.NewSampler(log)
	if err := sampler.Initialize(cfg.SoundsDir); err != nil {
		return fmt.Errorf("audio unavailable: %w", err)
	}
	defer sampler.Cleanup()
	if sampler.Loaded() == 0 {
		fmt.Fprintf(os.Stderr, "No samples found in %s — notes will be silent. Add WAV files (sa.wav, re.wav, ...).\n", cfg.SoundsDir)
	}

	var port instrument.TriggerPort = sampler
	if cfg.MIDI.Enabled && cfg.MIDI.PortName != "" {
		synth := midiout.NewSynth(cfg.MIDI.PortName, cfg.MIDI.Channel, log)
		defer synth.Close()
		port = instrument.Fanout(sampler, synth)
		log.Info("MIDI echo enabled", zap.String("port", cfg.MIDI.PortName))
	}

	store := instrument.NewStore(cfg.RecordingsDir)
	inst := instrument.New(port, store, log)

	p := tea.NewProgram(tui.NewModel(inst), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	log.Info("clean exit")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
