//go:build !linux

package internal

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// SoundEvent represents different types of sound events in the client
type SoundEvent int

const (
	SoundNewMessage SoundEvent = iota
	SoundConnected
	SoundDisconnected
	SoundTraceWarning
	SoundTaskDone
	SoundError
	SoundLoggedIn
)

// chirp describes one synthesized tone segment.
type chirp struct {
	freq float64
	dur  time.Duration
}

// Tone sequences per event, all short enough to overlap harmlessly.
var soundChirps = map[SoundEvent][]chirp{
	SoundNewMessage:   {{880, 60 * time.Millisecond}, {1320, 90 * time.Millisecond}},
	SoundConnected:    {{440, 50 * time.Millisecond}, {660, 50 * time.Millisecond}, {880, 80 * time.Millisecond}},
	SoundDisconnected: {{880, 50 * time.Millisecond}, {660, 50 * time.Millisecond}, {440, 80 * time.Millisecond}},
	SoundTraceWarning: {{1560, 120 * time.Millisecond}, {1040, 120 * time.Millisecond}, {1560, 120 * time.Millisecond}},
	SoundTaskDone:     {{660, 60 * time.Millisecond}, {990, 100 * time.Millisecond}},
	SoundError:        {{220, 150 * time.Millisecond}},
	SoundLoggedIn:     {{523, 60 * time.Millisecond}, {659, 60 * time.Millisecond}, {784, 100 * time.Millisecond}},
}

// SoundPlayer manages synthesized sound playback for client events
type SoundPlayer struct {
	enabled bool
	sounds  map[SoundEvent]*beep.Buffer
	mu      sync.Mutex
}

// NewSoundPlayer creates and initializes a new sound player. Speaker
// initialization failure is fatal; tone synthesis cannot fail.
func NewSoundPlayer(enabled bool) (*SoundPlayer, error) {
	sp := &SoundPlayer{
		enabled: enabled,
		sounds:  make(map[SoundEvent]*beep.Buffer),
	}

	sampleRate := beep.SampleRate(44100)
	if err := speaker.Init(sampleRate, 4096); err != nil {
		return nil, fmt.Errorf("failed to initialize speaker: %w", err)
	}

	format := beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2}
	for event, chirps := range soundChirps {
		buffer := beep.NewBuffer(format)
		for _, c := range chirps {
			tone, err := generators.SineTone(sampleRate, c.freq)
			if err != nil {
				return nil, fmt.Errorf("failed to synthesize tone: %w", err)
			}
			buffer.Append(beep.Take(sampleRate.N(c.dur), tone))
		}
		sp.sounds[event] = buffer
	}

	return sp, nil
}

// PlayAsync plays a sound asynchronously without blocking
func (sp *SoundPlayer) PlayAsync(event SoundEvent) {
	if sp == nil {
		return
	}
	sp.mu.Lock()
	enabled := sp.enabled
	buffer, exists := sp.sounds[event]
	sp.mu.Unlock()

	if !enabled || !exists {
		return
	}

	go func() {
		streamer := buffer.Streamer(0, buffer.Len())
		done := make(chan bool)

		speaker.Play(beep.Seq(streamer, beep.Callback(func() {
			done <- true
		})))

		// Wait for playback to complete with timeout to prevent goroutine leak
		select {
		case <-done:
		case <-time.After(5 * time.Second):
		}
	}()
}

// SetEnabled enables or disables sound playback
func (sp *SoundPlayer) SetEnabled(enabled bool) {
	if sp == nil {
		return
	}
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.enabled = enabled
}

// Close cleans up the sound player resources
func (sp *SoundPlayer) Close() {
	speaker.Clear()
}
