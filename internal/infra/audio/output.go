package audio

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// DefaultSampleRate is the rate the speaker is opened at. Sources are resampled to it.
const DefaultSampleRate beep.SampleRate = 44100

// Output is the device the handle plays to.
type Output interface {
	// SampleRate returns the rate streamers passed to Play must have.
	SampleRate() beep.SampleRate
	// Play adds a streamer to the mix.
	Play(s beep.Streamer)
	// Clear removes every streamer from the mix.
	Clear()
	// Lock and Unlock guard streamers that are being played.
	Lock()
	Unlock()
}

// speakerOutput plays to the system speaker.
type speakerOutput struct {
	sampleRate beep.SampleRate
}

// NewSpeakerOutput opens the system speaker.
func NewSpeakerOutput(sampleRate beep.SampleRate) (Output, error) {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, errors.Wrap(err, "failed to initialize speaker")
	}
	return &speakerOutput{sampleRate: sampleRate}, nil
}

func (o *speakerOutput) SampleRate() beep.SampleRate { return o.sampleRate }
func (o *speakerOutput) Play(s beep.Streamer)        { speaker.Play(s) }
func (o *speakerOutput) Clear()                      { speaker.Clear() }
func (o *speakerOutput) Lock()                       { speaker.Lock() }
func (o *speakerOutput) Unlock()                     { speaker.Unlock() }
