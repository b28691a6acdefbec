// Package playback provides the media playback coordinator: the single owner of the
// shared audio output, switching between the live stream and podcast episodes.
package playback

import "github.com/osa030/onair/internal/domain/media"

// Phase represents the playback phase of the current item.
type Phase int

const (
	PhaseIdle    Phase = iota // No item loaded
	PhaseLoading              // Item loaded, waiting for the handle to become ready
	PhasePlaying              // Item is playing
	PhasePaused               // Item is loaded but not playing (paused, ended or failed)
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// State is a point-in-time copy of the coordinator state.
type State struct {
	Phase    Phase
	Item     *media.Item // Current item (nil when idle)
	Volume   float64     // 0..1
	Position float64     // Seconds
	Duration float64     // Seconds, 0 until metadata is known
}

// IsPlaying returns true if the current item is playing.
func (s State) IsPlaying() bool {
	return s.Phase == PhasePlaying
}

// IsLoading returns true between load start and ready to play.
func (s State) IsLoading() bool {
	return s.Phase == PhaseLoading
}

// HasItem returns true if an item is current.
func (s State) HasItem() bool {
	return s.Item != nil
}

// Progress returns the playback progress in [0,1], or 0 when duration is unknown.
func (s State) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	p := s.Position / s.Duration
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}
