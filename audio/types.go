// Package audio plays short generated feedback sounds for game events
package audio

import "errors"

// SoundType represents different sound effects
type SoundType int

const (
	SoundChime SoundType = iota // Goal reached
	SoundThud                   // Wall bounce
	SoundBuzz                   // Out of bounds
	soundTypeCount
)

var soundNames = [soundTypeCount]string{"chime", "thud", "buzz"}

func (s SoundType) String() string {
	if s < 0 || s >= soundTypeCount {
		return "unknown"
	}
	return soundNames[s]
}

// ErrNotInitialized is returned by operations needing a live speaker
var ErrNotInitialized = errors.New("audio not initialized")
