package constant

import "time"

// Audio hardware settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration is the speaker buffer, trading latency for underrun safety
	AudioBufferDuration = 100 * time.Millisecond
)

// MinSoundGap between consecutive plays of the same sound
const MinSoundGap = 60 * time.Millisecond

// Goal chime: two rising notes
const (
	ChimeNote1Duration = 90 * time.Millisecond
	ChimeNote2Duration = 320 * time.Millisecond
	ChimeAttack        = 5 * time.Millisecond
	ChimeNote1Release  = 40 * time.Millisecond
	ChimeNote2Release  = 260 * time.Millisecond
	ChimeNote1Freq     = 659.25 // E5
	ChimeNote2Freq     = 987.77 // B5
)

// Wall bounce thud: falling sine sweep
const (
	ThudSoundDuration = 90 * time.Millisecond
	ThudSoundAttack   = 2 * time.Millisecond
	ThudSoundRelease  = 70 * time.Millisecond
	ThudStartFreq     = 140.0
	ThudEndFreq       = 45.0
)

// Out of bounds buzz
const (
	BuzzSoundDuration = 180 * time.Millisecond
	BuzzSoundAttack   = 5 * time.Millisecond
	BuzzSoundRelease  = 40 * time.Millisecond
	BuzzFreq          = 110.0
)

// ThudMinSpeed is the impact speed below which a bounce stays silent
const ThudMinSpeed = 1.0
