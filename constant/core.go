package constant

import "time"

// Game Loop & Engine Timing
const (
	// FrameUpdateInterval is the rendering frame rate interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// GameUpdateInterval is the physics tick interval, one integration step per tick
	GameUpdateInterval = 16 * time.Millisecond
)

// Round sequencing delays
const (
	// ReadyDelay is the freeze between session start "Ready?" and "Start!"
	ReadyDelay = 1500 * time.Millisecond

	// StartMessageDuration is how long "Start!" stays visible
	StartMessageDuration = 2000 * time.Millisecond

	// GoalReadyDelay is the pause between "Goal!!" and "Ready?"
	GoalReadyDelay = 750 * time.Millisecond

	// GoalStartDelay is the pause between "Ready?" and play resuming after a goal
	GoalStartDelay = 750 * time.Millisecond

	// NoticeDuration is how long out-of-bounds and refresh notices stay visible
	NoticeDuration = 3000 * time.Millisecond
)

// Event queue limits
const (
	// EventQueueSize is the fixed capacity of the event ring buffer
	EventQueueSize = 256

	// EventBufferMask is the bitmask for fast modulo operations (256 - 1)
	EventBufferMask = 255
)

// Tilt emulation
const (
	// KeyboardTiltStep is the tilt change in degrees per arrow key press
	KeyboardTiltStep = 10.0

	// KeyboardTiltLimit clamps emulated tilt to a plausible device range
	KeyboardTiltLimit = 90.0
)
