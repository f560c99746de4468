package events

import (
	"time"
)

// PermissionState is the outcome of a permission request
type PermissionState int

const (
	PermissionGranted PermissionState = iota
	PermissionDenied
	PermissionFailed
)

func (s PermissionState) String() string {
	switch s {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	case PermissionFailed:
		return "error"
	}
	return "unknown"
}

// PermissionResultPayload carries the controller's permission answer
// Err is only meaningful with PermissionFailed
type PermissionResultPayload struct {
	State PermissionState
	Err   string
}

// PhaseChangedPayload names the phases on either side of a transition
type PhaseChangedPayload struct {
	From string
	To   string
}

// GoalReachedPayload contains the score after the goal was counted
type GoalReachedPayload struct {
	Score int
	X, Y  float64
}

// WallBouncePayload identifies the contact and the speed into the face
type WallBouncePayload struct {
	WallIndex int
	Face      string
	Speed     float64
}

// OutOfBoundsPayload contains the position where the ball left the canvas
type OutOfBoundsPayload struct {
	X, Y float64
}

// LevelRegeneratedPayload reports generation quality
type LevelRegeneratedPayload struct {
	Walls          int
	Attempts       int
	Exhausted      bool
	ExhaustedWalls int
}

// StatusTextPayload is the new status line
type StatusTextPayload struct {
	Text string
}

// MessageShowPayload is a transient centred message
type MessageShowPayload struct {
	Text     string
	Duration time.Duration
	Token    uint64
}

// MessageClearPayload clears a message by its issuing token
type MessageClearPayload struct {
	Token uint64
}

// ScoreChangedPayload carries the new score and its display text
type ScoreChangedPayload struct {
	Score int
	Text  string
}
