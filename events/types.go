package events

import (
	"time"
)

// EventType represents the type of game event
type EventType int

const (
	// EventTick is reserved; never pushed
	EventTick EventType = iota

	// EventPermissionResult carries the outcome of a sensor permission request
	// Trigger: controller page (network), keyboard 'p' in terminal mode
	// Consumer: Game | Payload: *PermissionResultPayload
	EventPermissionResult

	// EventLevelRefreshRequest asks for a new level without touching score or phase
	// Trigger: 'r' key, controller refresh button
	// Consumer: Game | Payload: nil
	EventLevelRefreshRequest

	// EventSessionStart marks the first Ready? sequence of a session
	// Trigger: Game.Start or granted permission
	// Consumer: audio, viewer stream | Payload: nil
	EventSessionStart

	// EventPhaseChanged reports a phase transition
	// Trigger: Game | Payload: *PhaseChangedPayload
	EventPhaseChanged

	// EventGoalReached signals the ball entering the goal while active
	// Trigger: Game.Update | Consumer: audio | Payload: *GoalReachedPayload
	EventGoalReached

	// EventWallBounce signals a resolved wall contact
	// Trigger: Game.Update | Consumer: audio | Payload: *WallBouncePayload
	EventWallBounce

	// EventOutOfBounds signals the ball leaving the canvas and being reset
	// Trigger: Game.Update | Consumer: audio | Payload: *OutOfBoundsPayload
	EventOutOfBounds

	// EventLevelRegenerated signals new start, goal and walls
	// Trigger: goal sequence, level refresh | Payload: *LevelRegeneratedPayload
	EventLevelRegenerated

	// EventStatusText replaces the persistent status line
	// Consumer: TextBoard | Payload: *StatusTextPayload
	EventStatusText

	// EventMessageShow displays a centred transient message
	// Duration zero means it stays until replaced
	// Consumer: TextBoard | Payload: *MessageShowPayload
	EventMessageShow

	// EventMessageClear clears the message issued with the same token
	// Consumer: TextBoard | Payload: *MessageClearPayload
	EventMessageClear

	// EventScoreChanged updates the score display
	// Consumer: TextBoard | Payload: *ScoreChangedPayload
	EventScoreChanged

	// EventQuitRequest asks the front end to stop
	// Trigger: 'q'/Esc/Ctrl-C | Payload: nil
	EventQuitRequest
)

// GameEvent represents a single game event with metadata
type GameEvent struct {
	Type      EventType
	Payload   any
	Tick      uint64
	Timestamp time.Time
}
