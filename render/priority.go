package render

// Priority determines render order. Lower values render first
type Priority int

const (
	PriorityField Priority = iota
	PriorityWall
	PriorityGoal
	PriorityBall
	PriorityUI
	PriorityOverlay
	PriorityDebug
)
