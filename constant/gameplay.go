package constant

// Level generation
const (
	// WallCount is the number of obstacles per level
	WallCount = 3

	// WallThickness is the short side of every wall
	WallThickness = 10.0

	// WallMinLength and WallMaxLength bound the long side, [min, max)
	WallMinLength = 60.0
	WallMaxLength = 150.0

	// MinStartGoalDistance must be strictly exceeded by a start/goal pair
	MinStartGoalDistance = 150.0

	// MaxPositionAttempts bounds every rejection-sampling loop
	MaxPositionAttempts = 100

	// StartGoalMargin insets the start/goal sampling area from the canvas edges
	StartGoalMargin = 40.0

	// WallMargin insets the wall centre sampling area from the canvas edges
	WallMargin = 30.0

	// WallClearance must be strictly exceeded between a wall centre and start/goal
	WallClearance = 50.0
)

// Round messages
const (
	MessageReady         = "Ready?"
	MessageStart         = "Start!"
	MessageGoal          = "Goal!! 🎉"
	MessageOutOfBounds   = "Out of bounds! Back to the start"
	MessageLevelRefresh  = "Level refreshed!"
	StatusTiltPrompt     = "Tilt the device to roll the ball!"
	StatusNeedPermission = "Sensor access requires permission"
	StatusDenied         = "Permission denied. Allow motion access in settings."
	StatusUnsupported    = "This device has no tilt sensor"
	StatusErrorPrefix    = "Error: "
	ScorePrefix          = "Score: "
)
