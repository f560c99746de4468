package constant

// Canvas dimensions in game units
const (
	CanvasWidth  = 400.0
	CanvasHeight = 400.0
)

// Ball and goal geometry
const (
	BallRadius = 15.0
	GoalRadius = 25.0
)

// Integration parameters, applied once per tick (not scaled by dt)
const (
	// Friction is the per-tick multiplicative velocity decay
	Friction = 0.98

	// TiltSensitivity converts tilt degrees into per-tick acceleration
	TiltSensitivity = 0.15

	// WallRestitution is the fraction of perpendicular velocity kept after a wall bounce
	WallRestitution = 0.5
)

// Default ball start and goal before the first regeneration
const (
	DefaultStartX = 50.0
	DefaultStartY = 50.0
	DefaultGoalX  = 350.0
	DefaultGoalY  = 350.0
)
