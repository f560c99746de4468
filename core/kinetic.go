package core

// Ball is the player body: centre position, per-tick velocity and the start point it resets to
type Ball struct {
	X, Y   float64
	VX, VY float64
	// StartX and StartY are where the ball respawns after a goal or leaving the canvas
	StartX, StartY float64
	Radius         float64
}

// ResetToStart places the ball at its start point at rest
func (b *Ball) ResetToStart() {
	b.X = b.StartX
	b.Y = b.StartY
	b.VX = 0
	b.VY = 0
}

// Goal is the circular target area
type Goal struct {
	X, Y   float64
	Radius float64
}
