package physics

import (
	"github.com/lixenwraith/tiltball/core"
	"github.com/lixenwraith/tiltball/vmath"
)

// OutOfBounds reports whether the ball centre left the canvas expanded by its radius
func OutOfBounds(b *core.Ball, width, height float64) bool {
	return b.X < -b.Radius ||
		b.X > width+b.Radius ||
		b.Y < -b.Radius ||
		b.Y > height+b.Radius
}

// GoalReached reports strict circle overlap between ball and goal
func GoalReached(b *core.Ball, g *core.Goal) bool {
	return vmath.CirclesOverlap(b.X, b.Y, b.Radius, g.X, g.Y, g.Radius)
}

// Outcome summarizes what one step did besides moving the ball
type Outcome struct {
	Contact     Contact
	OutOfBounds bool
	GoalReached bool
}

// Step runs integration, wall resolution, the bounds check and the goal check in that order
// Out-of-bounds resets the ball to its start before the goal check, so both cannot fire together
// from the same position unless the start itself sits inside the goal
func Step(b *core.Ball, beta, gamma float64, walls []core.Wall, g *core.Goal, p *Params) Outcome {
	Integrate(b, beta, gamma, p)

	var out Outcome
	out.Contact = ResolveWalls(b, walls, p.Restitution)

	if OutOfBounds(b, p.CanvasWidth, p.CanvasHeight) {
		b.ResetToStart()
		out.OutOfBounds = true
	}

	out.GoalReached = GoalReached(b, g)
	return out
}
