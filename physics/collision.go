package physics

import (
	"github.com/lixenwraith/tiltball/core"
	"github.com/lixenwraith/tiltball/vmath"
)

// Face identifies the side of a wall the ball was pushed out through
type Face uint8

const (
	FaceNone Face = iota
	FaceLeft
	FaceRight
	FaceTop
	FaceBottom
)

func (f Face) String() string {
	switch f {
	case FaceLeft:
		return "Left"
	case FaceRight:
		return "Right"
	case FaceTop:
		return "Top"
	case FaceBottom:
		return "Bottom"
	default:
		return "None"
	}
}

// Contact describes a resolved wall collision
type Contact struct {
	WallIndex int
	Face      Face
}

// Hit reports whether a wall was resolved this step
func (c Contact) Hit() bool {
	return c.Face != FaceNone
}

// ResolveWalls pushes the ball out of the first overlapping wall in slice order
// The shallowest face wins, ties resolve Left, Right, Top, Bottom in that order
// The perpendicular velocity component is inverted and damped by restitution, the parallel one is kept
// Only one wall is resolved per call; a second simultaneous overlap waits for the next tick
func ResolveWalls(b *core.Ball, walls []core.Wall, restitution float64) Contact {
	for i := range walls {
		wall := walls[i].Bounds()
		box := vmath.SquareAround(b.X, b.Y, b.Radius)

		if !box.Overlaps(wall) {
			continue
		}

		pen := box.PenetrationInto(wall)
		minOverlap := min(pen.Left, pen.Right, pen.Top, pen.Bottom)

		var face Face
		switch minOverlap {
		case pen.Left:
			b.X = wall.Left - b.Radius
			b.VX = vmath.BounceNegative(b.VX, restitution)
			face = FaceLeft
		case pen.Right:
			b.X = wall.Right + b.Radius
			b.VX = vmath.BouncePositive(b.VX, restitution)
			face = FaceRight
		case pen.Top:
			b.Y = wall.Top - b.Radius
			b.VY = vmath.BounceNegative(b.VY, restitution)
			face = FaceTop
		default:
			b.Y = wall.Bottom + b.Radius
			b.VY = vmath.BouncePositive(b.VY, restitution)
			face = FaceBottom
		}

		return Contact{WallIndex: i, Face: face}
	}
	return Contact{WallIndex: -1}
}
