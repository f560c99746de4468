package physics

import (
	"math"
	"testing"

	"github.com/lixenwraith/tiltball/core"
	"github.com/lixenwraith/tiltball/vmath"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestIntegrateSingleTick(t *testing.T) {
	p := DefaultParams()
	b := core.Ball{X: 50, Y: 50, Radius: 15}

	Integrate(&b, 0, 100, &p)

	if !approx(b.VX, 14.7) || b.VY != 0 {
		t.Errorf("velocity = (%v, %v), want (14.7, 0)", b.VX, b.VY)
	}
	if !approx(b.X, 64.7) || b.Y != 50 {
		t.Errorf("position = (%v, %v), want (64.7, 50)", b.X, b.Y)
	}
}

func TestIntegrateFrictionDecay(t *testing.T) {
	p := DefaultParams()
	b := core.Ball{X: 200, Y: 200, VX: 8, VY: -6, Radius: 15}

	prev := vmath.V2Mag(vmath.Vec2{X: b.VX, Y: b.VY})
	for i := 0; i < 200; i++ {
		Integrate(&b, 0, 0, &p)
		speed := vmath.V2Mag(vmath.Vec2{X: b.VX, Y: b.VY})
		if speed >= prev {
			t.Fatalf("tick %d: speed %v did not decrease from %v", i, speed, prev)
		}
		if !approx(speed, prev*p.Friction) {
			t.Fatalf("tick %d: speed %v, want geometric decay %v", i, speed, prev*p.Friction)
		}
		prev = speed
	}

	still := core.Ball{X: 10, Y: 10}
	Integrate(&still, 0, 0, &p)
	if still.VX != 0 || still.VY != 0 || still.X != 10 || still.Y != 10 {
		t.Errorf("ball at rest moved: %+v", still)
	}
}

func TestResolveWallsFromLeft(t *testing.T) {
	// Wall spans x in [100,110], y in [90,150]
	walls := []core.Wall{{X: 105, Y: 120, Width: 10, Height: 60}}
	b := core.Ball{X: 94, Y: 120, VX: 5, VY: 1, Radius: 15}

	c := ResolveWalls(&b, walls, 0.5)

	if c.Face != FaceLeft || c.WallIndex != 0 {
		t.Fatalf("contact = %+v, want Left on wall 0", c)
	}
	if b.X != 85 {
		t.Errorf("X = %v, want 85", b.X)
	}
	if b.VX != -2.5 {
		t.Errorf("VX = %v, want -2.5", b.VX)
	}
	if b.VY != 1 {
		t.Errorf("VY = %v, parallel component must be untouched", b.VY)
	}
}

func TestResolveWallsFaces(t *testing.T) {
	wall := core.Wall{X: 200, Y: 200, Width: 100, Height: 10} // x [150,250], y [195,205]

	tests := []struct {
		name     string
		ball     core.Ball
		wantFace Face
		check    func(b core.Ball) bool
	}{
		{
			name:     "from top",
			ball:     core.Ball{X: 200, Y: 183, VX: 1, VY: 4, Radius: 15},
			wantFace: FaceTop,
			check:    func(b core.Ball) bool { return b.Y == 180 && b.VY == -2 && b.VX == 1 },
		},
		{
			name:     "from bottom",
			ball:     core.Ball{X: 200, Y: 217, VX: 0, VY: -4, Radius: 15},
			wantFace: FaceBottom,
			check:    func(b core.Ball) bool { return b.Y == 220 && b.VY == 2 },
		},
		{
			name:     "from right",
			ball:     core.Ball{X: 262, Y: 200, VX: -6, VY: 0, Radius: 15},
			wantFace: FaceRight,
			check:    func(b core.Ball) bool { return b.X == 265 && b.VX == 3 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.ball
			c := ResolveWalls(&b, []core.Wall{wall}, 0.5)
			if c.Face != tt.wantFace {
				t.Fatalf("face = %s, want %s", c.Face, tt.wantFace)
			}
			if !tt.check(b) {
				t.Errorf("unexpected ball state %+v", b)
			}
		})
	}
}

func TestResolveWallsLeavesNoOverlapOnAxis(t *testing.T) {
	walls := []core.Wall{
		{X: 105, Y: 120, Width: 10, Height: 60},
		{X: 200, Y: 300, Width: 120, Height: 10},
	}
	positions := [][2]float64{{94, 120}, {116, 100}, {105, 95}, {105, 148}, {150, 296}, {255, 304}, {200, 290}}

	for _, pos := range positions {
		for wi, w := range walls {
			b := core.Ball{X: pos[0], Y: pos[1], Radius: 15}
			if !vmath.SquareAround(b.X, b.Y, b.Radius).Overlaps(w.Bounds()) {
				continue
			}
			c := ResolveWalls(&b, []core.Wall{w}, 0.5)
			box := vmath.SquareAround(b.X, b.Y, b.Radius)
			wb := w.Bounds()

			switch c.Face {
			case FaceLeft, FaceRight:
				if box.Right > wb.Left && box.Left < wb.Right {
					t.Errorf("wall %d pos %v: still overlapping on X after %s", wi, pos, c.Face)
				}
			case FaceTop, FaceBottom:
				if box.Bottom > wb.Top && box.Top < wb.Bottom {
					t.Errorf("wall %d pos %v: still overlapping on Y after %s", wi, pos, c.Face)
				}
			default:
				t.Errorf("wall %d pos %v: overlap not resolved", wi, pos)
			}
		}
	}
}

func TestResolveWallsFirstWallOnly(t *testing.T) {
	// Two walls both overlapping the ball; only the first in order is resolved
	walls := []core.Wall{
		{X: 105, Y: 120, Width: 10, Height: 60},
		{X: 90, Y: 135, Width: 60, Height: 10},
	}
	b := core.Ball{X: 94, Y: 120, VX: 5, VY: 5, Radius: 15}

	c := ResolveWalls(&b, walls, 0.5)
	if c.WallIndex != 0 {
		t.Fatalf("resolved wall %d, want 0", c.WallIndex)
	}
	if b.VY != 5 {
		t.Errorf("VY = %v, second wall must be ignored this tick", b.VY)
	}
}

func TestResolveWallsTieBreakOrder(t *testing.T) {
	// Square wall with the ball centred on it: all four depths equal, Left wins
	walls := []core.Wall{{X: 100, Y: 100, Width: 20, Height: 20}}
	b := core.Ball{X: 100, Y: 100, VX: 3, VY: 3, Radius: 15}

	c := ResolveWalls(&b, walls, 0.5)
	if c.Face != FaceLeft {
		t.Errorf("tie resolved to %s, want Left", c.Face)
	}
}

func TestResolveWallsNoContact(t *testing.T) {
	b := core.Ball{X: 20, Y: 20, VX: 1, Radius: 15}
	c := ResolveWalls(&b, []core.Wall{{X: 300, Y: 300, Width: 10, Height: 60}}, 0.5)
	if c.Hit() || c.WallIndex != -1 {
		t.Errorf("unexpected contact %+v", c)
	}
	if c := ResolveWalls(&b, nil, 0.5); c.Hit() {
		t.Error("contact with empty wall list")
	}
}

func TestOutOfBounds(t *testing.T) {
	tests := []struct {
		x, y float64
		want bool
	}{
		{200, 200, false},
		{-15, 200, false},
		{-15.01, 200, true},
		{415, 200, false},
		{415.01, 200, true},
		{200, -20, true},
		{200, 420, true},
	}
	for _, tt := range tests {
		b := core.Ball{X: tt.x, Y: tt.y, Radius: 15}
		if got := OutOfBounds(&b, 400, 400); got != tt.want {
			t.Errorf("OutOfBounds(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestGoalReachedStrict(t *testing.T) {
	g := core.Goal{X: 300, Y: 300, Radius: 25}

	at := core.Ball{X: 300, Y: 300, Radius: 15}
	if !GoalReached(&at, &g) {
		t.Error("ball at goal centre must reach goal")
	}

	edge := core.Ball{X: 340, Y: 300, Radius: 15}
	if GoalReached(&edge, &g) {
		t.Error("ball exactly radius-sum away must not reach goal")
	}
}

func TestStepOutOfBoundsResets(t *testing.T) {
	p := DefaultParams()
	g := core.Goal{X: 350, Y: 350, Radius: 25}
	b := core.Ball{X: 410, Y: 200, VX: 10, StartX: 50, StartY: 50, Radius: 15}

	out := Step(&b, 0, 0, nil, &g, &p)
	if !out.OutOfBounds {
		t.Fatal("expected out of bounds")
	}
	if b.X != 50 || b.Y != 50 || b.VX != 0 || b.VY != 0 {
		t.Errorf("ball not reset: %+v", b)
	}
	if out.GoalReached {
		t.Error("goal reported after reset to start")
	}
}

func TestStepReportsBounceAndGoal(t *testing.T) {
	p := DefaultParams()
	walls := []core.Wall{{X: 105, Y: 120, Width: 10, Height: 60}}
	far := core.Goal{X: 350, Y: 350, Radius: 25}

	b := core.Ball{X: 89, Y: 120, VX: 5.2, Radius: 15}
	out := Step(&b, 0, 0, walls, &far, &p)
	if !out.Contact.Hit() || out.Contact.Face != FaceLeft {
		t.Errorf("expected left contact, got %+v", out.Contact)
	}

	near := core.Goal{X: 130, Y: 130, Radius: 25}
	b = core.Ball{X: 120, Y: 120, Radius: 15}
	out = Step(&b, 0, 0, nil, &near, &p)
	if !out.GoalReached {
		t.Error("expected goal reached")
	}
}
