// Package level places the start, goal and walls of a round by rejection sampling
package level

import (
	"log"
	"math/rand"
	"time"

	"github.com/lixenwraith/tiltball/constant"
	"github.com/lixenwraith/tiltball/core"
	"github.com/lixenwraith/tiltball/vmath"
)

type Config struct {
	CanvasWidth, CanvasHeight float64

	// StartGoalMargin and WallMargin inset the sampling areas from the canvas edges
	StartGoalMargin float64
	WallMargin      float64

	// MinStartGoalDistance must be strictly exceeded by an accepted pair
	MinStartGoalDistance float64
	// WallClearance must be strictly exceeded between a wall centre and both start and goal
	WallClearance float64

	WallCount     int
	WallThickness float64
	WallMinLength float64
	WallMaxLength float64

	// MaxAttempts bounds each rejection loop; on exhaustion the last candidate is kept
	MaxAttempts int

	Seed int64 // Optional (0 = Random)
}

// DefaultConfig returns the stock level layout parameters
func DefaultConfig() Config {
	return Config{
		CanvasWidth:          constant.CanvasWidth,
		CanvasHeight:         constant.CanvasHeight,
		StartGoalMargin:      constant.StartGoalMargin,
		WallMargin:           constant.WallMargin,
		MinStartGoalDistance: constant.MinStartGoalDistance,
		WallClearance:        constant.WallClearance,
		WallCount:            constant.WallCount,
		WallThickness:        constant.WallThickness,
		WallMinLength:        constant.WallMinLength,
		WallMaxLength:        constant.WallMaxLength,
		MaxAttempts:          constant.MaxPositionAttempts,
	}
}

// Placement is a start/goal pair and how it was obtained
type Placement struct {
	StartX, StartY float64
	GoalX, GoalY   float64
	Attempts       int
	// Exhausted means no candidate met the distance rule and the last one was kept
	Exhausted bool
}

// Distance returns the start-to-goal distance
func (p Placement) Distance() float64 {
	return vmath.Distance(p.StartX, p.StartY, p.GoalX, p.GoalY)
}

// Level is the output of one regeneration
type Level struct {
	Placement
	Walls []core.Wall
	// ExhaustedWalls counts walls kept without meeting the clearance rule
	ExhaustedWalls int
}

// Generator owns the random source for one game
// Not safe for concurrent use; the tick goroutine is the only caller
type Generator struct {
	cfg Config
	rng *rand.Rand
}

// NewGenerator creates a generator, a zero seed is replaced by the current time
func NewGenerator(cfg Config) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Config returns the generator parameters
func (g *Generator) Config() Config {
	return g.cfg
}

// PlaceStartGoal samples start/goal pairs until their distance exceeds the minimum
// Draw order per attempt: startX, startY, goalX, goalY
func (g *Generator) PlaceStartGoal() Placement {
	c := &g.cfg
	var p Placement

	for p.Attempts < c.MaxAttempts {
		p.StartX = g.uniform(c.StartGoalMargin, c.CanvasWidth-c.StartGoalMargin)
		p.StartY = g.uniform(c.StartGoalMargin, c.CanvasHeight-c.StartGoalMargin)
		p.GoalX = g.uniform(c.StartGoalMargin, c.CanvasWidth-c.StartGoalMargin)
		p.GoalY = g.uniform(c.StartGoalMargin, c.CanvasHeight-c.StartGoalMargin)
		p.Attempts++

		if p.Distance() > c.MinStartGoalDistance {
			return p
		}
	}

	p.Exhausted = true
	log.Printf("level: start/goal placement exhausted after %d attempts, keeping pair %.1f apart",
		p.Attempts, p.Distance())
	return p
}

// PlaceWalls samples WallCount walls whose centres clear both start and goal
// Draw order per attempt: orientation, length, x, y
// Walls are not checked against each other, overlapping walls are legal
func (g *Generator) PlaceWalls(startX, startY, goalX, goalY float64) ([]core.Wall, int) {
	c := &g.cfg
	walls := make([]core.Wall, 0, c.WallCount)
	exhausted := 0

	for i := 0; i < c.WallCount; i++ {
		var wall core.Wall
		valid := false

		for attempts := 0; attempts < c.MaxAttempts; attempts++ {
			horizontal := g.rng.Float64() > 0.5
			length := g.uniform(c.WallMinLength, c.WallMaxLength)
			x := g.uniform(c.WallMargin, c.CanvasWidth-c.WallMargin)
			y := g.uniform(c.WallMargin, c.CanvasHeight-c.WallMargin)

			wall = core.NewWall(x, y, length, c.WallThickness, horizontal)

			if vmath.Distance(startX, startY, x, y) > c.WallClearance &&
				vmath.Distance(goalX, goalY, x, y) > c.WallClearance {
				valid = true
				break
			}
		}

		if !valid && c.MaxAttempts > 0 {
			exhausted++
			log.Printf("level: wall %d placement exhausted after %d attempts, keeping last candidate", i, c.MaxAttempts)
		}
		if c.MaxAttempts > 0 {
			walls = append(walls, wall)
		}
	}

	return walls, exhausted
}

// Regenerate places a new start/goal pair, then walls around it, and applies both
// The ball is moved to the new start at rest, the goal is replaced wholesale
func (g *Generator) Regenerate(ball *core.Ball, goal *core.Goal) Level {
	p := g.PlaceStartGoal()

	ball.StartX, ball.StartY = p.StartX, p.StartY
	ball.ResetToStart()
	*goal = core.Goal{X: p.GoalX, Y: p.GoalY, Radius: goal.Radius}

	walls, exhausted := g.PlaceWalls(p.StartX, p.StartY, p.GoalX, p.GoalY)

	return Level{
		Placement:      p,
		Walls:          walls,
		ExhaustedWalls: exhausted,
	}
}

// uniform returns a value in [lo, hi)
func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}
