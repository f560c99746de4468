// Package engine owns the game state, the round sequencer and the tick loop
package engine

import (
	"log"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/tiltball/constant"
	"github.com/lixenwraith/tiltball/core"
	"github.com/lixenwraith/tiltball/events"
	"github.com/lixenwraith/tiltball/level"
	"github.com/lixenwraith/tiltball/physics"
	"github.com/lixenwraith/tiltball/status"
	"github.com/lixenwraith/tiltball/tilt"
)

// Capability describes the orientation source available at Start
type Capability int

const (
	// CapabilityNone means no sensor; the session starts with zero tilt
	CapabilityNone Capability = iota
	// CapabilityDirect means samples flow without asking
	CapabilityDirect
	// CapabilityPermission means the user must grant access first
	CapabilityPermission
)

// Config holds the tunables of one game
type Config struct {
	Physics    physics.Params
	Level      level.Config
	BallRadius float64
	GoalRadius float64

	ReadyDelay           time.Duration
	StartMessageDuration time.Duration
	GoalReadyDelay       time.Duration
	GoalStartDelay       time.Duration
	NoticeDuration       time.Duration
}

// DefaultConfig returns the stock game parameters
func DefaultConfig() Config {
	return Config{
		Physics:              physics.DefaultParams(),
		Level:                level.DefaultConfig(),
		BallRadius:           constant.BallRadius,
		GoalRadius:           constant.GoalRadius,
		ReadyDelay:           constant.ReadyDelay,
		StartMessageDuration: constant.StartMessageDuration,
		GoalReadyDelay:       constant.GoalReadyDelay,
		GoalStartDelay:       constant.GoalStartDelay,
		NoticeDuration:       constant.NoticeDuration,
	}
}

// Snapshot is a consistent copy of everything a renderer needs
type Snapshot struct {
	Tick       uint64
	Phase      Phase
	Ball       core.Ball
	Goal       core.Goal
	Walls      []core.Wall // shared, never mutated
	Tilt       tilt.Reading
	Score      int
	Message    string
	Status     string
	CanvasW    float64
	CanvasH    float64
	Exhausted  bool // current level kept a placement that missed a constraint
	SequenceID uint64
	PhaseAge   time.Duration // game time spent in the current phase
}

// Game is the explicitly owned state of one session
// Mutation happens on the tick goroutine; Snapshot may be called from anywhere
type Game struct {
	mu sync.RWMutex

	cfg     Config
	clock   Clock
	queue   *events.EventQueue
	sampler *tilt.Sampler
	gen     *level.Generator
	seq     Sequencer

	ball  core.Ball
	goal  core.Goal
	walls []core.Wall
	score int

	phase          Phase
	phaseStartTime time.Time
	exhausted      bool

	tick         uint64
	message      string
	messageToken uint64
	statusText   string

	// Cached metric pointers
	statTicks     *atomic.Int64
	statScore     *atomic.Int64
	statBounces   *atomic.Int64
	statOOB       *atomic.Int64
	statGenerated *atomic.Int64
	statExhausted *atomic.Int64
	statPhase     *status.AtomicString
	statBeta      *status.AtomicFloat
	statGamma     *status.AtomicFloat
}

// NewGame creates a game at the default start and goal with walls placed around them
// The game stays Uninitialized until Start
func NewGame(cfg Config, clock Clock, sampler *tilt.Sampler, queue *events.EventQueue, reg *status.Registry) *Game {
	g := &Game{
		cfg:     cfg,
		clock:   clock,
		queue:   queue,
		sampler: sampler,
		gen:     level.NewGenerator(cfg.Level),
		ball: core.Ball{
			X: constant.DefaultStartX, Y: constant.DefaultStartY,
			StartX: constant.DefaultStartX, StartY: constant.DefaultStartY,
			Radius: cfg.BallRadius,
		},
		goal: core.Goal{X: constant.DefaultGoalX, Y: constant.DefaultGoalY, Radius: cfg.GoalRadius},

		statTicks:     reg.Ints.Get(status.KeyEngineTicks),
		statScore:     reg.Ints.Get(status.KeyGameScore),
		statBounces:   reg.Ints.Get(status.KeyGameBounces),
		statOOB:       reg.Ints.Get(status.KeyGameOOB),
		statGenerated: reg.Ints.Get(status.KeyLevelGenerated),
		statExhausted: reg.Ints.Get(status.KeyLevelExhausted),
		statPhase:     reg.Strings.Get(status.KeyEnginePhase),
		statBeta:      reg.Floats.Get(status.KeyTiltBeta),
		statGamma:     reg.Floats.Get(status.KeyTiltGamma),
	}

	walls, exhausted := g.gen.PlaceWalls(g.ball.StartX, g.ball.StartY, g.goal.X, g.goal.Y)
	g.walls = walls
	g.exhausted = exhausted > 0
	g.statGenerated.Add(1)
	g.statExhausted.Add(int64(exhausted))
	g.statPhase.Store(g.phase.String())
	g.phaseStartTime = clock.Now()

	return g
}

// Start begins the session according to the sensor capability
func (g *Game) Start(capability Capability) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	if g.phase != PhaseUninitialized {
		return
	}

	g.pushScore()

	switch capability {
	case CapabilityPermission:
		g.setStatus(constant.StatusNeedPermission)
		g.mustTransition(PhaseAwaitingPermission, now)
	case CapabilityNone:
		g.setStatus(constant.StatusUnsupported)
		g.startSession(now)
	default:
		g.setStatus(constant.StatusTiltPrompt)
		g.startSession(now)
	}
}

// EventTypes implements events.Handler
func (g *Game) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventPermissionResult,
		events.EventLevelRefreshRequest,
	}
}

// HandleEvent implements events.Handler for control requests from input and network goroutines
func (g *Game) HandleEvent(_ *Game, ev events.GameEvent) {
	switch ev.Type {
	case events.EventPermissionResult:
		if p, ok := ev.Payload.(*events.PermissionResultPayload); ok {
			g.ApplyPermission(*p)
		}
	case events.EventLevelRefreshRequest:
		g.RefreshLevel()
	}
}

// ApplyPermission handles the answer to a sensor permission request
// Denial and failure leave the game waiting; a later grant still starts the session
// Results arriving outside AwaitingPermission are ignored
func (g *Game) ApplyPermission(p events.PermissionResultPayload) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseAwaitingPermission {
		log.Printf("engine: sensor permission %s ignored in phase %s", p.State, g.phase)
		return
	}
	log.Printf("engine: sensor permission %s", p.State)

	switch p.State {
	case events.PermissionGranted:
		g.setStatus(constant.StatusTiltPrompt)
		g.startSession(g.clock.Now())
	case events.PermissionDenied:
		g.setStatus(constant.StatusDenied)
	default:
		g.setStatus(constant.StatusErrorPrefix + p.Err)
	}
}

// RefreshLevel places a new start, goal and walls without touching score or phase
func (g *Game) RefreshLevel() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	g.regenerate()
	g.showMessage(constant.MessageLevelRefresh, g.cfg.NoticeDuration, now)
}

// Update runs one tick: due sequence steps first, then physics when active
func (g *Game) Update(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.tick++
	g.statTicks.Store(int64(g.tick))

	g.seq.Advance(now)

	if g.phase != PhaseActive {
		return
	}

	r := g.sampler.Read()
	g.statBeta.Set(r.Beta)
	g.statGamma.Set(r.Gamma)

	// Speed into the wall is read before the step resolves the contact
	preVX, preVY := g.ball.VX, g.ball.VY
	out := physics.Step(&g.ball, r.Beta, r.Gamma, g.walls, &g.goal, &g.cfg.Physics)

	if out.Contact.Hit() {
		g.statBounces.Add(1)
		speed := preVX
		if out.Contact.Face == physics.FaceTop || out.Contact.Face == physics.FaceBottom {
			speed = preVY
		}
		if speed < 0 {
			speed = -speed
		}
		g.emit(events.EventWallBounce, &events.WallBouncePayload{
			WallIndex: out.Contact.WallIndex,
			Face:      out.Contact.Face.String(),
			Speed:     speed,
		}, now)
	}

	if out.OutOfBounds {
		g.statOOB.Add(1)
		g.emit(events.EventOutOfBounds, &events.OutOfBoundsPayload{X: g.ball.X, Y: g.ball.Y}, now)
		g.showMessage(constant.MessageOutOfBounds, g.cfg.NoticeDuration, now)
	}

	if out.GoalReached {
		g.beginGoalSequence(now)
	}
}

// Snapshot returns a consistent copy of the state for rendering
func (g *Game) Snapshot() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return Snapshot{
		Tick:       g.tick,
		Phase:      g.phase,
		Ball:       g.ball,
		Goal:       g.goal,
		Walls:      g.walls,
		Tilt:       g.sampler.Read(),
		Score:      g.score,
		Message:    g.message,
		Status:     g.statusText,
		CanvasW:    g.cfg.Physics.CanvasWidth,
		CanvasH:    g.cfg.Physics.CanvasHeight,
		Exhausted:  g.exhausted,
		SequenceID: g.seq.Current(),
		PhaseAge:   g.clock.Now().Sub(g.phaseStartTime),
	}
}

// Phase returns the current phase
func (g *Game) Phase() Phase {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.phase
}

// Score returns the number of goals this session
func (g *Game) Score() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.score
}

// Sampler returns the tilt source the game reads each tick
func (g *Game) Sampler() *tilt.Sampler {
	return g.sampler
}

// Queue returns the queue the game emits into
func (g *Game) Queue() *events.EventQueue {
	return g.queue
}

// startSession enters SequencingReady and schedules the switch to Active
func (g *Game) startSession(now time.Time) {
	g.mustTransition(PhaseSequencingReady, now)
	g.emit(events.EventSessionStart, nil, now)

	id := g.seq.Begin()
	g.showMessage(constant.MessageReady, 0, now)
	g.seq.Schedule(id, now.Add(g.cfg.ReadyDelay), "ready->active", func(at time.Time) {
		g.mustTransition(PhaseActive, at)
		g.showMessage(constant.MessageStart, g.cfg.StartMessageDuration, at)
	})
}

// beginGoalSequence counts the goal, swaps the level and re-arms play after two delays
func (g *Game) beginGoalSequence(now time.Time) {
	g.mustTransition(PhaseSequencingGoal, now)

	g.score++
	g.statScore.Store(int64(g.score))
	g.emit(events.EventGoalReached, &events.GoalReachedPayload{Score: g.score, X: g.goal.X, Y: g.goal.Y}, now)
	g.pushScore()

	id := g.seq.Begin()
	g.showMessage(constant.MessageGoal, 0, now)
	g.regenerate()

	g.seq.Schedule(id, now.Add(g.cfg.GoalReadyDelay), "goal->ready", func(at time.Time) {
		g.showMessage(constant.MessageReady, 0, at)
		g.seq.Schedule(id, at.Add(g.cfg.GoalStartDelay), "ready->active", func(at time.Time) {
			g.mustTransition(PhaseActive, at)
			g.showMessage(constant.MessageStart, g.cfg.StartMessageDuration, at)
		})
	})
}

// regenerate swaps in a new level and resets the ball to its new start
func (g *Game) regenerate() {
	lvl := g.gen.Regenerate(&g.ball, &g.goal)
	g.walls = lvl.Walls
	g.exhausted = lvl.Exhausted || lvl.ExhaustedWalls > 0

	g.statGenerated.Add(1)
	if lvl.Exhausted {
		g.statExhausted.Add(1)
	}
	g.statExhausted.Add(int64(lvl.ExhaustedWalls))

	g.emit(events.EventLevelRegenerated, &events.LevelRegeneratedPayload{
		Walls:          len(lvl.Walls),
		Attempts:       lvl.Attempts,
		Exhausted:      lvl.Exhausted,
		ExhaustedWalls: lvl.ExhaustedWalls,
	}, g.clock.Now())
}

// showMessage replaces the centred message; a positive duration schedules a token-bound clear
func (g *Game) showMessage(text string, d time.Duration, now time.Time) {
	g.messageToken++
	token := g.messageToken
	g.message = text

	g.emit(events.EventMessageShow, &events.MessageShowPayload{Text: text, Duration: d, Token: token}, now)

	if d <= 0 {
		return
	}
	g.seq.After(now.Add(d), "message-clear", func(at time.Time) {
		if g.messageToken == token {
			g.message = ""
		}
		g.emit(events.EventMessageClear, &events.MessageClearPayload{Token: token}, at)
	})
}

func (g *Game) setStatus(text string) {
	g.statusText = text
	g.emit(events.EventStatusText, &events.StatusTextPayload{Text: text}, g.clock.Now())
}

func (g *Game) pushScore() {
	g.emit(events.EventScoreChanged, &events.ScoreChangedPayload{
		Score: g.score,
		Text:  constant.ScorePrefix + strconv.Itoa(g.score),
	}, g.clock.Now())
}

// mustTransition panics on an illegal phase change
func (g *Game) mustTransition(to Phase, now time.Time) {
	from := g.phase
	if !CanTransition(from, to) {
		panic("engine: illegal phase transition " + from.String() + " -> " + to.String())
	}
	g.phase = to
	g.phaseStartTime = now
	g.statPhase.Store(to.String())
	g.emit(events.EventPhaseChanged, &events.PhaseChangedPayload{From: from.String(), To: to.String()}, now)
}

func (g *Game) emit(t events.EventType, payload any, now time.Time) {
	if g.queue == nil {
		return
	}
	g.queue.Push(events.GameEvent{Type: t, Payload: payload, Tick: g.tick, Timestamp: now})
}
