package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/tiltball/core"
	"github.com/lixenwraith/tiltball/events"
	"github.com/lixenwraith/tiltball/status"
)

// pauser is implemented by clocks that can freeze game time
type pauser interface {
	IsPaused() bool
}

// TickHook runs on the tick goroutine after each processed tick
type TickHook func(tick uint64)

// ClockScheduler runs game logic on a fixed tick with drift correction
// It is the only goroutine that mutates the Game
type ClockScheduler struct {
	game   *Game
	clock  Clock
	router *events.Router[*Game]

	// Tick configuration
	tickInterval     time.Duration
	lastGameTickTime time.Time // Last tick in game time
	nextTickDeadline time.Time // Next tick deadline for drift correction

	tickCount atomic.Uint64
	mu        sync.RWMutex

	// Control channels
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	// Signal to the renderer that state changed
	updateDone chan struct{}

	hooks []TickHook

	// Cached metric pointers
	statTickTime *status.AtomicFloat
	statDropped  *atomic.Int64
}

// NewClockScheduler creates a scheduler for game, reading time from clock
// Returns the scheduler and a channel signalled after every processed tick
func NewClockScheduler(game *Game, clock Clock, tickInterval time.Duration, reg *status.Registry) (*ClockScheduler, <-chan struct{}) {
	updateDone := make(chan struct{}, 1)

	cs := &ClockScheduler{
		game:             game,
		clock:            clock,
		router:           events.NewRouter[*Game](game.Queue()),
		tickInterval:     tickInterval,
		lastGameTickTime: clock.Now(),
		stopChan:         make(chan struct{}),
		updateDone:       updateDone,
		statTickTime:     reg.Floats.Get(status.KeyEngineTickTime),
		statDropped:      reg.Ints.Get(status.KeyEventsDropped),
	}
	cs.router.Register(game)

	return cs, updateDone
}

// RegisterEventHandler adds an event handler to router, must be called before Start()
func (cs *ClockScheduler) RegisterEventHandler(handler events.Handler[*Game]) {
	cs.router.Register(handler)
}

// OnTick adds a hook run after every tick, must be called before Start()
func (cs *ClockScheduler) OnTick(hook TickHook) {
	cs.hooks = append(cs.hooks, hook)
}

// TickCount returns the number of processed ticks
func (cs *ClockScheduler) TickCount() uint64 {
	return cs.tickCount.Load()
}

// Start begins the scheduler loop
func (cs *ClockScheduler) Start() {
	if cs.running.CompareAndSwap(false, true) {
		cs.wg.Add(1)
		core.Go(cs.schedulerLoop)
	}
}

// Stop halts the scheduler loop and waits for the current tick to finish
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		if cs.running.CompareAndSwap(true, false) {
			close(cs.stopChan)
			cs.wg.Wait()
		}
	})
}

// Step processes one tick synchronously at the clock's current time
// Used by tests and by callers driving the game without the loop
func (cs *ClockScheduler) Step() {
	cs.processTick(cs.clock.Now())
	cs.tickCount.Add(1)
}

func (cs *ClockScheduler) isPaused() bool {
	p, ok := cs.clock.(pauser)
	return ok && p.IsPaused()
}

// schedulerLoop runs the main scheduling loop with pause awareness
func (cs *ClockScheduler) schedulerLoop() {
	defer cs.wg.Done()

	cs.mu.Lock()
	cs.nextTickDeadline = cs.clock.Now().Add(cs.tickInterval)
	cs.lastGameTickTime = cs.clock.Now()
	cs.mu.Unlock()

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	for {
		select {
		case <-cs.stopChan:
			return
		default:
		}

		var sleepDuration time.Duration

		if cs.isPaused() {
			// Control requests still drain so quit and refresh stay responsive
			cs.router.DispatchAll(cs.game)
			sleepDuration = cs.tickInterval * 2
		} else {
			gameNow := cs.clock.Now()

			cs.mu.RLock()
			deadline := cs.nextTickDeadline
			cs.mu.RUnlock()

			if !gameNow.Before(deadline) {
				cs.processTick(gameNow)

				cs.mu.Lock()
				cs.lastGameTickTime = gameNow
				cs.nextTickDeadline = cs.nextTickDeadline.Add(cs.tickInterval)

				maxBehind := cs.tickInterval * 2
				if gameNow.Sub(cs.nextTickDeadline) > maxBehind {
					cs.nextTickDeadline = gameNow.Add(cs.tickInterval)
				}
				deadline = cs.nextTickDeadline
				cs.mu.Unlock()

				cs.tickCount.Add(1)

				sleepDuration = deadline.Sub(cs.clock.Now())
				if sleepDuration < 0 {
					sleepDuration = 0
				}
			} else {
				sleepDuration = deadline.Sub(gameNow)
			}
		}

		if sleepDuration > 0 {
			timer.Reset(sleepDuration)
			select {
			case <-timer.C:
			case <-cs.stopChan:
				return
			}
		}
	}
}

// processTick dispatches control events, updates the game, then delivers what the update emitted
func (cs *ClockScheduler) processTick(now time.Time) {
	start := time.Now()

	cs.router.DispatchAll(cs.game)
	cs.game.Update(now)
	cs.router.DispatchAll(cs.game)

	tick := cs.tickCount.Load() + 1
	for _, hook := range cs.hooks {
		hook(tick)
	}

	cs.statTickTime.Set(float64(time.Since(start).Microseconds()) / 1000)
	cs.statDropped.Store(int64(cs.router.Queue().Dropped()))

	select {
	case cs.updateDone <- struct{}{}:
	default:
	}
}
