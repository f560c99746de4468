package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/lixenwraith/tiltball/constant"
	"github.com/lixenwraith/tiltball/events"
	"github.com/lixenwraith/tiltball/status"
	"github.com/lixenwraith/tiltball/tilt"
)

type textRecorder struct {
	shown atomic.Int32
}

func (r *textRecorder) EventTypes() []events.EventType {
	return []events.EventType{events.EventMessageShow}
}

func (r *textRecorder) HandleEvent(_ *Game, _ events.GameEvent) {
	r.shown.Add(1)
}

func TestClockSchedulerStepDispatches(t *testing.T) {
	clock := NewMockTimeProvider(epoch)
	reg := status.NewRegistry()
	queue := events.NewEventQueue()
	game := NewGame(DefaultConfig(), clock, tilt.NewSampler(), queue, reg)

	cs, updateDone := NewClockScheduler(game, clock, constant.GameUpdateInterval, reg)
	rec := &textRecorder{}
	cs.RegisterEventHandler(rec)

	var hookTicks []uint64
	cs.OnTick(func(tick uint64) { hookTicks = append(hookTicks, tick) })

	game.Start(CapabilityDirect)
	cs.Step()

	if rec.shown.Load() != 1 {
		t.Errorf("Ready? delivered %d times, want 1", rec.shown.Load())
	}
	select {
	case <-updateDone:
	default:
		t.Error("no update signal after tick")
	}

	// Refresh request from another goroutine lands on the next tick
	queue.Push(events.GameEvent{Type: events.EventLevelRefreshRequest})
	clock.Advance(constant.GameUpdateInterval)
	cs.Step()
	if rec.shown.Load() != 2 {
		t.Errorf("refresh notice not delivered, shown=%d", rec.shown.Load())
	}

	if len(hookTicks) != 2 || hookTicks[0] != 1 || hookTicks[1] != 2 {
		t.Errorf("hook ticks = %v", hookTicks)
	}
	if cs.TickCount() != 2 {
		t.Errorf("TickCount = %d", cs.TickCount())
	}

	// A burst larger than the ring overwrites the oldest events
	for i := 0; i < constant.EventQueueSize+5; i++ {
		queue.Push(events.GameEvent{Type: events.EventWallBounce})
	}
	clock.Advance(constant.GameUpdateInterval)
	cs.Step()
	if got := reg.Ints.Get(status.KeyEventsDropped).Load(); got != 5 {
		t.Errorf("%s = %d, want 5", status.KeyEventsDropped, got)
	}
}

func TestClockSchedulerLoopRunsAndStops(t *testing.T) {
	reg := status.NewRegistry()
	clock := NewTimeProvider()
	game := NewGame(DefaultConfig(), clock, tilt.NewSampler(), events.NewEventQueue(), reg)

	cs, _ := NewClockScheduler(game, clock, time.Millisecond, reg)
	cs.Start()
	cs.Start() // no second loop

	deadline := time.Now().Add(2 * time.Second)
	for cs.TickCount() < 5 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cs.Stop()
	cs.Stop()

	ticks := cs.TickCount()
	if ticks < 5 {
		t.Fatalf("only %d ticks in 2s", ticks)
	}
	time.Sleep(10 * time.Millisecond)
	if cs.TickCount() != ticks {
		t.Error("ticks continued after Stop")
	}
	if reg.Ints.Get(status.KeyEngineTicks).Load() == 0 {
		t.Error("engine.ticks metric not updated")
	}
}

func TestClockSchedulerPausedSkipsUpdates(t *testing.T) {
	base := NewMockTimeProvider(epoch)
	pc := NewPausableClock(base)
	reg := status.NewRegistry()
	game := NewGame(DefaultConfig(), pc, tilt.NewSampler(), events.NewEventQueue(), reg)
	game.Start(CapabilityDirect)

	pc.Pause()
	base.Advance(10 * time.Second)
	if !pc.Now().Equal(epoch) {
		t.Fatalf("paused clock moved to %v", pc.Now())
	}

	pc.Resume()
	base.Advance(constant.ReadyDelay)
	game.Update(pc.Now())
	if game.Phase() != PhaseActive {
		t.Errorf("phase = %s, ready delay must count only unpaused time", game.Phase())
	}
	if d := pc.TotalPauseDuration(); d != 10*time.Second {
		t.Errorf("TotalPauseDuration = %v", d)
	}
	if pc.Toggle() != true || !pc.IsPaused() {
		t.Error("Toggle did not pause")
	}
}
