package engine

import (
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/tiltball/constant"
	"github.com/lixenwraith/tiltball/events"
	"github.com/lixenwraith/tiltball/status"
	"github.com/lixenwraith/tiltball/tilt"
	"github.com/lixenwraith/tiltball/vmath"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type fixture struct {
	game    *Game
	clock   *MockTimeProvider
	queue   *events.EventQueue
	sampler *tilt.Sampler
	reg     *status.Registry
}

func newFixture(t *testing.T, seed int64) *fixture {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Level.Seed = seed

	f := &fixture{
		clock:   NewMockTimeProvider(epoch),
		queue:   events.NewEventQueue(),
		sampler: tilt.NewSampler(),
		reg:     status.NewRegistry(),
	}
	f.game = NewGame(cfg, f.clock, f.sampler, f.queue, f.reg)
	return f
}

// advance moves the clock and runs one update
func (f *fixture) advance(d time.Duration) {
	f.game.Update(f.clock.Advance(d))
}

// messages drains the queue and returns the texts of shown messages
func (f *fixture) messages() []string {
	var out []string
	for _, ev := range f.queue.Consume() {
		if p, ok := ev.Payload.(*events.MessageShowPayload); ok {
			out = append(out, p.Text)
		}
	}
	return out
}

func (f *fixture) activate(t *testing.T) {
	t.Helper()
	f.game.Start(CapabilityDirect)
	f.advance(constant.ReadyDelay)
	if f.game.Phase() != PhaseActive {
		t.Fatalf("phase = %s, want Active", f.game.Phase())
	}
	f.queue.Consume()
}

func TestNewGameDefaults(t *testing.T) {
	f := newFixture(t, 1)
	s := f.game.Snapshot()

	if s.Phase != PhaseUninitialized {
		t.Errorf("phase = %s", s.Phase)
	}
	if s.Ball.X != 50 || s.Ball.Y != 50 || s.Goal.X != 350 || s.Goal.Y != 350 {
		t.Errorf("unexpected start/goal %+v %+v", s.Ball, s.Goal)
	}
	if len(s.Walls) != constant.WallCount {
		t.Errorf("walls = %d, want %d", len(s.Walls), constant.WallCount)
	}
	if s.Phase.PermissionGranted() || s.Phase.Playing() || s.Phase.Waiting() {
		t.Error("uninitialized phase reports a started session")
	}
}

func TestStartDirectSequencesToActive(t *testing.T) {
	f := newFixture(t, 1)
	f.game.Start(CapabilityDirect)

	if f.game.Phase() != PhaseSequencingReady {
		t.Fatalf("phase = %s, want SequencingReady", f.game.Phase())
	}
	if got := f.messages(); len(got) != 1 || got[0] != constant.MessageReady {
		t.Fatalf("messages = %v, want [Ready?]", got)
	}

	f.advance(constant.ReadyDelay - time.Millisecond)
	if f.game.Phase() != PhaseSequencingReady {
		t.Fatal("activated before the ready delay elapsed")
	}

	f.advance(time.Millisecond)
	if f.game.Phase() != PhaseActive {
		t.Fatalf("phase = %s, want Active", f.game.Phase())
	}
	if age := f.game.Snapshot().PhaseAge; age != 0 {
		t.Errorf("phase age = %v right after activation, want 0", age)
	}
	f.clock.Advance(250 * time.Millisecond)
	if age := f.game.Snapshot().PhaseAge; age != 250*time.Millisecond {
		t.Errorf("phase age = %v, want 250ms", age)
	}
	if got := f.messages(); len(got) != 1 || got[0] != constant.MessageStart {
		t.Fatalf("messages = %v, want [Start!]", got)
	}

	// Start! clears itself after its duration
	f.advance(constant.StartMessageDuration)
	if s := f.game.Snapshot(); s.Message != "" {
		t.Errorf("message = %q after expiry", s.Message)
	}
	t.Logf("✓ Ready? -> Start! -> cleared")
}

func TestStartWithoutSensor(t *testing.T) {
	f := newFixture(t, 1)
	f.game.Start(CapabilityNone)

	s := f.game.Snapshot()
	if s.Status != constant.StatusUnsupported {
		t.Errorf("status = %q", s.Status)
	}
	if s.Phase != PhaseSequencingReady {
		t.Errorf("phase = %s, want SequencingReady", s.Phase)
	}
	// Second Start is ignored
	f.game.Start(CapabilityPermission)
	if f.game.Phase() != PhaseSequencingReady {
		t.Error("second Start changed phase")
	}
}

func TestWaitingPhasesFreezeBall(t *testing.T) {
	f := newFixture(t, 2)
	f.sampler.Set(30, 100)

	f.game.Start(CapabilityPermission)
	if f.game.Phase() != PhaseAwaitingPermission {
		t.Fatalf("phase = %s", f.game.Phase())
	}

	before := f.game.Snapshot().Ball
	for i := 0; i < 50; i++ {
		f.advance(constant.GameUpdateInterval)
	}
	if after := f.game.Snapshot().Ball; after != before {
		t.Fatalf("ball moved while awaiting permission: %+v -> %+v", before, after)
	}

	f.game.ApplyPermission(events.PermissionResultPayload{State: events.PermissionGranted})
	for i := 0; i < 10; i++ {
		f.advance(constant.GameUpdateInterval)
	}
	if after := f.game.Snapshot().Ball; after != before {
		t.Fatalf("ball moved while sequencing ready: %+v -> %+v", before, after)
	}
}

func TestPermissionResults(t *testing.T) {
	f := newFixture(t, 3)
	f.game.Start(CapabilityPermission)

	f.game.ApplyPermission(events.PermissionResultPayload{State: events.PermissionDenied})
	if s := f.game.Snapshot(); s.Status != constant.StatusDenied || s.Phase != PhaseAwaitingPermission {
		t.Errorf("after deny: status %q phase %s", s.Status, s.Phase)
	}

	f.game.ApplyPermission(events.PermissionResultPayload{State: events.PermissionFailed, Err: "boom"})
	if s := f.game.Snapshot(); s.Status != "Error: boom" || s.Phase != PhaseAwaitingPermission {
		t.Errorf("after failure: status %q phase %s", s.Status, s.Phase)
	}

	// Delivered through the handler path like the network would
	f.game.HandleEvent(f.game, events.GameEvent{
		Type:    events.EventPermissionResult,
		Payload: &events.PermissionResultPayload{State: events.PermissionGranted},
	})
	if s := f.game.Snapshot(); s.Status != constant.StatusTiltPrompt || s.Phase != PhaseSequencingReady {
		t.Errorf("after grant: status %q phase %s", s.Status, s.Phase)
	}

	// A late duplicate grant does nothing
	seq := f.game.Snapshot().SequenceID
	f.game.ApplyPermission(events.PermissionResultPayload{State: events.PermissionGranted})
	if f.game.Snapshot().SequenceID != seq {
		t.Error("duplicate grant restarted the ready sequence")
	}
}

func TestLatePermissionResultIgnored(t *testing.T) {
	f := newFixture(t, 3)
	f.game.Start(CapabilityPermission)
	f.game.ApplyPermission(events.PermissionResultPayload{State: events.PermissionGranted})
	f.advance(constant.ReadyDelay)
	if f.game.Phase() != PhaseActive {
		t.Fatalf("phase = %s, want Active", f.game.Phase())
	}

	// A reconnecting phone re-reports its permission state mid-session
	f.game.ApplyPermission(events.PermissionResultPayload{State: events.PermissionDenied})
	f.game.ApplyPermission(events.PermissionResultPayload{State: events.PermissionFailed, Err: "boom"})
	if s := f.game.Snapshot(); s.Status != constant.StatusTiltPrompt || s.Phase != PhaseActive {
		t.Errorf("late results changed status %q phase %s", s.Status, s.Phase)
	}

	idle := newFixture(t, 3)
	idle.game.ApplyPermission(events.PermissionResultPayload{State: events.PermissionDenied})
	if s := idle.game.Snapshot(); s.Status != "" || s.Phase != PhaseUninitialized {
		t.Errorf("result before start changed status %q phase %s", s.Status, s.Phase)
	}
	t.Logf("✓ Permission results outside AwaitingPermission are ignored")
}

func TestActiveTickIntegrates(t *testing.T) {
	f := newFixture(t, 4)
	f.activate(t)

	f.game.mu.Lock()
	f.game.walls = nil
	f.game.ball.X, f.game.ball.Y = 50, 50
	f.game.ball.VX, f.game.ball.VY = 0, 0
	f.game.mu.Unlock()

	f.sampler.Set(0, 100)
	f.advance(constant.GameUpdateInterval)

	b := f.game.Snapshot().Ball
	if math.Abs(b.VX-14.7) > 1e-9 || math.Abs(b.X-64.7) > 1e-9 || b.Y != 50 || b.VY != 0 {
		t.Errorf("ball = %+v, want pos (64.7,50) vel (14.7,0)", b)
	}
	if got := f.reg.Floats.Get(status.KeyTiltGamma).Get(); got != 100 {
		t.Errorf("tilt.gamma metric = %v", got)
	}
}

func TestZeroTiltSpeedDecays(t *testing.T) {
	f := newFixture(t, 5)
	f.activate(t)

	f.game.mu.Lock()
	f.game.walls = nil
	f.game.ball.X, f.game.ball.Y = 200, 200
	f.game.ball.VX, f.game.ball.VY = 3, -2
	f.game.goal.X, f.game.goal.Y = 390, 390
	f.game.mu.Unlock()

	prev := math.Hypot(3, -2)
	for i := 0; i < 30; i++ {
		f.advance(constant.GameUpdateInterval)
		b := f.game.Snapshot().Ball
		speed := math.Hypot(b.VX, b.VY)
		if speed >= prev {
			t.Fatalf("tick %d: speed %v not below %v", i, speed, prev)
		}
		prev = speed
	}
}

func TestOutOfBoundsResetsAndNotifies(t *testing.T) {
	f := newFixture(t, 6)
	f.activate(t)

	f.game.mu.Lock()
	f.game.walls = nil
	f.game.ball.X = 430
	f.game.mu.Unlock()

	f.advance(constant.GameUpdateInterval)

	s := f.game.Snapshot()
	if s.Ball.X != s.Ball.StartX || s.Ball.Y != s.Ball.StartY || s.Ball.VX != 0 || s.Ball.VY != 0 {
		t.Errorf("ball not reset: %+v", s.Ball)
	}
	if s.Phase != PhaseActive {
		t.Errorf("phase = %s, out of bounds must not change phase", s.Phase)
	}
	if s.Message != constant.MessageOutOfBounds {
		t.Errorf("message = %q", s.Message)
	}
	if f.reg.Ints.Get(status.KeyGameOOB).Load() != 1 {
		t.Error("out-of-bounds metric not counted")
	}

	f.advance(constant.NoticeDuration)
	if s := f.game.Snapshot(); s.Message != "" {
		t.Errorf("notice not cleared: %q", s.Message)
	}
}

func TestThreeGoalsScoreThree(t *testing.T) {
	f := newFixture(t, 42)
	f.activate(t)

	for goal := 1; goal <= 3; goal++ {
		f.game.mu.Lock()
		f.game.walls = nil
		f.game.ball.X, f.game.ball.Y = f.game.goal.X, f.game.goal.Y
		f.game.ball.VX, f.game.ball.VY = 0, 0
		f.game.mu.Unlock()

		f.advance(constant.GameUpdateInterval)

		s := f.game.Snapshot()
		if s.Phase != PhaseSequencingGoal {
			t.Fatalf("goal %d: phase = %s, want SequencingGoal", goal, s.Phase)
		}
		if s.Score != goal {
			t.Fatalf("score = %d, want %d", s.Score, goal)
		}
		if s.Message != constant.MessageGoal {
			t.Errorf("message = %q, want goal message", s.Message)
		}
		if s.Ball.X != s.Ball.StartX || s.Ball.Y != s.Ball.StartY {
			t.Errorf("ball not at new start: %+v", s.Ball)
		}
		if len(s.Walls) != 3 {
			t.Fatalf("walls = %d, want 3", len(s.Walls))
		}
		if !s.Exhausted {
			for i, w := range s.Walls {
				if vmath.Distance(w.X, w.Y, s.Ball.StartX, s.Ball.StartY) <= 50 ||
					vmath.Distance(w.X, w.Y, s.Goal.X, s.Goal.Y) <= 50 {
					t.Errorf("goal %d wall %d within clearance", goal, i)
				}
			}
			if vmath.Distance(s.Ball.StartX, s.Ball.StartY, s.Goal.X, s.Goal.Y) <= 150 {
				t.Errorf("goal %d: start/goal too close", goal)
			}
		}

		// Ball frozen during the goal sequence
		frozen := s.Ball
		f.advance(constant.GoalReadyDelay)
		if got := f.game.Snapshot(); got.Message != constant.MessageReady || got.Ball != frozen {
			t.Errorf("after goal-ready delay: message %q ball %+v", got.Message, got.Ball)
		}
		f.advance(constant.GoalStartDelay)
		if got := f.game.Snapshot(); got.Phase != PhaseActive || got.Message != constant.MessageStart {
			t.Fatalf("after goal-start delay: phase %s message %q", got.Phase, got.Message)
		}
	}

	if got := f.reg.Ints.Get(status.KeyGameScore).Load(); got != 3 {
		t.Errorf("score metric = %d", got)
	}
	t.Logf("✓ three goals scored with fresh levels")
}

func TestRefreshKeepsScoreAndPhase(t *testing.T) {
	f := newFixture(t, 7)
	f.activate(t)

	f.game.mu.Lock()
	f.game.score = 2
	f.game.mu.Unlock()
	before := f.game.Snapshot()

	f.game.HandleEvent(f.game, events.GameEvent{Type: events.EventLevelRefreshRequest})

	after := f.game.Snapshot()
	if after.Score != 2 || after.Phase != PhaseActive {
		t.Errorf("score %d phase %s after refresh", after.Score, after.Phase)
	}
	if after.Message != constant.MessageLevelRefresh {
		t.Errorf("message = %q", after.Message)
	}
	if after.Goal == before.Goal && after.Ball.StartX == before.Ball.StartX {
		t.Error("level not regenerated")
	}
	if f.reg.Ints.Get(status.KeyLevelGenerated).Load() != 2 {
		t.Errorf("level.generated = %d, want 2", f.reg.Ints.Get(status.KeyLevelGenerated).Load())
	}
}

func TestMessageClearIsTokenBound(t *testing.T) {
	f := newFixture(t, 8)

	f.game.mu.Lock()
	f.game.showMessage("first", 3*time.Second, f.clock.Now())
	first := f.game.messageToken
	f.game.mu.Unlock()

	f.advance(time.Second)

	f.game.mu.Lock()
	f.game.showMessage("second", 0, f.clock.Now())
	f.game.mu.Unlock()
	f.queue.Consume()

	f.advance(2 * time.Second)

	if s := f.game.Snapshot(); s.Message != "second" {
		t.Errorf("message = %q, expiry of first cleared the second", s.Message)
	}

	var cleared []uint64
	for _, ev := range f.queue.Consume() {
		if p, ok := ev.Payload.(*events.MessageClearPayload); ok {
			cleared = append(cleared, p.Token)
		}
	}
	if len(cleared) != 1 || cleared[0] != first {
		t.Errorf("clear tokens = %v, want [%d]", cleared, first)
	}
}

func TestGoalSequenceSupersededByNewSequence(t *testing.T) {
	f := newFixture(t, 9)
	f.activate(t)

	f.game.mu.Lock()
	f.game.walls = nil
	f.game.ball.X, f.game.ball.Y = f.game.goal.X, f.game.goal.Y
	f.game.mu.Unlock()
	f.advance(constant.GameUpdateInterval)

	// A newer sequence cancels the pending goal steps
	f.game.mu.Lock()
	f.game.seq.Begin()
	f.game.mu.Unlock()

	f.advance(constant.GoalReadyDelay + constant.GoalStartDelay)
	if f.game.Phase() != PhaseSequencingGoal {
		t.Errorf("phase = %s, stale steps must not fire", f.game.Phase())
	}
}
