package engine

import (
	"sync"
	"testing"
	"time"
)

var (
	_ Clock = (*TimeProvider)(nil)
	_ Clock = (*MockTimeProvider)(nil)
	_ Clock = (*PausableClock)(nil)
)

func TestTimeProviderMonotonic(t *testing.T) {
	p := NewTimeProvider()
	t1 := p.Now()
	time.Sleep(5 * time.Millisecond)
	if d := p.Now().Sub(t1); d < 5*time.Millisecond {
		t.Errorf("elapsed %v, want at least 5ms", d)
	}
}

func TestMockTimeProvider(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(start)

	if !mock.Now().Equal(start) {
		t.Fatalf("initial time %v, want %v", mock.Now(), start)
	}
	if got := mock.Advance(750 * time.Millisecond); !got.Equal(start.Add(750 * time.Millisecond)) {
		t.Errorf("Advance returned %v", got)
	}
	jump := start.Add(time.Hour)
	mock.SetTime(jump)
	if !mock.Now().Equal(jump) {
		t.Errorf("SetTime: now %v, want %v", mock.Now(), jump)
	}
}

func TestMockTimeProviderConcurrency(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(start)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = mock.Now()
			}
		}()
	}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				mock.Advance(time.Millisecond)
			}
		}()
	}
	wg.Wait()

	if want := start.Add(250 * time.Millisecond); !mock.Now().Equal(want) {
		t.Errorf("now %v, want %v", mock.Now(), want)
	}
}

func TestPausableClockFreezesGameTime(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	base := NewMockTimeProvider(start)
	pc := NewPausableClock(base)

	base.Advance(time.Second)
	if got := pc.Now(); !got.Equal(start.Add(time.Second)) {
		t.Fatalf("running clock = %v", got)
	}

	if !pc.Toggle() || !pc.IsPaused() {
		t.Fatal("Toggle did not pause")
	}
	pc.Pause() // no-op while paused
	base.Advance(5 * time.Second)
	if got := pc.Now(); !got.Equal(start.Add(time.Second)) {
		t.Errorf("paused clock moved to %v", got)
	}
	if d := pc.TotalPauseDuration(); d != 5*time.Second {
		t.Errorf("pause so far = %v, want 5s", d)
	}

	if pc.Toggle() {
		t.Fatal("Toggle did not resume")
	}
	pc.Resume() // no-op while running
	base.Advance(2 * time.Second)
	if got := pc.Now(); !got.Equal(start.Add(3 * time.Second)) {
		t.Errorf("resumed clock = %v, want start+3s", got)
	}
	if d := pc.TotalPauseDuration(); d != 5*time.Second {
		t.Errorf("total pause = %v, want 5s", d)
	}
	t.Logf("✓ game time excludes pauses")
}
