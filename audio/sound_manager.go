package audio

import (
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/tiltball/constant"
	"github.com/lixenwraith/tiltball/engine"
	"github.com/lixenwraith/tiltball/events"
	"github.com/lixenwraith/tiltball/service"
	"github.com/lixenwraith/tiltball/status"
)

var _ service.Service = (*SoundManager)(nil)

// SoundManager manages all game audio
// Every method is safe to call before Initialize or after it failed; playback is then a no-op
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	cache       *soundCache
	volume      float64
	muted       bool
	initialized bool

	lastPlayed [soundTypeCount]time.Time
	now        func() time.Time
	output     func(beep.Streamer)

	played    [soundTypeCount]atomic.Int64
	statAudio *atomic.Bool
}

// NewSoundManager creates a new sound manager at the given volume in [0,1]
func NewSoundManager(volume float64, reg *status.Registry) *SoundManager {
	sm := &SoundManager{
		mixer:     &beep.Mixer{},
		cache:     newSoundCache(),
		volume:    clampVolume(volume),
		now:       time.Now,
		statAudio: reg.Bools.Get(status.KeyAudioEnabled),
	}
	sm.output = sm.playSpeaker
	return sm
}

// Initialize sets up the audio system
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	err := speaker.Init(sampleRate, sampleRate.N(constant.AudioBufferDuration))
	if err != nil {
		return err
	}

	sm.cache.preload()
	speaker.Play(sm.mixer)
	sm.initialized = true
	sm.statAudio.Store(!sm.muted)
	return nil
}

// Cleanup stops all sounds and closes the audio system
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	speaker.Close()

	sm.initialized = false
	sm.statAudio.Store(false)
}

// Play mixes one sound effect, dropping repeats closer than MinSoundGap
func (sm *SoundManager) Play(st SoundType) {
	if st < 0 || st >= soundTypeCount {
		return
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.muted || sm.volume == 0 {
		return
	}

	now := sm.now()
	if last := sm.lastPlayed[st]; !last.IsZero() && now.Sub(last) < constant.MinSoundGap {
		return
	}
	sm.lastPlayed[st] = now

	buf := sm.cache.get(st)
	if len(buf) == 0 {
		return
	}
	sm.output(newBufferStreamer(buf, sm.volume))
	sm.played[st].Add(1)
}

func (sm *SoundManager) playSpeaker(s beep.Streamer) {
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// SetVolume sets the output gain, clamped to [0,1]; applies to sounds started afterwards
func (sm *SoundManager) SetVolume(v float64) {
	sm.mu.Lock()
	sm.volume = clampVolume(v)
	sm.mu.Unlock()
}

// Volume returns the current output gain
func (sm *SoundManager) Volume() float64 {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.volume
}

// SetMuted silences new sounds without tearing down the speaker
func (sm *SoundManager) SetMuted(muted bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.muted = muted
	sm.statAudio.Store(sm.initialized && !muted)
}

// ToggleMute flips the mute state and returns the new value
func (sm *SoundManager) ToggleMute() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.muted = !sm.muted
	sm.statAudio.Store(sm.initialized && !sm.muted)
	return sm.muted
}

// Enabled reports whether sounds would currently be heard
func (sm *SoundManager) Enabled() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized && !sm.muted && sm.volume > 0
}

// PlayCount returns how many times a sound was mixed
func (sm *SoundManager) PlayCount(st SoundType) int64 {
	if st < 0 || st >= soundTypeCount {
		return 0
	}
	return sm.played[st].Load()
}

// EventTypes implements events.Handler
func (sm *SoundManager) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventGoalReached,
		events.EventWallBounce,
		events.EventOutOfBounds,
	}
}

// HandleEvent implements events.Handler
func (sm *SoundManager) HandleEvent(_ *engine.Game, ev events.GameEvent) {
	switch ev.Type {
	case events.EventGoalReached:
		sm.Play(SoundChime)
	case events.EventWallBounce:
		if p, ok := ev.Payload.(*events.WallBouncePayload); ok && p.Speed < constant.ThudMinSpeed {
			return
		}
		sm.Play(SoundThud)
	case events.EventOutOfBounds:
		sm.Play(SoundBuzz)
	}
}

// Name implements service.Service
func (sm *SoundManager) Name() string { return "audio" }

// Dependencies implements service.Service
func (sm *SoundManager) Dependencies() []string { return nil }

// Start implements service.Service
// A speaker that cannot be opened is logged and the game continues silently
func (sm *SoundManager) Start() error {
	if err := sm.Initialize(); err != nil {
		log.Printf("audio unavailable, continuing silently: %v", err)
	}
	return nil
}

// Stop implements service.Service
func (sm *SoundManager) Stop() error {
	sm.Cleanup()
	return nil
}

func clampVolume(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
