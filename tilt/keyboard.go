package tilt

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/tiltball/constant"
)

// Keyboard emulates a tilt sensor from arrow keys
// Each press moves the emulated device by Step degrees, clamped to ±Limit
type Keyboard struct {
	sampler *Sampler
	Step    float64
	Limit   float64
}

// NewKeyboard binds a keyboard emulator to a sampler
func NewKeyboard(s *Sampler) *Keyboard {
	return &Keyboard{
		sampler: s,
		Step:    constant.KeyboardTiltStep,
		Limit:   constant.KeyboardTiltLimit,
	}
}

// HandleKey applies a key to the emulated reading, returns false if the key is not a tilt key
func (k *Keyboard) HandleKey(ev *tcell.EventKey) bool {
	r := k.sampler.Read()

	switch ev.Key() {
	case tcell.KeyUp:
		r.Beta -= k.Step
	case tcell.KeyDown:
		r.Beta += k.Step
	case tcell.KeyLeft:
		r.Gamma -= k.Step
	case tcell.KeyRight:
		r.Gamma += k.Step
	case tcell.KeyRune:
		if ev.Rune() != ' ' {
			return false
		}
		k.sampler.Reset()
		return true
	default:
		return false
	}

	k.sampler.Set(k.clamp(r.Beta), k.clamp(r.Gamma))
	return true
}

func (k *Keyboard) clamp(v float64) float64 {
	if v > k.Limit {
		return k.Limit
	}
	if v < -k.Limit {
		return -k.Limit
	}
	return v
}
