package physics

import (
	"github.com/lixenwraith/tiltball/core"
)

// Integrate performs one tilt-driven step: v += a; v *= friction; p += v
// Acceleration is (gamma, beta) scaled by sensitivity, friction compounds every tick
func Integrate(b *core.Ball, beta, gamma float64, p *Params) {
	ax := gamma * p.TiltSensitivity
	ay := beta * p.TiltSensitivity

	b.VX += ax
	b.VY += ay

	b.VX *= p.Friction
	b.VY *= p.Friction

	b.X += b.VX
	b.Y += b.VY
}
