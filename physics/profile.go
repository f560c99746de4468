package physics

import "github.com/lixenwraith/tiltball/constant"

// Params holds the per-tick physics tuning for one game
type Params struct {
	TiltSensitivity float64
	Friction        float64
	Restitution     float64
	CanvasWidth     float64
	CanvasHeight    float64
}

// DefaultParams returns the stock tuning
func DefaultParams() Params {
	return Params{
		TiltSensitivity: constant.TiltSensitivity,
		Friction:        constant.Friction,
		Restitution:     constant.WallRestitution,
		CanvasWidth:     constant.CanvasWidth,
		CanvasHeight:    constant.CanvasHeight,
	}
}
