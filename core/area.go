package core

import "github.com/lixenwraith/tiltball/vmath"

// Wall is an immutable axis-aligned obstacle described by its centre
type Wall struct {
	X, Y          float64 // Centre
	Width, Height float64
	// Horizontal records the generation orientation, the long side is Width when true
	Horizontal bool
}

// NewWall builds a wall of given long-side length and thickness
func NewWall(x, y, length, thickness float64, horizontal bool) Wall {
	w := Wall{X: x, Y: y, Horizontal: horizontal}
	if horizontal {
		w.Width, w.Height = length, thickness
	} else {
		w.Width, w.Height = thickness, length
	}
	return w
}

// Bounds returns the wall's bounding box
func (w Wall) Bounds() vmath.Rect {
	return vmath.RectFromCenter(w.X, w.Y, w.Width, w.Height)
}
