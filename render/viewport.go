package render

import (
	"math"

	"github.com/lixenwraith/tiltball/constant"
)

// Viewport maps canvas units to terminal cells, preserving aspect ratio
// The playfield sits between a HUD row and a border on each side
type Viewport struct {
	OffsetX, OffsetY int     // first playfield cell
	Cols, Rows       int     // playfield size in cells
	ScaleX, ScaleY   float64 // cells per canvas unit
}

// NewViewport fits a canvasW x canvasH field into a width x height terminal
func NewViewport(width, height int, canvasW, canvasH float64) Viewport {
	availW := width - 2
	availH := height - 2 - 2*constant.HUDRows
	if availW <= 0 || availH <= 0 || canvasW <= 0 || canvasH <= 0 {
		return Viewport{}
	}

	scale := math.Min(float64(availW)/canvasW, float64(availH)*constant.CellAspect/canvasH)
	cols := int(canvasW * scale)
	rows := int(canvasH * scale / constant.CellAspect)
	if cols < 1 || rows < 1 {
		return Viewport{}
	}

	return Viewport{
		OffsetX: 1 + (availW-cols)/2,
		OffsetY: constant.HUDRows + 1 + (availH-rows)/2,
		Cols:    cols,
		Rows:    rows,
		ScaleX:  scale,
		ScaleY:  scale / constant.CellAspect,
	}
}

// Valid reports whether the terminal is large enough to draw the field
func (v Viewport) Valid() bool {
	return v.Cols > 0 && v.Rows > 0
}

// ToCell converts canvas coordinates to a screen cell
func (v Viewport) ToCell(x, y float64) (int, int) {
	return v.OffsetX + int(math.Floor(x*v.ScaleX)), v.OffsetY + int(math.Floor(y*v.ScaleY))
}

// CellCenter returns the canvas coordinates at the centre of a screen cell
func (v Viewport) CellCenter(col, row int) (float64, float64) {
	return (float64(col-v.OffsetX) + 0.5) / v.ScaleX, (float64(row-v.OffsetY) + 0.5) / v.ScaleY
}

// Contains reports whether a screen cell is inside the playfield
func (v Viewport) Contains(col, row int) bool {
	return col >= v.OffsetX && col < v.OffsetX+v.Cols && row >= v.OffsetY && row < v.OffsetY+v.Rows
}
