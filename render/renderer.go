// Package render draws game snapshots into a tcell screen
package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/tiltball/engine"
	"github.com/lixenwraith/tiltball/status"
)

type layerEntry struct {
	layer    Layer
	priority Priority
	index    int // registration order for stable sort
}

// Renderer coordinates the frame pipeline
type Renderer struct {
	screen   tcell.Screen
	buffer   *Buffer
	layers   []layerEntry
	regCount int

	board *TextBoard
	reg   *status.Registry
	debug *debugLayer
}

// NewRenderer creates a renderer with the standard layers registered
func NewRenderer(screen tcell.Screen, board *TextBoard, reg *status.Registry) *Renderer {
	w, h := screen.Size()
	r := &Renderer{
		screen: screen,
		buffer: NewBuffer(w, h),
		layers: make([]layerEntry, 0, 8),
		board:  board,
		reg:    reg,
		debug:  &debugLayer{},
	}

	r.Register(fieldLayer{}, PriorityField)
	r.Register(wallLayer{}, PriorityWall)
	r.Register(newGoalLayer(), PriorityGoal)
	r.Register(newBallLayer(), PriorityBall)
	r.Register(hudLayer{}, PriorityUI)
	r.Register(messageLayer{}, PriorityOverlay)
	r.Register(r.debug, PriorityDebug)
	return r
}

// Register adds a layer at the specified priority. Maintains sorted order via insertion sort
func (r *Renderer) Register(l Layer, priority Priority) {
	entry := layerEntry{
		layer:    l,
		priority: priority,
		index:    r.regCount,
	}
	r.regCount++

	pos := len(r.layers)
	for i, e := range r.layers {
		if priority < e.priority || (priority == e.priority && entry.index < e.index) {
			pos = i
			break
		}
	}

	r.layers = append(r.layers, layerEntry{})
	copy(r.layers[pos+1:], r.layers[pos:])
	r.layers[pos] = entry
}

// Resize re-reads the screen size and syncs the terminal
func (r *Renderer) Resize() {
	w, h := r.screen.Size()
	r.buffer.Resize(w, h)
	r.screen.Sync()
}

// SetDebug shows or hides the metrics overlay
func (r *Renderer) SetDebug(on bool) {
	r.debug.visible.Store(on)
}

// ToggleDebug flips the metrics overlay and returns the new state
func (r *Renderer) ToggleDebug() bool {
	on := !r.debug.visible.Load()
	r.debug.visible.Store(on)
	return on
}

// RenderFrame executes the render pipeline: clear, render all, flush, show
func (r *Renderer) RenderFrame(snap engine.Snapshot, paused bool) {
	w, h := r.buffer.Size()
	ctx := Context{
		Snapshot: snap,
		Text:     r.board.State(),
		View:     NewViewport(w, h, snap.CanvasW, snap.CanvasH),
		Width:    w,
		Height:   h,
		Paused:   paused,
	}
	if r.debug.IsVisible() && r.reg != nil {
		ctx.Metrics = r.reg.Lines()
	}

	r.buffer.Clear()
	if ctx.View.Valid() {
		for _, entry := range r.layers {
			if vt, ok := entry.layer.(VisibilityToggle); ok && !vt.IsVisible() {
				continue
			}
			entry.layer.Render(ctx, r.buffer)
		}
	} else {
		r.buffer.SetString(0, 0, "terminal too small", baseStyle)
	}

	r.buffer.Flush(r.screen)
	r.screen.Show()
}
