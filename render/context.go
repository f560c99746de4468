package render

import (
	"github.com/lixenwraith/tiltball/engine"
	"github.com/lixenwraith/tiltball/status"
)

// Context is the read-only input of one frame
type Context struct {
	Snapshot engine.Snapshot
	Text     TextState
	Metrics  []status.Line
	View     Viewport
	Width    int
	Height   int
	Paused   bool
}
