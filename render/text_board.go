package render

import (
	"sync"

	"github.com/lixenwraith/tiltball/constant"
	"github.com/lixenwraith/tiltball/engine"
	"github.com/lixenwraith/tiltball/events"
)

// TextState is a copy of the text board contents
type TextState struct {
	Status    string
	Message   string
	Token     uint64
	Score     int
	ScoreText string
}

// TextBoard holds the UI text written by game events
// Written on the tick goroutine, read by the render loop
type TextBoard struct {
	mu    sync.RWMutex
	state TextState
}

// NewTextBoard creates an empty board
func NewTextBoard() *TextBoard {
	return &TextBoard{state: TextState{ScoreText: constant.ScorePrefix + "0"}}
}

// EventTypes implements events.Handler
func (tb *TextBoard) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventStatusText,
		events.EventMessageShow,
		events.EventMessageClear,
		events.EventScoreChanged,
	}
}

// HandleEvent implements events.Handler
func (tb *TextBoard) HandleEvent(_ *engine.Game, ev events.GameEvent) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	switch p := ev.Payload.(type) {
	case *events.StatusTextPayload:
		tb.state.Status = p.Text
	case *events.MessageShowPayload:
		tb.state.Message = p.Text
		tb.state.Token = p.Token
	case *events.MessageClearPayload:
		// A clear for a superseded message must not erase the newer one
		if p.Token == tb.state.Token {
			tb.state.Message = ""
		}
	case *events.ScoreChangedPayload:
		tb.state.Score = p.Score
		tb.state.ScoreText = p.Text
	}
}

// State returns a copy of the board
func (tb *TextBoard) State() TextState {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	return tb.state
}
