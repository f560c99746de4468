package network

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/lixenwraith/tiltball/engine"
	"github.com/lixenwraith/tiltball/events"
)

// MessageType identifies controller messages on /ws/sensor
type MessageType string

const (
	MsgOrientation MessageType = "orientation"
	MsgPermission  MessageType = "permission"
	MsgRefresh     MessageType = "refresh"

	// Server to controller
	MsgStatus  MessageType = "status"
	MsgMessage MessageType = "message"
	MsgScore   MessageType = "score"
)

// SensorMessage is one JSON text frame from a controller page
// Beta and Gamma are pointers so a null axis is distinguishable from 0
type SensorMessage struct {
	Type  MessageType `json:"type"`
	Beta  *float64    `json:"beta,omitempty"`
	Gamma *float64    `json:"gamma,omitempty"`
	State string      `json:"state,omitempty"`
	Error string      `json:"error,omitempty"`
}

// ControllerMessage is pushed back to controller pages as JSON
type ControllerMessage struct {
	Type  MessageType `json:"type"`
	Text  string      `json:"text"`
	Score int         `json:"score,omitempty"`
}

// DecodeSensorMessage parses and validates a controller frame
func DecodeSensorMessage(data []byte) (*SensorMessage, error) {
	var m SensorMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("malformed sensor message: %w", err)
	}
	switch m.Type {
	case MsgOrientation, MsgRefresh:
	case MsgPermission:
		if _, err := parsePermission(m.State); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown sensor message type %q", m.Type)
	}
	return &m, nil
}

// Permission converts a permission message into the engine payload
func (m *SensorMessage) Permission() events.PermissionResultPayload {
	state, _ := parsePermission(m.State)
	return events.PermissionResultPayload{State: state, Err: m.Error}
}

func parsePermission(s string) (events.PermissionState, error) {
	switch s {
	case "granted":
		return events.PermissionGranted, nil
	case "denied":
		return events.PermissionDenied, nil
	case "error":
		return events.PermissionFailed, nil
	}
	return 0, fmt.Errorf("unknown permission state %q", s)
}

// Circle is a round body in a viewer frame
type Circle struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
	R float64 `msgpack:"r"`
}

// Box is a wall in a viewer frame
type Box struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
	W float64 `msgpack:"w"`
	H float64 `msgpack:"h"`
}

// TiltState is the reading used for the frame
type TiltState struct {
	Beta  float64 `msgpack:"beta"`
	Gamma float64 `msgpack:"gamma"`
}

// Frame is one binary msgpack snapshot sent on /ws/view
type Frame struct {
	Tick    uint64    `msgpack:"tick"`
	Phase   string    `msgpack:"phase"`
	Score   int       `msgpack:"score"`
	Ball    Circle    `msgpack:"ball"`
	Start   Circle    `msgpack:"start"`
	Goal    Circle    `msgpack:"goal"`
	Walls   []Box     `msgpack:"walls"`
	Tilt    TiltState `msgpack:"tilt"`
	Message string    `msgpack:"message"`
	Status  string    `msgpack:"status"`
}

// NewFrame builds a frame from a game snapshot, rounding coordinates to 0.1
func NewFrame(s engine.Snapshot) Frame {
	walls := make([]Box, len(s.Walls))
	for i, w := range s.Walls {
		walls[i] = Box{X: round1(w.X), Y: round1(w.Y), W: round1(w.Width), H: round1(w.Height)}
	}
	return Frame{
		Tick:    s.Tick,
		Phase:   s.Phase.String(),
		Score:   s.Score,
		Ball:    Circle{X: round1(s.Ball.X), Y: round1(s.Ball.Y), R: s.Ball.Radius},
		Start:   Circle{X: round1(s.Ball.StartX), Y: round1(s.Ball.StartY), R: s.Ball.Radius},
		Goal:    Circle{X: round1(s.Goal.X), Y: round1(s.Goal.Y), R: s.Goal.Radius},
		Walls:   walls,
		Tilt:    TiltState{Beta: round1(s.Tilt.Beta), Gamma: round1(s.Tilt.Gamma)},
		Message: s.Message,
		Status:  s.Status,
	}
}

// EncodeFrame serializes a frame for the wire
func EncodeFrame(f *Frame) ([]byte, error) {
	return msgpack.Marshal(f)
}

// DecodeFrame is the inverse of EncodeFrame, used by viewers and tests
func DecodeFrame(data []byte) (*Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}
	return &f, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
