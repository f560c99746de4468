// Package network bridges phone controllers and remote viewers to the game over WebSocket
package network

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/tiltball/engine"
	"github.com/lixenwraith/tiltball/events"
	"github.com/lixenwraith/tiltball/status"
	"github.com/lixenwraith/tiltball/tilt"
)

// Endpoint paths
const (
	PathSensor = "/ws/sensor"
	PathView   = "/ws/view"
)

// Service accepts controller and viewer sockets
// Orientation samples go straight to the sampler; control messages go through the event queue
type Service struct {
	config    *Config
	transport *Transport
	upgrader  websocket.Upgrader

	sampler *tilt.Sampler
	queue   *events.EventQueue

	sensors *PeerManager
	viewers *PeerManager

	// Static content served for every other path, typically the cached controller page
	fallback http.Handler

	lastFrame atomic.Pointer[[]byte]

	// Token of the message last relayed to controllers; stale clears are dropped
	messageToken atomic.Uint64

	// Cached metric pointers
	statPeers   *atomic.Int64
	statViewers *atomic.Int64
	statSamples *atomic.Int64
}

// NewService creates a network service feeding sampler and queue
func NewService(cfg *Config, sampler *tilt.Sampler, queue *events.EventQueue, reg *status.Registry) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Service{
		config:    cfg,
		transport: NewTransport(cfg),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
		},
		sampler:     sampler,
		queue:       queue,
		sensors:     NewPeerManager(RoleSensor, cfg),
		viewers:     NewPeerManager(RoleViewer, cfg),
		statPeers:   reg.Ints.Get(status.KeyNetworkPeers),
		statViewers: reg.Ints.Get(status.KeyNetworkViewers),
		statSamples: reg.Ints.Get(status.KeyNetworkSamples),
	}

	s.sensors.SetHandlers(s.onSensorConnect, s.onSensorDisconnect, s.onSensorMessage)
	s.viewers.SetHandlers(s.onViewerConnect, s.onViewerDisconnect, nil)
	return s
}

// Mount serves h for every path that is not a websocket endpoint
func (s *Service) Mount(h http.Handler) {
	s.fallback = h
}

// Handler returns the HTTP handler with both websocket endpoints
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(PathSensor, func(w http.ResponseWriter, r *http.Request) {
		s.upgrade(w, r, s.sensors)
	})
	mux.HandleFunc(PathView, func(w http.ResponseWriter, r *http.Request) {
		s.upgrade(w, r, s.viewers)
	})
	if s.fallback != nil {
		mux.Handle("/", s.fallback)
	}
	return mux
}

// Start begins listening on the configured address
func (s *Service) Start() error {
	return s.transport.Start(s.Handler())
}

// Addr returns the bound address
func (s *Service) Addr() string {
	return s.transport.Addr()
}

// Stop closes the listener and every peer
func (s *Service) Stop(ctx context.Context) error {
	err := s.transport.Stop(ctx)
	s.sensors.Close()
	s.viewers.Close()
	return err
}

// SensorCount returns connected controllers
func (s *Service) SensorCount() int { return s.sensors.PeerCount() }

// ViewerCount returns connected viewers
func (s *Service) ViewerCount() int { return s.viewers.PeerCount() }

// BroadcastSnapshot encodes the snapshot once and queues it for every viewer
// Returns the number of viewers that accepted the frame
func (s *Service) BroadcastSnapshot(snap engine.Snapshot) int {
	if s.viewers.PeerCount() == 0 {
		return 0
	}
	frame := NewFrame(snap)
	data, err := EncodeFrame(&frame)
	if err != nil {
		log.Printf("network: encode frame: %v", err)
		return 0
	}
	s.lastFrame.Store(&data)
	return s.viewers.Broadcast(websocket.BinaryMessage, data)
}

// SnapshotHook returns a tick hook that broadcasts every SnapshotEvery ticks
func (s *Service) SnapshotHook(game *engine.Game) engine.TickHook {
	every := uint64(s.config.SnapshotEvery)
	if every == 0 {
		every = 1
	}
	return func(tick uint64) {
		if tick%every == 0 {
			s.BroadcastSnapshot(game.Snapshot())
		}
	}
}

// EventTypes implements events.Handler, relaying text to controller pages
func (s *Service) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventStatusText,
		events.EventMessageShow,
		events.EventMessageClear,
		events.EventScoreChanged,
	}
}

// HandleEvent implements events.Handler
func (s *Service) HandleEvent(_ *engine.Game, ev events.GameEvent) {
	var msg ControllerMessage
	switch p := ev.Payload.(type) {
	case *events.StatusTextPayload:
		msg = ControllerMessage{Type: MsgStatus, Text: p.Text}
	case *events.MessageShowPayload:
		s.messageToken.Store(p.Token)
		msg = ControllerMessage{Type: MsgMessage, Text: p.Text}
	case *events.MessageClearPayload:
		if p.Token != s.messageToken.Load() {
			return
		}
		msg = ControllerMessage{Type: MsgMessage}
	case *events.ScoreChangedPayload:
		msg = ControllerMessage{Type: MsgScore, Text: p.Text, Score: p.Score}
	default:
		return
	}
	if s.sensors.PeerCount() == 0 {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.sensors.Broadcast(websocket.TextMessage, data)
}

func (s *Service) upgrade(w http.ResponseWriter, r *http.Request, pm *PeerManager) {
	if pm.Full() {
		http.Error(w, ErrMaxPeers.Error(), http.StatusServiceUnavailable)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		log.Printf("network: upgrade %s: %v", r.URL.Path, err)
		return
	}
	if _, err := pm.AddConnection(conn); err != nil {
		log.Printf("network: reject %s: %v", r.RemoteAddr, err)
	}
}

func (s *Service) onSensorConnect(p *Peer) {
	s.statPeers.Add(1)
	log.Printf("network: sensor %d connected from %s", p.ID, p.Addr)
}

func (s *Service) onSensorDisconnect(p *Peer) {
	s.statPeers.Add(-1)
	log.Printf("network: sensor %d disconnected", p.ID)
}

func (s *Service) onViewerConnect(p *Peer) {
	s.statViewers.Add(1)
	// Late joiners get the last frame right away
	if data := s.lastFrame.Load(); data != nil {
		p.Send(websocket.BinaryMessage, *data)
	}
}

func (s *Service) onViewerDisconnect(p *Peer) {
	s.statViewers.Add(-1)
}

// onSensorMessage runs on the peer's read goroutine
func (s *Service) onSensorMessage(p *Peer, data []byte) {
	msg, err := DecodeSensorMessage(data)
	if err != nil {
		log.Printf("network: sensor %d: %v", p.ID, err)
		return
	}

	switch msg.Type {
	case MsgOrientation:
		s.sampler.Apply(tilt.Sample{Beta: msg.Beta, Gamma: msg.Gamma})
		s.statSamples.Add(1)
	case MsgPermission:
		payload := msg.Permission()
		s.queue.Push(events.GameEvent{
			Type:      events.EventPermissionResult,
			Payload:   &payload,
			Timestamp: time.Now(),
		})
	case MsgRefresh:
		s.queue.Push(events.GameEvent{Type: events.EventLevelRefreshRequest, Timestamp: time.Now()})
	}
}
