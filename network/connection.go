package network

import (
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/tiltball/core"
)

// ErrMaxPeers is returned when a role is at capacity
var ErrMaxPeers = errors.New("max peers reached")

// PeerID uniquely identifies a connected peer
type PeerID uint32

// PeerRole separates controller pages from passive viewers
type PeerRole uint8

const (
	RoleSensor PeerRole = iota // sends orientation, receives status text
	RoleViewer                 // receives binary frames only
)

func (r PeerRole) String() string {
	if r == RoleViewer {
		return "viewer"
	}
	return "sensor"
}

// ConnState represents connection lifecycle state
type ConnState uint8

const (
	StateDisconnected ConnState = iota
	StateConnected
	StateDisconnecting
)

// outbound is one queued websocket frame
type outbound struct {
	kind int // websocket.TextMessage or websocket.BinaryMessage
	data []byte
}

// Peer represents a remote websocket endpoint
type Peer struct {
	ID       PeerID
	Addr     string
	Role     PeerRole
	State    atomic.Uint32 // ConnState
	LastSeen atomic.Int64  // UnixNano

	// Dropped counts frames discarded because the send queue was full
	Dropped atomic.Uint64

	conn   *websocket.Conn
	config *Config

	// Send queue, drained by writeLoop, the only writer on conn
	sendCh chan outbound

	// Lifecycle
	closeCh   chan struct{}
	closeOnce sync.Once
}

// newPeer wraps an upgraded connection
func newPeer(id PeerID, role PeerRole, conn *websocket.Conn, cfg *Config) *Peer {
	p := &Peer{
		ID:      id,
		Addr:    conn.RemoteAddr().String(),
		Role:    role,
		conn:    conn,
		config:  cfg,
		sendCh:  make(chan outbound, cfg.SendQueueSize),
		closeCh: make(chan struct{}),
	}
	p.State.Store(uint32(StateConnected))
	p.LastSeen.Store(time.Now().UnixNano())
	return p
}

// Send queues a frame for transmission
// Returns false if peer is disconnected or queue full; a full queue drops the frame
func (p *Peer) Send(kind int, data []byte) bool {
	if ConnState(p.State.Load()) != StateConnected {
		return false
	}

	select {
	case p.sendCh <- outbound{kind: kind, data: data}:
		return true
	default:
		p.Dropped.Add(1)
		return false
	}
}

// Close initiates shutdown, safe to call more than once
// writeLoop sends the close frame and releases the socket, which unblocks readLoop
func (p *Peer) Close() {
	p.closeOnce.Do(func() {
		p.State.Store(uint32(StateDisconnecting))
		close(p.closeCh)
	})
}

// Done is closed when the peer shuts down
func (p *Peer) Done() <-chan struct{} {
	return p.closeCh
}

// readLoop reads frames until the connection fails or the read deadline passes
func (p *Peer) readLoop(handler func(*Peer, []byte)) {
	defer p.Close()

	p.conn.SetReadLimit(p.config.MaxMessageSize)
	p.conn.SetReadDeadline(time.Now().Add(p.config.ReadTimeout))
	p.conn.SetPongHandler(func(string) error {
		p.LastSeen.Store(time.Now().UnixNano())
		return p.conn.SetReadDeadline(time.Now().Add(p.config.ReadTimeout))
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("network: %s peer %d read: %v", p.Role, p.ID, err)
			}
			return
		}

		p.LastSeen.Store(time.Now().UnixNano())
		p.conn.SetReadDeadline(time.Now().Add(p.config.ReadTimeout))

		if handler != nil {
			handler(p, data)
		}
	}
}

// writeLoop sends queued frames and heartbeats
func (p *Peer) writeLoop() {
	ticker := time.NewTicker(p.config.HeartbeatInterval)
	defer func() {
		ticker.Stop()
		p.Close()
		p.conn.Close()
		p.State.Store(uint32(StateDisconnected))
	}()

	for {
		select {
		case <-p.closeCh:
			p.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(p.config.WriteTimeout))
			return
		case msg := <-p.sendCh:
			p.conn.SetWriteDeadline(time.Now().Add(p.config.WriteTimeout))
			if err := p.conn.WriteMessage(msg.kind, msg.data); err != nil {
				return
			}
		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(p.config.WriteTimeout))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// PeerManager handles the connections of one role
type PeerManager struct {
	mu       sync.RWMutex
	role     PeerRole
	peers    map[PeerID]*Peer
	nextID   atomic.Uint32
	maxPeers int
	config   *Config
	wg       sync.WaitGroup

	// Callbacks
	onConnect    func(*Peer)
	onDisconnect func(*Peer)
	onMessage    func(*Peer, []byte)
}

// NewPeerManager creates a peer manager for role
func NewPeerManager(role PeerRole, cfg *Config) *PeerManager {
	return &PeerManager{
		role:     role,
		peers:    make(map[PeerID]*Peer),
		maxPeers: cfg.MaxPeers,
		config:   cfg,
	}
}

// SetHandlers configures event callbacks, must be called before the first connection
func (pm *PeerManager) SetHandlers(
	onConnect func(*Peer),
	onDisconnect func(*Peer),
	onMessage func(*Peer, []byte),
) {
	pm.onConnect = onConnect
	pm.onDisconnect = onDisconnect
	pm.onMessage = onMessage
}

// Full reports whether another connection would be rejected
func (pm *PeerManager) Full() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers) >= pm.maxPeers
}

// AddConnection registers an upgraded connection and starts its I/O loops
func (pm *PeerManager) AddConnection(conn *websocket.Conn) (PeerID, error) {
	pm.mu.Lock()
	if len(pm.peers) >= pm.maxPeers {
		pm.mu.Unlock()
		conn.Close()
		return 0, ErrMaxPeers
	}

	id := PeerID(pm.nextID.Add(1))
	peer := newPeer(id, pm.role, conn, pm.config)
	pm.peers[id] = peer
	pm.mu.Unlock()

	if pm.onConnect != nil {
		pm.onConnect(peer)
	}

	pm.wg.Add(3)
	core.Go(func() { defer pm.wg.Done(); peer.readLoop(pm.onMessage) })
	core.Go(func() { defer pm.wg.Done(); peer.writeLoop() })
	core.Go(func() { defer pm.wg.Done(); pm.monitorPeer(peer) })

	return id, nil
}

// monitorPeer removes the peer once it closes
func (pm *PeerManager) monitorPeer(peer *Peer) {
	<-peer.closeCh

	pm.mu.Lock()
	delete(pm.peers, peer.ID)
	pm.mu.Unlock()

	if pm.onDisconnect != nil {
		pm.onDisconnect(peer)
	}
}

// Broadcast queues a frame for every peer and returns how many accepted it
// Slow peers drop the frame instead of blocking the caller
func (pm *PeerManager) Broadcast(kind int, data []byte) int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	sent := 0
	for _, peer := range pm.peers {
		if peer.Send(kind, data) {
			sent++
		}
	}
	return sent
}

// PeerCount returns current connected peer count
func (pm *PeerManager) PeerCount() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// Close disconnects all peers and waits for their loops to exit
func (pm *PeerManager) Close() {
	pm.mu.RLock()
	peers := make([]*Peer, 0, len(pm.peers))
	for _, peer := range pm.peers {
		peers = append(peers, peer)
	}
	pm.mu.RUnlock()

	for _, peer := range peers {
		peer.Close()
	}
	pm.wg.Wait()
}
