package network

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/tiltball/core"
)

// ErrServerClosed is returned by Start after Stop
var ErrServerClosed = errors.New("network: server closed")

// Transport owns the listener and HTTP server
type Transport struct {
	config   *Config
	listener net.Listener
	server   *http.Server

	running atomic.Bool
	closed  atomic.Bool
	wg      sync.WaitGroup
}

// NewTransport creates a transport with the given configuration
func NewTransport(cfg *Config) *Transport {
	return &Transport{config: cfg}
}

// Start binds the address and serves handler in the background
func (t *Transport) Start(handler http.Handler) error {
	if t.closed.Load() {
		return ErrServerClosed
	}
	if !t.running.CompareAndSwap(false, true) {
		return nil // Already running
	}

	ln, err := net.Listen("tcp", t.config.Address)
	if err != nil {
		t.running.Store(false)
		return err
	}

	t.listener = ln
	t.server = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: t.config.WriteTimeout,
	}

	t.wg.Add(1)
	core.Go(func() {
		defer t.wg.Done()
		if err := t.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("network: serve: %v", err)
		}
	})

	log.Printf("network: listening on %s", ln.Addr())
	return nil
}

// Addr returns the bound address, empty before Start
func (t *Transport) Addr() string {
	if t.listener == nil {
		return ""
	}
	return t.listener.Addr().String()
}

// Stop shuts the HTTP server down; hijacked websocket connections are closed by their managers
func (t *Transport) Stop(ctx context.Context) error {
	t.closed.Store(true)
	if !t.running.CompareAndSwap(true, false) {
		return nil
	}

	err := t.server.Shutdown(ctx)
	t.wg.Wait()
	return err
}
