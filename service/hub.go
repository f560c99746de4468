package service

import (
	"errors"
	"fmt"
	"log"
	"sync"
)

// ErrCycle is returned when dependencies cannot be ordered
var ErrCycle = errors.New("circular dependency detected in services")

// Hub is the runtime container for service instances
type Hub struct {
	mu       sync.Mutex
	services map[string]Service
	order    []string // registration order, used to break ties
	started  []string // services that completed Start(), for rollback
}

// NewHub creates an empty service hub
func NewHub() *Hub {
	return &Hub{
		services: make(map[string]Service),
	}
}

// Register adds a service instance to the hub
func (h *Hub) Register(svc Service) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := svc.Name()
	if _, exists := h.services[name]; exists {
		return fmt.Errorf("service already registered: %s", name)
	}

	h.services[name] = svc
	h.order = append(h.order, name)
	return nil
}

// StartAll calls Start on all services in dependency order
// On failure, calls Stop on already-started services in reverse order
func (h *Hub) StartAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	sorted, err := h.topologicalSort()
	if err != nil {
		return err
	}

	h.started = nil
	for _, name := range sorted {
		if err := h.services[name].Start(); err != nil {
			h.stopStarted()
			return fmt.Errorf("service %s start failed: %w", name, err)
		}
		h.started = append(h.started, name)
		log.Printf("service: started %s", name)
	}
	return nil
}

// StopAll calls Stop on all started services in reverse order
// Every service gets Stop called; errors are logged and joined
func (h *Hub) StopAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stopStarted()
}

// Started returns the names of running services in start order
func (h *Hub) Started() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.started...)
}

func (h *Hub) stopStarted() error {
	var errs []error
	for i := len(h.started) - 1; i >= 0; i-- {
		name := h.started[i]
		if err := h.services[name].Stop(); err != nil {
			log.Printf("service: stop %s: %v", name, err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	h.started = nil
	return errors.Join(errs...)
}

// topologicalSort computes start order using Kahn's algorithm
// Services with no ordering constraint between them keep registration order
func (h *Hub) topologicalSort() ([]string, error) {
	inDegree := make(map[string]int, len(h.services))
	dependents := make(map[string][]string) // dep -> services that depend on it

	for _, name := range h.order {
		for _, dep := range h.services[name].Dependencies() {
			if _, exists := h.services[dep]; !exists {
				return nil, fmt.Errorf("service %s depends on unregistered service: %s", name, dep)
			}
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	result := make([]string, 0, len(h.order))
	done := make(map[string]bool, len(h.order))
	for len(result) < len(h.order) {
		progressed := false
		for _, name := range h.order {
			if done[name] || inDegree[name] > 0 {
				continue
			}
			done[name] = true
			result = append(result, name)
			for _, dependent := range dependents[name] {
				inDegree[dependent]--
			}
			progressed = true
			break
		}
		if !progressed {
			return nil, ErrCycle
		}
	}
	return result, nil
}
