// Package service runs the long-lived subsystems of the front end in dependency order
package service

// Service defines the lifecycle interface for infrastructure subsystems
// Services manage long-lived resources: the tick loop, the speaker, the sensor bridge
//
// Lifecycle:
//  1. Construction
//  2. Start() - acquire resources, launch goroutines; called after every dependency started
//  3. [runtime operation]
//  4. Stop() - halt goroutines, release resources; called before any dependency stops
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must Start before this one
	Dependencies() []string

	// Start begins service operation
	Start() error

	// Stop halts service operation and releases resources
	// Must be idempotent
	Stop() error
}

// Func adapts a pair of functions to Service
type Func struct {
	ID      string
	Needs   []string
	OnStart func() error
	OnStop  func() error
}

func (f *Func) Name() string           { return f.ID }
func (f *Func) Dependencies() []string { return f.Needs }

func (f *Func) Start() error {
	if f.OnStart == nil {
		return nil
	}
	return f.OnStart()
}

func (f *Func) Stop() error {
	if f.OnStop == nil {
		return nil
	}
	return f.OnStop()
}
