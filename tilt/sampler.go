// Package tilt holds the latest device orientation reading
package tilt

import (
	"sync/atomic"

	"github.com/lixenwraith/tiltball/status"
)

// Reading is a tilt snapshot in degrees
// Beta is front-back tilt, Gamma is left-right tilt
type Reading struct {
	Beta  float64
	Gamma float64
}

// Sample is one orientation notification; nil fields were not reported by the sensor
type Sample struct {
	Beta  *float64
	Gamma *float64
}

// Sampler stores the last-known reading with no smoothing and no history
// Apply may be called from any goroutine; each axis is stored atomically
type Sampler struct {
	beta  status.AtomicFloat
	gamma status.AtomicFloat

	samples atomic.Uint64
}

// NewSampler creates a sampler reading (0, 0)
func NewSampler() *Sampler {
	return &Sampler{}
}

// Apply overwrites both axes, a missing field stores 0
func (s *Sampler) Apply(sample Sample) {
	s.beta.SetOrZero(sample.Beta)
	s.gamma.SetOrZero(sample.Gamma)
	s.samples.Add(1)
}

// Set overwrites both axes with explicit values
func (s *Sampler) Set(beta, gamma float64) {
	s.beta.Set(beta)
	s.gamma.Set(gamma)
	s.samples.Add(1)
}

// Read returns the last-known reading
func (s *Sampler) Read() Reading {
	return Reading{
		Beta:  s.beta.Get(),
		Gamma: s.gamma.Get(),
	}
}

// Reset levels the reading back to (0, 0)
func (s *Sampler) Reset() {
	s.Set(0, 0)
}

// Count returns the number of samples applied since creation
func (s *Sampler) Count() uint64 {
	return s.samples.Load()
}
