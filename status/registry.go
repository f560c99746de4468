// Package status is the process-wide metrics registry shown in the debug overlay
package status

import (
	"fmt"
	"strconv"
	"sync/atomic"
)

// Registry is the central metrics facade
// Subsystems cache pointers during init; tick and network loops write directly to atomics
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Line is one formatted metric
type Line struct {
	Key   string
	Value string
}

// Lines returns every metric formatted for display, grouped by kind then sorted by key
func (r *Registry) Lines() []Line {
	lines := make([]Line, 0, r.TotalCount())
	r.Ints.Range(func(k string, v *atomic.Int64) {
		lines = append(lines, Line{k, strconv.FormatInt(v.Load(), 10)})
	})
	r.Floats.Range(func(k string, v *AtomicFloat) {
		lines = append(lines, Line{k, fmt.Sprintf("%.2f", v.Get())})
	})
	r.Bools.Range(func(k string, v *atomic.Bool) {
		lines = append(lines, Line{k, strconv.FormatBool(v.Load())})
	})
	r.Strings.Range(func(k string, v *AtomicString) {
		lines = append(lines, Line{k, v.Load()})
	})
	return lines
}
