package status

import (
	"math"
	"sync/atomic"
)

// AtomicFloat is a float64 stored as its IEEE bits, the zero value reads 0.0
// Used for tilt axes and timing gauges written from one goroutine and read from others
type AtomicFloat struct {
	bits atomic.Uint64
}

// Set stores val
func (f *AtomicFloat) Set(val float64) {
	f.bits.Store(math.Float64bits(val))
}

// SetOrZero stores *val, or 0 when val is nil (an axis the sensor did not report)
func (f *AtomicFloat) SetOrZero(val *float64) {
	if val == nil {
		f.bits.Store(0)
		return
	}
	f.Set(*val)
}

// Get loads the stored value
func (f *AtomicFloat) Get() float64 {
	return math.Float64frombits(f.bits.Load())
}
