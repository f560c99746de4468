package events

import (
	"sync/atomic"

	"github.com/lixenwraith/tiltball/constant"
)

// EventQueue is a lock-free MPSC ring buffer for control and gameplay events
// Thread-Safety:
//   - Push: Lock-free CAS, multiple producers OK (keyboard, sensor sockets, tick)
//   - Consume: Single consumer (tick goroutine)
//   - Published flags prevent reading partial writes
//
// Overflow: oldest events overwritten when full, counted in Dropped
type EventQueue struct {
	events    [constant.EventQueueSize]GameEvent
	published [constant.EventQueueSize]atomic.Bool // True = slot fully written
	head      atomic.Uint64                         // Read index
	tail      atomic.Uint64                         // Write index
	dropped   atomic.Uint64
}

func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Len returns the number of unread events, capped at capacity
func (eq *EventQueue) Len() int {
	n := eq.tail.Load() - eq.head.Load()
	if n > constant.EventQueueSize {
		n = constant.EventQueueSize
	}
	return int(n)
}

// Dropped returns how many unread events were overwritten since creation
func (eq *EventQueue) Dropped() uint64 {
	return eq.dropped.Load()
}

// Push adds event using lock-free CAS with published flags pattern
// Safe for concurrent producers. O(1) amortized
func (eq *EventQueue) Push(event GameEvent) {
	for {
		currentTail := eq.tail.Load()
		nextTail := currentTail + 1

		if eq.tail.CompareAndSwap(currentTail, nextTail) {
			idx := currentTail & constant.EventBufferMask

			eq.events[idx] = event
			eq.published[idx].Store(true) // MUST be after write

			// Overwrote an unread slot, move head past it
			currentHead := eq.head.Load()
			if nextTail-currentHead > constant.EventQueueSize {
				newHead := nextTail - constant.EventQueueSize
				if eq.head.CompareAndSwap(currentHead, newHead) {
					eq.dropped.Add(newHead - currentHead)
				}
			}
			return
		}
	}
}

// Consume returns all pending events in FIFO order and advances head
// Single-consumer design (tick goroutine). Checks published flags for safety
func (eq *EventQueue) Consume() []GameEvent {
	for {
		currentHead := eq.head.Load()
		currentTail := eq.tail.Load()

		if currentTail == currentHead {
			return nil
		}

		maxAvailable := currentTail - currentHead
		if maxAvailable > constant.EventQueueSize {
			maxAvailable = constant.EventQueueSize
			currentHead = currentTail - constant.EventQueueSize
		}

		result := make([]GameEvent, 0, maxAvailable)
		for i := uint64(0); i < maxAvailable; i++ {
			idx := (currentHead + i) & constant.EventBufferMask

			if !eq.published[idx].Load() {
				break // Writer incomplete
			}

			result = append(result, eq.events[idx])
			eq.published[idx].Store(false)
		}

		newHead := currentHead + uint64(len(result))
		if eq.head.CompareAndSwap(currentHead, newHead) {
			if len(result) == 0 {
				return nil
			}
			return result
		}
	}
}