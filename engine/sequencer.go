package engine

import (
	"sort"
	"time"
)

// Sequencer is a queue of timed steps evaluated on clock ticks
//
// Steps scheduled with a sequence ID belong to that sequence; Begin issues a new ID
// and drops every pending step of older sequences so they can never fire.
// Detached steps (After) are not tied to any sequence and survive Begin.
// Not safe for concurrent use; owned by Game under its mutex
type Sequencer struct {
	current uint64
	steps   []step
	order   uint64
}

type step struct {
	seqID uint64 // 0 = detached
	due   time.Time
	order uint64 // insertion order for equal due times
	name  string
	fn    func(now time.Time)
}

// Begin starts a new sequence, cancelling pending steps of previous ones
func (s *Sequencer) Begin() uint64 {
	s.current++
	kept := s.steps[:0]
	for _, st := range s.steps {
		if st.seqID == 0 {
			kept = append(kept, st)
		}
	}
	s.steps = kept
	return s.current
}

// Current returns the live sequence ID, 0 before the first Begin
func (s *Sequencer) Current() uint64 {
	return s.current
}

// Schedule queues fn at due as part of sequence id
// Returns false and drops the step when id is not the live sequence
func (s *Sequencer) Schedule(id uint64, due time.Time, name string, fn func(now time.Time)) bool {
	if id == 0 || id != s.current {
		return false
	}
	s.insert(step{seqID: id, due: due, name: name, fn: fn})
	return true
}

// After queues a detached step
func (s *Sequencer) After(due time.Time, name string, fn func(now time.Time)) {
	s.insert(step{due: due, name: name, fn: fn})
}

// Advance fires every step due at or before now in due order
// A step that begins a new sequence stops older steps in the same pass
// Returns the number of steps fired
func (s *Sequencer) Advance(now time.Time) int {
	fired := 0
	for len(s.steps) > 0 {
		st := s.steps[0]
		if st.due.After(now) {
			break
		}
		s.steps = s.steps[1:]
		if st.seqID != 0 && st.seqID != s.current {
			continue
		}
		st.fn(now)
		fired++
	}
	return fired
}

// Pending returns the names of queued steps in due order
func (s *Sequencer) Pending() []string {
	names := make([]string, len(s.steps))
	for i, st := range s.steps {
		names[i] = st.name
	}
	return names
}

func (s *Sequencer) insert(st step) {
	s.order++
	st.order = s.order
	i := sort.Search(len(s.steps), func(i int) bool {
		o := s.steps[i]
		return o.due.After(st.due) || (o.due.Equal(st.due) && o.order > st.order)
	})
	s.steps = append(s.steps, step{})
	copy(s.steps[i+1:], s.steps[i:])
	s.steps[i] = st
}
