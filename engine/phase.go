package engine

// Phase is the round lifecycle state
type Phase int

const (
	// PhaseUninitialized is the state before Start
	PhaseUninitialized Phase = iota
	// PhaseAwaitingPermission waits for the user to grant sensor access
	PhaseAwaitingPermission
	// PhaseSequencingReady shows "Ready?" and holds the ball still
	PhaseSequencingReady
	// PhaseActive integrates physics every tick
	PhaseActive
	// PhaseSequencingGoal runs the goal celebration and level swap
	PhaseSequencingGoal
)

var phaseNames = [...]string{
	PhaseUninitialized:      "Uninitialized",
	PhaseAwaitingPermission: "AwaitingPermission",
	PhaseSequencingReady:    "SequencingReady",
	PhaseActive:             "Active",
	PhaseSequencingGoal:     "SequencingGoal",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "Unknown"
	}
	return phaseNames[p]
}

var validTransitions = map[Phase][]Phase{
	PhaseUninitialized:      {PhaseAwaitingPermission, PhaseSequencingReady},
	PhaseAwaitingPermission: {PhaseSequencingReady},
	PhaseSequencingReady:    {PhaseActive},
	PhaseActive:             {PhaseSequencingGoal},
	PhaseSequencingGoal:     {PhaseActive},
}

// CanTransition checks if a phase transition is valid
func CanTransition(from, to Phase) bool {
	for _, phase := range validTransitions[from] {
		if phase == to {
			return true
		}
	}
	return false
}

// Playing reports whether physics runs
func (p Phase) Playing() bool {
	return p == PhaseActive
}

// Waiting reports whether a timed sequence holds the ball
func (p Phase) Waiting() bool {
	return p == PhaseSequencingReady || p == PhaseSequencingGoal
}

// PermissionGranted reports whether the session has started
func (p Phase) PermissionGranted() bool {
	return p >= PhaseSequencingReady
}
