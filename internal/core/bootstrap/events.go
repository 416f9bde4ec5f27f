package bootstrap

import "time"

// State represents the current Bootstrap mode.
type State string

const (
	StateSearching  State = "searching"
	StateForcing    State = "forcing"
	StateConfigured State = "configured"
	StateGaveUp     State = "gave_up"
)

// Terminal reports whether no further polls follow this state.
func (state State) Terminal() bool {
	return state == StateConfigured || state == StateGaveUp
}

type input string

const (
	inputSurfaceFound   input = "surface_found"
	inputSurfaceMissing input = "surface_missing"
	inputBudgetSpent    input = "budget_spent"
	inputForceSucceeded input = "force_succeeded"
	inputForceFailed    input = "force_failed"
)

type transitionKey struct {
	from  State
	input input
}

// transitions is the complete state table; pairs missing from it leave the
// state unchanged.
var transitions = map[transitionKey]State{
	{StateSearching, inputSurfaceFound}:   StateConfigured,
	{StateSearching, inputSurfaceMissing}: StateSearching,
	{StateSearching, inputBudgetSpent}:    StateForcing,
	{StateForcing, inputForceSucceeded}:   StateConfigured,
	{StateForcing, inputForceFailed}:      StateGaveUp,
}

func next(from State, in input) State {
	if to, ok := transitions[transitionKey{from: from, input: in}]; ok {
		return to
	}
	return from
}

// Status is a snapshot of the Bootstrap state published to observers.
type Status struct {
	State       State
	Attempts    int
	MaxAttempts int
	ForceIssued bool
	SurfaceID   string
	Message     string
	At          time.Time
}

// Succeeded reports whether an overlay surface was configured.
func (status Status) Succeeded() bool {
	return status.State == StateConfigured
}
