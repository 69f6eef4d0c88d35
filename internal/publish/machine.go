package publish

import (
	"errors"
	"fmt"
)

// State is a submission state.
type State string

// Submission states.
const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Event drives the machine.
type Event string

// Events.
const (
	EventSubmit           Event = "submit"
	EventValidationFailed Event = "validation_failed"
	EventValidationPassed Event = "validation_passed"
	EventCreateSucceeded  Event = "create_succeeded"
	EventCreateFailed     Event = "create_failed"
	EventDismiss          Event = "dismiss"
)

// ErrInvalidTransition indicates an event that the current state does not accept.
var ErrInvalidTransition = errors.New("invalid state transition")

var transitions = map[State]map[Event]State{
	StateIdle: {
		EventSubmit: StateValidating,
	},
	StateValidating: {
		EventValidationFailed: StateIdle,
		EventValidationPassed: StateSubmitting,
	},
	StateSubmitting: {
		EventCreateSucceeded: StateSucceeded,
		EventCreateFailed:    StateFailed,
	},
	StateSucceeded: {
		EventDismiss: StateIdle,
	},
	StateFailed: {
		EventSubmit: StateValidating,
	},
}

// Machine is the submission state machine. It is not safe for concurrent use;
// the owning session serialises access.
type Machine struct {
	state State
}

// NewMachine returns a machine in StateIdle.
func NewMachine() *Machine {
	return &Machine{state: StateIdle}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Can reports whether e is accepted in the current state.
func (m *Machine) Can(e Event) bool {
	_, ok := transitions[m.state][e]
	return ok
}

// Fire applies e and returns the new state.
func (m *Machine) Fire(e Event) (State, error) {
	next, ok := transitions[m.state][e]
	if !ok {
		return m.state, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, e, m.state)
	}
	m.state = next
	return next, nil
}

// Busy reports whether a submission is in flight.
func (m *Machine) Busy() bool {
	return m.state == StateValidating || m.state == StateSubmitting
}
