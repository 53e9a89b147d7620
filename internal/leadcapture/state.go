// Package leadcapture drives the form-then-scheduler handoff shown after a
// visitor asks for a strategy call.
package leadcapture

// State is the visible stage of a session.
type State string

const (
	StateNotReady           State = "not-ready"
	StateAwaitingSubmission State = "awaiting-submission"
	StateTransitioning      State = "transitioning"
	StateScheduling         State = "scheduling"
)

func (s State) String() string { return string(s) }
