package stimulation

import (
	"fmt"
)

// ErrHopLimitExceeded is the fatal, whole-stimulation rejection of spec.md
// §4.9: a single activation chain (root signal plus every signal it
// transitively causes) ran past Options.MaxHops without settling.
type ErrHopLimitExceeded struct {
	StimulationID string
	MaxHops       int
}

func (e *ErrHopLimitExceeded) Error() string {
	return fmt.Sprintf("stimulation %s: hop limit %d exceeded", e.StimulationID, e.MaxHops)
}

// ErrAborted is the rejection reason a Handle settles with when
// Options.AbortSignal fires while work was still queued or in flight
// (§4.8). A quiescent abort — one that fires once nothing is queued or in
// flight — is not an error at all; the stimulation simply completes
// normally.
type ErrAborted struct {
	StimulationID string
	Cause         error
}

func (e *ErrAborted) Error() string {
	return fmt.Sprintf("stimulation %s: aborted: %v", e.StimulationID, e.Cause)
}

func (e *ErrAborted) Unwrap() error { return e.Cause }

// ErrUnknownNeuron reports an ActivationTask that names a neuron the
// Network does not contain (§7 kind 2). It is recorded as a FailedTask, not
// raised synchronously, since it can only be discovered once the scheduler
// reaches that task.
type ErrUnknownNeuron struct {
	NeuronName string
}

func (e *ErrUnknownNeuron) Error() string {
	return fmt.Sprintf("stimulation: unknown neuron %q", e.NeuronName)
}
