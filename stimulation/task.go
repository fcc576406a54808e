// Package stimulation implements one invocation of the engine against a
// root signal: the task queue, concurrency gating, reaction invocation,
// trace emission, response-listener fan-out, and abort/retry machinery
// described in spec.md §4.5–§4.10.
package stimulation

import "github.com/synapticforge/cns/signal"

// ActivationTask is the stable, wire-shaped descriptor of one pending
// reaction invocation (spec.md §6 "Activation-task schema"). It is what
// GetFailedTasks and GetAllActivationTasks hand back, and exactly what
// Activate accepts to resume a stimulation.
type ActivationTask struct {
	StimulationID       string
	NeuronName          string
	InputCollateralName string
	InputSignal         signal.Signal
}

// queuedActivation is the scheduler's internal, richer view of a task: the
// wire-stable descriptor plus the hop count used for the maxHops bound.
// Hop is never exposed on ActivationTask itself — a resumed task (from
// Activate) has no prior hop to recover, so resumed tasks simply start
// counting from hop 1, the same as a task produced directly by a root
// signal's subscribers.
type queuedActivation struct {
	task ActivationTask
	hop  int
}

// FailedTask is one entry in a stimulation's failed-task log (spec.md
// §4.10): a task that never completed successfully, together with why.
// Reason is a Go error value describing the failure — never the raw
// panic value or stack trace, matching the spec's "stored with the task
// descriptor, not the exception."
type FailedTask struct {
	Task   ActivationTask
	Reason error
}
