package stimulation

import "context"

// Options configures one call to Engine.Stimulate or Engine.Activate
// (spec.md §4 "Stimulation options"). The zero value is valid: no abort
// signal, the engine's default hop limit and concurrency, no extra
// per-call listener, and an empty initial context store.
type Options struct {
	// StimulationID, if non-empty, is used verbatim instead of a freshly
	// generated one. Supplying the ID a prior Handle reported lets Activate
	// resume that same logical stimulation (§4.10 "Retry via Activate").
	StimulationID string

	// AbortSignal, when provided, is watched for cancellation for the
	// lifetime of the stimulation (§4.8). A nil AbortSignal means the
	// stimulation cannot be cancelled from outside.
	AbortSignal context.Context

	// MaxHops caps the longest causal chain of activations this
	// stimulation will process before rejecting with ErrHopLimitExceeded
	// (§4.9). Zero or negative means the package default of 10000 hops
	// (defaultMaxHops) applies.
	MaxHops int

	// Concurrency caps how many reactions this single stimulation may run
	// at once, independent of any per-neuron cap (§4.7). Zero or negative
	// means unbounded at the stimulation level (per-neuron caps still
	// apply).
	Concurrency int

	// OnResponse, if non-nil, is registered as an additional listener
	// scoped to just this stimulation — it observes this call's records in
	// addition to, not instead of, the Engine's global listeners.
	OnResponse Listener

	// ContextValues seeds the stimulation's glia.Store, keyed by neuron
	// name. Used to resume a stimulation's per-neuron state across an
	// Activate call (§3 "Context store").
	ContextValues map[string]any

	// NameAllowed, if non-nil, is checked for every task the scheduler
	// dequeues, seeded or produced by a reaction. A task whose neuron name
	// it rejects is dropped without running and without a FailedTask
	// entry. A task naming a neuron absent from the Network fails with
	// ErrUnknownNeuron whether or not NameAllowed is set. A nil
	// NameAllowed allows any neuron present in the Network.
	NameAllowed func(neuronName string) bool

	// AutoCleanupContexts enables the SCC-quiescence context sweep of
	// §4.6 after every completed activation. The scheduler ORs this field
	// with the Engine's own AutoCleanupContexts: true turns cleanup on for
	// this call, while false leaves the Engine's setting in force, so a
	// single call cannot turn cleanup off when the Engine has it on.
	AutoCleanupContexts bool
}
