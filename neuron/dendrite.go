package neuron

import (
	"context"
	"fmt"

	"github.com/synapticforge/cns/axon"
	"github.com/synapticforge/cns/signal"
)

// Reaction is the user function invoked for one activation: it receives the
// inbound payload, the owning neuron's axon (for constructing outputs), and
// a handle scoped to the neuron's own context slot, and returns zero, one,
// or many output signals.
//
// Unlike the source this spec was distilled from, Go has no bare-promise
// return type to special-case: a Reaction that needs to suspend (wait on
// I/O, a timer, another goroutine) simply blocks inside its own call frame.
// The scheduler's concurrency gating (per-neuron and per-stimulation
// semaphores) is what keeps such a reaction from starving its peers; there
// is no separate "async reaction" shape to detect.
//
// ctx carries the stimulation's cancellation: it is canceled when the
// stimulation is aborted (§4.8). A Reaction is never interrupted by the
// scheduler — checking ctx.Err() is the reaction's own choice — but a
// Reaction built around blocking I/O should select on ctx.Done() so that an
// abort can actually shorten its wait.
//
// A nil or empty slice is a valid "emitted nothing" result. A zero-value
// Signal entry is not: see ValidateOutputs for that construction error.
type Reaction func(ctx context.Context, payload any, ax axon.Axon, cctx ContextHandle) ([]signal.Signal, error)

// Dendrite binds one input collateral to a reaction. OwnerNeuronName is set
// once the dendrite is attached to a Neuron via Bind; a freshly constructed
// Dendrite has an empty OwnerNeuronName and is not yet part of any network.
type Dendrite struct {
	InputCollateralName string
	Reaction            Reaction
	OwnerNeuronName     string
}

// NewDendrite builds a Dendrite listening on inputCollateralName. Attach it
// to a neuron with Neuron.Bind, which fills in OwnerNeuronName and appends
// it to that neuron's ordered dendrite list — the order dendrites are bound
// in is the tie-break the network uses for deterministic enumeration (P6).
func NewDendrite(inputCollateralName string, reaction Reaction) Dendrite {
	return Dendrite{InputCollateralName: inputCollateralName, Reaction: reaction}
}

// ErrInvalidReactionResult is returned (wrapped with the offending index)
// when a reaction's result contains a signal with an empty CollateralName.
// Go's type system already rules out the spec's broader "non-signal array
// entry" case — every entry a Reaction returns is a signal.Signal by
// construction — so the one residual way to return something that cannot
// correspond to any registered collateral is an empty name. Per the spec's
// Open Question (i), this is treated as a fatal construction-quality error,
// not silently dropped or coerced.
type ErrInvalidReactionResult struct {
	NeuronName string
	Index      int
}

func (e *ErrInvalidReactionResult) Error() string {
	return fmt.Sprintf("neuron %q: reaction result[%d] has an empty collateral name", e.NeuronName, e.Index)
}

// ValidateOutputs checks a reaction's result for the construction-quality
// error described in ErrInvalidReactionResult. The stimulation scheduler
// calls this immediately after every reaction invocation, before any output
// signal is enqueued to a subscriber.
func ValidateOutputs(neuronName string, outputs []signal.Signal) error {
	for i, s := range outputs {
		if s.CollateralName == "" {
			return &ErrInvalidReactionResult{NeuronName: neuronName, Index: i}
		}
	}
	return nil
}
