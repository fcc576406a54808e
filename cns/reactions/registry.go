// Package reactions is a small named registry of built-in Reaction
// implementations that a YAML network definition (cns/config) can bind a
// dendrite to by name, since reaction code itself cannot be expressed in
// configuration. It exists for cmd/cnsrun and for tests that want a
// network built entirely from data rather than hand-written Go.
package reactions

import (
	"context"
	"fmt"
	"strings"

	"github.com/synapticforge/cns/axon"
	"github.com/synapticforge/cns/neuron"
	"github.com/synapticforge/cns/signal"
)

// Registry maps a name (as used in a config.Dendrite.Reaction field) to a
// constructor that binds the axon key of that reaction's output at build
// time, since most built-ins need to know which of the owning neuron's
// declared outputs to emit on.
type Registry struct {
	builders map[string]func(outputCollateral string) neuron.Reaction
}

// Default returns a Registry preloaded with every built-in reaction.
func Default() *Registry {
	r := &Registry{builders: make(map[string]func(string) neuron.Reaction)}
	r.Register("echo", echoReaction)
	r.Register("uppercase", uppercaseReaction)
	r.Register("discard", discardReaction)
	r.Register("count", countReaction)
	return r
}

// Register adds or replaces a named reaction builder.
func (r *Registry) Register(name string, builder func(outputCollateral string) neuron.Reaction) {
	r.builders[name] = builder
}

// Build looks up name and binds it to outputCollateral, the axon key the
// reaction looks its output collateral up by (cns/config passes the owning
// neuron's first declared output, whose key is its collateral name).
// Built-ins are all single-output for simplicity; a hand-written Reaction
// is free to emit on any number of collaterals.
func (r *Registry) Build(name, outputCollateral string) (neuron.Reaction, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("reactions: unknown built-in %q", name)
	}
	return builder(outputCollateral), nil
}

// echoReaction re-emits its input payload unchanged on the collateral the
// axon maps outputCollateral to.
func echoReaction(outputCollateral string) neuron.Reaction {
	return func(ctx context.Context, payload any, ax axon.Axon, cctx neuron.ContextHandle) ([]signal.Signal, error) {
		col, ok := ax.Get(outputCollateral)
		if !ok {
			return nil, fmt.Errorf("reactions: echo: neuron has no output %q", outputCollateral)
		}
		return []signal.Signal{col.Make(payload)}, nil
	}
}

// uppercaseReaction upper-cases a string payload; a non-string payload is
// passed through unchanged.
func uppercaseReaction(outputCollateral string) neuron.Reaction {
	return func(ctx context.Context, payload any, ax axon.Axon, cctx neuron.ContextHandle) ([]signal.Signal, error) {
		col, ok := ax.Get(outputCollateral)
		if !ok {
			return nil, fmt.Errorf("reactions: uppercase: neuron has no output %q", outputCollateral)
		}
		out := payload
		if s, ok := payload.(string); ok {
			out = strings.ToUpper(s)
		}
		return []signal.Signal{col.Make(out)}, nil
	}
}

// discardReaction consumes its input and emits nothing.
func discardReaction(outputCollateral string) neuron.Reaction {
	return func(ctx context.Context, payload any, ax axon.Axon, cctx neuron.ContextHandle) ([]signal.Signal, error) {
		return nil, nil
	}
}

// countReaction keeps a running per-neuron count of invocations in its
// context handle and emits the new count on outputCollateral.
func countReaction(outputCollateral string) neuron.Reaction {
	return func(ctx context.Context, payload any, ax axon.Axon, cctx neuron.ContextHandle) ([]signal.Signal, error) {
		col, ok := ax.Get(outputCollateral)
		if !ok {
			return nil, fmt.Errorf("reactions: count: neuron has no output %q", outputCollateral)
		}
		n := 0
		if v, ok := cctx.Get(); ok {
			n, _ = v.(int)
		}
		n++
		cctx.Set(n)
		return []signal.Signal{col.Make(n)}, nil
	}
}
