// Package neuron defines the named processing unit of the network: a
// Neuron owns one Axon (its set of possible outputs) and an ordered list of
// Dendrites (its input bindings), and may optionally cap how many of its
// own reactions can run concurrently, network-wide.
//
// A Neuron is built functionally, mirroring the chainable builder the spec
// describes (§4.2): New returns a zero-dendrite neuron, and each Bind
// returns a new value with one more dendrite appended. Neurons are never
// mutated in place after being handed to network.Build — the same
// immutability discipline the network index itself relies on (§4.3).
package neuron

import (
	"errors"
	"fmt"

	"github.com/synapticforge/cns/axon"
)

// ErrNonPositiveConcurrency is a construction error (§7 kind 1): a
// maxConcurrency cap must be a positive integer, or simply unset.
var ErrNonPositiveConcurrency = errors.New("neuron: maxConcurrency must be positive")

// Neuron is an immutable value: name, axon, ordered dendrites, and an
// optional concurrency cap. Zero value of maxConcurrency means "no cap",
// matching the spec's "absence means no cap" rule for maxConcurrency.
type Neuron struct {
	name           string
	ax             axon.Axon
	dendrites      []Dendrite
	maxConcurrency int
}

// New starts a Neuron named name with axon ax and no dendrites bound yet.
func New(name string, ax axon.Axon) Neuron {
	return Neuron{name: name, ax: ax}
}

// Bind appends d to the neuron's ordered dendrite list, returning a new
// Neuron value (the receiver is left untouched). d.OwnerNeuronName is
// overwritten with this neuron's name regardless of what it was set to
// before — a Dendrite only really belongs to the neuron that last bound it.
func (n Neuron) Bind(d Dendrite) Neuron {
	d.OwnerNeuronName = n.name
	out := n
	out.dendrites = make([]Dendrite, len(n.dendrites)+1)
	copy(out.dendrites, n.dendrites)
	out.dendrites[len(n.dendrites)] = d
	return out
}

// WithMaxConcurrency returns a new Neuron with a per-neuron concurrency cap
// of k. k must be positive; a zero or negative k is a construction error
// (ErrNonPositiveConcurrency), raised synchronously and meant to be
// surfaced before the neuron ever reaches network.Build.
func (n Neuron) WithMaxConcurrency(k int) (Neuron, error) {
	if k <= 0 {
		return Neuron{}, fmt.Errorf("%w: got %d for neuron %q", ErrNonPositiveConcurrency, k, n.name)
	}
	out := n
	out.maxConcurrency = k
	return out, nil
}

// Name returns the neuron's network-unique name.
func (n Neuron) Name() string { return n.name }

// Axon returns the neuron's output mapping.
func (n Neuron) Axon() axon.Axon { return n.ax }

// Dendrites returns the neuron's dendrites in binding order. The returned
// slice is a copy; mutating it does not affect the neuron.
func (n Neuron) Dendrites() []Dendrite {
	out := make([]Dendrite, len(n.dendrites))
	copy(out, n.dendrites)
	return out
}

// MaxConcurrency returns the neuron's concurrency cap and whether one is
// set at all (ok is false when the neuron has no cap).
func (n Neuron) MaxConcurrency() (k int, ok bool) {
	return n.maxConcurrency, n.maxConcurrency > 0
}

// OutputCollateralNames returns the set of collateral names this neuron can
// emit on — the axon's local keys are a convenience for reaction authors
// and are never observed outside this package (§3 "Axon").
func (n Neuron) OutputCollateralNames() []string {
	return n.ax.Names()
}
