// Package network builds the static index the scheduler runs against:
// which dendrites subscribe to which collateral, which neurons feed which
// other neurons, and how those neurons group into strongly connected
// components for cycle-safe context cleanup (§4.6).
//
// A Network is built once, from a fixed neuron list, and never changes
// afterward — the same "construct once, read freely from many goroutines"
// contract the teacher's ComponentRegistry gives its static component
// metadata, just computed eagerly here instead of grown incrementally.
package network

import (
	"fmt"
	"sort"

	"github.com/synapticforge/cns/neuron"
)

// Subscriber is one entry in a collateral's subscriber list: the neuron and
// dendrite that will react when a signal arrives on that collateral.
type Subscriber struct {
	NeuronName string
	Dendrite   neuron.Dendrite
}

// Network is the immutable index described in spec.md §3 "Network".
type Network struct {
	neurons    map[string]neuron.Neuron
	order      []string // insertion order, preserved for deterministic traversal
	subscribers map[string][]Subscriber
	outputs    map[string]map[string]struct{}

	edges map[string][]string // neuronName -> sorted, deduplicated target neuron names

	sccIndex map[string]int
	sccs     [][]string // index -> member neuron names

	// reachable[i] is the set of SCC indices reachable from i, reflexively.
	reachable []map[int]struct{}
}

// ErrDuplicateNeuronName is a construction error (§7 kind 1): neuron names
// must be unique within a network.
type ErrDuplicateNeuronName struct{ Name string }

func (e *ErrDuplicateNeuronName) Error() string {
	return fmt.Sprintf("network: duplicate neuron name %q", e.Name)
}

// Build indexes neurons into a Network. Duplicate neuron names are a
// synchronous, fatal construction error; everything else (subscribers,
// edges, SCCs, reachability) is then derived deterministically from the
// neuron list and its declared dendrites.
func Build(neurons []neuron.Neuron) (*Network, error) {
	n := &Network{
		neurons:     make(map[string]neuron.Neuron, len(neurons)),
		subscribers: make(map[string][]Subscriber),
		outputs:     make(map[string]map[string]struct{}, len(neurons)),
		edges:       make(map[string][]string, len(neurons)),
	}

	for _, nr := range neurons {
		if _, exists := n.neurons[nr.Name()]; exists {
			return nil, &ErrDuplicateNeuronName{Name: nr.Name()}
		}
		n.neurons[nr.Name()] = nr
		n.order = append(n.order, nr.Name())

		outSet := make(map[string]struct{})
		for _, name := range nr.OutputCollateralNames() {
			outSet[name] = struct{}{}
		}
		n.outputs[nr.Name()] = outSet
	}

	// subscribers: declaration order = neuron insertion order, then
	// dendrite declaration order within that neuron (P6).
	for _, name := range n.order {
		nr := n.neurons[name]
		for _, d := range nr.Dendrites() {
			n.subscribers[d.InputCollateralName] = append(n.subscribers[d.InputCollateralName], Subscriber{
				NeuronName: name,
				Dendrite:   d,
			})
		}
	}

	n.buildEdges()
	n.buildSCCs()
	n.buildReachability()

	return n, nil
}

// buildEdges computes A -> B whenever A outputs some collateral that B has
// a dendrite subscribed to. Targets are stored sorted and deduplicated so
// every later traversal (SCC discovery in particular) is deterministic
// regardless of Go's randomized map iteration order.
func (n *Network) buildEdges() {
	for _, a := range n.order {
		targets := make(map[string]struct{})
		for collateralName := range n.outputs[a] {
			for _, sub := range n.subscribers[collateralName] {
				// A self-loop (A subscribes to its own output) still
				// belongs in the edge set: it is exactly what makes a
				// single neuron its own size-1 cyclic SCC member, and
				// dropping it here would hide that from SCC discovery.
				targets[sub.NeuronName] = struct{}{}
			}
		}
		sorted := make([]string, 0, len(targets))
		for t := range targets {
			sorted = append(sorted, t)
		}
		sort.Strings(sorted)
		n.edges[a] = sorted
	}
}

// Neurons returns the network's neurons in insertion order.
func (n *Network) Neurons() []neuron.Neuron {
	out := make([]neuron.Neuron, len(n.order))
	for i, name := range n.order {
		out[i] = n.neurons[name]
	}
	return out
}

// Neuron looks up a neuron by name.
func (n *Network) Neuron(name string) (neuron.Neuron, bool) {
	nr, ok := n.neurons[name]
	return nr, ok
}

// Subscribers returns the ordered subscriber list for a collateral name.
// An unknown collateral simply has no subscribers (spec.md §3 invariant).
func (n *Network) Subscribers(collateralName string) []Subscriber {
	subs := n.subscribers[collateralName]
	out := make([]Subscriber, len(subs))
	copy(out, subs)
	return out
}
