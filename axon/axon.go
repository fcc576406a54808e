// Package axon models a neuron's set of outputs: a local, human-readable key
// (chosen by whoever wires the neuron together) mapped to the collateral a
// reaction emits a signal on.
//
// The local key exists purely for the convenience of the reaction author —
// "axon.result.Make(v)" reads better than constructing a bare collateral
// name inline. The scheduler never looks at keys; it only ever needs the
// *set* of collateral names an axon can emit on, which Names() provides.
package axon

import (
	"fmt"
	"sort"

	"github.com/synapticforge/cns/signal"
)

// Axon is an immutable mapping from local output key to collateral. Build
// one with New and never mutate it afterward — a Neuron's axon is shared
// across every concurrent invocation of its dendrites.
type Axon struct {
	outputs map[string]signal.UntypedCollateral
	names   []string // sorted, cached once at construction
}

// New builds an Axon from a key→collateral mapping. Two keys mapping to
// collaterals of the same name are permitted (the scheduler only cares
// about the resulting name set); duplicate *names* simply collapse when
// Names() is computed.
func New(outputs map[string]signal.UntypedCollateral) Axon {
	a := Axon{outputs: make(map[string]signal.UntypedCollateral, len(outputs))}
	seen := make(map[string]struct{}, len(outputs))
	for k, c := range outputs {
		a.outputs[k] = c
		if _, ok := seen[c.Name()]; !ok {
			seen[c.Name()] = struct{}{}
			a.names = append(a.names, c.Name())
		}
	}
	sort.Strings(a.names)
	return a
}

// Get looks up the collateral bound to a local output key. The second
// return value is false if the neuron's builder never registered that key.
func (a Axon) Get(key string) (signal.UntypedCollateral, bool) {
	c, ok := a.outputs[key]
	return c, ok
}

// MustGet is Get, panicking on an unregistered key. Reactions call this
// when the key comes from their own neuron definition rather than external
// input, where a missing key is a construction bug, not a runtime
// condition to handle.
func (a Axon) MustGet(key string) signal.UntypedCollateral {
	c, ok := a.Get(key)
	if !ok {
		panic(fmt.Sprintf("axon: no output registered for key %q", key))
	}
	return c
}

// Names returns the deduplicated, sorted set of collateral names this axon
// can emit on. This is what Network construction (§C5) indexes against —
// the local keys are never observed outside this package.
func (a Axon) Names() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}
