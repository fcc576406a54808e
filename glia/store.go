// Package glia implements the per-stimulation context store: the
// neuron-name-keyed state a running stimulation's reactions read and write,
// and the strongly-connected-component-aware sweep that reclaims a
// neuron's slot once no further activation of it is possible.
//
// The name follows the teacher's own nomenclature for its housekeeping
// layer (glial/glial.go): in that codebase, glial cells patrol the network
// and clean up what neurons no longer need. Here a Store's Sweep plays
// exactly that role, except the patrol schedule is driven by the
// scheduler's SCC-quiescence check (§4.6) rather than a time-based patrol
// loop — cleanup is precise and deterministic, not probabilistic.
package glia

import (
	"sync"

	"github.com/synapticforge/cns/network"
	"github.com/synapticforge/cns/neuron"
)

// Store holds one stimulation's context state: an arbitrary value per
// neuron name, guarded by a single mutex. Stores are never shared across
// stimulations (P7) — each Stimulation owns exactly one.
type Store struct {
	mu     sync.Mutex
	values map[string]any
}

// NewStore builds a Store preloaded with initial values (e.g. from
// StimulationOptions.ContextValues, or from a prior handle's
// GetContext().GetAll() when resuming via activate). initial may be nil.
func NewStore(initial map[string]any) *Store {
	s := &Store{values: make(map[string]any, len(initial))}
	for k, v := range initial {
		s.values[k] = v
	}
	return s
}

// HandleFor returns a ContextHandle scoped to neuronName, to be passed into
// that neuron's reaction invocations for this stimulation.
func (s *Store) HandleFor(neuronName string) neuron.ContextHandle {
	return handle{store: s, neuronName: neuronName}
}

func (s *Store) get(neuronName string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[neuronName]
	return v, ok
}

func (s *Store) set(neuronName string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[neuronName] = value
}

func (s *Store) delete(neuronName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, neuronName)
}

// GetAll returns a snapshot mapping of every neuron's current context
// value. This is the serialisable form spec.md §3 describes: opaque to the
// engine, suitable for handing back into Engine.Activate's ContextValues
// option to resume a stimulation from where it left off.
func (s *Store) GetAll() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Sweep deletes every neuron's context slot whose SCC (and every SCC
// reachable from it) currently has zero active tasks and zero queued tasks
// — the guaranteed-idle condition of spec.md §4.6. Sweep itself always
// deletes such slots; the scheduler calls it only when the stimulation has
// autoCleanupContexts enabled, and callers that don't want cleanup simply
// never call Sweep.
//
// activeBySCC and queuedBySCC are snapshots the scheduler takes right
// after decrementing in-flight counters for a just-completed activation;
// Sweep does not itself inspect the live queue or in-flight counts, which
// keeps this package free of any dependency on the stimulation scheduler's
// internals.
func (s *Store) Sweep(net *network.Network, activeBySCC map[int]int, queuedBySCC map[int]int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted []string
	for name := range s.values {
		idx, ok := net.SCCIndexOf(name)
		if !ok {
			continue
		}
		idle := true
		for r := range net.ReachableSCCs(idx) {
			if activeBySCC[r] > 0 || queuedBySCC[r] > 0 {
				idle = false
				break
			}
		}
		if idle {
			deleted = append(deleted, name)
		}
	}
	for _, name := range deleted {
		delete(s.values, name)
	}
	return deleted
}

// handle is the concrete neuron.ContextHandle bound to one neuron name
// within one Store.
type handle struct {
	store      *Store
	neuronName string
}

func (h handle) Get() (any, bool) { return h.store.get(h.neuronName) }
func (h handle) Set(value any)    { h.store.set(h.neuronName, value) }
func (h handle) Delete()          { h.store.delete(h.neuronName) }
