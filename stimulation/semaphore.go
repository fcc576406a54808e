package stimulation

import "context"

// semaphore is a buffered-channel permit pool: the teacher's own idiom for
// non-blocking concurrency gating (see axon.Axon's delivery queue in the
// teacher tree). A channel prefilled with k tokens lets tryAcquire do a
// non-blocking select to ask "is a permit free right now" and acquire do a
// blocking receive to wait for one, with the same channel serving both
// styles of caller.
type semaphore chan struct{}

// newSemaphore builds a permit pool of capacity k. k <= 0 means unbounded:
// the pool is nil, and both tryAcquire and acquire on a nil semaphore always
// succeed immediately without blocking.
func newSemaphore(k int) semaphore {
	if k <= 0 {
		return nil
	}
	s := make(semaphore, k)
	for i := 0; i < k; i++ {
		s <- struct{}{}
	}
	return s
}

// tryAcquire attempts to take a permit without blocking. A nil semaphore
// (unbounded) always succeeds.
func (s semaphore) tryAcquire() bool {
	if s == nil {
		return true
	}
	select {
	case <-s:
		return true
	default:
		return false
	}
}

// acquire blocks until a permit is available or ctx is done. A nil
// semaphore always succeeds immediately.
func (s semaphore) acquire(ctx context.Context) error {
	if s == nil {
		return nil
	}
	select {
	case <-s:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s semaphore) release() {
	if s == nil {
		return
	}
	s <- struct{}{}
}

// SemaphoreSet holds one semaphore per neuron name, keyed by the neuron's
// declared MaxConcurrency (§4.7). It is owned by the Engine and shared,
// unmodified, across every Stimulation run against that Engine — a
// neuron's concurrency cap is a property of the neuron, not of any single
// stimulation, so two concurrent Stimulations against the same Engine
// genuinely contend for the same pool of permits.
type SemaphoreSet struct {
	perNeuron map[string]semaphore
}

// NewSemaphoreSet builds one semaphore per neuron that declares a
// MaxConcurrency; neurons with no cap are simply absent from the map, and
// lookups for them behave as unbounded (see semaphoreFor).
func NewSemaphoreSet(caps map[string]int) *SemaphoreSet {
	ss := &SemaphoreSet{perNeuron: make(map[string]semaphore, len(caps))}
	for name, k := range caps {
		ss.perNeuron[name] = newSemaphore(k)
	}
	return ss
}

func (ss *SemaphoreSet) semaphoreFor(neuronName string) semaphore {
	return ss.perNeuron[neuronName]
}
