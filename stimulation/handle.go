package stimulation

import "github.com/synapticforge/cns/glia"

// Handle is the live, observable result of one Engine.Stimulate or
// Engine.Activate call (spec.md §4 "Stimulation handle"). It is returned
// immediately — for a fully synchronous reaction graph it is already
// resolved by the time the call returns — and settles exactly once,
// either cleanly, with ErrAborted, with ErrHopLimitExceeded, or with the
// first reaction or observer error.
type Handle struct {
	s *scheduler
}

// StimulationID is the identifier every ActivationTask and ResponseRecord
// produced by this run carries.
func (h *Handle) StimulationID() string { return h.s.id }

// WaitUntilComplete blocks until the stimulation has fully settled —
// every in-flight reaction finished and the queue drained — and returns
// its final error, if any.
func (h *Handle) WaitUntilComplete() error {
	<-h.s.done
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	return h.s.err
}

// GetContext returns the stimulation's per-neuron context store (spec.md
// §3 "Context store"). Safe to read concurrently with an in-progress
// run; GetContext().GetAll() is the value to feed back into a later
// Activate call's Options.ContextValues when resuming.
func (h *Handle) GetContext() *glia.Store { return h.s.store }

// GetFailedTasks returns every task that did not complete successfully —
// reaction errors, unknown-neuron rejections, and tasks drained by an
// abort — as of the moment this is called. Safe to call before
// WaitUntilComplete returns, though the list may still grow.
func (h *Handle) GetFailedTasks() []FailedTask {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	out := make([]FailedTask, len(h.s.failedTasks))
	copy(out, h.s.failedTasks)
	return out
}

// GetAllActivationTasks returns every task this stimulation has enqueued
// so far, in enqueue order, whether or not it has run yet. To retry only
// the work that did not complete, feed GetFailedTasks to Activate instead.
func (h *Handle) GetAllActivationTasks() []ActivationTask {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	out := make([]ActivationTask, len(h.s.allTasks))
	copy(out, h.s.allTasks)
	return out
}
