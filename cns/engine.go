// Package cns is the public surface of the engine: construct a Network
// once from a neuron list, then fire any number of Stimulations against
// it, each observed through response listeners and resolved through a
// Handle. The name mirrors what the teacher repo's own root package
// played for a biological network — a thin, static entry point in front
// of an otherwise self-contained set of subpackages.
package cns

import (
	"fmt"
	"log/slog"

	"github.com/synapticforge/cns/neuron"
	"github.com/synapticforge/cns/network"
	"github.com/synapticforge/cns/signal"
	"github.com/synapticforge/cns/stimulation"
)

// Options configures an Engine at construction time (spec.md §3 "Engine
// options"). The zero value is valid: unbounded default concurrency, a
// generous default hop limit, context cleanup disabled, and logging off.
type Options struct {
	// DefaultConcurrency caps how many reactions any one Stimulation may
	// run at once when that Stimulation's own Options.Concurrency is left
	// unset. Zero or negative means unbounded at the stimulation level.
	DefaultConcurrency int

	// AutoCleanupContexts enables the SCC-quiescence context sweep
	// (§4.6) for every Stimulation. A Stimulation's own
	// Options.AutoCleanupContexts can turn the sweep on when this is
	// false, but cannot turn it off when this is true.
	AutoCleanupContexts bool

	// Logger receives structured diagnostics about engine construction
	// and stimulation lifecycle events. A nil Logger disables logging
	// entirely rather than falling back to slog's default handler —
	// silence is the expected default for a library embedded in someone
	// else's process.
	Logger *slog.Logger
}

// Engine is the immutable, concurrency-safe entry point built from a fixed
// neuron list (spec.md §3 "Engine"). Every Stimulate/Activate call against
// one Engine shares the same per-neuron concurrency semaphores and the
// same set of registered global response listeners.
type Engine struct {
	net       *network.Network
	sems      *stimulation.SemaphoreSet
	listeners *stimulation.ListenerRegistry
	opts      Options
	log       *slog.Logger
}

// New builds an Engine from a neuron list. Construction errors (duplicate
// neuron names) are the only synchronous, fatal error class at this layer
// (§7 kind 1) — everything else is discovered per-stimulation.
func New(neurons []neuron.Neuron, opts Options) (*Engine, error) {
	net, err := network.Build(neurons)
	if err != nil {
		return nil, err
	}

	caps := make(map[string]int)
	for _, n := range net.Neurons() {
		if k, ok := n.MaxConcurrency(); ok {
			caps[n.Name()] = k
		}
	}

	log := opts.Logger
	if log != nil {
		log.Info("engine constructed", "neurons", len(net.Neurons()), "sccs", len(net.StronglyConnectedComponents()))
	}

	return &Engine{
		net:       net,
		sems:      stimulation.NewSemaphoreSet(caps),
		listeners: stimulation.NewListenerRegistry(),
		opts:      opts,
		log:       log,
	}, nil
}

// Stimulate starts a new Stimulation by injecting root signals (spec.md
// §4 "Stimulate"). The returned Handle is live immediately.
func (e *Engine) Stimulate(signals []signal.Signal, opts stimulation.Options) *stimulation.Handle {
	if e.log != nil {
		e.log.Debug("stimulation started", "signals", len(signals))
	}
	h := stimulation.Stimulate(e.net, e.sems, e.listeners, signals, opts, e.opts.DefaultConcurrency, e.opts.AutoCleanupContexts)
	e.logCompletion(h)
	return h
}

// Activate resumes or seeds a Stimulation directly from an explicit task
// list (spec.md §4.10 "Retry via Activate").
func (e *Engine) Activate(tasks []stimulation.ActivationTask, opts stimulation.Options) *stimulation.Handle {
	if e.log != nil {
		e.log.Debug("stimulation activated", "tasks", len(tasks))
	}
	h := stimulation.Activate(e.net, e.sems, e.listeners, tasks, opts, e.opts.DefaultConcurrency, e.opts.AutoCleanupContexts)
	e.logCompletion(h)
	return h
}

// logCompletion logs h's outcome from a background goroutine that waits for
// it to settle, so Stimulate/Activate return without waiting on the log
// line and keep their synchronous-graph eagerness guarantee.
func (e *Engine) logCompletion(h *stimulation.Handle) {
	if e.log == nil {
		return
	}
	go func() {
		err := h.WaitUntilComplete()
		if err != nil {
			e.log.Warn("stimulation settled with error", "stimulationID", h.StimulationID(), "error", err)
			return
		}
		e.log.Debug("stimulation settled", "stimulationID", h.StimulationID())
	}()
}

// AddResponseListener registers fn against every Stimulation run against
// this Engine, from this point forward, until the returned function is
// called.
func (e *Engine) AddResponseListener(fn stimulation.Listener) (unsubscribe func()) {
	return e.listeners.Add(fn)
}

// Neurons returns the engine's neurons in declaration order.
func (e *Engine) Neurons() []neuron.Neuron { return e.net.Neurons() }

// Neuron looks up a single neuron by name.
func (e *Engine) Neuron(name string) (neuron.Neuron, bool) { return e.net.Neuron(name) }

// StronglyConnectedComponents exposes the network's SCC decomposition
// (spec.md §6 "Network introspection").
func (e *Engine) StronglyConnectedComponents() [][]string { return e.net.StronglyConnectedComponents() }

// SCCIndexOf returns the SCC id a neuron belongs to.
func (e *Engine) SCCIndexOf(name string) (int, bool) { return e.net.SCCIndexOf(name) }

// SCCSetOf returns the neuron names sharing name's SCC.
func (e *Engine) SCCSetOf(name string) []string { return e.net.SCCSetOf(name) }

// CanNeuronBeGuaranteedDone answers whether, given a snapshot of
// active-task counts per SCC, a neuron's work is guaranteed finished.
func (e *Engine) CanNeuronBeGuaranteedDone(name string, activeBySCC map[int]int) bool {
	return e.net.CanNeuronBeGuaranteedDone(name, activeBySCC)
}

// String renders a short diagnostic summary of the engine's network
// shape, useful in logs.
func (e *Engine) String() string {
	return fmt.Sprintf("cns.Engine{neurons=%d, sccs=%d}", len(e.net.Neurons()), len(e.net.StronglyConnectedComponents()))
}
