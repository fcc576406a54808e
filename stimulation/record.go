package stimulation

import (
	"time"

	"github.com/synapticforge/cns/signal"
)

// ResponseRecord is the stable per-hop trace entry described in spec.md §6.
// A reaction invocation produces one per output signal it emits, or a
// single one (with a nil OutputSignal) when it emits nothing or fails; a
// task rejected before its reaction runs produces none. Each root signal
// also gets one synthetic record at HopIndex 0. Every record is fanned out
// to every registered Listener.
type ResponseRecord struct {
	StimulationID       string
	HopIndex            int
	NeuronName          string
	InputCollateralName string
	InputSignal         signal.Signal
	OutputSignal        *signal.Signal // nil == "undefined": reaction emitted nothing
	QueueLength         int
	Duration            time.Duration
	Error               error
}

// Listener is a response observer: the engine-wide sink registered via
// Engine.AddResponseListener, or the per-call sink supplied through
// Options.OnResponse. A Listener may do its own blocking work — every
// Listener invocation is already run on its own goroutine by the
// scheduler's fan-out (see scheduler.fanOut), so a Listener never needs to manage
// its own concurrency to avoid stalling its peers.
type Listener func(rec ResponseRecord) error
