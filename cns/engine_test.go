package cns

import (
	"context"
	"sync"
	"testing"

	"github.com/synapticforge/cns/axon"
	"github.com/synapticforge/cns/neuron"
	"github.com/synapticforge/cns/signal"
	"github.com/synapticforge/cns/stimulation"
)

func TestNewRejectsDuplicateNeuronNames(t *testing.T) {
	n := neuron.New("dup", axon.New(nil))
	_, err := New([]neuron.Neuron{n, n}, Options{})
	if err == nil {
		t.Fatalf("New with duplicate neuron names: err = nil, want an error")
	}
}

func TestStimulateEndToEnd(t *testing.T) {
	outCol := signal.UntypedNew("b.in")
	a := neuron.New("A", axon.New(map[string]signal.UntypedCollateral{"out": outCol})).
		Bind(neuron.NewDendrite("a.in", func(ctx context.Context, payload any, ax axon.Axon, cctx neuron.ContextHandle) ([]signal.Signal, error) {
			col, _ := ax.Get("out")
			return []signal.Signal{col.Make(payload)}, nil
		}))
	var mu sync.Mutex
	var received any
	b := neuron.New("B", axon.New(nil)).
		Bind(neuron.NewDendrite("b.in", func(ctx context.Context, payload any, ax axon.Axon, cctx neuron.ContextHandle) ([]signal.Signal, error) {
			mu.Lock()
			received = payload
			mu.Unlock()
			return nil, nil
		}))

	engine, err := New([]neuron.Neuron{a, b}, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	sig := signal.UntypedNew("a.in").Make("hello")
	handle := engine.Stimulate([]signal.Signal{sig}, stimulation.Options{})
	if err := handle.WaitUntilComplete(); err != nil {
		t.Fatalf("WaitUntilComplete: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if received != "hello" {
		t.Fatalf("B received %v, want %q", received, "hello")
	}
}

func TestAddResponseListenerObservesGlobalEvents(t *testing.T) {
	n := neuron.New("n", axon.New(nil)).
		Bind(neuron.NewDendrite("in", func(ctx context.Context, payload any, ax axon.Axon, cctx neuron.ContextHandle) ([]signal.Signal, error) {
			return nil, nil
		}))
	engine, err := New([]neuron.Neuron{n}, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var mu sync.Mutex
	var count int
	unsubscribe := engine.AddResponseListener(func(rec stimulation.ResponseRecord) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	})

	sig := signal.UntypedNew("in").Make(nil)
	h := engine.Stimulate([]signal.Signal{sig}, stimulation.Options{})
	if err := h.WaitUntilComplete(); err != nil {
		t.Fatalf("WaitUntilComplete: %v", err)
	}

	mu.Lock()
	got := count
	mu.Unlock()
	if got != 2 { // synthetic root record + n's own record
		t.Fatalf("listener observed %d records, want 2", got)
	}

	unsubscribe()

	h2 := engine.Stimulate([]signal.Signal{sig}, stimulation.Options{})
	if err := h2.WaitUntilComplete(); err != nil {
		t.Fatalf("WaitUntilComplete: %v", err)
	}
	mu.Lock()
	gotAfter := count
	mu.Unlock()
	if gotAfter != got {
		t.Fatalf("listener still observed records after unsubscribe: %d -> %d", got, gotAfter)
	}
}

func TestSCCIntrospectionPassthrough(t *testing.T) {
	a := neuron.New("A", axon.New(map[string]signal.UntypedCollateral{"out": signal.UntypedNew("a.out")})).
		Bind(neuron.NewDendrite("a.in", func(ctx context.Context, payload any, ax axon.Axon, cctx neuron.ContextHandle) ([]signal.Signal, error) {
			return nil, nil
		}))
	engine, err := New([]neuron.Neuron{a}, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	idx, ok := engine.SCCIndexOf("A")
	if !ok {
		t.Fatalf("SCCIndexOf(A) not found")
	}
	set := engine.SCCSetOf("A")
	if len(set) != 1 || set[0] != "A" {
		t.Fatalf("SCCSetOf(A) = %v, want [A]", set)
	}
	if !engine.CanNeuronBeGuaranteedDone("A", map[int]int{idx: 0}) {
		t.Fatalf("CanNeuronBeGuaranteedDone(A) = false, want true")
	}
}
