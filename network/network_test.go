package network

import (
	"context"
	"testing"

	"github.com/synapticforge/cns/axon"
	"github.com/synapticforge/cns/neuron"
	"github.com/synapticforge/cns/signal"
)

func noop(ctx context.Context, payload any, ax axon.Axon, cctx neuron.ContextHandle) ([]signal.Signal, error) {
	return nil, nil
}

func buildNeuron(t *testing.T, name string, outputCollateral string, listensOn ...string) neuron.Neuron {
	t.Helper()
	outputs := map[string]signal.UntypedCollateral{}
	if outputCollateral != "" {
		outputs["out"] = signal.UntypedNew(outputCollateral)
	}
	n := neuron.New(name, axon.New(outputs))
	for _, in := range listensOn {
		n = n.Bind(neuron.NewDendrite(in, noop))
	}
	return n
}

func TestBuildRejectsDuplicateNames(t *testing.T) {
	a := buildNeuron(t, "dup", "a.out")
	b := buildNeuron(t, "dup", "b.out")

	_, err := Build([]neuron.Neuron{a, b})
	if err == nil {
		t.Fatalf("Build with duplicate names: err = nil, want *ErrDuplicateNeuronName")
	}
	if _, ok := err.(*ErrDuplicateNeuronName); !ok {
		t.Fatalf("Build err = %v (%T), want *ErrDuplicateNeuronName", err, err)
	}
}

// TestLinearChainHasNoCycles builds A -> B -> C (A emits on "a.out", B
// subscribes to it and emits "b.out", C subscribes to that) and checks
// that every neuron lands in its own singleton SCC.
func TestLinearChainHasNoCycles(t *testing.T) {
	a := buildNeuron(t, "A", "a.out")
	b := buildNeuron(t, "B", "b.out", "a.out")
	c := buildNeuron(t, "C", "", "b.out")

	net, err := Build([]neuron.Neuron{a, b, c})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, name := range []string{"A", "B", "C"} {
		idx, ok := net.SCCIndexOf(name)
		if !ok {
			t.Fatalf("SCCIndexOf(%q) not found", name)
		}
		if net.SCCSize(idx) != 1 {
			t.Fatalf("SCC of %q has size %d, want 1", name, net.SCCSize(idx))
		}
	}
}

// TestCycleFormsOneSCC wires A <-> B into a mutual cycle and checks they
// land in the same SCC, with a downstream C remaining separate.
func TestCycleFormsOneSCC(t *testing.T) {
	a := buildNeuron(t, "A", "a.out", "b.out")
	b := buildNeuron(t, "B", "b.out", "a.out")
	c := buildNeuron(t, "C", "", "a.out")

	net, err := Build([]neuron.Neuron{a, b, c})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	aIdx, _ := net.SCCIndexOf("A")
	bIdx, _ := net.SCCIndexOf("B")
	cIdx, _ := net.SCCIndexOf("C")

	if aIdx != bIdx {
		t.Fatalf("A and B are in different SCCs: %d vs %d", aIdx, bIdx)
	}
	if aIdx == cIdx {
		t.Fatalf("C should not share A/B's SCC")
	}
	if net.SCCSize(aIdx) != 2 {
		t.Fatalf("A/B SCC size = %d, want 2", net.SCCSize(aIdx))
	}

	// C is reachable from the A/B cycle, so the cycle's reachable set
	// must include C's SCC; C's own reachable set must not include A/B's.
	reachFromCycle := net.ReachableSCCs(aIdx)
	if _, ok := reachFromCycle[cIdx]; !ok {
		t.Fatalf("ReachableSCCs(%d) = %v, want it to contain C's SCC %d", aIdx, reachFromCycle, cIdx)
	}
	reachFromC := net.ReachableSCCs(cIdx)
	if _, ok := reachFromC[aIdx]; ok {
		t.Fatalf("ReachableSCCs(%d) unexpectedly contains A/B's SCC", cIdx)
	}
}

func TestSelfLoopFormsSingletonSCCWithEdge(t *testing.T) {
	a := buildNeuron(t, "A", "a.out", "a.out")

	net, err := Build([]neuron.Neuron{a})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	idx, _ := net.SCCIndexOf("A")
	if net.SCCSize(idx) != 1 {
		t.Fatalf("SCC of A has size %d, want 1", net.SCCSize(idx))
	}
	if edges := net.edges["A"]; len(edges) != 1 || edges[0] != "A" {
		t.Fatalf("edges[A] = %v, want [A]", edges)
	}
	reach := net.ReachableSCCs(idx)
	if _, ok := reach[idx]; !ok {
		t.Fatalf("ReachableSCCs(%d) = %v, want it to (reflexively) contain itself", idx, reach)
	}
}

func TestSubscribersOrderMatchesDeclarationOrder(t *testing.T) {
	p := buildNeuron(t, "P", "p.out")
	s1 := buildNeuron(t, "S1", "", "p.out")
	s2 := buildNeuron(t, "S2", "", "p.out")

	net, err := Build([]neuron.Neuron{p, s1, s2})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	subs := net.Subscribers("p.out")
	if len(subs) != 2 || subs[0].NeuronName != "S1" || subs[1].NeuronName != "S2" {
		t.Fatalf("Subscribers order = %+v, want [S1, S2]", subs)
	}
}

func TestCanNeuronBeGuaranteedDone(t *testing.T) {
	a := buildNeuron(t, "A", "a.out")
	b := buildNeuron(t, "B", "", "a.out")

	net, err := Build([]neuron.Neuron{a, b})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	aIdx, _ := net.SCCIndexOf("A")
	bIdx, _ := net.SCCIndexOf("B")

	active := map[int]int{bIdx: 1}
	if net.CanNeuronBeGuaranteedDone("A", active) {
		t.Fatalf("A should not be guaranteed done while downstream B is active")
	}

	active = map[int]int{aIdx: 0, bIdx: 0}
	if !net.CanNeuronBeGuaranteedDone("A", active) {
		t.Fatalf("A should be guaranteed done once nothing reachable is active")
	}
}
