package reactions

import (
	"context"
	"testing"

	"github.com/synapticforge/cns/axon"
	"github.com/synapticforge/cns/signal"
)

func TestEchoReaction(t *testing.T) {
	reg := Default()
	ax := axon.New(map[string]signal.UntypedCollateral{"out": signal.UntypedNew("n.out")})

	reaction, err := reg.Build("echo", "out")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	outputs, err := reaction(context.Background(), "payload", ax, nil)
	if err != nil {
		t.Fatalf("reaction: %v", err)
	}
	if len(outputs) != 1 || outputs[0].Payload != "payload" || outputs[0].CollateralName != "n.out" {
		t.Fatalf("unexpected outputs: %+v", outputs)
	}
}

func TestUppercaseReaction(t *testing.T) {
	reg := Default()
	ax := axon.New(map[string]signal.UntypedCollateral{"out": signal.UntypedNew("n.out")})

	reaction, err := reg.Build("uppercase", "out")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	outputs, err := reaction(context.Background(), "hello", ax, nil)
	if err != nil {
		t.Fatalf("reaction: %v", err)
	}
	if outputs[0].Payload != "HELLO" {
		t.Fatalf("Payload = %v, want HELLO", outputs[0].Payload)
	}

	outputs, err = reaction(context.Background(), 42, ax, nil)
	if err != nil {
		t.Fatalf("reaction: %v", err)
	}
	if outputs[0].Payload != 42 {
		t.Fatalf("non-string payload was altered: %v", outputs[0].Payload)
	}
}

func TestDiscardReactionEmitsNothing(t *testing.T) {
	reg := Default()
	ax := axon.New(nil)
	reaction, err := reg.Build("discard", "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	outputs, err := reaction(context.Background(), "anything", ax, nil)
	if err != nil || len(outputs) != 0 {
		t.Fatalf("discard reaction = (%v, %v), want (nil/empty, nil)", outputs, err)
	}
}

type memHandle struct {
	v  any
	ok bool
}

func (h *memHandle) Get() (any, bool) { return h.v, h.ok }
func (h *memHandle) Set(v any)        { h.v, h.ok = v, true }
func (h *memHandle) Delete()          { h.v, h.ok = nil, false }

func TestCountReactionIncrementsAcrossCalls(t *testing.T) {
	reg := Default()
	ax := axon.New(map[string]signal.UntypedCollateral{"out": signal.UntypedNew("n.out")})
	reaction, err := reg.Build("count", "out")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	h := &memHandle{}

	for i := 1; i <= 3; i++ {
		outputs, err := reaction(context.Background(), nil, ax, h)
		if err != nil {
			t.Fatalf("reaction call %d: %v", i, err)
		}
		if outputs[0].Payload != i {
			t.Fatalf("call %d: Payload = %v, want %d", i, outputs[0].Payload, i)
		}
	}
}

func TestBuildUnknownReaction(t *testing.T) {
	reg := Default()
	if _, err := reg.Build("nope", "out"); err == nil {
		t.Fatalf("Build(\"nope\", ...) err = nil, want an error")
	}
}
