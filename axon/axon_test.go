package axon

import (
	"testing"

	"github.com/synapticforge/cns/signal"
)

func TestAxonGet(t *testing.T) {
	ax := New(map[string]signal.UntypedCollateral{
		"out": signal.UntypedNew("neuron.out"),
	})

	col, ok := ax.Get("out")
	if !ok {
		t.Fatalf("Get(\"out\") ok = false, want true")
	}
	if col.Name() != "neuron.out" {
		t.Fatalf("Get(\"out\").Name() = %q, want %q", col.Name(), "neuron.out")
	}

	if _, ok := ax.Get("missing"); ok {
		t.Fatalf("Get(\"missing\") ok = true, want false")
	}
}

func TestAxonMustGetPanicsOnUnknownKey(t *testing.T) {
	ax := New(nil)
	defer func() {
		if recover() == nil {
			t.Fatalf("MustGet on unregistered key did not panic")
		}
	}()
	ax.MustGet("nope")
}

func TestAxonNamesSortedAndDeduplicated(t *testing.T) {
	ax := New(map[string]signal.UntypedCollateral{
		"a": signal.UntypedNew("shared"),
		"b": signal.UntypedNew("shared"),
		"c": signal.UntypedNew("zzz"),
		"d": signal.UntypedNew("aaa"),
	})

	names := ax.Names()
	want := []string{"aaa", "shared", "zzz"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names()[%d] = %q, want %q (full: %v)", i, names[i], want[i], names)
		}
	}
}
