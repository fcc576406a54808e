package neuron

import "testing"

type fakeHandle struct {
	value any
	set   bool
}

func (h *fakeHandle) Get() (any, bool) { return h.value, h.set }
func (h *fakeHandle) Set(value any)    { h.value, h.set = value, true }
func (h *fakeHandle) Delete()          { h.value, h.set = nil, false }

func TestTypedContextRoundTrip(t *testing.T) {
	h := &fakeHandle{}
	tc := Typed[int](h)

	if _, ok := tc.Get(); ok {
		t.Fatalf("Get() on empty handle ok = true, want false")
	}

	tc.Set(7)
	v, ok := tc.Get()
	if !ok || v != 7 {
		t.Fatalf("Get() = (%d, %v), want (7, true)", v, ok)
	}

	tc.Delete()
	if _, ok := tc.Get(); ok {
		t.Fatalf("Get() after Delete() ok = true, want false")
	}
}

func TestTypedContextWrongStoredType(t *testing.T) {
	h := &fakeHandle{}
	h.Set("a string, not an int")

	tc := Typed[int](h)
	if _, ok := tc.Get(); ok {
		t.Fatalf("Get() succeeded against a differently-typed stored value")
	}
}
