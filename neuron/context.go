package neuron

// ContextHandle is the view of the context store a running reaction is
// given: access scoped to its own neuron's slot only. A reaction can never
// see or touch another neuron's state through this handle, which is what
// gives P7 (context isolation) its enforcement point — the handle simply
// has no way to address anything else.
//
// Concrete implementations live in package glia (the context store owns the
// map this handle reaches into); neuron only needs the interface so that
// Reaction can be declared without importing glia.
type ContextHandle interface {
	// Get returns the neuron's current stored value and whether one has
	// ever been Set (false on first invocation of a fresh stimulation).
	Get() (any, bool)

	// Set overwrites the neuron's stored value for the remainder of the
	// stimulation (or until Delete, or until SCC-based cleanup reclaims
	// it — see glia.Store).
	Set(value any)

	// Delete clears the neuron's stored value early. Reactions rarely need
	// this directly; it exists mainly for symmetry with Get/Set and for
	// reactions that model "I am done, forget me" explicitly.
	Delete()
}

// TypedContext adapts a raw ContextHandle to a statically typed view for
// reactions that always store one concrete Go type in their slot. This is
// the runtime-identical analogue of the spec's "context-aware" neuron
// variant (§4.2): the phantom type exists only at the call site, the
// underlying handle is the same ContextHandle either way.
type TypedContext[T any] struct {
	h ContextHandle
}

// Typed wraps h for typed access to a T-shaped context slot.
func Typed[T any](h ContextHandle) TypedContext[T] {
	return TypedContext[T]{h: h}
}

// Get returns the stored value, type-asserted to T. ok is false both when
// nothing has been stored yet and when a value of a different type was
// stored by a previous, differently-typed reaction sharing this neuron
// name — callers that rely on this should keep one type per neuron.
func (t TypedContext[T]) Get() (T, bool) {
	var zero T
	v, ok := t.h.Get()
	if !ok {
		return zero, false
	}
	tv, ok := v.(T)
	return tv, ok
}

// Set stores value in the neuron's context slot.
func (t TypedContext[T]) Set(value T) {
	t.h.Set(value)
}

// Delete clears the neuron's context slot.
func (t TypedContext[T]) Delete() {
	t.h.Delete()
}
