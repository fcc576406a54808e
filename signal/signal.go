// Package signal defines the engine's smallest unit of traffic: a named
// channel identity (Collateral) and the value travelling on it (Signal).
//
// There is no global registry here. Two Collateral values with the same
// Name are the same channel as far as the rest of the engine is concerned
// — subscription, indexing, and tracing all key on the string name, never
// on pointer identity. Callers are free to construct and share Collaterals
// however is convenient.
package signal

// Collateral is a named, typed channel identity. It carries no behavior of
// its own beyond constructing Signals tagged with its name; the scheduler
// only ever looks at Name().
//
// The type parameter is a compile-time aid for callers (Make returns a
// Signal whose Payload is statically known to be T at the call site); it
// has no effect on runtime behavior, which always operates on the untyped
// Signal below.
type Collateral[T any] struct {
	name string
}

// New constructs a Collateral identified by name. Name equality is the
// engine's only notion of channel identity: two Collaterals built with the
// same name are interchangeable wherever the engine looks one up.
func New[T any](name string) Collateral[T] {
	return Collateral[T]{name: name}
}

// Name returns the collateral's stable wire identity.
func (c Collateral[T]) Name() string {
	return c.name
}

// Make builds a Signal carrying payload, tagged with this collateral's name.
func (c Collateral[T]) Make(payload T) Signal {
	return Signal{CollateralName: c.name, Payload: payload}
}

// Untyped returns an UntypedCollateral view of c, for code paths (network
// indexing, dendrite registration) that only need the name and cannot know
// T statically.
func (c Collateral[T]) Untyped() UntypedCollateral {
	return UntypedCollateral{name: c.name}
}

// UntypedCollateral is the runtime-erased form of Collateral[T], used
// wherever the engine needs to hold a heterogeneous set of collaterals
// (an Axon's output set, a Dendrite's input binding) without a common type
// parameter.
type UntypedCollateral struct {
	name string
}

// UntypedNew constructs an UntypedCollateral directly, for call sites that
// never needed the typed wrapper (e.g. parsing a network definition from a
// config document).
func UntypedNew(name string) UntypedCollateral {
	return UntypedCollateral{name: name}
}

// Name returns the collateral's stable wire identity.
func (c UntypedCollateral) Name() string {
	return c.name
}

// Make builds a Signal carrying payload, tagged with this collateral's name.
func (c UntypedCollateral) Make(payload any) Signal {
	return Signal{CollateralName: c.name, Payload: payload}
}

// Signal is a pure value: a payload tagged with the name of the collateral
// it travels on. Signals are freely copyable and are never mutated by the
// engine after a reaction emits them — a reaction must treat its own
// returned signals, and any signal it receives, as read-only.
type Signal struct {
	CollateralName string
	Payload        any
}
