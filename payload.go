package unwindbridge

// Payload is the value that carries a failure across the host/guest boundary.
// It is exactly two machine words, trivially copyable, and bit-stable: a
// relay cycle must return the identical bit pattern.
//
// Only the runtime that produced a Payload knows how to reconstruct the
// failure it names. Everyone else treats it as opaque and either relays it
// onward unchanged or never touches it.
type Payload struct {
	P0 uint64
	P1 uint64
}

// IsZero reports whether p is the empty payload, meaning no failure.
func (p Payload) IsZero() bool {
	return p == Payload{}
}

// Wrapper returns the wrapper handle packed into p, or 0 if p does not carry
// one. Valid only for payloads returned by bridge.Invoke with the foreign
// flag false.
func (p Payload) Wrapper() Handle {
	return Handle(p.P0)
}

// Handle is an opaque, exclusively-owned reference to a captured failure.
// Handle 0 is reserved and always invalid.
type Handle uint64

// Failure is implemented by captured failures that can describe themselves.
type Failure interface {
	// Describe returns a human-readable message for the failure. The text is
	// extracted once, at capture time, never lazily.
	Describe() string
}
