// Package unwindbridge provides a two-way failure bridge between the Go
// runtime and an embedded guest runtime with its own unwinding mechanism.
//
// A failure raised on one side of a host/guest call boundary must never be
// allowed to unwind uninterpreted into the other side's machinery. This
// library catches failures exactly at the boundary, carries them across as
// opaque relocatable values, and either re-raises them in the runtime that
// owns them or converts them into the receiving runtime's native
// representation.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	unwindbridge/        Root package with the boundary payload and handle types
//	├── bridge/          Boundary-crossing call, capture wrappers, relay and rethrow
//	├── handle/          Table mapping opaque handles to captured failures
//	├── guest/           wazero integration: trap sealing and the host-function firewall
//	└── errors/          Structured error types for contract violations and traps
//
// # Quick Start
//
// Intercept any panic raised inside a block:
//
//	payload, foreign := bridge.Invoke(func() {
//	    doWork()
//	})
//	if h := payload.Wrapper(); h != 0 {
//	    fmt.Println(bridge.Describe(h))
//	    bridge.Destroy(h)
//	}
//
// Re-raise a captured failure so an enclosing recover observes the exact
// original value:
//
//	bridge.Rethrow(h)
//
// # Payload Discipline
//
// A Payload produced on one side of the boundary is owned by that side. The
// receiving side must either relay it onward unchanged (see
// bridge.ThrowForeign) or hand it back to its owning runtime for
// reconstruction (see guest.Unseal). It must never be introspected
// or consumed twice.
//
// # Thread Safety
//
// The bridge has no scheduler of its own; interception is stack-local to the
// calling goroutine. Independent boundary calls may run concurrently on
// separate goroutines. Wrapper handles are exclusively owned and transfer by
// handing the handle across the boundary, never by sharing.
package unwindbridge
