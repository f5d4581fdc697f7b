// Package bridge implements the boundary-crossing call and the capture
// wrapper lifecycle.
//
// Invoke is the unwinding firewall: it is the single place allowed to
// intercept an arbitrary panic and it never lets one escape outward. Every
// failure raised inside an invoked block is converted into exactly one of
// three shapes before it crosses the boundary:
//
//   - a relayed foreign payload, returned verbatim with the foreign flag set.
//     The payload is owned by the other runtime; Invoke does not interpret,
//     copy-construct, or wrap it.
//   - a typed native wrapper, when the panic value implements error. The
//     message is extracted eagerly at capture time.
//   - an untyped native wrapper for any other panic value, with a fixed
//     placeholder description.
//
// Wrapper handles are single-owner. Destroy releases one; Rethrow consumes
// one by re-raising the exact original panic value, so no Destroy follows a
// Rethrow. Misuse (an invalid handle, rethrowing a relayed guest failure,
// recovering a local failure from one) is asserted with a
// *errors.Error panic rather than tolerated.
package bridge
