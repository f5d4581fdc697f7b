// Package guest integrates the bridge with a wazero guest runtime.
//
// The guest's traps and the host's panics are incompatible unwinding
// mechanisms living in one process. This package keeps each on its own side
// of the call boundary:
//
//   - A trap raised by guest code surfaces on the host as a structured
//     *errors.Error, or is sealed into an opaque payload that only this
//     package can reconstruct (Seal/Unseal).
//   - A panic raised inside a registered host function never unwinds into
//     the guest's call machinery. The firewall intercepts it, halts the
//     guest the same way wasi proc_exit does, and re-raises the original
//     panic value on the host side once the guest call returns. An enclosing
//     bridge.Invoke then observes the exact original failure.
//
// # Usage
//
//	r, err := guest.NewRunner(ctx)
//	...
//	r.BindHost("env", "fail", failFn, nil, nil)
//	if err := r.Load(ctx, wasmBytes); err != nil {
//	    ...
//	}
//	results, err := r.Call(ctx, "run")
//
// Runner is not safe for concurrent use; run one call chain per Runner, or
// synchronize externally.
package guest
