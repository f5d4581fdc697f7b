// Package errors provides structured error types for the unwind-bridge library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). Contract violations are raised as panics by the bridge package;
// this package only defines the values those panics carry, so tests and
// callers can match them with errors.Is/As.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRethrow, errors.KindContractViolation).
//		Handle(uint64(h)).
//		Detail("rethrow on a relayed guest failure").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidHandle(errors.PhaseDescribe, uint64(h))
//	err := errors.Trap(cause)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
