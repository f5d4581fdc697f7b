package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the bridge the error occurred
type Phase string

const (
	PhaseCapture  Phase = "capture"  // failure interception inside Invoke
	PhaseRelay    Phase = "relay"    // foreign payload pass-through
	PhaseRethrow  Phase = "rethrow"  // re-raising a captured failure
	PhaseDescribe Phase = "describe" // message lookup on a wrapper
	PhaseDestroy  Phase = "destroy"  // wrapper release
	PhaseGuest    Phase = "guest"    // guest runtime operations
)

// Kind categorizes the error
type Kind string

const (
	KindContractViolation Kind = "contract_violation"
	KindInvalidHandle     Kind = "invalid_handle"
	KindConsumed          Kind = "consumed"
	KindTrap              Kind = "trap"
	KindExit              Kind = "exit"
	KindNotFound          Kind = "not_found"
	KindNotInitialized    Kind = "not_initialized"
	KindInvalidInput      Kind = "invalid_input"
	KindInstantiation     Kind = "instantiation"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Handle uint64
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Handle != 0 {
		fmt.Fprintf(&b, " handle %d", e.Handle)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Handle sets the offending wrapper handle
func (b *Builder) Handle(h uint64) *Builder {
	b.err.Handle = h
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// ContractViolation creates a contract violation error. These surface as
// panics: the bridge asserts on misuse rather than silently misbehaving.
func ContractViolation(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindContractViolation,
		Detail: detail,
	}
}

// InvalidHandle creates an error for a handle that names no live wrapper
func InvalidHandle(phase Phase, handle uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidHandle,
		Handle: handle,
		Detail: "no live wrapper for handle",
	}
}

// Consumed creates an error for a wrapper that was already rethrown
func Consumed(phase Phase, handle uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindConsumed,
		Handle: handle,
		Detail: "wrapper already consumed",
	}
}

// Trap wraps a guest trap surfacing on the host side
func Trap(cause error) *Error {
	return &Error{
		Phase:  PhaseGuest,
		Kind:   KindTrap,
		Detail: "guest trapped",
		Cause:  cause,
	}
}

// Exit creates an error for a guest that terminated with an exit code
func Exit(code uint32, cause error) *Error {
	return &Error{
		Phase:  PhaseGuest,
		Kind:   KindExit,
		Detail: fmt.Sprintf("guest exited with code %d", code),
		Cause:  cause,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// NotInitialized creates a not-initialized error for a missing component
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// Instantiation creates a module instantiation error
func Instantiation(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseGuest,
		Kind:   KindInstantiation,
		Detail: fmt.Sprintf("instantiate %s", what),
		Cause:  cause,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
