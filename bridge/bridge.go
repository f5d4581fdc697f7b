package bridge

import (
	"go.uber.org/zap"

	unwindbridge "github.com/wippyai/unwind-bridge"
	"github.com/wippyai/unwind-bridge/errors"
	"github.com/wippyai/unwind-bridge/handle"
)

// wrappers holds every live capture. Handles cross the boundary in place of
// Go pointers.
var wrappers = handle.NewTable()

// Invoke runs fn under total interception and reports the outcome.
//
// If fn returns normally, the payload is zero and foreign is false. If fn
// panics with a relayed unwindbridge.Payload, that exact payload is returned
// with foreign true. Any other panic is captured into a wrapper whose handle
// is packed into the payload's first word, foreign false.
//
// Invoke itself never panics outward.
func Invoke(fn func()) (payload unwindbridge.Payload, foreign bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		if p, ok := r.(unwindbridge.Payload); ok {
			// Pass-through: this layer does not own the failure.
			payload = p
			foreign = true
			return
		}

		var c *capture
		if err, ok := r.(error); ok {
			c = newTypedNative(err)
		} else {
			c = newUntypedNative(r)
		}

		h := wrappers.Insert(c)
		payload.P0 = uint64(h)

		Logger().Debug("captured native failure",
			zap.Uint64("handle", uint64(h)),
			zap.String("variant", c.variant.String()),
			zap.String("message", c.message))
	}()

	fn()
	return
}

// InvokeState is Invoke with an opaque state value forwarded to fn unchanged.
func InvokeState(fn func(state any), state any) (unwindbridge.Payload, bool) {
	return Invoke(func() {
		fn(state)
	})
}

// Rethrow re-raises the failure captured in h on the current goroutine. It
// never returns normally: an enclosing recover observes the exact original
// panic value, not its description.
//
// The wrapper is consumed. Its handle is released before re-raising, so the
// single-use pattern of Rethrow with no following Destroy does not leak.
// Calling Rethrow on a relayed guest failure or a dead handle panics with a
// contract violation.
func Rethrow(h unwindbridge.Handle) {
	c := get(errors.PhaseRethrow, h)
	if c.variant == foreignRelayed {
		panic(errors.ContractViolation(errors.PhaseRethrow,
			"rethrow on a relayed guest failure; relay the payload instead"))
	}

	wrappers.Remove(h)
	panic(c.value)
}

// Describe returns the wrapper's message. The text was extracted at capture
// time and stays valid until the wrapper is destroyed. Relayed guest
// failures describe as ForeignPlaceholder.
func Describe(h unwindbridge.Handle) string {
	return get(errors.PhaseDescribe, h).message
}

// Destroy releases the wrapper and everything it owns. Handles are
// single-owner: destroying one that is not live is asserted as a contract
// violation rather than ignored.
func Destroy(h unwindbridge.Handle) {
	if _, ok := wrappers.Remove(h); !ok {
		panic(errors.InvalidHandle(errors.PhaseDestroy, uint64(h)))
	}
}

// ThrowForeign raises a foreign-owned payload through the local unwinding
// mechanism as-is. An enclosing Invoke recognizes the shape and relays it;
// the bit pattern is never altered.
func ThrowForeign(p unwindbridge.Payload) {
	panic(p)
}

// WrapForeign carries a foreign payload as a wrapper handle instead of
// immediately re-raising it. The resulting wrapper only supports Describe
// (returning ForeignPlaceholder), Unwrap and Destroy.
func WrapForeign(p unwindbridge.Payload) unwindbridge.Handle {
	return wrappers.Insert(newForeignRelayed(p))
}

// Unwrap consumes a wrapper made by WrapForeign and returns the verbatim
// payload for further relay. Unwrapping a native wrapper is a contract
// violation.
func Unwrap(h unwindbridge.Handle) unwindbridge.Payload {
	c := get(errors.PhaseRelay, h)
	if c.variant != foreignRelayed {
		panic(errors.ContractViolation(errors.PhaseRelay,
			"unwrap on a native failure wrapper"))
	}

	wrappers.Remove(h)
	return c.foreign
}

// Raise raises a typed native failure carrying message. It never returns.
func Raise(message string) {
	panic(&raisedError{message: message})
}

// Live returns the number of wrappers currently held in the table. Useful
// for leak checks.
func Live() int {
	return wrappers.Len()
}

// raisedError is the failure type produced by Raise.
type raisedError struct {
	message string
}

func (e *raisedError) Error() string {
	return e.message
}

func get(phase errors.Phase, h unwindbridge.Handle) *capture {
	v, ok := wrappers.Get(h)
	if !ok {
		panic(errors.InvalidHandle(phase, uint64(h)))
	}
	return v.(*capture)
}
