package bridge

import (
	unwindbridge "github.com/wippyai/unwind-bridge"
)

// Fixed Describe texts for wrappers whose true message is unavailable.
const (
	// ForeignPlaceholder is the description of a relayed guest failure. Its
	// real content cannot be formatted without the owning runtime.
	ForeignPlaceholder = "<guest failure>"

	// UntypedPlaceholder is the description of a panic value that does not
	// implement error.
	UntypedPlaceholder = "<untyped go panic>"
)

type variant uint8

const (
	foreignRelayed variant = iota
	typedNative
	untypedNative
)

func (v variant) String() string {
	switch v {
	case foreignRelayed:
		return "foreign_relayed"
	case typedNative:
		return "typed_native"
	case untypedNative:
		return "untyped_native"
	}
	return "unknown"
}

// capture holds one intercepted failure. The original panic value is kept
// opaquely so Rethrow can re-raise it by identity; the message is extracted
// exactly once, at construction, so Describe can never fail inside an
// already-failing path.
type capture struct {
	value   any
	message string
	foreign unwindbridge.Payload
	variant variant
}

func newTypedNative(err error) *capture {
	return &capture{
		variant: typedNative,
		value:   err,
		message: err.Error(),
	}
}

func newUntypedNative(v any) *capture {
	return &capture{
		variant: untypedNative,
		value:   v,
		message: UntypedPlaceholder,
	}
}

func newForeignRelayed(p unwindbridge.Payload) *capture {
	return &capture{
		variant: foreignRelayed,
		foreign: p,
		message: ForeignPlaceholder,
	}
}

// Describe implements unwindbridge.Failure.
func (c *capture) Describe() string {
	return c.message
}
