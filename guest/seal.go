package guest

import (
	unwindbridge "github.com/wippyai/unwind-bridge"
	"github.com/wippyai/unwind-bridge/errors"
	"github.com/wippyai/unwind-bridge/handle"
)

// payloadTag marks a payload as guest-owned. Layers between Seal and Unseal
// must not interpret either word.
const payloadTag uint64 = 0x6775657374 // "guest"

// traps holds sealed guest failures until their payload is consumed.
var traps = handle.NewTable()

// Seal stores a guest failure and returns the opaque payload that names it.
// The payload must be consumed exactly once, by Unseal.
func Seal(cause error) unwindbridge.Payload {
	h := traps.Insert(cause)
	return unwindbridge.Payload{P0: uint64(h), P1: payloadTag}
}

// Owns reports whether p was produced by Seal in this process.
func Owns(p unwindbridge.Payload) bool {
	return p.P1 == payloadTag
}

// Unseal consumes a sealed payload and returns the original guest failure.
// Unsealing a payload the guest runtime does not own is a contract
// violation; unsealing one twice panics with a consumed error.
func Unseal(p unwindbridge.Payload) error {
	if !Owns(p) {
		panic(errors.ContractViolation(errors.PhaseRelay,
			"unseal of a payload not owned by the guest runtime"))
	}

	v, ok := traps.Remove(unwindbridge.Handle(p.P0))
	if !ok {
		panic(errors.Consumed(errors.PhaseRelay, p.P0))
	}
	return v.(error)
}

// Sealed returns the number of guest failures currently sealed. Useful for
// leak checks.
func Sealed() int {
	return traps.Len()
}
