package guest

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero/api"

	unwindbridge "github.com/wippyai/unwind-bridge"
	"github.com/wippyai/unwind-bridge/bridge"
	"github.com/wippyai/unwind-bridge/errors"
)

func loadRunner(t *testing.T, wasm []byte, bind func(*Runner)) *Runner {
	t.Helper()
	ctx := context.Background()

	r, err := NewRunner(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close(ctx) })

	if bind != nil {
		bind(r)
	}
	require.NoError(t, r.Load(ctx, wasm))
	return r
}

func TestRunner_CleanCall(t *testing.T) {
	r := loadRunner(t, answerWasm, nil)

	results, err := r.Call(context.Background(), "answer")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, uint64(42), results[0])
}

func TestRunner_Exports(t *testing.T) {
	r := loadRunner(t, answerWasm, nil)
	assert.Contains(t, r.Exports(), "answer")
}

func TestRunner_GuestTrap(t *testing.T) {
	r := loadRunner(t, trapWasm, nil)

	_, err := r.Call(context.Background(), "boom")
	require.Error(t, err)

	var be *errors.Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, errors.PhaseGuest, be.Phase)
	assert.Equal(t, errors.KindTrap, be.Kind)
	assert.Error(t, be.Cause, "trap must keep the guest's original failure as cause")
}

func TestRunner_CallBeforeLoad(t *testing.T) {
	ctx := context.Background()
	r, err := NewRunner(ctx)
	require.NoError(t, err)
	defer r.Close(ctx)

	_, err = r.Call(ctx, "answer")
	var be *errors.Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, errors.KindNotInitialized, be.Kind)
}

func TestRunner_MissingExport(t *testing.T) {
	r := loadRunner(t, answerWasm, nil)

	_, err := r.Call(context.Background(), "nope")
	var be *errors.Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, errors.KindNotFound, be.Kind)
}

func TestRunner_TryCallSealsTrap(t *testing.T) {
	r := loadRunner(t, trapWasm, nil)
	before := Sealed()

	_, payload := r.TryCall(context.Background(), "boom")
	require.False(t, payload.IsZero())
	require.True(t, Owns(payload))
	assert.Equal(t, before+1, Sealed())

	// The payload relays through an interception layer bit-identically.
	relayed, foreign := bridge.Invoke(func() {
		bridge.ThrowForeign(payload)
	})
	require.True(t, foreign)
	require.Equal(t, payload, relayed)

	// Back home, the owning side reconstructs the original failure.
	cause := Unseal(relayed)
	var be *errors.Error
	require.ErrorAs(t, cause, &be)
	assert.Equal(t, errors.KindTrap, be.Kind)
	assert.Equal(t, before, Sealed())
}

func TestRunner_TryCallCleanReturn(t *testing.T) {
	r := loadRunner(t, answerWasm, nil)

	results, payload := r.TryCall(context.Background(), "answer")
	assert.True(t, payload.IsZero())
	require.Len(t, results, 1)
	assert.Equal(t, uint64(42), results[0])
}

func TestRunner_HostPanicIdentity(t *testing.T) {
	original := stderrors.New("boom")

	r := loadRunner(t, hostCallWasm, func(r *Runner) {
		err := r.BindHost("env", "fail", func(ctx context.Context, _ api.Module, _ []uint64) {
			panic(original)
		}, nil, nil)
		require.NoError(t, err)
	})

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		_, _ = r.Call(context.Background(), "run")
	}()

	require.Same(t, original, recovered,
		"host failure must resume unwinding with its identity intact")
}

func TestRunner_HostPanicThroughBridge(t *testing.T) {
	original := stderrors.New("boom")

	r := loadRunner(t, hostCallWasm, func(r *Runner) {
		err := r.BindHost("env", "fail", func(ctx context.Context, _ api.Module, _ []uint64) {
			panic(original)
		}, nil, nil)
		require.NoError(t, err)
	})

	payload, foreign := bridge.Invoke(func() {
		_, _ = r.Call(context.Background(), "run")
	})
	require.False(t, foreign)

	h := payload.Wrapper()
	require.NotZero(t, h)
	assert.Equal(t, "boom", bridge.Describe(h))

	var rethrown any
	func() {
		defer func() { rethrown = recover() }()
		bridge.Rethrow(h)
	}()
	assert.Same(t, original, rethrown)
}

func TestRunner_ForeignPayloadThroughGuestFrames(t *testing.T) {
	// A guest-owned payload raised inside a host function crosses the guest's
	// frames and comes back out with an identical bit pattern.
	sealed := Seal(stderrors.New("earlier trap"))

	r := loadRunner(t, hostCallWasm, func(r *Runner) {
		err := r.BindHost("env", "fail", func(ctx context.Context, _ api.Module, _ []uint64) {
			bridge.ThrowForeign(sealed)
		}, nil, nil)
		require.NoError(t, err)
	})

	payload, foreign := bridge.Invoke(func() {
		_, _ = r.Call(context.Background(), "run")
	})
	require.True(t, foreign)
	require.Equal(t, sealed, payload)

	require.Error(t, Unseal(payload))
}

func TestRunner_BindHostValidation(t *testing.T) {
	ctx := context.Background()
	r, err := NewRunner(ctx)
	require.NoError(t, err)
	defer r.Close(ctx)

	fn := func(context.Context, api.Module, []uint64) {}

	assert.Error(t, r.BindHost("", "fail", fn, nil, nil))
	assert.Error(t, r.BindHost("env", "", fn, nil, nil))
	assert.Error(t, r.BindHost("env", "fail", nil, nil, nil))
}

func TestUnseal_Violations(t *testing.T) {
	t.Run("foreign payload not owned by guest", func(t *testing.T) {
		defer func() {
			v := recover()
			var be *errors.Error
			require.True(t, stderrors.As(v.(error), &be))
			assert.Equal(t, errors.KindContractViolation, be.Kind)
		}()
		Unseal(unwindbridge.Payload{P0: 1, P1: 2})
		t.Fatal("Unseal returned normally")
	})

	t.Run("double unseal", func(t *testing.T) {
		p := Seal(stderrors.New("once"))
		require.Error(t, Unseal(p))

		defer func() {
			v := recover()
			var be *errors.Error
			require.True(t, stderrors.As(v.(error), &be))
			assert.Equal(t, errors.KindConsumed, be.Kind)
		}()
		Unseal(p)
		t.Fatal("second Unseal returned normally")
	})
}
