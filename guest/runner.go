package guest

import (
	"context"
	stderrors "errors"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	unwindbridge "github.com/wippyai/unwind-bridge"
	"github.com/wippyai/unwind-bridge/errors"
)

// hostFailureExit is the exit code the firewall halts the guest with when a
// host function fails. The code never reaches callers: Call re-raises the
// stashed host failure instead of reporting the exit.
const hostFailureExit uint32 = 0xFA11

// HostFunc is a host function operating on the guest's raw call stack.
// Parameters and results are read from and written to stack in order.
type HostFunc func(ctx context.Context, mod api.Module, stack []uint64)

type hostFunc struct {
	fn      HostFunc
	params  []api.ValueType
	results []api.ValueType
}

// Runner owns one wazero runtime and one guest module instance.
type Runner struct {
	rt    wazero.Runtime
	mod   api.Module
	hosts map[string]map[string]hostFunc
}

// Option configures a Runner.
type Option func(*runnerConfig)

type runnerConfig struct {
	memoryLimitPages uint32
}

// WithMemoryLimitPages sets the maximum guest memory in 64KB pages.
// 0 means the wazero default.
func WithMemoryLimitPages(pages uint32) Option {
	return func(c *runnerConfig) {
		c.memoryLimitPages = pages
	}
}

// NewRunner creates a Runner backed by a fresh wazero runtime.
func NewRunner(ctx context.Context, opts ...Option) (*Runner, error) {
	var rc runnerConfig
	for _, opt := range opts {
		opt(&rc)
	}

	cfg := wazero.NewRuntimeConfig()
	if rc.memoryLimitPages > 0 {
		cfg = cfg.WithMemoryLimitPages(rc.memoryLimitPages)
	}

	return &Runner{
		rt:    wazero.NewRuntimeWithConfig(ctx, cfg),
		hosts: make(map[string]map[string]hostFunc),
	}, nil
}

// BindHost registers fn as a guest-importable function under module and
// name. The function runs behind the firewall: a panic inside it is
// intercepted at the boundary, never unwinding into the guest's call
// machinery. Must be called before Load.
func (r *Runner) BindHost(module, name string, fn HostFunc, params, results []api.ValueType) error {
	if module == "" {
		return errors.InvalidInput(errors.PhaseGuest, "host module name cannot be empty")
	}
	if name == "" {
		return errors.InvalidInput(errors.PhaseGuest, "host function name cannot be empty")
	}
	if fn == nil {
		return errors.InvalidInput(errors.PhaseGuest, "host function cannot be nil")
	}
	if r.mod != nil {
		return errors.InvalidInput(errors.PhaseGuest, "guest module already loaded")
	}

	if r.hosts[module] == nil {
		r.hosts[module] = make(map[string]hostFunc)
	}
	r.hosts[module][name] = hostFunc{fn: fn, params: params, results: results}
	return nil
}

// Load instantiates the registered host modules and then the guest module.
func (r *Runner) Load(ctx context.Context, wasmBytes []byte) error {
	if r.mod != nil {
		return errors.InvalidInput(errors.PhaseGuest, "guest module already loaded")
	}

	for modName, fns := range r.hosts {
		b := r.rt.NewHostModuleBuilder(modName)
		for name, hf := range fns {
			b = b.NewFunctionBuilder().
				WithGoModuleFunction(firewalled(hf.fn), hf.params, hf.results).
				Export(name)
		}
		if _, err := b.Instantiate(ctx); err != nil {
			return errors.Instantiation("host module "+modName, err)
		}
	}

	mod, err := r.rt.Instantiate(ctx, wasmBytes)
	if err != nil {
		return errors.Instantiation("guest module", err)
	}
	r.mod = mod

	Logger().Debug("guest module loaded",
		zap.String("name", mod.Name()),
		zap.Int("host_modules", len(r.hosts)))
	return nil
}

// Exports returns the names of the guest module's exported functions.
func (r *Runner) Exports() []string {
	if r.mod == nil {
		return nil
	}

	defs := r.mod.ExportedFunctionDefinitions()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	return names
}

// Call runs a guest export to completion.
//
// A failure originating in the guest is converted into the host's native
// representation: a *errors.Error of kind trap or exit. A host failure that
// crossed into the guest through a firewalled host function is re-raised
// here with its identity intact, continuing the host-side unwinding that the
// firewall suspended; an enclosing bridge.Invoke captures it as usual.
//
// Halting the guest closes its instance, so after a host failure the Runner
// cannot run further calls; the failure in flight cannot be aborted, only
// caught or allowed to propagate.
func (r *Runner) Call(ctx context.Context, export string, params ...uint64) ([]uint64, error) {
	if r.mod == nil {
		return nil, errors.NotInitialized(errors.PhaseGuest, "guest module")
	}

	fn := r.mod.ExportedFunction(export)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseGuest, "export", export)
	}

	ctx, sess := withSession(ctx)
	results, err := fn.Call(ctx, params...)
	if err != nil {
		if v, ok := sess.take(); ok {
			Logger().Debug("re-raising host failure after guest unwound",
				zap.String("export", export))
			panic(v)
		}
		return nil, classify(err)
	}
	return results, nil
}

// TryCall runs a guest export and seals any guest-owned failure into an
// opaque payload instead of returning it as an error. Host failures
// re-raise exactly as in Call. A zero payload means success.
func (r *Runner) TryCall(ctx context.Context, export string, params ...uint64) ([]uint64, unwindbridge.Payload) {
	results, err := r.Call(ctx, export, params...)
	if err != nil {
		return nil, Seal(err)
	}
	return results, unwindbridge.Payload{}
}

// Close releases the wazero runtime and everything instantiated in it.
func (r *Runner) Close(ctx context.Context) error {
	r.mod = nil
	return r.rt.Close(ctx)
}

// classify converts a guest failure into the host's error representation.
func classify(err error) *errors.Error {
	var exitErr *sys.ExitError
	if stderrors.As(err, &exitErr) {
		return errors.Exit(exitErr.ExitCode(), err)
	}
	return errors.Trap(err)
}

// firewalled wraps a host function so that nothing unwinds from the host
// into the guest. A recovered failure is stashed in the call session and the
// guest is halted the same way wasi proc_exit halts it; the original value
// resumes unwinding on the host side once the guest call returns.
func firewalled(fn HostFunc) api.GoModuleFunction {
	return api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if _, ok := r.(*sys.ExitError); ok {
				// Guest-initiated exit passing through; not ours to capture.
				panic(r)
			}

			sess := sessionFrom(ctx)
			if sess == nil {
				// No session to carry the failure. Never swallow it.
				panic(r)
			}
			sess.stash(r)

			Logger().Debug("host failure intercepted at guest boundary",
				zap.Any("panic", r))

			_ = mod.CloseWithExitCode(ctx, hostFailureExit)
			panic(sys.NewExitError(hostFailureExit))
		}()

		fn(ctx, mod, stack)
	})
}
