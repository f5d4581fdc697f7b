package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"

	"github.com/wippyai/unwind-bridge/bridge"
	"github.com/wippyai/unwind-bridge/guest"
)

type config struct {
	LogLevel         string `env:"BRIDGE_LOG_LEVEL" envDefault:"info"`
	MemoryLimitPages uint32 `env:"BRIDGE_MEMORY_PAGES" envDefault:"0"`
}

func main() {
	var (
		wasmFile    = flag.String("wasm", "", "Path to guest wasm file")
		funcName    = flag.String("func", "", "Export to call (optional)")
		argsStr     = flag.String("args", "", "Comma-separated u64 arguments")
		list        = flag.Bool("list", false, "List exported functions and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *wasmFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: bridgerun -wasm <file.wasm> [-func name] [-args 1,2,3]")
		fmt.Fprintln(os.Stderr, "       bridgerun -wasm <file.wasm> -list")
		fmt.Fprintln(os.Stderr, "       bridgerun -wasm <file.wasm> -i  (interactive mode)")
		os.Exit(1)
	}

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: parse environment: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	bridge.SetLogger(logger)
	guest.SetLogger(logger)

	if *interactive {
		if err := runInteractive(*wasmFile, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, *wasmFile, *funcName, *argsStr, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config, wasmFile, funcName, argsStr string, listOnly bool) error {
	ctx := context.Background()

	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	r, err := guest.NewRunner(ctx, guest.WithMemoryLimitPages(cfg.MemoryLimitPages))
	if err != nil {
		return fmt.Errorf("create runner: %w", err)
	}
	defer r.Close(ctx)

	if err := r.Load(ctx, data); err != nil {
		return fmt.Errorf("load guest: %w", err)
	}

	exports := r.Exports()
	sort.Strings(exports)

	fmt.Printf("Guest: %s\n", wasmFile)
	fmt.Printf("Exported functions:\n")
	for _, name := range exports {
		fmt.Printf("  %s\n", name)
	}

	if listOnly || funcName == "" {
		return nil
	}

	params, err := parseArgs(argsStr)
	if err != nil {
		return err
	}

	results, sealed := r.TryCall(ctx, funcName, params...)
	if sealed.IsZero() {
		fmt.Printf("\n%s -> %v\n", funcName, results)
		return nil
	}

	// Carry the guest failure as an opaque wrapper handle, then hand it back
	// to the owning side for reconstruction.
	h := bridge.WrapForeign(sealed)
	fmt.Printf("\n%s failed: %s\n", funcName, bridge.Describe(h))
	return guest.Unseal(bridge.Unwrap(h))
}

func parseArgs(argsStr string) ([]uint64, error) {
	if argsStr == "" {
		return nil, nil
	}

	parts := strings.Split(argsStr, ",")
	params := make([]uint64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", p, err)
		}
		params = append(params, v)
	}
	return params, nil
}

func newLogger(level string) *zap.Logger {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
