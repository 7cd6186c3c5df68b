package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/resource-pool/config"
	"github.com/wippyai/resource-pool/engine"
	"github.com/wippyai/resource-pool/resource"
	"github.com/wippyai/resource-pool/runtime"
	"github.com/wippyai/resource-pool/scripting"
)

func main() {
	var (
		configFile   = flag.String("config", "", "Path to a .toml or .yaml config file")
		manifestFile = flag.String("manifest", "", "YAML asset manifest to preload")
		luaFile      = flag.String("lua", "", "Lua script to run against the device pools")
		wasmFile     = flag.String("wasm", "", "Core wasm guest importing the respool host module")
		callName     = flag.String("call", "", "Guest export to call after loading (optional)")
		logLevel     = flag.String("log-level", "", "Override the configured log level")
		interactive  = flag.Bool("i", false, "Interactive pool inspector")
	)
	flag.Parse()

	if err := run(*configFile, *manifestFile, *luaFile, *wasmFile, *callName, *logLevel, *interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, manifestFile, luaFile, wasmFile, callName, logLevel string, interactive bool) error {
	ctx := context.Background()

	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	resource.SetLogger(log)
	engine.SetLogger(log)
	runtime.SetLogger(log)
	scripting.SetLogger(log)

	if interactive && !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("-i needs a terminal")
	}

	dev, err := engine.Open(cfg.Limits, engine.WithLogger(log))
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	defer func() {
		if err := dev.Close(); err != nil {
			log.Error("close device", zap.Error(err))
		}
	}()

	if manifestFile != "" {
		m, err := engine.LoadManifest(manifestFile)
		if err != nil {
			return err
		}
		n, err := dev.Preload(m)
		fmt.Printf("Preloaded %d/%d manifest entries\n", n, m.Len())
		if err != nil {
			return fmt.Errorf("preload: %w", err)
		}
	}

	if luaFile != "" {
		lua := scripting.New(dev.Registry(), scripting.WithLogger(log))
		err := lua.DoFile(luaFile)
		lua.Close()
		if err != nil {
			return err
		}
	}

	if wasmFile != "" {
		if err := runGuest(ctx, dev, wasmFile, callName, log); err != nil {
			return err
		}
	}

	if interactive {
		return runInteractive(dev)
	}

	printStats(dev)
	return nil
}

func runGuest(ctx context.Context, dev *engine.Device, wasmFile, callName string, log *zap.Logger) error {
	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	rt, err := runtime.NewWithConfig(ctx, dev.Registry(), &runtime.Config{WASI: true, Logger: log})
	if err != nil {
		return fmt.Errorf("create runtime: %w", err)
	}
	defer rt.Close(ctx)

	mod, err := rt.Load(ctx, wasmFile, data)
	if err != nil {
		return err
	}
	defer mod.Close(ctx)

	if callName == "" {
		return nil
	}
	res, err := mod.Call(ctx, callName)
	if err != nil {
		return fmt.Errorf("call %s: %w", callName, err)
	}
	fmt.Printf("%s() = %v\n", callName, res)
	return nil
}

func printStats(dev *engine.Device) {
	fmt.Printf("Device %s\n\n", dev.ID())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tLIVE\tCAPACITY\tNAMED\tSTORAGE")
	for _, s := range dev.Stats() {
		fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%s\n", s.Kind, s.Count, s.Cap, s.Named, s.FootprintString())
	}
	w.Flush()
}
