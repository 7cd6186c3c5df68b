package runtime

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/wippyai/resource-pool/errors"
	"github.com/wippyai/resource-pool/resource"
)

// Runtime hosts WebAssembly guests that manage pooled resources through the
// "respool" host module. Host calls are serialized, so guests may run on
// several goroutines even though pools are not concurrent.
type Runtime struct {
	rt       wazero.Runtime
	registry *resource.Registry
	log      *zap.Logger

	mu sync.Mutex
}

// Config holds configuration for runtime creation
type Config struct {
	// MemoryLimitPages caps guest memory in 64KB pages. 0 keeps wazero's
	// default.
	MemoryLimitPages uint32

	// WASI instantiates wasi_snapshot_preview1 so guests built by standard
	// toolchains can start.
	WASI bool

	Logger *zap.Logger
}

// New creates a runtime bound to registry.
func New(ctx context.Context, registry *resource.Registry) (*Runtime, error) {
	return NewWithConfig(ctx, registry, nil)
}

// NewWithConfig creates a runtime with custom configuration.
func NewWithConfig(ctx context.Context, registry *resource.Registry, cfg *Config) (*Runtime, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	log := Logger()
	wasi := false
	if cfg != nil {
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
		if cfg.Logger != nil {
			log = cfg.Logger
		}
		wasi = cfg.WASI
	}

	r := &Runtime{
		rt:       wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		registry: registry,
		log:      log,
	}

	if wasi {
		if _, err := wasi_snapshot_preview1.Instantiate(ctx, r.rt); err != nil {
			r.rt.Close(ctx)
			return nil, errors.Wrap(errors.PhaseHost, errors.KindRegistration, err, "instantiate wasi")
		}
	}
	if err := r.instantiateHost(ctx); err != nil {
		r.rt.Close(ctx)
		return nil, err
	}
	return r, nil
}

// Registry returns the pools exposed to guests.
func (r *Runtime) Registry() *resource.Registry { return r.registry }

// Load compiles and instantiates a guest. Its start function, if any, runs
// during instantiation.
func (r *Runtime) Load(ctx context.Context, name string, wasm []byte) (*Module, error) {
	compiled, err := r.rt.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseHost, errors.KindInvalidData, err, "compile "+name)
	}

	mod, err := r.rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(name))
	if err != nil {
		compiled.Close(ctx)
		return nil, errors.Wrap(errors.PhaseHost, errors.KindInvalidData, err, "instantiate "+name)
	}

	r.log.Debug("guest loaded", zap.String("module", name))
	return &Module{name: name, mod: mod, compiled: compiled}, nil
}

// Close releases the wazero runtime and every guest loaded through it.
// Pools are left untouched.
func (r *Runtime) Close(ctx context.Context) error {
	return r.rt.Close(ctx)
}

// Module is an instantiated guest.
type Module struct {
	name     string
	mod      api.Module
	compiled wazero.CompiledModule
}

func (m *Module) Name() string { return m.name }

// Call invokes an exported function with raw wasm values.
func (m *Module) Call(ctx context.Context, fn string, args ...uint64) ([]uint64, error) {
	f := m.mod.ExportedFunction(fn)
	if f == nil {
		return nil, errors.NotFound(errors.PhaseHost, "export", fn)
	}
	return f.Call(ctx, args...)
}

// CallI32 invokes an exported function returning a single i32.
func (m *Module) CallI32(ctx context.Context, fn string, args ...uint64) (int32, error) {
	res, err := m.Call(ctx, fn, args...)
	if err != nil {
		return 0, err
	}
	if len(res) != 1 {
		return 0, errors.InvalidInput(errors.PhaseHost, fn+" does not return exactly one value")
	}
	return api.DecodeI32(res[0]), nil
}

func (m *Module) Close(ctx context.Context) error {
	err := m.mod.Close(ctx)
	m.compiled.Close(ctx)
	return err
}
