// Package scripting exposes pooled resources to Lua scripts.
//
// Scripts see a global "respool" table:
//
//	local key = respool.hash("textures/crate.png")
//	local h = respool.get_or_allocate("texture", "textures/crate.png")
//	print(h, h:index(), h:generation())
//	respool.destroy("texture", h)
//
// Handles are userdata so their generation survives the trip through Lua
// numbers. Failed mutations raise Lua errors.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/wippyai/resource-pool/resource"
)

// Engine wraps a single gopher-lua VM bound to a registry.
// Single-goroutine access only.
type Engine struct {
	vm       *lua.LState
	registry *resource.Registry
	log      *zap.Logger
}

type options struct {
	log      *zap.Logger
	skipLibs bool
}

type Option func(*options)

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithoutStdlib skips opening Lua's standard libraries except base.
func WithoutStdlib() Option {
	return func(o *options) { o.skipLibs = true }
}

// New creates a Lua engine with the respool module installed.
func New(registry *resource.Registry, opts ...Option) *Engine {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = Logger()
	}

	vm := lua.NewState(lua.Options{SkipOpenLibs: o.skipLibs})
	if o.skipLibs {
		for _, lib := range []struct {
			name string
			fn   lua.LGFunction
		}{
			{lua.LoadLibName, lua.OpenPackage},
			{lua.BaseLibName, lua.OpenBase},
		} {
			vm.Push(vm.NewFunction(lib.fn))
			vm.Push(lua.LString(lib.name))
			vm.Call(1, 0)
		}
	}

	e := &Engine{vm: vm, registry: registry, log: o.log}
	e.install()
	return e
}

// DoString runs a chunk of Lua source.
func (e *Engine) DoString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("lua: %w", err)
	}
	return nil
}

// DoFile runs a Lua file.
func (e *Engine) DoFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

// LoadDir runs every .lua file in dir in name order. A missing directory is
// not an error.
func (e *Engine) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		if err := e.DoFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Call invokes a global Lua function and returns its first result.
func (e *Engine) Call(fn string, args ...lua.LValue) (lua.LValue, error) {
	f := e.vm.GetGlobal(fn)
	if f == lua.LNil {
		return lua.LNil, fmt.Errorf("lua function %s not found", fn)
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      f,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		return lua.LNil, fmt.Errorf("lua %s: %w", fn, err)
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	return ret, nil
}

// Global returns a Lua global.
func (e *Engine) Global(name string) lua.LValue {
	return e.vm.GetGlobal(name)
}

func (e *Engine) Close() {
	e.vm.Close()
}
