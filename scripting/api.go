package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/wippyai/resource-pool/handle"
	"github.com/wippyai/resource-pool/namehash"
	"github.com/wippyai/resource-pool/resource"
)

const handleTypeName = "respool.handle"

func (e *Engine) install() {
	L := e.vm

	mt := L.NewTypeMetatable(handleTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"index":      handleIndex,
		"generation": handleGeneration,
	}))
	L.SetField(mt, "__tostring", L.NewFunction(handleToString))
	L.SetField(mt, "__eq", L.NewFunction(handleEqual))

	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"hash":            e.hash,
		"kinds":           e.kinds,
		"get_or_allocate": e.getOrAllocate,
		"lookup":          e.lookup,
		"destroy":         e.destroy,
		"has":             e.has,
		"count":           e.count,
		"capacity":        e.capacity,
		"name_of":         e.nameOf,
		"handles":         e.handles,
		"purge":           e.purge,
		"log":             e.logInfo,
	})
	L.SetGlobal("respool", mod)
}

func pushHandle(L *lua.LState, h handle.Handle) {
	ud := L.NewUserData()
	ud.Value = h
	L.SetMetatable(ud, L.GetTypeMetatable(handleTypeName))
	L.Push(ud)
}

func checkHandle(L *lua.LState, n int) handle.Handle {
	ud := L.CheckUserData(n)
	h, ok := ud.Value.(handle.Handle)
	if !ok {
		L.ArgError(n, "handle expected")
	}
	return h
}

func handleIndex(L *lua.LState) int {
	L.Push(lua.LNumber(checkHandle(L, 1).Index()))
	return 1
}

func handleGeneration(L *lua.LState) int {
	L.Push(lua.LNumber(checkHandle(L, 1).Generation()))
	return 1
}

func handleToString(L *lua.LState) int {
	L.Push(lua.LString(checkHandle(L, 1).String()))
	return 1
}

func handleEqual(L *lua.LState) int {
	L.Push(lua.LBool(checkHandle(L, 1) == checkHandle(L, 2)))
	return 1
}

func (e *Engine) checkPool(L *lua.LState, n int) resource.Pooler {
	kind := L.CheckString(n)
	p, ok := e.registry.Get(kind)
	if !ok {
		L.ArgError(n, "unknown resource kind "+kind)
	}
	return p
}

// checkKey accepts either a name, which is hashed, or a precomputed key.
func checkKey(L *lua.LState, n int) uint32 {
	switch v := L.Get(n).(type) {
	case lua.LString:
		return namehash.String(string(v))
	case lua.LNumber:
		return uint32(v)
	}
	L.ArgError(n, "name or key expected")
	return 0
}

// respool.hash(name) -> key
func (e *Engine) hash(L *lua.LState) int {
	L.Push(lua.LNumber(namehash.String(L.CheckString(1))))
	return 1
}

// respool.kinds() -> { kind, ... }
func (e *Engine) kinds(L *lua.LState) int {
	t := L.NewTable()
	for _, k := range e.registry.Kinds() {
		t.Append(lua.LString(k))
	}
	L.Push(t)
	return 1
}

// respool.get_or_allocate(kind, name|key) -> handle
func (e *Engine) getOrAllocate(L *lua.LState) int {
	p := e.checkPool(L, 1)
	h, err := p.AllocateNamed(checkKey(L, 2))
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	pushHandle(L, h)
	return 1
}

// respool.lookup(kind, name|key) -> handle | nil
func (e *Engine) lookup(L *lua.LState) int {
	p := e.checkPool(L, 1)
	h, ok := p.LookupName(checkKey(L, 2))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	pushHandle(L, h)
	return 1
}

// respool.destroy(kind, handle)
func (e *Engine) destroy(L *lua.LState) int {
	p := e.checkPool(L, 1)
	if err := p.DestroyHandle(checkHandle(L, 2)); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// respool.has(kind, handle) -> bool
func (e *Engine) has(L *lua.LState) int {
	p := e.checkPool(L, 1)
	L.Push(lua.LBool(p.HasHandle(checkHandle(L, 2))))
	return 1
}

func (e *Engine) count(L *lua.LState) int {
	L.Push(lua.LNumber(e.checkPool(L, 1).Count()))
	return 1
}

func (e *Engine) capacity(L *lua.LState) int {
	L.Push(lua.LNumber(e.checkPool(L, 1).Cap()))
	return 1
}

// respool.name_of(kind, handle) -> key | nil
func (e *Engine) nameOf(L *lua.LState) int {
	p := e.checkPool(L, 1)
	key, ok := p.NameOf(checkHandle(L, 2))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(key))
	return 1
}

// respool.handles(kind) -> { handle, ... }
func (e *Engine) handles(L *lua.LState) int {
	p := e.checkPool(L, 1)
	t := L.NewTable()
	for _, h := range p.LiveHandles() {
		ud := L.NewUserData()
		ud.Value = h
		L.SetMetatable(ud, L.GetTypeMetatable(handleTypeName))
		t.Append(ud)
	}
	L.Push(t)
	return 1
}

// respool.purge(kind) -> n
func (e *Engine) purge(L *lua.LState) int {
	L.Push(lua.LNumber(e.checkPool(L, 1).Purge()))
	return 1
}

func (e *Engine) logInfo(L *lua.LState) int {
	e.log.Info(L.CheckString(1), zap.String("source", "lua"))
	return 0
}
