package runtime

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/resource-pool/errors"
	"github.com/wippyai/resource-pool/handle"
	"github.com/wippyai/resource-pool/namehash"
	"github.com/wippyai/resource-pool/resource"
)

// ModuleName is the import module guests link against.
const ModuleName = "respool"

// hostFunc describes one export of the host module. Every parameter and
// result is i32; -1 reports a miss or failure.
type hostFunc struct {
	name    string
	params  int
	results int
	fn      api.GoModuleFunc
}

func (r *Runtime) hostFuncs() []hostFunc {
	return []hostFunc{
		{"kind", 2, 1, r.kind},
		{"hash_name", 2, 1, r.hashName},
		{"get_or_allocate", 2, 1, r.getOrAllocate},
		{"lookup", 2, 1, r.lookup},
		{"destroy", 2, 1, r.destroy},
		{"has", 2, 1, r.has},
		{"count", 1, 1, r.count},
		{"capacity", 1, 1, r.capacity},
	}
}

func (r *Runtime) instantiateHost(ctx context.Context) error {
	builder := r.rt.NewHostModuleBuilder(ModuleName)
	for _, f := range r.hostFuncs() {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(f.fn, i32s(f.params), i32s(f.results)).
			WithParameterNames(paramNames(f.name)...).
			Export(f.name)
	}
	if _, err := builder.Instantiate(ctx); err != nil {
		return errors.Wrap(errors.PhaseHost, errors.KindRegistration, err, "instantiate "+ModuleName)
	}
	return nil
}

func i32s(n int) []api.ValueType {
	out := make([]api.ValueType, n)
	for i := range out {
		out[i] = api.ValueTypeI32
	}
	return out
}

func paramNames(fn string) []string {
	switch fn {
	case "kind", "hash_name":
		return []string{"ptr", "len"}
	case "get_or_allocate", "lookup":
		return []string{"kind", "key"}
	case "destroy", "has":
		return []string{"kind", "index"}
	}
	return []string{"kind"}
}

const miss = -1

func ret(stack []uint64, v int32) { stack[0] = api.EncodeI32(v) }

func (r *Runtime) pool(stack []uint64) (resource.Pooler, bool) {
	return r.registry.At(int(api.DecodeI32(stack[0])))
}

// kind(ptr, len) resolves a kind name in guest memory to its ordinal.
func (r *Runtime) kind(_ context.Context, mod api.Module, stack []uint64) {
	name, ok := readString(mod, stack[0], stack[1])
	if !ok {
		ret(stack, miss)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ret(stack, int32(r.registry.Index(name)))
}

// hash_name(ptr, len) hashes bytes in guest memory into a name key.
func (r *Runtime) hashName(_ context.Context, mod api.Module, stack []uint64) {
	name, ok := readString(mod, stack[0], stack[1])
	if !ok {
		ret(stack, 0)
		return
	}
	stack[0] = api.EncodeU32(namehash.String(name))
}

// get_or_allocate(kind, key) returns the slot bound to key, allocating one if
// needed.
func (r *Runtime) getOrAllocate(_ context.Context, _ api.Module, stack []uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pool(stack)
	if !ok {
		ret(stack, miss)
		return
	}
	h, err := p.AllocateNamed(api.DecodeU32(stack[1]))
	if err != nil {
		r.log.Warn("guest allocation failed", zap.String("kind", p.Kind()), zap.Error(err))
		ret(stack, miss)
		return
	}
	ret(stack, int32(h.Index()))
}

// lookup(kind, key) returns the slot bound to key.
func (r *Runtime) lookup(_ context.Context, _ api.Module, stack []uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pool(stack)
	if !ok {
		ret(stack, miss)
		return
	}
	h, ok := p.LookupName(api.DecodeU32(stack[1]))
	if !ok {
		ret(stack, miss)
		return
	}
	ret(stack, int32(h.Index()))
}

// destroy(kind, index) destroys the live resource in slot index. It returns
// 1 on success and 0 if the slot was free.
func (r *Runtime) destroy(_ context.Context, _ api.Module, stack []uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, p, ok := r.live(stack)
	if !ok {
		ret(stack, 0)
		return
	}
	if err := p.DestroyHandle(h); err != nil {
		ret(stack, 0)
		return
	}
	ret(stack, 1)
}

// has(kind, index) reports whether slot index is live.
func (r *Runtime) has(_ context.Context, _ api.Module, stack []uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, _, ok := r.live(stack); ok {
		ret(stack, 1)
		return
	}
	ret(stack, 0)
}

func (r *Runtime) count(_ context.Context, _ api.Module, stack []uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pool(stack)
	if !ok {
		ret(stack, miss)
		return
	}
	ret(stack, int32(p.Count()))
}

func (r *Runtime) capacity(_ context.Context, _ api.Module, stack []uint64) {
	p, ok := r.pool(stack)
	if !ok {
		ret(stack, miss)
		return
	}
	ret(stack, int32(p.Cap()))
}

// live maps (kind, index) on the stack to the handle currently in that slot.
// Guests only see indices; the generation is checked here.
func (r *Runtime) live(stack []uint64) (handle.Handle, resource.Pooler, bool) {
	p, ok := r.pool(stack)
	if !ok {
		return handle.Invalid, nil, false
	}
	h, ok := p.HandleAt(api.DecodeU32(stack[1]))
	return h, p, ok
}

func readString(mod api.Module, ptr, size uint64) (string, bool) {
	mem := mod.Memory()
	if mem == nil {
		return "", false
	}
	b, ok := mem.Read(api.DecodeU32(ptr), api.DecodeU32(size))
	if !ok {
		return "", false
	}
	return string(b), true
}
