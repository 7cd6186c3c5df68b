package resource

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/resource-pool/errors"
	"github.com/wippyai/resource-pool/handle"
	"github.com/wippyai/resource-pool/table"
)

// Pool owns the slots of one resource kind: an allocator deciding which slots
// are live, a flat record array indexed by slot, and optionally a name table
// mapping content keys to slots.
//
// H is the kind's handle type, D its storage record and P its create info.
// Records of dead slots are always the zero D.
//
// Pool is not safe for concurrent use; see Locked.
type Pool[H ~uint64, D any, P any] struct {
	kind      string
	alloc     *handle.Allocator
	records   []D
	inited    []bool
	names     *table.Table
	hooks     Hooks[H, D, P]
	observers []Observer
	log       *zap.Logger
}

type options struct {
	log       *zap.Logger
	observers []Observer
	named     bool
}

// Option configures a Pool.
type Option func(*options)

// WithNames attaches a name table sized to the pool capacity.
func WithNames() Option {
	return func(o *options) { o.named = true }
}

// WithLogger sets the logger used by the pool.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithObserver subscribes o to the pool's lifecycle events.
func WithObserver(o Observer) Option {
	return func(opts *options) { opts.observers = append(opts.observers, o) }
}

// New creates a pool of capacity slots for the given kind.
func New[H ~uint64, D any, P any](kind string, capacity uint32, hooks Hooks[H, D, P], opts ...Option) *Pool[H, D, P] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = Logger()
	}

	p := &Pool[H, D, P]{
		kind:      kind,
		alloc:     handle.NewAllocator(kind, capacity),
		records:   make([]D, capacity),
		inited:    make([]bool, capacity),
		hooks:     hooks,
		observers: o.observers,
		log:       o.log.With(zap.String("kind", kind)),
	}
	if o.named {
		p.names = table.New(capacity)
	}
	return p
}

func (p *Pool[H, D, P]) Kind() string  { return p.kind }
func (p *Pool[H, D, P]) Count() uint32 { return p.alloc.Count() }
func (p *Pool[H, D, P]) Cap() uint32   { return p.alloc.Cap() }
func (p *Pool[H, D, P]) Named() bool   { return p.names != nil }

// RecordSize returns the size in bytes of one storage record.
func (p *Pool[H, D, P]) RecordSize() uintptr {
	var zero D
	return unsafe.Sizeof(zero)
}

// Subscribe adds an observer for lifecycle events.
func (p *Pool[H, D, P]) Subscribe(o Observer) {
	p.observers = append(p.observers, o)
}

// Allocate takes a slot without constructing it. The record is zeroed.
// Use Initialize to run the constructor later.
func (p *Pool[H, D, P]) Allocate() (H, error) {
	h, err := p.take()
	if err != nil {
		return H(handle.Invalid), err
	}
	p.notify(EventAllocated, h, 0)
	return H(h), nil
}

// Create allocates a slot, zeroes its record and runs the constructor.
// If the constructor fails the slot is released again and nothing changes.
func (p *Pool[H, D, P]) Create(info P) (H, error) {
	h, err := p.take()
	if err != nil {
		return H(handle.Invalid), err
	}
	if err := p.construct(h, info); err != nil {
		p.alloc.Free(h)
		p.clear(h.Index())
		return H(handle.Invalid), err
	}
	p.log.Debug("created", zap.Stringer("handle", h))
	p.notify(EventCreated, h, 0)
	return H(h), nil
}

// Initialize runs the constructor on a live slot obtained from Allocate or
// GetOrAllocate. The record is zeroed first.
func (p *Pool[H, D, P]) Initialize(h H, info P) error {
	raw := handle.Handle(h)
	if !p.alloc.Has(raw) {
		return errors.InvalidHandle(errors.PhaseConstruct, p.kind, raw)
	}
	if p.inited[raw.Index()] {
		return errors.New(errors.PhaseConstruct, errors.KindInvalidInput).
			Pool(p.kind).
			Value(raw).
			Detail("handle %v already initialized", raw).
			Build()
	}
	var zero D
	p.records[raw.Index()] = zero
	if err := p.construct(raw, info); err != nil {
		return err
	}
	p.notify(EventCreated, raw, 0)
	return nil
}

// Destroy releases h. The slot is returned to the allocator first, so its
// index is immediately reusable; then its name is dropped, the destructor
// runs on the still-intact record, and finally the record is zeroed.
// Destroying a handle that is not live returns ErrDoubleFree.
func (p *Pool[H, D, P]) Destroy(h H) error {
	raw := handle.Handle(h)
	if err := p.alloc.Free(raw); err != nil {
		p.log.Warn("destroy rejected", zap.Stringer("handle", raw), zap.Error(err))
		return err
	}
	idx := raw.Index()

	var key uint32
	if p.names != nil {
		key = p.names.Key(idx)
		p.names.RemoveValue(idx)
	}
	if p.inited[idx] && p.hooks.Destruct != nil {
		p.hooks.Destruct(h, &p.records[idx])
	}
	p.clear(idx)

	p.log.Debug("destroyed", zap.Stringer("handle", raw))
	p.notify(EventDestroyed, raw, key)
	return nil
}

// GetOrAllocate returns the handle bound to key. If key is unbound, a fresh
// unconstructed slot is allocated and bound to it. On exhaustion no binding
// is created.
func (p *Pool[H, D, P]) GetOrAllocate(key uint32) (H, error) {
	if err := p.requireNames(); err != nil {
		return H(handle.Invalid), err
	}
	if h, ok := p.Lookup(key); ok {
		return h, nil
	}

	h, err := p.take()
	if err != nil {
		return H(handle.Invalid), err
	}
	if !p.names.Insert(key, h.Index()) {
		p.alloc.Free(h)
		return H(handle.Invalid), errors.NameConflict(p.kind, key)
	}
	p.notify(EventAllocated, h, key)
	p.notify(EventNamed, h, key)
	return H(h), nil
}

// CreateNamed creates a resource and binds key to it. If key was bound to
// another handle, the binding moves to the new handle and the previous one is
// returned as orphaned; it stays live and the caller decides whether to
// destroy it. orphaned is Invalid when nothing was displaced.
func (p *Pool[H, D, P]) CreateNamed(key uint32, info P) (h H, orphaned H, err error) {
	orphaned = H(handle.Invalid)
	if err := p.requireNames(); err != nil {
		return H(handle.Invalid), orphaned, err
	}

	h, err = p.Create(info)
	if err != nil {
		return h, orphaned, err
	}

	if prev, ok := p.Lookup(key); ok {
		p.names.Remove(key)
		orphaned = prev
		p.log.Warn("name rebound, previous handle orphaned",
			zap.Uint32("key", key),
			zap.Stringer("orphaned", handle.Handle(prev)))
		p.notify(EventUnnamed, handle.Handle(prev), key)
	}
	p.names.Insert(key, handle.Handle(h).Index())
	p.notify(EventNamed, handle.Handle(h), key)
	return h, orphaned, nil
}

// SetName binds key to the live handle h. It fails if key is already bound or
// h already has a name.
func (p *Pool[H, D, P]) SetName(key uint32, h H) error {
	if err := p.requireNames(); err != nil {
		return err
	}
	raw := handle.Handle(h)
	if !p.alloc.Has(raw) {
		return errors.InvalidHandle(errors.PhaseName, p.kind, raw)
	}
	if p.names.Has(key) {
		return errors.NameConflict(p.kind, key)
	}
	if _, ok := p.nameOf(raw.Index()); ok {
		return errors.New(errors.PhaseName, errors.KindNameConflict).
			Pool(p.kind).
			Value(raw).
			Detail("handle %v already named", raw).
			Build()
	}
	p.names.Insert(key, raw.Index())
	p.notify(EventNamed, raw, key)
	return nil
}

// Unname drops the name of h, if it has one.
func (p *Pool[H, D, P]) Unname(h H) bool {
	raw := handle.Handle(h)
	if p.names == nil || !p.alloc.Has(raw) {
		return false
	}
	key := p.names.Key(raw.Index())
	if !p.names.RemoveValue(raw.Index()) {
		return false
	}
	p.notify(EventUnnamed, raw, key)
	return true
}

// Lookup returns the live handle bound to key.
func (p *Pool[H, D, P]) Lookup(key uint32) (H, bool) {
	if p.names == nil {
		return H(handle.Invalid), false
	}
	idx := p.names.Get(key)
	if idx == table.Invalid {
		return H(handle.Invalid), false
	}
	h, ok := p.alloc.Live(idx)
	return H(h), ok
}

// HasName reports whether key is bound.
func (p *Pool[H, D, P]) HasName(key uint32) bool {
	_, ok := p.Lookup(key)
	return ok
}

// Name returns the key bound to h.
func (p *Pool[H, D, P]) Name(h H) (uint32, bool) {
	raw := handle.Handle(h)
	if p.names == nil || !p.alloc.Has(raw) {
		return 0, false
	}
	return p.nameOf(raw.Index())
}

// Has reports whether h is live.
func (p *Pool[H, D, P]) Has(h H) bool {
	return p.alloc.Has(handle.Handle(h))
}

// IsInitialized reports whether h is live and its constructor has run.
func (p *Pool[H, D, P]) IsInitialized(h H) bool {
	raw := handle.Handle(h)
	return p.alloc.Has(raw) && p.inited[raw.Index()]
}

// Get returns the record of a live handle.
func (p *Pool[H, D, P]) Get(h H) (*D, bool) {
	raw := handle.Handle(h)
	if !p.alloc.Has(raw) {
		return nil, false
	}
	return &p.records[raw.Index()], true
}

// Ref returns the record in h's slot without checking liveness. It panics if
// the index is out of range.
func (p *Pool[H, D, P]) Ref(h H) *D {
	return &p.records[handle.Handle(h).Index()]
}

// Handles returns a snapshot of the live handles.
func (p *Pool[H, D, P]) Handles() []H {
	raw := p.alloc.Handles()
	out := make([]H, len(raw))
	for i, h := range raw {
		out[i] = H(h)
	}
	return out
}

// Each calls fn for every live handle and its record until fn returns false.
// fn must not create or destroy resources in this pool.
func (p *Pool[H, D, P]) Each(fn func(H, *D) bool) {
	p.alloc.Each(func(h handle.Handle) bool {
		return fn(H(h), &p.records[h.Index()])
	})
}

// Purge destroys every live handle and returns how many were destroyed.
func (p *Pool[H, D, P]) Purge() int {
	n := 0
	for _, h := range p.alloc.Handles() {
		// a destructor may already have released a sibling
		if !p.alloc.Has(h) {
			continue
		}
		if p.Destroy(H(h)) == nil {
			n++
		}
	}
	if n > 0 {
		p.log.Debug("purged", zap.Int("count", n))
	}
	return n
}

// Pooler methods

func (p *Pool[H, D, P]) HasHandle(h handle.Handle) bool { return p.alloc.Has(h) }

func (p *Pool[H, D, P]) HandleAt(idx uint32) (handle.Handle, bool) { return p.alloc.Live(idx) }

func (p *Pool[H, D, P]) LiveHandles() []handle.Handle { return p.alloc.Handles() }

func (p *Pool[H, D, P]) DestroyHandle(h handle.Handle) error { return p.Destroy(H(h)) }

func (p *Pool[H, D, P]) AllocateNamed(key uint32) (handle.Handle, error) {
	h, err := p.GetOrAllocate(key)
	return handle.Handle(h), err
}

func (p *Pool[H, D, P]) LookupName(key uint32) (handle.Handle, bool) {
	h, ok := p.Lookup(key)
	return handle.Handle(h), ok
}

func (p *Pool[H, D, P]) NameOf(h handle.Handle) (uint32, bool) { return p.Name(H(h)) }

func (p *Pool[H, D, P]) take() (handle.Handle, error) {
	h, err := p.alloc.Alloc()
	if err != nil {
		p.log.Warn("pool exhausted", zap.Uint32("capacity", p.alloc.Cap()))
		return handle.Invalid, err
	}
	p.clear(h.Index())
	return h, nil
}

func (p *Pool[H, D, P]) construct(h handle.Handle, info P) error {
	idx := h.Index()
	if p.hooks.Construct != nil {
		if err := p.hooks.Construct(H(h), &p.records[idx], info); err != nil {
			p.log.Warn("construct failed", zap.Stringer("handle", h), zap.Error(err))
			return errors.ConstructFailed(p.kind, err)
		}
	}
	p.inited[idx] = true
	return nil
}

// nameOf disambiguates a key of table.Invalid from "no key".
func (p *Pool[H, D, P]) nameOf(idx uint32) (uint32, bool) {
	key := p.names.Key(idx)
	if key == table.Invalid && p.names.Get(key) != idx {
		return 0, false
	}
	return key, true
}

func (p *Pool[H, D, P]) clear(idx uint32) {
	var zero D
	p.records[idx] = zero
	p.inited[idx] = false
}

func (p *Pool[H, D, P]) requireNames() error {
	if p.names == nil {
		return errors.New(errors.PhaseName, errors.KindInvalidInput).
			Pool(p.kind).
			Detail("pool has no name table").
			Build()
	}
	return nil
}

func (p *Pool[H, D, P]) notify(t EventType, h handle.Handle, key uint32) {
	if len(p.observers) == 0 {
		return
	}
	e := Event{Kind: p.kind, Handle: h, Key: key, Type: t}
	for _, o := range p.observers {
		o.OnResourceEvent(e)
	}
}
