package resource

import (
	"sync"

	"github.com/wippyai/resource-pool/handle"
)

// Locked serializes every operation on a pool behind one mutex. Use it for
// pools shared between goroutines, e.g. sounds released from an audio mixer
// callback. Records returned by With are only valid inside the callback.
type Locked[H ~uint64, D any, P any] struct {
	mu   sync.Mutex
	pool *Pool[H, D, P]
}

// NewLocked wraps p. p must not be used directly afterwards.
func NewLocked[H ~uint64, D any, P any](p *Pool[H, D, P]) *Locked[H, D, P] {
	return &Locked[H, D, P]{pool: p}
}

// Do runs fn with exclusive access to the pool.
func (l *Locked[H, D, P]) Do(fn func(p *Pool[H, D, P])) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.pool)
}

// With runs fn on the record of h while holding the lock. It reports false
// if h is not live.
func (l *Locked[H, D, P]) With(h H, fn func(rec *D)) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.pool.Get(h)
	if !ok {
		return false
	}
	fn(rec)
	return true
}

func (l *Locked[H, D, P]) Create(info P) (H, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.Create(info)
}

func (l *Locked[H, D, P]) CreateNamed(key uint32, info P) (H, H, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.CreateNamed(key, info)
}

func (l *Locked[H, D, P]) GetOrAllocate(key uint32) (H, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.GetOrAllocate(key)
}

func (l *Locked[H, D, P]) Initialize(h H, info P) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.Initialize(h, info)
}

func (l *Locked[H, D, P]) Destroy(h H) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.Destroy(h)
}

func (l *Locked[H, D, P]) Lookup(key uint32) (H, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.Lookup(key)
}

func (l *Locked[H, D, P]) Has(h H) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.Has(h)
}

func (l *Locked[H, D, P]) IsInitialized(h H) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.IsInitialized(h)
}

// Pooler

func (l *Locked[H, D, P]) Kind() string { return l.pool.Kind() }

func (l *Locked[H, D, P]) Count() uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.Count()
}

func (l *Locked[H, D, P]) Cap() uint32 { return l.pool.Cap() }

func (l *Locked[H, D, P]) Named() bool { return l.pool.Named() }

func (l *Locked[H, D, P]) RecordSize() uintptr { return l.pool.RecordSize() }

func (l *Locked[H, D, P]) HasHandle(h handle.Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.HasHandle(h)
}

func (l *Locked[H, D, P]) HandleAt(idx uint32) (handle.Handle, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.HandleAt(idx)
}

func (l *Locked[H, D, P]) LiveHandles() []handle.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.LiveHandles()
}

func (l *Locked[H, D, P]) DestroyHandle(h handle.Handle) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.DestroyHandle(h)
}

func (l *Locked[H, D, P]) AllocateNamed(key uint32) (handle.Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.AllocateNamed(key)
}

func (l *Locked[H, D, P]) LookupName(key uint32) (handle.Handle, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.LookupName(key)
}

func (l *Locked[H, D, P]) NameOf(h handle.Handle) (uint32, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.NameOf(h)
}

func (l *Locked[H, D, P]) Purge() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.Purge()
}
