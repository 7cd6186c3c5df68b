package resource

import "github.com/wippyai/resource-pool/handle"

// EventType identifies a pool lifecycle transition.
type EventType uint8

const (
	EventAllocated EventType = iota
	EventCreated
	EventNamed
	EventUnnamed
	EventDestroyed
)

func (t EventType) String() string {
	switch t {
	case EventAllocated:
		return "allocated"
	case EventCreated:
		return "created"
	case EventNamed:
		return "named"
	case EventUnnamed:
		return "unnamed"
	case EventDestroyed:
		return "destroyed"
	}
	return "unknown"
}

// Event represents a resource lifecycle event.
type Event struct {
	Kind   string
	Handle handle.Handle
	Key    uint32
	Type   EventType
}

// Observer receives notifications about resource lifecycle events.
// Observers run synchronously inside the pool operation and must not
// mutate the pool that notified them.
type Observer interface {
	OnResourceEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnResourceEvent(e Event) { f(e) }

// Hooks are the type-specific constructor and destructor of a pool.
//
// Construct runs on a zeroed record after the slot is allocated; returning an
// error aborts the create and releases the slot. Destruct runs after the slot
// has been returned to the allocator and before the record is zeroed, so it
// sees the record intact but must not treat the handle as live. Destruct only
// runs for slots whose Construct succeeded.
type Hooks[H ~uint64, D any, P any] struct {
	Construct func(h H, rec *D, info P) error
	Destruct  func(h H, rec *D)
}

// Pooler is the type-erased view of a pool used by registries, the wasm host
// module and the Lua bindings. Handles cross it as plain handle.Handle values.
type Pooler interface {
	// Kind returns the resource kind name, e.g. "texture".
	Kind() string

	// Count returns the number of live handles.
	Count() uint32

	// Cap returns the slot capacity.
	Cap() uint32

	// Named reports whether the pool keeps a name table.
	Named() bool

	// RecordSize returns the size in bytes of one storage record.
	RecordSize() uintptr

	// HasHandle reports whether h is live.
	HasHandle(h handle.Handle) bool

	// HandleAt returns the live handle occupying slot idx.
	HandleAt(idx uint32) (handle.Handle, bool)

	// LiveHandles returns a snapshot of the live handles.
	LiveHandles() []handle.Handle

	// DestroyHandle destroys h.
	DestroyHandle(h handle.Handle) error

	// AllocateNamed returns the handle bound to key, allocating one if needed.
	AllocateNamed(key uint32) (handle.Handle, error)

	// LookupName returns the handle bound to key.
	LookupName(key uint32) (handle.Handle, bool)

	// NameOf returns the key bound to h.
	NameOf(h handle.Handle) (uint32, bool)

	// Purge destroys every live handle and returns how many were destroyed.
	Purge() int
}
