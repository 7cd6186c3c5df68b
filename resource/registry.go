package resource

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/wippyai/resource-pool/errors"
)

// Registry indexes pools by kind name in registration order. The ordinal of
// a kind is stable for the registry's lifetime and is what wasm guests pass
// as the kind argument.
type Registry struct {
	pools []Pooler
	index map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds p under p.Kind(). Kinds must be unique.
func (r *Registry) Register(p Pooler) error {
	kind := p.Kind()
	if kind == "" {
		return errors.Registration(errors.PhaseConfig, kind, fmt.Errorf("empty kind"))
	}
	if _, ok := r.index[kind]; ok {
		return errors.Registration(errors.PhaseConfig, kind, fmt.Errorf("kind already registered"))
	}
	r.index[kind] = len(r.pools)
	r.pools = append(r.pools, p)
	return nil
}

// MustRegister is Register for static setup code; it panics on error.
func (r *Registry) MustRegister(pools ...Pooler) {
	for _, p := range pools {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
}

// Get returns the pool registered under kind.
func (r *Registry) Get(kind string) (Pooler, bool) {
	i, ok := r.index[kind]
	if !ok {
		return nil, false
	}
	return r.pools[i], true
}

// At returns the pool with ordinal i.
func (r *Registry) At(i int) (Pooler, bool) {
	if i < 0 || i >= len(r.pools) {
		return nil, false
	}
	return r.pools[i], true
}

// Index returns the ordinal of kind, or -1.
func (r *Registry) Index(kind string) int {
	if i, ok := r.index[kind]; ok {
		return i
	}
	return -1
}

// Len returns the number of registered pools.
func (r *Registry) Len() int { return len(r.pools) }

// Kinds returns the registered kinds in registration order.
func (r *Registry) Kinds() []string {
	out := make([]string, len(r.pools))
	for i, p := range r.pools {
		out[i] = p.Kind()
	}
	return out
}

// Pools returns the registered pools in registration order.
func (r *Registry) Pools() []Pooler {
	out := make([]Pooler, len(r.pools))
	copy(out, r.pools)
	return out
}

// PurgeAll purges every pool in reverse registration order, so pools whose
// destructors release resources in earlier pools go first. It reports every
// pool that still holds live handles afterwards.
func (r *Registry) PurgeAll() (int, error) {
	var (
		total int
		err   error
	)
	for i := len(r.pools) - 1; i >= 0; i-- {
		p := r.pools[i]
		total += p.Purge()
		if n := p.Count(); n != 0 {
			err = multierr.Append(err, errors.New(errors.PhaseFree, errors.KindInvalidData).
				Pool(p.Kind()).
				Detail("%d handles still live after purge", n).
				Build())
		}
	}
	return total, err
}
