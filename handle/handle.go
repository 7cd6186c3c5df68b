package handle

import (
	"fmt"
	"math"
)

// InvalidIndex is the slot index reserved for "no resource".
const InvalidIndex = math.MaxUint32

// Handle encodes a 32-bit slot index in the lower bits and a 32-bit generation
// in the upper bits. Generations start at 1, so the zero Handle is never live.
type Handle uint64

// Invalid is the handle returned by failed lookups.
const Invalid = Handle(InvalidIndex)

// New packs a slot index and generation into a Handle.
func New(index, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

func (h Handle) Index() uint32      { return uint32(h) }
func (h Handle) Generation() uint32 { return uint32(h >> 32) }

// IsValid reports whether h could have been issued by an Allocator.
// It does not check liveness.
func (h Handle) IsValid() bool {
	return h.Index() != InvalidIndex && h.Generation() != 0
}

func (h Handle) String() string {
	if !h.IsValid() {
		return "Handle(invalid)"
	}
	return fmt.Sprintf("Handle(%d:%d)", h.Index(), h.Generation())
}
