package handle

import (
	"errors"
	"testing"

	rperrors "github.com/wippyai/resource-pool/errors"
)

func TestHandle_Pack(t *testing.T) {
	h := New(7, 3)
	if h.Index() != 7 || h.Generation() != 3 {
		t.Fatalf("New(7, 3) unpacked to (%d, %d)", h.Index(), h.Generation())
	}
	if !h.IsValid() {
		t.Fatal("New(7, 3) should be valid")
	}
	if Invalid.IsValid() {
		t.Fatal("Invalid should not be valid")
	}
	if Handle(0).IsValid() {
		t.Fatal("zero Handle should not be valid")
	}
	if got := h.String(); got != "Handle(7:3)" {
		t.Fatalf("String() = %q", got)
	}
}

func TestAllocator_ZeroValue(t *testing.T) {
	var a Allocator

	if a.Count() != 0 {
		t.Fatalf("Count() = %d, want 0", a.Count())
	}
	if a.Has(New(0, 1)) {
		t.Fatal("Has on zero allocator should be false")
	}
	if _, err := a.Alloc(); !errors.Is(err, rperrors.ErrExhausted) {
		t.Fatalf("Alloc on zero allocator: err = %v, want ErrExhausted", err)
	}
	if err := a.Free(New(0, 1)); !errors.Is(err, rperrors.ErrDoubleFree) {
		t.Fatalf("Free on zero allocator: err = %v, want ErrDoubleFree", err)
	}
	if len(a.Handles()) != 0 {
		t.Fatal("Handles() on zero allocator should be empty")
	}
}

func TestAllocator_AllocFree(t *testing.T) {
	a := NewAllocator("test", 4)

	h, err := a.Alloc()
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if h.Index() != 0 {
		t.Fatalf("first handle index = %d, want 0", h.Index())
	}
	if !a.Has(h) {
		t.Fatal("Has(h) should be true after Alloc")
	}
	if a.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", a.Count())
	}

	if err := a.Free(h); err != nil {
		t.Fatalf("Free failed: %v", err)
	}
	if a.Has(h) {
		t.Fatal("Has(h) should be false after Free")
	}
	if a.Count() != 0 {
		t.Fatalf("Count() = %d, want 0", a.Count())
	}
}

func TestAllocator_Exhausted(t *testing.T) {
	a := NewAllocator("mesh", 2)
	a.Alloc()
	a.Alloc()

	h, err := a.Alloc()
	if !errors.Is(err, rperrors.ErrExhausted) {
		t.Fatalf("err = %v, want ErrExhausted", err)
	}
	if h != Invalid {
		t.Fatalf("exhausted Alloc returned %v, want Invalid", h)
	}
	if a.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", a.Count())
	}
}

func TestAllocator_DoubleFree(t *testing.T) {
	a := NewAllocator("test", 4)
	h, _ := a.Alloc()
	other, _ := a.Alloc()

	if err := a.Free(h); err != nil {
		t.Fatalf("first Free: %v", err)
	}
	if err := a.Free(h); !errors.Is(err, rperrors.ErrDoubleFree) {
		t.Fatalf("second Free: err = %v, want ErrDoubleFree", err)
	}
	if a.Count() != 1 || !a.Has(other) {
		t.Fatal("rejected Free corrupted allocator state")
	}
}

func TestAllocator_StaleHandle(t *testing.T) {
	a := NewAllocator("test", 1)

	old, _ := a.Alloc()
	a.Free(old)
	fresh, _ := a.Alloc()

	if fresh.Index() != old.Index() {
		t.Fatalf("expected index reuse, got %d and %d", old.Index(), fresh.Index())
	}
	if fresh == old {
		t.Fatal("reused slot should carry a new generation")
	}
	if a.Has(old) {
		t.Fatal("stale handle should not be live")
	}
	if err := a.Free(old); !errors.Is(err, rperrors.ErrDoubleFree) {
		t.Fatalf("Free(stale): err = %v, want ErrDoubleFree", err)
	}
	if !a.Has(fresh) {
		t.Fatal("Free(stale) must not release the new owner")
	}
}

func TestAllocator_NoAliasing(t *testing.T) {
	a := NewAllocator("test", 8)
	var live []Handle

	for round := 0; round < 50; round++ {
		if round%3 == 2 && len(live) > 0 {
			victim := live[round%len(live)]
			if err := a.Free(victim); err != nil {
				t.Fatalf("Free: %v", err)
			}
			live = removeHandle(live, victim)
			continue
		}
		h, err := a.Alloc()
		if err != nil {
			// full: release the oldest and keep going
			a.Free(live[0])
			live = live[1:]
			continue
		}
		live = append(live, h)

		seen := map[uint32]bool{}
		for _, lh := range live {
			if !a.Has(lh) {
				t.Fatalf("live handle %v reported dead", lh)
			}
			if seen[lh.Index()] {
				t.Fatalf("two live handles share index %d", lh.Index())
			}
			seen[lh.Index()] = true
		}
		if int(a.Count()) != len(live) {
			t.Fatalf("Count() = %d, want %d", a.Count(), len(live))
		}
	}
}

func TestAllocator_Reset(t *testing.T) {
	a := NewAllocator("test", 4)
	h1, _ := a.Alloc()
	h2, _ := a.Alloc()

	a.Reset()

	if a.Count() != 0 {
		t.Fatalf("Count() after Reset = %d", a.Count())
	}
	if a.Has(h1) || a.Has(h2) {
		t.Fatal("handles should be dead after Reset")
	}
	h3, _ := a.Alloc()
	if h3 == h1 {
		t.Fatal("handle issued after Reset should not equal a pre-Reset handle")
	}
}

func TestAllocator_HandlesAndEach(t *testing.T) {
	a := NewAllocator("test", 4)
	h0, _ := a.Alloc()
	h1, _ := a.Alloc()
	h2, _ := a.Alloc()
	a.Free(h1)

	got := a.Handles()
	if len(got) != 2 {
		t.Fatalf("Handles() len = %d, want 2", len(got))
	}
	// swap-with-last moves h2 into h1's dense position
	if got[0] != h0 || got[1] != h2 {
		t.Fatalf("Handles() = %v, want [%v %v]", got, h0, h2)
	}

	n := 0
	a.Each(func(Handle) bool {
		n++
		return false
	})
	if n != 1 {
		t.Fatalf("Each did not stop early: %d calls", n)
	}

	if live, ok := a.Live(h2.Index()); !ok || live != h2 {
		t.Fatalf("Live(%d) = %v, %v", h2.Index(), live, ok)
	}
	if _, ok := a.Live(h1.Index()); ok {
		t.Fatal("Live on a freed slot should fail")
	}
}

func removeHandle(hs []Handle, h Handle) []Handle {
	for i, x := range hs {
		if x == h {
			return append(hs[:i], hs[i+1:]...)
		}
	}
	return hs
}
