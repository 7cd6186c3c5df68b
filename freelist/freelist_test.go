package freelist

import "testing"

func TestFreelist_ZeroValue(t *testing.T) {
	var f Freelist

	if got := f.Take(); got != Invalid {
		t.Fatalf("Take() on zero freelist = %d, want Invalid", got)
	}
	if f.Count() != 0 {
		t.Fatalf("Count() = %d, want 0", f.Count())
	}
	if f.Dense() != nil {
		t.Fatal("Dense() should be nil on zero freelist")
	}
	if f.Sparse() != nil {
		t.Fatal("Sparse() should be nil on zero freelist")
	}
	if f.Free(0) {
		t.Fatal("Free(0) on zero freelist should fail")
	}
	if f.Has(0) {
		t.Fatal("Has(0) on zero freelist should be false")
	}
}

func TestFreelist_CapacityAndCount(t *testing.T) {
	f := New(10)

	if f.Count() != 0 {
		t.Fatalf("Count() = %d, want 0", f.Count())
	}
	if f.Cap() != 10 {
		t.Fatalf("Cap() = %d, want 10", f.Cap())
	}

	for i := uint32(1); i <= 4; i++ {
		f.Take()
		if f.Count() != i {
			t.Fatalf("Count() after %d takes = %d", i, f.Count())
		}
	}
}

func TestFreelist_TakeInOrder(t *testing.T) {
	f := New(10)

	for want := uint32(0); want < 6; want++ {
		if got := f.Take(); got != want {
			t.Fatalf("Take() = %d, want %d", got, want)
		}
	}
}

func TestFreelist_Exhaustion(t *testing.T) {
	f := New(3)

	for i := 0; i < 3; i++ {
		if f.Take() == Invalid {
			t.Fatalf("Take() %d failed before capacity", i)
		}
	}
	if got := f.Take(); got != Invalid {
		t.Fatalf("Take() past capacity = %d, want Invalid", got)
	}
	if f.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", f.Count())
	}
}

func TestFreelist_DoubleFree(t *testing.T) {
	f := New(10)

	h := f.Take()
	for i := 0; i < 8; i++ {
		f.Take()
	}

	if !f.Free(h) {
		t.Fatal("first Free should succeed")
	}
	count := f.Count()
	for i := 0; i < 4; i++ {
		if f.Free(h) {
			t.Fatalf("repeated Free %d should fail", i)
		}
		if f.Count() != count {
			t.Fatalf("Count() changed by rejected Free: %d != %d", f.Count(), count)
		}
	}
}

func TestFreelist_FreeDecreasesCount(t *testing.T) {
	f := New(10)

	a := []uint32{f.Take(), f.Take(), f.Take(), f.Take()}
	if f.Count() != 4 {
		t.Fatalf("Count() = %d, want 4", f.Count())
	}

	for i, idx := range a {
		if !f.Free(idx) {
			t.Fatalf("Free(%d) failed", idx)
		}
		if want := uint32(3 - i); f.Count() != want {
			t.Fatalf("Count() = %d, want %d", f.Count(), want)
		}
	}
}

func TestFreelist_ReuseOrder(t *testing.T) {
	f := New(4)
	for i := 0; i < 3; i++ {
		f.Take()
	}

	f.Free(0)
	f.Free(2)

	// most recently returned first, then the untouched tail
	if got := f.Take(); got != 2 {
		t.Fatalf("Take() = %d, want 2", got)
	}
	if got := f.Take(); got != 0 {
		t.Fatalf("Take() = %d, want 0", got)
	}
	if got := f.Take(); got != 3 {
		t.Fatalf("Take() = %d, want 3", got)
	}
}

func TestFreelist_OutOfRangeFree(t *testing.T) {
	f := New(4)
	f.Take()

	if f.Free(4) {
		t.Fatal("Free(capacity) should fail")
	}
	if f.Free(Invalid) {
		t.Fatal("Free(Invalid) should fail")
	}
	if f.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", f.Count())
	}
}

func TestFreelist_DenseSparseInvariant(t *testing.T) {
	f := New(8)
	taken := map[uint32]bool{}
	ops := []int{1, 1, 1, 1, -2, 1, -0, -3, 1, 1, -1, 1}
	for _, op := range ops {
		if op > 0 {
			taken[f.Take()] = true
			continue
		}
		idx := uint32(-op)
		if f.Free(idx) {
			delete(taken, idx)
		}
	}

	if int(f.Count()) != len(taken) {
		t.Fatalf("Count() = %d, want %d", f.Count(), len(taken))
	}
	dense, sparse := f.Dense(), f.Sparse()
	for pos, idx := range f.Live() {
		if !taken[idx] {
			t.Fatalf("live index %d was not taken", idx)
		}
		if sparse[idx] != uint32(pos) {
			t.Fatalf("sparse[%d] = %d, want %d", idx, sparse[idx], pos)
		}
		if dense[sparse[idx]] != idx {
			t.Fatalf("dense[sparse[%d]] != %d", idx, idx)
		}
	}
}

func TestFreelist_Reset(t *testing.T) {
	f := New(4)
	f.Take()
	f.Take()
	f.Reset()

	if f.Count() != 0 {
		t.Fatalf("Count() after Reset = %d", f.Count())
	}
	if f.Has(0) || f.Has(1) {
		t.Fatal("indices should be available after Reset")
	}
	if got := f.Take(); got != 0 {
		t.Fatalf("Take() after Reset = %d, want 0", got)
	}
}

func TestFreelist_Clone(t *testing.T) {
	f := New(4)
	f.Take()
	f.Take()

	c := f.Clone()
	c.Free(0)
	c.Take()
	c.Take()

	if f.Count() != 2 {
		t.Fatalf("source Count() = %d, want 2", f.Count())
	}
	if !f.Has(0) || f.Has(2) {
		t.Fatal("source state changed through clone")
	}
	if c.Cap() != f.Cap() {
		t.Fatalf("clone Cap() = %d, want %d", c.Cap(), f.Cap())
	}

	var zero Freelist
	if z := zero.Clone(); z.Count() != 0 || z.Dense() != nil {
		t.Fatal("clone of zero freelist should be zero")
	}
}
