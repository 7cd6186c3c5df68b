// Package namehash turns resource names and paths into the 32-bit content
// keys used by named pools.
//
// Keys are 32-bit Murmur3 with seed 0. String, Bytes and a Gen fed the same
// bytes in any number of writes produce the same key.
package namehash

import (
	"hash"

	"github.com/spaolacci/murmur3"
)

// String hashes a name. The empty name hashes to 0.
func String(s string) uint32 {
	if s == "" {
		return 0
	}
	return murmur3.Sum32([]byte(s))
}

// Bytes hashes raw data.
func Bytes(b []byte) uint32 {
	if len(b) == 0 {
		return 0
	}
	return murmur3.Sum32(b)
}

// Gen accumulates a key from several writes, e.g. a directory and a file name.
type Gen struct {
	h hash.Hash32
	n int
}

// NewGen starts an empty generator.
func NewGen() *Gen {
	return &Gen{h: murmur3.New32()}
}

// Write adds p to the key. It never fails.
func (g *Gen) Write(p []byte) (int, error) {
	g.n += len(p)
	return g.h.Write(p)
}

// WriteString adds s to the key.
func (g *Gen) WriteString(s string) {
	g.Write([]byte(s))
}

// Sum32 returns the key of everything written so far.
func (g *Gen) Sum32() uint32 {
	if g.n == 0 {
		return 0
	}
	return g.h.Sum32()
}

// Reset discards everything written.
func (g *Gen) Reset() {
	g.h.Reset()
	g.n = 0
}
