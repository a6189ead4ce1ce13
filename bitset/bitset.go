// Package bitset implements a minimal dense bitset used for the router's
// per-path visited sets.
package bitset

import "fmt"

// BitSet is a fixed-capacity set of small integers backed by a []uint64.
type BitSet []uint64

// NewBitSet returns a BitSet able to hold indices in [0, size).
func NewBitSet(size uint64) BitSet {
	words := (size + 63) / 64
	return make(BitSet, words)
}

// IsSet reports whether the bit at index is set.
func (b BitSet) IsSet(index uint64) bool {
	return b[index/64]&(uint64(1)<<(index%64)) != 0
}

// Set sets the bit at index.
func (b BitSet) Set(index uint64) {
	b[index/64] |= uint64(1) << (index % 64)
}

// Clear unsets every bit.
func (b BitSet) Clear() {
	for i := range b {
		b[i] = 0
	}
}

// SetFrom overwrites the receiver with the contents of o. Both bitsets must
// have been created with the same size.
func (b BitSet) SetFrom(o BitSet) {
	if len(b) != len(o) {
		panic(fmt.Sprintf("bitsets must be same size: got %d vs %d", len(b), len(o)))
	}
	copy(b, o)
}
