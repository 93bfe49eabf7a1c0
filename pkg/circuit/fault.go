package circuit

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Polarity is the stuck-at polarity of a fault.
type Polarity uint8

const (
	SA0 Polarity = iota // stuck-at-0
	SA1                 // stuck-at-1
)

// String returns a string representation of the polarity
func (p Polarity) String() string {
	if p == SA1 {
		return "s-a-1"
	}
	return "s-a-0"
}

// Fault identifies a single stuck-at fault: the faulted line (dense id)
// held permanently at the given polarity.
type Fault struct {
	Line     int
	Polarity Polarity
}

// String returns the fault in line/polarity form, e.g. "12/1" for line 12
// stuck-at-1.
func (f Fault) String() string {
	return fmt.Sprintf("%d/%d", f.Line, f.Polarity)
}

func (f Fault) index() uint {
	return uint(2*f.Line) + uint(f.Polarity)
}

func faultAt(idx uint) Fault {
	return Fault{Line: int(idx / 2), Polarity: Polarity(idx % 2)}
}

// FaultSet is a set of single stuck-at faults over a netlist of known
// size, backed by a bitset of width 2N (one bit per line and polarity).
type FaultSet struct {
	bits *bitset.BitSet
}

// NewFaultSet creates an empty fault set for a netlist of n lines.
func NewFaultSet(n int) *FaultSet {
	return &FaultSet{bits: bitset.New(uint(2 * n))}
}

// Insert adds a fault to the set.
func (s *FaultSet) Insert(f Fault) {
	s.bits.Set(f.index())
}

// Contains reports whether the fault is in the set.
func (s *FaultSet) Contains(f Fault) bool {
	return s.bits.Test(f.index())
}

// Len returns the number of faults in the set.
func (s *FaultSet) Len() int {
	return int(s.bits.Count())
}

// Clone returns an independent copy of the set.
func (s *FaultSet) Clone() *FaultSet {
	return &FaultSet{bits: s.bits.Clone()}
}

// UnionWith adds every fault of o to s.
func (s *FaultSet) UnionWith(o *FaultSet) {
	s.bits.InPlaceUnion(o.bits)
}

// IntersectWith removes from s every fault not in o.
func (s *FaultSet) IntersectWith(o *FaultSet) {
	s.bits.InPlaceIntersection(o.bits)
}

// DifferenceWith removes from s every fault in o.
func (s *FaultSet) DifferenceWith(o *FaultSet) {
	s.bits.InPlaceDifference(o.bits)
}

// Equal reports whether the two sets hold the same faults.
func (s *FaultSet) Equal(o *FaultSet) bool {
	return s.bits.Equal(o.bits)
}

// Faults returns the members ordered by line id, SA0 before SA1.
func (s *FaultSet) Faults() []Fault {
	out := make([]Fault, 0, s.Len())
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		out = append(out, faultAt(i))
	}
	return out
}

// String returns a string representation of the set
func (s *FaultSet) String() string {
	return fmt.Sprintf("%v", s.Faults())
}
