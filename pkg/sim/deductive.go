package sim

import (
	"fmt"

	"github.com/fyerfyer/gate-fsim/pkg/circuit"
)

// Deductive computes, for every line, the set of single stuck-at faults
// detectable at that line under the current fault-free values, writing
// Faults on each line. Detection at the primary outputs is the fault
// coverage of the vector.
//
// Lines are processed in non-decreasing level order. For a gate with
// controlling value c, the fanins split into C (at value c) and NC (the
// rest):
//
//	C empty:     faults = union over all fanins
//	C non-empty: faults = intersection over C minus union over NC
//
// A fanout branch or inverter inherits its single fanin's set unchanged;
// a primary input starts empty. Every line then receives its own local
// fault (id, complement of its value).
//
// Requires FaultFree to have run on the same vector.
func Deductive(n *circuit.Netlist) error {
	if n.MaxLevel < 0 {
		return ErrUnleveledNetlist
	}
	for _, l := range n.Lines {
		if !l.HasValue() {
			return fmt.Errorf("%w: line %d", ErrUnsimulatedNetlist, l.Label)
		}
	}

	for _, id := range n.LevelOrder() {
		l := n.Lines[id]
		s, err := propagate(n, l)
		if err != nil {
			return err
		}
		s.Insert(localFault(l))
		l.Faults = s
	}
	return nil
}

// propagate applies the gate-specific set rule, before the local fault is
// inserted.
func propagate(n *circuit.Netlist, l *circuit.Line) (*circuit.FaultSet, error) {
	s := circuit.NewFaultSet(n.Len())

	switch l.Op {
	case circuit.IPT:
		return s, nil

	case circuit.BRCH, circuit.NOT:
		s.UnionWith(n.Lines[l.Fanin[0]].Faults)
		return s, nil

	case circuit.XOR:
		if len(l.Fanin) != 2 {
			return nil, fmt.Errorf("%w: %d-input XOR at line %d",
				ErrUnsupportedOp, len(l.Fanin), l.Label)
		}
		// A fault flips a 2-input XOR output iff it flips exactly one
		// input: symmetric difference of the fanin sets.
		a, b := n.Lines[l.Fanin[0]].Faults, n.Lines[l.Fanin[1]].Faults
		s.UnionWith(a)
		s.UnionWith(b)
		both := a.Clone()
		both.IntersectWith(b)
		s.DifferenceWith(both)
		return s, nil

	default:
		c, _ := l.Op.Controlling()
		var inter *circuit.FaultSet
		for _, id := range l.Fanin {
			f := n.Lines[id]
			if f.Value != c {
				continue
			}
			if inter == nil {
				inter = f.Faults.Clone()
			} else {
				inter.IntersectWith(f.Faults)
			}
		}

		if inter == nil {
			// No fanin at the controlling value: a fault observable at any
			// fanin reaches the output.
			for _, id := range l.Fanin {
				s.UnionWith(n.Lines[id].Faults)
			}
			return s, nil
		}

		// At least one controlling fanin: a fault must be observable at
		// every controlling fanin and at no non-controlling one.
		for _, id := range l.Fanin {
			if f := n.Lines[id]; f.Value != c {
				inter.DifferenceWith(f.Faults)
			}
		}
		return inter, nil
	}
}

// localFault is the fault the line itself exposes: the stuck-at of the
// opposite polarity to its fault-free value.
func localFault(l *circuit.Line) circuit.Fault {
	p := circuit.SA0
	if l.Value == 0 {
		p = circuit.SA1
	}
	return circuit.Fault{Line: l.ID, Polarity: p}
}
