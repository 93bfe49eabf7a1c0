package sim

import (
	"fmt"
	"strings"

	"github.com/fyerfyer/gate-fsim/pkg/circuit"
)

// Vector holds primary-input values in netlist declaration order.
type Vector []int8

// ParseVector parses a bit string such as "10101" into a vector.
func ParseVector(s string) (Vector, error) {
	v := make(Vector, 0, len(s))
	for _, c := range s {
		switch c {
		case '0':
			v = append(v, 0)
		case '1':
			v = append(v, 1)
		default:
			return nil, fmt.Errorf("%w: bad character %q in vector %q", ErrMissingPIValue, c, s)
		}
	}
	return v, nil
}

// String returns the vector as a bit string.
func (v Vector) String() string {
	var b strings.Builder
	for _, x := range v {
		if x == 1 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// FaultFree computes the fault-free logic value of every line under the
// given primary-input vector, writing Value on each line. Lines are
// evaluated in non-decreasing level order, so every fanin value is ready
// when its consumer is reached. Requires Levelize.
func FaultFree(n *circuit.Netlist, vec Vector) error {
	if err := checkReady(n, vec); err != nil {
		return err
	}

	for _, l := range n.Lines {
		l.Value = -1
	}
	for i, id := range n.Inputs {
		n.Lines[id].Value = vec[i]
	}

	in := make([]int8, 0, 8)
	for _, id := range n.LevelOrder() {
		l := n.Lines[id]
		if l.Op == circuit.IPT {
			continue
		}
		in = in[:0]
		for _, f := range l.Fanin {
			in = append(in, n.Lines[f].Value)
		}
		l.Value = circuit.Eval(l.Op, in)
	}
	return nil
}

// InjectedValues runs the same level-ordered pass with the given fault
// clamped: after line f.Line is evaluated (or read from the vector), its
// value is forced to the fault polarity. The netlist scratch is not
// touched; the faulty values are returned indexed by line id. Comparing
// them against the fault-free values is the operational definition of
// detection.
func InjectedValues(n *circuit.Netlist, vec Vector, f circuit.Fault) ([]int8, error) {
	if err := checkReady(n, vec); err != nil {
		return nil, err
	}
	if f.Line < 0 || f.Line >= n.Len() {
		return nil, fmt.Errorf("sim: fault %v outside netlist of %d lines", f, n.Len())
	}

	vals := make([]int8, n.Len())
	for i := range vals {
		vals[i] = -1
	}
	for i, id := range n.Inputs {
		vals[id] = vec[i]
	}

	in := make([]int8, 0, 8)
	for _, id := range n.LevelOrder() {
		l := n.Lines[id]
		if l.Op != circuit.IPT {
			in = in[:0]
			for _, fi := range l.Fanin {
				in = append(in, vals[fi])
			}
			vals[id] = circuit.Eval(l.Op, in)
		}
		if id == f.Line {
			vals[id] = int8(f.Polarity)
		}
	}
	return vals, nil
}

func checkReady(n *circuit.Netlist, vec Vector) error {
	if len(vec) != len(n.Inputs) {
		return fmt.Errorf("%w: vector has %d values for %d primary inputs",
			ErrMissingPIValue, len(vec), len(n.Inputs))
	}
	for _, x := range vec {
		if x != 0 && x != 1 {
			return fmt.Errorf("%w: value %d is not 0 or 1", ErrMissingPIValue, x)
		}
	}
	if n.MaxLevel < 0 {
		return ErrUnleveledNetlist
	}
	for _, l := range n.Lines {
		if !l.Leveled() {
			return fmt.Errorf("%w: line %d", ErrUnleveledNetlist, l.Label)
		}
	}
	return nil
}
