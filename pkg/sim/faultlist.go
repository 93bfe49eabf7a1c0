package sim

import "github.com/fyerfyer/gate-fsim/pkg/circuit"

// CompleteList returns the complete single stuck-at fault list: both
// polarities on every line, 2N faults ordered by line id.
func CompleteList(n *circuit.Netlist) []circuit.Fault {
	out := make([]circuit.Fault, 0, 2*n.Len())
	for _, l := range n.Lines {
		out = append(out,
			circuit.Fault{Line: l.ID, Polarity: circuit.SA0},
			circuit.Fault{Line: l.ID, Polarity: circuit.SA1})
	}
	return out
}

// CollapsedList returns the checkpoint-collapsed fault list: both
// polarities on every primary input and fanout branch. By the checkpoint
// theorem every single stuck-at fault is equivalent to, or dominated by,
// a fault on one of these lines. Gate-boundary equivalence collapsing is
// not applied.
func CollapsedList(n *circuit.Netlist) []circuit.Fault {
	var out []circuit.Fault
	for _, l := range n.Lines {
		if l.Kind != circuit.PI && l.Kind != circuit.FB {
			continue
		}
		out = append(out,
			circuit.Fault{Line: l.ID, Polarity: circuit.SA0},
			circuit.Fault{Line: l.ID, Polarity: circuit.SA1})
	}
	return out
}
