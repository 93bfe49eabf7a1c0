package sim

import (
	"math/bits"

	"github.com/fyerfyer/gate-fsim/pkg/circuit"
)

// faultsPerPass is the number of faults packed into one machine word
// alongside the fault-free copy in bit 0.
const faultsPerPass = 63

// Parallel runs the parallel fault simulator: each line holds one 64-bit
// word whose bit 0 carries the fault-free value and whose remaining bits
// each carry one faulty copy of the circuit. One level-ordered value pass
// simulates a batch of up to 63 faults; a fault's bit is clamped to its
// polarity at the faulted line. A fault is detected when its bit differs
// from bit 0 at some primary output.
//
// The detected subset of faults is returned in input order. Netlist
// scratch is not touched. Requires Levelize.
func Parallel(n *circuit.Netlist, vec Vector, faults []circuit.Fault) ([]circuit.Fault, error) {
	if err := checkReady(n, vec); err != nil {
		return nil, err
	}

	order := n.LevelOrder()
	words := make([]uint64, n.Len())
	var detected []circuit.Fault

	for start := 0; start < len(faults); start += faultsPerPass {
		batch := faults[start:min(start+faultsPerPass, len(faults))]

		// clamp[id] has bit j+1 set when batch[j] sits on line id;
		// stuck[id] holds the polarity bits for those faults.
		clamp := make(map[int]uint64, len(batch))
		stuck := make(map[int]uint64, len(batch))
		for j, f := range batch {
			bit := uint64(1) << (j + 1)
			clamp[f.Line] |= bit
			if f.Polarity == circuit.SA1 {
				stuck[f.Line] |= bit
			}
		}

		for i, id := range n.Inputs {
			words[id] = broadcast(vec[i])
		}
		for _, id := range order {
			l := n.Lines[id]
			if l.Op != circuit.IPT {
				words[id] = evalWord(l.Op, l.Fanin, words)
			}
			if m, ok := clamp[id]; ok {
				words[id] = words[id]&^m | stuck[id]
			}
		}

		mask := uint64(1)<<(len(batch)+1) - 2 // fault bits of this batch
		var diff uint64
		for _, id := range n.Outputs {
			w := words[id]
			diff |= (w ^ broadcast(int8(w&1))) & mask
		}
		for diff != 0 {
			j := bits.TrailingZeros64(diff)
			diff &= diff - 1
			detected = append(detected, batch[j-1])
		}
	}
	return detected, nil
}

func evalWord(op circuit.Op, fanin []int, words []uint64) uint64 {
	switch op {
	case circuit.BRCH:
		return words[fanin[0]]
	case circuit.NOT:
		return ^words[fanin[0]]
	case circuit.XOR:
		var w uint64
		for _, id := range fanin {
			w ^= words[id]
		}
		return w
	case circuit.OR, circuit.NOR:
		var w uint64
		for _, id := range fanin {
			w |= words[id]
		}
		if op == circuit.NOR {
			return ^w
		}
		return w
	default: // AND, NAND
		w := ^uint64(0)
		for _, id := range fanin {
			w &= words[id]
		}
		if op == circuit.NAND {
			return ^w
		}
		return w
	}
}

// broadcast replicates a logic value into every bit of a word.
func broadcast(v int8) uint64 {
	if v == 1 {
		return ^uint64(0)
	}
	return 0
}
