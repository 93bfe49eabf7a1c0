package sim_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/gate-fsim/pkg/circuit"
	"github.com/fyerfyer/gate-fsim/pkg/sim"
)

// buildC17 builds the ISCAS-85 c17 benchmark with explicit fanout
// branches (8,9 on stem 3; 14,15 on 11; 20,21 on 16) and levelizes it.
// Primary inputs in order: 1, 2, 3, 6, 7; outputs: 22, 23.
func buildC17(t *testing.T) *circuit.Netlist {
	t.Helper()
	records := []circuit.Record{
		{Kind: circuit.PI, Label: 1, Op: circuit.IPT},
		{Kind: circuit.PI, Label: 2, Op: circuit.IPT},
		{Kind: circuit.PI, Label: 3, Op: circuit.IPT},
		{Kind: circuit.PI, Label: 6, Op: circuit.IPT},
		{Kind: circuit.PI, Label: 7, Op: circuit.IPT},
		{Kind: circuit.FB, Label: 8, Op: circuit.BRCH, FaninLabels: []int{3}},
		{Kind: circuit.FB, Label: 9, Op: circuit.BRCH, FaninLabels: []int{3}},
		{Kind: circuit.Gate, Label: 10, Op: circuit.NAND, FaninLabels: []int{1, 8}},
		{Kind: circuit.Gate, Label: 11, Op: circuit.NAND, FaninLabels: []int{9, 6}},
		{Kind: circuit.FB, Label: 14, Op: circuit.BRCH, FaninLabels: []int{11}},
		{Kind: circuit.FB, Label: 15, Op: circuit.BRCH, FaninLabels: []int{11}},
		{Kind: circuit.Gate, Label: 16, Op: circuit.NAND, FaninLabels: []int{2, 14}},
		{Kind: circuit.Gate, Label: 19, Op: circuit.NAND, FaninLabels: []int{15, 7}},
		{Kind: circuit.FB, Label: 20, Op: circuit.BRCH, FaninLabels: []int{16}},
		{Kind: circuit.FB, Label: 21, Op: circuit.BRCH, FaninLabels: []int{16}},
		{Kind: circuit.PO, Label: 22, Op: circuit.NAND, FaninLabels: []int{10, 20}},
		{Kind: circuit.PO, Label: 23, Op: circuit.NAND, FaninLabels: []int{21, 19}},
	}
	n, err := circuit.Build(records)
	require.NoError(t, err)
	_, err = n.Levelize()
	require.NoError(t, err)
	return n
}

// buildChain builds a chain of k inverters behind one primary input.
// Labels: 1 (PI), 2..k (NOT), k+1 (PO, NOT).
func buildChain(t *testing.T, k int) *circuit.Netlist {
	t.Helper()
	records := []circuit.Record{{Kind: circuit.PI, Label: 1, Op: circuit.IPT}}
	for i := 2; i <= k; i++ {
		records = append(records, circuit.Record{
			Kind: circuit.Gate, Label: i, Op: circuit.NOT, FaninLabels: []int{i - 1}})
	}
	records = append(records, circuit.Record{
		Kind: circuit.PO, Label: k + 1, Op: circuit.NOT, FaninLabels: []int{k}})
	n, err := circuit.Build(records)
	require.NoError(t, err)
	_, err = n.Levelize()
	require.NoError(t, err)
	return n
}

// buildGate2 builds a single 2-input gate: PIs 1, 2 feeding PO 3.
func buildGate2(t *testing.T, op circuit.Op) *circuit.Netlist {
	t.Helper()
	n, err := circuit.Build([]circuit.Record{
		{Kind: circuit.PI, Label: 1, Op: circuit.IPT},
		{Kind: circuit.PI, Label: 2, Op: circuit.IPT},
		{Kind: circuit.PO, Label: 3, Op: op, FaninLabels: []int{1, 2}},
	})
	require.NoError(t, err)
	_, err = n.Levelize()
	require.NoError(t, err)
	return n
}

// at resolves a file label to a fault on the underlying dense line id.
func at(t *testing.T, n *circuit.Netlist, label int, p circuit.Polarity) circuit.Fault {
	t.Helper()
	l, ok := n.LineByLabel(label)
	require.True(t, ok, "label %d", label)
	return circuit.Fault{Line: l.ID, Polarity: p}
}

// value returns the fault-free value of the labelled line.
func value(t *testing.T, n *circuit.Netlist, label int) int8 {
	t.Helper()
	l, ok := n.LineByLabel(label)
	require.True(t, ok, "label %d", label)
	return l.Value
}

// faultsOf returns the deductive fault set of the labelled line.
func faultsOf(t *testing.T, n *circuit.Netlist, label int) *circuit.FaultSet {
	t.Helper()
	l, ok := n.LineByLabel(label)
	require.True(t, ok, "label %d", label)
	require.NotNil(t, l.Faults, "label %d has no fault set", label)
	return l.Faults
}

// setOf builds a fault set over n from explicit members.
func setOf(n *circuit.Netlist, faults ...circuit.Fault) *circuit.FaultSet {
	s := circuit.NewFaultSet(n.Len())
	for _, f := range faults {
		s.Insert(f)
	}
	return s
}

// detectedByInjection reports whether clamping fault f changes the value
// observed at the given line id under vec: the operational oracle.
func detectedByInjection(t *testing.T, n *circuit.Netlist, vec sim.Vector, f circuit.Fault, id int) bool {
	t.Helper()
	vals, err := sim.InjectedValues(n, vec, f)
	require.NoError(t, err)
	return vals[id] != n.Lines[id].Value
}
