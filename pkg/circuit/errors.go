package circuit

import "errors"

var (
	// ErrMalformedNetlist indicates an unresolved label, an arity mismatch,
	// a duplicate label, or a cycle detected while building the netlist.
	ErrMalformedNetlist = errors.New("circuit: malformed netlist")
	// ErrNonCombinational indicates a levelization sweep made no progress
	// while unleveled lines remained, i.e. the fanin relation has a cycle.
	ErrNonCombinational = errors.New("circuit: netlist is not combinational")
)
