package sim

import "errors"

var (
	// ErrUnleveledNetlist indicates a simulator ran before Levelize.
	ErrUnleveledNetlist = errors.New("sim: netlist is not levelized")
	// ErrUnsimulatedNetlist indicates the deductive simulator ran before
	// a fault-free pass assigned line values.
	ErrUnsimulatedNetlist = errors.New("sim: netlist has no fault-free values")
	// ErrMissingPIValue indicates the input vector does not supply exactly
	// one 0/1 value per primary input (too few or too many values, or a
	// value or character that is not 0 or 1).
	ErrMissingPIValue = errors.New("sim: primary input value missing")
	// ErrUnsupportedOp indicates an operator the deductive simulator cannot
	// propagate through (XOR with more than two fanins).
	ErrUnsupportedOp = errors.New("sim: unsupported operator")
)
