package utils

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fyerfyer/gate-fsim/pkg/circuit"
)

// ErrInput indicates a netlist file that is absent, unreadable, or not in
// the "self" format.
var ErrInput = errors.New("parser: invalid netlist file")

// ReadSelfFile reads a circuit description in the "self" format and
// builds the netlist. One whitespace-separated integer record per text
// line:
//
//	0 GATE  label  op(2-7)  #fanout  #fanin  fanin labels
//	1 PI    label  0        #fanout  0
//	2 FB    label  1        stem label            (or 2 label 1 1 1 stem)
//	3 PO    label  op(2-7)  0        #fanin  fanin labels
//
// Labels are arbitrary positive integers; Build remaps them to dense ids.
func ReadSelfFile(filename string) (*circuit.Netlist, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInput, err)
	}
	defer file.Close()

	var records []circuit.Record
	scanner := bufio.NewScanner(file)
	lineno := 0
	for scanner.Scan() {
		lineno++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		rec, err := parseRecord(strings.Fields(text))
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filename, lineno, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInput, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records", ErrInput)
	}

	return circuit.Build(records)
}

func parseRecord(fields []string) (circuit.Record, error) {
	ints, err := atoiFields(fields)
	if err != nil {
		return circuit.Record{}, err
	}
	if len(ints) < 3 {
		return circuit.Record{}, fmt.Errorf("%w: record has %d fields", ErrInput, len(ints))
	}

	kind := circuit.Kind(ints[0])
	rec := circuit.Record{Kind: kind, Label: ints[1], Op: circuit.Op(ints[2])}
	if ints[0] < 0 || ints[0] > 3 {
		return circuit.Record{}, fmt.Errorf("%w: unknown node kind %d", ErrInput, ints[0])
	}
	if ints[2] < 0 || ints[2] > 7 {
		return circuit.Record{}, fmt.Errorf("%w: unknown operator code %d", ErrInput, ints[2])
	}

	switch kind {
	case circuit.PI:
		if len(ints) != 5 {
			return circuit.Record{}, fmt.Errorf("%w: PI record has %d fields, want 5", ErrInput, len(ints))
		}
	case circuit.FB:
		// Both the documented 6-column form and the legacy 4-column form
		// (kind, label, op, stem) occur in circulating circuit files.
		switch len(ints) {
		case 4:
			rec.FaninLabels = []int{ints[3]}
		case 6:
			rec.FaninLabels = []int{ints[5]}
		default:
			return circuit.Record{}, fmt.Errorf("%w: FB record has %d fields, want 4 or 6", ErrInput, len(ints))
		}
	case circuit.Gate, circuit.PO:
		if len(ints) < 5 {
			return circuit.Record{}, fmt.Errorf("%w: record has %d fields, want at least 5", ErrInput, len(ints))
		}
		fin := ints[4]
		if fin < 0 || len(ints) != 5+fin {
			return circuit.Record{}, fmt.Errorf("%w: record declares %d fanins but lists %d",
				ErrInput, fin, len(ints)-5)
		}
		rec.FaninLabels = append(rec.FaninLabels, ints[5:]...)
	}
	return rec, nil
}

func atoiFields(fields []string) ([]int, error) {
	ints := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: non-integer field %q", ErrInput, f)
		}
		ints[i] = v
	}
	return ints, nil
}
