package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/fyerfyer/gate-fsim/pkg/circuit"
	"github.com/fyerfyer/gate-fsim/pkg/config"
	"github.com/fyerfyer/gate-fsim/pkg/sim"
	"github.com/fyerfyer/gate-fsim/pkg/utils"
)

// ErrOutOfSequence indicates a command ran before its prerequisite
// (e.g. DFS before FFS, or anything before READ).
var ErrOutOfSequence = errors.New("shell: execution out of sequence")

// state tracks how far the command sequence has progressed. Commands
// declare the minimum state they require.
type state int

const (
	stateExec   state = iota // nothing loaded
	stateLoaded              // READ succeeded
)

type command struct {
	name  string
	state state
	help  string
	run   func(s *Shell, args []string) error
}

// Shell drives the simulator core one command at a time. It owns the
// loaded netlist and the sequencing flags; commands either complete fully
// or leave the prior state untouched.
type Shell struct {
	cfg *config.Config
	log *utils.Logger
	out io.Writer

	netlist   *circuit.Netlist
	state     state
	leveled   bool
	simulated bool
	lastVec   sim.Vector

	commands []command
}

// New creates a shell writing command output to out.
func New(cfg *config.Config, log *utils.Logger, out io.Writer) *Shell {
	s := &Shell{cfg: cfg, log: log, out: out}
	s.commands = []command{
		{"READ", stateExec, "READ <file> - read in a netlist file and build the circuit", (*Shell).cmdRead},
		{"PC", stateLoaded, "PC - print the circuit", (*Shell).cmdPC},
		{"LEV", stateLoaded, "LEV - levelize the circuit", (*Shell).cmdLev},
		{"GFL", stateLoaded, "GFL - generate the complete and collapsed fault lists", (*Shell).cmdGFL},
		{"FFS", stateLoaded, "FFS <vector> - fault-free simulation, e.g. FFS 10101", (*Shell).cmdFFS},
		{"DFS", stateLoaded, "DFS - deductive fault simulation of the last FFS vector", (*Shell).cmdDFS},
		{"PFS", stateLoaded, "PFS [vector] - parallel fault simulation of the complete list", (*Shell).cmdPFS},
		{"HELP", stateExec, "HELP - print this help information", (*Shell).cmdHelp},
	}
	return s
}

// Run reads commands from in until QUIT or EOF.
func (s *Shell) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, s.cfg.Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if s.Exec(scanner.Text()) {
			return nil
		}
	}
}

// Exec runs a single command line and reports whether the shell should
// quit. Errors are reported to the operator; they never abort the loop.
func (s *Shell) Exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	name := strings.ToUpper(fields[0])
	if name == "QUIT" {
		return true
	}

	for _, c := range s.commands {
		if c.name != name {
			continue
		}
		if s.state < c.state {
			fmt.Fprintln(s.out, "Execution out of sequence!")
			return false
		}
		if err := c.run(s, fields[1:]); err != nil {
			if errors.Is(err, ErrOutOfSequence) {
				fmt.Fprintln(s.out, "Execution out of sequence!")
			} else {
				fmt.Fprintf(s.out, "error: %v\n", err)
			}
		}
		return false
	}

	s.passthrough(line)
	return false
}

// Load reads a netlist file and makes it the current circuit, resetting
// all sequencing state. The prior circuit survives a failed load.
func (s *Shell) Load(path string) error {
	n, err := utils.ReadSelfFile(path)
	if err != nil {
		return err
	}
	s.netlist = n
	s.state = stateLoaded
	s.leveled = false
	s.simulated = false
	s.lastVec = nil
	s.log.Info("circuit loaded", "file", path, "lines", n.Len(),
		"inputs", len(n.Inputs), "outputs", len(n.Outputs))
	return nil
}

func (s *Shell) cmdRead(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: READ <file>")
	}
	if err := s.Load(args[0]); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "==> OK")
	return nil
}

func (s *Shell) cmdPC(args []string) error {
	n := s.netlist
	fmt.Fprintln(s.out, " Node   Type    Level   In              Out")
	fmt.Fprintln(s.out, "------  ------  ------  --------------  --------------")
	for _, l := range n.Lines {
		lev := "-"
		if l.Leveled() {
			lev = fmt.Sprintf("%d", l.Level)
		}
		fmt.Fprintf(s.out, "%6d  %-6s  %6s  %-14s  %-14s\n",
			l.Label, l.Op, lev, labelList(n, l.Fanin), labelList(n, l.Fanout))
	}
	fmt.Fprintf(s.out, "\nPrimary inputs:  %s\n", labelList(n, n.Inputs))
	fmt.Fprintf(s.out, "Primary outputs: %s\n", labelList(n, n.Outputs))
	fmt.Fprintf(s.out, "Number of nodes = %d\n", n.Len())
	fmt.Fprintf(s.out, "Number of primary inputs = %d\n", len(n.Inputs))
	fmt.Fprintf(s.out, "Number of primary outputs = %d\n", len(n.Outputs))
	return nil
}

func (s *Shell) cmdLev(args []string) error {
	max, err := s.netlist.Levelize()
	if err != nil {
		return err
	}
	s.leveled = true
	fmt.Fprintf(s.out, "==> OK, max level = %d\n", max)
	return nil
}

func (s *Shell) cmdGFL(args []string) error {
	n := s.netlist
	complete := sim.CompleteList(n)
	collapsed := sim.CollapsedList(n)

	fmt.Fprintf(s.out, "Complete single stuck-at fault list (%d faults):\n", len(complete))
	s.printFaults(complete)
	fmt.Fprintf(s.out, "Collapsed (checkpoint) fault list (%d faults):\n", len(collapsed))
	s.printFaults(collapsed)
	return nil
}

func (s *Shell) cmdFFS(args []string) error {
	if !s.leveled {
		return fmt.Errorf("%w: run LEV first", ErrOutOfSequence)
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: FFS <vector> with one bit per primary input")
	}
	vec, err := sim.ParseVector(args[0])
	if err != nil {
		return err
	}
	if err := sim.FaultFree(s.netlist, vec); err != nil {
		return err
	}
	s.simulated = true
	s.lastVec = vec

	for _, l := range s.netlist.Lines {
		fmt.Fprintf(s.out, "node:%d type:%s level:%d value:%d\n", l.Label, l.Op, l.Level, l.Value)
	}
	for _, id := range s.netlist.Outputs {
		l := s.netlist.Lines[id]
		fmt.Fprintf(s.out, "output %d = %d\n", l.Label, l.Value)
	}
	return nil
}

func (s *Shell) cmdDFS(args []string) error {
	if !s.simulated {
		return fmt.Errorf("%w: run FFS first", ErrOutOfSequence)
	}
	if err := sim.Deductive(s.netlist); err != nil {
		return err
	}

	n := s.netlist
	for _, l := range n.Lines {
		fmt.Fprintf(s.out, "node:%d value:%d faults:%s\n", l.Label, l.Value, s.faultNames(l.Faults.Faults()))
	}

	covered := circuit.NewFaultSet(n.Len())
	for _, id := range n.Outputs {
		covered.UnionWith(n.Lines[id].Faults)
	}
	fmt.Fprintf(s.out, "detected at primary outputs (%d of %d): %s\n",
		covered.Len(), 2*n.Len(), s.faultNames(covered.Faults()))
	return nil
}

func (s *Shell) cmdPFS(args []string) error {
	if !s.leveled {
		return fmt.Errorf("%w: run LEV first", ErrOutOfSequence)
	}
	vec := s.lastVec
	if len(args) == 1 {
		v, err := sim.ParseVector(args[0])
		if err != nil {
			return err
		}
		vec = v
	}
	if vec == nil {
		return fmt.Errorf("usage: PFS <vector>, or run FFS first")
	}

	faults := sim.CompleteList(s.netlist)
	detected, err := sim.Parallel(s.netlist, vec, faults)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "vector %s detects %d of %d faults: %s\n",
		vec, len(detected), len(faults), s.faultNames(detected))
	return nil
}

func (s *Shell) cmdHelp(args []string) error {
	for _, c := range s.commands {
		fmt.Fprintln(s.out, c.help)
	}
	fmt.Fprintln(s.out, "QUIT - stop and exit")
	return nil
}

// passthrough hands an unrecognized command line to the host shell.
func (s *Shell) passthrough(line string) {
	if !s.cfg.ShellPassthrough {
		fmt.Fprintf(s.out, "unknown command: %s\n", line)
		return
	}
	cmd := exec.Command("sh", "-c", line)
	cmd.Stdout = s.out
	cmd.Stderr = s.out
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(s.out, "%v\n", err)
	}
}

// faultNames renders faults as label/polarity pairs.
func (s *Shell) faultNames(faults []circuit.Fault) string {
	if len(faults) == 0 {
		return "(none)"
	}
	parts := make([]string, len(faults))
	for i, f := range faults {
		parts[i] = fmt.Sprintf("%d/%d", s.netlist.Lines[f.Line].Label, f.Polarity)
	}
	return strings.Join(parts, " ")
}

func (s *Shell) printFaults(faults []circuit.Fault) {
	for i, f := range faults {
		fmt.Fprintf(s.out, "\t%d/%d", s.netlist.Lines[f.Line].Label, f.Polarity)
		if (i+1)%8 == 0 {
			fmt.Fprintln(s.out)
		}
	}
	fmt.Fprintln(s.out)
}

func labelList(n *circuit.Netlist, ids []int) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", n.Lines[id].Label)
	}
	return strings.Join(parts, " ")
}
