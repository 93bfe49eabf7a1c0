package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fyerfyer/gate-fsim/pkg/config"
	"github.com/fyerfyer/gate-fsim/pkg/shell"
	"github.com/fyerfyer/gate-fsim/pkg/utils"
)

var (
	cfgFile   string
	verbose   bool
	logFormat string
	version   = "dev" // set by build flags
)

var rootCmd = &cobra.Command{
	Use:   "gfsim",
	Short: "Gate-level stuck-at fault simulator",
	Long: `gfsim is an interactive fault simulator for combinational logic.
It reads netlists in the "self" format, levelizes them, and runs
fault-free, deductive and parallel fault simulation. Type HELP at the
prompt for the command list.`,
	Version:      version,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := utils.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	sh := shell.New(cfg, log, os.Stdout)

	// A circuit named on the command line or in the config is loaded as
	// if by READ; failing to load it is fatal at startup.
	startup := cfg.Circuit
	if len(args) == 1 {
		startup = args[0]
	}
	if startup != "" {
		if err := sh.Load(startup); err != nil {
			return err
		}
	}

	return sh.Run(os.Stdin)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
