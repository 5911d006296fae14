// Command aigsat runs the circuit-based CDCL solver over an AIGER
// netlist: parse -> solve -> report.
//
// Grounded on fan-atpg's cmd/main.go flag-wiring order (parse flags ->
// build logger -> parse input -> run -> report), re-expressed through
// cobra/pflag instead of the stdlib flag package.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fyerfyer/aigsat/internal/logging"
	"github.com/fyerfyer/aigsat/pkg/mffc"
	"github.com/fyerfyer/aigsat/pkg/parser"
	"github.com/fyerfyer/aigsat/pkg/solver"
	"github.com/fyerfyer/aigsat/pkg/tables"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "aigsat",
		Short:   "Circuit-based CDCL satisfiability solver for And-Inverter Graphs",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintln(cmd.OutOrStdout(), version)
				os.Exit(0)
			}
			return nil
		},
	}
	root.PersistentFlags().BoolP("version", "v", false, "print the version and exit")
	root.AddCommand(newSolveCmd())
	return root
}

func newSolveCmd() *cobra.Command {
	var (
		verbose      bool
		logFile      string
		limit        int
		maxConflicts int
		cone         int
	)

	cmd := &cobra.Command{
		Use:   "solve <file>",
		Short: "Decide satisfiability of an AIGER netlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logLevel := logging.InfoLevel
			if verbose {
				logLevel = logging.DebugLevel
			}

			var logger *logging.Logger
			var err error
			if logFile != "" {
				logger, err = logging.NewFile(logLevel, logFile)
				if err != nil {
					return fmt.Errorf("creating log file: %w", err)
				}
			} else {
				logger = logging.New(logLevel, cmd.ErrOrStderr())
			}

			filename := args[0]
			logger.Info("parsing %s", filename)
			a, err := parser.ParseFile(filename)
			if err != nil {
				return err
			}

			if cone >= 0 {
				c, err := mffc.Compute(a, cone, limit)
				if err != nil {
					logger.Warning("mffc computation failed: %v", err)
				} else {
					logger.Info("cone at gate %d: %d leaves, %d gates", cone, len(c.Leaves), len(c.Gates))
				}
			}

			tb := tables.Build(a)
			s := solver.New(a, tb, logger, maxConflicts)
			outcome, witness := s.Solve()

			fmt.Fprintln(cmd.OutOrStdout(), outcome)
			if outcome == solver.SAT && verbose {
				for i, v := range witness {
					val := 0
					if v {
						val = 1
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Input %d: %d\n", i, val)
				}
			}
			if verbose {
				st := s.Stats()
				logger.Info("decisions=%d conflicts=%d learned=%d", st.Decisions, st.Conflicts, st.Learned)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "V", false, "print per-input values on SAT and enable debug logging")
	cmd.Flags().StringVar(&logFile, "log", "", "log file (default: stderr)")
	cmd.Flags().IntVar(&limit, "limit", 100, "node budget for the MFFC traversal (diagnostics only)")
	cmd.Flags().IntVar(&maxConflicts, "max-conflicts", 0, "abort with UNKNOWN after this many conflicts (0 = unbounded)")
	cmd.Flags().IntVar(&cone, "cone", -1, "print the MFFC leaves/gate count rooted at this gate id (diagnostics only)")

	return cmd
}
