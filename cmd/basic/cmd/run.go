package cmd

import (
	"fmt"
	"os"

	"github.com/go-basic/core/internal/bytecode"
	"github.com/go-basic/core/internal/effects"
	"github.com/go-basic/core/internal/errors"
	"github.com/spf13/cobra"
)

var (
	runEval      string
	runNoOptim   bool
	runMaxSteps  int
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a BASIC program",
	Long: `Lex, parse, compile and execute a BASIC program, writing PRINT
output to stdout.

Examples:
  basic run program.bas
  basic run -e "PRINT 1 + 2"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runEval, "eval", "e", "", "run inline source instead of reading from file")
	runCmd.Flags().BoolVar(&runNoOptim, "no-optimize", false, "disable the constant-folding pass")
	runCmd.Flags().IntVar(&runMaxSteps, "max-steps", 0, "abort after this many executed instructions (0 = unbounded)")
}

func runRun(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(runEval, args)
	if err != nil {
		return err
	}

	stmts, err := parseSource(input, filename)
	if err != nil {
		return err
	}

	chunk, err := compileStmts(stmts, input, filename, !runNoOptim)
	if err != nil {
		return err
	}

	vm := bytecode.NewVM(effects.NewStdout(os.Stdout))
	vm.MaxSteps = runMaxSteps

	var info errors.ErrorInfo
	if err := vm.Run(chunk, &info); err != nil {
		return fmt.Errorf("%s\n%s", filename, info.Format(input))
	}
	return nil
}
