package cmd

import (
	"fmt"

	"github.com/go-basic/core/internal/bytecode"
	"github.com/spf13/cobra"
)

var (
	disasmEval    string
	disasmNoOptim bool
)

var disasmCmd = &cobra.Command{
	Use:   "disasm [file]",
	Short: "Compile a BASIC program and print its disassembly",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDisasm,
}

func init() {
	rootCmd.AddCommand(disasmCmd)

	disasmCmd.Flags().StringVarP(&disasmEval, "eval", "e", "", "disassemble inline source instead of reading from file")
	disasmCmd.Flags().BoolVar(&disasmNoOptim, "no-optimize", false, "disable the constant-folding pass")
}

func runDisasm(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(disasmEval, args)
	if err != nil {
		return err
	}

	stmts, err := parseSource(input, filename)
	if err != nil {
		return err
	}

	chunk, err := compileStmts(stmts, input, filename, !disasmNoOptim)
	if err != nil {
		return err
	}

	fmt.Print(bytecode.Disassemble(chunk))
	return nil
}
