package cmd

import (
	"fmt"

	"github.com/go-basic/core/internal/ast"
	"github.com/go-basic/core/internal/bytecode"
	"github.com/go-basic/core/internal/errors"
	"github.com/spf13/cobra"
)

var (
	compileEval     string
	compileNoOptim  bool
	compileDisasm   bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a BASIC program to bytecode",
	Long: `Compile a BASIC program to bytecode and print a summary.

Use --disasm to also print the resulting instruction listing, and
--no-optimize to see bytecode before constant folding.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&compileEval, "eval", "e", "", "compile inline source instead of reading from file")
	compileCmd.Flags().BoolVar(&compileNoOptim, "no-optimize", false, "disable the constant-folding pass")
	compileCmd.Flags().BoolVar(&compileDisasm, "disasm", false, "print the disassembled bytecode")
}

func runCompile(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(compileEval, args)
	if err != nil {
		return err
	}

	stmts, err := parseSource(input, filename)
	if err != nil {
		return err
	}

	chunk, err := compileStmts(stmts, input, filename, !compileNoOptim)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d bytes of bytecode, %d slot(s)\n", filename, len(chunk.Code), len(chunk.SlotNames))
	if compileDisasm {
		fmt.Print(bytecode.Disassemble(chunk))
	}
	return nil
}

// compileStmts lowers a parsed statement list to bytecode, rendering a
// compile error with caret-style source context on failure.
func compileStmts(stmts []ast.Stmt, input, filename string, optimize bool) (*bytecode.Chunk, error) {
	var info errors.ErrorInfo
	chunk, err := bytecode.CompileWithOptions(stmts, &info, bytecode.CompileOptions{Optimize: optimize})
	if err != nil {
		return nil, fmt.Errorf("%s\n%s", filename, info.Format(input))
	}
	return chunk, nil
}
