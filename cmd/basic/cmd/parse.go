package cmd

import (
	"fmt"

	"github.com/go-basic/core/internal/ast"
	"github.com/go-basic/core/internal/errors"
	"github.com/go-basic/core/internal/lexer"
	"github.com/go-basic/core/internal/parser"
	"github.com/spf13/cobra"
)

var parseEval string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a BASIC program and print its statement list",
	Long: `Parse a BASIC program and print the resulting statement list.

If no file is given, source is read from stdin. Use -e to parse an
inline snippet instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseEval, "eval", "e", "", "parse inline source instead of reading from file")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(parseEval, args)
	if err != nil {
		return err
	}

	stmts, err := parseSource(input, filename)
	if err != nil {
		return err
	}

	for i, s := range stmts {
		fmt.Printf("%3d: %s\n", i, describeStmt(s))
	}
	return nil
}

// parseSource runs the lexer then the parser, reporting the first
// failure with caret-style source context.
func parseSource(input, filename string) ([]ast.Stmt, error) {
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		var info errors.ErrorInfo
		errors.Set(&info, err.Error(), lexer.Range{})
		if te, ok := err.(*lexer.TokenizeError); ok {
			info.Range = te.Range
		}
		return nil, fmt.Errorf("%s\n%s", filename, info.Format(input))
	}
	stmts, err := parser.Parse(tokens)
	if err != nil {
		var info errors.ErrorInfo
		errors.Set(&info, err.Error(), lexer.Range{})
		if pe, ok := err.(*parser.ParseError); ok {
			info.Range = pe.Range
		}
		return nil, fmt.Errorf("%s\n%s", filename, info.Format(input))
	}
	return stmts, nil
}

func describeStmt(s ast.Stmt) string {
	switch v := s.(type) {
	case *ast.RemarkStmt:
		return "REM " + v.Text
	case *ast.LetStmt:
		return fmt.Sprintf("LET %s = <expr>", v.LHS.Name)
	case *ast.CallStmt:
		return fmt.Sprintf("%s(%d args)", v.Name, len(v.Args))
	case *ast.PragmaStmt:
		return "PRAGMA <expr>"
	case *ast.GotoStmt:
		return "GOTO " + v.Target
	case *ast.GosubStmt:
		return "GOSUB " + v.Target
	case *ast.ReturnStmt:
		return "RETURN"
	case *ast.StopStmt:
		return "STOP"
	case *ast.EndStmt:
		return "END"
	case *ast.EndIfStmt:
		return "END IF"
	default:
		return fmt.Sprintf("%T", s)
	}
}
