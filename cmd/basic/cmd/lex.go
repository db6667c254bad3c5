package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/go-basic/core/internal/lexer"
	"github.com/spf13/cobra"
)

var (
	lexEval     string
	lexShowPos  bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a BASIC program and print the resulting tokens",
	Long: `Tokenize (lex) a BASIC program and print the resulting tokens.

If no file is given, source is read from stdin. Use -e to tokenize an
inline snippet instead.

Examples:
  basic lex program.bas
  basic lex -e "LET A% = 1 : PRINT A%"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEval, "eval", "e", "", "tokenize inline source instead of reading from file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show each token's source range")
}

func runLex(cmd *cobra.Command, args []string) error {
	input, _, err := readSource(lexEval, args)
	if err != nil {
		return err
	}

	tokens, err := lexer.Tokenize(input)
	if err != nil {
		return err
	}
	for _, tok := range tokens {
		printToken(tok)
	}
	return nil
}

func printToken(tok lexer.Token) {
	if lexShowPos {
		fmt.Printf("%-12s %-20q @%s\n", tok.Type, tok.Text, tok.Range)
	} else {
		fmt.Printf("%-12s %q\n", tok.Type, tok.Text)
	}
}

func readSource(eval string, args []string) (input string, filename string, err error) {
	if eval != "" {
		return eval, "<eval>", nil
	}
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(data), args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), "<stdin>", nil
}
