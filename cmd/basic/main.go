// Command basic is the CLI front end for the tokenizer, parser, compiler
// and virtual machine implemented under internal/.
package main

import (
	"fmt"
	"os"

	"github.com/go-basic/core/cmd/basic/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
