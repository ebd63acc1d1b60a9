// Command rigz is a thin demonstration of the embedder surface (§6.4): it
// reads a source file, builds a VM, and prints the value (or VMError) that
// running it to completion produces. It is not a REPL or a developed CLI —
// spec.md §1 places that surface driver out of this module's scope, the way
// the teacher's own cmd/retro sits outside its vm/asm core.
package main

import (
	"fmt"
	"os"

	"github.com/rigz-lang/rigz/pkg/builder"
	"github.com/rigz-lang/rigz/pkg/value"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <source-file>\n", os.Args[0])
		os.Exit(2)
	}
	src, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := run(string(src)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(src string) error {
	result, err := builder.New().Eval(src)
	if err != nil {
		return err
	}
	if result.Kind == value.KError {
		return fmt.Errorf("%s", result.Err.Error())
	}
	fmt.Println(result.FormatForDisplay())
	return nil
}
