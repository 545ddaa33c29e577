package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/LTangData/customer-info-analysis/internal/cli"
	"github.com/LTangData/customer-info-analysis/pkg/cia"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(cia.ExitPanic)
		}
	}()

	if err := cli.NewLoadCommand().Execute(); err != nil {
		os.Exit(cia.ExitCodeForError(err))
	}
}
