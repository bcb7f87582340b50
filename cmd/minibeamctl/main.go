// Command minibeamctl is the host-side driver for the bytecode VM: it
// loads a program file, optionally preloads the mailbox, and either runs
// the program to completion (or until a step budget is exhausted) or
// disassembles it for inspection.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
})

var rootCmd = &cobra.Command{
	Use:   "minibeamctl",
	Short: "Host driver for the minibeam register VM",
}

func main() {
	rootCmd.AddCommand(runCmd, disasmCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
