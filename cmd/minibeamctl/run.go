package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kstephano/minibeam/internal/simhal"
	"github.com/kstephano/minibeam/internal/vm"
)

var (
	maxSteps  uint32
	pushSpecs []string
)

var runCmd = &cobra.Command{
	Use:   "run <program-file>",
	Short: "Run a bytecode program against a simulated HAL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		program, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading program file: %w", err)
		}

		h := simhal.New(logger)
		machine := vm.New(program, h)

		for _, spec := range pushSpecs {
			c, err := parseCommandSpec(spec)
			if err != nil {
				return fmt.Errorf("parsing --push %q: %w", spec, err)
			}
			if status := machine.Push(c); status != vm.StatusOK {
				return fmt.Errorf("pushing %q: %s", spec, status)
			}
		}

		status := machine.Run(maxSteps)
		logger.Info("run finished", "status", status, "pc", machine.PC(), "halted", machine.Halted())

		printRegisters(machine)

		if status != vm.StatusOK {
			return fmt.Errorf("run stopped with status %s", status)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().Uint32Var(&maxSteps, "max-steps", 10000, "maximum instructions to execute")
	runCmd.Flags().StringArrayVar(&pushSpecs, "push", nil, "preload a mailbox command as type:a:b:c:d (repeatable)")
}

// parseCommandSpec parses "type:a:b:c:d" into a Command. All five fields
// are required and must be base-10 integers.
func parseCommandSpec(spec string) (vm.Command, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 5 {
		return vm.Command{}, fmt.Errorf("expected 5 colon-separated fields, got %d", len(parts))
	}
	var vals [5]int64
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return vm.Command{}, fmt.Errorf("field %d: %w", i, err)
		}
		vals[i] = v
	}
	return vm.Command{
		Type: vm.CommandType(vals[0]),
		A:    int32(vals[1]),
		B:    int32(vals[2]),
		C:    int32(vals[3]),
		D:    int32(vals[4]),
	}, nil
}

func printRegisters(machine *vm.VM) {
	fmt.Println("registers:")
	for r := 0; r < 16; r++ {
		fmt.Printf("  r%-2d = %d\n", r, machine.Register(r))
	}
	fmt.Printf("pc = %d, halted = %v, last_error = %s\n", machine.PC(), machine.Halted(), machine.LastError())
}
