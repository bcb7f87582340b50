package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kstephano/minibeam/internal/vm"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm <program-file>",
	Short: "Print a human-readable listing of a bytecode program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		program, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading program file: %w", err)
		}
		return disassemble(program)
	},
}

// disassemble is a read-only walk over the program buffer. It never
// executes anything and has no bearing on the VM's own decoding; it
// exists purely so a host can inspect a program before loading it.
func disassemble(program []byte) error {
	pc := 0
	for pc < len(program) {
		start := pc
		op := vm.Opcode(program[pc])
		pc++

		switch op {
		case vm.OpNop:
			fmt.Printf("%04x  NOP\n", start)
		case vm.OpHalt:
			fmt.Printf("%04x  HALT\n", start)
		case vm.OpConstI32:
			dst, val, ok := readU8I32(program, &pc)
			if !ok {
				return fmt.Errorf("truncated CONST_I32 at offset %d", start)
			}
			fmt.Printf("%04x  CONST_I32 r%d, %d\n", start, dst, val)
		case vm.OpMove:
			regs, ok := readU8s(program, &pc, 3)
			if !ok {
				return fmt.Errorf("truncated MOVE at offset %d", start)
			}
			fmt.Printf("%04x  MOVE r%d, r%d, r%d\n", start, regs[0], regs[1], regs[2])
		case vm.OpAdd:
			regs, ok := readU8s(program, &pc, 3)
			if !ok {
				return fmt.Errorf("truncated ADD at offset %d", start)
			}
			fmt.Printf("%04x  ADD r%d, r%d, r%d\n", start, regs[0], regs[1], regs[2])
		case vm.OpSub:
			regs, ok := readU8s(program, &pc, 3)
			if !ok {
				return fmt.Errorf("truncated SUB at offset %d", start)
			}
			fmt.Printf("%04x  SUB r%d, r%d, r%d\n", start, regs[0], regs[1], regs[2])
		case vm.OpCallBif:
			if pc+2 > len(program) {
				return fmt.Errorf("truncated CALL_BIF at offset %d", start)
			}
			bif := program[pc]
			argc := int(program[pc+1])
			pc += 2
			if pc+argc+1 > len(program) {
				return fmt.Errorf("truncated CALL_BIF at offset %d", start)
			}
			argv := program[pc : pc+argc]
			pc += argc
			dst := program[pc]
			pc++
			fmt.Printf("%04x  CALL_BIF bif=%d argv=%v, r%d\n", start, bif, argv, dst)
		case vm.OpRecvCmd:
			regs, ok := readU8s(program, &pc, 5)
			if !ok {
				return fmt.Errorf("truncated RECV_CMD at offset %d", start)
			}
			fmt.Printf("%04x  RECV_CMD r%d, r%d, r%d, r%d, r%d\n", start, regs[0], regs[1], regs[2], regs[3], regs[4])
		case vm.OpJmp:
			if pc+4 > len(program) {
				return fmt.Errorf("truncated JMP at offset %d", start)
			}
			offset := int32(binary.LittleEndian.Uint32(program[pc : pc+4]))
			pc += 4
			fmt.Printf("%04x  JMP %+d\n", start, offset)
		case vm.OpJmpIfZero:
			if pc+5 > len(program) {
				return fmt.Errorf("truncated JMP_IF_ZERO at offset %d", start)
			}
			reg := program[pc]
			offset := int32(binary.LittleEndian.Uint32(program[pc+1 : pc+5]))
			pc += 5
			fmt.Printf("%04x  JMP_IF_ZERO r%d, %+d\n", start, reg, offset)
		case vm.OpSleepMS:
			if pc+1 > len(program) {
				return fmt.Errorf("truncated SLEEP_MS at offset %d", start)
			}
			reg := program[pc]
			pc++
			fmt.Printf("%04x  SLEEP_MS r%d\n", start, reg)
		default:
			return fmt.Errorf("unknown opcode 0x%02x at offset %d", op, start)
		}
	}
	return nil
}

func readU8s(program []byte, pc *int, n int) ([]byte, bool) {
	if *pc+n > len(program) {
		return nil, false
	}
	out := append([]byte(nil), program[*pc:*pc+n]...)
	*pc += n
	return out, true
}

func readU8I32(program []byte, pc *int) (byte, int32, bool) {
	if *pc+5 > len(program) {
		return 0, 0, false
	}
	dst := program[*pc]
	val := int32(binary.LittleEndian.Uint32(program[*pc+1 : *pc+5]))
	*pc += 5
	return dst, val, true
}
