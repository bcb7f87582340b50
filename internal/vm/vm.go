// Package vm implements the register-based bytecode interpreter: decoder,
// instruction dispatch, mailbox, and BIF dispatch layer. It allocates
// nothing on the hot path — every VM instance is a single value holding a
// fixed register file, a borrowed program slice, and an embedded mailbox.
package vm

import "github.com/kstephano/minibeam/internal/hal"

const numRegisters = 16

// VM is the complete interpreter state. The program buffer is borrowed
// for the VM's lifetime and never written to. Two VM instances never
// share state; there is no process-wide singleton anywhere in this
// package.
type VM struct {
	registers [numRegisters]int32
	program   []byte
	pc        int
	halted    bool
	lastError Status
	mb        mailbox
	hal       hal.HAL
}

// New builds a VM over program, ready to run from PC 0 with a zeroed
// register file and an empty mailbox. h must not be nil; it backs every
// CALL_BIF and SLEEP_MS.
func New(program []byte, h hal.HAL) *VM {
	return &VM{
		program: program,
		hal:     h,
	}
}

// Halted reports whether HALT has been executed.
func (vm *VM) Halted() bool { return vm.halted }

// PC returns the current program counter.
func (vm *VM) PC() int { return vm.pc }

// LastError returns the most recent non-OK status raised during
// execution. It is advisory and does not by itself halt the VM.
func (vm *VM) LastError() Status { return vm.lastError }

// Register reads register r. Panics are never used here on purpose: an
// out-of-range r returns 0, mirroring the fact that this accessor is a
// host-debugging convenience, not part of the instruction set.
func (vm *VM) Register(r int) int32 {
	if r < 0 || r >= numRegisters {
		return 0
	}
	return vm.registers[r]
}

// Producer is the narrow, push-only view of a VM for host components that
// feed the mailbox but must not drive Step or Run.
type Producer interface {
	Push(Command) Status
}

var _ Producer = (*VM)(nil)

// Push enqueues a command from the host side. See mailbox.push for the
// exact validation and rejection semantics.
func (vm *VM) Push(cmd Command) Status {
	return vm.mb.push(cmd)
}

// Pop dequeues a command without going through RECV_CMD, for hosts that
// want to drain the mailbox out of band.
func (vm *VM) Pop() (Command, Status) {
	return vm.mb.pop()
}

// Run calls Step up to maxSteps times, stopping early on halt or on the
// first non-OK status. A halt encountered inside the slice is reported
// as StatusOK; any other early stop propagates the failing step's
// status. maxSteps == 0 is a no-op returning StatusOK.
func (vm *VM) Run(maxSteps uint32) Status {
	for i := uint32(0); i < maxSteps; i++ {
		status := vm.Step()
		if vm.halted {
			return StatusOK
		}
		if status != StatusOK {
			return status
		}
	}
	return StatusOK
}

// Step executes exactly one instruction, or is a no-op if the VM is
// already halted.
func (vm *VM) Step() Status {
	if vm.halted {
		return StatusOK
	}

	opByte, status := vm.fetchU8()
	if status != StatusOK {
		return vm.fail(status)
	}

	switch Opcode(opByte) {
	case OpNop:
		return StatusOK

	case OpConstI32:
		return vm.execConstI32()

	case OpMove:
		return vm.execMove()

	case OpAdd:
		return vm.execAddSub(true)

	case OpSub:
		return vm.execAddSub(false)

	case OpCallBif:
		return vm.execCallBif()

	case OpRecvCmd:
		return vm.execRecvCmd()

	case OpJmp:
		return vm.execJmp()

	case OpJmpIfZero:
		return vm.execJmpIfZero()

	case OpSleepMS:
		return vm.execSleepMS()

	case OpHalt:
		vm.halted = true
		return StatusOK

	default:
		return vm.fail(StatusBadOpcode)
	}
}

// fail records status as last_error and returns it. The halt flag is
// left untouched and PC stays wherever decoding stopped.
func (vm *VM) fail(status Status) Status {
	vm.lastError = status
	return status
}

// fetchReg fetches one operand byte and validates it as a register index
// before the next field in the same instruction is decoded. Every opcode
// but JMP_IF_ZERO (which spec.md calls out as fully decoding its operand
// before checking anything) and RECV_CMD (which fetches all five register
// bytes before validating any) freezes PC right after the offending
// register byte on BadRegister, not at the end of the operand tail.
func (vm *VM) fetchReg() (byte, Status) {
	r, s := vm.fetchU8()
	if s != StatusOK {
		return 0, s
	}
	if !validReg(r) {
		return 0, StatusBadRegister
	}
	return r, StatusOK
}

func (vm *VM) execConstI32() Status {
	dst, s1 := vm.fetchReg()
	if s1 != StatusOK {
		return vm.fail(s1)
	}
	value, s2 := vm.fetchI32LE()
	if s2 != StatusOK {
		return vm.fail(s2)
	}
	vm.registers[dst] = value
	return StatusOK
}

func (vm *VM) execMove() Status {
	dst, s1 := vm.fetchReg()
	if s1 != StatusOK {
		return vm.fail(s1)
	}
	a, s2 := vm.fetchReg()
	if s2 != StatusOK {
		return vm.fail(s2)
	}
	// Third operand is decoded and validated but unused; see spec.md §9.
	_, s3 := vm.fetchReg()
	if s3 != StatusOK {
		return vm.fail(s3)
	}
	vm.registers[dst] = vm.registers[a]
	return StatusOK
}

func (vm *VM) execAddSub(add bool) Status {
	dst, s1 := vm.fetchReg()
	if s1 != StatusOK {
		return vm.fail(s1)
	}
	a, s2 := vm.fetchReg()
	if s2 != StatusOK {
		return vm.fail(s2)
	}
	b, s3 := vm.fetchReg()
	if s3 != StatusOK {
		return vm.fail(s3)
	}
	if add {
		vm.registers[dst] = vm.registers[a] + vm.registers[b]
	} else {
		vm.registers[dst] = vm.registers[a] - vm.registers[b]
	}
	return StatusOK
}

func (vm *VM) execCallBif() Status {
	bifByte, s1 := vm.fetchU8()
	if s1 != StatusOK {
		return vm.fail(s1)
	}
	argc, s2 := vm.fetchU8()
	if s2 != StatusOK {
		return vm.fail(s2)
	}
	if argc > 8 {
		return vm.fail(StatusBadArgc)
	}

	var argv [8]int32
	for i := 0; i < int(argc); i++ {
		r, s := vm.fetchReg()
		if s != StatusOK {
			return vm.fail(s)
		}
		argv[i] = vm.registers[r]
	}
	dst, s3 := vm.fetchReg()
	if s3 != StatusOK {
		return vm.fail(s3)
	}

	result, status := vm.callBif(BifID(bifByte), argv[:argc], vm.hal)
	if status != StatusOK {
		return vm.fail(status)
	}
	vm.registers[dst] = result
	return StatusOK
}

func (vm *VM) execRecvCmd() Status {
	var regBytes [5]byte
	for i := range regBytes {
		r, s := vm.fetchU8()
		if s != StatusOK {
			return vm.fail(s)
		}
		regBytes[i] = r
	}
	for _, r := range regBytes {
		if !validReg(r) {
			return vm.fail(StatusBadRegister)
		}
	}

	rType, rA, rB, rC, rD := regBytes[0], regBytes[1], regBytes[2], regBytes[3], regBytes[4]

	cmd, popStatus := vm.mb.pop()
	if popStatus != StatusOK {
		vm.registers[rType] = int32(CmdNone)
		vm.registers[rA] = int32(popStatus)
		vm.registers[rB] = 0
		vm.registers[rC] = 0
		vm.registers[rD] = 0
		vm.lastError = popStatus
		return StatusOK
	}

	if valStatus := validateCommand(cmd); valStatus != StatusOK {
		vm.registers[rType] = int32(CmdNone)
		vm.registers[rA] = int32(valStatus)
		vm.registers[rB] = 0
		vm.registers[rC] = 0
		vm.registers[rD] = 0
		vm.lastError = valStatus
		return StatusOK
	}

	vm.registers[rType] = int32(cmd.Type)
	vm.registers[rA] = cmd.A
	vm.registers[rB] = cmd.B
	vm.registers[rC] = cmd.C
	vm.registers[rD] = cmd.D
	return StatusOK
}

// applyJump bounds-checks a relative offset against pc (already advanced
// past the jump's own operand bytes) and, if in range, moves pc there.
// The arithmetic happens in int64 to avoid overflow at either boundary.
func (vm *VM) applyJump(offset int32) Status {
	target := int64(vm.pc) + int64(offset)
	if target < 0 || target > int64(len(vm.program)) {
		return StatusEndOfStream
	}
	vm.pc = int(target)
	return StatusOK
}

func (vm *VM) execJmp() Status {
	offset, s := vm.fetchI32LE()
	if s != StatusOK {
		return vm.fail(s)
	}
	if status := vm.applyJump(offset); status != StatusOK {
		return vm.fail(status)
	}
	return StatusOK
}

func (vm *VM) execJmpIfZero() Status {
	reg, s1 := vm.fetchU8()
	if s1 != StatusOK {
		return vm.fail(s1)
	}
	offset, s2 := vm.fetchI32LE()
	if s2 != StatusOK {
		return vm.fail(s2)
	}
	if !validReg(reg) {
		return vm.fail(StatusBadRegister)
	}
	if vm.registers[reg] != 0 {
		return StatusOK
	}
	if status := vm.applyJump(offset); status != StatusOK {
		return vm.fail(status)
	}
	return StatusOK
}

func (vm *VM) execSleepMS() Status {
	reg, s := vm.fetchU8()
	if s != StatusOK {
		return vm.fail(s)
	}
	if !validReg(reg) {
		return vm.fail(StatusBadRegister)
	}
	ms := uint32(vm.registers[reg])
	vm.hal.DelayMS(int32(ms))
	return StatusOK
}
