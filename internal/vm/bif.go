package vm

import "github.com/kstephano/minibeam/internal/hal"

// BifID is the closed set of built-in function identifiers a CALL_BIF
// instruction may name. Values are wire-stable.
type BifID byte

const (
	BifGPIOWrite   BifID = 1
	BifPWMSetDuty  BifID = 2
	BifI2CReadReg  BifID = 3
	BifMonotonicMS BifID = 4
	BifGPIORead    BifID = 5
	BifI2CWriteReg BifID = 6
	BifPWMConfig   BifID = 7
)

// bifArity gives the exact argc each BIF requires. A CALL_BIF whose decoded
// argc disagrees is rejected with BadArgc before any range check or HAL
// call; its argv and dst operands have already been decoded by then.
func bifArity(id BifID) (int, bool) {
	switch id {
	case BifGPIOWrite:
		return 2, true
	case BifPWMSetDuty:
		return 2, true
	case BifI2CReadReg:
		return 3, true
	case BifMonotonicMS:
		return 0, true
	case BifGPIORead:
		return 1, true
	case BifI2CWriteReg:
		return 4, true
	case BifPWMConfig:
		return 2, true
	default:
		return 0, false
	}
}

// callBif dispatches a decoded CALL_BIF. argv holds the register values
// (already read by the caller), not register indices. On any error the
// destination register is left untouched, per spec.md §4.4.
func (vm *VM) callBif(id BifID, argv []int32, h hal.HAL) (int32, Status) {
	arity, ok := bifArity(id)
	if !ok {
		return 0, StatusBadBif
	}
	if len(argv) != arity {
		return 0, StatusBadArgc
	}

	switch id {
	case BifGPIOWrite:
		pin, level := argv[0], argv[1]
		if !validGPIOPin(pin) || (level != 0 && level != 1) {
			return 0, StatusBadArgument
		}
		return h.GPIOWrite(pin, level), StatusOK

	case BifGPIORead:
		pin := argv[0]
		if !validGPIOPin(pin) {
			return 0, StatusBadArgument
		}
		return h.GPIORead(pin), StatusOK

	case BifPWMSetDuty:
		channel, permille := argv[0], argv[1]
		if !validPWMChannel(channel) || !validPWMPermille(permille) {
			return 0, StatusBadArgument
		}
		return h.PWMSetDuty(channel, permille), StatusOK

	case BifPWMConfig:
		channel, freq := argv[0], argv[1]
		if !validPWMChannel(channel) || !validPWMFrequency(freq) {
			return 0, StatusBadArgument
		}
		return h.PWMConfig(channel, freq), StatusOK

	case BifI2CReadReg:
		bus, addr, reg := argv[0], argv[1], argv[2]
		if !validI2CBus(bus) || !validI2CAddr(addr) || !validByteValue(reg) {
			return 0, StatusBadArgument
		}
		return h.I2CReadReg(bus, addr, reg), StatusOK

	case BifI2CWriteReg:
		bus, addr, reg, value := argv[0], argv[1], argv[2], argv[3]
		if !validI2CBus(bus) || !validI2CAddr(addr) || !validByteValue(reg) || !validByteValue(value) {
			return 0, StatusBadArgument
		}
		return h.I2CWriteReg(bus, addr, reg, value), StatusOK

	case BifMonotonicMS:
		return h.MonotonicMS(), StatusOK

	default:
		return 0, StatusBadBif
	}
}
