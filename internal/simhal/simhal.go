// Package simhal is a software stand-in for the board-specific HAL the
// core VM never talks to directly. It reproduces the reference stub
// behaviour byte-for-byte: GPIO reads parity-of-pin, PWM rejects
// out-of-range values the dispatcher already should have filtered, I2C
// accepts every value, and
// the monotonic clock is a real wall clock anchored at construction time
// rather than a fake counter.
package simhal

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Call records one HAL invocation for test assertions and diagnostic
// logging. Name matches the HAL method, Args are its int32 parameters in
// declaration order.
type Call struct {
	Name string
	Args []int32
}

// HAL is a single-process software implementation of hal.HAL. It is safe
// for concurrent use; the VM itself never calls it from more than one
// goroutine, but the call log is guarded regardless so tests can poke at
// it from outside a running VM.
type HAL struct {
	mu      sync.Mutex
	calls   []Call
	start   time.Time
	logger  *log.Logger
	gpio    [40]int32
	pwmDuty [8]int32
	pwmFreq [8]int32
}

// New returns a ready-to-use HAL. If logger is nil, calls are not logged.
func New(logger *log.Logger) *HAL {
	return &HAL{
		start:  time.Now(),
		logger: logger,
	}
}

func (h *HAL) record(name string, args ...int32) {
	h.mu.Lock()
	h.calls = append(h.calls, Call{Name: name, Args: append([]int32(nil), args...)})
	h.mu.Unlock()
	if h.logger != nil {
		h.logger.Debug("hal call", "op", name, "args", args)
	}
}

// Calls returns a copy of every invocation recorded so far, in order.
func (h *HAL) Calls() []Call {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Call(nil), h.calls...)
}

func (h *HAL) GPIOWrite(pin, level int32) int32 {
	h.record("gpio_write", pin, level)
	h.mu.Lock()
	h.gpio[pin] = level
	h.mu.Unlock()
	return 0
}

func (h *HAL) GPIORead(pin int32) int32 {
	h.record("gpio_read", pin)
	return pin & 0x1
}

func (h *HAL) PWMSetDuty(channel, permille int32) int32 {
	h.record("pwm_set_duty", channel, permille)
	if permille > 1000 {
		return -1
	}
	h.mu.Lock()
	h.pwmDuty[channel] = permille
	h.mu.Unlock()
	return 0
}

func (h *HAL) PWMConfig(channel, freqHz int32) int32 {
	h.record("pwm_config", channel, freqHz)
	if freqHz == 0 || freqHz > 40000 {
		return -1
	}
	h.mu.Lock()
	h.pwmFreq[channel] = freqHz
	h.mu.Unlock()
	return 0
}

func (h *HAL) I2CReadReg(bus, addr, reg int32) int32 {
	h.record("i2c_read_reg", bus, addr, reg)
	return (addr ^ reg ^ bus) & 0xff
}

func (h *HAL) I2CWriteReg(bus, addr, reg, value int32) int32 {
	h.record("i2c_write_reg", bus, addr, reg, value)
	return 0
}

func (h *HAL) MonotonicMS() int32 {
	ms := time.Since(h.start).Milliseconds()
	h.record("monotonic_ms")
	return int32(ms)
}

func (h *HAL) DelayMS(ms int32) {
	h.record("delay_ms", ms)
	time.Sleep(time.Duration(uint32(ms)) * time.Millisecond)
}
