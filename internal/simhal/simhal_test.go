package simhal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGPIOReadReturnsPinParity(t *testing.T) {
	h := New(nil)
	require.Equal(t, int32(0), h.GPIORead(4))
	require.Equal(t, int32(1), h.GPIORead(5))
}

func TestPWMSetDutyRejectsOverRange(t *testing.T) {
	h := New(nil)
	require.Equal(t, int32(0), h.PWMSetDuty(0, 1000))
	require.Equal(t, int32(-1), h.PWMSetDuty(0, 1001))
}

func TestPWMConfigRejectsZeroAndOverMax(t *testing.T) {
	h := New(nil)
	require.Equal(t, int32(-1), h.PWMConfig(0, 0))
	require.Equal(t, int32(-1), h.PWMConfig(0, 40001))
	require.Equal(t, int32(0), h.PWMConfig(0, 40000))
}

func TestI2CReadRegIsDeterministicAndSynthetic(t *testing.T) {
	h := New(nil)
	require.Equal(t, h.I2CReadReg(1, 2, 3), h.I2CReadReg(1, 2, 3))
	require.Equal(t, int32(1^2^3), h.I2CReadReg(1, 2, 3))
}

func TestCallLogRecordsEveryInvocation(t *testing.T) {
	h := New(nil)
	h.GPIOWrite(1, 1)
	h.GPIORead(2)
	calls := h.Calls()
	require.Len(t, calls, 2)
	require.Equal(t, "gpio_write", calls[0].Name)
	require.Equal(t, "gpio_read", calls[1].Name)
}

func TestMonotonicMSIsNonDecreasing(t *testing.T) {
	h := New(nil)
	first := h.MonotonicMS()
	second := h.MonotonicMS()
	require.GreaterOrEqual(t, second, first)
}
