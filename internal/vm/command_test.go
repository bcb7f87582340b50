package vm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateCommandAcceptsNoneAsNoOp(t *testing.T) {
	require.Equal(t, StatusOK, validateCommand(Command{Type: CmdNone, A: 999}))
}

func TestValidateCommandUnknownTypeIsInvalid(t *testing.T) {
	require.Equal(t, StatusInvalidCommand, validateCommand(Command{Type: CommandType(42)}))
}

func TestValidateCommandPerTypeRanges(t *testing.T) {
	cases := []struct {
		name string
		cmd  Command
		want Status
	}{
		{"gpio_write ok", Command{Type: CmdGPIOWrite, A: 39, B: 1}, StatusOK},
		{"gpio_write pin over", Command{Type: CmdGPIOWrite, A: 40, B: 1}, StatusBadArgument},
		{"gpio_write level bad", Command{Type: CmdGPIOWrite, A: 1, B: 2}, StatusBadArgument},
		{"gpio_read ok", Command{Type: CmdGPIORead, A: 0}, StatusOK},
		{"gpio_read pin bad", Command{Type: CmdGPIORead, A: -1}, StatusBadArgument},
		{"pwm_set_duty ok", Command{Type: CmdPWMSetDuty, A: 7, B: 1000}, StatusOK},
		{"pwm_set_duty over", Command{Type: CmdPWMSetDuty, A: 7, B: 1001}, StatusBadArgument},
		{"pwm_config ok", Command{Type: CmdPWMConfig, A: 0, B: 40000}, StatusOK},
		{"pwm_config zero freq", Command{Type: CmdPWMConfig, A: 0, B: 0}, StatusBadArgument},
		{"i2c_read ok", Command{Type: CmdI2CRead, A: 3, B: 127, C: 255, D: 0}, StatusOK},
		{"i2c_read bad addr", Command{Type: CmdI2CRead, A: 0, B: 128, C: 0}, StatusBadArgument},
		{"i2c_write ok", Command{Type: CmdI2CWrite, A: 0, B: 0, C: 0, D: 255}, StatusOK},
		{"i2c_write bad value", Command{Type: CmdI2CWrite, A: 0, B: 0, C: 0, D: 256}, StatusBadArgument},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, validateCommand(tc.cmd))
		})
	}
}
