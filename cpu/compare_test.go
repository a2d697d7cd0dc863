package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCMPSetsCarryWhenRegisterGreaterOrEqual(t *testing.T) {
	c, bus := newTestCPU()
	c.A = 0x50
	bus[0x0200] = CMP_IMM
	bus[0x0201] = 0x40
	c.PC = 0x0200

	assert.NoError(t, c.Step())
	assert.True(t, c.GetFlag(FlagC), "A >= M")
	assert.False(t, c.GetFlag(FlagZ))
	assert.False(t, c.GetFlag(FlagN), "result 0x10 is positive")
	assert.Equal(t, uint8(0x50), c.A, "CMP must not modify A")
}

func TestCMPEqualSetsZeroAndCarry(t *testing.T) {
	c, _ := newTestCPU()
	c.cmp(0x40, 0x40)
	assert.True(t, c.GetFlag(FlagZ))
	assert.True(t, c.GetFlag(FlagC))
	assert.False(t, c.GetFlag(FlagN))
}

func TestCMPLessClearsCarry(t *testing.T) {
	c, _ := newTestCPU()
	c.cmp(0x10, 0x40)
	assert.False(t, c.GetFlag(FlagC), "A < M")
	assert.False(t, c.GetFlag(FlagZ))
	assert.True(t, c.GetFlag(FlagN), "0x10-0x40 wraps negative")
}

func TestCPXAndCPYUseXAndYNotA(t *testing.T) {
	c, bus := newTestCPU()
	c.X = 0x05
	c.Y = 0x09
	bus[0x0200] = CPX_IMM
	bus[0x0201] = 0x05
	bus[0x0202] = CPY_IMM
	bus[0x0203] = 0x0A
	c.PC = 0x0200

	assert.NoError(t, c.Step())
	assert.True(t, c.GetFlag(FlagZ), "X == M")

	assert.NoError(t, c.Step())
	assert.False(t, c.GetFlag(FlagC), "Y < M")
}
