package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestINXWrapsFrom0xFFTo0x00AndSetsZero(t *testing.T) {
	c, bus := newTestCPU()
	c.X = 0xFF
	bus[0x0200] = INX
	c.PC = 0x0200
	assert.NoError(t, c.Step())
	assert.Equal(t, uint8(0x00), c.X)
	assert.True(t, c.GetFlag(FlagZ))
}

func TestDEYWrapsFrom0x00To0xFFAndSetsNegative(t *testing.T) {
	c, bus := newTestCPU()
	c.Y = 0x00
	bus[0x0200] = DEY
	c.PC = 0x0200
	assert.NoError(t, c.Step())
	assert.Equal(t, uint8(0xFF), c.Y)
	assert.True(t, c.GetFlag(FlagN))
}

func TestINCAndDECOperateOnMemoryNotARegister(t *testing.T) {
	c, bus := newTestCPU()
	bus[0x0010] = 0x7F
	bus[0x0200] = INC_ZP
	bus[0x0201] = 0x10
	bus[0x0202] = DEC_ZP
	bus[0x0203] = 0x10
	c.PC = 0x0200

	assert.NoError(t, c.Step())
	assert.Equal(t, uint8(0x80), bus[0x0010])
	assert.True(t, c.GetFlag(FlagN))

	assert.NoError(t, c.Step())
	assert.Equal(t, uint8(0x7F), bus[0x0010])
	assert.False(t, c.GetFlag(FlagN))
}

func TestDEXAndINYDoNotAffectEachOther(t *testing.T) {
	c, bus := newTestCPU()
	c.X = 0x01
	c.Y = 0x01
	bus[0x0200] = DEX
	bus[0x0201] = INY
	c.PC = 0x0200

	assert.NoError(t, c.Step())
	assert.Equal(t, uint8(0x00), c.X)
	assert.Equal(t, uint8(0x01), c.Y, "DEX must not touch Y")

	assert.NoError(t, c.Step())
	assert.Equal(t, uint8(0x02), c.Y)
}
