package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestBRKPushesPCPlus2WithBSet: BRK pushes the address two bytes past the
// BRK opcode (the padding byte is skipped) with B=1 in the pushed status,
// sets I, and vectors through IRQ/BRK.
func TestBRKPushesPCPlus2WithBSet(t *testing.T) {
	c, bus := newTestCPU()
	bus[0xFFFE] = 0x00
	bus[0xFFFF] = 0x90
	bus[0x0200] = BRK
	bus[0x0201] = 0x00 // padding byte, conventionally a signature/reason code
	c.PC = 0x0200
	c.P = 0

	assert.NoError(t, c.Step())

	assert.True(t, c.Halted(), "BRK halts the core as the documented deviation")
	assert.Equal(t, uint16(0x9000), c.PC)
	assert.True(t, c.GetFlag(FlagI))

	pushedStatus := bus[uint16(0x0100)|uint16(c.SP+1)]
	assert.True(t, pushedStatus&FlagB != 0, "B must be 1 in the pushed status")

	returnAddr := uint16(bus[uint16(0x0100)|uint16(c.SP+2)]) |
		uint16(bus[uint16(0x0100)|uint16(c.SP+3)])<<8
	assert.Equal(t, uint16(0x0202), returnAddr, "PC+2 from the BRK opcode")
}

// TestRTIAfterBRKRoundTrips: after a host
// clears the halt, RTI restores status (without letting B leak back in as
// a set flag) and PC.
func TestRTIAfterBRKRoundTrips(t *testing.T) {
	c, bus := newTestCPU()
	bus[0xFFFE] = 0x00
	bus[0xFFFF] = 0x90
	bus[0x0200] = BRK
	bus[0x0201] = 0x00
	bus[0x9000] = RTI
	c.PC = 0x0200
	c.P = FlagC

	assert.NoError(t, c.Step()) // BRK
	c.ClearHalt()

	assert.NoError(t, c.Step()) // RTI
	assert.Equal(t, uint16(0x0202), c.PC)
	assert.True(t, c.GetFlag(FlagC), "status restored from before the BRK")
	assert.False(t, c.GetFlag(FlagB), "B never becomes a real status bit again")
}

func TestHaltedCPURemainsHaltedUntilCleared(t *testing.T) {
	c, bus := newTestCPU()
	bus[0xFFFE], bus[0xFFFF] = 0x00, 0x90
	bus[0x0200] = BRK
	c.PC = 0x0200

	assert.NoError(t, c.Step())
	assert.True(t, c.Halted())
	c.ClearHalt()
	assert.False(t, c.Halted())
}
