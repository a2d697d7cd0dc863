package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJMPAbsolute(t *testing.T) {
	c, bus := newTestCPU()
	bus[0x0200] = JMP_ABS
	bus[0x0201] = 0x00
	bus[0x0202] = 0x90
	c.PC = 0x0200
	assert.NoError(t, c.Step())
	assert.Equal(t, uint16(0x9000), c.PC)
}

// TestJMPIndirectPageWrapBug exercises the classic NMOS 6502 hardware bug:
// JMP ($12FF) fetches the high byte from $1200, not $1300.
func TestJMPIndirectPageWrapBug(t *testing.T) {
	c, bus := newTestCPU()
	bus[0x12FF] = 0x34
	bus[0x1300] = 0x12 // a correct implementation would wrongly read this
	bus[0x1200] = 0x78 // the buggy hardware reads this instead
	bus[0x0200] = JMP_IND
	bus[0x0201] = 0xFF
	bus[0x0202] = 0x12
	c.PC = 0x0200

	assert.NoError(t, c.Step())
	assert.Equal(t, uint16(0x7834), c.PC, "high byte must wrap within the same page")
}

func TestJMPIndirectNoWrapWhenPointerNotAtPageBoundary(t *testing.T) {
	c, bus := newTestCPU()
	bus[0x1200] = 0x34
	bus[0x1201] = 0x12
	bus[0x0200] = JMP_IND
	bus[0x0201] = 0x00
	bus[0x0202] = 0x12
	c.PC = 0x0200

	assert.NoError(t, c.Step())
	assert.Equal(t, uint16(0x1234), c.PC)
}

// TestJSRRTSRoundTrip: JSR pushes PC-1 (the address
// of the last byte of the JSR instruction); RTS pulls it back and adds 1,
// landing exactly on the instruction after the call.
func TestJSRRTSRoundTrip(t *testing.T) {
	c, bus := newTestCPU()
	bus[0x0200] = JSR_ABS
	bus[0x0201] = 0x00
	bus[0x0202] = 0x30
	bus[0x3000] = RTS
	c.PC = 0x0200

	assert.NoError(t, c.Step()) // JSR
	assert.Equal(t, uint16(0x3000), c.PC)

	assert.NoError(t, c.Step()) // RTS
	assert.Equal(t, uint16(0x0203), c.PC, "back to the instruction right after JSR")
}

func TestJSRPushesReturnAddressMinusOne(t *testing.T) {
	c, bus := newTestCPU()
	bus[0x0200] = JSR_ABS
	bus[0x0201] = 0x00
	bus[0x0202] = 0x30
	c.PC = 0x0200

	assert.NoError(t, c.Step())
	returnAddr := c.pull16()
	assert.Equal(t, uint16(0x0202), returnAddr)
}
