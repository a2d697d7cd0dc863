package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPushPullRoundTrip: push then pull returns the original byte and
// leaves SP unchanged.
func TestPushPullRoundTrip(t *testing.T) {
	c, _ := newTestCPU()
	for v := 0; v < 256; v++ {
		startSP := c.SP
		c.push(uint8(v))
		assert.Equal(t, startSP-1, c.SP)
		got := c.pull()
		assert.Equal(t, uint8(v), got)
		assert.Equal(t, startSP, c.SP)
	}
}

// TestPush16Pull16RoundTrip covers the 16-bit push/pull helpers the same way.
func TestPush16Pull16RoundTrip(t *testing.T) {
	c, _ := newTestCPU()
	for _, v := range []uint16{0x0000, 0x00FF, 0x1234, 0xFFFF, 0x8000} {
		startSP := c.SP
		c.push16(v)
		assert.Equal(t, startSP-2, c.SP)
		got := c.pull16()
		assert.Equal(t, v, got)
		assert.Equal(t, startSP, c.SP)
	}
}

func TestStackWrapsWithinPageOne(t *testing.T) {
	c, bus := newTestCPU()
	c.SP = 0x00
	c.push(0x42)
	assert.Equal(t, uint8(0xFF), c.SP, "SP must wrap, not go negative")
	assert.Equal(t, uint8(0x42), bus[0x0100])
}

func TestPHAAndPLARoundTripThroughAccumulator(t *testing.T) {
	c, bus := newTestCPU()
	c.A = 0x37
	bus[0x0200] = PHA
	bus[0x0201] = LDA_IMM
	bus[0x0202] = 0x00
	bus[0x0203] = PLA
	c.PC = 0x0200

	assert.NoError(t, c.Step()) // PHA
	assert.NoError(t, c.Step()) // LDA #0, clobbers A
	assert.Equal(t, uint8(0), c.A)
	assert.NoError(t, c.Step()) // PLA
	assert.Equal(t, uint8(0x37), c.A)
}

// TestPHPAlwaysSetsBAndBit5 and TestPLPDropsBKeepsBit5 together describe
// the B-flag push/pull asymmetry: B is always pushed as 1 by PHP/BRK, but
// is not a real latch and is discarded (forced back to 0, with bit 5
// forced to 1) whenever status is pulled back by PLP/RTI.
func TestPHPAlwaysSetsBAndBit5(t *testing.T) {
	c, bus := newTestCPU()
	c.P = 0 // no flags set, not even bit 5
	bus[0x0200] = PHP
	c.PC = 0x0200
	assert.NoError(t, c.Step())
	pushed := bus[uint16(0x0100)|uint16(c.SP+1)]
	assert.Equal(t, FlagB|Flag5, pushed)
}

func TestPLPDropsBKeepsBit5(t *testing.T) {
	c, bus := newTestCPU()
	c.push(0xFF) // every bit set, including B
	bus[0x0200] = PLP
	c.PC = 0x0200
	assert.NoError(t, c.Step())
	assert.False(t, c.GetFlag(FlagB), "PLP must not let B become a real status bit")
	assert.True(t, c.P&Flag5 != 0, "bit 5 always reads back as 1")
}
