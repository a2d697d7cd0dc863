package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateZN(t *testing.T) {
	for v := 0; v < 256; v++ {
		c, _ := newTestCPU()
		c.updateZN(uint8(v))
		assert.Equal(t, v == 0, c.GetFlag(FlagZ), "Z for value %d", v)
		assert.Equal(t, v>>7 == 1, c.GetFlag(FlagN), "N for value %d", v)
	}
}

func TestSetFlagGetFlagRoundTrip(t *testing.T) {
	c, _ := newTestCPU()
	for _, bit := range []uint8{FlagC, FlagZ, FlagI, FlagD, FlagB, Flag5, FlagV, FlagN} {
		c.SetFlag(bit, true)
		assert.True(t, c.GetFlag(bit))
		c.SetFlag(bit, false)
		assert.False(t, c.GetFlag(bit))
	}
}
