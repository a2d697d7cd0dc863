// Package cpu implements the MOS 6502 state machine: registers, the
// addressing unit, the ALU helpers, the opcode dispatcher and the
// interrupt controller. It knows nothing about where its bytes come from
// or go to beyond the Bus interface, so memory-mapped I/O lives entirely
// on the Bus implementation's side (see the memory package).
package cpu

// Bus is the memory the CPU executes against. Every read or write the CPU
// performs, including interrupt vector fetches and stack operations, goes
// through Bus so that memory-mapped I/O overlays (character-out, keyboard)
// are transparent to instruction decode.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// Vector addresses for the three hardware-triggered control transfers.
const (
	VectorNMI   uint16 = 0xFFFA
	VectorReset uint16 = 0xFFFC
	VectorIRQ   uint16 = 0xFFFE
)

// CPU holds all mutable 6502 state. A CPU is created once with NewCPU and
// then Boot restores power-on state; it is not safe for concurrent use.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	P       uint8

	Cycles uint64

	irqPending bool
	nmiPending bool
	halted     bool

	Bus Bus
}

// NewCPU creates a CPU wired to the given bus. Registers are zeroed; call
// Boot to perform a power-on/reset sequence before stepping.
func NewCPU(bus Bus) *CPU {
	return &CPU{Bus: bus}
}

// Registers is a point-in-time snapshot of CPU state for introspection
// and test harnesses.
type Registers struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	P       uint8
	Cycles  uint64
}

// Snapshot returns the current register/flag state.
func (c *CPU) Snapshot() Registers {
	return Registers{A: c.A, X: c.X, Y: c.Y, SP: c.SP, PC: c.PC, P: c.P, Cycles: c.Cycles}
}

// Halted reports whether BRK has halted execution since the last Boot.
func (c *CPU) Halted() bool {
	return c.halted
}

// ClearHalt resumes a halted CPU without otherwise touching its state, so a
// host can let RTI return control after observing the halt.
func (c *CPU) ClearHalt() {
	c.halted = false
}

// Boot performs the RESET sequence: A=X=Y=0, SP=0xFD, P has only I set,
// PC loaded from the little-endian word at VectorReset, halted and both
// interrupt latches cleared, cycle counter reset.
func (c *CPU) Boot() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.P = FlagI
	c.Cycles = 0
	c.halted = false
	c.irqPending = false
	c.nmiPending = false
	c.PC = c.readVector(VectorReset)
}

// TriggerIRQ latches a level-like hardware interrupt request. It remains
// pending until serviced (i.e. until the I flag is clear at a Step
// boundary).
func (c *CPU) TriggerIRQ() {
	c.irqPending = true
}

// TriggerNMI latches an edge-like non-maskable interrupt. It is always
// serviced at the next Step boundary regardless of the I flag, and the
// latch is cleared the instant it is serviced.
func (c *CPU) TriggerNMI() {
	c.nmiPending = true
}

// Step services any pending interrupt (NMI takes priority over IRQ over
// instruction execution), then fetches and dispatches one opcode. The only
// error it can return is *OpcodeNotImplementedError.
func (c *CPU) Step() error {
	c.serviceInterrupts()

	opcode := c.Bus.Read(c.PC)
	c.PC++

	entry := &opcodeTable[opcode]
	if entry.run == nil {
		return &OpcodeNotImplementedError{Opcode: opcode, PC: c.PC}
	}
	entry.run(c, entry.mode)
	c.Cycles += uint64(entry.cycles)
	return nil
}

func (c *CPU) readVector(addr uint16) uint16 {
	lo := uint16(c.Bus.Read(addr))
	hi := uint16(c.Bus.Read(addr + 1))
	return hi<<8 | lo
}

// serviceInterrupts implements §4.5: NMI beats IRQ beats ordinary
// execution. NMI is edge-latched (always cleared once observed here); IRQ
// is level-latched (stays pending until the I flag allows it through).
func (c *CPU) serviceInterrupts() {
	switch {
	case c.nmiPending:
		c.nmiPending = false
		c.serviceInterrupt(VectorNMI, false)
	case c.irqPending && !c.GetFlag(FlagI):
		c.irqPending = false
		c.serviceInterrupt(VectorIRQ, false)
	}
}

// serviceInterrupt pushes PC then status (bit 5 always set, bit 4 set only
// for BRK/software interrupts), sets I, and loads PC from vector.
func (c *CPU) serviceInterrupt(vector uint16, setB bool) {
	c.push16(c.PC)
	status := c.P | Flag5
	if setB {
		status |= FlagB
	} else {
		status &^= FlagB
	}
	c.push(status)
	c.SetFlag(FlagI, true)
	c.PC = c.readVector(vector)
}
