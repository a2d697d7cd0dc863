// Package machine wires the cpu and memory packages into the emulator's
// stable public API: boot, step, bounded run, ROM loading, interrupt
// triggers, keyboard injection and debug memory access, plus the
// transport-agnostic event channel the core uses for diagnostics.
package machine

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"

	"github.com/crazyrabbitLTC/6502-EVM-Emulator/cpu"
	"github.com/crazyrabbitLTC/6502-EVM-Emulator/memory"
)

// ErrZeroBudget is returned by Run(0); a run always needs a positive step
// budget so a caller can cancel cooperatively by choosing a small one.
var ErrZeroBudget = fmt.Errorf("machine: run requires a positive step budget")

// Emulator is a complete 6502 machine: CPU + 64KiB memory with MMIO
// overlay + event channel. It is single-threaded and synchronous; callers
// must serialize concurrent access externally.
type Emulator struct {
	CPU    *cpu.CPU
	Memory *memory.Memory

	events  chan Event
	tracing bool
}

// New creates a power-on emulator: 64KiB zeroed RAM, CPU registers zero,
// PC loaded from whatever currently sits at the RESET vector (0x0000
// until a ROM is loaded and Boot is called). The event channel buffers
// up to 4096 events; once that many are waiting unread, every further
// emit (and so Step and Run) blocks until a consumer reads from it.
func New() *Emulator {
	mem := memory.New()
	c := cpu.NewCPU(mem)
	e := &Emulator{
		CPU:    c,
		Memory: mem,
		events: make(chan Event, 4096),
	}
	mem.CharOut = func(value uint8) {
		e.emit(Event{Kind: EventCharOut, Byte: value})
	}
	return e
}

// Events returns the channel the emulator publishes CharOut,
// ProgramHalted and (when enabled) trace events on.
func (e *Emulator) Events() <-chan Event {
	return e.events
}

func (e *Emulator) emit(ev Event) {
	e.events <- ev
}

// SetTracing enables or disables TracePC/TraceJSR event emission.
func (e *Emulator) SetTracing(on bool) {
	e.tracing = on
}

// LoadROM copies bytes into memory at base. One-shot; see memory.LoadROM.
func (e *Emulator) LoadROM(bytes []byte, base uint16) error {
	return e.Memory.LoadROM(bytes, base)
}

// Boot resets the CPU (registers, flags, PC from the RESET vector),
// clears halted/interrupt latches and rewinds the keyboard cursor.
func (e *Emulator) Boot() {
	e.CPU.Boot()
	e.Memory.ResetKeyboard()
}

// Step services pending interrupts, fetches, decodes and executes one
// instruction. It optionally emits TracePC/TraceJSR first.
func (e *Emulator) Step() error {
	if e.tracing {
		pc := e.CPU.PC
		e.emit(Event{Kind: EventTracePC, Addr: pc})
		if e.Memory.Peek(pc) == cpu.JSR_ABS {
			target := uint16(e.Memory.Peek(pc+1)) | uint16(e.Memory.Peek(pc+2))<<8
			e.emit(Event{Kind: EventTraceJSR, Addr: target})
		}
	}
	return e.CPU.Step()
}

// Run executes up to maxSteps instructions, stopping early if the core
// halts (BRK). It always ends by emitting ProgramHalted(executed) unless
// Step itself fails, in which case the error is surfaced immediately and
// no ProgramHalted event is emitted for that run.
func (e *Emulator) Run(maxSteps uint64) error {
	if maxSteps == 0 {
		return ErrZeroBudget
	}
	var executed uint64
	for executed < maxSteps && !e.CPU.Halted() {
		if err := e.Step(); err != nil {
			return err
		}
		executed++
	}
	e.emit(Event{Kind: EventProgramHalted, Steps: executed})
	return nil
}

// TriggerIRQ raises a level-like hardware interrupt request.
func (e *Emulator) TriggerIRQ() {
	e.CPU.TriggerIRQ()
}

// TriggerNMI raises an edge-like non-maskable interrupt.
func (e *Emulator) TriggerNMI() {
	e.CPU.TriggerNMI()
}

// SendKeys appends bytes to the keyboard ring buffer; empty input is
// rejected.
func (e *Emulator) SendKeys(bytes []byte) error {
	return e.Memory.SendKeys(bytes)
}

// Peek/Poke give test harnesses side-effect-free memory access that
// bypasses MMIO semantics.
func (e *Emulator) Peek(addr uint16) uint8            { return e.Memory.Peek(addr) }
func (e *Emulator) Poke(addr uint16, value uint8)     { e.Memory.Poke(addr, value) }
func (e *Emulator) Registers() cpu.Registers          { return e.CPU.Snapshot() }
func (e *Emulator) Halted() bool                      { return e.CPU.Halted() }
func (e *Emulator) ClearHalt()                        { e.CPU.ClearHalt() }

// DumpState renders registers, flags and a 16-byte stack-page window
// starting at SP with go-spew.
func (e *Emulator) DumpState() string {
	regs := e.Registers()
	var stackWindow [16]byte
	for i := range stackWindow {
		stackWindow[i] = e.Peek(0x0100 | uint16((int(regs.SP)+i)&0xFF))
	}
	return spew.Sdump(struct {
		Registers   cpu.Registers
		StackWindow [16]byte
	}{regs, stackWindow})
}
