// Package dis renders 6502 instructions back to assembly text. It reads
// opcode/addressing-mode metadata straight from cpu.Describe so the
// mnemonic table here can never drift from what the CPU actually
// dispatches; this package only owns operand formatting and the
// line-at-a-time memory walk.
package dis

import (
	"fmt"
	"strings"

	"github.com/crazyrabbitLTC/6502-EVM-Emulator/cpu"
)

// Bus is the subset of cpu.Bus a disassembler needs: read-only access,
// since disassembly must never have a side effect on the machine it
// inspects.
type Bus interface {
	Read(addr uint16) uint8
}

// Line is one decoded instruction: its address, raw bytes and rendered
// text.
type Line struct {
	Addr  uint16
	Bytes []byte
	Text  string
}

// Size is the total encoded length of the instruction, opcode included.
func (l Line) Size() int { return len(l.Bytes) }

func (l Line) String() string {
	hex := make([]string, len(l.Bytes))
	for i, b := range l.Bytes {
		hex[i] = fmt.Sprintf("%02X", b)
	}
	return fmt.Sprintf("$%04X: %-8s  %s", l.Addr, strings.Join(hex, " "), l.Text)
}

// One decodes the single instruction at addr without advancing anything.
// An opcode with no registered handler renders as a raw data byte.
func One(bus Bus, addr uint16) Line {
	opcode := bus.Read(addr)
	name, mode, ok := cpu.Describe(opcode)
	if !ok {
		return Line{Addr: addr, Bytes: []byte{opcode}, Text: fmt.Sprintf("db $%02X", opcode)}
	}

	operandLen := mode.OperandBytes()
	raw := make([]byte, 1+operandLen)
	raw[0] = opcode
	for i := 0; i < operandLen; i++ {
		raw[1+i] = bus.Read(addr + 1 + uint16(i))
	}

	text := name
	if operand := formatOperand(mode, raw[1:], addr); operand != "" {
		text = name + " " + operand
	}
	return Line{Addr: addr, Bytes: raw, Text: text}
}

// Range disassembles length bytes of memory starting at addr, one line per
// decoded instruction, continuing past any undecodable byte as a single
// data byte so a bad guess at the start offset never wedges the walk.
func Range(bus Bus, addr uint16, length int) []Line {
	var lines []Line
	end := int(addr) + length
	pc := int(addr)
	for pc < end {
		line := One(bus, uint16(pc))
		lines = append(lines, line)
		pc += line.Size()
	}
	return lines
}

func formatOperand(mode cpu.Mode, operand []byte, addr uint16) string {
	switch mode {
	case cpu.Implied, cpu.Accumulator:
		return ""
	case cpu.Immediate:
		return fmt.Sprintf("#$%02X", operand[0])
	case cpu.ZeroPage:
		return fmt.Sprintf("$%02X", operand[0])
	case cpu.ZeroPageX:
		return fmt.Sprintf("$%02X,X", operand[0])
	case cpu.ZeroPageY:
		return fmt.Sprintf("$%02X,Y", operand[0])
	case cpu.Absolute:
		return fmt.Sprintf("$%02X%02X", operand[1], operand[0])
	case cpu.AbsoluteX:
		return fmt.Sprintf("$%02X%02X,X", operand[1], operand[0])
	case cpu.AbsoluteY:
		return fmt.Sprintf("$%02X%02X,Y", operand[1], operand[0])
	case cpu.Indirect:
		return fmt.Sprintf("($%02X%02X)", operand[1], operand[0])
	case cpu.IndirectX:
		return fmt.Sprintf("($%02X,X)", operand[0])
	case cpu.IndirectY:
		return fmt.Sprintf("($%02X),Y", operand[0])
	case cpu.Relative:
		offset := int8(operand[0])
		target := addr + 2 + uint16(offset)
		return fmt.Sprintf("$%04X", target)
	default:
		return ""
	}
}
