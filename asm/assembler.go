// Package asm is a small two-pass assembler for the machine's 6502 dialect.
// It exists so ROM seeds can be written as readable source instead of raw
// byte arrays; it is not a general-purpose toolchain and only supports the
// addressing-mode syntax the rest of this module actually emits. Opcode
// bytes are never hand-duplicated here: the mnemonic/mode table is built
// once, at init time, straight from cpu.Describe, so asm and cpu can never
// silently drift apart.
package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/crazyrabbitLTC/6502-EVM-Emulator/cpu"
)

var branchMnemonics = map[string]bool{
	"BCC": true, "BCS": true, "BEQ": true, "BMI": true,
	"BNE": true, "BPL": true, "BVC": true, "BVS": true,
}

// encodeTable[mnemonic][mode] = opcode byte, built by inverting
// cpu.Describe over every possible opcode byte.
var encodeTable = map[string]map[cpu.Mode]byte{}

func init() {
	for op := 0; op < 256; op++ {
		name, mode, ok := cpu.Describe(byte(op))
		if !ok {
			continue
		}
		if encodeTable[name] == nil {
			encodeTable[name] = map[cpu.Mode]byte{}
		}
		encodeTable[name][mode] = byte(op)
	}
}

// ErrAssemble wraps a failure at a specific source line.
type ErrAssemble struct {
	Line int
	Msg  string
}

func (e *ErrAssemble) Error() string {
	return fmt.Sprintf("asm: line %d: %s", e.Line, e.Msg)
}

type statement struct {
	line        int
	label       string
	mnemonic    string
	operandText string
	bytes       []byte // .byte/.db directive payload, mutually exclusive with mnemonic
	size        int    // resolved instruction length, filled in pass 1
}

// Assemble performs a two-pass assembly of source and returns the machine
// code that would be loaded starting at origin. Pass 1 walks the source to
// fix every label's address; pass 2 emits bytes, resolving symbol operands
// and relative branch offsets against those addresses.
func Assemble(source string, origin uint16) ([]byte, error) {
	statements, err := parse(source)
	if err != nil {
		return nil, err
	}

	symbols := map[string]uint16{}
	pc := origin
	for i := range statements {
		s := &statements[i]
		if s.label != "" {
			symbols[s.label] = pc
		}
		if s.bytes != nil {
			s.size = len(s.bytes)
		} else if s.mnemonic != "" {
			size, err := instructionSize(s)
			if err != nil {
				return nil, &ErrAssemble{Line: s.line, Msg: err.Error()}
			}
			s.size = size
		}
		pc += uint16(s.size)
	}

	var out []byte
	pc = origin
	for _, s := range statements {
		if s.bytes != nil {
			out = append(out, s.bytes...)
			pc += uint16(s.size)
			continue
		}
		if s.mnemonic == "" {
			continue
		}
		encoded, err := encodeInstruction(s, pc, symbols)
		if err != nil {
			return nil, &ErrAssemble{Line: s.line, Msg: err.Error()}
		}
		out = append(out, encoded...)
		pc += uint16(len(encoded))
	}
	return out, nil
}

func instructionSize(s *statement) (int, error) {
	mode, _, err := classifyOperand(s.mnemonic, s.operandText, nil, 0)
	if err != nil {
		return 0, err
	}
	return 1 + mode.OperandBytes(), nil
}

func encodeInstruction(s statement, pc uint16, symbols map[string]uint16) ([]byte, error) {
	mode, value, err := classifyOperand(s.mnemonic, s.operandText, symbols, pc)
	if err != nil {
		return nil, err
	}
	modes, ok := encodeTable[s.mnemonic]
	if !ok {
		return nil, fmt.Errorf("unknown mnemonic %q", s.mnemonic)
	}
	opcode, ok := modes[mode]
	if !ok {
		return nil, fmt.Errorf("%s does not support that addressing mode", s.mnemonic)
	}

	if mode == cpu.Relative {
		nextPC := pc + 2
		offset := int32(value) - int32(nextPC)
		if offset < -128 || offset > 127 {
			return nil, fmt.Errorf("branch target out of range (%d bytes)", offset)
		}
		return []byte{opcode, uint8(offset)}, nil
	}

	switch mode.OperandBytes() {
	case 0:
		return []byte{opcode}, nil
	case 1:
		return []byte{opcode, uint8(value)}, nil
	default:
		return []byte{opcode, uint8(value), uint8(value >> 8)}, nil
	}
}

// classifyOperand figures out the addressing mode and, when symbols is
// non-nil (pass 2), the resolved numeric value. In pass 1 (symbols == nil)
// only the mode is needed, so a symbol reference is assumed to need a full
// 16-bit operand unless the mnemonic is a branch.
func classifyOperand(mnemonic, text string, symbols map[string]uint16, pc uint16) (cpu.Mode, uint16, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return cpu.Implied, 0, nil
	}
	if text == "A" {
		return cpu.Accumulator, 0, nil
	}

	if branchMnemonics[mnemonic] {
		value, err := resolveValue(text, symbols)
		return cpu.Relative, value, err
	}

	if strings.HasPrefix(text, "#") {
		value, err := resolveValue(text[1:], symbols)
		return cpu.Immediate, value, err
	}

	if strings.HasPrefix(text, "(") {
		switch {
		case strings.HasSuffix(text, ",X)"):
			value, err := resolveValue(text[1:len(text)-3], symbols)
			return cpu.IndirectX, value, err
		case strings.HasSuffix(text, "),Y"):
			value, err := resolveValue(text[1:len(text)-3], symbols)
			return cpu.IndirectY, value, err
		case strings.HasSuffix(text, ")"):
			value, err := resolveValue(text[1:len(text)-1], symbols)
			return cpu.Indirect, value, err
		}
		return 0, 0, fmt.Errorf("malformed indirect operand %q", text)
	}

	indexed, base := cpu.Implied, text
	switch {
	case strings.HasSuffix(text, ",X"):
		base = text[:len(text)-2]
		indexed = cpu.AbsoluteX
	case strings.HasSuffix(text, ",Y"):
		base = text[:len(text)-2]
		indexed = cpu.AbsoluteY
	}

	value, isZeroPage, err := resolveValueAndWidth(base, symbols)
	if err != nil {
		return 0, 0, err
	}

	switch indexed {
	case cpu.AbsoluteX:
		if isZeroPage {
			return cpu.ZeroPageX, value, nil
		}
		return cpu.AbsoluteX, value, nil
	case cpu.AbsoluteY:
		if isZeroPage {
			return cpu.ZeroPageY, value, nil
		}
		return cpu.AbsoluteY, value, nil
	default:
		if isZeroPage {
			return cpu.ZeroPage, value, nil
		}
		return cpu.Absolute, value, nil
	}
}

// resolveValueAndWidth also reports whether the literal was written in a
// way that fits zero page (a $-prefixed hex literal of at most two digits;
// decimal and binary literals always count as 16-bit). Forward-referenced labels are always
// treated as full 16-bit addresses, matching how this assembler is used
// throughout the module (labels mark code/data, never zero-page scratch).
func resolveValueAndWidth(text string, symbols map[string]uint16) (uint16, bool, error) {
	if looksLikeSymbol(text) {
		if symbols == nil {
			// Pass 1: unresolved label, assume a 16-bit address so the
			// instruction's size is never underestimated.
			return 0, false, nil
		}
		addr, ok := symbols[text]
		if !ok {
			return 0, false, fmt.Errorf("undefined symbol %q", text)
		}
		return addr, false, nil
	}
	value, err := parseNumber(text)
	if err != nil {
		return 0, false, err
	}
	return value, value <= 0xFF && isShortLiteral(text), nil
}

func resolveValue(text string, symbols map[string]uint16) (uint16, error) {
	if symbols == nil {
		if looksLikeSymbol(text) {
			return 0, nil
		}
		return parseNumber(text)
	}
	if addr, ok := symbols[text]; ok {
		return addr, nil
	}
	if looksLikeSymbol(text) {
		return 0, fmt.Errorf("undefined symbol %q", text)
	}
	return parseNumber(text)
}

func looksLikeSymbol(text string) bool {
	if text == "" {
		return false
	}
	if strings.HasPrefix(text, "$") || strings.HasPrefix(text, "%") {
		return false
	}
	if _, err := strconv.ParseInt(text, 10, 32); err == nil {
		return false
	}
	return true
}

// isShortLiteral reports whether a numeric literal was written with at
// most two hex digits ($xx), the conventional way to ask for zero page.
func isShortLiteral(text string) bool {
	if strings.HasPrefix(text, "$") {
		return len(text)-1 <= 2
	}
	return false
}

func parseNumber(text string) (uint16, error) {
	switch {
	case strings.HasPrefix(text, "$"):
		v, err := strconv.ParseUint(text[1:], 16, 32)
		return uint16(v), err
	case strings.HasPrefix(text, "%"):
		v, err := strconv.ParseUint(text[1:], 2, 32)
		return uint16(v), err
	default:
		v, err := strconv.ParseUint(text, 10, 32)
		return uint16(v), err
	}
}
