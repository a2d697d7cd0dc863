package cpu

import "fmt"

// OpcodeNotImplementedError is returned by Step when the dispatcher has no
// handler bound for the fetched opcode (undocumented NMOS opcodes and 65C02
// extensions are never bound). CPU state at the point of the error has PC
// already advanced past the opcode byte.
type OpcodeNotImplementedError struct {
	Opcode byte
	PC     uint16
}

func (e *OpcodeNotImplementedError) Error() string {
	return fmt.Sprintf("cpu: opcode 0x%02X not implemented (PC after fetch $%04X)", e.Opcode, e.PC)
}
