package cpu

// opEntry binds an opcode byte to its mnemonic, addressing mode, handler
// and best-effort base cycle count. A zero-value run field marks an
// unimplemented slot (undocumented opcodes, 65C02 extensions); Step turns
// that into an *OpcodeNotImplementedError instead of dispatching. This
// table-driven design gives O(1) dispatch and makes probing the full
// opcode matrix in tests trivial, in place of a long chained conditional.
type opEntry struct {
	name   string
	mode   Mode
	cycles uint8
	run    func(c *CPU, mode Mode)
}

var opcodeTable [256]opEntry

func reg(op byte, name string, mode Mode, cycles uint8, fn func(*CPU, Mode)) {
	opcodeTable[op] = opEntry{name: name, mode: mode, cycles: cycles, run: fn}
}

// Describe reports a documented opcode's mnemonic and addressing mode
// without executing it, for disassembly and trace events. ok is false for
// any byte with no registered handler.
func Describe(opcode byte) (name string, mode Mode, ok bool) {
	e := &opcodeTable[opcode]
	if e.run == nil {
		return "", 0, false
	}
	return e.name, e.mode, true
}

func init() {
	reg(LDA_IMM, "LDA", Immediate, 2, opLDA)
	reg(LDA_ZP, "LDA", ZeroPage, 3, opLDA)
	reg(LDA_ZPX, "LDA", ZeroPageX, 4, opLDA)
	reg(LDA_ABS, "LDA", Absolute, 4, opLDA)
	reg(LDA_ABX, "LDA", AbsoluteX, 4, opLDA)
	reg(LDA_ABY, "LDA", AbsoluteY, 4, opLDA)
	reg(LDA_INX, "LDA", IndirectX, 6, opLDA)
	reg(LDA_INY, "LDA", IndirectY, 5, opLDA)

	reg(LDX_IMM, "LDX", Immediate, 2, opLDX)
	reg(LDX_ZP, "LDX", ZeroPage, 3, opLDX)
	reg(LDX_ZPY, "LDX", ZeroPageY, 4, opLDX)
	reg(LDX_ABS, "LDX", Absolute, 4, opLDX)
	reg(LDX_ABY, "LDX", AbsoluteY, 4, opLDX)

	reg(LDY_IMM, "LDY", Immediate, 2, opLDY)
	reg(LDY_ZP, "LDY", ZeroPage, 3, opLDY)
	reg(LDY_ZPX, "LDY", ZeroPageX, 4, opLDY)
	reg(LDY_ABS, "LDY", Absolute, 4, opLDY)
	reg(LDY_ABX, "LDY", AbsoluteX, 4, opLDY)

	reg(STA_ZP, "STA", ZeroPage, 3, opSTA)
	reg(STA_ZPX, "STA", ZeroPageX, 4, opSTA)
	reg(STA_ABS, "STA", Absolute, 4, opSTA)
	reg(STA_ABX, "STA", AbsoluteX, 5, opSTA)
	reg(STA_ABY, "STA", AbsoluteY, 5, opSTA)
	reg(STA_INX, "STA", IndirectX, 6, opSTA)
	reg(STA_INY, "STA", IndirectY, 6, opSTA)

	reg(STX_ZP, "STX", ZeroPage, 3, opSTX)
	reg(STX_ZPY, "STX", ZeroPageY, 4, opSTX)
	reg(STX_ABS, "STX", Absolute, 4, opSTX)

	reg(STY_ZP, "STY", ZeroPage, 3, opSTY)
	reg(STY_ZPX, "STY", ZeroPageX, 4, opSTY)
	reg(STY_ABS, "STY", Absolute, 4, opSTY)

	reg(TAX, "TAX", Implied, 2, opTAX)
	reg(TAY, "TAY", Implied, 2, opTAY)
	reg(TXA, "TXA", Implied, 2, opTXA)
	reg(TYA, "TYA", Implied, 2, opTYA)
	reg(TSX, "TSX", Implied, 2, opTSX)
	reg(TXS, "TXS", Implied, 2, opTXS)

	reg(PHA, "PHA", Implied, 3, opPHA)
	reg(PHP, "PHP", Implied, 3, opPHP)
	reg(PLA, "PLA", Implied, 4, opPLA)
	reg(PLP, "PLP", Implied, 4, opPLP)

	reg(AND_IMM, "AND", Immediate, 2, opAND)
	reg(AND_ZP, "AND", ZeroPage, 3, opAND)
	reg(AND_ZPX, "AND", ZeroPageX, 4, opAND)
	reg(AND_ABS, "AND", Absolute, 4, opAND)
	reg(AND_ABX, "AND", AbsoluteX, 4, opAND)
	reg(AND_ABY, "AND", AbsoluteY, 4, opAND)
	reg(AND_INX, "AND", IndirectX, 6, opAND)
	reg(AND_INY, "AND", IndirectY, 5, opAND)

	reg(EOR_IMM, "EOR", Immediate, 2, opEOR)
	reg(EOR_ZP, "EOR", ZeroPage, 3, opEOR)
	reg(EOR_ZPX, "EOR", ZeroPageX, 4, opEOR)
	reg(EOR_ABS, "EOR", Absolute, 4, opEOR)
	reg(EOR_ABX, "EOR", AbsoluteX, 4, opEOR)
	reg(EOR_ABY, "EOR", AbsoluteY, 4, opEOR)
	reg(EOR_INX, "EOR", IndirectX, 6, opEOR)
	reg(EOR_INY, "EOR", IndirectY, 5, opEOR)

	reg(ORA_IMM, "ORA", Immediate, 2, opORA)
	reg(ORA_ZP, "ORA", ZeroPage, 3, opORA)
	reg(ORA_ZPX, "ORA", ZeroPageX, 4, opORA)
	reg(ORA_ABS, "ORA", Absolute, 4, opORA)
	reg(ORA_ABX, "ORA", AbsoluteX, 4, opORA)
	reg(ORA_ABY, "ORA", AbsoluteY, 4, opORA)
	reg(ORA_INX, "ORA", IndirectX, 6, opORA)
	reg(ORA_INY, "ORA", IndirectY, 5, opORA)

	reg(BIT_ZP, "BIT", ZeroPage, 3, opBIT)
	reg(BIT_ABS, "BIT", Absolute, 4, opBIT)

	reg(ADC_IMM, "ADC", Immediate, 2, opADC)
	reg(ADC_ZP, "ADC", ZeroPage, 3, opADC)
	reg(ADC_ZPX, "ADC", ZeroPageX, 4, opADC)
	reg(ADC_ABS, "ADC", Absolute, 4, opADC)
	reg(ADC_ABX, "ADC", AbsoluteX, 4, opADC)
	reg(ADC_ABY, "ADC", AbsoluteY, 4, opADC)
	reg(ADC_INX, "ADC", IndirectX, 6, opADC)
	reg(ADC_INY, "ADC", IndirectY, 5, opADC)

	reg(SBC_IMM, "SBC", Immediate, 2, opSBC)
	reg(SBC_ZP, "SBC", ZeroPage, 3, opSBC)
	reg(SBC_ZPX, "SBC", ZeroPageX, 4, opSBC)
	reg(SBC_ABS, "SBC", Absolute, 4, opSBC)
	reg(SBC_ABX, "SBC", AbsoluteX, 4, opSBC)
	reg(SBC_ABY, "SBC", AbsoluteY, 4, opSBC)
	reg(SBC_INX, "SBC", IndirectX, 6, opSBC)
	reg(SBC_INY, "SBC", IndirectY, 5, opSBC)

	reg(CMP_IMM, "CMP", Immediate, 2, opCMP)
	reg(CMP_ZP, "CMP", ZeroPage, 3, opCMP)
	reg(CMP_ZPX, "CMP", ZeroPageX, 4, opCMP)
	reg(CMP_ABS, "CMP", Absolute, 4, opCMP)
	reg(CMP_ABX, "CMP", AbsoluteX, 4, opCMP)
	reg(CMP_ABY, "CMP", AbsoluteY, 4, opCMP)
	reg(CMP_INX, "CMP", IndirectX, 6, opCMP)
	reg(CMP_INY, "CMP", IndirectY, 5, opCMP)

	reg(CPX_IMM, "CPX", Immediate, 2, opCPX)
	reg(CPX_ZP, "CPX", ZeroPage, 3, opCPX)
	reg(CPX_ABS, "CPX", Absolute, 4, opCPX)

	reg(CPY_IMM, "CPY", Immediate, 2, opCPY)
	reg(CPY_ZP, "CPY", ZeroPage, 3, opCPY)
	reg(CPY_ABS, "CPY", Absolute, 4, opCPY)

	reg(INC_ZP, "INC", ZeroPage, 5, opINC)
	reg(INC_ZPX, "INC", ZeroPageX, 6, opINC)
	reg(INC_ABS, "INC", Absolute, 6, opINC)
	reg(INC_ABX, "INC", AbsoluteX, 7, opINC)

	reg(DEC_ZP, "DEC", ZeroPage, 5, opDEC)
	reg(DEC_ZPX, "DEC", ZeroPageX, 6, opDEC)
	reg(DEC_ABS, "DEC", Absolute, 6, opDEC)
	reg(DEC_ABX, "DEC", AbsoluteX, 7, opDEC)

	reg(INX, "INX", Implied, 2, opINX)
	reg(INY, "INY", Implied, 2, opINY)
	reg(DEX, "DEX", Implied, 2, opDEX)
	reg(DEY, "DEY", Implied, 2, opDEY)

	reg(ASL_ACC, "ASL", Accumulator, 2, opASL)
	reg(ASL_ZP, "ASL", ZeroPage, 5, opASL)
	reg(ASL_ZPX, "ASL", ZeroPageX, 6, opASL)
	reg(ASL_ABS, "ASL", Absolute, 6, opASL)
	reg(ASL_ABX, "ASL", AbsoluteX, 7, opASL)

	reg(LSR_ACC, "LSR", Accumulator, 2, opLSR)
	reg(LSR_ZP, "LSR", ZeroPage, 5, opLSR)
	reg(LSR_ZPX, "LSR", ZeroPageX, 6, opLSR)
	reg(LSR_ABS, "LSR", Absolute, 6, opLSR)
	reg(LSR_ABX, "LSR", AbsoluteX, 7, opLSR)

	reg(ROL_ACC, "ROL", Accumulator, 2, opROL)
	reg(ROL_ZP, "ROL", ZeroPage, 5, opROL)
	reg(ROL_ZPX, "ROL", ZeroPageX, 6, opROL)
	reg(ROL_ABS, "ROL", Absolute, 6, opROL)
	reg(ROL_ABX, "ROL", AbsoluteX, 7, opROL)

	reg(ROR_ACC, "ROR", Accumulator, 2, opROR)
	reg(ROR_ZP, "ROR", ZeroPage, 5, opROR)
	reg(ROR_ZPX, "ROR", ZeroPageX, 6, opROR)
	reg(ROR_ABS, "ROR", Absolute, 6, opROR)
	reg(ROR_ABX, "ROR", AbsoluteX, 7, opROR)

	reg(JMP_ABS, "JMP", Absolute, 3, opJMP)
	reg(JMP_IND, "JMP", Indirect, 5, opJMP)
	reg(JSR_ABS, "JSR", Absolute, 6, opJSR)
	reg(RTS, "RTS", Implied, 6, opRTS)

	reg(BCC, "BCC", Relative, 2, opBCC)
	reg(BCS, "BCS", Relative, 2, opBCS)
	reg(BEQ, "BEQ", Relative, 2, opBEQ)
	reg(BMI, "BMI", Relative, 2, opBMI)
	reg(BNE, "BNE", Relative, 2, opBNE)
	reg(BPL, "BPL", Relative, 2, opBPL)
	reg(BVC, "BVC", Relative, 2, opBVC)
	reg(BVS, "BVS", Relative, 2, opBVS)

	reg(CLC, "CLC", Implied, 2, opCLC)
	reg(CLD, "CLD", Implied, 2, opCLD)
	reg(CLI, "CLI", Implied, 2, opCLI)
	reg(CLV, "CLV", Implied, 2, opCLV)
	reg(SEC, "SEC", Implied, 2, opSEC)
	reg(SED, "SED", Implied, 2, opSED)
	reg(SEI, "SEI", Implied, 2, opSEI)

	reg(BRK, "BRK", Implied, 7, opBRK)
	reg(NOP, "NOP", Implied, 2, opNOP)
	reg(RTI, "RTI", Implied, 6, opRTI)
}

// --- Load/Store ---

func opLDA(c *CPU, mode Mode) {
	c.A = c.loadOperand(mode)
	c.updateZN(c.A)
}

func opLDX(c *CPU, mode Mode) {
	c.X = c.loadOperand(mode)
	c.updateZN(c.X)
}

func opLDY(c *CPU, mode Mode) {
	c.Y = c.loadOperand(mode)
	c.updateZN(c.Y)
}

func opSTA(c *CPU, mode Mode) {
	r := c.resolve(mode)
	c.Bus.Write(r.addr, c.A)
}

func opSTX(c *CPU, mode Mode) {
	r := c.resolve(mode)
	c.Bus.Write(r.addr, c.X)
}

func opSTY(c *CPU, mode Mode) {
	r := c.resolve(mode)
	c.Bus.Write(r.addr, c.Y)
}

// --- Register transfers ---

func opTAX(c *CPU, _ Mode) { c.X = c.A; c.updateZN(c.X) }
func opTAY(c *CPU, _ Mode) { c.Y = c.A; c.updateZN(c.Y) }
func opTXA(c *CPU, _ Mode) { c.A = c.X; c.updateZN(c.A) }
func opTYA(c *CPU, _ Mode) { c.A = c.Y; c.updateZN(c.A) }
func opTSX(c *CPU, _ Mode) { c.X = c.SP; c.updateZN(c.X) }
func opTXS(c *CPU, _ Mode) { c.SP = c.X } // flags unaffected

// --- Stack operations ---

func opPHA(c *CPU, _ Mode) { c.push(c.A) }

func opPHP(c *CPU, _ Mode) { c.push(c.P | Flag5 | FlagB) }

func opPLA(c *CPU, _ Mode) {
	c.A = c.pull()
	c.updateZN(c.A)
}

func opPLP(c *CPU, _ Mode) {
	c.P = (c.pull() &^ FlagB) | Flag5
}

// --- Logical operations ---

func opAND(c *CPU, mode Mode) { c.A &= c.loadOperand(mode); c.updateZN(c.A) }
func opEOR(c *CPU, mode Mode) { c.A ^= c.loadOperand(mode); c.updateZN(c.A) }
func opORA(c *CPU, mode Mode) { c.A |= c.loadOperand(mode); c.updateZN(c.A) }

func opBIT(c *CPU, mode Mode) {
	value := c.loadOperand(mode)
	c.SetFlag(FlagZ, c.A&value == 0)
	c.SetFlag(FlagN, value&0x80 != 0)
	c.SetFlag(FlagV, value&0x40 != 0)
}

// --- Arithmetic ---

func opADC(c *CPU, mode Mode) { c.adc(c.loadOperand(mode)) }
func opSBC(c *CPU, mode Mode) { c.sbc(c.loadOperand(mode)) }
func opCMP(c *CPU, mode Mode) { c.cmp(c.A, c.loadOperand(mode)) }
func opCPX(c *CPU, mode Mode) { c.cmp(c.X, c.loadOperand(mode)) }
func opCPY(c *CPU, mode Mode) { c.cmp(c.Y, c.loadOperand(mode)) }

// --- Increment/decrement ---

func opINC(c *CPU, mode Mode) {
	r := c.resolve(mode)
	result := c.Bus.Read(r.addr) + 1
	c.Bus.Write(r.addr, result)
	c.updateZN(result)
}

func opDEC(c *CPU, mode Mode) {
	r := c.resolve(mode)
	result := c.Bus.Read(r.addr) - 1
	c.Bus.Write(r.addr, result)
	c.updateZN(result)
}

func opINX(c *CPU, _ Mode) { c.X++; c.updateZN(c.X) }
func opINY(c *CPU, _ Mode) { c.Y++; c.updateZN(c.Y) }
func opDEX(c *CPU, _ Mode) { c.X--; c.updateZN(c.X) }
func opDEY(c *CPU, _ Mode) { c.Y--; c.updateZN(c.Y) }

// --- Shifts/rotates ---

func opASL(c *CPU, mode Mode) { c.shiftInPlace(mode, c.asl) }
func opLSR(c *CPU, mode Mode) { c.shiftInPlace(mode, c.lsr) }
func opROL(c *CPU, mode Mode) { c.shiftInPlace(mode, c.rol) }
func opROR(c *CPU, mode Mode) { c.shiftInPlace(mode, c.ror) }

func (c *CPU) shiftInPlace(mode Mode, op func(uint8) uint8) {
	if mode == Accumulator {
		c.A = op(c.A)
		return
	}
	r := c.resolve(mode)
	c.Bus.Write(r.addr, op(c.Bus.Read(r.addr)))
}

// --- Jumps & calls ---

func opJMP(c *CPU, mode Mode) {
	r := c.resolve(mode)
	c.PC = r.addr
}

func opJSR(c *CPU, mode Mode) {
	r := c.resolve(mode)
	c.push16(c.PC - 1)
	c.PC = r.addr
}

func opRTS(c *CPU, _ Mode) {
	c.PC = c.pull16() + 1
}

// --- Branches ---

func (c *CPU) branch(condition bool) {
	r := c.resolve(Relative)
	if !condition {
		return
	}
	c.PC = r.addr
	if r.pageCrossed {
		c.Cycles++
	}
}

func opBCC(c *CPU, _ Mode) { c.branch(!c.GetFlag(FlagC)) }
func opBCS(c *CPU, _ Mode) { c.branch(c.GetFlag(FlagC)) }
func opBEQ(c *CPU, _ Mode) { c.branch(c.GetFlag(FlagZ)) }
func opBNE(c *CPU, _ Mode) { c.branch(!c.GetFlag(FlagZ)) }
func opBMI(c *CPU, _ Mode) { c.branch(c.GetFlag(FlagN)) }
func opBPL(c *CPU, _ Mode) { c.branch(!c.GetFlag(FlagN)) }
func opBVC(c *CPU, _ Mode) { c.branch(!c.GetFlag(FlagV)) }
func opBVS(c *CPU, _ Mode) { c.branch(c.GetFlag(FlagV)) }

// --- Flag changes ---

func opCLC(c *CPU, _ Mode) { c.SetFlag(FlagC, false) }
func opCLD(c *CPU, _ Mode) { c.SetFlag(FlagD, false) }
func opCLI(c *CPU, _ Mode) { c.SetFlag(FlagI, false) }
func opCLV(c *CPU, _ Mode) { c.SetFlag(FlagV, false) }
func opSEC(c *CPU, _ Mode) { c.SetFlag(FlagC, true) }
func opSED(c *CPU, _ Mode) { c.SetFlag(FlagD, true) }
func opSEI(c *CPU, _ Mode) { c.SetFlag(FlagI, true) }

// --- System functions ---

// opBRK implements the deliberate "halt" deviation from hardware: it
// services the IRQ vector exactly like a real BRK (B=1 in the pushed
// status), then additionally halts the core so a host without any OS/ROM
// has a way to stop. A subsequent RTI still works if the host clears the
// halt and calls Run again.
func opBRK(c *CPU, _ Mode) {
	c.PC++ // skip the padding byte; PC now points at BRK_addr+2
	c.serviceInterrupt(VectorIRQ, true)
	c.halted = true
}

func opNOP(c *CPU, _ Mode) {}

func opRTI(c *CPU, _ Mode) {
	c.P = (c.pull() &^ FlagB) | Flag5
	c.PC = c.pull16()
}
