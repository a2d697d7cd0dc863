package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/crazyrabbitLTC/6502-EVM-Emulator/cpu"
	"github.com/crazyrabbitLTC/6502-EVM-Emulator/dis"
	"github.com/crazyrabbitLTC/6502-EVM-Emulator/machine"
)

// regSnapshot mirrors cpu.Registers; kept as its own type so the previous
// frame's values can be diffed against the current ones for highlighting.
type regSnapshot struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	P       uint8
}

// peekBus feeds the disassembler through Peek, so decoding $F000 never
// consumes a keyboard byte.
type peekBus struct{ emu *machine.Emulator }

func (b peekBus) Read(addr uint16) uint8 { return b.emu.Peek(addr) }

type stepTick struct{}

func doStep() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return stepTick{}
	})
}

// Monitor is the interactive debugger's bubbletea model. It drives a
// machine.Emulator directly rather than a bare CPU and flat array, so
// stepping through the monitor also exercises CharOut/keyboard MMIO and
// the event channel the same way the runner CLI does.
type Monitor struct {
	emu              *machine.Emulator
	paused           bool
	width            int
	height           int
	locations        []dis.Line
	selectedLocation int

	lastState  regSnapshot
	lastMemory [64]uint8

	memoryAddress uint16
	activePane    string // "disasm", "memory"
	gotoInput     textinput.Model
	showingGoto   bool

	breakpoints map[uint16]bool
	output      strings.Builder // accumulated CharOut bytes, shown in a footer line
}

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	changed   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"}

	titleStyle = lipgloss.NewStyle().
			Foreground(subtle).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(1).
			Width(30)

	changedStyle = lipgloss.NewStyle().
			Foreground(changed).
			Bold(true)

	stackStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(special).
			Padding(1).
			Width(30)

	disasmStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(1)

	currentLineStyle = lipgloss.NewStyle().
				Background(highlight).
				Foreground(lipgloss.Color("#ffffff"))

	selectedLineStyle = lipgloss.NewStyle().
				Foreground(highlight)

	memoryStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(special).
			Padding(1).
			Width(50)

	breakpointStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)
)

// NewMonitor builds a Monitor over an already-booted emulator and
// disassembles its whole address space once up front.
func NewMonitor(emu *machine.Emulator) *Monitor {
	ti := textinput.New()
	ti.Placeholder = "Enter hex address (e.g. FF00)"
	ti.CharLimit = 4
	ti.Width = 6

	m := &Monitor{
		emu:           emu,
		paused:        true,
		locations:     dis.Range(peekBus{emu}, 0, 65536),
		memoryAddress: 0,
		activePane:    "disasm",
		gotoInput:     ti,
		breakpoints:   make(map[uint16]bool),
	}
	m.relocate()
	return m
}

func (m *Monitor) captureMemoryState() {
	addr := m.memoryAddress
	for i := 0; i < 64; i++ {
		m.lastMemory[i] = m.emu.Peek(addr + uint16(i))
	}
}

func (m Monitor) formatMemory() string {
	var result strings.Builder
	addr := m.memoryAddress

	for row := 0; row < 8; row++ {
		result.WriteString(fmt.Sprintf("$%04X: ", addr))

		for col := 0; col < 8; col++ {
			offset := row*8 + col
			value := m.emu.Peek(addr + uint16(col))
			lastValue := m.lastMemory[offset]
			if value != lastValue {
				result.WriteString(changedStyle.Render(fmt.Sprintf("%02X ", value)))
			} else {
				result.WriteString(fmt.Sprintf("%02X ", value))
			}
		}

		result.WriteString(" | ")
		for col := 0; col < 8; col++ {
			offset := row*8 + col
			value := m.emu.Peek(addr + uint16(col))
			lastValue := m.lastMemory[offset]
			ch := "."
			if value >= 32 && value <= 126 {
				ch = string(value)
			}
			if value != lastValue {
				result.WriteString(changedStyle.Render(ch))
			} else {
				result.WriteString(ch)
			}
		}

		result.WriteString("\n")
		addr += 8
	}

	return result.String()
}

func (m Monitor) Init() tea.Cmd {
	return nil
}

// relocate finds the disassembly line the PC currently sits on; locations
// are addressed by byte offset, not instruction index, so it has to scan.
func (m *Monitor) relocate() {
	pc := m.emu.Registers().PC
	index := 0
	for i, l := range m.locations {
		if l.Addr == pc {
			index = i
			break
		}
	}
	m.selectedLocation = index
}

func (m *Monitor) snapshot() regSnapshot {
	r := m.emu.Registers()
	return regSnapshot{A: r.A, X: r.X, Y: r.Y, SP: r.SP, PC: r.PC, P: r.P}
}

func (m *Monitor) drainOutput() {
	for {
		select {
		case ev := <-m.emu.Events():
			if ev.Kind == machine.EventCharOut {
				m.output.WriteByte(ev.Byte)
			}
		default:
			return
		}
	}
}

func (m *Monitor) step() {
	m.lastState = m.snapshot()
	m.captureMemoryState()
	m.emu.Step()
	m.drainOutput()
	m.relocate()
}

func (m Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepTick:
		pc := m.emu.Registers().PC
		if m.paused || m.breakpoints[pc] || m.emu.Halted() {
			m.paused = true
			return m, nil
		}
		m.step()
		return m, doStep()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if m.showingGoto {
			switch msg.Type {
			case tea.KeyEnter:
				if addr, err := strconv.ParseUint(m.gotoInput.Value(), 16, 16); err == nil {
					m.memoryAddress = uint16(addr)
				}
				m.showingGoto = false
				return m, nil
			case tea.KeyEsc:
				m.showingGoto = false
				return m, nil
			}
			var cmd tea.Cmd
			m.gotoInput, cmd = m.gotoInput.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "g":
			m.showingGoto = true
			m.gotoInput.Focus()
			return m, textinput.Blink
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			if m.paused {
				m.step()
			}
		case "b":
			addr := m.locations[m.selectedLocation].Addr
			if m.breakpoints[addr] {
				delete(m.breakpoints, addr)
			} else {
				m.breakpoints[addr] = true
			}
		case "n":
			if m.paused && len(m.breakpoints) > 0 {
				m.paused = false
				return m, doStep()
			}
		case "p":
			m.paused = !m.paused
			if !m.paused {
				return m, doStep()
			}
		case "tab":
			if m.activePane == "disasm" {
				m.activePane = "memory"
			} else {
				m.activePane = "disasm"
			}
		case "up":
			if m.activePane == "disasm" {
				if m.selectedLocation > 0 {
					m.selectedLocation--
				}
			} else if m.memoryAddress >= 8 {
				m.memoryAddress -= 8
				m.captureMemoryState()
			}
		case "down":
			if m.activePane == "disasm" {
				if m.selectedLocation < len(m.locations)-1 {
					m.selectedLocation++
				}
			} else if m.memoryAddress <= 0xFFF8 {
				m.memoryAddress += 8
				m.captureMemoryState()
			}
		case "pgup":
			if m.activePane == "disasm" {
				m.selectedLocation -= 20
				if m.selectedLocation < 0 {
					m.selectedLocation = 0
				}
			} else if m.activePane == "memory" {
				if m.memoryAddress >= 64 {
					m.memoryAddress -= 64
				} else {
					m.memoryAddress = 0
				}
				m.captureMemoryState()
			}
		case "pgdown":
			if m.activePane == "disasm" {
				m.selectedLocation += 20
				if m.selectedLocation > len(m.locations)-20 {
					m.selectedLocation = len(m.locations) - 20
				}
			} else if m.activePane == "memory" {
				if m.memoryAddress <= 0xFFC0 {
					m.memoryAddress += 64
				} else {
					m.memoryAddress = 0xFFC0
				}
				m.captureMemoryState()
			}
		}
	}
	return m, nil
}

func (m Monitor) formatReg8(name string, current, last uint8) string {
	value := fmt.Sprintf("%s: $%02X", name, current)
	if current != last {
		return changedStyle.Render(value)
	}
	return value
}

func (m Monitor) formatReg16(name string, current, last uint16) string {
	value := fmt.Sprintf("%s: $%04X", name, current)
	if current != last {
		return changedStyle.Render(value)
	}
	return value
}

func (m Monitor) formatFlags(p uint8) string {
	flags := []struct {
		name string
		flag uint8
	}{
		{"N", cpu.FlagN}, {"V", cpu.FlagV}, {"B", cpu.FlagB},
		{"D", cpu.FlagD}, {"I", cpu.FlagI}, {"Z", cpu.FlagZ}, {"C", cpu.FlagC},
	}
	var result strings.Builder
	for _, f := range flags {
		current := p&f.flag != 0
		last := m.lastState.P&f.flag != 0
		switch {
		case !current:
			result.WriteString("- ")
		case current != last:
			result.WriteString(changedStyle.Render(f.name + " "))
		default:
			result.WriteString(f.name + " ")
		}
	}
	return result.String()
}

func (m Monitor) disassemble() string {
	var result strings.Builder
	pc := m.emu.Registers().PC

	end := m.selectedLocation + 20
	if end > len(m.locations) {
		end = len(m.locations)
	}
	for offset := m.selectedLocation; offset < end; offset++ {
		l := m.locations[offset]
		line := l.String()
		switch {
		case m.breakpoints[l.Addr] && l.Addr == pc:
			line = currentLineStyle.Render("● " + line)
		case m.breakpoints[l.Addr]:
			line = breakpointStyle.Render("● " + line)
		case l.Addr == pc:
			line = currentLineStyle.Render(line)
		case offset == m.selectedLocation:
			line = selectedLineStyle.Render(line)
		}
		result.WriteString(line)
		result.WriteString("\n")
	}
	return result.String()
}

func (m Monitor) formatStack() string {
	var result strings.Builder
	sp := m.emu.Registers().SP
	for i := uint16(0xFF); i >= uint16(sp); i-- {
		result.WriteString(fmt.Sprintf("$%02X: %02X\n", i, m.emu.Peek(0x100+i)))
		if i == 0 {
			break
		}
	}
	return result.String()
}

func (m Monitor) View() string {
	rightColumnWidth := 32
	leftColumnWidth := 44

	infoStyle = infoStyle.Width(rightColumnWidth)
	stackStyle = stackStyle.Width(rightColumnWidth)
	disasmStyle = disasmStyle.Width(leftColumnWidth)

	disasm := disasmStyle.Render(fmt.Sprintf("Disassembly\n\n%s", m.disassemble()))

	regs := m.emu.Registers()
	cpuState := infoStyle.Render(fmt.Sprintf(
		"CPU State\n\n%s    %s    %s\n%s  %s\n\nFlags: %s\n",
		m.formatReg8("A", regs.A, m.lastState.A),
		m.formatReg8("X", regs.X, m.lastState.X),
		m.formatReg8("Y", regs.Y, m.lastState.Y),
		m.formatReg16("PC", regs.PC, m.lastState.PC),
		m.formatReg8("SP", regs.SP, m.lastState.SP),
		m.formatFlags(regs.P),
	))

	stack := stackStyle.Render(fmt.Sprintf("Stack\n\n%s", m.formatStack()))

	memory := memoryStyle.Render(fmt.Sprintf("Memory (↑↓ to scroll)\n\n%s", m.formatMemory()))

	right := lipgloss.JoinVertical(lipgloss.Left, cpuState, stack, memory)

	var help string
	if !m.paused {
		help = titleStyle.Render("p: pause • q: quit")
	} else {
		help = titleStyle.Render(
			"s: step • n: run to break • p: pause/resume • b: toggle break • " +
				"↑↓: scroll • pgup/pgdn: page • tab: switch pane • g: goto • q: quit",
		)
	}

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		disasm,
		lipgloss.PlaceHorizontal(3, lipgloss.Left, right),
	)

	out := m.output.String()
	if len(out) > 72 {
		out = out[len(out)-72:]
	}
	output := titleStyle.Render("Output: " + out)

	if m.showingGoto {
		dialog := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1).
			Width(30).
			Render("Go to address:\n\n" + m.gotoInput.View())

		return lipgloss.JoinVertical(lipgloss.Center, content, output, help, dialog)
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, output, help)
}

func main() {
	inputFile := flag.String("i", "", "Input binary ROM file")
	startAddr := flag.String("a", "$9000", "Start address / RESET vector target")
	flag.Parse()

	addrStr := *startAddr
	if strings.HasPrefix(addrStr, "$") {
		addrStr = "0x" + addrStr[1:]
	}
	origin, err := strconv.ParseUint(addrStr, 0, 16)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing start address: %v\n", err)
		os.Exit(1)
	}

	rom, err := os.ReadFile(*inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading ROM: %v\n", err)
		os.Exit(1)
	}

	emu := machine.New()
	if err := emu.LoadROM(rom, uint16(origin)); err != nil {
		fmt.Fprintf(os.Stderr, "error loading ROM: %v\n", err)
		os.Exit(1)
	}
	emu.Poke(0xFFFC, byte(origin))
	emu.Poke(0xFFFD, byte(origin>>8))
	emu.Boot()

	p := tea.NewProgram(NewMonitor(emu))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running monitor: %v\n", err)
		os.Exit(1)
	}
}
