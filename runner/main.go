// Command runner is a headless front end for the machine package: load a
// ROM image (or assemble one from source), boot it, run it to completion
// or a step budget, and print whatever it writes to the character-out
// port.
package main

import (
	"fmt"
	"os"

	"gopkg.in/urfave/cli.v2"

	"github.com/crazyrabbitLTC/6502-EVM-Emulator/asm"
	"github.com/crazyrabbitLTC/6502-EVM-Emulator/machine"
)

func main() {
	app := &cli.App{
		Name:    "runner",
		Usage:   "run or assemble programs for the 6502 machine",
		Version: "v0.1.0",
		Commands: []*cli.Command{
			runCommand(),
			assembleCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "load a raw binary ROM, boot, and execute it",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "rom", Aliases: []string{"r"}, Usage: "path to a raw binary ROM image", Required: true},
			&cli.UintFlag{Name: "origin", Aliases: []string{"o"}, Usage: "address the ROM is loaded at and the RESET vector points to", Value: 0x9000},
			&cli.Uint64Flag{Name: "steps", Aliases: []string{"n"}, Usage: "maximum instructions to execute", Value: 100000},
			&cli.StringFlag{Name: "keys", Aliases: []string{"k"}, Usage: "string sent to the keyboard buffer before running"},
			&cli.BoolFlag{Name: "trace", Usage: "emit TracePC/TraceJSR events to stderr"},
		},
		Action: func(c *cli.Context) error {
			rom, err := os.ReadFile(c.String("rom"))
			if err != nil {
				return err
			}
			origin := uint16(c.Uint("origin"))

			e := machine.New()
			if err := e.LoadROM(rom, origin); err != nil {
				return err
			}
			e.Poke(0xFFFC, byte(origin))
			e.Poke(0xFFFD, byte(origin>>8))
			e.Boot()
			e.SetTracing(c.Bool("trace"))

			if keys := c.String("keys"); keys != "" {
				if err := e.SendKeys([]byte(keys)); err != nil {
					return err
				}
			}

			runErr := e.Run(c.Uint64("steps"))
			drainTo(e, os.Stdout, os.Stderr)
			return runErr
		},
	}
}

func assembleCommand() *cli.Command {
	return &cli.Command{
		Name:  "assemble",
		Usage: "assemble a .asm source file into a raw binary ROM",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "src", Aliases: []string{"s"}, Usage: "assembly source file", Required: true},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output binary path", Required: true},
			&cli.UintFlag{Name: "origin", Usage: "address the first byte assembles to", Value: 0x9000},
		},
		Action: func(c *cli.Context) error {
			source, err := os.ReadFile(c.String("src"))
			if err != nil {
				return err
			}
			code, err := asm.Assemble(string(source), uint16(c.Uint("origin")))
			if err != nil {
				return err
			}
			return os.WriteFile(c.String("out"), code, 0644)
		},
	}
}

// drainTo writes every CharOut byte to stdout and, if tracing was
// requested, every TracePC/TraceJSR line to stderr. It is called once
// after Run returns, since the event channel is buffered and already
// holds everything that run will ever emit.
func drainTo(e *machine.Emulator, charOut, trace *os.File) {
	for {
		select {
		case ev := <-e.Events():
			switch ev.Kind {
			case machine.EventCharOut:
				fmt.Fprintf(charOut, "%c", ev.Byte)
			case machine.EventTracePC, machine.EventTraceJSR:
				fmt.Fprintln(trace, ev)
			}
		default:
			return
		}
	}
}
