package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	colorable "github.com/mattn/go-colorable"

	"aluvm/internal/aluvm"
)

// colorObserver is the --verbose trace implementation: it colors the
// instruction feed, dispatch and jump events, writing through
// go-colorable so the ANSI codes still render on Windows consoles.
type colorObserver struct {
	out io.Writer

	frame  func(a ...interface{}) string
	decode func(a ...interface{}) string
	taken  func(a ...interface{}) string
	skip   func(a ...interface{}) string
}

func newColorObserver() *colorObserver {
	return &colorObserver{
		out:    colorable.NewColorableStdout(),
		frame:  color.New(color.FgCyan).SprintFunc(),
		decode: color.New(color.FgHiBlack).SprintFunc(),
		taken:  color.New(color.FgGreen).SprintFunc(),
		skip:   color.New(color.FgYellow).SprintFunc(),
	}
}

func (c *colorObserver) OnFrame(message string) {
	fmt.Fprintln(c.out, c.frame(message))
}

func (c *colorObserver) OnDecode(index int, instr aluvm.Instruction) {
	fmt.Fprintln(c.out, c.decode(fmt.Sprintf("Get: %02x % x", byte(instr.Op), instr.Arg)))
}

func (c *colorObserver) OnDispatch(pc int, instr aluvm.Instruction) {
	fmt.Fprintf(c.out, "Executes %02x (%s) at %d\n", byte(instr.Op), instr.Op, pc)
}

func (c *colorObserver) OnJump(op aluvm.Opcode, taken bool, distance int, from, to int) {
	if !taken {
		fmt.Fprintln(c.out, c.skip("Dont jump"))
		return
	}
	fmt.Fprintln(c.out, c.taken(fmt.Sprintf("Jump %d instructions", distance)))
}

func (c *colorObserver) OnInstructionCount(n int) {
	fmt.Fprintf(c.out, "There is %d instructions\n", n)
}
