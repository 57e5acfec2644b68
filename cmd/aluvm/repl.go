package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/peterh/liner"

	"aluvm/internal/aluvm"
)

func stdoutTarget() io.Writer { return os.Stdout }

// runREPL is the --repl stepper: single-instruction stepping with
// breakpoints, peterh/liner supplying line history/editing on the prompt
// and olekukonko/tablewriter rendering the stack and register dumps.
func runREPL(vm *aluvm.VM, path string) error {
	if err := vm.StartDecodeOnly(path); err != nil {
		fmt.Println(err)
		return nil
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Println("Commands:\n\tn or next: execute next instruction\n\tr or run: run program\n\tb or break <line>: toggle breakpoint\n\tq or quit: exit")
	printState(vm)

	breakpoints := make(map[int]struct{})
	waitForInput := true

	for {
		var input string
		if waitForInput {
			text, err := line.Prompt("-> ")
			if err != nil {
				return nil
			}
			line.AppendHistory(text)
			input = strings.ToLower(strings.TrimSpace(text))
		} else {
			if _, brk := breakpoints[vm.PC()]; brk {
				fmt.Println("breakpoint")
				printState(vm)
				waitForInput = true
				continue
			}
		}

		switch {
		case !waitForInput, input == "n", input == "next":
			done, err := vm.Step()
			if waitForInput {
				printState(vm)
			}
			if err != nil {
				fmt.Println(err)
				return nil
			}
			if done {
				fmt.Println("program finished")
				return nil
			}
		case input == "r", input == "run":
			waitForInput = false
		case input == "q", input == "quit":
			return nil
		case strings.HasPrefix(input, "b"):
			arg := strings.TrimSpace(strings.TrimPrefix(input, "b"))
			arg = strings.TrimSpace(strings.TrimPrefix(arg, "reak"))
			n, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Println("usage: break <instruction index>")
				continue
			}
			if _, ok := breakpoints[n]; ok {
				delete(breakpoints, n)
				fmt.Printf("removed breakpoint at %d\n", n)
			} else {
				breakpoints[n] = struct{}{}
				fmt.Printf("set breakpoint at %d\n", n)
			}
		default:
			fmt.Println("unrecognized command")
		}
	}
}

func printState(vm *aluvm.VM) {
	instrs := vm.Instructions()
	pc := vm.PC()
	if pc >= 0 && pc < len(instrs) {
		fmt.Printf("  next instruction> %d: %s\n", pc, instrs[pc].Op)
	}

	fmt.Println("  stack>")
	stackTable := tablewriter.NewWriter(stdoutTarget())
	stackTable.SetHeader([]string{"depth", "kind", "value"})
	for i, v := range vm.Stack().Values() {
		stackTable.Append([]string{strconv.Itoa(i), v.Kind().String(), string(v.ToStringValue().Bytes())})
	}
	stackTable.Render()

	fmt.Println("  registers>")
	regTable := tablewriter.NewWriter(stdoutTarget())
	regTable.SetHeader([]string{"index", "kind", "value"})
	vm.Registers().Range(func(i uint32, v aluvm.Value) {
		regTable.Append([]string{strconv.FormatUint(uint64(i), 10), v.Kind().String(), string(v.ToStringValue().Bytes())})
	})
	regTable.Render()
}
