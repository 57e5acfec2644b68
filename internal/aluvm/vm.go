package aluvm

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"
)

// interrupted is the process-wide interrupt flag: set by the platform's
// interrupt signal handler, polled by every VM's dispatcher loop before
// each instruction. Cancellation is best-effort and never mid-instruction.
var interrupted atomic.Bool

var installSignalHandlerOnce sync.Once

func installSignalHandler() {
	installSignalHandlerOnce.Do(func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt)
		go func() {
			for range ch {
				interrupted.Store(true)
			}
		}()
	})
}

// VM is the bytecode interpreter: an evaluation stack, a register store, a
// garbage list, a decoded instruction sequence and a program counter, plus
// the bookkeeping (error field, verbose observer, built-in registry)
// needed to run a program end to end.
type VM struct {
	stack        *EvalStack
	registers    *RegisterStore
	garbage      *GarbageList
	instructions []Instruction
	pc           int

	builtins *BuiltinRegistry
	observer Observer
	stdout   io.Writer

	err *Error

	// seed is a pseudo-random value drawn from host time at construction.
	// Nothing in the opcode table consumes it; it is exposed via Seed for
	// host callers that want a per-VM random identity.
	seed uint32
}

// Option configures a VM at construction time.
type Option func(*VM)

// WithObserver installs a trace Observer; the default is NopObserver.
func WithObserver(obs Observer) Option {
	return func(vm *VM) { vm.observer = obs }
}

// WithStdout redirects the print built-in's output; the default is os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(vm *VM) { vm.stdout = w }
}

// NewState constructs an empty VM: installs the process-wide interrupt
// handler, seeds the pseudo-random value from host time, and allocates an
// empty stack, register store, garbage list and built-in registry.
func NewState(opts ...Option) *VM {
	installSignalHandler()

	vm := &VM{
		stack:     NewEvalStack(),
		registers: NewRegisterStore(),
		garbage:   NewGarbageList(),
		builtins:  NewBuiltinRegistry(),
		observer:  NopObserver{},
		stdout:    os.Stdout,
		seed:      uint32(rand.New(rand.NewSource(time.Now().UnixNano())).Uint32()),
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// Seed returns the pseudo-random value drawn at construction.
func (vm *VM) Seed() uint32 { return vm.seed }

// Err returns the error set on the VM, if any.
func (vm *VM) Err() *Error { return vm.err }

// Stack exposes the evaluation stack, primarily for tests and the REPL's
// state dump; core dispatch logic lives in dispatch.go, not here.
func (vm *VM) Stack() *EvalStack { return vm.stack }

// Registers exposes the register store, primarily for tests and the
// REPL's state dump.
func (vm *VM) Registers() *RegisterStore { return vm.registers }

// Instructions exposes the decoded instruction sequence, primarily for the
// REPL's program listing.
func (vm *VM) Instructions() []Instruction { return vm.instructions }

// PC returns the current program counter.
func (vm *VM) PC() int { return vm.pc }

// Start decodes body (a full program including its leading signature) and
// executes it from the first instruction.
func (vm *VM) Start(body []byte) error {
	rest, err := stripSignature(body)
	if err != nil {
		vm.err = err.(*Error)
		return err
	}

	instrs, err := Decode(rest, vm.observer)
	if err != nil {
		vm.err = err.(*Error)
		return err
	}
	vm.instructions = instrs
	vm.pc = 0
	vm.observer.OnInstructionCount(len(instrs))

	if err := vm.Execute(); err != nil {
		vm.err = err.(*Error)
		return err
	}
	return nil
}

// StartDecodeOnly decodes the file at path and positions the program
// counter at its first instruction without executing anything, for
// callers (the REPL stepper) that drive execution themselves via Step.
func (vm *VM) StartDecodeOnly(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		e := newErr(ErrHostRead, "%s: %v", path, err)
		vm.err = e
		return e
	}
	rest, e := stripSignature(data)
	if e != nil {
		vm.err = e.(*Error)
		return e
	}
	instrs, e := Decode(rest, vm.observer)
	if e != nil {
		vm.err = e.(*Error)
		return e
	}
	vm.instructions = instrs
	vm.pc = 0
	vm.observer.OnInstructionCount(len(instrs))
	return nil
}

// StartFile reads path into memory and starts it, tagging host I/O
// failures with the NoFile/HostRead/HostStat error kinds rather than
// leaking a raw os.PathError.
func (vm *VM) StartFile(path string) error {
	if _, statErr := os.Stat(path); statErr != nil {
		if os.IsNotExist(statErr) {
			err := newErr(ErrNoFile, "%s", path)
			vm.err = err
			return err
		}
		err := newErr(ErrHostStat, "%s: %v", path, statErr)
		vm.err = err
		return err
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		err := newErr(ErrHostRead, "%s: %v", path, readErr)
		vm.err = err
		return err
	}
	return vm.Start(data)
}

// Close tears the VM down: if an error is set it is written to stderr,
// then the evaluation stack, garbage list, instructions and registers are
// dropped in that order. It returns 0 on a clean run and 1 if any error
// was raised during execution or is set at teardown.
func (vm *VM) Close() int {
	code := 0
	if vm.err != nil {
		fmt.Fprintln(os.Stderr, vm.err)
		code = 1
	}
	vm.dropStack()
	vm.garbage.Drain()
	vm.instructions = nil
	vm.registers.Clear()
	return code
}

// RunBuffer is the host-facing convenience entry point: construct a VM,
// run an in-memory program, tear it down, and report its exit status.
func RunBuffer(body []byte, opts ...Option) int {
	vm := NewState(opts...)
	_ = vm.Start(body)
	return vm.Close()
}

// RunFile is RunBuffer's file-backed counterpart: it reads the program
// into memory itself so the core never has to know about the filesystem.
func RunFile(path string, opts ...Option) int {
	vm := NewState(opts...)
	_ = vm.StartFile(path)
	return vm.Close()
}
