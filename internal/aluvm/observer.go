package aluvm

import "fmt"

// Observer receives human-readable trace events. The core never decides
// how these are formatted or where they go — presentation is entirely a
// host concern (see cmd/aluvm for the colored console implementation) —
// it only decides *when* an event fires. Presence/absence of the events
// is the contract, not their exact text.
type Observer interface {
	// OnFrame reports decode framing markers (start/end of instruction feed).
	OnFrame(message string)
	// OnDecode reports one instruction as it is produced by the decoder.
	OnDecode(index int, instr Instruction)
	// OnDispatch reports one instruction as the dispatcher begins executing it.
	OnDispatch(pc int, instr Instruction)
	// OnJump reports a jump opcode's outcome: whether it was taken, and
	// (when taken) the signed distance and resulting instruction index.
	OnJump(op Opcode, taken bool, distance int, from, to int)
	// OnInstructionCount reports the total number of decoded instructions.
	OnInstructionCount(n int)
}

// NopObserver discards every event; it is the VM's default so verbose
// tracing costs nothing when nobody asked for it.
type NopObserver struct{}

func (NopObserver) OnFrame(string)                     {}
func (NopObserver) OnDecode(int, Instruction)          {}
func (NopObserver) OnDispatch(int, Instruction)        {}
func (NopObserver) OnJump(Opcode, bool, int, int, int) {}
func (NopObserver) OnInstructionCount(int)             {}

// PlainObserver writes uncolored printf-style trace lines ("Get: ..." per
// decoded instruction, "Executes %02x", "Dont jump", "Jump %d
// instructions"). cmd/aluvm layers color and table formatting on top of
// the same events.
type PlainObserver struct {
	Printf func(format string, args ...any)
}

// NewPlainObserver returns an Observer that writes through printf.
func NewPlainObserver(printf func(format string, args ...any)) *PlainObserver {
	if printf == nil {
		printf = func(format string, args ...any) {
			fmt.Printf(format, args...)
		}
	}
	return &PlainObserver{Printf: printf}
}

func (p *PlainObserver) OnFrame(message string) {
	p.Printf("%s\n", message)
}

func (p *PlainObserver) OnDecode(index int, instr Instruction) {
	p.Printf("Get: %02x % x\n", byte(instr.Op), instr.Arg)
}

func (p *PlainObserver) OnDispatch(pc int, instr Instruction) {
	p.Printf("Executes %02x (%s) at %d\n", byte(instr.Op), instr.Op, pc)
}

func (p *PlainObserver) OnJump(op Opcode, taken bool, distance int, from, to int) {
	if !taken {
		p.Printf("Dont jump\n")
		return
	}
	p.Printf("Jump %d instructions\n", distance)
}

func (p *PlainObserver) OnInstructionCount(n int) {
	p.Printf("There is %d instructions\n", n)
}
