package aluvm

/*
	Program wire format

		signature(3) = 0x1B 0xCA 0xCA
		instructions = <record>*
		record       = opcode(1) | argument(n)

	The decoder stops (without emitting) at OP_HALT (0x00), OP_END (0x13)
	or any opcode numerically above OP_END. Numeric arguments are
	big-endian regardless of host byte order. String arguments are
	NUL-terminated on the wire; the terminator is not part of the stored
	Value length.

	Opcode table

		HALT       0x00  --    decoder sentinel, never emitted
		RET        0x01  --    end execution
		JMP        0x02  i32   unconditional jump
		JTR        0x03  i32   jump if top is Bool(true)
		JFA        0x04  i32   jump if top is Bool(false)
		JEM        0x05  i32   jump if stack is empty
		JNEM       0x06  i32   jump if stack is non-empty
		PUSHNUM    0x07  f64   push number
		PUSHSTR    0x08  cstr  push string
		PUSHBOOL   0x09  u8    push bool (0 = false, else true)
		PUSHDEF    0x0A  cstr  push Abstract reference to named built-in
		SUMSTACK   0x0B  --    fold stack[0]+stack[1] by kind, clear, push result
		STACKCLOSE 0x0C  --    drop every value on the stack
		EVAL       0x0D  u8    three-way compare stack[0] vs stack[1], clear, push bool
		SUPER      0x0E  --    rotate bottom of stack to top
		CALL       0x0F  --    pop Abstract, invoke with the VM as sole argument
		LOAD       0x10  u32   register <- deep copy of stack top, then clear stack
		UNLOAD     0x11  u32   push deep copy of register; register unchanged
		DEFUNLOAD  0x12  u32   push register, removing the register entry
		END        0x13  --    decoder sentinel, never emitted

	Jump opcodes always carry a signed 32-bit big-endian offset regardless
	of what the general argument-kind table would otherwise say for their
	slot, since JMP..JNEM occupy a contiguous range at the low end of the
	opcode space specifically so the dispatcher can range-check them with
	one comparison.
*/

// Opcode identifies one instruction in the decoded program.
type Opcode byte

const (
	OpHalt Opcode = 0x00
	OpRet  Opcode = 0x01

	OpJmp  Opcode = 0x02
	OpJtr  Opcode = 0x03
	OpJfa  Opcode = 0x04
	OpJem  Opcode = 0x05
	OpJnem Opcode = 0x06

	OpPushNum  Opcode = 0x07
	OpPushStr  Opcode = 0x08
	OpPushBool Opcode = 0x09
	OpPushDef  Opcode = 0x0A

	OpSumStack   Opcode = 0x0B
	OpStackClose Opcode = 0x0C
	OpEval       Opcode = 0x0D
	OpSuper      Opcode = 0x0E
	OpCall       Opcode = 0x0F

	OpLoad      Opcode = 0x10
	OpUnload    Opcode = 0x11
	OpDefunload Opcode = 0x12

	OpEnd Opcode = 0x13
)

var opcodeNames = map[Opcode]string{
	OpHalt:       "HALT",
	OpRet:        "RET",
	OpJmp:        "JMP",
	OpJtr:        "JTR",
	OpJfa:        "JFA",
	OpJem:        "JEM",
	OpJnem:       "JNEM",
	OpPushNum:    "PUSHNUM",
	OpPushStr:    "PUSHSTR",
	OpPushBool:   "PUSHBOOL",
	OpPushDef:    "PUSHDEF",
	OpSumStack:   "SUMSTACK",
	OpStackClose: "STACKCLOSE",
	OpEval:       "EVAL",
	OpSuper:      "SUPER",
	OpCall:       "CALL",
	OpLoad:       "LOAD",
	OpUnload:     "UNLOAD",
	OpDefunload:  "DEFUNLOAD",
	OpEnd:        "END",
}

// String renders the opcode's mnemonic for use with Print/Sprint and trace
// output.
func (op Opcode) String() string {
	if s, ok := opcodeNames[op]; ok {
		return s
	}
	return "?unknown?"
}

// IsJump reports whether op is one of the five relative-jump opcodes,
// which share the "always carries a signed i32 offset" argument rule and
// the special predicate/jump handling in the dispatcher.
func (op Opcode) IsJump() bool {
	return op >= OpJmp && op <= OpJnem
}

// ArgKind classifies how many bytes (and how to interpret them) an
// opcode's argument occupies in the instruction stream.
type ArgKind int

const (
	ArgNone ArgKind = iota
	ArgU32
	ArgF64
	ArgCString
	ArgU8
	ArgJumpOffset
)

// argKindOf returns the argument kind for op, and false if op is not a
// defined, decodable opcode (HALT and END are sentinels and never reach
// this far; anything above OpEnd is unknown).
func argKindOf(op Opcode) (ArgKind, bool) {
	if op.IsJump() {
		return ArgJumpOffset, true
	}
	switch op {
	case OpHalt, OpRet, OpSumStack, OpStackClose, OpSuper, OpCall, OpEnd:
		return ArgNone, true
	case OpPushNum:
		return ArgF64, true
	case OpPushStr, OpPushDef:
		return ArgCString, true
	case OpPushBool, OpEval:
		return ArgU8, true
	case OpLoad, OpUnload, OpDefunload:
		return ArgU32, true
	default:
		return ArgNone, false
	}
}

// Eval mask bits, combinable by bitwise OR and decoded from EVAL's u8
// argument.
const (
	EvalEquals  byte = 1 << 0
	EvalSmaller byte = 1 << 1
	EvalGreater byte = 1 << 2
)
