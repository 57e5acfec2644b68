package aluvm

import "testing"

func TestOpcodeIsJump(t *testing.T) {
	for _, op := range []Opcode{OpJmp, OpJtr, OpJfa, OpJem, OpJnem} {
		assert(t, op.IsJump(), "%s must report IsJump", op)
	}
	for _, op := range []Opcode{OpHalt, OpRet, OpPushNum, OpCall, OpEnd} {
		assert(t, !op.IsJump(), "%s must not report IsJump", op)
	}
}

func TestArgKindOfJumpsAlwaysOffset(t *testing.T) {
	for _, op := range []Opcode{OpJmp, OpJtr, OpJfa, OpJem, OpJnem} {
		kind, ok := argKindOf(op)
		assert(t, ok && kind == ArgJumpOffset, "%s must decode as ArgJumpOffset", op)
	}
}

func TestArgKindOfTable(t *testing.T) {
	cases := map[Opcode]ArgKind{
		OpHalt:       ArgNone,
		OpRet:        ArgNone,
		OpPushNum:    ArgF64,
		OpPushStr:    ArgCString,
		OpPushBool:   ArgU8,
		OpPushDef:    ArgCString,
		OpSumStack:   ArgNone,
		OpStackClose: ArgNone,
		OpEval:       ArgU8,
		OpSuper:      ArgNone,
		OpCall:       ArgNone,
		OpLoad:       ArgU32,
		OpUnload:     ArgU32,
		OpDefunload:  ArgU32,
		OpEnd:        ArgNone,
	}
	for op, want := range cases {
		got, ok := argKindOf(op)
		assert(t, ok, "%s should be a recognized opcode", op)
		assert(t, got == want, "%s: got arg kind %v, want %v", op, got, want)
	}
}

func TestArgKindOfUnknown(t *testing.T) {
	_, ok := argKindOf(Opcode(0x7F))
	assert(t, !ok, "an opcode outside the table must report false")
}

func TestOpcodeStringUnknown(t *testing.T) {
	assert(t, Opcode(0x7F).String() == "?unknown?", "unknown opcodes must render a placeholder, not panic")
}
