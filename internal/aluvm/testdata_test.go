package aluvm

import (
	"bytes"
	"testing"
)

func TestFixtureLiteralSumOfThree(t *testing.T) {
	vm := newTestVM()
	err := vm.StartFile("../../testdata/literal_sum_three.bin")
	assert(t, err == nil, "unexpected error: %v", err)
	top, ok := vm.Stack().Peek(0)
	a, b := -39.56, 99.3
	want := a + b // float64 sum, not the exact constant 59.74
	assert(t, ok && top.Number() == want, "got %v, want %v", top.Number(), want)
}

func TestFixtureSumAndPrint(t *testing.T) {
	var out bytes.Buffer
	vm := NewState(WithStdout(&out))
	err := vm.StartFile("../../testdata/sum_and_print.bin")
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, out.String() == "3\n", "got %q", out.String())
}

func TestFixtureConditionalSkip(t *testing.T) {
	vm := newTestVM()
	err := vm.StartFile("../../testdata/conditional_skip.bin")
	assert(t, err == nil, "unexpected error: %v", err)
	top, ok := vm.Stack().Peek(0)
	assert(t, ok && string(top.Bytes()) == "Hello", "expected \"Hello\" on top, got %+v", top)
}

func TestFixtureJumpOutOfRange(t *testing.T) {
	vm := newTestVM()
	err := vm.StartFile("../../testdata/jump_out_of_range.bin")
	assert(t, err != nil, "expected ErrOutOfJump")
	aluErr, ok := err.(*Error)
	assert(t, ok && aluErr.Kind == ErrOutOfJump, "got %v", err)
}

func TestFixtureRegisterRoundtrip(t *testing.T) {
	vm := newTestVM()
	err := vm.StartFile("../../testdata/register_roundtrip.bin")
	assert(t, err == nil, "unexpected error: %v", err)
	top, ok := vm.Stack().Peek(0)
	assert(t, ok && string(top.Bytes()) == "HelloWorldHello", "got %+v", top)
}

func TestFixtureEvalGreater(t *testing.T) {
	vm := newTestVM()
	err := vm.StartFile("../../testdata/eval_greater.bin")
	assert(t, err == nil, "unexpected error: %v", err)
	top, ok := vm.Stack().Peek(0)
	assert(t, ok && top.Kind() == KindBool && top.Bool(), "got %+v", top)
}
