package aluvm

import (
	"bytes"
	"testing"
	"time"
)

func TestBuiltinRegistryLookup(t *testing.T) {
	r := NewBuiltinRegistry()
	id, err := r.Lookup("print")
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, r.nameOf(id) == "print", "got %q", r.nameOf(id))

	_, err = r.Lookup("nonexistent")
	assert(t, err != nil, "an unknown built-in name must fail lookup")
}

func TestBuiltinPrintDrainsStackInOrder(t *testing.T) {
	var out bytes.Buffer
	vm := NewState(WithStdout(&out))
	vm.stack.Push(NewNumber(1))
	vm.stack.Push(NewString([]byte("two")))

	err := builtinPrint(vm)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, vm.stack.Len() == 0, "print must empty the stack")
	assert(t, out.String() == "two\n1\n", "got %q", out.String())
}

func TestBuiltinWaitRequiresNumber(t *testing.T) {
	vm := newTestVM()
	vm.stack.Push(NewString([]byte("nope")))
	err := builtinWait(vm)
	assert(t, err != nil, "wait must require a Number argument")
}

func TestBuiltinWaitBlocksApproximately(t *testing.T) {
	vm := newTestVM()
	vm.stack.Push(NewNumber(20))
	start := time.Now()
	err := builtinWait(vm)
	elapsed := time.Since(start)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, elapsed >= 20*time.Millisecond, "wait(20) must block for at least 20ms, got %v", elapsed)
}

func TestBuiltinWaitZeroDoesNotBlock(t *testing.T) {
	vm := newTestVM()
	vm.stack.Push(NewNumber(0))
	start := time.Now()
	err := builtinWait(vm)
	elapsed := time.Since(start)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, elapsed < 50*time.Millisecond, "wait(0) must return immediately, took %v", elapsed)
}
