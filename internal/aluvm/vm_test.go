package aluvm

import (
	"bytes"
	"testing"
)

func TestStartRunsFullProgram(t *testing.T) {
	body := (&programBuilder{}).
		op(OpPushNum).f64(1).
		op(OpPushNum).f64(2).
		op(OpSumStack).
		op(OpPushDef).cstr("print").
		op(OpCall).
		op(OpRet).
		withSignature()

	var out bytes.Buffer
	vm := NewState(WithStdout(&out))
	err := vm.Start(body)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, out.String() == "3\n", "got %q", out.String())
}

func TestPrintedNumberCarriesSixFractionalDigits(t *testing.T) {
	body := (&programBuilder{}).
		op(OpPushNum).f64(125.3).
		op(OpPushDef).cstr("print").
		op(OpCall).
		op(OpRet).
		withSignature()

	var out bytes.Buffer
	vm := NewState(WithStdout(&out))
	err := vm.Start(body)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, out.String() == "125.300000\n", "got %q", out.String())
}

func TestStartRejectsBadSignature(t *testing.T) {
	vm := newTestVM()
	err := vm.Start([]byte{0x00, 0x00, 0x00, byte(OpRet)})
	assert(t, err != nil, "a program with a bad signature must fail to start")
}

func TestStartFileMissing(t *testing.T) {
	vm := newTestVM()
	err := vm.StartFile("/nonexistent/path/to/a/program.alu")
	assert(t, err != nil, "starting a missing file must fail")
	aluErr, ok := err.(*Error)
	assert(t, ok && aluErr.Kind == ErrNoFile, "got %v", err)
}

func TestCloseReportsExitCode(t *testing.T) {
	vm := newTestVM()
	code := vm.Close()
	assert(t, code == 0, "a clean VM must close with exit code 0")

	vm2 := newTestVM()
	vm2.err = newErr(ErrGeneric, "boom")
	assert(t, vm2.Close() == 1, "a VM with a set error must close with exit code 1")
}

func TestRunBufferEndToEnd(t *testing.T) {
	body := (&programBuilder{}).
		op(OpPushStr).cstr("done").
		op(OpPushDef).cstr("print").
		op(OpCall).
		op(OpRet).
		withSignature()
	code := RunBuffer(body)
	assert(t, code == 0, "expected exit code 0, got %d", code)
}
