package aluvm

import "bytes"

// Execute walks the decoded instruction sequence from the current program
// counter, mutating the evaluation stack, registers and garbage list until
// one of: RET executes, the cursor walks off either end of the sequence,
// or the process-wide interrupt flag is observed set. It returns the first
// error raised, or nil on a clean stop.
func (vm *VM) Execute() error {
	for {
		done, err := vm.Step()
		if err != nil || done {
			return err
		}
	}
}

// Step executes exactly one instruction at the current program counter and
// reports whether execution has finished (RET reached, the cursor walked
// off either end of the sequence, or the process-wide interrupt flag is
// set). It is the primitive Execute is built from, and what the REPL
// stepper drives directly for single-instruction stepping.
func (vm *VM) Step() (done bool, err error) {
	if vm.pc < 0 || vm.pc >= len(vm.instructions) {
		return true, nil
	}
	if interrupted.Load() {
		return true, newErr(ErrGeneric, "interrupted")
	}

	instr := vm.instructions[vm.pc]
	vm.observer.OnDispatch(vm.pc, instr)

	if instr.Op == OpRet {
		return true, nil
	}

	if instr.Op.IsJump() {
		if err := vm.dispatchJump(instr); err != nil {
			return true, err
		}
		return false, nil
	}

	if err := vm.dispatchOne(instr); err != nil {
		return true, err
	}
	vm.pc++
	return false, nil
}

// dispatchJump handles the five jump opcodes: if the opcode's predicate
// is true the signed offset is applied (with the "+1 if positive else -1,
// zero illegal" overshoot adjustment); otherwise the top of stack is
// popped (if present) and the cursor simply advances by one. Only the
// not-taken path pops — programs rely on a failed conditional consuming
// its predicate value.
func (vm *VM) dispatchJump(instr Instruction) error {
	taken, err := vm.jumpPredicate(instr.Op)
	if err != nil {
		return err
	}

	if !taken {
		vm.stack.Pop()
		vm.observer.OnJump(instr.Op, false, 0, vm.pc, vm.pc+1)
		vm.pc++
		return nil
	}

	k := int(i32FromBytes(instr.Arg))
	if k == 0 {
		return newErr(ErrOutOfJump, "jump offset of 0 is illegal")
	}
	var step int
	if k > 0 {
		step = k + 1
	} else {
		step = k - 1
	}

	target := vm.pc + step
	if target < 0 || target >= len(vm.instructions) {
		return newErr(ErrOutOfJump, "jump target %d out of range [0, %d)", target, len(vm.instructions))
	}
	vm.observer.OnJump(instr.Op, true, step, vm.pc, target)
	vm.pc = target
	return nil
}

// jumpPredicate evaluates whether a jump opcode should take the jump.
func (vm *VM) jumpPredicate(op Opcode) (bool, error) {
	switch op {
	case OpJmp:
		return true, nil
	case OpJem:
		return vm.stack.Len() == 0, nil
	case OpJnem:
		return vm.stack.Len() != 0, nil
	case OpJtr:
		top, ok := vm.stack.Peek(0)
		return ok && top.Kind() == KindBool && top.Bool(), nil
	case OpJfa:
		top, ok := vm.stack.Peek(0)
		return ok && top.Kind() == KindBool && !top.Bool(), nil
	default:
		return false, newErr(ErrGeneric, "not a jump opcode: %s", op)
	}
}

// dispatchOne executes every non-jump, non-RET opcode.
func (vm *VM) dispatchOne(instr Instruction) error {
	switch instr.Op {
	case OpPushNum:
		vm.stack.Push(NewNumber(f64FromBytes(instr.Arg)))
	case OpPushStr:
		vm.stack.Push(NewString(instr.Arg))
	case OpPushBool:
		vm.stack.Push(NewBool(instr.Arg[0] != 0))
	case OpPushDef:
		id, err := vm.builtins.Lookup(string(instr.Arg))
		if err != nil {
			return err
		}
		vm.stack.Push(NewAbstract(id))
	case OpSumStack:
		return vm.opSumStack()
	case OpStackClose:
		vm.dropStack()
	case OpEval:
		return vm.opEval(instr.Arg[0])
	case OpSuper:
		return vm.stack.RotateBottomToTop()
	case OpCall:
		return vm.opCall()
	case OpLoad:
		return vm.opLoad(u32FromBytes(instr.Arg))
	case OpUnload:
		return vm.opUnload(u32FromBytes(instr.Arg))
	case OpDefunload:
		return vm.opDefunload(u32FromBytes(instr.Arg))
	default:
		return newErr(ErrGeneric, "instruction not recognized: %s", instr.Op)
	}
	return nil
}

// dropStack releases every value currently on the stack into the garbage
// list, which is how STACKCLOSE and the various clear-then-push compound
// opcodes dispose of values whose ownership the VM is retiring.
func (vm *VM) dropStack() {
	for {
		v, ok := vm.stack.Pop()
		if !ok {
			break
		}
		vm.garbage.Add(v)
	}
}

// opSumStack implements SUMSTACK: peek index 0 and 1 (same kind
// required), fold by kind, clear the stack, push the single result.
func (vm *VM) opSumStack() error {
	if vm.stack.Len() < 2 {
		return newErr(ErrTooFewStack, "SUMSTACK requires at least 2 elements, have %d", vm.stack.Len())
	}
	a, _ := vm.stack.Peek(0)
	b, _ := vm.stack.Peek(1)
	if a.Kind() != b.Kind() {
		return newErr(ErrTypesMismatch, "SUMSTACK requires matching kinds, got %s and %s", a.Kind(), b.Kind())
	}

	var result Value
	switch a.Kind() {
	case KindNumber:
		result = NewNumber(a.Number() + b.Number())
	case KindBool:
		result = NewBool(a.Bool() || b.Bool())
	case KindString:
		combined := make([]byte, 0, len(a.Bytes())+len(b.Bytes()))
		combined = append(combined, a.Bytes()...)
		combined = append(combined, b.Bytes()...)
		result = NewString(combined)
	default:
		return newErr(ErrTypesMismatch, "SUMSTACK does not support kind %s", a.Kind())
	}

	vm.dropStack()
	vm.stack.Push(result)
	return nil
}

// opEval implements EVAL(mask): a three-way compare of stack[0] and
// stack[1], clear, push the resulting bool.
func (vm *VM) opEval(mask byte) error {
	if vm.stack.Len() < 1 {
		return newErr(ErrTooFewStack, "EVAL requires at least 1 element")
	}
	a, _ := vm.stack.Peek(0)
	b, ok := vm.stack.Peek(1)
	if !ok {
		return newErr(ErrNoStack, "EVAL requires a second element at index 1")
	}

	var ev byte
	if a.Kind() != b.Kind() {
		vm.dropStack()
		vm.stack.Push(NewBool(false))
		return nil
	}

	// The three-way comparison is stack[1] relative to stack[0]: the
	// older element compared against the newer push.
	switch a.Kind() {
	case KindString:
		ev = evalBitsFromSign(signOfInt(bytes.Compare(b.Bytes(), a.Bytes())))
	case KindNumber:
		ev = evalBitsFromSign(signOfFloat(b.Number() - a.Number()))
	case KindBool:
		ev = evalBitsFromSign(signOfFloat(boolToFloat(b.Bool()) - boolToFloat(a.Bool())))
	default:
		ev = 0 // Null/Abstract: treated as unequal, no ordering.
	}

	vm.dropStack()
	vm.stack.Push(NewBool(ev&mask != 0))
	return nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func signOfFloat(f float64) int {
	switch {
	case f < 0:
		return -1
	case f > 0:
		return 1
	default:
		return 0
	}
}

func signOfInt(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func evalBitsFromSign(sign int) byte {
	switch {
	case sign == 0:
		return EvalEquals
	case sign < 0:
		return EvalSmaller
	default:
		return EvalGreater
	}
}

// opCall implements CALL: pop the top value, require it be Abstract, and
// invoke its referent with the VM as the sole argument.
func (vm *VM) opCall() error {
	v, ok := vm.stack.Pop()
	if !ok {
		return newErr(ErrTooFewStack, "CALL requires an Abstract value on the stack")
	}
	if v.Kind() != KindAbstract {
		vm.garbage.Add(v)
		return newErr(ErrTypesMismatch, "CALL requires an Abstract value, got %s", v.Kind())
	}
	id := v.Builtin()
	vm.garbage.Add(v)
	return vm.builtins.call(id, vm)
}

// opLoad implements LOAD: deep-copy the stack top into register i,
// then clear the whole stack. The full-stack clear is intentional and
// observable — user programs rely on it.
func (vm *VM) opLoad(i uint32) error {
	top, ok := vm.stack.Peek(0)
	if !ok {
		return newErr(ErrTooFewStack, "LOAD requires a value on the stack")
	}
	copied := top.DeepCopy()
	vm.dropStack()
	vm.registers.Insert(i, copied)
	return nil
}

// opUnload implements UNLOAD: deep-copy register i and push it; the
// register entry is left untouched.
func (vm *VM) opUnload(i uint32) error {
	v, ok := vm.registers.Get(i)
	if !ok {
		return newErr(ErrNoRegister, "no register at index %d", i)
	}
	vm.stack.Push(v.DeepCopy())
	return nil
}

// opDefunload implements DEFUNLOAD: move register i's value onto the
// stack (no copy) and remove exactly that register entry.
func (vm *VM) opDefunload(i uint32) error {
	v, ok := vm.registers.Take(i)
	if !ok {
		return newErr(ErrNoRegister, "no register at index %d", i)
	}
	vm.stack.Push(v)
	return nil
}
