package aluvm

import "testing"

func TestRegisterInsertGet(t *testing.T) {
	r := NewRegisterStore()
	r.Insert(3, NewNumber(42))
	v, ok := r.Get(3)
	assert(t, ok && v.Number() == 42, "expected register 3 to hold 42")

	_, ok = r.Get(7)
	assert(t, !ok, "register 7 was never set")
}

func TestRegisterTakeRemovesMatchedEntry(t *testing.T) {
	r := NewRegisterStore()
	r.Insert(1, NewNumber(100))
	r.Insert(2, NewNumber(200))
	r.Insert(3, NewNumber(300))

	v, ok := r.Take(2)
	assert(t, ok && v.Number() == 200, "Take(2) must return register 2's value, got %v", v)

	_, ok = r.Get(2)
	assert(t, !ok, "Take must remove exactly the matched register")

	v1, ok := r.Get(1)
	assert(t, ok && v1.Number() == 100, "Take(2) must not disturb register 1")
	v3, ok := r.Get(3)
	assert(t, ok && v3.Number() == 300, "Take(2) must not disturb register 3")
}

func TestRegisterTakeMissing(t *testing.T) {
	r := NewRegisterStore()
	_, ok := r.Take(9)
	assert(t, !ok, "Take on an unset register must report false")
}

func TestRegisterClear(t *testing.T) {
	r := NewRegisterStore()
	r.Insert(1, NewNumber(1))
	r.Insert(2, NewNumber(2))
	r.Clear()
	assert(t, r.Len() == 0, "Clear must empty the store")
}
