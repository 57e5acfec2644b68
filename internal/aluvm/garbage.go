package aluvm

// GarbageList holds values whose lifetime the VM extended past their pop.
// The internal pop API returns a borrowed reference the caller may keep
// inspecting until the next VM operation, so the value's actual release is
// deferred here and only drained at teardown — this keeps that contract
// simple without requiring every caller to track a second owner.
type GarbageList struct {
	items []Value
}

// NewGarbageList returns an empty garbage list.
func NewGarbageList() *GarbageList {
	return &GarbageList{}
}

// Add appends v, extending its lifetime until Drain is called.
func (g *GarbageList) Add(v Value) {
	g.items = append(g.items, v)
}

// Len reports how many values are awaiting the teardown drain.
func (g *GarbageList) Len() int { return len(g.items) }

// Drain releases every held value and empties the list.
func (g *GarbageList) Drain() {
	g.items = nil
}
