package value

import "sync"

// Cell is the reference-counted interior-mutable container backing List,
// Set, and Map values and `mut` variable bindings (§3.2). Every alias of a
// `mut` value shares the same *Cell, so writes through one alias are
// observed through all of them.
//
// §5's shared-resource policy requires that only one mut-qualified path be
// live at a time; BorrowMut enforces that with a non-blocking lock rather
// than a full mutex, because a second concurrent mutable borrow is a
// language-level error (RuntimeError), not a scheduling point to wait on.
type Cell struct {
	mu     sync.Mutex
	locked bool
	Value  ObjectValue
}

func NewCell(v ObjectValue) *Cell {
	return &Cell{Value: v}
}

// Borrow returns the current value without taking the mutable lock.
func (c *Cell) Borrow() ObjectValue {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Value
}

// BorrowMut acquires the exclusive mutable borrow, returning a RuntimeError
// if another mutable borrow is already outstanding. Callers must call
// Release when done.
func (c *Cell) BorrowMut() (*Cell, *VMError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locked {
		e := NewRuntime("Cannot borrow value as mutable, already borrowed")
		return nil, &e
	}
	c.locked = true
	return c, nil
}

// Release ends a mutable borrow taken with BorrowMut.
func (c *Cell) Release() {
	c.mu.Lock()
	c.locked = false
	c.mu.Unlock()
}

// Set replaces the cell's value. Must be called while holding a mutable
// borrow (i.e. between BorrowMut/Release).
func (c *Cell) Set(v ObjectValue) {
	c.mu.Lock()
	c.Value = v
	c.mu.Unlock()
}

// Clone returns a new, independently-owned Cell carrying a copy of the
// payload — used when a `let` binding is initialized from a shared value
// and should not alias it.
func (c *Cell) Clone() *Cell {
	return NewCell(c.Borrow())
}
