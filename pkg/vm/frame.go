package vm

import (
	"github.com/rigz-lang/rigz/pkg/bytecode"
	"github.com/rigz-lang/rigz/pkg/value"
)

// CallFrame is one activation of a Scope (§3.4/§3.5): its own variable
// table plus a parent pointer so lookups fall through to the lexically
// enclosing frame exactly the way pkg/compiler's envStack models lookup at
// compile time.
type CallFrame struct {
	scopeID int
	scope   *bytecode.Scope
	pc      int
	vars    map[int]value.ObjectValue
	mutable map[int]bool
	parent  *CallFrame
	self    *value.ObjectValue
}

func newFrame(scopeID int, scope *bytecode.Scope, parent *CallFrame) *CallFrame {
	return &CallFrame{
		scopeID: scopeID,
		scope:   scope,
		vars:    make(map[int]value.ObjectValue),
		mutable: make(map[int]bool),
		parent:  parent,
	}
}

// declare binds id to v in this frame only (Let/Mut/LoadLet/LoadMut, and a
// Scope's own parameter binding on entry).
func (f *CallFrame) declare(id int, v value.ObjectValue, mutable bool) {
	f.vars[id] = v
	f.mutable[id] = mutable
}

// get walks the parent chain to find id's current value.
func (f *CallFrame) get(id int) (value.ObjectValue, bool) {
	for fr := f; fr != nil; fr = fr.parent {
		if v, ok := fr.vars[id]; ok {
			return v, true
		}
	}
	return value.None(), false
}

// isMutable reports whether id, wherever it is bound in the chain, was
// declared with `mut`.
func (f *CallFrame) isMutable(id int) bool {
	for fr := f; fr != nil; fr = fr.parent {
		if _, ok := fr.vars[id]; ok {
			return fr.mutable[id]
		}
	}
	return false
}

// set stores v into whichever frame in the chain already declared id,
// falling back to declaring it fresh in this frame (plain reassignment of a
// variable declared by an enclosing block still mutates that block's
// binding, matching closures-over-mutable-locals semantics).
func (f *CallFrame) set(id int, v value.ObjectValue) {
	for fr := f; fr != nil; fr = fr.parent {
		if _, ok := fr.vars[id]; ok {
			fr.vars[id] = v
			return
		}
	}
	f.vars[id] = v
	f.mutable[id] = true
}
