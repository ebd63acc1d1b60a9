package vm

import (
	"github.com/rigz-lang/rigz/pkg/bytecode"
	"github.com/rigz-lang/rigz/pkg/value"
)

// iterEntries expands an iterable value into one CallFrame argument list
// per iteration (§4.3's `for` family): arity lets a Map decide whether to
// destructure into (key, value) bindings or hand the whole pair through as
// a single Tuple binding.
func (v *VM) iterEntries(it value.ObjectValue, arity int) [][]value.ObjectValue {
	var out [][]value.ObjectValue
	switch it.Kind {
	case value.KList, value.KTuple:
		items := it.Tuple
		if it.Kind == value.KList {
			items = it.Items()
		}
		for _, e := range items {
			out = append(out, []value.ObjectValue{e})
		}
	case value.KRange:
		for _, n := range it.Rng.ToSlice() {
			out = append(out, []value.ObjectValue{value.IntV(n)})
		}
	case value.KSet:
		for p := it.Set.Data.Oldest(); p != nil; p = p.Next() {
			out = append(out, []value.ObjectValue{p.Value})
		}
	case value.KMap:
		for p := it.Map.Data.Oldest(); p != nil; p = p.Next() {
			if arity >= 2 {
				out = append(out, []value.ObjectValue{p.Value.Key, p.Value.Val})
			} else {
				out = append(out, []value.ObjectValue{value.TupleV(p.Value.Key, p.Value.Val)})
			}
		}
	}
	return out
}

func (v *VM) execForLoop(ins bytecode.Instruction, frame *CallFrame) {
	iterable := v.pop()
	bodyScope := v.scope(ins.Scope)
	entries := v.iterEntries(iterable, len(bodyScope.Args))

	switch ins.Op {
	case bytecode.OpFor:
		for _, args := range entries {
			_, brk, brkVal := v.runLoopIteration(ins.Scope, args, frame)
			if brk {
				v.push(brkVal)
				return
			}
		}
		v.push(value.None())

	case bytecode.OpForList:
		var out []value.ObjectValue
		for _, args := range entries {
			val, brk, brkVal := v.runLoopIteration(ins.Scope, args, frame)
			if brk {
				out = append(out, brkVal)
				break
			}
			out = append(out, val)
		}
		v.push(value.ListV(out))

	case bytecode.OpForMap:
		var pairs []value.MapPair
		for _, args := range entries {
			val, brk, _ := v.runLoopIteration(ins.Scope, args, frame)
			if brk {
				break
			}
			if val.Kind == value.KTuple && len(val.Tuple) == 2 {
				pairs = append(pairs, value.MapPair{Key: val.Tuple[0], Val: val.Tuple[1]})
			}
		}
		v.push(value.MapV(pairs))
	}
}

func (v *VM) execLoop(ins bytecode.Instruction, frame *CallFrame) {
	for {
		v.checkDeadline()
		_, brk, brkVal := v.runLoopIteration(ins.Scope, nil, frame)
		if brk {
			v.push(brkVal)
			return
		}
	}
}

// execMatch tries each arm in declared order, running the first one whose
// test passes (§4.2's match expression): an Enum arm tests (type, variant)
// identity, If/Unless arms evaluate a guard scope against the subject, and
// Else always matches.
func (v *VM) execMatch(ins bytecode.Instruction, frame *CallFrame) {
	subject := v.pop()
	for _, arm := range ins.MatchArms {
		switch arm.Kind {
		case bytecode.MatchArmEnum:
			if subject.Kind != value.KEnum || subject.Enum.EnumType != arm.A || subject.Enum.Variant != arm.B {
				continue
			}
			var args []value.ObjectValue
			if subject.Enum.Payload != nil {
				args = []value.ObjectValue{*subject.Enum.Payload}
			}
			v.push(v.runScope(arm.BodyScope, args, nil, frame))
			return
		case bytecode.MatchArmIf:
			cond := v.runScope(arm.A, []value.ObjectValue{subject}, nil, frame)
			if cond.Truthy() {
				v.push(v.runScope(arm.B, []value.ObjectValue{subject}, nil, frame))
				return
			}
		case bytecode.MatchArmUnless:
			cond := v.runScope(arm.A, []value.ObjectValue{subject}, nil, frame)
			if !cond.Truthy() {
				v.push(v.runScope(arm.B, []value.ObjectValue{subject}, nil, frame))
				return
			}
		case bytecode.MatchArmElse:
			v.push(v.runScope(arm.A, []value.ObjectValue{subject}, nil, frame))
			return
		}
	}
	v.push(value.None())
}
