package vm

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rigz-lang/rigz/pkg/bytecode"
	"github.com/rigz-lang/rigz/pkg/value"
)

// ctrlKind discriminates the non-local control transfers Break/Next/
// Exit/Halt unwind through Go's own panic/recover (Ret simply returns from
// runScope), the same way ngaro's
// Run recovers a panic into an error at the Instance boundary — here the
// boundary is either a loop-body call site (Break/Next) or the whole
// program (Exit/Halt).
type ctrlKind uint8

const (
	ctrlBreak ctrlKind = iota
	ctrlNext
	ctrlExit
)

type ctrlSignal struct {
	kind ctrlKind
	val  value.ObjectValue
}

// runScope executes scopeID as a fresh CallFrame over args (padded with
// each ScopeArg's constant-folded default per §4.6), returning its result —
// the value left on the stack when OpRet fires, since every scope this
// compiler emits ends with one.
func (v *VM) runScope(scopeID int, args []value.ObjectValue, self *value.ObjectValue, parent *CallFrame) value.ObjectValue {
	if len(v.frames) >= v.maxDepth {
		v.fail(value.NewRuntime("Stack overflow: exceeded %d", v.maxDepth))
	}
	scope := v.scope(scopeID)
	frame := newFrame(scopeID, scope, parent)
	frame.self = self
	for i, pa := range scope.Args {
		var val value.ObjectValue
		switch {
		case i < len(args):
			val = args[i]
		case pa.HasDefault:
			val = pa.Default
		default:
			val = value.None()
		}
		frame.declare(v.nameID(pa.Name), val, pa.Mutable)
	}

	v.frames = append(v.frames, frame)
	if !v.keepFrames {
		defer func() { v.frames = v.frames[:len(v.frames)-1] }()
	}

	pc := 0
	for pc < len(scope.Instructions) {
		v.checkDeadline()
		ins := scope.Instructions[pc]
		if ins.Op == bytecode.OpRet {
			return v.pop()
		}
		jump, hasJump := v.exec(ins, frame)
		if hasJump {
			pc = jump
			continue
		}
		pc++
	}
	if len(v.stack) > 0 {
		return v.pop()
	}
	return value.None()
}

// runLoopIteration runs one Loop/For/ForList/ForMap body, translating a
// Break/Next control signal raised inside it into a plain return: Next
// behaves like an early Ret from this one iteration, Break terminates the
// whole enclosing loop with the value it carries. Anything else (Exit, a
// VMError panic) is not ours to catch and is re-raised.
func (v *VM) runLoopIteration(scopeID int, args []value.ObjectValue, parent *CallFrame) (val value.ObjectValue, brk bool, brkVal value.ObjectValue) {
	depth := len(v.frames)
	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(ctrlSignal)
			if !ok {
				v.frames = v.frames[:depth]
				panic(r)
			}
			switch sig.kind {
			case ctrlNext:
				val = sig.val
			case ctrlBreak:
				brk = true
				brkVal = sig.val
			default:
				v.frames = v.frames[:depth]
				panic(r)
			}
		}
	}()
	val = v.runScope(scopeID, args, nil, parent)
	return val, false, value.None()
}

func (v *VM) nameID(name string) int {
	for i, n := range v.prog.Names {
		if n == name {
			return i
		}
	}
	// A scope arg name the compiler never interned elsewhere (e.g. a block
	// with no callers referencing it by name) still needs a stable slot.
	v.prog.Names = append(v.prog.Names, name)
	return len(v.prog.Names) - 1
}

// exec runs one instruction against frame, returning a jump target for
// Goto-style control transfer (unused by anything this compiler itself
// emits, but part of the instruction set's contract).
func (v *VM) exec(ins bytecode.Instruction, frame *CallFrame) (jumpTo int, hasJump bool) {
	switch ins.Op {
	case bytecode.OpHalt:
		val := value.None()
		if len(v.stack) > 0 {
			val = v.pop()
		}
		panic(ctrlSignal{kind: ctrlExit, val: val})

	case bytecode.OpHaltIfError:
		top := v.peek()
		if top.Kind == value.KError {
			v.pop()
			panic(ctrlSignal{kind: ctrlExit, val: top})
		}

	case bytecode.OpUnary:
		v.execUnary(ins.Unary)

	case bytecode.OpBinary, bytecode.OpBinaryAssign:
		rhs := v.pop()
		lhs := v.pop()
		v.push(value.EvalBinary(ins.Binary, lhs, rhs))

	case bytecode.OpLoad:
		v.execLoad(ins.Load)

	case bytecode.OpInstanceGet:
		key := v.pop()
		target := v.pop()
		v.push(v.instanceGet(target, key))

	case bytecode.OpInstanceSet, bytecode.OpInstanceSetMut:
		val := v.pop()
		key := v.pop()
		target := v.pop()
		v.instanceSet(target, key, val)

	case bytecode.OpCall, bytecode.OpCallMemo:
		v.execCall(ins, frame)

	case bytecode.OpCallMatchingSelf, bytecode.OpCallMatchingSelfMemo:
		v.execCallMatchingSelf(ins, frame)

	case bytecode.OpCallMatching, bytecode.OpCallMatchingMemo:
		v.execCallMatching(ins, frame)

	case bytecode.OpLog:
		v.execLog(ins)

	case bytecode.OpDisplay:
		v.execDisplay(ins)

	case bytecode.OpCallEq, bytecode.OpCallNeq:
		rhs := v.pop()
		lhs := v.pop()
		eq := lhs.Equal(rhs)
		if ins.Op == bytecode.OpCallNeq {
			eq = !eq
		}
		v.push(value.BoolV(eq))

	case bytecode.OpIfElse:
		cond := v.pop()
		if cond.Truthy() {
			v.push(v.runScope(ins.Scope, nil, nil, frame))
		} else {
			v.push(v.runScope(ins.ElseScope, nil, nil, frame))
		}

	case bytecode.OpIf:
		cond := v.pop()
		if cond.Truthy() {
			v.push(v.runScope(ins.Scope, nil, nil, frame))
		} else {
			v.push(value.None())
		}

	case bytecode.OpUnless:
		cond := v.pop()
		if !cond.Truthy() {
			v.push(v.runScope(ins.Scope, nil, nil, frame))
		} else {
			v.push(value.None())
		}

	case bytecode.OpCast:
		val := v.pop()
		v.push(val.Cast(v.resolveTypeName(ins.TypeName)))

	case bytecode.OpGetVariable, bytecode.OpGetMutableVariable, bytecode.OpGetVariableReference:
		val, ok := frame.get(ins.Var)
		if !ok {
			if ins.Var >= 0 && ins.Var < len(v.prog.Names) {
				v.fail(value.NewVariableDoesNotExist("variable %q is not defined", v.prog.Names[ins.Var]))
			}
			v.fail(value.NewVariableDoesNotExist("variable #%d is not defined", ins.Var))
		}
		v.push(val)

	case bytecode.OpLoadLet:
		val := v.pop()
		frame.declare(ins.Var, val, false)

	case bytecode.OpLoadMut:
		val := v.pop()
		if ins.HasFlag {
			// `mut` shadowing a name in an enclosing scope always
			// introduces a fresh local binding.
			frame.declare(ins.Var, val, true)
		} else if _, found := frame.get(ins.Var); found {
			frame.set(ins.Var, val)
		} else {
			frame.declare(ins.Var, val, true)
		}

	case bytecode.OpPersistScope:
		// No captured-frame model exists for stored scope references
		// (§ "ObjectValue carries only a scope id"); treated as a no-op
		// marker instruction kept for bytecode-shape compatibility.

	case bytecode.OpCallModule:
		v.execCallModule(ins)

	case bytecode.OpCallExtension, bytecode.OpCallMutableExtension:
		v.execCallExtension(ins)

	case bytecode.OpForList, bytecode.OpForMap, bytecode.OpFor:
		v.execForLoop(ins, frame)

	case bytecode.OpSleep:
		v.execSleep()

	case bytecode.OpSend:
		v.execSend(ins)

	case bytecode.OpSpawn:
		v.execSpawn(ins)

	case bytecode.OpReceive:
		v.execReceive(ins)

	case bytecode.OpPop:
		for i := 0; i < ins.Args; i++ {
			v.pop()
		}

	case bytecode.OpGoto:
		return ins.Index, true

	case bytecode.OpAddInstruction:
		if ins.Scope >= 0 && ins.Scope < len(v.prog.Scopes) && ins.Nested != nil {
			v.prog.Scopes[ins.Scope].Emit(*ins.Nested)
		}

	case bytecode.OpInsertAtInstruction:
		v.execSpliceInstruction(ins)

	case bytecode.OpUpdateInstruction:
		if s := v.scope(ins.Scope); ins.Index >= 0 && ins.Index < len(s.Instructions) && ins.Nested != nil {
			s.Instructions[ins.Index] = *ins.Nested
		}

	case bytecode.OpRemoveInstruction:
		if s := v.scope(ins.Scope); ins.Index >= 0 && ins.Index < len(s.Instructions) {
			s.Instructions = append(s.Instructions[:ins.Index], s.Instructions[ins.Index+1:]...)
		}

	case bytecode.OpCreateObject:
		v.execCreateObject(ins)

	case bytecode.OpCreateDependency:
		v.execCreateDependency(ins)

	case bytecode.OpCallObject:
		v.execCallObject(ins)

	case bytecode.OpCallObjectExtension, bytecode.OpCallMutableObjectExtension:
		v.execCallObjectExtension(ins)

	case bytecode.OpTry:
		val := v.pop()
		if val.Kind == value.KError {
			panic(ctrlSignal{kind: ctrlExit, val: val})
		}
		v.push(val)

	case bytecode.OpCatch:
		operand := v.pop()
		if operand.Kind == value.KError {
			var args []value.ObjectValue
			if ins.HasFlag {
				args = []value.ObjectValue{operand}
			}
			v.push(v.runScope(ins.Scope, args, nil, frame))
		} else {
			v.push(operand)
		}

	case bytecode.OpCreateEnum:
		var payload *value.ObjectValue
		if ins.HasFlag {
			p := v.pop()
			payload = &p
		}
		v.push(value.EnumV(ins.EnumType, ins.Variant, payload))

	case bytecode.OpMatch:
		v.execMatch(ins, frame)

	case bytecode.OpBreak:
		val := value.None()
		if ins.HasFlag {
			val = v.pop()
		}
		panic(ctrlSignal{kind: ctrlBreak, val: val})

	case bytecode.OpLoop:
		v.execLoop(ins, frame)

	case bytecode.OpNext:
		val := value.None()
		if ins.HasFlag {
			val = v.pop()
		}
		panic(ctrlSignal{kind: ctrlNext, val: val})

	case bytecode.OpExit:
		val := v.pop()
		panic(ctrlSignal{kind: ctrlExit, val: val})

	default:
		v.fail(value.NewUnsupportedOperation("unimplemented instruction %d", ins.Op))
	}
	return 0, false
}

func (v *VM) execUnary(op value.UnaryOperation) {
	switch op {
	case value.OpPrint:
		fmt.Fprint(v.out, v.pop().FormatForDisplay())
		v.push(value.None())
	case value.OpPrintLn:
		fmt.Fprintln(v.out, v.pop().FormatForDisplay())
		v.push(value.None())
	case value.OpEPrint:
		fmt.Fprint(stderrWriter{}, v.pop().FormatForDisplay())
		v.push(value.None())
	case value.OpEPrintLn:
		fmt.Fprintln(stderrWriter{}, v.pop().FormatForDisplay())
		v.push(value.None())
	default:
		v.push(value.EvalUnary(op, v.pop()))
	}
}

func (v *VM) execLoad(lv bytecode.LoadValue) {
	switch lv.Kind {
	case bytecode.LoadScopeID:
		v.push(value.ScopeRefV(lv.ScopeID))
	case bytecode.LoadConstant:
		if lv.Constant < 0 || lv.Constant >= len(v.prog.Constants) {
			v.fail(value.NewRuntime("constant #%d does not exist", lv.Constant))
		}
		v.push(v.prog.Constants[lv.Constant])
	default:
		v.push(lv.Value)
	}
}

func levelToZap(l bytecode.LogLevel) zapcore.Level {
	switch l {
	case bytecode.LevelError:
		return zapcore.ErrorLevel
	case bytecode.LevelWarn:
		return zapcore.WarnLevel
	case bytecode.LevelInfo:
		return zapcore.InfoLevel
	case bytecode.LevelDebug, bytecode.LevelTrace:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

func (v *VM) execLog(ins bytecode.Instruction) {
	args := v.popN(ins.Args)
	fields := make([]zap.Field, len(args))
	for i, a := range args {
		fields[i] = zap.String(fmt.Sprintf("arg%d", i), a.FormatForDisplay())
	}
	v.logger.Check(levelToZap(ins.LogLevel), ins.LogTemplate).Write(fields...)
}

// execSleep suspends the current task for the popped millisecond duration
// (§4.4's Sleep). There is no real wall clock here: outside of a timed
// `receive`, sleeping is observably a no-op (§5 — the VM has no background
// work to let run while it waits); inside one, the duration is charged
// against that receive's sleepBudget, and exhausting it aborts the task
// with a TimeoutError the way §5's Cancellation rule describes.
func (v *VM) execSleep() {
	ms := asMillis(v.pop())
	if v.sleepBudget != nil {
		*v.sleepBudget -= ms
		if *v.sleepBudget < 0 {
			panic(taskTimeout{})
		}
	}
	v.push(value.None())
}

func asMillis(v value.ObjectValue) int64 {
	if v.Kind != value.KNumber {
		return 0
	}
	if v.Num.Kind == value.NumInt {
		return v.Num.Int
	}
	return int64(v.Num.Float)
}

func (v *VM) execDisplay(ins bytecode.Instruction) {
	args := v.popN(ins.Args)
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.FormatForDisplay()
	}
	w := v.out
	nl := ins.Display == bytecode.DisplayPrintLn || ins.Display == bytecode.DisplayEPrintLn
	if ins.Display == bytecode.DisplayEPrint || ins.Display == bytecode.DisplayEPrintLn {
		w = stderrWriter{}
	}
	for _, p := range parts {
		fmt.Fprint(w, p)
	}
	if nl {
		fmt.Fprintln(w)
	}
}
