package vm

import (
	"github.com/rigz-lang/rigz/pkg/bytecode"
	"github.com/rigz-lang/rigz/pkg/value"
)

func (v *VM) execCall(ins bytecode.Instruction, frame *CallFrame) {
	scope := v.scope(ins.Scope)
	args := v.popN(ins.Args)
	var self *value.ObjectValue
	if scope.Self {
		s := v.pop()
		self = &s
	}
	if ins.Op == bytecode.OpCallMemo {
		key := makeMemoKey(scopeSite(ins.Scope), self, args)
		if cached, ok := v.memo[key]; ok {
			v.push(cached)
			return
		}
		result := v.runScope(ins.Scope, args, self, v.rootFrame())
		v.memo[key] = result
		v.push(result)
		return
	}
	v.push(v.runScope(ins.Scope, args, self, v.rootFrame()))
}

// rootFrame anchors a genuine function call's lexical parent at the
// program's top-level frame rather than the caller's frame: hoisted
// functions are compiled with no visibility into whichever block happened
// to call them, only into top-level bindings (§4.3), so a fresh call frame
// should see globals but not the caller's locals.
func (v *VM) rootFrame() *CallFrame {
	if len(v.frames) == 0 {
		return nil
	}
	return v.frames[0]
}

func (v *VM) dispatchSite(site bytecode.CallSite, self *value.ObjectValue, args []value.ObjectValue, memo bool) value.ObjectValue {
	switch site.Kind {
	case bytecode.CallSiteScope:
		if memo {
			key := makeMemoKey(scopeSite(site.Scope), self, args)
			if cached, ok := v.memo[key]; ok {
				return cached
			}
			result := v.runScope(site.Scope, args, self, v.rootFrame())
			v.memo[key] = result
			return result
		}
		return v.runScope(site.Scope, args, self, v.rootFrame())
	case bytecode.CallSiteModule:
		mod := v.requireModule(site.Module)
		if mod == nil {
			return value.ErrorV(value.NewInvalidModule("module #%d is not available", site.Module))
		}
		if memo {
			key := makeMemoKey(moduleSite(site.Module, site.Func), self, args)
			if cached, ok := v.memo[key]; ok {
				return cached
			}
			result := mod.Call(site.Func, args)
			v.memo[key] = result
			return result
		}
		return mod.Call(site.Func, args)
	case bytecode.CallSiteVMModule:
		mod := v.requireModule(site.Module)
		if mod == nil {
			return value.ErrorV(value.NewInvalidModule("module #%d is not available", site.Module))
		}
		if self == nil {
			return value.ErrorV(value.NewRuntime("extension call %q has no receiver", site.Func))
		}
		return mod.CallExtension(*self, site.Func, args)
	default:
		return value.ErrorV(value.NewUnsupportedOperation("unknown call site"))
	}
}

func (v *VM) execCallMatchingSelf(ins bytecode.Instruction, frame *CallFrame) {
	args := v.popN(ins.Args)
	self := v.pop()
	idx, ok := bytecode.MatchSelfArgs(self, args, ins.SelfOverloads)
	if !ok {
		v.push(value.ErrorV(value.NewUnsupportedOperation("no matching overload for %d argument(s)", len(args))))
		return
	}
	overload := ins.SelfOverloads[idx]
	v.push(v.dispatchSite(overload.Site, &self, args, ins.Op == bytecode.OpCallMatchingSelfMemo))
}

func (v *VM) execCallMatching(ins bytecode.Instruction, frame *CallFrame) {
	args := v.popN(ins.Args)
	idx, ok := bytecode.MatchArgs(args, ins.Overloads)
	if !ok {
		v.push(value.ErrorV(value.NewUnsupportedOperation("no matching overload for %d argument(s)", len(args))))
		return
	}
	overload := ins.Overloads[idx]
	v.push(v.dispatchSite(overload.Site, nil, args, ins.Op == bytecode.OpCallMatchingMemo))
}

func (v *VM) requireModule(id int) moduleLike {
	if v.prog.Modules == nil {
		return nil
	}
	mod, ok := v.prog.Modules.ByID(id)
	if !ok {
		return nil
	}
	if v.disabledModules[mod.Name()] {
		return nil
	}
	return mod
}

// moduleLike is the subset of module.Module the VM calls through; declared
// locally so this file only needs the one method set it actually uses.
type moduleLike interface {
	Name() string
	Call(fn string, args []value.ObjectValue) value.ObjectValue
	CallExtension(self value.ObjectValue, fn string, args []value.ObjectValue) value.ObjectValue
	CallMutableExtension(self *value.ObjectValue, fn string, args []value.ObjectValue) value.ObjectValue
}

func (v *VM) execCallModule(ins bytecode.Instruction) {
	args := v.popN(ins.Args)
	mod := v.requireModule(ins.ModuleID)
	if mod == nil {
		v.push(value.ErrorV(value.NewInvalidModule("module #%d is not available", ins.ModuleID)))
		return
	}
	v.push(mod.Call(ins.FuncName, args))
}

func (v *VM) execCallExtension(ins bytecode.Instruction) {
	args := v.popN(ins.Args)
	self := v.pop()
	mod := v.requireModule(ins.ModuleID)
	if mod == nil {
		v.push(value.ErrorV(value.NewInvalidModule("module #%d is not available", ins.ModuleID)))
		return
	}
	if ins.Op == bytecode.OpCallMutableExtension {
		v.push(mod.CallMutableExtension(&self, ins.FuncName, args))
		return
	}
	v.push(mod.CallExtension(self, ins.FuncName, args))
}

func (v *VM) execCallObject(ins bytecode.Instruction) {
	args := v.popN(ins.Args)
	mod := v.requireModule(ins.ModuleID)
	if mod == nil {
		v.push(value.ErrorV(value.NewInvalidModule("dependency #%d is not available", ins.ModuleID)))
		return
	}
	v.push(mod.Call(ins.FuncName, args))
}

func (v *VM) execCallObjectExtension(ins bytecode.Instruction) {
	args := v.popN(ins.Args)
	self := v.pop()
	mod := v.requireModule(ins.ModuleID)
	if mod == nil {
		v.push(value.ErrorV(value.NewInvalidModule("dependency #%d is not available", ins.ModuleID)))
		return
	}
	if ins.Op == bytecode.OpCallMutableObjectExtension {
		v.push(mod.CallMutableExtension(&self, ins.FuncName, args))
		return
	}
	v.push(mod.CallExtension(self, ins.FuncName, args))
}

func (v *VM) execCreateDependency(ins bytecode.Instruction) {
	args := v.popN(ins.Args)
	mod := v.requireModule(ins.ModuleID)
	if mod == nil {
		v.push(value.ErrorV(value.NewInvalidModule("dependency #%d is not available", ins.ModuleID)))
		return
	}
	v.push(mod.Call("new", args))
}

// execSpawn schedules ins.Scope to run lazily, optionally consuming a
// popped timeout operand (§4.4's "Spawn(scope, timeout?) | 0 or 1 | 1");
// the timeout is accepted for bytecode-shape compatibility but spawn's own
// pid carries no deadline of its own — only a later `receive` arms one
// (§5's Cancellation rule scopes timeouts to receive, not to the task).
func (v *VM) execSpawn(ins bytecode.Instruction) {
	if ins.HasFlag {
		v.pop()
	}
	pid := v.sched.spawn(ins.Scope)
	v.push(value.IntV(int64(pid)))
}

// execSend dispatches an event to every @on(event) handler in registration
// order and pushes the list of new task ids (§4.4's Send, §5's ordering
// guarantee) — `pids = send 'm', 21` in §8's S6.
func (v *VM) execSend(ins bytecode.Instruction) {
	args := v.popN(ins.Args)
	if len(args) == 0 {
		v.push(value.ListV(nil))
		return
	}
	event := args[0].FormatForDisplay()
	pids := v.sched.dispatch(event, args[1:])
	out := make([]value.ObjectValue, len(pids))
	for i, id := range pids {
		out[i] = value.IntV(int64(id))
	}
	v.push(value.ListV(out))
}

// execReceive awaits one task id or a list of them, each under the optional
// millisecond timeout given as the second argument (§4.4's Receive, §5's
// Cancellation rule, §8's S7). A single id yields that task's result
// directly; a list yields a list of results in the same order (§5's
// ordering guarantee).
func (v *VM) execReceive(ins bytecode.Instruction) {
	args := v.popN(ins.Args)
	if len(args) == 0 {
		v.push(value.ErrorV(value.NewRuntime("receive requires a task id")))
		return
	}
	var timeout *int64
	if len(args) > 1 {
		ms := asMillis(args[1])
		timeout = &ms
	}

	if args[0].Kind == value.KList {
		items := args[0].List.Borrow()
		out := make([]value.ObjectValue, len(items))
		for i, item := range items {
			out[i] = v.sched.runOne(int(asMillis(item)), timeout)
		}
		v.push(value.ListV(out))
		return
	}
	v.push(v.sched.runOne(int(asMillis(args[0])), timeout))
}

func (v *VM) execSpliceInstruction(ins bytecode.Instruction) {
	s := v.scope(ins.Scope)
	if ins.Nested == nil {
		return
	}
	idx := ins.Index
	if idx < 0 {
		idx = 0
	}
	if idx > len(s.Instructions) {
		idx = len(s.Instructions)
	}
	s.Instructions = append(s.Instructions[:idx:idx], append([]bytecode.Instruction{*ins.Nested}, s.Instructions[idx:]...)...)
}
