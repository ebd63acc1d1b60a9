package compiler

import (
	"github.com/rigz-lang/rigz/pkg/ast"
	"github.com/rigz-lang/rigz/pkg/bytecode"
	"github.com/rigz-lang/rigz/pkg/value"
)

// candidates returns every overload registered under name whose receiver
// shape (present or absent) matches wantSelf.
func (c *Compiler) candidates(name string, wantSelf bool) []overloadEntry {
	var out []overloadEntry
	for _, e := range c.overloads[name] {
		if (e.self != nil) == wantSelf {
			out = append(out, e)
		}
	}
	return out
}

func anyMemo(cands []overloadEntry) bool {
	for _, e := range cands {
		if e.isMemo {
			return true
		}
	}
	return false
}

func argTypes(e overloadEntry) []bytecode.Arg {
	out := make([]bytecode.Arg, len(e.paramTypes))
	for i, t := range e.paramTypes {
		out[i] = bytecode.Arg{Kind: bytecode.ArgType, Type: t}
	}
	return out
}

// orderArgs reorders named call arguments into paramNames' declared
// positional order, leaving purely positional calls untouched. A named
// argument whose name matches nothing in paramNames is dropped with a
// diagnostic rather than silently ignored.
func (c *Compiler) orderArgs(args []ast.Arg, paramNames []string) []ast.Arg {
	named := false
	for _, a := range args {
		if a.Name != "" {
			named = true
			break
		}
	}
	if !named || len(paramNames) == 0 {
		return args
	}
	ordered := make([]ast.Arg, 0, len(paramNames))
	used := make([]bool, len(args))
	for _, pn := range paramNames {
		found := false
		for j, a := range args {
			if a.Name == pn {
				ordered = append(ordered, a)
				used[j] = true
				found = true
				break
			}
		}
		for j, a := range args {
			if !found && a.Name == "" && !used[j] {
				ordered = append(ordered, a)
				used[j] = true
				found = true
			}
		}
		if !found {
			break // remaining trailing positions fall back to the scope's own defaults
		}
	}
	for j, a := range args {
		if a.Name == "" && !used[j] {
			ordered = append(ordered, a)
		} else if a.Name != "" && !used[j] {
			c.err("no parameter named %q", a.Name)
		}
	}
	return ordered
}

// emitCall resolves name against the overload table and emits the matching
// call form (§4.6): a single candidate resolves statically to Call/
// CallModule/CallExtension/CallMutableExtension/their Memo variant; more
// than one candidate defers to CallMatching/CallMatchingSelf (and their Memo
// variants) so the VM picks a match once argument values are known.
// builtinTasks are the VM's own concurrency primitives (§3.5, §4.4): they
// are reserved call forms with a fixed bytecode shape, not entries in the
// user overload table, the same way `if`/`for`/`match` are keywords rather
// than functions a program could redefine.
var builtinTasks = map[string]bool{"spawn": true, "send": true, "receive": true, "sleep": true}

func (c *Compiler) emitCall(recv ast.Expression, name string, args []ast.Arg) {
	if recv == nil && builtinTasks[name] && len(c.candidates(name, false)) == 0 {
		c.emitBuiltinTaskCall(name, args)
		return
	}
	wantSelf := recv != nil
	cands := c.candidates(name, wantSelf)
	if len(cands) == 0 {
		c.err("no matching function %q", name)
		if wantSelf {
			c.emitExpr(recv)
			c.emit(bytecode.Instruction{Op: bytecode.OpPop, Args: 1})
		}
		c.loadInline(value.None())
		return
	}

	if len(cands) == 1 {
		c.emitDirectCall(recv, cands[0], args)
		return
	}

	if wantSelf {
		c.emitExpr(recv)
		for _, a := range args {
			c.emitExpr(a.Value)
		}
		overloads := make([]bytecode.SelfOverload, len(cands))
		memo := anyMemo(cands)
		for i, e := range cands {
			overloads[i] = bytecode.SelfOverload{
				Self: bytecode.Arg{Kind: bytecode.ArgType, Type: *e.self},
				Args: argTypes(e),
				Site: e.site,
			}
		}
		op := bytecode.OpCallMatchingSelf
		if memo {
			op = bytecode.OpCallMatchingSelfMemo
		}
		c.emit(bytecode.Instruction{Op: op, SelfOverloads: overloads, Args: len(args)})
		return
	}

	for _, a := range args {
		c.emitExpr(a.Value)
	}
	overloads := make([]bytecode.Overload, len(cands))
	memo := anyMemo(cands)
	for i, e := range cands {
		overloads[i] = bytecode.Overload{Args: argTypes(e), Site: e.site}
	}
	op := bytecode.OpCallMatching
	if memo {
		op = bytecode.OpCallMatchingMemo
	}
	c.emit(bytecode.Instruction{Op: op, Overloads: overloads, Args: len(args)})
}

// emitBuiltinTaskCall lowers spawn/send/receive/sleep directly to their
// bytecode instructions (§4.4), bypassing overload resolution entirely —
// these have no declared signature to match against, only a fixed
// positional shape.
func (c *Compiler) emitBuiltinTaskCall(name string, args []ast.Arg) {
	switch name {
	case "spawn":
		if len(args) == 0 {
			c.err("spawn requires a block")
			c.loadInline(value.None())
			return
		}
		block, ok := args[0].Value.(*ast.BlockExpr)
		if !ok {
			c.err("spawn requires a block argument")
			c.loadInline(value.None())
			return
		}
		scopeID := c.compileBlockScope(block, "spawn")
		ins := bytecode.Instruction{Op: bytecode.OpSpawn, Scope: scopeID}
		if len(args) > 1 {
			c.emitExpr(args[1].Value)
			ins.HasFlag = true
		}
		c.emit(ins)

	case "send":
		for _, a := range args {
			c.emitExpr(a.Value)
		}
		c.emit(bytecode.Instruction{Op: bytecode.OpSend, Args: len(args)})

	case "receive":
		if len(args) == 0 {
			c.err("receive requires a task id")
			c.loadInline(value.None())
			return
		}
		for _, a := range args {
			c.emitExpr(a.Value)
		}
		c.emit(bytecode.Instruction{Op: bytecode.OpReceive, Args: len(args)})

	case "sleep":
		if len(args) == 0 {
			c.err("sleep requires a duration")
			c.loadInline(value.None())
			return
		}
		c.emitExpr(args[0].Value)
		c.emit(bytecode.Instruction{Op: bytecode.OpSleep, Args: 1})
	}
}

func (c *Compiler) emitDirectCall(recv ast.Expression, e overloadEntry, args []ast.Arg) {
	ordered := c.orderArgs(args, e.paramNames)
	if recv != nil {
		c.emitExpr(recv)
	}
	n := 0
	for _, a := range ordered {
		if a.Value == nil {
			continue
		}
		c.emitExpr(a.Value)
		n++
	}

	switch e.site.Kind {
	case bytecode.CallSiteScope:
		op := bytecode.OpCall
		if e.isMemo {
			op = bytecode.OpCallMemo
		}
		c.emit(bytecode.Instruction{Op: op, Scope: e.site.Scope, Args: n})
	case bytecode.CallSiteModule:
		c.emit(bytecode.Instruction{Op: bytecode.OpCallModule, ModuleID: e.site.Module, FuncName: e.site.Func, Args: n})
	case bytecode.CallSiteVMModule:
		op := bytecode.OpCallExtension
		if e.selfMutable {
			op = bytecode.OpCallMutableExtension
		}
		c.emit(bytecode.Instruction{Op: op, ModuleID: e.site.Module, FuncName: e.site.Func, Args: n})
	}
}
