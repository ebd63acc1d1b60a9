package compiler

import (
	"testing"

	"github.com/rigz-lang/rigz/pkg/bytecode"
	"github.com/rigz-lang/rigz/pkg/module"
	"github.com/rigz-lang/rigz/pkg/parser"
)

func compileSrc(t *testing.T, src string, mods *module.Registry) *Program {
	t.Helper()
	astProg, perr := parser.Parse(src)
	if perr != nil {
		t.Fatalf("parse error: %v", perr)
	}
	prog, cerr := Compile(astProg, mods)
	if cerr != nil {
		t.Fatalf("compile error: %v", cerr)
	}
	return prog
}

func lastOp(t *testing.T, scope *bytecode.Scope) bytecode.Op {
	t.Helper()
	if len(scope.Instructions) == 0 {
		t.Fatal("scope has no instructions")
	}
	return scope.Instructions[len(scope.Instructions)-1].Op
}

func opsOf(scope *bytecode.Scope) []bytecode.Op {
	out := make([]bytecode.Op, len(scope.Instructions))
	for i, ins := range scope.Instructions {
		out[i] = ins.Op
	}
	return out
}

func containsOp(ops []bytecode.Op, want bytecode.Op) bool {
	for _, o := range ops {
		if o == want {
			return true
		}
	}
	return false
}

func TestCompileArithmeticEmitsBinary(t *testing.T) {
	prog := compileSrc(t, "1 + 2", nil)
	ops := opsOf(prog.Scopes[0])
	if !containsOp(ops, bytecode.OpBinary) {
		t.Fatalf("expected OpBinary in %v", ops)
	}
	// implicit top-level return.
	if lastOp(t, prog.Scopes[0]) != bytecode.OpRet {
		t.Fatalf("expected trailing OpRet, got %v", ops)
	}
}

func TestCompileFunctionDefAllocatesScope(t *testing.T) {
	prog := compileSrc(t, `
fn add(a, b)
  a + b
end
add(1, 2)
`, nil)
	if len(prog.Scopes) < 2 {
		t.Fatalf("expected a scope for add's body in addition to main, got %d scopes", len(prog.Scopes))
	}
	ops := opsOf(prog.Scopes[0])
	if !containsOp(ops, bytecode.OpCall) {
		t.Fatalf("single-overload call should resolve statically to OpCall, got %v", ops)
	}
}

func TestCompileOverloadedFunctionEmitsCallMatching(t *testing.T) {
	prog := compileSrc(t, `
fn greet(name: String)
  name
end
fn greet(id: Number)
  id
end
greet("a")
`, nil)
	ops := opsOf(prog.Scopes[0])
	if !containsOp(ops, bytecode.OpCallMatching) {
		t.Fatalf("two overloads of greet should defer to OpCallMatching, got %v", ops)
	}
}

func TestCompileBuiltinTaskCalls(t *testing.T) {
	prog := compileSrc(t, `
let pid = spawn do
  1
end
send(pid, "go")
receive(pid)
sleep(5)
`, nil)
	ops := opsOf(prog.Scopes[0])
	for _, want := range []bytecode.Op{bytecode.OpSpawn, bytecode.OpSend, bytecode.OpReceive, bytecode.OpSleep} {
		if !containsOp(ops, want) {
			t.Errorf("expected %v among emitted ops %v", want, ops)
		}
	}
}

func TestCompileModuleExtensionCall(t *testing.T) {
	mods := module.NewRegistry()
	if _, err := mods.Register(module.StringsModule{}, nil); err != nil {
		t.Fatalf("register strings module: %v", err)
	}
	prog := compileSrc(t, `"hi".upper`, mods)
	ops := opsOf(prog.Scopes[0])
	if !containsOp(ops, bytecode.OpCallExtension) {
		t.Fatalf("expected OpCallExtension for module extension dispatch, got %v", ops)
	}
}

func TestCompileModuleMutableExtensionCall(t *testing.T) {
	mods := module.NewRegistry()
	if _, err := mods.Register(module.StringsModule{}, nil); err != nil {
		t.Fatalf("register strings module: %v", err)
	}
	prog := compileSrc(t, `
mut s = "foo"
s.push_str("bar")
`, mods)
	ops := opsOf(prog.Scopes[0])
	if !containsOp(ops, bytecode.OpCallMutableExtension) {
		t.Fatalf("expected OpCallMutableExtension for mutable extension dispatch, got %v", ops)
	}
}

func TestCompileTupleNumericFieldAccess(t *testing.T) {
	// §8's split_first-style destructuring and pid.0 message-passing access
	// both rely on `.0` compiling to an Int index, not a String key.
	prog := compileSrc(t, `
let t = (1, 2)
t.0
`, nil)
	ops := opsOf(prog.Scopes[0])
	if !containsOp(ops, bytecode.OpInstanceGet) {
		t.Fatalf("expected OpInstanceGet for tuple field access, got %v", ops)
	}
}

func TestCompileUnresolvedCallRecordsDiagnostic(t *testing.T) {
	astProg, perr := parser.Parse("nonexistent_fn(1)")
	if perr != nil {
		t.Fatalf("parse error: %v", perr)
	}
	_, cerr := Compile(astProg, nil)
	if cerr == nil {
		t.Fatal("expected a compile diagnostic for an unresolved call")
	}
}
