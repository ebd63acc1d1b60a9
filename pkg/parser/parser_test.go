package parser

import (
	"testing"

	"github.com/rigz-lang/rigz/pkg/ast"
)

func TestParseSimpleArithmetic(t *testing.T) {
	prog, err := Parse("2 + 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(prog.Elements))
	}
	stmt, ok := prog.Elements[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", prog.Elements[0])
	}
	bin, ok := stmt.Expr.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr, got %T", stmt.Expr)
	}
	if bin.Op != "+" {
		t.Errorf("got op %q, want %q", bin.Op, "+")
	}
}

func TestParseMutAndCompoundAssign(t *testing.T) {
	prog, err := Parse("mut a = 4\na += 2\na")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(prog.Elements))
	}
	decl, ok := prog.Elements[0].(*ast.BindingStmt)
	if !ok || !decl.Mutable || !decl.Declare {
		t.Fatalf("expected mutable declaring binding, got %#v", prog.Elements[0])
	}
	reassign, ok := prog.Elements[1].(*ast.BindingStmt)
	if !ok || reassign.Declare || reassign.Op != "+=" {
		t.Fatalf("expected compound reassignment, got %#v", prog.Elements[1])
	}
}

func TestParseTupleDestructure(t *testing.T) {
	prog, err := Parse("(first, rest) = [1,2,3].split_first\nfirst + rest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decl, ok := prog.Elements[0].(*ast.BindingStmt)
	if !ok {
		t.Fatalf("expected BindingStmt, got %T", prog.Elements[0])
	}
	if len(decl.Target.Names) != 2 {
		t.Fatalf("expected 2-name tuple target, got %v", decl.Target.Names)
	}
}

func TestParseMemoizedFibonacci(t *testing.T) {
	src := `
@memo
fn fib(n: Number) -> Number
  if n <= 1 then n else fib(n-1) + fib(n-2) end
end
fib 10
`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fn, ok := prog.Elements[0].(*ast.FunctionDef)
	if !ok {
		t.Fatalf("expected FunctionDef, got %T", prog.Elements[0])
	}
	if fn.Lifecycle.Kind != ast.LifecycleMemo {
		t.Errorf("expected memo lifecycle, got %v", fn.Lifecycle.Kind)
	}
	if fn.Name != "fib" {
		t.Errorf("got name %q", fn.Name)
	}
	call, ok := prog.Elements[1].(*ast.ExprStmt).Expr.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected bare call expr, got %T", prog.Elements[1])
	}
	if call.Callee != "fib" || len(call.Args) != 1 {
		t.Fatalf("expected fib(10) bare call, got %#v", call)
	}
}

func TestParseOnDispatch(t *testing.T) {
	src := `
@on("m") fn foo(a) = a * 2
pids = send 'm', 21
receive pids.0
`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fn, ok := prog.Elements[0].(*ast.FunctionDef)
	if !ok {
		t.Fatalf("expected FunctionDef, got %T", prog.Elements[0])
	}
	if fn.Lifecycle.Kind != ast.LifecycleOn || fn.Lifecycle.Event != "m" {
		t.Fatalf("expected on(\"m\") lifecycle, got %#v", fn.Lifecycle)
	}
}

func TestParseErrorsAccumulate(t *testing.T) {
	_, err := Parse("let = \n")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if _, ok := err.(ErrParse); !ok {
		t.Fatalf("expected ErrParse, got %T", err)
	}
}
