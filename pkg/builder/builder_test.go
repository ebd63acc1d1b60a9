package builder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigz-lang/rigz/pkg/bytecode"
	"github.com/rigz-lang/rigz/pkg/value"
)

// These exercise every §8 worked scenario end to end through the full
// lexer/parser/compiler/vm pipeline, the way a host embedding this module
// would: source text in, value out.

func TestEval_S1_Arithmetic(t *testing.T) {
	v, err := New().Eval("2 + 2")
	require.NoError(t, err)
	assert.Equal(t, value.IntV(4), v)
}

func TestEval_S2_ListSum(t *testing.T) {
	v, err := New().Eval("[1,2,3].sum")
	require.NoError(t, err)
	assert.Equal(t, value.IntV(6), v)
}

func TestEval_S3_MutCompoundAssign(t *testing.T) {
	v, err := New().Eval("mut a = 4\na += 2\na")
	require.NoError(t, err)
	assert.Equal(t, value.IntV(6), v)
}

func TestEval_S4_SplitFirstConsBack(t *testing.T) {
	v, err := New().Eval("(first, rest) = [1,2,3].split_first\nfirst + rest")
	require.NoError(t, err)
	assert.Equal(t, value.ListV([]value.ObjectValue{value.IntV(1), value.IntV(2), value.IntV(3)}), v)
}

func TestEval_S5_MemoizedFibonacci(t *testing.T) {
	src := `
@memo
fn fib(n: Number) -> Number
  if n <= 1 then n else fib(n-1) + fib(n-2) end
end
fib 10
`
	v, err := New().Eval(src)
	require.NoError(t, err)
	assert.Equal(t, value.IntV(55), v)
}

func TestEval_S6_OnSendReceive(t *testing.T) {
	src := `
@on("m") fn foo(a) = a * 2
pids = send 'm', 21
receive pids.0
`
	v, err := New().Eval(src)
	require.NoError(t, err)
	assert.Equal(t, value.IntV(42), v)
}

func TestEval_S7_ReceiveTimeout(t *testing.T) {
	src := `
@on("m") fn foo(a)
  sleep 1
  a * 2
end
pids = send 'm', 21
receive pids.0, 0
`
	v, err := New().Eval(src)
	require.NoError(t, err)
	require.Equal(t, value.KError, v.Kind)
	assert.Equal(t, value.TimeoutError, v.Err.Kind)
	assert.Contains(t, v.Err.Message, "`receive` timed out")
}

// Memoization (§8 property 6): the body runs at most once per argument
// tuple, observable by counting recursive self-calls through a non-memoized
// companion function and comparing to the memoized call count below would
// require instrumentation this black-box test doesn't have access to; the
// fib(10) timing/identity in S5 already proves the cached branch is taken
// (a non-memoized naive fib(10) is still cheap enough that this alone isn't
// conclusive, so this test instead calls fib twice on the same input and
// relies on the result being stable and the program not diverging within
// the deadline below for a deeper n).
func TestEval_Memo_RepeatedCallsStayFast(t *testing.T) {
	src := `
@memo
fn fib(n: Number) -> Number
  if n <= 1 then n else fib(n-1) + fib(n-2) end
end
fib(30)
fib(30)
`
	v, err := New().EvalWithin(src, 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, value.IntV(832040), v)
}

func TestEval_CompileError_SurfacesDiagnostic(t *testing.T) {
	_, err := New().Eval("let = ")
	require.Error(t, err)
}

func TestEval_UnhandledError_SurfacesAsErrorValue(t *testing.T) {
	v, err := New().Eval("1 / 0")
	require.NoError(t, err)
	assert.Equal(t, value.KError, v.Kind)
}

func TestBuilder_HandWrittenBytecode(t *testing.T) {
	b := New()
	b.EnterScope("main", nil, false)
	// Equivalent to compiling "2 + 2" by hand via the low-level scope API
	// (§6.4's "instructions appended to the current scope").
	two := bytecode.LoadValue{Kind: bytecode.LoadInline, Value: value.IntV(2)}
	b.AppendInstruction(bytecode.Instruction{Op: bytecode.OpLoad, Load: two})
	b.AppendInstruction(bytecode.Instruction{Op: bytecode.OpLoad, Load: two})
	b.AppendInstruction(bytecode.Instruction{Op: bytecode.OpBinary, Binary: value.OpAdd})
	b.AppendInstruction(bytecode.Instruction{Op: bytecode.OpRet})
	prog, err := b.Build()
	require.NoError(t, err)
	require.NotNil(t, prog)
}

func TestBuilder_DisableModule_BlocksCallAtRuntime(t *testing.T) {
	b := New(DisableModule("collections"))
	v, err := b.Eval("[1,2,3].sum")
	require.NoError(t, err)
	assert.Equal(t, value.KError, v.Kind)
}
