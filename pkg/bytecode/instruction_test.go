package bytecode

import (
	"testing"

	"github.com/rigz-lang/rigz/pkg/snapshot"
	"github.com/rigz-lang/rigz/pkg/types"
	"github.com/rigz-lang/rigz/pkg/value"
)

func roundTrip(t *testing.T, ins Instruction) Instruction {
	t.Helper()
	w := snapshot.NewWriter()
	if err := ins.Encode(w); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(snapshot.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return got
}

func TestInstructionSnapshotRoundTrip(t *testing.T) {
	cases := []Instruction{
		{Op: OpHalt},
		{Op: OpPop, Args: 1},
		{Op: OpUnary, Unary: value.OpNeg},
		{Op: OpBinary, Binary: value.OpAdd},
		{Op: OpLoad, Load: LoadValue{Kind: LoadInline, Value: value.IntV(7)}},
		{Op: OpLoad, Load: LoadValue{Kind: LoadConstant, Constant: 3}},
		{Op: OpLoad, Load: LoadValue{Kind: LoadScopeID, ScopeID: 2}},
		{Op: OpInstanceGet, Flag: true},
		{Op: OpIfElse, Scope: 1, ElseScope: 2},
		{Op: OpGoto, Scope: 0, Index: 5},
		{Op: OpCallModule, ModuleID: 1, FuncName: "concat", Args: 2},
		{Op: OpCast, TypeName: "Number"},
		{Op: OpCreateEnum, EnumType: 0, Variant: 1, HasFlag: true},
		{Op: OpGetVariable, Var: 4},
		{
			Op: OpCallMatching,
			Overloads: []Overload{
				{Args: []Arg{{Kind: ArgType, Type: types.Int}}, Site: CallSite{Kind: CallSiteScope, Scope: 3}},
				{Args: []Arg{{Kind: ArgValue, Value: value.IntV(0)}}, Site: CallSite{Kind: CallSiteModule, Module: 1, Func: "f"}},
			},
		},
		{
			Op: OpCallMatchingSelf,
			SelfOverloads: []SelfOverload{
				{Self: Arg{Kind: ArgType, Type: types.List(types.Any)}, Args: nil, Site: CallSite{Kind: CallSiteVMModule, Module: 2, Func: "sum"}},
			},
		},
		{
			Op: OpMatch,
			MatchArms: []MatchArm{
				{Kind: MatchArmEnum, A: 0, B: 1, BodyScope: 4},
				{Kind: MatchArmElse, A: 5},
			},
		},
		{Op: OpAddInstruction, Scope: 1, Nested: &Instruction{Op: OpHalt}},
	}
	for i, ins := range cases {
		got := roundTrip(t, ins)
		if got.Op != ins.Op {
			t.Errorf("case %d: Op mismatch got %d want %d", i, got.Op, ins.Op)
		}
	}
}

func TestMatchArgsPicksFirstSatisfying(t *testing.T) {
	overloads := []Overload{
		{Args: []Arg{{Kind: ArgType, Type: types.Int}, {Kind: ArgType, Type: types.Int}}, Site: CallSite{Kind: CallSiteScope, Scope: 1}},
		{Args: []Arg{{Kind: ArgType, Type: types.Str}}, Site: CallSite{Kind: CallSiteScope, Scope: 2}},
	}
	idx, ok := MatchArgs([]value.ObjectValue{value.StringV("x")}, overloads)
	if !ok {
		t.Fatal("expected a match")
	}
	if idx != 0 {
		t.Fatalf("expected overload 0 (shorter call satisfies 2-arg overload too), got %d", idx)
	}
}

func TestMatchSelfArgsReceiverType(t *testing.T) {
	overloads := []SelfOverload{
		{Self: Arg{Kind: ArgType, Type: types.Str}, Args: nil, Site: CallSite{Kind: CallSiteModule, Module: 0, Func: "strfn"}},
		{Self: Arg{Kind: ArgType, Type: types.List(types.Any)}, Args: nil, Site: CallSite{Kind: CallSiteModule, Module: 1, Func: "listfn"}},
	}
	idx, ok := MatchSelfArgs(value.ListV([]value.ObjectValue{value.IntV(1)}), nil, overloads)
	if !ok || idx != 1 {
		t.Fatalf("expected list overload (index 1), got idx=%d ok=%v", idx, ok)
	}
}

func TestMatchSelfArgsAnyMatchesEverything(t *testing.T) {
	overloads := []SelfOverload{
		{Self: Arg{Kind: ArgType, Type: types.Any}, Args: nil, Site: CallSite{Kind: CallSiteScope, Scope: 0}},
	}
	idx, ok := MatchSelfArgs(value.IntV(1), nil, overloads)
	if !ok || idx != 0 {
		t.Fatalf("expected Any overload to match Int self, got idx=%d ok=%v", idx, ok)
	}
}

func TestScopeEmitReturnsIndex(t *testing.T) {
	s := NewScope("test")
	i0 := s.Emit(Instruction{Op: OpHalt})
	i1 := s.Emit(Instruction{Op: OpPop})
	if i0 != 0 || i1 != 1 {
		t.Fatalf("expected sequential indices 0,1 got %d,%d", i0, i1)
	}
	if len(s.Instructions) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(s.Instructions))
	}
}
