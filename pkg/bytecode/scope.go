package bytecode

import "github.com/rigz-lang/rigz/pkg/value"

// LifecycleKind tags what, if anything, wraps a Scope's invocation: a test
// runner entry, a memoization cache, or an @on event subscription (§3.4).
type LifecycleKind uint8

const (
	LifecycleNone LifecycleKind = iota
	LifecycleTest
	LifecycleMemo
	LifecycleOn
	LifecycleComposite
)

// Lifecycle decorates a Scope the way ast.Lifecycle decorates a FunctionDef
// before compilation folds the two together.
type Lifecycle struct {
	Kind  LifecycleKind
	Event string // LifecycleOn's subscribed event name
}

// ScopeArg is one declared parameter: its interned name, whether the
// binding inside the scope is mutable, and — for §4.6's "unresolved
// positions must have defaults" — the constant-folded default pushed when
// a call supplies fewer positional arguments than this scope declares.
type ScopeArg struct {
	Name       string
	Mutable    bool
	HasDefault bool
	Default    value.ObjectValue
}

// Scope is a compiled function/lambda/block body: a flat instruction list
// plus enough metadata for the VM to set up a CallFrame over it (§3.4).
// Scope 0 is always the top-level program; every other scope is allocated
// the first time the compiler encounters a function body, lambda, block
// expression, or control structure that needs isolated locals.
type Scope struct {
	Name         string
	Instructions []Instruction
	Args         []ScopeArg
	Self         bool
	SelfMutable  bool
	VarArgsStart int // -1 if Args has no variadic tail
	Lifecycle    Lifecycle
}

// NewScope allocates an empty named scope.
func NewScope(name string) *Scope {
	return &Scope{Name: name, VarArgsStart: -1}
}

// Emit appends an instruction and returns its index within the scope. The
// compiler does not use the index: If/Unless/IfElse name separate scopes
// rather than jump targets.
func (s *Scope) Emit(ins Instruction) int {
	s.Instructions = append(s.Instructions, ins)
	return len(s.Instructions) - 1
}
