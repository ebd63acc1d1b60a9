// Package compiler lowers a parsed ast.Program into bytecode.Scopes (§4.3):
// it allocates the numbered scope table, resolves every variable reference
// to an interned slot, builds the per-name overload table that resolves
// calls to a scope, a module function, or a dependency constructor, and
// performs the shape-based overload selection of §4.6.
package compiler

import (
	"fmt"

	"github.com/rigz-lang/rigz/pkg/ast"
	"github.com/rigz-lang/rigz/pkg/bytecode"
	"github.com/rigz-lang/rigz/pkg/module"
	"github.com/rigz-lang/rigz/pkg/types"
	"github.com/rigz-lang/rigz/pkg/value"
)

// EnumDecl is a compiled `enum Name ... end` declaration (§3.3, §4.3).
type EnumDecl struct {
	ID       int
	Name     string
	Variants []string
	Payload  []bool
}

// ObjectDecl is a compiled `object Name ... end` declaration (§3.3).
type ObjectDecl struct {
	Name   string
	Fields []types.Field
}

// Program is the compiler's output: everything pkg/vm needs to run the
// compiled code (§3.4, §3.6, §3.7).
type Program struct {
	Scopes    []*bytecode.Scope
	Constants []value.ObjectValue
	Names     []string // interned variable/function names, indexed by id

	Enums       map[string]*EnumDecl
	EnumsByID   []*EnumDecl
	Objects     map[string]*ObjectDecl
	Modules     *module.Registry
	Exports     []string
	Diagnostics []string // left empty by Compile, which returns its diagnostics as an ErrCompile error
}

// CompileError is one accumulated compile-time diagnostic (§7: "Compile-time
// diagnostics are collected into the Program alongside partial output").
type CompileError struct {
	Msg string
}

func (e CompileError) Error() string { return e.Msg }

// ErrCompile collects every diagnostic raised while lowering the tree.
type ErrCompile []CompileError

func (e ErrCompile) Error() string {
	s := ""
	for i, ce := range e {
		if i > 0 {
			s += "\n"
		}
		s += ce.Error()
	}
	return s
}

// overloadEntry is one candidate registered under a function name (§4.3's
// overload table: "Entries hold (signature, callsite)").
type overloadEntry struct {
	self         *types.RigzType
	selfMutable  bool
	paramNames   []string
	paramTypes   []types.RigzType
	varArgsStart int
	site         bytecode.CallSite
	isMemo       bool
}

// Compiler walks a Program and emits bytecode.Scopes.
type Compiler struct {
	prog *Program

	nameIDs map[string]int

	scopeStack []int
	envStack   []map[string]bool // name -> mutable, per active scope for lexical var resolution

	overloads map[string][]overloadEntry

	tempCounter int

	errs ErrCompile
}

// New prepares a Compiler with mods already registered (§6.3: "Modules are
// registered before compilation begins").
func New(mods *module.Registry) *Compiler {
	c := &Compiler{
		prog: &Program{
			Enums:   map[string]*EnumDecl{},
			Objects: map[string]*ObjectDecl{},
			Modules: mods,
		},
		nameIDs:   map[string]int{},
		overloads: map[string][]overloadEntry{},
	}
	c.prog.Scopes = append(c.prog.Scopes, bytecode.NewScope("main"))
	c.pushEnv()
	c.registerModuleSignatures()
	return c
}

// Compile lowers prog into scope 0 plus any scopes its functions/blocks
// allocate (§3.4: "Scope 0 is the top-level program"). Diagnostics
// accumulated during compilation are returned as a non-nil error but do not
// prevent Program from being returned for partial execution, mirroring the
// parser's own accumulate-and-continue discipline (§7).
func Compile(prog *ast.Program, mods *module.Registry) (*Program, error) {
	c := New(mods)
	return c.CompileProgram(prog)
}

// CompileProgram hoists every function/trait/impl/enum/object declaration
// first (so forward and recursive calls resolve), then lowers the
// remaining top-level elements as one block whose final expression's value
// becomes the program's own result (§4.2's implicit-last-expression rule
// applies at the top level exactly as inside any other block).
func (c *Compiler) CompileProgram(prog *ast.Program) (*Program, error) {
	c.hoistDefs(prog.Elements, 0)

	var body []ast.Element
	for _, el := range prog.Elements {
		switch el.(type) {
		case *ast.FunctionDef, *ast.TraitDef, *ast.ImplDef, *ast.EnumDef, *ast.ObjectDef:
			// already lowered by hoistDefs
		default:
			body = append(body, el)
		}
	}
	c.emitBlockBody(body)
	c.mainScope().Emit(bytecode.Instruction{Op: bytecode.OpRet})
	if len(c.errs) > 0 {
		return c.prog, c.errs
	}
	return c.prog, nil
}

func (c *Compiler) err(format string, args ...any) {
	c.errs = append(c.errs, CompileError{Msg: fmt.Sprintf(format, args...)})
}

// intern assigns a stable integer id to name, reusing the same id for every
// later reference (§3.6: "a separate append-only vector interns variable
// and function names").
func (c *Compiler) intern(name string) int {
	if id, ok := c.nameIDs[name]; ok {
		return id
	}
	id := len(c.prog.Names)
	c.prog.Names = append(c.prog.Names, name)
	c.nameIDs[name] = id
	return id
}

func (c *Compiler) addConstant(v value.ObjectValue) int {
	c.prog.Constants = append(c.prog.Constants, v)
	return len(c.prog.Constants) - 1
}

func (c *Compiler) curScopeID() int { return c.scopeStack[len(c.scopeStack)-1] }

func (c *Compiler) curScope() *bytecode.Scope { return c.prog.Scopes[c.curScopeID()] }

func (c *Compiler) mainScope() *bytecode.Scope { return c.prog.Scopes[0] }

func (c *Compiler) emit(ins bytecode.Instruction) int { return c.curScope().Emit(ins) }

// allocScope allocates a new scope and makes it current for the duration of
// fn, restoring the previous scope afterward (§3.4: "allocated on first
// encounter of a function body, lambda, block expression, or control
// structure that needs isolated locals").
func (c *Compiler) allocScope(name string, fn func(id int)) int {
	s := bytecode.NewScope(name)
	id := len(c.prog.Scopes)
	c.prog.Scopes = append(c.prog.Scopes, s)
	c.scopeStack = append(c.scopeStack, id)
	c.pushEnv()
	fn(id)
	c.popEnv()
	c.scopeStack = c.scopeStack[:len(c.scopeStack)-1]
	return id
}

func (c *Compiler) pushEnv() { c.envStack = append(c.envStack, map[string]bool{}) }
func (c *Compiler) popEnv()  { c.envStack = c.envStack[:len(c.envStack)-1] }

// declareVar records name as visible (and its mutability) in the current
// lexical env, returning its interned id.
func (c *Compiler) declareVar(name string, mutable bool) int {
	id := c.intern(name)
	c.envStack[len(c.envStack)-1][name] = mutable
	return id
}

// lookupVar walks the env stack from innermost outward (lexical scoping
// mirroring the runtime CallFrame parent-chain lookup, §3.5), reporting
// whether name is mutable if found.
func (c *Compiler) lookupVar(name string) (mutable bool, ok bool) {
	for i := len(c.envStack) - 1; i >= 0; i-- {
		if m, found := c.envStack[i][name]; found {
			return m, true
		}
	}
	return false, false
}
