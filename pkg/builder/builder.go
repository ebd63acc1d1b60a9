// Package builder is the embedder surface (§6.4): the object a host
// program constructs once, registers modules/enums/dependencies and VM
// options against, and then either compiles Rigz source through or appends
// bytecode to directly, before calling Build/Eval/EvalWithin. It is the one
// stage spec.md §1 places outside the "hard part" pipeline but still inside
// the core (the CLI/REPL driver that would sit on top of this is what's
// actually out of scope).
package builder

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/rigz-lang/rigz/pkg/bytecode"
	"github.com/rigz-lang/rigz/pkg/compiler"
	"github.com/rigz-lang/rigz/pkg/module"
	"github.com/rigz-lang/rigz/pkg/parser"
	"github.com/rigz-lang/rigz/pkg/value"
	"github.com/rigz-lang/rigz/pkg/vm"
)

// Option configures a Builder before any module registration or source is
// fed to it, mirroring pkg/vm's own functional-option pattern (itself
// grounded on ngaro's vm.Option).
type Option func(*Builder)

// MaxDepth overrides the call-frame depth the built VM aborts at (§5).
func MaxDepth(n int) Option { return func(b *Builder) { b.vmOpts = append(b.vmOpts, vm.MaxDepth(n)) } }

// DisableModule keeps name registered (so its trait signatures still drive
// overload resolution) but unreachable at runtime — useful for a host that
// wants compile-time checking against a module without granting the
// program access to it yet (§6.4).
func DisableModule(name string) Option {
	return func(b *Builder) { b.vmOpts = append(b.vmOpts, vm.DisableModule(name)) }
}

// DisableVariableCleanup keeps call frames alive after they return, for
// post-mortem inspection by a REPL or test harness.
func DisableVariableCleanup() Option {
	return func(b *Builder) { b.vmOpts = append(b.vmOpts, vm.DisableVariableCleanup()) }
}

// Logging installs the *zap.Logger the Log instruction writes through.
func Logging(l *zap.Logger) Option { return func(b *Builder) { b.vmOpts = append(b.vmOpts, vm.Logging(l)) } }

// Output sets the writer Display/print write to.
func Output(w io.Writer) Option { return func(b *Builder) { b.vmOpts = append(b.vmOpts, vm.Output(w)) } }

// NoDefaultModules skips auto-registering the core's own exercising
// modules (strings, collections — §6.3's module capability demo), leaving
// the registry empty until the host calls RegisterModule itself.
func NoDefaultModules() Option { return func(b *Builder) { b.skipDefaults = true } }

// Builder is the embedder's entry point (§6.4): register modules/VM
// options, then either Eval(src) for the common source-to-value path, or
// use the lower-level EnterScope/AppendInstruction/ExitScope surface to
// construct a Program's bytecode directly without going through the
// parser at all.
type Builder struct {
	mods         *module.Registry
	known        map[string]module.Module
	vmOpts       []vm.Option
	skipDefaults bool

	prog   *compiler.Program
	active []int // stack of scope ids currently being appended to, for EnterScope/ExitScope
}

// New prepares a Builder, registering the core's demonstration modules
// (§6.3) unless NoDefaultModules() was passed.
func New(opts ...Option) *Builder {
	b := &Builder{mods: module.NewRegistry(), known: map[string]module.Module{}}
	for _, o := range opts {
		o(b)
	}
	if !b.skipDefaults {
		_ = b.RegisterModule(module.StringsModule{})
		_ = b.RegisterModule(module.CollectionsModule{})
	}
	return b
}

// RegisterModule adds m to the registry, resolving any of its declared
// Dependencies against modules already registered with this Builder
// (§6.3's "a module may additionally declare dependencies").
func (b *Builder) RegisterModule(m module.Module) error {
	b.known[m.Name()] = m
	_, err := b.mods.Register(m, func(name string) (module.Module, bool) {
		mm, ok := b.known[name]
		return mm, ok
	})
	return err
}

// RegisterDependency is RegisterModule under §6.3's other name for the same
// capability — a CreateDependency instruction resolves against the same
// module registry a CallModule does, just invoked through its "new"
// function (see pkg/vm's execCreateDependency) instead of a named one.
func (b *Builder) RegisterDependency(m module.Module) error { return b.RegisterModule(m) }

// Modules exposes the underlying registry for lower-level callers (tests,
// a host compiling without a Builder) that need to pass it straight to
// compiler.Compile.
func (b *Builder) Modules() *module.Registry { return b.mods }

// Compile lowers src through the lexer/parser/compiler pipeline against
// this Builder's registered modules, readying it for Build/Eval. Partial
// programs with accumulated diagnostics are kept (§7: "the embedder
// decides whether to execute") — Compile returns the diagnostics as an
// error alongside the (possibly partial) Program rather than discarding
// either.
func (b *Builder) Compile(src string) error {
	astProg, perr := parser.Parse(src)
	prog, cerr := compiler.Compile(astProg, b.mods)
	b.prog = prog
	if perr != nil {
		return errors.WithMessage(perr, "parse error")
	}
	if cerr != nil {
		return errors.WithMessage(cerr, "compile error")
	}
	return nil
}

// EnterScope allocates a fresh bytecode.Scope and makes it the target of
// subsequent AppendInstruction calls, for a host building bytecode
// directly rather than through Rigz source text (§6.4's "scope enter").
// The first EnterScope call implicitly starts the Program if Compile was
// never called.
func (b *Builder) EnterScope(name string, args []bytecode.ScopeArg, self bool) int {
	if b.prog == nil {
		b.prog = &compiler.Program{
			Enums:   map[string]*compiler.EnumDecl{},
			Objects: map[string]*compiler.ObjectDecl{},
			Modules: b.mods,
		}
	}
	scope := bytecode.NewScope(name)
	scope.Args = args
	scope.Self = self
	b.prog.Scopes = append(b.prog.Scopes, scope)
	id := len(b.prog.Scopes) - 1
	b.active = append(b.active, id)
	return id
}

// AppendInstruction emits ins onto the currently-entered scope (§6.4's
// "instructions appended to the current scope"). Panics if no scope is
// active — a programming error on the embedder's part, not a Rigz runtime
// one.
func (b *Builder) AppendInstruction(ins bytecode.Instruction) {
	if len(b.active) == 0 {
		panic("builder: AppendInstruction with no active scope; call EnterScope first")
	}
	top := b.active[len(b.active)-1]
	b.prog.Scopes[top].Emit(ins)
}

// ExitScope pops the active-scope stack (§6.4's "scope exit"), returning to
// whichever scope was being built before the matching EnterScope.
func (b *Builder) ExitScope() {
	if len(b.active) == 0 {
		return
	}
	b.active = b.active[:len(b.active)-1]
}

// CurrentScope is the scope id AppendInstruction currently targets, or -1
// if none is active.
func (b *Builder) CurrentScope() int {
	if len(b.active) == 0 {
		return -1
	}
	return b.active[len(b.active)-1]
}

// TrimTrailingHalt removes a trailing Halt instruction from scope 0, if
// present. The original implementation this port is grounded on does this
// implicitly on the REPL's hot path (feeding each line's compiled tail back
// into a running VM); this port's own compiler never emits an implicit
// Halt in the first place (§9's open question), so this method only
// matters to a host that appended one itself via AppendInstruction and
// later wants a bare value instead of an early-exit.
func (b *Builder) TrimTrailingHalt() {
	if b.prog == nil || len(b.prog.Scopes) == 0 {
		return
	}
	s := b.prog.Scopes[0]
	n := len(s.Instructions)
	if n > 0 && s.Instructions[n-1].Op == bytecode.OpHalt {
		s.Instructions = s.Instructions[:n-1]
	}
}

// Build returns a VM ready to evaluate whatever Compile/EnterScope calls
// have produced so far (§6.4's "build returns a VM").
func (b *Builder) Build() (*vm.VM, error) {
	if b.prog == nil {
		return nil, errors.New("builder: nothing compiled; call Compile or EnterScope first")
	}
	return vm.New(b.prog, b.vmOpts...), nil
}

// Eval compiles src and runs it to completion (§6.4's "eval runs the
// program and returns a value or VMError"). A VMError surfaces as the
// returned ObjectValue (Kind == value.KError), not as the Go error — the Go
// error return is reserved for compile-time failures, consistent with §7's
// split between diagnostics and in-language Error values.
func (b *Builder) Eval(src string) (value.ObjectValue, error) {
	if err := b.Compile(src); err != nil {
		return value.ObjectValue{}, err
	}
	v, err := b.Build()
	if err != nil {
		return value.ObjectValue{}, err
	}
	result, err := v.Eval()
	if err != nil {
		return value.ObjectValue{}, err
	}
	return result, nil
}

// EvalWithin is Eval under a wall-clock budget (§6.4's
// "eval_within(duration) enforces a wall-clock budget"); exceeding it
// surfaces as a TimeoutError value, not a Go error.
func (b *Builder) EvalWithin(src string, budget time.Duration) (value.ObjectValue, error) {
	if err := b.Compile(src); err != nil {
		return value.ObjectValue{}, err
	}
	v, err := b.Build()
	if err != nil {
		return value.ObjectValue{}, err
	}
	result, err := v.EvalWithin(budget)
	if err != nil {
		return value.ObjectValue{}, err
	}
	return result, nil
}
