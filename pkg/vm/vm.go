// Package vm executes a compiled compiler.Program (§3.4-§3.7): the operand
// stack, the CallFrame chain, and the cooperative scheduler backing
// spawn/send/receive/@on. Its Instance/Option shape and panic-recovering Run
// loop are grounded directly on ngaro's vm.Instance/vm.Option/Run.
package vm

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/rigz-lang/rigz/pkg/bytecode"
	"github.com/rigz-lang/rigz/pkg/compiler"
	"github.com/rigz-lang/rigz/pkg/value"
)

const defaultMaxDepth = 1024

// Option configures a VM before it starts running, mirroring ngaro's
// functional Option pattern (type Option func(*Instance) error).
type Option func(*VM)

// MaxDepth overrides the call-frame depth at which the VM aborts with a
// stack-overflow RuntimeError (§4.4's Call instructions recurse through
// runScope; the teacher's own address stack is similarly bounded).
func MaxDepth(n int) Option {
	return func(v *VM) { v.maxDepth = n }
}

// DisableModule removes name from the set of modules CallModule/
// CallExtension may reach, even if the builder registered it (§6.4).
func DisableModule(name string) Option {
	return func(v *VM) { v.disabledModules[name] = true }
}

// DisableVariableCleanup keeps a block's locals alive in their frame after
// the block returns instead of letting the frame be garbage collected
// immediately, useful for post-mortem inspection in tests and the REPL.
func DisableVariableCleanup() Option {
	return func(v *VM) { v.keepFrames = true }
}

// Logging installs the *zap.Logger the Log instruction writes through.
func Logging(l *zap.Logger) Option {
	return func(v *VM) { v.logger = l }
}

// Output sets the writer Display/print-family unary operators write to.
func Output(w io.Writer) Option {
	return func(v *VM) { v.out = w }
}

// VM runs one compiler.Program to completion. It is not safe for concurrent
// use by multiple goroutines: "concurrency" within a program is the
// single-threaded cooperative scheduler in scheduler.go, not OS threads.
type VM struct {
	prog *compiler.Program

	stack  []value.ObjectValue
	frames []*CallFrame

	maxDepth   int
	keepFrames bool

	logger *zap.Logger
	out    io.Writer

	memo map[memoKey]value.ObjectValue

	disabledModules map[string]bool

	sched *scheduler

	deadline time.Time
	hasDeadline bool

	// sleepBudget is armed by the scheduler while running a task under a
	// `receive ..., timeoutMs` deadline (§5's Cancellation rule); the Sleep
	// instruction decrements it and panics taskTimeout{} on exhaustion.
	// Nil outside of a timed receive, so ordinary top-level `sleep` is a
	// no-op rather than a real wall-clock pause (§5: "single interleaving").
	sleepBudget *int64
}

// New builds a VM ready to evaluate prog (§6.4's build() step).
func New(prog *compiler.Program, opts ...Option) *VM {
	v := &VM{
		prog:            prog,
		maxDepth:        defaultMaxDepth,
		logger:          zap.NewNop(),
		out:             os.Stdout,
		memo:            map[memoKey]value.ObjectValue{},
		disabledModules: map[string]bool{},
	}
	for _, opt := range opts {
		opt(v)
	}
	v.sched = newScheduler(v)
	return v
}

// Eval runs scope 0 (the top-level program) to completion and returns its
// final value (§3.4: "Scope 0 is the top-level program").
func (v *VM) Eval() (result value.ObjectValue, err error) {
	return v.EvalWithin(0)
}

// EvalWithin runs scope 0 under a wall-clock budget (§6.4's
// eval_within(duration)); a zero budget means no deadline.
func (v *VM) EvalWithin(budget time.Duration) (result value.ObjectValue, err error) {
	if budget > 0 {
		v.deadline = time.Now().Add(budget)
		v.hasDeadline = true
	}
	defer func() {
		if r := recover(); r != nil {
			switch sig := r.(type) {
			case ctrlSignal:
				result = sig.val
				return
			case vmPanic:
				if ve, ok := sig.err.(value.VMError); ok {
					result = value.ErrorV(ve)
					return
				}
				err = errors.WithStack(sig.err)
				return
			default:
				err = errors.Errorf("rigz: internal error: %v", r)
			}
		}
	}()
	result = v.runScope(0, nil, nil, nil)
	return result, nil
}

// vmPanic carries a runtime VMError up through Go's panic/recover machinery
// (ngaro's Run does the same thing with errors.Errorf over a bare panic,
// §"defer recover" in vm/run.go).
type vmPanic struct{ err error }

func (v *VM) fail(e value.VMError) {
	panic(vmPanic{err: e})
}

func (v *VM) push(o value.ObjectValue) { v.stack = append(v.stack, o) }

func (v *VM) pop() value.ObjectValue {
	if len(v.stack) == 0 {
		v.fail(value.NewEmptyStack("pop from empty stack"))
	}
	n := len(v.stack) - 1
	o := v.stack[n]
	v.stack = v.stack[:n]
	return o
}

func (v *VM) popN(n int) []value.ObjectValue {
	out := make([]value.ObjectValue, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = v.pop()
	}
	return out
}

func (v *VM) peek() value.ObjectValue {
	if len(v.stack) == 0 {
		v.fail(value.NewEmptyStack("peek at empty stack"))
	}
	return v.stack[len(v.stack)-1]
}

func (v *VM) scope(id int) *bytecode.Scope {
	if id < 0 || id >= len(v.prog.Scopes) {
		v.fail(value.NewScopeDoesNotExist("scope %d does not exist", id))
	}
	return v.prog.Scopes[id]
}

func (v *VM) checkDeadline() {
	if v.hasDeadline && time.Now().After(v.deadline) {
		v.fail(value.NewTimeout("evaluation exceeded its time budget"))
	}
}

// stderrWriter routes EPrint/EPrintLn/eprint display output to the process
// stderr regardless of what Output() installed for stdout-style writes.
type stderrWriter struct{}

func (stderrWriter) Write(p []byte) (int, error) { return os.Stderr.Write(p) }
