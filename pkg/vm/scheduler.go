package vm

import (
	"github.com/rigz-lang/rigz/pkg/bytecode"
	"github.com/rigz-lang/rigz/pkg/value"
)

// schedTask is one spawned-or-dispatched unit of work (§3.5, §5): a scope
// to run plus the receiver/args it closes over. Tasks are lazy — a task
// created by `spawn`/`send` does not run until something `receive`s its id
// — since the VM has exactly one operand stack and §5's "single
// interleaving" guarantee only requires that no task observe another's
// partially-updated state, not that spawned work run eagerly.
type schedTask struct {
	scopeID int
	args    []value.ObjectValue
	self    *value.ObjectValue
	ran     bool
	result  value.ObjectValue
}

// scheduler implements the cooperative, single-threaded concurrency
// primitives (§3.5: spawn/send/receive/@on) as a table of lazily-run tasks
// identified by an integer pid, the same shape `send`'s "returns the list
// of task ids" and `receive pids.0` index into. A task's body runs
// synchronously inside whichever `receive` first demands its result, which
// reproduces every observable effect of a real scheduler without OS
// threads: the VM has one stack and one frame chain at a time, exactly as
// §5 requires.
type scheduler struct {
	vm         *VM
	tasks      map[int]*schedTask
	nextID     int
	onHandlers map[string][]int // event name -> scope ids, in @on registration order
}

func newScheduler(v *VM) *scheduler {
	s := &scheduler{
		vm:         v,
		tasks:      map[int]*schedTask{},
		onHandlers: map[string][]int{},
	}
	for id, sc := range v.prog.Scopes {
		if sc.Lifecycle.Kind == bytecode.LifecycleOn {
			s.onHandlers[sc.Lifecycle.Event] = append(s.onHandlers[sc.Lifecycle.Event], id)
		}
	}
	return s
}

// newTask registers scopeID to run lazily and returns its pid.
func (s *scheduler) newTask(scopeID int, args []value.ObjectValue, self *value.ObjectValue) int {
	id := s.nextID
	s.nextID++
	s.tasks[id] = &schedTask{scopeID: scopeID, args: args, self: self}
	return id
}

// spawn schedules scopeID with no receiver/args, mirroring `spawn do ... end`
// (§4.4's Spawn instruction); returns the new task's pid.
func (s *scheduler) spawn(scopeID int) int {
	return s.newTask(scopeID, nil, nil)
}

// dispatch fires every `@on(event)` handler registered for event, in
// registration order (§5's ordering guarantee), and returns their pids in
// that same order — `send`'s return value.
func (s *scheduler) dispatch(event string, payload []value.ObjectValue) []int {
	ids := s.onHandlers[event]
	pids := make([]int, len(ids))
	for i, scopeID := range ids {
		pids[i] = s.newTask(scopeID, payload, nil)
	}
	return pids
}

// taskTimeout is panicked by the Sleep instruction when the running task's
// accumulated simulated sleep exceeds the budget a `receive` call armed;
// runOne recovers it into a TimeoutError result rather than letting it
// escape into the program's own error handling.
type taskTimeout struct{}

// runOne runs (or returns the cached result of) the task identified by id,
// under an optional millisecond timeout budget armed against every Sleep
// instruction the task (or anything it calls) executes. A task that has
// already run returns its cached result unconditionally — receiving the
// same pid twice observes the same outcome, matching ordinary
// run-once-memoized-future semantics for a completed task.
func (s *scheduler) runOne(id int, timeoutMs *int64) value.ObjectValue {
	t, ok := s.tasks[id]
	if !ok {
		return value.ErrorV(value.NewRuntime("no task with id %d", id))
	}
	if t.ran {
		return t.result
	}

	prevBudget := s.vm.sleepBudget
	if timeoutMs != nil {
		budget := *timeoutMs
		s.vm.sleepBudget = &budget
	} else {
		s.vm.sleepBudget = nil
	}

	result := s.runGuarded(t)

	s.vm.sleepBudget = prevBudget
	t.ran = true
	t.result = result
	return result
}

func (s *scheduler) runGuarded(t *schedTask) (result value.ObjectValue) {
	depth := len(s.vm.frames)
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(taskTimeout); ok {
				s.vm.frames = s.vm.frames[:depth]
				result = value.ErrorV(value.NewTimeout("`receive` timed out waiting for task"))
				return
			}
			panic(r)
		}
	}()
	return s.vm.runScope(t.scopeID, t.args, t.self, nil)
}
