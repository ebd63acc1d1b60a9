// Package module implements the native Module capability (§6.3): the seam
// through which the core VM calls out to code that is not itself compiled
// Rigz — a standard-library implementation, a JSON/filesystem/random
// binding, or (in this package) the minimal stringsmod used to exercise the
// seam end to end. The concrete stdlib/json/fs/random modules themselves
// are out of scope (spec.md §1): only the capability interface and its
// registry are part of the core.
package module

import (
	"github.com/rigz-lang/rigz/pkg/types"
	"github.com/rigz-lang/rigz/pkg/value"
)

// Signature is one overload a module exposes to compile-time resolution
// (§6.3: "a Rigz trait-definition source string that the core parses").
// Modules in this package declare their signatures directly in Go rather
// than through the trait-source string, since no module implementation
// lives in the core beyond the test-exercising stringsmod; a host embedding
// a richer module still satisfies Module and may instead synthesize
// Signatures by parsing its own trait string through pkg/parser, which is
// exactly what TraitSource documents.
type Signature struct {
	Name         string
	Self         *types.RigzType // nil for a free function; set for an extension
	SelfMutable  bool
	Args         []types.RigzType
	VarArgsStart int // -1 if the signature has no variadic tail
	Ret          types.RigzType
}

// Module is the native capability surface every import target implements
// (§6.3). A module may additionally declare Dependencies: other modules
// that must be loaded into the registry before it.
type Module interface {
	Name() string
	TraitSource() string
	Signatures() []Signature
	Dependencies() []string

	Call(fn string, args []value.ObjectValue) value.ObjectValue
	CallExtension(self value.ObjectValue, fn string, args []value.ObjectValue) value.ObjectValue
	CallMutableExtension(self *value.ObjectValue, fn string, args []value.ObjectValue) value.ObjectValue
}

// Registry holds every Module loaded before compilation begins, indexed by
// both name and a stable integer id referenced from bytecode
// (CallModule/CallExtension/CreateDependency's ModuleID, §3.7).
type Registry struct {
	byName map[string]int
	mods   []Module
}

func NewRegistry() *Registry {
	return &Registry{byName: map[string]int{}}
}

// Register adds m, resolving its declared Dependencies first (§6.3); it is
// a no-op if m.Name() is already registered, matching the builder's
// idempotent "module registration" surface (§6.4).
func (r *Registry) Register(m Module, lookup func(name string) (Module, bool)) (int, error) {
	if id, ok := r.byName[m.Name()]; ok {
		return id, nil
	}
	for _, dep := range m.Dependencies() {
		if _, ok := r.byName[dep]; ok {
			continue
		}
		depMod, ok := lookup(dep)
		if !ok {
			return 0, &MissingDependencyError{Module: m.Name(), Dependency: dep}
		}
		if _, err := r.Register(depMod, lookup); err != nil {
			return 0, err
		}
	}
	id := len(r.mods)
	r.mods = append(r.mods, m)
	r.byName[m.Name()] = id
	return id, nil
}

func (r *Registry) ByID(id int) (Module, bool) {
	if id < 0 || id >= len(r.mods) {
		return nil, false
	}
	return r.mods[id], true
}

func (r *Registry) ByName(name string) (Module, int, bool) {
	id, ok := r.byName[name]
	if !ok {
		return nil, 0, false
	}
	return r.mods[id], id, true
}

func (r *Registry) Len() int { return len(r.mods) }

// MissingDependencyError reports a module whose declared dependency was
// never registered with the builder (§6.3).
type MissingDependencyError struct {
	Module     string
	Dependency string
}

func (e *MissingDependencyError) Error() string {
	return "module " + e.Module + " requires dependency " + e.Dependency + ", which was never registered"
}
