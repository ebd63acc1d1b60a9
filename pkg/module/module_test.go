package module

import (
	"testing"

	"github.com/rigz-lang/rigz/pkg/value"
)

func TestStringsModuleFreeFunctionCall(t *testing.T) {
	m := StringsModule{}
	got := m.Call("upper", []value.ObjectValue{value.StringV("abc")})
	if !got.Equal(value.StringV("ABC")) {
		t.Fatalf("strings.upper(abc) = %s, want ABC", got.String())
	}
}

func TestStringsModuleExtensionCall(t *testing.T) {
	m := StringsModule{}
	got := m.CallExtension(value.StringV("  hi  "), "trim", nil)
	if !got.Equal(value.StringV("hi")) {
		t.Fatalf("trim extension = %s, want hi", got.String())
	}
}

func TestStringsModuleMutableExtension(t *testing.T) {
	m := StringsModule{}
	self := value.StringV("foo")
	got := m.CallMutableExtension(&self, "push_str", []value.ObjectValue{value.StringV("bar")})
	if got.Kind != value.KNone {
		t.Fatalf("push_str should return None, got %s", got.String())
	}
	if self.Str != "foobar" {
		t.Fatalf("push_str did not mutate receiver, got %q", self.Str)
	}
}

func TestStringsModuleExtensionWrongReceiverKind(t *testing.T) {
	m := StringsModule{}
	got := m.CallExtension(value.IntV(1), "upper", nil)
	if got.Kind != value.KError {
		t.Fatalf("expected Error for non-String receiver, got %s", got.String())
	}
}

func TestCollectionsModuleSum(t *testing.T) {
	m := CollectionsModule{}
	list := value.ListV([]value.ObjectValue{value.IntV(1), value.IntV(2), value.IntV(3)})
	got := m.CallExtension(list, "sum", nil)
	if !got.Equal(value.IntV(6)) {
		t.Fatalf("sum = %s, want 6", got.String())
	}
}

func TestCollectionsModuleSplitFirst(t *testing.T) {
	m := CollectionsModule{}
	list := value.ListV([]value.ObjectValue{value.IntV(1), value.IntV(2), value.IntV(3)})
	got := m.CallExtension(list, "split_first", nil)
	want := value.TupleV(value.IntV(1), value.ListV([]value.ObjectValue{value.IntV(2), value.IntV(3)}))
	if !got.Equal(want) {
		t.Fatalf("split_first = %s, want %s", got.String(), want.String())
	}
}

func TestCollectionsModuleSplitFirstEmpty(t *testing.T) {
	m := CollectionsModule{}
	got := m.CallExtension(value.ListV(nil), "split_first", nil)
	if got.Kind != value.KError {
		t.Fatalf("split_first on empty list should error, got %s", got.String())
	}
}

func TestCollectionsModuleFirstLastEmpty(t *testing.T) {
	m := CollectionsModule{}
	if got := m.CallExtension(value.ListV(nil), "first", nil); got.Kind != value.KNone {
		t.Fatalf("first of empty list should be None, got %s", got.String())
	}
	if got := m.CallExtension(value.ListV(nil), "last", nil); got.Kind != value.KNone {
		t.Fatalf("last of empty list should be None, got %s", got.String())
	}
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	id, err := r.Register(StringsModule{}, nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if id != 0 {
		t.Fatalf("expected first module to get id 0, got %d", id)
	}
	got, gotID, ok := r.ByName("strings")
	if !ok || gotID != 0 {
		t.Fatalf("ByName lookup failed: ok=%v id=%d", ok, gotID)
	}
	if got.Name() != "strings" {
		t.Fatalf("unexpected module returned: %s", got.Name())
	}
	if r.Len() != 1 {
		t.Fatalf("expected registry len 1, got %d", r.Len())
	}
}

func TestRegistryRegisterIsIdempotent(t *testing.T) {
	r := NewRegistry()
	id1, _ := r.Register(StringsModule{}, nil)
	id2, _ := r.Register(StringsModule{}, nil)
	if id1 != id2 {
		t.Fatalf("re-registering the same module name should return the same id: %d vs %d", id1, id2)
	}
	if r.Len() != 1 {
		t.Fatalf("re-registering should not grow the registry, len=%d", r.Len())
	}
}

type depModule struct{ deps []string }

func (depModule) Name() string                 { return "needs-strings" }
func (depModule) TraitSource() string           { return "" }
func (depModule) Signatures() []Signature       { return nil }
func (d depModule) Dependencies() []string      { return d.deps }
func (depModule) Call(string, []value.ObjectValue) value.ObjectValue { return value.None() }
func (depModule) CallExtension(value.ObjectValue, string, []value.ObjectValue) value.ObjectValue {
	return value.None()
}
func (depModule) CallMutableExtension(*value.ObjectValue, string, []value.ObjectValue) value.ObjectValue {
	return value.None()
}

func TestRegistryResolvesDependencies(t *testing.T) {
	r := NewRegistry()
	known := map[string]Module{"strings": StringsModule{}}
	lookup := func(name string) (Module, bool) { m, ok := known[name]; return m, ok }
	id, err := r.Register(depModule{deps: []string{"strings"}}, lookup)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, ok := r.ByName("strings"); !ok {
		t.Fatal("dependency should have been transitively registered")
	}
	if id != 1 {
		t.Fatalf("expected dependent module to land at id 1 (after its dependency), got %d", id)
	}
}

func TestRegistryMissingDependencyErrors(t *testing.T) {
	r := NewRegistry()
	lookup := func(string) (Module, bool) { return nil, false }
	_, err := r.Register(depModule{deps: []string{"nope"}}, lookup)
	if err == nil {
		t.Fatal("expected an error for an unresolvable dependency")
	}
	var missing *MissingDependencyError
	if me, ok := err.(*MissingDependencyError); ok {
		missing = me
	} else {
		t.Fatalf("expected *MissingDependencyError, got %T", err)
	}
	if missing.Dependency != "nope" {
		t.Fatalf("unexpected dependency name: %s", missing.Dependency)
	}
}
