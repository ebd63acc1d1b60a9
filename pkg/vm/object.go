package vm

import "github.com/rigz-lang/rigz/pkg/value"

// structInstance is the runtime representation of a user `object Name ...
// end` declaration (§3.3), carried inside an ObjectValue via the Handle seam
// value.Handle already defines for native module objects — a declared
// object is simply a Handle whose fields are Rigz values instead of Go
// state.
type structInstance struct {
	typeName string
	fields   map[string]value.ObjectValue
	order    []string
}

func newStructInstance(typeName string, order []string, vals []value.ObjectValue) *structInstance {
	s := &structInstance{typeName: typeName, fields: make(map[string]value.ObjectValue, len(order)), order: order}
	for i, name := range order {
		if i < len(vals) {
			s.fields[name] = vals[i]
		} else {
			s.fields[name] = value.None()
		}
	}
	return s
}

func (s *structInstance) TypeName() string { return s.typeName }

func (s *structInstance) get(field string) (value.ObjectValue, bool) {
	v, ok := s.fields[field]
	return v, ok
}

func (s *structInstance) set(field string, v value.ObjectValue) {
	if _, ok := s.fields[field]; !ok {
		s.order = append(s.order, field)
	}
	s.fields[field] = v
}
