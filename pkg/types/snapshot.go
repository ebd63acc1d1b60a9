package types

import "github.com/rigz-lang/rigz/pkg/snapshot"

// EncodeName writes a RigzType's rendered surface name (the String() output)
// to w. Matches pkg/value's decision for ObjectValue's Type variant: a
// snapshot only needs to replay a type annotation well enough to print it
// back, not to re-check Assignable against it, so the full struct (Elem,
// Key, Val, Elems, Args, Ret, Fields) is not round-tripped.
func (t RigzType) EncodeName(w *snapshot.Writer) {
	w.WriteString(t.String())
}

// DecodeName reads a rendered type name back as a RigzType{Kind: KindAny,
// Name: ...} placeholder, sufficient for display but not for Assignable
// checks.
func DecodeName(r *snapshot.Reader) (RigzType, error) {
	name, err := r.ReadString()
	if err != nil {
		return RigzType{}, err
	}
	return RigzType{Kind: KindAny, Name: name}, nil
}
