package value

import (
	"github.com/pkg/errors"

	"github.com/rigz-lang/rigz/pkg/snapshot"
	"github.com/rigz-lang/rigz/pkg/types"
)

// Discriminant bytes for ObjectValue's binary snapshot form (§6.2), carried
// over verbatim from the Value enum's own Snapshot impl plus two additions
// this implementation needed that the original's Value enum did not have to
// make room for on its own (Set and Enum are folded into other variants
// there; here they get dedicated discriminants since ListCell/SetCell/MapCell
// are distinct Go types).
const (
	discrNone   = 0
	discrBool   = 1
	discrInt    = 2
	discrFloat  = 3
	discrString = 4
	discrList   = 5
	discrMap    = 6
	discrRange  = 7
	discrError  = 8
	discrTuple  = 9
	discrType   = 10
	discrSet    = 11
	discrEnum   = 12
)

// Encode writes the reversible wire form of o. Object is deliberately
// unsupported: a native handle cannot be replayed into a fresh process, so
// attempting to snapshot one is a programming error rather than a value-level
// failure, and is reported as a Go error rather than folded into an Error
// value.
func (o ObjectValue) Encode(w *snapshot.Writer) error {
	switch o.Kind {
	case KNone:
		w.WriteByte(discrNone)
	case KBool:
		w.WriteByte(discrBool)
		w.WriteBool(o.Bool)
	case KNumber:
		if o.Num.Kind == NumInt {
			w.WriteByte(discrInt)
			w.WriteInt64(o.Num.Int)
		} else {
			w.WriteByte(discrFloat)
			w.WriteFloat64(o.Num.Float)
		}
	case KString:
		w.WriteByte(discrString)
		w.WriteString(o.Str)
	case KList:
		w.WriteByte(discrList)
		items := o.Items()
		w.WriteUsize(len(items))
		for _, it := range items {
			if err := it.Encode(w); err != nil {
				return err
			}
		}
	case KSet:
		w.WriteByte(discrSet)
		items := o.setSlice()
		w.WriteUsize(len(items))
		for _, it := range items {
			if err := it.Encode(w); err != nil {
				return err
			}
		}
	case KMap:
		w.WriteByte(discrMap)
		pairs := o.mapSlice()
		w.WriteUsize(len(pairs))
		for _, p := range pairs {
			if err := p.Key.Encode(w); err != nil {
				return err
			}
			if err := p.Val.Encode(w); err != nil {
				return err
			}
		}
	case KRange:
		w.WriteByte(discrRange)
		w.WriteInt64(o.Rng.Start)
		w.WriteInt64(o.Rng.End)
	case KError:
		w.WriteByte(discrError)
		w.WriteByte(byte(o.Err.Kind))
		w.WriteString(o.Err.Message)
	case KTuple:
		w.WriteByte(discrTuple)
		w.WriteUsize(len(o.Tuple))
		for _, it := range o.Tuple {
			if err := it.Encode(w); err != nil {
				return err
			}
		}
	case KType:
		w.WriteByte(discrType)
		w.WriteString(o.Typ.String())
	case KEnum:
		w.WriteByte(discrEnum)
		w.WriteUsize(o.Enum.EnumType)
		w.WriteUsize(o.Enum.Variant)
		hasPayload := o.Enum.Payload != nil
		w.WriteBool(hasPayload)
		if hasPayload {
			if err := o.Enum.Payload.Encode(w); err != nil {
				return err
			}
		}
	default:
		return errors.Errorf("snapshot: cannot encode %s value (native handles are not reversible)", o.TypeOf())
	}
	return nil
}

// Decode reads back a value written by Encode. Type values round-trip as
// their rendered surface syntax rather than a fully reconstructed
// types.RigzType, since RigzType carries no Decode path of its own (§6.2
// scopes the binary format to runtime values, not static type descriptors);
// decoding a Type therefore yields a KType whose Typ.Name holds that surface
// string, which is sufficient for display and equality but not for further
// Assignable() checks.
func Decode(r *snapshot.Reader) (ObjectValue, error) {
	discr, err := r.ReadByte()
	if err != nil {
		return ObjectValue{}, errors.Wrap(err, "snapshot: reading discriminant")
	}
	switch discr {
	case discrNone:
		return None(), nil
	case discrBool:
		b, err := r.ReadBool()
		if err != nil {
			return ObjectValue{}, err
		}
		return BoolV(b), nil
	case discrInt:
		i, err := r.ReadInt64()
		if err != nil {
			return ObjectValue{}, err
		}
		return NumV(Int(i)), nil
	case discrFloat:
		f, err := r.ReadFloat64()
		if err != nil {
			return ObjectValue{}, err
		}
		return NumV(Flt(f)), nil
	case discrString:
		s, err := r.ReadString()
		if err != nil {
			return ObjectValue{}, err
		}
		return StringV(s), nil
	case discrList:
		n, err := r.ReadUsize()
		if err != nil {
			return ObjectValue{}, err
		}
		items := make([]ObjectValue, n)
		for i := 0; i < n; i++ {
			items[i], err = Decode(r)
			if err != nil {
				return ObjectValue{}, err
			}
		}
		return ListV(items), nil
	case discrSet:
		n, err := r.ReadUsize()
		if err != nil {
			return ObjectValue{}, err
		}
		items := make([]ObjectValue, n)
		for i := 0; i < n; i++ {
			items[i], err = Decode(r)
			if err != nil {
				return ObjectValue{}, err
			}
		}
		return SetV(items), nil
	case discrMap:
		n, err := r.ReadUsize()
		if err != nil {
			return ObjectValue{}, err
		}
		pairs := make([]MapPair, n)
		for i := 0; i < n; i++ {
			key, err := Decode(r)
			if err != nil {
				return ObjectValue{}, err
			}
			val, err := Decode(r)
			if err != nil {
				return ObjectValue{}, err
			}
			pairs[i] = MapPair{Key: key, Val: val}
		}
		return MapV(pairs), nil
	case discrRange:
		start, err := r.ReadInt64()
		if err != nil {
			return ObjectValue{}, err
		}
		end, err := r.ReadInt64()
		if err != nil {
			return ObjectValue{}, err
		}
		return RangeV(ValueRange{Start: start, End: end}), nil
	case discrError:
		kindByte, err := r.ReadByte()
		if err != nil {
			return ObjectValue{}, err
		}
		msg, err := r.ReadString()
		if err != nil {
			return ObjectValue{}, err
		}
		return ErrorV(VMError{Kind: ErrorKind(kindByte), Message: msg}), nil
	case discrTuple:
		n, err := r.ReadUsize()
		if err != nil {
			return ObjectValue{}, err
		}
		items := make([]ObjectValue, n)
		for i := 0; i < n; i++ {
			items[i], err = Decode(r)
			if err != nil {
				return ObjectValue{}, err
			}
		}
		return TupleV(items...), nil
	case discrType:
		name, err := r.ReadString()
		if err != nil {
			return ObjectValue{}, err
		}
		return TypeV(types.RigzType{Kind: types.KindAny, Name: name}), nil
	case discrEnum:
		enumType, err := r.ReadUsize()
		if err != nil {
			return ObjectValue{}, err
		}
		variant, err := r.ReadUsize()
		if err != nil {
			return ObjectValue{}, err
		}
		hasPayload, err := r.ReadBool()
		if err != nil {
			return ObjectValue{}, err
		}
		var payload *ObjectValue
		if hasPayload {
			v, err := Decode(r)
			if err != nil {
				return ObjectValue{}, err
			}
			payload = &v
		}
		return EnumV(enumType, variant, payload), nil
	default:
		return ObjectValue{}, errors.Errorf("snapshot: unknown value discriminant %d at byte %d", discr, r.Pos()-1)
	}
}
