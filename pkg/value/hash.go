package value

import (
	"fmt"
	"strings"
)

// falsySentinel is the canonical hash bucket shared by every falsy value,
// matching Equal's cross-kind falsy-group rule (§3.1, §8 property 4) so
// that "Hashing matches equality" (§8) holds even across kinds: none, 0,
// "", [], {} and an empty range all collide deliberately when used as Map
// keys or Set elements, the same way they compare equal.
const falsySentinel = "\x00falsy"

// Hash returns a canonical string encoding of v suitable as an ordered-map
// key. Two values that are Equal always produce the same Hash.
func (o ObjectValue) Hash() string {
	if o.Kind != KError && !o.Truthy() {
		return falsySentinel
	}
	switch o.Kind {
	case KBool:
		return "b:1"
	case KNumber:
		return "n:" + o.Num.String()
	case KString:
		return "s:" + o.Str
	case KRange:
		return fmt.Sprintf("r:%d:%d", o.Rng.Start, o.Rng.End)
	case KError:
		return fmt.Sprintf("e:%d:%s", o.Err.Kind, o.Err.Message)
	case KType:
		return "t:" + o.Typ.String()
	case KTuple:
		parts := make([]string, len(o.Tuple))
		for i, e := range o.Tuple {
			parts[i] = e.Hash()
		}
		return "tup:(" + strings.Join(parts, ",") + ")"
	case KList:
		items := o.Items()
		parts := make([]string, len(items))
		for i, e := range items {
			parts[i] = e.Hash()
		}
		return "l:[" + strings.Join(parts, ",") + "]"
	case KSet:
		var parts []string
		for p := o.Set.Data.Oldest(); p != nil; p = p.Next() {
			parts = append(parts, p.Value.Hash())
		}
		return "set:{" + strings.Join(parts, ",") + "}"
	case KMap:
		var parts []string
		for p := o.Map.Data.Oldest(); p != nil; p = p.Next() {
			parts = append(parts, p.Value.Key.Hash()+"="+p.Value.Val.Hash())
		}
		return "map:{" + strings.Join(parts, ",") + "}"
	case KEnum:
		if o.Enum.Payload != nil {
			return fmt.Sprintf("enum:%d:%d:%s", o.Enum.EnumType, o.Enum.Variant, o.Enum.Payload.Hash())
		}
		return fmt.Sprintf("enum:%d:%d", o.Enum.EnumType, o.Enum.Variant)
	case KObject:
		return fmt.Sprintf("obj:%p", o.Object)
	case KScope:
		return fmt.Sprintf("scope:%d", o.Scope)
	default:
		return falsySentinel
	}
}
