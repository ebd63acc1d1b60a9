package value

// Truthy implements §8 property 4: none, false, 0, 0.0, "", [], {}, and
// empty ranges are falsy; every other non-error value is truthy. Error
// values are truthy (they are not enumerated among the falsy set, and
// propagate rather than silently vanish in a boolean context).
func (o ObjectValue) Truthy() bool {
	switch o.Kind {
	case KNone:
		return false
	case KBool:
		return o.Bool
	case KNumber:
		return !o.Num.IsZero()
	case KString:
		return o.Str != ""
	case KRange:
		return !o.Rng.Empty()
	case KList:
		return len(o.Items()) != 0
	case KSet:
		return o.Set.Data.Len() != 0
	case KMap:
		return o.Map.Data.Len() != 0
	case KTuple:
		return len(o.Tuple) != 0
	default:
		return true
	}
}
