package value

// variantPriority fixes the total order across variants (§3.1): "Error <
// Type < None < Bool < Number < Range < String < Tuple < List < Set < Map".
// This ordering must be stable across implementations because it governs
// sort output.
func variantPriority(k ObjKind) int {
	switch k {
	case KError:
		return 0
	case KType:
		return 1
	case KNone:
		return 2
	case KBool:
		return 3
	case KNumber:
		return 4
	case KRange:
		return 5
	case KString:
		return 6
	case KTuple:
		return 7
	case KList:
		return 8
	case KSet:
		return 9
	case KMap:
		return 10
	default:
		// Enum/Object/Scope have no place in the fixed priority list; they
		// order after Map and compare equal to one another.
		return 11
	}
}

// Compare gives a total order over ObjectValues: -1, 0, or 1. Same-kind
// comparisons use the natural order for that kind; cross-kind comparisons
// fall back to variantPriority.
func (o ObjectValue) Compare(other ObjectValue) int {
	if o.Kind == other.Kind {
		switch o.Kind {
		case KBool:
			return boolCmp(o.Bool, other.Bool)
		case KNumber:
			return o.Num.Cmp(other.Num)
		case KString:
			return stringCmp(o.Str, other.Str)
		case KRange:
			return o.Rng.Cmp(other.Rng)
		case KTuple:
			return compareSlices(o.Tuple, other.Tuple)
		case KList:
			return compareSlices(o.Items(), other.Items())
		case KSet:
			return compareOrderedPairs(o.setSlice(), other.setSlice())
		case KMap:
			return compareMapSlices(o.mapSlice(), other.mapSlice())
		default:
			return 0
		}
	}
	pa, pb := variantPriority(o.Kind), variantPriority(other.Kind)
	switch {
	case pa < pb:
		return -1
	case pa > pb:
		return 1
	default:
		return 0
	}
}

func (o ObjectValue) setSlice() []ObjectValue {
	var out []ObjectValue
	for p := o.Set.Data.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Value)
	}
	return out
}

func (o ObjectValue) mapSlice() []MapPair {
	var out []MapPair
	for p := o.Map.Data.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Value)
	}
	return out
}

func boolCmp(a, b bool) int {
	if a == b {
		return 0
	}
	if !a && b {
		return -1
	}
	return 1
}

func stringCmp(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareSlices(a, b []ObjectValue) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := a[i].Compare(b[i]); c != 0 {
			return c
		}
	}
	return intCmp(len(a), len(b))
}

func compareOrderedPairs(a, b []ObjectValue) int {
	return compareSlices(a, b)
}

func compareMapSlices(a, b []MapPair) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := a[i].Key.Compare(b[i].Key); c != 0 {
			return c
		}
		if c := a[i].Val.Compare(b[i].Val); c != 0 {
			return c
		}
	}
	return intCmp(len(a), len(b))
}

func intCmp(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
