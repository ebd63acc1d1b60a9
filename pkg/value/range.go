package value

// ValueRange is Rigz's Range primitive: an inclusive integer range used both
// as a value and as a source for `for`/comprehension iteration.
type ValueRange struct {
	Start int64
	End   int64
}

// Empty reports whether the range contains no elements (§8 property 4:
// empty ranges are falsy).
func (r ValueRange) Empty() bool { return r.Start > r.End }

// Len returns the number of elements in the range.
func (r ValueRange) Len() int {
	if r.Empty() {
		return 0
	}
	return int(r.End-r.Start) + 1
}

// ToSlice materializes the range as a slice of Int values, in ascending
// order, for list-comprehension and `for x in range` iteration.
func (r ValueRange) ToSlice() []int64 {
	if r.Empty() {
		return nil
	}
	out := make([]int64, 0, r.Len())
	for v := r.Start; v <= r.End; v++ {
		out = append(out, v)
	}
	return out
}

func (r ValueRange) Equal(o ValueRange) bool {
	if r.Empty() && o.Empty() {
		return true
	}
	return r.Start == o.Start && r.End == o.End
}

func (r ValueRange) Cmp(o ValueRange) int {
	switch {
	case r.Start != o.Start:
		if r.Start < o.Start {
			return -1
		}
		return 1
	case r.End != o.End:
		if r.End < o.End {
			return -1
		}
		return 1
	default:
		return 0
	}
}
