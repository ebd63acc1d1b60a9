package value

// Equal implements structural equality (§3.1, §8 property 3/4). Error
// values are equal only to Errors with a matching kind and message (never
// to a non-Error, and not merely because they are the same instance).
// Every other comparison reduces to canonical-hash equality, which already
// encodes the falsy cross-kind grouping ("none == false == 0 == \"\" ==
// [] == {}") and numeric Int/Float equivalence.
func (o ObjectValue) Equal(other ObjectValue) bool {
	if o.Kind == KError || other.Kind == KError {
		if o.Kind == KError && other.Kind == KError {
			return o.Err.Equal(other.Err)
		}
		return false
	}
	return o.Hash() == other.Hash()
}
