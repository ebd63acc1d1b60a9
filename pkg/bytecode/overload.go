package bytecode

import "github.com/rigz-lang/rigz/pkg/value"

// MatchArgs implements §4.6's overload-selection rule against a concrete
// argument list: the first candidate overload whose declared parameter
// count the call satisfies wins; argument types are not compared. It is
// used by pkg/vm to resolve CallMatching/CallMatchingMemo at runtime, since
// Rigz argument types able to include Any/union types can only be fully
// known at the call site.
func MatchArgs(args []value.ObjectValue, overloads []Overload) (int, bool) {
	for i, o := range overloads {
		if argsSatisfy(len(args), len(o.Args)) {
			return i, true
		}
	}
	return 0, false
}

// MatchSelfArgs is MatchArgs plus a receiver-type check for
// CallMatchingSelf/CallMatchingSelfMemo (§4.6 rule 1: "F.self matches S").
func MatchSelfArgs(self value.ObjectValue, args []value.ObjectValue, overloads []SelfOverload) (int, bool) {
	for i, o := range overloads {
		if !selfMatches(self, o.Self) {
			continue
		}
		if argsSatisfy(len(args), len(o.Args)) {
			return i, true
		}
	}
	return 0, false
}

func selfMatches(self value.ObjectValue, want Arg) bool {
	if want.Kind != ArgType {
		return true
	}
	if want.Type.String() == "Any" {
		return true
	}
	return self.TypeOf().Assignable(want.Type)
}

// argsSatisfy checks the count clause of §4.6 rule 2 (N <= len(F.args)).
// Declared-length calls (N == len) are exact matches; for shorter calls the
// VM fills the missing positions from the scope's defaults, so any N <=
// declared is acceptable here. The variadic clause is not checked: Overload
// carries no variadic start position.
func argsSatisfy(n, declared int) bool {
	return n <= declared
}
