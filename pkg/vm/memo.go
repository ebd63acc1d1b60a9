package vm

import (
	"strconv"
	"strings"

	"github.com/rigz-lang/rigz/pkg/value"
)

// memoKey identifies one cached @memo invocation (§3.4's memoized
// lifecycle): the scope (or module function) invoked plus the hash of its
// receiver and arguments, since value.ObjectValue is not itself a
// comparable Go map key (it may embed pointers/slices).
type memoKey string

func makeMemoKey(site string, self *value.ObjectValue, args []value.ObjectValue) memoKey {
	var b strings.Builder
	b.WriteString(site)
	if self != nil {
		b.WriteByte('|')
		b.WriteString(self.Hash())
	}
	for _, a := range args {
		b.WriteByte('|')
		b.WriteString(a.Hash())
	}
	return memoKey(b.String())
}

func scopeSite(id int) string { return "scope#" + strconv.Itoa(id) }

func moduleSite(moduleID int, fn string) string { return "mod#" + strconv.Itoa(moduleID) + "#" + fn }
