package grammar

import (
	"sort"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
)

// StringSet is an ordered set of k-strings, backed by a sorted tree so that
// iteration (and therefore anything derived from it, such as stats output
// or golden-file tests) is reproducible across runs.
type StringSet struct {
	set *treeset.Set
}

func newStringSet(of ...string) StringSet {
	s := StringSet{set: treeset.NewWithStringComparator()}
	for _, str := range of {
		s.set.Add(str)
	}
	return s
}

// Add inserts str into the set. No effect if it is already present.
func (s StringSet) Add(str string) {
	s.set.Add(str)
}

// Has returns whether str is a member of the set.
func (s StringSet) Has(str string) bool {
	return s.set.Contains(str)
}

// Len returns the number of members.
func (s StringSet) Len() int {
	return s.set.Size()
}

// Strings returns the members in ascending lexical order.
func (s StringSet) Strings() []string {
	vals := s.set.Values()
	out := make([]string, len(vals))
	for i := range vals {
		out[i] = vals[i].(string)
	}
	sort.Strings(out)
	return out
}

// Merge adds every member of o to s.
func (s StringSet) Merge(o StringSet) {
	for _, v := range o.Strings() {
		s.Add(v)
	}
}

// String renders the set for human consumption, e.g. {"a", "ab"}.
func (s StringSet) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	strs := s.Strings()
	for i, v := range strs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('"')
		sb.WriteString(v)
		sb.WriteByte('"')
	}
	sb.WriteByte('}')
	return sb.String()
}

// FirstSet is the result of a FIRST_k computation: a set of k-strings of
// terminals, plus a flag for whether the empty string (ε) is also a member.
type FirstSet struct {
	Epsilon bool
	StringSet
}

func newFirstSet() FirstSet {
	return FirstSet{StringSet: newStringSet()}
}

// Merge adds every member of o, including its Epsilon flag, to f.
func (f *FirstSet) Merge(o FirstSet) {
	if o.Epsilon {
		f.Epsilon = true
	}
	f.StringSet.Merge(o.StringSet)
}

// Len returns the number of members, counting ε if present.
func (f FirstSet) Len() int {
	n := f.StringSet.Len()
	if f.Epsilon {
		n++
	}
	return n
}

// Equal reports whether f and o contain exactly the same members.
func (f FirstSet) Equal(o FirstSet) bool {
	if f.Epsilon != o.Epsilon || f.Len() != o.Len() {
		return false
	}
	for _, v := range f.Strings() {
		if !o.Has(v) {
			return false
		}
	}
	return true
}
