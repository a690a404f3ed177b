package util

import (
	"fmt"
	"sort"
	"strings"
)

// ISet is the shared interface implemented by this package's set types. Only
// KeySet is kept from the teacher's original set.go here: tablegram's sets
// are always over comparable grammar IDs (Rule, MatchID, and the like), so
// the teacher's string-keyed SVSet/StringSet variants have no caller in this
// module and were trimmed rather than carried as dead weight.
type ISet[E any] interface {
	Container[E]

	// Add adds the given element to the Set. If the element is already in the
	// set, no effect occurs.
	Add(element E)

	// AddAll adds all elements in s2 to the Set.
	AddAll(s2 ISet[E])

	// Remove removes the given element from the Set. If the element is already
	// not in the set, no effect occurs.
	Remove(element E)

	// Has returns whether the given set has the specified element.
	Has(element E) bool

	// Len returns the number of elements in the set.
	Len() int

	// Copy returns a copy of the Set.
	Copy() ISet[E]

	// Equal returns whether a Set equals another value. It should check if the
	// value implements Set and if so, does a comparison of the elements and
	// not of their ordering.
	Equal(o any) bool

	// String is a string with the contents of the set, not guaranteed to be in
	// any particular order.
	String() string
}

// KeySet is a Set implemented as a map from comparable keys to presence
// bools. It is the generic set type used throughout tablegram wherever a
// search needs fast membership checks over a set of grammar.Rule,
// grammar.MatchID, or similar small comparable IDs.
type KeySet[E comparable] map[E]bool

// NewKeySet creates a new KeySet, optionally with the contents of existing
// maps included in it (as long as they follow the 'set' convention of only
// setting values to true).
func NewKeySet[E comparable](of ...map[E]bool) KeySet[E] {
	ks := KeySet[E]{}

	for _, m := range of {
		for k, v := range m {
			if v {
				ks[k] = true
			}
		}
	}

	return ks
}

// KeySetOf creates a new KeySet pre-populated with the given elements.
func KeySetOf[E comparable](sl []E) KeySet[E] {
	ks := KeySet[E]{}
	for _, item := range sl {
		ks.Add(item)
	}
	return ks
}

func (s KeySet[E]) Copy() ISet[E] {
	copied := make(KeySet[E])
	for k := range s {
		copied[k] = true
	}
	return copied
}

func (s KeySet[E]) Union(o ISet[E]) ISet[E] {
	union := s.Copy()
	union.AddAll(o)
	return union
}

func (s KeySet[E]) Intersection(o ISet[E]) ISet[E] {
	inter := make(KeySet[E])
	for k := range s {
		if o.Has(k) {
			inter[k] = true
		}
	}
	return inter
}

func (s KeySet[E]) Difference(o ISet[E]) ISet[E] {
	diff := make(KeySet[E])
	for k := range s {
		if !o.Has(k) {
			diff[k] = true
		}
	}
	return diff
}

func (s KeySet[E]) DisjointWith(o ISet[E]) bool {
	for k := range s {
		if o.Has(k) {
			return false
		}
	}
	return true
}

func (s KeySet[E]) Empty() bool {
	return len(s) == 0
}

func (s KeySet[E]) Any(predicate func(v E) bool) bool {
	for k := range s {
		if predicate(k) {
			return true
		}
	}
	return false
}

func (s KeySet[E]) Has(value E) bool {
	return s[value]
}

func (s KeySet[E]) Add(value E) {
	s[value] = true
}

func (s KeySet[E]) Remove(value E) {
	delete(s, value)
}

func (s KeySet[E]) Len() int {
	return len(s)
}

func (s KeySet[E]) AddAll(s2 ISet[E]) {
	for _, v := range s2.Elements() {
		s.Add(v)
	}
}

// StringOrdered returns the elements of the set formatted via fmt.Sprintf
// and sorted lexicographically by that formatted form, for deterministic
// debug output.
func (s KeySet[E]) StringOrdered() string {
	var strs []string
	for k := range s {
		strs = append(strs, fmt.Sprintf("%v", k))
	}
	sort.Strings(strs)

	return "{" + strings.Join(strs, ", ") + "}"
}

func (s KeySet[E]) String() string {
	return s.StringOrdered()
}

func (s KeySet[E]) Equal(o any) bool {
	other, ok := o.(KeySet[E])
	if !ok {
		var otherPtr *KeySet[E]
		if otherPtr, ok = o.(*KeySet[E]); ok {
			other = *otherPtr
		}
	}
	if !ok {
		return false
	}

	if len(s) != len(other) {
		return false
	}

	for k := range s {
		if !other.Has(k) {
			return false
		}
	}

	return true
}

func (s KeySet[E]) Elements() []E {
	elems := make([]E, 0, len(s))
	for k := range s {
		elems = append(elems, k)
	}
	return elems
}
