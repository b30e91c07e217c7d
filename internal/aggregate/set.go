// Package aggregate folds flat join rows into nested aggregate views.
//
// A join of a root with several child tables repeats the root columns on
// every row and multiplies the children (3 tags x 2 files = 6 rows).  The
// fold groups rows by root id in first-seen order and deduplicates every
// child collection by the child's own id.  Left-joined children whose id
// column is NULL are skipped, so an absent collection folds to an empty
// slice rather than a slice holding one zero-valued entry.
package aggregate

// OrderedSet keeps the first value added for each key, in insertion order.
type OrderedSet[K comparable, V any] struct {
	seen  map[K]struct{}
	items []V
}

// NewOrderedSet returns an empty set whose Items is already non-nil.
func NewOrderedSet[K comparable, V any]() *OrderedSet[K, V] {
	return &OrderedSet[K, V]{seen: make(map[K]struct{}), items: []V{}}
}

// Add stores v under k unless k is already present.  It reports whether
// v was stored.
func (s *OrderedSet[K, V]) Add(k K, v V) bool {
	if _, dup := s.seen[k]; dup {
		return false
	}
	s.seen[k] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// Items returns the stored values.  The slice is never nil.
func (s *OrderedSet[K, V]) Items() []V { return s.items }

// Len returns the number of distinct keys added.
func (s *OrderedSet[K, V]) Len() int { return len(s.items) }

// Accumulator maps root ids to builders and remembers first-seen order.
type Accumulator[K comparable, B any] struct {
	order    []K
	builders map[K]B
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator[K comparable, B any]() *Accumulator[K, B] {
	return &Accumulator[K, B]{builders: make(map[K]B)}
}

// Upsert returns the builder for key, creating it with create on first sight.
func (a *Accumulator[K, B]) Upsert(key K, create func() B) B {
	if b, ok := a.builders[key]; ok {
		return b
	}
	b := create()
	a.builders[key] = b
	a.order = append(a.order, key)
	return b
}

// Builders returns the builders in first-seen order.
func (a *Accumulator[K, B]) Builders() []B {
	out := make([]B, 0, len(a.order))
	for _, k := range a.order {
		out = append(out, a.builders[k])
	}
	return out
}

// Len returns the number of distinct root ids seen.
func (a *Accumulator[K, B]) Len() int { return len(a.order) }
