package glsl

// OrderedSet is a set of strings that remembers first-insertion order.
type OrderedSet struct {
	seen  map[string]struct{}
	items []string
}

// NewOrderedSet creates an empty set.
func NewOrderedSet() *OrderedSet {
	return &OrderedSet{seen: make(map[string]struct{})}
}

// Add inserts item unless it is already present. It reports whether item was
// new.
func (s *OrderedSet) Add(item string) bool {
	if _, ok := s.seen[item]; ok {
		return false
	}
	s.seen[item] = struct{}{}
	s.items = append(s.items, item)
	return true
}

// Items returns the elements in first-insertion order.
func (s *OrderedSet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of elements.
func (s *OrderedSet) Len() int {
	return len(s.items)
}
