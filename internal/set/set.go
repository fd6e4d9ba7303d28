package set

// Ordered is a set that remembers insertion order. Re-adding an existing
// value keeps its original position.
type Ordered[T comparable] struct {
	index  map[T]int
	values []T
}

// NewOrdered creates a new empty ordered set
func NewOrdered[T comparable]() *Ordered[T] {
	return &Ordered[T]{
		index: make(map[T]int),
	}
}

// Add appends value unless it is already present. It reports whether the
// value was added.
func (s *Ordered[T]) Add(value T) bool {
	if _, ok := s.index[value]; ok {
		return false
	}
	s.index[value] = len(s.values)
	s.values = append(s.values, value)
	return true
}

// Remove deletes value, preserving the order of the remaining values.
func (s *Ordered[T]) Remove(value T) bool {
	i, ok := s.index[value]
	if !ok {
		return false
	}
	delete(s.index, value)
	s.values = append(s.values[:i], s.values[i+1:]...)
	for j := i; j < len(s.values); j++ {
		s.index[s.values[j]] = j
	}
	return true
}

// Contains checks if the set contains a value
func (s *Ordered[T]) Contains(value T) bool {
	_, ok := s.index[value]
	return ok
}

// Len returns the number of elements in the set
func (s *Ordered[T]) Len() int {
	return len(s.values)
}

// Clear removes all elements from the set
func (s *Ordered[T]) Clear() {
	s.index = make(map[T]int)
	s.values = nil
}

// Values returns the values in insertion order. The slice is a copy.
func (s *Ordered[T]) Values() []T {
	out := make([]T, len(s.values))
	copy(out, s.values)
	return out
}
