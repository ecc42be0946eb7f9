package comet

// parkedSet holds pointers with O(1) add, remove and len, used for a
// channel's subscriber list, the presence subscriber list and the
// pool's used-channel list. It is
// the slice-plus-index-map stand-in for the intrusive doubly-linked
// lists the original C server uses for the same purpose: removal during
// a sweep must not be O(n) per removal, or a sweep of a busy channel
// degrades to O(n^2).
type parkedSet[T any] struct {
	items []*T
	index map[*T]int
}

func newParkedSet[T any]() parkedSet[T] {
	return parkedSet[T]{index: make(map[*T]int)}
}

func (s *parkedSet[T]) add(v *T) {
	s.index[v] = len(s.items)
	s.items = append(s.items, v)
}

func (s *parkedSet[T]) remove(v *T) bool {
	i, ok := s.index[v]
	if !ok {
		return false
	}
	last := len(s.items) - 1
	s.items[i] = s.items[last]
	s.index[s.items[i]] = i
	s.items = s.items[:last]
	delete(s.index, v)
	return true
}

func (s *parkedSet[T]) len() int {
	return len(s.items)
}

// snapshot returns a copy of the current members, safe to iterate while
// the set is mutated (e.g. during a sweep that removes members as it
// goes).
func (s *parkedSet[T]) snapshot() []*T {
	out := make([]*T, len(s.items))
	copy(out, s.items)
	return out
}
