package set

import (
	"iter"
)

type Set[T comparable] map[T]struct{}

func New[T comparable](items ...T) Set[T] {
	s := make(Set[T], len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

// Add adds items to the set and reports whether any of them was new.
func (s Set[T]) Add(items ...T) bool {
	added := false
	for _, item := range items {
		if _, ok := s[item]; !ok {
			s[item] = struct{}{}
			added = true
		}
	}
	return added
}

// Remove removes an item and reports whether it was present.
func (s Set[T]) Remove(item T) bool {
	if _, ok := s[item]; !ok {
		return false
	}
	delete(s, item)
	return true
}

// Contains checks if an item exists in the set
func (s Set[T]) Contains(item T) bool {
	_, exists := s[item]
	return exists
}

// Size returns the number of items in the set. A nil set has size zero.
func (s Set[T]) Size() int {
	return len(s)
}

func (s Set[T]) IsEmpty() bool {
	return len(s) == 0
}

// Clear removes all items from the set
func (s Set[T]) Clear() {
	clear(s)
}

// Items returns all items in the set as a sequence
func (s Set[T]) Items() iter.Seq[T] {
	return func(yield func(T) bool) {
		for item := range s {
			if !yield(item) {
				return
			}
		}
	}
}
