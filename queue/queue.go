package queue

import "iter"

// Ring is a fixed-capacity FIFO. Pushing onto a full ring evicts the
// oldest entry.
type Ring[T any] struct {
	items []T
	head  int
	size  int
}

func New[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{items: make([]T, capacity)}
}

func (r *Ring[T]) Len() int {
	return r.size
}

func (r *Ring[T]) Push(item T) {
	if r.size == len(r.items) {
		r.items[r.head] = item
		r.head = (r.head + 1) % len(r.items)
		return
	}
	r.items[(r.head+r.size)%len(r.items)] = item
	r.size++
}

// At returns the i-th entry counting from the oldest.
func (r *Ring[T]) At(i int) T {
	if i < 0 || i >= r.size {
		panic("queue: index out of range")
	}
	return r.items[(r.head+i)%len(r.items)]
}

func (r *Ring[T]) Clear() {
	clear(r.items)
	r.head = 0
	r.size = 0
}

// Items yields entries oldest first.
func (r *Ring[T]) Items() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < r.size; i++ {
			if !yield(r.At(i)) {
				return
			}
		}
	}
}

// Backward yields entries newest first.
func (r *Ring[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := r.size - 1; i >= 0; i-- {
			if !yield(r.At(i)) {
				return
			}
		}
	}
}

// Slice copies the entries oldest first.
func (r *Ring[T]) Slice() []T {
	out := make([]T, 0, r.size)
	for item := range r.Items() {
		out = append(out, item)
	}
	return out
}
