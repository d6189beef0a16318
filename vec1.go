package imap

// Vec1 is a non-empty ordered sequence. Generic over Go 1.21.
type Vec1[T any] struct {
	items []T
}

// NewVec1 validates items as non-empty and wraps it.
func NewVec1[T any](items []T) (Vec1[T], error) {
	if len(items) == 0 {
		return Vec1[T]{}, errNotEnough("Vec1", 1)
	}
	cp := make([]T, len(items))
	copy(cp, items)
	return Vec1[T]{items: cp}, nil
}

// NewVec1Single wraps a single item.
func NewVec1Single[T any](item T) Vec1[T] { return Vec1[T]{items: []T{item}} }

// Items returns the wrapped slice.
func (v Vec1[T]) Items() []T { return v.items }

// Len returns the number of items (always ≥ 1).
func (v Vec1[T]) Len() int { return len(v.items) }

// First returns the first item, which always exists.
func (v Vec1[T]) First() T { return v.items[0] }
