package items

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

// ErrIndexOutOfRange is returned when a mutation addresses an index outside
// the store.
var ErrIndexOutOfRange = errors.New("item index out of range")

// Item is a single row of the list. Items are shared by pointer between
// stores and must not be mutated once they are part of a store.
type Item struct {
	ID       string
	Label    string
	IsActive bool
}

// Store is an immutable, ordered sequence of items. Mutations produce a new
// store that shares every unchanged item with the old one.
type Store struct {
	items []*Item
}

// NewStore returns a store holding the given items in order. The slice is
// copied; the items are not.
func NewStore(items ...*Item) *Store {
	return &Store{items: slices.Clone(items)}
}

// Len returns the number of items in the store.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// At returns the item at index i, or nil if i is out of range.
func (s *Store) At(i int) *Item {
	if i < 0 || i >= s.Len() {
		return nil
	}
	return s.items[i]
}

// Items returns a copy of the store's item slice.
func (s *Store) Items() []*Item {
	if s == nil {
		return nil
	}
	return slices.Clone(s.items)
}

// All iterates over the items with their indexes.
func (s *Store) All() iter.Seq2[int, *Item] {
	return func(yield func(int, *Item) bool) {
		for i := range s.Len() {
			if !yield(i, s.items[i]) {
				return
			}
		}
	}
}

// Labels returns the labels of every item, in order.
func (s *Store) Labels() []string {
	labels := make([]string, 0, s.Len())
	for _, item := range s.All() {
		labels = append(labels, item.Label)
	}
	return labels
}

// ActiveCount returns how many items are active.
func (s *Store) ActiveCount() int {
	var n int
	for _, item := range s.All() {
		if item.IsActive {
			n++
		}
	}
	return n
}

// Toggle returns a new store where the item at index i has its active flag
// flipped. Every other position holds the same *Item as the receiver. On an
// out of range index the receiver itself is returned along with
// ErrIndexOutOfRange.
func (s *Store) Toggle(i int) (*Store, error) {
	if i < 0 || i >= s.Len() {
		return s, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, s.Len())
	}
	item := s.items[i]
	next := slices.Clone(s.items)
	next[i] = &Item{
		ID:       item.ID,
		Label:    item.Label,
		IsActive: !item.IsActive,
	}
	return &Store{items: next}, nil
}
