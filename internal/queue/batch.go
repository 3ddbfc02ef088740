package queue

import "sync"

// Batch is an ordered, append-only collection of items that are handed out
// to concurrent consumers exactly once. Items keep their submission order;
// Claim always returns the oldest unclaimed item.
//
// All methods are safe for concurrent use.
type Batch[T any] struct {
	mu    sync.Mutex
	items []T
	next  int
}

// NewBatch creates an empty batch with room for capacity items.
func NewBatch[T any](capacity int) *Batch[T] {
	return &Batch[T]{items: make([]T, 0, max(capacity, 0))}
}

// Add appends an item and returns its index within the batch.
func (b *Batch[T]) Add(item T) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = append(b.items, item)
	return len(b.items) - 1
}

// Claim hands out the next unclaimed item together with its index.
// ok is false once every item added so far has been claimed.
func (b *Batch[T]) Claim() (item T, index int, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.next >= len(b.items) {
		return item, -1, false
	}

	index = b.next
	item = b.items[index]
	var zero T
	b.items[index] = zero // release the reference, the batch no longer needs it
	b.next++
	return item, index, true
}

// Clear drops every item and rewinds the claim cursor.
// The backing array is reused by the next batch.
func (b *Batch[T]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	clear(b.items)
	b.items = b.items[:0]
	b.next = 0
}

// Len returns the number of items added since the last Clear.
func (b *Batch[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Pending returns the number of items not yet claimed.
func (b *Batch[T]) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items) - b.next
}
