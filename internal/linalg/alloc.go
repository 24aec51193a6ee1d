package linalg

import "fmt"

// Allocator supplies element storage for containers.
//
// Alloc returns a zeroed slice of exactly n elements. Free receives the full
// slice previously returned by Alloc (its capacity is what was allocated).
type Allocator[T Float] interface {
	Alloc(n int) ([]T, error)
	Free(buf []T)
}

// Heap allocates from the Go heap. Free is a no-op; the garbage collector
// reclaims released buffers.
type Heap[T Float] struct{}

// Alloc implements Allocator.
func (Heap[T]) Alloc(n int) ([]T, error) {
	if n <= 0 {
		return nil, opErr("Heap.Alloc", ErrInvalidArgument, "size=%d", n)
	}
	return make([]T, n), nil
}

// Free implements Allocator.
func (Heap[T]) Free([]T) {}

// Budget wraps another allocator and keeps account of every buffer handed
// out. It can cap the number of live elements and inject a failure after a
// given number of successful allocations, which makes it the tool for testing
// cleanup paths.
//
// Budget is not safe for concurrent use.
type Budget[T Float] struct {
	inner     Allocator[T]
	limit     int // Max live elements, 0 means unlimited
	remaining int // Allocations left before injected failure, -1 means never

	live   int
	allocs int
	frees  int
}

// NewBudget creates a Budget over inner (Heap when nil) allowing at most limit
// live elements. A limit of 0 disables the cap.
func NewBudget[T Float](inner Allocator[T], limit int) *Budget[T] {
	if inner == nil {
		inner = Heap[T]{}
	}
	return &Budget[T]{inner: inner, limit: limit, remaining: -1}
}

// FailAfter makes the allocator fail once n further allocations succeeded.
// A negative n clears the injected failure.
func (b *Budget[T]) FailAfter(n int) {
	b.remaining = n
}

// Alloc implements Allocator.
func (b *Budget[T]) Alloc(n int) ([]T, error) {
	if b.remaining == 0 {
		return nil, opErr("Budget.Alloc", ErrAllocation, "injected failure at allocation %d", b.allocs+1)
	}
	if b.limit > 0 && b.live+n > b.limit {
		return nil, &OpError{
			Op:     "Budget.Alloc",
			Err:    ErrAllocation,
			Detail: fmt.Sprintf("%d live + %d requested exceeds limit %d", b.live, n, b.limit),
		}
	}
	buf, err := b.inner.Alloc(n)
	if err != nil {
		return nil, err
	}
	if b.remaining > 0 {
		b.remaining--
	}
	b.live += n
	b.allocs++
	return buf, nil
}

// Free implements Allocator.
func (b *Budget[T]) Free(buf []T) {
	b.live -= cap(buf)
	b.frees++
	b.inner.Free(buf)
}

// Live returns the number of elements currently allocated.
func (b *Budget[T]) Live() int { return b.live }

// Allocs returns the number of successful allocations.
func (b *Budget[T]) Allocs() int { return b.allocs }

// Frees returns the number of releases.
func (b *Budget[T]) Frees() int { return b.frees }

// Outstanding returns allocations not yet released.
func (b *Budget[T]) Outstanding() int { return b.allocs - b.frees }
