// Package marshal moves strings across the boundary as NUL-terminated
// buffers whose ownership passes to the caller.
package marshal

import (
	"sync"

	"github.com/mcncl/gbln/internal/value"
)

// Ptr is the address of a boundary string or string array. Zero is null.
type Ptr uintptr

// Allocator creates and releases boundary strings. The cgo export layer uses
// C.malloc so foreign callers can hold the memory; Go callers and tests use
// HeapAllocator.
type Allocator interface {
	// CString copies s into a fresh NUL-terminated buffer.
	CString(s string) (Ptr, error)
	// GoString reads the buffer at p. A null pointer reads as "".
	GoString(p Ptr) string
	// Free releases a buffer returned by CString. Freeing null is a no-op.
	Free(p Ptr)
	// StringArray stores ptrs in a fresh array buffer.
	StringArray(ptrs []Ptr) Ptr
	// ReadArray returns the first n entries of an array buffer.
	ReadArray(p Ptr, n int) []Ptr
	// FreeArray releases the first n strings of the array and then the array.
	FreeArray(p Ptr, n int)
	// Live counts buffers handed out and not yet released.
	Live() int
}

// ValidateCString rejects content that cannot be represented as a
// NUL-terminated UTF-8 string.
func ValidateCString(s string) error {
	return value.CheckText(s)
}

// HeapAllocator keeps boundary strings in Go memory. Addresses are opaque
// tokens, never real pointers.
type HeapAllocator struct {
	mu      sync.Mutex
	next    Ptr
	strings map[Ptr]string
	arrays  map[Ptr][]Ptr
}

// NewHeapAllocator creates an empty allocator
func NewHeapAllocator() *HeapAllocator {
	return &HeapAllocator{
		strings: make(map[Ptr]string),
		arrays:  make(map[Ptr][]Ptr),
	}
}

func (a *HeapAllocator) alloc() Ptr {
	a.next++
	return a.next
}

func (a *HeapAllocator) CString(s string) (Ptr, error) {
	if err := ValidateCString(s); err != nil {
		return 0, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	p := a.alloc()
	a.strings[p] = s
	return p, nil
}

func (a *HeapAllocator) GoString(p Ptr) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.strings[p]
}

func (a *HeapAllocator) Free(p Ptr) {
	if p == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.strings, p)
}

func (a *HeapAllocator) StringArray(ptrs []Ptr) Ptr {
	a.mu.Lock()
	defer a.mu.Unlock()
	p := a.alloc()
	a.arrays[p] = append([]Ptr(nil), ptrs...)
	return p
}

func (a *HeapAllocator) ReadArray(p Ptr, n int) []Ptr {
	a.mu.Lock()
	defer a.mu.Unlock()
	arr := a.arrays[p]
	if n > len(arr) {
		n = len(arr)
	}
	if n <= 0 {
		return nil
	}
	return append([]Ptr(nil), arr[:n]...)
}

func (a *HeapAllocator) FreeArray(p Ptr, n int) {
	if p == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	arr, ok := a.arrays[p]
	if !ok {
		return
	}
	if n > len(arr) {
		n = len(arr)
	}
	for _, s := range arr[:max(n, 0)] {
		delete(a.strings, s)
	}
	delete(a.arrays, p)
}

func (a *HeapAllocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.strings) + len(a.arrays)
}
