package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"sync/atomic"
	"unsafe"

	"github.com/mcncl/gbln/internal/marshal"
)

// cAllocator hands out C heap memory so foreign callers can keep returned
// strings past the call and release them with gbln_string_free.
type cAllocator struct {
	live atomic.Int64
}

func ptrOf(p unsafe.Pointer) marshal.Ptr {
	return marshal.Ptr(uintptr(p))
}

func (a *cAllocator) CString(s string) (marshal.Ptr, error) {
	if err := marshal.ValidateCString(s); err != nil {
		return 0, err
	}
	a.live.Add(1)
	return ptrOf(unsafe.Pointer(C.CString(s))), nil
}

func (a *cAllocator) GoString(p marshal.Ptr) string {
	if p == 0 {
		return ""
	}
	return C.GoString((*C.char)(unsafe.Pointer(uintptr(p))))
}

func (a *cAllocator) Free(p marshal.Ptr) {
	if p == 0 {
		return
	}
	C.free(unsafe.Pointer(uintptr(p)))
	a.live.Add(-1)
}

func (a *cAllocator) StringArray(ptrs []marshal.Ptr) marshal.Ptr {
	if len(ptrs) == 0 {
		return 0
	}
	mem := C.malloc(C.size_t(len(ptrs)) * C.size_t(unsafe.Sizeof(uintptr(0))))
	slots := unsafe.Slice((*uintptr)(mem), len(ptrs))
	for i, p := range ptrs {
		slots[i] = uintptr(p)
	}
	a.live.Add(1)
	return ptrOf(mem)
}

func (a *cAllocator) ReadArray(p marshal.Ptr, n int) []marshal.Ptr {
	if p == 0 || n <= 0 {
		return nil
	}
	slots := unsafe.Slice((*uintptr)(unsafe.Pointer(uintptr(p))), n)
	out := make([]marshal.Ptr, n)
	for i, s := range slots {
		out[i] = marshal.Ptr(s)
	}
	return out
}

func (a *cAllocator) FreeArray(p marshal.Ptr, n int) {
	if p == 0 {
		return
	}
	for _, s := range a.ReadArray(p, n) {
		a.Free(s)
	}
	C.free(unsafe.Pointer(uintptr(p)))
	a.live.Add(-1)
}

func (a *cAllocator) Live() int {
	return int(a.live.Load())
}
