package main

/*
#include <stdlib.h>
#include "gbln.h"
*/
import "C"

import "unsafe"

// Go-string wrappers over the exported functions. Test files cannot use cgo,
// so the package tests reach the C surface through these.

func cString(s string) *C.char { return C.CString(s) }

func cFree(p *C.char) { C.free(unsafe.Pointer(p)) }

func newOut() *C.uint64_t { return new(C.uint64_t) }

func newOK() *C.bool { return new(C.bool) }

func newCount() *C.size_t { return new(C.size_t) }

func sizeT(n uint64) C.size_t { return C.size_t(n) }

// parseText runs gbln_parse on s.
func parseText(s string) (int32, C.uint64_t) {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))
	var out C.uint64_t
	code := gbln_parse(cs, &out)
	return int32(code), out
}

// takeString reads a returned string and releases it.
func takeString(p *C.char) (string, bool) {
	if p == nil {
		return "", false
	}
	defer gbln_string_free(p)
	return C.GoString(p), true
}

// renderText runs gbln_to_string or gbln_to_string_pretty.
func renderText(h C.uint64_t, pretty bool) (string, bool) {
	if pretty {
		return takeString(gbln_to_string_pretty(h))
	}
	return takeString(gbln_to_string(h))
}

// lastError reads the calling thread's message and suggestion.
func lastError() (msg, suggestion string) {
	msg, _ = takeString(gbln_last_error_message())
	suggestion, _ = takeString(gbln_last_error_suggestion())
	return msg, suggestion
}

// objectGet runs gbln_object_get with a Go key.
func objectGet(h C.uint64_t, key string) C.uint64_t {
	ck := C.CString(key)
	defer C.free(unsafe.Pointer(ck))
	return gbln_object_get(h, ck)
}

// objectInsert runs gbln_object_insert with a Go key.
func objectInsert(obj C.uint64_t, key string, val C.uint64_t) int32 {
	ck := C.CString(key)
	defer C.free(unsafe.Pointer(ck))
	return int32(gbln_object_insert(obj, ck, val))
}

// newStr runs gbln_value_new_str with Go content.
func newStr(s string, maxLen uint64) C.uint64_t {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))
	return gbln_value_new_str(cs, C.size_t(maxLen))
}

// keysOf copies a gbln_object_keys result into Go strings.
func keysOf(keys **C.char, n C.size_t) []string {
	if keys == nil || n == 0 {
		return nil
	}
	out := make([]string, 0, int(n))
	for _, p := range unsafe.Slice(keys, int(n)) {
		out = append(out, C.GoString(p))
	}
	return out
}

// writeIO runs gbln_write_io; a nil cfg passes NULL.
func writeIO(h C.uint64_t, path string, cfg *C.gbln_config) int32 {
	cp := C.CString(path)
	defer C.free(unsafe.Pointer(cp))
	return int32(gbln_write_io(h, cp, cfg))
}

// readIO runs gbln_read_io.
func readIO(path string) (int32, C.uint64_t) {
	cp := C.CString(path)
	defer C.free(unsafe.Pointer(cp))
	var out C.uint64_t
	code := gbln_read_io(cp, &out)
	return int32(code), out
}

// withIndent returns cfg with its indent field replaced.
func withIndent(cfg C.gbln_config, indent uint64) C.gbln_config {
	cfg.indent = C.size_t(indent)
	return cfg
}
