// Command libgbln builds the GBLN shared library:
//
//	go build -buildmode=c-shared -o libgbln.so ./cmd/libgbln
//
// Handles are opaque uint64_t values; 0 is null. Strings returned by the
// library belong to the caller and are released with gbln_string_free.
// gbln.h declares gbln_config for C callers.
package main

/*
#include "gbln.h"
*/
import "C"

import (
	"unsafe"

	"github.com/mcncl/gbln/abi"
	"github.com/mcncl/gbln/internal/config"
	"github.com/mcncl/gbln/internal/logging"
	"github.com/mcncl/gbln/internal/marshal"
)

var boundary *abi.Boundary

func init() {
	logging.Set(logging.FromEnv())
	boundary = abi.New(abi.WithAllocator(&cAllocator{}))
}

func main() {}

func handleOf(h C.uint64_t) abi.Handle { return abi.Handle(h) }

func cstr(p marshal.Ptr) *C.char {
	return (*C.char)(unsafe.Pointer(uintptr(p)))
}

func setOK(ok *C.bool, v bool) {
	if ok != nil {
		*ok = C.bool(v)
	}
}

func setHandle(out *C.uint64_t, h abi.Handle) {
	if out != nil {
		*out = C.uint64_t(h)
	}
}

// ---- parse / free / render ----

//export gbln_parse
func gbln_parse(text *C.char, out *C.uint64_t) C.int {
	setHandle(out, abi.NullHandle)
	if text == nil {
		return C.int(boundary.NullArgument("input"))
	}
	if out == nil {
		return C.int(boundary.NullArgument("out_value"))
	}
	code, h := boundary.Parse(C.GoString(text))
	setHandle(out, h)
	return C.int(code)
}

//export gbln_parse_file
func gbln_parse_file(path *C.char, out *C.uint64_t) C.int {
	setHandle(out, abi.NullHandle)
	if path == nil {
		return C.int(boundary.NullArgument("path"))
	}
	if out == nil {
		return C.int(boundary.NullArgument("out_value"))
	}
	code, h := boundary.ParseFile(C.GoString(path))
	setHandle(out, h)
	return C.int(code)
}

//export gbln_value_free
func gbln_value_free(h C.uint64_t) {
	boundary.Free(handleOf(h))
}

//export gbln_to_string
func gbln_to_string(h C.uint64_t) *C.char {
	return cstr(boundary.ToString(handleOf(h)))
}

//export gbln_to_string_pretty
func gbln_to_string_pretty(h C.uint64_t) *C.char {
	return cstr(boundary.ToStringPretty(handleOf(h)))
}

//export gbln_string_free
func gbln_string_free(s *C.char) {
	boundary.StringFree(marshal.Ptr(uintptr(unsafe.Pointer(s))))
}

//export gbln_last_error_message
func gbln_last_error_message() *C.char {
	return cstr(boundary.LastErrorMessage())
}

//export gbln_last_error_suggestion
func gbln_last_error_suggestion() *C.char {
	return cstr(boundary.LastErrorSuggestion())
}

// ---- navigation ----

//export gbln_object_get
func gbln_object_get(h C.uint64_t, key *C.char) C.uint64_t {
	if key == nil {
		return 0
	}
	return C.uint64_t(boundary.ObjectGet(handleOf(h), C.GoString(key)))
}

//export gbln_object_len
func gbln_object_len(h C.uint64_t) C.size_t {
	return C.size_t(boundary.ObjectLen(handleOf(h)))
}

//export gbln_object_keys
func gbln_object_keys(h C.uint64_t, count *C.size_t) **C.char {
	p, n := boundary.ObjectKeys(handleOf(h))
	if count != nil {
		*count = C.size_t(n)
	}
	return (**C.char)(unsafe.Pointer(uintptr(p)))
}

//export gbln_keys_free
func gbln_keys_free(keys **C.char, count C.size_t) {
	boundary.KeysFree(marshal.Ptr(uintptr(unsafe.Pointer(keys))), int(count))
}

//export gbln_array_len
func gbln_array_len(h C.uint64_t) C.size_t {
	return C.size_t(boundary.ArrayLen(handleOf(h)))
}

//export gbln_array_get
func gbln_array_get(h C.uint64_t, index C.size_t) C.uint64_t {
	if uint64(index) > uint64(^uint(0)>>1) {
		return 0
	}
	return C.uint64_t(boundary.ArrayGet(handleOf(h), int(index)))
}

//export gbln_value_type
func gbln_value_type(h C.uint64_t) C.int {
	return C.int(boundary.ValueType(handleOf(h)))
}

//export gbln_value_is_null
func gbln_value_is_null(h C.uint64_t) C.bool {
	return C.bool(boundary.IsNull(handleOf(h)))
}

// ---- accessors ----

//export gbln_value_as_i8
func gbln_value_as_i8(h C.uint64_t, ok *C.bool) C.int8_t {
	v, found := boundary.AsI8(handleOf(h))
	setOK(ok, found)
	return C.int8_t(v)
}

//export gbln_value_as_i16
func gbln_value_as_i16(h C.uint64_t, ok *C.bool) C.int16_t {
	v, found := boundary.AsI16(handleOf(h))
	setOK(ok, found)
	return C.int16_t(v)
}

//export gbln_value_as_i32
func gbln_value_as_i32(h C.uint64_t, ok *C.bool) C.int32_t {
	v, found := boundary.AsI32(handleOf(h))
	setOK(ok, found)
	return C.int32_t(v)
}

//export gbln_value_as_i64
func gbln_value_as_i64(h C.uint64_t, ok *C.bool) C.int64_t {
	v, found := boundary.AsI64(handleOf(h))
	setOK(ok, found)
	return C.int64_t(v)
}

//export gbln_value_as_u8
func gbln_value_as_u8(h C.uint64_t, ok *C.bool) C.uint8_t {
	v, found := boundary.AsU8(handleOf(h))
	setOK(ok, found)
	return C.uint8_t(v)
}

//export gbln_value_as_u16
func gbln_value_as_u16(h C.uint64_t, ok *C.bool) C.uint16_t {
	v, found := boundary.AsU16(handleOf(h))
	setOK(ok, found)
	return C.uint16_t(v)
}

//export gbln_value_as_u32
func gbln_value_as_u32(h C.uint64_t, ok *C.bool) C.uint32_t {
	v, found := boundary.AsU32(handleOf(h))
	setOK(ok, found)
	return C.uint32_t(v)
}

//export gbln_value_as_u64
func gbln_value_as_u64(h C.uint64_t, ok *C.bool) C.uint64_t {
	v, found := boundary.AsU64(handleOf(h))
	setOK(ok, found)
	return C.uint64_t(v)
}

//export gbln_value_as_f32
func gbln_value_as_f32(h C.uint64_t, ok *C.bool) C.float {
	v, found := boundary.AsF32(handleOf(h))
	setOK(ok, found)
	return C.float(v)
}

//export gbln_value_as_f64
func gbln_value_as_f64(h C.uint64_t, ok *C.bool) C.double {
	v, found := boundary.AsF64(handleOf(h))
	setOK(ok, found)
	return C.double(v)
}

//export gbln_value_as_bool
func gbln_value_as_bool(h C.uint64_t, ok *C.bool) C.bool {
	v, found := boundary.AsBool(handleOf(h))
	setOK(ok, found)
	return C.bool(v)
}

//export gbln_value_as_string
func gbln_value_as_string(h C.uint64_t, ok *C.bool) *C.char {
	p, found := boundary.AsString(handleOf(h))
	setOK(ok, found)
	return cstr(p)
}

// ---- constructors ----

//export gbln_value_new_i8
func gbln_value_new_i8(v C.int8_t) C.uint64_t { return C.uint64_t(boundary.NewI8(int8(v))) }

//export gbln_value_new_i16
func gbln_value_new_i16(v C.int16_t) C.uint64_t { return C.uint64_t(boundary.NewI16(int16(v))) }

//export gbln_value_new_i32
func gbln_value_new_i32(v C.int32_t) C.uint64_t { return C.uint64_t(boundary.NewI32(int32(v))) }

//export gbln_value_new_i64
func gbln_value_new_i64(v C.int64_t) C.uint64_t { return C.uint64_t(boundary.NewI64(int64(v))) }

//export gbln_value_new_u8
func gbln_value_new_u8(v C.uint8_t) C.uint64_t { return C.uint64_t(boundary.NewU8(uint8(v))) }

//export gbln_value_new_u16
func gbln_value_new_u16(v C.uint16_t) C.uint64_t { return C.uint64_t(boundary.NewU16(uint16(v))) }

//export gbln_value_new_u32
func gbln_value_new_u32(v C.uint32_t) C.uint64_t { return C.uint64_t(boundary.NewU32(uint32(v))) }

//export gbln_value_new_u64
func gbln_value_new_u64(v C.uint64_t) C.uint64_t { return C.uint64_t(boundary.NewU64(uint64(v))) }

//export gbln_value_new_f32
func gbln_value_new_f32(v C.float) C.uint64_t { return C.uint64_t(boundary.NewF32(float32(v))) }

//export gbln_value_new_f64
func gbln_value_new_f64(v C.double) C.uint64_t { return C.uint64_t(boundary.NewF64(float64(v))) }

//export gbln_value_new_bool
func gbln_value_new_bool(v C.bool) C.uint64_t { return C.uint64_t(boundary.NewBool(bool(v))) }

//export gbln_value_new_null
func gbln_value_new_null() C.uint64_t { return C.uint64_t(boundary.NewNull()) }

//export gbln_value_new_object
func gbln_value_new_object() C.uint64_t { return C.uint64_t(boundary.NewObject()) }

//export gbln_value_new_array
func gbln_value_new_array() C.uint64_t { return C.uint64_t(boundary.NewArray()) }

//export gbln_value_new_str
func gbln_value_new_str(content *C.char, maxLen C.size_t) C.uint64_t {
	if content == nil {
		boundary.NullArgument("content")
		return 0
	}
	bound := uint64(maxLen)
	if bound > uint64(^uint(0)>>1) {
		bound = uint64(^uint(0) >> 1)
	}
	return C.uint64_t(boundary.NewStr(C.GoString(content), int(bound)))
}

// ---- mutators ----

//export gbln_object_insert
func gbln_object_insert(obj C.uint64_t, key *C.char, val C.uint64_t) C.int {
	if key == nil {
		return C.int(boundary.NullArgument("key"))
	}
	return C.int(boundary.ObjectInsert(handleOf(obj), C.GoString(key), handleOf(val)))
}

//export gbln_array_push
func gbln_array_push(arr C.uint64_t, val C.uint64_t) C.int {
	return C.int(boundary.ArrayPush(handleOf(arr), handleOf(val)))
}

// ---- config / io ----

func toC(c abi.Config) C.gbln_config {
	return C.gbln_config{
		mini_mode:         C.bool(c.MiniMode),
		compress:          C.bool(c.Compress),
		compression_level: C.uint8_t(c.CompressionLevel),
		indent:            C.size_t(c.Indent),
		strip_comments:    C.bool(c.StripComments),
	}
}

func fromC(c *C.gbln_config) *abi.Config {
	if c == nil {
		return nil
	}
	// Widths past the limit stay past it instead of wrapping negative.
	indent := uint64(c.indent)
	if indent > config.MaxIndent {
		indent = config.MaxIndent + 1
	}
	return &abi.Config{
		MiniMode:         bool(c.mini_mode),
		Compress:         bool(c.compress),
		CompressionLevel: uint8(c.compression_level),
		Indent:           int(indent),
		StripComments:    bool(c.strip_comments),
	}
}

//export gbln_config_default
func gbln_config_default() C.gbln_config { return toC(boundary.ConfigDefault()) }

//export gbln_config_development
func gbln_config_development() C.gbln_config { return toC(boundary.ConfigDevelopment()) }

//export gbln_config_io_format
func gbln_config_io_format() C.gbln_config { return toC(boundary.ConfigIOFormat()) }

//export gbln_write_io
func gbln_write_io(h C.uint64_t, path *C.char, cfg *C.gbln_config) C.int {
	if path == nil {
		return C.int(boundary.NullArgument("path"))
	}
	return C.int(boundary.WriteIO(handleOf(h), C.GoString(path), fromC(cfg)))
}

//export gbln_read_io
func gbln_read_io(path *C.char, out *C.uint64_t) C.int {
	setHandle(out, abi.NullHandle)
	if path == nil {
		return C.int(boundary.NullArgument("path"))
	}
	if out == nil {
		return C.int(boundary.NullArgument("out_value"))
	}
	code, h := boundary.ReadIO(C.GoString(path))
	setHandle(out, h)
	return C.int(code)
}
