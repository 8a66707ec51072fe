// Package abi is the handle-based surface that foreign callers see.
//
// Every operation takes and returns plain integers, strings and handles so
// that it maps one-to-one onto an exported C function. The rules are:
//
//   - Handles returned by Parse, ParseFile, ReadIO and the New* constructors
//     are owned by the caller and must be released with Free.
//   - Handles returned by ObjectGet and ArrayGet are borrowed. They stay valid
//     until the root they were reached from is freed and must never be freed
//     themselves.
//   - ObjectInsert and ArrayPush consume the value handle on success. On
//     failure the caller still owns it.
//   - Every string returned (ToString, AsString, LastErrorMessage, ...) is a
//     fresh buffer owned by the caller and released with StringFree, or with
//     KeysFree for ObjectKeys.
//   - Fallible operations return a Code and record the details in a per-thread
//     slot read back with LastErrorMessage and LastErrorSuggestion. Success
//     clears the slot. Accessors never touch it.
//
// A Boundary is safe for concurrent use by many threads as long as no tree is
// mutated by one thread while another reads or mutates it.
package abi
