// Package dsl provides the constructors for the closed schema family:
// scalar primitives (Uint64, Bool, String, Bytes, FixedBytes, Untyped), the
// Array and StringMap composites, the Struct builder, and the Optional
// wrapper.
//
// Schemas built here are immutable once constructed and safe for concurrent
// read-only use. Composition errors (duplicate struct fields, doubly-wrapped
// optionals) surface at construction time, never at encode time.
package dsl
