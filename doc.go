package kanon

// Package kanon implements canonical schema-driven encoding for protocol
// records:
//
// - A closed family of composable schemas (scalars, byte strings, arrays,
//   named structs, string maps, optional wrappers) describing value shapes
// - Two wire projections per schema: a deterministic MessagePack-compatible
//   binary form whose bytes feed hashing/signing, and a JSON text form for
//   human-facing APIs
// - Default-value elision: struct fields equal to their schema default are
//   dropped from output entirely, so one logical value always produces one
//   byte sequence
// - A stable error model via Issues (JSON Pointer, code, message)
//
// Design policy:
// - Keep the contract (Schema, Node, Issues) and the wire drivers in the
//   root package; place schema constructors under dsl/, schema-definition
//   file loading under schemafile/, and the CLI under cmd/kanon.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	s := buildSchema()
//	wire, err := kanon.MarshalMsgpack(s, value)
//	v, err := kanon.UnmarshalMsgpack(s, wire)
//
//	text, err := kanon.MarshalJSON(s, value)
//	v, err := kanon.UnmarshalJSON(s, text)
