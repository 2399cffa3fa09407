package dsl

import (
	kanon "github.com/kanoncodec/kanon"
)

// Optional lifts inner to additionally represent "no value". The absent
// marker (untyped nil) and inner's own default form one equivalence class
// for IsDefault, so an enclosing struct elides the field whether the caller
// passed nothing or explicitly passed the zero value, and a decoder restores
// an omitted field as absent rather than as the inner zero.
//
// Wrapping an Optional in another Optional is degenerate (both collapse to
// the same single absent state) and is rejected here rather than silently
// accepted.
func Optional(inner kanon.Schema) (kanon.Schema, error) {
	if inner == nil {
		return nil, kanon.Issues{kanon.Issue{Path: "/", Code: kanon.CodeInvalidSchema, Message: "optional schema needs an inner schema"}}
	}
	if _, ok := inner.(optionalSchema); ok {
		return nil, kanon.Issues{kanon.Issue{Path: "/", Code: kanon.CodeInvalidSchema, Message: "optional schema cannot wrap another optional"}}
	}
	return optionalSchema{inner: inner}, nil
}

// MustOptional is Optional for statically known-good compositions; it panics
// on a construction error.
func MustOptional(inner kanon.Schema) kanon.Schema {
	s, err := Optional(inner)
	if err != nil {
		panic(err)
	}
	return s
}

type optionalSchema struct{ inner kanon.Schema }

func (optionalSchema) DefaultValue() any { return nil }

func (o optionalSchema) IsDefault(v any) bool {
	return kanon.IsAbsent(v) || o.inner.IsDefault(v)
}

func (o optionalSchema) PrepareMsgpack(v any) (kanon.Node, error) {
	if kanon.IsAbsent(v) {
		return kanon.NilNode(), nil
	}
	return o.inner.PrepareMsgpack(v)
}

func (o optionalSchema) FromPreparedMsgpack(n kanon.Node) (any, error) {
	if n.Kind == kanon.KindNil {
		return nil, nil
	}
	return o.inner.FromPreparedMsgpack(n)
}

func (o optionalSchema) PrepareJSON(v any) (kanon.Node, error) {
	if kanon.IsAbsent(v) {
		// JSON has no omitted scalar, so absence is an explicit null here;
		// the binary path can truly omit in struct context.
		return kanon.NilNode(), nil
	}
	return o.inner.PrepareJSON(v)
}

func (o optionalSchema) FromPreparedJSON(n kanon.Node) (any, error) {
	if n.Kind == kanon.KindNil {
		return nil, nil
	}
	return o.inner.FromPreparedJSON(n)
}
