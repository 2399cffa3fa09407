package dsl

import (
	kanon "github.com/kanoncodec/kanon"
)

// wireFormat selects which of a schema's two prepare/fromPrepared pipelines
// a composite traversal drives. Composites walk their children exactly once
// per call and parameterize only this leaf dispatch, so the
// "walk fields, skip defaults" logic exists in one place per composite.
type wireFormat int

const (
	formatMsgpack wireFormat = iota
	formatJSON
)

func prepareAs(s kanon.Schema, f wireFormat, v any) (kanon.Node, error) {
	if f == formatMsgpack {
		return s.PrepareMsgpack(v)
	}
	return s.PrepareJSON(v)
}

func fromPreparedAs(s kanon.Schema, f wireFormat, n kanon.Node) (any, error) {
	if f == formatMsgpack {
		return s.FromPreparedMsgpack(n)
	}
	return s.FromPreparedJSON(n)
}
