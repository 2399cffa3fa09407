package dsl

import (
	"strconv"

	kanon "github.com/kanoncodec/kanon"
	"github.com/kanoncodec/kanon/i18n"
)

// Array returns an array schema over the given element schema. The default
// value is the empty sequence; a non-empty sequence is never "default" even
// when every element is at its own default.
func Array(elem kanon.Schema) kanon.Schema { return arraySchema{elem: elem} }

type arraySchema struct{ elem kanon.Schema }

func (arraySchema) DefaultValue() any { return []any{} }

func (arraySchema) IsDefault(v any) bool {
	items, ok := v.([]any)
	return ok && len(items) == 0
}

func (a arraySchema) prepare(f wireFormat, v any) (kanon.Node, error) {
	items, ok := v.([]any)
	if !ok {
		return kanon.Node{}, kanon.Issues{kanon.Issue{Path: "/", Code: kanon.CodeInvalidType, Message: i18n.T(kanon.CodeInvalidType, nil), Hint: "expected array"}}
	}
	out := make([]kanon.Node, 0, len(items))
	for i, item := range items {
		n, err := prepareAs(a.elem, f, item)
		if err != nil {
			return kanon.Node{}, kanon.RebaseIssues("/"+strconv.Itoa(i), err)
		}
		out = append(out, n)
	}
	return kanon.SeqNode(out), nil
}

func (a arraySchema) fromPrepared(f wireFormat, n kanon.Node) (any, error) {
	if n.Kind != kanon.KindSeq {
		return nil, kindIssue(kanon.KindSeq, n.Kind)
	}
	out := make([]any, 0, len(n.Seq))
	for i, child := range n.Seq {
		v, err := fromPreparedAs(a.elem, f, child)
		if err != nil {
			return nil, kanon.RebaseIssues("/"+strconv.Itoa(i), err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (a arraySchema) PrepareMsgpack(v any) (kanon.Node, error) { return a.prepare(formatMsgpack, v) }
func (a arraySchema) PrepareJSON(v any) (kanon.Node, error)    { return a.prepare(formatJSON, v) }

func (a arraySchema) FromPreparedMsgpack(n kanon.Node) (any, error) {
	return a.fromPrepared(formatMsgpack, n)
}

func (a arraySchema) FromPreparedJSON(n kanon.Node) (any, error) {
	return a.fromPrepared(formatJSON, n)
}
