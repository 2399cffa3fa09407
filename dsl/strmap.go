package dsl

import (
	"sort"

	kanon "github.com/kanoncodec/kanon"
	"github.com/kanoncodec/kanon/i18n"
)

// StringMap returns a homogeneous string-keyed map schema over the given
// value schema. No declared key order exists, so the canonical encoding
// sorts keys lexicographically. Default is the empty map; unlike struct
// schemas every key is legal and values are never elided.
func StringMap(value kanon.Schema) kanon.Schema { return stringMapSchema{value: value} }

type stringMapSchema struct{ value kanon.Schema }

func (stringMapSchema) DefaultValue() any { return map[string]any{} }

func (stringMapSchema) IsDefault(v any) bool {
	m, ok := v.(map[string]any)
	return ok && len(m) == 0
}

func (s stringMapSchema) prepare(f wireFormat, v any) (kanon.Node, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return kanon.Node{}, kanon.Issues{kanon.Issue{Path: "/", Code: kanon.CodeInvalidType, Message: i18n.T(kanon.CodeInvalidType, nil), Hint: "expected map"}}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entries := make([]kanon.MapEntry, 0, len(keys))
	for _, k := range keys {
		n, err := prepareAs(s.value, f, m[k])
		if err != nil {
			return kanon.Node{}, kanon.RebaseIssues("/"+k, err)
		}
		entries = append(entries, kanon.MapEntry{Key: k, Value: n})
	}
	return kanon.MapNode(entries), nil
}

func (s stringMapSchema) fromPrepared(f wireFormat, n kanon.Node) (any, error) {
	if n.Kind != kanon.KindMap {
		return nil, kindIssue(kanon.KindMap, n.Kind)
	}
	out := make(map[string]any, len(n.Entries))
	for _, e := range n.Entries {
		v, err := fromPreparedAs(s.value, f, e.Value)
		if err != nil {
			return nil, kanon.RebaseIssues("/"+e.Key, err)
		}
		out[e.Key] = v
	}
	return out, nil
}

func (s stringMapSchema) PrepareMsgpack(v any) (kanon.Node, error) {
	return s.prepare(formatMsgpack, v)
}

func (s stringMapSchema) PrepareJSON(v any) (kanon.Node, error) { return s.prepare(formatJSON, v) }

func (s stringMapSchema) FromPreparedMsgpack(n kanon.Node) (any, error) {
	return s.fromPrepared(formatMsgpack, n)
}

func (s stringMapSchema) FromPreparedJSON(n kanon.Node) (any, error) {
	return s.fromPrepared(formatJSON, n)
}
