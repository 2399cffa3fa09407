package dsl

import (
	"encoding/base64"
	"fmt"

	kanon "github.com/kanoncodec/kanon"
	"github.com/kanoncodec/kanon/i18n"
)

// Uint64 returns the unsigned 64-bit integer schema. Default is 0. Signed
// Go integers are accepted as input when non-negative; the decoded value is
// always uint64.
func Uint64() kanon.Schema { return uint64Schema{} }

type uint64Schema struct{}

func (uint64Schema) DefaultValue() any { return uint64(0) }

func (uint64Schema) IsDefault(v any) bool {
	u, err := coerceUint64(v)
	return err == nil && u == 0
}

func (uint64Schema) PrepareMsgpack(v any) (kanon.Node, error) {
	u, err := coerceUint64(v)
	if err != nil {
		return kanon.Node{}, err
	}
	return kanon.UintNode(u), nil
}

func (uint64Schema) FromPreparedMsgpack(n kanon.Node) (any, error) {
	if n.Kind != kanon.KindUint {
		return nil, kindIssue(kanon.KindUint, n.Kind)
	}
	return n.Uint, nil
}

func (s uint64Schema) PrepareJSON(v any) (kanon.Node, error)      { return s.PrepareMsgpack(v) }
func (s uint64Schema) FromPreparedJSON(n kanon.Node) (any, error) { return s.FromPreparedMsgpack(n) }

func coerceUint64(v any) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint:
		return uint64(n), nil
	case int:
		if n < 0 {
			return 0, negativeIssue(int64(n))
		}
		return uint64(n), nil
	case int64:
		if n < 0 {
			return 0, negativeIssue(n)
		}
		return uint64(n), nil
	default:
		return 0, kanon.Issues{kanon.Issue{Path: "/", Code: kanon.CodeInvalidType, Message: i18n.T(kanon.CodeInvalidType, nil), Hint: "expected unsigned integer"}}
	}
}

func negativeIssue(n int64) kanon.Issues {
	return kanon.Issues{kanon.Issue{Path: "/", Code: kanon.CodeOverflow, Message: i18n.T(kanon.CodeOverflow, nil), Hint: fmt.Sprintf("negative value %d", n)}}
}

// Bool returns the boolean schema. Default is false.
func Bool() kanon.Schema { return boolSchema{} }

type boolSchema struct{}

func (boolSchema) DefaultValue() any { return false }

func (boolSchema) IsDefault(v any) bool {
	b, ok := v.(bool)
	return ok && !b
}

func (boolSchema) PrepareMsgpack(v any) (kanon.Node, error) {
	b, ok := v.(bool)
	if !ok {
		return kanon.Node{}, kanon.Issues{kanon.Issue{Path: "/", Code: kanon.CodeInvalidType, Message: i18n.T(kanon.CodeInvalidType, nil), Hint: "expected bool"}}
	}
	return kanon.BoolNode(b), nil
}

func (boolSchema) FromPreparedMsgpack(n kanon.Node) (any, error) {
	if n.Kind != kanon.KindBool {
		return nil, kindIssue(kanon.KindBool, n.Kind)
	}
	return n.Bool, nil
}

func (s boolSchema) PrepareJSON(v any) (kanon.Node, error)      { return s.PrepareMsgpack(v) }
func (s boolSchema) FromPreparedJSON(n kanon.Node) (any, error) { return s.FromPreparedMsgpack(n) }

// String returns the UTF-8 text schema. Default is "".
func String() kanon.Schema { return stringSchema{} }

type stringSchema struct{}

func (stringSchema) DefaultValue() any { return "" }

func (stringSchema) IsDefault(v any) bool {
	s, ok := v.(string)
	return ok && s == ""
}

func (stringSchema) PrepareMsgpack(v any) (kanon.Node, error) {
	s, ok := v.(string)
	if !ok {
		return kanon.Node{}, kanon.Issues{kanon.Issue{Path: "/", Code: kanon.CodeInvalidType, Message: i18n.T(kanon.CodeInvalidType, nil), Hint: "expected string"}}
	}
	return kanon.StringNode(s), nil
}

func (stringSchema) FromPreparedMsgpack(n kanon.Node) (any, error) {
	if n.Kind != kanon.KindString {
		return nil, kindIssue(kanon.KindString, n.Kind)
	}
	return n.Str, nil
}

func (s stringSchema) PrepareJSON(v any) (kanon.Node, error)      { return s.PrepareMsgpack(v) }
func (s stringSchema) FromPreparedJSON(n kanon.Node) (any, error) { return s.FromPreparedMsgpack(n) }

// Bytes returns the variable-length byte string schema. Default is the empty
// byte string. The binary form is a bin blob; the JSON form is a base64
// (std encoding) string.
func Bytes() kanon.Schema { return bytesSchema{} }

type bytesSchema struct{}

func (bytesSchema) DefaultValue() any { return []byte{} }

func (bytesSchema) IsDefault(v any) bool {
	b, ok := v.([]byte)
	return ok && len(b) == 0
}

func (bytesSchema) PrepareMsgpack(v any) (kanon.Node, error) {
	b, ok := v.([]byte)
	if !ok {
		return kanon.Node{}, kanon.Issues{kanon.Issue{Path: "/", Code: kanon.CodeInvalidType, Message: i18n.T(kanon.CodeInvalidType, nil), Hint: "expected bytes"}}
	}
	return kanon.BytesNode(b), nil
}

func (bytesSchema) FromPreparedMsgpack(n kanon.Node) (any, error) {
	if n.Kind != kanon.KindBytes {
		return nil, kindIssue(kanon.KindBytes, n.Kind)
	}
	if n.Bytes == nil {
		return []byte{}, nil
	}
	return n.Bytes, nil
}

func (bytesSchema) PrepareJSON(v any) (kanon.Node, error) {
	b, ok := v.([]byte)
	if !ok {
		return kanon.Node{}, kanon.Issues{kanon.Issue{Path: "/", Code: kanon.CodeInvalidType, Message: i18n.T(kanon.CodeInvalidType, nil), Hint: "expected bytes"}}
	}
	return kanon.StringNode(base64.StdEncoding.EncodeToString(b)), nil
}

func (bytesSchema) FromPreparedJSON(n kanon.Node) (any, error) {
	if n.Kind != kanon.KindString {
		return nil, kindIssue(kanon.KindString, n.Kind)
	}
	b, err := base64.StdEncoding.DecodeString(n.Str)
	if err != nil {
		return nil, kanon.Issues{kanon.Issue{Path: "/", Code: kanon.CodeInvalidType, Message: i18n.T(kanon.CodeInvalidType, nil), Hint: "expected base64 string", Cause: err}}
	}
	if b == nil {
		b = []byte{}
	}
	return b, nil
}

// FixedBytes returns the byte array schema of exactly size bytes. Default is
// size zero bytes. size must be non-negative; a negative size is a usage
// error and panics at construction.
func FixedBytes(size int) kanon.Schema {
	if size < 0 {
		panic("kanon/dsl: negative fixed byte length")
	}
	return fixedBytesSchema{size: size}
}

type fixedBytesSchema struct{ size int }

func (s fixedBytesSchema) DefaultValue() any { return make([]byte, s.size) }

func (s fixedBytesSchema) IsDefault(v any) bool {
	b, ok := v.([]byte)
	if !ok || len(b) != s.size {
		return false
	}
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

func (s fixedBytesSchema) checked(v any) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, kanon.Issues{kanon.Issue{Path: "/", Code: kanon.CodeInvalidType, Message: i18n.T(kanon.CodeInvalidType, nil), Hint: "expected bytes"}}
	}
	if len(b) != s.size {
		return nil, kanon.Issues{kanon.Issue{Path: "/", Code: kanon.CodeInvalidLength, Message: i18n.T(kanon.CodeInvalidLength, nil), Hint: fmt.Sprintf("expected %d bytes, got %d", s.size, len(b))}}
	}
	return b, nil
}

func (s fixedBytesSchema) PrepareMsgpack(v any) (kanon.Node, error) {
	b, err := s.checked(v)
	if err != nil {
		return kanon.Node{}, err
	}
	return kanon.BytesNode(b), nil
}

func (s fixedBytesSchema) FromPreparedMsgpack(n kanon.Node) (any, error) {
	if n.Kind != kanon.KindBytes {
		return nil, kindIssue(kanon.KindBytes, n.Kind)
	}
	return s.checked(n.Bytes)
}

func (s fixedBytesSchema) PrepareJSON(v any) (kanon.Node, error) {
	b, err := s.checked(v)
	if err != nil {
		return kanon.Node{}, err
	}
	return kanon.StringNode(base64.StdEncoding.EncodeToString(b)), nil
}

func (s fixedBytesSchema) FromPreparedJSON(n kanon.Node) (any, error) {
	v, err := (bytesSchema{}).FromPreparedJSON(n)
	if err != nil {
		return nil, err
	}
	return s.checked(v)
}

// Untyped returns the passthrough schema: the domain value is an
// intermediate tree Node carried through unchanged in both directions. Use
// it for payloads whose shape is not known to the schema. Default is the nil
// node.
func Untyped() kanon.Schema { return untypedSchema{} }

type untypedSchema struct{}

func (untypedSchema) DefaultValue() any { return kanon.NilNode() }

func (untypedSchema) IsDefault(v any) bool {
	n, ok := v.(kanon.Node)
	return ok && n.Kind == kanon.KindNil
}

func (untypedSchema) PrepareMsgpack(v any) (kanon.Node, error) {
	n, ok := v.(kanon.Node)
	if !ok {
		return kanon.Node{}, kanon.Issues{kanon.Issue{Path: "/", Code: kanon.CodeInvalidType, Message: i18n.T(kanon.CodeInvalidType, nil), Hint: "expected kanon.Node"}}
	}
	return n, nil
}

func (untypedSchema) FromPreparedMsgpack(n kanon.Node) (any, error) { return n, nil }

func (s untypedSchema) PrepareJSON(v any) (kanon.Node, error)      { return s.PrepareMsgpack(v) }
func (s untypedSchema) FromPreparedJSON(n kanon.Node) (any, error) { return n, nil }

// kindIssue reports a tree shape mismatch at fromPrepared time.
func kindIssue(want, got kanon.Kind) kanon.Issues {
	return kanon.Issues{kanon.Issue{Path: "/", Code: kanon.CodeInvalidType, Message: i18n.T(kanon.CodeInvalidType, nil), Hint: "expected " + want.String() + ", got " + got.String()}}
}
