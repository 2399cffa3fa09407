package kanon

import (
	"bytes"
	"encoding/base64"
	"io"
	"strconv"

	j "github.com/goccy/go-json"
)

// MarshalJSON encodes v under schema s into canonical JSON text. Object keys
// follow the order the schema emitted them in and default-valued struct
// fields are elided, mirroring the binary path; absent optional values
// render as null.
func MarshalJSON(s Schema, v any) ([]byte, error) {
	if s == nil {
		return nil, Issues{Issue{Path: "/", Code: CodeInvalidSchema, Message: "nil schema"}}
	}
	n, err := s.PrepareJSON(v)
	if err != nil {
		return nil, toIssues(err)
	}
	var buf bytes.Buffer
	if err := writeJSONNode(&buf, n); err != nil {
		return nil, toIssues(err)
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON parses JSON text into the intermediate tree and reconstructs
// the domain value via s. Duplicate object keys, floats, and negative
// numbers are rejected; trailing input after the first value is an error.
func UnmarshalJSON(s Schema, data []byte, opts ...DecodeOpt) (any, error) {
	if s == nil {
		return nil, Issues{Issue{Path: "/", Code: CodeInvalidSchema, Message: "nil schema"}}
	}
	opt := normalizeDecodeOpt(opts)
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return nil, IssueAt("/", CodeTruncated, nil)
	}
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, jsonIssue(err)
	}
	n, err := decodeJSONValue(dec, tok, opt.MaxDepth)
	if err != nil {
		return nil, toIssues(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: "trailing input after value"}}
	}
	v, err := s.FromPreparedJSON(n)
	if err != nil {
		return nil, toIssues(err)
	}
	return v, nil
}

func writeJSONNode(buf *bytes.Buffer, n Node) error {
	switch n.Kind {
	case KindNil:
		buf.WriteString("null")
	case KindBool:
		if n.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindUint:
		// Full digits, never float notation, so large values survive intact.
		buf.WriteString(strconv.FormatUint(n.Uint, 10))
	case KindString:
		return writeJSONString(buf, n.Str)
	case KindBytes:
		// Leaf schemas normally render bytes as base64 themselves; an
		// Untyped passthrough can still carry a bytes node here.
		return writeJSONString(buf, base64.StdEncoding.EncodeToString(n.Bytes))
	case KindSeq:
		buf.WriteByte('[')
		for i, item := range n.Seq {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONNode(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, e := range n.Entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, e.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSONNode(buf, e.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return Issues{Issue{Path: "/", Code: CodeParseError, Message: "cannot encode node kind " + n.Kind.String()}}
	}
	return nil
}

// writeJSONString emits a quoted, escaped JSON string via go-json so the
// text escaping matches the standard marshaler exactly.
func writeJSONString(buf *bytes.Buffer, s string) error {
	b, err := j.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func decodeJSONValue(dec *j.Decoder, tok j.Token, depth int) (Node, error) {
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			return decodeJSONObject(dec, depth)
		case '[':
			return decodeJSONArray(dec, depth)
		}
		return Node{}, jsonIssue(io.ErrUnexpectedEOF)
	case string:
		return StringNode(v), nil
	case bool:
		return BoolNode(v), nil
	case j.Number:
		return jsonNumberNode(string(v))
	case float64:
		return jsonNumberNode(strconv.FormatFloat(v, 'g', -1, 64))
	case nil:
		return NilNode(), nil
	default:
		return Node{}, Issues{Issue{Path: "/", Code: CodeParseError, Message: "unexpected JSON token"}}
	}
}

// jsonNumberNode admits only unsigned integers; the engine's closed shape
// set has no float or negative scalar, so anything else is rejected here
// rather than silently truncated.
func jsonNumberNode(lit string) (Node, error) {
	u, err := strconv.ParseUint(lit, 10, 64)
	if err != nil {
		return Node{}, Issues{Issue{Path: "/", Code: CodeInvalidType, Message: "unsupported number " + lit, Hint: "expected unsigned integer", Cause: err}}
	}
	return UintNode(u), nil
}

func decodeJSONObject(dec *j.Decoder, depth int) (Node, error) {
	if depth <= 0 {
		return Node{}, Issues{Issue{Path: "/", Code: CodeParseError, Message: "max depth exceeded"}}
	}
	var entries []MapEntry
	seen := make(map[string]struct{})
	for {
		tok, err := dec.Token()
		if err != nil {
			return Node{}, jsonIssue(err)
		}
		if d, ok := tok.(j.Delim); ok && d == '}' {
			return MapNode(entries), nil
		}
		key, ok := tok.(string)
		if !ok {
			return Node{}, Issues{Issue{Path: "/", Code: CodeParseError, Message: "non-string object key"}}
		}
		if _, dup := seen[key]; dup {
			return Node{}, IssueAt("/"+key, CodeDuplicateKey, nil)
		}
		seen[key] = struct{}{}
		vt, err := dec.Token()
		if err != nil {
			return Node{}, jsonIssue(err)
		}
		val, err := decodeJSONValue(dec, vt, depth-1)
		if err != nil {
			return Node{}, RebaseIssues("/"+key, err)
		}
		entries = append(entries, MapEntry{Key: key, Value: val})
	}
}

func decodeJSONArray(dec *j.Decoder, depth int) (Node, error) {
	if depth <= 0 {
		return Node{}, Issues{Issue{Path: "/", Code: CodeParseError, Message: "max depth exceeded"}}
	}
	var items []Node
	for i := 0; ; i++ {
		tok, err := dec.Token()
		if err != nil {
			return Node{}, jsonIssue(err)
		}
		if d, ok := tok.(j.Delim); ok && d == ']' {
			return SeqNode(items), nil
		}
		item, err := decodeJSONValue(dec, tok, depth-1)
		if err != nil {
			return Node{}, RebaseIssues("/"+strconv.Itoa(i), err)
		}
		items = append(items, item)
	}
}

func jsonIssue(err error) Issues {
	return Issues{Issue{Path: "/", Code: CodeParseError, Message: "malformed JSON input", Cause: err}}
}
