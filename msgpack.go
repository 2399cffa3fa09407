package kanon

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// MarshalMsgpack encodes v under schema s into canonical compact-binary
// bytes. For a fixed schema and logical value the output is byte-identical
// on every call: integers take their shortest legal width, map keys follow
// the order the schema emitted them in, and default-valued struct fields
// are absent entirely. These bytes are what downstream hashing and signing
// consume.
func MarshalMsgpack(s Schema, v any) ([]byte, error) {
	if s == nil {
		return nil, Issues{Issue{Path: "/", Code: CodeInvalidSchema, Message: "nil schema"}}
	}
	n, err := s.PrepareMsgpack(v)
	if err != nil {
		return nil, toIssues(err)
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := encodeMsgpackNode(enc, n); err != nil {
		return nil, toIssues(err)
	}
	return buf.Bytes(), nil
}

// UnmarshalMsgpack parses canonical compact-binary bytes into the
// intermediate tree and reconstructs the domain value via s. Trailing bytes
// after the first value are rejected.
func UnmarshalMsgpack(s Schema, data []byte, opts ...DecodeOpt) (any, error) {
	if s == nil {
		return nil, Issues{Issue{Path: "/", Code: CodeInvalidSchema, Message: "nil schema"}}
	}
	opt := normalizeDecodeOpt(opts)
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return nil, IssueAt("/", CodeTruncated, nil)
	}
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	n, err := decodeMsgpackNode(dec, opt.MaxDepth)
	if err != nil {
		return nil, toIssues(err)
	}
	if _, err := dec.PeekCode(); err != io.EOF {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: "trailing bytes after value"}}
	}
	v, err := s.FromPreparedMsgpack(n)
	if err != nil {
		return nil, toIssues(err)
	}
	return v, nil
}

func encodeMsgpackNode(enc *msgpack.Encoder, n Node) error {
	switch n.Kind {
	case KindNil:
		return enc.EncodeNil()
	case KindBool:
		return enc.EncodeBool(n.Bool)
	case KindUint:
		// EncodeUint picks the shortest legal width.
		return enc.EncodeUint(n.Uint)
	case KindString:
		return enc.EncodeString(n.Str)
	case KindBytes:
		b := n.Bytes
		if b == nil {
			// EncodeBytes would emit nil for a nil slice; empty bytes must
			// stay an empty bin blob.
			b = []byte{}
		}
		return enc.EncodeBytes(b)
	case KindSeq:
		if err := enc.EncodeArrayLen(len(n.Seq)); err != nil {
			return err
		}
		for _, item := range n.Seq {
			if err := encodeMsgpackNode(enc, item); err != nil {
				return err
			}
		}
		return nil
	case KindMap:
		// Keys go out in entry order; composite schemas own canonical order.
		if err := enc.EncodeMapLen(len(n.Entries)); err != nil {
			return err
		}
		for _, e := range n.Entries {
			if err := enc.EncodeString(e.Key); err != nil {
				return err
			}
			if err := encodeMsgpackNode(enc, e.Value); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("kanon: cannot encode node kind %s", n.Kind)
	}
}

func decodeMsgpackNode(dec *msgpack.Decoder, depth int) (Node, error) {
	c, err := dec.PeekCode()
	if err != nil {
		return Node{}, Issues{Issue{Path: "/", Code: CodeParseError, Message: "short msgpack input", Cause: err}}
	}
	switch {
	case c == msgpcode.Nil:
		if err := dec.DecodeNil(); err != nil {
			return Node{}, wireIssue(err)
		}
		return NilNode(), nil
	case c == msgpcode.False, c == msgpcode.True:
		b, err := dec.DecodeBool()
		if err != nil {
			return Node{}, wireIssue(err)
		}
		return BoolNode(b), nil
	case c <= msgpcode.PosFixedNumHigh, c == msgpcode.Uint8, c == msgpcode.Uint16, c == msgpcode.Uint32, c == msgpcode.Uint64:
		u, err := dec.DecodeUint64()
		if err != nil {
			return Node{}, wireIssue(err)
		}
		return UintNode(u), nil
	case c >= msgpcode.NegFixedNumLow, c == msgpcode.Int8, c == msgpcode.Int16, c == msgpcode.Int32, c == msgpcode.Int64:
		// Signed wire forms are tolerated on decode but must hold a
		// non-negative value; the engine's integers are unsigned.
		i, err := dec.DecodeInt64()
		if err != nil {
			return Node{}, wireIssue(err)
		}
		if i < 0 {
			return Node{}, Issues{Issue{Path: "/", Code: CodeOverflow, Message: "negative integer on wire"}}
		}
		return UintNode(uint64(i)), nil
	case msgpcode.IsString(c):
		s, err := dec.DecodeString()
		if err != nil {
			return Node{}, wireIssue(err)
		}
		return StringNode(s), nil
	case msgpcode.IsBin(c):
		b, err := dec.DecodeBytes()
		if err != nil {
			return Node{}, wireIssue(err)
		}
		return BytesNode(b), nil
	case msgpcode.IsFixedArray(c), c == msgpcode.Array16, c == msgpcode.Array32:
		if depth <= 0 {
			return Node{}, Issues{Issue{Path: "/", Code: CodeParseError, Message: "max depth exceeded"}}
		}
		l, err := dec.DecodeArrayLen()
		if err != nil {
			return Node{}, wireIssue(err)
		}
		var items []Node
		for i := 0; i < l; i++ {
			item, err := decodeMsgpackNode(dec, depth-1)
			if err != nil {
				return Node{}, RebaseIssues("/"+strconv.Itoa(i), err)
			}
			items = append(items, item)
		}
		return SeqNode(items), nil
	case msgpcode.IsFixedMap(c), c == msgpcode.Map16, c == msgpcode.Map32:
		if depth <= 0 {
			return Node{}, Issues{Issue{Path: "/", Code: CodeParseError, Message: "max depth exceeded"}}
		}
		l, err := dec.DecodeMapLen()
		if err != nil {
			return Node{}, wireIssue(err)
		}
		var entries []MapEntry
		seen := make(map[string]struct{}, l)
		for i := 0; i < l; i++ {
			kc, err := dec.PeekCode()
			if err != nil {
				return Node{}, wireIssue(err)
			}
			if !msgpcode.IsString(kc) {
				return Node{}, Issues{Issue{Path: "/", Code: CodeParseError, Message: "non-string map key"}}
			}
			key, err := dec.DecodeString()
			if err != nil {
				return Node{}, wireIssue(err)
			}
			if _, dup := seen[key]; dup {
				return Node{}, IssueAt("/"+key, CodeDuplicateKey, nil)
			}
			seen[key] = struct{}{}
			val, err := decodeMsgpackNode(dec, depth-1)
			if err != nil {
				return Node{}, RebaseIssues("/"+key, err)
			}
			entries = append(entries, MapEntry{Key: key, Value: val})
		}
		return MapNode(entries), nil
	default:
		// float, ext, and friends: outside the engine's closed shape set.
		return Node{}, Issues{Issue{Path: "/", Code: CodeParseError, Message: fmt.Sprintf("unsupported msgpack code 0x%02x", c)}}
	}
}

func wireIssue(err error) Issues {
	return Issues{Issue{Path: "/", Code: CodeParseError, Message: "malformed msgpack input", Cause: err}}
}
