package kanon

// Kind enumerates intermediate tree node kinds.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindUint
	KindString
	KindBytes
	KindSeq
	KindMap
)

// String returns the lowercase name of the kind, for error messages.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindUint:
		return "uint"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindSeq:
		return "seq"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// MapEntry is one key/value pair of a map node. Entry order is significant:
// the binary driver emits keys in exactly this order.
type MapEntry struct {
	Key   string
	Value Node
}

// Node is the format-agnostic intermediate tree built by Prepare* and
// consumed by FromPrepared*. Only the payload field matching Kind is
// meaningful; the rest stay zero. Map keys are always strings.
//
// A Node exists only for the duration of one encode or decode call and is
// never retained by the engine.
type Node struct {
	Kind    Kind
	Bool    bool
	Uint    uint64
	Str     string
	Bytes   []byte
	Seq     []Node
	Entries []MapEntry
}

// NilNode returns the "no value" scalar.
func NilNode() Node { return Node{Kind: KindNil} }

// BoolNode returns a boolean scalar node.
func BoolNode(b bool) Node { return Node{Kind: KindBool, Bool: b} }

// UintNode returns an unsigned integer scalar node.
func UintNode(u uint64) Node { return Node{Kind: KindUint, Uint: u} }

// StringNode returns a text scalar node.
func StringNode(s string) Node { return Node{Kind: KindString, Str: s} }

// BytesNode returns a binary blob scalar node.
func BytesNode(b []byte) Node { return Node{Kind: KindBytes, Bytes: b} }

// SeqNode returns an ordered sequence node.
func SeqNode(items []Node) Node { return Node{Kind: KindSeq, Seq: items} }

// MapNode returns an ordered-key mapping node.
func MapNode(entries []MapEntry) Node { return Node{Kind: KindMap, Entries: entries} }

// Lookup returns the value stored under key and whether it was present.
// It is a linear scan; map nodes stay small (one entry per schema field).
func (n Node) Lookup(key string) (Node, bool) {
	for _, e := range n.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Node{}, false
}
