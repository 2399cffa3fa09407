package kanon

// Schema is the capability every schema variant implements. A Schema is an
// immutable description of a value shape: stateless except for composition,
// constructed once and shared read-only across any number of concurrent
// encode/decode calls.
//
// The two Prepare/FromPrepared pairs are parallel pipelines over the same
// intermediate Node tree; format differences (absence representation, byte
// string rendering) live in the leaf implementations, never in callers.
type Schema interface {
	// DefaultValue returns the canonical zero value for this shape. It has no
	// side effects and always succeeds.
	DefaultValue() any

	// IsDefault reports whether v is this schema's default value. It must
	// agree with value-equality against DefaultValue() but may be implemented
	// structurally (an empty sequence rather than an allocated comparison
	// target). A value of the wrong shape is simply not the default.
	IsDefault(v any) bool

	// PrepareMsgpack converts a domain value into the intermediate tree for
	// the compact-binary format. It fails when v is not a legal instance of
	// this schema's shape.
	PrepareMsgpack(v any) (Node, error)

	// FromPreparedMsgpack reconstructs a domain value from a parsed
	// intermediate tree. It fails when the tree's shape does not match what
	// the schema expects.
	FromPreparedMsgpack(n Node) (any, error)

	// PrepareJSON and FromPreparedJSON mirror the msgpack pair for the JSON
	// text format, where absence degrades to an explicit null and byte
	// strings render as base64 text.
	PrepareJSON(v any) (Node, error)
	FromPreparedJSON(n Node) (any, error)
}

// Absent is the distinguished "no value" marker held by an Optional-wrapped
// field: the untyped nil interface. It is distinct from, but encodes
// identically to, the wrapped schema's own default.
//
// IsAbsent exists because a typed nil (for example []byte(nil)) stored in an
// interface is not == nil; such values belong to the inner schema, not to
// the absence marker.
func IsAbsent(v any) bool { return v == nil }

// DecodeOpt bundles wire-decoding guards. The zero value applies the
// defaults below.
type DecodeOpt struct {
	// MaxDepth caps container nesting while parsing wire data. 0 means
	// DefaultMaxDepth; hostile input cannot force unbounded recursion.
	MaxDepth int
	// MaxBytes caps the accepted input size. 0 disables the cap.
	MaxBytes int64
}

// DefaultMaxDepth is the nesting cap applied when DecodeOpt.MaxDepth is 0.
const DefaultMaxDepth = 64

func normalizeDecodeOpt(opts []DecodeOpt) DecodeOpt {
	var opt DecodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.MaxDepth <= 0 {
		opt.MaxDepth = DefaultMaxDepth
	}
	return opt
}
