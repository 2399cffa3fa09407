package kanon_test

import (
	"bytes"
	"reflect"
	"testing"

	kanon "github.com/kanoncodec/kanon"
	"github.com/kanoncodec/kanon/dsl"
)

// paymentSchema mirrors a minimal protocol record: an omittable integer and
// an omittable optional byte string.
func paymentSchema(t *testing.T) kanon.Schema {
	t.Helper()
	return dsl.Struct().
		Field("round", dsl.Uint64()).OmitEmpty().
		Field("note", dsl.MustOptional(dsl.Bytes())).OmitEmpty().
		MustBuild()
}

func TestMsgpack_AllDefaultsEncodeToEmptyMap(t *testing.T) {
	s := paymentSchema(t)

	// explicitly-set defaults and never-set fields must be byte-identical
	for _, v := range []map[string]any{
		{},
		{"round": uint64(0)},
		{"round": uint64(0), "note": nil},
		{"round": uint64(0), "note": []byte{}},
	} {
		got, err := kanon.MarshalMsgpack(s, v)
		if err != nil {
			t.Fatalf("MarshalMsgpack(%v): %v", v, err)
		}
		if !bytes.Equal(got, []byte{0x80}) {
			t.Fatalf("MarshalMsgpack(%v) = % x, want 80", v, got)
		}
	}
}

func TestMsgpack_CanonicalScenario(t *testing.T) {
	s := paymentSchema(t)

	got, err := kanon.MarshalMsgpack(s, map[string]any{"round": uint64(5)})
	if err != nil {
		t.Fatalf("MarshalMsgpack: %v", err)
	}
	want := []byte{0x81, 0xa5, 'r', 'o', 'u', 'n', 'd', 0x05}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

func TestJSON_CanonicalScenario(t *testing.T) {
	s := paymentSchema(t)

	got, err := kanon.MarshalJSON(s, map[string]any{"round": uint64(0), "note": nil})
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(got) != "{}" {
		t.Fatalf("got %s, want {}", got)
	}

	got, err = kanon.MarshalJSON(s, map[string]any{"round": uint64(5)})
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(got) != `{"round":5}` {
		t.Fatalf("got %s, want {\"round\":5}", got)
	}
}

func TestMsgpack_Determinism(t *testing.T) {
	s := paymentSchema(t)
	v := map[string]any{"round": uint64(5), "note": []byte("hi")}

	first, err := kanon.MarshalMsgpack(s, v)
	if err != nil {
		t.Fatalf("MarshalMsgpack: %v", err)
	}
	second, err := kanon.MarshalMsgpack(s, v)
	if err != nil {
		t.Fatalf("MarshalMsgpack: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("two encodes differ: % x vs % x", first, second)
	}
	want := []byte{0x82, 0xa5, 'r', 'o', 'u', 'n', 'd', 0x05, 0xa4, 'n', 'o', 't', 'e', 0xc4, 0x02, 'h', 'i'}
	if !bytes.Equal(first, want) {
		t.Fatalf("got % x, want % x", first, want)
	}
}

func TestMsgpack_FieldOrderFollowsDeclaration(t *testing.T) {
	// declaration order z-then-a must win over any construction order
	s := dsl.Struct().
		Field("z", dsl.Uint64()).OmitEmpty().
		Field("a", dsl.Uint64()).OmitEmpty().
		MustBuild()

	got, err := kanon.MarshalMsgpack(s, map[string]any{"a": uint64(1), "z": uint64(2)})
	if err != nil {
		t.Fatalf("MarshalMsgpack: %v", err)
	}
	want := []byte{0x82, 0xa1, 'z', 0x02, 0xa1, 'a', 0x01}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

func TestRoundTrip_AbsentDefaultCollapse(t *testing.T) {
	s := paymentSchema(t)

	// round at default, note explicitly the inner default: both collapse
	v := map[string]any{"round": uint64(0), "note": []byte{}}
	data, err := kanon.MarshalMsgpack(s, v)
	if err != nil {
		t.Fatalf("MarshalMsgpack: %v", err)
	}
	got, err := kanon.UnmarshalMsgpack(s, data)
	if err != nil {
		t.Fatalf("UnmarshalMsgpack: %v", err)
	}
	// the decoder recovers "absent", not the inner zero value
	want := map[string]any{"round": uint64(0), "note": nil}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestRoundTrip_StableAfterFirstNormalization(t *testing.T) {
	s := paymentSchema(t)

	v := map[string]any{"round": uint64(7), "note": []byte{}}
	data1, err := kanon.MarshalMsgpack(s, v)
	if err != nil {
		t.Fatalf("MarshalMsgpack: %v", err)
	}
	once, err := kanon.UnmarshalMsgpack(s, data1)
	if err != nil {
		t.Fatalf("UnmarshalMsgpack: %v", err)
	}
	data2, err := kanon.MarshalMsgpack(s, once)
	if err != nil {
		t.Fatalf("MarshalMsgpack (second): %v", err)
	}
	twice, err := kanon.UnmarshalMsgpack(s, data2)
	if err != nil {
		t.Fatalf("UnmarshalMsgpack (second): %v", err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second cycle drifted: %#v vs %#v", once, twice)
	}
	if !bytes.Equal(data1, data2) {
		t.Fatalf("re-encode drifted: % x vs % x", data1, data2)
	}
}

func TestArray_OrderPreserved(t *testing.T) {
	s := dsl.Array(dsl.Uint64())

	for _, items := range [][]any{
		{},
		{uint64(9)},
		{uint64(3), uint64(1), uint64(2), uint64(1)},
	} {
		data, err := kanon.MarshalMsgpack(s, items)
		if err != nil {
			t.Fatalf("MarshalMsgpack(%v): %v", items, err)
		}
		got, err := kanon.UnmarshalMsgpack(s, data)
		if err != nil {
			t.Fatalf("UnmarshalMsgpack(%v): %v", items, err)
		}
		if !reflect.DeepEqual(got, items) {
			t.Fatalf("got %#v, want %#v", got, items)
		}
	}
}

func TestUnknownField_Rejected(t *testing.T) {
	s := paymentSchema(t)

	// {"x": 1}
	data := []byte{0x81, 0xa1, 'x', 0x01}
	_, err := kanon.UnmarshalMsgpack(s, data)
	iss, ok := kanon.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected issues, got %v", err)
	}
	if iss[0].Code != kanon.CodeUnknownKey || iss[0].Path != "/x" {
		t.Fatalf("expected unknown_key at /x, got %s at %s", iss[0].Code, iss[0].Path)
	}

	_, err = kanon.UnmarshalJSON(s, []byte(`{"x":1}`))
	if iss, ok := kanon.AsIssues(err); !ok || iss[0].Code != kanon.CodeUnknownKey {
		t.Fatalf("expected unknown_key from JSON path, got %v", err)
	}
}
