package schemafile_test

import (
	"bytes"
	"reflect"
	"testing"

	kanon "github.com/kanoncodec/kanon"
	"github.com/kanoncodec/kanon/schemafile"
)

const paymentDoc = `
type: struct
fields:
  - name: round
    type: uint64
    omitempty: true
  - name: note
    type: bytes
    optional: true
    omitempty: true
`

func TestParse_YAMLStruct(t *testing.T) {
	s, err := schemafile.Parse([]byte(paymentDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	data, err := kanon.MarshalMsgpack(s, map[string]any{"round": uint64(0), "note": nil})
	if err != nil {
		t.Fatalf("MarshalMsgpack: %v", err)
	}
	if !bytes.Equal(data, []byte{0x80}) {
		t.Fatalf("all-default value must encode to empty map, got % x", data)
	}

	data, err = kanon.MarshalMsgpack(s, map[string]any{"round": uint64(5)})
	if err != nil {
		t.Fatalf("MarshalMsgpack: %v", err)
	}
	want := []byte{0x81, 0xa5, 'r', 'o', 'u', 'n', 'd', 0x05}
	if !bytes.Equal(data, want) {
		t.Fatalf("got % x, want % x", data, want)
	}
}

func TestParse_JSONDocument(t *testing.T) {
	// YAML is a JSON superset; the same entry point takes both
	doc := `{"type":"array","elem":{"type":"string"}}`
	s, err := schemafile.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	v := []any{"b", "a"}
	data, err := kanon.MarshalJSON(s, v)
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(data) != `["b","a"]` {
		t.Fatalf("got %s", data)
	}
}

func TestParse_AllVariants(t *testing.T) {
	doc := `
type: struct
fields:
  - name: id
    type: fixedbytes
    size: 8
  - name: ok
    type: bool
    omitempty: true
  - name: tags
    type: array
    elem:
      type: string
    omitempty: true
  - name: meta
    type: map
    value:
      type: uint64
    omitempty: true
  - name: extra
    type: untyped
    omitempty: true
`
	s, err := schemafile.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	v := map[string]any{
		"id":   []byte{1, 2, 3, 4, 5, 6, 7, 8},
		"ok":   true,
		"tags": []any{"x", "y"},
		"meta": map[string]any{"n": uint64(2)},
	}
	data, err := kanon.MarshalMsgpack(s, v)
	if err != nil {
		t.Fatalf("MarshalMsgpack: %v", err)
	}
	got, err := kanon.UnmarshalMsgpack(s, data)
	if err != nil {
		t.Fatalf("UnmarshalMsgpack: %v", err)
	}
	want := map[string]any{
		"id":    []byte{1, 2, 3, 4, 5, 6, 7, 8},
		"ok":    true,
		"tags":  []any{"x", "y"},
		"meta":  map[string]any{"n": uint64(2)},
		"extra": kanon.NilNode(),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestParse_MalformedDocuments(t *testing.T) {
	cases := map[string]string{
		"unknown type":     `type: float32`,
		"missing type":     `fields: []`,
		"fixedbytes size":  `type: fixedbytes`,
		"array elem":       `type: array`,
		"map value":        `type: map`,
		"unnamed field":    "type: struct\nfields:\n  - type: uint64",
		"not yaml at all":  `{{{{`,
		"duplicate fields": "type: struct\nfields:\n  - name: a\n    type: uint64\n  - name: a\n    type: bool",
	}
	for name, doc := range cases {
		_, err := schemafile.Parse([]byte(doc))
		iss, ok := kanon.AsIssues(err)
		if !ok || iss[0].Code != kanon.CodeInvalidSchema {
			t.Fatalf("%s: expected invalid_schema, got %v", name, err)
		}
	}
}
