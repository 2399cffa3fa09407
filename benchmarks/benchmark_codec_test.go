package kanon_test

import (
	"testing"

	kanon "github.com/kanoncodec/kanon"
	d "github.com/kanoncodec/kanon/dsl"
)

func recordSchema(tb testing.TB) kanon.Schema {
	tb.Helper()
	return d.Struct().
		Field("round", d.Uint64()).OmitEmpty().
		Field("sender", d.FixedBytes(32)).OmitEmpty().
		Field("note", d.MustOptional(d.Bytes())).OmitEmpty().
		Field("tags", d.Array(d.String())).OmitEmpty().
		MustBuild()
}

func recordValue() map[string]any {
	sender := make([]byte, 32)
	sender[0] = 0x01
	return map[string]any{
		"round":  uint64(4160217),
		"sender": sender,
		"note":   []byte("benchmark payload"),
		"tags":   []any{"a", "b", "c"},
	}
}

func BenchmarkMarshalMsgpack(b *testing.B) {
	s := recordSchema(b)
	v := recordValue()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := kanon.MarshalMsgpack(s, v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkUnmarshalMsgpack(b *testing.B) {
	s := recordSchema(b)
	data, err := kanon.MarshalMsgpack(s, recordValue())
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := kanon.UnmarshalMsgpack(s, data); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMarshalJSON(b *testing.B) {
	s := recordSchema(b)
	v := recordValue()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := kanon.MarshalJSON(s, v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkUnmarshalJSON(b *testing.B) {
	s := recordSchema(b)
	data, err := kanon.MarshalJSON(s, recordValue())
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := kanon.UnmarshalJSON(s, data); err != nil {
			b.Fatal(err)
		}
	}
}
