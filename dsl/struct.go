package dsl

import (
	"sort"

	kanon "github.com/kanoncodec/kanon"
	"github.com/kanoncodec/kanon/i18n"
)

// StructBuilder accumulates ordered (name, schema, omit-empty) field entries.
// Declaration order is the canonical encoding order; it never depends on the
// order callers set values.
type StructBuilder struct {
	fields []fieldEntry
	errs   kanon.Issues
}

type fieldEntry struct {
	name      string
	schema    kanon.Schema
	omitEmpty bool
}

type fieldStep struct {
	b *StructBuilder
}

// Struct creates a new struct schema builder. Fields default to required:
// always encoded, and missing on decode is an error. Mark a field OmitEmpty
// to elide its default value from output and restore the default when the
// wire omits it.
func Struct() *StructBuilder {
	return &StructBuilder{}
}

// Field appends a field with its schema and returns a step for per-field
// modifiers.
func (b *StructBuilder) Field(name string, s kanon.Schema) *fieldStep {
	if name == "" {
		b.errs = kanon.AppendIssues(b.errs, kanon.Issue{Path: "/", Code: kanon.CodeInvalidSchema, Message: "struct field needs a name"})
	}
	if s == nil {
		b.errs = kanon.AppendIssues(b.errs, kanon.Issue{Path: "/" + name, Code: kanon.CodeInvalidSchema, Message: "struct field needs a schema"})
	}
	b.fields = append(b.fields, fieldEntry{name: name, schema: s})
	return &fieldStep{b: b}
}

// OmitEmpty marks the current field as elidable: its default value is
// dropped from encoded output and restored on decode.
func (f *fieldStep) OmitEmpty() *StructBuilder {
	f.b.fields[len(f.b.fields)-1].omitEmpty = true
	return f.b
}

// Required marks the current field as required (the default) and returns the
// builder.
func (f *fieldStep) Required() *StructBuilder {
	f.b.fields[len(f.b.fields)-1].omitEmpty = false
	return f.b
}

func (f *fieldStep) Field(name string, s kanon.Schema) *fieldStep { return f.b.Field(name, s) }
func (f *fieldStep) Build() (kanon.Schema, error)                 { return f.b.Build() }
func (f *fieldStep) MustBuild() kanon.Schema                      { return f.b.MustBuild() }

// Build finalizes the schema. Duplicate field names and other composition
// errors collected during building surface here.
func (b *StructBuilder) Build() (kanon.Schema, error) {
	iss := b.errs
	byName := make(map[string]int, len(b.fields))
	for i, f := range b.fields {
		if _, dup := byName[f.name]; dup && f.name != "" {
			iss = kanon.AppendIssues(iss, kanon.Issue{Path: "/" + f.name, Code: kanon.CodeInvalidSchema, Message: "duplicate struct field"})
			continue
		}
		byName[f.name] = i
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return &structSchema{fields: b.fields, byName: byName}, nil
}

// MustBuild is Build for statically known-good schemas; it panics on a
// construction error.
func (b *StructBuilder) MustBuild() kanon.Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

type structSchema struct {
	fields []fieldEntry
	byName map[string]int
}

// DefaultValue is the struct with every field at its own default.
func (s *structSchema) DefaultValue() any {
	m := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		m[f.name] = f.schema.DefaultValue()
	}
	return m
}

// IsDefault holds when every declared field is missing or at its own
// default and no unknown keys are present.
func (s *structSchema) IsDefault(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	for k := range m {
		if _, known := s.byName[k]; !known {
			return false
		}
	}
	for _, f := range s.fields {
		if val, present := m[f.name]; present && !f.schema.IsDefault(val) {
			return false
		}
	}
	return true
}

func (s *structSchema) prepare(f wireFormat, v any) (kanon.Node, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return kanon.Node{}, kanon.Issues{kanon.Issue{Path: "/", Code: kanon.CodeInvalidType, Message: i18n.T(kanon.CodeInvalidType, nil), Hint: "expected struct map"}}
	}
	if iss := s.unknownKeys(m); len(iss) > 0 {
		return kanon.Node{}, iss
	}
	var iss kanon.Issues
	entries := make([]kanon.MapEntry, 0, len(s.fields))
	for _, fe := range s.fields {
		val, present := m[fe.name]
		if !present {
			val = fe.schema.DefaultValue()
		}
		// Canonical-form elision: a default-valued omit-empty field is
		// dropped entirely, so explicitly-set defaults and never-set fields
		// produce identical bytes.
		if fe.omitEmpty && fe.schema.IsDefault(val) {
			continue
		}
		n, err := prepareAs(fe.schema, f, val)
		if err != nil {
			iss = kanon.AppendIssues(iss, kanon.RebaseIssues("/"+fe.name, err)...)
			continue
		}
		entries = append(entries, kanon.MapEntry{Key: fe.name, Value: n})
	}
	if len(iss) > 0 {
		return kanon.Node{}, iss
	}
	return kanon.MapNode(entries), nil
}

func (s *structSchema) fromPrepared(f wireFormat, n kanon.Node) (any, error) {
	if n.Kind != kanon.KindMap {
		return nil, kindIssue(kanon.KindMap, n.Kind)
	}
	var iss kanon.Issues
	// Undeclared keys are never dropped silently.
	for _, e := range n.Entries {
		if _, known := s.byName[e.Key]; !known {
			iss = kanon.AppendIssues(iss, kanon.Issue{Path: "/" + e.Key, Code: kanon.CodeUnknownKey, Message: i18n.T(kanon.CodeUnknownKey, nil)})
		}
	}
	out := make(map[string]any, len(s.fields))
	for _, fe := range s.fields {
		child, present := n.Lookup(fe.name)
		if !present {
			if !fe.omitEmpty {
				iss = kanon.AppendIssues(iss, kanon.Issue{Path: "/" + fe.name, Code: kanon.CodeRequired, Message: i18n.T(kanon.CodeRequired, nil)})
				continue
			}
			out[fe.name] = fe.schema.DefaultValue()
			continue
		}
		v, err := fromPreparedAs(fe.schema, f, child)
		if err != nil {
			iss = kanon.AppendIssues(iss, kanon.RebaseIssues("/"+fe.name, err)...)
			continue
		}
		out[fe.name] = v
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// unknownKeys reports keys outside the declared field set, in sorted order
// for deterministic error output.
func (s *structSchema) unknownKeys(m map[string]any) kanon.Issues {
	var unknown []string
	for k := range m {
		if _, known := s.byName[k]; !known {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	var iss kanon.Issues
	for _, k := range unknown {
		iss = kanon.AppendIssues(iss, kanon.Issue{Path: "/" + k, Code: kanon.CodeUnknownKey, Message: i18n.T(kanon.CodeUnknownKey, nil)})
	}
	return iss
}

func (s *structSchema) PrepareMsgpack(v any) (kanon.Node, error) {
	return s.prepare(formatMsgpack, v)
}

func (s *structSchema) PrepareJSON(v any) (kanon.Node, error) { return s.prepare(formatJSON, v) }

func (s *structSchema) FromPreparedMsgpack(n kanon.Node) (any, error) {
	return s.fromPrepared(formatMsgpack, n)
}

func (s *structSchema) FromPreparedJSON(n kanon.Node) (any, error) {
	return s.fromPrepared(formatJSON, n)
}
