// Package schemafile loads schema definitions from YAML or JSON documents
// and builds the corresponding schemas. YAML is a superset of JSON, so one
// decode path serves both.
//
// Document shape:
//
//	type: struct
//	fields:
//	  - name: round
//	    type: uint64
//	    omitempty: true
//	  - name: note
//	    type: bytes
//	    optional: true
//	    omitempty: true
//
// Types: uint64, bool, string, bytes, fixedbytes (with size), array (with
// elem), map (with value), struct (with fields), untyped. A field may carry
// optional: true (wrap in Optional) and omitempty: true (elide defaults).
package schemafile

import (
	"strconv"

	kanon "github.com/kanoncodec/kanon"
	"github.com/kanoncodec/kanon/dsl"
	"gopkg.in/yaml.v3"
)

// Doc is one schema-definition node.
type Doc struct {
	Type   string  `yaml:"type"`
	Size   int     `yaml:"size,omitempty"`   // fixedbytes
	Elem   *Doc    `yaml:"elem,omitempty"`   // array
	Value  *Doc    `yaml:"value,omitempty"`  // map
	Fields []Field `yaml:"fields,omitempty"` // struct
}

// Field is one struct field entry: a Doc plus its name and flags.
type Field struct {
	Name      string `yaml:"name"`
	Optional  bool   `yaml:"optional,omitempty"`
	OmitEmpty bool   `yaml:"omitempty,omitempty"`
	Doc       `yaml:",inline"`
}

// Parse decodes a YAML or JSON schema document and builds the schema.
// Malformed documents fail with invalid_schema issues naming the offending
// path.
func Parse(data []byte) (kanon.Schema, error) {
	var d Doc
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, kanon.Issues{kanon.Issue{Path: "/", Code: kanon.CodeInvalidSchema, Message: "malformed schema document", Cause: err}}
	}
	return Build(d)
}

// Build constructs the schema described by d.
func Build(d Doc) (kanon.Schema, error) { return build("", d) }

func build(path string, d Doc) (kanon.Schema, error) {
	switch d.Type {
	case "uint64":
		return dsl.Uint64(), nil
	case "bool":
		return dsl.Bool(), nil
	case "string":
		return dsl.String(), nil
	case "bytes":
		return dsl.Bytes(), nil
	case "untyped":
		return dsl.Untyped(), nil
	case "fixedbytes":
		if d.Size <= 0 {
			return nil, docIssue(path, "fixedbytes needs a positive size")
		}
		return dsl.FixedBytes(d.Size), nil
	case "array":
		if d.Elem == nil {
			return nil, docIssue(path, "array needs an elem schema")
		}
		elem, err := build(path+"/elem", *d.Elem)
		if err != nil {
			return nil, err
		}
		return dsl.Array(elem), nil
	case "map":
		if d.Value == nil {
			return nil, docIssue(path, "map needs a value schema")
		}
		value, err := build(path+"/value", *d.Value)
		if err != nil {
			return nil, err
		}
		return dsl.StringMap(value), nil
	case "struct":
		b := dsl.Struct()
		for i, f := range d.Fields {
			fpath := path + "/fields/" + strconv.Itoa(i)
			if f.Name == "" {
				return nil, docIssue(fpath, "struct field needs a name")
			}
			fs, err := build(fpath, f.Doc)
			if err != nil {
				return nil, err
			}
			if f.Optional {
				fs, err = dsl.Optional(fs)
				if err != nil {
					return nil, kanon.RebaseIssues(fpath, err)
				}
			}
			step := b.Field(f.Name, fs)
			if f.OmitEmpty {
				step.OmitEmpty()
			}
		}
		s, err := b.Build()
		if err != nil {
			return nil, kanon.RebaseIssues(path, err)
		}
		return s, nil
	case "":
		return nil, docIssue(path, "schema node needs a type")
	default:
		return nil, docIssue(path, "unknown schema type "+strconv.Quote(d.Type))
	}
}

func docIssue(path, msg string) kanon.Issues {
	if path == "" {
		path = "/"
	}
	return kanon.Issues{kanon.Issue{Path: path, Code: kanon.CodeInvalidSchema, Message: msg}}
}
