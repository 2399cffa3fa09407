package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	kanon "github.com/kanoncodec/kanon"
	"github.com/kanoncodec/kanon/schemafile"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "transcode":
		transcodeCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "kanon CLI\n\nUsage:\n  kanon transcode -schema schema.yaml -from json|msgpack -to json|msgpack\n\nReads one value from stdin, re-encodes it canonically, writes it to stdout.\nUsing the same format for -from and -to re-canonicalizes the input.")
}

// transcodeCmd decodes one value from stdin in the -from format and emits
// its canonical encoding in the -to format.
func transcodeCmd(args []string) {
	fs := flag.NewFlagSet("transcode", flag.ExitOnError)
	var schemaPath string
	var from string
	var to string
	fs.StringVar(&schemaPath, "schema", "", "schema definition file (YAML or JSON)")
	fs.StringVar(&from, "from", "json", "input format: json or msgpack")
	fs.StringVar(&to, "to", "msgpack", "output format: json or msgpack")
	_ = fs.Parse(args)
	if schemaPath == "" {
		fs.Usage()
		os.Exit(2)
	}

	doc, err := os.ReadFile(schemaPath)
	if err != nil {
		fatalf("reading schema: %v", err)
	}
	s, err := schemafile.Parse(doc)
	if err != nil {
		fatalf("building schema: %v", err)
	}

	in, err := io.ReadAll(os.Stdin)
	if err != nil {
		fatalf("reading input: %v", err)
	}

	var v any
	switch from {
	case "json":
		v, err = kanon.UnmarshalJSON(s, in)
	case "msgpack":
		v, err = kanon.UnmarshalMsgpack(s, in)
	default:
		fatalf("unknown input format %q", from)
	}
	if err != nil {
		fatalf("decoding %s: %v", from, err)
	}

	var out []byte
	switch to {
	case "json":
		out, err = kanon.MarshalJSON(s, v)
	case "msgpack":
		out, err = kanon.MarshalMsgpack(s, v)
	default:
		fatalf("unknown output format %q", to)
	}
	if err != nil {
		fatalf("encoding %s: %v", to, err)
	}

	if _, err := os.Stdout.Write(out); err != nil {
		fatalf("writing output: %v", err)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "kanon: "+format+"\n", a...)
	os.Exit(1)
}
