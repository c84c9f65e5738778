// quill - proto3 canonical JSON converter CLI
//
// Usage:
//
//	quill check --schema s.yaml --type full.Name [file]   Validate JSON against a schema
//	quill canon --schema s.yaml --type full.Name [file]   Parse, then re-print canonically
//	quill version                                          Print version info
//
// canon round-trips the document through the converter, so it both
// validates it and normalizes field names, 64-bit integer encoding,
// and default elision.
//
// If no file is given, reads from stdin.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Neumenon/quill/quill"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]

	var (
		schemaPath    string
		typeName      string
		withDefaults  bool
		preserveNames bool
		longNumbers   bool
		fileArg       string
	)
	for _, arg := range os.Args[2:] {
		switch {
		case strings.HasPrefix(arg, "--schema="):
			schemaPath = strings.TrimPrefix(arg, "--schema=")
		case strings.HasPrefix(arg, "--type="):
			typeName = strings.TrimPrefix(arg, "--type=")
		case arg == "--defaults":
			withDefaults = true
		case arg == "--preserve-names":
			preserveNames = true
		case arg == "--long-numbers":
			longNumbers = true
		default:
			if !strings.HasPrefix(arg, "-") && arg != "-" {
				fileArg = arg
			}
		}
	}

	var input io.Reader = os.Stdin
	if fileArg != "" {
		f, err := os.Open(fileArg)
		if err != nil {
			fatal("open file: %v", err)
		}
		defer f.Close()
		input = f
	}

	switch cmd {
	case "check":
		desc := loadType(schemaPath, typeName)
		parseInput(input, desc)
		fmt.Println("ok")
	case "canon":
		desc := loadType(schemaPath, typeName)
		msg := parseInput(input, desc)
		printer := quill.NewPrinter(quill.PrintOptions{
			IncludeDefaults:    withDefaults,
			PreserveFieldNames: preserveNames,
			LongsAsNumbers:     longNumbers,
		})
		out, err := printer.Print(msg)
		if err != nil {
			fatal("print: %v", err)
		}
		fmt.Println(out)
	case "version", "-v", "--version":
		fmt.Printf("quill %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func loadType(schemaPath, typeName string) *quill.MessageDescriptor {
	if schemaPath == "" {
		fatal("missing --schema=file.yaml")
	}
	if typeName == "" {
		fatal("missing --type=full.Name")
	}
	data, err := os.ReadFile(schemaPath)
	if err != nil {
		fatal("read schema: %v", err)
	}
	schema, err := quill.ParseSchemaYAML(data)
	if err != nil {
		fatal("load schema: %v", err)
	}
	desc, ok := schema.Message(typeName)
	if !ok {
		fatal("schema has no message %q", typeName)
	}
	return desc
}

func parseInput(r io.Reader, desc *quill.MessageDescriptor) *quill.Message {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}
	parser := quill.NewParser(quill.ParseOptions{})
	msg, err := parser.Parse(string(data), desc)
	if err != nil {
		fatal("parse: %v", err)
	}
	return msg
}

func printUsage() {
	fmt.Fprint(os.Stderr, `quill - proto3 canonical JSON converter

Usage:
  quill check --schema=s.yaml --type=full.Name [file]   Validate JSON against a schema
  quill canon --schema=s.yaml --type=full.Name [file]   Parse, then re-print canonically
  quill version                                         Print version info

Options (canon):
  --defaults          Emit zero-valued fields instead of omitting them
  --preserve-names    Emit declared field names instead of camelCase JSON names
  --long-numbers      Emit 64-bit integers as JSON numbers instead of strings

If no file is given, reads from stdin.

Examples:
  echo '{"id":"42","tags":["a"]}' | quill canon --schema=demo.yaml --type=demo.Event
  quill check --schema=demo.yaml --type=demo.Event data.json
`)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "quill: "+format+"\n", args...)
	os.Exit(1)
}
