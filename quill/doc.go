// Package quill converts between structured message values and JSON,
// implementing the proto3 canonical JSON mapping without per-type
// generated code: both directions walk a reflective schema description
// at run time.
//
// # Data Model
//
// A schema is a MessageDescriptor: an ordered list of named, numbered,
// typed fields, each singular, repeated, or a map. A Message instance
// maps field descriptors to tagged Values (bool, int32, int64, float,
// double, string, bytes, enum, nested message, repeated). Fields
// absent from the mapping are unset, which matters under proto3
// presence: zero-valued scalars and unset scalars print identically.
//
// # Converting
//
//	printer := quill.NewPrinter(quill.PrintOptions{})
//	text, err := printer.Print(msg)
//
//	parser := quill.NewParser(quill.ParseOptions{})
//	msg, err := parser.Parse(text, desc)
//
// Printer and Parser are immutable configuration holders; construct
// one per option set and share it freely across goroutines.
//
// # Well-Known Shapes
//
// Message shapes with a non-struct JSON form (durations as "1.5s",
// timestamps as RFC 3339 strings) are handled through a Registry of
// per-shape writer/parser overrides, consulted before any field
// walking. Callers can register their own formats the same way:
//
//	formats := quill.DefaultFormats().With("demo.Color", quill.Format{...})
//	printer := quill.NewPrinter(quill.PrintOptions{Formats: formats})
//
// # Schema Documents
//
// Descriptors are plain values and can be built in code, or loaded
// from a YAML schema document via ParseSchemaYAML.
package quill
