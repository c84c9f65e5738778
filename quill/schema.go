package quill

import (
	"fmt"
	"strings"
)

// FieldKind is the declared type of a field.
type FieldKind uint8

const (
	FieldBool FieldKind = iota
	FieldInt32
	FieldInt64
	FieldFloat
	FieldDouble
	FieldString
	FieldBytes
	FieldEnum
	FieldMessage
)

// String returns the field kind name.
func (k FieldKind) String() string {
	switch k {
	case FieldBool:
		return "bool"
	case FieldInt32:
		return "int32"
	case FieldInt64:
		return "int64"
	case FieldFloat:
		return "float"
	case FieldDouble:
		return "double"
	case FieldString:
		return "string"
	case FieldBytes:
		return "bytes"
	case FieldEnum:
		return "enum"
	case FieldMessage:
		return "message"
	default:
		return "unknown"
	}
}

// Cardinality describes how many values a field carries.
type Cardinality uint8

const (
	Singular Cardinality = iota
	RepeatedField
	MapField
)

// String returns the cardinality name.
func (c Cardinality) String() string {
	switch c {
	case Singular:
		return "singular"
	case RepeatedField:
		return "repeated"
	case MapField:
		return "map"
	default:
		return "unknown"
	}
}

// FieldDescriptor describes one field of a message schema.
type FieldDescriptor struct {
	Number      int32
	Name        string
	JSONName    string // camelCase projection of Name when empty
	Kind        FieldKind
	Enum        *EnumDescriptor    // for Kind == FieldEnum
	Message     *MessageDescriptor // for Kind == FieldMessage (map fields point at the entry schema)
	Cardinality Cardinality
	EntryField  bool // synthesized key/value field of a map entry
}

// IsMap returns true for map fields.
func (fd *FieldDescriptor) IsMap() bool {
	return fd.Cardinality == MapField
}

// jsonName returns the field's JSON name, deriving the camelCase
// projection of the declared name when no explicit one is set.
func (fd *FieldDescriptor) jsonName() string {
	if fd.JSONName != "" {
		return fd.JSONName
	}
	return camelCase(fd.Name)
}

// camelCase projects a lower_snake_case field name to its JSON form:
// underscores are removed and the following letter is capitalized.
func camelCase(name string) string {
	if !strings.ContainsRune(name, '_') {
		return name
	}
	var sb strings.Builder
	sb.Grow(len(name))
	upper := false
	for _, r := range name {
		if r == '_' {
			upper = true
			continue
		}
		if upper && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		upper = false
		sb.WriteRune(r)
	}
	return sb.String()
}

// MessageDescriptor describes a message schema: an ordered sequence of
// field descriptors. Descriptors are supplied once and treated as
// read-only for the life of the process.
type MessageDescriptor struct {
	FullName string
	Fields   []*FieldDescriptor

	// MapEntry marks a synthetic two-field (1=key, 2=value) schema
	// backing a map field.
	MapEntry bool

	// ExplicitPresence enables legacy presence semantics: singular
	// scalar fields distinguish "set to zero" from "unset". Off means
	// proto3 semantics, where zero-valued scalars are elided.
	ExplicitPresence bool
}

// FieldByNumber returns the field with the given number, or nil.
func (d *MessageDescriptor) FieldByNumber(n int32) *FieldDescriptor {
	for _, fd := range d.Fields {
		if fd.Number == n {
			return fd
		}
	}
	return nil
}

// FieldByName returns the field with the given declared name, or nil.
func (d *MessageDescriptor) FieldByName(name string) *FieldDescriptor {
	for _, fd := range d.Fields {
		if fd.Name == name {
			return fd
		}
	}
	return nil
}

// KeyField returns field number 1 of a map entry schema.
func (d *MessageDescriptor) KeyField() *FieldDescriptor {
	return d.FieldByNumber(1)
}

// ValueField returns field number 2 of a map entry schema.
func (d *MessageDescriptor) ValueField() *FieldDescriptor {
	return d.FieldByNumber(2)
}

// Validate checks the descriptor invariants: positive unique field
// numbers, unique names, composite kinds carrying their sub-descriptor,
// and well-formed map entry shapes.
func (d *MessageDescriptor) Validate() error {
	if d.FullName == "" {
		return fmt.Errorf("quill: message descriptor has no full name")
	}
	numbers := make(map[int32]bool, len(d.Fields))
	names := make(map[string]bool, len(d.Fields))
	for _, fd := range d.Fields {
		if fd.Number <= 0 {
			return fmt.Errorf("quill: %s.%s: field number must be positive, got %d", d.FullName, fd.Name, fd.Number)
		}
		if numbers[fd.Number] {
			return fmt.Errorf("quill: %s: duplicate field number %d", d.FullName, fd.Number)
		}
		numbers[fd.Number] = true
		if fd.Name == "" {
			return fmt.Errorf("quill: %s: field %d has no name", d.FullName, fd.Number)
		}
		if names[fd.Name] {
			return fmt.Errorf("quill: %s: duplicate field name %q", d.FullName, fd.Name)
		}
		names[fd.Name] = true
		if fd.Kind == FieldEnum && fd.Enum == nil {
			return fmt.Errorf("quill: %s.%s: enum field has no enum descriptor", d.FullName, fd.Name)
		}
		if fd.Kind == FieldMessage && fd.Message == nil {
			return fmt.Errorf("quill: %s.%s: message field has no message descriptor", d.FullName, fd.Name)
		}
		if fd.IsMap() {
			if fd.Kind != FieldMessage || fd.Message == nil || !fd.Message.MapEntry {
				return fmt.Errorf("quill: %s.%s: map field must reference a map entry schema", d.FullName, fd.Name)
			}
		}
	}
	if d.MapEntry {
		if len(d.Fields) != 2 || d.KeyField() == nil || d.ValueField() == nil {
			return fmt.Errorf("quill: %s: map entry schema must have exactly fields 1 (key) and 2 (value)", d.FullName)
		}
	}
	return nil
}

// MapEntryDescriptor builds the synthetic two-field key/value schema
// backing a map field.
func MapEntryDescriptor(fullName string, key, value *FieldDescriptor) *MessageDescriptor {
	key.Number = 1
	key.Name = "key"
	key.EntryField = true
	value.Number = 2
	value.Name = "value"
	value.EntryField = true
	return &MessageDescriptor{
		FullName: fullName,
		Fields:   []*FieldDescriptor{key, value},
		MapEntry: true,
	}
}

// EnumValue is one named value of an enum type.
type EnumValue struct {
	Name   string
	Number int32
}

// EnumDescriptor describes an enum type.
type EnumDescriptor struct {
	FullName string
	Values   []EnumValue
}

// ValueByName returns the enum value with the given symbolic name.
// Matching is case-sensitive and exact.
func (d *EnumDescriptor) ValueByName(name string) (EnumValue, bool) {
	for _, ev := range d.Values {
		if ev.Name == name {
			return ev, true
		}
	}
	return EnumValue{}, false
}

// NameByNumber returns the symbolic name for an enum number.
func (d *EnumDescriptor) NameByNumber(n int32) (string, bool) {
	for _, ev := range d.Values {
		if ev.Number == n {
			return ev.Name, true
		}
	}
	return "", false
}
