package quill

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Schema is a set of message and enum descriptors loaded from a schema
// document, indexed by full name.
type Schema struct {
	Messages map[string]*MessageDescriptor
	Enums    map[string]*EnumDescriptor
}

// Message returns the message descriptor with the given full name.
func (s *Schema) Message(fullName string) (*MessageDescriptor, bool) {
	d, ok := s.Messages[fullName]
	return d, ok
}

// Enum returns the enum descriptor with the given full name.
func (s *Schema) Enum(fullName string) (*EnumDescriptor, bool) {
	d, ok := s.Enums[fullName]
	return d, ok
}

// YAML document shapes.
type schemaDoc struct {
	Messages []messageDoc `yaml:"messages"`
	Enums    []enumDoc    `yaml:"enums"`
}

type messageDoc struct {
	Name     string     `yaml:"name"`
	Presence string     `yaml:"presence"` // "explicit" for legacy semantics
	Fields   []fieldDoc `yaml:"fields"`
}

type fieldDoc struct {
	Name     string  `yaml:"name"`
	Number   int32   `yaml:"number"`
	Type     string  `yaml:"type"`
	JSONName string  `yaml:"json_name"`
	Repeated bool    `yaml:"repeated"`
	Map      *mapDoc `yaml:"map"`
}

type mapDoc struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

type enumDoc struct {
	Name   string           `yaml:"name"`
	Values map[string]int32 `yaml:"values"`
}

// ParseSchemaYAML loads a schema document. Message and enum references
// are resolved by name in a second pass, so self-referential and
// mutually recursive schemas work. Every resulting descriptor is
// validated.
//
// Document shape:
//
//	enums:
//	  - name: demo.Status
//	    values: {STATUS_UNKNOWN: 0, ACTIVE: 1}
//	messages:
//	  - name: demo.Event
//	    fields:
//	      - {name: id, number: 1, type: int64}
//	      - {name: status, number: 2, type: demo.Status}
//	      - {name: tags, number: 3, type: string, repeated: true}
//	      - {name: attrs, number: 4, map: {key: string, value: int32}}
//	      - {name: parent, number: 5, type: demo.Event}
func ParseSchemaYAML(data []byte) (*Schema, error) {
	var doc schemaDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("quill: invalid schema document: %w", err)
	}

	s := &Schema{
		Messages: make(map[string]*MessageDescriptor, len(doc.Messages)),
		Enums:    make(map[string]*EnumDescriptor, len(doc.Enums)),
	}

	for _, ed := range doc.Enums {
		if _, dup := s.Enums[ed.Name]; dup {
			return nil, fmt.Errorf("quill: duplicate enum %q", ed.Name)
		}
		values := make([]EnumValue, 0, len(ed.Values))
		for name, number := range ed.Values {
			values = append(values, EnumValue{Name: name, Number: number})
		}
		sort.Slice(values, func(i, j int) bool { return values[i].Number < values[j].Number })
		s.Enums[ed.Name] = &EnumDescriptor{FullName: ed.Name, Values: values}
	}

	// First pass: allocate message shells so fields can reference them.
	for _, md := range doc.Messages {
		if _, dup := s.Messages[md.Name]; dup {
			return nil, fmt.Errorf("quill: duplicate message %q", md.Name)
		}
		s.Messages[md.Name] = &MessageDescriptor{
			FullName:         md.Name,
			ExplicitPresence: md.Presence == "explicit",
		}
	}

	// Second pass: resolve field types.
	for _, md := range doc.Messages {
		target := s.Messages[md.Name]
		for _, fld := range md.Fields {
			fd, err := s.resolveField(md.Name, fld)
			if err != nil {
				return nil, err
			}
			target.Fields = append(target.Fields, fd)
		}
	}

	for _, d := range s.Messages {
		if err := d.Validate(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Schema) resolveField(owner string, fld fieldDoc) (*FieldDescriptor, error) {
	fd := &FieldDescriptor{
		Number:   fld.Number,
		Name:     fld.Name,
		JSONName: fld.JSONName,
	}

	if fld.Map != nil {
		if fld.Repeated {
			return nil, fmt.Errorf("quill: %s.%s: a field cannot be both map and repeated", owner, fld.Name)
		}
		key := &FieldDescriptor{}
		if err := s.resolveType(owner, fld.Name, fld.Map.Key, key); err != nil {
			return nil, err
		}
		value := &FieldDescriptor{}
		if err := s.resolveType(owner, fld.Name, fld.Map.Value, value); err != nil {
			return nil, err
		}
		fd.Kind = FieldMessage
		fd.Cardinality = MapField
		fd.Message = MapEntryDescriptor(owner+"."+camelCase("_"+fld.Name)+"Entry", key, value)
		return fd, nil
	}

	if err := s.resolveType(owner, fld.Name, fld.Type, fd); err != nil {
		return nil, err
	}
	if fld.Repeated {
		fd.Cardinality = RepeatedField
	}
	return fd, nil
}

func (s *Schema) resolveType(owner, field, typeName string, fd *FieldDescriptor) error {
	switch typeName {
	case "bool":
		fd.Kind = FieldBool
	case "int32":
		fd.Kind = FieldInt32
	case "int64":
		fd.Kind = FieldInt64
	case "float":
		fd.Kind = FieldFloat
	case "double":
		fd.Kind = FieldDouble
	case "string":
		fd.Kind = FieldString
	case "bytes":
		fd.Kind = FieldBytes
	case "":
		return fmt.Errorf("quill: %s.%s: missing type", owner, field)
	default:
		if ed, ok := s.Enums[typeName]; ok {
			fd.Kind = FieldEnum
			fd.Enum = ed
			return nil
		}
		if md, ok := s.Messages[typeName]; ok {
			fd.Kind = FieldMessage
			fd.Message = md
			return nil
		}
		if md := builtinWellKnown(typeName); md != nil {
			fd.Kind = FieldMessage
			fd.Message = md
			return nil
		}
		return fmt.Errorf("quill: %s.%s: unknown type %q", owner, field, typeName)
	}
	return nil
}

// builtinWellKnown resolves the well-known shapes without requiring
// them to be declared in the document.
func builtinWellKnown(name string) *MessageDescriptor {
	switch name {
	case DurationFullName:
		return DurationDescriptor()
	case TimestampFullName:
		return TimestampDescriptor()
	}
	return nil
}
