package quill

import (
	"encoding/base64"
	"math"
	"strconv"
)

// ParseOptions configures a Parser.
type ParseOptions struct {
	// Formats overrides the conversion for specific message shapes.
	// Nil means DefaultFormats.
	Formats *Registry
}

// Parser converts JSON values to message values. It is immutable after
// construction and safe for concurrent use.
type Parser struct {
	formats *Registry
}

// NewParser creates a parser with the given options.
func NewParser(opts ParseOptions) *Parser {
	formats := opts.Formats
	if formats == nil {
		formats = DefaultFormats()
	}
	return &Parser{formats: formats}
}

// Parse decodes JSON text and converts it against the target schema.
func (p *Parser) Parse(input string, desc *MessageDescriptor) (*Message, error) {
	j, err := DecodeJSON(input)
	if err != nil {
		return nil, err
	}
	return p.FromJSON(j, desc)
}

// FromJSON converts a JSON value to a message of the target schema. A
// registered format for the schema's shape takes full precedence over
// field-by-field conversion. Fields absent from the JSON stay unset.
func (p *Parser) FromJSON(j *JSONValue, desc *MessageDescriptor) (*Message, error) {
	if desc == nil {
		return nil, formatErrorf("cannot parse without a target schema")
	}
	if f, ok := p.formats.Lookup(desc.FullName); ok && f.Parse != nil {
		return f.Parse(j, desc)
	}
	fields, err := j.Fields()
	if err != nil {
		return nil, formatErrorf("%s: expected object, found %s", desc.FullName, j.Type())
	}

	byName := make(map[string]*JSONValue, len(fields))
	for _, f := range fields {
		byName[f.Name] = f.Value
	}

	m := NewMessage(desc)
	for _, fd := range desc.Fields {
		jv, ok := byName[fd.jsonName()]
		if !ok {
			jv, ok = byName[fd.Name]
		}
		if !ok {
			continue
		}
		v, err := p.parseValue(desc, fd, jv)
		if err != nil {
			return nil, err
		}
		if v != nil {
			m.Set(fd, v)
		}
	}
	return m, nil
}

// parseValue converts the JSON value found for one field. A nil result
// with nil error means the field stays unset (null for a singular
// message field).
func (p *Parser) parseValue(desc *MessageDescriptor, fd *FieldDescriptor, jv *JSONValue) (*Value, error) {
	switch fd.Cardinality {
	case MapField:
		return p.parseMap(desc, fd, jv)

	case RepeatedField:
		items, err := jv.Items()
		if err != nil {
			return nil, formatErrorf("field %s of %s: expected array, found %s", fd.Name, desc.FullName, jv.Type())
		}
		elems := make([]*Value, 0, len(items))
		for _, item := range items {
			elem, err := p.parseSingular(desc, fd, item)
			if err != nil {
				return nil, err
			}
			if elem == nil {
				return nil, formatErrorf("field %s of %s: null element in repeated message field", fd.Name, desc.FullName)
			}
			elems = append(elems, elem)
		}
		return Repeated(elems...), nil

	default:
		return p.parseSingular(desc, fd, jv)
	}
}

// parseMap converts a JSON object into a repeated sequence of
// synthetic key/value entry messages.
func (p *Parser) parseMap(desc *MessageDescriptor, fd *FieldDescriptor, jv *JSONValue) (*Value, error) {
	fields, err := jv.Fields()
	if err != nil {
		return nil, formatErrorf("field %s of %s: expected object, found %s", fd.Name, desc.FullName, jv.Type())
	}
	entryDesc := fd.Message
	keyFd, valFd := entryDesc.KeyField(), entryDesc.ValueField()
	if keyFd == nil || valFd == nil {
		return nil, formatErrorf("field %s of %s: malformed map entry schema %s", fd.Name, desc.FullName, entryDesc.FullName)
	}

	entries := make([]*Value, 0, len(fields))
	seen := make(map[string]int, len(fields))
	for _, f := range fields {
		key, err := p.parseMapKey(desc, fd, keyFd, f.Name)
		if err != nil {
			return nil, err
		}
		val, err := p.parseSingular(entryDesc, valFd, f.Value)
		if err != nil {
			return nil, err
		}
		if val == nil {
			return nil, formatErrorf("field %s of %s: null value for map key %q", fd.Name, desc.FullName, f.Name)
		}
		entry := NewMessage(entryDesc)
		entry.Set(keyFd, key)
		entry.Set(valFd, val)
		// A repeated key overwrites the earlier entry; the last
		// occurrence wins, same as for top-level object members.
		if i, dup := seen[f.Name]; dup {
			entries[i] = Msg(entry)
			continue
		}
		seen[f.Name] = len(entries)
		entries = append(entries, Msg(entry))
	}
	return Repeated(entries...), nil
}

// parseMapKey converts JSON object key text to the key field's scalar
// type.
func (p *Parser) parseMapKey(desc *MessageDescriptor, fd, keyFd *FieldDescriptor, text string) (*Value, error) {
	switch keyFd.Kind {
	case FieldBool:
		switch text {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
		return nil, formatErrorf("field %s of %s: invalid bool map key %q", fd.Name, desc.FullName, text)
	case FieldInt32:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, wrapFormatError(err, "field %s of %s: invalid int32 map key %q", fd.Name, desc.FullName, text)
		}
		return Int32(int32(n)), nil
	case FieldInt64:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, wrapFormatError(err, "field %s of %s: invalid int64 map key %q", fd.Name, desc.FullName, text)
		}
		return Int64(n), nil
	case FieldFloat:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return nil, wrapFormatError(err, "field %s of %s: invalid float map key %q", fd.Name, desc.FullName, text)
		}
		return Float(float32(f)), nil
	case FieldDouble:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, wrapFormatError(err, "field %s of %s: invalid double map key %q", fd.Name, desc.FullName, text)
		}
		return Double(f), nil
	case FieldString:
		return Str(text), nil
	default:
		return nil, formatErrorf("field %s of %s: unsupported map key type %s", fd.Name, desc.FullName, keyFd.Kind)
	}
}

// parseSingular converts one JSON value per the field's declared type.
// The (type, JSON kind) dispatch mirrors the printer's encodings; any
// unlisted combination is a format error.
func (p *Parser) parseSingular(desc *MessageDescriptor, fd *FieldDescriptor, jv *JSONValue) (*Value, error) {
	mismatch := func() (*Value, error) {
		return nil, formatErrorf("field %s of %s: cannot parse JSON %s as %s", fd.Name, desc.FullName, jv.Type(), fd.Kind)
	}

	switch fd.Kind {
	case FieldMessage:
		if jv.IsNull() {
			// Null leaves a singular message field unset.
			return nil, nil
		}
		sub, err := p.FromJSON(jv, fd.Message)
		if err != nil {
			return nil, err
		}
		return Msg(sub), nil

	case FieldEnum:
		if jv.IsNull() {
			return Enum(0), nil
		}
		name, err := jv.AsStr()
		if err != nil {
			return mismatch()
		}
		ev, ok := fd.Enum.ValueByName(name)
		if !ok {
			return nil, formatErrorf("field %s of %s: unrecognized enum value %q for %s", fd.Name, desc.FullName, name, fd.Enum.FullName)
		}
		return Enum(ev.Number), nil

	case FieldBool:
		if jv.IsNull() {
			return Bool(false), nil
		}
		b, err := jv.AsBool()
		if err != nil {
			return mismatch()
		}
		return Bool(b), nil

	case FieldInt32:
		if jv.IsNull() {
			return Int32(0), nil
		}
		if jv.Type() != JSONNumber {
			return mismatch()
		}
		n, err := parseIntegral(jv)
		if err != nil {
			return nil, wrapFormatError(err, "field %s of %s", fd.Name, desc.FullName)
		}
		return Int32(int32(n)), nil

	case FieldInt64:
		if jv.IsNull() {
			return Int64(0), nil
		}
		switch jv.Type() {
		case JSONNumber:
			n, err := parseIntegral(jv)
			if err != nil {
				return nil, wrapFormatError(err, "field %s of %s", fd.Name, desc.FullName)
			}
			return Int64(n), nil
		case JSONString:
			s, _ := jv.AsStr()
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, wrapFormatError(err, "field %s of %s: invalid int64 string %q", fd.Name, desc.FullName, s)
			}
			return Int64(n), nil
		}
		return mismatch()

	case FieldFloat:
		if jv.IsNull() {
			return Float(0), nil
		}
		f, ok, err := parseFloaty(jv)
		if err != nil {
			return nil, wrapFormatError(err, "field %s of %s", fd.Name, desc.FullName)
		}
		if !ok {
			return mismatch()
		}
		return Float(float32(f)), nil

	case FieldDouble:
		if jv.IsNull() {
			return Double(0), nil
		}
		f, ok, err := parseFloaty(jv)
		if err != nil {
			return nil, wrapFormatError(err, "field %s of %s", fd.Name, desc.FullName)
		}
		if !ok {
			return mismatch()
		}
		return Double(f), nil

	case FieldString:
		if jv.IsNull() {
			return Str(""), nil
		}
		s, err := jv.AsStr()
		if err != nil {
			return mismatch()
		}
		return Str(s), nil

	case FieldBytes:
		if jv.IsNull() {
			return Bytes(nil), nil
		}
		s, err := jv.AsStr()
		if err != nil {
			return mismatch()
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, wrapFormatError(err, "field %s of %s: invalid base64", fd.Name, desc.FullName)
		}
		return Bytes(b), nil

	default:
		return mismatch()
	}
}

// parseIntegral reads a number node as a 64-bit integer, truncating a
// decimal-form number toward zero.
func parseIntegral(jv *JSONValue) (int64, error) {
	if jv.IsInt() {
		return jv.Int64()
	}
	f, err := jv.Float64()
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

// parseFloaty reads a number node, or one of the nonfinite string
// encodings, as float64. ok is false for any other JSON kind.
func parseFloaty(jv *JSONValue) (f float64, ok bool, err error) {
	switch jv.Type() {
	case JSONNumber:
		f, err = jv.Float64()
		return f, true, err
	case JSONString:
		s, _ := jv.AsStr()
		switch s {
		case "NaN":
			return math.NaN(), true, nil
		case "Infinity":
			return math.Inf(1), true, nil
		case "-Infinity":
			return math.Inf(-1), true, nil
		}
		return 0, false, nil
	}
	return 0, false, nil
}
