package quill

import (
	"encoding/base64"
	"math"
	"strconv"
)

// PrintOptions configures a Printer. The zero value gives canonical
// proto3 output: zero-valued scalars elided, camelCase names, 64-bit
// integers as JSON strings.
type PrintOptions struct {
	// IncludeDefaults emits fields at their zero/default value instead
	// of omitting them.
	IncludeDefaults bool

	// PreserveFieldNames emits the declared field name verbatim instead
	// of the camelCase JSON name.
	PreserveFieldNames bool

	// LongsAsNumbers emits 64-bit integers as JSON numbers. The default
	// JSON-string encoding exists because JSON numbers do not preserve
	// 64-bit precision in all consumers.
	LongsAsNumbers bool

	// Formats overrides the conversion for specific message shapes.
	// Nil means DefaultFormats.
	Formats *Registry
}

// Printer converts message values to JSON. It is immutable after
// construction and safe for concurrent use.
type Printer struct {
	opts    PrintOptions
	formats *Registry
}

// NewPrinter creates a printer with the given options.
func NewPrinter(opts PrintOptions) *Printer {
	formats := opts.Formats
	if formats == nil {
		formats = DefaultFormats()
	}
	return &Printer{opts: opts, formats: formats}
}

// Print converts a message to compact JSON text.
func (p *Printer) Print(m *Message) (string, error) {
	j, err := p.ToJSON(m)
	if err != nil {
		return "", err
	}
	return j.Render(), nil
}

// ToJSON converts a message to a JSON value. A registered format for
// the message's shape takes full precedence over field-by-field
// conversion.
func (p *Printer) ToJSON(m *Message) (*JSONValue, error) {
	if m == nil || m.desc == nil {
		return nil, formatErrorf("cannot print a nil message")
	}
	if f, ok := p.formats.Lookup(m.desc.FullName); ok && f.Write != nil {
		return f.Write(m)
	}

	fields := make([]JSONField, 0, m.Len())
	for _, fd := range m.desc.Fields {
		out, err := p.fieldJSON(m, fd)
		if err != nil {
			return nil, err
		}
		if out == nil {
			continue
		}
		name := fd.jsonName()
		if p.opts.PreserveFieldNames {
			name = fd.Name
		}
		fields = append(fields, JSONField{Name: name, Value: out})
	}
	return ObjectJSON(fields...), nil
}

// fieldJSON converts one field of a message, returning nil when the
// field should be omitted from the output object.
func (p *Printer) fieldJSON(m *Message, fd *FieldDescriptor) (*JSONValue, error) {
	v := m.Get(fd)

	switch fd.Cardinality {
	case MapField:
		if !v.IsEmpty() && v.Kind() != KindRepeated {
			return nil, formatErrorf("field %s.%s: unexpected %s value for map field", m.desc.FullName, fd.Name, v.Kind())
		}
		if v.Len() == 0 {
			if p.opts.IncludeDefaults {
				return ObjectJSON(), nil
			}
			return nil, nil
		}
		return p.mapJSON(m.desc, fd, v)

	case RepeatedField:
		if !v.IsEmpty() && v.Kind() != KindRepeated {
			return nil, formatErrorf("field %s.%s: unexpected %s value for repeated field", m.desc.FullName, fd.Name, v.Kind())
		}
		if v.Len() == 0 {
			if p.opts.IncludeDefaults {
				return ArrayJSON(), nil
			}
			return nil, nil
		}
		elems, err := v.AsRepeated()
		if err != nil {
			return nil, wrapFormatError(err, "field %s.%s", m.desc.FullName, fd.Name)
		}
		items := make([]*JSONValue, 0, len(elems))
		for _, elem := range elems {
			item, err := p.elementJSON(m.desc, fd, elem)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return ArrayJSON(items...), nil

	default:
		if fd.Kind == FieldMessage {
			// Unset nested messages emit nothing: never null, and
			// never a recursion into a default instance.
			if v.IsEmpty() {
				return nil, nil
			}
			sub, err := v.AsMsg()
			if err != nil {
				return nil, wrapFormatError(err, "field %s.%s", m.desc.FullName, fd.Name)
			}
			return p.ToJSON(sub)
		}
		if v.IsEmpty() {
			if p.opts.IncludeDefaults {
				return p.zeroJSON(m.desc, fd)
			}
			return nil, nil
		}
		if !p.opts.IncludeDefaults && !m.desc.ExplicitPresence && isZeroScalar(v) {
			return nil, nil
		}
		return p.scalarJSON(m.desc, fd, v)
	}
}

// elementJSON converts one element of a repeated field.
func (p *Printer) elementJSON(desc *MessageDescriptor, fd *FieldDescriptor, elem *Value) (*JSONValue, error) {
	if fd.Kind == FieldMessage {
		sub, err := elem.AsMsg()
		if err != nil {
			return nil, wrapFormatError(err, "field %s.%s", desc.FullName, fd.Name)
		}
		return p.ToJSON(sub)
	}
	return p.scalarJSON(desc, fd, elem)
}

// mapJSON converts a map field (a repeated sequence of synthetic
// key/value entries) to a JSON object.
func (p *Printer) mapJSON(desc *MessageDescriptor, fd *FieldDescriptor, v *Value) (*JSONValue, error) {
	entries, err := v.AsRepeated()
	if err != nil {
		return nil, wrapFormatError(err, "field %s.%s", desc.FullName, fd.Name)
	}
	entryDesc := fd.Message
	keyFd, valFd := entryDesc.KeyField(), entryDesc.ValueField()
	if keyFd == nil || valFd == nil {
		return nil, formatErrorf("field %s.%s: malformed map entry schema %s", desc.FullName, fd.Name, entryDesc.FullName)
	}

	fields := make([]JSONField, 0, len(entries))
	for _, entry := range entries {
		em, err := entry.AsMsg()
		if err != nil {
			return nil, wrapFormatError(err, "field %s.%s", desc.FullName, fd.Name)
		}
		key, err := p.mapKeyString(desc, fd, keyFd, em.Get(keyFd))
		if err != nil {
			return nil, err
		}
		val, err := p.elementJSON(entryDesc, valFd, em.Get(valFd))
		if err != nil {
			return nil, err
		}
		fields = append(fields, JSONField{Name: key, Value: val})
	}
	return ObjectJSON(fields...), nil
}

// mapKeyString renders a map entry key as JSON object key text.
func (p *Printer) mapKeyString(desc *MessageDescriptor, fd, keyFd *FieldDescriptor, key *Value) (string, error) {
	fail := func(err error) (string, error) {
		return "", wrapFormatError(err, "map key of field %s.%s", desc.FullName, fd.Name)
	}
	switch keyFd.Kind {
	case FieldBool:
		b, err := key.AsBool()
		if err != nil {
			return fail(err)
		}
		return strconv.FormatBool(b), nil
	case FieldInt32:
		n, err := key.AsInt32()
		if err != nil {
			return fail(err)
		}
		return strconv.FormatInt(int64(n), 10), nil
	case FieldInt64:
		n, err := key.AsInt64()
		if err != nil {
			return fail(err)
		}
		return strconv.FormatInt(n, 10), nil
	case FieldFloat:
		f, err := key.AsFloat()
		if err != nil {
			return fail(err)
		}
		return strconv.FormatFloat(float64(f), 'f', -1, 32), nil
	case FieldDouble:
		f, err := key.AsDouble()
		if err != nil {
			return fail(err)
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	case FieldString:
		s, err := key.AsStr()
		if err != nil {
			return fail(err)
		}
		return s, nil
	default:
		return "", formatErrorf("field %s.%s: unsupported map key type %s", desc.FullName, fd.Name, keyFd.Kind)
	}
}

// scalarJSON converts a set non-message value per its declared type.
func (p *Printer) scalarJSON(desc *MessageDescriptor, fd *FieldDescriptor, v *Value) (*JSONValue, error) {
	fail := func(err error) (*JSONValue, error) {
		return nil, wrapFormatError(err, "field %s.%s", desc.FullName, fd.Name)
	}
	switch fd.Kind {
	case FieldBool:
		b, err := v.AsBool()
		if err != nil {
			return fail(err)
		}
		return BoolJSON(b), nil
	case FieldInt32:
		n, err := v.AsInt32()
		if err != nil {
			return fail(err)
		}
		return IntJSON(int64(n)), nil
	case FieldInt64:
		n, err := v.AsInt64()
		if err != nil {
			return fail(err)
		}
		if p.opts.LongsAsNumbers {
			return IntJSON(n), nil
		}
		return StringJSON(strconv.FormatInt(n, 10)), nil
	case FieldFloat:
		f, err := v.AsFloat()
		if err != nil {
			return fail(err)
		}
		if j, ok := nonFiniteJSON(float64(f)); ok {
			return j, nil
		}
		return FloatJSON(float64(f), 32), nil
	case FieldDouble:
		f, err := v.AsDouble()
		if err != nil {
			return fail(err)
		}
		if j, ok := nonFiniteJSON(f); ok {
			return j, nil
		}
		return FloatJSON(f, 64), nil
	case FieldString:
		s, err := v.AsStr()
		if err != nil {
			return fail(err)
		}
		return StringJSON(s), nil
	case FieldBytes:
		b, err := v.AsBytes()
		if err != nil {
			return fail(err)
		}
		return StringJSON(base64.StdEncoding.EncodeToString(b)), nil
	case FieldEnum:
		n, err := v.AsEnum()
		if err != nil {
			return fail(err)
		}
		name, ok := fd.Enum.NameByNumber(n)
		if !ok {
			return nil, formatErrorf("field %s.%s: enum %s has no value numbered %d", desc.FullName, fd.Name, fd.Enum.FullName, n)
		}
		return StringJSON(name), nil
	default:
		return nil, formatErrorf("field %s.%s: unexpected %s value for %s field", desc.FullName, fd.Name, v.Kind(), fd.Kind)
	}
}

// nonFiniteJSON maps NaN and the infinities to their string encodings.
// JSON numbers cannot carry them.
func nonFiniteJSON(f float64) (*JSONValue, bool) {
	switch {
	case math.IsNaN(f):
		return StringJSON("NaN"), true
	case math.IsInf(f, 1):
		return StringJSON("Infinity"), true
	case math.IsInf(f, -1):
		return StringJSON("-Infinity"), true
	}
	return nil, false
}

// zeroJSON renders the zero value of a scalar field, used when
// IncludeDefaults forces unset fields into the output.
func (p *Printer) zeroJSON(desc *MessageDescriptor, fd *FieldDescriptor) (*JSONValue, error) {
	switch fd.Kind {
	case FieldBool:
		return BoolJSON(false), nil
	case FieldInt32:
		return IntJSON(0), nil
	case FieldInt64:
		if p.opts.LongsAsNumbers {
			return IntJSON(0), nil
		}
		return StringJSON("0"), nil
	case FieldFloat, FieldDouble:
		return NumberJSON("0"), nil
	case FieldString:
		return StringJSON(""), nil
	case FieldBytes:
		return StringJSON(""), nil
	case FieldEnum:
		name, ok := fd.Enum.NameByNumber(0)
		if !ok {
			return nil, formatErrorf("field %s.%s: enum %s has no value numbered 0", desc.FullName, fd.Name, fd.Enum.FullName)
		}
		return StringJSON(name), nil
	default:
		return nil, formatErrorf("field %s.%s: no zero representation for %s field", desc.FullName, fd.Name, fd.Kind)
	}
}

// isZeroScalar reports whether a set scalar holds its type's zero
// value. Proto3 presence semantics elide such fields.
func isZeroScalar(v *Value) bool {
	switch v.Kind() {
	case KindBool:
		return !v.boolVal
	case KindInt32:
		return v.i32Val == 0
	case KindInt64:
		return v.i64Val == 0
	case KindFloat:
		return v.f32Val == 0
	case KindDouble:
		return v.f64Val == 0
	case KindString:
		return v.strVal == ""
	case KindBytes:
		return len(v.bytesVal) == 0
	case KindEnum:
		return v.enumVal == 0
	default:
		return false
	}
}
