package quill

// Message is a concrete message instance: a mapping from field
// descriptor to value. Fields absent from the mapping are unset, which
// is distinct from being set to a zero value under explicit-presence
// semantics.
type Message struct {
	desc   *MessageDescriptor
	fields map[int32]*Value
}

// NewMessage creates an empty message for the given schema.
func NewMessage(desc *MessageDescriptor) *Message {
	return &Message{
		desc:   desc,
		fields: make(map[int32]*Value),
	}
}

// Descriptor returns the message schema.
func (m *Message) Descriptor() *MessageDescriptor {
	return m.desc
}

// Set stores a value for the given field. A nil or empty value clears
// the field back to unset.
func (m *Message) Set(fd *FieldDescriptor, v *Value) *Message {
	if fd == nil {
		return m
	}
	if v.IsEmpty() {
		delete(m.fields, fd.Number)
		return m
	}
	m.fields[fd.Number] = v
	return m
}

// SetByName stores a value for the field with the given declared name.
// Unknown names are ignored.
func (m *Message) SetByName(name string, v *Value) *Message {
	return m.Set(m.desc.FieldByName(name), v)
}

// Get returns the value set for the field, or nil if unset.
func (m *Message) Get(fd *FieldDescriptor) *Value {
	if fd == nil {
		return nil
	}
	return m.fields[fd.Number]
}

// GetByName returns the value set for the named field, or nil.
func (m *Message) GetByName(name string) *Value {
	return m.Get(m.desc.FieldByName(name))
}

// Has returns true if the field is set.
func (m *Message) Has(fd *FieldDescriptor) bool {
	if fd == nil {
		return false
	}
	_, ok := m.fields[fd.Number]
	return ok
}

// Clear removes the field from the mapping.
func (m *Message) Clear(fd *FieldDescriptor) {
	if fd != nil {
		delete(m.fields, fd.Number)
	}
}

// Len returns the number of set fields.
func (m *Message) Len() int {
	return len(m.fields)
}

// Range calls fn for every set field in schema declaration order,
// stopping early if fn returns false.
func (m *Message) Range(fn func(fd *FieldDescriptor, v *Value) bool) {
	for _, fd := range m.desc.Fields {
		if v, ok := m.fields[fd.Number]; ok {
			if !fn(fd, v) {
				return
			}
		}
	}
}

// Equal reports whether two messages share a schema and are field-wise
// equal, treating unset fields as distinct from any set value.
func (m *Message) Equal(o *Message) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.desc.FullName != o.desc.FullName {
		return false
	}
	if len(m.fields) != len(o.fields) {
		return false
	}
	for n, v := range m.fields {
		ov, ok := o.fields[n]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
