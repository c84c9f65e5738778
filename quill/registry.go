package quill

// Format is a full custom JSON mapping for one message shape: a writer
// (message value → JSON value) and a parser (JSON value → message
// value). Either half may be nil, in which case the default
// field-by-field conversion applies for that direction.
type Format struct {
	Write func(m *Message) (*JSONValue, error)
	Parse func(j *JSONValue, desc *MessageDescriptor) (*Message, error)
}

// Registry maps message shape identity (the schema full name) to its
// custom Format. A registry is immutable once built and therefore safe
// to share across any number of concurrent printers and parsers.
type Registry struct {
	formats map[string]Format
}

// NewRegistry builds a registry from the given formats. The input map
// is copied; later mutation of it does not affect the registry.
func NewRegistry(formats map[string]Format) *Registry {
	r := &Registry{formats: make(map[string]Format, len(formats))}
	for name, f := range formats {
		r.formats[name] = f
	}
	return r
}

// With returns a new registry extending r with one more format. The
// receiver is left untouched.
func (r *Registry) With(fullName string, f Format) *Registry {
	next := &Registry{formats: make(map[string]Format, len(r.formats)+1)}
	for name, existing := range r.formats {
		next.formats[name] = existing
	}
	next.formats[fullName] = f
	return next
}

// Lookup returns the format registered for a message shape.
func (r *Registry) Lookup(fullName string) (Format, bool) {
	f, ok := r.formats[fullName]
	return f, ok
}

// Len returns the number of registered formats.
func (r *Registry) Len() int {
	return len(r.formats)
}
