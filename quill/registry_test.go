package quill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_OverridePrecedence(t *testing.T) {
	desc := eventDescriptor()

	canned := NewMessage(desc)
	canned.SetByName("name", Str("from custom parser"))

	formats := DefaultFormats().With(desc.FullName, Format{
		Write: func(m *Message) (*JSONValue, error) {
			return StringJSON("custom"), nil
		},
		Parse: func(j *JSONValue, d *MessageDescriptor) (*Message, error) {
			return canned, nil
		},
	})

	// The message's own fields would convert fine, but the override
	// must win outright.
	m := NewMessage(desc)
	m.SetByName("name", Str("ignored"))

	p := NewPrinter(PrintOptions{Formats: formats})
	out, err := p.Print(m)
	require.NoError(t, err)
	assert.Equal(t, `"custom"`, out)

	parser := NewParser(ParseOptions{Formats: formats})
	got, err := parser.Parse(`{"name":"also ignored"}`, desc)
	require.NoError(t, err)
	assert.True(t, got.Equal(canned))
}

func TestRegistry_PartialFormat(t *testing.T) {
	desc := eventDescriptor()

	// Writer-only format: parsing still walks field by field.
	formats := NewRegistry(map[string]Format{
		desc.FullName: {
			Write: func(m *Message) (*JSONValue, error) {
				return StringJSON("w"), nil
			},
		},
	})

	parser := NewParser(ParseOptions{Formats: formats})
	m, err := parser.Parse(`{"name":"x"}`, desc)
	require.NoError(t, err)
	assert.True(t, m.GetByName("name").Equal(Str("x")))
}

func TestRegistry_WithDoesNotMutate(t *testing.T) {
	base := NewRegistry(nil)
	derived := base.With("t.M", Format{})

	assert.Equal(t, 0, base.Len())
	assert.Equal(t, 1, derived.Len())

	_, ok := base.Lookup("t.M")
	assert.False(t, ok)
	_, ok = derived.Lookup("t.M")
	assert.True(t, ok)
}

func TestRegistry_CopiesInputMap(t *testing.T) {
	in := map[string]Format{"t.M": {}}
	r := NewRegistry(in)
	delete(in, "t.M")

	_, ok := r.Lookup("t.M")
	assert.True(t, ok)
}

func TestDefaultFormats(t *testing.T) {
	r := DefaultFormats()
	_, ok := r.Lookup(DurationFullName)
	assert.True(t, ok)
	_, ok = r.Lookup(TimestampFullName)
	assert.True(t, ok)
}
