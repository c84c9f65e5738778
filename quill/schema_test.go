package quill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCamelCase(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"name", "name"},
		{"display_name", "displayName"},
		{"foo_bar_baz", "fooBarBaz"},
		{"already_Upper", "alreadyUpper"},
		{"trailing_", "trailing"},
		{"_leading", "Leading"},
		{"double__underscore", "doubleUnderscore"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, camelCase(tt.name))
		})
	}
}

func TestFieldDescriptor_JSONName(t *testing.T) {
	fd := &FieldDescriptor{Name: "display_name"}
	assert.Equal(t, "displayName", fd.jsonName())

	fd.JSONName = "display"
	assert.Equal(t, "display", fd.jsonName())
}

func TestMessageDescriptor_Validate(t *testing.T) {
	require.NoError(t, eventDescriptor().Validate())

	tests := []struct {
		name string
		desc *MessageDescriptor
	}{
		{"no full name", &MessageDescriptor{}},
		{"zero field number", &MessageDescriptor{
			FullName: "t.M",
			Fields:   []*FieldDescriptor{{Number: 0, Name: "a", Kind: FieldBool}},
		}},
		{"duplicate number", &MessageDescriptor{
			FullName: "t.M",
			Fields: []*FieldDescriptor{
				{Number: 1, Name: "a", Kind: FieldBool},
				{Number: 1, Name: "b", Kind: FieldBool},
			},
		}},
		{"duplicate name", &MessageDescriptor{
			FullName: "t.M",
			Fields: []*FieldDescriptor{
				{Number: 1, Name: "a", Kind: FieldBool},
				{Number: 2, Name: "a", Kind: FieldBool},
			},
		}},
		{"enum field without enum", &MessageDescriptor{
			FullName: "t.M",
			Fields:   []*FieldDescriptor{{Number: 1, Name: "a", Kind: FieldEnum}},
		}},
		{"message field without message", &MessageDescriptor{
			FullName: "t.M",
			Fields:   []*FieldDescriptor{{Number: 1, Name: "a", Kind: FieldMessage}},
		}},
		{"map field without entry schema", &MessageDescriptor{
			FullName: "t.M",
			Fields: []*FieldDescriptor{{
				Number: 1, Name: "a", Kind: FieldMessage, Cardinality: MapField,
				Message: &MessageDescriptor{FullName: "t.N"},
			}},
		}},
		{"map entry with wrong shape", &MessageDescriptor{
			FullName: "t.M",
			MapEntry: true,
			Fields:   []*FieldDescriptor{{Number: 1, Name: "key", Kind: FieldString}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.desc.Validate())
		})
	}
}

func TestMapEntryDescriptor(t *testing.T) {
	entry := MapEntryDescriptor("t.M.AttrsEntry",
		&FieldDescriptor{Kind: FieldString},
		&FieldDescriptor{Kind: FieldInt64},
	)
	require.NoError(t, entry.Validate())
	assert.True(t, entry.MapEntry)
	require.NotNil(t, entry.KeyField())
	require.NotNil(t, entry.ValueField())
	assert.Equal(t, "key", entry.KeyField().Name)
	assert.Equal(t, "value", entry.ValueField().Name)
	assert.True(t, entry.KeyField().EntryField)
	assert.Equal(t, FieldInt64, entry.ValueField().Kind)
}

func TestEnumDescriptor_Lookups(t *testing.T) {
	ed := statusEnum()

	ev, ok := ed.ValueByName("ACTIVE")
	require.True(t, ok)
	assert.Equal(t, int32(1), ev.Number)

	_, ok = ed.ValueByName("active")
	assert.False(t, ok, "matching must be case-sensitive")

	name, ok := ed.NameByNumber(2)
	require.True(t, ok)
	assert.Equal(t, "RETIRED", name)

	_, ok = ed.NameByNumber(99)
	assert.False(t, ok)
}
