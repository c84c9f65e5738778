package quill

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Shared schema fixtures: a demo.Event message exercising every field
// kind and cardinality, including a self-referential message field.

func statusEnum() *EnumDescriptor {
	return &EnumDescriptor{
		FullName: "demo.Status",
		Values: []EnumValue{
			{Name: "STATUS_UNKNOWN", Number: 0},
			{Name: "ACTIVE", Number: 1},
			{Name: "RETIRED", Number: 2},
		},
	}
}

func eventDescriptor() *MessageDescriptor {
	status := statusEnum()
	event := &MessageDescriptor{FullName: "demo.Event"}
	attrsEntry := MapEntryDescriptor("demo.Event.AttrsEntry",
		&FieldDescriptor{Kind: FieldString},
		&FieldDescriptor{Kind: FieldInt32},
	)
	event.Fields = []*FieldDescriptor{
		{Number: 1, Name: "id", Kind: FieldInt64},
		{Number: 2, Name: "name", Kind: FieldString},
		{Number: 3, Name: "display_name", Kind: FieldString},
		{Number: 4, Name: "active", Kind: FieldBool},
		{Number: 5, Name: "count", Kind: FieldInt32},
		{Number: 6, Name: "ratio", Kind: FieldDouble},
		{Number: 7, Name: "weight", Kind: FieldFloat},
		{Number: 8, Name: "payload", Kind: FieldBytes},
		{Number: 9, Name: "status", Kind: FieldEnum, Enum: status},
		{Number: 10, Name: "tags", Kind: FieldString, Cardinality: RepeatedField},
		{Number: 11, Name: "attrs", Kind: FieldMessage, Cardinality: MapField, Message: attrsEntry},
		{Number: 12, Name: "parent", Kind: FieldMessage, Message: event},
		{Number: 13, Name: "children", Kind: FieldMessage, Cardinality: RepeatedField, Message: event},
	}
	return event
}

func mustPrint(t *testing.T, p *Printer, m *Message) string {
	t.Helper()
	out, err := p.Print(m)
	require.NoError(t, err)
	return out
}
