package quill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_Constructors(t *testing.T) {
	tests := []struct {
		name string
		v    *Value
		kind Kind
	}{
		{"empty", Empty(), KindEmpty},
		{"bool", Bool(true), KindBool},
		{"int32", Int32(-5), KindInt32},
		{"int64", Int64(1 << 60), KindInt64},
		{"float", Float(1.5), KindFloat},
		{"double", Double(2.5), KindDouble},
		{"string", Str("x"), KindString},
		{"bytes", Bytes([]byte{1}), KindBytes},
		{"enum", Enum(1), KindEnum},
		{"message", Msg(NewMessage(eventDescriptor())), KindMessage},
		{"repeated", Repeated(Int32(1), Int32(2)), KindRepeated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.v.Kind())
			assert.Equal(t, tt.kind.String(), tt.v.Kind().String())
		})
	}
}

func TestValue_Accessors(t *testing.T) {
	b, err := Bool(true).AsBool()
	require.NoError(t, err)
	assert.True(t, b)

	n, err := Int64(9007199254740993).AsInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740993), n)

	elems, err := Repeated(Str("a"), Str("b")).AsRepeated()
	require.NoError(t, err)
	assert.Len(t, elems, 2)

	// Kind mismatches surface as FormatError.
	_, err = Str("x").AsInt32()
	require.Error(t, err)
	var fe *FormatError
	assert.ErrorAs(t, err, &fe)

	_, err = Int32(1).AsMsg()
	assert.Error(t, err)
}

func TestValue_NilSafety(t *testing.T) {
	var v *Value
	assert.Equal(t, KindEmpty, v.Kind())
	assert.True(t, v.IsEmpty())
	assert.Equal(t, 0, v.Len())
	_, err := v.AsBool()
	assert.Error(t, err)
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, Int64(5).Equal(Int64(5)))
	assert.False(t, Int64(5).Equal(Int64(6)))
	assert.False(t, Int64(5).Equal(Int32(5)))
	assert.True(t, Bytes([]byte{1, 2}).Equal(Bytes([]byte{1, 2})))
	assert.False(t, Bytes([]byte{1, 2}).Equal(Bytes([]byte{1, 3})))
	assert.True(t, Repeated(Str("a")).Equal(Repeated(Str("a"))))
	assert.False(t, Repeated(Str("a")).Equal(Repeated()))
	assert.True(t, Empty().Equal(nil))
}

func TestMessage_SetGetClear(t *testing.T) {
	desc := eventDescriptor()
	m := NewMessage(desc)
	idFd := desc.FieldByName("id")
	require.NotNil(t, idFd)

	assert.False(t, m.Has(idFd))
	assert.Nil(t, m.Get(idFd))

	m.Set(idFd, Int64(42))
	assert.True(t, m.Has(idFd))
	assert.Equal(t, 1, m.Len())

	// Setting an empty value clears back to unset.
	m.Set(idFd, nil)
	assert.False(t, m.Has(idFd))

	m.SetByName("name", Str("x"))
	assert.Equal(t, "x", func() string { s, _ := m.GetByName("name").AsStr(); return s }())

	m.Clear(desc.FieldByName("name"))
	assert.Equal(t, 0, m.Len())
}

func TestMessage_RangeDeclarationOrder(t *testing.T) {
	desc := eventDescriptor()
	m := NewMessage(desc)
	m.SetByName("count", Int32(1))
	m.SetByName("id", Int64(2))
	m.SetByName("active", Bool(true))

	var order []string
	m.Range(func(fd *FieldDescriptor, v *Value) bool {
		order = append(order, fd.Name)
		return true
	})
	assert.Equal(t, []string{"id", "active", "count"}, order)
}

func TestMessage_Equal(t *testing.T) {
	desc := eventDescriptor()
	a := NewMessage(desc)
	a.SetByName("id", Int64(1))
	b := NewMessage(desc)
	b.SetByName("id", Int64(1))
	assert.True(t, a.Equal(b))

	b.SetByName("count", Int32(0))
	assert.False(t, a.Equal(b), "set-to-zero differs from unset")
}
