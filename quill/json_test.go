package quill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON_PreservesOrderAndLiterals(t *testing.T) {
	j, err := DecodeJSON(`{"b":1,"a":9007199254740993,"c":[true,null,"x"],"d":1.50}`)
	require.NoError(t, err)

	fields, err := j.Fields()
	require.NoError(t, err)
	require.Len(t, fields, 4)
	assert.Equal(t, "b", fields[0].Name)
	assert.Equal(t, "a", fields[1].Name)

	lit, err := fields[1].Value.NumberLiteral()
	require.NoError(t, err)
	assert.Equal(t, "9007199254740993", lit, "64-bit integers must survive decoding intact")

	lit, err = fields[3].Value.NumberLiteral()
	require.NoError(t, err)
	assert.Equal(t, "1.50", lit)

	items, err := fields[2].Value.Items()
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, JSONBool, items[0].Type())
	assert.Equal(t, JSONNull, items[1].Type())
	assert.Equal(t, JSONString, items[2].Type())
}

func TestDecodeJSON_Errors(t *testing.T) {
	for _, input := range []string{"", "{", `{"a":}`, "[1,]", `{"a":1} extra`} {
		t.Run(input, func(t *testing.T) {
			_, err := DecodeJSON(input)
			assert.Error(t, err)
		})
	}
}

func TestJSONValue_IsInt(t *testing.T) {
	tests := []struct {
		lit  string
		want bool
	}{
		{"0", true},
		{"-42", true},
		{"3.5", false},
		{"1e3", false},
		{"2E-2", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NumberJSON(tt.lit).IsInt(), tt.lit)
	}
}

func TestJSONValue_NumberParsing(t *testing.T) {
	n, err := NumberJSON("9007199254740993").Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740993), n)

	f, err := NumberJSON("1.5e2").Float64()
	require.NoError(t, err)
	assert.Equal(t, 150.0, f)

	_, err = NumberJSON("3.5").Int64()
	assert.Error(t, err)
}

func TestJSONValue_Render(t *testing.T) {
	tests := []struct {
		name string
		v    *JSONValue
		want string
	}{
		{"null", NullJSON(), "null"},
		{"true", BoolJSON(true), "true"},
		{"number", IntJSON(-7), "-7"},
		{"string", StringJSON("hi"), `"hi"`},
		{"escapes", StringJSON("a\"b\\c\nd\x01"), `"a\"b\\c\nd"`},
		{"unicode", StringJSON("héllo"), `"héllo"`},
		{"empty array", ArrayJSON(), "[]"},
		{"array", ArrayJSON(IntJSON(1), StringJSON("x")), `[1,"x"]`},
		{"empty object", ObjectJSON(), "{}"},
		{
			"object order",
			ObjectJSON(
				JSONField{Name: "b", Value: IntJSON(1)},
				JSONField{Name: "a", Value: NullJSON()},
			),
			`{"b":1,"a":null}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Render())
		})
	}
}

func TestJSONValue_RenderDecodeRoundTrip(t *testing.T) {
	input := `{"b":1,"a":[true,null,{"k":"v"}],"n":9007199254740993,"f":1.5}`
	j, err := DecodeJSON(input)
	require.NoError(t, err)
	assert.Equal(t, input, j.Render())
}

func TestJSONValue_Field(t *testing.T) {
	j, err := DecodeJSON(`{"a":1,"b":2}`)
	require.NoError(t, err)

	v, ok := j.Field("b")
	require.True(t, ok)
	n, err := v.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, ok = j.Field("missing")
	assert.False(t, ok)
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		val  float64
		bits int
		want string
	}{
		{0, 64, "0"},
		{1.5, 64, "1.5"},
		{-2.25, 32, "-2.25"},
		{1e21, 64, "1e+21"},
		{1e-7, 64, "1e-7"},
		{3, 64, "3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatFloat(tt.val, tt.bits), tt.want)
	}
}
